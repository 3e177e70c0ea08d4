// Package layout places ranked terms on a single horizontal row.
//
// Font sizes grow linearly with term counts. Labels are then laid out
// left to right in ranked order with a fixed padding between them, and one
// of two policies decides the final x positions:
//
//   - Fit: when the natural row fits inside the usable width (canvas width
//     minus both margins), the leftover space is spread evenly as extra
//     gap so the row spans the whole usable width.
//   - Overflow: otherwise the offsets are compressed by a uniform factor
//     that never drops below [Config.MinScale], then shifted left so the
//     row ends at the right margin. Font sizes are not scaled. A row that
//     would then start left of the canvas is compressed further so it
//     starts at zero ([Result.Clamped]); no term is ever dropped.
//
// Every label is vertically centered at half the canvas height. The engine
// is pure: given the same terms and measurer it returns the same [Result].
//
// # Widths
//
// Widths come from a [measure.Measurer], which must measure with the same
// font the renderer will use. The returned placements carry the measured
// width so renderers and tests never need to measure again.
package layout
