// Package stream builds wiggle-offset stacked area charts ("streamgraphs").
//
// # Overview
//
// [Build] turns an ordered list of [series.Record] values into a [Chart]:
// one [Band] per series, an x axis and a legend. The pipeline is:
//
//  1. Wiggle ([Wiggle]): choose a baseline per record that minimizes the
//     weighted change in band slope between neighboring records.
//  2. Stack ([Stack]): place the series on that baseline bottom-up, in the
//     configured series order, so each band is exactly as thick as its
//     value.
//  3. Scale: map time onto [margin.left, width-margin.right] and values
//     onto [-0.2*maxTotal, maxTotal] (bottom to top). The negative 20% is
//     headroom below the baseline, not data.
//  4. Curve ([AreaPath]): draw each band as a centripetal Catmull-Rom
//     area, top edge forward and bottom edge back.
//
// # Degenerate input
//
// Zero records produce a chart with no bands and no axis. A single record
// produces zero-width bands at the left edge; the time domain is widened
// so no scale divides by zero.
package stream
