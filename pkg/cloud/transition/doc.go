// Package transition reconciles two layout passes into animation steps.
//
// Labels are keyed by token. [Diff] compares the most recently committed
// [RenderedLabelSet] with a new list of placements and classifies every
// token as entering, persisting (update) or exiting. Each class gets its
// own origin, stagger and duration:
//
//   - Exit: fade to transparent while sliding off the right edge
//     (x = width + 30) over [ExitDuration], then discard.
//   - Enter on the first render: appear in place, growing from
//     [EnterFontSize] while fading in, staggered by rank x [FirstStagger].
//   - Enter on later renders: slide in from the right edge while fading
//     in and growing, staggered by rank x [EnterStagger].
//   - Update: move from the previous x and font size to the new ones,
//     staggered by rank x [UpdateStagger].
//
// Diff is a pure function. The returned [Plan] carries the next committed
// set, which the caller passes back into the following Diff. A render is
// "first" whenever the previous set is empty, including after a pass that
// cleared every label.
package transition
