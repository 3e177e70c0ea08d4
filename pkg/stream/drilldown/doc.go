// Package drilldown implements the hover tooltip of a streamgraph.
//
// A [Controller] is a two-state machine. It is Idle until the pointer
// enters a band, then Active and bound to that band's series:
//
//	Idle   --hover(series)-->  Active(series)
//	Active --hover(other)--->  Active(other)   content rebuilt
//	Active --leave---------->  Idle            panel hidden and cleared
//
// While Active the controller keeps a [Panel] showing a [Tooltip]: the
// series name and a [BarChart] of that series' raw values, one bar per
// record, placed next to the pointer. The bar chart has its own scales;
// its y axis always starts at zero and ends at the series maximum.
//
// [BuildBarChart] feeds the SVG sink, which pre-renders one panel per band
// and leaves the hover state machine to a small inline script in the
// viewer. [Controller] and [Controller.HoverAt] are the same state machine as Go API
// for hosts that handle pointer events themselves.
package drilldown
