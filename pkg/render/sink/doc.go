// Package sink writes laid-out clouds and streamgraphs to output formats.
//
// # SVG
//
// [RenderCloudSVG] draws a label cloud. By default every step of the
// transition plan becomes SMIL <animate> elements, so opening the file
// replays the enter, update and exit motion with the same delays and
// durations an interactive surface would use. [WithStatic] drops the
// animation and draws only the final frame.
//
// [RenderStreamSVG] draws the bands, the time axis and the legend. With
// [WithTooltips] it also emits one hidden drill-down panel per series and
// a small script that shows the panel of the hovered band next to the
// pointer and hides it when the pointer leaves.
//
// # PNG
//
// [RenderCloudPNG] and [RenderStreamPNG] rasterize the final frame with
// fogleman/gg, using the same Go Regular outlines the layout measured.
//
// # JSON
//
// [RenderCloudJSON] and [RenderStreamJSON] export the geometry for other
// front ends.
package sink
