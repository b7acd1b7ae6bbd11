// Package render holds the drawing sink contract and its implementations.
//
// A [Sink] takes logical coordinates with the origin at the top left. Two
// sinks ship with the package:
//
//   - [Braille]: a terminal canvas of Unicode Braille cells, 2x4 dots per cell
//   - [Raster]: an RGBA pixmap backed by gogpu/gg, scaled by the surface
//     scale factor and encodable as PNG
package render
