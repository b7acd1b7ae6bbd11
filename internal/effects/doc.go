// Package effects provides the built-in point-cloud backends.
//
// Each effect implements [effect.Backend] and sizes its point set from the
// canvas area and the requested density:
//
//   - [LiveBG]: a breathing curve field fitted to the surface
//   - [Fire]: embers rising from the bottom edge
//   - [Spiral]: a wobbling spiral, the starting point for new effects
//
// # Point Count
//
// All built-ins keep density*width*height points, clamped to
// [MinPoints, MaxPoints]. The count changes only on SetCanvas or SetDensity.
package effects
