// Package effect defines the capability contract shared by every point-cloud
// simulation backend.
//
// A backend is opaque: it computes point positions internally and exposes
// only fixed-width numeric operations:
//
//   - [Backend]: the ten calls every effect implements
//   - [Surface]: logical render-surface geometry pushed into a backend
//   - [Loader]: constructs a backend instance on first use
//
// # Thread Safety
//
// Backends are NOT safe for concurrent use. The session drives them from a
// single logical thread of control.
package effect
