// Package viz runs an effect session in the terminal.
//
// The Bubble Tea program is the host scheduler: every [TickMsg] runs one
// session tick into a Braille canvas, and backend loads run as commands whose
// results come back as messages, so the session is only touched from Update.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Reset the active effect
//	+/- =/_ - Zoom in/out by 10%
//	Tab     - Cycle speed/density/zoom
//	Up/Down - Tune the selected control
//	Enter   - Type a value for the selected control
//	A       - Toggle auto zoom
//	N, 1-9  - Next effect / effect by number
//	T       - Cycle color themes
//	E       - Export the canvas as SVG
//	?       - Toggle help
//
// The mouse wheel scales speed; with Shift, Ctrl or Alt held it scales zoom.
package viz
