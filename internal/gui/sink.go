package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/livebg/internal/render"
)

const fontSize = 12

// sink draws with raylib into whatever target is bound, in screen units.
type sink struct {
	font rl.Font
}

func (s sink) Clear(r render.Rect, c render.Color) {
	if r.X <= 0 && r.Y <= 0 && r.X+r.W >= float64(rl.GetScreenWidth()) && r.Y+r.H >= float64(rl.GetScreenHeight()) {
		rl.ClearBackground(toColor(c))
		return
	}
	s.FillRect(r.X, r.Y, r.W, r.H, c)
}

func (s sink) FillRect(x, y, w, h float64, c render.Color) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), toColor(c))
}

func (s sink) FillText(text string, x, y float64, c render.Color) {
	// y is the baseline; raylib wants the top of the glyph box
	rl.DrawTextEx(s.font, text, rl.NewVector2(float32(x), float32(y-fontSize)), fontSize, 1, toColor(c))
}

func toColor(c render.Color) rl.Color {
	b := func(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return rl.NewColor(b(c.R), b(c.G), b(c.B), b(c.A))
}

// wheelDelta converts raylib wheel motion, positive when scrolling up, into
// a wheel deltaY where one notch up is -100.
func wheelDelta(move float32) float64 {
	return -float64(move) * 100
}
