package session

import (
	"fmt"
	"time"

	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/render"
)

// pointsEvery throttles the point count overlay to one refresh per this
// many drawn frames.
const pointsEvery = 30

// Tick runs one frame: step the active backend, then draw every finite
// in-bounds point into sink. It reports false without touching the backend
// when the loop is not running; the host should stop scheduling ticks until
// Running is true again.
func (s *Session) Tick(now time.Time, sink render.Sink) bool {
	if !s.Running() {
		return false
	}
	b := s.active

	dt := s.clock.Tick(now)
	s.overlay.FPS = fpsText(s.clock.Rate())

	b.Step(float32(dt))
	count := b.PointCount()

	w, h := float64(s.surface.Width), float64(s.surface.Height)
	sink.Clear(render.Rect{W: w, H: h}, render.Background)

	if count <= 0 {
		s.overlay.Zoom = noSampleStat(s.params.Zoom)
		s.last = Frame{}
		return true
	}

	if s.frames%pointsEvery == 0 {
		s.overlay.Points = pointsText(count)
	}
	s.frames++

	sx, sy := float64(b.X(0)), float64(b.Y(0))
	ok := effect.Finite(sx) && effect.Finite(sy)
	s.overlay.Zoom = sampleStat(s.params.Zoom, sx, sy, ok)

	drawn := 0
	for i := int32(0); i < count; i++ {
		x, y := float64(b.X(i)), float64(b.Y(i))
		if !effect.Finite(x) || !effect.Finite(y) {
			continue
		}
		if s.surface.Contains(x, y) {
			sink.FillRect(x, y, s.marker, s.marker, render.PointColor)
			drawn++
		}
	}

	s.last = Frame{Count: count, X: sx, Y: sy, Sample: ok, Drawn: drawn}

	sink.FillText(fmt.Sprintf("N=%d", count), 10, 20, render.TextColor)
	sink.FillText(fmt.Sprintf("sample=(%.1f, %.1f)", sx, sy), 10, 36, render.TextColor)
	return true
}
