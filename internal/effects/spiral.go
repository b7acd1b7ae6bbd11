package effects

import (
	"math"

	"github.com/san-kum/livebg/internal/effect"
)

var _ effect.Backend = (*Spiral)(nil)

// Spiral sweeps every point along a wobbling spiral around the surface
// centre. New effects usually start as a copy of this one.
type Spiral struct {
	settings
	t   float64
	pos positions
}

func NewSpiral() *Spiral {
	return &Spiral{settings: defaultSettings(1.0)}
}

func (s *Spiral) SetCanvas(width, height int32) {
	if s.canvas(width, height) {
		s.rebuild()
	}
}

func (s *Spiral) SetDensity(d float32) {
	s.setDensity(d)
	s.rebuild()
}

func (s *Spiral) SetSpeed(v float32)  { s.setSpeed(v) }
func (s *Spiral) SetZoom(z float32)   { s.setZoom(z) }
func (s *Spiral) SetZoomAuto(on bool) { s.zoomAuto = on }
func (s *Spiral) Reset()              { s.t = 0 }

func (s *Spiral) PointCount() int32 { return s.pos.count() }
func (s *Spiral) X(i int32) float32 { return s.pos.x(i) }
func (s *Spiral) Y(i int32) float32 { return s.pos.y(i) }

func (s *Spiral) rebuild() {
	n := s.targetPoints()
	if n == 0 || int32(n) == s.pos.count() {
		return
	}
	s.pos = make(positions, 2*n)
}

func (s *Spiral) Step(dt float32) {
	n := int(s.pos.count())
	if n == 0 || !s.sized() {
		return
	}
	s.t += float64(clampStep(dt, true)) * float64(s.speed)

	w, h := float64(s.width), float64(s.height)
	cx, cy := w/2, h/2
	baseRadius := math.Min(w, h) * 0.35 * float64(s.zoom)

	for i := 0; i < n; i++ {
		u := float64(i) / float64(n)
		angle := u*16 + s.t*0.8
		r := baseRadius * (0.3 + 0.7*u)
		r *= 1 + 0.1*math.Sin(6*u+s.t*1.5)

		s.pos[2*i] = float32(cx + math.Cos(angle)*r)
		s.pos[2*i+1] = float32(cy + math.Sin(angle*1.3)*r*0.6)
	}
}
