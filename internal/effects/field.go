package effects

import (
	"context"

	"github.com/san-kum/livebg/internal/effect"
)

const (
	MinPoints = 6000
	MaxPoints = 120000

	MinDensity = 0.0005
	MaxDensity = 0.060
	MinSpeed   = 0.05
	MaxSpeed   = 5.0
	MinZoom    = 0.5
	MaxZoom    = 4.0

	minStep = 0.0001
	maxStep = 0.1
)

// settings mirrors the values pushed through the capability setters.
type settings struct {
	width, height int32
	density       float32
	speed         float32
	zoom          float32
	zoomAuto      bool
}

func defaultSettings(speed float32) settings {
	return settings{density: 0.005, speed: speed, zoom: 1.0}
}

func (s *settings) canvas(width, height int32) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.width, s.height = width, height
	return true
}

func (s *settings) setDensity(d float32) { s.density = clamp32(d, MinDensity, MaxDensity) }
func (s *settings) setSpeed(v float32)   { s.speed = clamp32(v, MinSpeed, MaxSpeed) }
func (s *settings) setZoom(z float32)    { s.zoom = clamp32(z, MinZoom, MaxZoom) }

func (s *settings) sized() bool { return s.width > 0 && s.height > 0 }

// targetPoints returns the point count for the current canvas and density.
func (s *settings) targetPoints() int {
	if !s.sized() {
		return 0
	}
	n := int(float64(s.density) * float64(s.width) * float64(s.height))
	if n < MinPoints {
		n = MinPoints
	}
	if n > MaxPoints {
		n = MaxPoints
	}
	return n
}

// positions is an interleaved [x0, y0, x1, y1, ...] buffer.
type positions []float32

func (p positions) count() int32 { return int32(len(p) / 2) }

func (p positions) x(i int32) float32 {
	if i < 0 || i >= p.count() {
		return -1
	}
	return p[2*i]
}

func (p positions) y(i int32) float32 {
	if i < 0 || i >= p.count() {
		return -1
	}
	return p[2*i+1]
}

func clamp32(v, lo, hi float32) float32 {
	if v != v {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampStep(dt float32, capped bool) float32 {
	if dt < minStep || dt != dt {
		dt = minStep
	}
	if capped && dt > maxStep {
		dt = maxStep
	}
	return dt
}

// Builtins returns loaders for every built-in effect keyed by name.
func Builtins(seed int64) map[string]effect.Loader {
	return map[string]effect.Loader{
		"livebg": func(context.Context) (effect.Backend, error) { return NewLiveBG(), nil },
		"fire":   func(context.Context) (effect.Backend, error) { return NewFire(seed), nil },
		"spiral": func(context.Context) (effect.Backend, error) { return NewSpiral(), nil },
	}
}

// Describe returns a short description of a built-in effect.
func Describe(name string) string {
	return descriptions[name]
}

var descriptions = map[string]string{
	"livebg": "breathing curve field",
	"fire":   "rising embers",
	"spiral": "wobbling spiral",
}
