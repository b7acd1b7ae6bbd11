package session

import (
	"fmt"
	"math"
)

// Parameter bounds enforced before a value reaches a backend.
const (
	MinSpeed   = 0.05
	MaxSpeed   = 5.0
	MinZoom    = 0.5
	MaxZoom    = 4.0
	MinDensity = 0.0005
	MaxDensity = 0.06
)

// Params is the authoritative copy of the user-tunable parameters. Backends
// never read it; it is pushed to them through the capability calls.
type Params struct {
	Speed    float64 `yaml:"speed"`
	Density  float64 `yaml:"density"`
	Zoom     float64 `yaml:"zoom"`
	ZoomAuto bool    `yaml:"zoom_auto"`
	Running  bool    `yaml:"running"`
}

func DefaultParams() Params {
	return Params{
		Speed:   0.05,
		Density: 0.005,
		Zoom:    1.0,
		Running: true,
	}
}

// Clamped returns p with every numeric field inside its bounds. Non-finite
// fields fall back to the defaults.
func (p Params) Clamped() Params {
	d := DefaultParams()
	p.Speed = clamp(p.Speed, d.Speed, MinSpeed, MaxSpeed)
	p.Density = clamp(p.Density, d.Density, MinDensity, MaxDensity)
	p.Zoom = clamp(p.Zoom, d.Zoom, MinZoom, MaxZoom)
	return p
}

func clamp(v, fallback, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = fallback
	}
	return math.Max(lo, math.Min(hi, v))
}

func SpeedText(v float64) string   { return fmt.Sprintf("%.2f", v) }
func DensityText(v float64) string { return fmt.Sprintf("%.3f", v) }
func ZoomText(v float64) string    { return fmt.Sprintf("%.2f×", v) }
