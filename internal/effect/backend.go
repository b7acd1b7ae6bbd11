package effect

import (
	"context"
	"math"
)

// Backend is the capability interface of a simulation module. Arguments and
// results are fixed-width so an implementation can sit on the far side of a
// foreign-function boundary.
type Backend interface {
	SetCanvas(width, height int32)
	SetDensity(density float32)
	SetSpeed(speed float32)
	SetZoom(zoom float32)
	SetZoomAuto(on bool)

	// Step advances the simulation by dt seconds. Only Step and Reset mutate state.
	Step(dt float32)

	PointCount() int32

	// X and Y return the coordinate of point i in logical surface units.
	// The result for i outside [0, PointCount()) is backend-defined.
	X(i int32) float32
	Y(i int32) float32

	Reset()
}

// Loader instantiates a backend. Loading may be slow.
type Loader func(ctx context.Context) (Backend, error)

// Surface is the logical size of the render surface plus a device scale.
type Surface struct {
	Width, Height int
	Scale         float64
}

const (
	MinScale = 1.0
	MaxScale = 3.0
)

// NewSurface floors the size to whole logical units and clamps the scale
// to [MinScale, MaxScale].
func NewSurface(width, height, scale float64) Surface {
	if math.IsNaN(scale) || scale < MinScale {
		scale = MinScale
	}
	if scale > MaxScale {
		scale = MaxScale
	}
	w, h := int(math.Floor(width)), int(math.Floor(height))
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Surface{Width: w, Height: h, Scale: scale}
}

// Contains reports whether (x, y) falls inside the visible surface.
func (s Surface) Contains(x, y float64) bool {
	return x >= 0 && x < float64(s.Width) && y >= 0 && y < float64(s.Height)
}

// Empty reports whether the surface has no drawable area.
func (s Surface) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
