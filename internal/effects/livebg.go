package effects

import (
	"math"

	"github.com/san-kum/livebg/internal/effect"
)

var _ effect.Backend = (*LiveBG)(nil)

// LiveBG traces a curve field seeded on a 200-column lattice and fits the
// resulting cloud to the surface every step.
type LiveBG struct {
	settings
	t         float64
	zoomPhase float64
	xv, yv    []float64
	pos       positions
}

const (
	liveRate   = math.Pi / 20 * 60
	liveMargin = 0.92
	pulseAmp   = 0.06
	pulseHz    = 0.08
)

func NewLiveBG() *LiveBG {
	return &LiveBG{settings: defaultSettings(0.05)}
}

func (l *LiveBG) SetCanvas(width, height int32) {
	if l.canvas(width, height) {
		l.rebuild()
	}
}

func (l *LiveBG) SetDensity(d float32) {
	l.setDensity(d)
	l.rebuild()
}

func (l *LiveBG) SetSpeed(v float32)  { l.setSpeed(v) }
func (l *LiveBG) SetZoom(z float32)   { l.setZoom(z) }
func (l *LiveBG) SetZoomAuto(on bool) { l.zoomAuto = on }

func (l *LiveBG) Reset() {
	l.t = 0
	l.zoomPhase = 0
}

func (l *LiveBG) PointCount() int32 { return l.pos.count() }
func (l *LiveBG) X(i int32) float32 { return l.pos.x(i) }
func (l *LiveBG) Y(i int32) float32 { return l.pos.y(i) }

func (l *LiveBG) rebuild() {
	n := l.targetPoints()
	if n == 0 || (n == len(l.xv) && l.pos != nil) {
		return
	}
	l.xv = make([]float64, n)
	l.yv = make([]float64, n)
	l.pos = make(positions, 2*n)
	for i := 0; i < n; i++ {
		ii := i + 1
		l.xv[i] = float64(ii % 200)
		l.yv[i] = float64(ii / 43)
	}
}

// curve maps a lattice seed to field space at time t.
func curve(xv, yv, t float64) (float64, float64) {
	k := 5 * math.Cos(xv/14) * math.Cos(yv/30)
	e := yv/8 - 13
	d := (k*k+e*e)/59 + 4
	q := 60 - 3*math.Sin(math.Atan2(k, e)*e) + k*(3+(4/d)*math.Sin(d*d-t*2))
	c := d/2 + e/99 - t/18
	return q * math.Sin(c), (q + d*9) * math.Cos(c)
}

func (l *LiveBG) Step(dt float32) {
	if len(l.xv) == 0 || !l.sized() {
		return
	}
	step := float64(clampStep(dt, false))
	l.t += liveRate * step * float64(l.speed)

	zoom := float64(l.zoom)
	if l.zoomAuto {
		l.zoomPhase += step
		zoom *= 1 + pulseAmp*math.Sin(2*math.Pi*pulseHz*l.zoomPhase)
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range l.xv {
		mx, my := curve(l.xv[i], l.yv[i], l.t)
		l.pos[2*i], l.pos[2*i+1] = float32(mx), float32(my)
		minX, maxX = math.Min(minX, mx), math.Max(maxX, mx)
		minY, maxY = math.Min(minY, my), math.Max(maxY, my)
	}

	bw, bh := maxX-minX, maxY-minY
	if bw < 1e-4 {
		bw = 1
	}
	if bh < 1e-4 {
		bh = 1
	}
	w, h := float64(l.width), float64(l.height)
	scale := math.Min(w*liveMargin/bw, h*liveMargin/bh) * zoom
	offX := w/2 - (minX+maxX)/2*scale
	offY := h/2 - (minY+maxY)/2*scale

	for i := range l.xv {
		l.pos[2*i] = float32(float64(l.pos[2*i])*scale + offX)
		l.pos[2*i+1] = float32(float64(l.pos[2*i+1])*scale + offY)
	}
}
