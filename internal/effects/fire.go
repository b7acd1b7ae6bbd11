package effects

import (
	"math/rand"

	"github.com/san-kum/livebg/internal/effect"
)

var _ effect.Backend = (*Fire)(nil)

type ember struct {
	x, y    float32
	vy      float32
	life    float32
	maxLife float32
}

// Fire respawns embers along the bottom edge and lets them rise until they
// burn out or leave the surface. Zoom is accepted but not applied.
type Fire struct {
	settings
	t      float32
	rng    *rand.Rand
	embers []ember
	pos    positions
}

func NewFire(seed int64) *Fire {
	return &Fire{
		settings: defaultSettings(0.8),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (f *Fire) SetCanvas(width, height int32) {
	if f.canvas(width, height) {
		f.rebuild()
	}
}

func (f *Fire) SetDensity(d float32) {
	f.setDensity(d)
	f.rebuild()
}

func (f *Fire) SetSpeed(v float32)  { f.setSpeed(v) }
func (f *Fire) SetZoom(z float32)   { f.setZoom(z) }
func (f *Fire) SetZoomAuto(on bool) { f.zoomAuto = on }

func (f *Fire) PointCount() int32 { return f.pos.count() }
func (f *Fire) X(i int32) float32 { return f.pos.x(i) }
func (f *Fire) Y(i int32) float32 { return f.pos.y(i) }

func (f *Fire) Reset() {
	f.t = 0
	for i := range f.embers {
		f.respawn(i)
	}
}

func (f *Fire) rand01() float32 { return f.rng.Float32() }

func (f *Fire) respawn(i int) {
	if !f.sized() {
		return
	}
	e := &f.embers[i]
	e.x = f.rand01() * float32(f.width)
	e.y = float32(f.height) - f.rand01()*10
	e.vy = -(50 + 150*f.rand01()) * f.speed
	e.maxLife = 0.6 + 0.6*f.rand01()
	e.life = e.maxLife
}

func (f *Fire) rebuild() {
	n := f.targetPoints()
	if n == 0 || n == len(f.embers) {
		return
	}
	f.embers = make([]ember, n)
	f.pos = make(positions, 2*n)
	for i := range f.embers {
		f.respawn(i)
		f.pos[2*i], f.pos[2*i+1] = f.embers[i].x, f.embers[i].y
	}
}

func (f *Fire) Step(dt float32) {
	if len(f.embers) == 0 || !f.sized() {
		return
	}
	dt = clampStep(dt, true)
	f.t += dt

	right := float32(f.width) + 10
	for i := range f.embers {
		e := &f.embers[i]
		e.y += e.vy * dt
		e.vy += -40 * f.speed * dt
		e.life -= dt

		if e.y < -20 || e.life <= 0 {
			f.respawn(i)
		}

		e.x += (f.rand01() - 0.5) * 10 * dt
		if e.x < -10 {
			e.x = -10
		}
		if e.x > right {
			e.x = right
		}

		f.pos[2*i], f.pos[2*i+1] = e.x, e.y
	}
}
