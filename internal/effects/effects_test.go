package effects

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/livebg/internal/effect"
)

func newAll() map[string]effect.Backend {
	out := make(map[string]effect.Backend)
	for name, load := range Builtins(7) {
		b, err := load(context.Background())
		if err != nil {
			panic(err)
		}
		out[name] = b
	}
	return out
}

func TestBuiltinsRegistered(t *testing.T) {
	for _, name := range []string{"livebg", "fire", "spiral"} {
		if _, ok := Builtins(1)[name]; !ok {
			t.Errorf("expected builtin %s", name)
		}
		if Describe(name) == "" {
			t.Errorf("expected description for %s", name)
		}
	}
}

func TestPointCountBeforeCanvas(t *testing.T) {
	for name, b := range newAll() {
		if n := b.PointCount(); n != 0 {
			t.Errorf("%s: expected 0 points before SetCanvas, got %d", name, n)
		}
		b.Step(0.016)
		if n := b.PointCount(); n != 0 {
			t.Errorf("%s: step without canvas should not create points, got %d", name, n)
		}
	}
}

func TestPointCountClamped(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int32
		density float32
		want    int32
	}{
		{"minimum floor", 100, 100, 0.005, MinPoints},
		{"scaled", 2000, 1000, 0.0078125, 15625},
		{"maximum ceiling", 4000, 4000, 0.06, MaxPoints},
		{"density clamped low", 2000, 1000, 0, MinPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, b := range newAll() {
				b.SetDensity(tt.density)
				b.SetCanvas(tt.w, tt.h)
				if got := b.PointCount(); got != tt.want {
					t.Errorf("%s: expected %d points, got %d", name, tt.want, got)
				}
			}
		})
	}
}

func TestInvalidCanvasIgnored(t *testing.T) {
	for name, b := range newAll() {
		b.SetCanvas(800, 600)
		before := b.PointCount()
		b.SetCanvas(0, 600)
		b.SetCanvas(800, -1)
		if got := b.PointCount(); got != before {
			t.Errorf("%s: invalid canvas changed count %d -> %d", name, before, got)
		}
	}
}

func TestOutOfRangeIndex(t *testing.T) {
	for name, b := range newAll() {
		b.SetCanvas(800, 600)
		b.Step(0.016)
		n := b.PointCount()
		for _, i := range []int32{-1, n, n + 10} {
			if b.X(i) != -1 || b.Y(i) != -1 {
				t.Errorf("%s: expected -1 for index %d", name, i)
			}
		}
	}
}

func TestStepProducesFinitePoints(t *testing.T) {
	for name, b := range newAll() {
		b.SetCanvas(640, 480)
		b.SetSpeed(1)
		for i := 0; i < 10; i++ {
			b.Step(1.0 / 60)
		}
		n := b.PointCount()
		for i := int32(0); i < n; i++ {
			x, y := float64(b.X(i)), float64(b.Y(i))
			if !effect.Finite(x) || !effect.Finite(y) {
				t.Fatalf("%s: point %d not finite (%v, %v)", name, i, x, y)
			}
		}
	}
}

func TestLiveBGFitsSurface(t *testing.T) {
	l := NewLiveBG()
	l.SetCanvas(400, 300)
	l.Step(0.5)

	s := effect.Surface{Width: 400, Height: 300, Scale: 1}
	for i := int32(0); i < l.PointCount(); i++ {
		if !s.Contains(float64(l.X(i)), float64(l.Y(i))) {
			t.Fatalf("point %d outside surface: (%f, %f)", i, l.X(i), l.Y(i))
		}
	}
}

func TestLiveBGZoomScalesSpread(t *testing.T) {
	spread := func(zoom float32) float64 {
		l := NewLiveBG()
		l.SetCanvas(400, 300)
		l.SetZoom(zoom)
		l.Step(0.1)
		minX, maxX := math.Inf(1), math.Inf(-1)
		for i := int32(0); i < l.PointCount(); i++ {
			x := float64(l.X(i))
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		}
		return maxX - minX
	}

	base, zoomed := spread(1), spread(2)
	if math.Abs(zoomed/base-2) > 0.01 {
		t.Errorf("expected zoom 2 to double spread, got ratio %f", zoomed/base)
	}
}

func TestLiveBGResetRewindsTime(t *testing.T) {
	a, b := NewLiveBG(), NewLiveBG()
	for _, l := range []*LiveBG{a, b} {
		l.SetCanvas(320, 200)
	}
	a.Step(0.05)
	a.Step(0.05)
	a.Reset()
	a.Step(0.05)
	b.Step(0.05)

	for i := int32(0); i < a.PointCount(); i++ {
		if a.X(i) != b.X(i) || a.Y(i) != b.Y(i) {
			t.Fatalf("point %d differs after reset", i)
		}
	}
}

func TestFireDeterministicBySeed(t *testing.T) {
	a, b := NewFire(42), NewFire(42)
	for _, f := range []*Fire{a, b} {
		f.SetCanvas(300, 200)
		for i := 0; i < 5; i++ {
			f.Step(0.02)
		}
	}
	for i := int32(0); i < a.PointCount(); i++ {
		if a.X(i) != b.X(i) || a.Y(i) != b.Y(i) {
			t.Fatalf("point %d differs for equal seeds", i)
		}
	}
}

func TestFireEmbersRise(t *testing.T) {
	f := NewFire(3)
	f.SetCanvas(300, 200)
	f.SetSpeed(1)
	f.Reset()

	startY := float64(f.Y(0))
	f.Step(0.05)
	if float64(f.Y(0)) >= startY {
		t.Errorf("expected ember to rise, y %f -> %f", startY, f.Y(0))
	}
	for i := int32(0); i < f.PointCount(); i++ {
		if x := f.X(i); x < -10 || x > 310 {
			t.Fatalf("ember %d escaped horizontally: %f", i, x)
		}
	}
}

func TestSpiralCentred(t *testing.T) {
	s := NewSpiral()
	s.SetCanvas(500, 500)
	s.Step(0.01)

	surface := effect.Surface{Width: 500, Height: 500, Scale: 1}
	for i := int32(0); i < s.PointCount(); i++ {
		if !surface.Contains(float64(s.X(i)), float64(s.Y(i))) {
			t.Fatalf("spiral point %d outside surface", i)
		}
	}
}

func TestClampStep(t *testing.T) {
	tests := []struct {
		dt     float32
		capped bool
		want   float32
	}{
		{0, false, minStep},
		{-1, true, minStep},
		{0.05, true, 0.05},
		{1, true, maxStep},
		{1, false, 1},
	}
	for _, tt := range tests {
		if got := clampStep(tt.dt, tt.capped); got != tt.want {
			t.Errorf("clampStep(%v, %v) = %v, want %v", tt.dt, tt.capped, got, tt.want)
		}
	}
}
