package session

import (
	"context"
	"fmt"

	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/render"
)

type recordingBackend struct {
	calls   []string
	steps   []float32
	points  [][2]float32
	queries int
}

func (b *recordingBackend) log(format string, args ...interface{}) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *recordingBackend) SetCanvas(w, h int32) { b.log("set_canvas(%d,%d)", w, h) }
func (b *recordingBackend) SetDensity(v float32) { b.log("set_density(%g)", v) }
func (b *recordingBackend) SetSpeed(v float32)   { b.log("set_speed(%g)", v) }
func (b *recordingBackend) SetZoom(v float32)    { b.log("set_zoom(%g)", v) }
func (b *recordingBackend) SetZoomAuto(on bool)  { b.log("set_zoom_auto(%t)", on) }
func (b *recordingBackend) Reset()               { b.log("reset") }
func (b *recordingBackend) PointCount() int32    { return int32(len(b.points)) }
func (b *recordingBackend) Step(dt float32) {
	b.log("step")
	b.steps = append(b.steps, dt)
}

func (b *recordingBackend) X(i int32) float32 {
	b.queries++
	return b.points[i][0]
}

func (b *recordingBackend) Y(i int32) float32 {
	b.queries++
	return b.points[i][1]
}

func (b *recordingBackend) count(call string) int {
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *recordingBackend) forget() { b.calls = nil }

type fakeLoader struct {
	backends map[string]effect.Backend
	fail     map[string]error
	loads    map[string]int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		backends: make(map[string]effect.Backend),
		fail:     make(map[string]error),
		loads:    make(map[string]int),
	}
}

func (l *fakeLoader) Load(ctx context.Context, name string) (effect.Backend, error) {
	l.loads[name]++
	if err := l.fail[name]; err != nil {
		return nil, err
	}
	b, ok := l.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", effect.ErrUnknownBackend, name)
	}
	return b, nil
}

type recordingSink struct {
	clears int
	rects  []render.Rect
	labels []render.Label
}

func (s *recordingSink) Clear(r render.Rect, c render.Color) {
	s.clears++
	s.rects = nil
	s.labels = nil
}

func (s *recordingSink) FillRect(x, y, w, h float64, c render.Color) {
	s.rects = append(s.rects, render.Rect{X: x, Y: y, W: w, H: h})
}

func (s *recordingSink) FillText(text string, x, y float64, c render.Color) {
	s.labels = append(s.labels, render.Label{Text: text, X: x, Y: y})
}
