package session

import (
	"context"
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"

	"github.com/san-kum/livebg/internal/clock"
	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/render"
)

var _ = Describe("Session", func() {
	var (
		ctx    context.Context
		t0     time.Time
		loader *fakeLoader
		a, b   *recordingBackend
		s      *Session
		sink   *recordingSink
	)

	BeforeEach(func() {
		ctx = context.Background()
		t0 = time.Unix(1000, 0)
		loader = newFakeLoader()
		a = &recordingBackend{points: [][2]float32{{1, 2}}}
		b = &recordingBackend{points: [][2]float32{{3, 4}}}
		loader.backends["a"] = a
		loader.backends["b"] = b
		s = New(loader, WithSurface(effect.NewSurface(800, 600, 1)))
		sink = &recordingSink{}
	})

	Describe("selecting a backend", func() {
		It("starts idle and does not tick", func() {
			Expect(s.State()).To(Equal(Idle))
			Expect(s.Running()).To(BeFalse())
			Expect(s.Tick(t0, sink)).To(BeFalse())
			Expect(sink.clears).To(BeZero())
		})

		It("replays geometry and parameters, then resets once before stepping", func() {
			s.SetSpeed(2)
			Expect(s.Select(ctx, "a", t0)).To(Succeed())

			Expect(a.calls).To(Equal([]string{
				"set_canvas(800,600)",
				"set_speed(2)",
				"set_density(0.005)",
				"set_zoom(1)",
				"set_zoom_auto(false)",
				"reset",
			}))

			Expect(s.Tick(t0.Add(16*time.Millisecond), sink)).To(BeTrue())
			Expect(a.calls[len(a.calls)-1]).To(Equal("step"))
			Expect(a.count("reset")).To(Equal(1))
			Expect(s.State()).To(Equal(Active))
			Expect(s.ActiveName()).To(Equal("a"))
		})

		It("treats the already-active name as a no-op", func() {
			Expect(s.Select(ctx, "a", t0)).To(Succeed())
			a.forget()

			Expect(s.Select(ctx, "a", t0.Add(time.Second))).To(Succeed())
			Expect(loader.loads["a"]).To(Equal(1))
			Expect(a.calls).To(BeEmpty())
			Expect(s.Running()).To(BeTrue())
		})

		It("swaps between backends and keeps the old one loaded", func() {
			Expect(s.Select(ctx, "a", t0)).To(Succeed())
			Expect(s.Select(ctx, "b", t0)).To(Succeed())
			Expect(s.ActiveName()).To(Equal("b"))
			Expect(b.count("reset")).To(Equal(1))

			a.forget()
			Expect(s.Select(ctx, "a", t0)).To(Succeed())
			Expect(loader.loads["a"]).To(Equal(2))
			Expect(a.calls[0]).To(Equal("set_canvas(800,600)"))
			Expect(a.count("reset")).To(Equal(1))
		})

		It("surfaces unknown names and leaves the active backend running", func() {
			Expect(s.Select(ctx, "a", t0)).To(Succeed())

			err := s.Select(ctx, "missing", t0)
			Expect(errors.Is(err, effect.ErrUnknownBackend)).To(BeTrue())
			Expect(IsUnknown(err)).To(BeTrue())
			Expect(s.ActiveName()).To(Equal("a"))
			Expect(s.State()).To(Equal(Active))
			Expect(s.Running()).To(BeTrue())
		})

		It("keeps the previous backend when a load fails and retries later", func() {
			Expect(s.Select(ctx, "a", t0)).To(Succeed())
			loader.fail["b"] = effect.ErrLoadFailed

			Expect(s.Select(ctx, "b", t0)).To(MatchError(effect.ErrLoadFailed))
			Expect(s.ActiveName()).To(Equal("a"))
			Expect(s.Running()).To(BeTrue())

			delete(loader.fail, "b")
			Expect(s.Select(ctx, "b", t0)).To(Succeed())
			Expect(loader.loads["b"]).To(Equal(2))
			Expect(s.ActiveName()).To(Equal("b"))
		})

		It("returns to idle when the very first load fails", func() {
			loader.fail["a"] = errors.New("boom")
			Expect(s.Select(ctx, "a", t0)).NotTo(Succeed())
			Expect(s.State()).To(Equal(Idle))
			Expect(s.Running()).To(BeFalse())
		})
	})

	Describe("an in-flight swap", func() {
		BeforeEach(func() {
			Expect(s.Select(ctx, "a", t0)).To(Succeed())
			a.forget()
		})

		It("pauses the loop without touching the running intent", func() {
			Expect(s.BeginSelect("b", t0)).To(BeTrue())
			Expect(s.State()).To(Equal(Swapping))
			Expect(s.Running()).To(BeFalse())
			Expect(s.Params().Running).To(BeTrue())

			Expect(s.Tick(t0.Add(time.Second), sink)).To(BeFalse())
			Expect(a.steps).To(BeEmpty())
		})

		It("routes input to the old backend and replays the latest state to the new one", func() {
			s.BeginSelect("b", t0)
			s.SetZoom(2)
			Expect(a.calls).To(ContainElement("set_zoom(2)"))

			Expect(s.CompleteSelect("b", b, nil, t0)).To(Succeed())
			Expect(b.calls).To(ContainElement("set_zoom(2)"))
		})

		It("lets the most recent selection win", func() {
			c := &recordingBackend{}
			s.BeginSelect("b", t0)
			s.BeginSelect("c", t0)

			Expect(s.CompleteSelect("b", b, nil, t0)).To(Succeed())
			Expect(b.calls).To(BeEmpty())
			Expect(s.State()).To(Equal(Swapping))
			Expect(s.Pending()).To(Equal("c"))

			Expect(s.CompleteSelect("c", c, nil, t0)).To(Succeed())
			Expect(s.ActiveName()).To(Equal("c"))
			Expect(c.count("reset")).To(Equal(1))
		})

		It("cancels when the active name is selected again", func() {
			s.BeginSelect("b", t0)
			Expect(s.BeginSelect("a", t0)).To(BeFalse())
			Expect(s.State()).To(Equal(Active))
			Expect(s.Running()).To(BeTrue())

			Expect(s.CompleteSelect("b", b, nil, t0)).To(Succeed())
			Expect(s.ActiveName()).To(Equal("a"))
		})

		It("drops the stepping gap caused by a slow load", func() {
			s.Tick(t0.Add(16*time.Millisecond), sink)
			s.BeginSelect("b", t0)
			done := t0.Add(5 * time.Second)
			Expect(s.CompleteSelect("b", b, nil, done)).To(Succeed())

			s.Tick(done.Add(20*time.Millisecond), sink)
			Expect(b.steps).To(HaveLen(1))
			Expect(float64(b.steps[0])).To(BeNumerically("~", 0.020, 1e-6))
		})
	})

	Describe("the frame clock", func() {
		BeforeEach(func() {
			Expect(s.Select(ctx, "a", t0)).To(Succeed())
		})

		It("never passes a non-positive dt", func() {
			s.Tick(t0, sink)
			s.Tick(t0, sink)
			s.Tick(t0.Add(-time.Second), sink)

			Expect(a.steps).To(HaveLen(3))
			for _, dt := range a.steps {
				Expect(dt).To(BeNumerically(">", 0))
				Expect(dt).To(Equal(float32(clock.MinStep)))
			}
		})

		It("excludes paused time from the first dt after resuming", func() {
			s.Tick(t0.Add(16*time.Millisecond), sink)
			Expect(s.Toggle(t0.Add(20 * time.Millisecond))).To(BeFalse())
			Expect(s.Tick(t0.Add(time.Second), sink)).To(BeFalse())

			resume := t0.Add(10 * time.Second)
			Expect(s.Toggle(resume)).To(BeTrue())
			s.Tick(resume.Add(16*time.Millisecond), sink)

			Expect(a.steps).To(HaveLen(2))
			Expect(float64(a.steps[1])).To(BeNumerically("~", 0.016, 1e-6))
		})
	})

	Describe("a render tick", func() {
		BeforeEach(func() {
			Expect(s.Select(ctx, "a", t0)).To(Succeed())
		})

		It("queries no positions when there are no points", func() {
			a.points = nil
			Expect(s.Tick(t0, sink)).To(BeTrue())

			Expect(a.queries).To(BeZero())
			Expect(sink.clears).To(Equal(1))
			Expect(sink.rects).To(BeEmpty())
			Expect(s.Overlay().Zoom).To(Equal("zoom: 1.00× | sample: (none)"))
		})

		It("skips non-finite points and shows the NaN indicator", func() {
			nan := float32(math.NaN())
			a.points = [][2]float32{{nan, 5}, {10, 10}, {20, 30}}
			s.Tick(t0, sink)

			Expect(s.Overlay().Zoom).To(Equal("zoom: 1.00× | sample: NaN"))
			Expect(sink.rects).To(Equal([]render.Rect{
				{X: 10, Y: 10, W: 3, H: 3},
				{X: 20, Y: 30, W: 3, H: 3},
			}))
			Expect(s.LastFrame()).To(MatchFields(IgnoreExtras, Fields{
				"Count":  BeEquivalentTo(3),
				"Sample": BeFalse(),
				"Drawn":  Equal(2),
			}))
		})

		It("culls points outside the surface", func() {
			inf := float32(math.Inf(1))
			a.points = [][2]float32{{5, 5}, {-1, 5}, {800, 5}, {5, 600}, {799.5, 599.5}, {inf, 1}}
			s.Tick(t0, sink)

			Expect(sink.rects).To(HaveLen(2))
			Expect(sink.rects[0]).To(Equal(render.Rect{X: 5, Y: 5, W: 3, H: 3}))
			Expect(s.Overlay().Zoom).To(Equal("zoom: 1.00× | sample: (5.0, 5.0)"))
		})

		It("draws the on-surface labels", func() {
			a.points = [][2]float32{{12.5, 40}}
			s.Tick(t0, sink)

			Expect(sink.labels).To(Equal([]render.Label{
				{Text: "N=1", X: 10, Y: 20},
				{Text: "sample=(12.5, 40.0)", X: 10, Y: 36},
			}))
		})

		It("refreshes the point count once every 30 drawn frames", func() {
			a.points = make([][2]float32, 12345)
			now := t0
			s.Tick(now, sink)
			Expect(s.Overlay().Points).To(Equal("points: 12,345"))

			a.points = a.points[:10]
			for i := 1; i < 30; i++ {
				now = now.Add(16 * time.Millisecond)
				s.Tick(now, sink)
				Expect(s.Overlay().Points).To(Equal("points: 12,345"))
			}
			s.Tick(now.Add(16*time.Millisecond), sink)
			Expect(s.Overlay().Points).To(Equal("points: 10"))
		})

		It("updates the fps overlay every tick", func() {
			s.Tick(t0.Add(time.Second/30), sink)
			Expect(s.Overlay().FPS).To(Equal("fps: 57"))
		})

		It("uses the configured marker size", func() {
			s = New(loader, WithSurface(effect.NewSurface(100, 100, 2)), WithMarker(1))
			Expect(s.Select(ctx, "b", t0)).To(Succeed())
			s.Tick(t0, sink)
			Expect(sink.rects).To(Equal([]render.Rect{{X: 3, Y: 4, W: 1, H: 1}}))
		})
	})
})
