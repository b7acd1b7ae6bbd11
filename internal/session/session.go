package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/livebg/internal/clock"
	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/logging"
)

// Loader hands out backend instances by name. *registry.Registry satisfies it.
type Loader interface {
	Load(ctx context.Context, name string) (effect.Backend, error)
}

// State is the selector state.
type State int

const (
	Idle State = iota
	Swapping
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Swapping:
		return "swapping"
	case Active:
		return "active"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DefaultMarker is the side of the square drawn for each point.
const DefaultMarker = 3.0

type Session struct {
	loader  Loader
	params  Params
	surface effect.Surface
	marker  float64
	clock   *clock.Frame
	overlay Overlay

	state   State
	active  effect.Backend
	name    string
	pending string

	frames int
	last   Frame
}

// Frame summarizes the most recent drawn tick.
type Frame struct {
	Count  int32
	X, Y   float64
	Sample bool // X and Y are finite
	Drawn  int  // points that passed culling
}

type Option func(*Session)

func WithParams(p Params) Option {
	return func(s *Session) { s.params = p.Clamped() }
}

func WithSurface(surf effect.Surface) Option {
	return func(s *Session) { s.surface = surf }
}

func WithMarker(size float64) Option {
	return func(s *Session) {
		if size > 0 {
			s.marker = size
		}
	}
}

func New(loader Loader, opts ...Option) *Session {
	s := &Session{
		loader: loader,
		params: DefaultParams(),
		marker: DefaultMarker,
		clock:  &clock.Frame{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.overlay = Overlay{
		FPS:          fpsText(s.clock.Rate()),
		Points:       pointsText(0),
		Speed:        "speed: " + SpeedText(s.params.Speed),
		Zoom:         zoomStat(s.params.Zoom),
		SpeedValue:   SpeedText(s.params.Speed),
		DensityValue: DensityText(s.params.Density),
		ZoomValue:    ZoomText(s.params.Zoom),
	}
	return s
}

func (s *Session) Params() Params          { return s.params }
func (s *Session) Surface() effect.Surface { return s.surface }
func (s *Session) Overlay() Overlay        { return s.overlay }
func (s *Session) State() State            { return s.state }
func (s *Session) LastFrame() Frame        { return s.last }

// ActiveName is the name of the backend driving the animation, or "".
func (s *Session) ActiveName() string { return s.name }

// Pending is the name being swapped in, or "".
func (s *Session) Pending() string { return s.pending }

// Rate is the smoothed frame rate.
func (s *Session) Rate() float64 { return s.clock.Rate() }

// Running reports whether the loop should tick: the user wants it running,
// no swap is in flight, and there is a backend to drive.
func (s *Session) Running() bool {
	return s.params.Running && s.state == Active && s.active != nil
}

// Select swaps to the named backend, loading it if needed. Selecting the
// active backend does nothing.
func (s *Session) Select(ctx context.Context, name string, now time.Time) error {
	if !s.BeginSelect(name, now) {
		return nil
	}
	b, err := s.loader.Load(ctx, name)
	return s.CompleteSelect(name, b, err, now)
}

// BeginSelect starts a swap to name and reports whether the caller must load
// it and call CompleteSelect. While the swap is pending the loop is paused.
// A later BeginSelect supersedes an earlier one.
func (s *Session) BeginSelect(name string, now time.Time) bool {
	if s.active != nil && name == s.name {
		if s.state == Swapping {
			// back to the backend that never stopped being active
			s.pending = ""
			s.state = Active
			s.clock.Anchor(now)
		}
		return false
	}
	s.pending = name
	s.state = Swapping
	return true
}

// CompleteSelect finishes a swap begun with BeginSelect. Results for a name
// that is no longer pending are dropped. On failure the previous backend
// stays active and the error is returned.
func (s *Session) CompleteSelect(name string, b effect.Backend, err error, now time.Time) error {
	if s.state != Swapping || name != s.pending {
		logging.L().Debug("discarding stale load", "effect", name)
		return nil
	}
	if err == nil && b == nil {
		err = fmt.Errorf("%w: %s: no backend", effect.ErrLoadFailed, name)
	}

	s.pending = ""
	if err != nil {
		s.state = Idle
		if s.active != nil {
			s.state = Active
			s.clock.Anchor(now)
		}
		logging.L().Warn("swap failed", "effect", name, "active", s.name, "err", err)
		return err
	}

	b.SetCanvas(int32(s.surface.Width), int32(s.surface.Height))
	b.SetSpeed(float32(s.params.Speed))
	b.SetDensity(float32(s.params.Density))
	b.SetZoom(float32(s.params.Zoom))
	b.SetZoomAuto(s.params.ZoomAuto)
	b.Reset()

	prev := s.name
	s.active = b
	s.name = name
	s.state = Active
	s.clock.Anchor(now)
	s.refreshPoints()

	logging.L().Info("swapped backend", "from", prev, "to", name)
	return nil
}

// IsUnknown reports whether err came from selecting an unregistered name.
func IsUnknown(err error) bool {
	return errors.Is(err, effect.ErrUnknownBackend)
}

func (s *Session) refreshPoints() {
	if s.active == nil {
		return
	}
	s.overlay.Points = pointsText(s.active.PointCount())
}
