package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/logging"
)

// ErrInvalidInput is returned for control text that is not a finite number.
var ErrInvalidInput = errors.New("session: invalid input")

// Control names a numeric control.
type Control int

const (
	SpeedControl Control = iota
	DensityControl
	ZoomControl
)

var controlNames = [...]string{"speed", "density", "zoom"}

func (c Control) String() string {
	if c < 0 || int(c) >= len(controlNames) {
		return fmt.Sprintf("Control(%d)", int(c))
	}
	return controlNames[c]
}

// Controls lists the numeric controls in display order.
func Controls() []Control { return []Control{SpeedControl, DensityControl, ZoomControl} }

// wheelStep is the wheel delta that scales a value by exactly wheelFactor.
const (
	wheelStep   = 100.0
	wheelFactor = 1.1
	zoomFactor  = 1.1
)

// SetSpeed clamps v, stores it and pushes it to the active backend.
func (s *Session) SetSpeed(v float64) {
	s.params.Speed = clamp(v, s.params.Speed, MinSpeed, MaxSpeed)
	if s.active != nil {
		s.active.SetSpeed(float32(s.params.Speed))
	}
	s.overlay.SpeedValue = SpeedText(s.params.Speed)
	s.overlay.Speed = "speed: " + s.overlay.SpeedValue
}

// SetDensity also refreshes the point count overlay, since density drives
// the backend's point count.
func (s *Session) SetDensity(v float64) {
	s.params.Density = clamp(v, s.params.Density, MinDensity, MaxDensity)
	if s.active != nil {
		s.active.SetDensity(float32(s.params.Density))
	}
	s.overlay.DensityValue = DensityText(s.params.Density)
	s.refreshPoints()
}

func (s *Session) SetZoom(v float64) {
	s.params.Zoom = clamp(v, s.params.Zoom, MinZoom, MaxZoom)
	if s.active != nil {
		s.active.SetZoom(float32(s.params.Zoom))
	}
	s.overlay.ZoomValue = ZoomText(s.params.Zoom)
	s.overlay.Zoom = zoomStat(s.params.Zoom)
}

func (s *Session) SetZoomAuto(on bool) {
	s.params.ZoomAuto = on
	if s.active != nil {
		s.active.SetZoomAuto(on)
	}
}

// Value returns the current value of c.
func (s *Session) Value(c Control) float64 {
	switch c {
	case DensityControl:
		return s.params.Density
	case ZoomControl:
		return s.params.Zoom
	}
	return s.params.Speed
}

// Set applies v to control c.
func (s *Session) Set(c Control, v float64) {
	switch c {
	case SpeedControl:
		s.SetSpeed(v)
	case DensityControl:
		s.SetDensity(v)
	case ZoomControl:
		s.SetZoom(v)
	}
}

// SetText parses text as a value for c. Text that is not a finite number is
// rejected with ErrInvalidInput and nothing changes.
func (s *Session) SetText(c Control, text string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !effect.Finite(v) {
		return fmt.Errorf("%w: %s %q", ErrInvalidInput, c, text)
	}
	s.Set(c, v)
	return nil
}

// Wheel scales speed by 1.1^(-deltaY/100), or zoom when modifier is held.
func (s *Session) Wheel(deltaY float64, modifier bool) {
	if !effect.Finite(deltaY) {
		return
	}
	f := math.Pow(wheelFactor, -deltaY/wheelStep)
	if modifier {
		s.SetZoom(s.params.Zoom * f)
		return
	}
	s.SetSpeed(s.params.Speed * f)
}

// Key handles the zoom keys and reports whether key was one of them.
func (s *Session) Key(key string) bool {
	switch key {
	case "+", "=":
		s.SetZoom(s.params.Zoom * zoomFactor)
	case "-", "_":
		s.SetZoom(s.params.Zoom / zoomFactor)
	default:
		return false
	}
	return true
}

// Toggle flips the running intent and reports whether the loop is now
// running. Resuming re-anchors the frame clock at now.
func (s *Session) Toggle(now time.Time) bool {
	s.params.Running = !s.params.Running
	if s.params.Running {
		s.clock.Anchor(now)
		logging.L().Debug("resumed", "effect", s.name)
	} else {
		logging.L().Debug("paused", "effect", s.name)
	}
	return s.Running()
}

// Reset reinitializes the active backend from its current parameters.
func (s *Session) Reset() {
	if s.active == nil {
		return
	}
	s.active.Reset()
	s.refreshPoints()
}

// Resize records the new geometry and pushes it to the active backend.
func (s *Session) Resize(width, height, scale float64) {
	s.surface = effect.NewSurface(width, height, scale)
	logging.L().Debug("resize", "width", s.surface.Width, "height", s.surface.Height, "scale", s.surface.Scale)
	if s.active == nil {
		return
	}
	s.active.SetCanvas(int32(s.surface.Width), int32(s.surface.Height))
	s.refreshPoints()
}
