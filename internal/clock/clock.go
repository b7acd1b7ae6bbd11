// Package clock derives per-frame delta time and a smoothed frame rate.
package clock

import "time"

const (
	// MinStep is the smallest dt ever reported, in seconds.
	MinStep = 1e-4

	// InitialRate seeds the smoothed rate before the first tick.
	InitialRate = 60.0

	smoothing = 0.1
)

// Frame tracks the timestamp of the previous tick. The zero value is usable
// and anchors itself on the first Tick.
type Frame struct {
	last     time.Time
	anchored bool
	rate     float64
}

func New(now time.Time) *Frame {
	f := &Frame{}
	f.Anchor(now)
	return f
}

// Anchor makes now the previous timestamp, so time spent stopped or
// swapping does not show up in the next dt.
func (f *Frame) Anchor(now time.Time) {
	f.last = now
	f.anchored = true
	if f.rate == 0 {
		f.rate = InitialRate
	}
}

// Tick returns the seconds since the previous tick, never less than MinStep,
// and records now as the previous tick.
func (f *Frame) Tick(now time.Time) float64 {
	if !f.anchored {
		f.Anchor(now)
	}
	dt := now.Sub(f.last).Seconds()
	if dt < MinStep {
		dt = MinStep
	}
	f.last = now
	f.rate = f.rate*(1-smoothing) + (1/dt)*smoothing
	return dt
}

// Rate is the exponential moving average of 1/dt. Display only.
func (f *Frame) Rate() float64 {
	if f.rate == 0 {
		return InitialRate
	}
	return f.rate
}

func (f *Frame) Last() time.Time { return f.last }
