package render

import "github.com/gogpu/gg"

// Color is a straight-alpha color with components in [0, 1].
type Color = gg.RGBA

var (
	Background = gg.Hex("#0a0a0a")
	PointColor = gg.RGBA2(1, 1, 1, 0.8)
	TextColor  = gg.RGBA2(1, 1, 1, 1)
)

type Rect struct {
	X, Y, W, H float64
}

// Sink is a surface that can be cleared, filled and labelled.
type Sink interface {
	Clear(r Rect, c Color)
	FillRect(x, y, w, h float64, c Color)
	FillText(s string, x, y float64, c Color)
}

// Label is a piece of text drawn at a logical position.
type Label struct {
	Text string
	X, Y float64
}

// Multi fans every call out to each sink in order.
type Multi []Sink

func (m Multi) Clear(r Rect, c Color) {
	for _, s := range m {
		s.Clear(r, c)
	}
}

func (m Multi) FillRect(x, y, w, h float64, c Color) {
	for _, s := range m {
		s.FillRect(x, y, w, h, c)
	}
}

func (m Multi) FillText(str string, x, y float64, c Color) {
	for _, s := range m {
		s.FillText(str, x, y, c)
	}
}
