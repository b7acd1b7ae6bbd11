package render

import (
	"math"
	"strings"
)

// Braille cell dots, Unicode offset 0x2800:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Braille draws into a grid of Braille cells. Its logical surface is
// Cols*2 dots wide and Rows*4 dots tall. Text is kept aside as labels for
// the host to lay out, since a cell cannot carry both dots and a glyph.
type Braille struct {
	Cols, Rows int
	Grid       [][]rune
	labels     []Label
}

func NewBraille(cols, rows int) *Braille {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	b := &Braille{Cols: cols, Rows: rows, Grid: make([][]rune, rows)}
	for i := range b.Grid {
		b.Grid[i] = make([]rune, cols)
	}
	b.reset()
	return b
}

// Width and Height are the logical surface size in dots.
func (b *Braille) Width() int  { return b.Cols * 2 }
func (b *Braille) Height() int { return b.Rows * 4 }

func (b *Braille) reset() {
	for i := range b.Grid {
		for j := range b.Grid[i] {
			b.Grid[i][j] = blank
		}
	}
	b.labels = b.labels[:0]
}

// Set lights the dot at (x, y). Out of range dots are ignored.
func (b *Braille) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (b *Braille) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.Grid[row][col] &^= pixelMap[y%4][x%2]
}

// Lit reports whether the dot at (x, y) is set.
func (b *Braille) Lit(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return false
	}
	return b.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

// Clear blanks every dot inside r. Clearing the whole surface also drops
// all labels.
func (b *Braille) Clear(r Rect, _ Color) {
	if r.X <= 0 && r.Y <= 0 && r.X+r.W >= float64(b.Width()) && r.Y+r.H >= float64(b.Height()) {
		b.reset()
		return
	}
	b.span(r.X, r.Y, r.W, r.H, b.Unset)
}

// FillRect lights every dot the rectangle covers. Mostly transparent fills
// are dropped; a monochrome cell has no way to show them.
func (b *Braille) FillRect(x, y, w, h float64, c Color) {
	if c.A < 0.5 {
		return
	}
	b.span(x, y, w, h, b.Set)
}

func (b *Braille) FillText(s string, x, y float64, _ Color) {
	b.labels = append(b.labels, Label{Text: s, X: x, Y: y})
}

func (b *Braille) Labels() []Label { return b.labels }

func (b *Braille) span(x, y, w, h float64, dot func(x, y int)) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	maxX, maxY := b.Width(), b.Height()
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > maxX {
		x1 = maxX
	}
	if y1 > maxY {
		y1 = maxY
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dot(px, py)
		}
	}
}

func (b *Braille) String() string {
	var sb strings.Builder
	for i, row := range b.Grid {
		sb.WriteString(string(row))
		if i < len(b.Grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
