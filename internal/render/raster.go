package render

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/san-kum/livebg/internal/effect"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSize is the logical size of overlay text.
const FontSize = 12

// Raster draws into a pixmap of Width*Scale by Height*Scale pixels. Callers
// pass logical coordinates; the scale is applied here.
type Raster struct {
	dc     *gg.Context
	scale  float64
	source *text.FontSource
	err    error
}

func NewRaster(s effect.Surface) (*Raster, error) {
	if s.Empty() {
		return nil, fmt.Errorf("raster: empty surface %dx%d", s.Width, s.Height)
	}
	px := func(v int) int { return int(math.Ceil(float64(v) * s.Scale)) }

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("raster: load font: %w", err)
	}

	dc := gg.NewContext(px(s.Width), px(s.Height))
	dc.SetFont(source.Face(FontSize * s.Scale))
	dc.ClearWithColor(Background)
	return &Raster{dc: dc, scale: s.Scale, source: source}, nil
}

func (r *Raster) Clear(rect Rect, c Color) {
	s := r.scale
	if rect.X <= 0 && rect.Y <= 0 &&
		rect.X+rect.W >= float64(r.dc.Width())/s && rect.Y+rect.H >= float64(r.dc.Height())/s {
		r.dc.ClearWithColor(c)
		return
	}
	r.fill(rect.X*s, rect.Y*s, rect.W*s, rect.H*s, c)
}

func (r *Raster) FillRect(x, y, w, h float64, c Color) {
	s := r.scale
	r.fill(x*s, y*s, w*s, h*s, c)
}

func (r *Raster) FillText(str string, x, y float64, c Color) {
	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
	r.dc.DrawString(str, x*r.scale, y*r.scale)
}

func (r *Raster) fill(x, y, w, h float64, c Color) {
	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
	r.dc.DrawRectangle(x, y, w, h)
	if err := r.dc.Fill(); err != nil && r.err == nil {
		r.err = err
	}
}

// Err returns the first fill error since the sink was created.
func (r *Raster) Err() error { return r.err }

func (r *Raster) Image() image.Image { return r.dc.Image() }

func (r *Raster) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

func (r *Raster) Close() error {
	err := r.dc.Close()
	if cerr := r.source.Close(); err == nil {
		err = cerr
	}
	return err
}
