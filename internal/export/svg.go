package export

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/livebg/internal/render"
)

// SVG is a drawing sink that accumulates SVG elements. Coordinates are
// logical units and become user units in the document.
type SVG struct {
	Width, Height float64
	background    string
	body          strings.Builder
}

func NewSVG(width, height float64) *SVG {
	return &SVG{Width: width, Height: height, background: hexColor(render.Background)}
}

func (s *SVG) Clear(r render.Rect, c render.Color) {
	if r.X <= 0 && r.Y <= 0 && r.X+r.W >= s.Width && r.Y+r.H >= s.Height {
		s.body.Reset()
		s.background = hexColor(c)
		return
	}
	s.FillRect(r.X, r.Y, r.W, r.H, c)
}

func (s *SVG) FillRect(x, y, w, h float64, c render.Color) {
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"%s/>`+"\n",
		x, y, w, h, hexColor(c), opacity(c))
}

func (s *SVG) FillText(text string, x, y float64, c render.Color) {
	fmt.Fprintf(&s.body, `<text x="%.1f" y="%.1f" fill="%s"%s font-family="sans-serif" font-size="%d">`,
		x, y, hexColor(c), opacity(c), render.FontSize)
	xml.EscapeText(&s.body, []byte(text))
	s.body.WriteString("</text>\n")
}

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, s.background)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>")
	return sb.String()
}

func hexColor(c render.Color) string {
	b := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", b(c.R), b(c.G), b(c.B))
}

func opacity(c render.Color) string {
	if c.A >= 1 {
		return ""
	}
	return fmt.Sprintf(` fill-opacity="%.2f"`, c.A)
}

// BrailleToSVG converts a Braille canvas to SVG, one circle per lit dot.
func BrailleToSVG(b *render.Braille, scale float64) string {
	if b == nil {
		return ""
	}

	width := float64(b.Width()) * scale
	height := float64(b.Height()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#ffffff">
`, width, height, width, height, hexColor(render.Background))

	dotRadius := scale * 0.4
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if !b.Lit(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrailPoint is a position in surface coordinates.
type TrailPoint struct{ X, Y float64 }

// TrailToSVG draws the path a tracked point took across a surface. Non-finite
// points break the path.
func TrailToSVG(points []TrailPoint, width, height int, strokeColor string) string {
	var d strings.Builder
	move := true
	segs := 0
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			move = true
			continue
		}
		if move {
			if d.Len() > 0 {
				d.WriteByte(' ')
			}
			fmt.Fprintf(&d, "M%.1f,%.1f", p.X, p.Y)
			move = false
			continue
		}
		fmt.Fprintf(&d, " L%.1f,%.1f", p.X, p.Y)
		segs++
	}
	if segs == 0 {
		return ""
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
</svg>`, width, height, width, height, hexColor(render.Background), strokeColor, d.String())
}
