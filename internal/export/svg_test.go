package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/livebg/internal/render"
	"github.com/san-kum/livebg/internal/storage"
)

func TestSVGSink(t *testing.T) {
	s := NewSVG(200, 100)
	s.FillRect(1, 1, 3, 3, render.PointColor)
	s.Clear(render.Rect{W: 200, H: 100}, render.Background)
	s.FillRect(10, 20, 3, 3, render.PointColor)
	s.FillText("N=1 <x>", 10, 20, render.TextColor)

	out := s.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	if strings.Contains(out, `x="1.0"`) {
		t.Error("full clear should drop earlier elements")
	}
	if !strings.Contains(out, `<rect x="10.0" y="20.0" width="3.0" height="3.0" fill="#ffffff" fill-opacity="0.80"/>`) {
		t.Errorf("missing point rect in %s", out)
	}
	if !strings.Contains(out, `fill="#0a0a0a"`) {
		t.Error("missing background")
	}
	if !strings.Contains(out, "N=1 &lt;x&gt;</text>") {
		t.Error("expected escaped label text")
	}
}

func TestSVGPartialClear(t *testing.T) {
	s := NewSVG(50, 50)
	s.FillRect(1, 1, 3, 3, render.PointColor)
	s.Clear(render.Rect{X: 0, Y: 0, W: 10, H: 10}, render.Background)

	if strings.Count(s.String(), "<rect x=") != 2 {
		t.Error("partial clear should paint over, not reset")
	}
}

func TestBrailleToSVG(t *testing.T) {
	if BrailleToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}

	b := render.NewBraille(2, 1)
	b.Set(0, 0)
	b.Set(3, 3)
	out := BrailleToSVG(b, 2)

	if strings.Count(out, "<circle") != 2 {
		t.Errorf("expected 2 dots, got %d", strings.Count(out, "<circle"))
	}
	if !strings.Contains(out, `width="8" height="8"`) {
		t.Error("expected scaled document size")
	}
	if !strings.Contains(out, `cx="7.0" cy="7.0"`) {
		t.Error("expected dot centre at (7,7)")
	}
}

func TestTrailToSVG(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		points []TrailPoint
		want   string
	}{
		{"too short", []TrailPoint{{1, 1}}, ""},
		{"all nan", []TrailPoint{{nan, 1}, {nan, 2}}, ""},
		{"line", []TrailPoint{{1, 2}, {3, 4}}, `d="M1.0,2.0 L3.0,4.0"`},
		{"broken", []TrailPoint{{1, 1}, {2, 2}, {nan, 0}, {5, 5}, {6, 6}}, `d="M1.0,1.0 L2.0,2.0 M5.0,5.0 L6.0,6.0"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrailToSVG(tt.points, 100, 100, "#ff6600")
			if tt.want == "" {
				if got != "" {
					t.Errorf("expected empty output, got %s", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected %s in %s", tt.want, got)
			}
		})
	}
}

func TestCaptureChart(t *testing.T) {
	meta := &storage.CaptureMetadata{ID: "fire_1_abcd1234", Effect: "fire", Width: 320, Height: 200}
	samples := []storage.Sample{
		{Frame: 1, Time: 0.5, Count: 6000, FPS: 60},
		{Frame: 2, Time: 1.0, Count: 6100, FPS: 59},
	}

	var buf bytes.Buffer
	if err := CaptureChart(&buf, meta, samples); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<html", "Frame rate", "6100"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected chart html to contain %q", want)
		}
	}

	if err := CaptureChart(&buf, meta, nil); err == nil {
		t.Error("expected error for a capture without samples")
	}
}
