package session

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Overlay is the text shown around the surface. Hosts read it after each
// tick or input event.
type Overlay struct {
	FPS    string
	Points string
	Speed  string
	Zoom   string

	SpeedValue   string
	DensityValue string
	ZoomValue    string
}

var printer = message.NewPrinter(language.English)

func pointsText(n int32) string {
	return printer.Sprintf("points: %d", n)
}

func fpsText(rate float64) string {
	return fmt.Sprintf("fps: %.0f", rate)
}

func zoomStat(zoom float64) string {
	return "zoom: " + ZoomText(zoom)
}

func sampleStat(zoom, x, y float64, ok bool) string {
	if !ok {
		return zoomStat(zoom) + " | sample: NaN"
	}
	return fmt.Sprintf("%s | sample: (%.1f, %.1f)", zoomStat(zoom), x, y)
}

func noSampleStat(zoom float64) string {
	return zoomStat(zoom) + " | sample: (none)"
}
