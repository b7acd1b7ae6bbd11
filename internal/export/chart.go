package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/san-kum/livebg/internal/storage"
)

// CaptureChart writes an HTML page charting the point count and smoothed
// frame rate of a capture over time.
func CaptureChart(w io.Writer, meta *storage.CaptureMetadata, samples []storage.Sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("capture %s has no samples", meta.ID)
	}

	times := make([]string, len(samples))
	counts := make([]opts.LineData, len(samples))
	rates := make([]opts.LineData, len(samples))
	for i, smp := range samples {
		times[i] = fmt.Sprintf("%.2f", smp.Time)
		counts[i] = opts.LineData{Value: smp.Count}
		rates[i] = opts.LineData{Value: smp.FPS}
	}

	subtitle := fmt.Sprintf("%s  %dx%d  speed=%.2f density=%.3f zoom=%.2f",
		meta.Effect, meta.Width, meta.Height, meta.Speed, meta.Density, meta.Zoom)

	line := func(title, series string, data []opts.LineData) *charts.Line {
		l := charts.NewLine()
		l.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{PageTitle: meta.ID, Theme: "dark", Width: "900px", Height: "360px"}),
			charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		)
		l.SetXAxis(times).AddSeries(series, data)
		return l
	}

	page := components.NewPage()
	page.AddCharts(
		line("Points", "points", counts),
		line("Frame rate", "fps", rates),
	)
	return page.Render(w)
}
