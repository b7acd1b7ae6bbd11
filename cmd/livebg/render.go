package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/livebg/internal/config"
	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/export"
	"github.com/san-kum/livebg/internal/headless"
	"github.com/san-kum/livebg/internal/registry"
	"github.com/san-kum/livebg/internal/session"
	"github.com/san-kum/livebg/internal/storage"
	"github.com/spf13/cobra"
)

func runRender(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = []string{""}
	}

	done, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := signalContext()
	defer cancel()

	cfgs := make([]*config.Config, len(names))
	jobs := make([]headless.Job, len(names))
	for i, name := range names {
		var cfgArgs []string
		if name != "" {
			cfgArgs = []string{name}
		}
		cfg, err := loadConfig(cmd, cfgArgs)
		if err != nil {
			return err
		}
		cfgs[i] = cfg

		loaders, err := effectLoaders(cfg)
		if err != nil {
			return err
		}

		out := cfg.Render.Out
		if len(names) > 1 {
			out = filepath.Join(out, cfg.Effect)
		}
		surf := effect.NewSurface(float64(cfg.Render.Width), float64(cfg.Render.Height), cfg.Scale)
		jobs[i] = headless.Job{
			Options: headless.Options{
				Effect:   cfg.Effect,
				Frames:   cfg.Render.Frames,
				FPS:      cfg.FPS,
				Realtime: cfg.Render.Realtime,
				Out:      out,
				Every:    every,
			},
			// each job owns its registry so no backend instance is shared
			NewSession: func() *session.Session {
				reg := registry.New()
				reg.RegisterAll(loaders)
				return newSession(reg, cfg, surf)
			},
		}
	}

	results, err := headless.Batch(ctx, jobs)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for i, res := range results {
		if err := saveCapture(st, cfgs[i], res); err != nil {
			return err
		}
	}
	return nil
}

func saveCapture(st *storage.Store, cfg *config.Config, res *headless.Result) error {
	id, err := st.Save(&storage.Capture{
		Effect:   res.Effect,
		Seed:     cfg.Seed,
		Speed:    cfg.Speed,
		Density:  cfg.Density,
		Zoom:     cfg.Zoom,
		ZoomAuto: cfg.ZoomAuto,
		Width:    cfg.Render.Width,
		Height:   cfg.Render.Height,
		Scale:    cfg.Scale,
		FPS:      cfg.FPS,
		Files:    res.Files,
		Samples:  res.Samples,
	})
	if err != nil {
		return err
	}

	dir := st.Dir(id)
	if err := os.WriteFile(filepath.Join(dir, "final.svg"), []byte(res.SVG), 0644); err != nil {
		return err
	}
	trail := make([]export.TrailPoint, len(res.Samples))
	for i, smp := range res.Samples {
		trail[i] = export.TrailPoint{X: smp.X, Y: smp.Y}
	}
	if svg := export.TrailToSVG(trail, cfg.Render.Width, cfg.Render.Height, "#ffffff"); svg != "" {
		if err := os.WriteFile(filepath.Join(dir, "trail.svg"), []byte(svg), 0644); err != nil {
			return err
		}
	}

	fmt.Printf("capture: %s\n", id)
	fmt.Printf("effect: %s\n", res.Effect)
	fmt.Printf("frames: %d  files: %d\n", len(res.Samples), len(res.Files))
	if n := len(res.Samples); n > 0 {
		last := res.Samples[n-1]
		fmt.Printf("points: %d  fps: %.0f  duration: %s\n", last.Count, last.FPS, formatDuration(last.Time))
	}
	fmt.Println(countGraph(res.Samples))
	fmt.Println()
	return nil
}

func countGraph(samples []storage.Sample) string {
	data := make([]float64, len(samples))
	for i, smp := range samples {
		data[i] = float64(smp.Count)
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Caption("points per frame"),
	)
}

func listCaptures(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	captures, err := st.List()
	if err != nil {
		return err
	}

	if len(captures) == 0 {
		fmt.Println("no captures found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEFFECT\tTIME\tFRAMES\tSIZE\tPEAK\tFPS")
	for _, c := range captures {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dx%d\t%.0f\t%.1f\n",
			c.ID,
			c.Effect,
			c.Timestamp.Format("2006-01-02 15:04:05"),
			c.Frames,
			c.Width, c.Height,
			c.Stats["peak_points"],
			c.Stats["mean_fps"],
		)
	}
	return w.Flush()
}

func showCapture(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func plotCapture(cmd *cobra.Command, args []string) error {
	id := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(id)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("capture: %s\n", meta.ID)
	fmt.Printf("effect: %s\n", meta.Effect)
	fmt.Printf("samples: %d\n\n", len(samples))

	fmt.Println(countGraph(samples))
	fmt.Println()

	rates := make([]float64, len(samples))
	for i, smp := range samples {
		rates[i] = smp.FPS
	}
	fmt.Println(asciigraph.Plot(rates,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Caption("smoothed fps"),
	))
	return nil
}

func chartCapture(cmd *cobra.Command, args []string) error {
	id := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(id)
	if err != nil {
		return err
	}

	path := chartOut
	if path == "" {
		path = filepath.Join(st.Dir(id), "chart.html")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.CaptureChart(f, meta, samples); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
