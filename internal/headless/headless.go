// Package headless drives a session without a display. Frames advance on a
// fixed virtual clock unless Realtime is set, and are rasterized to PNG.
package headless

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/livebg/internal/export"
	"github.com/san-kum/livebg/internal/logging"
	"github.com/san-kum/livebg/internal/render"
	"github.com/san-kum/livebg/internal/session"
	"github.com/san-kum/livebg/internal/storage"
)

type Options struct {
	Effect   string
	Frames   int
	FPS      int
	Realtime bool
	// Out is the PNG directory. Empty disables image output.
	Out string
	// Every writes one PNG per Every frames. The final frame is always written.
	Every int
	Start time.Time
}

type Result struct {
	Effect  string
	Samples []storage.Sample
	Files   []string
	// SVG is the final frame as an SVG document.
	SVG string
}

func (o Options) interval() time.Duration {
	fps := o.FPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// Run selects opts.Effect on sess and ticks it opts.Frames times.
func Run(ctx context.Context, sess *session.Session, opts Options) (*Result, error) {
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", opts.Frames)
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	if err := sess.Select(ctx, opts.Effect, start); err != nil {
		return nil, err
	}
	// a paused start still renders; there is no one to press resume
	if !sess.Params().Running {
		sess.Toggle(start)
	}

	raster, err := render.NewRaster(sess.Surface())
	if err != nil {
		return nil, err
	}
	defer raster.Close()

	if opts.Out != "" {
		if err := os.MkdirAll(opts.Out, 0755); err != nil {
			return nil, err
		}
	}

	interval := opts.interval()
	var ticker *time.Ticker
	if opts.Realtime {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	surf := sess.Surface()
	res := &Result{Effect: opts.Effect, Samples: make([]storage.Sample, 0, opts.Frames)}
	log := logging.L().With("effect", opts.Effect)
	log.Info("render started", "frames", opts.Frames, "fps", opts.FPS, "realtime", opts.Realtime)

	for i := 1; i <= opts.Frames; i++ {
		now := start.Add(time.Duration(i) * interval)
		if ticker != nil {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case now = <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return res, err
		}

		last := i == opts.Frames
		var sink render.Sink = raster
		var svg *export.SVG
		if last {
			svg = export.NewSVG(float64(surf.Width), float64(surf.Height))
			sink = render.Multi{raster, svg}
		}
		if !sess.Tick(now, sink) {
			return res, fmt.Errorf("frame %d: session is not running", i)
		}
		if err := raster.Err(); err != nil {
			return res, err
		}

		f := sess.LastFrame()
		x, y := f.X, f.Y
		if !f.Sample {
			// no point 0 this frame, or it was not finite
			x, y = math.NaN(), math.NaN()
		}
		res.Samples = append(res.Samples, storage.Sample{
			Frame: i,
			Time:  now.Sub(start).Seconds(),
			Count: f.Count,
			X:     x,
			Y:     y,
			FPS:   sess.Rate(),
		})

		if opts.Out != "" && (last || (opts.Every > 0 && i%opts.Every == 0)) {
			path := filepath.Join(opts.Out, fmt.Sprintf("frame_%04d.png", i))
			if err := raster.SavePNG(path); err != nil {
				return res, err
			}
			res.Files = append(res.Files, path)
		}
		if svg != nil {
			res.SVG = svg.String()
		}
	}

	log.Info("render finished", "files", len(res.Files))
	return res, nil
}

// Job is one render in a batch. NewSession must return a session with its
// own loader so that no backend instance is shared between jobs.
type Job struct {
	Options    Options
	NewSession func() *session.Session
}

// Batch renders every job concurrently. The first failure cancels the rest.
func Batch(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := Run(ctx, job.NewSession(), job.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Options.Effect, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
