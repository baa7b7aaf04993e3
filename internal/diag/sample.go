package diag

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/telemetry"
)

type Options struct {
	// Workers bounds concurrent rows. Zero means GOMAXPROCS.
	Workers int
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
}

// SamplePlane evaluates fn at every cell of p. Rows are dispatched to at most
// opts.Workers goroutines; fn and f must be safe for concurrent use. Every
// cell runs the full evaluation stack; nothing is shared between cells.
func SamplePlane(ctx context.Context, f field.MetricField, p Plane, fn ScalarFunc, opts Options) (*Grid, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Grid{Plane: p, Values: make([]float64, p.Nu*p.Nv)}
	start := time.Now()

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < p.Nu; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error {
			row := g.Row(i)
			for j := range row {
				if err := gctx.Err(); err != nil {
					return err
				}
				t0 := time.Now()
				row[j] = fn(f, p.Point(i, j))
				opts.Metrics.ObserveSince(telemetry.KindSample, t0)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("plane sampled",
		"axes", [2]int{p.AxisU, p.AxisV},
		"cells", len(g.Values),
		"workers", workers,
		"elapsed", time.Since(start))
	return g, nil
}
