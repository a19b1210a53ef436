// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/katalvlaran/polartomo/basis"
	"github.com/katalvlaran/polartomo/maxlik"
	"github.com/katalvlaran/polartomo/metrics"
	"github.com/katalvlaran/polartomo/stokes"
	"golang.org/x/sync/errgroup"
)

// Outcome is the per-record entry of a Report. Failed records carry only
// Name and Error.
type Outcome struct {
	Name       string        `yaml:"name" json:"name"`
	Stokes     stokes.Vector `yaml:"stokes" json:"stokes"`
	Purity     float64       `yaml:"purity" json:"purity"`
	Fidelity   *float64      `yaml:"fidelity,omitempty" json:"fidelity,omitempty"`
	Iterations int           `yaml:"iterations" json:"iterations"`
	Distance   float64       `yaml:"distance" json:"distance"`
	Error      string        `yaml:"error,omitempty" json:"error,omitempty"`
}

// Failed reports whether the record could not be reconstructed.
func (o Outcome) Failed() bool { return o.Error != "" }

// Report holds outcomes in dataset order plus aggregate statistics.
type Report struct {
	Outcomes []Outcome `yaml:"records" json:"records"`
	Summary  Summary   `yaml:"summary" json:"summary"`
}

// Runner reconstructs the records of a Dataset concurrently.
type Runner struct {
	workers int
	logger  *slog.Logger
	mlOpts  []maxlik.Option
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of concurrent reconstructions.
// Panics if n <= 0.
func WithWorkers(n int) Option {
	if n <= 0 {
		panic("batch: WithWorkers requires n > 0")
	}

	return func(r *Runner) { r.workers = n }
}

// WithLogger sets the logger; it is also passed to every reconstruction.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithReconstructOptions forwards options to every maxlik.Reconstruct call.
func WithReconstructOptions(opts ...maxlik.Option) Option {
	return func(r *Runner) { r.mlOpts = append(r.mlOpts, opts...) }
}

// NewRunner returns a Runner with GOMAXPROCS workers and a discarding logger
// unless overridden.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run reconstructs every record. A failing record is reported in its Outcome
// and does not stop the others; only context cancellation aborts the run.
//
// Implementation:
//   - Stage 1: ds.Validate().
//   - Stage 2: errgroup limited to the worker count; each goroutine writes its
//     own slot of the pre-sized outcome slice.
//   - Stage 3: Summarize the successful outcomes.
func (r *Runner) Run(ctx context.Context, ds Dataset) (Report, error) {
	if err := ds.Validate(); err != nil {
		return Report{}, err
	}
	outcomes := make([]Outcome, len(ds.Records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, rec := range ds.Records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.process(rec)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("batch: run: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("batch: run: %w", err)
	}

	summary, err := Summarize(outcomes)
	if err != nil {
		return Report{}, err
	}
	r.logger.Info("batch finished",
		"records", summary.Total, "failed", summary.Failed, "mean_purity", summary.Purity.Mean)

	return Report{Outcomes: outcomes, Summary: summary}, nil
}

func (r *Runner) process(rec Record) Outcome {
	out := Outcome{Name: rec.Name}
	log := r.logger.With("record", rec.Name)

	opts := append([]maxlik.Option{maxlik.WithLogger(log)}, r.mlOpts...)
	res, err := maxlik.Reconstruct(rec.Counts, basis.Projectors(), opts...)
	if err != nil {
		log.Warn("reconstruction failed", "err", err)
		out.Error = err.Error()

		return out
	}
	out.Stokes, out.Iterations, out.Distance = res.Stokes, res.Iterations, res.Distance

	if out.Purity, err = metrics.Purity(res.Rho); err != nil {
		out.Error = err.Error()

		return out
	}
	if rec.Reference != "" {
		// labels were checked by Validate
		l, _ := basis.ParseLabel(rec.Reference)
		f, err := metrics.Fidelity(res.Rho, basis.ProjectorOf(l))
		if err != nil {
			out.Error = err.Error()

			return out
		}
		out.Fidelity = &f
	}

	return out
}
