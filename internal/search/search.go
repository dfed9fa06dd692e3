// Package search sweeps a detector's parameter grid and keeps the tuple
// with the best combined score. The sweep never terminates early: every
// tuple is evaluated, failing tuples are skipped, and only a sweep where
// nothing scored at all is an error.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/screenlab/clusterscreen/internal/detect"
	"github.com/screenlab/clusterscreen/internal/metrics"
	"github.com/screenlab/clusterscreen/internal/models"
	"github.com/screenlab/clusterscreen/internal/predict"
)

// ErrNoValidConfiguration reports that every tuple in the grid either
// failed or produced an undefined (NaN) combined score.
var ErrNoValidConfiguration = errors.New("no valid configuration")

const defaultWorkers = 4

// Search drives one detector over one grid.
type Search struct {
	detector detect.Detector
	dataset  *models.Dataset
	grid     Grid
	parallel bool
	workers  int
}

// Option configures a Search.
type Option func(*Search)

// WithParallel evaluates grid points concurrently with the given worker
// count (<= 0 selects the default). The result is identical to the
// sequential sweep: the reduction compares scores and then grid indexes,
// never completion order.
func WithParallel(workers int) Option {
	return func(s *Search) {
		s.parallel = true
		if workers > 0 {
			s.workers = workers
		}
	}
}

// New creates a search over detector and grid. The dataset is shared and
// read-only; each grid point owns its assignment and predictions.
func New(detector detect.Detector, dataset *models.Dataset, grid Grid, opts ...Option) *Search {
	s := &Search{
		detector: detector,
		dataset:  dataset,
		grid:     grid,
		workers:  defaultWorkers,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Result is the outcome of one full sweep: the winning tuple, its
// metrics, the assignment that produced it, and sweep diagnostics.
type Result struct {
	Detector    string                  `json:"detector"`
	Kind        detect.Kind             `json:"kind"`
	Params      detect.Params           `json:"params"`
	Metrics     metrics.Record          `json:"metrics"`
	Assignment  *models.Assignment      `json:"assignment,omitempty"`
	Predictions []int                   `json:"predictions"`
	Mapping     *predict.ClusterMapping `json:"mapping,omitempty"`

	// Sweep diagnostics: tuple counts and the combined-score spread.
	Attempted int             `json:"attempted"`
	Undefined int             `json:"undefined"`
	Failed    int             `json:"failed"`
	Summary   metrics.Summary `json:"summary"`
}

// evaluation is the outcome of a single grid point.
type evaluation struct {
	idx         int
	params      detect.Params
	rec         metrics.Record
	assignment  *models.Assignment
	predictions []int
	mapping     *predict.ClusterMapping
	err         error
}

// betterThan implements the selection order: a valid score beats an
// absent one, a strictly greater score beats a lesser one, and equal
// scores keep the earlier grid index. Comparing indexes makes the
// parallel reduction deterministic regardless of completion order.
func (e *evaluation) betterThan(best *evaluation) bool {
	if e.err != nil || !e.rec.Valid() {
		return false
	}
	if best == nil {
		return true
	}
	if e.rec.Combined != best.rec.Combined {
		return e.rec.Combined > best.rec.Combined
	}
	return e.idx < best.idx
}

// positiveSetter is implemented by group-id detectors that carry a
// configured explicit positive set.
type positiveSetter interface {
	PositiveSet() []int
}

// Run evaluates the full grid and returns the best configuration.
func (s *Search) Run(ctx context.Context) (*Result, error) {
	if err := s.dataset.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if err := s.grid.Validate(); err != nil {
		return nil, fmt.Errorf("grid for %s: %w", s.detector.Name(), err)
	}

	if s.detector.Kind() == detect.KindScore {
		return s.runScoreSweep(ctx)
	}
	return s.runGroupSweep(ctx)
}

// runGroupSweep invokes the detector once per tuple and maps its group
// assignment through the policy the detector's kind selects.
func (s *Search) runGroupSweep(ctx context.Context) (*Result, error) {
	tuples := s.grid.Tuples()

	var positiveSet []int
	if ps, ok := s.detector.(positiveSetter); ok {
		positiveSet = ps.PositiveSet()
	}
	// A missing set is a caller contract violation, not a failed tuple.
	if s.detector.Kind() == detect.KindExplicitSet && len(positiveSet) == 0 {
		return nil, fmt.Errorf("%w: detector %s uses the explicit policy without a positive set",
			predict.ErrInvalidArgument, s.detector.Name())
	}

	eval := func(idx int) *evaluation {
		e := &evaluation{idx: idx, params: tuples[idx]}

		a, err := s.detector.Assign(s.dataset.Features, tuples[idx])
		if err != nil {
			e.err = err
			return e
		}
		if a.Kind != models.AssignmentGroups {
			e.err = fmt.Errorf("detector produced %s output in a group sweep", a.Kind)
			return e
		}
		if a.Len() != s.dataset.Len() {
			e.err = fmt.Errorf("detector assigned %d samples, dataset has %d", a.Len(), s.dataset.Len())
			return e
		}
		e.assignment = a

		switch s.detector.Kind() {
		case detect.KindClustering:
			m, err := predict.MapClusters(a.Groups, s.dataset.Labels)
			if err != nil {
				e.err = err
				return e
			}
			e.mapping = m
			e.predictions = m.Predictions
		case detect.KindExplicitSet:
			preds, err := predict.MapExplicit(a.Groups, positiveSet)
			if err != nil {
				e.err = err
				return e
			}
			e.predictions = preds
		default:
			e.err = fmt.Errorf("unsupported detector kind %q", s.detector.Kind())
			return e
		}

		rec, err := metrics.Score(e.predictions, s.dataset.Labels)
		if err != nil {
			e.err = err
			return e
		}
		e.rec = rec
		return e
	}

	return s.sweep(ctx, len(tuples), eval)
}

// runScoreSweep invokes the detector once, then sweeps the threshold
// axis over its continuous scores. A detector failure here fails every
// tuple at once.
func (s *Search) runScoreSweep(ctx context.Context) (*Result, error) {
	if len(s.grid.Axes) != 1 {
		return nil, fmt.Errorf("grid for %s: score detectors sweep a single threshold axis, got %d axes",
			s.detector.Name(), len(s.grid.Axes))
	}

	a, err := s.detector.Assign(s.dataset.Features, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: detector %s failed before the sweep: %v",
			ErrNoValidConfiguration, s.detector.Name(), err)
	}
	if a.Kind != models.AssignmentScores {
		return nil, fmt.Errorf("detector %s produced %s output in a score sweep", s.detector.Name(), a.Kind)
	}
	if a.Len() != s.dataset.Len() {
		return nil, fmt.Errorf("detector %s scored %d samples, dataset has %d",
			s.detector.Name(), a.Len(), s.dataset.Len())
	}

	axis := s.grid.Axes[0].resolved(a.Scores)
	thresholds := axis.Values()

	eval := func(idx int) *evaluation {
		e := &evaluation{
			idx:        idx,
			params:     detect.Params{axis.Name: thresholds[idx]},
			assignment: a,
		}
		e.predictions = predict.Discretize(a.Scores, thresholds[idx])
		rec, err := metrics.Score(e.predictions, s.dataset.Labels)
		if err != nil {
			e.err = err
			return e
		}
		e.rec = rec
		return e
	}

	return s.sweep(ctx, len(thresholds), eval)
}

// sweep evaluates count grid points and reduces them to the best one.
func (s *Search) sweep(ctx context.Context, count int, eval func(idx int) *evaluation) (*Result, error) {
	scores := make([]float64, count)
	failures := make([]error, count)

	var best *evaluation
	var mu sync.Mutex

	reduce := func(e *evaluation) {
		mu.Lock()
		defer mu.Unlock()
		if e.err != nil {
			scores[e.idx] = math.NaN()
			failures[e.idx] = e.err
			return
		}
		scores[e.idx] = e.rec.Combined
		if e.betterThan(best) {
			best = e
		}
	}

	if s.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for idx := 0; idx < count; idx++ {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				reduce(eval(idx))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	} else {
		for idx := 0; idx < count; idx++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			reduce(eval(idx))
		}
	}

	undefined := 0
	failed := 0
	for idx := 0; idx < count; idx++ {
		if failures[idx] != nil {
			failed++
			slog.Debug("grid point failed",
				"detector", s.detector.Name(), "index", idx, "error", failures[idx])
			continue
		}
		if math.IsNaN(scores[idx]) {
			undefined++
			slog.Debug("grid point produced undefined metrics",
				"detector", s.detector.Name(), "index", idx)
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: detector %s attempted %d tuples, %d undefined (NaN), %d failed",
			ErrNoValidConfiguration, s.detector.Name(), count, undefined, failed)
	}

	return &Result{
		Detector:    s.detector.Name(),
		Kind:        s.detector.Kind(),
		Params:      best.params,
		Metrics:     best.rec,
		Assignment:  best.assignment,
		Predictions: best.predictions,
		Mapping:     best.mapping,
		Attempted:   count,
		Undefined:   undefined,
		Failed:      failed,
		Summary:     metrics.Summarize(scores),
	}, nil
}
