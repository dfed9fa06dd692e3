// Package orchestration runs a full evaluation suite: it prepares the
// dataset, sweeps every configured detector, and collects the outcomes.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/screenlab/clusterscreen/internal/config"
	"github.com/screenlab/clusterscreen/internal/dataset"
	"github.com/screenlab/clusterscreen/internal/detect"
	"github.com/screenlab/clusterscreen/internal/models"
	"github.com/screenlab/clusterscreen/internal/search"
	"github.com/screenlab/clusterscreen/internal/statistics"
)

// Runner orchestrates one suite end to end.
type Runner struct {
	suite *config.Suite

	// Detector filtering
	detectorFilters []string

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventSuiteStart       EventType = "suite_start"
	EventSuiteComplete    EventType = "suite_complete"
	EventDetectorStart    EventType = "detector_start"
	EventDetectorComplete EventType = "detector_complete"
	EventDetectorFailed   EventType = "detector_failed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType      EventType
	Detector       string
	DetectorNum    int
	TotalDetectors int
	DurationMs     int64
	Combined       float64
	Err            error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDetectorFilters sets glob patterns used to select detectors by name.
func WithDetectorFilters(patterns ...string) RunnerOption {
	return func(r *Runner) {
		r.detectorFilters = patterns
	}
}

// NewRunner creates a new suite runner
func NewRunner(suite *config.Suite, opts ...RunnerOption) *Runner {
	r := &Runner{
		suite:     suite,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// DatasetSummary describes the prepared dataset.
type DatasetSummary struct {
	Path            string `json:"path"`
	Samples         int    `json:"samples"`
	Features        int    `json:"features"`
	Positives       int    `json:"positives"`
	Standardized    bool   `json:"standardized"`
	ReducedFeatures int    `json:"reduced_features,omitempty"`
}

// DetectorOutcome is the result of one detector's sweep. Exactly one of
// Result and Error is set.
type DetectorOutcome struct {
	Name       string      `json:"name"`
	Type       detect.Type `json:"type"`
	DurationMs int64       `json:"duration_ms"`

	Result *search.Result                 `json:"result,omitempty"`
	CI     *statistics.ConfidenceInterval `json:"confidence_interval,omitempty"`
	Error  string                         `json:"error,omitempty"`

	// NoValidConfiguration distinguishes an exhausted sweep from a setup
	// failure.
	NoValidConfiguration bool `json:"no_valid_configuration,omitempty"`
}

// SuiteOutcome aggregates the whole run.
type SuiteOutcome struct {
	SuiteName   string            `json:"suite_name"`
	Description string            `json:"description,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	DurationMs  int64             `json:"duration_ms"`
	Dataset     DatasetSummary    `json:"dataset"`
	Detectors   []DetectorOutcome `json:"detectors"`
}

// Failures counts detectors that produced no result.
func (o *SuiteOutcome) Failures() int {
	n := 0
	for _, d := range o.Detectors {
		if d.Result == nil {
			n++
		}
	}
	return n
}

// Run executes the entire suite. Detector failures are recorded in the
// outcome and do not abort the run; only dataset preparation errors and
// context cancellation do.
func (r *Runner) Run(ctx context.Context) (*SuiteOutcome, error) {
	startTime := time.Now()

	full, reduced, summary, err := r.prepareDataset()
	if err != nil {
		return nil, err
	}

	entries := r.suite.Detectors
	if len(r.detectorFilters) > 0 {
		entries, err = FilterDetectors(entries, r.detectorFilters)
		if err != nil {
			return nil, fmt.Errorf("detector filter error: %w", err)
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("no detectors matched the filters")
		}
	}

	r.notifyProgress(ProgressEvent{
		EventType:      EventSuiteStart,
		TotalDetectors: len(entries),
	})

	outcomes := make([]DetectorOutcome, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ds := full
		if entry.ReducedFeatures {
			if reduced == nil {
				return nil, fmt.Errorf("detector %q requests reduced features but no projection was configured", entry.Name)
			}
			ds = reduced
		}
		outcome := r.runDetector(ctx, entry, ds, i+1, len(entries))
		outcomes = append(outcomes, outcome)
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventSuiteComplete,
		DurationMs: time.Since(startTime).Milliseconds(),
	})

	return &SuiteOutcome{
		SuiteName:   r.suite.Name,
		Description: r.suite.Description,
		Timestamp:   startTime.UTC(),
		DurationMs:  time.Since(startTime).Milliseconds(),
		Dataset:     summary,
		Detectors:   outcomes,
	}, nil
}

// prepareDataset loads the CSV and applies standardization and the
// optional PCA projection. The reduced dataset shares labels with the
// full one.
func (r *Runner) prepareDataset() (full, reduced *models.Dataset, summary DatasetSummary, err error) {
	dc := r.suite.Dataset

	full, err = dataset.Load(dc.Path, dataset.Options{
		LabelColumn:   dc.LabelColumn,
		PositiveToken: dc.PositiveLabel,
		DropColumns:   dc.DropColumns,
	})
	if err != nil {
		return nil, nil, DatasetSummary{}, err
	}

	if dc.Standardize {
		full.Features = dataset.Standardize(full.Features)
	}

	if dc.PCAComponents > 0 {
		projected, perr := dataset.Project(full.Features, dc.PCAComponents)
		if perr != nil {
			return nil, nil, DatasetSummary{}, fmt.Errorf("pca projection: %w", perr)
		}
		names := make([]string, dc.PCAComponents)
		for i := range names {
			names[i] = fmt.Sprintf("pc%d", i+1)
		}
		reduced = &models.Dataset{
			Features:     projected,
			Labels:       full.Labels,
			FeatureNames: names,
		}
	}

	summary = DatasetSummary{
		Path:            dc.Path,
		Samples:         full.Len(),
		Features:        full.Dim(),
		Positives:       full.Positives(),
		Standardized:    dc.Standardize,
		ReducedFeatures: dc.PCAComponents,
	}
	return full, reduced, summary, nil
}

func (r *Runner) runDetector(ctx context.Context, entry config.DetectorEntry, ds *models.Dataset, num, total int) DetectorOutcome {
	started := time.Now()

	name := entry.Name
	if name == "" {
		name = string(entry.Type)
	}

	r.notifyProgress(ProgressEvent{
		EventType:      EventDetectorStart,
		Detector:       name,
		DetectorNum:    num,
		TotalDetectors: total,
	})

	outcome := DetectorOutcome{Name: name, Type: entry.Type}

	fail := func(err error) DetectorOutcome {
		outcome.DurationMs = time.Since(started).Milliseconds()
		outcome.Error = err.Error()
		outcome.NoValidConfiguration = errors.Is(err, search.ErrNoValidConfiguration)
		r.notifyProgress(ProgressEvent{
			EventType:      EventDetectorFailed,
			Detector:       name,
			DetectorNum:    num,
			TotalDetectors: total,
			DurationMs:     outcome.DurationMs,
			Err:            err,
		})
		return outcome
	}

	detector, err := detect.New(entry.Config)
	if err != nil {
		return fail(err)
	}

	var opts []search.Option
	if r.suite.Parallel {
		opts = append(opts, search.WithParallel(r.suite.Workers))
	}

	result, err := search.New(detector, ds, entry.Grid, opts...).Run(ctx)
	if err != nil {
		return fail(err)
	}

	ci := statistics.AccuracyCI(result.Predictions, ds.Labels, r.suite.Confidence(), r.suite.Seed)

	outcome.DurationMs = time.Since(started).Milliseconds()
	outcome.Result = result
	outcome.CI = &ci

	r.notifyProgress(ProgressEvent{
		EventType:      EventDetectorComplete,
		Detector:       name,
		DetectorNum:    num,
		TotalDetectors: total,
		DurationMs:     outcome.DurationMs,
		Combined:       result.Metrics.Combined,
	})
	return outcome
}
