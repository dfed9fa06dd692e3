package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/screenlab/clusterscreen/internal/detect"
	"github.com/screenlab/clusterscreen/internal/metrics"
	"github.com/screenlab/clusterscreen/internal/orchestration"
	"github.com/screenlab/clusterscreen/internal/search"
	"github.com/screenlab/clusterscreen/internal/statistics"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", 10))
	assert.Equal(t, "exactlyten", truncateName("exactlyten", 10))
	assert.Equal(t, "much-too-…", truncateName("much-too-long-name", 10))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 5))
}

func TestFormatParams(t *testing.T) {
	assert.Equal(t, "-", formatParams(nil))
	assert.Equal(t, "k=3", formatParams(map[string]float64{"k": 3}))
	// keys print in sorted order
	assert.Equal(t, "eps=1.5 minpts=4", formatParams(map[string]float64{
		"minpts": 4,
		"eps":    1.5,
	}))
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "0.875", formatMetric(0.875))
	assert.Equal(t, "n/a", formatMetric(math.NaN()))
}

func sampleOutcome() *orchestration.SuiteOutcome {
	return &orchestration.SuiteOutcome{
		SuiteName: "demo",
		Dataset: orchestration.DatasetSummary{
			Path:      "wdbc.csv",
			Samples:   569,
			Features:  30,
			Positives: 212,
		},
		DurationMs: 1234,
		Detectors: []orchestration.DetectorOutcome{
			{
				Name: "kmeans",
				Type: detect.TypeKMeans,
				Result: &search.Result{
					Detector: "kmeans",
					Params:   detect.Params{"k": 4},
					Metrics: metrics.Record{
						Sensitivity: 0.9,
						Specificity: 0.8,
						Precision:   0.7,
						Combined:    2.4,
					},
				},
				CI: &statistics.ConfidenceInterval{
					Lower: 0.81, Upper: 0.89, Mean: 0.85, ConfidenceLevel: 0.95,
				},
			},
			{
				Name:                 "dbscan",
				Type:                 detect.TypeDBSCAN,
				Error:                "no valid configuration: detector dbscan attempted 20 tuples, 0 undefined (NaN), 20 failed",
				NoValidConfiguration: true,
			},
		},
	}
}

func TestPrintSuiteOutcome(t *testing.T) {
	var b strings.Builder
	PrintSuiteOutcome(&b, sampleOutcome())
	out := b.String()

	assert.Contains(t, out, "Suite: demo")
	assert.Contains(t, out, "569 samples")
	assert.Contains(t, out, "212 positive")
	assert.Contains(t, out, "kmeans")
	assert.Contains(t, out, "k=4")
	assert.Contains(t, out, "2.400")
	assert.Contains(t, out, "0.850 [0.810, 0.890]")
	assert.Contains(t, out, "no valid configuration")
	assert.Contains(t, out, "[WARN] 1 detector(s) produced no valid configuration")
}

func TestProgressReporter(t *testing.T) {
	var b strings.Builder
	listener := progressReporter(&b)

	listener(orchestration.ProgressEvent{
		EventType:      orchestration.EventSuiteStart,
		TotalDetectors: 2,
	})
	listener(orchestration.ProgressEvent{
		EventType:      orchestration.EventDetectorStart,
		Detector:       "kmeans",
		DetectorNum:    1,
		TotalDetectors: 2,
	})
	listener(orchestration.ProgressEvent{
		EventType:      orchestration.EventDetectorComplete,
		Detector:       "kmeans",
		DetectorNum:    1,
		TotalDetectors: 2,
		Combined:       2.4,
		DurationMs:     80,
	})

	out := b.String()
	assert.Contains(t, out, "Sweeping 2 detector(s)")
	assert.Contains(t, out, "[1/2] kmeans...")
	assert.Contains(t, out, "combined 2.400 (80ms)")
}
