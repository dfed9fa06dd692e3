package statistics

import (
	"math"
	"testing"
)

func TestAccuracyCI_MismatchedLengths(t *testing.T) {
	ci := AccuracyCI([]int{1, 0}, []int{1}, 0.95, 42)
	if ci.Mean != 0.0 || ci.Lower != 0.0 || ci.Upper != 0.0 {
		t.Errorf("expected zero CI for mismatched input, got %+v", ci)
	}
}

func TestAccuracyCI_SingleSample(t *testing.T) {
	ci := AccuracyCI([]int{1}, []int{1}, 0.95, 42)
	if ci.Mean != 1.0 || ci.Lower != 1.0 || ci.Upper != 1.0 {
		t.Errorf("expected degenerate CI for single sample, got %+v", ci)
	}
	if ci.NumBootstraps != 0 {
		t.Errorf("expected 0 bootstraps for single sample, got %d", ci.NumBootstraps)
	}
}

func TestAccuracyCI_PerfectAgreement(t *testing.T) {
	preds := []int{1, 0, 1, 0, 1}
	ci := AccuracyCI(preds, preds, 0.95, 42)
	if math.Abs(ci.Lower-1.0) > 1e-9 || math.Abs(ci.Upper-1.0) > 1e-9 {
		t.Errorf("expected CI [1, 1] for perfect agreement, got [%f, %f]", ci.Lower, ci.Upper)
	}
}

func TestAccuracyCI_KnownAccuracy(t *testing.T) {
	// 10 samples, 7 correct.
	preds := []int{1, 1, 1, 1, 1, 1, 1, 0, 0, 0}
	labels := []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	ci := AccuracyCI(preds, labels, 0.95, 42)

	if math.Abs(ci.Mean-0.7) > 1e-9 {
		t.Errorf("expected mean accuracy 0.7, got %f", ci.Mean)
	}
	if ci.Lower >= ci.Mean || ci.Upper <= ci.Mean {
		t.Errorf("expected interval to bracket the mean, got [%f, %f] around %f", ci.Lower, ci.Upper, ci.Mean)
	}
	if ci.NumBootstraps != DefaultBootstrapIterations {
		t.Errorf("expected %d bootstraps, got %d", DefaultBootstrapIterations, ci.NumBootstraps)
	}
}

func TestAccuracyCI_SeededReproducibility(t *testing.T) {
	preds := []int{1, 0, 1, 1, 0, 0, 1, 0}
	labels := []int{1, 1, 1, 0, 0, 0, 1, 1}

	a := AccuracyCI(preds, labels, 0.95, 7)
	b := AccuracyCI(preds, labels, 0.95, 7)
	if a != b {
		t.Errorf("same seed produced different intervals: %+v vs %+v", a, b)
	}
}
