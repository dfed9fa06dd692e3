package metrics

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestCount(t *testing.T) {
	tests := []struct {
		name        string
		predictions []int
		labels      []int
		expect      Confusion
	}{
		{"one_of_two_positives_found", []int{1, 0, 0, 0}, []int{1, 1, 0, 0}, Confusion{TP: 1, FN: 1, TN: 2}},
		{"all_predicted_positive", []int{1, 1, 1, 1}, []int{1, 0, 0, 1}, Confusion{TP: 2, FP: 2}},
		{"all_predicted_negative", []int{0, 0, 0}, []int{0, 1, 0}, Confusion{FN: 1, TN: 2}},
		{"perfect", []int{1, 0, 1}, []int{1, 0, 1}, Confusion{TP: 2, TN: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Count(tt.predictions, tt.labels)
			if err != nil {
				t.Fatalf("Count returned error: %v", err)
			}
			if got != tt.expect {
				t.Errorf("Count = %+v, want %+v", got, tt.expect)
			}
			if got.Total() != len(tt.labels) {
				t.Errorf("counts sum to %d, want %d", got.Total(), len(tt.labels))
			}
		})
	}
}

func TestCountInvalidArgument(t *testing.T) {
	tests := []struct {
		name        string
		predictions []int
		labels      []int
	}{
		{"empty", []int{}, []int{}},
		{"mismatched_lengths", []int{1, 0}, []int{1, 0, 1}},
		{"non_binary_prediction", []int{2, 0}, []int{1, 0}},
		{"non_binary_label", []int{1, 0}, []int{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Count(tt.predictions, tt.labels)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Count error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestScorePartialRecall(t *testing.T) {
	// labels [1,1,0,0], predictions [1,0,0,0]:
	// TP=1 FN=1 FP=0 TN=2.
	r, err := Score([]int{1, 0, 0, 0}, []int{1, 1, 0, 0})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if !approxEqual(r.Sensitivity, 0.5) {
		t.Errorf("sensitivity = %f, want 0.5", r.Sensitivity)
	}
	if !approxEqual(r.Specificity, 1.0) {
		t.Errorf("specificity = %f, want 1.0", r.Specificity)
	}
	if !approxEqual(r.Precision, 1.0) {
		t.Errorf("precision = %f, want 1.0", r.Precision)
	}
	if !approxEqual(r.Combined, 2.5) {
		t.Errorf("combined = %f, want 2.5", r.Combined)
	}
}

func TestScoreAllPositive(t *testing.T) {
	// Everything predicted positive against labels [1,0,0,1]:
	// TP=2 FP=2 FN=0 TN=0.
	r, err := Score([]int{1, 1, 1, 1}, []int{1, 0, 0, 1})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if !approxEqual(r.Sensitivity, 1.0) {
		t.Errorf("sensitivity = %f, want 1.0", r.Sensitivity)
	}
	if !approxEqual(r.Specificity, 0.0) {
		t.Errorf("specificity = %f, want 0.0", r.Specificity)
	}
	if !approxEqual(r.Precision, 0.5) {
		t.Errorf("precision = %f, want 0.5", r.Precision)
	}
}

func TestScoreUndefinedMetricsPropagateNaN(t *testing.T) {
	// No positive predictions and no positive labels: precision and
	// sensitivity both undefined.
	r, err := Score([]int{0, 0, 0}, []int{0, 0, 0})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if !math.IsNaN(r.Sensitivity) {
		t.Errorf("sensitivity = %f, want NaN", r.Sensitivity)
	}
	if !math.IsNaN(r.Precision) {
		t.Errorf("precision = %f, want NaN", r.Precision)
	}
	if !math.IsNaN(r.Combined) {
		t.Errorf("combined = %f, want NaN", r.Combined)
	}
	if r.Valid() {
		t.Error("record with NaN combined score must not be valid")
	}
	if !approxEqual(r.Specificity, 1.0) {
		t.Errorf("specificity = %f, want 1.0", r.Specificity)
	}
}

func TestScoreMetricBounds(t *testing.T) {
	// Every defined metric stays inside [0, 1] across a spread of vectors.
	cases := [][2][]int{
		{{1, 0, 1, 0}, {0, 1, 0, 1}},
		{{1, 1, 0, 0}, {1, 0, 1, 0}},
		{{0, 1}, {1, 1}},
		{{1}, {1}},
		{{0}, {1}},
	}
	for _, c := range cases {
		r, err := Score(c[0], c[1])
		if err != nil {
			t.Fatalf("Score(%v, %v) returned error: %v", c[0], c[1], err)
		}
		for name, v := range map[string]float64{
			"sensitivity": r.Sensitivity,
			"specificity": r.Specificity,
			"precision":   r.Precision,
		} {
			if math.IsNaN(v) {
				continue
			}
			if v < 0 || v > 1 {
				t.Errorf("%s = %f out of [0,1] for %v vs %v", name, v, c[0], c[1])
			}
		}
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		expect Summary
	}{
		{"empty", nil, Summary{}},
		{"all_nan", []float64{math.NaN(), math.NaN()}, Summary{}},
		{"single", []float64{2.5}, Summary{Defined: 1, Mean: 2.5, Min: 2.5, Max: 2.5}},
		{"mixed_nan", []float64{1.0, math.NaN(), 3.0}, Summary{Defined: 2, Mean: 2.0, StdDev: 1.0, Min: 1.0, Max: 3.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.scores)
			if got.Defined != tt.expect.Defined {
				t.Fatalf("Defined = %d, want %d", got.Defined, tt.expect.Defined)
			}
			if !approxEqual(got.Mean, tt.expect.Mean) || !approxEqual(got.StdDev, tt.expect.StdDev) ||
				!approxEqual(got.Min, tt.expect.Min) || !approxEqual(got.Max, tt.expect.Max) {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.scores, got, tt.expect)
			}
		})
	}
}
