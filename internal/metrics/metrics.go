package metrics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument reports a caller contract violation: mismatched
// lengths, empty vectors, or non-binary values. It is never retried.
var ErrInvalidArgument = errors.New("invalid argument")

// Confusion holds the four confusion-matrix counts for one prediction
// vector scored against ground truth. TP+FP+FN+TN always equals the
// number of samples.
type Confusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`
}

// Total returns the number of samples counted.
func (c Confusion) Total() int {
	return c.TP + c.FP + c.FN + c.TN
}

// Record holds the classification quality metrics for one prediction
// vector. A metric whose denominator is zero is NaN; NaN is propagated
// into Combined and is never substituted with a default.
type Record struct {
	Confusion   Confusion `json:"confusion"`
	Sensitivity float64   `json:"sensitivity"`
	Specificity float64   `json:"specificity"`
	Precision   float64   `json:"precision"`
	Combined    float64   `json:"combined"`
}

// Valid reports whether the combined score is a real number. An invalid
// record must never be considered "better" than any real-valued one.
func (r Record) Valid() bool {
	return !math.IsNaN(r.Combined)
}

// Count tallies the confusion matrix for predictions against labels.
// Both vectors must be non-empty, the same length, and binary.
func Count(predictions, labels []int) (Confusion, error) {
	if len(predictions) == 0 || len(labels) == 0 {
		return Confusion{}, fmt.Errorf("%w: empty prediction or label vector", ErrInvalidArgument)
	}
	if len(predictions) != len(labels) {
		return Confusion{}, fmt.Errorf("%w: %d predictions vs %d labels", ErrInvalidArgument, len(predictions), len(labels))
	}

	var c Confusion
	for i, p := range predictions {
		l := labels[i]
		if p != 0 && p != 1 {
			return Confusion{}, fmt.Errorf("%w: prediction %d at index %d is not binary", ErrInvalidArgument, p, i)
		}
		if l != 0 && l != 1 {
			return Confusion{}, fmt.Errorf("%w: label %d at index %d is not binary", ErrInvalidArgument, l, i)
		}
		switch {
		case p == 1 && l == 1:
			c.TP++
		case p == 1 && l == 0:
			c.FP++
		case p == 0 && l == 1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c, nil
}

// Score computes sensitivity, specificity, precision, and their sum from
// a prediction vector and ground-truth labels. Pure function; the only
// failure mode is malformed input.
func Score(predictions, labels []int) (Record, error) {
	c, err := Count(predictions, labels)
	if err != nil {
		return Record{}, err
	}
	r := Record{
		Confusion:   c,
		Sensitivity: ratio(c.TP, c.TP+c.FN),
		Specificity: ratio(c.TN, c.TN+c.FP),
		Precision:   ratio(c.TP, c.TP+c.FP),
	}
	r.Combined = r.Sensitivity + r.Specificity + r.Precision
	return r, nil
}

// ratio returns num/den, or NaN when the denominator is zero.
func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}
