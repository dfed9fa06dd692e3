package models

import "fmt"

// Dataset holds the labeled observations for one evaluation run. It is
// loaded once, validated, and treated as read-only for the lifetime of
// the process; detector runs share it without copying.
type Dataset struct {
	// Features is row-major: one row per sample, all rows the same length.
	Features [][]float64
	// Labels holds one {0,1} label per row of Features.
	Labels []int
	// FeatureNames are the column names from the source file, when known.
	FeatureNames []string
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Dim returns the feature dimensionality, or 0 for an empty dataset.
func (d *Dataset) Dim() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// Positives returns the number of positive-labeled samples.
func (d *Dataset) Positives() int {
	n := 0
	for _, l := range d.Labels {
		if l == 1 {
			n++
		}
	}
	return n
}

// Validate checks the dataset invariants: non-empty, rectangular feature
// matrix, one binary label per row.
func (d *Dataset) Validate() error {
	if len(d.Features) == 0 {
		return fmt.Errorf("dataset has no samples")
	}
	if len(d.Features) != len(d.Labels) {
		return fmt.Errorf("dataset has %d feature rows but %d labels", len(d.Features), len(d.Labels))
	}
	dim := len(d.Features[0])
	if dim == 0 {
		return fmt.Errorf("dataset has zero-length feature vectors")
	}
	for i, row := range d.Features {
		if len(row) != dim {
			return fmt.Errorf("sample %d has %d features, expected %d", i, len(row), dim)
		}
	}
	for i, l := range d.Labels {
		if l != 0 && l != 1 {
			return fmt.Errorf("sample %d has label %d, expected 0 or 1", i, l)
		}
	}
	return nil
}
