package dataset

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardize returns a copy of the feature matrix with every column
// shifted to zero mean and scaled to unit variance. Zero-variance
// columns map to zero rather than dividing by zero.
func Standardize(features [][]float64) [][]float64 {
	if len(features) == 0 {
		return nil
	}
	rows, cols := len(features), len(features[0])

	col := make([]float64, rows)
	means := make([]float64, cols)
	stds := make([]float64, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = features[i][j]
		}
		means[j] = stat.Mean(col, nil)
		stds[j] = stat.StdDev(col, nil)
	}

	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if stds[j] != 0 && !math.IsNaN(stds[j]) {
				out[i][j] = (features[i][j] - means[j]) / stds[j]
			}
		}
	}
	return out
}
