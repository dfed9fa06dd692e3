package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Project reduces the feature matrix to its first `components` principal
// components. The input is centered before projection; callers that want
// unit variance should Standardize first.
func Project(features [][]float64, components int) ([][]float64, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("pca: empty feature matrix")
	}
	rows, cols := len(features), len(features[0])
	if components < 1 || components > cols {
		return nil, fmt.Errorf("pca: components must be in [1, %d], got %d", cols, components)
	}
	if rows < 2 {
		return nil, fmt.Errorf("pca: need at least 2 samples, got %d", rows)
	}

	m := mat.NewDense(rows, cols, nil)
	for i, row := range features {
		if len(row) != cols {
			return nil, fmt.Errorf("pca: row %d has %d features, expected %d", i, len(row), cols)
		}
		m.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	// Center, then project onto the leading components.
	means := make([]float64, cols)
	colBuf := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(colBuf, j, m)
		means[j] = stat.Mean(colBuf, nil)
	}
	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, m.At(i, j)-means[j])
		}
	}

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, cols, 0, components))

	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, components)
		copy(out[i], proj.RawRowView(i))
	}
	return out, nil
}
