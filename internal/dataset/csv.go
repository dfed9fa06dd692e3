// Package dataset loads the labeled feature table and prepares it for
// the detectors: CSV ingestion, standard scaling, and a PCA projection
// for the reduced feature view.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/screenlab/clusterscreen/internal/models"
)

// Options controls how the CSV columns map onto the dataset.
type Options struct {
	// LabelColumn names the ground-truth column. Required.
	LabelColumn string

	// PositiveToken is the label value read as positive (e.g. "M" for
	// malignant, or "1"). Any other value is negative.
	PositiveToken string

	// DropColumns are ignored entirely (e.g. a record id column).
	DropColumns []string
}

// Load reads a CSV file into a Dataset. The first row is treated as
// headers; every non-label, non-dropped column must parse as a float
// feature.
func Load(path string, opts Options) (*models.Dataset, error) {
	if opts.LabelColumn == "" {
		return nil, fmt.Errorf("csv: no label column configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	drop := make(map[string]bool, len(opts.DropColumns))
	for _, c := range opts.DropColumns {
		drop[c] = true
	}

	labelIdx := -1
	featureIdx := make([]int, 0, len(headers))
	featureNames := make([]string, 0, len(headers))
	for i, h := range headers {
		switch {
		case h == opts.LabelColumn:
			labelIdx = i
		case drop[h]:
		default:
			featureIdx = append(featureIdx, i)
			featureNames = append(featureNames, h)
		}
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("csv: %s has no %q column", path, opts.LabelColumn)
	}
	if len(featureIdx) == 0 {
		return nil, fmt.Errorf("csv: %s has no feature columns", path)
	}

	ds := &models.Dataset{
		Features:     make([][]float64, 0, len(records)-1),
		Labels:       make([]int, 0, len(records)-1),
		FeatureNames: featureNames,
	}

	for i, record := range records[1:] {
		rowNum := i + 2 // 1-based, after the header
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", rowNum, len(record), len(headers))
		}

		row := make([]float64, len(featureIdx))
		for j, col := range featureIdx {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("csv: row %d column %q: %w", rowNum, headers[col], err)
			}
			row[j] = v
		}
		ds.Features = append(ds.Features, row)

		label := 0
		if record[labelIdx] == opts.PositiveToken {
			label = 1
		}
		ds.Labels = append(ds.Labels, label)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return ds, nil
}
