package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenlab/clusterscreen/internal/detect"
	"github.com/screenlab/clusterscreen/internal/search"
)

const sampleSuite = `name: wdbc-screen
description: sweep detectors over the diagnostic dataset
dataset:
  path: data/wdbc.csv
  label_column: diagnosis
  positive_label: M
  drop_columns: [id]
  standardize: true
  pca_components: 3
parallel: true
max_workers: 8
seed: 7
detectors:
  - type: kmeans
    name: kmeans-full
    options:
      iterations: 500
    grid:
      axes:
        - name: k
          min: 2
          max: 6
          steps: 5
  - type: dbscan
    positive_set: [-1]
    reduced_features: true
    grid:
      axes:
        - name: eps
          min: 0.5
          max: 2.5
          steps: 5
        - name: minpts
          min: 3
          max: 9
          steps: 4
  - type: knn
    grid:
      axes:
        - name: threshold
          from_scores: true
          steps: 50
`

func writeSuite(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSuite(t, sampleSuite)

	suite, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wdbc-screen", suite.Name)
	assert.True(t, suite.Parallel)
	assert.Equal(t, 8, suite.Workers)
	assert.Equal(t, int64(7), suite.Seed)

	// relative dataset paths resolve against the suite file's directory
	assert.Equal(t, filepath.Join(filepath.Dir(path), "data", "wdbc.csv"), suite.Dataset.Path)
	assert.Equal(t, "diagnosis", suite.Dataset.LabelColumn)
	assert.Equal(t, "M", suite.Dataset.PositiveLabel)
	assert.Equal(t, []string{"id"}, suite.Dataset.DropColumns)
	assert.True(t, suite.Dataset.Standardize)
	assert.Equal(t, 3, suite.Dataset.PCAComponents)

	require.Len(t, suite.Detectors, 3)

	km := suite.Detectors[0]
	assert.Equal(t, detect.TypeKMeans, km.Type)
	assert.Equal(t, "kmeans-full", km.Name)
	assert.Equal(t, 500, km.Options["iterations"])
	assert.Equal(t, 5, km.Grid.Size())

	db := suite.Detectors[1]
	assert.Equal(t, detect.TypeDBSCAN, db.Type)
	assert.Equal(t, []int{-1}, db.PositiveSet)
	assert.True(t, db.ReducedFeatures)
	assert.Equal(t, 20, db.Grid.Size())

	knn := suite.Detectors[2]
	assert.Equal(t, detect.TypeKNN, knn.Type)
	require.Len(t, knn.Grid.Axes, 1)
	assert.True(t, knn.Grid.Axes[0].FromScores)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "failed to load suite")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeSuite(t, "name: [unterminated")
	_, err := Load(path)
	require.ErrorContains(t, err, "failed to parse suite")
}

func TestLoadAbsoluteDatasetPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere.csv")
	path := writeSuite(t, `name: abs
dataset:
  path: `+abs+`
  label_column: diagnosis
  positive_label: M
detectors:
  - type: kmeans
    grid:
      axes:
        - name: k
          min: 2
          max: 4
          steps: 3
`)
	suite, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, abs, suite.Dataset.Path)
}

func TestValidate(t *testing.T) {
	valid := func() *Suite {
		return &Suite{
			Dataset: DatasetConfig{
				Path:          "data.csv",
				LabelColumn:   "label",
				PositiveLabel: "1",
			},
			Detectors: []DetectorEntry{
				{
					Config: detect.Config{Type: detect.TypeKMeans},
					Grid: search.Grid{Axes: []search.Axis{
						{Name: "k", Min: 2, Max: 5, Steps: 4},
					}},
				},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing dataset path", func(t *testing.T) {
		s := valid()
		s.Dataset.Path = ""
		require.ErrorContains(t, s.Validate(), "dataset.path is required")
	})

	t.Run("missing label column", func(t *testing.T) {
		s := valid()
		s.Dataset.LabelColumn = ""
		require.ErrorContains(t, s.Validate(), "dataset.label_column is required")
	})

	t.Run("no detectors", func(t *testing.T) {
		s := valid()
		s.Detectors = nil
		require.ErrorContains(t, s.Validate(), "at least one detector")
	})

	t.Run("detector without type", func(t *testing.T) {
		s := valid()
		s.Detectors[0].Type = ""
		require.ErrorContains(t, s.Validate(), "has no type")
	})

	t.Run("duplicate detector names", func(t *testing.T) {
		s := valid()
		s.Detectors = append(s.Detectors, s.Detectors[0])
		require.ErrorContains(t, s.Validate(), `duplicate detector name "kmeans"`)
	})

	t.Run("reduced features without pca", func(t *testing.T) {
		s := valid()
		s.Detectors[0].ReducedFeatures = true
		require.ErrorContains(t, s.Validate(), "pca_components is 0")
	})

	t.Run("bad grid", func(t *testing.T) {
		s := valid()
		s.Detectors[0].Grid.Axes = nil
		require.ErrorContains(t, s.Validate(), "grid must have 1 or 2 axes")
	})

	t.Run("bad confidence level", func(t *testing.T) {
		s := valid()
		s.ConfidenceLevel = 1.0
		require.ErrorContains(t, s.Validate(), "confidence_level")
	})
}

func TestConfidenceDefault(t *testing.T) {
	s := &Suite{}
	assert.Equal(t, DefaultConfidenceLevel, s.Confidence())

	s.ConfidenceLevel = 0.9
	assert.Equal(t, 0.9, s.Confidence())
}
