// Package config loads and validates the evaluation suite file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/screenlab/clusterscreen/internal/detect"
	"github.com/screenlab/clusterscreen/internal/search"
)

// DefaultConfidenceLevel is used for the bootstrap interval when the
// suite does not set one.
const DefaultConfidenceLevel = 0.95

// Suite is a complete evaluation specification: one dataset and the
// detectors to sweep against it.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Dataset   DatasetConfig   `yaml:"dataset"`
	Detectors []DetectorEntry `yaml:"detectors"`

	// Parallel evaluates grid points concurrently; Workers caps the
	// worker count (0 selects the default).
	Parallel bool `yaml:"parallel,omitempty"`
	Workers  int  `yaml:"max_workers,omitempty"`

	// Seed makes the bootstrap interval reproducible; negative means
	// non-deterministic.
	Seed            int64   `yaml:"seed,omitempty"`
	ConfidenceLevel float64 `yaml:"confidence_level,omitempty"`
}

// DatasetConfig describes the labeled feature table and its preparation.
type DatasetConfig struct {
	Path          string   `yaml:"path"`
	LabelColumn   string   `yaml:"label_column"`
	PositiveLabel string   `yaml:"positive_label"`
	DropColumns   []string `yaml:"drop_columns,omitempty"`

	// Standardize scales every feature column to zero mean and unit
	// variance before any detector runs.
	Standardize bool `yaml:"standardize,omitempty"`

	// PCAComponents > 0 additionally computes a reduced feature view
	// with that many principal components.
	PCAComponents int `yaml:"pca_components,omitempty"`
}

// DetectorEntry pairs a detector configuration with its parameter grid.
type DetectorEntry struct {
	detect.Config `yaml:",inline"`

	// ReducedFeatures runs this detector on the PCA projection instead
	// of the full feature matrix.
	ReducedFeatures bool `yaml:"reduced_features,omitempty"`

	Grid search.Grid `yaml:"grid"`
}

// Load reads a suite from a YAML file. Relative dataset paths are
// resolved against the suite file's directory.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite %s: %w", path, err)
	}

	if suite.Dataset.Path != "" && !filepath.IsAbs(suite.Dataset.Path) {
		suite.Dataset.Path = filepath.Join(filepath.Dir(path), suite.Dataset.Path)
	}

	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}
	return &suite, nil
}

// Validate checks that the suite is runnable.
func (s *Suite) Validate() error {
	if s.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if s.Dataset.LabelColumn == "" {
		return fmt.Errorf("dataset.label_column is required")
	}
	if s.Dataset.PCAComponents < 0 {
		return fmt.Errorf("dataset.pca_components must be >= 0, got %d", s.Dataset.PCAComponents)
	}
	if len(s.Detectors) == 0 {
		return fmt.Errorf("at least one detector is required")
	}
	if s.ConfidenceLevel < 0 || s.ConfidenceLevel >= 1 {
		return fmt.Errorf("confidence_level must be in [0, 1), got %g", s.ConfidenceLevel)
	}

	seen := make(map[string]bool, len(s.Detectors))
	for i, d := range s.Detectors {
		if d.Type == "" {
			return fmt.Errorf("detector %d has no type", i)
		}
		name := d.Name
		if name == "" {
			name = string(d.Type)
		}
		if seen[name] {
			return fmt.Errorf("duplicate detector name %q", name)
		}
		seen[name] = true

		if d.ReducedFeatures && s.Dataset.PCAComponents == 0 {
			return fmt.Errorf("detector %q requests reduced features but dataset.pca_components is 0", name)
		}
		if err := d.Grid.Validate(); err != nil {
			return fmt.Errorf("detector %q: %w", name, err)
		}
	}
	return nil
}

// Confidence returns the configured confidence level or the default.
func (s *Suite) Confidence() float64 {
	if s.ConfidenceLevel == 0 {
		return DefaultConfidenceLevel
	}
	return s.ConfidenceLevel
}
