// Package detect adapts external unsupervised algorithms to a single
// Detector interface. The algorithms themselves come from the clusters
// library; this package only shapes their input and output.
package detect

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"github.com/screenlab/clusterscreen/internal/models"
)

// Kind tags how a detector's output becomes a binary prediction.
type Kind string

const (
	// KindClustering produces group ids mapped by the cluster policy.
	KindClustering Kind = "clustering"

	// KindExplicitSet produces group ids mapped against a caller-supplied
	// positive set.
	KindExplicitSet Kind = "explicit"

	// KindScore produces continuous scores thresholded by the search.
	KindScore Kind = "score"
)

// Type identifies a detector implementation.
type Type string

const (
	TypeKMeans Type = "kmeans"
	TypeDBSCAN Type = "dbscan"
	TypeOPTICS Type = "optics"
	TypeKNN    Type = "knn"
)

// Params is one grid point: named free-parameter values for a single
// detector invocation.
type Params map[string]float64

// Float returns the named parameter value.
func (p Params) Float(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	return v, nil
}

// Int returns the named parameter rounded to the nearest integer.
// Grid axes are float-valued even for integer parameters.
func (p Params) Int(name string) (int, error) {
	v, err := p.Float(name)
	if err != nil {
		return 0, err
	}
	return int(v + 0.5), nil
}

// Detector is the boundary contract for all unsupervised methods. Assign
// runs the method once over the full feature matrix with one parameter
// tuple; each call produces a fresh Assignment. An error from Assign
// marks that tuple as failed without aborting the sweep.
type Detector interface {
	Name() string
	Kind() Kind
	Assign(features [][]float64, params Params) (*models.Assignment, error)
}

// Config describes one detector entry as configured in a suite file.
type Config struct {
	Type Type   `yaml:"type" json:"type"`
	Name string `yaml:"name" json:"name"`

	// PositiveSet selects the explicit-set policy for group-id detectors
	// that support it (e.g. treating DBSCAN noise as positive).
	PositiveSet []int `yaml:"positive_set,omitempty" json:"positive_set,omitempty"`

	// Options holds fixed, non-swept settings (e.g. kmeans iterations).
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// New builds a detector from its configuration.
func New(cfg Config) (Detector, error) {
	name := cfg.Name
	if name == "" {
		name = string(cfg.Type)
	}

	switch cfg.Type {
	case TypeKMeans:
		var v *struct {
			Iterations int `mapstructure:"iterations"`
		}
		if err := mapstructure.Decode(cfg.Options, &v); err != nil {
			return nil, err
		}
		iterations := 0
		if v != nil {
			iterations = v.Iterations
		}
		if len(cfg.PositiveSet) > 0 {
			return nil, fmt.Errorf("kmeans derives its own positive set; positive_set is not allowed")
		}
		return NewKMeans(name, iterations), nil

	case TypeDBSCAN:
		var v *struct {
			Workers int `mapstructure:"workers"`
		}
		if err := mapstructure.Decode(cfg.Options, &v); err != nil {
			return nil, err
		}
		workers := 0
		if v != nil {
			workers = v.Workers
		}
		return NewDBSCAN(name, workers, cfg.PositiveSet), nil

	case TypeOPTICS:
		var v *struct {
			Xi      float64 `mapstructure:"xi"`
			Workers int     `mapstructure:"workers"`
		}
		if err := mapstructure.Decode(cfg.Options, &v); err != nil {
			return nil, err
		}
		xi := 0.0
		workers := 0
		if v != nil {
			xi = v.Xi
			workers = v.Workers
		}
		return NewOPTICS(name, xi, workers, cfg.PositiveSet), nil

	case TypeKNN:
		if len(cfg.PositiveSet) > 0 {
			return nil, fmt.Errorf("knn produces scores, not groups; positive_set is not allowed")
		}
		var v *struct {
			K int `mapstructure:"k"`
		}
		if err := mapstructure.Decode(cfg.Options, &v); err != nil {
			return nil, err
		}
		k := 0
		if v != nil {
			k = v.K
		}
		return NewKNNScorer(name, k), nil

	default:
		return nil, fmt.Errorf("%q is not a valid detector type", cfg.Type)
	}
}

// kindForGroups picks the policy for a group-id detector: explicit when a
// positive set was configured, cluster policy otherwise.
func kindForGroups(positiveSet []int) Kind {
	if len(positiveSet) > 0 {
		return KindExplicitSet
	}
	return KindClustering
}

// copyGuesses snapshots a clusterer's per-sample assignments; the library
// retains ownership of the slice it returns.
func copyGuesses(guesses []int) []int {
	out := make([]int, len(guesses))
	copy(out, guesses)
	return out
}

// sortedCopy is used by score detectors to derive per-point neighborhoods.
func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
