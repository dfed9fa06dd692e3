package detect

import (
	"fmt"

	"github.com/mpraski/clusters"

	"github.com/screenlab/clusterscreen/internal/models"
)

// defaultKMeansIterations bounds the learning loop when the suite does
// not configure one.
const defaultKMeansIterations = 1000

// KMeans partitions the dataset into k groups; k is the single swept
// parameter. The positive set is always derived by the cluster policy.
type KMeans struct {
	name       string
	iterations int
}

// NewKMeans creates a k-means detector. iterations <= 0 selects the
// default.
func NewKMeans(name string, iterations int) *KMeans {
	if iterations <= 0 {
		iterations = defaultKMeansIterations
	}
	return &KMeans{name: name, iterations: iterations}
}

func (d *KMeans) Name() string { return d.name }

func (d *KMeans) Kind() Kind { return KindClustering }

// Assign clusters the features into round(params["k"]) groups.
func (d *KMeans) Assign(features [][]float64, params Params) (*models.Assignment, error) {
	k, err := params.Int("k")
	if err != nil {
		return nil, err
	}
	if k < 2 {
		return nil, fmt.Errorf("kmeans: k must be at least 2, got %d", k)
	}
	if k > len(features) {
		return nil, fmt.Errorf("kmeans: k=%d exceeds %d samples", k, len(features))
	}

	c, err := clusters.KMeans(d.iterations, k, clusters.EuclideanDistance)
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}
	if err := c.Learn(features); err != nil {
		return nil, fmt.Errorf("kmeans: learn: %w", err)
	}

	return models.GroupAssignment(copyGuesses(c.Guesses())), nil
}
