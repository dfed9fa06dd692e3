package detect

import (
	"fmt"

	"github.com/mpraski/clusters"

	"github.com/screenlab/clusterscreen/internal/models"
)

// defaultNeighborCount is used when the suite does not fix k.
const defaultNeighborCount = 5

// KNNScorer emits a continuous outlier score per sample: the mean
// distance to its k nearest neighbors. Larger scores mean more isolated
// samples; the search thresholds them into predictions.
type KNNScorer struct {
	name string
	k    int
}

// NewKNNScorer creates a nearest-neighbor distance scorer. k <= 0
// selects the default.
func NewKNNScorer(name string, k int) *KNNScorer {
	if k <= 0 {
		k = defaultNeighborCount
	}
	return &KNNScorer{name: name, k: k}
}

func (d *KNNScorer) Name() string { return d.name }

func (d *KNNScorer) Kind() Kind { return KindScore }

// Assign computes the per-sample mean distance to the k nearest
// neighbors. The scorer has no swept parameters; the search thresholds
// its output instead.
func (d *KNNScorer) Assign(features [][]float64, _ Params) (*models.Assignment, error) {
	n := len(features)
	if n == 0 {
		return nil, fmt.Errorf("knn: empty feature matrix")
	}
	if d.k >= n {
		return nil, fmt.Errorf("knn: k must be in [1, %d), got %d", n, d.k)
	}

	scores := make([]float64, n)
	dists := make([]float64, 0, n-1)
	for i := range features {
		dists = dists[:0]
		for j := range features {
			if i == j {
				continue
			}
			dists = append(dists, clusters.EuclideanDistance(features[i], features[j]))
		}
		nearest := sortedCopy(dists)[:d.k]
		sum := 0.0
		for _, v := range nearest {
			sum += v
		}
		scores[i] = sum / float64(d.k)
	}

	return models.ScoreAssignment(scores), nil
}
