package detect

import (
	"fmt"

	"github.com/mpraski/clusters"

	"github.com/screenlab/clusterscreen/internal/models"
)

const defaultDensityWorkers = 1

// DBSCAN groups the dataset by density. Both free parameters are swept
// together: eps (neighborhood radius) and minpts (minimum neighborhood
// size). Points the algorithm marks as noise keep their own group id, so
// an explicit positive set can declare "noise is positive"; without one
// the cluster policy applies.
type DBSCAN struct {
	name        string
	workers     int
	positiveSet []int
}

// NewDBSCAN creates a density detector. workers <= 0 selects the default.
func NewDBSCAN(name string, workers int, positiveSet []int) *DBSCAN {
	if workers <= 0 {
		workers = defaultDensityWorkers
	}
	return &DBSCAN{name: name, workers: workers, positiveSet: positiveSet}
}

func (d *DBSCAN) Name() string { return d.name }

func (d *DBSCAN) Kind() Kind { return kindForGroups(d.positiveSet) }

// PositiveSet returns the configured positive group ids, nil for the
// cluster policy.
func (d *DBSCAN) PositiveSet() []int { return d.positiveSet }

// Assign runs DBSCAN with eps=params["eps"], minpts=round(params["minpts"]).
func (d *DBSCAN) Assign(features [][]float64, params Params) (*models.Assignment, error) {
	eps, err := params.Float("eps")
	if err != nil {
		return nil, err
	}
	minpts, err := params.Int("minpts")
	if err != nil {
		return nil, err
	}
	if eps <= 0 {
		return nil, fmt.Errorf("dbscan: eps must be positive, got %g", eps)
	}
	if minpts < 1 {
		return nil, fmt.Errorf("dbscan: minpts must be at least 1, got %d", minpts)
	}

	c, err := clusters.DBSCAN(minpts, eps, d.workers, clusters.EuclideanDistance)
	if err != nil {
		return nil, fmt.Errorf("dbscan: %w", err)
	}
	if err := c.Learn(features); err != nil {
		return nil, fmt.Errorf("dbscan: learn: %w", err)
	}

	return models.GroupAssignment(copyGuesses(c.Guesses())), nil
}
