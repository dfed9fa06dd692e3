package detect

import (
	"fmt"

	"github.com/mpraski/clusters"

	"github.com/screenlab/clusterscreen/internal/models"
)

const defaultOPTICSXi = 0.01

// OPTICS is the ordering-based density detector; it sweeps the same
// (eps, minpts) pair as DBSCAN with a fixed steepness threshold xi.
type OPTICS struct {
	name        string
	xi          float64
	workers     int
	positiveSet []int
}

// NewOPTICS creates an OPTICS detector. xi <= 0 and workers <= 0 select
// the defaults.
func NewOPTICS(name string, xi float64, workers int, positiveSet []int) *OPTICS {
	if xi <= 0 {
		xi = defaultOPTICSXi
	}
	if workers <= 0 {
		workers = defaultDensityWorkers
	}
	return &OPTICS{name: name, xi: xi, workers: workers, positiveSet: positiveSet}
}

func (d *OPTICS) Name() string { return d.name }

func (d *OPTICS) Kind() Kind { return kindForGroups(d.positiveSet) }

// PositiveSet returns the configured positive group ids, nil for the
// cluster policy.
func (d *OPTICS) PositiveSet() []int { return d.positiveSet }

// Assign runs OPTICS with eps=params["eps"], minpts=round(params["minpts"]).
func (d *OPTICS) Assign(features [][]float64, params Params) (*models.Assignment, error) {
	eps, err := params.Float("eps")
	if err != nil {
		return nil, err
	}
	minpts, err := params.Int("minpts")
	if err != nil {
		return nil, err
	}
	if eps <= 0 {
		return nil, fmt.Errorf("optics: eps must be positive, got %g", eps)
	}
	if minpts < 1 {
		return nil, fmt.Errorf("optics: minpts must be at least 1, got %d", minpts)
	}

	c, err := clusters.OPTICS(minpts, eps, d.xi, d.workers, clusters.EuclideanDistance)
	if err != nil {
		return nil, fmt.Errorf("optics: %w", err)
	}
	if err := c.Learn(features); err != nil {
		return nil, fmt.Errorf("optics: learn: %w", err)
	}

	return models.GroupAssignment(copyGuesses(c.Guesses())), nil
}
