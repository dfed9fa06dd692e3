package search

import (
	"fmt"

	"github.com/screenlab/clusterscreen/internal/detect"
)

// Axis is one evenly spaced parameter range: Steps values from Min to
// Max inclusive. A single-step axis pins the parameter at Min.
type Axis struct {
	Name  string  `yaml:"name" json:"name"`
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Steps int     `yaml:"steps" json:"steps"`

	// FromScores derives Min and Max from the observed score range at
	// sweep time. Only meaningful for the threshold axis of a score
	// detector.
	FromScores bool `yaml:"from_scores,omitempty" json:"from_scores,omitempty"`
}

// Validate checks the axis shape.
func (a Axis) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("axis has no name")
	}
	if a.Steps < 1 {
		return fmt.Errorf("axis %q: steps must be at least 1, got %d", a.Name, a.Steps)
	}
	if !a.FromScores && a.Max < a.Min {
		return fmt.Errorf("axis %q: max (%g) must be >= min (%g)", a.Name, a.Max, a.Min)
	}
	return nil
}

// Values enumerates the axis points in ascending order.
func (a Axis) Values() []float64 {
	if a.Steps == 1 {
		return []float64{a.Min}
	}
	step := (a.Max - a.Min) / float64(a.Steps-1)
	values := make([]float64, a.Steps)
	for i := range values {
		values[i] = a.Min + float64(i)*step
	}
	return values
}

// resolved returns a copy of the axis with a FromScores range filled in
// from the observed scores.
func (a Axis) resolved(scores []float64) Axis {
	if !a.FromScores || len(scores) == 0 {
		return a
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	a.Min, a.Max = lo, hi
	a.FromScores = false
	return a
}

// Grid is the static enumeration of parameter tuples for one sweep: one
// or two axes, fully defined before the search begins. With two axes the
// full Cartesian product is evaluated, first axis outer, second inner.
type Grid struct {
	Axes []Axis `yaml:"axes" json:"axes"`
}

// Validate checks the grid topology.
func (g Grid) Validate() error {
	if len(g.Axes) < 1 || len(g.Axes) > 2 {
		return fmt.Errorf("grid must have 1 or 2 axes, got %d", len(g.Axes))
	}
	for _, a := range g.Axes {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	if len(g.Axes) == 2 && g.Axes[0].Name == g.Axes[1].Name {
		return fmt.Errorf("grid axes must have distinct names, both are %q", g.Axes[0].Name)
	}
	return nil
}

// Size returns the number of tuples the grid enumerates.
func (g Grid) Size() int {
	size := 1
	for _, a := range g.Axes {
		size *= a.Steps
	}
	return size
}

// Tuples enumerates every parameter tuple in the fixed sweep order.
func (g Grid) Tuples() []detect.Params {
	switch len(g.Axes) {
	case 1:
		values := g.Axes[0].Values()
		tuples := make([]detect.Params, 0, len(values))
		for _, v := range values {
			tuples = append(tuples, detect.Params{g.Axes[0].Name: v})
		}
		return tuples
	case 2:
		outer := g.Axes[0].Values()
		inner := g.Axes[1].Values()
		tuples := make([]detect.Params, 0, len(outer)*len(inner))
		for _, ov := range outer {
			for _, iv := range inner {
				tuples = append(tuples, detect.Params{
					g.Axes[0].Name: ov,
					g.Axes[1].Name: iv,
				})
			}
		}
		return tuples
	default:
		return nil
	}
}
