package models

// AssignmentKind distinguishes the two shapes of unsupervised output.
type AssignmentKind string

const (
	// AssignmentGroups means the detector produced a per-sample integer
	// group id (clustering output).
	AssignmentGroups AssignmentKind = "groups"

	// AssignmentScores means the detector produced a per-sample continuous
	// anomaly score, to be thresholded into a prediction.
	AssignmentScores AssignmentKind = "scores"
)

// Assignment is the raw output of one detector invocation over the full
// dataset. Exactly one of Groups or Scores is populated, selected by Kind.
// Each grid point produces its own Assignment; only the winning one is
// retained after a search.
type Assignment struct {
	Kind   AssignmentKind `json:"kind"`
	Groups []int          `json:"groups,omitempty"`
	Scores []float64      `json:"scores,omitempty"`
}

// Len returns the number of per-sample entries.
func (a *Assignment) Len() int {
	if a.Kind == AssignmentScores {
		return len(a.Scores)
	}
	return len(a.Groups)
}

// GroupAssignment wraps per-sample group ids.
func GroupAssignment(groups []int) *Assignment {
	return &Assignment{Kind: AssignmentGroups, Groups: groups}
}

// ScoreAssignment wraps per-sample continuous scores.
func ScoreAssignment(scores []float64) *Assignment {
	return &Assignment{Kind: AssignmentScores, Scores: scores}
}
