// Package predict converts raw unsupervised detector output into binary
// prediction vectors. Two policies exist: the cluster policy derives the
// positive group set from label statistics, the explicit policy takes the
// set from the caller. Continuous scores are thresholded by Discretize.
package predict

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidArgument reports malformed mapper input: empty or mismatched
// vectors, non-binary labels, or a missing positive set where one is
// required.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// topGroupCount is how many groups the cluster policy always marks
	// positive, ranked by raw positive count.
	topGroupCount = 2

	// PositiveProportionThreshold marks any group whose positive-label
	// proportion reaches it, regardless of rank.
	PositiveProportionThreshold = 0.25
)

// GroupStat holds the per-group label tally behind a cluster-policy
// decision, reported for inspection.
type GroupStat struct {
	ID         int     `json:"id"`
	Total      int     `json:"total"`
	Positives  int     `json:"positives"`
	Proportion float64 `json:"proportion"`
}

// ClusterMapping is the full outcome of the cluster policy: the tallies,
// the derived positive set, and the prediction vector.
type ClusterMapping struct {
	Stats       []GroupStat `json:"stats"`
	PositiveSet []int       `json:"positive_set"`
	Predictions []int       `json:"-"`
}

// MapClusters applies the cluster policy to a group-id assignment.
//
// The positive set is the union of the two groups with the highest
// positive counts and every group whose positive proportion is at least
// PositiveProportionThreshold. When positive counts tie, the group with
// the lower id wins: candidates are ordered by (positives desc, id asc),
// so reruns over identical input always produce the identical set. With
// fewer than two groups the "top two" degenerate to all groups.
func MapClusters(groups, labels []int) (*ClusterMapping, error) {
	if err := checkPair(groups, labels); err != nil {
		return nil, err
	}

	stats := tally(groups, labels)

	// Rank for the top slots: positives descending, id ascending on ties.
	ranked := make([]GroupStat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Positives != ranked[j].Positives {
			return ranked[i].Positives > ranked[j].Positives
		}
		return ranked[i].ID < ranked[j].ID
	})

	positive := make(map[int]bool, topGroupCount)
	top := topGroupCount
	if top > len(ranked) {
		top = len(ranked)
	}
	for _, g := range ranked[:top] {
		positive[g.ID] = true
	}
	for _, g := range stats {
		if g.Proportion >= PositiveProportionThreshold {
			positive[g.ID] = true
		}
	}

	set := make([]int, 0, len(positive))
	for id := range positive {
		set = append(set, id)
	}
	sort.Ints(set)

	preds := make([]int, len(groups))
	for i, g := range groups {
		if positive[g] {
			preds[i] = 1
		}
	}

	return &ClusterMapping{Stats: stats, PositiveSet: set, Predictions: preds}, nil
}

// MapExplicit applies the explicit-set policy: predict 1 for every sample
// whose group id is in positiveSet. The set is required and must be
// non-empty; only the cluster policy may derive its own.
func MapExplicit(groups []int, positiveSet []int) ([]int, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: empty group assignment", ErrInvalidArgument)
	}
	if len(positiveSet) == 0 {
		return nil, fmt.Errorf("%w: explicit policy requires a non-empty positive set", ErrInvalidArgument)
	}

	positive := make(map[int]bool, len(positiveSet))
	for _, id := range positiveSet {
		positive[id] = true
	}

	preds := make([]int, len(groups))
	for i, g := range groups {
		if positive[g] {
			preds[i] = 1
		}
	}
	return preds, nil
}

// Discretize thresholds a continuous score vector: predict 1 where the
// score is strictly greater than threshold.
func Discretize(scores []float64, threshold float64) []int {
	preds := make([]int, len(scores))
	for i, s := range scores {
		if s > threshold {
			preds[i] = 1
		}
	}
	return preds
}

// tally computes per-group totals and positive counts, returned in
// ascending group-id order.
func tally(groups, labels []int) []GroupStat {
	byID := make(map[int]*GroupStat)
	for i, g := range groups {
		st, ok := byID[g]
		if !ok {
			st = &GroupStat{ID: g}
			byID[g] = st
		}
		st.Total++
		if labels[i] == 1 {
			st.Positives++
		}
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	stats := make([]GroupStat, 0, len(ids))
	for _, id := range ids {
		st := byID[id]
		st.Proportion = float64(st.Positives) / float64(st.Total)
		stats = append(stats, *st)
	}
	return stats
}

func checkPair(groups, labels []int) error {
	if len(groups) == 0 || len(labels) == 0 {
		return fmt.Errorf("%w: empty group or label vector", ErrInvalidArgument)
	}
	if len(groups) != len(labels) {
		return fmt.Errorf("%w: %d group ids vs %d labels", ErrInvalidArgument, len(groups), len(labels))
	}
	for i, l := range labels {
		if l != 0 && l != 1 {
			return fmt.Errorf("%w: label %d at index %d is not binary", ErrInvalidArgument, l, i)
		}
	}
	return nil
}
