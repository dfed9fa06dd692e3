package metrics

import "math"

// Summary describes the spread of combined scores across a parameter
// grid. NaN scores (undefined metrics) are excluded from every figure;
// Defined counts how many scores were real.
type Summary struct {
	Defined int     `json:"defined"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Summarize computes the score spread over one grid sweep.
// Returns a zero Summary when no score is defined.
func Summarize(scores []float64) Summary {
	valid := make([]float64, 0, len(scores))
	for _, v := range scores {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return Summary{}
	}

	s := Summary{Defined: len(valid), Min: valid[0], Max: valid[0]}
	sum := 0.0
	for _, v := range valid {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(valid))

	sumSq := 0.0
	for _, v := range valid {
		d := v - s.Mean
		sumSq += d * d
	}
	s.StdDev = math.Sqrt(sumSq / float64(len(valid)))
	return s
}
