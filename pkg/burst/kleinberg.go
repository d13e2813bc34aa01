package burst

import (
	"math"

	"github.com/soundprediction/burstgraph/pkg/types"
)

// interval is an automaton burst before it is labelled with a term and ID.
// Level 0 is the baseline covering every offset.
type interval struct {
	level int
	start int
	end   int
}

// validateParams checks the automaton parameters.
func validateParams(s, gamma float64) error {
	if math.IsNaN(s) || s <= 1 {
		return types.NewConfigurationError("s", s, "must be greater than 1")
	}
	if math.IsNaN(gamma) || gamma <= 0 {
		return types.NewConfigurationError("gamma", gamma, "must be greater than 0")
	}
	return nil
}

// optimalStates returns the minimum-cost state for each gap of offsets.
// offsets must hold at least two strictly increasing values.
func optimalStates(offsets []int, s, gamma float64) []int {
	n := len(offsets) - 1
	gaps := make([]float64, n)
	total := 0.0
	minGap := math.Inf(1)
	for t := 0; t < n; t++ {
		gaps[t] = float64(offsets[t+1] - offsets[t])
		total += gaps[t]
		minGap = math.Min(minGap, gaps[t])
	}

	k := int(math.Ceil(1 + math.Log(total)/math.Log(s) + math.Log(1/minGap)/math.Log(s)))
	if k < 1 {
		k = 1
	}

	meanGap := total / float64(n)
	alpha := make([]float64, k)
	logAlpha := make([]float64, k)
	for i := range alpha {
		alpha[i] = math.Pow(s, float64(i)) / meanGap
		logAlpha[i] = math.Log(alpha[i])
	}
	step := gamma * math.Log10(float64(n))

	// cost[t][j] is the best cost of a path reaching state j after t gaps.
	// back[t][j] is the predecessor state of j at gap t.
	cost := make([][]float64, n+1)
	cost[0] = make([]float64, k)
	for j := 1; j < k; j++ {
		cost[0][j] = math.Inf(1)
	}
	back := make([][]int, n)

	for t := 0; t < n; t++ {
		cost[t+1] = make([]float64, k)
		back[t] = make([]int, k)
		for j := 0; j < k; j++ {
			best := math.Inf(1)
			from := 0
			for l := 0; l < k; l++ {
				c := cost[t][l]
				if j > l {
					c += float64(j-l) * step
				}
				if c < best {
					best = c
					from = l
				}
			}
			cost[t+1][j] = best + alpha[j]*gaps[t] - logAlpha[j]
			back[t][j] = from
		}
	}

	state := 0
	for j := 1; j < k; j++ {
		if cost[n][j] < cost[n][state] {
			state = j
		}
	}

	states := make([]int, n)
	for t := n - 1; t >= 0; t-- {
		states[t] = state
		state = back[t][state]
	}
	return states
}

// kleinberg returns the bursts of offsets in opening order: by start, then
// level. The first interval is always the level-0 baseline.
func kleinberg(offsets []int, s, gamma float64) []interval {
	if len(offsets) == 0 {
		return nil
	}
	if len(offsets) == 1 {
		return []interval{{level: 0, start: offsets[0], end: offsets[0]}}
	}

	// Levels are opened with the states shifted by one, so the baseline
	// opens at the first gap.
	states := optimalStates(offsets, s, gamma)
	var out []interval
	var open []int
	prev := 0
	for t, st := range states {
		q := st + 1
		switch {
		case q > prev:
			for lvl := prev; lvl < q; lvl++ {
				out = append(out, interval{level: lvl, start: offsets[t]})
				open = append(open, len(out)-1)
			}
		case q < prev:
			for i := 0; i < prev-q; i++ {
				out[open[len(open)-1]].end = offsets[t]
				open = open[:len(open)-1]
			}
		}
		prev = q
	}
	last := offsets[len(offsets)-1]
	for len(open) > 0 {
		out[open[len(open)-1]].end = last
		open = open[:len(open)-1]
	}
	return out
}
