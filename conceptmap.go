package burstgraph

import (
	"github.com/soundprediction/burstgraph/pkg/types"
)

// FirstOccurrences returns the first sentence of a term. *occurrence.Index
// satisfies it.
type FirstOccurrences interface {
	FirstOccurrence(term string) (int, bool)
}

// conceptMap keeps the heaviest edges of the sorted edge list. Each edge is
// dated by the later of the first occurrences of its two terms.
func (a *Analyzer) conceptMap(edges []types.DirectedEdge, first FirstOccurrences, timing types.Timing) ([]types.ConceptMapEdge, error) {
	if a.opts.TopN > 0 && len(edges) > a.opts.TopN {
		edges = edges[:a.opts.TopN]
	}

	var out []types.ConceptMapEdge
	seen := make(map[types.ConceptMapEdge]bool)
	for _, e := range edges {
		if e.Weight <= a.opts.Threshold {
			continue
		}

		sent, err := laterFirstOccurrence(first, e.Prerequisite, e.Target)
		if err != nil {
			return nil, err
		}
		st, err := timing.Lookup(e.Target, sent)
		if err != nil {
			return nil, err
		}

		category := types.WeightWeak
		if e.Weight >= a.opts.StrongThreshold {
			category = types.WeightStrong
		}
		rec := types.ConceptMapEdge{
			Prerequisite: e.Prerequisite,
			Target:       e.Target,
			Creator:      a.opts.Creator,
			Weight:       category,
			Score:        e.Weight,
			Time:         st.Start,
			Sentence:     sent,
		}
		if seen[rec] {
			continue
		}
		seen[rec] = true
		out = append(out, rec)
	}
	return out, nil
}

func laterFirstOccurrence(first FirstOccurrences, x, y string) (int, error) {
	sx, ok := first.FirstOccurrence(x)
	if !ok {
		return 0, types.NewDataInconsistencyError(x, -1, "term has no occurrence")
	}
	sy, ok := first.FirstOccurrence(y)
	if !ok {
		return 0, types.NewDataInconsistencyError(y, -1, "term has no occurrence")
	}
	if sx > sy {
		return sx, nil
	}
	return sy, nil
}
