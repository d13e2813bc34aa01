// Package definition builds the description spans of a run and merges the
// overlapping ones.
package definition

import (
	"log/slog"

	"github.com/soundprediction/burstgraph/pkg/logger"
	"github.com/soundprediction/burstgraph/pkg/types"
)

// Candidates turns every burst spanning more than one sentence into a
// description span. Per term, the first burst of maximal span is the
// Definition, every other one is In Depth. Times come from timing: the
// start of the first sentence and the end of the last one.
func Candidates(bursts []types.Burst, timing types.Timing, creator string) ([]types.Definition, error) {
	longest := firstLongest(bursts)

	var defs []types.Definition
	for _, b := range bursts {
		if b.End <= b.Start {
			continue
		}
		start, err := timing.Lookup(b.Term, b.Start)
		if err != nil {
			return nil, err
		}
		end, err := timing.Lookup(b.Term, b.End)
		if err != nil {
			return nil, err
		}

		kind := types.DescriptionInDepth
		if longest[b.ID] {
			kind = types.DescriptionDefinition
		}
		defs = append(defs, types.Definition{
			Concept:         b.Term,
			StartSentence:   b.Start,
			EndSentence:     b.End,
			StartTime:       start.Start,
			EndTime:         end.End,
			DescriptionType: kind,
			Creator:         creator,
		})
	}
	return defs, nil
}

// firstLongest returns, per term, the ID of the first burst with the
// largest End - Start.
func firstLongest(bursts []types.Burst) map[int]bool {
	ids := make(map[int]bool)
	for _, group := range types.BurstsByTerm(bursts) {
		best := group[0]
		for _, b := range group[1:] {
			if b.End-b.Start > best.End-best.Start {
				best = b
			}
		}
		ids[best.ID] = true
	}
	return ids
}

func overlaps(a, b types.Definition) bool {
	return a.Concept == b.Concept &&
		a.DescriptionType == b.DescriptionType &&
		a.StartTime < b.EndTime &&
		b.StartTime <= a.EndTime
}

func absorb(a *types.Definition, b types.Definition) {
	if b.StartTime < a.StartTime {
		a.StartTime = b.StartTime
	}
	if b.StartSentence < a.StartSentence {
		a.StartSentence = b.StartSentence
	}
	if b.EndTime > a.EndTime {
		a.EndTime = b.EndTime
	}
	if b.EndSentence > a.EndSentence {
		a.EndSentence = b.EndSentence
	}
}

// Merge folds overlapping spans of the same concept and type. The earlier
// span in slice order absorbs the later one and takes the union of both
// ranges. Sweeps repeat until none merges, so Merge(Merge(x)) == Merge(x).
// The input is not modified.
func Merge(defs []types.Definition, log *slog.Logger) []types.Definition {
	log = logger.OrDiscard(log)

	out := append([]types.Definition(nil), defs...)
	sweeps, merged := 0, 0
	for {
		sweeps++
		removed := make([]bool, len(out))
		changed := false
		for i := range out {
			if removed[i] {
				continue
			}
			for j := i + 1; j < len(out); j++ {
				if removed[j] || !overlaps(out[i], out[j]) {
					continue
				}
				absorb(&out[i], out[j])
				removed[j] = true
				changed = true
				merged++
			}
		}
		if !changed {
			break
		}
		kept := out[:0]
		for i, d := range out {
			if !removed[i] {
				kept = append(kept, d)
			}
		}
		out = kept
	}

	log.Info("Definitions merged",
		"candidates", len(defs),
		"merged", merged,
		"kept", len(out),
		"sweeps", sweeps)
	return out
}
