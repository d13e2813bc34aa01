// Package direction turns the undirected term-by-term NRW matrix into
// directed prerequisite edges using the first burst of each term.
package direction

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/soundprediction/burstgraph/pkg/logger"
	"github.com/soundprediction/burstgraph/pkg/types"
)

// RoundDecimals is the precision of directed matrix values.
const RoundDecimals = 3

// TokenIndex returns the smallest token position of a term inside a
// sentence. *occurrence.Index satisfies it.
type TokenIndex interface {
	MinToken(term string, sentence int) (int, bool)
}

// Options configures direction assignment.
type Options struct {
	// Level selects the bursts whose start decides the direction.
	Level int
	// PreserveRelations moves the weight of the discarded direction into
	// the kept one when the kept cell is zero.
	PreserveRelations bool
}

// Result holds the directed matrix.
type Result struct {
	Matrix *types.TermMatrix
	// Ambiguous lists the pairs no rule could orient. Both of their cells
	// are kept.
	Ambiguous [][2]string
}

// Assigner orients term pairs.
type Assigner struct {
	opts   Options
	logger *slog.Logger
}

// NewAssigner validates opts and creates an Assigner.
func NewAssigner(opts Options, log *slog.Logger) (*Assigner, error) {
	if opts.Level < 1 {
		return nil, types.NewConfigurationError("level", opts.Level, "must be at least 1")
	}
	return &Assigner{opts: opts, logger: logger.OrDiscard(log)}, nil
}

type rule int

const (
	ruleStart rule = iota
	ruleToken
	ruleLength
	ruleNone
)

// Assign orients every unordered term pair {A, B} of matrix. The term whose
// first burst starts earlier is the prerequisite; ties go to the term with
// the smaller token position in that sentence, then to the term with fewer
// words. The other direction is zeroed. The input matrix is not modified.
func (a *Assigner) Assign(ctx context.Context, matrix *types.TermMatrix, bursts []types.Burst, tokens TokenIndex) (*Result, error) {
	log := logger.FromContext(ctx, a.logger)

	starts, err := FirstStarts(matrix.Terms(), bursts, a.opts.Level)
	if err != nil {
		return nil, err
	}

	directed := matrix.Clone()
	res := &Result{Matrix: directed}
	terms := directed.Terms()
	counts := make(map[rule]int)

	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			t1, t2 := terms[i], terms[j]
			pre, target, r, err := a.order(t1, t2, starts, tokens)
			if err != nil {
				return nil, err
			}
			counts[r]++
			if r == ruleNone {
				res.Ambiguous = append(res.Ambiguous, [2]string{t1, t2})
				log.Debug("Impossible to give direction to pair", "a", t1, "b", t2, "start", starts[t1])
				continue
			}
			a.orient(directed, pre, target)
		}
	}

	directed.Round(RoundDecimals)

	log.Info("Directions assigned",
		"terms", len(terms),
		"by_start", counts[ruleStart],
		"by_token", counts[ruleToken],
		"by_length", counts[ruleLength],
		"ambiguous", counts[ruleNone],
		"nonzero_cells", directed.NonZero())
	return res, nil
}

func (a *Assigner) order(t1, t2 string, starts map[string]int, tokens TokenIndex) (string, string, rule, error) {
	s1, s2 := starts[t1], starts[t2]
	switch {
	case s1 < s2:
		return t1, t2, ruleStart, nil
	case s2 < s1:
		return t2, t1, ruleStart, nil
	}

	tok1, ok := tokens.MinToken(t1, s1)
	if !ok {
		return "", "", ruleNone, types.NewDataInconsistencyError(t1, s1, "term missing from the first sentence of its first burst")
	}
	tok2, ok := tokens.MinToken(t2, s1)
	if !ok {
		return "", "", ruleNone, types.NewDataInconsistencyError(t2, s1, "term missing from the first sentence of its first burst")
	}
	switch {
	case tok1 < tok2:
		return t1, t2, ruleToken, nil
	case tok2 < tok1:
		return t2, t1, ruleToken, nil
	}

	// Same position: one term embeds the other, the shorter is the
	// prerequisite.
	w1, w2 := len(strings.Fields(t1)), len(strings.Fields(t2))
	switch {
	case w1 < w2:
		return t1, t2, ruleLength, nil
	case w2 < w1:
		return t2, t1, ruleLength, nil
	}
	return "", "", ruleNone, nil
}

func (a *Assigner) orient(m *types.TermMatrix, pre, target string) {
	if a.opts.PreserveRelations && m.Get(pre, target) == 0 {
		m.Set(pre, target, m.Get(target, pre))
	}
	m.Set(target, pre, 0)
}

// FirstStarts returns the start of each term's earliest burst at level. A
// term without a burst at that level falls back to its earliest burst at any
// level; a term without any burst is a DataInconsistencyError.
func FirstStarts(terms []string, bursts []types.Burst, level int) (map[string]int, error) {
	atLevel := make(map[string]int)
	anyLevel := make(map[string]int)
	for _, b := range bursts {
		if s, ok := anyLevel[b.Term]; !ok || b.Start < s {
			anyLevel[b.Term] = b.Start
		}
		if b.Level != level {
			continue
		}
		if s, ok := atLevel[b.Term]; !ok || b.Start < s {
			atLevel[b.Term] = b.Start
		}
	}

	starts := make(map[string]int, len(terms))
	for _, t := range terms {
		if s, ok := atLevel[t]; ok {
			starts[t] = s
			continue
		}
		s, ok := anyLevel[t]
		if !ok {
			return nil, types.NewDataInconsistencyError(t, -1, "term has no burst")
		}
		starts[t] = s
	}
	return starts, nil
}

// AddMissingTerms appends an all-zero row and column for every vocabulary
// term absent from m, and returns the added terms.
func AddMissingTerms(m *types.TermMatrix, vocabulary []string) []string {
	var added []string
	for _, t := range vocabulary {
		if m.AddTerm(t) {
			added = append(added, t)
		}
	}
	return added
}

// EdgeList flattens m into (source, target, weight) triples over every cell,
// sorted by weight descending. Ties keep row-major order.
func EdgeList(m *types.TermMatrix) []types.DirectedEdge {
	terms := m.Terms()
	edges := make([]types.DirectedEdge, 0, len(terms)*len(terms))
	for i, src := range terms {
		for j, dst := range terms {
			edges = append(edges, types.DirectedEdge{Prerequisite: src, Target: dst, Weight: m.At(i, j)})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Weight > edges[j].Weight })
	return edges
}
