package burst

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/soundprediction/burstgraph/pkg/logger"
	"github.com/soundprediction/burstgraph/pkg/types"
)

// Default parameters of Break. The automaton has no defaults here; callers
// pass s and gamma to Generate, usually burstgraph.DefaultS and
// burstgraph.DefaultGamma.
const (
	DefaultBreakLength      = 30
	DefaultBreakOccurrences = 3
)

type baseline struct {
	id   int
	span types.Span
}

// Extractor runs the burst automaton over the offsets of every term and
// holds the current burst table. It is not safe for concurrent use; build one
// per analysis.
type Extractor struct {
	offsets   map[string][]int
	terms     []string
	bursts    []types.Burst
	baselines map[string]baseline
	generated bool
	nextID    int
	logger    *slog.Logger
}

// NewExtractor creates an extractor over term offsets. Each offset sequence
// must be strictly increasing; terms with no offsets are ignored.
func NewExtractor(offsets map[string][]int, log *slog.Logger) (*Extractor, error) {
	e := &Extractor{
		offsets:   make(map[string][]int, len(offsets)),
		baselines: make(map[string]baseline),
		logger:    logger.OrDiscard(log),
	}

	for term, offs := range offsets {
		if len(offs) == 0 {
			continue
		}
		for i := 1; i < len(offs); i++ {
			if offs[i] <= offs[i-1] {
				return nil, types.NewDataInconsistencyError(term, offs[i],
					fmt.Sprintf("offsets must be strictly increasing (%d after %d)", offs[i], offs[i-1]))
			}
		}
		cp := make([]int, len(offs))
		copy(cp, offs)
		e.offsets[term] = cp
		e.terms = append(e.terms, term)
	}
	sort.Strings(e.terms)
	return e, nil
}

// Generate runs the automaton for every term, in lexical term order, and
// replaces the burst table. Burst IDs are assigned sequentially; the
// baseline of each term takes an ID too, so promoted baselines keep a stable
// identity across calls to Filter.
func (e *Extractor) Generate(s, gamma float64) ([]types.Burst, error) {
	if err := validateParams(s, gamma); err != nil {
		return nil, err
	}

	e.bursts = nil
	e.baselines = make(map[string]baseline, len(e.terms))
	e.nextID = 0

	for _, term := range e.terms {
		for _, iv := range kleinberg(e.offsets[term], s, gamma) {
			id := e.nextID
			e.nextID++
			if iv.level == 0 {
				e.baselines[term] = baseline{id: id, span: types.Span{Start: iv.start, End: iv.end}}
				continue
			}
			e.bursts = append(e.bursts, types.Burst{
				ID:    id,
				Term:  term,
				Level: iv.level,
				Start: iv.start,
				End:   iv.end,
			})
		}
	}
	e.generated = true

	e.logger.Info("Bursts extracted",
		"terms", len(e.terms),
		"bursts", len(e.bursts),
		"max_level", e.MaxLevel(),
		"s", s,
		"gamma", gamma)
	return e.Bursts(), nil
}

// Filter keeps the bursts at exactly level. A level above the highest
// observed level is clamped to it. With saveMonolevel, every term whose table
// holds a single row, counting the baseline, is promoted to level 1 and
// survives at any level. With replace, the result becomes the current table.
func (e *Extractor) Filter(level int, saveMonolevel, replace bool) ([]types.Burst, error) {
	if !e.generated {
		return nil, types.NewConfigurationError("bursts", nil, "not yet extracted: call Generate first")
	}
	if level < 1 {
		return nil, types.NewConfigurationError("level", level, "must be at least 1")
	}

	if maxLevel := e.MaxLevel(); level > maxLevel {
		clamped := maxLevel
		if clamped < 1 {
			clamped = 1
		}
		e.logger.Debug("Requested level exceeds the maximum level, using the latter",
			"requested", level, "max", clamped)
		level = clamped
	}

	rows := make(map[string]int)
	for _, b := range e.bursts {
		rows[b.Term]++
	}
	for term := range e.baselines {
		rows[term]++
	}

	var filtered []types.Burst
	promoted := 0

	// Iterate the table order so IDs and positions stay stable.
	type row struct {
		b        types.Burst
		baseline bool
	}
	var table []row
	for _, term := range e.terms {
		if bl, ok := e.baselines[term]; ok {
			table = append(table, row{
				b:        types.Burst{ID: bl.id, Term: term, Level: 0, Start: bl.span.Start, End: bl.span.End},
				baseline: true,
			})
		}
	}
	for _, b := range e.bursts {
		table = append(table, row{b: b})
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].b.ID < table[j].b.ID })

	for _, r := range table {
		b := r.b
		if saveMonolevel && rows[b.Term] == 1 {
			b.Level = 1
			filtered = append(filtered, b)
			promoted++
			continue
		}
		if r.baseline {
			continue
		}
		if b.Level == level {
			filtered = append(filtered, b)
		}
	}

	e.logger.Debug("Bursts filtered",
		"level", level,
		"kept", len(filtered),
		"promoted", promoted)

	if replace {
		e.bursts = append([]types.Burst(nil), filtered...)
		e.baselines = make(map[string]baseline)
	}
	return cloneBursts(filtered), nil
}

// Break replaces every long burst of a sparsely occurring term with two point
// bursts at its start and end. A burst is broken when its term has at most
// maxOccurrences offsets and it spans at least lengthThreshold sentences.
// The point bursts keep the level, take fresh IDs and are appended after the
// untouched rows. The current table is not modified unless replace is set.
func (e *Extractor) Break(lengthThreshold, maxOccurrences int, replace bool) ([]types.Burst, error) {
	if !e.generated {
		return nil, types.NewConfigurationError("bursts", nil, "not yet extracted: call Generate first")
	}
	if lengthThreshold < 1 {
		return nil, types.NewConfigurationError("break_length", lengthThreshold, "must be at least 1")
	}
	if maxOccurrences < 0 {
		return nil, types.NewConfigurationError("break_occurrences", maxOccurrences, "must be non-negative")
	}

	kept := make([]types.Burst, 0, len(e.bursts))
	var points []types.Burst
	nextID := e.nextID
	for _, b := range e.bursts {
		if b.End > b.Start && b.Len() >= lengthThreshold && len(e.offsets[b.Term]) <= maxOccurrences {
			e.logger.Debug("Breaking burst",
				"term", b.Term,
				"offsets", e.offsets[b.Term],
				"start", b.Start,
				"end", b.End)
			points = append(points,
				types.Burst{ID: nextID, Term: b.Term, Level: b.Level, Start: b.Start, End: b.Start},
				types.Burst{ID: nextID + 1, Term: b.Term, Level: b.Level, Start: b.End, End: b.End},
			)
			nextID += 2
			continue
		}
		kept = append(kept, b)
	}
	out := append(kept, points...)

	if len(points) > 0 {
		e.logger.Debug("Bursts broken", "broken", len(points)/2)
	}
	if replace {
		e.bursts = cloneBursts(out)
		e.nextID = nextID
	}
	return out, nil
}

// Bursts returns a copy of the current burst table.
func (e *Extractor) Bursts() []types.Burst {
	return cloneBursts(e.bursts)
}

// Offsets returns the offsets of term.
func (e *Extractor) Offsets(term string) []int {
	src := e.offsets[term]
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Terms returns the terms with at least one offset, in lexical order.
func (e *Extractor) Terms() []string {
	return append([]string(nil), e.terms...)
}

// Baseline returns the level-0 span of term, if the current table still
// carries one.
func (e *Extractor) Baseline(term string) (types.Span, bool) {
	bl, ok := e.baselines[term]
	return bl.span, ok
}

// MaxLevel returns the highest level of the current table, or 0 when it
// holds no burst.
func (e *Extractor) MaxLevel() int {
	level := 0
	for _, b := range e.bursts {
		if b.Level > level {
			level = b.Level
		}
	}
	return level
}

// WordsWithBursts returns the terms with a burst at level, in lexical order.
func (e *Extractor) WordsWithBursts(level int) ([]string, error) {
	filtered, err := e.Filter(level, false, false)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var words []string
	for _, b := range filtered {
		if !seen[b.Term] {
			seen[b.Term] = true
			words = append(words, b.Term)
		}
	}
	sort.Strings(words)
	return words, nil
}

// ExcludedWords returns the vocabulary terms with no burst at level, in
// vocabulary order.
func (e *Extractor) ExcludedWords(vocabulary []string, level int) ([]string, error) {
	with, err := e.WordsWithBursts(level)
	if err != nil {
		return nil, err
	}
	has := make(map[string]bool, len(with))
	for _, w := range with {
		has[w] = true
	}
	var excluded []string
	seen := make(map[string]bool)
	for _, w := range vocabulary {
		if !has[w] && !seen[w] {
			seen[w] = true
			excluded = append(excluded, w)
		}
	}
	return excluded, nil
}

func cloneBursts(in []types.Burst) []types.Burst {
	if in == nil {
		return nil
	}
	out := make([]types.Burst, len(in))
	copy(out, in)
	return out
}
