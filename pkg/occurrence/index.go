package occurrence

import (
	"fmt"
	"sort"

	"github.com/soundprediction/burstgraph/pkg/types"
)

type tokenKey struct {
	term     string
	sentence int
}

// Index is a read-only view over an occurrence table.
type Index struct {
	records  []types.Occurrence
	offsets  map[string][]int
	counts   map[string]int
	byTerm   map[string][]int
	minToken map[tokenKey]int
	terms    []string
}

// NewIndex validates occurrences and builds the index. Duplicate sentence
// hits of a term collapse into a single offset but still count as separate
// records for frequencies.
func NewIndex(occurrences []types.Occurrence) (*Index, error) {
	idx := &Index{
		records:  make([]types.Occurrence, len(occurrences)),
		offsets:  make(map[string][]int),
		counts:   make(map[string]int),
		byTerm:   make(map[string][]int),
		minToken: make(map[tokenKey]int),
	}
	copy(idx.records, occurrences)

	seen := make(map[tokenKey]bool)
	for i, o := range occurrences {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("occurrence %d: %w", i, err)
		}
		idx.counts[o.Term]++
		idx.byTerm[o.Term] = append(idx.byTerm[o.Term], o.Sentence)

		key := tokenKey{term: o.Term, sentence: o.Sentence}
		if tok, ok := idx.minToken[key]; !ok || o.Token < tok {
			idx.minToken[key] = o.Token
		}
		if !seen[key] {
			seen[key] = true
			idx.offsets[o.Term] = append(idx.offsets[o.Term], o.Sentence)
		}
	}

	for term := range idx.offsets {
		sort.Ints(idx.offsets[term])
		sort.Ints(idx.byTerm[term])
		idx.terms = append(idx.terms, term)
	}
	sort.Strings(idx.terms)
	return idx, nil
}

// Terms returns the distinct terms of the table in lexical order.
func (idx *Index) Terms() []string {
	out := make([]string, len(idx.terms))
	copy(out, idx.terms)
	return out
}

// Records returns a copy of the underlying occurrence table.
func (idx *Index) Records() []types.Occurrence {
	out := make([]types.Occurrence, len(idx.records))
	copy(out, idx.records)
	return out
}

// Has reports whether term occurs at least once.
func (idx *Index) Has(term string) bool {
	_, ok := idx.offsets[term]
	return ok
}

// Offsets returns the strictly increasing sentence indexes where term occurs.
func (idx *Index) Offsets(term string) []int {
	src := idx.offsets[term]
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// AllOffsets returns the offsets of every term.
func (idx *Index) AllOffsets() map[string][]int {
	out := make(map[string][]int, len(idx.offsets))
	for term := range idx.offsets {
		out[term] = idx.Offsets(term)
	}
	return out
}

// Count returns the number of occurrence records of term.
func (idx *Index) Count(term string) int {
	return idx.counts[term]
}

// Frequency returns the number of occurrence records of term whose sentence
// lies in [start, end].
func (idx *Index) Frequency(term string, start, end int) int {
	sentences := idx.byTerm[term]
	lo := sort.SearchInts(sentences, start)
	hi := sort.SearchInts(sentences, end+1)
	if hi < lo {
		return 0
	}
	return hi - lo
}

// FirstOccurrence returns the first sentence where term occurs.
func (idx *Index) FirstOccurrence(term string) (int, bool) {
	offs := idx.offsets[term]
	if len(offs) == 0 {
		return 0, false
	}
	return offs[0], true
}

// MinToken returns the smallest token index of term inside sentence.
func (idx *Index) MinToken(term string, sentence int) (int, bool) {
	tok, ok := idx.minToken[tokenKey{term: term, sentence: sentence}]
	return tok, ok
}
