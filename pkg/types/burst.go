package types

import "fmt"

// Burst is a sentence interval, inclusive on both ends, where the occurrence
// rate of Term is elevated at the given hierarchy level.
type Burst struct {
	ID    int    `json:"id"`
	Term  string `json:"keyword"`
	Level int    `json:"level"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the number of sentences covered by the burst.
func (b Burst) Len() int {
	return b.End - b.Start + 1
}

// Span returns the sentence range of the burst.
func (b Burst) Span() Span {
	return Span{Start: b.Start, End: b.End}
}

// Validate checks the burst invariants.
func (b Burst) Validate() error {
	if b.Term == "" {
		return fmt.Errorf("burst %d: %w", b.ID, ErrEmptyTerm)
	}
	if b.Level < 1 {
		return fmt.Errorf("burst %d (%s): level %d must be at least 1", b.ID, b.Term, b.Level)
	}
	if b.Start > b.End {
		return fmt.Errorf("burst %d (%s): start %d after end %d", b.ID, b.Term, b.Start, b.End)
	}
	return nil
}

// Span is an inclusive sentence range.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of sentences covered by the span.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Contains reports whether sentence lies inside the span.
func (s Span) Contains(sentence int) bool {
	return sentence >= s.Start && sentence <= s.End
}

// BurstsByTerm groups bursts by term, keeping the input order inside each group.
func BurstsByTerm(bursts []Burst) map[string][]Burst {
	grouped := make(map[string][]Burst)
	for _, b := range bursts {
		grouped[b.Term] = append(grouped[b.Term], b)
	}
	return grouped
}

// BurstTerms returns the distinct terms of bursts in order of first appearance.
func BurstTerms(bursts []Burst) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, b := range bursts {
		if !seen[b.Term] {
			seen[b.Term] = true
			terms = append(terms, b.Term)
		}
	}
	return terms
}
