package occurrence

import (
	"sort"

	"github.com/soundprediction/burstgraph/pkg/types"
)

// SynonymMap associates each concept with its alternative spellings.
type SynonymMap map[string][]string

// Canonicalizer rewrites term variants to the canonical member of their
// synset: the alphabetically first of the concept and its synonyms.
type Canonicalizer struct {
	canonical map[string]string
	concepts  []string
}

// NewCanonicalizer builds the variant-to-canonical mapping. Concepts are
// visited in lexical order, so when a synonym is listed under more than one
// concept the first concept wins.
func NewCanonicalizer(synonyms SynonymMap) *Canonicalizer {
	c := &Canonicalizer{canonical: make(map[string]string)}

	concepts := make([]string, 0, len(synonyms))
	for concept := range synonyms {
		concepts = append(concepts, concept)
	}
	sort.Strings(concepts)

	seen := make(map[string]bool)
	for _, concept := range concepts {
		synset := append([]string{concept}, synonyms[concept]...)
		sort.Strings(synset)
		head := synset[0]

		for _, term := range synset {
			if _, ok := c.canonical[term]; !ok {
				c.canonical[term] = head
			}
		}
		if !seen[head] {
			seen[head] = true
			c.concepts = append(c.concepts, head)
		}
	}
	sort.Strings(c.concepts)
	return c
}

// Canonical returns the canonical spelling of term. Unknown terms are
// returned unchanged.
func (c *Canonicalizer) Canonical(term string) string {
	if c == nil {
		return term
	}
	if head, ok := c.canonical[term]; ok {
		return head
	}
	return term
}

// Concepts returns the distinct canonical concepts in lexical order.
func (c *Canonicalizer) Concepts() []string {
	out := make([]string, len(c.concepts))
	copy(out, c.concepts)
	return out
}

// Apply returns a copy of occurrences with every term canonicalized.
func (c *Canonicalizer) Apply(occurrences []types.Occurrence) []types.Occurrence {
	out := make([]types.Occurrence, len(occurrences))
	for i, o := range occurrences {
		o.Term = c.Canonical(o.Term)
		out[i] = o
	}
	return out
}

// ApplyTerms canonicalizes terms, dropping duplicates and keeping the first
// appearance order.
func (c *Canonicalizer) ApplyTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		head := c.Canonical(t)
		if !seen[head] {
			seen[head] = true
			out = append(out, head)
		}
	}
	return out
}
