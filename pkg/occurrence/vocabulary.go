package occurrence

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/soundprediction/burstgraph/pkg/utils"
)

// VocabularyEntry is one concept of a vocabulary file.
type VocabularyEntry struct {
	Concept  string   `yaml:"concept"`
	Synonyms []string `yaml:"synonyms"`
}

// Vocabulary is the list of requested concepts with their synonyms.
type Vocabulary struct {
	Entries []VocabularyEntry
}

// ReadVocabulary decodes a YAML sequence of concept entries:
//
//	- concept: neural network
//	  synonyms: [neural net]
//	- concept: perceptron
//
// Entries with an empty concept are skipped.
func ReadVocabulary(r io.Reader, logger *slog.Logger) (*Vocabulary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	items, err := utils.UnmarshalYAML[VocabularyEntry](data, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}

	v := &Vocabulary{}
	for _, item := range items {
		item.Concept = strings.TrimSpace(item.Concept)
		if item.Concept == "" {
			continue
		}
		v.Entries = append(v.Entries, *item)
	}
	return v, nil
}

// Terms returns the concepts in file order.
func (v *Vocabulary) Terms() []string {
	terms := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		terms = append(terms, e.Concept)
	}
	return terms
}

// Synonyms returns the synonym map of the vocabulary.
func (v *Vocabulary) Synonyms() SynonymMap {
	m := make(SynonymMap, len(v.Entries))
	for _, e := range v.Entries {
		m[e.Concept] = append(m[e.Concept], e.Synonyms...)
	}
	return m
}
