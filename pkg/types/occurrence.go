package types

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyTerm        = errors.New("term cannot be empty")
	ErrNegativeSentence = errors.New("sentence index cannot be negative")
	ErrNegativeToken    = errors.New("token index cannot be negative")
	ErrInvalidTiming    = errors.New("sentence end time precedes start time")
)

// Occurrence is a single hit of a term inside the sentence sequence.
// Token is the position of the term's first word inside the sentence.
type Occurrence struct {
	Term     string `json:"lemma" yaml:"lemma"`
	Sentence int    `json:"sentence" yaml:"sentence"`
	Token    int    `json:"token" yaml:"token"`
}

// Validate checks if the Occurrence has all required fields set.
func (o Occurrence) Validate() error {
	if o.Term == "" {
		return ErrEmptyTerm
	}
	if o.Sentence < 0 {
		return fmt.Errorf("%s: %w", o.Term, ErrNegativeSentence)
	}
	if o.Token < 0 {
		return fmt.Errorf("%s: %w", o.Term, ErrNegativeToken)
	}
	return nil
}

// SentenceTiming is the wall-clock range of a sentence, in seconds.
type SentenceTiming struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Validate checks that the timing range is well formed.
func (t SentenceTiming) Validate() error {
	if t.End < t.Start {
		return ErrInvalidTiming
	}
	return nil
}

// Timing maps sentence indexes to their wall-clock range.
type Timing map[int]SentenceTiming

// Lookup returns the timing of a sentence term occurs in, or a
// DataInconsistencyError naming both when the sentence is unknown.
func (t Timing) Lookup(term string, sentence int) (SentenceTiming, error) {
	st, ok := t[sentence]
	if !ok {
		return SentenceTiming{}, NewDataInconsistencyError(term, sentence, "sentence missing from timing map")
	}
	return st, nil
}
