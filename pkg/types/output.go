package types

import (
	"fmt"
	"math"
	"time"
)

// DescriptionType labels a description span.
type DescriptionType string

const (
	DescriptionDefinition DescriptionType = "Definition"
	DescriptionInDepth    DescriptionType = "In Depth"
)

// WeightCategory is the qualitative strength of a concept-map edge.
type WeightCategory string

const (
	WeightStrong WeightCategory = "Strong"
	WeightWeak   WeightCategory = "Weak"
)

// DirectedEdge is a prerequisite edge: Prerequisite should be encountered
// before Target.
type DirectedEdge struct {
	Prerequisite string  `json:"prerequisite"`
	Target       string  `json:"target"`
	Weight       float64 `json:"weight"`
}

// ConceptMapEdge is one record of the produced concept map.
type ConceptMapEdge struct {
	Prerequisite string         `json:"prerequisite"`
	Target       string         `json:"target"`
	Creator      string         `json:"creator"`
	Weight       WeightCategory `json:"weight"`
	Score        float64        `json:"weight_burst"`
	Time         float64        `json:"time"`
	Sentence     int            `json:"sent_id"`
}

// Timestamp returns the edge time as a duration from the start of the
// transcript.
func (e ConceptMapEdge) Timestamp() time.Duration {
	return secondsToDuration(e.Time)
}

// Definition is one merged description span of the produced output.
type Definition struct {
	Concept         string          `json:"concept"`
	StartSentence   int             `json:"start_sent_id"`
	EndSentence     int             `json:"end_sent_id"`
	StartTime       float64         `json:"start"`
	EndTime         float64         `json:"end"`
	DescriptionType DescriptionType `json:"description_type"`
	Creator         string          `json:"creator"`
}

// Duration returns the wall-clock length of the span.
func (d Definition) Duration() time.Duration {
	return secondsToDuration(d.EndTime - d.StartTime)
}

func (d Definition) String() string {
	return fmt.Sprintf("%s %q [%d,%d]", d.DescriptionType, d.Concept, d.StartSentence, d.EndSentence)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
