// Package types defines the core data types for burstgraph.
//
// This package contains the fundamental types shared by every stage of the
// burst analysis pipeline:
//   - Occurrence: a (term, sentence, token) hit produced by the tagging system
//   - Burst: an interval of elevated occurrence rate for one term
//   - Relation / RelationRecord: Allen relations detected between bursts
//   - WeightMatrix: sparse burst-to-burst relation weights
//   - TermMatrix: dense term-to-term scores (normalized and directed)
//   - ConceptMapEdge / Definition: the records handed back to callers
//
// # Bursts
//
// Burst levels start at 1. The trivial level-0 state of the burst automaton
// (a term's whole occurrence range) is represented as a Span, not a Burst:
//
//	b := types.Burst{Term: "network", Level: 1, Start: 4, End: 9}
//	if err := b.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # Errors
//
// Three typed errors describe every failure mode of the pipeline. They
// support errors.Is against the package sentinels:
//
//	if errors.Is(err, types.ErrEmptyResult) {
//	    // retry with relaxed parameters
//	}
package types
