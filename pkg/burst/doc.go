// Package burst detects bursts of term occurrences with Kleinberg's
// two-state-per-level automaton and post-processes the resulting burst table.
//
// # Automaton
//
// Each term is treated as a point process over sentence indexes. The gaps
// between consecutive occurrences are explained by a ladder of states whose
// expected rate grows geometrically with base s; moving up the ladder costs
// gamma·log10(n) per level while moving down is free. The optimal state
// sequence is found with a Viterbi dynamic program over an explicit
// (gap × state) cost table, and every maximal run of gaps at state ≥ L
// becomes a level-L burst.
//
// # Extractor
//
// Extractor runs the automaton for every term and owns the burst table of one
// analysis:
//
//	ext, err := burst.NewExtractor(index.AllOffsets(), logger)
//	if err != nil {
//	    return err
//	}
//	if _, err := ext.Generate(2, 1); err != nil {
//	    return err
//	}
//	bursts, err := ext.Filter(1, true, true)
//
// The level-0 state of the automaton covers a term's whole occurrence range;
// it is kept as a baseline span rather than a burst, so that terms which
// never escalate can be promoted to level 1 on request.
package burst
