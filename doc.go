// Package burstgraph mines prerequisite relations between concepts from the
// way their mentions burst over an ordered sequence of sentences.
//
// A run detects the bursts of every term with Kleinberg's burst automaton,
// classifies the Allen relation between each pair of bursts of distinct
// terms, turns the relation weights into a normalized term-by-term score and
// orients every term pair by the start of the terms' first bursts. The
// result is a concept map of prerequisite edges plus a set of description
// spans labelled Definition or In Depth.
//
// # Basic Usage
//
//	analyzer, err := burstgraph.NewAnalyzer(burstgraph.DefaultOptions(), logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := analyzer.Analyze(ctx, burstgraph.Input{
//		Occurrences: occurrences,
//		Timing:      timing,
//		Vocabulary:  []string{"neural network", "perceptron"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, e := range res.ConceptMap {
//		fmt.Printf("%s -> %s (%.3f)\n", e.Prerequisite, e.Target, e.Score)
//	}
//
// # Errors
//
// Invalid options fail in NewAnalyzer with a types.ConfigurationError before
// any computation. Parameters that select no burst, or bursts that share no
// weighted relation, yield a types.EmptyResultError carrying the parameters;
// callers may retry with looser settings. Inconsistent input, such as a
// sentence missing from the timing map, is a types.DataInconsistencyError.
//
// # Concurrency
//
// An Analyzer holds only immutable options and a logger. Each Analyze call
// builds private state, so concurrent calls are safe.
package burstgraph
