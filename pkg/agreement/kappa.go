// Package agreement scores a produced concept map against a reference one
// with Cohen's kappa over concept pairs.
//
// A pair counts as annotated by a rater when the rater lists it or when the
// rater's graph holds a path between the two concepts. A pair annotated by
// both raters also stands for its inverse, so it counts twice and offsets
// one pair that neither rater annotated.
package agreement

import (
	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/soundprediction/burstgraph/pkg/utils"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type pair struct{ from, to string }

// Table holds the agreement counts of two raters.
type Table struct {
	BothAgree     int `json:"1,1"`
	GoldOnly      int `json:"1,0"`
	PredictedOnly int `json:"0,1"`
	BothDisagree  int `json:"0,0"`
	// Pairs is the number of candidate pairs the counts range over.
	Pairs int `json:"pairs"`
}

// Kappa returns Cohen's kappa, rounded to 3 decimals. Degenerate tables
// (no pair, or chance agreement of 1) score 0.
func (t Table) Kappa() float64 {
	if t.Pairs == 0 {
		return 0
	}
	n := float64(t.Pairs)
	po := float64(t.BothAgree+t.BothDisagree) / n
	pe1 := (float64(t.BothAgree+t.GoldOnly) / n) * (float64(t.BothAgree+t.PredictedOnly) / n)
	pe2 := (float64(t.PredictedOnly+t.BothDisagree) / n) * (float64(t.GoldOnly+t.BothDisagree) / n)
	pe := pe1 + pe2
	if pe == 1 {
		return 0
	}
	return utils.Round((po-pe)/(1-pe), 3)
}

// Compare counts the agreement of predicted with gold.
func Compare(gold, predicted []types.ConceptMapEdge) Table {
	pairs := candidatePairs(gold, predicted)
	g, p := newRater(gold), newRater(predicted)

	t := Table{Pairs: len(pairs)}
	for _, pr := range pairs {
		inGold, inPred := g.annotated(pr), p.annotated(pr)
		switch {
		case inGold && inPred:
			t.BothAgree += 2
			t.BothDisagree--
		case inGold:
			t.GoldOnly++
		case inPred:
			t.PredictedOnly++
		default:
			t.BothDisagree++
		}
	}
	return t
}

// Kappa compares the two maps and returns their agreement.
func Kappa(gold, predicted []types.ConceptMapEdge) float64 {
	return Compare(gold, predicted).Kappa()
}

// candidatePairs lists every unordered pair of concepts, oriented by first
// appearance, followed by the annotated ordered pairs not yet present.
func candidatePairs(gold, predicted []types.ConceptMapEdge) []pair {
	var words []string
	seenWord := make(map[string]bool)
	addWord := func(w string) {
		if !seenWord[w] {
			seenWord[w] = true
			words = append(words, w)
		}
	}
	for _, maps := range [][]types.ConceptMapEdge{gold, predicted} {
		for _, e := range maps {
			addWord(e.Prerequisite)
			addWord(e.Target)
		}
	}

	var pairs []pair
	seen := make(map[pair]bool)
	for i, a := range words {
		for _, b := range words[i+1:] {
			p := pair{a, b}
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	for _, maps := range [][]types.ConceptMapEdge{gold, predicted} {
		for _, e := range maps {
			p := pair{e.Prerequisite, e.Target}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}
	return pairs
}

// rater holds the pairs a rater listed and the concept graph they span.
type rater struct {
	listed map[pair]bool
	nodes  map[string]graph.Node
	graph  *simple.DirectedGraph
}

func newRater(edges []types.ConceptMapEdge) *rater {
	r := &rater{
		listed: make(map[pair]bool),
		nodes:  make(map[string]graph.Node),
		graph:  simple.NewDirectedGraph(),
	}
	for _, e := range edges {
		r.listed[pair{e.Prerequisite, e.Target}] = true
		from, to := r.node(e.Prerequisite), r.node(e.Target)
		// simple graphs reject self loops; a listed self pair is still
		// annotated through listed.
		if from.ID() != to.ID() {
			r.graph.SetEdge(r.graph.NewEdge(from, to))
		}
	}
	return r
}

func (r *rater) node(concept string) graph.Node {
	if n, ok := r.nodes[concept]; ok {
		return n
	}
	n := r.graph.NewNode()
	r.graph.AddNode(n)
	r.nodes[concept] = n
	return n
}

func (r *rater) annotated(p pair) bool {
	return r.listed[p] || r.reaches(p.from, p.to)
}

// reaches reports whether a directed path leads from src to dst. Concepts
// the rater never mentions reach nothing.
func (r *rater) reaches(src, dst string) bool {
	from, ok := r.nodes[src]
	if !ok {
		return false
	}
	to, ok := r.nodes[dst]
	if !ok {
		return false
	}
	return topo.PathExistsIn(r.graph, from, to)
}
