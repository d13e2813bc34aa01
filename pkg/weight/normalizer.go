// Package weight converts the burst-by-burst relation weights into a
// term-by-term Normalized Relation Weight (NRW) matrix.
//
// For an ordered pair of bursts Bx of term X and By of term Y with relation
// weight w > 0, the NRW depends on the chosen formula:
//
//	original:    w · (freq(Bx)/totLen(X)) · (freq(By)/totLen(Y))
//	modified:    w · (freq(Bx)·n(X)/totLen(X)) · (freq(By)·n(Y)/totLen(Y))
//	marzo2019_1: w · (freq(Bx)/totLen(X)) · (freq(By)/len(By))
//	marzo2019_2: w · (freq(Bx)/len(Bx)) · (freq(By)/len(By))
//
// where freq(B) counts the term's occurrence records inside B, totLen sums
// the lengths of a term's bursts and n counts them. The NRW of every pair is
// added into cell (X, Y).
package weight

import (
	"log/slog"

	"github.com/soundprediction/burstgraph/pkg/logger"
	"github.com/soundprediction/burstgraph/pkg/types"
)

// Formula names a normalization formula.
type Formula string

const (
	FormulaOriginal   Formula = "original"
	FormulaModified   Formula = "modified"
	FormulaMarzo2019a Formula = "marzo2019_1"
	FormulaMarzo2019b Formula = "marzo2019_2"
)

// DefaultFormula is the formula used by the analysis pipeline.
const DefaultFormula = FormulaModified

// Formulas lists the supported formulas.
var Formulas = []Formula{FormulaOriginal, FormulaModified, FormulaMarzo2019a, FormulaMarzo2019b}

// ParseFormula validates a formula name.
func ParseFormula(name string) (Formula, error) {
	for _, f := range Formulas {
		if string(f) == name {
			return f, nil
		}
	}
	return "", types.NewConfigurationError("formula", name, "must be one of original, modified, marzo2019_1, marzo2019_2")
}

// FrequencyCounter counts the occurrence records of a term inside an
// inclusive sentence range. *occurrence.Index satisfies it.
type FrequencyCounter interface {
	Frequency(term string, start, end int) int
}

// Normalizer computes NRW matrices with a fixed formula.
type Normalizer struct {
	formula Formula
	logger  *slog.Logger
}

// NewNormalizer validates formula and creates a Normalizer.
func NewNormalizer(formula Formula, log *slog.Logger) (*Normalizer, error) {
	if _, err := ParseFormula(string(formula)); err != nil {
		return nil, err
	}
	return &Normalizer{formula: formula, logger: logger.OrDiscard(log)}, nil
}

// Formula returns the formula of the normalizer.
func (n *Normalizer) Formula() Formula {
	return n.formula
}

type burstStats struct {
	burst types.Burst
	freq  float64
}

// Normalize builds a fresh term matrix over the terms of bursts, in order of
// first appearance. Repeated calls with the same inputs return equal matrices.
func (n *Normalizer) Normalize(bursts []types.Burst, matrix *types.WeightMatrix, freq FrequencyCounter) *types.TermMatrix {
	terms := types.BurstTerms(bursts)
	out := types.NewTermMatrix(terms)

	byTerm := make(map[string][]burstStats, len(terms))
	totalLen := make(map[string]float64, len(terms))
	for _, b := range bursts {
		byTerm[b.Term] = append(byTerm[b.Term], burstStats{
			burst: b,
			freq:  float64(freq.Frequency(b.Term, b.Start, b.End)),
		})
		totalLen[b.Term] += float64(b.Len())
	}

	contributions := 0
	for _, x := range terms {
		for _, bx := range byTerm[x] {
			for _, y := range terms {
				if x == y {
					continue
				}
				for _, by := range byTerm[y] {
					w := matrix.Get(bx.burst.ID, by.burst.ID)
					if w <= 0 {
						continue
					}
					out.Add(x, y, n.nrw(w, bx, by, totalLen[x], totalLen[y], len(byTerm[x]), len(byTerm[y])))
					contributions++
				}
			}
		}
	}

	n.logger.Info("Weights normalized",
		"formula", n.formula,
		"terms", len(terms),
		"contributions", contributions,
		"nonzero_cells", out.NonZero())
	return out
}

func (n *Normalizer) nrw(w float64, bx, by burstStats, totX, totY float64, numX, numY int) float64 {
	switch n.formula {
	case FormulaOriginal:
		return w * (bx.freq / totX) * (by.freq / totY)
	case FormulaModified:
		return w * (bx.freq * float64(numX) / totX) * (by.freq * float64(numY) / totY)
	case FormulaMarzo2019a:
		return w * (bx.freq / totX) * (by.freq / float64(by.burst.Len()))
	default:
		return w * (bx.freq / float64(bx.burst.Len())) * (by.freq / float64(by.burst.Len()))
	}
}

// Normalize validates formula and runs a one-off normalization.
func Normalize(bursts []types.Burst, matrix *types.WeightMatrix, freq FrequencyCounter, formula Formula, log *slog.Logger) (*types.TermMatrix, error) {
	n, err := NewNormalizer(formula, log)
	if err != nil {
		return nil, err
	}
	return n.Normalize(bursts, matrix, freq), nil
}
