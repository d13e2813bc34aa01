package allen

import (
	"log/slog"
	"math"

	"github.com/soundprediction/burstgraph/pkg/logger"
	"github.com/soundprediction/burstgraph/pkg/types"
)

// Default detection parameters.
const (
	DefaultMaxGap = 1
	DefaultAlpha  = 0.05
)

// Options configures relation detection.
type Options struct {
	// Weights assigns a weight to each of the 13 relations.
	Weights types.RelationWeights
	// MaxGap bounds the sentence gap for before and after.
	MaxGap int
	// Alpha scales the boundary tolerance.
	Alpha float64
	// FindInverse also tests met-by, overlapped-by, during, started-by,
	// finished-by and after.
	FindInverse bool
}

// DefaultOptions returns the detection defaults.
func DefaultOptions() Options {
	return Options{
		Weights: types.DefaultRelationWeights(),
		MaxGap:  DefaultMaxGap,
		Alpha:   DefaultAlpha,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := o.Weights.Validate(); err != nil {
		return err
	}
	if o.MaxGap < 0 {
		return types.NewConfigurationError("max_gap", o.MaxGap, "must be non-negative")
	}
	if math.IsNaN(o.Alpha) || o.Alpha < 0 {
		return types.NewConfigurationError("alpha", o.Alpha, "must be non-negative")
	}
	return nil
}

// Result holds the detected relations.
type Result struct {
	// Records lists every relation found, in pair order.
	Records []types.RelationRecord
	// Matrix holds, for each ordered burst pair, the highest weight among its
	// relations.
	Matrix *types.WeightMatrix
}

// Detector classifies relations between bursts of different terms.
type Detector struct {
	opts   Options
	logger *slog.Logger
}

// NewDetector validates opts and creates a detector.
func NewDetector(opts Options, log *slog.Logger) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Weights = opts.Weights.Clone()
	return &Detector{opts: opts, logger: logger.OrDiscard(log)}, nil
}

// Detect tests every ordered pair of bursts belonging to different terms.
// The work is quadratic in the number of bursts.
func (d *Detector) Detect(bursts []types.Burst) *Result {
	res := &Result{Matrix: types.NewWeightMatrix()}
	maxGap := float64(d.opts.MaxGap)

	pairs := 0
	for _, bx := range bursts {
		x := FromBurst(bx)
		for _, by := range bursts {
			if bx.Term == by.Term {
				continue
			}
			pairs++
			y := FromBurst(by)
			tol := Tolerance(x, y, d.opts.Alpha)

			for _, rel := range Classify(x, y, tol, maxGap, d.opts.FindInverse) {
				res.Records = append(res.Records, types.RelationRecord{
					TermX:    bx.Term,
					TermY:    by.Term,
					BurstX:   bx.ID,
					BurstY:   by.ID,
					XStart:   bx.Start,
					XEnd:     bx.End,
					YStart:   by.Start,
					YEnd:     by.End,
					Relation: rel,
				})
				res.Matrix.Raise(bx.ID, by.ID, d.opts.Weights[rel])
			}
		}
	}

	d.logger.Info("Relations detected",
		"bursts", len(bursts),
		"pairs", pairs,
		"records", len(res.Records),
		"weighted_pairs", res.Matrix.Len(),
		"find_inverse", d.opts.FindInverse)
	d.logger.Debug("Relation counts", "by_relation", CountByRelation(res.Records))
	return res
}

// Detect validates opts and runs a one-off detection.
func Detect(bursts []types.Burst, opts Options, log *slog.Logger) (*Result, error) {
	d, err := NewDetector(opts, log)
	if err != nil {
		return nil, err
	}
	return d.Detect(bursts), nil
}

// CountByRelation tallies records per relation.
func CountByRelation(records []types.RelationRecord) map[types.Relation]int {
	counts := make(map[types.Relation]int)
	for _, r := range records {
		counts[r.Relation]++
	}
	return counts
}
