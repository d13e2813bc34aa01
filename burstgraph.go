package burstgraph

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/soundprediction/burstgraph/pkg/allen"
	"github.com/soundprediction/burstgraph/pkg/burst"
	"github.com/soundprediction/burstgraph/pkg/definition"
	"github.com/soundprediction/burstgraph/pkg/direction"
	"github.com/soundprediction/burstgraph/pkg/logger"
	"github.com/soundprediction/burstgraph/pkg/occurrence"
	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/soundprediction/burstgraph/pkg/utils"
	"github.com/soundprediction/burstgraph/pkg/weight"
)

// NormalizedDecimals is the precision of the normalized matrix before
// directions are assigned.
const NormalizedDecimals = 6

// Default run parameters, tuned for lecture transcripts where a sentence is
// the time unit.
const (
	DefaultS         = 1.05
	DefaultGamma     = 0.0001
	DefaultLevel     = 1
	DefaultThreshold = 0.7
	DefaultTopN      = 90
	DefaultCreator   = "Burst_Analysis"
)

// Engine is the analysis entry point.
type Engine interface {
	Analyze(ctx context.Context, in Input) (*Result, error)
}

// Options holds the parameters of a run.
type Options struct {
	// S is the rate ratio between consecutive automaton states.
	S float64
	// Gamma scales the cost of moving up one state.
	Gamma float64
	// Level is the burst level kept after extraction.
	Level int
	// SaveMonolevel promotes terms that never escalate to a level-1 burst.
	SaveMonolevel bool
	// BreakLength and BreakOccurrences select the long bursts of sparse
	// terms that are split into two point bursts.
	BreakLength      int
	BreakOccurrences int

	Relations allen.Options
	Formula   weight.Formula
	// PreserveRelations keeps the weight of a pair whose only nonzero cell
	// points the wrong way.
	PreserveRelations bool

	// Threshold is the minimum edge weight, exclusive, of the concept map.
	Threshold float64
	// StrongThreshold is the weight from which an edge is Strong.
	StrongThreshold float64
	// TopN truncates the sorted edge list before thresholding. Zero keeps
	// every edge.
	TopN int
	// Creator tags every produced record.
	Creator string
}

// DefaultOptions returns the parameters tuned for lecture transcripts.
func DefaultOptions() Options {
	return Options{
		S:                 DefaultS,
		Gamma:             DefaultGamma,
		Level:             DefaultLevel,
		SaveMonolevel:     true,
		BreakLength:       burst.DefaultBreakLength,
		BreakOccurrences:  burst.DefaultBreakOccurrences,
		Relations:         allen.DefaultOptions(),
		Formula:           weight.DefaultFormula,
		PreserveRelations: true,
		Threshold:         DefaultThreshold,
		TopN:              DefaultTopN,
		Creator:           DefaultCreator,
	}
}

// Validate checks every parameter. It returns a *types.ConfigurationError.
func (o Options) Validate() error {
	if math.IsNaN(o.S) || o.S <= 1 {
		return types.NewConfigurationError("s", o.S, "must be greater than 1")
	}
	if math.IsNaN(o.Gamma) || o.Gamma <= 0 {
		return types.NewConfigurationError("gamma", o.Gamma, "must be positive")
	}
	if o.Level < 1 {
		return types.NewConfigurationError("level", o.Level, "must be at least 1")
	}
	if o.BreakLength < 1 {
		return types.NewConfigurationError("break_length", o.BreakLength, "must be at least 1")
	}
	if o.BreakOccurrences < 0 {
		return types.NewConfigurationError("break_occurrences", o.BreakOccurrences, "must be non-negative")
	}
	if err := o.Relations.Validate(); err != nil {
		return err
	}
	if _, err := weight.ParseFormula(string(o.Formula)); err != nil {
		return err
	}
	if math.IsNaN(o.Threshold) || o.Threshold < 0 {
		return types.NewConfigurationError("threshold", o.Threshold, "must be non-negative")
	}
	if math.IsNaN(o.StrongThreshold) || o.StrongThreshold < 0 {
		return types.NewConfigurationError("strong_threshold", o.StrongThreshold, "must be non-negative")
	}
	if o.TopN < 0 {
		return types.NewConfigurationError("top_n", o.TopN, "must be non-negative")
	}
	return nil
}

func (o Options) params() map[string]interface{} {
	return map[string]interface{}{
		"s":                 o.S,
		"gamma":             o.Gamma,
		"level":             o.Level,
		"break_length":      o.BreakLength,
		"break_occurrences": o.BreakOccurrences,
		"max_gap":           o.Relations.MaxGap,
		"alpha":             o.Relations.Alpha,
		"find_inverse":      o.Relations.FindInverse,
		"formula":           string(o.Formula),
	}
}

// Input is the data of one run.
type Input struct {
	// Occurrences is the tagged occurrence table. When empty, occurrences
	// are searched in Text instead.
	Occurrences []types.Occurrence
	// Timing maps sentence indexes to wall-clock bounds.
	Timing types.Timing
	// Vocabulary lists the requested concepts. When set, an occurrence of
	// any other term is a DataInconsistencyError. When empty, every
	// occurring term is used.
	Vocabulary []string
	// Synonyms maps concepts to their variants.
	Synonyms occurrence.SynonymMap
	// Text is the raw transcript used when Occurrences is empty.
	Text string
}

// Result is the outcome of one run.
type Result struct {
	RunID string `json:"run_id"`

	Bursts    []types.Burst          `json:"bursts"`
	Timeline  []burst.GanttRow       `json:"timeline"`
	Relations []types.RelationRecord `json:"relations"`
	// Matrix is the directed term matrix, vocabulary terms included.
	Matrix *types.TermMatrix     `json:"-"`
	Edges  []types.DirectedEdge  `json:"edges"`
	// Ambiguous lists the term pairs no rule could orient.
	Ambiguous [][2]string `json:"ambiguous"`

	ConceptMap  []types.ConceptMapEdge `json:"concept_map"`
	Definitions []types.Definition     `json:"definitions"`

	WordsWithBursts []string `json:"words_with_bursts"`
	ExcludedWords   []string `json:"excluded_words"`
}

// Analyzer runs the burst analysis pipeline.
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

var _ Engine = (*Analyzer)(nil)

// NewAnalyzer validates opts and creates an Analyzer. A nil logger discards.
func NewAnalyzer(opts Options, log *slog.Logger) (*Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Creator == "" {
		opts.Creator = DefaultCreator
	}
	opts.Relations.Weights = opts.Relations.Weights.Clone()
	return &Analyzer{opts: opts, logger: logger.OrDiscard(log)}, nil
}

// Options returns the parameters of the analyzer.
func (a *Analyzer) Options() Options {
	opts := a.opts
	opts.Relations.Weights = opts.Relations.Weights.Clone()
	return opts
}

// Analyze runs every stage on in. Apart from RunID the result is a pure
// function of in and the options.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	res := &Result{RunID: utils.GenerateUUID()}
	log := logger.FromContext(ctx, a.logger).With("run_id", res.RunID)
	ctx = logger.WithLogger(ctx, log)

	idx, vocabulary, err := a.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	bursts, err := a.extract(ctx, idx, vocabulary, res)
	if err != nil {
		return nil, err
	}
	res.Bursts = bursts
	res.Timeline = burst.GanttRows(bursts, idx)

	detector, err := allen.NewDetector(a.opts.Relations, log)
	if err != nil {
		return nil, err
	}
	relations := detector.Detect(bursts)
	res.Relations = relations.Records

	normalizer, err := weight.NewNormalizer(a.opts.Formula, log)
	if err != nil {
		return nil, err
	}
	normalized := normalizer.Normalize(bursts, relations.Matrix, idx)
	normalized.Round(NormalizedDecimals)
	if normalized.IsZero() {
		return nil, types.NewEmptyResultError("normalize", a.opts.params())
	}

	assigner, err := direction.NewAssigner(direction.Options{
		Level:             a.opts.Level,
		PreserveRelations: a.opts.PreserveRelations,
	}, log)
	if err != nil {
		return nil, err
	}
	directed, err := assigner.Assign(ctx, normalized, bursts, idx)
	if err != nil {
		return nil, fmt.Errorf("failed to assign directions: %w", err)
	}
	if added := direction.AddMissingTerms(directed.Matrix, vocabulary); len(added) > 0 {
		log.Debug("Added vocabulary terms without bursts", "terms", added)
	}
	res.Matrix = directed.Matrix
	res.Ambiguous = directed.Ambiguous
	res.Edges = direction.EdgeList(directed.Matrix)

	res.ConceptMap, err = a.conceptMap(res.Edges, idx, in.Timing)
	if err != nil {
		return nil, fmt.Errorf("failed to build concept map: %w", err)
	}

	candidates, err := definition.Candidates(bursts, in.Timing, a.opts.Creator)
	if err != nil {
		return nil, fmt.Errorf("failed to build definitions: %w", err)
	}
	res.Definitions = definition.Merge(candidates, log)

	log.Info("Burst analysis complete",
		"bursts", len(res.Bursts),
		"relations", len(res.Relations),
		"edges", len(res.ConceptMap),
		"definitions", len(res.Definitions),
		"ambiguous", len(res.Ambiguous))
	return res, nil
}

// prepare canonicalizes the occurrences and the vocabulary, checks them
// against the vocabulary and the timing map, and indexes them.
func (a *Analyzer) prepare(ctx context.Context, in Input) (*occurrence.Index, []string, error) {
	log := logger.FromContext(ctx, a.logger)

	occs := in.Occurrences
	if len(occs) == 0 && in.Text != "" {
		occs = occurrence.FindOccurrences(in.Text, in.Vocabulary)
		log.Debug("Searched occurrences in raw text", "records", len(occs))
	}

	canon := occurrence.NewCanonicalizer(in.Synonyms)
	occs = canon.Apply(occs)
	vocabulary := canon.ApplyTerms(in.Vocabulary)

	if err := validateOccurrences(occs, vocabulary, in.Timing); err != nil {
		return nil, nil, err
	}

	idx, err := occurrence.NewIndex(occs)
	if err != nil {
		return nil, nil, err
	}
	if len(vocabulary) == 0 {
		vocabulary = idx.Terms()
	}
	return idx, vocabulary, nil
}

// validateOccurrences checks that every occurrence names a vocabulary term,
// when a vocabulary is given, and a sentence of the timing map, when one is
// given.
func validateOccurrences(occs []types.Occurrence, vocabulary []string, timing types.Timing) error {
	wanted := make(map[string]bool, len(vocabulary))
	for _, t := range vocabulary {
		wanted[t] = true
	}
	for _, o := range occs {
		if len(wanted) > 0 && !wanted[o.Term] {
			return types.NewDataInconsistencyError(o.Term, o.Sentence, "term missing from vocabulary")
		}
		if len(timing) > 0 {
			if _, err := timing.Lookup(o.Term, o.Sentence); err != nil {
				return err
			}
		}
	}
	return nil
}

// extract runs the automaton, keeps the configured level and breaks the
// long bursts of sparse terms.
func (a *Analyzer) extract(ctx context.Context, idx *occurrence.Index, vocabulary []string, res *Result) ([]types.Burst, error) {
	log := logger.FromContext(ctx, a.logger)

	ext, err := burst.NewExtractor(idx.AllOffsets(), log)
	if err != nil {
		return nil, err
	}
	if _, err := ext.Generate(a.opts.S, a.opts.Gamma); err != nil {
		return nil, err
	}

	if res.WordsWithBursts, err = ext.WordsWithBursts(a.opts.Level); err != nil {
		return nil, err
	}
	if res.ExcludedWords, err = ext.ExcludedWords(vocabulary, a.opts.Level); err != nil {
		return nil, err
	}

	if _, err := ext.Filter(a.opts.Level, a.opts.SaveMonolevel, true); err != nil {
		return nil, err
	}
	bursts, err := ext.Break(a.opts.BreakLength, a.opts.BreakOccurrences, true)
	if err != nil {
		return nil, err
	}
	if len(bursts) == 0 {
		return nil, types.NewEmptyResultError("bursts", a.opts.params())
	}
	return bursts, nil
}
