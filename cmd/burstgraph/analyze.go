package burstgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/soundprediction/burstgraph"
	"github.com/soundprediction/burstgraph/pkg/agreement"
	"github.com/soundprediction/burstgraph/pkg/allen"
	"github.com/soundprediction/burstgraph/pkg/config"
	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/soundprediction/burstgraph/pkg/utils"
	"github.com/soundprediction/burstgraph/pkg/weight"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build the concept map and the definitions of a transcript",
	Long: `Run the whole burst analysis: extract the bursts of every vocabulary term,
detect the Allen relations between them, normalize the weights, orient every
term pair and print the concept map and the merged definitions as JSON.

With --gold, the concept map is also scored against a reference map.`,
	RunE: runAnalyze,
}

var (
	goldPath   string
	fullOutput bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addInputFlags(analyzeCmd)

	analyzeCmd.Flags().StringVar(&goldPath, "gold", "", "JSON reference concept map to score against")
	analyzeCmd.Flags().BoolVar(&fullOutput, "full", false, "print every intermediate table")

	// Analysis flags
	analyzeCmd.Flags().Float64("s", burstgraph.DefaultS, "rate ratio between automaton states")
	analyzeCmd.Flags().Float64("gamma", burstgraph.DefaultGamma, "cost of moving up one state")
	analyzeCmd.Flags().Int("level", burstgraph.DefaultLevel, "burst level to keep")
	analyzeCmd.Flags().Int("max-gap", allen.DefaultMaxGap, "maximum sentence gap for before/after")
	analyzeCmd.Flags().Bool("find-inverse", false, "also detect inverse Allen relations")
	analyzeCmd.Flags().String("formula", string(weight.DefaultFormula), "normalization formula (original, modified, marzo2019_1, marzo2019_2)")
	analyzeCmd.Flags().Float64("threshold", burstgraph.DefaultThreshold, "minimum weight of a concept map edge")
	analyzeCmd.Flags().Int("top-n", burstgraph.DefaultTopN, "edges considered before thresholding (0 for all)")
	analyzeCmd.Flags().String("creator", burstgraph.DefaultCreator, "creator tag of the produced records")
}

type analyzeOutput struct {
	RunID       string                 `json:"run_id"`
	ConceptMap  []types.ConceptMapEdge `json:"concept_map"`
	Definitions []definitionOutput     `json:"definitions"`
	Excluded    []string               `json:"excluded_words,omitempty"`
	Ambiguous   [][2]string            `json:"ambiguous,omitempty"`
	Agreement   *agreementOutput       `json:"agreement,omitempty"`
	Full        *burstgraph.Result     `json:"result,omitempty"`
}

type definitionOutput struct {
	types.Definition
	Start string `json:"start"`
	End   string `json:"end"`
}

type agreementOutput struct {
	Kappa float64         `json:"kappa"`
	Table agreement.Table `json:"table"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	opts, err := cfg.Options()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg)
	analyzer, err := burstgraph.NewAnalyzer(opts, logger)
	if err != nil {
		return err
	}

	in, err := loadInput(logger, true)
	if err != nil {
		return err
	}

	res, err := analyzer.Analyze(context.Background(), in)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := analyzeOutput{
		RunID:      res.RunID,
		ConceptMap: res.ConceptMap,
		Excluded:   res.ExcludedWords,
		Ambiguous:  res.Ambiguous,
	}
	for _, d := range res.Definitions {
		out.Definitions = append(out.Definitions, definitionOutput{
			Definition: d,
			Start:      utils.FormatTimestamp(d.StartTime),
			End:        utils.FormatTimestamp(d.EndTime),
		})
	}
	if fullOutput {
		out.Full = res
	}

	if goldPath != "" {
		gold, err := readConceptMap(goldPath)
		if err != nil {
			return err
		}
		table := agreement.Compare(gold, res.ConceptMap)
		out.Agreement = &agreementOutput{Kappa: table.Kappa(), Table: table}
		logger.Info("Agreement computed", "kappa", out.Agreement.Kappa, "pairs", table.Pairs)
	}

	return writeJSON(os.Stdout, out)
}

func readConceptMap(path string) ([]types.ConceptMapEdge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var edges []types.ConceptMapEdge
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, fmt.Errorf("failed to decode concept map %s: %w", path, err)
	}
	return edges, nil
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("s") {
		cfg.Burst.S, _ = cmd.Flags().GetFloat64("s")
	}
	if cmd.Flags().Changed("gamma") {
		cfg.Burst.Gamma, _ = cmd.Flags().GetFloat64("gamma")
	}
	if cmd.Flags().Changed("level") {
		cfg.Burst.Level, _ = cmd.Flags().GetInt("level")
	}
	if cmd.Flags().Changed("max-gap") {
		cfg.Relations.MaxGap, _ = cmd.Flags().GetInt("max-gap")
	}
	if cmd.Flags().Changed("find-inverse") {
		cfg.Relations.FindInverse, _ = cmd.Flags().GetBool("find-inverse")
	}
	if cmd.Flags().Changed("formula") {
		cfg.Normalize.Formula, _ = cmd.Flags().GetString("formula")
	}
	if cmd.Flags().Changed("threshold") {
		cfg.ConceptMap.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("top-n") {
		cfg.ConceptMap.TopN, _ = cmd.Flags().GetInt("top-n")
	}
	if cmd.Flags().Changed("creator") {
		cfg.Creator, _ = cmd.Flags().GetString("creator")
	}
}
