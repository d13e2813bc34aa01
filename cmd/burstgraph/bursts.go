package burstgraph

import (
	"fmt"
	"os"

	"github.com/soundprediction/burstgraph"
	"github.com/soundprediction/burstgraph/pkg/burst"
	"github.com/soundprediction/burstgraph/pkg/config"
	"github.com/soundprediction/burstgraph/pkg/occurrence"
	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/spf13/cobra"
)

var burstsCmd = &cobra.Command{
	Use:   "bursts",
	Short: "Print the bursts of every vocabulary term",
	Long: `Run only the burst extraction stage and print the bursts with their
occurrence frequency and their position among the bursts of the term.

Without --level every level is printed.`,
	RunE: runBursts,
}

var (
	burstsLevel     int
	burstsMonolevel bool
	burstsBreak     bool
)

func init() {
	rootCmd.AddCommand(burstsCmd)
	addInputFlags(burstsCmd)

	burstsCmd.Flags().Float64("s", burstgraph.DefaultS, "rate ratio between automaton states")
	burstsCmd.Flags().Float64("gamma", burstgraph.DefaultGamma, "cost of moving up one state")
	burstsCmd.Flags().IntVar(&burstsLevel, "level", 0, "keep only this level (0 for all)")
	burstsCmd.Flags().BoolVar(&burstsMonolevel, "save-monolevel", false, "promote terms that never escalate")
	burstsCmd.Flags().BoolVar(&burstsBreak, "break", false, "split the long bursts of sparse terms")
}

type burstsOutput struct {
	Bursts          []types.Burst    `json:"bursts"`
	Timeline        []burst.GanttRow `json:"timeline"`
	WordsWithBursts []string         `json:"words_with_bursts"`
	ExcludedWords   []string         `json:"excluded_words,omitempty"`
	// FirstLongest maps each term to its first burst longer than average.
	FirstLongest map[string]int `json:"first_longest"`
	MaxLevel     int            `json:"max_level"`
}

func runBursts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	s, gamma := cfg.Burst.S, cfg.Burst.Gamma
	if cmd.Flags().Changed("s") {
		s, _ = cmd.Flags().GetFloat64("s")
	}
	if cmd.Flags().Changed("gamma") {
		gamma, _ = cmd.Flags().GetFloat64("gamma")
	}

	in, err := loadInput(logger, false)
	if err != nil {
		return err
	}
	occs := in.Occurrences
	if len(occs) == 0 {
		occs = occurrence.FindOccurrences(in.Text, in.Vocabulary)
	}
	canon := occurrence.NewCanonicalizer(in.Synonyms)
	idx, err := occurrence.NewIndex(canon.Apply(occs))
	if err != nil {
		return err
	}
	vocabulary := canon.ApplyTerms(in.Vocabulary)

	ext, err := burst.NewExtractor(idx.AllOffsets(), logger)
	if err != nil {
		return err
	}
	bursts, err := ext.Generate(s, gamma)
	if err != nil {
		return err
	}
	out := burstsOutput{MaxLevel: ext.MaxLevel()}

	level := burstsLevel
	if level == 0 {
		level = 1
	}
	if out.WordsWithBursts, err = ext.WordsWithBursts(level); err != nil {
		return err
	}
	if len(vocabulary) > 0 {
		if out.ExcludedWords, err = ext.ExcludedWords(vocabulary, level); err != nil {
			return err
		}
	}

	if burstsLevel > 0 {
		if bursts, err = ext.Filter(burstsLevel, burstsMonolevel, true); err != nil {
			return err
		}
	}
	if burstsBreak {
		if bursts, err = ext.Break(cfg.Burst.BreakLength, cfg.Burst.BreakOccurrences, true); err != nil {
			return err
		}
	}

	out.Bursts = bursts
	out.Timeline = burst.GanttRows(bursts, idx)
	out.FirstLongest = burst.FirstLongest(bursts)
	return writeJSON(os.Stdout, out)
}
