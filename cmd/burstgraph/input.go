package burstgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soundprediction/burstgraph"
	"github.com/soundprediction/burstgraph/pkg/occurrence"
	"github.com/spf13/cobra"
)

var (
	occurrencesPath string
	timingPath      string
	vocabularyPath  string
	textPath        string
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&occurrencesPath, "occurrences", "", "TSV occurrence table (lemma, sent_id, token_id)")
	cmd.Flags().StringVar(&timingPath, "timing", "", "TSV sentence timing table (sent_id, start, end)")
	cmd.Flags().StringVar(&vocabularyPath, "vocabulary", "", "YAML vocabulary with synonyms")
	cmd.Flags().StringVar(&textPath, "text", "", "raw transcript searched when no occurrence table is given")
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// loadInput reads the input files named by the flags.
func loadInput(logger *slog.Logger, needTiming bool) (burstgraph.Input, error) {
	var in burstgraph.Input

	if vocabularyPath != "" {
		f, err := openInput(vocabularyPath)
		if err != nil {
			return in, err
		}
		defer f.Close()
		vocab, err := occurrence.ReadVocabulary(f, logger)
		if err != nil {
			return in, err
		}
		in.Vocabulary = vocab.Terms()
		in.Synonyms = vocab.Synonyms()
	}

	switch {
	case occurrencesPath != "":
		f, err := openInput(occurrencesPath)
		if err != nil {
			return in, err
		}
		defer f.Close()
		if in.Occurrences, err = occurrence.ReadOccurrences(f, logger); err != nil {
			return in, err
		}
	case textPath != "":
		data, err := os.ReadFile(textPath)
		if err != nil {
			return in, fmt.Errorf("failed to read %s: %w", textPath, err)
		}
		in.Text = string(data)
	default:
		return in, fmt.Errorf("one of --occurrences or --text is required")
	}

	if timingPath == "" {
		if needTiming {
			return in, fmt.Errorf("--timing is required")
		}
		return in, nil
	}
	f, err := openInput(timingPath)
	if err != nil {
		return in, err
	}
	defer f.Close()
	if in.Timing, err = occurrence.ReadTiming(f, logger); err != nil {
		return in, err
	}
	return in, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
