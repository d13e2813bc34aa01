package occurrence

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/soundprediction/burstgraph/pkg/utils"
)

type occurrenceRow struct {
	Lemma    string `csv:"lemma"`
	Sentence int    `csv:"sent_id"`
	Token    int    `csv:"token_id"`
}

type timingRow struct {
	Sentence int     `csv:"sent_id"`
	Start    float64 `csv:"start"`
	End      float64 `csv:"end"`
}

// ReadOccurrences decodes a tab-separated occurrence table with the header
// columns lemma, sent_id and token_id. Malformed rows are logged and skipped.
func ReadOccurrences(r io.Reader, logger *slog.Logger) ([]types.Occurrence, error) {
	rows, err := utils.UnmarshalCSV[occurrenceRow](r, '\t', logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read occurrence table: %w", err)
	}

	occurrences := make([]types.Occurrence, 0, len(rows))
	for i, row := range rows {
		o := types.Occurrence{Term: row.Lemma, Sentence: row.Sentence, Token: row.Token}
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("occurrence row %d: %w", i+1, err)
		}
		occurrences = append(occurrences, o)
	}
	return occurrences, nil
}

// ReadTiming decodes a tab-separated sentence timing table with the header
// columns sent_id, start and end, in seconds.
func ReadTiming(r io.Reader, logger *slog.Logger) (types.Timing, error) {
	rows, err := utils.UnmarshalCSV[timingRow](r, '\t', logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing table: %w", err)
	}

	timing := make(types.Timing, len(rows))
	for _, row := range rows {
		st := types.SentenceTiming{Start: row.Start, End: row.End}
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", row.Sentence, err)
		}
		if _, dup := timing[row.Sentence]; dup {
			return nil, types.NewDataInconsistencyError("", row.Sentence, "duplicate sentence in timing table")
		}
		timing[row.Sentence] = st
	}
	return timing, nil
}
