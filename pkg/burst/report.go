package burst

import "github.com/soundprediction/burstgraph/pkg/types"

// Status tags a burst by its position among the bursts of its term.
type Status string

const (
	StatusUnique  Status = "UNIQUE"
	StatusFirst   Status = "FIRST"
	StatusLast    Status = "LAST"
	StatusOngoing Status = "ONGOING"
)

// FrequencyCounter counts the occurrence records of a term inside an
// inclusive sentence range. *occurrence.Index satisfies it.
type FrequencyCounter interface {
	Frequency(term string, start, end int) int
}

// GanttRow is one burst of a timeline view.
type GanttRow struct {
	StartSentence int    `json:"startSent"`
	EndSentence   int    `json:"endSent"`
	Concept       string `json:"concept"`
	ID            int    `json:"ID"`
	Frequency     int    `json:"freqOfTerm"`
	Status        Status `json:"status"`
}

// AverageLengths returns the mean burst length of every term.
func AverageLengths(bursts []types.Burst) map[string]float64 {
	avg := make(map[string]float64)
	for term, group := range types.BurstsByTerm(bursts) {
		avg[term] = averageLength(group)
	}
	return avg
}

func averageLength(group []types.Burst) float64 {
	total := 0
	for _, b := range group {
		total += b.Len()
	}
	return float64(total) / float64(len(group))
}

// FirstLongest returns, for every term, the ID of its first burst longer than
// the term's average length. When no burst is longer, all bursts have the
// average length and the first one is chosen.
func FirstLongest(bursts []types.Burst) map[string]int {
	first := make(map[string]int)
	for term, group := range types.BurstsByTerm(bursts) {
		avg := averageLength(group)
		first[term] = group[0].ID
		for _, b := range group {
			if float64(b.Len()) > avg {
				first[term] = b.ID
				break
			}
		}
	}
	return first
}

// GanttRows describes every burst with its occurrence frequency and status.
func GanttRows(bursts []types.Burst, freq FrequencyCounter) []GanttRow {
	type bounds struct{ count, minStart, maxEnd int }
	byTerm := make(map[string]*bounds)
	for _, b := range bursts {
		bd, ok := byTerm[b.Term]
		if !ok {
			byTerm[b.Term] = &bounds{count: 1, minStart: b.Start, maxEnd: b.End}
			continue
		}
		bd.count++
		if b.Start < bd.minStart {
			bd.minStart = b.Start
		}
		if b.End > bd.maxEnd {
			bd.maxEnd = b.End
		}
	}

	rows := make([]GanttRow, 0, len(bursts))
	for _, b := range bursts {
		bd := byTerm[b.Term]
		status := StatusOngoing
		switch {
		case bd.count == 1:
			status = StatusUnique
		case b.Start == bd.minStart:
			status = StatusFirst
		case b.End == bd.maxEnd:
			status = StatusLast
		}
		rows = append(rows, GanttRow{
			StartSentence: b.Start,
			EndSentence:   b.End,
			Concept:       b.Term,
			ID:            b.ID,
			Frequency:     freq.Frequency(b.Term, b.Start, b.End),
			Status:        status,
		})
	}
	return rows
}
