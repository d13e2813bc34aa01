package occurrence

import (
	"regexp"
	"strings"

	"github.com/soundprediction/burstgraph/pkg/types"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)

// SplitSentences splits raw text on terminal punctuation followed by
// whitespace. Empty sentences are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// FindOccurrences locates each term in raw text by case-insensitive
// substring search, one record per sentence containing it. Token is the
// number of words preceding the first match in that sentence. This is a
// fallback for callers without a tagged occurrence table.
func FindOccurrences(text string, terms []string) []types.Occurrence {
	sentences := SplitSentences(text)
	upper := make([]string, len(sentences))
	for i, s := range sentences {
		upper[i] = strings.ToUpper(s)
	}

	var occurrences []types.Occurrence
	for _, term := range terms {
		needle := strings.ToUpper(term)
		if strings.TrimSpace(needle) == "" {
			continue
		}
		for i, sent := range upper {
			pos := strings.Index(sent, needle)
			if pos < 0 {
				continue
			}
			occurrences = append(occurrences, types.Occurrence{
				Term:     term,
				Sentence: i,
				Token:    len(strings.Fields(sent[:pos])),
			})
		}
	}
	return occurrences
}
