package burst

import (
	"testing"

	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioA = []int{2, 3, 4, 5, 40, 41, 42}

func newExtractor(t *testing.T, offsets map[string][]int) *Extractor {
	t.Helper()
	e, err := NewExtractor(offsets, nil)
	require.NoError(t, err)
	return e
}

func spans(bursts []types.Burst) [][2]int {
	out := make([][2]int, 0, len(bursts))
	for _, b := range bursts {
		out = append(out, [2]int{b.Start, b.End})
	}
	return out
}

func termSet(bursts []types.Burst) map[string]bool {
	out := make(map[string]bool)
	for _, b := range bursts {
		out[b.Term] = true
	}
	return out
}

func TestOptimalStates(t *testing.T) {
	assert.Equal(t, []int{2, 2, 2, 0, 2, 2}, optimalStates(scenarioA, 2, 1))
	assert.Equal(t, []int{0, 0, 0, 0}, optimalStates([]int{1, 2, 3, 4, 5}, 2, 1), "evenly spaced offsets never escalate")
}

func TestKleinberg(t *testing.T) {
	t.Run("single offset", func(t *testing.T) {
		assert.Equal(t, []interval{{level: 0, start: 7, end: 7}}, kleinberg([]int{7}, 2, 1))
	})

	t.Run("no offsets", func(t *testing.T) {
		assert.Nil(t, kleinberg(nil, 2, 1))
	})

	t.Run("nested levels in opening order", func(t *testing.T) {
		got := kleinberg([]int{0, 5, 6, 7, 8, 100}, 2, 1)
		assert.Equal(t, []interval{
			{level: 0, start: 0, end: 100},
			{level: 1, start: 0, end: 8},
			{level: 2, start: 0, end: 8},
			{level: 3, start: 5, end: 8},
			{level: 4, start: 5, end: 8},
		}, got)
	})
}

func TestScenarioA(t *testing.T) {
	e := newExtractor(t, map[string][]int{"x": scenarioA})

	all, err := e.Generate(2, 1)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, 2, e.MaxLevel())

	level1, err := e.Filter(1, false, false)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{2, 5}, {40, 42}}, spans(level1))
	for _, b := range level1 {
		assert.Equal(t, 1, b.Level)
	}

	base, ok := e.Baseline("x")
	require.True(t, ok)
	assert.Equal(t, types.Span{Start: 2, End: 42}, base)
}

func TestGenerateValidation(t *testing.T) {
	e := newExtractor(t, map[string][]int{"x": scenarioA})

	tests := []struct {
		name     string
		s, gamma float64
	}{
		{"s equal to one", 1, 1},
		{"s below one", 0.5, 1},
		{"zero gamma", 2, 0},
		{"negative gamma", 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Generate(tt.s, tt.gamma)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestNewExtractorRejectsUnsortedOffsets(t *testing.T) {
	_, err := NewExtractor(map[string][]int{"x": {3, 3, 5}}, nil)
	assert.ErrorIs(t, err, types.ErrDataInconsistency)

	_, err = NewExtractor(map[string][]int{"x": {5, 2}}, nil)
	assert.ErrorIs(t, err, types.ErrDataInconsistency)

	e, err := NewExtractor(map[string][]int{"x": nil, "y": {1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, e.Terms())
}

func TestBurstValidity(t *testing.T) {
	e := newExtractor(t, map[string][]int{
		"a": scenarioA,
		"b": {0, 5, 6, 7, 8, 100},
		"c": {0, 10, 20, 21, 22, 23, 50, 80, 81, 82, 83, 120},
		"d": {4},
		"e": {1, 2, 3, 4, 5},
	})

	for _, params := range [][2]float64{{2, 1}, {1.05, 0.0001}, {3, 0.5}} {
		bursts, err := e.Generate(params[0], params[1])
		require.NoError(t, err)
		for _, b := range bursts {
			assert.NoError(t, b.Validate(), "s=%v gamma=%v", params[0], params[1])
		}
	}
}

func TestFilter(t *testing.T) {
	e := newExtractor(t, map[string][]int{
		"a":      {1, 5},
		"single": {7},
		"x":      scenarioA,
	})

	t.Run("before generate", func(t *testing.T) {
		_, err := e.Filter(1, false, false)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	})

	_, err := e.Generate(2, 1)
	require.NoError(t, err)

	t.Run("level below one", func(t *testing.T) {
		_, err := e.Filter(0, false, false)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	})

	t.Run("without monolevel terms", func(t *testing.T) {
		got, err := e.Filter(2, false, false)
		require.NoError(t, err)
		assert.Equal(t, [][2]int{{2, 5}, {40, 42}}, spans(got))
		assert.False(t, termSet(got)["a"])
	})

	t.Run("monolevel terms are promoted", func(t *testing.T) {
		got, err := e.Filter(2, true, false)
		require.NoError(t, err)
		require.Len(t, got, 4)

		assert.Equal(t, types.Burst{ID: 0, Term: "a", Level: 1, Start: 1, End: 5}, got[0])
		assert.Equal(t, types.Burst{ID: 1, Term: "single", Level: 1, Start: 7, End: 7}, got[1])
		assert.Equal(t, 2, got[2].Level)
		assert.Equal(t, 2, got[3].Level)
	})

	t.Run("level is clamped to the maximum", func(t *testing.T) {
		high, err := e.Filter(9, false, false)
		require.NoError(t, err)
		top, err := e.Filter(2, false, false)
		require.NoError(t, err)
		assert.Equal(t, top, high)
	})

	t.Run("promoted IDs are stable", func(t *testing.T) {
		first, err := e.Filter(1, true, false)
		require.NoError(t, err)
		second, err := e.Filter(1, true, false)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("replace", func(t *testing.T) {
		got, err := e.Filter(1, true, true)
		require.NoError(t, err)
		assert.Equal(t, got, e.Bursts())
		_, ok := e.Baseline("a")
		assert.False(t, ok)
	})
}

func TestFilterMonotonicity(t *testing.T) {
	e := newExtractor(t, map[string][]int{
		"a": scenarioA,
		"b": {0, 5, 6, 7, 8, 100},
		"c": {0, 10, 20, 21, 22, 23, 50, 80, 81, 82, 83, 120},
		"d": {1, 2, 3, 30, 60, 61},
	})
	_, err := e.Generate(2, 1)
	require.NoError(t, err)
	require.Equal(t, 4, e.MaxLevel())

	for level := 2; level <= e.MaxLevel(); level++ {
		upper, err := e.Filter(level, false, false)
		require.NoError(t, err)
		lower, err := e.Filter(level-1, false, false)
		require.NoError(t, err)

		lowerTerms := termSet(lower)
		for term := range termSet(upper) {
			assert.True(t, lowerTerms[term], "term %s at level %d missing at level %d", term, level, level-1)
		}
	}
}

func TestBreak(t *testing.T) {
	e := newExtractor(t, map[string][]int{
		"long": {0, 30, 1000},
		"x":    scenarioA,
	})

	t.Run("before generate", func(t *testing.T) {
		_, err := e.Break(DefaultBreakLength, DefaultBreakOccurrences, false)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	})

	_, err := e.Generate(2, 1)
	require.NoError(t, err)
	_, err = e.Filter(1, true, true)
	require.NoError(t, err)
	before := e.Bursts()

	got, err := e.Break(DefaultBreakLength, DefaultBreakOccurrences, false)
	require.NoError(t, err)
	assert.Equal(t, before, e.Bursts(), "Break without replace leaves the table untouched")

	require.Len(t, got, 4)
	assert.Equal(t, "x", got[0].Term)
	assert.Equal(t, "x", got[1].Term)
	assert.Equal(t, types.Burst{ID: 9, Term: "long", Level: 1, Start: 0, End: 0}, got[2])
	assert.Equal(t, types.Burst{ID: 10, Term: "long", Level: 1, Start: 30, End: 30}, got[3])

	t.Run("thresholds", func(t *testing.T) {
		kept, err := e.Break(32, 3, false)
		require.NoError(t, err)
		assert.Equal(t, before, kept, "burst shorter than the threshold is kept")

		kept, err = e.Break(30, 2, false)
		require.NoError(t, err)
		assert.Equal(t, before, kept, "term with too many occurrences is kept")
	})

	t.Run("invalid parameters", func(t *testing.T) {
		_, err := e.Break(0, 3, false)
		assert.ErrorIs(t, err, types.ErrConfiguration)
		_, err = e.Break(30, -1, false)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	})

	t.Run("replace", func(t *testing.T) {
		_, err := e.Break(30, 3, true)
		require.NoError(t, err)
		assert.Len(t, e.Bursts(), 4)

		again, err := e.Break(30, 3, false)
		require.NoError(t, err)
		assert.Equal(t, e.Bursts(), again, "point bursts are never broken again")
	})
}

func TestWordsWithBursts(t *testing.T) {
	e := newExtractor(t, map[string][]int{
		"flat": {1, 2, 3, 4, 5},
		"x":    scenarioA,
	})
	_, err := e.Generate(2, 1)
	require.NoError(t, err)

	words, err := e.WordsWithBursts(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, words)

	excluded, err := e.ExcludedWords([]string{"x", "flat", "unseen", "flat"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"flat", "unseen"}, excluded)
}

func TestDeterminism(t *testing.T) {
	offsets := map[string][]int{
		"a": scenarioA,
		"b": {0, 5, 6, 7, 8, 100},
		"c": {0, 10, 20, 21, 22, 23, 50, 80, 81, 82, 83, 120},
	}

	run := func() []types.Burst {
		e := newExtractor(t, offsets)
		_, err := e.Generate(2, 1)
		require.NoError(t, err)
		_, err = e.Filter(1, true, true)
		require.NoError(t, err)
		out, err := e.Break(30, 3, true)
		require.NoError(t, err)
		return out
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run())
	}
}

type countingIndex map[string][]int

func (c countingIndex) Frequency(term string, start, end int) int {
	n := 0
	for _, s := range c[term] {
		if s >= start && s <= end {
			n++
		}
	}
	return n
}

func TestReportHelpers(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 1, Start: 0, End: 1},
		{ID: 1, Term: "a", Level: 1, Start: 5, End: 10},
		{ID: 2, Term: "a", Level: 1, Start: 20, End: 29},
		{ID: 3, Term: "b", Level: 1, Start: 3, End: 4},
		{ID: 4, Term: "c", Level: 1, Start: 1, End: 2},
		{ID: 5, Term: "c", Level: 1, Start: 7, End: 8},
	}

	t.Run("average lengths", func(t *testing.T) {
		avg := AverageLengths(bursts)
		assert.InDelta(t, 6.0, avg["a"], 1e-9)
		assert.InDelta(t, 2.0, avg["b"], 1e-9)
		assert.InDelta(t, 2.0, avg["c"], 1e-9)
	})

	t.Run("first longest", func(t *testing.T) {
		assert.Equal(t, map[string]int{"a": 2, "b": 3, "c": 4}, FirstLongest(bursts))
	})

	t.Run("gantt rows", func(t *testing.T) {
		idx := countingIndex{"a": {0, 1, 1, 6, 25}, "b": {3}, "c": {1, 8}}
		rows := GanttRows(bursts, idx)
		require.Len(t, rows, len(bursts))

		statuses := make([]Status, 0, len(rows))
		for _, r := range rows {
			statuses = append(statuses, r.Status)
		}
		assert.Equal(t, []Status{StatusFirst, StatusOngoing, StatusLast, StatusUnique, StatusFirst, StatusLast}, statuses)
		assert.Equal(t, 3, rows[0].Frequency)
		assert.Equal(t, 1, rows[2].Frequency)
		assert.Equal(t, "b", rows[3].Concept)
	})
}
