package weight

import (
	"testing"

	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentences map[string][]int

func (s sentences) Frequency(term string, start, end int) int {
	n := 0
	for _, sent := range s[term] {
		if sent >= start && sent <= end {
			n++
		}
	}
	return n
}

func fixture() ([]types.Burst, *types.WeightMatrix, sentences) {
	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 1, Start: 0, End: 3},
		{ID: 1, Term: "b", Level: 1, Start: 1, End: 37},
		{ID: 2, Term: "a", Level: 1, Start: 10, End: 19},
	}
	m := types.NewWeightMatrix()
	m.Raise(0, 1, 4)
	m.Raise(2, 1, 2)
	m.Raise(0, 2, 9)
	freq := sentences{
		"a": {0, 1, 2, 3, 10, 12, 19},
		"b": {1, 5, 20, 30},
	}
	return bursts, m, freq
}

func TestNormalizeFormulas(t *testing.T) {
	tests := []struct {
		formula Formula
		want    float64
	}{
		{FormulaOriginal, 0.16988416988416988},
		{FormulaModified, 0.33976833976833976},
		{FormulaMarzo2019a, 0.16988416988416988},
		{FormulaMarzo2019b, 0.4972972972972973},
	}

	bursts, m, freq := fixture()
	for _, tt := range tests {
		t.Run(string(tt.formula), func(t *testing.T) {
			got, err := Normalize(bursts, m, freq, tt.formula, nil)
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b"}, got.Terms())
			assert.InDelta(t, tt.want, got.Get("a", "b"), 1e-12)
			assert.Equal(t, 0.0, got.Get("b", "a"))
			assert.Equal(t, 0.0, got.Get("a", "a"), "same-term pairs never contribute")
		})
	}
}

func TestNormalizeIsNonNegativeAndIdempotent(t *testing.T) {
	bursts, m, freq := fixture()
	m.Raise(1, 0, 3)
	m.Raise(1, 2, 7)

	n, err := NewNormalizer(DefaultFormula, nil)
	require.NoError(t, err)

	first := n.Normalize(bursts, m, freq)
	second := n.Normalize(bursts, m, freq)
	assert.Equal(t, first, second)

	terms := first.Terms()
	for i := range terms {
		for j := range terms {
			assert.GreaterOrEqual(t, first.At(i, j), 0.0)
		}
	}
	assert.Greater(t, first.Get("b", "a"), 0.0)
}

func TestParseFormula(t *testing.T) {
	for _, f := range Formulas {
		got, err := ParseFormula(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormula("squared")
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = NewNormalizer("squared", nil)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestNormalizeEmpty(t *testing.T) {
	got, err := Normalize(nil, types.NewWeightMatrix(), sentences{}, FormulaOriginal, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.True(t, got.IsZero())
}
