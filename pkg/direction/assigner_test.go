package direction

import (
	"context"
	"testing"

	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenKey struct {
	term     string
	sentence int
}

type tokens map[tokenKey]int

func (tk tokens) MinToken(term string, sentence int) (int, bool) {
	v, ok := tk[tokenKey{term, sentence}]
	return v, ok
}

func symmetric(terms []string, w float64) *types.TermMatrix {
	m := types.NewTermMatrix(terms)
	for _, a := range terms {
		for _, b := range terms {
			if a != b {
				m.Set(a, b, w)
			}
		}
	}
	return m
}

func newAssigner(t *testing.T, preserve bool) *Assigner {
	t.Helper()
	a, err := NewAssigner(Options{Level: 1, PreserveRelations: preserve}, nil)
	require.NoError(t, err)
	return a
}

func TestAssignByStart(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "late", Level: 1, Start: 9, End: 12},
		{ID: 1, Term: "early", Level: 1, Start: 7, End: 8},
		{ID: 2, Term: "early", Level: 1, Start: 2, End: 5},
	}
	m := types.NewTermMatrix([]string{"late", "early"})
	m.Set("late", "early", 0.25)
	m.Set("early", "late", 0.5)

	res, err := newAssigner(t, false).Assign(context.Background(), m, bursts, tokens{})
	require.NoError(t, err)

	assert.Equal(t, 0.5, res.Matrix.Get("early", "late"))
	assert.Equal(t, 0.0, res.Matrix.Get("late", "early"))
	assert.Empty(t, res.Ambiguous)
	assert.Equal(t, 0.25, m.Get("late", "early"), "input matrix is not modified")
}

func TestAssignPreserveRelations(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 1, Start: 1, End: 4},
		{ID: 1, Term: "b", Level: 1, Start: 6, End: 9},
	}
	m := types.NewTermMatrix([]string{"a", "b"})
	m.Set("b", "a", 0.7)

	t.Run("without preserve the signal is lost", func(t *testing.T) {
		res, err := newAssigner(t, false).Assign(context.Background(), m, bursts, tokens{})
		require.NoError(t, err)
		assert.True(t, res.Matrix.IsZero())
	})

	t.Run("with preserve the weight moves to the right direction", func(t *testing.T) {
		res, err := newAssigner(t, true).Assign(context.Background(), m, bursts, tokens{})
		require.NoError(t, err)
		assert.Equal(t, 0.7, res.Matrix.Get("a", "b"))
		assert.Equal(t, 0.0, res.Matrix.Get("b", "a"))
	})

	t.Run("nonzero right direction is kept", func(t *testing.T) {
		both := m.Clone()
		both.Set("a", "b", 0.2)
		res, err := newAssigner(t, true).Assign(context.Background(), both, bursts, tokens{})
		require.NoError(t, err)
		assert.Equal(t, 0.2, res.Matrix.Get("a", "b"))
		assert.Equal(t, 0.0, res.Matrix.Get("b", "a"))
	})
}

func TestAssignTieBreaks(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "machine learning", Level: 1, Start: 3, End: 6},
		{ID: 1, Term: "learning", Level: 1, Start: 3, End: 8},
		{ID: 2, Term: "model", Level: 1, Start: 3, End: 5},
		{ID: 3, Term: "twin", Level: 1, Start: 3, End: 4},
	}
	tk := tokens{
		{"machine learning", 3}: 4,
		{"learning", 3}:         4,
		{"model", 3}:            1,
		{"twin", 3}:             4,
	}
	terms := []string{"machine learning", "learning", "model", "twin"}

	res, err := newAssigner(t, true).Assign(context.Background(), symmetric(terms, 1), bursts, tk)
	require.NoError(t, err)
	m := res.Matrix

	t.Run("smaller token position wins", func(t *testing.T) {
		assert.Equal(t, 1.0, m.Get("model", "learning"))
		assert.Equal(t, 0.0, m.Get("learning", "model"))
	})

	t.Run("fewer words win", func(t *testing.T) {
		assert.Equal(t, 1.0, m.Get("learning", "machine learning"))
		assert.Equal(t, 0.0, m.Get("machine learning", "learning"))
		assert.Equal(t, 1.0, m.Get("twin", "machine learning"))
	})

	t.Run("unresolved pairs keep both directions", func(t *testing.T) {
		assert.Equal(t, [][2]string{{"learning", "twin"}}, res.Ambiguous)
		assert.Equal(t, 1.0, m.Get("learning", "twin"))
		assert.Equal(t, 1.0, m.Get("twin", "learning"))
	})
}

func TestAssignMissingToken(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 1, Start: 3, End: 6},
		{ID: 1, Term: "b", Level: 1, Start: 3, End: 8},
	}
	_, err := newAssigner(t, false).Assign(context.Background(), symmetric([]string{"a", "b"}, 1), bursts, tokens{{"a", 3}: 0})
	assert.ErrorIs(t, err, types.ErrDataInconsistency)
}

func TestDirectionInvariant(t *testing.T) {
	terms := []string{"a", "b", "c", "d", "e"}
	var bursts []types.Burst
	for i, term := range terms {
		bursts = append(bursts,
			types.Burst{ID: 2 * i, Term: term, Level: 1, Start: 10 - 2*i, End: 20},
			types.Burst{ID: 2*i + 1, Term: term, Level: 2, Start: 11 - 2*i, End: 14},
		)
	}
	m := types.NewTermMatrix(terms)
	for i, a := range terms {
		for j, b := range terms {
			if a != b {
				m.Set(a, b, float64(i*len(terms)+j)/7)
			}
		}
	}

	for _, preserve := range []bool{false, true} {
		res, err := newAssigner(t, preserve).Assign(context.Background(), m, bursts, tokens{})
		require.NoError(t, err)
		for _, a := range terms {
			for _, b := range terms {
				if a == b {
					continue
				}
				assert.False(t, res.Matrix.Get(a, b) != 0 && res.Matrix.Get(b, a) != 0, "%s/%s both directions nonzero", a, b)
			}
		}
	}
}

func TestFirstStarts(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 2, Start: 4, End: 6},
		{ID: 1, Term: "a", Level: 1, Start: 1, End: 9},
		{ID: 2, Term: "b", Level: 1, Start: 7, End: 7},
		{ID: 3, Term: "b", Level: 1, Start: 3, End: 5},
	}

	starts, err := FirstStarts([]string{"a", "b"}, bursts, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 4, "b": 3}, starts, "b falls back to any level")

	_, err = FirstStarts([]string{"a", "ghost"}, bursts, 1)
	assert.ErrorIs(t, err, types.ErrDataInconsistency)
}

func TestAssignRoundsAndValidates(t *testing.T) {
	_, err := NewAssigner(Options{Level: 0}, nil)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 1, Start: 1, End: 4},
		{ID: 1, Term: "b", Level: 1, Start: 6, End: 9},
	}
	m := types.NewTermMatrix([]string{"a", "b"})
	m.Set("a", "b", 0.123456)
	res, err := newAssigner(t, false).Assign(context.Background(), m, bursts, tokens{})
	require.NoError(t, err)
	assert.Equal(t, 0.123, res.Matrix.Get("a", "b"))
}

func TestAddMissingTermsAndEdgeList(t *testing.T) {
	m := types.NewTermMatrix([]string{"a", "b"})
	m.Set("a", "b", 0.5)
	m.Set("b", "a", 0.9)

	added := AddMissingTerms(m, []string{"b", "c", "a", "d"})
	assert.Equal(t, []string{"c", "d"}, added)
	assert.Equal(t, []string{"a", "b", "c", "d"}, m.Terms())
	assert.Equal(t, 0.0, m.Get("c", "a"))

	edges := EdgeList(m)
	require.Len(t, edges, 16)
	assert.Equal(t, types.DirectedEdge{Prerequisite: "b", Target: "a", Weight: 0.9}, edges[0])
	assert.Equal(t, types.DirectedEdge{Prerequisite: "a", Target: "b", Weight: 0.5}, edges[1])
	assert.Equal(t, types.DirectedEdge{Prerequisite: "a", Target: "a", Weight: 0}, edges[2], "ties keep row-major order")
	assert.Equal(t, types.DirectedEdge{Prerequisite: "a", Target: "c", Weight: 0}, edges[3])
}
