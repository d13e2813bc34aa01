package allen

import (
	"testing"

	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(s, e float64) Interval { return Interval{Start: s, End: e} }

func TestScenarioB(t *testing.T) {
	a := iv(10, 20)
	b := iv(12, 18)
	tol := Tolerance(a, b, 0.05)
	assert.InDelta(t, 0.9, tol, 1e-9)

	assert.Equal(t, []types.Relation{types.RelationIncludes}, Classify(a, b, tol, 1, true))
	assert.Equal(t, []types.Relation{types.RelationDuring}, Classify(b, a, tol, 1, true))
	assert.Empty(t, Classify(b, a, tol, 1, false), "during is an inverse relation")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		x, y   Interval
		alpha  float64
		maxGap float64
		want   []types.Relation
	}{
		{"equals within tolerance", iv(10, 20), iv(11, 20), 0.05, 1, []types.Relation{types.RelationEquals}},
		{"meets", iv(0, 10), iv(10, 20), 0.05, 4, []types.Relation{types.RelationMeets}},
		{"before within gap", iv(0, 10), iv(12, 22), 0.05, 4, []types.Relation{types.RelationBefore}},
		{"before beyond gap", iv(0, 10), iv(12, 22), 0.05, 1, nil},
		{"after", iv(12, 22), iv(0, 10), 0.05, 4, []types.Relation{types.RelationAfter}},
		{"overlaps", iv(0, 10), iv(5, 15), 0, 1, []types.Relation{types.RelationOverlaps}},
		{"overlapped-by", iv(5, 15), iv(0, 10), 0, 1, []types.Relation{types.RelationOverlappedBy}},
		{"starts", iv(0, 5), iv(0, 20), 0.01, 1, []types.Relation{types.RelationStarts}},
		{"started-by", iv(0, 20), iv(0, 5), 0.01, 1, []types.Relation{types.RelationStartedBy}},
		{"finishes", iv(10, 20), iv(0, 20), 0.01, 1, []types.Relation{types.RelationFinishes}},
		{"finished-by", iv(0, 20), iv(10, 20), 0.01, 1, []types.Relation{types.RelationFinishedBy}},
		{"met-by", iv(11, 20), iv(0, 10), 0.05, 1, []types.Relation{types.RelationMetBy}},
		{"several relations hold with tolerance", iv(0, 3), iv(1, 37), 0.05, 4, []types.Relation{types.RelationStarts, types.RelationMeets}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tol := Tolerance(tt.x, tt.y, tt.alpha)
			assert.Equal(t, tt.want, Classify(tt.x, tt.y, tol, tt.maxGap, true))
		})
	}
}

func TestExclusivityWithoutTolerance(t *testing.T) {
	var intervals []Interval
	for s := 0.0; s < 8; s++ {
		for e := s; e < 8; e++ {
			intervals = append(intervals, iv(s, e))
		}
	}

	for _, alpha := range []float64{0, 0.01} {
		for _, x := range intervals {
			for _, y := range intervals {
				got := Classify(x, y, Tolerance(x, y, alpha), 100, true)
				assert.LessOrEqual(t, len(got), 1, "alpha=%v x=%v y=%v: %v", alpha, x, y, got)
			}
		}
	}
}

func TestDetect(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 1, Start: 0, End: 3},
		{ID: 1, Term: "b", Level: 1, Start: 1, End: 37},
		{ID: 2, Term: "a", Level: 1, Start: 2, End: 30},
	}

	opts := DefaultOptions()
	opts.MaxGap = 4
	res, err := Detect(bursts, opts, nil)
	require.NoError(t, err)

	t.Run("same-term pairs are skipped", func(t *testing.T) {
		for _, r := range res.Records {
			assert.NotEqual(t, r.TermX, r.TermY)
		}
		assert.Equal(t, 0.0, res.Matrix.Get(0, 2))
	})

	t.Run("cell keeps the highest weight", func(t *testing.T) {
		var rels []types.Relation
		for _, r := range res.Records {
			if r.BurstX == 0 && r.BurstY == 1 {
				rels = append(rels, r.Relation)
				assert.Equal(t, 0, r.XStart)
				assert.Equal(t, 37, r.YEnd)
			}
		}
		assert.Equal(t, []types.Relation{types.RelationStarts, types.RelationMeets}, rels)
		assert.Equal(t, 4.0, res.Matrix.Get(0, 1), "starts (4) outweighs meets (3)")
	})

	t.Run("inverse relations need the flag", func(t *testing.T) {
		counts := CountByRelation(res.Records)
		for _, r := range []types.Relation{types.RelationMetBy, types.RelationOverlappedBy, types.RelationDuring, types.RelationStartedBy, types.RelationFinishedBy, types.RelationAfter} {
			assert.Zero(t, counts[r], string(r))
		}

		opts.FindInverse = true
		withInverse, err := Detect(bursts, opts, nil)
		require.NoError(t, err)
		assert.Greater(t, len(withInverse.Records), len(res.Records))
	})
}

func TestDetectZeroWeightLeavesCellEmpty(t *testing.T) {
	bursts := []types.Burst{
		{ID: 0, Term: "a", Level: 1, Start: 12, End: 22},
		{ID: 1, Term: "b", Level: 1, Start: 0, End: 10},
	}
	opts := DefaultOptions()
	opts.MaxGap = 4
	opts.FindInverse = true

	res, err := Detect(bursts, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, len(res.Records), "a after b, b before a")
	assert.Equal(t, 0.0, res.Matrix.Get(0, 1), "after weighs 0")
	assert.Equal(t, 5.0, res.Matrix.Get(1, 0))
	assert.Equal(t, 1, res.Matrix.Len())
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"negative max gap", func(o *Options) { o.MaxGap = -1 }},
		{"negative alpha", func(o *Options) { o.Alpha = -0.1 }},
		{"missing weight", func(o *Options) { delete(o.Weights, types.RelationEquals) }},
		{"negative weight", func(o *Options) { o.Weights[types.RelationBefore] = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := NewDetector(opts, nil)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}
