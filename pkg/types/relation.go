package types

import (
	"fmt"
	"math"
	"sort"
)

// Relation is one of the 13 relations of Allen's interval algebra.
type Relation string

const (
	RelationEquals       Relation = "equals"
	RelationBefore       Relation = "before"
	RelationAfter        Relation = "after"
	RelationMeets        Relation = "meets"
	RelationMetBy        Relation = "met-by"
	RelationOverlaps     Relation = "overlaps"
	RelationOverlappedBy Relation = "overlapped-by"
	RelationDuring       Relation = "during"
	RelationIncludes     Relation = "includes"
	RelationStarts       Relation = "starts"
	RelationStartedBy    Relation = "started-by"
	RelationFinishes     Relation = "finishes"
	RelationFinishedBy   Relation = "finished-by"
)

// AllRelations lists every Allen relation.
var AllRelations = []Relation{
	RelationEquals,
	RelationBefore, RelationAfter,
	RelationMeets, RelationMetBy,
	RelationOverlaps, RelationOverlappedBy,
	RelationDuring, RelationIncludes,
	RelationStarts, RelationStartedBy,
	RelationFinishes, RelationFinishedBy,
}

var inverseRelations = map[Relation]Relation{
	RelationEquals:       RelationEquals,
	RelationBefore:       RelationAfter,
	RelationAfter:        RelationBefore,
	RelationMeets:        RelationMetBy,
	RelationMetBy:        RelationMeets,
	RelationOverlaps:     RelationOverlappedBy,
	RelationOverlappedBy: RelationOverlaps,
	RelationDuring:       RelationIncludes,
	RelationIncludes:     RelationDuring,
	RelationStarts:       RelationStartedBy,
	RelationStartedBy:    RelationStarts,
	RelationFinishes:     RelationFinishedBy,
	RelationFinishedBy:   RelationFinishes,
}

// Inverse returns the relation seen from the other interval.
func (r Relation) Inverse() Relation {
	return inverseRelations[r]
}

// Valid reports whether r is one of the 13 Allen relations.
func (r Relation) Valid() bool {
	_, ok := inverseRelations[r]
	return ok
}

// ParseRelation converts a relation name into a Relation.
func ParseRelation(name string) (Relation, error) {
	r := Relation(name)
	if !r.Valid() {
		return "", NewConfigurationError("relation", name, "unknown Allen relation")
	}
	return r, nil
}

// RelationWeights associates a non-negative weight to every Allen relation.
type RelationWeights map[Relation]float64

// DefaultRelationWeights returns the weights tuned for lecture transcripts:
// relations where the first burst starts earlier weigh the most.
func DefaultRelationWeights() RelationWeights {
	return RelationWeights{
		RelationEquals:       2,
		RelationBefore:       5,
		RelationAfter:        0,
		RelationMeets:        3,
		RelationMetBy:        0,
		RelationOverlaps:     7,
		RelationOverlappedBy: 1,
		RelationDuring:       7,
		RelationIncludes:     7,
		RelationStarts:       4,
		RelationStartedBy:    2,
		RelationFinishes:     2,
		RelationFinishedBy:   8,
	}
}

// Validate checks that every relation has a non-negative weight and no
// unknown relation is present.
func (w RelationWeights) Validate() error {
	for r, v := range w {
		if !r.Valid() {
			return NewConfigurationError("relation_weights", string(r), "unknown Allen relation")
		}
		if math.IsNaN(v) || v < 0 {
			return NewConfigurationError("relation_weights."+string(r), v, "weight must be non-negative")
		}
	}
	for _, r := range AllRelations {
		if _, ok := w[r]; !ok {
			return NewConfigurationError("relation_weights."+string(r), nil, "missing weight")
		}
	}
	return nil
}

// Clone returns a copy of the weights.
func (w RelationWeights) Clone() RelationWeights {
	out := make(RelationWeights, len(w))
	for r, v := range w {
		out[r] = v
	}
	return out
}

// Override returns a copy of w with the name-keyed weights of m, as decoded
// from configuration, replacing their relation's weight.
func (w RelationWeights) Override(m map[string]float64) (RelationWeights, error) {
	out := w.Clone()
	for name, v := range m {
		r, err := ParseRelation(name)
		if err != nil {
			return nil, err
		}
		out[r] = v
	}
	return out, out.Validate()
}

// RelationRecord is one detected relation between two bursts of different terms.
type RelationRecord struct {
	TermX    string   `json:"x"`
	TermY    string   `json:"y"`
	BurstX   int      `json:"Bx_id"`
	BurstY   int      `json:"By_id"`
	XStart   int      `json:"Bx_start"`
	XEnd     int      `json:"Bx_end"`
	YStart   int      `json:"By_start"`
	YEnd     int      `json:"By_end"`
	Relation Relation `json:"Rel"`
}

func (r RelationRecord) String() string {
	return fmt.Sprintf("%s[%d,%d] %s %s[%d,%d]", r.TermX, r.XStart, r.XEnd, r.Relation, r.TermY, r.YStart, r.YEnd)
}

// BurstPair is an ordered pair of burst IDs.
type BurstPair struct {
	X int
	Y int
}

// WeightMatrix holds sparse, asymmetric burst-to-burst relation weights.
// Absent cells are zero.
type WeightMatrix struct {
	cells map[BurstPair]float64
}

// NewWeightMatrix creates an empty weight matrix
func NewWeightMatrix() *WeightMatrix {
	return &WeightMatrix{cells: make(map[BurstPair]float64)}
}

// Get returns the weight of the ordered pair (x, y).
func (m *WeightMatrix) Get(x, y int) float64 {
	return m.cells[BurstPair{X: x, Y: y}]
}

// Raise sets the cell (x, y) to w when w exceeds the current value.
func (m *WeightMatrix) Raise(x, y int, w float64) {
	key := BurstPair{X: x, Y: y}
	if w > m.cells[key] {
		m.cells[key] = w
	}
}

// Len returns the number of nonzero cells.
func (m *WeightMatrix) Len() int {
	return len(m.cells)
}

// Pairs returns the nonzero cells ordered by X then Y.
func (m *WeightMatrix) Pairs() []BurstPair {
	pairs := make([]BurstPair, 0, len(m.cells))
	for p := range m.cells {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].X != pairs[j].X {
			return pairs[i].X < pairs[j].X
		}
		return pairs[i].Y < pairs[j].Y
	})
	return pairs
}
