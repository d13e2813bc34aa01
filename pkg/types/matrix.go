package types

import "math"

// TermMatrix is a dense, ordered term-by-term score matrix. Rows and columns
// share the same term index; term order is the insertion order.
type TermMatrix struct {
	terms []string
	index map[string]int
	cells [][]float64
}

// NewTermMatrix creates a zero matrix over terms. Duplicate terms are ignored.
func NewTermMatrix(terms []string) *TermMatrix {
	m := &TermMatrix{index: make(map[string]int, len(terms))}
	for _, t := range terms {
		m.AddTerm(t)
	}
	return m
}

// Terms returns the row/column labels in order.
func (m *TermMatrix) Terms() []string {
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out
}

// Len returns the number of terms.
func (m *TermMatrix) Len() int {
	return len(m.terms)
}

// Has reports whether term labels a row of the matrix.
func (m *TermMatrix) Has(term string) bool {
	_, ok := m.index[term]
	return ok
}

// AddTerm appends an all-zero row and column for term. It reports whether
// the term was added.
func (m *TermMatrix) AddTerm(term string) bool {
	if _, ok := m.index[term]; ok {
		return false
	}
	m.index[term] = len(m.terms)
	m.terms = append(m.terms, term)
	for i := range m.cells {
		m.cells[i] = append(m.cells[i], 0)
	}
	m.cells = append(m.cells, make([]float64, len(m.terms)))
	return true
}

// Get returns the cell (x, y). Unknown terms read as zero.
func (m *TermMatrix) Get(x, y string) float64 {
	i, ok := m.index[x]
	if !ok {
		return 0
	}
	j, ok := m.index[y]
	if !ok {
		return 0
	}
	return m.cells[i][j]
}

// Set overwrites the cell (x, y), adding unknown terms first.
func (m *TermMatrix) Set(x, y string, v float64) {
	m.AddTerm(x)
	m.AddTerm(y)
	m.cells[m.index[x]][m.index[y]] = v
}

// Add accumulates v into the cell (x, y), adding unknown terms first.
func (m *TermMatrix) Add(x, y string, v float64) {
	m.AddTerm(x)
	m.AddTerm(y)
	m.cells[m.index[x]][m.index[y]] += v
}

// At returns the cell at row i, column j.
func (m *TermMatrix) At(i, j int) float64 {
	return m.cells[i][j]
}

// Clone returns a deep copy of the matrix.
func (m *TermMatrix) Clone() *TermMatrix {
	out := NewTermMatrix(m.terms)
	for i := range m.cells {
		copy(out.cells[i], m.cells[i])
	}
	return out
}

// Round rounds every cell to the given number of decimals, half to even.
func (m *TermMatrix) Round(decimals int) {
	p := math.Pow(10, float64(decimals))
	for i := range m.cells {
		for j := range m.cells[i] {
			m.cells[i][j] = math.RoundToEven(m.cells[i][j]*p) / p
		}
	}
}

// IsZero reports whether every cell is zero.
func (m *TermMatrix) IsZero() bool {
	for i := range m.cells {
		for _, v := range m.cells[i] {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// NonZero returns the number of nonzero cells.
func (m *TermMatrix) NonZero() int {
	n := 0
	for i := range m.cells {
		for _, v := range m.cells[i] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
