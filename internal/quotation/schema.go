package quotation

import (
	"fmt"
	"strings"
)

// FeatureSchema is the ordered set of numeric columns a regressor was fit against.
// It is immutable once built and safe to share between goroutines.
type FeatureSchema struct {
	columns []string
	index   map[string]int
}

// NewFeatureSchema validates and freezes a column list.
func NewFeatureSchema(columns []string) (*FeatureSchema, error) {
	if len(columns) == 0 {
		return nil, &SchemaMismatchError{Reason: "feature schema has no columns"}
	}

	s := &FeatureSchema{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if strings.TrimSpace(col) == "" {
			return nil, &SchemaMismatchError{Reason: fmt.Sprintf("column %d has an empty name", i)}
		}
		if prev, dup := s.index[col]; dup {
			return nil, &SchemaMismatchError{Reason: fmt.Sprintf("column %q repeated at positions %d and %d", col, prev, i)}
		}
		s.columns[i] = col
		s.index[col] = i
	}
	return s, nil
}

// Columns returns a copy of the column names in schema order.
func (s *FeatureSchema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s *FeatureSchema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.columns)
}

// Index returns the position of a column.
func (s *FeatureSchema) Index(column string) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.index[column]
	return i, ok
}

// matches reports whether columns equal the schema exactly, in order.
func (s *FeatureSchema) matches(columns []string) bool {
	if len(columns) != len(s.columns) {
		return false
	}
	for i := range columns {
		if columns[i] != s.columns[i] {
			return false
		}
	}
	return true
}

// FeatureVector is one encoded ProjectDescription.
type FeatureVector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Get returns the value of a column, or false if the column is absent.
func (v *FeatureVector) Get(column string) (float64, bool) {
	for i, c := range v.Columns {
		if c == column && i < len(v.Values) {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Len returns the number of encoded columns.
func (v *FeatureVector) Len() int {
	return len(v.Values)
}
