package model

// FeatureVector is a single feature row keyed by column name.
//
// Column order is significant for aligned vectors: the predictor consumes
// values in exactly the order the columns were set. Passthrough vectors may
// hold raw string values for categorical fields; aligned vectors are fully
// numeric.
type FeatureVector struct {
	values  map[string]any
	columns []string
}

// NewFeatureVector creates an empty feature vector with capacity for n columns.
func NewFeatureVector(n int) *FeatureVector {
	return &FeatureVector{
		values:  make(map[string]any, n),
		columns: make([]string, 0, n),
	}
}

// Set adds or replaces a column value. First insertion fixes the column's
// position in the ordering.
func (v *FeatureVector) Set(column string, value any) {
	if _, ok := v.values[column]; !ok {
		v.columns = append(v.columns, column)
	}
	v.values[column] = value
}

// Get returns the value for a column.
func (v *FeatureVector) Get(column string) (any, bool) {
	val, ok := v.values[column]
	return val, ok
}

// Float returns a column value as float64. Integers are widened; string
// values report false.
func (v *FeatureVector) Float(column string) (float64, bool) {
	val, ok := v.values[column]
	if !ok {
		return 0, false
	}
	switch n := val.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// Columns returns the column names in insertion order.
func (v *FeatureVector) Columns() []string {
	out := make([]string, len(v.columns))
	copy(out, v.columns)
	return out
}

// Len returns the number of columns.
func (v *FeatureVector) Len() int {
	return len(v.columns)
}
