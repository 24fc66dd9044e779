package valueobject

// ---------------------------------------------------------------------------
// DerivedTable and FeatureRecord
// ---------------------------------------------------------------------------

// DerivedTable is a raw record augmented with computed ratio/derived columns.
// Cells keep their Metric state so undefined results survive derivation
// without crashing or being dropped.
type DerivedTable struct {
	names []string
	cells map[string]Metric
}

// NewDerivedTable creates an empty table.
func NewDerivedTable() *DerivedTable {
	return &DerivedTable{cells: make(map[string]Metric)}
}

// Set stores a column. Absent metrics are skipped entirely so that "never
// computed" columns do not appear in the table. Setting an existing column
// overwrites it in place without changing its position.
func (t *DerivedTable) Set(name string, m Metric) {
	if m.IsAbsent() {
		return
	}
	if _, ok := t.cells[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cells[name] = m
}

// Get returns the named column; missing columns read as absent.
func (t *DerivedTable) Get(name string) Metric {
	if t == nil {
		return Absent()
	}
	return t.cells[name]
}

// Has reports whether the named column exists (defined or undefined).
func (t *DerivedTable) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.cells[name]
	return ok
}

// Columns returns the column names in insertion order.
func (t *DerivedTable) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of columns.
func (t *DerivedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// FeatureRecord is the single flat feature vector consumed by the decision
// step. Insertion order is preserved so downstream consumers (model input,
// explanatory factors) are deterministic.
type FeatureRecord struct {
	names []string
	cells map[string]Metric
}

// NewFeatureRecord creates an empty record.
func NewFeatureRecord() *FeatureRecord {
	return &FeatureRecord{cells: make(map[string]Metric)}
}

// Set stores a feature; absent metrics are skipped.
func (r *FeatureRecord) Set(name string, m Metric) {
	if m.IsAbsent() {
		return
	}
	if _, ok := r.cells[name]; !ok {
		r.names = append(r.names, name)
	}
	r.cells[name] = m
}

// Drop removes a feature from the record.
func (r *FeatureRecord) Drop(name string) {
	if _, ok := r.cells[name]; !ok {
		return
	}
	delete(r.cells, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// Get returns the named feature; missing features read as absent.
func (r *FeatureRecord) Get(name string) Metric {
	if r == nil {
		return Absent()
	}
	return r.cells[name]
}

// Has reports whether the named feature exists.
func (r *FeatureRecord) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.cells[name]
	return ok
}

// Names returns the feature names in insertion order.
func (r *FeatureRecord) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of features.
func (r *FeatureRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// IsEmpty reports whether the record carries no features.
func (r *FeatureRecord) IsEmpty() bool { return r.Len() == 0 }

// Values returns the defined features as a plain name→value map.
func (r *FeatureRecord) Values() map[string]float64 {
	out := make(map[string]float64, r.Len())
	if r == nil {
		return out
	}
	for name, m := range r.cells {
		if v, ok := m.Float(); ok {
			out[name] = v
		}
	}
	return out
}
