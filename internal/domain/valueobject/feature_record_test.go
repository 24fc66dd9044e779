package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedTableSetSkipsAbsent(t *testing.T) {
	tbl := NewDerivedTable()
	tbl.Set("current_ratio", Defined(2))
	tbl.Set("never_computed", Absent())
	tbl.Set("debt_to_equity", Undefined())

	assert.Equal(t, []string{"current_ratio", "debt_to_equity"}, tbl.Columns())
	assert.True(t, tbl.Has("debt_to_equity"))
	assert.False(t, tbl.Has("never_computed"))
	assert.True(t, tbl.Get("never_computed").IsAbsent())
	assert.Equal(t, 2, tbl.Len())
}

func TestDerivedTableOverwriteKeepsPosition(t *testing.T) {
	tbl := NewDerivedTable()
	tbl.Set("a", Defined(1))
	tbl.Set("b", Defined(2))
	tbl.Set("a", Defined(3))

	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	assert.Equal(t, 3.0, tbl.Get("a").Or(0))
}

func TestDerivedTableNilSafe(t *testing.T) {
	var tbl *DerivedTable
	assert.True(t, tbl.Get("anything").IsAbsent())
	assert.False(t, tbl.Has("anything"))
	assert.Nil(t, tbl.Columns())
	assert.Equal(t, 0, tbl.Len())
}

func TestFeatureRecordDrop(t *testing.T) {
	rec := NewFeatureRecord()
	rec.Set("a", Defined(1))
	rec.Set("b", Undefined())
	rec.Set("c", Defined(3))

	rec.Drop("b")
	assert.Equal(t, []string{"a", "c"}, rec.Names())
	assert.False(t, rec.Has("b"))

	rec.Drop("not_there")
	assert.Equal(t, 2, rec.Len())
}

func TestFeatureRecordValuesSkipsUndefined(t *testing.T) {
	rec := NewFeatureRecord()
	rec.Set("roa", Defined(0.1))
	rec.Set("debt_to_equity", Undefined())

	values := rec.Values()
	assert.Equal(t, map[string]float64{"roa": 0.1}, values)
	assert.False(t, rec.IsEmpty())
}

func TestFeatureRecordEmpty(t *testing.T) {
	assert.True(t, NewFeatureRecord().IsEmpty())
}
