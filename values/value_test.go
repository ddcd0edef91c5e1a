package values_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tjson/tjson/values"
)

func TestMapValuePreservesInsertionOrder(t *testing.T) {
	m := values.NewMapValue()
	require.NoError(t, m.PutForcefully("b", 2))
	require.NoError(t, m.PutForcefully("a", 1))
	require.Equal(t, []string{"b", "a"}, m.Keys())
}

func TestMapValueOverwriteKeepsPosition(t *testing.T) {
	m := values.NewMapValue()
	require.NoError(t, m.PutForcefully("a", 1))
	require.NoError(t, m.PutForcefully("b", 2))
	require.NoError(t, m.PutForcefully("a", 100))
	require.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 100, v)
}

func TestMapValueFreezeRejectsFurtherWrites(t *testing.T) {
	m := values.NewMapValue()
	m.Freeze()
	err := m.PutForcefully("a", 1)
	require.ErrorIs(t, err, values.ErrFrozen)
}

func TestListValueAddRefValueGrows(t *testing.T) {
	l := values.NewListValue()
	require.NoError(t, l.AddRefValue(0, "x"))
	require.NoError(t, l.AddRefValue(1, "y"))
	require.Equal(t, 2, l.Len())
	require.Equal(t, "y", l.At(1))
}

func TestListValueFreezeRejectsFurtherWrites(t *testing.T) {
	l := values.NewListValue()
	l.Freeze()
	err := l.AddRefValue(0, "x")
	require.ErrorIs(t, err, values.ErrFrozen)
}

func TestDefaultRegistryFillsMissingFields(t *testing.T) {
	reg := values.NewDefaultRegistry()
	reg.Register("main", "Point", "z", int64(0))

	rec, err := reg.CreateRecordValueWithDefaultValues("main", "Point", []string{"z"})
	require.NoError(t, err)
	v, ok := rec.Get("z")
	require.True(t, ok)
	require.Equal(t, int64(0), v)
}

func TestDefaultRegistryNilIsSafeAndYieldsNil(t *testing.T) {
	var reg *values.DefaultRegistry
	rec, err := reg.CreateRecordValueWithDefaultValues("main", "Point", []string{"z"})
	require.NoError(t, err)
	v, ok := rec.Get("z")
	require.True(t, ok)
	require.Nil(t, v)
}
