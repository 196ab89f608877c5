package variant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/variant"
)

// Law (spec.md §8): var_copy(var_copy(v)) == var_copy(v).
func TestCopyIsStable(t *testing.T) {
	v := variant.NewString("hello")
	c1 := v.Copy()
	c2 := c1.Copy()
	s1, _ := c1.AsString()
	s2, _ := c2.AsString()
	assert.Equal(t, s1, s2)
}

func TestArrayResizeGrowsWithNilFill(t *testing.T) {
	arr := variant.NewArray(2)
	require.NoError(t, arr.ArrayResize(4))
	assert.Equal(t, 4, arr.Len())
	last, err := arr.ArrayAt(3)
	require.NoError(t, err)
	assert.True(t, last.IsNil())
}

func TestArrayResizeToZeroThenAt(t *testing.T) {
	arr := variant.NewArray(3)
	require.NoError(t, arr.ArrayResize(0))
	assert.Equal(t, 0, arr.Len())
	_, err := arr.ArrayAt(0)
	assert.Error(t, err)
}

func TestStructRoundTrip(t *testing.T) {
	s, err := variant.NewSchema("Point", []variant.FieldSpec{
		{Key: "x", Tag: variant.Double, Kind: variant.FieldScalar},
		{Key: "y", Tag: variant.Double, Kind: variant.FieldScalar},
		{Key: "name", Tag: variant.String, Kind: variant.FieldScalar},
	})
	require.NoError(t, err)
	assert.Equal(t, 16, s.StructSize()) // 8 (x) + 8 (y); string fields carry no fixed inline size

	sv, err := s.StructCreate([]variant.Var{variant.NewDouble(1.5), variant.NewDouble(2.5), variant.NewString("p")})
	require.NoError(t, err)
	v := variant.NewStruct(sv)

	ref, err := v.StructAt("x")
	require.NoError(t, err)
	got, ok := ref.AsDouble()
	require.True(t, ok)
	assert.Equal(t, 1.5, got)

	*ref = variant.NewDouble(9.5)
	ref2, err := v.StructAt("x")
	require.NoError(t, err)
	got2, _ := ref2.AsDouble()
	assert.Equal(t, 9.5, got2)
}

func TestMapInsertionOrder(t *testing.T) {
	m := variant.NewMap()
	require.NoError(t, m.MapSet(variant.NewString("b"), variant.NewInt(2)))
	require.NoError(t, m.MapSet(variant.NewString("a"), variant.NewInt(1)))
	keys := m.MapKeys()
	require.Len(t, keys, 2)
	k0, _ := keys[0].AsString()
	k1, _ := keys[1].AsString()
	assert.Equal(t, "b", k0)
	assert.Equal(t, "a", k1)
}
