package quickpython

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeIndexWrapsNegative(t *testing.T) {
	i, exc := normalizeIndex(Int(-1), 3)
	require.Nil(t, exc)
	require.Equal(t, 2, i)
}

func TestNormalizeIndexOutOfRangeFaults(t *testing.T) {
	_, exc := normalizeIndex(Int(5), 3)
	require.NotNil(t, exc)
	require.Equal(t, exceptionIndex, exc.Kind)
}

func TestGetItemSliceWithNegativeStepReverses(t *testing.T) {
	l := NewList([]Value{Int(0), Int(1), Int(2), Int(3)})
	v, exc := getItemSlice(l, &Slice{Start: NoneValue, Stop: NoneValue, Step: Int(-1)})
	require.Nil(t, exc)
	out := v.(*List)
	require.Equal(t, []Value{Int(3), Int(2), Int(1), Int(0)}, out.Slice())
}

func TestGetItemSliceOnStringRespectsBounds(t *testing.T) {
	v, exc := getItemSlice(String("hello"), &Slice{Start: Int(1), Stop: Int(4), Step: NoneValue})
	require.Nil(t, exc)
	require.Equal(t, String("ell"), v)
}

func TestLengthOfDispatchesByKind(t *testing.T) {
	n, exc := lengthOf(Tuple{Int(1), Int(2), Int(3)})
	require.Nil(t, exc)
	require.Equal(t, int32(3), n)

	_, exc = lengthOf(Int(1))
	require.NotNil(t, exc)
}

func TestSetItemOnDictRejectsUnhashableKey(t *testing.T) {
	d := NewDict()
	exc := setItem(d, NewList(nil), Int(1))
	require.NotNil(t, exc)
	require.Equal(t, exceptionType, exc.Kind)
}
