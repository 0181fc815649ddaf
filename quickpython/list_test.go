package quickpython_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/quickpython"
)

func TestListAppendBumpsVersion(t *testing.T) {
	l := quickpython.NewList([]quickpython.Value{quickpython.Int(1)})
	before := l.Version()
	l.Append(quickpython.Int(2))
	require.NotEqual(t, before, l.Version())
	require.Equal(t, 2, l.Len())
}

func TestListRemoveAtShiftsRemainingElements(t *testing.T) {
	l := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2), quickpython.Int(3)})
	v := l.RemoveAt(1)
	require.Equal(t, quickpython.Int(2), v)
	require.Equal(t, 2, l.Len())
	require.Equal(t, quickpython.Int(1), l.At(0))
	require.Equal(t, quickpython.Int(3), l.At(1))
}

func TestListClearEmptiesAndBumpsVersion(t *testing.T) {
	l := quickpython.NewList([]quickpython.Value{quickpython.Int(1)})
	before := l.Version()
	l.Clear()
	require.Equal(t, 0, l.Len())
	require.NotEqual(t, before, l.Version())
}

func TestListReverseInPlace(t *testing.T) {
	l := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2), quickpython.Int(3)})
	l.Reverse()
	require.Equal(t, quickpython.Int(3), l.At(0))
	require.Equal(t, quickpython.Int(1), l.At(2))
}

func TestListEqualComparesElementwise(t *testing.T) {
	a := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2)})
	b := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2)})
	c := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(3)})
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestTupleEqualComparesElementwise(t *testing.T) {
	a := quickpython.Tuple{quickpython.Int(1), quickpython.String("x")}
	b := quickpython.Tuple{quickpython.Int(1), quickpython.String("x")}
	c := quickpython.Tuple{quickpython.Int(1), quickpython.String("y")}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestGetIterOnListFaultsAfterStructuralMutation(t *testing.T) {
	l := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2)})
	it, exc := quickpython.GetIter(l)
	require.Nil(t, exc)

	v, ok, exc := it.Next()
	require.Nil(t, exc)
	require.True(t, ok)
	require.Equal(t, quickpython.Int(1), v)

	l.Append(quickpython.Int(3))

	_, _, exc = it.Next()
	require.NotNil(t, exc)
}

func TestGetIterExhaustsAtEnd(t *testing.T) {
	l := quickpython.NewList([]quickpython.Value{quickpython.Int(1)})
	it, exc := quickpython.GetIter(l)
	require.Nil(t, exc)
	_, ok, _ := it.Next()
	require.True(t, ok)
	_, ok, exc := it.Next()
	require.Nil(t, exc)
	require.False(t, ok)
}

func TestContainsOnListAndString(t *testing.T) {
	l := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2)})
	found, exc := quickpython.Contains(l, quickpython.Int(2))
	require.Nil(t, exc)
	require.True(t, found)

	found, exc = quickpython.Contains(quickpython.String("hello"), quickpython.String("ell"))
	require.Nil(t, exc)
	require.True(t, found)
}
