package quickpython_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/quickpython"
)

func TestValuesEqualPromotesIntAndFloat(t *testing.T) {
	require.True(t, quickpython.ValuesEqual(quickpython.Int(2), quickpython.Float(2.0)))
	require.False(t, quickpython.ValuesEqual(quickpython.Int(2), quickpython.Float(2.5)))
}

func TestValuesEqualAcrossDissimilarVariantsIsFalseNotFault(t *testing.T) {
	require.False(t, quickpython.ValuesEqual(quickpython.Int(1), quickpython.String("1")))
	require.False(t, quickpython.ValuesEqual(quickpython.NoneValue, quickpython.Bool(false)))
}

func TestValuesEqualRecursesIntoLists(t *testing.T) {
	a := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2)})
	b := quickpython.NewList([]quickpython.Value{quickpython.Int(1), quickpython.Int(2)})
	require.True(t, quickpython.ValuesEqual(a, b))
}

func TestIdenticalOnListsIsPointerIdentity(t *testing.T) {
	a := quickpython.NewList([]quickpython.Value{quickpython.Int(1)})
	b := quickpython.NewList([]quickpython.Value{quickpython.Int(1)})
	require.False(t, quickpython.Identical(a, b), "distinct allocations must not be 'is'-identical")
	require.True(t, quickpython.Identical(a, a))
}

func TestIdenticalOnTuplesIsValueEquality(t *testing.T) {
	a := quickpython.Tuple{quickpython.Int(1), quickpython.Int(2)}
	b := quickpython.Tuple{quickpython.Int(1), quickpython.Int(2)}
	require.True(t, quickpython.Identical(a, b), "tuples have no allocation identity; 'is' falls back to value equality")
}

func TestIdenticalScalarsAreValueEquality(t *testing.T) {
	require.True(t, quickpython.Identical(quickpython.Int(5), quickpython.Int(5)))
	require.True(t, quickpython.Identical(quickpython.NoneValue, quickpython.NoneValue))
	require.False(t, quickpython.Identical(quickpython.Int(5), quickpython.Float(5)))
}
