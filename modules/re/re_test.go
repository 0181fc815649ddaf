package re

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/quickpython"
)

func TestMatchAnchorsAtStart(t *testing.T) {
	v, exc := reMatch(nil, []quickpython.Value{quickpython.String("ab"), quickpython.String("abc")})
	require.Nil(t, exc)
	require.Equal(t, quickpython.String("ab"), v)

	v, exc = reMatch(nil, []quickpython.Value{quickpython.String("bc"), quickpython.String("abc")})
	require.Nil(t, exc)
	require.Equal(t, quickpython.NoneValue, v)
}

func TestSearchScansWholeSubject(t *testing.T) {
	v, exc := reSearch(nil, []quickpython.Value{quickpython.String("bc"), quickpython.String("abc")})
	require.Nil(t, exc)
	require.Equal(t, quickpython.String("bc"), v)
}

func TestFindallReturnsAllMatches(t *testing.T) {
	v, exc := reFindall(nil, []quickpython.Value{quickpython.String("[0-9]+"), quickpython.String("a1b22c333")})
	require.Nil(t, exc)
	list := v.(*quickpython.List)
	require.Equal(t, 3, list.Len())
	require.Equal(t, quickpython.String("333"), list.At(2))
}

func TestCompileRejectsInvalidPattern(t *testing.T) {
	_, exc := reMatch(nil, []quickpython.Value{quickpython.String("("), quickpython.String("abc")})
	require.NotNil(t, exc)
	require.Equal(t, quickpython.ExceptionValue, exc.Kind)
}
