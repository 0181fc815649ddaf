package quickpython

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinNextReturnsValuesThenDefault(t *testing.T) {
	l := NewList([]Value{Int(1)})
	it, exc := GetIter(l)
	require.Nil(t, exc)

	v, exc := builtinNext(nil, []Value{it})
	require.Nil(t, exc)
	require.Equal(t, Int(1), v)

	v, exc = builtinNext(nil, []Value{it, Int(-1)})
	require.Nil(t, exc)
	require.Equal(t, Int(-1), v)
}

func TestBuiltinNextRaisesValueErrorWithoutDefault(t *testing.T) {
	l := NewList(nil)
	it, _ := GetIter(l)
	_, exc := builtinNext(nil, []Value{it})
	require.NotNil(t, exc)
	require.Equal(t, exceptionValue, exc.Kind)
}

func TestBuiltinIsinstanceChecksTypeName(t *testing.T) {
	v, exc := builtinIsinstance(nil, []Value{Int(1), String("int")})
	require.Nil(t, exc)
	require.Equal(t, Bool(true), v)
}

func TestBuiltinRangeRejectsZeroStep(t *testing.T) {
	_, exc := builtinRange(nil, []Value{Int(0), Int(10), Int(0)})
	require.NotNil(t, exc)
}

func TestBuiltinIntConvertsStringAndFloat(t *testing.T) {
	v, exc := builtinInt(nil, []Value{String("42")})
	require.Nil(t, exc)
	require.Equal(t, Int(42), v)

	v, exc = builtinInt(nil, []Value{Float(3.9)})
	require.Nil(t, exc)
	require.Equal(t, Int(3), v)
}
