package compile_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/internal/compile"
	"github.com/VikingMew/quickpython/internal/compiler"
	"github.com/VikingMew/quickpython/internal/parser"
)

// funcodeDiffOpts restricts the round-trip comparison to the fields
// the .pyq format actually encodes (Locals/Consts/Catches/Code): Name,
// Params, NumParams, IsAsync, IsGenerator, MaxStack, and Lines are
// debugging/signature metadata the format deliberately omits (see
// serialize.go's doc comment), and Prog is a back-reference Deserialize
// has nothing to populate.
var funcodeDiffOpts = cmp.Options{
	cmpopts.IgnoreFields(compile.Funcode{},
		"Prog", "Name", "Params", "NumParams", "IsAsync", "IsGenerator", "MaxStack", "Lines"),
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	mod, err := parser.Parse("x = 1 + 2\ny = \"hi\"\nif x < 3:\n    z = 1\n")
	require.NoError(t, err)
	prog, err := compiler.Compile(mod, "<test>")
	require.NoError(t, err)

	data, err := compile.Serialize(prog.Toplevel)
	require.NoError(t, err)

	back, err := compile.Deserialize(data)
	require.NoError(t, err)

	if diff := cmp.Diff(prog.Toplevel, back, funcodeDiffOpts); diff != "" {
		t.Errorf("round-tripped Funcode differs (-want +got):\n%s", diff)
	}
}

func TestSerializeDeserializeRoundTripsCatchTable(t *testing.T) {
	mod, err := parser.Parse("try:\n    x = 1\nexcept ValueError as e:\n    x = 0\nfinally:\n    y = 2\n")
	require.NoError(t, err)
	prog, err := compiler.Compile(mod, "<test>")
	require.NoError(t, err)
	require.Len(t, prog.Toplevel.Catches, 2)

	data, err := compile.Serialize(prog.Toplevel)
	require.NoError(t, err)
	back, err := compile.Deserialize(data)
	require.NoError(t, err)

	if diff := cmp.Diff(prog.Toplevel.Catches, back.Catches); diff != "" {
		t.Errorf("round-tripped Catches differ (-want +got):\n%s", diff)
	}
}

func TestSerializeRejectsNestedFunction(t *testing.T) {
	mod, err := parser.Parse("def f():\n    return 1\n")
	require.NoError(t, err)
	prog, err := compiler.Compile(mod, "<test>")
	require.NoError(t, err)

	_, err = compile.Serialize(prog.Toplevel)
	require.ErrorIs(t, err, compile.ErrComplexOperand)
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	_, err := compile.Deserialize([]byte("nope"))
	require.ErrorIs(t, err, compile.ErrBadMagic)
}

func TestDeserializeRejectsTruncatedInput(t *testing.T) {
	mod, err := parser.Parse("x = 1\n")
	require.NoError(t, err)
	prog, err := compiler.Compile(mod, "<test>")
	require.NoError(t, err)
	data, err := compile.Serialize(prog.Toplevel)
	require.NoError(t, err)

	_, err = compile.Deserialize(data[:len(data)-2])
	require.Error(t, err)
}
