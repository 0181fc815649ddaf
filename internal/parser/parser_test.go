package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/internal/ast"
	"github.com/VikingMew/quickpython/internal/parser"
)

func TestParseSimpleAssignAndIf(t *testing.T) {
	src := "x = 1\n" +
		"if x < 2:\n" +
		"    y = x + 1\n" +
		"else:\n" +
		"    y = 0\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)

	assign, ok := mod.Body[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)

	ifStmt, ok := mod.Body[1].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParseFuncDefAndCall(t *testing.T) {
	src := "def add(a, b):\n" +
		"    return a + b\n" +
		"\n" +
		"result = add(1, 2)\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)

	fn, ok := mod.Body[0].(*ast.FuncDef)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, []string{"a", "b"}, fn.Params)
	require.False(t, fn.IsAsync)

	assign := mod.Body[1].(*ast.Assign)
	call, ok := assign.Value.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
}

func TestParseForTryExcept(t *testing.T) {
	src := "for k, v in items:\n" +
		"    try:\n" +
		"        process(v)\n" +
		"    except value_error as e:\n" +
		"        continue\n" +
		"    finally:\n" +
		"        pass\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	forStmt := mod.Body[0].(*ast.For)
	require.Equal(t, []string{"k", "v"}, forStmt.Vars)

	tryStmt := forStmt.Body[0].(*ast.Try)
	require.Len(t, tryStmt.Handlers, 1)
	require.Equal(t, "value_error", tryStmt.Handlers[0].Kind)
	require.Equal(t, "e", tryStmt.Handlers[0].Name)
	require.Len(t, tryStmt.Finally, 1)
}

func TestParseCompoundExpressions(t *testing.T) {
	src := "squares = [x * x for x in range(10) if x % 2 == 0]\n" +
		"lookup = {str(x): x for x in range(3)}\n" +
		"total = a and b or not c\n" +
		"label = f\"value={x + 1}\"\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Body, 4)

	lc := mod.Body[0].(*ast.Assign).Value.(*ast.ListComp)
	require.Equal(t, []string{"x"}, lc.Vars)
	require.NotNil(t, lc.Cond)

	dc := mod.Body[1].(*ast.Assign).Value.(*ast.DictComp)
	require.Equal(t, []string{"x"}, dc.Vars)

	logical := mod.Body[2].(*ast.Assign).Value.(*ast.LogicalExpr)
	require.Equal(t, "or", logical.Op)

	fstr := mod.Body[3].(*ast.Assign).Value.(*ast.FString)
	require.Len(t, fstr.Exprs, 1)
}

func TestParseAugAssignAndSlice(t *testing.T) {
	src := "n += 1\n" +
		"part = xs[1:3]\n" +
		"whole = xs[:]\n"
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Body, 3)

	aug := mod.Body[0].(*ast.AugAssign)
	require.Equal(t, "+", aug.Op)
	require.Equal(t, "n", aug.Target.Name)

	sl := mod.Body[1].(*ast.Assign).Value.(*ast.SliceExpr)
	require.NotNil(t, sl.Start)
	require.NotNil(t, sl.Stop)
	require.Nil(t, sl.Step)

	whole := mod.Body[2].(*ast.Assign).Value.(*ast.SliceExpr)
	require.Nil(t, whole.Start)
	require.Nil(t, whole.Stop)
}
