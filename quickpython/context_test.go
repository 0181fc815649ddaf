package quickpython_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/internal/config"
	"github.com/VikingMew/quickpython/quickpython"

	_ "github.com/VikingMew/quickpython/modules/json"
	_ "github.com/VikingMew/quickpython/modules/re"
)

func newEngine(t *testing.T) *quickpython.Context {
	t.Helper()
	return quickpython.New(config.Default())
}

func evalGlobal(t *testing.T, src, name string) quickpython.Value {
	t.Helper()
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	v, ok := ctx.Get(name)
	require.True(t, ok, "global %q not set", name)
	return v
}

func TestEvalArithmeticAndGlobals(t *testing.T) {
	v := evalGlobal(t, "x = 1 + 2 * 3\n", "x")
	require.Equal(t, quickpython.Int(7), v)
}

func TestEvalIfElse(t *testing.T) {
	v := evalGlobal(t, "x = 5\nif x < 2:\n    y = 1\nelse:\n    y = 0\n", "y")
	require.Equal(t, quickpython.Int(0), v)
}

func TestEvalForLoopOverRangeSum(t *testing.T) {
	src := "total = 0\nfor i in range(5):\n    total = total + i\n"
	v := evalGlobal(t, src, "total")
	require.Equal(t, quickpython.Int(10), v)
}

func TestEvalWhileLoopWithBreak(t *testing.T) {
	src := "i = 0\nwhile True:\n    i = i + 1\n    if i == 3:\n        break\n"
	v := evalGlobal(t, src, "i")
	require.Equal(t, quickpython.Int(3), v)
}

func TestEvalFunctionDefAndCall(t *testing.T) {
	src := "def add(a, b):\n    return a + b\nresult = add(3, 4)\n"
	v := evalGlobal(t, src, "result")
	require.Equal(t, quickpython.Int(7), v)
}

func TestEvalRecursiveFunction(t *testing.T) {
	src := "def fact(n):\n    if n <= 1:\n        return 1\n    return n * fact(n - 1)\nresult = fact(5)\n"
	v := evalGlobal(t, src, "result")
	require.Equal(t, quickpython.Int(120), v)
}

func TestEvalListMethods(t *testing.T) {
	src := "xs = [3, 1, 2]\nxs.append(4)\nn = len(xs)\nfirst = xs[0]\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	n, _ := ctx.Get("n")
	require.Equal(t, quickpython.Int(4), n)
	first, _ := ctx.Get("first")
	require.Equal(t, quickpython.Int(3), first)
}

func TestEvalDictGetAndKeys(t *testing.T) {
	src := "d = {\"a\": 1, \"b\": 2}\nv = d.get(\"a\")\nmissing = d.get(\"z\")\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	v, _ := ctx.Get("v")
	require.Equal(t, quickpython.Int(1), v)
	missing, _ := ctx.Get("missing")
	require.Equal(t, quickpython.NoneValue, missing)
}

func TestEvalSliceExpression(t *testing.T) {
	src := "xs = [0, 1, 2, 3, 4]\nys = xs[1:4]\nn = len(ys)\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	n, _ := ctx.Get("n")
	require.Equal(t, quickpython.Int(3), n)
}

func TestEvalListComprehension(t *testing.T) {
	src := "xs = [1, 2, 3, 4]\nys = [x * 2 for x in xs if x > 1]\nn = len(ys)\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	n, _ := ctx.Get("n")
	require.Equal(t, quickpython.Int(3), n)
}

func TestEvalTryExceptCatchesZeroDivision(t *testing.T) {
	src := "caught = False\ntry:\n    x = 1 / 0\nexcept ZeroDivisionError:\n    caught = True\n"
	v := evalGlobal(t, src, "caught")
	require.Equal(t, quickpython.Bool(true), v)
}

func TestEvalTryFinallyAlwaysRuns(t *testing.T) {
	src := "ran = False\ntry:\n    x = 1\nfinally:\n    ran = True\n"
	v := evalGlobal(t, src, "ran")
	require.Equal(t, quickpython.Bool(true), v)
}

func TestEvalFinallyRunsOnBreakInsideProtectedLoop(t *testing.T) {
	src := "log = []\n" +
		"for x in [1, 2]:\n" +
		"    try:\n" +
		"        if x == 2:\n" +
		"            break\n" +
		"    finally:\n" +
		"        log.append(x)\n"
	v := evalGlobal(t, src, "log")
	l, ok := v.(*quickpython.List)
	require.True(t, ok)
	require.Equal(t, 2, l.Len())
	require.Equal(t, quickpython.Int(1), l.At(0))
	require.Equal(t, quickpython.Int(2), l.At(1))
}

func TestEvalFinallyRunsOnContinueInsideProtectedLoop(t *testing.T) {
	src := "log = []\n" +
		"for x in [1, 2, 3]:\n" +
		"    try:\n" +
		"        if x == 2:\n" +
		"            continue\n" +
		"        log.append(x)\n" +
		"    finally:\n" +
		"        log.append(100 + x)\n"
	v := evalGlobal(t, src, "log")
	l, ok := v.(*quickpython.List)
	require.True(t, ok)
	require.Equal(t, 5, l.Len())
	require.Equal(t, quickpython.Int(1), l.At(0))
	require.Equal(t, quickpython.Int(101), l.At(1))
	require.Equal(t, quickpython.Int(102), l.At(2))
	require.Equal(t, quickpython.Int(3), l.At(3))
	require.Equal(t, quickpython.Int(103), l.At(4))
}

func TestEvalUnhandledExceptionReturnsEvalError(t *testing.T) {
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", "x = 1 / 0\n")
	require.Error(t, err)
	evalErr, ok := err.(*quickpython.EvalError)
	require.True(t, ok)
	require.Contains(t, evalErr.Error(), "zero_division")
}

func TestEvalTupleUnpacking(t *testing.T) {
	src := "a, b = 1, 2\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	a, _ := ctx.Get("a")
	b, _ := ctx.Get("b")
	require.Equal(t, quickpython.Int(1), a)
	require.Equal(t, quickpython.Int(2), b)
}

func TestEvalGeneratorYieldsInOrder(t *testing.T) {
	src := "def gen():\n" +
		"    yield 1\n" +
		"    yield 2\n" +
		"    yield 3\n" +
		"total = 0\n" +
		"for v in gen():\n" +
		"    total = total + v\n"
	v := evalGlobal(t, src, "total")
	require.Equal(t, quickpython.Int(6), v)
}

func TestEvalFStringFormatsEmbeddedExpression(t *testing.T) {
	src := "name = \"world\"\ns = f\"hello {name}\"\n"
	v := evalGlobal(t, src, "s")
	require.Equal(t, quickpython.String("hello world"), v)
}

func TestEvalIsinstanceBuiltin(t *testing.T) {
	src := "ok = isinstance(1, \"int\")\nbad = isinstance(\"x\", \"int\")\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	ok, _ := ctx.Get("ok")
	bad, _ := ctx.Get("bad")
	require.Equal(t, quickpython.Bool(true), ok)
	require.Equal(t, quickpython.Bool(false), bad)
}

func TestEvalIsinstanceCoversFunctionAndModule(t *testing.T) {
	src := "import json\n" +
		"def f():\n" +
		"    return 1\n" +
		"isFunc = isinstance(f, \"function\")\n" +
		"isMod = isinstance(json, \"module\")\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	isFunc, _ := ctx.Get("isFunc")
	isMod, _ := ctx.Get("isMod")
	require.Equal(t, quickpython.Bool(true), isFunc)
	require.Equal(t, quickpython.Bool(true), isMod)
}

func TestEvalGeneratorStopsAfterLastYield(t *testing.T) {
	src := "def gen():\n" +
		"    yield 1\n" +
		"    yield 2\n" +
		"count = 0\n" +
		"for v in gen():\n" +
		"    count = count + 1\n"
	v := evalGlobal(t, src, "count")
	require.Equal(t, quickpython.Int(2), v)
}

func TestEvalImportJSONModule(t *testing.T) {
	src := "import json\nd = json.loads(\"{\\\"a\\\": 1}\")\nv = d.get(\"a\")\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	v, _ := ctx.Get("v")
	require.Equal(t, quickpython.Int(1), v)
}

func TestEvalImportFromPreservesDeclaredOrder(t *testing.T) {
	src := "from re import search, findall\nr = search(\"b\", \"abc\")\n"
	ctx := newEngine(t)
	_, err := ctx.Eval("<test>", src)
	require.NoError(t, err)
	r, _ := ctx.Get("r")
	require.Equal(t, quickpython.String("b"), r)
}

func TestEvalStepBudgetFaultsOnInfiniteLoop(t *testing.T) {
	cfg, err := config.Load([]byte("max_steps: 100\n"))
	require.NoError(t, err)
	ctx := quickpython.New(cfg)
	_, evalErr := ctx.Eval("<test>", "i = 0\nwhile True:\n    i = i + 1\n")
	require.Error(t, evalErr)
	require.True(t, strings.Contains(evalErr.Error(), "step budget"))
}
