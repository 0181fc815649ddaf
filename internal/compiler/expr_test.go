package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/internal/compile"
)

func TestCompileChainedComparisonUsesTemporaries(t *testing.T) {
	fn := compileSrc(t, "r = 1 < x < 10\n")
	disasm := compile.Disassemble(fn)
	require.Contains(t, disasm, "LT")
	require.Contains(t, disasm, "JUMPIFFALSEORPOP")
}

func TestCompileSliceBuildsSliceThenIndexes(t *testing.T) {
	fn := compileSrc(t, "y = x[1:10:2]\n")
	disasm := compile.Disassemble(fn)
	require.Contains(t, disasm, "BUILDSLICE")
	require.Contains(t, disasm, "GETITEMSLICE")
}

func TestCompileFStringAlternatesConstsAndExprs(t *testing.T) {
	fn := compileSrc(t, "s = f\"hi {name}!\"\n")
	disasm := compile.Disassemble(fn)
	require.Contains(t, disasm, "FORMATSTRING")
}

func TestCompileListCompLowersToAccumulatorLoop(t *testing.T) {
	fn := compileSrc(t, "ys = [x * 2 for x in xs if x > 0]\n")
	disasm := compile.Disassemble(fn)
	require.Contains(t, disasm, "BUILDLIST")
	require.Contains(t, disasm, "FORITER")
	require.Contains(t, disasm, "CALLMETHOD")
}

func TestCompileDictCompUsesSetItem(t *testing.T) {
	fn := compileSrc(t, "d = {k: v for k, v in pairs}\n")
	disasm := compile.Disassemble(fn)
	require.Contains(t, disasm, "BUILDDICT")
	require.Contains(t, disasm, "UNPACKSEQUENCE")
	require.Contains(t, disasm, "SETITEM")
}

func TestCompileMethodCallEmitsCallMethod(t *testing.T) {
	fn := compileSrc(t, "xs.append(1)\n")
	disasm := compile.Disassemble(fn)
	require.Contains(t, disasm, "CALLMETHOD")
}

func TestCompileLogicalAndOrShortCircuit(t *testing.T) {
	fn := compileSrc(t, "r = a and b\n")
	disasm := compile.Disassemble(fn)
	require.Contains(t, disasm, "JUMPIFFALSEORPOP")

	fn2 := compileSrc(t, "r = a or b\n")
	disasm2 := compile.Disassemble(fn2)
	require.Contains(t, disasm2, "JUMPIFTRUEORPOP")
}
