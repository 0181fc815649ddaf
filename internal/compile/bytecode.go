// Package compile defines quickpython's bytecode instruction set and the
// in-memory representation of a compiled program: a linear instruction
// vector per function, an inline-nested function-prototype scheme for
// nested defs, and a static table of handler/finally protected regions
// (Funcode.Catches) for disassembly; the VM itself unwinds on the block
// stack that SETUPTRY/SETUPFINALLY build at run time.
//
// The opcode set and the "every function has its own vector, nested
// function bodies are consumed inline by MakeFunction" convention follow
// the bytecode design described for this engine; the operand encoding
// (Opcode + small integer operands + optional name) follows the shape of
// github.com/mna/nenuphar's internal/compile package (see asm.go), and the
// per-opcode dispatch switch mirrors github.com/canonical/starlark's
// starlark/interp.go.
package compile

import "fmt"

// Opcode identifies a single VM instruction.
type Opcode uint8

// Opcodes below OpcodeArgMin take no operand; at or above it, they do.
// The split lets the serializer (and a disassembler) know without a
// side table whether to expect a trailing varint.
const (
	// --- no-operand opcodes ---
	NOP Opcode = iota
	POP
	DUP
	PUSHNONE
	PUSHTRUE
	PUSHFALSE

	ADD
	SUB
	MUL
	DIV
	MOD
	NEG
	NOT

	EQ
	NE
	LT
	LE
	GT
	GE
	IS
	ISNOT

	BUILDSLICE
	GETITEM
	SETITEM
	GETITEMSLICE
	CONTAINS
	NOTCONTAINS
	LEN

	GETITER

	RETURN
	AWAIT
	YIELD

	POPTRY
	POPFINALLY
	ENDFINALLY
	RAISE
	GETEXCEPTIONTYPE

	opcodeArgMinMarker // sentinel; not a real opcode

	// --- operand-carrying opcodes (operand in Instruction.A, and/or .Str) ---
	PUSHCONST   // A = index into Funcode.Consts
	GETLOCAL    // A = local slot
	SETLOCAL    // A = local slot
	GETGLOBAL   // Str = name
	SETGLOBAL   // Str = name

	JUMP               // A = absolute target (within this function's code)
	JUMPIFFALSE        // A = target
	JUMPIFFALSEORPOP   // A = target
	JUMPIFTRUEORPOP    // A = target

	BUILDLIST  // A = n
	BUILDDICT  // A = n
	BUILDTUPLE // A = n

	FORITER // A = exit target

	UNPACKSEQUENCE // A = n

	MAKEFUNCTION // Func = nested prototype
	CALL         // A = argc
	CALLMETHOD   // Str = method name, A = argc
	GETATTR      // Str = attribute name

	SETUPTRY     // A = handler target
	SETUPFINALLY // A = finally target
	MAKEEXCEPTION // A = Kind
	MATCHEXCEPTION // A = Kind

	IMPORT     // Str = module name
	IMPORTFROM // Str = module name, Names = imported names

	PRINT         // A = argc
	FORMATSTRING  // A = argc
)

// OpcodeArgMin is the first operand-carrying opcode value.
const OpcodeArgMin = opcodeArgMinMarker + 1

var opcodeNames = map[Opcode]string{
	NOP: "NOP", POP: "POP", DUP: "DUP",
	PUSHNONE: "PUSHNONE", PUSHTRUE: "PUSHTRUE", PUSHFALSE: "PUSHFALSE",
	ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV", MOD: "MOD", NEG: "NEG", NOT: "NOT",
	EQ: "EQ", NE: "NE", LT: "LT", LE: "LE", GT: "GT", GE: "GE", IS: "IS", ISNOT: "ISNOT",
	BUILDSLICE: "BUILDSLICE", GETITEM: "GETITEM", SETITEM: "SETITEM",
	GETITEMSLICE: "GETITEMSLICE", CONTAINS: "CONTAINS", NOTCONTAINS: "NOTCONTAINS", LEN: "LEN",
	GETITER: "GETITER", RETURN: "RETURN", AWAIT: "AWAIT", YIELD: "YIELD",
	POPTRY: "POPTRY", POPFINALLY: "POPFINALLY", ENDFINALLY: "ENDFINALLY",
	RAISE: "RAISE", GETEXCEPTIONTYPE: "GETEXCEPTIONTYPE",
	PUSHCONST: "PUSHCONST", GETLOCAL: "GETLOCAL", SETLOCAL: "SETLOCAL",
	GETGLOBAL: "GETGLOBAL", SETGLOBAL: "SETGLOBAL",
	JUMP: "JUMP", JUMPIFFALSE: "JUMPIFFALSE",
	JUMPIFFALSEORPOP: "JUMPIFFALSEORPOP", JUMPIFTRUEORPOP: "JUMPIFTRUEORPOP",
	BUILDLIST: "BUILDLIST", BUILDDICT: "BUILDDICT", BUILDTUPLE: "BUILDTUPLE",
	FORITER: "FORITER", UNPACKSEQUENCE: "UNPACKSEQUENCE",
	MAKEFUNCTION: "MAKEFUNCTION", CALL: "CALL", CALLMETHOD: "CALLMETHOD", GETATTR: "GETATTR",
	SETUPTRY: "SETUPTRY", SETUPFINALLY: "SETUPFINALLY",
	MAKEEXCEPTION: "MAKEEXCEPTION", MATCHEXCEPTION: "MATCHEXCEPTION",
	IMPORT: "IMPORT", IMPORTFROM: "IMPORTFROM",
	PRINT: "PRINT", FORMATSTRING: "FORMATSTRING",
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", op)
}

// HasArg reports whether op carries an operand.
func (op Opcode) HasArg() bool { return op >= OpcodeArgMin }

// Instruction is one bytecode instruction. Not every field is used by
// every opcode; see the comments next to each Opcode constant above.
type Instruction struct {
	Op    Opcode
	A     int32  // generic integer operand: index/count/jump target
	Str   string // name operand (globals, attributes, methods, imports)
	Names []string // IMPORTFROM's imported names

	// Func is populated only for MAKEFUNCTION: the nested function's own
	// self-contained prototype, kept as an ordinary nested value rather
	// than spliced into the enclosing function's Code.
	Func *Funcode
}

// Binding names a local, global, or free variable slot.
type Binding struct {
	Name string
}

// Catch is a protected-region/handler record produced by the compiler.
// It mirrors the shape used by the try/except/finally block stack: PC0
// and PC1 delimit the protected range (exclusive upper bound) and
// StartPC is the handler (or finally) block's target.
type Catch struct {
	PC0, PC1 uint32
	StartPC  uint32
	Finally  bool // true for a SETUPFINALLY-established block
}

// Covers reports whether pc lies within the protected range.
func (c Catch) Covers(pc uint32) bool { return pc >= c.PC0 && pc < c.PC1 }

// Funcode is a single compiled function (or the top-level module body).
// Its Code is self-contained: every jump target in Code is an index
// relative to Code[0], never to an enclosing function's stream.
type Funcode struct {
	Prog *Program

	Name       string
	Params     []string // positional parameter names, in order
	NumParams  int
	IsAsync    bool
	IsGenerator bool

	Locals    []Binding // includes parameters, in slot order
	Code      []Instruction
	Consts    []Value // PUSHCONST pool: int32, float64, or string
	MaxStack  int      // advisory; the VM also grows its stack lazily
	Catches   []Catch
	Lines     []int32 // Lines[i] is the source line of Code[i], for backtraces
}

// Value is the subset of constant-pool payloads the compiler emits.
// It is deliberately not quickpython.Value: the compile package must not
// import the VM's value package (which imports compile for Funcode), so
// constants are late-bound to quickpython.Value by the compiler's caller.
type Value = any

// Program is a whole compiled source unit: its source file name and its
// top-level function.
type Program struct {
	Filename string
	Toplevel *Funcode
	Recursion bool // not set by the compiler and not read by the VM
}

// ExceptionKind enumerates the closed taxonomy of exception kinds a
// MAKEEXCEPTION/MATCHEXCEPTION instruction's operand selects from.
// ExceptionTop is the pseudo-top kind that a bare `except:` matches
// against unconditionally.
type ExceptionKind int32

const (
	ExceptionTop ExceptionKind = iota
	ExceptionValue
	ExceptionType
	ExceptionIndex
	ExceptionKey
	ExceptionZeroDivision
	ExceptionRuntime
	ExceptionAttribute
	ExceptionImport
	ExceptionIO
	ExceptionIterationViolation
)

var exceptionKindNames = map[string]ExceptionKind{
	"exception":            ExceptionTop,
	"value_error":          ExceptionValue,
	"type_error":           ExceptionType,
	"index_error":          ExceptionIndex,
	"key_error":            ExceptionKey,
	"zero_division_error":  ExceptionZeroDivision,
	"runtime_error":        ExceptionRuntime,
	"attribute_error":      ExceptionAttribute,
	"import_error":         ExceptionImport,
	"io_error":             ExceptionIO,
	"iteration_violation_error": ExceptionIterationViolation,
}

var exceptionKindStrings = func() map[ExceptionKind]string {
	m := make(map[ExceptionKind]string, len(exceptionKindNames))
	for s, k := range exceptionKindNames {
		m[k] = s
	}
	return m
}()

// pythonKindNames accepts the Python class spellings of the same kinds
// (`except ValueError:`, `raise KeyError("k")`, `except Exception:`).
var pythonKindNames = map[string]ExceptionKind{
	"Exception": ExceptionTop, "ValueError": ExceptionValue, "TypeError": ExceptionType,
	"IndexError": ExceptionIndex, "KeyError": ExceptionKey, "ZeroDivisionError": ExceptionZeroDivision,
	"RuntimeError": ExceptionRuntime, "AttributeError": ExceptionAttribute,
	"ImportError": ExceptionImport, "IOError": ExceptionIO,
}

// LookupExceptionKind maps a `raise`/`except` clause's kind name, in
// either its snake_case or its Python class spelling, to its
// ExceptionKind, as used for MAKEEXCEPTION/MATCHEXCEPTION operands.
func LookupExceptionKind(name string) (ExceptionKind, bool) {
	if k, ok := exceptionKindNames[name]; ok {
		return k, true
	}
	k, ok := pythonKindNames[name]
	return k, ok
}

func (k ExceptionKind) String() string {
	if s, ok := exceptionKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("ExceptionKind(%d)", int32(k))
}

// PrintOp renders a single instruction for disassembly/debugging,
// following the teacher's vmdebug disassembly convention in interp.go.
func PrintOp(fn *Funcode, pc int, ins Instruction) string {
	if !ins.Op.HasArg() {
		return fmt.Sprintf("%5d\t%s", pc, ins.Op)
	}
	switch ins.Op {
	case GETGLOBAL, SETGLOBAL, GETATTR, IMPORT, CALLMETHOD:
		return fmt.Sprintf("%5d\t%-16s %s", pc, ins.Op, ins.Str)
	case PUSHCONST:
		if int(ins.A) < len(fn.Consts) {
			return fmt.Sprintf("%5d\t%-16s %v", pc, ins.Op, fn.Consts[ins.A])
		}
	case MAKEFUNCTION:
		name := "<anon>"
		if ins.Func != nil {
			name = ins.Func.Name
		}
		return fmt.Sprintf("%5d\t%-16s %s", pc, ins.Op, name)
	}
	return fmt.Sprintf("%5d\t%-16s %d", pc, ins.Op, ins.A)
}

// Disassemble renders fn's code, including nested function prototypes,
// depth-first, for debugging and the `quickpython compile -S` CLI flag.
func Disassemble(fn *Funcode) string {
	var out string
	out += fmt.Sprintf("function %s (locals=%d maxstack=%d)\n", fn.Name, len(fn.Locals), fn.MaxStack)
	for pc, ins := range fn.Code {
		out += "\t" + PrintOp(fn, pc, ins) + "\n"
		if ins.Op == MAKEFUNCTION && ins.Func != nil {
			out += Disassemble(ins.Func)
		}
	}
	if len(fn.Catches) > 0 {
		out += "  catch table:\n"
		for _, c := range fn.Catches {
			kind := "except"
			if c.Finally {
				kind = "finally"
			}
			out += fmt.Sprintf("\t[%d, %d) -> %d (%s)\n", c.PC0, c.PC1, c.StartPC, kind)
		}
	}
	return out
}
