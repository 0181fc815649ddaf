package compile

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Bytecode file format (.pyq): a 4-byte magic "QPY0", a little-endian
// varint format version, then a length-prefixed encoding of the
// top-level Funcode. Operand varints are encoded with protowire's
// varint codec, repurposing the dependency the teacher carried for
// protobuf reflection (lib/proto) as a plain integer codec for this
// from-scratch format.
//
// The format is whitelisted: MAKEFUNCTION instructions (and therefore
// any function containing one, i.e. any function with a nested def) are
// rejected by Serialize, since encoding a nested Funcode recursively
// would require a self-referential length scheme this minimal format
// does not define. This mirrors the spec's requirement that "instructions
// whose operands are complex... produce a serialization error".

var (
	magic         = [4]byte{'Q', 'P', 'Y', '0'}
	formatVersion = uint64(1)

	// ErrBadMagic is returned by Deserialize when the input does not begin
	// with the expected magic bytes.
	ErrBadMagic = errors.New("compile: bad magic number")
	// ErrBadVersion is returned when the version varint does not match
	// formatVersion.
	ErrBadVersion = errors.New("compile: unsupported bytecode version")
	// ErrTruncated is returned when the input ends before a complete
	// program could be decoded.
	ErrTruncated = errors.New("compile: truncated bytecode")
	// ErrComplexOperand is returned by Serialize when the program contains
	// an instruction this format cannot whitelist (currently: any nested
	// MAKEFUNCTION).
	ErrComplexOperand = errors.New("compile: program contains a non-serializable instruction")
)

// Serialize encodes fn (which must not itself contain a MAKEFUNCTION
// instruction) into the .pyq binary format.
func Serialize(fn *Funcode) ([]byte, error) {
	for _, ins := range fn.Code {
		if ins.Op == MAKEFUNCTION {
			return nil, ErrComplexOperand
		}
	}

	var b []byte
	b = append(b, magic[:]...)
	b = protowire.AppendVarint(b, formatVersion)

	b = protowire.AppendVarint(b, uint64(len(fn.Locals)))
	for _, l := range fn.Locals {
		b = appendString(b, l.Name)
	}

	b = protowire.AppendVarint(b, uint64(len(fn.Consts)))
	for _, c := range fn.Consts {
		var err error
		b, err = appendConst(b, c)
		if err != nil {
			return nil, err
		}
	}

	b = protowire.AppendVarint(b, uint64(len(fn.Catches)))
	for _, c := range fn.Catches {
		b = protowire.AppendVarint(b, uint64(c.PC0))
		b = protowire.AppendVarint(b, uint64(c.PC1))
		b = protowire.AppendVarint(b, uint64(c.StartPC))
		finally := uint64(0)
		if c.Finally {
			finally = 1
		}
		b = protowire.AppendVarint(b, finally)
	}

	b = protowire.AppendVarint(b, uint64(len(fn.Code)))
	for _, ins := range fn.Code {
		b = protowire.AppendVarint(b, uint64(ins.Op))
		if ins.Op.HasArg() {
			b = protowire.AppendVarint(b, zigzagEncode(ins.A))
		}
		switch ins.Op {
		case GETGLOBAL, SETGLOBAL, GETATTR, IMPORT, CALLMETHOD:
			b = appendString(b, ins.Str)
		case IMPORTFROM:
			b = appendString(b, ins.Str)
			b = protowire.AppendVarint(b, uint64(len(ins.Names)))
			for _, n := range ins.Names {
				b = appendString(b, n)
			}
		}
	}
	return b, nil
}

// Deserialize decodes bytes produced by Serialize back into a Funcode.
func Deserialize(b []byte) (*Funcode, error) {
	if len(b) < 4 || b[0] != magic[0] || b[1] != magic[1] || b[2] != magic[2] || b[3] != magic[3] {
		return nil, ErrBadMagic
	}
	b = b[4:]

	version, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return nil, ErrTruncated
	}
	b = b[n:]
	if version != formatVersion {
		return nil, ErrBadVersion
	}

	fn := &Funcode{}

	nlocals, b2, err := consumeCount(b)
	if err != nil {
		return nil, err
	}
	b = b2
	for i := uint64(0); i < nlocals; i++ {
		s, rest, err := consumeString(b)
		if err != nil {
			return nil, err
		}
		fn.Locals = append(fn.Locals, Binding{Name: s})
		b = rest
	}

	nconsts, b2, err := consumeCount(b)
	if err != nil {
		return nil, err
	}
	b = b2
	for i := uint64(0); i < nconsts; i++ {
		c, rest, err := consumeConst(b)
		if err != nil {
			return nil, err
		}
		fn.Consts = append(fn.Consts, c)
		b = rest
	}

	ncatches, b2, err := consumeCount(b)
	if err != nil {
		return nil, err
	}
	b = b2
	for i := uint64(0); i < ncatches; i++ {
		pc0, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, ErrTruncated
		}
		b = b[n:]
		pc1, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, ErrTruncated
		}
		b = b[n:]
		start, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, ErrTruncated
		}
		b = b[n:]
		finally, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, ErrTruncated
		}
		b = b[n:]
		fn.Catches = append(fn.Catches, Catch{
			PC0: uint32(pc0), PC1: uint32(pc1), StartPC: uint32(start), Finally: finally != 0,
		})
	}

	ncode, b2, err := consumeCount(b)
	if err != nil {
		return nil, err
	}
	b = b2
	for i := uint64(0); i < ncode; i++ {
		opv, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, ErrTruncated
		}
		b = b[n:]
		op := Opcode(opv)
		ins := Instruction{Op: op}
		if op.HasArg() {
			zz, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, ErrTruncated
			}
			b = b[n:]
			ins.A = zigzagDecode(zz)
		}
		switch op {
		case GETGLOBAL, SETGLOBAL, GETATTR, IMPORT, CALLMETHOD:
			s, rest, err := consumeString(b)
			if err != nil {
				return nil, err
			}
			ins.Str = s
			b = rest
		case IMPORTFROM:
			s, rest, err := consumeString(b)
			if err != nil {
				return nil, err
			}
			ins.Str = s
			b = rest
			nn, rest2, err := consumeCount(b)
			if err != nil {
				return nil, err
			}
			b = rest2
			for j := uint64(0); j < nn; j++ {
				name, rest3, err := consumeString(b)
				if err != nil {
					return nil, err
				}
				ins.Names = append(ins.Names, name)
				b = rest3
			}
		case MAKEFUNCTION:
			return nil, ErrComplexOperand
		}
		fn.Code = append(fn.Code, ins)
	}

	return fn, nil
}

func consumeCount(b []byte) (uint64, []byte, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, nil, ErrTruncated
	}
	return v, b[n:], nil
}

func appendString(b []byte, s string) []byte {
	b = protowire.AppendVarint(b, uint64(len(s)))
	return append(b, s...)
}

func consumeString(b []byte) (string, []byte, error) {
	l, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return "", nil, ErrTruncated
	}
	b = b[n:]
	if uint64(len(b)) < l {
		return "", nil, ErrTruncated
	}
	return string(b[:l]), b[l:], nil
}

const (
	constKindInt = iota
	constKindFloat
	constKindString
)

func appendConst(b []byte, c Value) ([]byte, error) {
	switch v := c.(type) {
	case int32:
		b = protowire.AppendVarint(b, constKindInt)
		b = protowire.AppendVarint(b, zigzagEncode(v))
	case int:
		b = protowire.AppendVarint(b, constKindInt)
		b = protowire.AppendVarint(b, zigzagEncode(int32(v)))
	case float64:
		b = protowire.AppendVarint(b, constKindFloat)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	case string:
		b = protowire.AppendVarint(b, constKindString)
		b = appendString(b, v)
	default:
		return nil, fmt.Errorf("compile: unsupported constant type %T", c)
	}
	return b, nil
}

func consumeConst(b []byte) (Value, []byte, error) {
	kind, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return nil, nil, ErrTruncated
	}
	b = b[n:]
	switch kind {
	case constKindInt:
		zz, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, nil, ErrTruncated
		}
		return zigzagDecode(zz), b[n:], nil
	case constKindFloat:
		bits, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, nil, ErrTruncated
		}
		return math.Float64frombits(bits), b[n:], nil
	case constKindString:
		s, rest, err := consumeString(b)
		return s, rest, err
	default:
		return nil, nil, fmt.Errorf("compile: unknown constant kind %d", kind)
	}
}

func zigzagEncode(v int32) uint64 {
	return uint64((uint32(v) << 1) ^ uint32(v>>31))
}

func zigzagDecode(u uint64) int32 {
	v := uint32(u)
	return int32((v >> 1) ^ -(v & 1))
}
