// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package disasm renders SPIR-V binaries as human-readable .spvasm text.
//
// The output follows the layout of the reference spirv-dis tool closely
// enough to eyeball and diff, but makes no stability promise. It exists so
// the compiler driver can offer a disassembly mode without shelling out to
// an external tool.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Magic is the SPIR-V magic number in host word order.
const Magic = 0x07230203

// Disassemble renders a SPIR-V module, given as 32-bit words, as assembly
// text. It fails on a bad header or a malformed instruction stream; text
// disassembled before the malformed instruction is discarded.
func Disassemble(words []uint32) (string, error) {
	if len(words) < 5 {
		return "", fmt.Errorf("disasm: module too small: %d words", len(words))
	}
	if words[0] != Magic {
		return "", fmt.Errorf("disasm: invalid SPIR-V magic 0x%08X", words[0])
	}

	d := &disassembler{names: lookupNames()}
	d.writeHeader(words)

	for i := 5; i < len(words); {
		opcode := uint16(words[i] & 0xFFFF)
		count := int(words[i] >> 16)
		if count == 0 || i+count > len(words) {
			return "", fmt.Errorf("disasm: invalid word count %d at word %d", count, i)
		}
		d.writeInstruction(opcode, words[i+1:i+count])
		i += count
	}
	return d.out.String(), nil
}

// DisassembleBytes is Disassemble for a raw little-endian binary.
func DisassembleBytes(data []byte) (string, error) {
	if len(data)%4 != 0 {
		return "", fmt.Errorf("disasm: binary size %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return Disassemble(words)
}

type disassembler struct {
	out   strings.Builder
	names *debugNames
}

func (d *disassembler) writeHeader(words []uint32) {
	version := words[1]
	fmt.Fprintf(&d.out, "; SPIR-V\n")
	fmt.Fprintf(&d.out, "; Version: %d.%d\n", (version>>16)&0xFF, (version>>8)&0xFF)
	fmt.Fprintf(&d.out, "; Generator: 0x%08X\n", words[2])
	fmt.Fprintf(&d.out, "; Bound: %d\n", words[3])
	fmt.Fprintf(&d.out, "; Schema: %d\n", words[4])
	d.out.WriteString("\n")
}

// plain writes an instruction with no result id; typed writes one whose
// first rendered token is the result id.
func (d *disassembler) plain(format string, args ...any) {
	fmt.Fprintf(&d.out, "               "+format+"\n", args...)
}

func (d *disassembler) typed(result uint32, format string, args ...any) {
	fmt.Fprintf(&d.out, "         %s = "+format+"\n",
		append([]any{id(result)}, args...)...)
}

func id(n uint32) string {
	return fmt.Sprintf("%%_%d", n)
}

func enum(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}

// decodeString reads a NUL-terminated literal string packed little-endian
// into ops, returning the string and the number of words it occupied.
func decodeString(ops []uint32) (string, int) {
	var sb strings.Builder
	for wi, w := range ops {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return sb.String(), wi + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(ops)
}

func ids(ops []uint32) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = id(op)
	}
	return strings.Join(parts, " ")
}

func literals(ops []uint32) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%d", op)
	}
	return strings.Join(parts, " ")
}

func trail(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

func (d *disassembler) opcodeName(opcode uint16) string {
	if name := d.names.opcodes[opcode]; name != "" {
		return name
	}
	return fmt.Sprintf("Op%d", opcode)
}

//nolint:gocyclo,cyclop,funlen // one case per SPIR-V opcode layout
func (d *disassembler) writeInstruction(opcode uint16, ops []uint32) {
	name := d.opcodeName(opcode)

	switch opcode {
	case 17: // OpCapability
		d.plain("%s %s", name, enum(d.names.capabilities, ops[0]))

	case 11: // OpExtInstImport
		str, _ := decodeString(ops[1:])
		d.typed(ops[0], "%s %q", name, str)

	case 14: // OpMemoryModel
		d.plain("%s %s %s", name,
			enum(d.names.addressModels, ops[0]), enum(d.names.memoryModels, ops[1]))

	case 15: // OpEntryPoint
		str, n := decodeString(ops[2:])
		d.plain("%s %s %s %q%s", name,
			enum(d.names.executionModels, ops[0]), id(ops[1]), str, trail(ids(ops[2+n:])))

	case 16: // OpExecutionMode
		d.plain("%s %s %s%s", name, id(ops[0]),
			enum(d.names.executionModes, ops[1]), trail(literals(ops[2:])))

	case 5: // OpName
		str, _ := decodeString(ops[1:])
		d.plain("%s %s %q", name, id(ops[0]), str)

	case 6: // OpMemberName
		str, _ := decodeString(ops[2:])
		d.plain("%s %s %d %q", name, id(ops[0]), ops[1], str)

	case 71: // OpDecorate
		dec := enum(d.names.decorations, ops[1])
		if ops[1] == 11 && len(ops) > 2 { // BuiltIn
			d.plain("%s %s %s %s", name, id(ops[0]), dec, enum(d.names.builtins, ops[2]))
		} else {
			d.plain("%s %s %s%s", name, id(ops[0]), dec, trail(literals(ops[2:])))
		}

	case 72: // OpMemberDecorate
		d.plain("%s %s %d %s%s", name, id(ops[0]), ops[1],
			enum(d.names.decorations, ops[2]), trail(literals(ops[3:])))

	case 19, 20, 26: // OpTypeVoid, OpTypeBool, OpTypeSampler
		d.typed(ops[0], "%s", name)

	case 21: // OpTypeInt
		d.typed(ops[0], "%s %d %d", name, ops[1], ops[2])

	case 22: // OpTypeFloat
		d.typed(ops[0], "%s %d", name, ops[1])

	case 23, 24: // OpTypeVector, OpTypeMatrix
		d.typed(ops[0], "%s %s %d", name, id(ops[1]), ops[2])

	case 25: // OpTypeImage
		// Result SampledType Dim Depth Arrayed MS Sampled Format [Access]
		line := fmt.Sprintf("%s %s %s %d %d %d %d Unknown", name, id(ops[1]),
			enum(d.names.dims, ops[2]), ops[3], ops[4], ops[5], ops[6])
		if ops[6] != 1 && len(ops) > 7 {
			line += fmt.Sprintf(" %d", ops[7])
		}
		d.typed(ops[0], "%s", line)

	case 27: // OpTypeSampledImage
		d.typed(ops[0], "%s %s", name, id(ops[1]))

	case 28: // OpTypeArray
		d.typed(ops[0], "%s %s %s", name, id(ops[1]), id(ops[2]))

	case 30, 33: // OpTypeStruct, OpTypeFunction
		d.typed(ops[0], "%s%s", name, trail(ids(ops[1:])))

	case 32: // OpTypePointer
		d.typed(ops[0], "%s %s %s", name, enum(d.names.storageClasses, ops[1]), id(ops[2]))

	case 43: // OpConstant
		d.typed(ops[1], "%s %s %d", name, id(ops[0]), ops[2])

	case 44: // OpConstantComposite
		d.typed(ops[1], "%s %s%s", name, id(ops[0]), trail(ids(ops[2:])))

	case 54: // OpFunction
		d.typed(ops[1], "%s %s None %s", name, id(ops[0]), id(ops[3]))

	case 55: // OpFunctionParameter
		d.typed(ops[1], "%s %s", name, id(ops[0]))

	case 56, 253: // OpFunctionEnd, OpReturn
		d.plain("%s", name)

	case 59: // OpVariable
		d.typed(ops[1], "%s %s %s", name, id(ops[0]), enum(d.names.storageClasses, ops[2]))

	case 61: // OpLoad
		d.typed(ops[1], "%s %s %s", name, id(ops[0]), id(ops[2]))

	case 62: // OpStore
		d.plain("%s %s %s", name, id(ops[0]), id(ops[1]))

	case 65, 80: // OpAccessChain, OpCompositeConstruct
		d.typed(ops[1], "%s %s%s", name, id(ops[0]), trail(ids(ops[2:])))

	case 81: // OpCompositeExtract
		d.typed(ops[1], "%s %s %s%s", name, id(ops[0]), id(ops[2]), trail(literals(ops[3:])))

	case 79: // OpVectorShuffle
		d.typed(ops[1], "%s %s %s %s%s", name, id(ops[0]), id(ops[2]), id(ops[3]),
			trail(literals(ops[4:])))

	case 86, 87: // OpSampledImage, OpImageSampleImplicitLod
		d.typed(ops[1], "%s %s %s %s", name, id(ops[0]), id(ops[2]), id(ops[3]))

	case 248: // OpLabel
		d.typed(ops[0], "%s", name)

	case 249: // OpBranch
		d.plain("%s %s", name, id(ops[0]))

	case 254: // OpReturnValue
		d.plain("%s %s", name, id(ops[0]))

	default:
		d.writeGeneric(name, opcode, ops)
	}
}

func (d *disassembler) writeGeneric(name string, opcode uint16, ops []uint32) {
	// Arithmetic and logic opcodes share the (type, result, operands...)
	// layout; everything else is rendered as bare ids.
	if len(ops) >= 2 && opcode >= 126 && opcode <= 205 {
		d.typed(ops[1], "%s %s%s", name, id(ops[0]), trail(ids(ops[2:])))
		return
	}
	if len(ops) == 0 {
		d.plain("%s", name)
		return
	}
	d.plain("%s %s", name, ids(ops))
}
