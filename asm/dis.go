package asm

import (
	"fmt"
	"strconv"
	"strings"

	spirv "github.com/gogpu/spirv"
)

// Disassemble renders a binary module as human-oriented assembly:
// header comments, `%n = Op...` result assignments, quoted strings,
// and symbolic enum operands where the opcode is understood. It is a
// display format only; Text is the machine round-trip form.
func Disassemble(data []byte) (string, error) {
	words, err := spirv.DecodeWords(data)
	if err != nil {
		return "", err
	}
	if len(words) < spirv.HeaderWords {
		return "", fmt.Errorf("asm: stream of %d words has no header", len(words))
	}
	if words[0] != spirv.MagicNumber {
		return "", fmt.Errorf("asm: bad magic number 0x%08x", words[0])
	}
	v := spirv.VersionFromWord(words[1])

	var b strings.Builder
	fmt.Fprintf(&b, "; SPIR-V\n")
	fmt.Fprintf(&b, "; Version: %s\n", v)
	fmt.Fprintf(&b, "; Generator: 0x%08X\n", words[2])
	fmt.Fprintf(&b, "; Bound: %d\n", words[3])
	fmt.Fprintf(&b, "; Schema: %d\n\n", words[4])

	i := spirv.HeaderWords
	for i < len(words) {
		frame := words[i]
		wc := int(frame >> 16)
		op := spirv.Op(frame & 0xFFFF)
		if wc == 0 || i+wc > len(words) {
			return "", fmt.Errorf("asm: bad frame at word %d", i)
		}
		writeInst(&b, op, words[i+1:i+wc])
		i += wc
	}
	return b.String(), nil
}

func writeInst(b *strings.Builder, op spirv.Op, payload []uint32) {
	info, structural := spirv.Lookup(op)
	lhs, typeID := "", ""
	if structural {
		if info.HasType && len(payload) > 0 {
			typeID = id(payload[0])
			payload = payload[1:]
		}
		if info.HasResult && len(payload) > 0 {
			lhs = id(payload[0])
			payload = payload[1:]
		}
	}
	if lhs != "" {
		fmt.Fprintf(b, "%12s = %s", lhs, op)
	} else {
		fmt.Fprintf(b, "%15s%s", "", op)
	}
	if typeID != "" {
		fmt.Fprintf(b, " %s", typeID)
	}
	writeOperands(b, op, info, structural, payload)
	b.WriteByte('\n')
}

func writeOperands(b *strings.Builder, op spirv.Op, info spirv.OpInfo, structural bool, w []uint32) {
	if !structural {
		for _, x := range w {
			fmt.Fprintf(b, " %d", x)
		}
		return
	}
	lit := 0
	for _, kind := range info.Layout {
		if len(w) == 0 {
			return
		}
		switch kind {
		case spirv.OperandID, spirv.OperandOptionalID:
			fmt.Fprintf(b, " %s", id(w[0]))
			w = w[1:]
		case spirv.OperandLiteral:
			fmt.Fprintf(b, " %s", literal(op, lit, w[0]))
			lit++
			w = w[1:]
		case spirv.OperandString, spirv.OperandOptionalString:
			s, n := spirv.DecodeString(w)
			fmt.Fprintf(b, " %q", s)
			w = w[n:]
		case spirv.OperandVariadicIDs:
			for _, x := range w {
				fmt.Fprintf(b, " %s", id(x))
			}
			return
		case spirv.OperandVariadicLiterals:
			for _, x := range w {
				fmt.Fprintf(b, " %d", x)
			}
			return
		case spirv.OperandVariadicIDLiteralPairs:
			for len(w) >= 2 {
				fmt.Fprintf(b, " %s %d", id(w[0]), w[1])
				w = w[2:]
			}
			return
		}
	}
	for _, x := range w {
		fmt.Fprintf(b, " %d", x)
	}
}

// literal renders the i-th literal operand of an opcode symbolically
// when that position carries an enum; everything else prints
// numerically.
func literal(op spirv.Op, i int, v uint32) string {
	switch {
	case op == spirv.OpCapability && i == 0,
		op == spirv.OpConditionalCapabilityINTEL && i == 0:
		return spirv.Capability(v).String()
	case op == spirv.OpTypePointer && i == 0,
		op == spirv.OpTypeUntypedPointerKHR && i == 0,
		op == spirv.OpVariable && i == 0,
		op == spirv.OpUntypedVariableKHR && i == 0,
		op == spirv.OpTypeForwardPointer && i == 0:
		return spirv.StorageClass(v).String()
	case op == spirv.OpEntryPoint && i == 0,
		op == spirv.OpConditionalEntryPointINTEL && i == 0:
		return spirv.ExecutionModel(v).String()
	case op == spirv.OpMemoryModel && i == 0:
		return spirv.AddressingModel(v).String()
	case op == spirv.OpMemoryModel && i == 1:
		return spirv.MemoryModel(v).String()
	case op == spirv.OpDecorate && i == 0, op == spirv.OpMemberDecorate && i == 1:
		return spirv.Decoration(v).String()
	}
	return strconv.FormatUint(uint64(v), 10)
}

func id(n uint32) string {
	return "%" + strconv.FormatUint(uint64(n), 10)
}
