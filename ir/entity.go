package ir

import (
	spirv "github.com/gogpu/spirv"
)

// Entity is one module-scope instruction held by the registry. Type
// and result ids, when the opcode carries them, are split out of the
// operand words; Words holds everything after them.
//
// A forward placeholder is an Entity whose Op is the internal forward
// marker: it reserves an id that a later instruction will claim.
type Entity struct {
	Op   spirv.Op
	ID   spirv.ID
	Type spirv.ID

	// Words are the operand words after the optional result type and
	// result id.
	Words []uint32

	// Name is the OpName debug name, if any.
	Name string

	// Line is the OpLine marker active when the entity was created.
	// Markers are shared between consecutive entities on the same line.
	Line *Entity

	// DebugLine is the extended debug-line instruction active when the
	// entity was created, if any.
	DebugLine *Entity

	// inBody marks a debug record that is also embedded in a function
	// body, so the debug section must not emit it again.
	inBody bool
}

// IsForward reports whether e is an unresolved forward placeholder.
func (e *Entity) IsForward() bool { return e.Op == spirv.OpForward }

// Word returns operand word i, or 0 when the entity is too short.
func (e *Entity) Word(i int) uint32 {
	if i < 0 || i >= len(e.Words) {
		return 0
	}
	return e.Words[i]
}

// OperandIDs returns every id the entity references: the result type,
// if present, followed by the id operands in layout order. Literal and
// string operands are skipped.
func (e *Entity) OperandIDs() []spirv.ID {
	var ids []spirv.ID
	if e.Type != spirv.InvalidID {
		ids = append(ids, e.Type)
	}
	info, ok := spirv.Lookup(e.Op)
	if !ok {
		return ids
	}
	w := e.Words
	for _, kind := range info.Layout {
		if len(w) == 0 {
			break
		}
		switch kind {
		case spirv.OperandID, spirv.OperandOptionalID:
			ids = append(ids, spirv.ID(w[0]))
			w = w[1:]
		case spirv.OperandLiteral:
			w = w[1:]
		case spirv.OperandString, spirv.OperandOptionalString:
			_, n := spirv.DecodeString(w)
			w = w[n:]
		case spirv.OperandVariadicIDs:
			for _, x := range w {
				ids = append(ids, spirv.ID(x))
			}
			w = nil
		case spirv.OperandVariadicLiterals:
			w = nil
		case spirv.OperandVariadicIDLiteralPairs:
			for len(w) >= 2 {
				ids = append(ids, spirv.ID(w[0]))
				w = w[2:]
			}
			w = nil
		}
	}
	return ids
}

// Instruction assembles the entity back into its wire form.
func (e *Entity) Instruction() spirv.Instruction {
	words := make([]uint32, 0, 2+len(e.Words))
	if info, ok := spirv.Lookup(e.Op); ok {
		if info.HasType {
			words = append(words, uint32(e.Type))
		}
		if info.HasResult {
			words = append(words, uint32(e.ID))
		}
	}
	words = append(words, e.Words...)
	return spirv.Instruction{Opcode: e.Op, Words: words}
}

// requiredCapabilities lists the capabilities the entity cannot be
// encoded without.
func (e *Entity) requiredCapabilities() []spirv.Capability {
	switch e.Op {
	case spirv.OpTypeInt:
		switch e.Word(0) {
		case 8:
			return []spirv.Capability{spirv.CapabilityInt8}
		case 16:
			return []spirv.Capability{spirv.CapabilityInt16}
		case 32:
			return nil
		case 64:
			return []spirv.Capability{spirv.CapabilityInt64}
		default:
			return []spirv.Capability{spirv.CapabilityArbitraryPrecisionIntegersINTEL}
		}
	case spirv.OpTypeFloat:
		switch e.Word(0) {
		case 16:
			return []spirv.Capability{spirv.CapabilityFloat16}
		case 64:
			return []spirv.Capability{spirv.CapabilityFloat64}
		}
	case spirv.OpTypeMatrix:
		return []spirv.Capability{spirv.CapabilityMatrix}
	case spirv.OpTypeEvent:
		return []spirv.Capability{spirv.CapabilityKernel}
	case spirv.OpTypeDeviceEvent, spirv.OpTypeQueue:
		return []spirv.Capability{spirv.CapabilityDeviceEnqueue}
	case spirv.OpTypeReserveId, spirv.OpTypePipe:
		return []spirv.Capability{spirv.CapabilityPipes}
	case spirv.OpTypeUntypedPointerKHR, spirv.OpUntypedVariableKHR:
		return []spirv.Capability{spirv.CapabilityUntypedPointersKHR}
	case spirv.OpAsmTargetINTEL, spirv.OpAsmINTEL, spirv.OpAsmCallINTEL:
		return []spirv.Capability{spirv.CapabilityAsmINTEL}
	case spirv.OpAliasDomainDeclINTEL, spirv.OpAliasScopeDeclINTEL, spirv.OpAliasScopeListDeclINTEL:
		return []spirv.Capability{spirv.CapabilityMemoryAccessAliasingINTEL}
	case spirv.OpConditionalCapabilityINTEL, spirv.OpConditionalExtensionINTEL, spirv.OpConditionalEntryPointINTEL:
		return []spirv.Capability{spirv.CapabilityFunctionVariantsINTEL}
	case spirv.OpDecorate:
		if len(e.Words) >= 2 {
			if c := spirv.Decoration(e.Words[1]).RequiredCapability(); c != spirv.CapabilityNone {
				return []spirv.Capability{c}
			}
		}
	case spirv.OpMemberDecorate:
		if len(e.Words) >= 3 {
			if c := spirv.Decoration(e.Words[2]).RequiredCapability(); c != spirv.CapabilityNone {
				return []spirv.Capability{c}
			}
		}
	}
	return nil
}

// requiredExtension names the extension the entity cannot be encoded
// without, or ExtensionNone.
func (e *Entity) requiredExtension() spirv.Extension {
	switch e.Op {
	case spirv.OpTypeInt:
		switch e.Word(0) {
		case 8, 16, 32, 64:
			return spirv.ExtensionNone
		}
		return spirv.ExtSPVINTELArbitraryPrecisionIntegers
	case spirv.OpAsmTargetINTEL, spirv.OpAsmINTEL, spirv.OpAsmCallINTEL:
		return spirv.ExtSPVINTELInlineAssembly
	case spirv.OpAliasDomainDeclINTEL, spirv.OpAliasScopeDeclINTEL, spirv.OpAliasScopeListDeclINTEL:
		return spirv.ExtSPVINTELMemoryAccessAliasing
	case spirv.OpTypeUntypedPointerKHR, spirv.OpUntypedVariableKHR:
		return spirv.ExtSPVKHRUntypedPointers
	case spirv.OpConditionalCapabilityINTEL, spirv.OpConditionalExtensionINTEL, spirv.OpConditionalEntryPointINTEL:
		return spirv.ExtSPVINTELFunctionVariants
	}
	return spirv.ExtensionNone
}
