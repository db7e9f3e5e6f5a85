package ir

import (
	"io"

	spirv "github.com/gogpu/spirv"
)

// Decode parses a little-endian binary module under the default policy.
// The returned module may be invalid; Decode reports the first recorded
// error but still returns whatever was parsed, so report-only scans can
// keep going.
func Decode(data []byte) (*Module, error) {
	return DecodeWithPolicy(data, spirv.DefaultPolicy())
}

// DecodeWithPolicy parses a binary module under an explicit policy.
func DecodeWithPolicy(data []byte, policy spirv.Policy) (*Module, error) {
	m := NewModuleWithPolicy(policy)
	m.autoAddExtensions = false
	if len(data) == 0 {
		m.fail(ErrInvalidModule, "input is empty")
		return m, m.Err()
	}
	words, err := spirv.DecodeWords(data)
	if err != nil {
		m.fail(ErrInvalidModule, err.Error())
		return m, m.Err()
	}
	m.decodeWords(words)
	return m, m.Err()
}

// DecodeFrom reads and parses a complete binary module from r.
func DecodeFrom(r io.Reader) (*Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (m *Module) fail(code ErrorCode, msg string) {
	m.errs.check(false, code, msg)
	m.valid = false
}

// decodeWords runs the parse loop over a word stream, header first.
// Parsing stops as soon as the module has been marked invalid.
func (m *Module) decodeWords(words []uint32) {
	if !m.decodeHeader(words) {
		return
	}
	var cur *Function
	i := spirv.HeaderWords
	for i < len(words) && m.valid {
		frame := words[i]
		wc := int(frame >> 16)
		op := spirv.Op(frame & 0xFFFF)
		if wc == 0 {
			m.fail(ErrInvalidModule, "zero word count in instruction frame")
			return
		}
		if i+wc > len(words) {
			m.failf(ErrInvalidModule, "%s frame of %d words runs past end of stream", op, wc)
			return
		}
		payload := words[i+1 : i+wc]
		i += wc
		cur = m.decodeInst(op, payload, cur)
	}
	m.ResolveUnresolvedFields()
}

func (m *Module) failf(code ErrorCode, format string, args ...any) {
	m.errs.checkf(false, code, format, args...)
	m.valid = false
}

// decodeHeader validates the fixed 5-word header.
func (m *Module) decodeHeader(words []uint32) bool {
	if len(words) < spirv.HeaderWords {
		m.fail(ErrInvalidModule, "truncated header")
		return false
	}
	if words[0] != spirv.MagicNumber {
		m.failf(ErrInvalidModule, "bad magic number 0x%08x", words[0])
		return false
	}
	v := spirv.VersionFromWord(words[1])
	if !m.errs.checkf(v.Known(), ErrInvalidModule, "unknown version word 0x%08x", words[1]) {
		m.valid = false
		return false
	}
	if !m.errs.check(m.policy.VersionAllowed(v), ErrRequiresVersion,
		"version "+v.String()+" exceeds the maximum allowed") {
		m.valid = false
		return false
	}
	if !m.errs.checkf(spirv.InstructionSchema(words[4]) == spirv.SchemaDefault,
		ErrInvalidModule, "unsupported instruction schema %d", words[4]) {
		m.valid = false
		return false
	}
	m.version = v
	m.generator = uint16(words[2] >> 16)
	m.genVer = uint16(words[2])
	if bound := spirv.ID(words[3]); bound > m.nextID {
		m.nextID = bound
	}
	m.schema = spirv.InstructionSchema(words[4])
	return true
}

// decodeInst dispatches one instruction. Module-state opcodes mutate
// the module directly; everything else becomes a registered entity or,
// inside a function, an opaque body instruction. It returns the
// function being parsed, if any.
func (m *Module) decodeInst(op spirv.Op, payload []uint32, cur *Function) *Function {
	if min, ok := minPayload[op]; ok && len(payload) < min {
		m.failf(ErrInvalidModule, "%s payload of %d words is too short", op, len(payload))
		return cur
	}
	switch op {
	case spirv.OpCapability:
		m.AddCapability(spirv.Capability(word(payload, 0)))
		return cur
	case spirv.OpConditionalCapabilityINTEL:
		m.condCaps[condCap{
			Cond: spirv.ID(word(payload, 0)),
			Cap:  spirv.Capability(word(payload, 1)),
		}] = struct{}{}
		return cur
	case spirv.OpExtension:
		name, _ := spirv.DecodeString(payload)
		ext, known := spirv.ExtensionFromName(name)
		if !m.errs.checkf(known, ErrRequiresExtension, "unknown extension %q", name) {
			m.valid = false
			return cur
		}
		m.AddExtension(ext)
		return cur
	case spirv.OpConditionalExtensionINTEL:
		name, _ := spirv.DecodeString(payload[1:])
		ext, known := spirv.ExtensionFromName(name)
		if !m.errs.checkf(known, ErrRequiresExtension, "unknown extension %q", name) {
			m.valid = false
			return cur
		}
		m.AddConditionalExtension(spirv.ID(word(payload, 0)), ext)
		return cur
	case spirv.OpExtInstImport:
		name, _ := spirv.DecodeString(payload[1:])
		id := spirv.ID(word(payload, 0))
		m.allocID(id, 1)
		m.importBuiltinSetWithID(name, id)
		return cur
	case spirv.OpMemoryModel:
		m.addrModel = spirv.AddressingModel(word(payload, 0))
		m.memModel = spirv.MemoryModel(word(payload, 1))
		return cur
	case spirv.OpEntryPoint:
		model := spirv.ExecutionModel(word(payload, 0))
		target := spirv.ID(word(payload, 1))
		name, n := spirv.DecodeString(payload[2:])
		m.AddEntryPoint(model, target, name, ids(payload[2+n:])...)
		return cur
	case spirv.OpConditionalEntryPointINTEL:
		cond := spirv.ID(word(payload, 0))
		model := spirv.ExecutionModel(word(payload, 1))
		target := spirv.ID(word(payload, 2))
		name, n := spirv.DecodeString(payload[3:])
		m.AddConditionalEntryPoint(cond, model, target, name, ids(payload[3+n:])...)
		return cur
	case spirv.OpExecutionMode:
		m.AddExecutionMode(spirv.ID(word(payload, 0)), spirv.ExecutionMode(word(payload, 1)), payload[2:]...)
		return cur
	case spirv.OpExecutionModeId:
		m.AddExecutionModeID(spirv.ID(word(payload, 0)), spirv.ExecutionMode(word(payload, 1)), ids(payload[2:])...)
		return cur
	case spirv.OpSource:
		m.srcLang = spirv.SourceLanguage(word(payload, 0))
		m.srcLangVer = word(payload, 1)
		return cur
	case spirv.OpSourceContinued:
		return cur
	case spirv.OpSourceExtension:
		name, _ := spirv.DecodeString(payload)
		m.AddSourceExtension(name)
		return cur
	case spirv.OpName:
		name, _ := spirv.DecodeString(payload[1:])
		m.SetName(m.ensure(spirv.ID(word(payload, 0))), name)
		return cur
	case spirv.OpMemberName:
		name, _ := spirv.DecodeString(payload[2:])
		m.AddMemberName(spirv.ID(word(payload, 0)), word(payload, 1), name)
		return cur
	case spirv.OpModuleProcessed:
		note, _ := spirv.DecodeString(payload)
		m.AddModuleProcessed(note)
		return cur
	case spirv.OpLine:
		m.SetCurrentLine(spirv.ID(word(payload, 0)), word(payload, 1), word(payload, 2))
		return cur
	case spirv.OpNoLine:
		m.ClearCurrentLine()
		m.ClearCurrentDebugLine()
		return cur
	case spirv.OpString:
		e := m.decodeEntity(op, payload)
		if e != nil {
			s, _ := spirv.DecodeString(e.Words)
			m.strMap[s] = e
		}
		return cur
	case spirv.OpDecorate, spirv.OpMemberDecorate,
		spirv.OpGroupDecorate, spirv.OpGroupMemberDecorate:
		if len(payload) > 0 {
			m.ensure(spirv.ID(payload[0]))
		}
		m.decodeEntity(op, payload)
		return cur
	case spirv.OpFunction:
		e := m.decodeEntity(op, payload)
		if e == nil {
			return cur
		}
		fn := &Function{Entity: e}
		m.functions = append(m.functions, fn)
		return fn
	case spirv.OpFunctionParameter:
		if e := m.decodeEntity(op, payload); e != nil && cur != nil {
			cur.Params = append(cur.Params, e)
		}
		return cur
	case spirv.OpFunctionEnd:
		m.ClearCurrentDebugLine()
		return nil
	}

	if cur != nil {
		return m.decodeBodyInst(op, payload, cur)
	}

	_, known := spirv.Lookup(op)
	if !m.errs.checkf(known, ErrUnimplementedOpCode, "unimplemented opcode %d", uint16(op)) {
		m.valid = false
		return cur
	}
	e := m.decodeEntity(op, payload)
	if e != nil && op == spirv.OpTypeStruct {
		m.noteStructFields(e)
	}
	return cur
}

// decodeBodyInst handles an instruction between OpFunction and
// OpFunctionEnd. Debug function-definition records are registered as
// module debug entities and kept in the body, where the writer dedups
// them. Everything else rides along opaquely.
func (m *Module) decodeBodyInst(op spirv.Op, payload []uint32, cur *Function) *Function {
	if op == spirv.OpExtInst && len(payload) >= 4 {
		set := spirv.ID(payload[2])
		if name, ok := m.instSets[set]; ok && isDebugInfoSet(name) && payload[3] == debugOpFunctionDefinition {
			e := m.decodeEntity(op, payload)
			if e != nil {
				e.inBody = true
			}
			cur.Body = append(cur.Body, BodyInst{
				Inst:   spirv.Instruction{Opcode: op, Words: append([]uint32(nil), payload...)},
				Result: spirv.ID(payload[1]),
			})
			return cur
		}
	}
	if !m.errs.checkf(op.Known(), ErrUnimplementedOpCode, "unimplemented opcode %d", uint16(op)) {
		m.valid = false
		return cur
	}
	result := spirv.InvalidID
	if info, ok := spirv.Lookup(op); ok && info.HasResult {
		idx := 0
		if info.HasType {
			idx = 1
		}
		if idx < len(payload) {
			result = spirv.ID(payload[idx])
			m.allocID(result, 1)
		}
	} else if op == spirv.OpLabel && len(payload) >= 1 {
		result = spirv.ID(payload[0])
		m.allocID(result, 1)
	}
	cur.Body = append(cur.Body, BodyInst{
		Inst:   spirv.Instruction{Opcode: op, Words: append([]uint32(nil), payload...)},
		Result: result,
	})
	return cur
}

// decodeEntity splits a payload per the opcode layout and registers the
// entity. A payload too short for its mandatory leading words
// invalidates the module.
func (m *Module) decodeEntity(op spirv.Op, payload []uint32) *Entity {
	info, ok := spirv.Lookup(op)
	if !ok {
		m.failf(ErrUnimplementedOpCode, "unimplemented opcode %d", uint16(op))
		return nil
	}
	need := 0
	if info.HasType {
		need++
	}
	if info.HasResult {
		need++
	}
	if len(payload) < need {
		m.failf(ErrInvalidModule, "%s payload of %d words is too short", op, len(payload))
		return nil
	}
	e := &Entity{Op: op}
	w := payload
	if info.HasType {
		e.Type = spirv.ID(w[0])
		w = w[1:]
	}
	if info.HasResult {
		e.ID = spirv.ID(w[0])
		w = w[1:]
	}
	e.Words = append([]uint32(nil), w...)
	return m.Add(e)
}

// noteStructFields records struct members whose types are not yet
// defined, to be re-checked once the stream is exhausted.
func (m *Module) noteStructFields(e *Entity) {
	for i, w := range e.Words {
		id := spirv.ID(w)
		if ent, ok := m.Exist(id); ok && !ent.IsForward() {
			continue
		}
		m.noteUnresolvedField(e, i, id)
	}
}

// minPayload covers the module-state opcodes decodeInst slices into
// directly. Entities get the equivalent check in decodeEntity.
var minPayload = map[spirv.Op]int{
	spirv.OpName:                       2,
	spirv.OpMemberName:                 3,
	spirv.OpExtInstImport:              2,
	spirv.OpConditionalExtensionINTEL:  2,
	spirv.OpEntryPoint:                 3,
	spirv.OpConditionalEntryPointINTEL: 4,
	spirv.OpExecutionMode:              2,
	spirv.OpExecutionModeId:            2,
}

func word(payload []uint32, i int) uint32 {
	if i >= len(payload) {
		return 0
	}
	return payload[i]
}

func ids(words []uint32) []spirv.ID {
	out := make([]spirv.ID, len(words))
	for i, w := range words {
		out[i] = spirv.ID(w)
	}
	return out
}
