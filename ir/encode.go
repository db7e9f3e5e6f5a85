package ir

import (
	"fmt"
	"io"
	"sort"

	spirv "github.com/gogpu/spirv"
)

// encoder accumulates the serialized word stream. line is the OpLine
// marker in effect at the current write position.
type encoder struct {
	words []uint32
	line  *Entity
	err   error
}

func (enc *encoder) inst(i spirv.Instruction) {
	if enc.err != nil {
		return
	}
	words, err := i.Encode()
	if err != nil {
		enc.err = err
		return
	}
	enc.words = append(enc.words, words...)
}

func (enc *encoder) entity(e *Entity) { enc.inst(e.Instruction()) }

// lined writes e behind its line marker: when the entity carries a
// marker that differs from the one in effect, the OpLine transition is
// emitted first. Entities without a marker leave the running one alone.
func (enc *encoder) lined(e *Entity) {
	if e.Line != nil && !sameMarker(e.Line, enc.line) {
		enc.inst(e.Line.Instruction())
		enc.line = e.Line
	}
	enc.inst(e.Instruction())
}

func sameMarker(a, b *Entity) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Op != b.Op || len(a.Words) != len(b.Words) {
		return false
	}
	for i := range a.Words {
		if a.Words[i] != b.Words[i] {
			return false
		}
	}
	return true
}

func (enc *encoder) op(op spirv.Op, words ...uint32) {
	enc.inst(spirv.Instruction{Opcode: op, Words: words})
}

// Words serializes the module to its binary word stream: the fixed
// header followed by the sections in their mandated order. The
// type/constant/variable stream is topologically sorted on the way out.
func (m *Module) Words() ([]uint32, error) {
	m.ResolveUnresolvedFields()
	if !m.valid {
		if err := m.Err(); err != nil {
			return nil, err
		}
		return nil, &Error{Code: ErrInvalidModule, Msg: "module marked invalid"}
	}

	sorted, synthFwd := m.sortedGlobals()

	enc := &encoder{words: make([]uint32, 0, spirv.HeaderWords+64)}
	enc.words = append(enc.words,
		spirv.MagicNumber,
		m.version.Word(),
		uint32(m.generator)<<16|uint32(m.genVer),
		uint32(m.nextID),
		uint32(m.schema),
	)

	for _, c := range m.Capabilities() {
		enc.op(spirv.OpCapability, uint32(c))
	}
	for _, k := range m.sortedCondCaps() {
		enc.op(spirv.OpConditionalCapabilityINTEL, uint32(k.Cond), uint32(k.Cap))
	}
	for _, name := range m.ExtensionNames() {
		enc.op(spirv.OpExtension, spirv.EncodeString(name)...)
	}
	for _, k := range m.sortedCondExts() {
		words := append([]uint32{uint32(k.Cond)}, spirv.EncodeString(k.Ext.String())...)
		enc.op(spirv.OpConditionalExtensionINTEL, words...)
	}
	for _, id := range sortedIDs(m.instSets) {
		words := append([]uint32{uint32(id)}, spirv.EncodeString(m.instSets[id])...)
		enc.op(spirv.OpExtInstImport, words...)
	}
	enc.op(spirv.OpMemoryModel, uint32(m.addrModel), uint32(m.memModel))

	for _, ep := range m.entryPoints {
		enc.inst(entryPointInst(spirv.OpEntryPoint, ep))
	}
	for _, ep := range m.condEntryPoints {
		enc.inst(entryPointInst(spirv.OpConditionalEntryPointINTEL, ep))
	}
	m.encodeExecutionModes(enc)

	for _, e := range m.strings {
		enc.entity(e)
	}
	for _, name := range sortedStrings(m.srcExts) {
		enc.op(spirv.OpSourceExtension, spirv.EncodeString(name)...)
	}
	enc.op(spirv.OpSource, uint32(m.srcLang), m.srcLangVer)

	for _, id := range sortedIDs(m.namedIDs) {
		if m.isAnyEntryPoint(id) {
			continue
		}
		e, ok := m.entries[id]
		if !ok || e.Name == "" {
			continue
		}
		words := append([]uint32{uint32(id)}, spirv.EncodeString(e.Name)...)
		enc.op(spirv.OpName, words...)
	}

	if m.policy.ExtensionAllowed(spirv.ExtSPVINTELMemoryAccessAliasing) {
		for _, e := range m.aliasDecl {
			enc.entity(e)
		}
	}

	for _, mn := range m.memberNames {
		words := append([]uint32{uint32(mn.Struct), mn.Member}, spirv.EncodeString(mn.Name)...)
		enc.op(spirv.OpMemberName, words...)
	}
	for _, note := range m.processed {
		enc.op(spirv.OpModuleProcessed, spirv.EncodeString(note)...)
	}
	for _, g := range m.decGroups {
		for _, d := range g.Members {
			enc.entity(d)
		}
		enc.entity(g.Entity)
	}
	for _, d := range m.decorations {
		enc.entity(d)
	}
	for _, gd := range m.groupDecorates {
		enc.entity(gd)
	}
	for _, e := range m.fwdPtrs {
		enc.entity(e)
	}
	for _, e := range synthFwd {
		enc.entity(e)
	}
	for _, e := range sorted {
		enc.lined(e)
	}

	if m.policy.ExtensionAllowed(spirv.ExtSPVINTELInlineAssembly) {
		for _, e := range m.asmTarget {
			enc.entity(e)
		}
		for _, e := range m.asmInst {
			enc.entity(e)
		}
	}

	for _, e := range m.debugInst {
		if e.inBody && debugExtOp(e) == debugOpFunctionDefinition {
			continue
		}
		enc.entity(e)
	}
	for _, e := range m.auxData {
		enc.entity(e)
	}

	for _, fn := range m.functions {
		enc.lined(fn.Entity)
		for _, p := range fn.Params {
			enc.lined(p)
		}
		for _, bi := range fn.Body {
			enc.inst(bi.Inst)
		}
		enc.op(spirv.OpFunctionEnd)
		// A line marker does not survive the end of a function.
		enc.line = nil
	}

	if enc.err != nil {
		return nil, fmt.Errorf("ir: encode: %w", enc.err)
	}
	return enc.words, nil
}

// Bytes serializes the module to little-endian binary.
func (m *Module) Bytes() ([]byte, error) {
	words, err := m.Words()
	if err != nil {
		return nil, err
	}
	return spirv.EncodeWords(words), nil
}

// WriteTo serializes the module to w.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	data, err := m.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// encodeExecutionModes emits each entry point's execution modes, in
// entry point order, once per target.
func (m *Module) encodeExecutionModes(enc *encoder) {
	done := make(map[spirv.ID]struct{})
	targets := make([]spirv.ID, 0, len(m.entryPoints)+len(m.condEntryPoints))
	for _, ep := range m.entryPoints {
		targets = append(targets, ep.Target)
	}
	for _, ep := range m.condEntryPoints {
		targets = append(targets, ep.Target)
	}
	for _, target := range targets {
		if _, ok := done[target]; ok {
			continue
		}
		done[target] = struct{}{}
		for _, em := range m.execModes[target] {
			op := spirv.OpExecutionMode
			if em.ByID {
				op = spirv.OpExecutionModeId
			}
			words := append([]uint32{uint32(target), uint32(em.Mode)}, em.Operands...)
			enc.op(op, words...)
		}
	}
}

func entryPointInst(op spirv.Op, ep *EntryPoint) spirv.Instruction {
	var words []uint32
	if op == spirv.OpConditionalEntryPointINTEL {
		words = append(words, uint32(ep.Cond))
	}
	words = append(words, uint32(ep.Model), uint32(ep.Target))
	words = append(words, spirv.EncodeString(ep.Name)...)
	for _, id := range ep.Interfaces {
		words = append(words, uint32(id))
	}
	return spirv.Instruction{Opcode: op, Words: words}
}

// debugExtOp returns the extended instruction number of a debug
// OpExtInst entity.
func debugExtOp(e *Entity) uint32 {
	if e.Op != spirv.OpExtInst {
		return 0
	}
	return e.Word(1)
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
