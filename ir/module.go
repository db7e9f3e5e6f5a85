package ir

import (
	"fmt"
	"sort"

	spirv "github.com/gogpu/spirv"
)

// MemberName is a debug name attached to one struct member.
type MemberName struct {
	Struct spirv.ID
	Member uint32
	Name   string
}

// DecorationGroup is an OpDecorationGroup together with the decorations
// it absorbed from the pending list.
type DecorationGroup struct {
	Entity  *Entity
	Members []*Entity
}

// EntryPoint records one OpEntryPoint, or a conditional entry point when
// Cond is a valid id.
type EntryPoint struct {
	Cond       spirv.ID
	Model      spirv.ExecutionModel
	Target     spirv.ID
	Name       string
	Interfaces []spirv.ID
}

// ExecutionMode records one execution mode attached to an entry point.
type ExecutionMode struct {
	Mode     spirv.ExecutionMode
	Operands []uint32
	ByID     bool // OpExecutionModeId form
}

type condCap struct {
	Cond spirv.ID
	Cap  spirv.Capability
}

type condExt struct {
	Cond spirv.ID
	Ext  spirv.Extension
}

type floatKey struct {
	Width    uint32
	Encoding spirv.FPEncoding
}

type pointerKey struct {
	Storage spirv.StorageClass
	Pointee spirv.ID
}

type structFieldRef struct {
	Struct *Entity
	Index  int
	Type   spirv.ID
}

// Module is the in-memory SPIR-V module container.
type Module struct {
	policy spirv.Policy

	version   spirv.Version
	generator uint16
	genVer    uint16
	schema    spirv.InstructionSchema
	nextID    spirv.ID

	srcLang    spirv.SourceLanguage
	srcLangVer uint32
	addrModel  spirv.AddressingModel
	memModel   spirv.MemoryModel

	autoAddCapability  bool
	autoAddExtensions  bool
	validateCapability bool

	errs  errorLog
	valid bool

	entries     map[spirv.ID]*Entity
	typeForward map[spirv.ID]*Entity // forward pointer declarations, keyed by pointer id
	noID        map[*Entity]struct{}
	namedIDs    map[spirv.ID]struct{}

	types     []*Entity
	constants []*Entity
	variables []*Entity
	strings   []*Entity
	debugInst []*Entity
	auxData   []*Entity
	asmTarget []*Entity
	asmInst   []*Entity
	aliasDecl []*Entity
	fwdPtrs   []*Entity

	memberNames []MemberName
	processed   []string

	strMap map[string]*Entity

	caps     map[spirv.Capability]struct{}
	condCaps map[condCap]struct{}
	exts     map[string]struct{}
	condExts map[condExt]struct{}
	srcExts  map[string]struct{}

	entryPoints     []*EntryPoint
	entryPointSet   map[spirv.ExecutionModel]map[spirv.ID]struct{}
	condEntryPoints []*EntryPoint
	condEPSet       map[spirv.ExecutionModel]map[spirv.ID]struct{}
	execModes       map[spirv.ID][]ExecutionMode

	instSets   map[spirv.ID]string
	instSetIDs map[string]spirv.ID

	functions []*Function

	voidType     *Entity
	boolType     *Entity
	intTypes     map[uint32]*Entity
	floatTypes   map[floatKey]*Entity
	pointerTypes map[pointerKey]*Entity
	untypedPtrs  map[spirv.StorageClass]*Entity
	literals     map[uint32]*Entity

	decorations    []*Entity // pending flat decorations, absorbed by the next group
	decGroups      []*DecorationGroup
	groupDecorates []*Entity
	decorationsOf  map[spirv.ID][]*Entity

	currentLine      *Entity
	currentDebugLine *Entity

	unresolvedFields []structFieldRef
}

// NewModule returns an empty module with ids starting at 1, auto
// capability inference on and strict validation off, governed by the
// default policy.
func NewModule() *Module {
	return NewModuleWithPolicy(spirv.DefaultPolicy())
}

// NewModuleWithPolicy is NewModule under an explicit consumption policy.
func NewModuleWithPolicy(policy spirv.Policy) *Module {
	return &Module{
		policy:            policy,
		version:           spirv.Version1_0,
		generator:         uint16(spirv.GeneratorID >> 16),
		schema:            spirv.SchemaDefault,
		nextID:            1,
		addrModel:         spirv.AddressingModelLogical,
		memModel:          spirv.MemoryModelOpenCL,
		autoAddCapability: true,
		valid:             true,

		entries:     make(map[spirv.ID]*Entity),
		typeForward: make(map[spirv.ID]*Entity),
		noID:        make(map[*Entity]struct{}),
		namedIDs:    make(map[spirv.ID]struct{}),

		strMap: make(map[string]*Entity),

		caps:     make(map[spirv.Capability]struct{}),
		condCaps: make(map[condCap]struct{}),
		exts:     make(map[string]struct{}),
		condExts: make(map[condExt]struct{}),
		srcExts:  make(map[string]struct{}),

		entryPointSet: make(map[spirv.ExecutionModel]map[spirv.ID]struct{}),
		condEPSet:     make(map[spirv.ExecutionModel]map[spirv.ID]struct{}),
		execModes:     make(map[spirv.ID][]ExecutionMode),

		instSets:   make(map[spirv.ID]string),
		instSetIDs: make(map[string]spirv.ID),

		intTypes:     make(map[uint32]*Entity),
		floatTypes:   make(map[floatKey]*Entity),
		pointerTypes: make(map[pointerKey]*Entity),
		untypedPtrs:  make(map[spirv.StorageClass]*Entity),
		literals:     make(map[uint32]*Entity),

		decorationsOf: make(map[spirv.ID][]*Entity),
	}
}

// SetAutoAddCapability controls whether registering an entity also
// registers the capabilities it requires.
func (m *Module) SetAutoAddCapability(v bool) { m.autoAddCapability = v }

// SetAutoAddExtensions controls whether registering an entity or
// capability also registers the extensions it requires.
func (m *Module) SetAutoAddExtensions(v bool) { m.autoAddExtensions = v }

// SetValidateCapability makes registration panic when a required
// capability has not been declared.
func (m *Module) SetValidateCapability(v bool) { m.validateCapability = v }

// Policy returns the consumption policy the module is built under.
func (m *Module) Policy() spirv.Policy { return m.policy }

// Version returns the declared format version.
func (m *Module) Version() spirv.Version { return m.version }

// SetVersion declares the format version, recording an error when the
// policy caps versions below it.
func (m *Module) SetVersion(v spirv.Version) {
	if !m.errs.checkf(m.policy.VersionAllowed(v), ErrRequiresVersion,
		"version %s exceeds the maximum allowed", v) {
		m.valid = false
		return
	}
	m.version = v
}

// SetGenerator records the generator tool id and version.
func (m *Module) SetGenerator(tool, version uint16) {
	m.generator = tool
	m.genVer = version
}

// Generator returns the generator tool id and version.
func (m *Module) Generator() (tool, version uint16) { return m.generator, m.genVer }

// Bound returns the id bound: one past the largest id in use.
func (m *Module) Bound() spirv.ID { return m.nextID }

// SetMemoryModel declares the addressing and memory model pair.
func (m *Module) SetMemoryModel(addr spirv.AddressingModel, mem spirv.MemoryModel) {
	m.addrModel = addr
	m.memModel = mem
}

// MemoryModel returns the declared addressing and memory model pair.
func (m *Module) MemoryModel() (spirv.AddressingModel, spirv.MemoryModel) {
	return m.addrModel, m.memModel
}

// SetSourceLanguage records the source language and its version.
func (m *Module) SetSourceLanguage(lang spirv.SourceLanguage, version uint32) {
	m.srcLang = lang
	m.srcLangVer = version
}

// SourceLanguage returns the recorded source language and version.
func (m *Module) SourceLanguage() (spirv.SourceLanguage, uint32) {
	return m.srcLang, m.srcLangVer
}

// AddSourceExtension records one source-level extension string.
func (m *Module) AddSourceExtension(name string) {
	m.srcExts[name] = struct{}{}
}

// AddModuleProcessed appends one processing note, preserving order.
func (m *Module) AddModuleProcessed(note string) {
	m.processed = append(m.processed, note)
}

// ModuleProcessed returns the processing notes in insertion order.
func (m *Module) ModuleProcessed() []string { return m.processed }

// allocID returns requested when it is a valid id, otherwise the next
// free id. increment is the number of consecutive ids to reserve; the
// returned id is the first of the run.
func (m *Module) allocID(requested spirv.ID, increment uint32) spirv.ID {
	if requested.Valid() {
		if requested >= m.nextID {
			m.nextID = requested + 1
		}
		return requested
	}
	id := m.nextID
	m.nextID += spirv.ID(increment)
	return id
}

// AllocID reserves and returns one fresh id.
func (m *Module) AllocID() spirv.ID { return m.allocID(spirv.InvalidID, 1) }

// Add registers an entity. An entity with a valid id claims its map
// slot, replacing a forward placeholder if one holds the id; a second
// real entity on the same id panics. Entities without ids go to the
// owned set, except line markers, which are shared. Registration also
// files the entity into its category stream and, depending on module
// flags, infers or validates its capability and extension requirements.
func (m *Module) Add(e *Entity) *Entity {
	if e.Op != spirv.OpLine && e.Op != spirv.OpForward {
		e.Line = m.currentLine
		e.DebugLine = m.currentDebugLine
	}
	if e.ID.Valid() {
		m.allocID(e.ID, 1)
		if mapped, ok := m.entries[e.ID]; ok && mapped != e {
			if !mapped.IsForward() {
				panic(fmt.Sprintf("ir: id %%%d registered twice (%s and %s)", e.ID, mapped.Op, e.Op))
			}
			m.ReplaceForward(mapped, e)
		} else {
			m.entries[e.ID] = e
		}
	} else {
		if e.Op != spirv.OpLine {
			m.noID[e] = struct{}{}
		}
		if e.Op == spirv.OpTypeForwardPointer {
			ptr := spirv.ID(e.Word(0))
			if _, ok := m.typeForward[ptr]; !ok {
				m.typeForward[ptr] = e
				m.fwdPtrs = append(m.fwdPtrs, e)
			}
		}
	}
	m.layoutEntity(e)
	if m.autoAddCapability {
		for _, c := range e.requiredCapabilities() {
			m.AddCapability(c)
		}
	}
	if m.validateCapability {
		for _, c := range e.requiredCapabilities() {
			if !m.HasCapability(c) {
				panic(fmt.Sprintf("ir: %s requires capability %s", e.Op, c))
			}
		}
	}
	if m.autoAddExtensions {
		if ext := e.requiredExtension(); ext != spirv.ExtensionNone {
			m.AddExtension(ext)
		}
	}
	return e
}

// ReplaceForward swaps a forward placeholder for its real definition.
// When the definition arrived under a different id, it adopts the
// placeholder's id and references to the abandoned id are retargeted;
// both updates happen inside this one registry operation.
func (m *Module) ReplaceForward(fwd, e *Entity) {
	if fwd.ID == e.ID {
		m.entries[e.ID] = e
		if fwd.Name != "" && e.Name == "" {
			e.Name = fwd.Name
		}
		return
	}
	old := e.ID
	delete(m.entries, old)
	e.ID = fwd.ID
	m.entries[fwd.ID] = e
	if fwd.Name != "" && e.Name == "" {
		m.SetName(e, fwd.Name)
	}
	m.retargetDecorations(old, fwd.ID)
}

func (m *Module) retargetDecorations(from, to spirv.ID) {
	retarget := func(list []*Entity) {
		for _, d := range list {
			if spirv.ID(d.Word(0)) == from {
				d.Words[0] = uint32(to)
			}
		}
	}
	retarget(m.decorations)
	for _, g := range m.decGroups {
		retarget(g.Members)
	}
	if applied, ok := m.decorationsOf[from]; ok {
		delete(m.decorationsOf, from)
		m.decorationsOf[to] = append(m.decorationsOf[to], applied...)
	}
}

// layoutEntity files an entity into its category stream.
func (m *Module) layoutEntity(e *Entity) {
	switch {
	case e.Op == spirv.OpForward, e.Op == spirv.OpLine, e.Op == spirv.OpNoLine:
	case e.Op == spirv.OpString:
		m.strings = append(m.strings, e)
	case e.Op == spirv.OpVariable, e.Op == spirv.OpUntypedVariableKHR:
		m.variables = append(m.variables, e)
	case e.Op == spirv.OpExtInst:
		set := m.instSets[spirv.ID(e.Word(0))]
		switch {
		case isDebugInfoSet(set):
			m.debugInst = append(m.debugInst, e)
		case set == auxDataSetName:
			m.auxData = append(m.auxData, e)
		}
	case e.Op == spirv.OpAsmTargetINTEL:
		m.asmTarget = append(m.asmTarget, e)
	case e.Op == spirv.OpAsmINTEL:
		m.asmInst = append(m.asmInst, e)
	case e.Op == spirv.OpAliasDomainDeclINTEL,
		e.Op == spirv.OpAliasScopeDeclINTEL,
		e.Op == spirv.OpAliasScopeListDeclINTEL:
		m.aliasDecl = append(m.aliasDecl, e)
	case e.Op == spirv.OpDecorate, e.Op == spirv.OpMemberDecorate:
		m.decorations = append(m.decorations, e)
		m.decorationsOf[spirv.ID(e.Word(0))] = append(m.decorationsOf[spirv.ID(e.Word(0))], e)
	case e.Op == spirv.OpDecorationGroup:
		m.absorbDecorations(e)
	case e.Op == spirv.OpGroupDecorate, e.Op == spirv.OpGroupMemberDecorate:
		m.groupDecorates = append(m.groupDecorates, e)
		m.applyGroupDecorate(e)
	case e.Op.IsType():
		m.types = append(m.types, e)
	case e.Op.IsConstant():
		m.constants = append(m.constants, e)
	}
}

// Exist returns the entity registered under id, if any. Forward
// placeholders count as registered.
func (m *Module) Exist(id spirv.ID) (*Entity, bool) {
	e, ok := m.entries[id]
	return e, ok
}

// Entry returns the entity registered under id, falling back to a
// forward pointer declaration for the id. It panics when the id is
// completely unknown.
func (m *Module) Entry(id spirv.ID) *Entity {
	if e, ok := m.entries[id]; ok {
		return e
	}
	if e, ok := m.typeForward[id]; ok {
		return e
	}
	panic(fmt.Sprintf("ir: no entity registered under id %%%d", id))
}

// ensure returns the entity under id, creating a forward placeholder
// when the id is unknown.
func (m *Module) ensure(id spirv.ID) *Entity {
	if e, ok := m.entries[id]; ok {
		return e
	}
	return m.AddForward(id)
}

// AddForward registers a forward placeholder. With an invalid id a
// fresh id is allocated.
func (m *Module) AddForward(id spirv.ID) *Entity {
	e := &Entity{Op: spirv.OpForward, ID: m.allocID(id, 1)}
	return m.Add(e)
}

// SetName attaches a debug name to an entity. An empty name clears it.
func (m *Module) SetName(e *Entity, name string) {
	e.Name = name
	if !e.ID.Valid() {
		return
	}
	if name == "" {
		delete(m.namedIDs, e.ID)
	} else {
		m.namedIDs[e.ID] = struct{}{}
	}
}

// AddMemberName attaches a debug name to a struct member.
func (m *Module) AddMemberName(structID spirv.ID, member uint32, name string) {
	m.memberNames = append(m.memberNames, MemberName{Struct: structID, Member: member, Name: name})
}

// Types returns the registered type entities in insertion order.
func (m *Module) Types() []*Entity { return m.types }

// Constants returns the registered constant entities in insertion order.
func (m *Module) Constants() []*Entity { return m.constants }

// Variables returns the module-scope variables in insertion order.
func (m *Module) Variables() []*Entity { return m.variables }

// Functions returns the module's functions in insertion order.
func (m *Module) Functions() []*Function { return m.functions }

// EraseReferencesOf removes every annotation that refers to id: its
// debug name, member names on it, and pending decorations targeting it.
func (m *Module) EraseReferencesOf(id spirv.ID) {
	delete(m.namedIDs, id)
	if e, ok := m.entries[id]; ok {
		e.Name = ""
	}
	kept := m.memberNames[:0]
	for _, mn := range m.memberNames {
		if mn.Struct != id {
			kept = append(kept, mn)
		}
	}
	m.memberNames = kept

	decs := m.decorations[:0]
	for _, d := range m.decorations {
		if spirv.ID(d.Word(0)) != id {
			decs = append(decs, d)
		}
	}
	m.decorations = decs
	delete(m.decorationsOf, id)
}

// EraseValue removes a registered value entity from the id map and its
// category stream, together with every annotation referring to it.
// Freed ids are not reissued. It reports whether anything was removed.
func (m *Module) EraseValue(e *Entity) bool {
	var stream *[]*Entity
	switch {
	case e.Op.IsType():
		stream = &m.types
	case e.Op.IsConstant():
		stream = &m.constants
	case e.Op == spirv.OpVariable, e.Op == spirv.OpUntypedVariableKHR:
		stream = &m.variables
	case e.Op == spirv.OpAsmTargetINTEL:
		stream = &m.asmTarget
	case e.Op == spirv.OpAsmINTEL:
		stream = &m.asmInst
	default:
		return false
	}
	found := false
	kept := (*stream)[:0]
	for _, cur := range *stream {
		if cur == e {
			found = true
			continue
		}
		kept = append(kept, cur)
	}
	*stream = kept
	if !found {
		return false
	}
	if e.ID.Valid() {
		delete(m.entries, e.ID)
		m.EraseReferencesOf(e.ID)
	} else {
		delete(m.noID, e)
	}
	m.evictFromCaches(e)
	return true
}

// evictFromCaches drops an erased entity from the dedup caches so a
// later request mints a fresh entity instead of resurrecting it.
func (m *Module) evictFromCaches(e *Entity) {
	if m.voidType == e {
		m.voidType = nil
	}
	if m.boolType == e {
		m.boolType = nil
	}
	for k, v := range m.intTypes {
		if v == e {
			delete(m.intTypes, k)
		}
	}
	for k, v := range m.floatTypes {
		if v == e {
			delete(m.floatTypes, k)
		}
	}
	for k, v := range m.pointerTypes {
		if v == e {
			delete(m.pointerTypes, k)
		}
	}
	for k, v := range m.untypedPtrs {
		if v == e {
			delete(m.untypedPtrs, k)
		}
	}
	for k, v := range m.literals {
		if v == e {
			delete(m.literals, k)
		}
	}
}

// sortedIDs returns the keys of a per-id set in ascending order.
func sortedIDs[V any](set map[spirv.ID]V) []spirv.ID {
	ids := make([]spirv.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
