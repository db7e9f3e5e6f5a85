package ir

import (
	spirv "github.com/gogpu/spirv"
)

// AddEntryPoint declares an entry point. The execution model's required
// capability is declared along with it. Interface ids name the global
// variables the entry point touches.
func (m *Module) AddEntryPoint(model spirv.ExecutionModel, target spirv.ID, name string, interfaces ...spirv.ID) {
	if !m.errs.checkf(model.Valid(), ErrInvalidModule,
		"invalid execution model %d", uint32(model)) {
		m.valid = false
		return
	}
	ep := &EntryPoint{Model: model, Target: target, Name: name, Interfaces: interfaces}
	m.entryPoints = append(m.entryPoints, ep)
	set := m.entryPointSet[model]
	if set == nil {
		set = make(map[spirv.ID]struct{})
		m.entryPointSet[model] = set
	}
	set[target] = struct{}{}
	if c := model.RequiredCapability(); c != spirv.CapabilityNone {
		m.AddCapabilityInternal(c)
	}
}

// AddConditionalEntryPoint declares an entry point guarded by a
// condition id.
func (m *Module) AddConditionalEntryPoint(cond spirv.ID, model spirv.ExecutionModel, target spirv.ID, name string, interfaces ...spirv.ID) {
	if !m.errs.checkf(model.Valid(), ErrInvalidModule,
		"invalid execution model %d", uint32(model)) {
		m.valid = false
		return
	}
	ep := &EntryPoint{Cond: cond, Model: model, Target: target, Name: name, Interfaces: interfaces}
	m.condEntryPoints = append(m.condEntryPoints, ep)
	set := m.condEPSet[model]
	if set == nil {
		set = make(map[spirv.ID]struct{})
		m.condEPSet[model] = set
	}
	set[target] = struct{}{}
	if c := model.RequiredCapability(); c != spirv.CapabilityNone {
		m.AddCapabilityInternal(c)
	}
}

// SpecializeConditionalEntryPoints resolves every conditional entry
// point guarded by cond: kept ones become unconditional, the rest are
// dropped.
func (m *Module) SpecializeConditionalEntryPoints(cond spirv.ID, keep bool) {
	kept := m.condEntryPoints[:0]
	for _, ep := range m.condEntryPoints {
		if ep.Cond != cond {
			kept = append(kept, ep)
			continue
		}
		if set := m.condEPSet[ep.Model]; set != nil {
			delete(set, ep.Target)
		}
		if keep {
			m.AddEntryPoint(ep.Model, ep.Target, ep.Name, ep.Interfaces...)
		}
	}
	m.condEntryPoints = kept
}

// IsEntryPoint reports whether target is declared as an entry point for
// the model, conditionally or not.
func (m *Module) IsEntryPoint(model spirv.ExecutionModel, target spirv.ID) bool {
	if set := m.entryPointSet[model]; set != nil {
		if _, ok := set[target]; ok {
			return true
		}
	}
	if set := m.condEPSet[model]; set != nil {
		_, ok := set[target]
		return ok
	}
	return false
}

// isAnyEntryPoint reports whether target is an entry point under any
// execution model.
func (m *Module) isAnyEntryPoint(target spirv.ID) bool {
	for _, set := range m.entryPointSet {
		if _, ok := set[target]; ok {
			return true
		}
	}
	for _, set := range m.condEPSet {
		if _, ok := set[target]; ok {
			return true
		}
	}
	return false
}

// EntryPoints returns the unconditional entry points in insertion
// order.
func (m *Module) EntryPoints() []*EntryPoint { return m.entryPoints }

// AddExecutionMode attaches an execution mode to an entry point.
func (m *Module) AddExecutionMode(target spirv.ID, mode spirv.ExecutionMode, operands ...uint32) {
	m.execModes[target] = append(m.execModes[target], ExecutionMode{Mode: mode, Operands: operands})
}

// AddExecutionModeID attaches an id-operand execution mode to an entry
// point.
func (m *Module) AddExecutionModeID(target spirv.ID, mode spirv.ExecutionMode, ids ...spirv.ID) {
	ops := make([]uint32, len(ids))
	for i, id := range ids {
		ops[i] = uint32(id)
	}
	m.execModes[target] = append(m.execModes[target], ExecutionMode{Mode: mode, Operands: ops, ByID: true})
}

// ExecutionModes returns the execution modes attached to a target.
func (m *Module) ExecutionModes(target spirv.ID) []ExecutionMode {
	return m.execModes[target]
}

// ImportBuiltinSet imports an extended instruction set by name,
// returning its id. Importing the same set twice returns the same id.
// Unknown set names record an error.
func (m *Module) ImportBuiltinSet(name string) (spirv.ID, bool) {
	if id, ok := m.instSetIDs[name]; ok {
		return id, true
	}
	id := m.AllocID()
	if !m.importBuiltinSetWithID(name, id) {
		return spirv.InvalidID, false
	}
	return id, true
}

func (m *Module) importBuiltinSetWithID(name string, id spirv.ID) bool {
	if !m.errs.checkf(isKnownBuiltinSet(name), ErrInvalidBuiltinSetName,
		"unknown builtin set %q", name) {
		m.valid = false
		return false
	}
	m.instSets[id] = name
	m.instSetIDs[name] = id
	return true
}

// BuiltinSet returns the name of an imported instruction set id.
func (m *Module) BuiltinSet(id spirv.ID) (string, bool) {
	name, ok := m.instSets[id]
	return name, ok
}

const (
	openCLStdSetName     = "OpenCL.std"
	glslStd450SetName    = "GLSL.std.450"
	openCLDebugSetName   = "OpenCL.DebugInfo.100"
	shaderDebug100Set    = "NonSemantic.Shader.DebugInfo.100"
	shaderDebug200Set    = "NonSemantic.Shader.DebugInfo.200"
	nonSemanticDebugName = "SPIRV.debug"
	auxDataSetName       = "NonSemantic.AuxData"
)

func isKnownBuiltinSet(name string) bool {
	switch name {
	case openCLStdSetName, glslStd450SetName,
		openCLDebugSetName, shaderDebug100Set, shaderDebug200Set,
		nonSemanticDebugName, auxDataSetName:
		return true
	}
	return false
}

func isDebugInfoSet(name string) bool {
	switch name {
	case openCLDebugSetName, shaderDebug100Set, shaderDebug200Set, nonSemanticDebugName:
		return true
	}
	return false
}
