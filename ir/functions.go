package ir

import (
	spirv "github.com/gogpu/spirv"
)

// BodyInst is one function-body instruction, carried opaquely. Result
// is the instruction's result id when known, InvalidID otherwise.
type BodyInst struct {
	Inst   spirv.Instruction
	Result spirv.ID
}

// Function is an OpFunction with its parameters and an opaque body.
// The function entity and each parameter entity are registered in the
// module's id map; body instructions are not.
type Function struct {
	Entity *Entity
	Params []*Entity
	Body   []BodyInst
}

// ID returns the function's result id.
func (f *Function) ID() spirv.ID { return f.Entity.ID }

// ReturnType returns the function's result type id.
func (f *Function) ReturnType() spirv.ID { return f.Entity.Type }

// AddFunction declares a function of the given function type. One
// contiguous run of ids is reserved for the function and its
// parameters, in declaration order.
func (m *Module) AddFunction(ret, fnType *Entity, control spirv.FunctionControl, paramTypes ...*Entity) *Function {
	base := m.allocID(spirv.InvalidID, uint32(1+len(paramTypes)))
	fn := &Function{
		Entity: &Entity{
			Op:    spirv.OpFunction,
			Type:  ret.ID,
			ID:    base,
			Words: []uint32{uint32(control), uint32(fnType.ID)},
		},
	}
	m.Add(fn.Entity)
	for i, pt := range paramTypes {
		p := &Entity{Op: spirv.OpFunctionParameter, Type: pt.ID, ID: base + 1 + spirv.ID(i)}
		m.Add(p)
		fn.Params = append(fn.Params, p)
	}
	m.functions = append(m.functions, fn)
	return fn
}

// AddInstruction appends one instruction to a function body. With a
// non-nil result type a fresh result id is allocated and returned;
// otherwise the returned id is invalid. Body instructions do not enter
// the id map.
func (m *Module) AddInstruction(f *Function, op spirv.Op, resultType *Entity, operands ...uint32) spirv.ID {
	words := make([]uint32, 0, 2+len(operands))
	result := spirv.InvalidID
	if resultType != nil {
		result = m.AllocID()
		words = append(words, uint32(resultType.ID), uint32(result))
	}
	words = append(words, operands...)
	f.Body = append(f.Body, BodyInst{
		Inst:   spirv.Instruction{Opcode: op, Words: words},
		Result: result,
	})
	return result
}

// AddLabel starts a new block in the function body.
func (m *Module) AddLabel(f *Function) spirv.ID {
	id := m.AllocID()
	f.Body = append(f.Body, BodyInst{
		Inst:   spirv.Instruction{Opcode: spirv.OpLabel, Words: []uint32{uint32(id)}},
		Result: id,
	})
	return id
}

// AddLocalVariable appends a function-storage OpVariable to the body.
func (m *Module) AddLocalVariable(f *Function, ptrType *Entity) spirv.ID {
	return m.AddInstruction(f, spirv.OpVariable, ptrType, uint32(spirv.StorageClassFunction))
}

// EraseInstruction removes the body instruction producing id. It
// reports whether one was found. The freed id is not reissued.
func (m *Module) EraseInstruction(f *Function, id spirv.ID) bool {
	for i, bi := range f.Body {
		if bi.Result == id && id.Valid() {
			f.Body = append(f.Body[:i], f.Body[i+1:]...)
			m.EraseReferencesOf(id)
			return true
		}
	}
	return false
}

// AddGlobalVariable declares a module-scope variable of the given
// pointer type. A valid initializer id is appended as the optional
// initializer operand.
func (m *Module) AddGlobalVariable(ptrType *Entity, storage spirv.StorageClass, initializer spirv.ID) *Entity {
	words := []uint32{uint32(storage)}
	if initializer.Valid() {
		words = append(words, uint32(initializer))
	}
	return m.Add(&Entity{Op: spirv.OpVariable, Type: ptrType.ID, ID: m.AllocID(), Words: words})
}

// AddUntypedGlobalVariable declares a module-scope untyped variable.
// dataType and initializer are optional ids.
func (m *Module) AddUntypedGlobalVariable(ptrType *Entity, storage spirv.StorageClass, dataType, initializer spirv.ID) *Entity {
	words := []uint32{uint32(storage)}
	if dataType.Valid() {
		words = append(words, uint32(dataType))
		if initializer.Valid() {
			words = append(words, uint32(initializer))
		}
	}
	return m.Add(&Entity{Op: spirv.OpUntypedVariableKHR, Type: ptrType.ID, ID: m.AllocID(), Words: words})
}

// AddAsmTarget declares an inline assembly target string. Emission of
// asm sections is gated on the policy allowing the inline assembly
// extension.
func (m *Module) AddAsmTarget(target string) *Entity {
	return m.Add(&Entity{
		Op:    spirv.OpAsmTargetINTEL,
		ID:    m.AllocID(),
		Words: spirv.EncodeString(target),
	})
}

// AddAsm declares an inline assembly body against a target.
func (m *Module) AddAsm(ret, fnType, target *Entity, asm, constraints string) *Entity {
	words := []uint32{uint32(fnType.ID), uint32(target.ID)}
	words = append(words, spirv.EncodeString(asm)...)
	words = append(words, spirv.EncodeString(constraints)...)
	return m.Add(&Entity{Op: spirv.OpAsmINTEL, Type: ret.ID, ID: m.AllocID(), Words: words})
}

// AddAliasDomainDecl declares a memory aliasing domain.
func (m *Module) AddAliasDomainDecl(name spirv.ID) *Entity {
	var words []uint32
	if name.Valid() {
		words = []uint32{uint32(name)}
	}
	return m.Add(&Entity{Op: spirv.OpAliasDomainDeclINTEL, ID: m.AllocID(), Words: words})
}

// AddAliasScopeDecl declares an aliasing scope inside a domain.
func (m *Module) AddAliasScopeDecl(domain *Entity, name spirv.ID) *Entity {
	words := []uint32{uint32(domain.ID)}
	if name.Valid() {
		words = append(words, uint32(name))
	}
	return m.Add(&Entity{Op: spirv.OpAliasScopeDeclINTEL, ID: m.AllocID(), Words: words})
}

// AddAliasScopeListDecl declares a list of aliasing scopes.
func (m *Module) AddAliasScopeListDecl(scopes ...*Entity) *Entity {
	words := make([]uint32, 0, len(scopes))
	for _, s := range scopes {
		words = append(words, uint32(s.ID))
	}
	return m.Add(&Entity{Op: spirv.OpAliasScopeListDeclINTEL, ID: m.AllocID(), Words: words})
}
