package ir

import (
	spirv "github.com/gogpu/spirv"
)

// VoidType returns the module's single void type.
func (m *Module) VoidType() *Entity {
	if m.voidType == nil {
		m.voidType = m.Add(&Entity{Op: spirv.OpTypeVoid, ID: m.AllocID()})
	}
	return m.voidType
}

// BoolType returns the module's single bool type.
func (m *Module) BoolType() *Entity {
	if m.boolType == nil {
		m.boolType = m.Add(&Entity{Op: spirv.OpTypeBool, ID: m.AllocID()})
	}
	return m.boolType
}

// IntType returns the integer type of the given width, deduplicated per
// width. Signedness is not part of the key: the container follows the
// kernel convention of signless integers, signedness 0.
func (m *Module) IntType(width uint32) *Entity {
	if t, ok := m.intTypes[width]; ok {
		return t
	}
	t := m.Add(&Entity{Op: spirv.OpTypeInt, ID: m.AllocID(), Words: []uint32{width, 0}})
	m.intTypes[width] = t
	return t
}

// FloatType returns the IEEE-754 float type of the given width.
func (m *Module) FloatType(width uint32) *Entity {
	return m.FloatTypeWithEncoding(width, spirv.FPEncodingIEEE754)
}

// FloatTypeWithEncoding returns the float type of the given width and
// encoding, deduplicated per (width, encoding) pair. The default
// encoding is omitted from the operand words.
func (m *Module) FloatTypeWithEncoding(width uint32, enc spirv.FPEncoding) *Entity {
	key := floatKey{Width: width, Encoding: enc}
	if t, ok := m.floatTypes[key]; ok {
		return t
	}
	words := []uint32{width}
	if enc != spirv.FPEncodingIEEE754 {
		words = append(words, uint32(enc))
	}
	t := m.Add(&Entity{Op: spirv.OpTypeFloat, ID: m.AllocID(), Words: words})
	m.floatTypes[key] = t
	return t
}

// PointerType returns the pointer type for (storage class, pointee),
// deduplicated per pair.
func (m *Module) PointerType(storage spirv.StorageClass, pointee *Entity) *Entity {
	key := pointerKey{Storage: storage, Pointee: pointee.ID}
	if t, ok := m.pointerTypes[key]; ok {
		return t
	}
	t := m.Add(&Entity{
		Op:    spirv.OpTypePointer,
		ID:    m.AllocID(),
		Words: []uint32{uint32(storage), uint32(pointee.ID)},
	})
	m.pointerTypes[key] = t
	return t
}

// UntypedPointerType returns the untyped pointer type for a storage
// class, deduplicated per class.
func (m *Module) UntypedPointerType(storage spirv.StorageClass) *Entity {
	if t, ok := m.untypedPtrs[storage]; ok {
		return t
	}
	t := m.Add(&Entity{
		Op:    spirv.OpTypeUntypedPointerKHR,
		ID:    m.AllocID(),
		Words: []uint32{uint32(storage)},
	})
	m.untypedPtrs[storage] = t
	return t
}

// VectorType returns a new vector type of count components.
func (m *Module) VectorType(component *Entity, count uint32) *Entity {
	return m.Add(&Entity{
		Op:    spirv.OpTypeVector,
		ID:    m.AllocID(),
		Words: []uint32{uint32(component.ID), count},
	})
}

// MatrixType returns a new matrix type of count columns.
func (m *Module) MatrixType(column *Entity, count uint32) *Entity {
	return m.Add(&Entity{
		Op:    spirv.OpTypeMatrix,
		ID:    m.AllocID(),
		Words: []uint32{uint32(column.ID), count},
	})
}

// ArrayType returns a new array type. length is a constant entity.
func (m *Module) ArrayType(element, length *Entity) *Entity {
	return m.Add(&Entity{
		Op:    spirv.OpTypeArray,
		ID:    m.AllocID(),
		Words: []uint32{uint32(element.ID), uint32(length.ID)},
	})
}

// RuntimeArrayType returns a new unsized array type.
func (m *Module) RuntimeArrayType(element *Entity) *Entity {
	return m.Add(&Entity{
		Op:    spirv.OpTypeRuntimeArray,
		ID:    m.AllocID(),
		Words: []uint32{uint32(element.ID)},
	})
}

// StructBuilder accumulates members for one struct type. The type id is
// live from OpenStruct on, so members may point back at the struct
// through a forward pointer.
type StructBuilder struct {
	m      *Module
	entity *Entity
}

// OpenStruct starts a struct type and registers its id immediately.
func (m *Module) OpenStruct() *StructBuilder {
	e := m.Add(&Entity{Op: spirv.OpTypeStruct, ID: m.AllocID()})
	return &StructBuilder{m: m, entity: e}
}

// ID returns the struct's id, valid before Close.
func (b *StructBuilder) ID() spirv.ID { return b.entity.ID }

// AddMember appends one member type.
func (b *StructBuilder) AddMember(t *Entity) *StructBuilder {
	b.entity.Words = append(b.entity.Words, uint32(t.ID))
	return b
}

// AddMemberID appends one member by id. Ids without a registered entity
// are noted and must resolve before serialization.
func (b *StructBuilder) AddMemberID(id spirv.ID) *StructBuilder {
	if _, ok := b.m.Exist(id); !ok {
		b.m.noteUnresolvedField(b.entity, len(b.entity.Words), id)
	}
	b.entity.Words = append(b.entity.Words, uint32(id))
	return b
}

// Close finishes the struct and returns its entity.
func (b *StructBuilder) Close() *Entity { return b.entity }

// FunctionType returns a new function type entity.
func (m *Module) FunctionType(ret *Entity, params ...*Entity) *Entity {
	words := make([]uint32, 0, 1+len(params))
	words = append(words, uint32(ret.ID))
	for _, p := range params {
		words = append(words, uint32(p.ID))
	}
	return m.Add(&Entity{Op: spirv.OpTypeFunction, ID: m.AllocID(), Words: words})
}

// AddForwardPointer declares a forward pointer for ptr with the given
// storage class. Duplicate declarations for the same pointer id are
// dropped.
func (m *Module) AddForwardPointer(ptr spirv.ID, storage spirv.StorageClass) *Entity {
	if e, ok := m.typeForward[ptr]; ok {
		return e
	}
	return m.Add(&Entity{
		Op:    spirv.OpTypeForwardPointer,
		Words: []uint32{uint32(ptr), uint32(storage)},
	})
}

func (m *Module) noteUnresolvedField(structEntity *Entity, index int, id spirv.ID) {
	m.unresolvedFields = append(m.unresolvedFields, structFieldRef{
		Struct: structEntity,
		Index:  index,
		Type:   id,
	})
}

// ResolveUnresolvedFields checks that every struct member id noted
// during construction or decoding now has a definition. Unresolved ids
// invalidate the module.
func (m *Module) ResolveUnresolvedFields() {
	for _, ref := range m.unresolvedFields {
		if e, ok := m.Exist(ref.Type); ok && !e.IsForward() {
			continue
		}
		m.errs.checkf(false, ErrInvalidModule,
			"struct %%%d member %d refers to undefined type %%%d",
			ref.Struct.ID, ref.Index, ref.Type)
		m.valid = false
	}
	m.unresolvedFields = nil
}
