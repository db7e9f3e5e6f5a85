package ir

import (
	spirv "github.com/gogpu/spirv"
)

// BoolConstant returns an OpConstantTrue or OpConstantFalse of the
// module's bool type.
func (m *Module) BoolConstant(v bool) *Entity {
	op := spirv.OpConstantFalse
	if v {
		op = spirv.OpConstantTrue
	}
	return m.Add(&Entity{Op: op, Type: m.BoolType().ID, ID: m.AllocID()})
}

// IntConstant returns an integer constant of the given type. Types
// wider than 32 bits carry the value as two words, low word first.
// 32-bit values go through the deduplicated literal cache.
func (m *Module) IntConstant(t *Entity, v uint64) *Entity {
	width := t.Word(0)
	if width == 32 && t == m.intTypes[32] {
		return m.LiteralAsConstant(uint32(v))
	}
	words := []uint32{uint32(v)}
	if width > 32 {
		words = append(words, uint32(v>>32))
	}
	return m.Add(&Entity{Op: spirv.OpConstant, Type: t.ID, ID: m.AllocID(), Words: words})
}

// FloatConstant returns a float constant from its raw bit pattern,
// split into words like an integer of the same width.
func (m *Module) FloatConstant(t *Entity, bits uint64) *Entity {
	words := []uint32{uint32(bits)}
	if t.Word(0) > 32 {
		words = append(words, uint32(bits>>32))
	}
	return m.Add(&Entity{Op: spirv.OpConstant, Type: t.ID, ID: m.AllocID(), Words: words})
}

// NullConstant returns an OpConstantNull of the given type.
func (m *Module) NullConstant(t *Entity) *Entity {
	return m.Add(&Entity{Op: spirv.OpConstantNull, Type: t.ID, ID: m.AllocID()})
}

// CompositeConstant returns an OpConstantComposite from constituent
// constants.
func (m *Module) CompositeConstant(t *Entity, members ...*Entity) *Entity {
	words := make([]uint32, 0, len(members))
	for _, c := range members {
		words = append(words, uint32(c.ID))
	}
	return m.Add(&Entity{Op: spirv.OpConstantComposite, Type: t.ID, ID: m.AllocID(), Words: words})
}

// Undef returns an OpUndef of the given type.
func (m *Module) Undef(t *Entity) *Entity {
	return m.Add(&Entity{Op: spirv.OpUndef, Type: t.ID, ID: m.AllocID()})
}

// LiteralAsConstant materializes a 32-bit literal as an OpConstant of
// the 32-bit integer type. Each distinct literal value is created once
// and cached.
func (m *Module) LiteralAsConstant(lit uint32) *Entity {
	if c, ok := m.literals[lit]; ok {
		return c
	}
	t := m.IntType(32)
	c := m.Add(&Entity{Op: spirv.OpConstant, Type: t.ID, ID: m.AllocID(), Words: []uint32{lit}})
	m.literals[lit] = c
	return c
}

// SpecConstant returns an OpSpecConstant with the given default words.
func (m *Module) SpecConstant(t *Entity, words ...uint32) *Entity {
	return m.Add(&Entity{Op: spirv.OpSpecConstant, Type: t.ID, ID: m.AllocID(), Words: words})
}

// SpecBoolConstant returns an OpSpecConstantTrue or OpSpecConstantFalse.
func (m *Module) SpecBoolConstant(v bool) *Entity {
	op := spirv.OpSpecConstantFalse
	if v {
		op = spirv.OpSpecConstantTrue
	}
	return m.Add(&Entity{Op: op, Type: m.BoolType().ID, ID: m.AllocID()})
}
