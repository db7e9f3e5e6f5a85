package ir

import (
	spirv "github.com/gogpu/spirv"
)

// Extended debug instruction numbers shared by the supported debug-info
// sets.
const (
	debugOpFunctionDefinition = 101
	debugOpLine               = 103
	debugOpNoLine             = 104
)

// GetString returns the OpString entity for s, creating it once per
// distinct string.
func (m *Module) GetString(s string) *Entity {
	if e, ok := m.strMap[s]; ok {
		return e
	}
	e := m.Add(&Entity{Op: spirv.OpString, ID: m.AllocID(), Words: spirv.EncodeString(s)})
	m.strMap[s] = e
	return e
}

// SetCurrentLine sets the OpLine marker applied to subsequently
// registered entities. Consecutive entities on the same line share one
// marker. A nil file id clears the marker.
func (m *Module) SetCurrentLine(file spirv.ID, line, column uint32) {
	if !file.Valid() {
		m.currentLine = nil
		return
	}
	if cur := m.currentLine; cur != nil &&
		spirv.ID(cur.Word(0)) == file && cur.Word(1) == line && cur.Word(2) == column {
		return
	}
	m.currentLine = &Entity{
		Op:    spirv.OpLine,
		Words: []uint32{uint32(file), line, column},
	}
}

// ClearCurrentLine drops the active line marker, as OpNoLine does.
func (m *Module) ClearCurrentLine() { m.currentLine = nil }

// CurrentLine returns the active line marker, if any.
func (m *Module) CurrentLine() *Entity { return m.currentLine }

// SetCurrentDebugLine sets the extended debug-line record applied to
// subsequently registered entities. The four range operands are
// materialized as cached literal constants, as the debug-info sets
// require. Consecutive entities in the same range share one record.
func (m *Module) SetCurrentDebugLine(set spirv.ID, file *Entity, lineStart, lineEnd, colStart, colEnd uint32) {
	if cur := m.currentDebugLine; cur != nil && spirv.ID(cur.Word(0)) == set {
		want := []uint32{
			uint32(file.ID),
			uint32(m.LiteralAsConstant(lineStart).ID),
			uint32(m.LiteralAsConstant(lineEnd).ID),
			uint32(m.LiteralAsConstant(colStart).ID),
			uint32(m.LiteralAsConstant(colEnd).ID),
		}
		same := len(cur.Words) == 7
		for i := 0; same && i < 5; i++ {
			same = cur.Words[2+i] == want[i]
		}
		if same {
			return
		}
	}
	e := &Entity{
		Op:   spirv.OpExtInst,
		Type: m.VoidType().ID,
		ID:   m.AllocID(),
		Words: []uint32{
			uint32(set),
			debugOpLine,
			uint32(file.ID),
			uint32(m.LiteralAsConstant(lineStart).ID),
			uint32(m.LiteralAsConstant(lineEnd).ID),
			uint32(m.LiteralAsConstant(colStart).ID),
			uint32(m.LiteralAsConstant(colEnd).ID),
		},
	}
	m.Add(e)
	m.currentDebugLine = e
}

// ClearCurrentDebugLine drops the active extended debug-line record.
func (m *Module) ClearCurrentDebugLine() { m.currentDebugLine = nil }

// AddDebugInst registers a module-scope extended debug instruction
// against an imported debug-info set.
func (m *Module) AddDebugInst(set spirv.ID, extOp uint32, operands ...spirv.ID) *Entity {
	words := make([]uint32, 0, 2+len(operands))
	words = append(words, uint32(set), extOp)
	for _, id := range operands {
		words = append(words, uint32(id))
	}
	return m.Add(&Entity{Op: spirv.OpExtInst, Type: m.VoidType().ID, ID: m.AllocID(), Words: words})
}

// AddAuxData registers a non-semantic auxiliary data instruction.
func (m *Module) AddAuxData(set spirv.ID, extOp uint32, operands ...spirv.ID) *Entity {
	return m.AddDebugInst(set, extOp, operands...)
}

// HasDebugInfo reports whether the module carries any debug metadata.
func (m *Module) HasDebugInfo() bool {
	return m.currentLine != nil || len(m.debugInst) > 0
}
