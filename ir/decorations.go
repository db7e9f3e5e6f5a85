package ir

import (
	spirv "github.com/gogpu/spirv"
)

// AddDecorate attaches a decoration to a target id. Unknown targets get
// a forward placeholder so decorations may precede their definitions.
// The decoration stays a flat OpDecorate unless a decoration group is
// declared afterwards, which absorbs the whole pending list. An invalid
// target is allowed for decorations built purely for a group.
func (m *Module) AddDecorate(target spirv.ID, dec spirv.Decoration, operands ...uint32) *Entity {
	if target.Valid() {
		m.ensure(target)
	}
	words := make([]uint32, 0, 2+len(operands))
	words = append(words, uint32(target), uint32(dec))
	words = append(words, operands...)
	return m.Add(&Entity{Op: spirv.OpDecorate, Words: words})
}

// AddMemberDecorate attaches a decoration to one member of a struct
// type.
func (m *Module) AddMemberDecorate(target spirv.ID, member uint32, dec spirv.Decoration, operands ...uint32) *Entity {
	if target.Valid() {
		m.ensure(target)
	}
	words := make([]uint32, 0, 3+len(operands))
	words = append(words, uint32(target), member, uint32(dec))
	words = append(words, operands...)
	return m.Add(&Entity{Op: spirv.OpMemberDecorate, Words: words})
}

// AddDecorationGroup declares a decoration group. Every decoration on
// the pending list moves into the group, which serializes as the member
// decorations followed by the OpDecorationGroup.
func (m *Module) AddDecorationGroup() *DecorationGroup {
	m.Add(&Entity{Op: spirv.OpDecorationGroup, ID: m.AllocID()})
	return m.decGroups[len(m.decGroups)-1]
}

// absorbDecorations moves every pending decoration into a new group
// for the given OpDecorationGroup entity, leaving the pending list
// empty. Each absorbed decoration is retargeted at the group id and
// applies to other ids only through OpGroupDecorate from here on.
func (m *Module) absorbDecorations(group *Entity) {
	g := &DecorationGroup{Entity: group}
	for _, d := range m.decorations {
		if t := spirv.ID(d.Word(0)); t != group.ID {
			m.unfileDecoration(t, d)
			d.Words[0] = uint32(group.ID)
			m.decorationsOf[group.ID] = append(m.decorationsOf[group.ID], d)
		}
		g.Members = append(g.Members, d)
	}
	m.decorations = nil
	m.decGroups = append(m.decGroups, g)
}

// unfileDecoration removes one decoration from a target's applied set.
func (m *Module) unfileDecoration(target spirv.ID, d *Entity) {
	applied := m.decorationsOf[target]
	for i, a := range applied {
		if a == d {
			m.decorationsOf[target] = append(applied[:i], applied[i+1:]...)
			break
		}
	}
	if len(m.decorationsOf[target]) == 0 {
		delete(m.decorationsOf, target)
	}
}

// groupByID finds a declared decoration group.
func (m *Module) groupByID(id spirv.ID) *DecorationGroup {
	for _, g := range m.decGroups {
		if g.Entity.ID == id {
			return g
		}
	}
	return nil
}

// AddGroupDecorate applies a decoration group to targets. The group's
// member decorations take effect on every target immediately.
func (m *Module) AddGroupDecorate(group *DecorationGroup, targets ...spirv.ID) *Entity {
	words := make([]uint32, 0, 1+len(targets))
	words = append(words, uint32(group.Entity.ID))
	for _, t := range targets {
		words = append(words, uint32(t))
	}
	return m.Add(&Entity{Op: spirv.OpGroupDecorate, Words: words})
}

// AddGroupMemberDecorate applies a decoration group to (struct, member)
// pairs.
func (m *Module) AddGroupMemberDecorate(group *DecorationGroup, pairs ...[2]uint32) *Entity {
	words := make([]uint32, 0, 1+2*len(pairs))
	words = append(words, uint32(group.Entity.ID))
	for _, p := range pairs {
		words = append(words, p[0], p[1])
	}
	return m.Add(&Entity{Op: spirv.OpGroupMemberDecorate, Words: words})
}

// applyGroupDecorate records the group's member decorations against
// each target named by an OpGroupDecorate or OpGroupMemberDecorate.
func (m *Module) applyGroupDecorate(e *Entity) {
	g := m.groupByID(spirv.ID(e.Word(0)))
	if g == nil {
		return
	}
	step := 1
	if e.Op == spirv.OpGroupMemberDecorate {
		step = 2
	}
	for i := 1; i < len(e.Words); i += step {
		target := spirv.ID(e.Words[i])
		m.ensure(target)
		m.decorationsOf[target] = append(m.decorationsOf[target], g.Members...)
	}
}

// DecorationsOf returns every decoration in effect on a target, pending
// ones and ones applied through groups.
func (m *Module) DecorationsOf(target spirv.ID) []*Entity {
	return m.decorationsOf[target]
}

// HasDecorate reports whether a target carries the given decoration.
func (m *Module) HasDecorate(target spirv.ID, dec spirv.Decoration) bool {
	for _, d := range m.decorationsOf[target] {
		switch d.Op {
		case spirv.OpDecorate:
			if spirv.Decoration(d.Word(1)) == dec {
				return true
			}
		case spirv.OpMemberDecorate:
			if spirv.Decoration(d.Word(2)) == dec {
				return true
			}
		}
	}
	return false
}
