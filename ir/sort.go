package ir

import (
	"fmt"
	"sort"

	spirv "github.com/gogpu/spirv"
)

type sortColor uint8

const (
	unvisited sortColor = iota
	discovered
	visited
)

// sorter runs a depth-first post-order walk over the type, constant and
// variable graph so every definition is emitted before its uses. On
// settling, integer types and integer-typed constants go to their own
// early streams, since consumers such as the literal cache need them
// ahead of everything else; other types follow; constants and variables
// trail. A back edge into a pointer type is broken by synthesizing a
// forward pointer declaration; a back edge into anything else is a hard
// failure, since the format has no other way to express such a cycle.
type sorter struct {
	m     *Module
	color map[spirv.ID]sortColor

	intTypes  []*Entity
	intConsts []*Entity
	types     []*Entity
	rest      []*Entity

	fwd    []*Entity
	broken map[spirv.ID]struct{}
}

// sortedGlobals returns the type, constant and variable entities in
// topological order, concatenated as integer types, integer constants,
// remaining types, then remaining constants and variables, together
// with any forward pointer declarations the sort synthesized. Roots are
// visited in ascending id order so the result is deterministic. A cycle
// that no forward pointer can break is a construction bug and panics.
func (m *Module) sortedGlobals() (sorted, forward []*Entity) {
	s := &sorter{
		m:      m,
		color:  make(map[spirv.ID]sortColor),
		broken: make(map[spirv.ID]struct{}),
	}
	for _, e := range m.typeForward {
		s.broken[spirv.ID(e.Word(0))] = struct{}{}
	}
	roots := make([]*Entity, 0, len(m.types)+len(m.constants)+len(m.variables))
	roots = append(roots, m.types...)
	roots = append(roots, m.constants...)
	roots = append(roots, m.variables...)
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })
	for _, e := range roots {
		if s.visit(e) {
			panic(fmt.Sprintf("ir: unbreakable dependency cycle through %s %%%d", e.Op, e.ID))
		}
	}
	sorted = make([]*Entity, 0, len(roots))
	sorted = append(sorted, s.intTypes...)
	sorted = append(sorted, s.intConsts...)
	sorted = append(sorted, s.types...)
	sorted = append(sorted, s.rest...)
	return sorted, s.fwd
}

// visit reports whether a cyclic dependency reached e from below and
// could not be broken. A pointer type on the cycle path absorbs the
// cycle: it forgets its progress, declares itself forward, and lets the
// root loop revisit it after the cycle's other members have settled.
func (s *sorter) visit(e *Entity) bool {
	if !e.ID.Valid() {
		return false
	}
	switch s.color[e.ID] {
	case visited:
		return false
	case discovered:
		return true
	}
	s.color[e.ID] = discovered
	for _, dep := range e.OperandIDs() {
		d, ok := s.m.entries[dep]
		if !ok || !sortable(d.Op) {
			continue
		}
		if s.color[d.ID] == visited {
			continue
		}
		if s.visit(d) {
			s.color[e.ID] = unvisited
			if e.Op.IsPointerType() {
				s.breakCycle(e)
				return false
			}
			return true
		}
	}
	s.color[e.ID] = visited
	s.settle(e)
	return false
}

// settle files a finished entity into its output stream.
func (s *sorter) settle(e *Entity) {
	switch {
	case e.Op == spirv.OpTypeInt:
		s.intTypes = append(s.intTypes, e)
	case e.Op.IsConstant() && s.isIntTyped(e):
		s.intConsts = append(s.intConsts, e)
	case e.Op.IsType():
		s.types = append(s.types, e)
	default:
		s.rest = append(s.rest, e)
	}
}

func (s *sorter) isIntTyped(e *Entity) bool {
	t, ok := s.m.entries[e.Type]
	return ok && t.Op == spirv.OpTypeInt
}

// breakCycle synthesizes an OpTypeForwardPointer for a pointer type
// discovered on the active path, once per pointer id.
func (s *sorter) breakCycle(ptr *Entity) {
	if _, ok := s.broken[ptr.ID]; ok {
		return
	}
	s.broken[ptr.ID] = struct{}{}
	// Typed and untyped pointers both carry the storage class first.
	storage := ptr.Word(0)
	s.fwd = append(s.fwd, &Entity{
		Op:    spirv.OpTypeForwardPointer,
		Words: []uint32{uint32(ptr.ID), storage},
	})
}

// sortable reports whether an opcode participates in the global
// dependency sort.
func sortable(op spirv.Op) bool {
	if op.IsType() || op.IsConstant() {
		return true
	}
	return op == spirv.OpVariable || op == spirv.OpUntypedVariableKHR
}
