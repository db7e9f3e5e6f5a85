package ir

import (
	"testing"

	spirv "github.com/gogpu/spirv"
)

// Every entity in the sorted stream must follow all of its sortable
// operands.
func TestSortedGlobals_TopologicalOrder(t *testing.T) {
	m := NewModule()
	i32 := m.IntType(32)
	f32 := m.FloatType(32)
	vec4 := m.VectorType(f32, 4)
	length := m.LiteralAsConstant(16)
	arr := m.ArrayType(vec4, length)
	ptr := m.PointerType(spirv.StorageClassWorkgroup, arr)
	m.AddGlobalVariable(ptr, spirv.StorageClassWorkgroup, spirv.InvalidID)
	m.OpenStruct().AddMember(i32).AddMember(arr).Close()

	sorted, fwd := m.sortedGlobals()
	if len(fwd) != 0 {
		t.Errorf("acyclic graph produced %d forward pointers", len(fwd))
	}

	pos := make(map[spirv.ID]int)
	for i, e := range sorted {
		pos[e.ID] = i
	}
	for i, e := range sorted {
		for _, dep := range e.OperandIDs() {
			d, ok := m.Exist(dep)
			if !ok || !sortable(d.Op) {
				continue
			}
			j, emitted := pos[dep]
			if !emitted {
				t.Errorf("%s %%%d depends on unemitted %%%d", e.Op, e.ID, dep)
				continue
			}
			if j >= i {
				t.Errorf("%s %%%d at %d precedes its operand %%%d at %d", e.Op, e.ID, i, dep, j)
			}
		}
	}
}

// Integer types and integer-typed constants surface before everything
// else in the concatenated stream.
func TestSortedGlobals_IntegerStreamsFirst(t *testing.T) {
	m := NewModule()
	f32 := m.FloatType(32)
	m.FloatConstant(f32, 0x3f800000)
	i32 := m.IntType(32)
	c := m.IntConstant(i32, 9)

	sorted, _ := m.sortedGlobals()
	if len(sorted) != 4 {
		t.Fatalf("sorted %d entities, want 4", len(sorted))
	}
	if sorted[0] != i32 {
		t.Errorf("stream starts with %s, want the integer type", sorted[0].Op)
	}
	if sorted[1] != c {
		t.Errorf("second entry is %s %%%d, want the integer constant", sorted[1].Op, sorted[1].ID)
	}
}

// A struct holding a pointer back to itself sorts without aborting and
// yields exactly one forward declaration for the pointer id, ahead of
// the struct, with the pointer's real definition after it.
func TestSortedGlobals_PointerCycle(t *testing.T) {
	m := NewModule()
	sb := m.OpenStruct()
	node := sb.Close()
	ptr := m.PointerType(spirv.StorageClassGeneric, node)
	sb.AddMember(ptr)

	sorted, fwd := m.sortedGlobals()
	if len(fwd) != 1 {
		t.Fatalf("synthesized %d forward pointers, want 1", len(fwd))
	}
	if got := spirv.ID(fwd[0].Word(0)); got != ptr.ID {
		t.Errorf("forward pointer declares %%%d, want %%%d", got, ptr.ID)
	}
	if got := spirv.StorageClass(fwd[0].Word(1)); got != spirv.StorageClassGeneric {
		t.Errorf("forward pointer storage class = %s", got)
	}

	structAt, ptrAt := -1, -1
	for i, e := range sorted {
		switch e {
		case node:
			structAt = i
		case ptr:
			ptrAt = i
		}
	}
	if structAt < 0 || ptrAt < 0 {
		t.Fatalf("cycle members missing from stream (struct %d, pointer %d)", structAt, ptrAt)
	}
	if ptrAt < structAt {
		t.Errorf("pointer definition at %d precedes the struct at %d", ptrAt, structAt)
	}
}

// A second sort of the same module must not duplicate the forward
// declaration.
func TestSortedGlobals_CycleBreakIdempotent(t *testing.T) {
	m := NewModule()
	sb := m.OpenStruct()
	node := sb.Close()
	ptr := m.PointerType(spirv.StorageClassGeneric, node)
	sb.AddMember(ptr)

	if _, fwd := m.sortedGlobals(); len(fwd) != 1 {
		t.Fatalf("first sort synthesized %d forward pointers", len(fwd))
	}
	if _, fwd := m.sortedGlobals(); len(fwd) != 1 {
		t.Fatalf("second sort synthesized %d forward pointers", len(fwd))
	}
}

// A mutual dependency with no pointer on the path cannot be expressed
// in the output format and must abort.
func TestSortedGlobals_NonPointerCyclePanics(t *testing.T) {
	m := NewModule()
	a := m.Add(&Entity{Op: spirv.OpTypeStruct, ID: m.AllocID()})
	b := m.Add(&Entity{Op: spirv.OpTypeStruct, ID: m.AllocID(), Words: []uint32{uint32(a.ID)}})
	a.Words = []uint32{uint32(b.ID)}

	defer func() {
		if recover() == nil {
			t.Error("non-pointer cycle should panic")
		}
	}()
	m.sortedGlobals()
}

// An explicitly declared forward pointer suppresses synthesis for the
// same pointer id.
func TestSortedGlobals_DeclaredForwardPointer(t *testing.T) {
	m := NewModule()
	sb := m.OpenStruct()
	node := sb.Close()
	ptr := m.PointerType(spirv.StorageClassGeneric, node)
	sb.AddMember(ptr)
	m.AddForwardPointer(ptr.ID, spirv.StorageClassGeneric)

	if _, fwd := m.sortedGlobals(); len(fwd) != 0 {
		t.Errorf("declared forward pointer not honored: %d synthesized", len(fwd))
	}
}
