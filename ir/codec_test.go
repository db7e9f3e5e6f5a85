package ir

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	spirv "github.com/gogpu/spirv"
)

func buildKernelModule(t *testing.T) *Module {
	t.Helper()
	m := NewModuleWithPolicy(spirv.PermissivePolicy())
	m.SetVersion(spirv.Version1_2)
	m.SetGenerator(42, 7)
	m.SetMemoryModel(spirv.AddressingModelPhysical64, spirv.MemoryModelOpenCL)
	m.SetSourceLanguage(spirv.SourceLanguageOpenCLC, 200000)
	m.AddCapability(spirv.CapabilityKernel)
	m.AddExtension(spirv.ExtSPVKHRStorageBufferStorageClass)

	void := m.VoidType()
	i32 := m.IntType(32)
	seven := m.IntConstant(i32, 7)
	ptr := m.PointerType(spirv.StorageClassCrossWorkgroup, i32)
	gv := m.AddGlobalVariable(ptr, spirv.StorageClassCrossWorkgroup, spirv.InvalidID)

	fnType := m.FunctionType(void)
	fn := m.AddFunction(void, fnType, spirv.FunctionControlNone)
	m.AddLabel(fn)
	m.AddInstruction(fn, spirv.OpStore, nil, uint32(gv.ID), uint32(seven.ID))
	m.AddInstruction(fn, spirv.OpReturn, nil)

	m.AddEntryPoint(spirv.ExecutionModelKernel, fn.ID(), "main")
	m.AddExecutionMode(fn.ID(), spirv.ExecutionModeLocalSize, 8, 1, 1)
	m.SetName(fn.Entity, "main")
	m.SetName(gv, "counter")
	m.AddDecorate(gv.ID, spirv.DecorationVolatile)
	return m
}

func TestRoundTrip_Content(t *testing.T) {
	m := buildKernelModule(t)
	data, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	got, err := DecodeWithPolicy(data, spirv.PermissivePolicy())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Version() != m.Version() {
		t.Errorf("version = %s, want %s", got.Version(), m.Version())
	}
	tool, ver := got.Generator()
	if tool != 42 || ver != 7 {
		t.Errorf("generator = (%d, %d), want (42, 7)", tool, ver)
	}
	addr, mem := got.MemoryModel()
	if addr != spirv.AddressingModelPhysical64 || mem != spirv.MemoryModelOpenCL {
		t.Errorf("memory model = (%s, %s)", addr, mem)
	}
	lang, langVer := got.SourceLanguage()
	if lang != spirv.SourceLanguageOpenCLC || langVer != 200000 {
		t.Errorf("source = (%s, %d)", lang, langVer)
	}
	if diff := cmp.Diff(m.Capabilities(), got.Capabilities()); diff != "" {
		t.Errorf("capabilities mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.ExtensionNames(), got.ExtensionNames()); diff != "" {
		t.Errorf("extensions mismatch (-want +got):\n%s", diff)
	}
	if len(got.Types()) != len(m.Types()) {
		t.Errorf("types = %d, want %d", len(got.Types()), len(m.Types()))
	}
	if len(got.Constants()) != len(m.Constants()) {
		t.Errorf("constants = %d, want %d", len(got.Constants()), len(m.Constants()))
	}
	if len(got.Variables()) != len(m.Variables()) {
		t.Errorf("variables = %d, want %d", len(got.Variables()), len(m.Variables()))
	}
	if len(got.Functions()) != 1 {
		t.Fatalf("functions = %d, want 1", len(got.Functions()))
	}
	fn := got.Functions()[0]
	if !got.IsEntryPoint(spirv.ExecutionModelKernel, fn.ID()) {
		t.Error("entry point lost in round trip")
	}
	eps := got.EntryPoints()
	if len(eps) != 1 || eps[0].Name != "main" {
		t.Errorf("entry points = %+v, want one named main", eps)
	}
	var counter *Entity
	for _, v := range got.Variables() {
		if v.Name == "counter" {
			counter = v
		}
	}
	if counter == nil {
		t.Fatal("variable name lost in round trip")
	}
	if !got.HasDecorate(counter.ID, spirv.DecorationVolatile) {
		t.Error("decoration lost in round trip")
	}
	modes := got.ExecutionModes(fn.ID())
	if len(modes) != 1 || modes[0].Mode != spirv.ExecutionModeLocalSize {
		t.Errorf("execution modes = %+v", modes)
	}
}

func TestRoundTrip_Stable(t *testing.T) {
	m := buildKernelModule(t)
	first, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	reparsed, err := DecodeWithPolicy(first, spirv.PermissivePolicy())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := reparsed.Bytes()
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second encoding differs (-first +second):\n%s", diff)
	}
}

func header(version uint32) []uint32 {
	return []uint32{spirv.MagicNumber, version, 0, 100, 0}
}

func decodeErr(t *testing.T, words []uint32, policy spirv.Policy) (ErrorCode, string) {
	t.Helper()
	m, err := DecodeWithPolicy(spirv.EncodeWords(words), policy)
	if err == nil {
		t.Fatal("decode succeeded, want error")
	}
	code, msg := m.Error()
	return code, msg
}

func TestDecode_HeaderErrors(t *testing.T) {
	v12 := spirv.Version1_2.Word()
	tests := []struct {
		name     string
		words    []uint32
		policy   spirv.Policy
		wantCode ErrorCode
		wantMsg  string
	}{
		{"empty", nil, spirv.PermissivePolicy(), ErrInvalidModule, "empty"},
		{"truncated", []uint32{spirv.MagicNumber, v12}, spirv.PermissivePolicy(), ErrInvalidModule, "header"},
		{"bad magic", append([]uint32{0xdeadbeef}, header(v12)[1:]...), spirv.PermissivePolicy(), ErrInvalidModule, "magic"},
		{"unknown version", header(0x00090000), spirv.PermissivePolicy(), ErrInvalidModule, "version"},
		{"over policy max", header(spirv.Version1_6.Word()), spirv.Policy{MaxVersion: spirv.Version1_1}, ErrRequiresVersion, "1.6"},
		{"bad schema", []uint32{spirv.MagicNumber, v12, 0, 100, 9}, spirv.PermissivePolicy(), ErrInvalidModule, "schema"},
		{"zero word count", append(header(v12), 0), spirv.PermissivePolicy(), ErrInvalidModule, "count"},
		{"overrun", append(header(v12), uint32(3)<<16|uint32(spirv.OpCapability)), spirv.PermissivePolicy(), ErrInvalidModule, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := decodeErr(t, tt.words, tt.policy)
			if code != tt.wantCode {
				t.Errorf("code = %v, want %v (msg %q)", code, tt.wantCode, msg)
			}
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("msg = %q, want it to mention %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestDecode_ShortPayloads(t *testing.T) {
	tests := []struct {
		name  string
		frame []uint32
	}{
		{"OpName", []uint32{1<<16 | uint32(spirv.OpName)}},
		{"OpMemberName", []uint32{3<<16 | uint32(spirv.OpMemberName), 4, 0}},
		{"OpExtInstImport", []uint32{2<<16 | uint32(spirv.OpExtInstImport), 1}},
		{"OpConditionalExtensionINTEL", []uint32{1<<16 | uint32(spirv.OpConditionalExtensionINTEL)}},
		{"OpEntryPoint", []uint32{3<<16 | uint32(spirv.OpEntryPoint), 6, 4}},
		{"OpConditionalEntryPointINTEL", []uint32{4<<16 | uint32(spirv.OpConditionalEntryPointINTEL), 1, 6, 4}},
		{"OpExecutionMode", []uint32{2<<16 | uint32(spirv.OpExecutionMode), 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := append(header(spirv.Version1_2.Word()), tt.frame...)
			code, msg := decodeErr(t, words, spirv.PermissivePolicy())
			if code != ErrInvalidModule {
				t.Errorf("code = %v, want %v", code, ErrInvalidModule)
			}
			if !strings.Contains(msg, "too short") {
				t.Errorf("msg = %q, want payload length complaint", msg)
			}
		})
	}
}

func TestDecode_UnimplementedOpcode(t *testing.T) {
	words := append(header(spirv.Version1_2.Word()), uint32(1)<<16|0x7abc)
	code, _ := decodeErr(t, words, spirv.PermissivePolicy())
	if code != ErrUnimplementedOpCode {
		t.Errorf("code = %v, want %v", code, ErrUnimplementedOpCode)
	}
}

func TestDecode_UnknownExtensionName(t *testing.T) {
	ext := spirv.Instruction{
		Opcode: spirv.OpExtension,
		Words:  spirv.EncodeString("SPV_NOT_a_real_extension"),
	}
	frame, err := ext.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	words := append(header(spirv.Version1_2.Word()), frame...)
	code, _ := decodeErr(t, words, spirv.PermissivePolicy())
	if code != ErrRequiresExtension {
		t.Errorf("code = %v, want %v", code, ErrRequiresExtension)
	}
}

func TestCapabilityGating(t *testing.T) {
	t.Run("auto add", func(t *testing.T) {
		m := NewModule()
		m.FloatType(16)
		if !m.HasCapability(spirv.CapabilityFloat16) {
			t.Error("Float16 capability not inferred")
		}
	})
	t.Run("validate without inference", func(t *testing.T) {
		m := NewModule()
		m.SetAutoAddCapability(false)
		m.SetValidateCapability(true)
		defer func() {
			if recover() == nil {
				t.Error("missing capability should panic under validation")
			}
		}()
		m.FloatType(16)
	})
	t.Run("both off", func(t *testing.T) {
		m := NewModule()
		m.SetAutoAddCapability(false)
		m.FloatType(16)
		if m.HasCapability(spirv.CapabilityFloat16) {
			t.Error("capability added with inference off")
		}
		if !m.Valid() {
			t.Error("module invalidated")
		}
	})
}

func TestExtensionAllowList(t *testing.T) {
	m := NewModule() // default policy: no extensions
	m.AddExtension(spirv.ExtSPVKHRStorageBufferStorageClass)
	if m.Valid() {
		t.Error("disallowed extension left the module valid")
	}
	if code, _ := m.Error(); code != ErrRequiresExtension {
		t.Errorf("code = %v, want %v", code, ErrRequiresExtension)
	}
	if len(m.ExtensionNames()) != 0 {
		t.Errorf("extension set = %v, want empty", m.ExtensionNames())
	}

	p := NewModuleWithPolicy(spirv.PermissivePolicy())
	p.AddExtension(spirv.ExtSPVKHRStorageBufferStorageClass)
	p.AddExtension(spirv.ExtSPVKHRStorageBufferStorageClass)
	if got := p.ExtensionNames(); len(got) != 1 {
		t.Errorf("extension set = %v, want one entry", got)
	}
}

func TestExtension_ImpliedPair(t *testing.T) {
	m := NewModuleWithPolicy(spirv.PermissivePolicy())
	m.AddExtension(spirv.ExtSPVEXTShaderAtomicFloat16Add)
	for _, ext := range []spirv.Extension{
		spirv.ExtSPVEXTShaderAtomicFloat16Add,
		spirv.ExtSPVEXTShaderAtomicFloatAdd,
	} {
		if !m.HasExtension(ext) {
			t.Errorf("missing %s", ext)
		}
	}
}

func TestDecorationGroup_RoundTrip(t *testing.T) {
	m := NewModuleWithPolicy(spirv.PermissivePolicy())
	m.AddCapability(spirv.CapabilityKernel)
	i32 := m.IntType(32)
	ptr := m.PointerType(spirv.StorageClassCrossWorkgroup, i32)
	a := m.AddGlobalVariable(ptr, spirv.StorageClassCrossWorkgroup, spirv.InvalidID)
	b := m.AddGlobalVariable(ptr, spirv.StorageClassCrossWorkgroup, spirv.InvalidID)

	m.AddDecorate(spirv.InvalidID, spirv.DecorationVolatile)
	m.AddDecorate(spirv.InvalidID, spirv.DecorationRestrict)
	group := m.AddDecorationGroup()
	m.AddGroupDecorate(group, a.ID, b.ID)

	if len(group.Members) != 2 {
		t.Fatalf("group absorbed %d decorations, want 2", len(group.Members))
	}
	for _, id := range []spirv.ID{a.ID, b.ID} {
		if !m.HasDecorate(id, spirv.DecorationVolatile) || !m.HasDecorate(id, spirv.DecorationRestrict) {
			t.Errorf("%%%d missing group decorations", id)
		}
	}

	data, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	got, err := DecodeWithPolicy(data, spirv.PermissivePolicy())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for _, id := range []spirv.ID{a.ID, b.ID} {
		if !got.HasDecorate(id, spirv.DecorationVolatile) {
			t.Errorf("reparsed %%%d lost its group decoration", id)
		}
	}
}

func TestDecorationGroup_AbsorbsPendingList(t *testing.T) {
	m := NewModuleWithPolicy(spirv.PermissivePolicy())
	m.AddCapability(spirv.CapabilityKernel)
	i32 := m.IntType(32)
	ptr := m.PointerType(spirv.StorageClassCrossWorkgroup, i32)
	v := m.AddGlobalVariable(ptr, spirv.StorageClassCrossWorkgroup, spirv.InvalidID)

	m.AddDecorate(v.ID, spirv.DecorationVolatile)
	m.AddDecorate(spirv.InvalidID, spirv.DecorationRestrict)
	group := m.AddDecorationGroup()

	if len(group.Members) != 2 {
		t.Fatalf("group absorbed %d decorations, want the whole pending list of 2", len(group.Members))
	}
	for i, d := range group.Members {
		if spirv.ID(d.Word(0)) != group.Entity.ID {
			t.Errorf("member %d targets %%%d, want the group id %%%d", i, d.Word(0), group.Entity.ID)
		}
	}
	if m.HasDecorate(v.ID, spirv.DecorationVolatile) {
		t.Error("absorbed decoration still applies to its old target")
	}

	m.AddGroupDecorate(group, v.ID)
	if !m.HasDecorate(v.ID, spirv.DecorationVolatile) || !m.HasDecorate(v.ID, spirv.DecorationRestrict) {
		t.Error("group application missing absorbed decorations")
	}

	data, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	got, err := DecodeWithPolicy(data, spirv.PermissivePolicy())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g := got.groupByID(group.Entity.ID); g == nil || len(g.Members) != 2 {
		t.Fatalf("reparsed group lost its members")
	}
}

func TestConditional_Specialize(t *testing.T) {
	m := NewModuleWithPolicy(spirv.PermissivePolicy())
	cond := m.AllocID()

	m.AddConditionalCapability(cond, spirv.CapabilityFloat16)
	m.AddConditionalExtension(cond, spirv.ExtSPVKHRStorageBufferStorageClass)

	m.SpecializeConditionalCapabilities(cond, true)
	if !m.HasCapability(spirv.CapabilityFloat16) {
		t.Error("kept conditional capability not promoted")
	}
	m.SpecializeConditionalExtensions(cond, false)
	if m.HasExtension(spirv.ExtSPVKHRStorageBufferStorageClass) {
		t.Error("dropped conditional extension promoted anyway")
	}
}

func TestEncode_LineMarkers(t *testing.T) {
	m := NewModuleWithPolicy(spirv.PermissivePolicy())
	file := m.GetString("kernel.cl")

	m.SetCurrentLine(file.ID, 12, 3)
	i32 := m.IntType(32)
	m.IntConstant(i32, 9)
	m.SetCurrentLine(file.ID, 14, 1)
	m.FloatType(32)

	words, err := m.Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	var lines [][]uint32
	for i := spirv.HeaderWords; i < len(words); i += int(words[i] >> 16) {
		if spirv.Op(words[i]&0xffff) == spirv.OpLine {
			lines = append(lines, words[i+1:i+int(words[i]>>16)])
		}
	}
	if len(lines) != 2 {
		t.Fatalf("emitted %d OpLine markers, want 2", len(lines))
	}
	want := []uint32{uint32(file.ID), 12, 3}
	if diff := cmp.Diff(want, lines[0]); diff != "" {
		t.Errorf("first marker mismatch (-want +got):\n%s", diff)
	}
	if lines[1][1] != 14 {
		t.Errorf("second marker line = %d, want 14", lines[1][1])
	}

	got, err := DecodeWithPolicy(spirv.EncodeWords(words), spirv.PermissivePolicy())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	e := got.Entry(i32.ID)
	if e.Line == nil || e.Line.Word(1) != 12 {
		t.Errorf("reparsed type lost its line marker: %+v", e.Line)
	}
}
