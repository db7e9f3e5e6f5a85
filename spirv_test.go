package spirv

import (
	"testing"
)

func TestVersion_WordRoundTrip(t *testing.T) {
	for _, v := range []Version{Version1_0, Version1_3, Version1_6} {
		got := VersionFromWord(v.Word())
		if got != v {
			t.Errorf("VersionFromWord(Word(%s)) = %s", v, got)
		}
	}
	if w := Version1_3.Word(); w != 0x00010300 {
		t.Errorf("Version1_3.Word() = 0x%08X, want 0x00010300", w)
	}
}

func TestVersion_Known(t *testing.T) {
	if !Version1_6.Known() {
		t.Error("Version1_6 should be known")
	}
	if (Version{2, 0}).Known() {
		t.Error("2.0 should not be known")
	}
	if !Version1_2.AtMost(Version1_4) {
		t.Error("1.2 should be at most 1.4")
	}
	if Version1_5.AtMost(Version1_4) {
		t.Error("1.5 should not be at most 1.4")
	}
}

func TestStringCodec(t *testing.T) {
	tests := []struct {
		s     string
		words int
	}{
		{"", 1},
		{"abc", 1},
		{"abcd", 2}, // 4 bytes + nul forces a second word
		{"main", 2},
		{"OpenCL.std", 3},
	}
	for _, tt := range tests {
		words := EncodeString(tt.s)
		if len(words) != tt.words {
			t.Errorf("EncodeString(%q) = %d words, want %d", tt.s, len(words), tt.words)
		}
		got, n := DecodeString(words)
		if got != tt.s || n != tt.words {
			t.Errorf("DecodeString(EncodeString(%q)) = %q (%d words)", tt.s, got, n)
		}
	}
}

func TestInstruction_Encode(t *testing.T) {
	i := Instruction{Opcode: OpCapability, Words: []uint32{uint32(CapabilityKernel)}}
	words, err := i.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	if words[0] != 2<<16|uint32(OpCapability) {
		t.Errorf("frame word = 0x%08X", words[0])
	}
	if words[1] != uint32(CapabilityKernel) {
		t.Errorf("payload = %d", words[1])
	}
}

func TestInstructionBuilder(t *testing.T) {
	b := NewInstructionBuilder()
	b.AddID(ID(3))
	b.AddString("run")
	b.AddWord(7)
	i := b.Build(OpEntryPoint)
	if i.Opcode != OpEntryPoint {
		t.Errorf("opcode = %s", i.Opcode)
	}
	want := []uint32{3, 0x006E7572, 7}
	if len(i.Words) != len(want) {
		t.Fatalf("got %d words, want %d", len(i.Words), len(want))
	}
	for j, w := range want {
		if i.Words[j] != w {
			t.Errorf("word %d = 0x%08X, want 0x%08X", j, i.Words[j], w)
		}
	}
	if i.WordCount() != 4 {
		t.Errorf("WordCount = %d, want 4", i.WordCount())
	}
}

func TestInstruction_EncodeOverflow(t *testing.T) {
	i := Instruction{Opcode: OpConstant, Words: make([]uint32, MaxWordCount)}
	if _, err := i.Encode(); err == nil {
		t.Error("expected word count overflow error")
	}
}

func TestIsBinaryIsText(t *testing.T) {
	bin := EncodeWords([]uint32{MagicNumber, Version1_0.Word(), 0, 1, 0})
	if !IsBinary(bin) {
		t.Error("IsBinary rejected a valid header")
	}
	if IsText(bin) {
		t.Error("IsText accepted binary")
	}
	text := []byte("119734787 65536 0 1 0\n")
	if !IsText(text) {
		t.Error("IsText rejected a valid leading token")
	}
	if IsBinary(text) {
		t.Error("IsBinary accepted text")
	}
	if IsBinary(nil) || IsText(nil) {
		t.Error("empty buffer should sniff as neither")
	}
}

func TestOpFromName(t *testing.T) {
	op, ok := OpFromName("OpTypeStruct")
	if !ok || op != OpTypeStruct {
		t.Errorf("OpFromName(OpTypeStruct) = %v, %v", op, ok)
	}
	if _, ok := OpFromName("OpBogus"); ok {
		t.Error("OpFromName accepted an unknown mnemonic")
	}
	if got := OpLabel.String(); got != "OpLabel" {
		t.Errorf("OpLabel.String() = %q", got)
	}
	if got := Op(9999).String(); got != "Op9999" {
		t.Errorf("unknown op String() = %q", got)
	}
}

func TestSourceLanguageString(t *testing.T) {
	if got := SourceLanguageOpenCLC.String(); got != "OpenCL_C" {
		t.Errorf("SourceLanguageOpenCLC.String() = %q", got)
	}
	if got := SourceLanguage(99).String(); got != "SourceLanguage(99)" {
		t.Errorf("unknown language String() = %q", got)
	}
}

func TestCapabilityImplied(t *testing.T) {
	found := false
	for _, c := range CapabilityShader.Implied() {
		if c == CapabilityMatrix {
			found = true
		}
	}
	if !found {
		t.Error("Shader should imply Matrix")
	}
}

func TestCapabilityRequiredExtension(t *testing.T) {
	if got := CapabilityAtomicFloat16AddEXT.RequiredExtension(); got != ExtSPVEXTShaderAtomicFloat16Add {
		t.Errorf("AtomicFloat16AddEXT requires %v", got)
	}
	// The 16-bit add extension drags in the base float-add extension.
	if got := ExtSPVEXTShaderAtomicFloat16Add.ImpliedExtension(); got != ExtSPVEXTShaderAtomicFloatAdd {
		t.Errorf("implied extension = %v", got)
	}
	if got := CapabilityKernel.RequiredExtension(); got != ExtensionNone {
		t.Errorf("Kernel should require no extension, got %v", got)
	}
}
