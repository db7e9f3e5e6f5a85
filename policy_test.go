package spirv

import (
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if !p.VersionAllowed(Version1_6) {
		t.Error("default policy should allow 1.6")
	}
	if p.ExtensionAllowed(ExtSPVINTELInlineAssembly) {
		t.Error("default policy should deny every extension")
	}
}

func TestPermissivePolicy(t *testing.T) {
	p := PermissivePolicy()
	for _, ext := range Extensions() {
		if !p.ExtensionAllowed(ext) {
			t.Errorf("permissive policy should allow %s", ext)
		}
	}
}

func TestPolicy_AllowDeny(t *testing.T) {
	p := DefaultPolicy()
	p.Allow(ExtSPVKHRUntypedPointers)
	if !p.ExtensionAllowed(ExtSPVKHRUntypedPointers) {
		t.Error("explicitly allowed extension denied")
	}

	// Explicit denials override allow-all.
	q := PermissivePolicy()
	q.Deny(ExtSPVINTELInlineAssembly)
	if q.ExtensionAllowed(ExtSPVINTELInlineAssembly) {
		t.Error("explicitly denied extension allowed")
	}
	if !q.ExtensionAllowed(ExtSPVINTELMemoryAccessAliasing) {
		t.Error("deny of one extension should not affect others")
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(`
max-version = "1.4"
allow-all-extensions = false

[extensions]
"SPV_EXT_shader_atomic_float_add" = true
"SPV_INTEL_inline_assembly" = false
`)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	if p.MaxVersion != Version1_4 {
		t.Errorf("MaxVersion = %s, want 1.4", p.MaxVersion)
	}
	if p.VersionAllowed(Version1_5) {
		t.Error("1.5 should exceed max-version 1.4")
	}
	if !p.ExtensionAllowed(ExtSPVEXTShaderAtomicFloatAdd) {
		t.Error("listed extension should be allowed")
	}
	if p.ExtensionAllowed(ExtSPVINTELInlineAssembly) {
		t.Error("false-listed extension should be denied")
	}
}

func TestParsePolicy_Errors(t *testing.T) {
	if _, err := ParsePolicy(`max-version = "2.0"`); err == nil {
		t.Error("unknown version should be rejected")
	}
	if _, err := ParsePolicy(`[extensions]` + "\n" + `"SPV_MADE_UP" = true`); err == nil {
		t.Error("unknown extension name should be rejected")
	}
	if _, err := ParsePolicy(`max-version = "nonsense"`); err == nil {
		t.Error("malformed version should be rejected")
	}
}
