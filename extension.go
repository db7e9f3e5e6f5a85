package spirv

// Extension identifies an optional specification addendum.
type Extension int

const (
	// ExtensionNone marks the absence of a requirement in tables.
	ExtensionNone Extension = iota
	ExtSPVKHRStorageBufferStorageClass
	ExtSPVKHR16BitStorage
	ExtSPVKHRUntypedPointers
	ExtSPVEXTShaderAtomicFloatAdd
	ExtSPVEXTShaderAtomicFloat16Add
	ExtSPVINTELInlineAssembly
	ExtSPVINTELMemoryAccessAliasing
	ExtSPVINTELArbitraryPrecisionIntegers
	ExtSPVINTELUnstructuredLoopControls
	ExtSPVINTELFunctionVariants

	extensionCount
)

var extensionNames = map[Extension]string{
	ExtSPVKHRStorageBufferStorageClass:    "SPV_KHR_storage_buffer_storage_class",
	ExtSPVKHR16BitStorage:                 "SPV_KHR_16bit_storage",
	ExtSPVKHRUntypedPointers:              "SPV_KHR_untyped_pointers",
	ExtSPVEXTShaderAtomicFloatAdd:         "SPV_EXT_shader_atomic_float_add",
	ExtSPVEXTShaderAtomicFloat16Add:       "SPV_EXT_shader_atomic_float16_add",
	ExtSPVINTELInlineAssembly:             "SPV_INTEL_inline_assembly",
	ExtSPVINTELMemoryAccessAliasing:       "SPV_INTEL_memory_access_aliasing",
	ExtSPVINTELArbitraryPrecisionIntegers: "SPV_INTEL_arbitrary_precision_integers",
	ExtSPVINTELUnstructuredLoopControls:   "SPV_INTEL_unstructured_loop_controls",
	ExtSPVINTELFunctionVariants:           "SPV_INTEL_function_variants",
}

var extensionByName map[string]Extension

func init() {
	extensionByName = make(map[string]Extension, len(extensionNames))
	for ext, name := range extensionNames {
		extensionByName[name] = ext
	}
}

// String returns the canonical extension name.
func (e Extension) String() string {
	return extensionNames[e]
}

// ExtensionFromName resolves a canonical extension name.
func ExtensionFromName(name string) (Extension, bool) {
	ext, ok := extensionByName[name]
	return ext, ok
}

// Extensions enumerates every extension known to the package.
func Extensions() []Extension {
	exts := make([]Extension, 0, int(extensionCount)-1)
	for e := ExtensionNone + 1; e < extensionCount; e++ {
		exts = append(exts, e)
	}
	return exts
}

// RequiredExtension returns the single extension a capability needs, or
// ExtensionNone. AtomicFloat16AddEXT is the specification's one exception:
// it needs two extensions at once, which AddExtension handles by implicitly
// enabling the older float-add extension alongside the 16-bit one.
func (c Capability) RequiredExtension() Extension {
	switch c {
	case CapabilityUntypedPointersKHR:
		return ExtSPVKHRUntypedPointers
	case CapabilityAtomicFloat32AddEXT, CapabilityAtomicFloat64AddEXT:
		return ExtSPVEXTShaderAtomicFloatAdd
	case CapabilityAtomicFloat16AddEXT:
		return ExtSPVEXTShaderAtomicFloat16Add
	case CapabilityAsmINTEL:
		return ExtSPVINTELInlineAssembly
	case CapabilityMemoryAccessAliasingINTEL:
		return ExtSPVINTELMemoryAccessAliasing
	case CapabilityArbitraryPrecisionIntegersINTEL:
		return ExtSPVINTELArbitraryPrecisionIntegers
	case CapabilityUnstructuredLoopControlsINTEL:
		return ExtSPVINTELUnstructuredLoopControls
	case CapabilityFunctionVariantsINTEL:
		return ExtSPVINTELFunctionVariants
	default:
		return ExtensionNone
	}
}

// ImpliedExtension returns an extension that enabling e implicitly also
// enables, or ExtensionNone. The 16-bit atomic float add extension extends
// the base float add extension and the specification requires both.
func (e Extension) ImpliedExtension() Extension {
	if e == ExtSPVEXTShaderAtomicFloat16Add {
		return ExtSPVEXTShaderAtomicFloatAdd
	}
	return ExtensionNone
}
