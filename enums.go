package spirv

import "strconv"

// Capability is a named feature flag a consuming runtime must support.
type Capability uint32

// Capabilities referenced by the container and its requirement tables.
const (
	CapabilityMatrix        Capability = 0
	CapabilityShader        Capability = 1
	CapabilityGeometry      Capability = 2
	CapabilityTessellation  Capability = 3
	CapabilityAddresses     Capability = 4
	CapabilityLinkage       Capability = 5
	CapabilityKernel        Capability = 6
	CapabilityVector16      Capability = 7
	CapabilityFloat16Buffer Capability = 8
	CapabilityFloat16       Capability = 9
	CapabilityFloat64       Capability = 10
	CapabilityInt64         Capability = 11
	CapabilityInt64Atomics  Capability = 12
	CapabilityPipes         Capability = 17
	CapabilityDeviceEnqueue Capability = 19
	CapabilityInt16         Capability = 22
	CapabilityInt8          Capability = 38
	CapabilitySampled1D     Capability = 43

	CapabilityUntypedPointersKHR Capability = 4473

	CapabilityArbitraryPrecisionIntegersINTEL Capability = 5844
	CapabilityUnstructuredLoopControlsINTEL   Capability = 5886
	CapabilityAsmINTEL                        Capability = 5606
	CapabilityMemoryAccessAliasingINTEL       Capability = 5910
	CapabilityFunctionVariantsINTEL           Capability = 6445

	CapabilityAtomicFloat32AddEXT Capability = 6033
	CapabilityAtomicFloat64AddEXT Capability = 6034
	CapabilityAtomicFloat16AddEXT Capability = 6095

	// CapabilityNone marks the absence of a requirement in tables.
	CapabilityNone Capability = 0xFFFFFFFF
)

var capabilityNames = map[Capability]string{
	CapabilityMatrix:        "Matrix",
	CapabilityShader:        "Shader",
	CapabilityGeometry:      "Geometry",
	CapabilityTessellation:  "Tessellation",
	CapabilityAddresses:     "Addresses",
	CapabilityLinkage:       "Linkage",
	CapabilityKernel:        "Kernel",
	CapabilityVector16:      "Vector16",
	CapabilityFloat16Buffer: "Float16Buffer",
	CapabilityFloat16:       "Float16",
	CapabilityFloat64:       "Float64",
	CapabilityInt64:         "Int64",
	CapabilityInt64Atomics:  "Int64Atomics",
	CapabilityPipes:         "Pipes",
	CapabilityDeviceEnqueue: "DeviceEnqueue",
	CapabilityInt16:         "Int16",
	CapabilityInt8:          "Int8",
	CapabilitySampled1D:     "Sampled1D",

	CapabilityUntypedPointersKHR: "UntypedPointersKHR",

	CapabilityArbitraryPrecisionIntegersINTEL: "ArbitraryPrecisionIntegersINTEL",
	CapabilityUnstructuredLoopControlsINTEL:   "UnstructuredLoopControlsINTEL",
	CapabilityAsmINTEL:                        "AsmINTEL",
	CapabilityMemoryAccessAliasingINTEL:       "MemoryAccessAliasingINTEL",
	CapabilityFunctionVariantsINTEL:           "FunctionVariantsINTEL",

	CapabilityAtomicFloat32AddEXT: "AtomicFloat32AddEXT",
	CapabilityAtomicFloat64AddEXT: "AtomicFloat64AddEXT",
	CapabilityAtomicFloat16AddEXT: "AtomicFloat16AddEXT",
}

func (c Capability) String() string {
	if s, ok := capabilityNames[c]; ok {
		return s
	}
	return "Capability(" + strconv.FormatUint(uint64(c), 10) + ")"
}

// Implied returns capabilities that adding c also requires.
func (c Capability) Implied() []Capability {
	switch c {
	case CapabilityShader:
		return []Capability{CapabilityMatrix}
	case CapabilityGeometry, CapabilityTessellation:
		return []Capability{CapabilityShader}
	case CapabilityInt64Atomics:
		return []Capability{CapabilityInt64}
	case CapabilityVector16, CapabilityFloat16Buffer, CapabilityPipes:
		return []Capability{CapabilityKernel}
	default:
		return nil
	}
}

// StorageClass classifies the storage a pointer or variable addresses.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

var storageClassNames = map[StorageClass]string{
	StorageClassUniformConstant: "UniformConstant",
	StorageClassInput:           "Input",
	StorageClassUniform:         "Uniform",
	StorageClassOutput:          "Output",
	StorageClassWorkgroup:       "Workgroup",
	StorageClassCrossWorkgroup:  "CrossWorkgroup",
	StorageClassPrivate:         "Private",
	StorageClassFunction:        "Function",
	StorageClassGeneric:         "Generic",
	StorageClassPushConstant:    "PushConstant",
	StorageClassAtomicCounter:   "AtomicCounter",
	StorageClassImage:           "Image",
	StorageClassStorageBuffer:   "StorageBuffer",
}

func (s StorageClass) String() string {
	if n, ok := storageClassNames[s]; ok {
		return n
	}
	return "StorageClass(" + strconv.FormatUint(uint64(s), 10) + ")"
}

// Decoration is metadata attached to a target id or struct member.
type Decoration uint32

const (
	DecorationRelaxedPrecision  Decoration = 0
	DecorationSpecId            Decoration = 1
	DecorationBlock             Decoration = 2
	DecorationBufferBlock       Decoration = 3
	DecorationRowMajor          Decoration = 4
	DecorationColMajor          Decoration = 5
	DecorationArrayStride       Decoration = 6
	DecorationMatrixStride      Decoration = 7
	DecorationCPacked           Decoration = 10
	DecorationBuiltIn           Decoration = 11
	DecorationFlat              Decoration = 14
	DecorationRestrict          Decoration = 19
	DecorationAliased           Decoration = 20
	DecorationVolatile          Decoration = 21
	DecorationConstant          Decoration = 22
	DecorationNonWritable       Decoration = 24
	DecorationNonReadable       Decoration = 25
	DecorationLocation          Decoration = 30
	DecorationComponent         Decoration = 31
	DecorationIndex             Decoration = 32
	DecorationBinding           Decoration = 33
	DecorationDescriptorSet     Decoration = 34
	DecorationOffset            Decoration = 35
	DecorationFuncParamAttr     Decoration = 38
	DecorationLinkageAttributes Decoration = 41
	DecorationNoContraction     Decoration = 42
	DecorationAlignment         Decoration = 44
)

var decorationNames = map[Decoration]string{
	DecorationRelaxedPrecision:  "RelaxedPrecision",
	DecorationSpecId:            "SpecId",
	DecorationBlock:             "Block",
	DecorationBufferBlock:       "BufferBlock",
	DecorationRowMajor:          "RowMajor",
	DecorationColMajor:          "ColMajor",
	DecorationArrayStride:       "ArrayStride",
	DecorationMatrixStride:      "MatrixStride",
	DecorationCPacked:           "CPacked",
	DecorationBuiltIn:           "BuiltIn",
	DecorationFlat:              "Flat",
	DecorationRestrict:          "Restrict",
	DecorationAliased:           "Aliased",
	DecorationVolatile:          "Volatile",
	DecorationConstant:          "Constant",
	DecorationNonWritable:       "NonWritable",
	DecorationNonReadable:       "NonReadable",
	DecorationLocation:          "Location",
	DecorationComponent:         "Component",
	DecorationIndex:             "Index",
	DecorationBinding:           "Binding",
	DecorationDescriptorSet:     "DescriptorSet",
	DecorationOffset:            "Offset",
	DecorationFuncParamAttr:     "FuncParamAttr",
	DecorationLinkageAttributes: "LinkageAttributes",
	DecorationNoContraction:     "NoContraction",
	DecorationAlignment:         "Alignment",
}

func (d Decoration) String() string {
	if n, ok := decorationNames[d]; ok {
		return n
	}
	return "Decoration(" + strconv.FormatUint(uint64(d), 10) + ")"
}

// RequiredCapability returns the capability the decoration kind needs, or
// CapabilityNone.
func (d Decoration) RequiredCapability() Capability {
	switch d {
	case DecorationCPacked, DecorationFuncParamAttr:
		return CapabilityKernel
	case DecorationRowMajor, DecorationColMajor, DecorationMatrixStride:
		return CapabilityMatrix
	case DecorationLinkageAttributes:
		return CapabilityLinkage
	case DecorationBuiltIn, DecorationLocation, DecorationDescriptorSet, DecorationBinding:
		return CapabilityShader
	default:
		return CapabilityNone
	}
}

// ExecutionModel designates how an entry point is invoked.
type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

var executionModelNames = map[ExecutionModel]string{
	ExecutionModelVertex:                 "Vertex",
	ExecutionModelTessellationControl:    "TessellationControl",
	ExecutionModelTessellationEvaluation: "TessellationEvaluation",
	ExecutionModelGeometry:               "Geometry",
	ExecutionModelFragment:               "Fragment",
	ExecutionModelGLCompute:              "GLCompute",
	ExecutionModelKernel:                 "Kernel",
}

func (m ExecutionModel) String() string {
	if n, ok := executionModelNames[m]; ok {
		return n
	}
	return "ExecutionModel(" + strconv.FormatUint(uint64(m), 10) + ")"
}

// Valid reports whether the execution model is one this package knows.
func (m ExecutionModel) Valid() bool {
	_, ok := executionModelNames[m]
	return ok
}

// RequiredCapability returns the capability implied by declaring an entry
// point with this execution model.
func (m ExecutionModel) RequiredCapability() Capability {
	switch m {
	case ExecutionModelVertex, ExecutionModelFragment, ExecutionModelGLCompute:
		return CapabilityShader
	case ExecutionModelTessellationControl, ExecutionModelTessellationEvaluation:
		return CapabilityTessellation
	case ExecutionModelGeometry:
		return CapabilityGeometry
	case ExecutionModelKernel:
		return CapabilityKernel
	default:
		return CapabilityNone
	}
}

// ExecutionMode refines an entry point's execution.
type ExecutionMode uint32

const (
	ExecutionModeInvocations     ExecutionMode = 0
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeLocalSize       ExecutionMode = 17
	ExecutionModeLocalSizeHint   ExecutionMode = 18
	ExecutionModeOutputVertices  ExecutionMode = 26
	ExecutionModeContractionOff  ExecutionMode = 31
)

// AddressingModel selects pointer width semantics.
type AddressingModel uint32

const (
	AddressingModelLogical    AddressingModel = 0
	AddressingModelPhysical32 AddressingModel = 1
	AddressingModelPhysical64 AddressingModel = 2
)

var addressingModelNames = map[AddressingModel]string{
	AddressingModelLogical:    "Logical",
	AddressingModelPhysical32: "Physical32",
	AddressingModelPhysical64: "Physical64",
}

func (a AddressingModel) String() string {
	if n, ok := addressingModelNames[a]; ok {
		return n
	}
	return "AddressingModel(" + strconv.FormatUint(uint64(a), 10) + ")"
}

// MemoryModel selects the module memory model.
type MemoryModel uint32

const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

var memoryModelNames = map[MemoryModel]string{
	MemoryModelSimple:  "Simple",
	MemoryModelGLSL450: "GLSL450",
	MemoryModelOpenCL:  "OpenCL",
	MemoryModelVulkan:  "Vulkan",
}

func (m MemoryModel) String() string {
	if n, ok := memoryModelNames[m]; ok {
		return n
	}
	return "MemoryModel(" + strconv.FormatUint(uint64(m), 10) + ")"
}

// SourceLanguage records the front-end language of the module source.
type SourceLanguage uint32

const (
	SourceLanguageUnknown   SourceLanguage = 0
	SourceLanguageESSL      SourceLanguage = 1
	SourceLanguageGLSL      SourceLanguage = 2
	SourceLanguageOpenCLC   SourceLanguage = 3
	SourceLanguageOpenCLCPP SourceLanguage = 4
	SourceLanguageHLSL      SourceLanguage = 5
)

var sourceLanguageNames = map[SourceLanguage]string{
	SourceLanguageUnknown:   "Unknown",
	SourceLanguageESSL:      "ESSL",
	SourceLanguageGLSL:      "GLSL",
	SourceLanguageOpenCLC:   "OpenCL_C",
	SourceLanguageOpenCLCPP: "OpenCL_CPP",
	SourceLanguageHLSL:      "HLSL",
}

func (l SourceLanguage) String() string {
	if n, ok := sourceLanguageNames[l]; ok {
		return n
	}
	return "SourceLanguage(" + strconv.FormatUint(uint64(l), 10) + ")"
}

// FPEncoding tags an alternate floating point encoding of OpTypeFloat.
type FPEncoding uint32

// FPEncodingIEEE754 is the default (absent) encoding operand.
const FPEncodingIEEE754 FPEncoding = 0xFFFFFFFF

// FunctionControl is the OpFunction control mask.
type FunctionControl uint32

const (
	FunctionControlNone   FunctionControl = 0
	FunctionControlInline FunctionControl = 1
	FunctionControlPure   FunctionControl = 4
	FunctionControlConst  FunctionControl = 8
)
