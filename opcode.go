package spirv

import "fmt"

// Op is a SPIR-V opcode.
type Op uint16

// Opcodes used by the module container. Function-body instructions beyond
// this set are carried as opaque word payloads.
const (
	OpNop             Op = 0
	OpUndef           Op = 1
	OpSourceContinued Op = 2
	OpSource          Op = 3
	OpSourceExtension Op = 4
	OpName            Op = 5
	OpMemberName      Op = 6
	OpString          Op = 7
	OpLine            Op = 8
	OpExtension       Op = 10
	OpExtInstImport   Op = 11
	OpExtInst         Op = 12
	OpMemoryModel     Op = 14
	OpEntryPoint      Op = 15
	OpExecutionMode   Op = 16
	OpCapability      Op = 17

	OpTypeVoid           Op = 19
	OpTypeBool           Op = 20
	OpTypeInt            Op = 21
	OpTypeFloat          Op = 22
	OpTypeVector         Op = 23
	OpTypeMatrix         Op = 24
	OpTypeImage          Op = 25
	OpTypeSampler        Op = 26
	OpTypeSampledImage   Op = 27
	OpTypeArray          Op = 28
	OpTypeRuntimeArray   Op = 29
	OpTypeStruct         Op = 30
	OpTypeOpaque         Op = 31
	OpTypePointer        Op = 32
	OpTypeFunction       Op = 33
	OpTypeEvent          Op = 34
	OpTypeDeviceEvent    Op = 35
	OpTypeReserveId      Op = 36
	OpTypeQueue          Op = 37
	OpTypePipe           Op = 38
	OpTypeForwardPointer Op = 39

	OpConstantTrue          Op = 41
	OpConstantFalse         Op = 42
	OpConstant              Op = 43
	OpConstantComposite     Op = 44
	OpConstantSampler       Op = 45
	OpConstantNull          Op = 46
	OpSpecConstantTrue      Op = 48
	OpSpecConstantFalse     Op = 49
	OpSpecConstant          Op = 50
	OpSpecConstantComposite Op = 51
	OpSpecConstantOp        Op = 52

	OpFunction          Op = 54
	OpFunctionParameter Op = 55
	OpFunctionEnd       Op = 56
	OpFunctionCall      Op = 57
	OpVariable          Op = 59
	OpLoad              Op = 61
	OpStore             Op = 62
	OpAccessChain       Op = 65

	OpDecorate            Op = 71
	OpMemberDecorate      Op = 72
	OpDecorationGroup     Op = 73
	OpGroupDecorate       Op = 74
	OpGroupMemberDecorate Op = 75

	OpVectorShuffle      Op = 79
	OpCompositeConstruct Op = 80
	OpCompositeExtract   Op = 81
	OpBitcast            Op = 124
	OpSNegate            Op = 126
	OpFNegate            Op = 127
	OpIAdd               Op = 128
	OpFAdd               Op = 129
	OpISub               Op = 130
	OpFSub               Op = 131
	OpIMul               Op = 132
	OpFMul               Op = 133
	OpUDiv               Op = 134
	OpSDiv               Op = 135
	OpFDiv               Op = 136
	OpIEqual             Op = 180
	OpSelect             Op = 179

	OpPhi               Op = 245
	OpLoopMerge         Op = 246
	OpSelectionMerge    Op = 247
	OpLabel             Op = 248
	OpBranch            Op = 249
	OpBranchConditional Op = 250
	OpSwitch            Op = 251
	OpKill              Op = 252
	OpReturn            Op = 253
	OpReturnValue       Op = 254
	OpUnreachable       Op = 255

	OpNoLine          Op = 317
	OpModuleProcessed Op = 330
	OpExecutionModeId Op = 331

	OpTypeUntypedPointerKHR Op = 4417
	OpUntypedVariableKHR    Op = 4441

	OpAsmTargetINTEL Op = 5609
	OpAsmINTEL       Op = 5610
	OpAsmCallINTEL   Op = 5611

	OpAliasDomainDeclINTEL    Op = 5911
	OpAliasScopeDeclINTEL     Op = 5912
	OpAliasScopeListDeclINTEL Op = 5913

	// Provisional conditional declarations, gated by the function-variants
	// extension.
	OpConditionalExtensionINTEL  Op = 6448
	OpConditionalCapabilityINTEL Op = 6449
	OpConditionalEntryPointINTEL Op = 6450

	// OpForward is an internal placeholder opcode for entities registered
	// under an id before their definition is known. Never serialized.
	OpForward Op = 0xFFFF
)

// OperandKind describes how one slot of an instruction payload is
// interpreted after the optional result-type and result words.
type OperandKind uint8

const (
	// OperandID is a single id reference.
	OperandID OperandKind = iota
	// OperandLiteral is a single literal word.
	OperandLiteral
	// OperandString is a nul-terminated, word-padded literal string.
	OperandString
	// OperandVariadicIDs consumes all remaining words as id references.
	OperandVariadicIDs
	// OperandVariadicLiterals consumes all remaining words as literals.
	OperandVariadicLiterals
	// OperandOptionalID is an id reference that may be absent.
	OperandOptionalID
	// OperandOptionalString is a trailing string that may be absent.
	OperandOptionalString
	// OperandVariadicIDLiteralPairs consumes (id, literal) pairs.
	OperandVariadicIDLiteralPairs
)

// OpInfo describes the payload layout of an opcode that the module
// container understands structurally.
type OpInfo struct {
	Name      string
	HasType   bool // first payload word is a result-type id
	HasResult bool // next payload word is the result id
	Layout    []OperandKind
}

var opInfos = map[Op]OpInfo{
	OpNop:             {Name: "OpNop"},
	OpUndef:           {Name: "OpUndef", HasType: true, HasResult: true},
	OpSourceContinued: {Name: "OpSourceContinued", Layout: []OperandKind{OperandString}},
	OpSource:          {Name: "OpSource", Layout: []OperandKind{OperandLiteral, OperandLiteral, OperandOptionalID, OperandOptionalString}},
	OpSourceExtension: {Name: "OpSourceExtension", Layout: []OperandKind{OperandString}},
	OpName:            {Name: "OpName", Layout: []OperandKind{OperandID, OperandString}},
	OpMemberName:      {Name: "OpMemberName", Layout: []OperandKind{OperandID, OperandLiteral, OperandString}},
	OpString:          {Name: "OpString", HasResult: true, Layout: []OperandKind{OperandString}},
	OpLine:            {Name: "OpLine", Layout: []OperandKind{OperandID, OperandLiteral, OperandLiteral}},
	OpNoLine:          {Name: "OpNoLine"},
	OpExtension:       {Name: "OpExtension", Layout: []OperandKind{OperandString}},
	OpExtInstImport:   {Name: "OpExtInstImport", HasResult: true, Layout: []OperandKind{OperandString}},
	OpExtInst:         {Name: "OpExtInst", HasType: true, HasResult: true, Layout: []OperandKind{OperandID, OperandLiteral, OperandVariadicIDs}},
	OpMemoryModel:     {Name: "OpMemoryModel", Layout: []OperandKind{OperandLiteral, OperandLiteral}},
	OpEntryPoint:      {Name: "OpEntryPoint", Layout: []OperandKind{OperandLiteral, OperandID, OperandString, OperandVariadicIDs}},
	OpExecutionMode:   {Name: "OpExecutionMode", Layout: []OperandKind{OperandID, OperandLiteral, OperandVariadicLiterals}},
	OpExecutionModeId: {Name: "OpExecutionModeId", Layout: []OperandKind{OperandID, OperandLiteral, OperandVariadicIDs}},
	OpCapability:      {Name: "OpCapability", Layout: []OperandKind{OperandLiteral}},
	OpModuleProcessed: {Name: "OpModuleProcessed", Layout: []OperandKind{OperandString}},

	OpTypeVoid:           {Name: "OpTypeVoid", HasResult: true},
	OpTypeBool:           {Name: "OpTypeBool", HasResult: true},
	OpTypeInt:            {Name: "OpTypeInt", HasResult: true, Layout: []OperandKind{OperandLiteral, OperandLiteral}},
	OpTypeFloat:          {Name: "OpTypeFloat", HasResult: true, Layout: []OperandKind{OperandLiteral, OperandVariadicLiterals}},
	OpTypeVector:         {Name: "OpTypeVector", HasResult: true, Layout: []OperandKind{OperandID, OperandLiteral}},
	OpTypeMatrix:         {Name: "OpTypeMatrix", HasResult: true, Layout: []OperandKind{OperandID, OperandLiteral}},
	OpTypeImage:          {Name: "OpTypeImage", HasResult: true, Layout: []OperandKind{OperandID, OperandVariadicLiterals}},
	OpTypeSampler:        {Name: "OpTypeSampler", HasResult: true},
	OpTypeSampledImage:   {Name: "OpTypeSampledImage", HasResult: true, Layout: []OperandKind{OperandID}},
	OpTypeArray:          {Name: "OpTypeArray", HasResult: true, Layout: []OperandKind{OperandID, OperandID}},
	OpTypeRuntimeArray:   {Name: "OpTypeRuntimeArray", HasResult: true, Layout: []OperandKind{OperandID}},
	OpTypeStruct:         {Name: "OpTypeStruct", HasResult: true, Layout: []OperandKind{OperandVariadicIDs}},
	OpTypeOpaque:         {Name: "OpTypeOpaque", HasResult: true, Layout: []OperandKind{OperandString}},
	OpTypePointer:        {Name: "OpTypePointer", HasResult: true, Layout: []OperandKind{OperandLiteral, OperandID}},
	OpTypeFunction:       {Name: "OpTypeFunction", HasResult: true, Layout: []OperandKind{OperandVariadicIDs}},
	OpTypeEvent:          {Name: "OpTypeEvent", HasResult: true},
	OpTypeDeviceEvent:    {Name: "OpTypeDeviceEvent", HasResult: true},
	OpTypeReserveId:      {Name: "OpTypeReserveId", HasResult: true},
	OpTypeQueue:          {Name: "OpTypeQueue", HasResult: true},
	OpTypePipe:           {Name: "OpTypePipe", HasResult: true, Layout: []OperandKind{OperandLiteral}},
	OpTypeForwardPointer: {Name: "OpTypeForwardPointer", Layout: []OperandKind{OperandID, OperandLiteral}},

	OpTypeUntypedPointerKHR: {Name: "OpTypeUntypedPointerKHR", HasResult: true, Layout: []OperandKind{OperandLiteral}},

	OpConstantTrue:          {Name: "OpConstantTrue", HasType: true, HasResult: true},
	OpConstantFalse:         {Name: "OpConstantFalse", HasType: true, HasResult: true},
	OpConstant:              {Name: "OpConstant", HasType: true, HasResult: true, Layout: []OperandKind{OperandVariadicLiterals}},
	OpConstantComposite:     {Name: "OpConstantComposite", HasType: true, HasResult: true, Layout: []OperandKind{OperandVariadicIDs}},
	OpConstantSampler:       {Name: "OpConstantSampler", HasType: true, HasResult: true, Layout: []OperandKind{OperandLiteral, OperandLiteral, OperandLiteral}},
	OpConstantNull:          {Name: "OpConstantNull", HasType: true, HasResult: true},
	OpSpecConstantTrue:      {Name: "OpSpecConstantTrue", HasType: true, HasResult: true},
	OpSpecConstantFalse:     {Name: "OpSpecConstantFalse", HasType: true, HasResult: true},
	OpSpecConstant:          {Name: "OpSpecConstant", HasType: true, HasResult: true, Layout: []OperandKind{OperandVariadicLiterals}},
	OpSpecConstantComposite: {Name: "OpSpecConstantComposite", HasType: true, HasResult: true, Layout: []OperandKind{OperandVariadicIDs}},
	OpSpecConstantOp:        {Name: "OpSpecConstantOp", HasType: true, HasResult: true, Layout: []OperandKind{OperandLiteral, OperandVariadicIDs}},

	OpFunction:           {Name: "OpFunction", HasType: true, HasResult: true, Layout: []OperandKind{OperandLiteral, OperandID}},
	OpFunctionParameter:  {Name: "OpFunctionParameter", HasType: true, HasResult: true},
	OpFunctionEnd:        {Name: "OpFunctionEnd"},
	OpVariable:           {Name: "OpVariable", HasType: true, HasResult: true, Layout: []OperandKind{OperandLiteral, OperandOptionalID}},
	OpUntypedVariableKHR: {Name: "OpUntypedVariableKHR", HasType: true, HasResult: true, Layout: []OperandKind{OperandLiteral, OperandOptionalID, OperandOptionalID}},

	OpDecorate:            {Name: "OpDecorate", Layout: []OperandKind{OperandID, OperandLiteral, OperandVariadicLiterals}},
	OpMemberDecorate:      {Name: "OpMemberDecorate", Layout: []OperandKind{OperandID, OperandLiteral, OperandLiteral, OperandVariadicLiterals}},
	OpDecorationGroup:     {Name: "OpDecorationGroup", HasResult: true},
	OpGroupDecorate:       {Name: "OpGroupDecorate", Layout: []OperandKind{OperandID, OperandVariadicIDs}},
	OpGroupMemberDecorate: {Name: "OpGroupMemberDecorate", Layout: []OperandKind{OperandID, OperandVariadicIDLiteralPairs}},

	OpAsmTargetINTEL: {Name: "OpAsmTargetINTEL", HasResult: true, Layout: []OperandKind{OperandString}},
	OpAsmINTEL:       {Name: "OpAsmINTEL", HasType: true, HasResult: true, Layout: []OperandKind{OperandID, OperandID, OperandString, OperandString}},

	OpAliasDomainDeclINTEL:    {Name: "OpAliasDomainDeclINTEL", HasResult: true, Layout: []OperandKind{OperandOptionalID}},
	OpAliasScopeDeclINTEL:     {Name: "OpAliasScopeDeclINTEL", HasResult: true, Layout: []OperandKind{OperandID, OperandOptionalID}},
	OpAliasScopeListDeclINTEL: {Name: "OpAliasScopeListDeclINTEL", HasResult: true, Layout: []OperandKind{OperandVariadicIDs}},

	OpConditionalExtensionINTEL:  {Name: "OpConditionalExtensionINTEL", Layout: []OperandKind{OperandID, OperandString}},
	OpConditionalCapabilityINTEL: {Name: "OpConditionalCapabilityINTEL", Layout: []OperandKind{OperandID, OperandLiteral}},
	OpConditionalEntryPointINTEL: {Name: "OpConditionalEntryPointINTEL", Layout: []OperandKind{OperandID, OperandLiteral, OperandID, OperandString, OperandVariadicIDs}},
}

// Names for opcodes the container carries opaquely inside function bodies.
var opaqueOpNames = map[Op]string{
	OpFunctionCall: "OpFunctionCall", OpLoad: "OpLoad", OpStore: "OpStore",
	OpAccessChain: "OpAccessChain", OpVectorShuffle: "OpVectorShuffle",
	OpCompositeConstruct: "OpCompositeConstruct", OpCompositeExtract: "OpCompositeExtract",
	OpBitcast: "OpBitcast", OpSNegate: "OpSNegate", OpFNegate: "OpFNegate",
	OpIAdd: "OpIAdd", OpFAdd: "OpFAdd", OpISub: "OpISub", OpFSub: "OpFSub",
	OpIMul: "OpIMul", OpFMul: "OpFMul", OpUDiv: "OpUDiv", OpSDiv: "OpSDiv",
	OpFDiv: "OpFDiv", OpIEqual: "OpIEqual", OpSelect: "OpSelect",
	OpPhi: "OpPhi", OpLoopMerge: "OpLoopMerge", OpSelectionMerge: "OpSelectionMerge",
	OpLabel: "OpLabel", OpBranch: "OpBranch", OpBranchConditional: "OpBranchConditional",
	OpSwitch: "OpSwitch", OpKill: "OpKill", OpReturn: "OpReturn",
	OpReturnValue: "OpReturnValue", OpUnreachable: "OpUnreachable",
	OpAsmCallINTEL: "OpAsmCallINTEL",
}

var opByName map[string]Op

func init() {
	opByName = make(map[string]Op, len(opInfos)+len(opaqueOpNames))
	for op, info := range opInfos {
		opByName[info.Name] = op
	}
	for op, name := range opaqueOpNames {
		opByName[name] = op
	}
}

// Lookup returns the structural description of an opcode. ok is false for
// opcodes the container does not implement at module scope.
func Lookup(op Op) (OpInfo, bool) {
	info, ok := opInfos[op]
	return info, ok
}

// OpFromName resolves an opcode mnemonic.
func OpFromName(name string) (Op, bool) {
	op, ok := opByName[name]
	return op, ok
}

// String returns the opcode mnemonic, or a numeric form for unknown codes.
func (op Op) String() string {
	if info, ok := opInfos[op]; ok {
		return info.Name
	}
	if name, ok := opaqueOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", uint16(op))
}

// Known reports whether the opcode is one this package can name, either
// structurally or as an opaque function-body instruction.
func (op Op) Known() bool {
	if _, ok := opInfos[op]; ok {
		return true
	}
	_, ok := opaqueOpNames[op]
	return ok
}

// IsType reports whether the opcode declares a type.
func (op Op) IsType() bool {
	return (op >= OpTypeVoid && op <= OpTypePipe) || op == OpTypeUntypedPointerKHR
}

// IsConstant reports whether the opcode declares a constant value.
func (op Op) IsConstant() bool {
	return (op >= OpConstantTrue && op <= OpSpecConstantOp) || op == OpUndef
}

// IsPointerType reports whether the opcode declares a pointer type, typed
// or untyped.
func (op Op) IsPointerType() bool {
	return op == OpTypePointer || op == OpTypeUntypedPointerKHR
}

// ModuleScopeAllowed reports whether an instruction of this opcode may
// appear at module scope inside a function-delimited stream.
func (op Op) ModuleScopeAllowed() bool {
	return op == OpVariable || op == OpExtInst || op.IsConstant()
}
