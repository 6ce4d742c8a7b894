// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package disasm

import "sync"

// debugNames holds the lookup tables used to render enum operands as
// symbolic names. The tables are built on first use and owned here, not
// kept as package-wide mutable state.
type debugNames struct {
	opcodes         map[uint16]string
	capabilities    map[uint32]string
	storageClasses  map[uint32]string
	decorations     map[uint32]string
	builtins        map[uint32]string
	executionModes  map[uint32]string
	executionModels map[uint32]string
	addressModels   map[uint32]string
	memoryModels    map[uint32]string
	dims            map[uint32]string
}

var (
	namesOnce sync.Once
	names     *debugNames
)

func lookupNames() *debugNames {
	namesOnce.Do(func() { names = buildNames() })
	return names
}

func buildNames() *debugNames {
	return &debugNames{
		opcodes: map[uint16]string{
			0: "OpNop", 1: "OpUndef", 2: "OpSourceContinued", 3: "OpSource",
			4: "OpSourceExtension", 5: "OpName", 6: "OpMemberName", 7: "OpString",
			10: "OpExtension", 11: "OpExtInstImport", 12: "OpExtInst",
			14: "OpMemoryModel", 15: "OpEntryPoint", 16: "OpExecutionMode",
			17: "OpCapability", 19: "OpTypeVoid", 20: "OpTypeBool",
			21: "OpTypeInt", 22: "OpTypeFloat", 23: "OpTypeVector",
			24: "OpTypeMatrix", 25: "OpTypeImage", 26: "OpTypeSampler",
			27: "OpTypeSampledImage", 28: "OpTypeArray", 29: "OpTypeRuntimeArray",
			30: "OpTypeStruct", 31: "OpTypeOpaque", 32: "OpTypePointer",
			33: "OpTypeFunction", 41: "OpConstantTrue", 42: "OpConstantFalse",
			43: "OpConstant", 44: "OpConstantComposite", 45: "OpConstantSampler",
			46: "OpConstantNull", 48: "OpSpecConstantTrue", 49: "OpSpecConstantFalse",
			50: "OpSpecConstant", 51: "OpSpecConstantComposite", 52: "OpSpecConstantOp",
			54: "OpFunction", 55: "OpFunctionParameter", 56: "OpFunctionEnd",
			57: "OpFunctionCall", 59: "OpVariable", 60: "OpImageTexelPointer",
			61: "OpLoad", 62: "OpStore", 63: "OpCopyMemory", 64: "OpCopyMemorySized",
			65: "OpAccessChain", 66: "OpInBoundsAccessChain", 67: "OpPtrAccessChain",
			68: "OpArrayLength", 69: "OpGenericPtrMemSemantics",
			70: "OpInBoundsPtrAccessChain", 71: "OpDecorate", 72: "OpMemberDecorate",
			73: "OpDecorationGroup", 74: "OpGroupDecorate", 75: "OpGroupMemberDecorate",
			77: "OpVectorExtractDynamic", 78: "OpVectorInsertDynamic",
			79: "OpVectorShuffle", 80: "OpCompositeConstruct", 81: "OpCompositeExtract",
			82: "OpCompositeInsert", 83: "OpCopyObject", 84: "OpTranspose",
			86: "OpSampledImage", 87: "OpImageSampleImplicitLod",
			88: "OpImageSampleExplicitLod", 89: "OpImageSampleDrefImplicitLod",
			90: "OpImageSampleDrefExplicitLod", 91: "OpImageSampleProjImplicitLod",
			92: "OpImageSampleProjExplicitLod", 93: "OpImageSampleProjDrefImplicitLod",
			94: "OpImageSampleProjDrefExplicitLod", 95: "OpImageFetch",
			96: "OpImageGather", 97: "OpImageDrefGather", 98: "OpImageRead",
			99: "OpImageWrite", 100: "OpImage", 101: "OpImageQueryFormat",
			102: "OpImageQueryOrder", 103: "OpImageQuerySizeLod", 104: "OpImageQuerySize",
			105: "OpImageQueryLod", 106: "OpImageQueryLevels", 107: "OpImageQuerySamples",
			109: "OpConvertFToU", 110: "OpConvertFToS", 111: "OpConvertSToF",
			112: "OpConvertUToF", 113: "OpUConvert", 114: "OpSConvert",
			115: "OpFConvert", 116: "OpQuantizeToF16", 117: "OpConvertPtrToU",
			118: "OpSatConvertSToU", 119: "OpSatConvertUToS", 120: "OpConvertUToPtr",
			121: "OpPtrCastToGeneric", 122: "OpGenericCastToPtr",
			123: "OpGenericCastToPtrExplicit", 124: "OpBitcast",
			126: "OpSNegate", 127: "OpFNegate", 128: "OpIAdd", 129: "OpFAdd",
			130: "OpISub", 131: "OpFSub", 132: "OpIMul", 133: "OpFMul",
			134: "OpUDiv", 135: "OpSDiv", 136: "OpFDiv", 137: "OpUMod",
			138: "OpSRem", 139: "OpSMod", 140: "OpFRem", 141: "OpFMod",
			142: "OpVectorTimesScalar", 143: "OpMatrixTimesScalar",
			144: "OpVectorTimesMatrix", 145: "OpMatrixTimesVector",
			146: "OpMatrixTimesMatrix", 147: "OpOuterProduct", 148: "OpDot",
			149: "OpIAddCarry", 150: "OpISubBorrow", 151: "OpUMulExtended",
			152: "OpSMulExtended", 164: "OpAny", 165: "OpAll",
			166: "OpIsNan", 167: "OpIsInf", 168: "OpIsFinite", 169: "OpIsNormal",
			170: "OpSignBitSet", 171: "OpLessOrGreater", 172: "OpOrdered",
			173: "OpUnordered", 174: "OpLogicalEqual", 175: "OpLogicalNotEqual",
			176: "OpLogicalOr", 177: "OpLogicalAnd", 178: "OpLogicalNot",
			179: "OpSelect", 180: "OpIEqual", 181: "OpINotEqual",
			182: "OpUGreaterThan", 183: "OpSGreaterThan", 184: "OpUGreaterThanEqual",
			185: "OpSGreaterThanEqual", 186: "OpULessThan", 187: "OpSLessThan",
			188: "OpULessThanEqual", 189: "OpSLessThanEqual",
			190: "OpFOrdEqual", 191: "OpFUnordEqual", 192: "OpFOrdNotEqual",
			193: "OpFUnordNotEqual", 194: "OpShiftRightLogical", 195: "OpShiftRightArithmetic",
			196: "OpShiftLeftLogical", 197: "OpBitwiseOr", 198: "OpBitwiseXor",
			199: "OpBitwiseAnd", 200: "OpNot", 201: "OpBitFieldInsert",
			202: "OpBitFieldSExtract", 203: "OpBitFieldUExtract",
			204: "OpBitReverse", 205: "OpBitCount",
			245: "OpPhi", 246: "OpLoopMerge", 247: "OpSelectionMerge",
			248: "OpLabel", 249: "OpBranch", 250: "OpBranchConditional",
			251: "OpSwitch", 252: "OpKill", 253: "OpReturn", 254: "OpReturnValue",
			255: "OpUnreachable", 256: "OpLifetimeStart", 257: "OpLifetimeStop",
		},
		capabilities: map[uint32]string{
			0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
			4: "Addresses", 5: "Linkage", 6: "Kernel", 7: "Vector16",
			8: "Float16Buffer", 9: "Float16", 10: "Float64", 11: "Int64",
			12: "Int64Atomics", 22: "Int16", 23: "TessellationPointSize",
			24: "GeometryPointSize", 25: "ImageGatherExtended", 26: "StorageImageMultisample",
			27: "UniformBufferArrayDynamicIndexing", 28: "SampledImageArrayDynamicIndexing",
			29: "StorageBufferArrayDynamicIndexing", 30: "StorageImageArrayDynamicIndexing",
			31: "ClipDistance", 32: "CullDistance", 33: "ImageCubeArray",
			34: "SampleRateShading", 35: "ImageRect", 36: "SampledRect",
			38: "Int8", 39: "InputAttachment", 40: "SparseResidency", 41: "MinLod",
			42: "Sampled1D", 43: "Image1D", 44: "SampledCubeArray", 45: "SampledBuffer",
			46: "ImageBuffer", 47: "ImageMSArray", 48: "StorageImageExtendedFormats",
			49: "ImageQuery", 50: "DerivativeControl", 51: "InterpolationFunction",
			52: "TransformFeedback", 53: "GeometryStreams", 54: "StorageImageReadWithoutFormat",
			55: "StorageImageWriteWithoutFormat", 56: "MultiViewport",
			4423: "SubgroupBallotKHR", 4427: "DrawParameters",
			4437: "StorageBuffer16BitAccess", 4438: "UniformAndStorageBuffer16BitAccess",
			4439: "StoragePushConstant16", 4440: "StorageInputOutput16",
			4441: "DeviceGroup", 4442: "MultiView", 4445: "VariablePointersStorageBuffer",
			4446: "VariablePointers", 5013: "ShaderNonUniform", 5015: "RuntimeDescriptorArray",
		},
		storageClasses: map[uint32]string{
			0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
			4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
			8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
			12: "StorageBuffer",
		},
		decorations: map[uint32]string{
			0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
			4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
			8: "GLSLShared", 9: "GLSLPacked", 10: "CPacked", 11: "BuiltIn",
			13: "NoPerspective", 14: "Flat", 15: "Patch", 16: "Centroid",
			17: "Sample", 18: "Invariant", 19: "Restrict", 20: "Aliased",
			21: "Volatile", 22: "Constant", 23: "Coherent", 24: "NonWritable",
			25: "NonReadable", 26: "Uniform", 28: "SaturatedConversion",
			29: "Stream", 30: "Location", 31: "Component", 32: "Index",
			33: "Binding", 34: "DescriptorSet", 35: "Offset", 36: "XfbBuffer",
			37: "XfbStride", 38: "FuncParamAttr", 39: "FPRoundingMode",
			40: "FPFastMathMode", 41: "LinkageAttributes", 42: "NoContraction",
			43: "InputAttachmentIndex", 44: "Alignment",
		},
		builtins: map[uint32]string{
			0: "Position", 1: "PointSize", 2: "ClipDistance", 3: "CullDistance",
			4: "VertexId", 5: "InstanceId", 6: "PrimitiveId", 7: "InvocationId",
			8: "Layer", 9: "ViewportIndex", 10: "TessLevelOuter", 11: "TessLevelInner",
			12: "TessCoord", 13: "PatchVertices", 14: "FragCoord", 15: "PointCoord",
			16: "FrontFacing", 17: "SampleId", 18: "SamplePosition", 19: "SampleMask",
			22: "FragDepth", 23: "HelperInvocation", 24: "NumWorkgroups",
			25: "WorkgroupSize", 26: "WorkgroupId", 27: "LocalInvocationId",
			28: "GlobalInvocationId", 29: "LocalInvocationIndex",
			42: "VertexIndex", 43: "InstanceIndex",
		},
		executionModes: map[uint32]string{
			0: "Invocations", 1: "SpacingEqual", 2: "SpacingFractionalEven",
			3: "SpacingFractionalOdd", 4: "VertexOrderCw", 5: "VertexOrderCcw",
			6: "PixelCenterInteger", 7: "OriginUpperLeft", 8: "OriginLowerLeft",
			9: "EarlyFragmentTests", 10: "PointMode", 11: "Xfb", 12: "DepthReplacing",
			14: "DepthGreater", 15: "DepthLess", 16: "DepthUnchanged",
			17: "LocalSize", 18: "LocalSizeHint", 19: "InputPoints", 20: "InputLines",
			21: "InputLinesAdjacency", 22: "Triangles", 23: "InputTrianglesAdjacency",
			24: "Quads", 25: "Isolines", 26: "OutputVertices", 27: "OutputPoints",
			28: "OutputLineStrip", 29: "OutputTriangleStrip", 30: "VecTypeHint",
			31: "ContractionOff",
		},
		executionModels: map[uint32]string{
			0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
			3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
		},
		addressModels: map[uint32]string{
			0: "Logical", 1: "Physical32", 2: "Physical64", 5348: "PhysicalStorageBuffer64",
		},
		memoryModels: map[uint32]string{
			0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan",
		},
		dims: map[uint32]string{
			0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
		},
	}
}
