//go:build !wasm

package operators

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ExportCandidate is one ONNX rendering of a CNTK operator.
type ExportCandidate struct {
	// OpType is the ONNX operator type.
	OpType string
	// Attributes renames CNTK attribute names to ONNX names, in declaration
	// order.
	Attributes *orderedmap.OrderedMap[string, string]
	// Unmapped lists ONNX attributes that have no CNTK counterpart and must
	// be computed by the exporter.
	Unmapped []string
	// InvalidIndices are CNTK block input indices the exporter must not
	// forward to this candidate.
	InvalidIndices map[int]struct{}
}

// IsInvalid reports whether block input idx is unsupported for c.
func (c ExportCandidate) IsInvalid(idx int) bool {
	_, ok := c.InvalidIndices[idx]
	return ok
}

type rename struct{ from, to string }

type exportEntry struct {
	cntk    string
	onnx    string
	renames []rename
	extra   []string
}

// exportTable lists CNTK operators in declaration order. An operator with
// several ONNX renderings appears once per candidate, most preferred first.
var exportTable = []exportEntry{
	// nn
	{"Pooling", "AveragePool", []rename{{"poolingWindowShape", "kernel_shape"}, {"strides", "strides"}, {"autoPadding", "pads"}}, nil},
	{"Pooling", "MaxPool", []rename{{"poolingWindowShape", "kernel_shape"}, {"strides", "strides"}, {"autoPadding", "pads"}}, nil},
	{"Convolution", "Conv", []rename{{"strides", "strides"}, {"autoPadding", "pads"}, {"dilation", "dilations"}}, nil},
	{"ConvolutionTranspose", "ConvTranspose", []rename{{"strides", "strides"}, {"autoPadding", "pads"}, {"dilation", "dilations"}}, nil},
	{"GlobalMaxPooling", "GlobalMaxPool", nil, nil},
	{"GlobalAveragePooling", "GlobalAveragePool", nil, nil},
	{"BatchNormalization", "BatchNormalization", []rename{{"spatial", "spatial"}, {"epsilon", "epsilon"}, {"blendTimeConstant", "momentum"}}, nil},
	{"Dropout", "Dropout", []rename{{"dropoutRate", "ratio"}}, nil},

	// generators
	{"UniformRandom", "RandomUniform", []rename{{"rngSeed", "seed"}, {"newShape", "shape"}}, nil},
	{"NormalRandom", "RandomNormal", []rename{{"rngSeed", "seed"}, {"newShape", "shape"}}, nil},
	{"UniformRandomLike", "RandomUniformLike", []rename{{"rngSeed", "seed"}}, nil},
	{"NormalRandomLike", "RandomNormalLike", []rename{{"rngSeed", "seed"}}, nil},

	// math
	{"Plus", "Add", nil, nil},
	{"Minus", "Sub", nil, nil},
	{"ElementTimes", "Mul", nil, nil},
	{"ElementDivide", "Div", nil, nil},
	{"Negate", "Neg", nil, nil},
	{"Abs", "Abs", nil, nil},
	{"Reciprocal", "Reciprocal", nil, nil},
	{"Floor", "Floor", nil, nil},
	{"Ceil", "Ceil", nil, nil},
	{"Sqrt", "Sqrt", nil, nil},
	{"ReLU", "Relu", nil, nil},
	{"LeakyReLU", "LeakyRelu", nil, nil},
	{"SELU", "Selu", nil, nil},
	{"ELU", "Elu", nil, nil},
	{"Exp", "Exp", nil, nil},
	{"Log", "Log", nil, nil},
	{"Tanh", "Tanh", nil, nil},
	{"Pow", "Pow", nil, nil},
	{"Times", "Dot", nil, nil},
	{"PReLU", "PRelu", nil, nil},
	{"Sigmoid", "Sigmoid", nil, nil},
	{"ElementMax", "Max", nil, nil},
	{"ElementMin", "Min", nil, nil},
	{"Softmax", "Softmax", nil, []string{"axis"}},

	// reductions
	{"ReduceMax", "ReduceMax", nil, []string{"axes", "keepdims"}},
	{"ReduceMin", "ReduceMin", nil, []string{"axes", "keepdims"}},
	{"ReduceSum", "ReduceSum", nil, []string{"axes", "keepdims"}},
	{"ReduceMean", "ReduceMean", nil, []string{"axes", "keepdims"}},
	{"ReduceProd", "ReduceProd", nil, []string{"axes", "keepdims"}},
	{"ReduceLogSum", "ReduceLogSumExp", nil, []string{"axes", "keepdims"}},
	{"Argmax", "ArgMax", nil, []string{"axes", "keepdims"}},
	{"Argmin", "ArgMin", nil, []string{"axes", "keepdims"}},

	// tensor
	{"Reshape", "Reshape", nil, []string{"shape"}},
	{"Splice", "Concat", nil, []string{"axis"}},
	{"Slice", "Slice", nil, []string{"starts", "ends"}},
	{"Transpose", "Transpose", nil, []string{"perm"}},
	{"GatherOp", "Gather", nil, nil},
}

// blockInvalidIndices are block inputs the exporter drops per CNTK operator,
// e.g. the constant alpha of LeakyReLU.
var blockInvalidIndices = map[string][]int{
	"LeakyReLU":  {0, 1},
	"SELU":       {1},
	"PReLU":      {1},
	"ElementMax": {},
	"ElementMin": {},
}

// ExportCandidates returns the ordered ONNX candidates for a CNTK operator
// name, or nil when the operator has no ONNX rendering. Each call returns
// fresh values the caller may modify.
func ExportCandidates(cntkName string) []ExportCandidate {
	var out []ExportCandidate
	for _, e := range exportTable {
		if e.cntk != cntkName {
			continue
		}
		attrs := orderedmap.New[string, string](orderedmap.WithCapacity[string, string](len(e.renames)))
		for _, r := range e.renames {
			attrs.Set(r.from, r.to)
		}
		invalid := make(map[int]struct{}, len(blockInvalidIndices[cntkName]))
		for _, i := range blockInvalidIndices[cntkName] {
			invalid[i] = struct{}{}
		}
		out = append(out, ExportCandidate{
			OpType:         e.onnx,
			Attributes:     attrs,
			Unmapped:       append([]string(nil), e.extra...),
			InvalidIndices: invalid,
		})
	}
	return out
}

// IsInvalidIndex reports whether block input idx of a CNTK operator must be
// dropped on export.
func IsInvalidIndex(cntkName string, idx int) bool {
	for _, i := range blockInvalidIndices[cntkName] {
		if i == idx {
			return true
		}
	}
	return false
}

// ExportNames returns the CNTK operator names with an ONNX rendering, sorted.
func ExportNames() []string {
	seen := make(map[string]struct{}, len(exportTable))
	names := make([]string, 0, len(exportTable))
	for _, e := range exportTable {
		if _, ok := seen[e.cntk]; ok {
			continue
		}
		seen[e.cntk] = struct{}{}
		names = append(names, e.cntk)
	}
	sort.Strings(names)
	return names
}
