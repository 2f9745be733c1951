package backends

// OpType is an enum of the operations that can be created with Graph.CreateOperation.
//
// Notice: nothing precludes a backend from supporting only a subset of them, see Capabilities.
type OpType int32

//go:generate go tool enumer -type=OpType -trimprefix=OpType -output=gen_optype_enumer.go optype.go

const (
	OpTypeInvalid OpType = iota
	OpTypeAdd
	OpTypeSub
	OpTypeMultiply
	OpTypeDiv
	OpTypeMaximum
	OpTypeMinimum

	// OpTypeNBG imports a binary graph (as generated by Graph.CompileToBinary) as a single operation.
	OpTypeNBG
)

// EnumTypeName returns the qualified Go name of the type, as used in generated replay statements.
func (op OpType) EnumTypeName() string { return "backends.OpType" }

// EnumValue returns the numeric value of the enum.
func (op OpType) EnumValue() int64 { return int64(op) }

// IsElementwise returns whether the op is a binary elementwise operation.
func (op OpType) IsElementwise() bool {
	return op >= OpTypeAdd && op <= OpTypeMinimum
}

// OpDesc describes an operation to be created by Graph.CreateOperation.
//
// Use the constructors in package github.com/gomlx/vxtrace/backends/ops.
type OpDesc struct {
	Type OpType

	// Binary, NumInputs and NumOutputs are only used by OpTypeNBG.
	Binary                []byte
	NumInputs, NumOutputs int
}
