package simplego

import (
	"fmt"

	"github.com/gomlx/vxtrace/backends"
	"github.com/pkg/errors"
)

// Graph keeps track of the tensors and operations created, and once compiled, the order of execution.
type Graph struct {
	ctx *Context

	tensors []*Tensor
	ops     []*Operation

	// compiled is reset by any change to the graph.
	compiled bool
	order    []*Operation
}

// Compile-time check.
var _ backends.Graph = (*Graph)(nil)

func newGraph(ctx *Context) *Graph {
	return &Graph{ctx: ctx}
}

// String implements fmt.Stringer.
func (g *Graph) String() string {
	return fmt.Sprintf("simplego.Graph(%d tensors, %d operations)", len(g.tensors), len(g.ops))
}

// CreateTensor implements backends.Graph.
func (g *Graph) CreateTensor(spec backends.TensorSpec, data any) backends.Tensor {
	t, err := g.addTensor(spec, data)
	if err != nil {
		panic(err)
	}
	return t
}

// addTensor is the non-panicking version of CreateTensor.
func (g *Graph) addTensor(spec backends.TensorSpec, data any) (*Tensor, error) {
	if !Capabilities.DataTypes[spec.DataType] {
		return nil, errors.Errorf("backend %q: data type %s not supported", BackendName, spec.DataType)
	}
	t := &Tensor{
		graph: g,
		id:    len(g.tensors),
		spec:  backends.NewTensorSpec(spec.DataType, spec.Shape, spec.Attribute),
		flat:  newFlat(spec.DataType, spec.NumElements()),
	}
	if data != nil {
		if err := t.CopyDataToTensor(data); err != nil {
			return nil, errors.WithMessagef(err, "backend %q: CreateTensor()", BackendName)
		}
	}
	g.tensors = append(g.tensors, t)
	g.compiled = false
	return t, nil
}

// CreateOperation implements backends.Graph.
func (g *Graph) CreateOperation(desc backends.OpDesc) backends.Operation {
	op, err := g.addOperation(desc)
	if err != nil {
		panic(err)
	}
	return op
}

// addOperation is the non-panicking version of CreateOperation.
func (g *Graph) addOperation(desc backends.OpDesc) (*Operation, error) {
	if !Capabilities.Operations[desc.Type] {
		return nil, errors.Wrapf(backends.ErrNotImplemented, "backend %q: operation %s", BackendName, desc.Type)
	}
	op := &Operation{graph: g, desc: desc}
	if desc.Type == backends.OpTypeNBG {
		op.desc.Binary = append([]byte(nil), desc.Binary...)
		imported, err := decodeBinaryGraph(g.ctx, op.desc.Binary)
		if err != nil {
			return nil, errors.WithMessagef(err, "backend %q: failed to import binary graph", BackendName)
		}
		op.imported = imported
	}
	g.ops = append(g.ops, op)
	g.compiled = false
	return op, nil
}

// inputs returns the tensors marked with backends.AttributeInput, in order of creation.
func (g *Graph) inputs() []*Tensor {
	return g.tensorsWith(backends.AttributeInput)
}

// outputs returns the tensors marked with backends.AttributeOutput, in order of creation.
func (g *Graph) outputs() []*Tensor {
	return g.tensorsWith(backends.AttributeOutput)
}

func (g *Graph) tensorsWith(attr backends.TensorAttribute) []*Tensor {
	var tensors []*Tensor
	for _, t := range g.tensors {
		if t.spec.Attribute.Has(attr) {
			tensors = append(tensors, t)
		}
	}
	return tensors
}

// Operation for the SimpleGo backend.
type Operation struct {
	graph           *Graph
	desc            backends.OpDesc
	inputs, outputs []*Tensor

	// imported graph for OpTypeNBG.
	imported *Graph
}

// Compile-time check.
var _ backends.Operation = (*Operation)(nil)

// Type implements backends.Operation.
func (op *Operation) Type() backends.OpType { return op.desc.Type }

// String implements fmt.Stringer.
func (op *Operation) String() string {
	return fmt.Sprintf("%s(%d inputs, %d outputs)", op.desc.Type, len(op.inputs), len(op.outputs))
}

// BindInput implements backends.Operation.
func (op *Operation) BindInput(tensor backends.Tensor) backends.Operation {
	op.inputs = append(op.inputs, op.graph.checkTensor("BindInput", tensor))
	op.graph.compiled = false
	return op
}

// BindOutput implements backends.Operation.
func (op *Operation) BindOutput(tensor backends.Tensor) backends.Operation {
	op.outputs = append(op.outputs, op.graph.checkTensor("BindOutput", tensor))
	op.graph.compiled = false
	return op
}

// BindInputs implements backends.Operation.
func (op *Operation) BindInputs(tensors []backends.Tensor) backends.Operation {
	for _, t := range tensors {
		op.BindInput(t)
	}
	return op
}

// BindOutputs implements backends.Operation.
func (op *Operation) BindOutputs(tensors []backends.Tensor) backends.Operation {
	for _, t := range tensors {
		op.BindOutput(t)
	}
	return op
}

// Inputs implements backends.Operation.
func (op *Operation) Inputs() []backends.Tensor { return toInterfaces(op.inputs) }

// Outputs implements backends.Operation.
func (op *Operation) Outputs() []backends.Tensor { return toInterfaces(op.outputs) }

func toInterfaces(tensors []*Tensor) []backends.Tensor {
	result := make([]backends.Tensor, len(tensors))
	for i, t := range tensors {
		result[i] = t
	}
	return result
}
