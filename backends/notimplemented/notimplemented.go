// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package notimplemented implements a backends.Context whose graphs record what is created and bound,
// but fail to compile, run or copy data with a "not implemented" error.
//
// It can be used to trace programs, or to parse and replay traces, without executing anything.
// It is not registered by default, use:
//
//	backends.Register(notimplemented.BackendName, notimplemented.New)
package notimplemented

import (
	"github.com/gomlx/vxtrace/backends"
	"github.com/pkg/errors"
)

// BackendName of the mock backend.
const BackendName = "notimplemented"

// NotImplementedError is returned by every fallible method.
//
// It doesn't contain a stack, attach a stack to with with errors.Wrapf(ErrNotImplemented, "...") when using it.
var NotImplementedError = backends.ErrNotImplemented

// New returns a new mock Context. The config is ignored.
func New(_ string) backends.Context {
	return &Context{}
}

// Context is a dummy backend that can be used to create mock backends.
type Context struct{}

var (
	_ backends.Context         = &Context{}
	_ backends.HasCapabilities = &Context{}
)

// Name returns the short name of the backend.
func (c *Context) Name() string {
	return BackendName
}

// String returns the same as Name.
func (c *Context) String() string {
	return c.Name()
}

// Capabilities returns empty capabilities.
func (c *Context) Capabilities() backends.Capabilities {
	return backends.Capabilities{
		Operations: make(map[backends.OpType]bool),
		DataTypes:  make(map[backends.DataType]bool),
	}
}

// CreateGraph returns an inert graph.
func (c *Context) CreateGraph() backends.Graph {
	return &Graph{}
}

// Graph records the tensors and operations created.
type Graph struct {
	Tensors    []*Tensor
	Operations []*Operation
}

var _ backends.Graph = &Graph{}

// CreateTensor implements backends.Graph. The data is ignored.
func (g *Graph) CreateTensor(spec backends.TensorSpec, _ any) backends.Tensor {
	t := &Tensor{spec: backends.NewTensorSpec(spec.DataType, spec.Shape, spec.Attribute)}
	g.Tensors = append(g.Tensors, t)
	return t
}

// CreateOperation implements backends.Graph.
func (g *Graph) CreateOperation(desc backends.OpDesc) backends.Operation {
	op := &Operation{desc: desc}
	g.Operations = append(g.Operations, op)
	return op
}

// Compile implements backends.Graph.
func (g *Graph) Compile() error {
	return errors.Wrapf(NotImplementedError, "in Graph.Compile()")
}

// CompileToBinary implements backends.Graph.
func (g *Graph) CompileToBinary(_ []byte, _ *uint64) error {
	return errors.Wrapf(NotImplementedError, "in Graph.CompileToBinary()")
}

// Run implements backends.Graph.
func (g *Graph) Run() error {
	return errors.Wrapf(NotImplementedError, "in Graph.Run()")
}

// Tensor only holds its spec.
type Tensor struct {
	spec backends.TensorSpec
}

var _ backends.Tensor = &Tensor{}

// Spec implements backends.Tensor.
func (t *Tensor) Spec() backends.TensorSpec { return t.spec }

// CopyDataToTensor implements backends.Tensor.
func (t *Tensor) CopyDataToTensor(_ any) error {
	return errors.Wrapf(NotImplementedError, "in Tensor.CopyDataToTensor()")
}

// CopyDataFromTensor implements backends.Tensor.
func (t *Tensor) CopyDataFromTensor(_ any) error {
	return errors.Wrapf(NotImplementedError, "in Tensor.CopyDataFromTensor()")
}

// Operation records the tensors bound to it.
type Operation struct {
	desc            backends.OpDesc
	inputs, outputs []backends.Tensor
}

var _ backends.Operation = &Operation{}

// Type implements backends.Operation.
func (op *Operation) Type() backends.OpType { return op.desc.Type }

// BindInput implements backends.Operation.
func (op *Operation) BindInput(tensor backends.Tensor) backends.Operation {
	op.inputs = append(op.inputs, tensor)
	return op
}

// BindOutput implements backends.Operation.
func (op *Operation) BindOutput(tensor backends.Tensor) backends.Operation {
	op.outputs = append(op.outputs, tensor)
	return op
}

// BindInputs implements backends.Operation.
func (op *Operation) BindInputs(tensors []backends.Tensor) backends.Operation {
	op.inputs = append(op.inputs, tensors...)
	return op
}

// BindOutputs implements backends.Operation.
func (op *Operation) BindOutputs(tensors []backends.Tensor) backends.Operation {
	op.outputs = append(op.outputs, tensors...)
	return op
}

// Inputs implements backends.Operation.
func (op *Operation) Inputs() []backends.Tensor { return op.inputs }

// Outputs implements backends.Operation.
func (op *Operation) Outputs() []backends.Tensor { return op.outputs }
