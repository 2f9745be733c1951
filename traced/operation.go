package traced

import (
	"fmt"
	"strings"

	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/backends/ops"
	"github.com/gomlx/vxtrace/trace"
)

// OpSpec describes the operation to create with Graph.CreateOperation.
type OpSpec struct {
	desc backends.OpDesc
}

// Add creates an elementwise addition, see ops.Add.
func Add() OpSpec { return OpSpec{ops.Add()} }

// Sub creates an elementwise subtraction, see ops.Sub.
func Sub() OpSpec { return OpSpec{ops.Sub()} }

// Multiply creates an elementwise multiplication, see ops.Multiply.
func Multiply() OpSpec { return OpSpec{ops.Multiply()} }

// Div creates an elementwise division, see ops.Div.
func Div() OpSpec { return OpSpec{ops.Div()} }

// Maximum creates an elementwise maximum, see ops.Maximum.
func Maximum() OpSpec { return OpSpec{ops.Maximum()} }

// Minimum creates an elementwise minimum, see ops.Minimum.
func Minimum() OpSpec { return OpSpec{ops.Minimum()} }

// NBG creates an operation importing a binary graph, see ops.NBG.
//
// The binary is recorded in the binary log, and declared in a variable before the creation of the operation.
func NBG(binary []byte, numInputs, numOutputs int) OpSpec {
	return OpSpec{ops.NBG(binary, numInputs, numOutputs)}
}

// Desc returns the descriptor of the operation.
func (op OpSpec) Desc() backends.OpDesc { return op.desc }

// namePrefix returns the prefix of the names of the operations, e.g. "add_".
func (op OpSpec) namePrefix() string {
	return strings.ToLower(op.desc.Type.String()) + "_"
}

// arg returns the argument logged as the call to the ops constructor.
func (op OpSpec) arg() trace.Arg {
	desc := op.desc
	return trace.Special(desc, func(c *trace.CallContext) string {
		if desc.Type != backends.OpTypeNBG {
			return fmt.Sprintf("ops.%s()", desc.Type)
		}
		binary := trace.NilText
		if desc.Binary != nil {
			offset := c.Dump(desc.Binary)
			binary = c.Hoist("nbg_buf_", fmt.Sprintf("trace.GetBytes(replayer, %d, %d)", offset, len(desc.Binary)))
		}
		return fmt.Sprintf("ops.NBG(%s, %d, %d)", binary, desc.NumInputs, desc.NumOutputs)
	})
}

// Operation wraps a backends.Operation.
type Operation struct {
	s  *trace.Session
	op backends.Operation
}

var _ trace.Object = (*Operation)(nil)

// TraceIdentity implements trace.Identifiable.
func (op *Operation) TraceIdentity() any { return op }

// UnderlyingObject implements trace.Object.
func (op *Operation) UnderlyingObject() any {
	if op == nil {
		return nil
	}
	return op.op
}

// UnderlyingTypeName implements trace.TypeNamer.
func (op *Operation) UnderlyingTypeName() string { return "backends.Operation" }

// Underlying returns the wrapped backends.Operation.
func (op *Operation) Underlying() backends.Operation { return op.op }

// Session tracing the operation.
func (op *Operation) Session() *trace.Session { return op.s }

// Type of the operation. It is not traced.
func (op *Operation) Type() backends.OpType { return op.op.Type() }

// bind records an in-place call binding tensors, and returns the operation itself for chaining.
func (op *Operation) bind(method string, arg trace.Arg, forward func(v trace.Values)) *Operation {
	_ = trace.Do(op.s, trace.Call{
		Kind:     trace.CallKindInPlace,
		Receiver: op,
		Method:   method,
		Args:     []trace.Arg{arg},
	}, func(v trace.Values) error {
		forward(v)
		return nil
	})
	return op
}

// BindInput binds the next input of the operation, see backends.Operation.BindInput.
func (op *Operation) BindInput(tensor *Tensor) *Operation {
	return op.bind("BindInput", trace.Ref(tensor), func(v trace.Values) {
		op.op.BindInput(trace.As[backends.Tensor](v, 0))
	})
}

// BindOutput binds the next output of the operation, see backends.Operation.BindOutput.
func (op *Operation) BindOutput(tensor *Tensor) *Operation {
	return op.bind("BindOutput", trace.Ref(tensor), func(v trace.Values) {
		op.op.BindOutput(trace.As[backends.Tensor](v, 0))
	})
}

// BindInputs binds the next inputs of the operation, see backends.Operation.BindInputs.
func (op *Operation) BindInputs(tensors []*Tensor) *Operation {
	return op.bind("BindInputs", trace.ObjectSlice("backends.Tensor", tensors), func(v trace.Values) {
		op.op.BindInputs(trace.AsSlice[backends.Tensor](v, 0))
	})
}

// BindOutputs binds the next outputs of the operation, see backends.Operation.BindOutputs.
func (op *Operation) BindOutputs(tensors []*Tensor) *Operation {
	return op.bind("BindOutputs", trace.ObjectSlice("backends.Tensor", tensors), func(v trace.Values) {
		op.op.BindOutputs(trace.AsSlice[backends.Tensor](v, 0))
	})
}
