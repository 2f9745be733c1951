package traced

import (
	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/trace"
)

// Tensor wraps a backends.Tensor.
type Tensor struct {
	s      *trace.Session
	tensor backends.Tensor
}

var _ trace.Object = (*Tensor)(nil)

// TraceIdentity implements trace.Identifiable.
func (t *Tensor) TraceIdentity() any { return t }

// UnderlyingObject implements trace.Object.
func (t *Tensor) UnderlyingObject() any {
	if t == nil {
		return nil
	}
	return t.tensor
}

// UnderlyingTypeName implements trace.TypeNamer.
func (t *Tensor) UnderlyingTypeName() string { return "backends.Tensor" }

// Underlying returns the wrapped backends.Tensor.
func (t *Tensor) Underlying() backends.Tensor { return t.tensor }

// Session tracing the tensor.
func (t *Tensor) Session() *trace.Session { return t.s }

// Spec returns the spec of the tensor. It is not traced.
func (t *Tensor) Spec() backends.TensorSpec { return t.tensor.Spec() }

// CopyDataToTensor copies data into the tensor, see backends.Tensor.CopyDataToTensor.
// The data is recorded in the binary log, up to the size of the tensor.
func (t *Tensor) CopyDataToTensor(data any) error {
	return t.copyData("CopyDataToTensor", data, t.tensor.CopyDataToTensor)
}

// CopyDataFromTensor copies the tensor contents into data, see backends.Tensor.CopyDataFromTensor.
//
// The contents of data before the call are recorded in the binary log: when replayed, the call receives
// a buffer of the same size.
func (t *Tensor) CopyDataFromTensor(data any) error {
	return t.copyData("CopyDataFromTensor", data, t.tensor.CopyDataFromTensor)
}

func (t *Tensor) copyData(method string, data any, forward func(data any) error) error {
	byteSize := t.tensor.Spec().ByteSize()
	return trace.Do(t.s, trace.Call{
		Kind:     trace.CallKindMethod,
		Receiver: t,
		Method:   method,
		Args:     []trace.Arg{trace.Special(data, nil)},
		Hook:     func(c *trace.CallContext) { dataBuffer(c, 0, data, byteSize) },
	}, func(v trace.Values) error {
		return forward(v.Get(0))
	})
}
