package traced

import (
	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/trace"
	"k8s.io/klog/v2"
)

// TensorSpec wraps a backends.TensorSpec. It is passed by value, like the backends.TensorSpec it wraps,
// and all its copies share the same name in the trace.
type TensorSpec struct {
	s    *trace.Session
	spec *backends.TensorSpec
}

var _ trace.ValueObject = TensorSpec{}

// NewTensorSpec creates a TensorSpec (see backends.NewTensorSpec), traced by s.
// If s is nil, trace.Default() is used.
func NewTensorSpec(s *trace.Session, dataType backends.DataType, shape backends.ShapeType,
	attribute backends.TensorAttribute) TensorSpec {
	s = sessionOrDefault(s)
	return trace.Factory(s, trace.Call{
		Kind:   trace.CallKindConstructor,
		Func:   "backends.NewTensorSpec",
		Prefix: "spec_",
		Args:   []trace.Arg{trace.EnumArg(dataType), trace.Vector(shape), trace.EnumArg(attribute)},
	}, func(v trace.Values) TensorSpec {
		spec := backends.NewTensorSpec(
			trace.As[backends.DataType](v, 0), trace.As[backends.ShapeType](v, 1), trace.As[backends.TensorAttribute](v, 2))
		return TensorSpec{s: s, spec: &spec}
	})
}

// TraceIdentity implements trace.Identifiable.
func (ts TensorSpec) TraceIdentity() any { return ts.spec }

// UnderlyingValue implements trace.ValueObject.
func (ts TensorSpec) UnderlyingValue() any { return ts.Underlying() }

// Underlying returns a copy of the wrapped backends.TensorSpec.
func (ts TensorSpec) Underlying() backends.TensorSpec {
	if ts.spec == nil {
		return backends.TensorSpec{}
	}
	return backends.NewTensorSpec(ts.spec.DataType, ts.spec.Shape, ts.spec.Attribute)
}

// Session tracing the spec.
func (ts TensorSpec) Session() *trace.Session { return ts.s }

// String implements fmt.Stringer.
func (ts TensorSpec) String() string { return ts.Underlying().String() }

// Graph wraps a backends.Graph.
type Graph struct {
	s     *trace.Session
	graph backends.Graph
}

var _ trace.Object = (*Graph)(nil)

// TraceIdentity implements trace.Identifiable.
func (g *Graph) TraceIdentity() any { return g }

// UnderlyingObject implements trace.Object.
func (g *Graph) UnderlyingObject() any {
	if g == nil {
		return nil
	}
	return g.graph
}

// UnderlyingTypeName implements trace.TypeNamer.
func (g *Graph) UnderlyingTypeName() string { return "backends.Graph" }

// Underlying returns the wrapped backends.Graph.
func (g *Graph) Underlying() backends.Graph { return g.graph }

// Session tracing the graph.
func (g *Graph) Session() *trace.Session { return g.s }

// CreateTensor creates a tensor in the graph, see backends.Graph.CreateTensor.
//
// The data (optional) is recorded in the binary log, up to the size of the tensor.
func (g *Graph) CreateTensor(spec TensorSpec, data any) *Tensor {
	byteSize := spec.Underlying().ByteSize()
	return trace.Factory(g.s, trace.Call{
		Kind:     trace.CallKindFactory,
		Receiver: g,
		Method:   "CreateTensor",
		Prefix:   "tensor_",
		Args:     []trace.Arg{trace.ObjectValue(spec), trace.Special(data, nil)},
		Hook:     func(c *trace.CallContext) { dataBuffer(c, 1, data, byteSize) },
	}, func(v trace.Values) *Tensor {
		return &Tensor{s: g.s, tensor: g.graph.CreateTensor(trace.As[backends.TensorSpec](v, 0), v.Get(1))}
	})
}

// dataBuffer sets the i-th argument of the call to the contents of the flat data, up to byteSize bytes.
// A nil data is logged as nil.
func dataBuffer(c *trace.CallContext, i int, data any, byteSize int) {
	flat, err := backends.FlatBytes(data)
	if err != nil {
		klog.Errorf("vxtrace: can't log data buffer: %v", err)
		return
	}
	if flat == nil {
		c.Bytes(i, nil)
		return
	}
	if len(flat) > byteSize {
		flat = flat[:byteSize]
	}
	c.Bytes(i, flat)
}

// CreateOperation creates an operation in the graph, see backends.Graph.CreateOperation.
// The operation is named after its type, e.g. "add_0".
func (g *Graph) CreateOperation(op OpSpec) *Operation {
	return trace.Factory(g.s, trace.Call{
		Kind:     trace.CallKindFactory,
		Receiver: g,
		Method:   "CreateOperation",
		Prefix:   op.namePrefix(),
		Args:     []trace.Arg{op.arg()},
	}, func(v trace.Values) *Operation {
		return &Operation{s: g.s, op: g.graph.CreateOperation(trace.As[backends.OpDesc](v, 0))}
	})
}

// Compile the graph, see backends.Graph.Compile.
func (g *Graph) Compile() error {
	return trace.Do(g.s, trace.Call{Kind: trace.CallKindMethod, Receiver: g, Method: "Compile"},
		func(trace.Values) error { return g.graph.Compile() })
}

// CompileToBinary compiles the graph to a binary graph, see backends.Graph.CompileToBinary.
//
// The contents of buf (nil to query the size) are recorded up to *size bytes, and *size is recorded in a
// variable declared before the call.
func (g *Graph) CompileToBinary(buf []byte, size *uint64) error {
	return trace.Do(g.s, trace.Call{
		Kind:     trace.CallKindMethod,
		Receiver: g,
		Method:   "CompileToBinary",
		Args:     []trace.Arg{trace.Special(buf, nil), trace.Special(size, nil)},
		Hook: func(c *trace.CallContext) {
			logged := buf
			if buf != nil && size != nil && uint64(len(buf)) > *size {
				logged = buf[:*size]
			}
			c.Bytes(0, logged)
			c.OutParam(1, size, "nbg_size_")
		},
	}, func(v trace.Values) error {
		return g.graph.CompileToBinary(trace.As[[]byte](v, 0), trace.As[*uint64](v, 1))
	})
}

// Run the graph, see backends.Graph.Run.
func (g *Graph) Run() error {
	return trace.Do(g.s, trace.Call{Kind: trace.CallKindMethod, Receiver: g, Method: "Run"},
		func(trace.Values) error { return g.graph.Run() })
}
