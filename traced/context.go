// Package traced wraps the backends API: every call made through the wrappers is recorded by a trace.Session
// and then forwarded to the backend.
//
// The wrappers mirror the backends types (Context, Graph, Tensor, Operation), taking and returning wrappers
// instead of backend values. Example:
//
//	s := trace.OpenSession(trace.ConfigFromEnv())
//	defer s.Close()
//	ctx := traced.CreateContext(s)
//	g := ctx.CreateGraph()
//	spec := traced.NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeInput)
//	x := g.CreateTensor(spec, []float32{1, 2})
//	...
//
// The recorded text log can be replayed with package github.com/gomlx/vxtrace/replay.
package traced

import (
	"strconv"

	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/trace"
)

// Context wraps a backends.Context.
type Context struct {
	s   *trace.Session
	ctx backends.Context
}

var _ trace.Object = (*Context)(nil)

func sessionOrDefault(s *trace.Session) *trace.Session {
	if s == nil {
		return trace.Default()
	}
	return s
}

// CreateContext creates a Context of the default backend (see backends.CreateContext), traced by s.
// If s is nil, trace.Default() is used.
func CreateContext(s *trace.Session) *Context {
	s = sessionOrDefault(s)
	return trace.Factory(s, trace.Call{
		Kind:   trace.CallKindConstructor,
		Func:   "backends.CreateContext",
		Prefix: "ctx_",
	}, func(trace.Values) *Context {
		return &Context{s: s, ctx: backends.CreateContext()}
	})
}

// CreateContextWithConfig creates a Context of the backend given by config (see backends.CreateContextWithConfig),
// traced by s. If s is nil, trace.Default() is used.
func CreateContextWithConfig(s *trace.Session, config string) *Context {
	s = sessionOrDefault(s)
	return trace.Factory(s, trace.Call{
		Kind:   trace.CallKindConstructor,
		Func:   "backends.CreateContextWithConfig",
		Prefix: "ctx_",
		Args:   []trace.Arg{stringArg(config)},
	}, func(v trace.Values) *Context {
		return &Context{s: s, ctx: backends.CreateContextWithConfig(trace.As[string](v, 0))}
	})
}

// stringArg is logged as a quoted Go string.
func stringArg(text string) trace.Arg {
	return trace.Special(text, func(*trace.CallContext) string { return strconv.Quote(text) })
}

// TraceIdentity implements trace.Identifiable.
func (c *Context) TraceIdentity() any { return c }

// UnderlyingObject implements trace.Object.
func (c *Context) UnderlyingObject() any {
	if c == nil {
		return nil
	}
	return c.ctx
}

// UnderlyingTypeName implements trace.TypeNamer.
func (c *Context) UnderlyingTypeName() string { return "backends.Context" }

// Underlying returns the wrapped backends.Context.
func (c *Context) Underlying() backends.Context { return c.ctx }

// Session tracing the context.
func (c *Context) Session() *trace.Session { return c.s }

// Name of the backend.
func (c *Context) Name() string { return c.ctx.Name() }

// CreateGraph creates a new empty graph.
func (c *Context) CreateGraph() *Graph {
	return trace.Factory(c.s, trace.Call{
		Kind:     trace.CallKindFactory,
		Receiver: c,
		Method:   "CreateGraph",
		Prefix:   "graph_",
	}, func(trace.Values) *Graph {
		return &Graph{s: c.s, graph: c.ctx.CreateGraph()}
	})
}
