// Package simplego implements a simple, and not very fast, but very portable backend for vxtrace.
//
// It only implements the elementwise binary operations, the import of binary graphs (NBG) and the
// most popular data types. It is the backend used to replay traces when no other backend is configured.
package simplego

import (
	"github.com/gomlx/vxtrace/backends"
)

// BackendName to be used in VX_BACKEND to specify this backend.
const BackendName = "go"

// Registers New() as the constructor for the "go" backend.
func init() {
	backends.Register(BackendName, New)
}

// New constructs a new SimpleGo Context.
// There are no configurations, the string is simply ignored.
func New(_ string) backends.Context {
	return newContext()
}

func newContext() *Context {
	return &Context{}
}

// Context implements the backends.Context interface.
type Context struct {
	numGraphs int
}

// Compile-time check that simplego.Context implements backends.Context.
var (
	_ backends.Context         = &Context{}
	_ backends.HasCapabilities = &Context{}
)

// Name returns the short name of the backend.
func (c *Context) Name() string {
	return BackendName
}

// String implements fmt.Stringer.
func (c *Context) String() string { return "SimpleGo (go)" }

// Capabilities returns information about what is supported by this backend.
func (c *Context) Capabilities() backends.Capabilities {
	return Capabilities.Clone()
}

// CreateGraph creates a new empty graph.
func (c *Context) CreateGraph() backends.Graph {
	c.numGraphs++
	return newGraph(c)
}
