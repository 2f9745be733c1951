package backends

// Context is the entry point of a backend: it owns the device resources and creates graphs.
type Context interface {
	// Name returns the short name of the backend. E.g.: "go" for SimpleGo.
	Name() string

	// CreateGraph creates a new empty graph.
	CreateGraph() Graph
}

// Graph defines the set of methods to build, compile and run a computation.
//
// Tensors and operations are created by the graph, operations are then bound to their input and output tensors.
// The graph is compiled either implicitly by Run, explicitly by Compile, or to a binary graph by CompileToBinary,
// which can later be imported into another graph with an ops.NBG operation.
type Graph interface {
	// CreateTensor creates a tensor in the graph.
	//
	// The data is optional (nil): if given it must be a flat slice of the spec's data type or
	// a []byte with at least spec.ByteSize() bytes, and it is copied into the tensor.
	CreateTensor(spec TensorSpec, data any) Tensor

	// CreateOperation creates an operation in the graph. Its inputs and outputs are bound later.
	CreateOperation(desc OpDesc) Operation

	// Compile validates the graph and prepares it for execution.
	Compile() error

	// CompileToBinary compiles the graph to a binary graph.
	//
	// If buf is nil, only the required size is stored in size.
	// Otherwise, buf must hold at least that many bytes, the binary graph is written to it and its size is stored
	// in size.
	//
	// An empty graph (with no operations) can't be compiled to a binary graph.
	CompileToBinary(buf []byte, size *uint64) error

	// Run executes the graph, compiling it first if needed.
	Run() error
}

// Operation is an operation in a Graph. The Bind methods return the operation itself, so they can be chained.
type Operation interface {
	// Type of the operation.
	Type() OpType

	BindInput(tensor Tensor) Operation
	BindOutput(tensor Tensor) Operation
	BindInputs(tensors []Tensor) Operation
	BindOutputs(tensors []Tensor) Operation

	// Inputs and Outputs bound so far.
	Inputs() []Tensor
	Outputs() []Tensor
}
