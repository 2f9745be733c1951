package traced

import (
	"bytes"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gomlx/vxtrace/backends"
	_ "github.com/gomlx/vxtrace/backends/default"
	"github.com/gomlx/vxtrace/backends/notimplemented"
	"github.com/gomlx/vxtrace/trace"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestMain(m *testing.M) {
	flag.Parse()
	must.M(os.Setenv(backends.ConfigEnvVar, "go"))
	backends.Register(notimplemented.BackendName, notimplemented.New)
	os.Exit(m.Run())
}

// logLines returns the lines of the text log after the session header.
func logLines(t *testing.T, s *trace.Session, text *bytes.Buffer) []string {
	lines := strings.Split(strings.TrimSuffix(text.String(), "\n"), "\n")
	require.Equal(t, "// vxtrace session "+s.ID().String(), lines[0])
	return lines[1:]
}

func TestAdd(t *testing.T) {
	var text, bin bytes.Buffer
	s := trace.NewSession(&text, &bin)

	ctx := CreateContext(s)
	require.Equal(t, "go", ctx.Name())
	g := ctx.CreateGraph()
	inputSpec := NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeInput)
	outputSpec := NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeOutput)
	x := g.CreateTensor(inputSpec, nil)
	y := g.CreateTensor(inputSpec, nil)
	z := g.CreateTensor(outputSpec, nil)
	add := g.CreateOperation(Add())
	assert.Equal(t, backends.OpTypeAdd, add.Type())
	add.BindInputs([]*Tensor{x, y}).BindOutputs([]*Tensor{z})
	require.NoError(t, g.Compile())
	require.NoError(t, x.CopyDataToTensor([]float32{1.1, 2.2}))
	require.NoError(t, y.CopyDataToTensor([]float32{1.1, 2.2}))
	require.NoError(t, g.Run())
	got := make([]float32, 2)
	require.NoError(t, z.CopyDataFromTensor(got))
	assert.Equal(t, []float32{2.2, 4.4}, got)

	want := []string{
		"ctx_0 := backends.CreateContext();",
		"graph_0 := ctx_0.CreateGraph();",
		"spec_0 := backends.NewTensorSpec(backends.DataType(9), trace.GetVector[uint32](replayer, 0, 1), backends.TensorAttribute(8));",
		"spec_1 := backends.NewTensorSpec(backends.DataType(9), trace.GetVector[uint32](replayer, 4, 1), backends.TensorAttribute(16));",
		"tensor_0 := graph_0.CreateTensor(spec_0, nil);",
		"tensor_1 := graph_0.CreateTensor(spec_0, nil);",
		"tensor_2 := graph_0.CreateTensor(spec_1, nil);",
		"add_0 := graph_0.CreateOperation(ops.Add());",
		"add_0.BindInputs([]backends.Tensor{tensor_0, tensor_1});",
		"add_0.BindOutputs([]backends.Tensor{tensor_2});",
		"graph_0.Compile();",
		"tensor_0.CopyDataToTensor(trace.GetBytes(replayer, 8, 8));",
		"tensor_1.CopyDataToTensor(trace.GetBytes(replayer, 16, 8));",
		"graph_0.Run();",
		"tensor_2.CopyDataFromTensor(trace.GetBytes(replayer, 24, 8));",
	}
	if diff := cmp.Diff(want, logLines(t, s, &text)); diff != "" {
		t.Errorf("text log mismatch (-want +got):\n%s", diff)
	}

	r := trace.NewReplayer(bytes.NewReader(bin.Bytes()))
	assert.Equal(t, []uint32{2}, trace.GetVector[uint32](r, 0, 1))
	assert.Equal(t, []float32{1.1, 2.2}, trace.GetVector[float32](r, 8, 2))
	// Output buffers are logged with their contents before the call.
	assert.Equal(t, []float32{0, 0}, trace.GetVector[float32](r, 24, 2))

	stats := s.Stats()
	assert.Equal(t, len(want), stats.Statements)
	assert.Equal(t, uint64(32), stats.BinaryBytes)
	assert.Zero(t, stats.Diagnostics)
	assert.Zero(t, stats.FailedCalls)
	name, found := s.NameOf(z)
	require.True(t, found)
	assert.Equal(t, "tensor_2", name)
}

// addGraph builds a graph adding 2 inputs of shape [2].
func addGraph(ctx *Context) *Graph {
	s := ctx.Session()
	g := ctx.CreateGraph()
	inputSpec := NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeInput)
	x := g.CreateTensor(inputSpec, nil)
	y := g.CreateTensor(inputSpec, nil)
	z := g.CreateTensor(NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeOutput), nil)
	g.CreateOperation(Add()).BindInput(x).BindInput(y).BindOutput(z)
	return g
}

func TestNBG(t *testing.T) {
	var text, bin bytes.Buffer
	s := trace.NewSession(&text, &bin)
	ctx := CreateContextWithConfig(s, "go")
	inner := addGraph(ctx)

	var size uint64
	require.NoError(t, inner.CompileToBinary(nil, &size))
	require.Greater(t, size, uint64(0))
	binary := make([]byte, size)
	require.NoError(t, inner.CompileToBinary(binary, &size))

	g := ctx.CreateGraph()
	inputSpec := NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeInput)
	x := g.CreateTensor(inputSpec, []float32{1, 2})
	y := g.CreateTensor(inputSpec, []float32{10, 20})
	z := g.CreateTensor(NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeOutput), nil)
	nbg := g.CreateOperation(NBG(binary, 2, 1))
	assert.Equal(t, backends.OpTypeNBG, nbg.Type())
	nbg.BindInputs([]*Tensor{x, y}).BindOutput(z)
	require.NoError(t, g.Run())
	got := make([]float32, 2)
	require.NoError(t, z.CopyDataFromTensor(got))
	assert.Equal(t, []float32{11, 22}, got)

	lines := logLines(t, s, &text)
	assert.Equal(t, `ctx_0 := backends.CreateContextWithConfig("go");`, lines[0])
	assert.Contains(t, lines, "nbg_size_0 := uint64(0);")
	assert.Contains(t, lines, "graph_0.CompileToBinary(nil, &nbg_size_0);")
	assert.Contains(t, lines, "add_0.BindInput(tensor_0);")

	// The binary is declared right before the operation that imports it.
	var nbgLine int
	for i, line := range lines {
		if strings.HasPrefix(line, "nbg_0 := ") {
			nbgLine = i
		}
	}
	require.Greater(t, nbgLine, 0)
	assert.Equal(t, "nbg_0 := graph_1.CreateOperation(ops.NBG(nbg_buf_0, 2, 1));", lines[nbgLine])
	assert.True(t, strings.HasPrefix(lines[nbgLine-1], "nbg_buf_0 := trace.GetBytes(replayer, "), lines[nbgLine-1])
	assert.Equal(t, "nbg_0.BindInputs([]backends.Tensor{tensor_3, tensor_4});", lines[nbgLine+1])
	assert.Equal(t, "nbg_0.BindOutput(tensor_5);", lines[nbgLine+2])
	assert.Zero(t, s.Stats().FailedCalls)
}

func TestEmptyGraph(t *testing.T) {
	var text, bin bytes.Buffer
	s := trace.NewSession(&text, &bin)
	g := CreateContext(s).CreateGraph()
	size := uint64(7)
	require.ErrorContains(t, g.CompileToBinary(nil, &size), "empty")

	lines := logLines(t, s, &text)
	require.Len(t, lines, 5)
	assert.Equal(t, "nbg_size_0 := uint64(7);", lines[2])
	assert.Equal(t, "graph_0.CompileToBinary(nil, &nbg_size_0);", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "// graph_0.CompileToBinary failed: "), lines[4])
	assert.Equal(t, 1, s.Stats().FailedCalls)
}

func TestNotImplemented(t *testing.T) {
	var text, bin bytes.Buffer
	s := trace.NewSession(&text, &bin)
	ctx := CreateContextWithConfig(s, notimplemented.BackendName)
	g := addGraph(ctx)
	require.ErrorIs(t, g.Compile(), notimplemented.NotImplementedError)
	require.ErrorIs(t, g.Run(), notimplemented.NotImplementedError)

	lines := logLines(t, s, &text)
	assert.Equal(t, "// graph_0.Compile failed: in Graph.Compile(): not implemented", lines[len(lines)-3])
	assert.Equal(t, "graph_0.Run();", lines[len(lines)-2])
	assert.Equal(t, 2, s.Stats().FailedCalls)

	// The notimplemented graph recorded everything that was forwarded.
	recorded := g.Underlying().(*notimplemented.Graph)
	assert.Len(t, recorded.Tensors, 3)
	assert.Len(t, recorded.Operations, 1)
	assert.Len(t, recorded.Operations[0].Inputs(), 2)
}

func TestForeignObjects(t *testing.T) {
	var text, bin bytes.Buffer
	s := trace.NewSession(&text, &bin)
	other := trace.NewSession(nil, nil)
	g := CreateContext(s).CreateGraph()
	spec := NewTensorSpec(other, backends.Int32, backends.ShapeType{3}, backends.AttributeConstant)
	x := g.CreateTensor(spec, []int32{1, 2, 3})
	require.NotNil(t, x)
	assert.Equal(t, backends.Int32, x.Spec().DataType)

	lines := logLines(t, s, &text)
	// The spec is unknown to s: it is reported and logged as nil.
	assert.Equal(t, "tensor_0 := graph_0.CreateTensor(nil, trace.GetBytes(replayer, 0, 12));", lines[2])
	assert.Equal(t, 1, s.Stats().Diagnostics)
}
