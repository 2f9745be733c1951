package replay

import (
	"bytes"
	"flag"
	"go/parser"
	"go/token"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/gomlx/vxtrace/backends"
	_ "github.com/gomlx/vxtrace/backends/default"
	"github.com/gomlx/vxtrace/backends/notimplemented"
	"github.com/gomlx/vxtrace/trace"
	"github.com/gomlx/vxtrace/traced"
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

// recording holds the logs of a traced session.
type recording struct {
	s         *trace.Session
	text, bin bytes.Buffer
}

func newRecording() *recording {
	rec := &recording{}
	rec.s = trace.NewSession(&rec.text, &rec.bin)
	return rec
}

func (rec *recording) replayer() *trace.Replayer {
	return trace.NewReplayer(bytes.NewReader(rec.bin.Bytes()))
}

// traceAdd traces z = x + y, with x = y = {1.1, 2.2, 3.3, 4.4}, and returns the traced result.
func traceAdd(t *testing.T, rec *recording, ctx *traced.Context) []float32 {
	s := rec.s
	g := ctx.CreateGraph()
	inputSpec := traced.NewTensorSpec(s, backends.Float32, backends.ShapeType{4}, backends.AttributeInput)
	x := g.CreateTensor(inputSpec, nil)
	y := g.CreateTensor(inputSpec, nil)
	z := g.CreateTensor(traced.NewTensorSpec(s, backends.Float32, backends.ShapeType{4}, backends.AttributeOutput), nil)
	g.CreateOperation(traced.Add()).BindInputs([]*traced.Tensor{x, y}).BindOutputs([]*traced.Tensor{z})
	if err := g.Compile(); err != nil {
		return nil
	}
	input := []float32{1.1, 2.2, 3.3, 4.4}
	require.NoError(t, x.CopyDataToTensor(input))
	require.NoError(t, y.CopyDataToTensor(input))
	require.NoError(t, g.Run())
	got := make([]float32, 4)
	require.NoError(t, z.CopyDataFromTensor(got))
	return got
}

// float32s decodes raw bytes in native order.
func float32s(data []byte) []float32 {
	return trace.GetVector[float32](trace.NewReplayer(bytes.NewReader(data)), 0, len(data)/4)
}

func TestParseLog(t *testing.T) {
	rec := newRecording()
	traceAdd(t, rec, traced.CreateContext(rec.s))
	statements, err := ParseLog(rec.text.Bytes())
	require.NoError(t, err)
	require.Len(t, statements, rec.s.Stats().Statements)

	for i, st := range statements {
		assert.True(t, strings.HasSuffix(st.Text, ";"), st.Text)
		assert.Equal(t, strings.Count(st.Text, "("), strings.Count(st.Text, ")"), st.Text)
		// Line 1 is the session header.
		assert.Equal(t, i+2, st.Line)
	}
	assert.Equal(t, "ctx_0", statements[0].DeclaredName())
	assert.Equal(t, "backends.CreateContext", statements[0].Callee())
	assert.Equal(t, "spec_0", statements[2].DeclaredName())
	last := statements[len(statements)-1]
	assert.Equal(t, "", last.DeclaredName())
	assert.Equal(t, "tensor_2.CopyDataFromTensor", last.Callee())

	_, err = ParseLog([]byte("x := a.B(;\n"))
	require.Error(t, err)
	_, err = ParseLog([]byte("}\nfunc f() {\n"))
	require.Error(t, err)
}

func TestInterpreter(t *testing.T) {
	rec := newRecording()
	want := traceAdd(t, rec, traced.CreateContext(rec.s))
	require.Equal(t, []float32{2.2, 4.4, 6.6, 8.8}, want)

	var steps []int
	in := New(rec.replayer()).WithStepCallback(func(i, total int, _ Statement) {
		assert.Equal(t, rec.s.Stats().Statements, total)
		steps = append(steps, i)
	})
	require.NoError(t, in.Run(rec.text.Bytes()))
	assert.Len(t, steps, rec.s.Stats().Statements)
	assert.Empty(t, in.Failures())

	outputs := in.Outputs()
	require.Contains(t, outputs, "tensor_2")
	assert.Equal(t, want, float32s(outputs["tensor_2"]))

	ctx, found := in.Var("ctx_0")
	require.True(t, found)
	assert.Equal(t, "go", ctx.(backends.Context).Name())
	spec, found := in.Var("spec_1")
	require.True(t, found)
	assert.Equal(t, backends.AttributeOutput, spec.(backends.TensorSpec).Attribute)
	_, found = in.Var("tensor_3")
	assert.False(t, found)
}

func TestInterpreter_NonFinite(t *testing.T) {
	src := []byte(`inf := math.Float32frombits(0x7f800000);
nan := math.Float64frombits(0x7ff8000000000001);
negInf := math.Float64frombits(0xfff0000000000000);
one := float32(1);
`)
	in := New(newRecording().replayer())
	require.NoError(t, in.Run(src))
	v, found := in.Var("inf")
	require.True(t, found)
	assert.Equal(t, float32(math.Inf(1)), v)
	v, _ = in.Var("nan")
	assert.True(t, math.IsNaN(v.(float64)))
	v, _ = in.Var("negInf")
	assert.Equal(t, math.Inf(-1), v)

	program, err := GenerateProgram(src, trace.NewConfig(""))
	require.NoError(t, err)
	assert.Contains(t, string(program), "\t\"math\"\n")
}

func TestInterpreter_NBG(t *testing.T) {
	rec := newRecording()
	s := rec.s
	ctx := traced.CreateContext(s)

	inner := ctx.CreateGraph()
	spec := traced.NewTensorSpec(s, backends.Int32, backends.ShapeType{3}, backends.AttributeInput)
	x := inner.CreateTensor(spec, nil)
	y := inner.CreateTensor(spec, nil)
	z := inner.CreateTensor(traced.NewTensorSpec(s, backends.Int32, backends.ShapeType{3}, backends.AttributeOutput), nil)
	inner.CreateOperation(traced.Multiply()).BindInput(x).BindInput(y).BindOutput(z)
	var size uint64
	require.NoError(t, inner.CompileToBinary(nil, &size))
	binary := make([]byte, size)
	require.NoError(t, inner.CompileToBinary(binary, &size))

	g := ctx.CreateGraph()
	a := g.CreateTensor(spec, []int32{1, 2, 3})
	b := g.CreateTensor(spec, []int32{4, 5, 6})
	c := g.CreateTensor(traced.NewTensorSpec(s, backends.Int32, backends.ShapeType{3}, backends.AttributeOutput), nil)
	g.CreateOperation(traced.NBG(binary, 2, 1)).BindInputs([]*traced.Tensor{a, b}).BindOutputs([]*traced.Tensor{c})
	require.NoError(t, g.Run())
	got := make([]int32, 3)
	require.NoError(t, c.CopyDataFromTensor(got))
	require.Equal(t, []int32{4, 10, 18}, got)

	in := New(rec.replayer())
	require.NoError(t, in.Run(rec.text.Bytes()))
	assert.Empty(t, in.Failures())
	size0, found := in.Var("nbg_size_0")
	require.True(t, found)
	assert.Equal(t, size, size0, "CompileToBinary(nil, &size) must store the size when replayed")
	out := in.Outputs()["tensor_5"]
	assert.Equal(t, []int32{4, 10, 18}, trace.GetVector[int32](trace.NewReplayer(bytes.NewReader(out)), 0, 3))
}

func TestInterpreter_Failures(t *testing.T) {
	rec := newRecording()
	traceAdd(t, rec, traced.CreateContextWithConfig(rec.s, notimplemented.BackendName))
	require.Contains(t, rec.text.String(), "// graph_0.Compile failed: ")

	in := New(rec.replayer()).WithContextFactory(func() backends.Context { return notimplemented.New("") })
	require.NoError(t, in.Run(rec.text.Bytes()))
	failures := in.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "graph_0.Compile", failures[0].Statement.Callee())
	assert.ErrorIs(t, failures[0].Err, notimplemented.NotImplementedError)
	assert.Contains(t, failures[0].String(), "graph_0.Compile failed")
}

func TestInterpreter_Errors(t *testing.T) {
	testCases := []struct {
		name, src, wantErr string
	}{
		{"opaque", "ctx_0 := backends.CreateContext();\ngraph_0 := ctx_0.CreateGraph();\n" +
			"graph_0.CreateTensor(unimplemented_arg_logging, nil);",
			"not logged"},
		{"undefined", "ctx_0 := backends.CreateContext();\ngraph_0 := ctx_1.CreateGraph();",
			`did you mean "ctx_0"`},
		{"method", "ctx_0 := backends.CreateContext();\ngraph_0 := ctx_0.CreateGraf();",
			`did you mean "Context.CreateGraph"`},
		{"function", "spec_0 := backends.NewTensorSpek();", `did you mean "backends.NewTensorSpec"`},
		{"arguments", "ctx_0 := backends.CreateContext(1);", "takes 0 arguments"},
		{"address", "ctx_0 := backends.CreateContext();\ngraph_0 := ctx_0.CreateGraph();\n" +
			"graph_0.CompileToBinary(nil, &ctx_0);", "output parameters"},
		{"backend panic", "ctx_0 := backends.CreateContext();\ngraph_0 := ctx_0.CreateGraph();\n" +
			"op_0 := graph_0.CreateOperation(ops.NBG(nil, 1, 1));", "line 3"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := New(nil).Run([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGenerateProgram(t *testing.T) {
	rec := newRecording()
	traceAdd(t, rec, traced.CreateContext(rec.s))
	cfg := trace.NewConfig("/tmp/traces/")
	program, err := GenerateProgram(rec.text.Bytes(), cfg)
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), "main.go", program, parser.ImportsOnly)
	require.NoError(t, err)
	assert.Equal(t, "main", file.Name.Name)
	var imports []string
	for _, spec := range file.Imports {
		imports = append(imports, spec.Path.Value)
	}
	assert.Contains(t, imports, `"github.com/gomlx/vxtrace/backends/ops"`)
	assert.NotContains(t, imports, `"github.com/x448/float16"`)

	text := string(program)
	assert.Contains(t, text, "// Replays the trace session "+rec.s.ID().String())
	assert.Contains(t, text, `Prefix:      "/tmp/traces/",`)
	assert.Contains(t, text, "\tadd_0 := graph_0.CreateOperation(ops.Add())\n")
	assert.Contains(t, text, "\t_ = tensor_2\n")

	_, err = GenerateProgram([]byte("x := f(unimplemented_arg_logging);\n"), cfg)
	require.ErrorContains(t, err, "not logged")
}

// TestScenarios traces a graph adding 2 tensors, compiled to a binary graph, and a second graph importing the
// binary graph, and checks that replaying the log reproduces both results.
func TestScenarios(t *testing.T) {
	rec := newRecording()
	s := rec.s
	ctx := traced.CreateContext(s)
	shape := backends.ShapeType{1, 2, 2, 1}
	input := []float32{1.1, 2.2, 3.3, 4.4}
	want := []float32{2.2, 4.4, 6.6, 8.8}

	// Scenario A: construct, bind, compile to binary and run.
	g := ctx.CreateGraph()
	inputSpec := traced.NewTensorSpec(s, backends.Float32, shape, backends.AttributeInput)
	outputSpec := traced.NewTensorSpec(s, backends.Float32, shape, backends.AttributeOutput)
	x := g.CreateTensor(inputSpec, nil)
	y := g.CreateTensor(inputSpec, nil)
	z := g.CreateTensor(outputSpec, nil)
	g.CreateOperation(traced.Add()).BindInputs([]*traced.Tensor{x, y}).BindOutputs([]*traced.Tensor{z})
	var size uint64
	require.NoError(t, g.CompileToBinary(nil, &size))
	require.Greater(t, size, uint64(0))
	binary := make([]byte, size)
	require.NoError(t, g.CompileToBinary(binary, &size))
	require.NoError(t, x.CopyDataToTensor(input))
	require.NoError(t, y.CopyDataToTensor(input))
	require.NoError(t, g.Run())
	got := make([]float32, 4)
	require.NoError(t, z.CopyDataFromTensor(got))
	require.Equal(t, want, got)

	// Scenario B: import the binary graph in a new graph.
	nbgGraph := ctx.CreateGraph()
	a := nbgGraph.CreateTensor(inputSpec, nil)
	b := nbgGraph.CreateTensor(inputSpec, nil)
	c := nbgGraph.CreateTensor(outputSpec, nil)
	nbgGraph.CreateOperation(traced.NBG(binary, 2, 1)).BindInputs([]*traced.Tensor{a, b}).BindOutputs([]*traced.Tensor{c})
	require.NoError(t, nbgGraph.Compile())
	require.NoError(t, a.CopyDataToTensor(input))
	require.NoError(t, b.CopyDataToTensor(input))
	require.NoError(t, nbgGraph.Run())
	got = make([]float32, 4)
	require.NoError(t, c.CopyDataFromTensor(got))
	require.Equal(t, want, got)
	require.Zero(t, s.Stats().FailedCalls)
	require.Zero(t, s.Stats().Diagnostics)

	// Replay on the backend directly.
	in := New(rec.replayer())
	require.NoError(t, in.Run(rec.text.Bytes()))
	assert.Empty(t, in.Failures())
	outputs := in.Outputs()
	assert.Equal(t, want, float32s(outputs["tensor_2"]))
	assert.Equal(t, want, float32s(outputs["tensor_5"]))

	// And the generated program is valid Go.
	program, err := GenerateProgram(rec.text.Bytes(), trace.NewConfig(""))
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "main.go", program, parser.AllErrors)
	require.NoError(t, err)
}
