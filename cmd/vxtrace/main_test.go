package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/backends/notimplemented"
	"github.com/gomlx/vxtrace/trace"
	"github.com/gomlx/vxtrace/traced"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	must.M(os.Setenv(backends.ConfigEnvVar, "go"))
	backends.Register(notimplemented.BackendName, notimplemented.New)
	os.Exit(m.Run())
}

// recordSession traces a small graph into the directory dir, and returns its prefix.
func recordSession(t *testing.T, dir string) string {
	prefix := dir + string(filepath.Separator)
	s := trace.OpenSession(trace.NewConfig(prefix))
	ctx := traced.CreateContext(s)
	g := ctx.CreateGraph()
	spec := traced.NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeInput)
	x := g.CreateTensor(spec, []float32{1, 2})
	y := g.CreateTensor(spec, []float32{3, 4})
	z := g.CreateTensor(traced.NewTensorSpec(s, backends.Float32, backends.ShapeType{2}, backends.AttributeOutput), nil)
	g.CreateOperation(traced.Maximum()).BindInputs([]*traced.Tensor{x, y}).BindOutput(z)
	require.NoError(t, g.Run())
	require.NoError(t, z.CopyDataFromTensor(make([]float32, 2)))
	require.NoError(t, s.Close())
	return prefix
}

func execute(t *testing.T, args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReplay(t *testing.T) {
	prefixA := recordSession(t, t.TempDir())
	prefixB := recordSession(t, t.TempDir())
	out, err := execute(t, "replay", "--quiet", prefixA, prefixB)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay failures")
	assert.Contains(t, out, "CreateTensor")

	// With the mock backend every Run and CopyData fails, but the trace can still be replayed.
	out, err = execute(t, "replay", "--quiet", "--backend", notimplemented.BackendName, "--prefix", prefixA)
	require.NoError(t, err)
	assert.Contains(t, out, "Run failed")

	_, err = execute(t, "replay", "--quiet", filepath.Join(t.TempDir(), "missing_"))
	require.ErrorContains(t, err, "failed to read text log")
}

func TestGen(t *testing.T) {
	prefix := recordSession(t, t.TempDir())
	out, err := execute(t, "gen", "--prefix", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, "maximum_0 := graph_0.CreateOperation(ops.Maximum())")

	output := filepath.Join(t.TempDir(), "main.go")
	_, err = execute(t, "gen", "--prefix", prefix, "-o", output)
	require.NoError(t, err)
	program, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, out, string(program))
}

func TestInspectAndSummary(t *testing.T) {
	prefix := recordSession(t, t.TempDir())
	out, err := execute(t, "inspect", "--prefix", prefix, "--filter", "CreateTensor")
	require.NoError(t, err)
	assert.Contains(t, out, "tensor_2")
	assert.Contains(t, out, "3 of 12 statements")

	out, err = execute(t, "summary", "--prefix", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "backends.NewTensorSpec")
	assert.Contains(t, out, "tensor_*")
}
