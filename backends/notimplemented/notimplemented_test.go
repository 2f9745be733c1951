package notimplemented

import (
	"testing"

	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/backends/ops"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotImplemented(t *testing.T) {
	ctx := New("")
	assert.Equal(t, BackendName, ctx.Name())
	g := ctx.CreateGraph()
	x := g.CreateTensor(backends.NewTensorSpec(backends.Float32, []uint32{2}, backends.AttributeInput), nil)
	assert.Equal(t, 8, x.Spec().ByteSize())
	op := g.CreateOperation(ops.Add()).BindInputs([]backends.Tensor{x, x}).BindOutput(x)
	assert.Len(t, op.Inputs(), 2)
	assert.Len(t, op.Outputs(), 1)
	assert.Len(t, g.(*Graph).Operations, 1)

	for _, err := range []error{
		g.Compile(), g.Run(), g.CompileToBinary(nil, new(uint64)),
		x.CopyDataToTensor([]float32{1, 2}), x.CopyDataFromTensor(make([]float32, 2)),
	} {
		require.Error(t, err)
		assert.True(t, errors.Is(err, backends.ErrNotImplemented))
	}
}
