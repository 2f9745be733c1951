package simplego

import (
	"fmt"
	"testing"

	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/backends/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestExecBinary_broadcastIterator(t *testing.T) {
	S := func(dims ...uint32) backends.ShapeType { return dims }

	// Simple [2, 3] shape broadcast simultaneously by 2 different tensors.
	targetShape := S(2, 3)
	bi1 := newBroadcastIterator(S(2, 1), targetShape)
	bi2 := newBroadcastIterator(S(1, 3), targetShape)
	indices1 := make([]int, 0, 6)
	indices2 := make([]int, 0, 6)
	for range 6 {
		indices1 = append(indices1, bi1.Next())
		indices2 = append(indices2, bi2.Next())
	}
	fmt.Printf("\tindices1=%v\n\tindices2=%v\n", indices1, indices2)
	require.Equal(t, []int{0, 0, 0, 1, 1, 1}, indices1)
	require.Equal(t, []int{0, 1, 2, 0, 1, 2}, indices2)

	// Scalars always point to the first element.
	bi3 := newBroadcastIterator(S(), targetShape)
	for range 6 {
		require.Equal(t, 0, bi3.Next())
	}
}

// binaryOp builds and runs a graph with a single binary operation, and returns the output as a flat slice
// of the same type as lhs.
func binaryOp[T any](t *testing.T, desc backends.OpDesc, dtype backends.DataType,
	lhsDims []uint32, lhs []T, rhsDims []uint32, rhs []T, outDims ...uint32) []T {
	g := backend.CreateGraph()
	x := g.CreateTensor(spec(dtype, backends.AttributeInput, lhsDims...), lhs)
	y := g.CreateTensor(spec(dtype, backends.AttributeInput, rhsDims...), rhs)
	z := g.CreateTensor(spec(dtype, backends.AttributeOutput, outDims...), nil)
	g.CreateOperation(desc).BindInputs([]backends.Tensor{x, y}).BindOutput(z)
	require.NoError(t, g.Run())
	got := make([]T, z.Spec().NumElements())
	require.NoError(t, z.CopyDataFromTensor(got))
	return got
}

func TestExecBinary_Float32(t *testing.T) {
	lhs, rhs := []float32{1, 2, 3, 4}, []float32{4, 3, 2, 1}
	dims := []uint32{2, 2}
	assert.Equal(t, []float32{5, 5, 5, 5}, binaryOp(t, ops.Add(), backends.Float32, dims, lhs, dims, rhs, dims...))
	assert.Equal(t, []float32{-3, -1, 1, 3}, binaryOp(t, ops.Sub(), backends.Float32, dims, lhs, dims, rhs, dims...))
	assert.Equal(t, []float32{4, 6, 6, 4}, binaryOp(t, ops.Multiply(), backends.Float32, dims, lhs, dims, rhs, dims...))
	assert.Equal(t, []float32{0.25, 2.0 / 3.0, 1.5, 4}, binaryOp(t, ops.Div(), backends.Float32, dims, lhs, dims, rhs, dims...))
	assert.Equal(t, []float32{4, 3, 3, 4}, binaryOp(t, ops.Maximum(), backends.Float32, dims, lhs, dims, rhs, dims...))
	assert.Equal(t, []float32{1, 2, 2, 1}, binaryOp(t, ops.Minimum(), backends.Float32, dims, lhs, dims, rhs, dims...))
}

func TestExecBinary_Broadcast(t *testing.T) {
	// Scalar on either side, order matters for Sub.
	assert.Equal(t, []int32{9, 8, 7},
		binaryOp(t, ops.Sub(), backends.Int32, []uint32{}, []int32{10}, []uint32{3}, []int32{1, 2, 3}, 3))
	assert.Equal(t, []int32{-9, -8, -7},
		binaryOp(t, ops.Sub(), backends.Int32, []uint32{3}, []int32{1, 2, 3}, []uint32{1}, []int32{10}, 3))

	// Broadcast along axes.
	assert.Equal(t, []int32{11, 12, 13, 21, 22, 23},
		binaryOp(t, ops.Add(), backends.Int32, []uint32{2, 1}, []int32{10, 20}, []uint32{1, 3}, []int32{1, 2, 3}, 2, 3))
}

func TestExecBinary_IntegerDivisionByZero(t *testing.T) {
	got := binaryOp(t, ops.Div(), backends.Int32, []uint32{3}, []int32{7, 8, 9}, []uint32{3}, []int32{2, 0, -3}, 3)
	assert.Equal(t, []int32{3, 0, -3}, got)
	gotU8 := binaryOp(t, ops.Div(), backends.Uint8, []uint32{2}, []uint8{200, 7}, []uint32{2}, []uint8{0, 7}, 2)
	assert.Equal(t, []uint8{0, 1}, gotU8)
}

func TestExecBinary_Float16(t *testing.T) {
	f16 := func(values ...float32) []float16.Float16 {
		result := make([]float16.Float16, len(values))
		for i, v := range values {
			result[i] = float16.Fromfloat32(v)
		}
		return result
	}
	got := binaryOp(t, ops.Multiply(), backends.Float16, []uint32{3}, f16(1, 2, 3), []uint32{}, f16(0.5), 3)
	assert.Equal(t, f16(0.5, 1, 1.5), got)
}

func TestExecBinary_Int64(t *testing.T) {
	got := binaryOp(t, ops.Maximum(), backends.Int64, []uint32{2}, []int64{-1, 1 << 40}, []uint32{2}, []int64{0, 0}, 2)
	assert.Equal(t, []int64{0, 1 << 40}, got)
}
