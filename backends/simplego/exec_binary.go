package simplego

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/vxtrace/backends"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// This file implements the elementwise binary operations.
// Operands of size 1 are broadcast to the output, as well as operands of the same rank whose dimensions are
// either 1 or equal to the output's.

// PODNumericConstraints are the Go types that back the numeric data types, except Float16.
type PODNumericConstraints interface {
	constraints.Integer | constraints.Float
}

// broadcastIterator allows one to iterate over the flat indices of tensor that is being broadcast
// (some dimensions will grow)
type broadcastIterator struct {
	flatIdx     int
	perAxesIdx  []int
	targetDims  []int
	isBroadcast []bool
	strides     []int
	isScalar    bool
}

// newBroadcastIterator returns an iterator over the flat indices of a tensor of shape fromShape being broadcast
// to toShape.
//
// Pre-requisite: fromShape has size 1 or fromShape and toShape have the same rank.
func newBroadcastIterator(fromShape, toShape backends.ShapeType) *broadcastIterator {
	if shapeSize(fromShape) == 1 {
		return &broadcastIterator{isScalar: true}
	}
	rank := len(fromShape)
	if rank != len(toShape) {
		exceptions.Panicf("broadcastIterator: rank mismatch fromShape=%v, toShape=%v", fromShape, toShape)
	}
	bi := &broadcastIterator{
		perAxesIdx:  make([]int, rank),
		targetDims:  make([]int, rank),
		isBroadcast: make([]bool, rank),
		strides:     make([]int, rank),
	}
	stride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		bi.targetDims[axis] = int(toShape[axis])
		bi.strides[axis] = stride
		stride *= int(fromShape[axis])
		bi.isBroadcast[axis] = fromShape[axis] != toShape[axis]
	}
	return bi
}

func (bi *broadcastIterator) Next() (flatIdx int) {
	if bi.isScalar {
		return 0
	}
	flatIdx = bi.flatIdx
	bi.flatIdx++
	rank := len(bi.perAxesIdx)
	for axis := rank - 1; axis >= 0; axis-- {
		bi.perAxesIdx[axis]++
		if bi.perAxesIdx[axis] < bi.targetDims[axis] {
			if bi.isBroadcast[axis] {
				// If we are broadcasting on this axis, we need to go back and repeat the same slice of the tensor.
				bi.flatIdx -= bi.strides[axis]
			}
			break
		}
		bi.perAxesIdx[axis] = 0
	}
	return
}

func shapeSize(shape backends.ShapeType) int {
	size := 1
	for _, dim := range shape {
		size *= int(dim)
	}
	return size
}

// isBroadcastable returns whether an operand of shape from can be broadcast to the shape to.
func isBroadcastable(from, to backends.ShapeType) bool {
	if shapeSize(from) == 1 {
		return true
	}
	if len(from) != len(to) {
		return false
	}
	for axis, dim := range from {
		if dim != to[axis] && dim != 1 {
			return false
		}
	}
	return true
}

// binaryOpFn returns the function implementing opType, using div for the division.
func binaryOpFn[T PODNumericConstraints](opType backends.OpType, div func(a, b T) T) func(a, b T) T {
	switch opType {
	case backends.OpTypeAdd:
		return func(a, b T) T { return a + b }
	case backends.OpTypeSub:
		return func(a, b T) T { return a - b }
	case backends.OpTypeMultiply:
		return func(a, b T) T { return a * b }
	case backends.OpTypeDiv:
		return div
	case backends.OpTypeMaximum:
		return func(a, b T) T { return max(a, b) }
	case backends.OpTypeMinimum:
		return func(a, b T) T { return min(a, b) }
	}
	exceptions.Panicf("backend %q: %s is not an elementwise binary operation", BackendName, opType)
	return nil
}

// intDiv returns 0 on a division by zero, instead of panicking.
func intDiv[T constraints.Integer](a, b T) T {
	if b == 0 {
		return 0
	}
	return a / b
}

func floatDiv[T constraints.Float](a, b T) T { return a / b }

func intBinaryOpFn[T constraints.Integer](opType backends.OpType) func(a, b T) T {
	return binaryOpFn[T](opType, intDiv[T])
}

func floatBinaryOpFn[T constraints.Float](opType backends.OpType) func(a, b T) T {
	return binaryOpFn[T](opType, floatDiv[T])
}

// execBinary executes the binary operation opType, storing the result in output.
// The data types of the operands and output must be the same, and checked beforehand.
func execBinary(opType backends.OpType, lhs, rhs, output *Tensor) {
	lhsShape, rhsShape, outputShape := lhs.spec.Shape, rhs.spec.Shape, output.spec.Shape
	switch out := output.flat.(type) {
	case []int8:
		execBinaryGeneric(intBinaryOpFn[int8](opType), lhs.flat.([]int8), rhs.flat.([]int8), out, lhsShape, rhsShape, outputShape)
	case []uint8:
		execBinaryGeneric(intBinaryOpFn[uint8](opType), lhs.flat.([]uint8), rhs.flat.([]uint8), out, lhsShape, rhsShape, outputShape)
	case []int16:
		execBinaryGeneric(intBinaryOpFn[int16](opType), lhs.flat.([]int16), rhs.flat.([]int16), out, lhsShape, rhsShape, outputShape)
	case []uint16:
		execBinaryGeneric(intBinaryOpFn[uint16](opType), lhs.flat.([]uint16), rhs.flat.([]uint16), out, lhsShape, rhsShape, outputShape)
	case []int32:
		execBinaryGeneric(intBinaryOpFn[int32](opType), lhs.flat.([]int32), rhs.flat.([]int32), out, lhsShape, rhsShape, outputShape)
	case []uint32:
		execBinaryGeneric(intBinaryOpFn[uint32](opType), lhs.flat.([]uint32), rhs.flat.([]uint32), out, lhsShape, rhsShape, outputShape)
	case []int64:
		execBinaryGeneric(intBinaryOpFn[int64](opType), lhs.flat.([]int64), rhs.flat.([]int64), out, lhsShape, rhsShape, outputShape)
	case []float32:
		execBinaryGeneric(floatBinaryOpFn[float32](opType), lhs.flat.([]float32), rhs.flat.([]float32), out, lhsShape, rhsShape, outputShape)
	case []float16.Float16:
		execBinaryFloat16(floatBinaryOpFn[float32](opType), lhs.flat.([]float16.Float16), rhs.flat.([]float16.Float16), out,
			lhsShape, rhsShape, outputShape)
	default:
		exceptions.Panicf("backend %q: %s not supported for %s", BackendName, opType, output.spec.DataType)
	}
}

func execBinaryGeneric[T PODNumericConstraints](opFn func(a, b T) T, lhs, rhs, output []T,
	lhsShape, rhsShape, outputShape backends.ShapeType) {
	if len(rhs) == 1 {
		// Case 1: One side (rhs) is a scalar: only iterate over the lhs.
		c := rhs[0]
		for ii, input := range lhs {
			output[ii] = opFn(input, c)
		}
		return
	} else if len(lhs) == 1 {
		// Case 1b: lhs is a scalar, needed for non-commutative operations like Sub and Div.
		c := lhs[0]
		for ii, input := range rhs {
			output[ii] = opFn(c, input)
		}
		return
	} else if len(lhs) == len(output) && len(rhs) == len(output) {
		// Case 2: Exact same sizes, no broadcasting.
		for ii := range output {
			output[ii] = opFn(lhs[ii], rhs[ii])
		}
		return
	}

	// Case 3: with broadcasting.
	lhsIter := newBroadcastIterator(lhsShape, outputShape)
	rhsIter := newBroadcastIterator(rhsShape, outputShape)
	for ii := range output {
		output[ii] = opFn(lhs[lhsIter.Next()], rhs[rhsIter.Next()])
	}
}

// execBinaryFloat16 executes the operation in float32, converting the results back to Float16.
func execBinaryFloat16(opFn func(a, b float32) float32, lhs, rhs, output []float16.Float16,
	lhsShape, rhsShape, outputShape backends.ShapeType) {
	lhsIter := newBroadcastIterator(lhsShape, outputShape)
	rhsIter := newBroadcastIterator(rhsShape, outputShape)
	for ii := range output {
		a, b := lhs[lhsIter.Next()].Float32(), rhs[rhsIter.Next()].Float32()
		output[ii] = float16.Fromfloat32(opFn(a, b))
	}
}
