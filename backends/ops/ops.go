// Package ops holds the constructors of the operation descriptors accepted by backends.Graph.CreateOperation.
//
// Example:
//
//	add := graph.CreateOperation(ops.Add())
//	add.BindInputs([]backends.Tensor{x, y}).BindOutputs([]backends.Tensor{sum})
package ops

import (
	"github.com/gomlx/vxtrace/backends"
)

// Add returns the descriptor of an elementwise addition: 2 inputs, 1 output.
func Add() backends.OpDesc { return backends.OpDesc{Type: backends.OpTypeAdd} }

// Sub returns the descriptor of an elementwise subtraction: 2 inputs, 1 output.
func Sub() backends.OpDesc { return backends.OpDesc{Type: backends.OpTypeSub} }

// Multiply returns the descriptor of an elementwise multiplication: 2 inputs, 1 output.
func Multiply() backends.OpDesc { return backends.OpDesc{Type: backends.OpTypeMultiply} }

// Div returns the descriptor of an elementwise division: 2 inputs, 1 output.
// Integer division by zero yields 0.
func Div() backends.OpDesc { return backends.OpDesc{Type: backends.OpTypeDiv} }

// Maximum returns the descriptor of an elementwise maximum: 2 inputs, 1 output.
func Maximum() backends.OpDesc { return backends.OpDesc{Type: backends.OpTypeMaximum} }

// Minimum returns the descriptor of an elementwise minimum: 2 inputs, 1 output.
func Minimum() backends.OpDesc { return backends.OpDesc{Type: backends.OpTypeMinimum} }

// NBG returns the descriptor of an operation that imports a binary graph, as generated by
// backends.Graph.CompileToBinary, with the given number of inputs and outputs.
//
// The binary is not copied: it must not be changed until the operation is created.
func NBG(binary []byte, numInputs, numOutputs int) backends.OpDesc {
	return backends.OpDesc{
		Type:       backends.OpTypeNBG,
		Binary:     binary,
		NumInputs:  numInputs,
		NumOutputs: numOutputs,
	}
}

// ByType returns the descriptor of a parameterless operation type, or false for OpTypeNBG and invalid types.
func ByType(opType backends.OpType) (backends.OpDesc, bool) {
	if !opType.IsElementwise() {
		return backends.OpDesc{}, false
	}
	return backends.OpDesc{Type: opType}, true
}
