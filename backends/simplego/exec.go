package simplego

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/vxtrace/backends"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Compile implements backends.Graph.
//
// It validates every operation and sorts them in the order of execution.
// It is a no-op if the graph was already compiled and has not changed since.
func (g *Graph) Compile() error {
	if g.compiled {
		return nil
	}
	for _, op := range g.ops {
		if err := op.validate(); err != nil {
			return errors.WithMessagef(err, "backend %q: Compile()", BackendName)
		}
	}
	order, err := g.topologicalOrder()
	if err != nil {
		return errors.WithMessagef(err, "backend %q: Compile()", BackendName)
	}
	g.order = order
	g.compiled = true
	klog.V(2).Infof("simplego: compiled %s", g)
	return nil
}

func (op *Operation) validate() error {
	if op.desc.Type == backends.OpTypeNBG {
		return op.validateNBG()
	}
	if len(op.inputs) != 2 || len(op.outputs) != 1 {
		return errors.Errorf("%s requires 2 inputs and 1 output, got %d inputs and %d outputs",
			op.desc.Type, len(op.inputs), len(op.outputs))
	}
	output := op.outputs[0].spec
	if output.DataType == backends.Bool8 {
		return errors.Errorf("%s not supported for %s", op.desc.Type, output.DataType)
	}
	for i, input := range op.inputs {
		if input.spec.DataType != output.DataType {
			return errors.Errorf("%s: input #%d has data type %s, but output has data type %s",
				op.desc.Type, i, input.spec.DataType, output.DataType)
		}
		if !isBroadcastable(input.spec.Shape, output.Shape) {
			return errors.Errorf("%s: input #%d shape %v can not be broadcast to output shape %v",
				op.desc.Type, i, input.spec.Shape, output.Shape)
		}
	}
	return nil
}

func (op *Operation) validateNBG() error {
	inputs, outputs := op.imported.inputs(), op.imported.outputs()
	if op.desc.NumInputs != len(inputs) || op.desc.NumOutputs != len(outputs) {
		return errors.Errorf("NBG declared with %d inputs and %d outputs, but the binary graph has %d inputs and %d outputs",
			op.desc.NumInputs, op.desc.NumOutputs, len(inputs), len(outputs))
	}
	if len(op.inputs) != len(inputs) || len(op.outputs) != len(outputs) {
		return errors.Errorf("NBG requires %d inputs and %d outputs, got %d inputs and %d outputs bound",
			len(inputs), len(outputs), len(op.inputs), len(op.outputs))
	}
	for i, t := range op.inputs {
		if !t.spec.Equal(inputs[i].spec) {
			return errors.Errorf("NBG: input #%d is %s, but the binary graph expects %s", i, t.spec, inputs[i].spec)
		}
	}
	for i, t := range op.outputs {
		if !t.spec.Equal(outputs[i].spec) {
			return errors.Errorf("NBG: output #%d is %s, but the binary graph yields %s", i, t.spec, outputs[i].spec)
		}
	}
	return op.imported.Compile()
}

// topologicalOrder returns the operations sorted such that every operation comes after the producers of its inputs.
// Independent operations keep their order of creation.
func (g *Graph) topologicalOrder() ([]*Operation, error) {
	producers := make(map[*Tensor]*Operation)
	for _, op := range g.ops {
		for _, t := range op.outputs {
			if other, found := producers[t]; found {
				return nil, errors.Errorf("%s is the output of both %s and %s", t, other, op)
			}
			producers[t] = op
		}
	}

	order := make([]*Operation, 0, len(g.ops))
	done := make(map[*Operation]bool, len(g.ops))
	for len(order) < len(g.ops) {
		progress := false
		for _, op := range g.ops {
			if done[op] {
				continue
			}
			ready := true
			for _, t := range op.inputs {
				if producer, found := producers[t]; found && !done[producer] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, op)
				done[op] = true
				progress = true
			}
		}
		if !progress {
			return nil, errors.Errorf("graph has a cycle: %d of %d operations can not be scheduled",
				len(g.ops)-len(order), len(g.ops))
		}
	}
	return order, nil
}

// Run implements backends.Graph.
func (g *Graph) Run() error {
	if err := g.Compile(); err != nil {
		return err
	}
	err := exceptions.TryCatch[error](func() {
		for _, op := range g.order {
			op.execute()
		}
	})
	if err != nil {
		return errors.WithMessagef(err, "backend %q: Run()", BackendName)
	}
	return nil
}

func (op *Operation) execute() {
	if op.desc.Type != backends.OpTypeNBG {
		execBinary(op.desc.Type, op.inputs[0], op.inputs[1], op.outputs[0])
		return
	}
	for i, t := range op.imported.inputs() {
		copy(t.bytes(), op.inputs[i].bytes())
	}
	if err := op.imported.Run(); err != nil {
		panic(err)
	}
	for i, t := range op.imported.outputs() {
		copy(op.outputs[i].bytes(), t.bytes())
	}
}

// CompileToBinary implements backends.Graph.
func (g *Graph) CompileToBinary(buf []byte, size *uint64) error {
	if size == nil {
		return errors.Errorf("backend %q: CompileToBinary() requires a non-nil size", BackendName)
	}
	if len(g.ops) == 0 {
		return errors.Errorf("backend %q: can not generate binary graph if it is empty", BackendName)
	}
	if err := g.Compile(); err != nil {
		return err
	}
	blob := encodeBinaryGraph(g)
	if buf == nil {
		*size = uint64(len(blob))
		return nil
	}
	if len(buf) < len(blob) {
		return errors.Errorf("backend %q: CompileToBinary() buffer has %d bytes, but the binary graph requires %d bytes",
			BackendName, len(buf), len(blob))
	}
	copy(buf, blob)
	*size = uint64(len(blob))
	return nil
}
