package replay

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/backends/ops"
	"github.com/gomlx/vxtrace/trace"
	"github.com/x448/float16"
)

// packageNames are the packages whose functions can be called by the statements.
var packageNames = map[string]bool{
	"backends": true,
	"ops":      true,
	"trace":    true,
	"float16":  true,
	"math":     true,
}

// function is an entry of the table of package functions.
type function struct {
	numArgs int
	call    func(in *Interpreter, args []any) any
}

// method is an entry of the table of methods. The returned error, if not nil, is recorded as a Failure.
type method struct {
	numArgs int
	call    func(in *Interpreter, recvName string, recv any, args []any) (any, error)
}

var functions = map[string]function{
	"backends.CreateContext": {0, func(in *Interpreter, _ []any) any {
		if in.newContext != nil {
			return in.newContext()
		}
		return backends.CreateContext()
	}},
	"backends.CreateContextWithConfig": {1, func(in *Interpreter, args []any) any {
		if in.newContext != nil {
			return in.newContext()
		}
		return backends.CreateContextWithConfig(argAs[string]("config", args, 0))
	}},
	"backends.NewTensorSpec": {3, func(_ *Interpreter, args []any) any {
		return backends.NewTensorSpec(
			argAs[backends.DataType]("dataType", args, 0),
			argAs[[]uint32]("shape", args, 1),
			argAs[backends.TensorAttribute]("attribute", args, 2))
	}},
	"backends.DataType": {1, func(_ *Interpreter, args []any) any {
		return backends.DataType(toInt64(args[0]))
	}},
	"backends.TensorAttribute": {1, func(_ *Interpreter, args []any) any {
		return backends.TensorAttribute(toInt64(args[0]))
	}},
	"backends.OpType": {1, func(_ *Interpreter, args []any) any {
		return backends.OpType(toInt64(args[0]))
	}},
	"ops.NBG": {3, func(_ *Interpreter, args []any) any {
		return ops.NBG(argAs[[]byte]("binary", args, 0), int(toInt64(args[1])), int(toInt64(args[2])))
	}},
	"trace.GetBytes": {3, func(_ *Interpreter, args []any) any {
		return trace.GetBytes(argAs[*trace.Replayer]("replayer", args, 0), toUint64(args[1]), int(toInt64(args[2])))
	}},
	"float16.Frombits": {1, func(_ *Interpreter, args []any) any {
		return float16.Frombits(uint16(toUint64(args[0])))
	}},
	"math.Float32frombits": {1, func(_ *Interpreter, args []any) any {
		return math.Float32frombits(uint32(toUint64(args[0])))
	}},
	"math.Float64frombits": {1, func(_ *Interpreter, args []any) any {
		return math.Float64frombits(toUint64(args[0]))
	}},
}

func init() {
	// Operations without parameters: ops.Add(), ops.Sub(), ...
	for _, opType := range backends.OpTypeValues() {
		desc, ok := ops.ByType(opType)
		if !ok {
			continue
		}
		functions["ops."+opType.String()] = function{0, func(*Interpreter, []any) any { return desc }}
	}
}

var methods = map[string]method{
	"Context.Name": {0, func(_ *Interpreter, _ string, recv any, _ []any) (any, error) {
		return recv.(backends.Context).Name(), nil
	}},
	"Context.CreateGraph": {0, func(_ *Interpreter, _ string, recv any, _ []any) (any, error) {
		return recv.(backends.Context).CreateGraph(), nil
	}},
	"Graph.CreateTensor": {2, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		spec := argAs[backends.TensorSpec]("spec", args, 0)
		var data any
		if args[1] != nil {
			data = argAs[[]byte]("data", args, 1)
		}
		return recv.(backends.Graph).CreateTensor(spec, data), nil
	}},
	"Graph.CreateOperation": {1, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		return recv.(backends.Graph).CreateOperation(argAs[backends.OpDesc]("desc", args, 0)), nil
	}},
	"Graph.Compile": {0, func(_ *Interpreter, _ string, recv any, _ []any) (any, error) {
		return nil, recv.(backends.Graph).Compile()
	}},
	"Graph.CompileToBinary": {2, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		return nil, recv.(backends.Graph).CompileToBinary(argAs[[]byte]("buf", args, 0), argAs[*uint64]("size", args, 1))
	}},
	"Graph.Run": {0, func(_ *Interpreter, _ string, recv any, _ []any) (any, error) {
		return nil, recv.(backends.Graph).Run()
	}},
	"Tensor.Spec": {0, func(_ *Interpreter, _ string, recv any, _ []any) (any, error) {
		return recv.(backends.Tensor).Spec(), nil
	}},
	"Tensor.CopyDataToTensor": {1, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		return nil, recv.(backends.Tensor).CopyDataToTensor(dataArg(args, 0))
	}},
	"Tensor.CopyDataFromTensor": {1, func(in *Interpreter, recvName string, recv any, args []any) (any, error) {
		buf := argAs[[]byte]("data", args, 0)
		if err := recv.(backends.Tensor).CopyDataFromTensor(dataArg(args, 0)); err != nil {
			return nil, err
		}
		in.outputs[recvName] = slices.Clone(buf)
		return nil, nil
	}},
	"Operation.Type": {0, func(_ *Interpreter, _ string, recv any, _ []any) (any, error) {
		return recv.(backends.Operation).Type(), nil
	}},
	"Operation.BindInput": {1, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		return recv.(backends.Operation).BindInput(argAs[backends.Tensor]("tensor", args, 0)), nil
	}},
	"Operation.BindOutput": {1, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		return recv.(backends.Operation).BindOutput(argAs[backends.Tensor]("tensor", args, 0)), nil
	}},
	"Operation.BindInputs": {1, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		return recv.(backends.Operation).BindInputs(argAs[[]backends.Tensor]("tensors", args, 0)), nil
	}},
	"Operation.BindOutputs": {1, func(_ *Interpreter, _ string, recv any, args []any) (any, error) {
		return recv.(backends.Operation).BindOutputs(argAs[[]backends.Tensor]("tensors", args, 0)), nil
	}},
}

// receiverKind returns the name of the backends interface implemented by a variable, used as the prefix of the
// methods table keys.
func receiverKind(recv any) string {
	switch recv.(type) {
	case backends.Context:
		return "Context"
	case backends.Graph:
		return "Graph"
	case backends.Tensor:
		return "Tensor"
	case backends.Operation:
		return "Operation"
	}
	return fmt.Sprintf("%T", recv)
}

func functionNames() []string {
	return slices.Sorted(maps.Keys(functions))
}

// methodNames returns the keys of the methods of the given receiver kind.
func methodNames(kind string) []string {
	var names []string
	for key := range methods {
		if strings.HasPrefix(key, kind+".") {
			names = append(names, key)
		}
	}
	slices.Sort(names)
	return names
}

// suggestion returns a " (did you mean ...?)" text with the closest candidate to name, or "" if none is close.
func suggestion(name string, candidates []string) string {
	best, bestDistance := "", len(name)/2+1
	for _, candidate := range candidates {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

// argAs returns the i-th argument as a T. A nil argument returns the zero value of T.
func argAs[T any](name string, args []any, i int) T {
	var zero T
	if args[i] == nil {
		return zero
	}
	value, ok := args[i].(T)
	if !ok {
		exceptions.Panicf("argument %q is a %T, expected a %T", name, args[i], zero)
	}
	return value
}

// dataArg returns the i-th argument as a flat data buffer: either nil or a []byte.
func dataArg(args []any, i int) any {
	if args[i] == nil {
		return nil
	}
	return argAs[[]byte]("data", args, i)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint32:
		return int64(n)
	}
	exceptions.Panicf("expected an integer, got a %T", v)
	return 0
}

func toUint64(v any) uint64 {
	if n, ok := v.(uint64); ok {
		return n
	}
	n := toInt64(v)
	if n < 0 {
		exceptions.Panicf("expected an unsigned integer, got %d", n)
	}
	return uint64(n)
}

func toFloat64(v any) float64 {
	switch f := v.(type) {
	case float64:
		return f
	case float32:
		return float64(f)
	}
	return float64(toInt64(v))
}

// convert implements the conversions to builtin numeric types, e.g. uint64(12).
func convert(typeName string, v any) any {
	switch typeName {
	case "uint64":
		return toUint64(v)
	case "int64":
		return toInt64(v)
	case "int":
		return int(toInt64(v))
	case "int32":
		return int32(toInt64(v))
	case "uint32":
		return uint32(toUint64(v))
	case "int16":
		return int16(toInt64(v))
	case "uint16":
		return uint16(toUint64(v))
	case "int8":
		return int8(toInt64(v))
	case "uint8":
		return uint8(toUint64(v))
	case "float32":
		return float32(toFloat64(v))
	case "float64":
		return toFloat64(v)
	}
	exceptions.Panicf("unknown function or conversion %q", typeName)
	return nil
}

// getVector implements trace.GetVector[T] for the element types that can be logged.
func getVector(typeName string, args []any) any {
	r := argAs[*trace.Replayer]("replayer", args, 0)
	offset, count := toUint64(args[1]), int(toInt64(args[2]))
	switch typeName {
	case "int8":
		return trace.GetVector[int8](r, offset, count)
	case "uint8":
		return trace.GetVector[uint8](r, offset, count)
	case "int16":
		return trace.GetVector[int16](r, offset, count)
	case "uint16":
		return trace.GetVector[uint16](r, offset, count)
	case "int32":
		return trace.GetVector[int32](r, offset, count)
	case "uint32":
		return trace.GetVector[uint32](r, offset, count)
	case "int64":
		return trace.GetVector[int64](r, offset, count)
	case "uint64":
		return trace.GetVector[uint64](r, offset, count)
	case "int":
		return trace.GetVector[int](r, offset, count)
	case "uint":
		return trace.GetVector[uint](r, offset, count)
	case "float32":
		return trace.GetVector[float32](r, offset, count)
	case "float64":
		return trace.GetVector[float64](r, offset, count)
	case "float16.Float16":
		return trace.GetVector[float16.Float16](r, offset, count)
	}
	exceptions.Panicf("trace.GetVector of unsupported element type %q", typeName)
	return nil
}
