package simplego

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/vxtrace/backends"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Tensor for SimpleGo backend holds a spec and its flat data.
type Tensor struct {
	graph *Graph
	id    int
	spec  backends.TensorSpec

	// flat is always a slice of the Go type backing spec.DataType, see newFlat.
	flat any
}

// Compile-time check:
var _ backends.Tensor = (*Tensor)(nil)

// newFlat allocates the flat storage for the given data type.
func newFlat(dtype backends.DataType, length int) any {
	switch dtype {
	case backends.Int8:
		return make([]int8, length)
	case backends.Uint8, backends.Bool8:
		return make([]uint8, length)
	case backends.Int16:
		return make([]int16, length)
	case backends.Uint16:
		return make([]uint16, length)
	case backends.Int32:
		return make([]int32, length)
	case backends.Uint32:
		return make([]uint32, length)
	case backends.Int64:
		return make([]int64, length)
	case backends.Float16:
		return make([]float16.Float16, length)
	case backends.Float32:
		return make([]float32, length)
	}
	exceptions.Panicf("backend %q: data type %s not supported", BackendName, dtype)
	return nil
}

func (t *Tensor) bytes() []byte {
	b, err := backends.FlatBytes(t.flat)
	if err != nil {
		panic(err) // Storage is always allocated by newFlat.
	}
	return b
}

// Spec implements backends.Tensor.
func (t *Tensor) Spec() backends.TensorSpec {
	return backends.NewTensorSpec(t.spec.DataType, t.spec.Shape, t.spec.Attribute)
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("tensor#%d%s", t.id, t.spec)
}

// CopyDataToTensor implements backends.Tensor.
func (t *Tensor) CopyDataToTensor(data any) error {
	src, err := backends.FlatBytes(data)
	if err != nil {
		return errors.WithMessagef(err, "CopyDataToTensor(%s)", t)
	}
	dst := t.bytes()
	if len(src) < len(dst) {
		return errors.Errorf("CopyDataToTensor(%s): data has %d bytes, but tensor requires %d bytes",
			t, len(src), len(dst))
	}
	copy(dst, src)
	return nil
}

// CopyDataFromTensor implements backends.Tensor.
func (t *Tensor) CopyDataFromTensor(data any) error {
	dst, err := backends.FlatBytes(data)
	if err != nil {
		return errors.WithMessagef(err, "CopyDataFromTensor(%s)", t)
	}
	src := t.bytes()
	if len(dst) < len(src) {
		return errors.Errorf("CopyDataFromTensor(%s): data has room for %d bytes, but tensor holds %d bytes",
			t, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

// checkTensor converts a backends.Tensor to a *Tensor of the graph g, or panics.
func (g *Graph) checkTensor(method string, tensor backends.Tensor) *Tensor {
	if tensor == nil {
		exceptions.Panicf("backend %q: %s: nil tensor", BackendName, method)
	}
	t, ok := tensor.(*Tensor)
	if !ok {
		exceptions.Panicf("backend %q: %s: tensor of type %T is not from the SimpleGo backend", BackendName, method, tensor)
	}
	if t.graph != g {
		exceptions.Panicf("backend %q: %s: %s belongs to a different graph", BackendName, method, t)
	}
	return t
}
