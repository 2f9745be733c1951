package backends

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Tensor represents a tensor in a Graph, used as input or output of operations.
type Tensor interface {
	// Spec returns the specification of the tensor.
	Spec() TensorSpec

	// CopyDataToTensor copies data into the tensor.
	// The data must be a flat slice of the tensor data type, or a []byte, holding at least Spec().ByteSize() bytes.
	CopyDataToTensor(data any) error

	// CopyDataFromTensor copies the tensor contents into data.
	// The data must be a flat slice of the tensor data type, or a []byte, with room for Spec().ByteSize() bytes.
	CopyDataFromTensor(data any) error
}

// FlatBytes returns the slice of the bytes used by the flat slice given, without copying.
// It works with []byte and with the slices of the Go types that back the supported data types.
//
// The bytes are in the native byte order of the platform.
func FlatBytes(flat any) ([]byte, error) {
	switch v := flat.(type) {
	case []byte:
		return v, nil
	case []int8:
		return rawBytes(v), nil
	case []int16:
		return rawBytes(v), nil
	case []uint16:
		return rawBytes(v), nil
	case []int32:
		return rawBytes(v), nil
	case []uint32:
		return rawBytes(v), nil
	case []int64:
		return rawBytes(v), nil
	case []uint64:
		return rawBytes(v), nil
	case []float32:
		return rawBytes(v), nil
	case []float64:
		return rawBytes(v), nil
	case []float16.Float16:
		return rawBytes(v), nil
	case []bool:
		return rawBytes(v), nil
	case nil:
		return nil, nil
	}
	return nil, errors.Errorf("unsupported flat data type %T", flat)
}

func rawBytes[T any](flat []T) []byte {
	if len(flat) == 0 {
		return []byte{}
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&flat[0])), len(flat)*int(unsafe.Sizeof(zero)))
}
