package trace

import (
	"io"
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Number is the constraint of the element types that can be logged as numeric values or vectors.
type Number interface {
	constraints.Integer | constraints.Float | float16.Float16
}

// Replayer reads blocks back from a binary log, it is the read side of BinaryLog.
type Replayer struct {
	r      io.ReaderAt
	closer io.Closer
}

// NewReplayer creates a Replayer reading from r. A nil r is accepted: every read is then reported as an error.
func NewReplayer(r io.ReaderAt) *Replayer {
	return &Replayer{r: r}
}

// OpenReplayer opens the binary log of the trace session given by cfg.
func OpenReplayer(cfg Config) (*Replayer, error) {
	f, err := os.Open(cfg.BinPath())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open binary log")
	}
	return &Replayer{r: f, closer: f}, nil
}

// ReadBytes reads n bytes starting at offset.
func (r *Replayer) ReadBytes(offset, n uint64) ([]byte, error) {
	if r == nil || r.r == nil {
		return nil, errors.New("binary log not open")
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	read, err := r.r.ReadAt(buf, int64(offset))
	if uint64(read) < n {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrapf(err, "short read from binary log at offset %d: read %d of %d bytes", offset, read, n)
	}
	return buf, nil
}

// Close the underlying file, if the Replayer was created with OpenReplayer.
func (r *Replayer) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// GetVector reads count elements of type T starting at offset of the binary log.
//
// It is the function called by the replayed statements to rehydrate logged vectors, hence it doesn't return an
// error: failures are logged and an empty slice is returned.
func GetVector[T Number](r *Replayer, offset uint64, count int) []T {
	var zero T
	elementSize := int(unsafe.Sizeof(zero))
	if count < 0 {
		klog.Errorf("vxtrace: GetVector[%s](offset=%d, count=%d): negative count", ElementTypeName[T](), offset, count)
		return []T{}
	}
	data, err := r.ReadBytes(offset, uint64(elementSize*count))
	if err != nil {
		klog.Errorf("vxtrace: GetVector[%s](offset=%d, count=%d): %+v", ElementTypeName[T](), offset, count, err)
		return []T{}
	}
	values := make([]T, count)
	copy(sliceBytes(values), data)
	return values
}

// GetBytes reads count bytes starting at offset of the binary log. See GetVector.
func GetBytes(r *Replayer, offset uint64, count int) []byte {
	if count < 0 {
		klog.Errorf("vxtrace: GetBytes(offset=%d, count=%d): negative count", offset, count)
		return []byte{}
	}
	data, err := r.ReadBytes(offset, uint64(count))
	if err != nil {
		klog.Errorf("vxtrace: GetBytes(offset=%d, count=%d): %+v", offset, count, err)
		return []byte{}
	}
	return data
}

// sliceBytes returns the bytes backing values, in native byte order, without copying.
func sliceBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*int(unsafe.Sizeof(zero)))
}

// ElementTypeName returns the Go name of T, as used in the emitted statements.
func ElementTypeName[T Number]() string {
	var zero T
	switch any(zero).(type) {
	case int:
		return "int"
	case int8:
		return "int8"
	case int16:
		return "int16"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case uint:
		return "uint"
	case uint8:
		return "uint8"
	case uint16:
		return "uint16"
	case uint32:
		return "uint32"
	case uint64:
		return "uint64"
	case uintptr:
		return "uintptr"
	case float32:
		return "float32"
	case float64:
		return "float64"
	case float16.Float16:
		return "float16.Float16"
	}
	// Named types (e.g. "type MyInt int32") can't be expressed in the log.
	return "unimplemented_arg_logging"
}
