package backends

import (
	"fmt"
	"strings"
)

// DataType is an enum of the element types of a tensor.
//
// The values are part of the trace format (they are logged as numbers), so they must not be reordered.
type DataType int32

const (
	Unknown DataType = iota
	Int4
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float16
	Float32
	Int64
	Bool8
	Uint4
)

// Size returns the number of bytes per element, or 0 for Unknown and for sub-byte types (Int4, Uint4).
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8, Bool8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64:
		return 8
	}
	return 0
}

// EnumTypeName returns the qualified Go name of the type, as used in generated replay statements.
func (dt DataType) EnumTypeName() string { return "backends.DataType" }

// EnumValue returns the numeric value of the enum.
func (dt DataType) EnumValue() int64 { return int64(dt) }

// TensorAttribute describes the role of a tensor in a graph. Values are bit flags.
type TensorAttribute int32

const (
	AttributeConstant  TensorAttribute = 1 << 0
	AttributeTransient TensorAttribute = 1 << 1
	AttributeVariable  TensorAttribute = 1 << 2
	AttributeInput     TensorAttribute = 1 << 3
	AttributeOutput    TensorAttribute = 1 << 4
)

// EnumTypeName returns the qualified Go name of the type, as used in generated replay statements.
func (attr TensorAttribute) EnumTypeName() string { return "backends.TensorAttribute" }

// EnumValue returns the numeric value of the enum.
func (attr TensorAttribute) EnumValue() int64 { return int64(attr) }

// Has returns whether all the bits of flag are set in attr.
func (attr TensorAttribute) Has(flag TensorAttribute) bool {
	return attr&flag == flag
}

// ShapeType holds the dimensions of a tensor.
type ShapeType = []uint32

// TensorSpec describes a tensor: its element type, shape and attribute.
type TensorSpec struct {
	DataType  DataType
	Shape     ShapeType
	Attribute TensorAttribute
}

// NewTensorSpec creates a TensorSpec. The shape is copied.
func NewTensorSpec(dataType DataType, shape ShapeType, attribute TensorAttribute) TensorSpec {
	return TensorSpec{
		DataType:  dataType,
		Shape:     append(ShapeType(nil), shape...),
		Attribute: attribute,
	}
}

// NumElements returns the number of elements of the tensor, 1 for a scalar.
func (s TensorSpec) NumElements() int {
	n := 1
	for _, dim := range s.Shape {
		n *= int(dim)
	}
	return n
}

// ByteSize returns the number of bytes needed to store the tensor.
func (s TensorSpec) ByteSize() int {
	return s.NumElements() * s.DataType.Size()
}

// Equal returns whether both specs have the same data type and shape. The attribute is not compared.
func (s TensorSpec) Equal(other TensorSpec) bool {
	if s.DataType != other.DataType || len(s.Shape) != len(other.Shape) {
		return false
	}
	for i, dim := range s.Shape {
		if other.Shape[i] != dim {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (s TensorSpec) String() string {
	dims := make([]string, len(s.Shape))
	for i, dim := range s.Shape {
		dims[i] = fmt.Sprintf("%d", dim)
	}
	return fmt.Sprintf("(%s)[%s]", s.DataType, strings.Join(dims, " "))
}
