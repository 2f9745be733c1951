package trace

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// Strategy used to log an argument of a traced call.
//
// The values are listed in order of precedence: when an argument qualifies for more than one, the first applies.
type Strategy int

//go:generate go tool enumer -type=Strategy -trimprefix=Strategy -output=gen_strategy_enumer.go args.go

const (
	// StrategyObjectSlice logs a slice of traced objects as a slice literal of their names.
	StrategyObjectSlice Strategy = iota

	// StrategyObjectRef logs a traced object passed by reference (a pointer wrapper) by its name.
	StrategyObjectRef

	// StrategyObject logs a traced object passed by value by its name.
	StrategyObject

	// StrategyEnum logs an enum as a conversion of its numeric value, e.g. "backends.DataType(9)".
	StrategyEnum

	// StrategyVector writes a numeric slice to the binary log, and logs the expression that reads it back.
	StrategyVector

	// StrategyNumeric logs a number literal.
	StrategyNumeric

	// StrategyOpaque logs the placeholder OpaqueText for values that can't be represented.
	StrategyOpaque

	// StrategySpecial arguments are logged by a function with access to the CallContext, or by the call Hook.
	StrategySpecial
)

// OpaqueText is logged in place of arguments that can't be represented.
// Replaying a statement that contains it fails.
const OpaqueText = "unimplemented_arg_logging"

// NilText is logged for nil buffers and references.
const NilText = "nil"

// Arg is one argument of a traced call.
type Arg interface {
	// Strategy used to log the argument.
	Strategy() Strategy

	// Encode returns the text of the argument in the statement. It may write to the binary log and, for
	// StrategySpecial arguments, insert auxiliary statements before the call.
	Encode(c *CallContext) string

	// Value returns the value to forward to the backend, with traced objects replaced by their underlying values.
	Value() any
}

// Identifiable is implemented by all traced objects: the identity is the key of the object in the Registry.
type Identifiable interface {
	TraceIdentity() any
}

// Object is a traced object passed by reference, usually a pointer to a wrapper.
type Object interface {
	Identifiable

	// UnderlyingObject returns the backend object to forward in place of the wrapper.
	UnderlyingObject() any
}

// ValueObject is a traced object passed by value: the backend receives a copy of its underlying value.
type ValueObject interface {
	Identifiable

	// UnderlyingValue returns a copy of the backend value to forward in place of the wrapper.
	UnderlyingValue() any
}

// TypeNamer can be optionally implemented by an Object to give the Go type name of its underlying object,
// used as the element type of slice literals.
type TypeNamer interface {
	UnderlyingTypeName() string
}

// Enum is implemented by enum types that can be logged with StrategyEnum.
type Enum interface {
	// EnumTypeName returns the package qualified name of the type, e.g. "backends.DataType".
	EnumTypeName() string
	EnumValue() int64
}

type numericArg[T Number] struct{ v T }

// Numeric returns an argument logged as a number literal.
func Numeric[T Number](v T) Arg { return numericArg[T]{v} }

func (a numericArg[T]) Strategy() Strategy { return StrategyNumeric }
func (a numericArg[T]) Value() any         { return a.v }

func (a numericArg[T]) Encode(*CallContext) string {
	return formatNumber(a.v)
}

// formatNumber returns the Go literal (or expression) of the number.
// Non-finite floats have no literal: they are logged by their bits.
func formatNumber(v any) string {
	switch n := v.(type) {
	case float32:
		if f := float64(n); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Sprintf("math.Float32frombits(0x%08x)", math.Float32bits(n))
		}
		return strconv.FormatFloat(float64(n), 'g', -1, 32)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Sprintf("math.Float64frombits(0x%016x)", math.Float64bits(n))
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	case float16.Float16:
		return fmt.Sprintf("float16.Frombits(0x%04x)", n.Bits())
	}
	return fmt.Sprintf("%d", v)
}

type enumArg struct{ e Enum }

// EnumArg returns an argument logged as "<EnumTypeName>(<value>)".
func EnumArg(e Enum) Arg { return enumArg{e} }

func (a enumArg) Strategy() Strategy { return StrategyEnum }
func (a enumArg) Value() any         { return a.e }

func (a enumArg) Encode(*CallContext) string {
	return fmt.Sprintf("%s(%d)", a.e.EnumTypeName(), a.e.EnumValue())
}

type vectorArg[T Number] struct{ v []T }

// Vector returns an argument whose contents are written to the binary log, and logged as a GetVector call.
func Vector[T Number](v []T) Arg { return vectorArg[T]{v} }

func (a vectorArg[T]) Strategy() Strategy { return StrategyVector }
func (a vectorArg[T]) Value() any         { return a.v }

func (a vectorArg[T]) Encode(c *CallContext) string {
	offset := c.Dump(sliceBytes(a.v))
	return fmt.Sprintf("trace.GetVector[%s](replayer, %d, %d)", ElementTypeName[T](), offset, len(a.v))
}

type objectRefArg struct{ o Object }

// Ref returns an argument referencing a traced object by its name.
func Ref(o Object) Arg { return objectRefArg{o} }

func (a objectRefArg) Strategy() Strategy { return StrategyObjectRef }

func (a objectRefArg) Value() any {
	if a.o == nil {
		return nil
	}
	return a.o.UnderlyingObject()
}

func (a objectRefArg) Encode(c *CallContext) string {
	if a.o == nil {
		return NilText
	}
	return c.NameOf(a.o)
}

type objectArg struct{ o ValueObject }

// ObjectValue returns an argument referencing a traced object passed by value by its name.
func ObjectValue(o ValueObject) Arg { return objectArg{o} }

func (a objectArg) Strategy() Strategy { return StrategyObject }
func (a objectArg) Value() any         { return a.o.UnderlyingValue() }

func (a objectArg) Encode(c *CallContext) string {
	return c.NameOf(a.o)
}

type objectSliceArg struct {
	elementType string
	objects     []Object
}

// ObjectSlice returns an argument logged as a slice literal of the names of the objects, with the given element
// type, e.g. "[]backends.Tensor{tensor_0, tensor_1}". Its value is a []any with the underlying objects,
// see AsSlice.
func ObjectSlice[T Object](elementType string, objects []T) Arg {
	a := objectSliceArg{elementType: elementType, objects: make([]Object, len(objects))}
	for i, o := range objects {
		a.objects[i] = o
	}
	return a
}

func (a objectSliceArg) Strategy() Strategy { return StrategyObjectSlice }

func (a objectSliceArg) Value() any {
	values := make([]any, len(a.objects))
	for i, o := range a.objects {
		if o != nil {
			values[i] = o.UnderlyingObject()
		}
	}
	return values
}

func (a objectSliceArg) Encode(c *CallContext) string {
	names := make([]string, len(a.objects))
	for i, o := range a.objects {
		if o == nil {
			names[i] = NilText
		} else {
			names[i] = c.NameOf(o)
		}
	}
	return fmt.Sprintf("[]%s{%s}", a.elementType, strings.Join(names, ", "))
}

type opaqueArg struct{ v any }

// Opaque returns an argument that is forwarded as is, but logged as OpaqueText.
func Opaque(v any) Arg { return opaqueArg{v} }

func (a opaqueArg) Strategy() Strategy         { return StrategyOpaque }
func (a opaqueArg) Value() any                 { return a.v }
func (a opaqueArg) Encode(*CallContext) string { return OpaqueText }

type specialArg struct {
	v      any
	encode func(c *CallContext) string
}

// Special returns an argument forwarded as v, and logged by encode. If encode is nil, the argument is logged as
// OpaqueText, unless the call Hook sets it with CallContext.SetArg.
//
// Calls with special arguments are assembled in the StatementCache, so encode can insert auxiliary statements
// before the call, see CallContext.Hoist.
func Special(v any, encode func(c *CallContext) string) Arg {
	return specialArg{v: v, encode: encode}
}

func (a specialArg) Strategy() Strategy { return StrategySpecial }
func (a specialArg) Value() any         { return a.v }

func (a specialArg) Encode(c *CallContext) string {
	if a.encode == nil {
		return OpaqueText
	}
	return a.encode(c)
}

// Classify returns the Arg for a value whose type is only known at run time, checking the strategies in their
// order of precedence. Values of unknown types are classified as StrategyOpaque.
//
// Prefer the typed constructors (Ref, Vector, Numeric, ...) when the type is known at the call site.
func Classify(v any) Arg {
	if objects, ok := objectSlice(v); ok {
		return ObjectSlice(sliceElementType(objects), objects)
	}
	switch x := v.(type) {
	case Object:
		return Ref(x)
	case ValueObject:
		return ObjectValue(x)
	case Enum:
		return EnumArg(x)
	case []int8:
		return Vector(x)
	case []int16:
		return Vector(x)
	case []int32:
		return Vector(x)
	case []int64:
		return Vector(x)
	case []int:
		return Vector(x)
	case []uint8:
		return Vector(x)
	case []uint16:
		return Vector(x)
	case []uint32:
		return Vector(x)
	case []uint64:
		return Vector(x)
	case []uint:
		return Vector(x)
	case []float32:
		return Vector(x)
	case []float64:
		return Vector(x)
	case []float16.Float16:
		return Vector(x)
	case int8:
		return Numeric(x)
	case int16:
		return Numeric(x)
	case int32:
		return Numeric(x)
	case int64:
		return Numeric(x)
	case int:
		return Numeric(x)
	case uint8:
		return Numeric(x)
	case uint16:
		return Numeric(x)
	case uint32:
		return Numeric(x)
	case uint64:
		return Numeric(x)
	case uint:
		return Numeric(x)
	case float32:
		return Numeric(x)
	case float64:
		return Numeric(x)
	case float16.Float16:
		return Numeric(x)
	}
	return Opaque(v)
}

var objectType = reflect.TypeFor[Object]()

// objectSlice converts a slice of a concrete traced type (e.g. []*traced.Tensor) to []Object.
func objectSlice(v any) ([]Object, bool) {
	if objects, ok := v.([]Object); ok {
		return objects, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || !rv.Type().Elem().Implements(objectType) {
		return nil, false
	}
	objects := make([]Object, rv.Len())
	for i := range objects {
		e := rv.Index(i)
		if (e.Kind() == reflect.Pointer || e.Kind() == reflect.Interface) && e.IsNil() {
			continue
		}
		objects[i], _ = e.Interface().(Object)
	}
	return objects, true
}

// sliceElementType returns the underlying type name of the first object that implements TypeNamer, or "any".
func sliceElementType(objects []Object) string {
	for _, o := range objects {
		if namer, ok := o.(TypeNamer); ok {
			return namer.UnderlyingTypeName()
		}
	}
	return "any"
}

// ClassifyAll classifies each of the values.
func ClassifyAll(values ...any) []Arg {
	args := make([]Arg, len(values))
	for i, v := range values {
		args[i] = Classify(v)
	}
	return args
}
