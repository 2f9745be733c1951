package simplego

import (
	"github.com/gomlx/vxtrace/backends"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// The binary graph (NBG) generated by CompileToBinary is a message in protobuf wire format:
//
//	Graph     { 1: magic string; 2: version varint; 3: repeated Tensor; 4: repeated Operation }
//	Tensor    { 1: id; 2: data type; 3: packed shape; 4: attribute; 5: data bytes (constants and variables only) }
//	Operation { 1: type; 2: packed input ids; 3: packed output ids; 4: nested binary graph; 5: num inputs; 6: num outputs }
//
// The encoding is deterministic: the same graph always yields the same bytes.

const (
	nbgMagic   = "vxnbg"
	nbgVersion = 1
)

const (
	graphMagicField protowire.Number = iota + 1
	graphVersionField
	graphTensorField
	graphOperationField
)

const (
	tensorIDField protowire.Number = iota + 1
	tensorDataTypeField
	tensorShapeField
	tensorAttributeField
	tensorDataField
)

const (
	opTypeField protowire.Number = iota + 1
	opInputsField
	opOutputsField
	opBinaryField
	opNumInputsField
	opNumOutputsField
)

func encodeBinaryGraph(g *Graph) []byte {
	var b []byte
	b = protowire.AppendTag(b, graphMagicField, protowire.BytesType)
	b = protowire.AppendString(b, nbgMagic)
	b = appendVarintField(b, graphVersionField, nbgVersion)
	for _, t := range g.tensors {
		b = protowire.AppendTag(b, graphTensorField, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeTensor(t))
	}
	for _, op := range g.order {
		b = protowire.AppendTag(b, graphOperationField, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeOperation(op))
	}
	return b
}

func encodeTensor(t *Tensor) []byte {
	var b []byte
	b = appendVarintField(b, tensorIDField, uint64(t.id))
	b = appendVarintField(b, tensorDataTypeField, uint64(t.spec.DataType))
	shape := make([]uint64, len(t.spec.Shape))
	for i, dim := range t.spec.Shape {
		shape[i] = uint64(dim)
	}
	b = appendPackedField(b, tensorShapeField, shape)
	b = appendVarintField(b, tensorAttributeField, uint64(t.spec.Attribute))
	if t.spec.Attribute.Has(backends.AttributeConstant) || t.spec.Attribute.Has(backends.AttributeVariable) {
		b = protowire.AppendTag(b, tensorDataField, protowire.BytesType)
		b = protowire.AppendBytes(b, t.bytes())
	}
	return b
}

func encodeOperation(op *Operation) []byte {
	var b []byte
	b = appendVarintField(b, opTypeField, uint64(op.desc.Type))
	b = appendPackedField(b, opInputsField, tensorIDs(op.inputs))
	b = appendPackedField(b, opOutputsField, tensorIDs(op.outputs))
	if op.desc.Type == backends.OpTypeNBG {
		b = protowire.AppendTag(b, opBinaryField, protowire.BytesType)
		b = protowire.AppendBytes(b, op.desc.Binary)
		b = appendVarintField(b, opNumInputsField, uint64(op.desc.NumInputs))
		b = appendVarintField(b, opNumOutputsField, uint64(op.desc.NumOutputs))
	}
	return b
}

func tensorIDs(tensors []*Tensor) []uint64 {
	ids := make([]uint64, len(tensors))
	for i, t := range tensors {
		ids[i] = uint64(t.id)
	}
	return ids
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendPackedField(b []byte, num protowire.Number, values []uint64) []byte {
	var packed []byte
	for _, v := range values {
		packed = protowire.AppendVarint(packed, v)
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// field is a decoded field: value is set for varints, bytes for length-delimited fields.
type field struct {
	num   protowire.Number
	typ   protowire.Type
	value uint64
	bytes []byte
}

// parseFields decodes the top-level fields of a message, skipping fields of other wire types.
func parseFields(b []byte) ([]field, error) {
	var fields []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.value, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, errors.Wrapf(protowire.ParseError(n), "field %d", num)
		}
		b = b[n:]
		fields = append(fields, f)
	}
	return fields, nil
}

func parsePacked(b []byte) ([]uint64, error) {
	var values []uint64
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		values = append(values, v)
		b = b[n:]
	}
	return values, nil
}

// decodeBinaryGraph creates a new graph in ctx from a binary graph generated by encodeBinaryGraph.
func decodeBinaryGraph(ctx *Context, blob []byte) (*Graph, error) {
	if len(blob) == 0 {
		return nil, errors.New("empty binary graph")
	}
	fields, err := parseFields(blob)
	if err != nil {
		return nil, errors.Wrap(err, "malformed binary graph")
	}
	if len(fields) < 2 || fields[0].num != graphMagicField || string(fields[0].bytes) != nbgMagic {
		return nil, errors.New("not a binary graph: missing header")
	}
	if fields[1].num != graphVersionField || fields[1].value != nbgVersion {
		return nil, errors.Errorf("binary graph version %d not supported", fields[1].value)
	}

	g := newGraph(ctx)
	tensorsByID := make(map[uint64]*Tensor)
	for _, f := range fields[2:] {
		switch f.num {
		case graphTensorField:
			id, t, err := decodeTensor(g, f.bytes)
			if err != nil {
				return nil, err
			}
			if _, found := tensorsByID[id]; found {
				return nil, errors.Errorf("binary graph has duplicate tensor id %d", id)
			}
			tensorsByID[id] = t
		case graphOperationField:
			if err := decodeOperation(g, tensorsByID, f.bytes); err != nil {
				return nil, err
			}
		}
	}
	if len(g.ops) == 0 {
		return nil, errors.New("binary graph has no operations")
	}
	return g, nil
}

func decodeTensor(g *Graph, b []byte) (id uint64, t *Tensor, err error) {
	fields, err := parseFields(b)
	if err != nil {
		return 0, nil, errors.Wrap(err, "malformed tensor in binary graph")
	}
	var (
		spec backends.TensorSpec
		data []byte
	)
	for _, f := range fields {
		switch f.num {
		case tensorIDField:
			id = f.value
		case tensorDataTypeField:
			spec.DataType = backends.DataType(f.value)
		case tensorShapeField:
			dims, err := parsePacked(f.bytes)
			if err != nil {
				return 0, nil, errors.Wrap(err, "malformed tensor shape in binary graph")
			}
			spec.Shape = make(backends.ShapeType, len(dims))
			for i, dim := range dims {
				spec.Shape[i] = uint32(dim)
			}
		case tensorAttributeField:
			spec.Attribute = backends.TensorAttribute(f.value)
		case tensorDataField:
			data = f.bytes
		}
	}
	var flat any
	if data != nil {
		flat = data
	}
	t, err = g.addTensor(spec, flat)
	if err != nil {
		return 0, nil, errors.WithMessagef(err, "binary graph tensor id %d", id)
	}
	return id, t, nil
}

func decodeOperation(g *Graph, tensorsByID map[uint64]*Tensor, b []byte) error {
	fields, err := parseFields(b)
	if err != nil {
		return errors.Wrap(err, "malformed operation in binary graph")
	}
	var (
		desc                backends.OpDesc
		inputIDs, outputIDs []uint64
	)
	for _, f := range fields {
		switch f.num {
		case opTypeField:
			desc.Type = backends.OpType(f.value)
		case opInputsField:
			inputIDs, err = parsePacked(f.bytes)
		case opOutputsField:
			outputIDs, err = parsePacked(f.bytes)
		case opBinaryField:
			desc.Binary = f.bytes
		case opNumInputsField:
			desc.NumInputs = int(f.value)
		case opNumOutputsField:
			desc.NumOutputs = int(f.value)
		}
		if err != nil {
			return errors.Wrap(err, "malformed operation in binary graph")
		}
	}
	op, err := g.addOperation(desc)
	if err != nil {
		return err
	}
	lookup := func(ids []uint64) ([]*Tensor, error) {
		tensors := make([]*Tensor, len(ids))
		for i, id := range ids {
			t, found := tensorsByID[id]
			if !found {
				return nil, errors.Errorf("binary graph operation %s refers to unknown tensor id %d", desc.Type, id)
			}
			tensors[i] = t
		}
		return tensors, nil
	}
	if op.inputs, err = lookup(inputIDs); err != nil {
		return err
	}
	if op.outputs, err = lookup(outputIDs); err != nil {
		return err
	}
	return nil
}
