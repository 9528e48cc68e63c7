package ipc

import (
	"encoding/binary"
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/compress"
	"github.com/solandra/arrowlite/errs"
)

// encodeContext accumulates one RecordBatch message's field nodes, buffer
// regions and variadic buffer counts while appending every buffer's bytes
// to body, mirroring loadContext in reverse. Like loadContext it is single
// use: never reuse one across RecordBatch messages.
type encodeContext struct {
	compression arrowtype.CompressionCodec

	nodes    []FieldNode
	buffers  []BufferRegion
	variadic []int64
	body     []byte
}

// appendBuffer records a buffer region for raw, compressing it first (per
// region, not per message body) when the context has a compression codec
// configured, then pads body out to 8-byte alignment.
func (c *encodeContext) appendBuffer(raw []byte) error {
	if len(raw) == 0 {
		c.buffers = append(c.buffers, BufferRegion{Offset: int64(len(c.body)), Length: 0})
		return nil
	}

	out := raw
	if c.compression != arrowtype.CompressionNone {
		framed, err := compress.FrameCompress(c.compression, raw)
		if err != nil {
			return err
		}
		out = framed
	}

	offset := int64(len(c.body))
	c.body = append(c.body, out...)
	if pad := (8 - len(out)%8) % 8; pad > 0 {
		c.body = append(c.body, make([]byte, pad)...)
	}
	c.buffers = append(c.buffers, BufferRegion{Offset: offset, Length: int64(len(out))})
	return nil
}

func int32sToBytes(vals []int32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], uint32(v))
	}
	return out
}

func int64sToBytes(vals []int64) []byte {
	out := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], uint64(v))
	}
	return out
}

func offsetsBytes(t arrowtype.Type, b *arrowbatch.Batch) []byte {
	if isWideOffsetType(t.ID()) {
		return int64sToBytes(b.Offsets64)
	}
	return int32sToBytes(b.Offsets32)
}

// encodeCommon writes one field node plus the buffers t's layout declares,
// the encode-side mirror of loadCommon. Callers handle Null and Union
// separately, same as the decode side.
func (c *encodeContext) encodeCommon(t arrowtype.Type, b *arrowbatch.Batch) error {
	if b.RowOffset != 0 {
		return errs.Unsupported(fmt.Errorf("%w: type %v", errs.ErrSlicedBatchUnsupported, t.ID()))
	}

	c.nodes = append(c.nodes, FieldNode{Length: int64(b.Length), NullCount: int64(b.NullCount)})

	layout, ok := arrowtype.LayoutFor(t.ID())
	if !ok {
		return errs.Unsupported(fmt.Errorf("%w: %v", errs.ErrUnsupportedTypeID, t.ID()))
	}

	for _, kind := range layout.Buffers {
		if kind == arrowtype.BufferData {
			continue // handled below via the variadic-count cursor
		}
		var raw []byte
		switch kind {
		case arrowtype.BufferValidity:
			if b.NullCount != 0 {
				raw = b.Validity.Bytes()
			}
		case arrowtype.BufferOffsets:
			raw = offsetsBytes(t, b)
		case arrowtype.BufferSizes:
			raw = int32sToBytes(b.Sizes)
		case arrowtype.BufferValues, arrowtype.BufferViews:
			raw = b.Values
		}
		if err := c.appendBuffer(raw); err != nil {
			return err
		}
	}

	if layout.HasVariadicBuffers {
		c.variadic = append(c.variadic, int64(len(b.DataBuffers)))
		for _, db := range b.DataBuffers {
			if err := c.appendBuffer(db); err != nil {
				return err
			}
		}
	}

	return nil
}

// encodeNull writes exactly one field node and zero buffers for a Null
// column, matching loadNull's consumption on the decode side.
func (c *encodeContext) encodeNull(b *arrowbatch.Batch) {
	c.nodes = append(c.nodes, FieldNode{Length: int64(b.Length), NullCount: int64(b.NullCount)})
}

// encodeUnion writes a union's own node, its mandatory type-ids buffer, its
// offsets buffer when dense, then its children independently. Always
// written at the modern (V5) layout: no pre-V5 validity placeholder.
func (c *encodeContext) encodeUnion(ut *arrowtype.UnionType, b *arrowbatch.Batch) error {
	if b.RowOffset != 0 {
		return errs.Unsupported(fmt.Errorf("%w: union", errs.ErrSlicedBatchUnsupported))
	}
	c.nodes = append(c.nodes, FieldNode{Length: int64(b.Length), NullCount: int64(b.NullCount)})

	idBytes := make([]byte, len(b.TypeIDs))
	for i, id := range b.TypeIDs {
		idBytes[i] = byte(id)
	}
	if err := c.appendBuffer(idBytes); err != nil {
		return err
	}

	if ut.Mode == arrowtype.DenseUnion {
		if err := c.appendBuffer(int32sToBytes(b.Offsets32)); err != nil {
			return err
		}
	}

	for i, childField := range ut.Children {
		if err := c.encodeField(childField, b.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

// encodeField writes one field's batch, recursing into children in the
// same structuralChildren order loadField uses on the decode side.
func (c *encodeContext) encodeField(field arrowtype.Field, b *arrowbatch.Batch) error {
	t := field.Type
	id := t.ID()

	if id == arrowtype.Null {
		c.encodeNull(b)
		return nil
	}
	if id == arrowtype.UnionID {
		return c.encodeUnion(t.(*arrowtype.UnionType), b)
	}

	if err := c.encodeCommon(t, b); err != nil {
		return err
	}
	if id == arrowtype.DictionaryID {
		return nil
	}

	children := structuralChildren(t)
	for i, childField := range children {
		if err := c.encodeField(childField, b.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

// EncodeRecordBatch encodes one row of column batches (one per schema
// field, in schema order) into a RecordBatchHeader plus its body bytes.
// numRows is the record batch's own row count (every top-level batch must
// agree with it; zero-row batches between non-empty ones are legal).
func EncodeRecordBatch(schema arrowtype.Schema, batches []*arrowbatch.Batch, numRows int64, compression arrowtype.CompressionCodec) (RecordBatchHeader, []byte, error) {
	if len(batches) != len(schema.Fields) {
		return RecordBatchHeader{}, nil, errs.InvalidArgument(fmt.Errorf("%w: have %d columns, schema has %d fields", errs.ErrFieldCountMismatch, len(batches), len(schema.Fields)))
	}

	c := &encodeContext{compression: compression}
	for i, f := range schema.Fields {
		if err := c.encodeField(f, batches[i]); err != nil {
			return RecordBatchHeader{}, nil, err
		}
	}

	h := RecordBatchHeader{
		Length:               numRows,
		Nodes:                c.nodes,
		Buffers:              c.buffers,
		Compression:          compression,
		VariadicBufferCounts: c.variadic,
	}
	return h, c.body, nil
}

// EncodeDictionaryBatch encodes one dictionary id's values column as a
// single-column RecordBatch wrapped in a DictionaryBatchHeader.
func EncodeDictionaryBatch(id int64, isDelta bool, valueType arrowtype.Type, values *arrowbatch.Batch, compression arrowtype.CompressionCodec) (DictionaryBatchHeader, []byte, error) {
	schema := arrowtype.Schema{Fields: []arrowtype.Field{{Name: "item", Type: valueType, Nullable: true}}}
	data, body, err := EncodeRecordBatch(schema, []*arrowbatch.Batch{values}, int64(values.Length), compression)
	if err != nil {
		return DictionaryBatchHeader{}, nil, err
	}
	return DictionaryBatchHeader{ID: id, IsDelta: isDelta, Data: data}, body, nil
}
