package ipc

import (
	"encoding/binary"
	"fmt"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/fbuf"
)

// FieldNode is a fixed-size (16-byte) inline struct, one per field in
// schema depth-first order, recording a column's row count and null count.
// Unlike the tables elsewhere in this package it carries no vtable.
type FieldNode struct {
	Length    int64
	NullCount int64
}

// BufferRegion is a fixed-size (16-byte) inline struct locating one body
// buffer by offset and length, both relative to the start of the message
// body.
type BufferRegion struct {
	Offset int64
	Length int64
}

const (
	structFieldNodeSize = 16
	structBufferSize    = 16
)

func buildFieldNodeVector(b *fbuf.Builder, nodes []FieldNode) int {
	if len(nodes) == 0 {
		return 0
	}
	b.StartVector(structFieldNodeSize, len(nodes), 8)
	for i := len(nodes) - 1; i >= 0; i-- {
		b.PlaceInt64(nodes[i].NullCount)
		b.PlaceInt64(nodes[i].Length)
	}
	return b.EndVector(len(nodes))
}

func buildBufferVector(b *fbuf.Builder, bufs []BufferRegion) int {
	if len(bufs) == 0 {
		return 0
	}
	b.StartVector(structBufferSize, len(bufs), 8)
	for i := len(bufs) - 1; i >= 0; i-- {
		b.PlaceInt64(bufs[i].Length)
		b.PlaceInt64(bufs[i].Offset)
	}
	return b.EndVector(len(bufs))
}

func readFieldNodeVector(tbl fbuf.Table, slot uint16) []FieldNode {
	n := tbl.VectorLen(slot)
	if n == 0 {
		return nil
	}
	out := make([]FieldNode, n)
	for i := 0; i < n; i++ {
		pos := tbl.VectorElementPos(slot, i, structFieldNodeSize)
		out[i] = FieldNode{
			Length:    int64(binary.LittleEndian.Uint64(tbl.Buf[pos : pos+8])),
			NullCount: int64(binary.LittleEndian.Uint64(tbl.Buf[pos+8 : pos+16])),
		}
	}
	return out
}

func readBufferVector(tbl fbuf.Table, slot uint16) []BufferRegion {
	n := tbl.VectorLen(slot)
	if n == 0 {
		return nil
	}
	out := make([]BufferRegion, n)
	for i := 0; i < n; i++ {
		pos := tbl.VectorElementPos(slot, i, structBufferSize)
		out[i] = BufferRegion{
			Offset: int64(binary.LittleEndian.Uint64(tbl.Buf[pos : pos+8])),
			Length: int64(binary.LittleEndian.Uint64(tbl.Buf[pos+8 : pos+16])),
		}
	}
	return out
}

func readInt64Vector(tbl fbuf.Table, slot uint16) []int64 {
	n := tbl.VectorLen(slot)
	if n == 0 {
		return nil
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		pos := tbl.VectorElementPos(slot, i, 8)
		out[i] = int64(binary.LittleEndian.Uint64(tbl.Buf[pos : pos+8]))
	}
	return out
}

func buildInt64Vector(b *fbuf.Builder, vals []int64) int {
	if len(vals) == 0 {
		return 0
	}
	b.StartVector(8, len(vals), 8)
	for i := len(vals) - 1; i >= 0; i-- {
		b.PlaceInt64(vals[i])
	}
	return b.EndVector(len(vals))
}

// BodyCompression table slots.
const (
	compressionSlotCodec  = 0
	compressionSlotMethod = 1
)

// wire codec enum values; distinct from arrowtype.CompressionCodec since the
// wire has no "none" member (BodyCompression is simply absent when a batch
// isn't compressed).
const (
	wireCodecLZ4Frame int8 = 0
	wireCodecZstd     int8 = 1
)

func wireCompressionCodec(kind arrowtype.CompressionCodec) (int8, error) {
	switch kind {
	case arrowtype.CompressionLZ4Frame:
		return wireCodecLZ4Frame, nil
	case arrowtype.CompressionZstd:
		return wireCodecZstd, nil
	default:
		return 0, errs.Unsupported(fmt.Errorf("%w: compression codec %v", errs.ErrUnsupportedCompression, kind))
	}
}

func codecFromWire(wire int8) (arrowtype.CompressionCodec, error) {
	switch wire {
	case wireCodecLZ4Frame:
		return arrowtype.CompressionLZ4Frame, nil
	case wireCodecZstd:
		return arrowtype.CompressionZstd, nil
	default:
		return arrowtype.CompressionNone, errs.Unsupported(fmt.Errorf("%w: wire codec %d", errs.ErrUnsupportedCompression, wire))
	}
}

func encodeBodyCompression(b *fbuf.Builder, kind arrowtype.CompressionCodec) (int, error) {
	if kind == arrowtype.CompressionNone {
		return 0, nil
	}
	wire, err := wireCompressionCodec(kind)
	if err != nil {
		return 0, err
	}
	b.StartObject(2)
	addByteRaw(b, compressionSlotCodec, byte(wire))
	addByteRaw(b, compressionSlotMethod, 0) // BUFFER method only; STREAM is unused on the wire today
	return b.EndObject(), nil
}

func decodeBodyCompression(tbl fbuf.Table, ok bool) (arrowtype.CompressionCodec, error) {
	if !ok {
		return arrowtype.CompressionNone, nil
	}
	wire := int8(tbl.Byte(voffset(compressionSlotCodec), 0))
	return codecFromWire(wire)
}

// RecordBatch table slots.
const (
	rbSlotLength                = 0
	rbSlotNodes                 = 1
	rbSlotBuffers               = 2
	rbSlotCompression           = 3
	rbSlotVariadicBufferCounts  = 4
)

// RecordBatchHeader is the decoded/encodable form of a RecordBatch message
// header: row count, one FieldNode per field (schema depth-first order),
// one BufferRegion per buffer (also depth-first, per each type's Layout),
// an optional compression codec applied to each body buffer separately,
// and the per-field variadic buffer counts
// BinaryView/Utf8View need (V5+, empty otherwise).
type RecordBatchHeader struct {
	Length               int64
	Nodes                []FieldNode
	Buffers              []BufferRegion
	Compression          arrowtype.CompressionCodec
	VariadicBufferCounts []int64
}

func encodeRecordBatchHeader(b *fbuf.Builder, h RecordBatchHeader) (int, error) {
	nodesVec := buildFieldNodeVector(b, h.Nodes)
	buffersVec := buildBufferVector(b, h.Buffers)
	variadicVec := buildInt64Vector(b, h.VariadicBufferCounts)
	compressionOff, err := encodeBodyCompression(b, h.Compression)
	if err != nil {
		return 0, err
	}

	b.StartObject(5)
	addInt64(b, rbSlotLength, h.Length)
	if nodesVec != 0 {
		addUOffset(b, rbSlotNodes, nodesVec)
	}
	if buffersVec != 0 {
		addUOffset(b, rbSlotBuffers, buffersVec)
	}
	if compressionOff != 0 {
		addUOffset(b, rbSlotCompression, compressionOff)
	}
	if variadicVec != 0 {
		addUOffset(b, rbSlotVariadicBufferCounts, variadicVec)
	}
	return b.EndObject(), nil
}

func decodeRecordBatchHeader(tbl fbuf.Table) (RecordBatchHeader, error) {
	compressionTbl, hasCompression := tbl.TableSlot(voffset(rbSlotCompression))
	codec, err := decodeBodyCompression(compressionTbl, hasCompression)
	if err != nil {
		return RecordBatchHeader{}, err
	}
	return RecordBatchHeader{
		Length:               tbl.Int64(voffset(rbSlotLength), 0),
		Nodes:                readFieldNodeVector(tbl, voffset(rbSlotNodes)),
		Buffers:              readBufferVector(tbl, voffset(rbSlotBuffers)),
		Compression:          codec,
		VariadicBufferCounts: readInt64Vector(tbl, voffset(rbSlotVariadicBufferCounts)),
	}, nil
}

// DictionaryBatch table slots.
const (
	dbSlotID      = 0
	dbSlotData    = 1
	dbSlotIsDelta = 2
)

// DictionaryBatchHeader is the decoded/encodable form of a DictionaryBatch
// message header: the dictionary id it replaces or appends to, whether it
// is a delta (append) batch, and the nested RecordBatch carrying the
// dictionary's values as a single-column batch.
type DictionaryBatchHeader struct {
	ID      int64
	IsDelta bool
	Data    RecordBatchHeader
}

func encodeDictionaryBatchHeader(b *fbuf.Builder, h DictionaryBatchHeader) (int, error) {
	dataOff, err := encodeRecordBatchHeader(b, h.Data)
	if err != nil {
		return 0, err
	}
	b.StartObject(3)
	addInt64(b, dbSlotID, h.ID)
	addUOffset(b, dbSlotData, dataOff)
	addBool(b, dbSlotIsDelta, h.IsDelta)
	return b.EndObject(), nil
}

func decodeDictionaryBatchHeader(tbl fbuf.Table) (DictionaryBatchHeader, error) {
	dataTbl, ok := tbl.TableSlot(voffset(dbSlotData))
	if !ok {
		return DictionaryBatchHeader{}, errs.FormatError(fmt.Errorf("%w: dictionary batch missing its data record batch", errs.ErrInvalidVTable))
	}
	data, err := decodeRecordBatchHeader(dataTbl)
	if err != nil {
		return DictionaryBatchHeader{}, err
	}
	return DictionaryBatchHeader{
		ID:      tbl.Int64(voffset(dbSlotID), -1),
		IsDelta: tbl.Byte(voffset(dbSlotIsDelta), 0) != 0,
		Data:    data,
	}, nil
}
