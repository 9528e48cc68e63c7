package ipc

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/internal/bitfield"
	"github.com/stretchr/testify/require"
)

func int32Bytes(vs ...int32) []byte {
	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], uint32(v))
	}
	return out
}

func int64Bytes(vs ...int64) []byte {
	out := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], uint64(v))
	}
	return out
}

func simpleSchema() arrowtype.Schema {
	return arrowtype.Schema{Fields: []arrowtype.Field{
		{Name: "id", Type: arrowtype.Int32(), Nullable: false},
		{Name: "name", Type: arrowtype.Utf8(), Nullable: true},
	}}
}

func simpleBatches() []*arrowbatch.Batch {
	idBatch := &arrowbatch.Batch{Type: arrowtype.Int32(), Length: 3, Values: int32Bytes(1, 2, 3)}

	bm := bitfield.NewBitmap(3)
	bm.SetBit(0, true)
	bm.SetBit(1, false)
	bm.SetBit(2, true)
	nameBatch := &arrowbatch.Batch{
		Type:      arrowtype.Utf8(),
		Length:    3,
		NullCount: 1,
		Validity:  bm,
		Offsets32: []int32{0, 3, 3, 8},
		Values:    []byte("foobarbaz")[:8],
	}
	return []*arrowbatch.Batch{idBatch, nameBatch}
}

func TestStreamRoundTrip(t *testing.T) {
	schema := simpleSchema()
	batches := simpleBatches()

	var buf bytes.Buffer
	w := NewWriter(&buf, schema)
	require.NoError(t, w.WriteRecordBatch(batches, 3))
	require.NoError(t, w.Close())

	res, err := DecodeIPC(&buf)
	require.NoError(t, err)
	require.Equal(t, schema.Fields[0].Name, res.Schema.Fields[0].Name)
	require.Len(t, res.Columns, 2)
	require.Len(t, res.Columns[0], 1)

	idCol := res.Columns[0][0]
	require.Equal(t, 3, idCol.Length)
	v, ok := idCol.At(0)
	require.True(t, ok)
	require.Equal(t, int32(1), v)

	nameCol := res.Columns[1][0]
	require.Equal(t, 1, nameCol.NullCount)
	_, ok = nameCol.At(1)
	require.False(t, ok)
	v, ok = nameCol.At(0)
	require.True(t, ok)
	require.Equal(t, "foo", v)
}

func TestFileRoundTrip(t *testing.T) {
	schema := simpleSchema()
	batches := simpleBatches()

	var buf bytes.Buffer
	fw, err := NewFileWriter(&buf, schema)
	require.NoError(t, err)
	require.NoError(t, fw.WriteRecordBatch(batches, 3))
	require.NoError(t, fw.WriteRecordBatch(batches, 3))
	require.NoError(t, fw.Close())

	data := buf.Bytes()
	require.Equal(t, FileMagic, string(data[:len(FileMagic)]))
	require.Equal(t, FileMagic, string(data[len(data)-len(FileMagic):]))

	res, err := DecodeIPC(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, res.Columns[0], 2)
	require.Equal(t, 3, res.Columns[0][0].Length)
	require.Equal(t, 3, res.Columns[0][1].Length)
}

func TestZeroRowBatchBetweenNonEmptyBatches(t *testing.T) {
	schema := arrowtype.Schema{Fields: []arrowtype.Field{{Name: "v", Type: arrowtype.Int32()}}}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema)
	full := []*arrowbatch.Batch{{Type: arrowtype.Int32(), Length: 2, Values: int32Bytes(1, 2)}}
	empty := []*arrowbatch.Batch{{Type: arrowtype.Int32(), Length: 0}}
	require.NoError(t, w.WriteRecordBatch(full, 2))
	require.NoError(t, w.WriteRecordBatch(empty, 0))
	require.NoError(t, w.WriteRecordBatch(full, 2))
	require.NoError(t, w.Close())

	res, err := DecodeIPC(&buf)
	require.NoError(t, err)
	require.Len(t, res.Columns[0], 3)
	require.Equal(t, 0, res.Columns[0][1].Length)
}

func TestNullTypeColumnConsumesNodeNoBuffers(t *testing.T) {
	schema := arrowtype.Schema{Fields: []arrowtype.Field{
		{Name: "n", Type: arrowtype.Null()},
		{Name: "v", Type: arrowtype.Int32()},
	}}
	batches := []*arrowbatch.Batch{
		{Type: arrowtype.Null(), Length: 2, NullCount: 2},
		{Type: arrowtype.Int32(), Length: 2, Values: int32Bytes(10, 20)},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema)
	require.NoError(t, w.WriteRecordBatch(batches, 2))
	require.NoError(t, w.Close())

	res, err := DecodeIPC(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, res.Columns[0][0].NullCount)
	v, ok := res.Columns[1][0].At(1)
	require.True(t, ok)
	require.Equal(t, int32(20), v)
}

func TestDictionaryRoundTripWithDelta(t *testing.T) {
	dictType, err := arrowtype.Dictionary(arrowtype.Utf8(), arrowtype.WithDictionaryID(7))
	require.NoError(t, err)
	schema := arrowtype.Schema{Fields: []arrowtype.Field{{Name: "color", Type: dictType}}}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema)

	values1 := &arrowbatch.Batch{Type: arrowtype.Utf8(), Length: 2, Offsets32: []int32{0, 3, 6}, Values: []byte("redblu")}
	require.NoError(t, w.WriteDictionaryBatch(7, false, arrowtype.Utf8(), values1))

	indices := &arrowbatch.Batch{Type: dictType, Length: 3, Values: int32Bytes(0, 1, 0)}
	require.NoError(t, w.WriteRecordBatch([]*arrowbatch.Batch{indices}, 3))

	values2 := &arrowbatch.Batch{Type: arrowtype.Utf8(), Length: 1, Offsets32: []int32{0, 5}, Values: []byte("green")}
	require.NoError(t, w.WriteDictionaryBatch(7, true, arrowtype.Utf8(), values2))

	indices2 := &arrowbatch.Batch{Type: dictType, Length: 1, Values: int32Bytes(2)}
	require.NoError(t, w.WriteRecordBatch([]*arrowbatch.Batch{indices2}, 1))
	require.NoError(t, w.Close())

	res, err := DecodeIPC(&buf)
	require.NoError(t, err)
	require.Len(t, res.Columns[0], 2)

	dictBatch := res.Columns[0][1]
	require.NotNil(t, dictBatch.Dictionary)
	v, ok := dictBatch.Dictionary.At(2)
	require.True(t, ok)
	require.Equal(t, "green", v)
}

func TestDeltaDictionaryWithoutBaseFails(t *testing.T) {
	h := DictionaryBatchHeader{ID: 1, IsDelta: true, Data: RecordBatchHeader{Length: 1}}
	dc := newDictionaryContext(arrowtype.Schema{Fields: []arrowtype.Field{
		{Name: "d", Type: mustDict(t)},
	}})
	err := dc.ingest(MetadataV5, h, nil)
	require.Error(t, err)
}

func mustDict(t *testing.T) arrowtype.Type {
	t.Helper()
	dt, err := arrowtype.Dictionary(arrowtype.Int32(), arrowtype.WithDictionaryID(1))
	require.NoError(t, err)
	return dt
}

func TestSparseUnionRoundTrip(t *testing.T) {
	children := []arrowtype.Field{
		{Name: "ints", Type: arrowtype.Int32()},
		{Name: "strs", Type: arrowtype.Utf8()},
	}
	classify := func(v any) int8 {
		if _, ok := v.(int32); ok {
			return 0
		}
		return 1
	}
	ut, err := arrowtype.Union(arrowtype.SparseUnion, children, []int8{0, 1}, classify)
	require.NoError(t, err)
	schema := arrowtype.Schema{Fields: []arrowtype.Field{{Name: "u", Type: ut}}}

	unionBatch := &arrowbatch.Batch{
		Type:    ut,
		Length:  2,
		TypeIDs: []int8{0, 1},
		Children: []*arrowbatch.Batch{
			{Type: arrowtype.Int32(), Length: 2, Values: int32Bytes(42, 0)},
			{Type: arrowtype.Utf8(), Length: 2, Offsets32: []int32{0, 0, 3}, Values: []byte("abc")},
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, schema)
	require.NoError(t, w.WriteRecordBatch([]*arrowbatch.Batch{unionBatch}, 2))
	require.NoError(t, w.Close())

	res, err := DecodeIPC(&buf)
	require.NoError(t, err)
	decoded := res.Columns[0][0]
	v, ok := decoded.At(1)
	require.True(t, ok)
	require.Equal(t, "abc", v)
}

// TestLoadUnionDiscardsPreV5Validity exercises loadUnion directly (rather
// than through a Writer, which only ever emits the modern V5 layout) to
// confirm a pre-V5 stream's unused leading validity buffer is consumed and
// discarded rather than attached to anything.
func TestLoadUnionDiscardsPreV5Validity(t *testing.T) {
	children := []arrowtype.Field{{Name: "ints", Type: arrowtype.Int32()}}
	classify := func(any) int8 { return 0 }
	ut, err := arrowtype.Union(arrowtype.SparseUnion, children, []int8{0}, classify)
	require.NoError(t, err)

	var body []byte
	body = append(body, 0xFF)                 // offset 0: unused pre-V5 validity byte
	body = append(body, make([]byte, 7)...)   // pad to 8
	body = append(body, []byte{0, 0}...)      // offset 8: type ids
	body = append(body, make([]byte, 6)...)   // pad to 8
	body = append(body, int32Bytes(9, 9)...)  // offset 16: child values

	c := &loadContext{
		version: MetadataV4,
		body:    body,
		nodes:   []FieldNode{{Length: 2}, {Length: 2}},
		buffers: []BufferRegion{
			{Offset: 0, Length: 1},  // pre-V5 validity, discarded
			{Offset: 8, Length: 2},  // type ids
			{Offset: 0, Length: 0},  // child validity (NullCount 0)
			{Offset: 16, Length: 8}, // child values
		},
	}

	b, err := c.loadUnion(ut.(*arrowtype.UnionType))
	require.NoError(t, err)
	require.Equal(t, 2, b.Length)
	require.Equal(t, []int8{0, 0}, b.TypeIDs)
}

func TestMessageFramingRoundTrip(t *testing.T) {
	meta := []byte{1, 2, 3, 4, 5}
	body := []byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}

	var buf bytes.Buffer
	_, err := WriteMessage(&buf, meta, body)
	require.NoError(t, err)
	require.NoError(t, WriteEOS(&buf))

	require.Equal(t, 0, buf.Len()%8)
}
