package arrowbuilder

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/stretchr/testify/require"
)

func readIndex32(values []byte, i int) int32 {
	return int32(binary.LittleEndian.Uint32(values[i*4 : i*4+4]))
}

func TestInt32BuilderRoundTrip(t *testing.T) {
	b := NewInt32Builder()
	require.NoError(t, b.Append(int32(1)))
	require.NoError(t, b.Append(nil))
	require.NoError(t, b.Append(3))
	require.Equal(t, 3, b.Len())

	batch := b.Finish()
	require.Equal(t, 3, batch.Length)
	require.Equal(t, 1, batch.NullCount)
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, int32(1), v)
	_, ok = batch.At(1)
	require.False(t, ok)
	v, ok = batch.At(2)
	require.True(t, ok)
	require.Equal(t, int32(3), v)

	require.Equal(t, 0, b.Len())
}

func TestFloat64BuilderNoNulls(t *testing.T) {
	b := NewFloat64Builder()
	require.NoError(t, b.Append(1.5))
	require.NoError(t, b.Append(2.5))
	batch := b.Finish()
	require.Equal(t, 0, batch.NullCount)
	v, ok := batch.At(1)
	require.True(t, ok)
	require.Equal(t, 2.5, v)
}

func TestUtf8BuilderWithNulls(t *testing.T) {
	b := NewUtf8Builder()
	require.NoError(t, b.Append("foo"))
	require.NoError(t, b.Append(nil))
	require.NoError(t, b.Append("barbaz"))

	batch := b.Finish()
	require.Equal(t, 3, batch.Length)
	require.Equal(t, 1, batch.NullCount)
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, "foo", v)
	_, ok = batch.At(1)
	require.False(t, ok)
	v, ok = batch.At(2)
	require.True(t, ok)
	require.Equal(t, "barbaz", v)
}

func TestUtf8BuilderWrongTypeRejected(t *testing.T) {
	b := NewUtf8Builder()
	err := b.Append(42)
	require.Error(t, err)
}

func TestBoolBuilder(t *testing.T) {
	b := NewBoolBuilder()
	require.NoError(t, b.Append(true))
	require.NoError(t, b.Append(false))
	require.NoError(t, b.Append(nil))

	batch := b.Finish()
	require.Equal(t, 1, batch.NullCount)
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, true, v)
	v, ok = batch.At(1)
	require.True(t, ok)
	require.Equal(t, false, v)
	_, ok = batch.At(2)
	require.False(t, ok)
}

func TestListBuilder(t *testing.T) {
	elemField := arrowtype.Field{Name: "item", Type: arrowtype.Int32(), Nullable: true}
	lb := NewListBuilder(elemField, NewInt32Builder())

	require.NoError(t, lb.Append([]any{int32(1), int32(2)}))
	require.NoError(t, lb.Append(nil))
	require.NoError(t, lb.Append([]any{int32(3)}))

	batch := lb.Finish()
	require.Equal(t, 3, batch.Length)
	require.Equal(t, 1, batch.NullCount)
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, []any{int32(1), int32(2)}, v)
	_, ok = batch.At(1)
	require.False(t, ok)
}

func TestStructBuilder(t *testing.T) {
	fields := []arrowtype.Field{
		{Name: "id", Type: arrowtype.Int32()},
		{Name: "name", Type: arrowtype.Utf8(), Nullable: true},
	}
	sb, err := NewStructBuilder(fields, []ColumnBuilder{NewInt32Builder(), NewUtf8Builder()})
	require.NoError(t, err)

	require.NoError(t, sb.Append(map[string]any{"id": int32(1), "name": "a"}))
	require.NoError(t, sb.Append(map[string]any{"id": int32(2)}))
	require.NoError(t, sb.Append(nil))

	batch := sb.Finish()
	require.Equal(t, 3, batch.Length)
	require.Equal(t, 1, batch.NullCount)
	require.Len(t, batch.Children, 2)
	require.Equal(t, 3, batch.Children[0].Length)
}

func TestDictionaryBuilderInternsRepeatedValues(t *testing.T) {
	db := NewDictionaryBuilder(9, arrowtype.Utf8(), NewUtf8Builder())
	require.NoError(t, db.Append("red"))
	require.NoError(t, db.Append("blue"))
	require.NoError(t, db.Append("red"))
	require.NoError(t, db.Append(nil))

	indices := db.Finish()
	require.Equal(t, 4, indices.Length)
	require.Equal(t, 1, indices.NullCount)
	require.Equal(t, int32(0), readIndex32(indices.Values, 0))
	require.Equal(t, int32(0), readIndex32(indices.Values, 2)) // "red" reused index 0, not a fresh entry

	values, isDelta := db.ValuesBatch()
	require.False(t, isDelta)
	require.Equal(t, 2, values.Length) // "red", "blue"
}

func TestDictionaryBuilderDeltaFlush(t *testing.T) {
	db := NewDictionaryBuilder(1, arrowtype.Utf8(), NewUtf8Builder())
	require.NoError(t, db.Append("a"))
	_, isDelta := db.ValuesBatch()
	require.False(t, isDelta)

	require.NoError(t, db.Append("b"))
	values, isDelta := db.ValuesBatch()
	require.True(t, isDelta)
	require.Equal(t, 1, values.Length) // only the newly interned "b"
}

func TestInferTypeScalarCategories(t *testing.T) {
	ty, err := InferType([]any{int32(1), int32(2), nil})
	require.NoError(t, err)
	require.Equal(t, arrowtype.Int8, ty.ID()) // [1, 2] fits the narrowest signed width

	ty, err = InferType([]any{"a", "b"})
	require.NoError(t, err)
	dt, ok := ty.(*arrowtype.DictionaryType)
	require.True(t, ok)
	require.Equal(t, arrowtype.Utf8ID, dt.Value.ID())
	require.Equal(t, arrowtype.Int32, dt.IndexType.ID())

	ty, err = InferType([]any{nil, nil})
	require.NoError(t, err)
	require.Equal(t, arrowtype.Null, ty.ID())
}

func TestInferTypeIntWidthNarrowing(t *testing.T) {
	ty, err := InferType([]any{1, 200})
	require.NoError(t, err)
	require.Equal(t, arrowtype.Int16, ty.ID()) // 200 overflows int8

	ty, err = InferType([]any{-1, 100000})
	require.NoError(t, err)
	require.Equal(t, arrowtype.Int32, ty.ID())

	ty, err = InferType([]any{int64(1) << 40})
	require.NoError(t, err)
	require.Equal(t, arrowtype.Int64, ty.ID())
}

func TestInferTypeDate(t *testing.T) {
	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ty, err := InferType([]any{midnight, midnight.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Equal(t, arrowtype.Date32ID, ty.ID())

	withTime := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	ty, err = InferType([]any{midnight, withTime})
	require.NoError(t, err)
	tt, ok := ty.(*arrowtype.TimestampType)
	require.True(t, ok)
	require.Equal(t, arrowtype.Millisecond, tt.Unit)
}

func TestInferTypeFixedSizeList(t *testing.T) {
	ty, err := InferType([]any{
		[]any{int32(1), int32(2)},
		[]any{int32(3), int32(4)},
	})
	require.NoError(t, err)
	lt, ok := ty.(*arrowtype.FixedSizeListType)
	require.True(t, ok)
	require.Equal(t, 2, lt.Stride)

	ty, err = InferType([]any{
		[]any{int32(1)},
		[]any{int32(2), int32(3)},
	})
	require.NoError(t, err)
	_, ok = ty.(*arrowtype.ListType)
	require.True(t, ok) // ragged lengths fall back to List
}

func TestInferTypeWidensIntAndFloat(t *testing.T) {
	ty, err := InferType([]any{1, 2.5})
	require.NoError(t, err)
	require.Equal(t, arrowtype.Float64, ty.ID())
}

func TestInferTypeMixedIncompatibleIsError(t *testing.T) {
	_, err := InferType([]any{"a", true})
	require.Error(t, err)
}

func TestInferTypeStruct(t *testing.T) {
	ty, err := InferType([]any{
		map[string]any{"id": int32(1), "name": "a"},
		map[string]any{"id": int32(2), "name": "b"},
	})
	require.NoError(t, err)
	st, ok := ty.(*arrowtype.StructType)
	require.True(t, ok)
	require.Len(t, st.Fields, 2)
}

func TestTableBuilderFlushesAtMaxRows(t *testing.T) {
	schema := arrowtype.Schema{Fields: []arrowtype.Field{{Name: "v", Type: arrowtype.Int32()}}}
	tb, err := NewTableBuilder(schema, []ColumnBuilder{NewInt32Builder()}, 2)
	require.NoError(t, err)

	require.NoError(t, tb.AppendRow([]any{int32(1)}))
	require.NoError(t, tb.AppendRow([]any{int32(2)})) // triggers an automatic flush
	require.NoError(t, tb.AppendRow([]any{int32(3)}))

	_, batches := tb.Finish()
	require.Len(t, batches[0], 2)
	require.Equal(t, 2, batches[0][0].Length)
	require.Equal(t, 1, batches[0][1].Length)
}

func TestTableBuilderRejectsWrongRowWidth(t *testing.T) {
	schema := arrowtype.Schema{Fields: []arrowtype.Field{{Name: "v", Type: arrowtype.Int32()}}}
	tb, err := NewTableBuilder(schema, []ColumnBuilder{NewInt32Builder()}, 0)
	require.NoError(t, err)
	err = tb.AppendRow([]any{int32(1), int32(2)})
	require.Error(t, err)
}
