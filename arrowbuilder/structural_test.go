package arrowbuilder

import (
	"math/big"
	"testing"
	"time"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/stretchr/testify/require"
)

func TestFixedSizeListBuilder(t *testing.T) {
	elem := arrowtype.Field{Name: "item", Type: arrowtype.Int32(), Nullable: true}
	b := NewFixedSizeListBuilder(elem, 2, NewInt32Builder())

	require.NoError(t, b.Append([]any{int32(1), int32(2)}))
	require.NoError(t, b.Append(nil))
	require.NoError(t, b.Append([]any{int32(3), int32(4)}))
	require.Error(t, b.Append([]any{int32(1)})) // wrong stride

	batch := b.Finish()
	require.Equal(t, 3, batch.Length)
	require.Equal(t, 1, batch.NullCount)
	require.Len(t, batch.Children, 1)
	require.Equal(t, 6, batch.Children[0].Length) // 3 rows * stride 2, including the null row

	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, []any{int32(1), int32(2)}, v)
	_, ok = batch.At(1)
	require.False(t, ok)
}

func TestMapBuilder(t *testing.T) {
	b := NewMapBuilder(arrowtype.Utf8(), arrowtype.Int32(), true, false, NewUtf8Builder(), NewInt32Builder())

	require.NoError(t, b.Append([]arrowbatch.MapEntry{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: int32(2)},
	}))
	require.NoError(t, b.Append(nil))

	batch := b.Finish()
	require.Equal(t, 2, batch.Length)
	require.Equal(t, 1, batch.NullCount)
	require.Len(t, batch.Children, 1)
	require.Equal(t, 2, batch.Children[0].Children[0].Length) // 2 keys total

	batch.MapStrategy = arrowbatch.MapRowPairs
	v, ok := batch.At(0)
	require.True(t, ok)
	pairs, ok := v.([]arrowbatch.MapEntry)
	require.True(t, ok)
	require.Equal(t, []arrowbatch.MapEntry{{Key: "a", Value: int32(1)}, {Key: "b", Value: int32(2)}}, pairs)
}

func TestUnionBuilderSparse(t *testing.T) {
	classify := func(v any) int8 {
		switch v.(type) {
		case int32:
			return 0
		default:
			return 1
		}
	}
	ut, err := arrowtype.Union(arrowtype.SparseUnion, []arrowtype.Field{
		{Name: "i", Type: arrowtype.Int32()},
		{Name: "s", Type: arrowtype.Utf8()},
	}, nil, classify)
	require.NoError(t, err)

	ub, err := NewUnionBuilder(ut.(*arrowtype.UnionType), []ColumnBuilder{NewInt32Builder(), NewUtf8Builder()})
	require.NoError(t, err)

	require.NoError(t, ub.Append(int32(7)))
	require.NoError(t, ub.Append("hi"))

	batch := ub.Finish()
	require.Equal(t, 2, batch.Length)
	require.Len(t, batch.Children, 2)
	require.Equal(t, 2, batch.Children[0].Length) // sparse: every child row-aligned
	require.Equal(t, 2, batch.Children[1].Length)
	require.Equal(t, []int8{0, 1}, batch.TypeIDs)
}

func TestUnionBuilderDense(t *testing.T) {
	classify := func(v any) int8 {
		switch v.(type) {
		case int32:
			return 0
		default:
			return 1
		}
	}
	ut, err := arrowtype.Union(arrowtype.DenseUnion, []arrowtype.Field{
		{Name: "i", Type: arrowtype.Int32()},
		{Name: "s", Type: arrowtype.Utf8()},
	}, nil, classify)
	require.NoError(t, err)

	ub, err := NewUnionBuilder(ut.(*arrowtype.UnionType), []ColumnBuilder{NewInt32Builder(), NewUtf8Builder()})
	require.NoError(t, err)

	require.NoError(t, ub.Append(int32(7)))
	require.NoError(t, ub.Append("hi"))
	require.NoError(t, ub.Append(int32(8)))

	batch := ub.Finish()
	require.Equal(t, 3, batch.Length)
	require.Equal(t, 2, batch.Children[0].Length) // dense: only chosen rows land in each child
	require.Equal(t, 1, batch.Children[1].Length)
	require.Equal(t, []int32{0, 0, 1}, batch.Offsets32)
}

func TestRunEndEncodedBuilder(t *testing.T) {
	b, err := NewRunEndEncodedBuilder(arrowtype.Int32(), arrowtype.Utf8(), NewUtf8Builder())
	require.NoError(t, err)

	require.NoError(t, b.Append("a"))
	require.NoError(t, b.Append("a"))
	require.NoError(t, b.Append("b"))
	require.NoError(t, b.Append("b"))
	require.NoError(t, b.Append("b"))

	batch := b.Finish()
	require.Equal(t, 5, batch.Length)
	require.Len(t, batch.Children, 2)
	require.Equal(t, 2, batch.Children[1].Length) // two distinct runs: "a", "b"

	runEnds := batch.Children[0]
	end0, ok := runEnds.At(0)
	require.True(t, ok)
	require.Equal(t, int32(2), end0)
	end1, ok := runEnds.At(1)
	require.True(t, ok)
	require.Equal(t, int32(5), end1)
}

func TestFloat16BuilderRoundTrip(t *testing.T) {
	b := NewFloat16Builder()
	require.NoError(t, b.Append(float32(1.5)))
	require.NoError(t, b.Append(nil))
	batch := b.Finish()
	require.Equal(t, 2, batch.Length)
	v, ok := batch.At(0)
	require.True(t, ok)
	require.InDelta(t, 1.5, v, 0.001)
}

func TestDate32BuilderTruncatesToDayBoundary(t *testing.T) {
	b := NewDate32Builder()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, b.Append(day.Add(13*time.Hour)))
	batch := b.Finish()
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, int32(day.Unix()/86400), v)
}

func TestTimestampBuilderTicks(t *testing.T) {
	b := NewTimestampBuilder(arrowtype.Millisecond, "")
	ts := time.Date(2024, 3, 1, 1, 2, 3, 0, time.UTC)
	require.NoError(t, b.Append(ts))
	batch := b.Finish()
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, ts.UnixMilli(), v)
}

func TestDecimalBuilderRoundTrip(t *testing.T) {
	dt, err := arrowtype.Decimal64(10, 2)
	require.NoError(t, err)
	b, err := NewDecimalBuilder(dt)
	require.NoError(t, err)

	require.NoError(t, b.Append(big.NewInt(-12345)))
	require.NoError(t, b.Append(big.NewInt(6789)))

	batch := b.Finish()
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, big.NewInt(-12345), v)
	v, ok = batch.At(1)
	require.True(t, ok)
	require.Equal(t, big.NewInt(6789), v)
}

func TestFixedSizeBinaryBuilder(t *testing.T) {
	b, err := NewFixedSizeBinaryBuilder(4)
	require.NoError(t, err)
	require.NoError(t, b.Append([]byte{1, 2, 3, 4}))
	require.Error(t, b.Append([]byte{1, 2}))

	batch := b.Finish()
	v, ok := batch.At(0)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4}, v)
}

func TestBuilderForTypeWiresStructuralAndDirectTypes(t *testing.T) {
	for _, ty := range []arrowtype.Type{
		arrowtype.Float16(),
		arrowtype.Date32(),
		arrowtype.Date64(),
		arrowtype.Timestamp(arrowtype.Second, ""),
	} {
		_, err := BuilderForType(ty)
		require.NoError(t, err)
	}

	dt, err := arrowtype.Decimal32(9, 0)
	require.NoError(t, err)
	_, err = BuilderForType(dt)
	require.NoError(t, err)

	fb, err := arrowtype.FixedSizeBinary(3)
	require.NoError(t, err)
	_, err = BuilderForType(fb)
	require.NoError(t, err)

	fsl, err := arrowtype.FixedSizeList(arrowtype.Int32(), 3)
	require.NoError(t, err)
	_, err = BuilderForType(fsl)
	require.NoError(t, err)

	_, err = BuilderForType(arrowtype.Map(arrowtype.Utf8(), arrowtype.Int32(), true, false))
	require.NoError(t, err)

	ret, err := arrowtype.RunEndEncoded(arrowtype.Int32(), arrowtype.Utf8())
	require.NoError(t, err)
	_, err = BuilderForType(ret)
	require.NoError(t, err)

	ut, err := arrowtype.Union(arrowtype.SparseUnion, []arrowtype.Field{
		{Name: "i", Type: arrowtype.Int32()},
	}, nil, func(any) int8 { return 0 })
	require.NoError(t, err)
	_, err = BuilderForType(ut)
	require.NoError(t, err)
}
