package arrowlite

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solandra/arrowlite/arrowbuilder"
	"github.com/solandra/arrowlite/arrowtype"
)

func TestTableFromArraysRoundTripsThroughIPC(t *testing.T) {
	ids := []any{int32(1), int32(2), int32(3)}
	names := []any{"a", "b", "c"}

	table, err := TableFromArrays([]string{"id", "name"}, []any{ids, names})
	require.NoError(t, err)
	require.Equal(t, 3, table.NumRows())

	var buf bytes.Buffer
	require.NoError(t, TableToIPC(&buf, table))

	decoded, err := TableFromIPC(&buf)
	require.NoError(t, err)
	require.Equal(t, 3, decoded.NumRows())

	idCol, ok := decoded.ColumnByName("id")
	require.True(t, ok)
	for i, want := range []int8{1, 2, 3} {
		v, ok := idCol.At(i)
		require.True(t, ok)
		require.Equal(t, want, v)
	}

	nameCol, ok := decoded.ColumnByName("name")
	require.True(t, ok)
	v, ok := nameCol.At(1)
	require.True(t, ok)
	require.Equal(t, "b", v)
}

func TestColumnFromValuesInfersNullableFromNils(t *testing.T) {
	col, err := ColumnFromValues("score", []any{int64(1), nil, int64(3)})
	require.NoError(t, err)
	require.True(t, col.Field.Nullable)
	require.Equal(t, arrowtype.Int8().ID(), col.Field.Type.ID())

	v, ok := col.At(1)
	require.False(t, ok)
	require.Nil(t, v)
}

func TestColumnFromValuesWithDictionary(t *testing.T) {
	col, err := ColumnFromValues("tag", []any{"red", "blue", "red"}, arrowbuilder.WithDictionary(7))
	require.NoError(t, err)
	require.Equal(t, arrowtype.DictionaryID, col.Field.Type.ID())

	v0, ok := col.At(0)
	require.True(t, ok)
	v2, ok := col.At(2)
	require.True(t, ok)
	require.Equal(t, v0, v2)
}

func TestColumnFromArrayAcceptsTypedSlice(t *testing.T) {
	col, err := ColumnFromArray("n", []int32{10, 20, 30})
	require.NoError(t, err)
	require.Equal(t, 3, col.Len())
	v, ok := col.At(2)
	require.True(t, ok)
	require.Equal(t, int32(30), v)
}

func TestTableFromColumnsRejectsMismatchedCounts(t *testing.T) {
	_, err := TableFromColumns([]arrowtype.Field{{Name: "a", Type: arrowtype.Int32()}}, nil)
	require.Error(t, err)
}

func TestTableFromArraysRejectsMismatchedCounts(t *testing.T) {
	_, err := TableFromArrays([]string{"a", "b"}, []any{[]int32{1}})
	require.Error(t, err)
}

func TestSetAndGetCompressionCodec(t *testing.T) {
	c, err := GetCompressionCodec(arrowtype.CompressionLZ4Frame)
	require.NoError(t, err)
	require.NotNil(t, c)

	SetCompressionCodec(arrowtype.CompressionLZ4Frame, c)
	got, err := GetCompressionCodec(arrowtype.CompressionLZ4Frame)
	require.NoError(t, err)
	require.Equal(t, c, got)
}
