package arrowbuilder

import (
	"bytes"
	"testing"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/ipc"
	"github.com/stretchr/testify/require"
)

func TestTableBuilderThroughIPCWriter(t *testing.T) {
	schema := arrowtype.Schema{Fields: []arrowtype.Field{
		{Name: "id", Type: arrowtype.Int32()},
		{Name: "name", Type: arrowtype.Utf8(), Nullable: true},
	}}
	tb, err := NewTableBuilder(schema, []ColumnBuilder{NewInt32Builder(), NewUtf8Builder()}, 2)
	require.NoError(t, err)

	rows := [][]any{
		{int32(1), "a"},
		{int32(2), nil},
		{int32(3), "c"},
	}
	for _, r := range rows {
		require.NoError(t, tb.AppendRow(r))
	}
	_, batches := tb.Finish()
	require.Len(t, batches[0], 2) // flushed at row 2, then a final partial batch

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, schema)
	for i := range batches[0] {
		row := make([]*arrowbatch.Batch, len(batches))
		for col := range batches {
			row[col] = batches[col][i]
		}
		require.NoError(t, w.WriteRecordBatch(row, int64(batches[0][i].Length)))
	}
	require.NoError(t, w.Close())

	res, err := ipc.DecodeIPC(&buf)
	require.NoError(t, err)
	require.Len(t, res.Columns[0], 2)

	v, ok := res.Columns[0][0].At(0)
	require.True(t, ok)
	require.Equal(t, int32(1), v)

	_, ok = res.Columns[1][0].At(1)
	require.False(t, ok)
}
