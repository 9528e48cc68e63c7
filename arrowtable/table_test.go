package arrowtable

import (
	"testing"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/stretchr/testify/require"
)

func buildTable(t *testing.T) *Table {
	t.Helper()
	schema := arrowtype.Schema{Fields: []arrowtype.Field{
		{Name: "id", Type: arrowtype.Int32()},
		{Name: "score", Type: arrowtype.Int32()},
	}}
	cols := []*Column{
		NewColumn(schema.Fields[0], []*arrowbatch.Batch{int32Batch(1, 2, 3)}),
		NewColumn(schema.Fields[1], []*arrowbatch.Batch{int32Batch(10, 20, 30)}),
	}
	return NewTable(schema, cols)
}

func TestTableNumRowsAndRow(t *testing.T) {
	tbl := buildTable(t)
	require.Equal(t, 3, tbl.NumRows())

	row, ok := tbl.Row(1)
	require.True(t, ok)
	require.Equal(t, int32(2), row["id"])
	require.Equal(t, int32(20), row["score"])
}

func TestTableSelectByName(t *testing.T) {
	tbl := buildTable(t)
	projected, err := tbl.Select("score")
	require.NoError(t, err)
	require.Len(t, projected.Schema.Fields, 1)
	require.Same(t, tbl.Columns[1], projected.Columns[0])
}

func TestTableSelectUnknownNameErrors(t *testing.T) {
	tbl := buildTable(t)
	_, err := tbl.Select("missing")
	require.Error(t, err)
}

func TestTableSelectAt(t *testing.T) {
	tbl := buildTable(t)
	projected, err := tbl.SelectAt(1, 0)
	require.NoError(t, err)
	require.Equal(t, "score", projected.Schema.Fields[0].Name)
	require.Equal(t, "id", projected.Schema.Fields[1].Name)
}

func TestTableSelectAtOutOfRange(t *testing.T) {
	tbl := buildTable(t)
	_, err := tbl.SelectAt(5)
	require.Error(t, err)
}
