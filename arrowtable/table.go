package arrowtable

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
)

// Table is a schema plus one Column per field, row-aligned: row i of every
// column belongs to the same logical record.
type Table struct {
	Schema  arrowtype.Schema
	Columns []*Column
}

// NewTable pairs a schema with its columns in field order.
func NewTable(schema arrowtype.Schema, columns []*Column) *Table {
	return &Table{Schema: schema, Columns: columns}
}

// NumRows returns the row count shared by every column, or 0 if the table
// has no columns.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnByName returns the named column, or (nil, false) if no field with
// that name exists. Matches the data model's first-match rule for
// duplicate names.
func (t *Table) ColumnByName(name string) (*Column, bool) {
	for i, f := range t.Schema.Fields {
		if f.Name == name {
			return t.Columns[i], true
		}
	}
	return nil, false
}

// Select projects the table down to the named columns, in the order
// requested. Columns are shared by reference with the source table, so a
// projected table's Dictionary-typed batches still resolve through their
// original dictionary column.
func (t *Table) Select(names ...string) (*Table, error) {
	fields := make([]arrowtype.Field, 0, len(names))
	columns := make([]*Column, 0, len(names))
	for _, name := range names {
		idx := t.Schema.IndexOf(name)
		if idx < 0 {
			return nil, errs.InvalidArgument(fmt.Errorf("%w: %q", errs.ErrColumnNotFound, name))
		}
		fields = append(fields, t.Schema.Fields[idx])
		columns = append(columns, t.Columns[idx])
	}
	return &Table{
		Schema:  arrowtype.Schema{Fields: fields, Metadata: t.Schema.Metadata},
		Columns: columns,
	}, nil
}

// SelectAt projects the table down to the columns at the given indices, in
// the order requested, sharing columns by reference with the source table.
func (t *Table) SelectAt(indices ...int) (*Table, error) {
	fields := make([]arrowtype.Field, 0, len(indices))
	columns := make([]*Column, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(t.Schema.Fields) {
			return nil, errs.InvalidArgument(fmt.Errorf("%w: %d", errs.ErrColumnIndexOutOfRange, idx))
		}
		fields = append(fields, t.Schema.Fields[idx])
		columns = append(columns, t.Columns[idx])
	}
	return &Table{
		Schema:  arrowtype.Schema{Fields: fields, Metadata: t.Schema.Metadata},
		Columns: columns,
	}, nil
}

// Row materializes row i as a name-to-value map across every column.
func (t *Table) Row(i int) (map[string]any, bool) {
	row := make(map[string]any, len(t.Columns))
	for colIdx, col := range t.Columns {
		v, ok := col.At(i)
		if !ok {
			v = nil
		}
		row[t.Schema.Fields[colIdx].Name] = v
	}
	return row, i >= 0 && i < t.NumRows()
}
