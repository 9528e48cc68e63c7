package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
)

// DefaultMaxBatchRows is the row ceiling a TableBuilder flushes at when no
// explicit limit is configured, chosen to keep one flushed batch's buffers
// well within a single IPC message's practical size.
const DefaultMaxBatchRows = 64 * 1024

// TableBuilder assembles one ColumnBuilder per schema field and flushes a
// completed arrowbatch.Batch per column every time the row cursor reaches
// MaxBatchRows, the same ceiling-and-flush shape as
// NumericEncoder.StartMetricID's MaxMetricCount check, generalized from
// "stop accepting a new metric" to "automatically flush and continue".
type TableBuilder struct {
	schema       arrowtype.Schema
	builders     []ColumnBuilder
	maxBatchRows int

	rows    int
	batches [][]*arrowbatch.Batch // batches[i] parallels schema.Fields[i]
}

// NewTableBuilder returns a table builder for schema, using builders[i] to
// accumulate schema.Fields[i]'s column. maxBatchRows <= 0 selects
// DefaultMaxBatchRows.
func NewTableBuilder(schema arrowtype.Schema, builders []ColumnBuilder, maxBatchRows int) (*TableBuilder, error) {
	if len(builders) != len(schema.Fields) {
		return nil, errs.InvalidArgument(fmt.Errorf("table builder: %d fields, %d column builders", len(schema.Fields), len(builders)))
	}
	if maxBatchRows <= 0 {
		maxBatchRows = DefaultMaxBatchRows
	}
	return &TableBuilder{
		schema:       schema,
		builders:     builders,
		maxBatchRows: maxBatchRows,
		batches:      make([][]*arrowbatch.Batch, len(builders)),
	}, nil
}

// AppendRow appends one row, values given positionally in schema field
// order, flushing a batch for every column once the row ceiling is
// reached.
func (t *TableBuilder) AppendRow(values []any) error {
	if len(values) != len(t.builders) {
		return errs.InvalidArgument(fmt.Errorf("%w: row has %d values, schema has %d fields", errs.ErrFieldCountMismatch, len(values), len(t.builders)))
	}
	for i, b := range t.builders {
		if err := b.Append(values[i]); err != nil {
			return fmt.Errorf("table builder field %q: %w", t.schema.Fields[i].Name, err)
		}
	}
	t.rows++
	if t.rows >= t.maxBatchRows {
		t.flush()
	}
	return nil
}

func (t *TableBuilder) flush() {
	if t.rows == 0 {
		return
	}
	for i, b := range t.builders {
		t.batches[i] = append(t.batches[i], b.Finish())
	}
	t.rows = 0
}

// NumRows returns the number of rows appended since the last flush.
func (t *TableBuilder) NumRows() int { return t.rows }

// Finish flushes any partially accumulated batch and returns the schema
// plus every flushed batch per column, in schema field order.
func (t *TableBuilder) Finish() (arrowtype.Schema, [][]*arrowbatch.Batch) {
	t.flush()
	return t.schema, t.batches
}
