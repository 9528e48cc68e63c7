// Package arrowlite is the root facade over the columnar decoder/encoder:
// read a stream or file's IPC bytes into a queryable Table, build a Table
// from Go values, and write either back out to IPC bytes. The component
// packages (arrowtype, arrowbatch, arrowtable, ipc, arrowbuilder, compress)
// are usable directly; this package exists purely to collapse the common
// paths through them into one call.
package arrowlite

import (
	"fmt"
	"io"
	"reflect"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowbuilder"
	"github.com/solandra/arrowlite/arrowtable"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/compress"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/ipc"
)

// DecodeIPC decodes r's IPC stream or file framing into its raw schema and
// per-column record batches, with no row-alignment or dictionary-resolved
// table built over it. Most callers want TableFromIPC instead.
func DecodeIPC(r io.Reader) (*ipc.Result, error) {
	return ipc.DecodeIPC(r)
}

// TableFromIPC decodes r and assembles a Table over it, applying opts'
// proxy-struct and keyed-map rendering to every batch, nested ones
// included. The date, decimal and 64-bit integer options are not applied
// here; Column.At returns those values in their raw form.
func TableFromIPC(r io.Reader, opts ...arrowtable.DecodeOption) (*arrowtable.Table, error) {
	res, err := ipc.DecodeIPC(r)
	if err != nil {
		return nil, err
	}

	decodeOpts := arrowtable.NewDecodeOptions(opts...)
	columns := make([]*arrowtable.Column, len(res.Schema.Fields))
	for i, field := range res.Schema.Fields {
		for _, batch := range res.Columns[i] {
			decodeOpts.ApplyTo(batch)
		}
		columns[i] = arrowtable.NewColumn(field, res.Columns[i])
	}
	return arrowtable.NewTable(res.Schema, columns), nil
}

// TableToIPC writes t to w as a stream-format IPC message sequence: one
// schema message, then one RecordBatch message per row-position shared
// across every column's batch boundaries.
func TableToIPC(w io.Writer, t *arrowtable.Table, opts ...ipc.WriteOption) error {
	writer := ipc.NewWriter(w, t.Schema, opts...)

	numBatches := 0
	if len(t.Columns) > 0 {
		numBatches = len(t.Columns[0].Batches)
	}
	for _, col := range t.Columns {
		if len(col.Batches) != numBatches {
			return errs.InvalidArgument(fmt.Errorf("%w: column %q has %d batches, column 0 has %d", errs.ErrInconsistentBatchBoundary, col.Field.Name, len(col.Batches), numBatches))
		}
	}

	for i := 0; i < numBatches; i++ {
		row := make([]*arrowbatch.Batch, len(t.Columns))
		numRows := int64(0)
		for c, col := range t.Columns {
			row[c] = col.Batches[i]
			numRows = int64(col.Batches[i].Length)
		}
		if err := writer.WriteRecordBatch(row, numRows); err != nil {
			return err
		}
	}
	return writer.Close()
}

// TableFromColumns pairs fields with already-built columns positionally.
func TableFromColumns(fields []arrowtype.Field, columns []*arrowtable.Column) (*arrowtable.Table, error) {
	if len(fields) != len(columns) {
		return nil, errs.InvalidArgument(fmt.Errorf("%w: %d fields, %d columns", errs.ErrFieldCountMismatch, len(fields), len(columns)))
	}
	return arrowtable.NewTable(arrowtype.Schema{Fields: fields}, columns), nil
}

// ColumnFromValues infers a type from values (or uses WithDictionary to
// dictionary-encode them) and builds a single-batch Column named name.
func ColumnFromValues(name string, values []any, opts ...arrowbuilder.Option) (*arrowtable.Column, error) {
	o := arrowbuilder.NewOptions(opts...)

	valueType, err := arrowbuilder.InferType(values)
	if err != nil {
		return nil, err
	}
	// InferType itself resolves an all-string column to a dictionary type;
	// WithDictionary is the caller's own opt-in to emit one, so unwrap back
	// to the plain value type and let that option decide.
	if dt, ok := valueType.(*arrowtype.DictionaryType); ok {
		valueType = dt.Value
	}

	if o.Dictionary {
		return dictionaryColumn(name, valueType, values, o)
	}

	builder, err := arrowbuilder.BuilderForType(valueType)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := builder.Append(v); err != nil {
			return nil, err
		}
	}
	field := arrowtype.Field{Name: name, Type: valueType, Nullable: o.Nullable || containsNil(values)}
	return arrowtable.NewColumn(field, []*arrowbatch.Batch{builder.Finish()}), nil
}

func dictionaryColumn(name string, valueType arrowtype.Type, values []any, o arrowbuilder.Options) (*arrowtable.Column, error) {
	valueBuilder, err := arrowbuilder.BuilderForType(valueType)
	if err != nil {
		return nil, err
	}
	db := arrowbuilder.NewDictionaryBuilder(o.DictionaryID, valueType, valueBuilder)
	for _, v := range values {
		if err := db.Append(v); err != nil {
			return nil, err
		}
	}
	indices := db.Finish()
	dictValues, _ := db.ValuesBatch()

	dictType := indices.Type
	itemField := arrowtype.Field{Name: "item", Type: valueType, Nullable: true}
	dictCol := arrowtable.NewColumn(itemField, []*arrowbatch.Batch{dictValues})
	indices.Dictionary = dictCol

	field := arrowtype.Field{Name: name, Type: dictType, Nullable: o.Nullable}
	return arrowtable.NewColumn(field, []*arrowbatch.Batch{indices}), nil
}

func containsNil(values []any) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

// ColumnFromArray is ColumnFromValues over a native Go slice (e.g.
// []int32, []string) instead of []any, for callers that already have a
// typed slice in hand.
func ColumnFromArray(name string, array any, opts ...arrowbuilder.Option) (*arrowtable.Column, error) {
	values, err := toAnySlice(array)
	if err != nil {
		return nil, err
	}
	return ColumnFromValues(name, values, opts...)
}

// TableFromArrays builds one column per name/array pair via
// ColumnFromArray and assembles them into a Table.
func TableFromArrays(names []string, arrays []any, opts ...arrowbuilder.Option) (*arrowtable.Table, error) {
	if len(names) != len(arrays) {
		return nil, errs.InvalidArgument(fmt.Errorf("%w: %d names, %d arrays", errs.ErrFieldCountMismatch, len(names), len(arrays)))
	}
	fields := make([]arrowtype.Field, len(names))
	columns := make([]*arrowtable.Column, len(names))
	for i, name := range names {
		col, err := ColumnFromArray(name, arrays[i], opts...)
		if err != nil {
			return nil, err
		}
		columns[i] = col
		fields[i] = col.Field
	}
	return arrowtable.NewTable(arrowtype.Schema{Fields: fields}, columns), nil
}

// toAnySlice reflects over a native Go slice, boxing every element as any
// (nil elements of a pointer/interface-kinded slice become untyped nil).
func toAnySlice(array any) ([]any, error) {
	rv := reflect.ValueOf(array)
	if rv.Kind() != reflect.Slice {
		return nil, errs.InvalidArgument(fmt.Errorf("arrowlite: array must be a slice, got %T", array))
	}
	out := make([]any, rv.Len())
	for i := range out {
		ev := rv.Index(i)
		if (ev.Kind() == reflect.Ptr || ev.Kind() == reflect.Interface) && ev.IsNil() {
			out[i] = nil
			continue
		}
		out[i] = ev.Interface()
	}
	return out, nil
}

// SetCompressionCodec installs (or replaces) the codec used for kind.
func SetCompressionCodec(kind arrowtype.CompressionCodec, c compress.Codec) {
	compress.Register(kind, c)
}

// GetCompressionCodec returns the codec registered for kind, or an
// Unsupported error if none has been registered.
func GetCompressionCodec(kind arrowtype.CompressionCodec) (compress.Codec, error) {
	return compress.Get(kind)
}
