package arrowbuilder

import "github.com/solandra/arrowlite/internal/options"

// Options gathers the choices ColumnFromValues/ColumnFromArray/
// TableFromArrays accept beyond the values themselves: the row ceiling a
// resulting TableBuilder would flush at, whether the column is nullable,
// and whether it should be dictionary-encoded.
type Options struct {
	MaxBatchRows int
	Nullable     bool
	Dictionary   bool
	DictionaryID int64
}

// Option configures an Options value, built on the teacher's generic
// functional-option helper rather than a bespoke func(*Options) type.
type Option = options.Option[*Options]

// WithMaxBatchRows sets the row ceiling a TableBuilder assembled from this
// call flushes a batch at.
func WithMaxBatchRows(n int) Option {
	return options.NoError(func(o *Options) { o.MaxBatchRows = n })
}

// WithNullable marks the resulting field nullable.
func WithNullable(nullable bool) Option {
	return options.NoError(func(o *Options) { o.Nullable = nullable })
}

// WithDictionary dictionary-encodes the column, interning its values and
// assigning them dictionary id.
func WithDictionary(id int64) Option {
	return options.NoError(func(o *Options) { o.Dictionary = true; o.DictionaryID = id })
}

// NewOptions applies every opt in order over the zero value (no batch
// splitting, non-nullable, no dictionary encoding). Option application
// here can never fail, so the error options.Apply threads through is
// always nil.
func NewOptions(opts ...Option) Options {
	var o Options
	_ = options.Apply(&o, opts...)
	return o
}
