// Package arrowbuilder implements the write path: per-type column builders
// that accumulate Go values and emit arrowbatch.Batch values the ipc
// encoder can serialize, plus a TableBuilder that assembles one builder per
// schema field and splits accumulated rows into batches at a configured row
// ceiling.
//
// The state-machine shape (claim-then-fill-then-reset) is carried over from
// a metric encoder that claims a data point count up front, appends exactly
// that many values, then resets for the next metric; here a builder has no
// claimed count (callers append freely) but still resets its internal
// state to a fresh buffer once Finish is called, so the builder is reused
// for the next batch and never writes into a batch it already returned.
package arrowbuilder

import "github.com/solandra/arrowlite/arrowbatch"

// ColumnBuilder accumulates one column's values and emits a finished batch.
// Implementations are not safe for concurrent use.
type ColumnBuilder interface {
	// Len returns the number of rows appended since the last Reset/Finish.
	Len() int

	// Append adds one logical value. A nil v appends a null row. The
	// concrete type expected for v varies per builder; an unsupported
	// dynamic type returns an InvalidArgument error.
	Append(v any) error

	// Finish returns a batch holding every row appended since the last
	// Reset, then resets the builder so it can be reused for the next
	// batch. Finish on a builder with zero rows still returns a valid
	// zero-length batch.
	Finish() *arrowbatch.Batch

	// Reset discards any accumulated rows without producing a batch.
	Reset()
}
