// Package arrowtable assembles decoded arrowbatch.Batch columns across
// record batches into a queryable Table, with row access that bisects a
// cumulative row-count index rather than scanning every batch.
package arrowtable

import (
	"math"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
)

// Column is one schema field's data across every record batch in a stream
// or file, addressable by a single global row index.
type Column struct {
	Field   arrowtype.Field
	Batches []*arrowbatch.Batch

	// offsets[k] is the global row index at which Batches[k] begins;
	// offsets[len(Batches)] is the column's total row count.
	offsets []int
}

// NewColumn builds a Column over the given batches, computing the
// cumulative offset index once up front.
func NewColumn(field arrowtype.Field, batches []*arrowbatch.Batch) *Column {
	offsets := make([]int, len(batches)+1)
	total := 0
	for i, b := range batches {
		offsets[i] = total
		total += b.Len()
	}
	offsets[len(batches)] = total
	return &Column{Field: field, Batches: batches, offsets: offsets}
}

// Len returns the column's total row count across all batches.
func (c *Column) Len() int {
	if len(c.offsets) == 0 {
		return 0
	}
	return c.offsets[len(c.offsets)-1]
}

// At returns the value at global row i, resolved to its owning batch by
// bisecting the cumulative offset index.
func (c *Column) At(i int) (any, bool) {
	if i < 0 || i >= c.Len() {
		return nil, false
	}
	batchIdx, local := c.locate(i)
	return c.Batches[batchIdx].At(local)
}

// locate finds the batch owning global row i and the corresponding local
// row within it. The midpoint computation takes a 32-bit-safe fast path
// when the column's total row count fits an int32, and falls back to
// exact integer division otherwise to avoid overflow on very large
// columns.
func (c *Column) locate(i int) (batchIdx, local int) {
	lo, hi := 0, len(c.Batches)-1
	total := c.offsets[len(c.offsets)-1]
	fitsInt32 := total <= math.MaxInt32

	for lo < hi {
		var mid int
		if fitsInt32 {
			mid = int(int32(lo+hi) >> 1)
		} else {
			mid = lo + (hi-lo)/2
		}
		if c.offsets[mid+1] <= i {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, i - c.offsets[lo]
}
