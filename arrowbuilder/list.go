package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// ListBuilder accumulates slices of Go values behind a 32-bit offsets
// buffer, delegating each element's value to a single child ColumnBuilder
// shared across every row.
type ListBuilder struct {
	elemField arrowtype.Field
	child     ColumnBuilder

	length    int
	nullCount int
	validity  bitfield.Bitmap
	offsets   []int32
}

// NewListBuilder returns a builder for a List<elemField.Type> column, using
// child to accumulate every row's elements in order.
func NewListBuilder(elemField arrowtype.Field, child ColumnBuilder) *ListBuilder {
	return &ListBuilder{elemField: elemField, child: child, offsets: []int32{0}}
}

func (b *ListBuilder) Len() int { return b.length }

// Append accepts a []any of element values (each passed through to the
// child builder's Append), or nil for a null row.
func (b *ListBuilder) Append(v any) error {
	row := b.length
	b.length++
	if v == nil {
		b.nullCount++
		b.validity.SetBit(row, false)
		b.offsets = append(b.offsets, int32(b.child.Len()))
		return nil
	}
	elems, ok := v.([]any)
	if !ok {
		return errs.InvalidArgument(fmt.Errorf("list builder: want []any, got %T", v))
	}
	b.validity.SetBit(row, true)
	for _, e := range elems {
		if err := b.child.Append(e); err != nil {
			return err
		}
	}
	b.offsets = append(b.offsets, int32(b.child.Len()))
	return nil
}

func (b *ListBuilder) Finish() *arrowbatch.Batch {
	childBatch := b.child.Finish()
	out := &arrowbatch.Batch{
		Type:      arrowtype.List(b.elemField.Type),
		Length:    b.length,
		NullCount: b.nullCount,
		Offsets32: b.offsets,
		Children:  []*arrowbatch.Batch{childBatch},
	}
	if b.nullCount > 0 {
		out.Validity = b.validity
	}
	b.Reset()
	return out
}

func (b *ListBuilder) Reset() {
	b.length = 0
	b.nullCount = 0
	b.validity = bitfield.Bitmap{}
	b.offsets = []int32{0}
}
