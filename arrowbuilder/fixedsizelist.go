package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// FixedSizeListBuilder accumulates fixed-length slices behind a single
// child ColumnBuilder, with no offsets buffer: row i's elements always
// live at child rows [i*stride, (i+1)*stride). A null row still advances
// the child by stride nulls so that arithmetic keeps holding.
type FixedSizeListBuilder struct {
	elemField arrowtype.Field
	stride    int
	child     ColumnBuilder

	length    int
	nullCount int
	validity  bitfield.Bitmap
}

// NewFixedSizeListBuilder returns a builder for a FixedSizeList<elemField.Type>[stride]
// column, using child to accumulate every row's stride elements in order.
func NewFixedSizeListBuilder(elemField arrowtype.Field, stride int, child ColumnBuilder) *FixedSizeListBuilder {
	return &FixedSizeListBuilder{elemField: elemField, stride: stride, child: child}
}

func (b *FixedSizeListBuilder) Len() int { return b.length }

// Append accepts a []any of exactly stride element values, or nil for a
// null row (the child still receives stride null Appends).
func (b *FixedSizeListBuilder) Append(v any) error {
	row := b.length
	if v == nil {
		b.length++
		b.nullCount++
		b.validity.SetBit(row, false)
		for i := 0; i < b.stride; i++ {
			if err := b.child.Append(nil); err != nil {
				return err
			}
		}
		return nil
	}
	elems, ok := v.([]any)
	if !ok {
		return errs.InvalidArgument(fmt.Errorf("fixed size list builder: want []any, got %T", v))
	}
	if len(elems) != b.stride {
		return errs.InvalidArgument(fmt.Errorf("fixed size list builder: want %d elements, got %d", b.stride, len(elems)))
	}
	b.length++
	b.validity.SetBit(row, true)
	for _, e := range elems {
		if err := b.child.Append(e); err != nil {
			return err
		}
	}
	return nil
}

func (b *FixedSizeListBuilder) Finish() *arrowbatch.Batch {
	childBatch := b.child.Finish()
	t, _ := arrowtype.FixedSizeList(b.elemField.Type, b.stride)
	out := &arrowbatch.Batch{
		Type:      t,
		Length:    b.length,
		NullCount: b.nullCount,
		Children:  []*arrowbatch.Batch{childBatch},
	}
	if b.nullCount > 0 {
		out.Validity = b.validity
	}
	b.Reset()
	return out
}

func (b *FixedSizeListBuilder) Reset() {
	b.length = 0
	b.nullCount = 0
	b.validity = bitfield.Bitmap{}
}
