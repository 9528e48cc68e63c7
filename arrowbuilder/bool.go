package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// BoolBuilder accumulates booleans into the same packed-bit representation
// bitfield.Bitmap uses for validity, reusing it for the Values buffer too.
type BoolBuilder struct {
	length    int
	nullCount int
	validity  bitfield.Bitmap
	values    bitfield.Bitmap
}

func NewBoolBuilder() *BoolBuilder { return &BoolBuilder{} }

func (b *BoolBuilder) Len() int { return b.length }

func (b *BoolBuilder) Append(v any) error {
	row := b.length
	b.length++
	if v == nil {
		b.nullCount++
		b.validity.SetBit(row, false)
		b.values.SetBit(row, false)
		return nil
	}
	bv, ok := v.(bool)
	if !ok {
		return errs.InvalidArgument(fmt.Errorf("bool builder: want bool, got %T", v))
	}
	b.validity.SetBit(row, true)
	b.values.SetBit(row, bv)
	return nil
}

func (b *BoolBuilder) Finish() *arrowbatch.Batch {
	out := &arrowbatch.Batch{
		Type:      arrowtype.Bool(),
		Length:    b.length,
		NullCount: b.nullCount,
		Values:    b.values.Bytes(),
	}
	if b.nullCount > 0 {
		out.Validity = b.validity
	}
	b.Reset()
	return out
}

func (b *BoolBuilder) Reset() {
	b.length = 0
	b.nullCount = 0
	b.validity = bitfield.Bitmap{}
	b.values = bitfield.Bitmap{}
}
