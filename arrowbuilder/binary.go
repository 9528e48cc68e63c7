package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// BinaryBuilder accumulates variable-length byte/string values behind a
// 32-bit offsets buffer, backing both Binary and Utf8 (utf8 selects
// which Append accepts: a string for Utf8, a []byte for Binary).
type BinaryBuilder struct {
	t     arrowtype.Type
	utf8  bool
	length    int
	nullCount int
	validity  bitfield.Bitmap
	offsets   []int32
	values    []byte
}

// NewUtf8Builder returns a builder whose Append accepts string values.
func NewUtf8Builder() *BinaryBuilder {
	return &BinaryBuilder{t: arrowtype.Utf8(), utf8: true, offsets: []int32{0}}
}

// NewBinaryBuilder returns a builder whose Append accepts []byte values.
func NewBinaryBuilder() *BinaryBuilder {
	return &BinaryBuilder{t: arrowtype.Binary(), offsets: []int32{0}}
}

func (b *BinaryBuilder) Len() int { return b.length }

func (b *BinaryBuilder) Append(v any) error {
	row := b.length
	b.length++
	if v == nil {
		b.nullCount++
		b.validity.SetBit(row, false)
		b.offsets = append(b.offsets, int32(len(b.values)))
		return nil
	}
	b.validity.SetBit(row, true)

	var raw []byte
	if b.utf8 {
		s, ok := v.(string)
		if !ok {
			return errs.InvalidArgument(fmt.Errorf("utf8 builder: want string, got %T", v))
		}
		raw = []byte(s)
	} else {
		bs, ok := v.([]byte)
		if !ok {
			return errs.InvalidArgument(fmt.Errorf("binary builder: want []byte, got %T", v))
		}
		raw = bs
	}
	b.values = append(b.values, raw...)
	b.offsets = append(b.offsets, int32(len(b.values)))
	return nil
}

func (b *BinaryBuilder) Finish() *arrowbatch.Batch {
	out := &arrowbatch.Batch{
		Type:      b.t,
		Length:    b.length,
		NullCount: b.nullCount,
		Offsets32: b.offsets,
		Values:    b.values,
	}
	if b.nullCount > 0 {
		out.Validity = b.validity
	}
	b.Reset()
	return out
}

func (b *BinaryBuilder) Reset() {
	b.length = 0
	b.nullCount = 0
	b.validity = bitfield.Bitmap{}
	b.offsets = []int32{0}
	b.values = nil
}
