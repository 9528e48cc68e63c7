package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// MapBuilder accumulates one ordered list of key/value pairs per row,
// physically a list of two-field structs: a shared key child and a shared
// value child, behind a 32-bit offsets buffer exactly like ListBuilder.
// Append takes []arrowbatch.MapEntry rather than a Go map so row order
// round-trips through decode under MapRowPairs instead of being lost to
// Go's unordered map iteration.
type MapBuilder struct {
	keyType       arrowtype.Type
	valueType     arrowtype.Type
	valueNullable bool
	keysSorted    bool
	keyBldr       ColumnBuilder
	valueBldr     ColumnBuilder

	length    int
	nullCount int
	validity  bitfield.Bitmap
	offsets   []int32
}

// NewMapBuilder returns a builder for a Map<keyType, valueType> column,
// using keyBldr/valueBldr to accumulate every row's entries in order.
func NewMapBuilder(keyType, valueType arrowtype.Type, valueNullable, keysSorted bool, keyBldr, valueBldr ColumnBuilder) *MapBuilder {
	return &MapBuilder{
		keyType:       keyType,
		valueType:     valueType,
		valueNullable: valueNullable,
		keysSorted:    keysSorted,
		keyBldr:       keyBldr,
		valueBldr:     valueBldr,
		offsets:       []int32{0},
	}
}

func (b *MapBuilder) Len() int { return b.length }

// Append accepts a []arrowbatch.MapEntry of this row's pairs in order, or
// nil for a null row.
func (b *MapBuilder) Append(v any) error {
	row := b.length
	b.length++
	if v == nil {
		b.nullCount++
		b.validity.SetBit(row, false)
		b.offsets = append(b.offsets, int32(b.keyBldr.Len()))
		return nil
	}
	entries, ok := v.([]arrowbatch.MapEntry)
	if !ok {
		return errs.InvalidArgument(fmt.Errorf("map builder: want []arrowbatch.MapEntry, got %T", v))
	}
	b.validity.SetBit(row, true)
	for _, e := range entries {
		if err := b.keyBldr.Append(e.Key); err != nil {
			return fmt.Errorf("map builder key: %w", err)
		}
		if err := b.valueBldr.Append(e.Value); err != nil {
			return fmt.Errorf("map builder value: %w", err)
		}
	}
	b.offsets = append(b.offsets, int32(b.keyBldr.Len()))
	return nil
}

func (b *MapBuilder) Finish() *arrowbatch.Batch {
	keyBatch := b.keyBldr.Finish()
	valueBatch := b.valueBldr.Finish()
	entries := &arrowbatch.Batch{
		Type: arrowtype.Struct(
			arrowtype.Field{Name: "key", Type: b.keyType, Nullable: false},
			arrowtype.Field{Name: "value", Type: b.valueType, Nullable: b.valueNullable},
		),
		Length:   keyBatch.Length,
		Children: []*arrowbatch.Batch{keyBatch, valueBatch},
	}
	out := &arrowbatch.Batch{
		Type:      arrowtype.Map(b.keyType, b.valueType, b.valueNullable, b.keysSorted),
		Length:    b.length,
		NullCount: b.nullCount,
		Offsets32: b.offsets,
		Children:  []*arrowbatch.Batch{entries},
	}
	if b.nullCount > 0 {
		out.Validity = b.validity
	}
	b.Reset()
	return out
}

func (b *MapBuilder) Reset() {
	b.length = 0
	b.nullCount = 0
	b.validity = bitfield.Bitmap{}
	b.offsets = []int32{0}
}
