package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// StructBuilder accumulates one row of named field values per Append,
// delegating each field to its own child ColumnBuilder. Every child sees
// exactly one Append call per row (a nil field value, including an absent
// key, appends a null into that child), keeping every child's Len in sync
// with the struct's own row count.
type StructBuilder struct {
	fields   []arrowtype.Field
	children []ColumnBuilder

	length    int
	nullCount int
	validity  bitfield.Bitmap
}

// NewStructBuilder returns a builder for a Struct column whose fields and
// per-field builders are given in matching, declaration order.
func NewStructBuilder(fields []arrowtype.Field, children []ColumnBuilder) (*StructBuilder, error) {
	if len(fields) != len(children) {
		return nil, errs.InvalidArgument(fmt.Errorf("struct builder: %d fields, %d child builders", len(fields), len(children)))
	}
	return &StructBuilder{fields: fields, children: children}, nil
}

func (b *StructBuilder) Len() int { return b.length }

// Append accepts a map[string]any keyed by field name, or nil for a null
// row (every child still receives a null Append to stay row-aligned).
func (b *StructBuilder) Append(v any) error {
	row := b.length
	b.length++

	var fields map[string]any
	if v != nil {
		m, ok := v.(map[string]any)
		if !ok {
			return errs.InvalidArgument(fmt.Errorf("struct builder: want map[string]any, got %T", v))
		}
		fields = m
		b.validity.SetBit(row, true)
	} else {
		b.nullCount++
		b.validity.SetBit(row, false)
	}

	for i, f := range b.fields {
		var fv any
		if fields != nil {
			fv = fields[f.Name]
		}
		if err := b.children[i].Append(fv); err != nil {
			return fmt.Errorf("struct builder field %q: %w", f.Name, err)
		}
	}
	return nil
}

func (b *StructBuilder) Finish() *arrowbatch.Batch {
	childBatches := make([]*arrowbatch.Batch, len(b.children))
	for i, c := range b.children {
		childBatches[i] = c.Finish()
	}
	out := &arrowbatch.Batch{
		Type:      arrowtype.Struct(b.fields...),
		Length:    b.length,
		NullCount: b.nullCount,
		Children:  childBatches,
	}
	if b.nullCount > 0 {
		out.Validity = b.validity
	}
	b.Reset()
	return out
}

func (b *StructBuilder) Reset() {
	b.length = 0
	b.nullCount = 0
	b.validity = bitfield.Bitmap{}
}
