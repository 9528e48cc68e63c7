package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
)

// UnionBuilder dispatches each appended value to one of several child
// ColumnBuilders via the union type's Classify callback, which maps a value
// to its wire type id. Sparse mode keeps every child's row count equal to
// the union's own by appending null into every non-chosen child; dense
// mode appends only to the chosen child and records its post-append row
// index in an offsets buffer, matching ipc/encode.go's unconditional
// per-child recursion on the sparse side and its offsets-buffer use on the
// dense side.
type UnionBuilder struct {
	ut       *arrowtype.UnionType
	children []ColumnBuilder

	length  int
	typeIDs []int8
	offsets []int32 // dense mode only
}

// NewUnionBuilder returns a builder for ut, whose children must be given in
// the same order as ut.Children (and ut.TypeIDs).
func NewUnionBuilder(ut *arrowtype.UnionType, children []ColumnBuilder) (*UnionBuilder, error) {
	if len(children) != len(ut.Children) {
		return nil, errs.InvalidArgument(fmt.Errorf("union builder: %d children, %d child builders", len(ut.Children), len(children)))
	}
	if ut.Classify == nil {
		return nil, errs.InvalidArgument(fmt.Errorf("union builder: type has no classifier"))
	}
	return &UnionBuilder{ut: ut, children: children}, nil
}

func (b *UnionBuilder) Len() int { return b.length }

// Append classifies v via the union's Classify callback to choose a child,
// then appends v to that child. A union has no top-level null row: an
// individual child may still hold a null value for this row.
func (b *UnionBuilder) Append(v any) error {
	typeID := b.ut.Classify(v)
	childIdx, ok := b.ut.ChildIndex(typeID)
	if !ok {
		return errs.InvalidArgument(fmt.Errorf("%w: %d", errs.ErrUnsupportedTypeID, typeID))
	}
	b.length++
	b.typeIDs = append(b.typeIDs, typeID)

	if b.ut.Mode == arrowtype.SparseUnion {
		for i, child := range b.children {
			if i == childIdx {
				if err := child.Append(v); err != nil {
					return err
				}
				continue
			}
			if err := child.Append(nil); err != nil {
				return err
			}
		}
		return nil
	}

	offset := int32(b.children[childIdx].Len())
	if err := b.children[childIdx].Append(v); err != nil {
		return err
	}
	b.offsets = append(b.offsets, offset)
	return nil
}

func (b *UnionBuilder) Finish() *arrowbatch.Batch {
	childBatches := make([]*arrowbatch.Batch, len(b.children))
	for i, c := range b.children {
		childBatches[i] = c.Finish()
	}
	out := &arrowbatch.Batch{
		Type:     b.ut,
		Length:   b.length,
		TypeIDs:  b.typeIDs,
		Children: childBatches,
	}
	if b.ut.Mode == arrowtype.DenseUnion {
		out.Offsets32 = b.offsets
	}
	b.Reset()
	return out
}

func (b *UnionBuilder) Reset() {
	b.length = 0
	b.typeIDs = nil
	b.offsets = nil
}
