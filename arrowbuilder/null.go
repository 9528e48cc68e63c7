package arrowbuilder

import (
	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
)

// NullBuilder accumulates a Null column: every row is null by definition,
// and Finish emits a field node with no buffers at all, matching
// ipc/encode.go's encodeNull.
type NullBuilder struct {
	length int
}

func NewNullBuilder() *NullBuilder { return &NullBuilder{} }

func (b *NullBuilder) Len() int { return b.length }

// Append ignores v (every row is null regardless) and counts one row.
func (b *NullBuilder) Append(any) error {
	b.length++
	return nil
}

func (b *NullBuilder) Finish() *arrowbatch.Batch {
	out := &arrowbatch.Batch{Type: arrowtype.Null(), Length: b.length, NullCount: b.length}
	b.Reset()
	return out
}

func (b *NullBuilder) Reset() { b.length = 0 }
