package arrowtable

import (
	"encoding/binary"
	"testing"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/stretchr/testify/require"
)

func int32Batch(vs ...int32) *arrowbatch.Batch {
	raw := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(v))
	}
	return &arrowbatch.Batch{Type: arrowtype.Int32(), Length: len(vs), Values: raw}
}

func TestColumnAtSpansMultipleBatches(t *testing.T) {
	col := NewColumn(
		arrowtype.Field{Name: "n", Type: arrowtype.Int32()},
		[]*arrowbatch.Batch{int32Batch(1, 2, 3), int32Batch(4, 5), int32Batch(6)},
	)
	require.Equal(t, 6, col.Len())

	for i, want := range []int32{1, 2, 3, 4, 5, 6} {
		v, ok := col.At(i)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

func TestColumnAtOutOfRange(t *testing.T) {
	col := NewColumn(arrowtype.Field{Name: "n", Type: arrowtype.Int32()}, []*arrowbatch.Batch{int32Batch(1, 2)})
	_, ok := col.At(-1)
	require.False(t, ok)
	_, ok = col.At(2)
	require.False(t, ok)
}

func TestColumnSingleBatchBoundary(t *testing.T) {
	col := NewColumn(arrowtype.Field{Name: "n", Type: arrowtype.Int32()}, []*arrowbatch.Batch{int32Batch(10, 20, 30)})
	v, ok := col.At(2)
	require.True(t, ok)
	require.Equal(t, int32(30), v)
}
