package arrowbatch

import (
	"testing"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/internal/bitfield"
	"github.com/stretchr/testify/require"
)

func TestSliceDirectValuesSharesBuffer(t *testing.T) {
	b := &Batch{Type: arrowtype.Int32(), Length: 5, Values: int32Values(1, 2, 3, 4, 5)}
	s := b.Slice(1, 4)
	require.Equal(t, 3, s.Len())
	v, ok := s.At(0)
	require.True(t, ok)
	require.Equal(t, int32(2), v)
	v, _ = s.At(2)
	require.Equal(t, int32(4), v)

	// Sharing the same backing array: mutating the parent's buffer is
	// visible through the slice.
	require.Same(t, &b.Values[0], &s.Values[0])
}

func TestSliceRecomputesNullCount(t *testing.T) {
	bm := bitfield.NewBitmap(5)
	bm.SetBit(0, true)
	bm.SetBit(1, false)
	bm.SetBit(2, true)
	bm.SetBit(3, false)
	bm.SetBit(4, true)
	b := &Batch{Type: arrowtype.Int32(), Length: 5, NullCount: 2, Validity: bm, Values: int32Values(1, 2, 3, 4, 5)}

	s := b.Slice(1, 4)
	require.Equal(t, 2, s.NullCount)
	require.False(t, s.IsValid(0))
	require.True(t, s.IsValid(1))
	require.False(t, s.IsValid(2))
}

func TestSliceOfListPreservesChildIndices(t *testing.T) {
	child := &Batch{Type: arrowtype.Int32(), Length: 5, Values: int32Values(10, 20, 30, 40, 50)}
	b := &Batch{
		Type:      arrowtype.List(arrowtype.Int32()),
		Length:    2,
		Offsets32: []int32{0, 2, 5},
		Children:  []*Batch{child},
	}
	s := b.Slice(1, 2)
	v, ok := s.At(0)
	require.True(t, ok)
	require.Equal(t, []any{int32(30), int32(40), int32(50)}, v)
}
