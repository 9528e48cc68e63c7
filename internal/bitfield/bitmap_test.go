package bitfield

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetBitAndBitRoundTrip(t *testing.T) {
	bm := NewBitmap(10)
	bm.SetBit(0, true)
	bm.SetBit(3, true)
	bm.SetBit(9, true)

	for i := 0; i < 10; i++ {
		want := i == 0 || i == 3 || i == 9
		require.Equal(t, want, bm.Bit(i), "bit %d", i)
	}
}

func TestSetBitGrowsBackingSlice(t *testing.T) {
	bm := NewBitmap(1)
	bm.SetBit(100, true)
	require.True(t, bm.Bit(100))
	require.GreaterOrEqual(t, len(bm.Bytes()), 13)
}

func TestOnesCountMatchesSetBits(t *testing.T) {
	bm := NewBitmap(16)
	for _, i := range []int{1, 2, 5, 8, 15} {
		bm.SetBit(i, true)
	}
	require.Equal(t, 5, bm.OnesCount())
}

func TestWrapReadsExistingPackedBytes(t *testing.T) {
	// bit 0 and bit 4 set: 0b0001_0001 = 0x11
	bm := Wrap([]byte{0x11}, 8)
	require.True(t, bm.Bit(0))
	require.False(t, bm.Bit(1))
	require.True(t, bm.Bit(4))
	require.False(t, bm.Bit(7))
}

func TestSliceByteAlignedIsZeroCopy(t *testing.T) {
	bm := NewBitmap(16)
	bm.SetBit(8, true)
	bm.SetBit(9, true)

	sub := bm.Slice(8, 16)
	require.Equal(t, 8, sub.Len())
	require.True(t, sub.Bit(0))
	require.True(t, sub.Bit(1))
	require.False(t, sub.Bit(2))
}

func TestSliceUnalignedMaterializes(t *testing.T) {
	bm := NewBitmap(16)
	bm.SetBit(3, true)
	bm.SetBit(5, true)

	sub := bm.Slice(3, 7)
	require.Equal(t, 4, sub.Len())
	require.True(t, sub.Bit(0))
	require.False(t, sub.Bit(1))
	require.True(t, sub.Bit(2))
	require.False(t, sub.Bit(3))
}
