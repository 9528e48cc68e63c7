package arrowbatch

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/internal/bitfield"
	"github.com/stretchr/testify/require"
)

func int32Values(vs ...int32) []byte {
	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}

func TestDirectIntRoundTrips(t *testing.T) {
	b := &Batch{Type: arrowtype.Int32(), Length: 3, Values: int32Values(1, -2, 3)}
	v, ok := b.At(0)
	require.True(t, ok)
	require.Equal(t, int32(1), v)
	v, ok = b.At(1)
	require.True(t, ok)
	require.Equal(t, int32(-2), v)
}

func TestIsValidBypassesBitmapWhenNullCountZero(t *testing.T) {
	b := &Batch{Type: arrowtype.Int32(), Length: 2, NullCount: 0, Values: int32Values(1, 2)}
	require.True(t, b.IsValid(0))
	require.True(t, b.IsValid(1))
}

func TestIsValidConsultsBitmapWhenNullCountNonZero(t *testing.T) {
	bm := bitfield.NewBitmap(2)
	bm.SetBit(0, true)
	bm.SetBit(1, false)
	b := &Batch{Type: arrowtype.Int32(), Length: 2, NullCount: 1, Validity: bm, Values: int32Values(1, 2)}
	require.True(t, b.IsValid(0))
	require.False(t, b.IsValid(1))
	_, ok := b.At(1)
	require.False(t, ok)
}

func TestFloat16Decode(t *testing.T) {
	cases := []struct {
		name string
		bits uint16
		want float32
	}{
		{"zero", 0x0000, 0},
		{"one", 0x3C00, 1},
		{"negative-two", 0xC000, -2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.InDelta(t, c.want, decodeFloat16(c.bits), 1e-6)
		})
	}
}

func TestFloat16Special(t *testing.T) {
	require.True(t, math.IsInf(float64(decodeFloat16(0x7C00)), 1))
	require.True(t, math.IsInf(float64(decodeFloat16(0xFC00)), -1))
	require.True(t, math.IsNaN(float64(decodeFloat16(0x7E00))))
}

func TestDecimalAtNegativeValue(t *testing.T) {
	typ, err := arrowtype.Decimal32(9, 2)
	require.NoError(t, err)
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, uint32(int32(-12345)))
	b := &Batch{Type: typ, Length: 1, Values: raw}
	got := b.decimalAt(0)
	require.Equal(t, int64(-12345), got.Int64())
}

func TestFixedSizeBinaryAt(t *testing.T) {
	typ, err := arrowtype.FixedSizeBinary(3)
	require.NoError(t, err)
	b := &Batch{Type: typ, Length: 2, Values: []byte{1, 2, 3, 4, 5, 6}}
	require.Equal(t, []byte{1, 2, 3}, b.fixedSizeBinaryAt(0))
	require.Equal(t, []byte{4, 5, 6}, b.fixedSizeBinaryAt(1))
}
