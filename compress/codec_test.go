package compress

import (
	"testing"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/stretchr/testify/require"
)

// mockCodec lets tests exercise the registry without touching a real
// compression library, mirroring the teacher's MockCompressor idiom.
type mockCodec struct {
	compressFunc   func([]byte) ([]byte, error)
	decompressFunc func([]byte, int) ([]byte, error)
}

func (m mockCodec) Compress(data []byte) ([]byte, error) { return m.compressFunc(data) }
func (m mockCodec) Decompress(data []byte, n int) ([]byte, error) {
	return m.decompressFunc(data, n)
}

func TestGetReturnsNoopForCompressionNone(t *testing.T) {
	c, err := Get(arrowtype.CompressionNone)
	require.NoError(t, err)
	out, err := c.Compress([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), out)
}

func TestGetFailsUnsupportedWithoutRegistration(t *testing.T) {
	_, err := Get(arrowtype.CompressionCodec(200))
	require.Error(t, err)
}

func TestRegisterInstallsAndOverridesCodec(t *testing.T) {
	kind := arrowtype.CompressionCodec(201)
	Register(kind, mockCodec{
		compressFunc:   func(d []byte) ([]byte, error) { return append([]byte("mock:"), d...), nil },
		decompressFunc: func(d []byte, _ int) ([]byte, error) { return d[5:], nil },
	})
	c, err := Get(kind)
	require.NoError(t, err)
	out, err := c.Compress([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, []byte("mock:x"), out)
}

func TestFrameCompressStoresRawWhenCompressionDoesNotShrink(t *testing.T) {
	kind := arrowtype.CompressionCodec(202)
	Register(kind, mockCodec{
		compressFunc:   func(d []byte) ([]byte, error) { return append(append([]byte{}, d...), d...), nil }, // always grows
		decompressFunc: func(d []byte, _ int) ([]byte, error) { return d[:len(d)/2], nil },
	})

	data := []byte("small")
	framed, err := FrameCompress(kind, data)
	require.NoError(t, err)
	require.Equal(t, int64(-1), int64(leUint64(framed[:8])))
	require.Equal(t, data, framed[8:])
}

func TestFrameCompressDecompressRoundTrip(t *testing.T) {
	kind := arrowtype.CompressionCodec(203)
	Register(kind, mockCodec{
		compressFunc:   func(d []byte) ([]byte, error) { return d[:len(d)/2], nil }, // pretend halves
		decompressFunc: func(d []byte, n int) ([]byte, error) { return append(d, d...), nil },
	})

	data := []byte("0123401234") // two equal halves, so the halving mock is reversible
	framed, err := FrameCompress(kind, data)
	require.NoError(t, err)

	out, err := FrameDecompress(kind, framed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestFrameDecompressRejectsShortInput(t *testing.T) {
	_, err := FrameDecompress(arrowtype.CompressionLZ4Frame, []byte{1, 2, 3})
	require.Error(t, err)
}

func TestLz4CodecRoundTrips(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated for compressibility. " +
		"the quick brown fox jumps over the lazy dog, repeated for compressibility.")
	c := Lz4Codec{}
	compressed, err := c.Compress(data)
	require.NoError(t, err)
	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestZstdCodecRoundTrips(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated for compressibility. " +
		"the quick brown fox jumps over the lazy dog, repeated for compressibility.")
	c := ZstdCodec{}
	compressed, err := c.Compress(data)
	require.NoError(t, err)
	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
