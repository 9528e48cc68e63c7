package arrowbatch

import (
	"encoding/binary"
	"testing"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/stretchr/testify/require"
)

func buildViewRecord(length uint32, rest ...byte) []byte {
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[0:4], length)
	copy(rec[4:], rest)
	return rec
}

func TestViewAtInline(t *testing.T) {
	rec := buildViewRecord(5, []byte("hello")...)
	b := &Batch{Type: arrowtype.Utf8View(), Length: 1, Values: rec}
	v, ok := b.At(0)
	require.True(t, ok)
	require.Equal(t, "hello", v)
}

func TestViewAtOutOfLine(t *testing.T) {
	data := []byte("this value is definitely longer than twelve bytes")
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[0:4], uint32(len(data)))
	binary.LittleEndian.PutUint32(rec[8:12], 0) // buffer index
	binary.LittleEndian.PutUint32(rec[12:16], 0) // offset within buffer
	b := &Batch{
		Type:        arrowtype.Utf8View(),
		Length:      1,
		Values:      rec,
		DataBuffers: [][]byte{data},
	}
	v, ok := b.At(0)
	require.True(t, ok)
	require.Equal(t, string(data), v)
}
