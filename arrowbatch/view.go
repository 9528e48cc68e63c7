package arrowbatch

import "encoding/binary"

// viewInlineLen is the maximum value length stored inline in a 16-byte view
// record before the value must be stored in a variadic data buffer.
const viewInlineLen = 12

// viewAt decodes row i's 16-byte BinaryView/Utf8View record: a 4-byte
// length, followed either by up to 12 inline bytes (short form) or a 4-byte
// prefix of the value, a 4-byte buffer index and a 4-byte offset into
// DataBuffers (long form).
func (b *Batch) viewAt(i int) []byte {
	i += b.RowOffset
	rec := b.Values[i*16 : i*16+16]
	length := binary.LittleEndian.Uint32(rec[0:4])

	if length <= viewInlineLen {
		return rec[4 : 4+length]
	}

	bufIdx := binary.LittleEndian.Uint32(rec[8:12])
	offset := binary.LittleEndian.Uint32(rec[12:16])
	data := b.DataBuffers[bufIdx]
	return data[offset : offset+length]
}
