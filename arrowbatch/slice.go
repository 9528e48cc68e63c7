package arrowbatch

// Slice returns a batch viewing logical rows [lo, hi) of b. No buffer is
// copied: every accessor already adds RowOffset before indexing into a
// shared backing buffer, so slicing is just a cheap shift-and-shrink of
// that offset, mirroring how a real Arrow array carries its own Offset
// rather than rewriting buffers on every slice.
func (b *Batch) Slice(lo, hi int) *Batch {
	out := *b
	out.RowOffset = b.RowOffset + lo
	out.Length = hi - lo

	if b.NullCount == 0 {
		out.NullCount = 0
		return &out
	}

	nulls := 0
	for i := lo; i < hi; i++ {
		if !b.Validity.Bit(i + b.RowOffset) {
			nulls++
		}
	}
	out.NullCount = nulls
	return &out
}
