package arrowbatch

import "github.com/solandra/arrowlite/arrowtype"

// binaryAt32 slices Values using the 32-bit offsets buffer, backing
// Binary/Utf8/List/Map.
func (b *Batch) binaryAt32(i int) []byte {
	i += b.RowOffset
	lo, hi := b.Offsets32[i], b.Offsets32[i+1]
	return b.Values[lo:hi]
}

// binaryAt64 slices Values using the 64-bit offsets buffer, backing
// LargeBinary/LargeUtf8/LargeList.
func (b *Batch) binaryAt64(i int) []byte {
	i += b.RowOffset
	lo, hi := b.Offsets64[i], b.Offsets64[i+1]
	return b.Values[lo:hi]
}

// listAt32 returns the element values of row i's list, read from the
// single child batch at the range given by the 32-bit offsets buffer.
func (b *Batch) listAt32(i int) []any {
	i += b.RowOffset
	lo, hi := b.Offsets32[i], b.Offsets32[i+1]
	return childValues(b.Children[0], int(lo), int(hi))
}

// listAt64 is listAt32's 64-bit-offset counterpart, backing LargeList.
func (b *Batch) listAt64(i int) []any {
	i += b.RowOffset
	lo, hi := b.Offsets64[i], b.Offsets64[i+1]
	return childValues(b.Children[0], int(lo), int(hi))
}

// listViewAt32 reads row i's element range from the paired offsets/sizes
// buffers rather than from adjacent offset boundaries, so ListView rows may
// overlap or appear out of order relative to each other.
func (b *Batch) listViewAt32(i int) []any {
	i += b.RowOffset
	lo := b.Offsets32[i]
	n := b.Sizes[i]
	return childValues(b.Children[0], int(lo), int(lo+n))
}

// listViewAt64 is listViewAt32's 64-bit-offset counterpart, backing
// LargeListView.
func (b *Batch) listViewAt64(i int) []any {
	i += b.RowOffset
	lo := b.Offsets64[i]
	n := b.Sizes[i]
	return childValues(b.Children[0], int(lo), int(lo)+int(n))
}

// fixedSizeListAt returns row i's elements from the single child batch,
// computed from the declared stride rather than from an offsets buffer.
func (b *Batch) fixedSizeListAt(i int) []any {
	i += b.RowOffset
	stride := fixedSizeListStride(b)
	lo := i * stride
	hi := lo + stride
	return childValues(b.Children[0], lo, hi)
}

func fixedSizeListStride(b *Batch) int {
	if t, ok := b.Type.(*arrowtype.FixedSizeListType); ok {
		return t.Stride
	}
	return 0
}

// childValues materializes values for child rows [lo, hi), returning nil
// for any row the child reports as null.
func childValues(child *Batch, lo, hi int) []any {
	out := make([]any, 0, hi-lo)
	for r := lo; r < hi; r++ {
		v, ok := child.At(r)
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, v)
	}
	return out
}
