package arrowbatch

import "iter"

// All iterates every row's (index, value) pair in order, letting callers
// range over a batch without an explicit index loop. A null row yields the
// value At reports for it.
func (b *Batch) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < b.Length; i++ {
			v, _ := b.At(i)
			if !yield(i, v) {
				return
			}
		}
	}
}
