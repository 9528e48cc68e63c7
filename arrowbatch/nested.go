package arrowbatch

import "github.com/solandra/arrowlite/arrowtype"

// StructRow is the lazy row view returned by Struct.At when RowStrategy is
// StructRowProxy: field access is deferred to the underlying child batch
// rather than eagerly materializing every field into a map.
type StructRow struct {
	batch *Batch
	row   int
}

// Field returns the named field's value at this row, or (nil, false) if
// the field does not exist or the row is null there.
func (r StructRow) Field(name string) (any, bool) {
	st, ok := r.batch.Type.(*arrowtype.StructType)
	if !ok {
		return nil, false
	}
	for idx, f := range st.Fields {
		if f.Name == name {
			return r.batch.Children[idx].At(r.row)
		}
	}
	return nil, false
}

// Len returns the struct's declared field count.
func (r StructRow) Len() int {
	st, ok := r.batch.Type.(*arrowtype.StructType)
	if !ok {
		return 0
	}
	return len(st.Fields)
}

func (b *Batch) structAt(i int) any {
	i += b.RowOffset
	if b.RowStrategy == StructRowProxy {
		return StructRow{batch: b, row: i}
	}

	st, ok := b.Type.(*arrowtype.StructType)
	if !ok {
		return nil
	}
	m := make(map[string]any, len(st.Fields))
	for idx, f := range st.Fields {
		v, _ := b.Children[idx].At(i)
		m[f.Name] = v
	}
	return m
}

// MapEntry is one key/value pair of a Map row rendered under MapRowPairs,
// preserving declaration order (MapRowKeyed loses order by going through a
// Go map).
type MapEntry struct {
	Key   any
	Value any
}

func (b *Batch) mapAt(i int) any {
	i += b.RowOffset
	lo, hi := int(b.Offsets32[i]), int(b.Offsets32[i+1])
	entries := b.Children[0]
	keys, values := entries.Children[0], entries.Children[1]

	if b.MapStrategy == MapRowKeyed {
		m := make(map[any]any, hi-lo)
		for r := lo; r < hi; r++ {
			k, ok := keys.At(r)
			if !ok {
				continue
			}
			v, _ := values.At(r)
			m[k] = v
		}
		return m
	}

	out := make([]MapEntry, 0, hi-lo)
	for r := lo; r < hi; r++ {
		k, _ := keys.At(r)
		v, _ := values.At(r)
		out = append(out, MapEntry{Key: k, Value: v})
	}
	return out
}

func (b *Batch) unionAt(i int) any {
	ut, ok := b.Type.(*arrowtype.UnionType)
	if !ok {
		return nil
	}
	i += b.RowOffset
	typeID := b.TypeIDs[i]
	childIdx, ok := ut.ChildIndex(typeID)
	if !ok {
		return nil
	}
	child := b.Children[childIdx]

	row := i
	if ut.Mode == arrowtype.DenseUnion {
		row = int(b.Offsets32[i])
	}
	v, _ := child.At(row)
	return v
}

// runEndEncodedAt binary-searches the run-ends child for the first run
// whose end exceeds i, then delegates to the values child at that run's
// index.
func (b *Batch) runEndEncodedAt(i int) any {
	i += b.RowOffset
	runEnds := b.Children[0]
	values := b.Children[1]

	lo, hi := 0, runEnds.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		if runEndValue(runEnds, mid) <= int64(i) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	v, _ := values.At(lo)
	return v
}

func runEndValue(runEnds *Batch, i int) int64 {
	switch runEnds.Type.ID() {
	case arrowtype.Int16:
		return int64(runEnds.int16At(i))
	case arrowtype.Int32:
		return int64(runEnds.int32At(i))
	case arrowtype.Int64:
		return runEnds.int64At(i)
	default:
		return 0
	}
}

func (b *Batch) dictionaryAt(i int) any {
	dt, ok := b.Type.(*arrowtype.DictionaryType)
	if !ok || b.Dictionary == nil {
		return nil
	}
	idx := dictionaryIndexAt(b, i, dt.IndexType.ID())
	v, _ := b.Dictionary.At(int(idx))
	return v
}

func dictionaryIndexAt(b *Batch, i int, indexID arrowtype.TypeID) int64 {
	switch indexID {
	case arrowtype.Int8:
		return int64(int8(b.Values[i+b.RowOffset]))
	case arrowtype.Uint8:
		return int64(b.Values[i+b.RowOffset])
	case arrowtype.Int16:
		return int64(b.int16At(i))
	case arrowtype.Uint16:
		return int64(b.uint16At(i))
	case arrowtype.Int32:
		return int64(b.int32At(i))
	case arrowtype.Uint32:
		return int64(b.uint32At(i))
	case arrowtype.Int64:
		return b.int64At(i)
	case arrowtype.Uint64:
		return int64(b.uint64At(i))
	default:
		return 0
	}
}
