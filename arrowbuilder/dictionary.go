package arrowbuilder

import (
	"fmt"
	"strconv"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/hash"
)

// canonicalKey renders v into a string that two equal dictionary values
// always map to identically, generalizing the teacher's name-to-hash
// dedup idiom (internal/collision.Tracker keys a metric name against its
// xxHash64 before ever comparing full strings) from a fixed string key to
// an arbitrary interned value. String and []byte values go through the
// same hash.ID used there, since those are the variable-length keys where
// hashing first actually pays for itself; fixed-width scalars are cheap
// enough to format directly.
func canonicalKey(v any) string {
	switch x := v.(type) {
	case string:
		return "s:" + strconv.FormatUint(hash.ID(x), 16) + ":" + x
	case []byte:
		return "b:" + strconv.FormatUint(hash.ID(string(x)), 16) + ":" + fmt.Sprintf("%x", x)
	case int:
		return "i:" + strconv.FormatInt(int64(x), 10)
	case int32:
		return "i:" + strconv.FormatInt(int64(x), 10)
	case int64:
		return "i:" + strconv.FormatInt(x, 10)
	case uint64:
		return "u:" + strconv.FormatUint(x, 10)
	case float32:
		return "f:" + strconv.FormatFloat(float64(x), 'g', -1, 64)
	case float64:
		return "f:" + strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "t"
		}
		return "f"
	default:
		return fmt.Sprintf("v:%v", x)
	}
}

// DictionaryBuilder interns appended values against a growing dictionary
// of distinct values (keyed by canonicalKey), appending each row's
// resolved index to an Int32 index column. It never emits a delta batch
// itself; ValuesBatch (whose second result reports whether the batch is a
// delta) lets a caller decide when to flush one.
type DictionaryBuilder struct {
	id        int64
	value     arrowtype.Type
	valueBldr ColumnBuilder

	keys    map[string]int32
	ordinal int32 // next unused dictionary index
	flushed int32 // index count already emitted in a prior ValuesBatch call

	indices *FixedWidthBuilder
}

// NewDictionaryBuilder returns a dictionary builder for id over valueBldr,
// a fresh ColumnBuilder used to accumulate the dictionary's distinct
// values in first-seen order.
func NewDictionaryBuilder(id int64, value arrowtype.Type, valueBldr ColumnBuilder) *DictionaryBuilder {
	return &DictionaryBuilder{
		id:        id,
		value:     value,
		valueBldr: valueBldr,
		keys:      make(map[string]int32),
		indices:   NewFixedWidthBuilder(mustDictType(id, value), 4, encodeInt32),
	}
}

// mustDictType builds the builder's own Int32-indexed dictionary type. The
// index type is fixed to the default, so Dictionary can never reject it.
func mustDictType(id int64, value arrowtype.Type) arrowtype.Type {
	t, _ := arrowtype.Dictionary(value, arrowtype.WithDictionaryID(id))
	return t
}

func (b *DictionaryBuilder) Len() int { return b.indices.Len() }

// Append interns v into the dictionary if not already present, then
// appends its resolved index. A nil v appends a null index row without
// touching the dictionary.
func (b *DictionaryBuilder) Append(v any) error {
	if v == nil {
		return b.indices.Append(nil)
	}
	key := canonicalKey(v)
	idx, ok := b.keys[key]
	if !ok {
		if err := b.valueBldr.Append(v); err != nil {
			return errs.InvalidArgument(fmt.Errorf("dictionary builder: %w", err))
		}
		idx = b.ordinal
		b.keys[key] = idx
		b.ordinal++
	}
	return b.indices.Append(int32(idx))
}

func (b *DictionaryBuilder) Finish() *arrowbatch.Batch {
	batch := b.indices.Finish()
	batch.Type = mustDictType(b.id, b.value)
	return batch
}

func (b *DictionaryBuilder) Reset() {
	b.indices.Reset()
}

// ValuesBatch returns the dictionary's distinct values accumulated since
// the last call, and whether they should be written as a delta batch
// (true for every call after the first non-empty one). Call this once
// per flush, immediately before encoding the corresponding index batch via
// Finish, so the two stay paired under one ipc.Writer.WriteDictionaryBatch
// / WriteRecordBatch sequence.
func (b *DictionaryBuilder) ValuesBatch() (values *arrowbatch.Batch, isDelta bool) {
	values = b.valueBldr.Finish()
	isDelta = b.flushed > 0
	b.flushed += int32(values.Length)
	return values, isDelta
}
