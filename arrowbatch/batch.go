// Package arrowbatch implements the concrete realization of an Arrow
// record batch column: a typed view over a raw decoded buffer that knows
// how to extract its logical value at any row index.
package arrowbatch

import (
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// DictionaryLookup is the minimal contract a Dictionary-typed Batch needs
// from its resolved dictionary values column, satisfied by
// arrowtable.Column without arrowbatch importing arrowtable (which itself
// holds batches) and creating an import cycle.
type DictionaryLookup interface {
	Len() int
	At(i int) (any, bool)
}

// Batch is one column's data for one record batch: a data type plus the
// raw buffers the visitor (or a builder) populated for it.
type Batch struct {
	Type arrowtype.Type

	Length    int
	NullCount int
	Validity  bitfield.Bitmap

	// RowOffset shifts every row index this batch's accessors see before
	// indexing into Values/Offsets32/Offsets64/Sizes/TypeIDs/Validity. It is
	// nonzero only for batches produced by Slice, letting a slice share its
	// parent's buffers without rewriting them.
	RowOffset int

	// Offsets32/Offsets64 back Binary/Utf8/List/Map (32-bit) and
	// LargeBinary/LargeUtf8/LargeList (64-bit) offset buffers.
	Offsets32 []int32
	Offsets64 []int64

	// Sizes backs ListView/LargeListView's size buffer (paired with
	// Offsets32/64 respectively).
	Sizes []int32

	// Values holds the type's primary value buffer: packed bits for Bool,
	// little-endian scalars for direct numeric/date/time/interval/decimal
	// types, raw bytes for Binary/Utf8, 16-byte view records for
	// Binary/Utf8View, and dictionary indices for Dictionary.
	Values []byte

	// DataBuffers holds the variadic out-of-line data buffers a
	// BinaryView/Utf8View field's long values are read from.
	DataBuffers [][]byte

	// Children holds, in declaration order: the single element batch for
	// List/LargeList/ListView/LargeListView/FixedSizeList/Map, the field
	// batches for Struct/Union, and [runEnds, values] for RunEndEncoded.
	Children []*Batch

	// TypeIDs backs Union's per-row child selector.
	TypeIDs []int8

	// Dictionary is non-nil once the owning table resolves a
	// Dictionary-typed batch's indices against its shared dictionary
	// values column.
	Dictionary DictionaryLookup

	// RowStrategy controls Struct value rendering; zero value is
	// StructRowEager.
	RowStrategy StructRowStrategy

	// MapStrategy controls Map value rendering; zero value is
	// MapRowPairs.
	MapStrategy MapRenderStrategy
}

// StructRowStrategy selects how Struct.At renders a row.
type StructRowStrategy int

const (
	StructRowEager StructRowStrategy = iota
	StructRowProxy
)

// MapRenderStrategy selects how Map.At renders a row.
type MapRenderStrategy int

const (
	MapRowPairs MapRenderStrategy = iota
	MapRowKeyed
)

// Len returns the batch's declared logical length.
func (b *Batch) Len() int { return b.Length }

// IsValid reports whether row i holds a value. Per the degenerate-buffer
// rule, the validity bitmap is never consulted when NullCount == 0 — every
// row is valid regardless of what (if anything) the buffer contains.
func (b *Batch) IsValid(i int) bool {
	if b.NullCount == 0 {
		return true
	}
	return b.Validity.Bit(i + b.RowOffset)
}

// At returns the logical value at row i, or (nil, false) when the row is
// null. It dispatches on the batch's TypeID to the type-specific unchecked
// extraction, bypassing the validity test entirely when NullCount == 0.
func (b *Batch) At(i int) (any, bool) {
	if !b.IsValid(i) {
		return nil, false
	}
	return b.value(i), true
}

// value performs the type-specific unchecked extraction at row i. Callers
// must already know row i is valid (or not care).
func (b *Batch) value(i int) any {
	switch b.Type.ID() {
	case arrowtype.Null:
		return nil
	case arrowtype.Bool:
		return b.boolAt(i)
	case arrowtype.Int8:
		return int8(b.Values[i+b.RowOffset])
	case arrowtype.Int16:
		return b.int16At(i)
	case arrowtype.Int32:
		return b.int32At(i)
	case arrowtype.Int64:
		return b.int64At(i)
	case arrowtype.Uint8:
		return b.Values[i+b.RowOffset]
	case arrowtype.Uint16:
		return b.uint16At(i)
	case arrowtype.Uint32:
		return b.uint32At(i)
	case arrowtype.Uint64:
		return b.uint64At(i)
	case arrowtype.Float16:
		return b.float16At(i)
	case arrowtype.Float32:
		return b.float32At(i)
	case arrowtype.Float64:
		return b.float64At(i)
	case arrowtype.BinaryID, arrowtype.Utf8ID:
		bs := b.binaryAt32(i)
		if b.Type.ID() == arrowtype.Utf8ID {
			return string(bs)
		}
		return bs
	case arrowtype.LargeBinaryID, arrowtype.LargeUtf8ID:
		bs := b.binaryAt64(i)
		if b.Type.ID() == arrowtype.LargeUtf8ID {
			return string(bs)
		}
		return bs
	case arrowtype.BinaryViewID, arrowtype.Utf8ViewID:
		bs := b.viewAt(i)
		if b.Type.ID() == arrowtype.Utf8ViewID {
			return string(bs)
		}
		return bs
	case arrowtype.Date32ID:
		return b.int32At(i) // days since epoch; DecodeOptions coerce at the table layer
	case arrowtype.Date64ID:
		return b.int64At(i)
	case arrowtype.Time32ID:
		return b.int32At(i)
	case arrowtype.Time64ID:
		return b.int64At(i)
	case arrowtype.TimestampID:
		return b.int64At(i)
	case arrowtype.IntervalYearMonthID:
		return b.int32At(i)
	case arrowtype.IntervalDayTimeID:
		return b.intervalDayTimeAt(i)
	case arrowtype.IntervalMonthDayNanoID:
		return b.intervalMonthDayNanoAt(i)
	case arrowtype.DecimalID:
		return b.decimalAt(i)
	case arrowtype.FixedSizeBinaryID:
		return b.fixedSizeBinaryAt(i)
	case arrowtype.ListID:
		return b.listAt32(i)
	case arrowtype.LargeListID:
		return b.listAt64(i)
	case arrowtype.ListViewID:
		return b.listViewAt32(i)
	case arrowtype.LargeListViewID:
		return b.listViewAt64(i)
	case arrowtype.FixedSizeListID:
		return b.fixedSizeListAt(i)
	case arrowtype.StructID:
		return b.structAt(i)
	case arrowtype.MapID:
		return b.mapAt(i)
	case arrowtype.RunEndEncodedID:
		return b.runEndEncodedAt(i)
	case arrowtype.DictionaryID:
		return b.dictionaryAt(i)
	case arrowtype.UnionID:
		return b.unionAt(i)
	default:
		return nil
	}
}
