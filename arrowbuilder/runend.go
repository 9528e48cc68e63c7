package arrowbuilder

import (
	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
)

// RunEndEncodedBuilder collapses consecutive equal values into runs,
// writing the distinct value once per run to a child ColumnBuilder and
// recording each run's cumulative row count in a run-ends buffer. Equality
// is tested by a strict Go == fast path over comparable scalar kinds,
// falling back to canonicalKey (the same string key DictionaryBuilder
// interns against) for everything else. Per layoutTable, the type's own
// FieldNode carries no validity buffer: a null run is just a run whose
// value child received a null Append.
type RunEndEncodedBuilder struct {
	runEndsType arrowtype.Type
	valuesType  arrowtype.Type
	resultType  arrowtype.Type
	valueBldr   ColumnBuilder

	length     int
	hasCurrent bool
	currentVal any
	currentKey string
	runEnds    []int64
}

// NewRunEndEncodedBuilder returns a builder for a RunEndEncoded<valuesType>
// column whose run-ends are stored as runEndsType (Int16, Int32, or
// Int64), using valueBldr to accumulate one entry per run.
func NewRunEndEncodedBuilder(runEndsType, valuesType arrowtype.Type, valueBldr ColumnBuilder) (*RunEndEncodedBuilder, error) {
	t, err := arrowtype.RunEndEncoded(runEndsType, valuesType)
	if err != nil {
		return nil, err
	}
	return &RunEndEncodedBuilder{
		runEndsType: runEndsType,
		valuesType:  valuesType,
		resultType:  t,
		valueBldr:   valueBldr,
	}, nil
}

func (b *RunEndEncodedBuilder) Len() int { return b.length }

// quickEqual reports whether a and b are equal via a direct == comparison,
// restricted to kinds Go can compare without risking a runtime panic on a
// non-comparable dynamic type (slices, maps). It never reports a false
// positive; a false negative just falls through to the canonicalKey check.
func quickEqual(a, b any) bool {
	switch x := a.(type) {
	case bool:
		return x == b
	case int:
		return x == b
	case int8:
		return x == b
	case int16:
		return x == b
	case int32:
		return x == b
	case int64:
		return x == b
	case uint:
		return x == b
	case uint8:
		return x == b
	case uint16:
		return x == b
	case uint32:
		return x == b
	case uint64:
		return x == b
	case float32:
		return x == b
	case float64:
		return x == b
	case string:
		return x == b
	default:
		return false
	}
}

// Append extends the current run when v matches it, or closes the run and
// starts a new one, writing the new run's value to the child immediately
// (so an Append error surfaces to the caller right away rather than being
// deferred to Finish, which cannot return an error).
func (b *RunEndEncodedBuilder) Append(v any) error {
	key := canonicalKey(v)
	if b.hasCurrent && (quickEqual(b.currentVal, v) || key == b.currentKey) {
		b.length++
		return nil
	}
	if b.hasCurrent {
		b.runEnds = append(b.runEnds, int64(b.length))
	}
	if err := b.valueBldr.Append(v); err != nil {
		return err
	}
	b.hasCurrent = true
	b.currentVal = v
	b.currentKey = key
	b.length++
	return nil
}

func (b *RunEndEncodedBuilder) Finish() *arrowbatch.Batch {
	if b.hasCurrent {
		b.runEnds = append(b.runEnds, int64(b.length))
	}
	valuesBatch := b.valueBldr.Finish()
	runEndsBatch := b.buildRunEndsBatch()
	out := &arrowbatch.Batch{
		Type:     b.resultType,
		Length:   b.length,
		Children: []*arrowbatch.Batch{runEndsBatch, valuesBatch},
	}
	b.Reset()
	return out
}

func (b *RunEndEncodedBuilder) buildRunEndsBatch() *arrowbatch.Batch {
	var fw *FixedWidthBuilder
	switch b.runEndsType.ID() {
	case arrowtype.Int16:
		fw = NewFixedWidthBuilder(arrowtype.Int16(), 2, encodeInt16)
	case arrowtype.Int32:
		fw = NewFixedWidthBuilder(arrowtype.Int32(), 4, encodeInt32)
	default:
		fw = NewFixedWidthBuilder(arrowtype.Int64(), 8, encodeInt64)
	}
	for _, re := range b.runEnds {
		_ = fw.Append(re)
	}
	return fw.Finish()
}

func (b *RunEndEncodedBuilder) Reset() {
	b.length = 0
	b.hasCurrent = false
	b.currentVal = nil
	b.currentKey = ""
	b.runEnds = nil
}
