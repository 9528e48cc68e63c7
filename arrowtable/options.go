package arrowtable

import (
	"time"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
)

// DecodeOptions gathers the rendering choices a decode caller can make
// about ambiguous-in-Go Arrow values: which of the two rendering strategies
// Struct and Map use (applied to batches by ApplyTo), whether Date32/Date64
// render as time.Time instead of raw day/millisecond counts (read by
// RenderDate), and whether Decimal values stay as *big.Int instead of an
// approximate float64 (read by RenderDecimal). Column.At and Batch.At do
// not consult the date, decimal or 64-bit integer choices.
type DecodeOptions struct {
	bigIntInt64  bool
	dateValues   bool
	decimalAsInt bool
	mapAsKeyed   bool
	proxyStructs bool
}

// DecodeOption configures a DecodeOptions value.
type DecodeOption func(*DecodeOptions)

// WithBigIntInt64 records a preference for *big.Int 64-bit values. Nothing
// in this module reads it: Int64/Uint64/Timestamp/Date64 values come back
// as native int64/uint64 whether or not it is set, and no RangeError is
// raised on their account.
func WithBigIntInt64() DecodeOption {
	return func(o *DecodeOptions) { o.bigIntInt64 = true }
}

// WithDateValues makes RenderDate return Date32/Date64 values as time.Time
// instead of raw day-since-epoch/millisecond-since-epoch integers. It does
// not change what Column.At or Batch.At return.
func WithDateValues() DecodeOption {
	return func(o *DecodeOptions) { o.dateValues = true }
}

// WithDecimalAsInt makes RenderDecimal return the raw *big.Int integer
// rather than dividing through by 10^scale into an approximate float64. It
// does not change what Column.At or Batch.At return.
func WithDecimalAsInt() DecodeOption {
	return func(o *DecodeOptions) { o.decimalAsInt = true }
}

// WithMapAsKeyed renders Map rows as a Go map keyed by entry key instead of
// an ordered []MapEntry slice.
func WithMapAsKeyed() DecodeOption {
	return func(o *DecodeOptions) { o.mapAsKeyed = true }
}

// WithProxyStructs renders Struct rows as a lazy StructRow instead of an
// eagerly materialized map[string]any.
func WithProxyStructs() DecodeOption {
	return func(o *DecodeOptions) { o.proxyStructs = true }
}

// NewDecodeOptions applies every option in order, starting from the
// all-false zero value (eager struct rows, paired-slice maps, float64
// decimals, raw int dates, native int64).
func NewDecodeOptions(opts ...DecodeOption) DecodeOptions {
	var o DecodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ApplyTo sets the corresponding rendering strategy on b and every batch
// reachable through its Children, so a table-wide decode option reaches
// every nested Struct/Map regardless of depth.
func (o DecodeOptions) ApplyTo(b *arrowbatch.Batch) {
	if o.proxyStructs {
		b.RowStrategy = arrowbatch.StructRowProxy
	}
	if o.mapAsKeyed {
		b.MapStrategy = arrowbatch.MapRowKeyed
	}
	for _, child := range b.Children {
		o.ApplyTo(child)
	}
}

// RenderDecimal renders a Decimal value at row i per o.decimalAsInt:
// *big.Int when set, an approximate float64 otherwise.
func RenderDecimal(b *arrowbatch.Batch, i int, o DecodeOptions) any {
	if o.decimalAsInt {
		return b.DecimalAt(i)
	}
	return b.DecimalFloat64At(i)
}

// RenderDate renders a Date32/Date64 value at row i per o.dateValues: a
// time.Time (UTC midnight for Date32's day count, the exact instant for
// Date64's millisecond count) when set, the raw integer otherwise.
func RenderDate(b *arrowbatch.Batch, i int, o DecodeOptions) any {
	if !o.dateValues {
		if b.Type.ID() == arrowtype.Date32ID {
			return b.Date32At(i)
		}
		return b.Date64At(i)
	}
	switch b.Type.ID() {
	case arrowtype.Date32ID:
		days := b.Date32At(i)
		return time.Unix(int64(days)*86400, 0).UTC()
	case arrowtype.Date64ID:
		millis := b.Date64At(i)
		return time.UnixMilli(millis).UTC()
	default:
		return nil
	}
}
