package arrowbuilder

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

const secondsPerDay = 86400

// encodeFixed renders v into exactly byteWidth little-endian bytes, or
// returns an error that FixedWidthBuilder.Append wraps as InvalidArgument
// naming the builder's type.
type encodeFixed func(v any, out []byte) error

// FixedWidthBuilder accumulates values of any scalar type with a fixed
// per-row byte width: the integer, floating point, date/timestamp, decimal
// and fixed-size binary builders all share this one implementation,
// differing only in byteWidth and their encode function.
type FixedWidthBuilder struct {
	t         arrowtype.Type
	byteWidth int
	encode    encodeFixed

	length    int
	nullCount int
	validity  bitfield.Bitmap
	values    []byte
}

// NewFixedWidthBuilder returns a builder for t, which must describe a
// fixed-width scalar type, appending byteWidth bytes per row via encode.
func NewFixedWidthBuilder(t arrowtype.Type, byteWidth int, encode encodeFixed) *FixedWidthBuilder {
	return &FixedWidthBuilder{t: t, byteWidth: byteWidth, encode: encode}
}

func (b *FixedWidthBuilder) Len() int { return b.length }

func (b *FixedWidthBuilder) Append(v any) error {
	row := b.length
	if v == nil {
		b.length++
		b.nullCount++
		b.validity.SetBit(row, false)
		b.values = append(b.values, make([]byte, b.byteWidth)...)
		return nil
	}
	buf := make([]byte, b.byteWidth)
	if err := b.encode(v, buf); err != nil {
		return errs.InvalidArgument(fmt.Errorf("%s builder: %w", b.t.ID(), err))
	}
	b.length++
	b.validity.SetBit(row, true)
	b.values = append(b.values, buf...)
	return nil
}

func (b *FixedWidthBuilder) Finish() *arrowbatch.Batch {
	out := &arrowbatch.Batch{
		Type:      b.t,
		Length:    b.length,
		NullCount: b.nullCount,
		Values:    b.values,
	}
	if b.nullCount > 0 {
		out.Validity = b.validity
	}
	b.Reset()
	return out
}

func (b *FixedWidthBuilder) Reset() {
	b.length = 0
	b.nullCount = 0
	b.validity = bitfield.Bitmap{}
	b.values = nil
}

// Int8/Int16/... family encoders below convert the natural Go numeric kind
// for each Arrow type into its little-endian wire bytes.

func encodeInt8(v any, out []byte) error {
	n, ok := asInt64(v)
	if !ok {
		return fmt.Errorf("%w: want int8, got %T", errs.ErrInvalidBitWidth, v)
	}
	out[0] = byte(int8(n))
	return nil
}

func encodeUint8(v any, out []byte) error {
	n, ok := asUint64(v)
	if !ok {
		return fmt.Errorf("%w: want uint8, got %T", errs.ErrInvalidBitWidth, v)
	}
	out[0] = byte(uint8(n))
	return nil
}

func encodeInt16(v any, out []byte) error {
	n, ok := asInt64(v)
	if !ok {
		return fmt.Errorf("want int16, got %T", v)
	}
	binary.LittleEndian.PutUint16(out, uint16(int16(n)))
	return nil
}

func encodeUint16(v any, out []byte) error {
	n, ok := asUint64(v)
	if !ok {
		return fmt.Errorf("want uint16, got %T", v)
	}
	binary.LittleEndian.PutUint16(out, uint16(n))
	return nil
}

func encodeInt32(v any, out []byte) error {
	n, ok := asInt64(v)
	if !ok {
		return fmt.Errorf("want int32, got %T", v)
	}
	binary.LittleEndian.PutUint32(out, uint32(int32(n)))
	return nil
}

func encodeUint32(v any, out []byte) error {
	n, ok := asUint64(v)
	if !ok {
		return fmt.Errorf("want uint32, got %T", v)
	}
	binary.LittleEndian.PutUint32(out, uint32(n))
	return nil
}

func encodeInt64(v any, out []byte) error {
	n, ok := asInt64(v)
	if !ok {
		return fmt.Errorf("want int64, got %T", v)
	}
	binary.LittleEndian.PutUint64(out, uint64(n))
	return nil
}

func encodeUint64(v any, out []byte) error {
	n, ok := asUint64(v)
	if !ok {
		return fmt.Errorf("want uint64, got %T", v)
	}
	binary.LittleEndian.PutUint64(out, n)
	return nil
}

func encodeFloat32(v any, out []byte) error {
	f, ok := asFloat64(v)
	if !ok {
		return fmt.Errorf("want float32, got %T", v)
	}
	binary.LittleEndian.PutUint32(out, math.Float32bits(float32(f)))
	return nil
}

func encodeFloat64(v any, out []byte) error {
	f, ok := asFloat64(v)
	if !ok {
		return fmt.Errorf("want float64, got %T", v)
	}
	binary.LittleEndian.PutUint64(out, math.Float64bits(f))
	return nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}

// NewInt32Builder returns a builder accepting Go int/int32/int64 values.
func NewInt32Builder() *FixedWidthBuilder { return NewFixedWidthBuilder(arrowtype.Int32(), 4, encodeInt32) }

// NewInt64Builder returns a builder accepting Go int/int32/int64 values.
func NewInt64Builder() *FixedWidthBuilder { return NewFixedWidthBuilder(arrowtype.Int64(), 8, encodeInt64) }

// NewFloat64Builder returns a builder accepting Go float32/float64 values.
func NewFloat64Builder() *FixedWidthBuilder {
	return NewFixedWidthBuilder(arrowtype.Float64(), 8, encodeFloat64)
}

// NewFloat32Builder returns a builder accepting Go float32/float64 values.
func NewFloat32Builder() *FixedWidthBuilder {
	return NewFixedWidthBuilder(arrowtype.Float32(), 4, encodeFloat32)
}

// NewInt8Builder, NewInt16Builder, NewUint8Builder, ... round out the
// direct integer family the same way.
func NewInt8Builder() *FixedWidthBuilder   { return NewFixedWidthBuilder(arrowtype.Int8(), 1, encodeInt8) }
func NewInt16Builder() *FixedWidthBuilder  { return NewFixedWidthBuilder(arrowtype.Int16(), 2, encodeInt16) }
func NewUint8Builder() *FixedWidthBuilder  { return NewFixedWidthBuilder(arrowtype.Uint8(), 1, encodeUint8) }
func NewUint16Builder() *FixedWidthBuilder { return NewFixedWidthBuilder(arrowtype.Uint16(), 2, encodeUint16) }
func NewUint32Builder() *FixedWidthBuilder { return NewFixedWidthBuilder(arrowtype.Uint32(), 4, encodeUint32) }
func NewUint64Builder() *FixedWidthBuilder { return NewFixedWidthBuilder(arrowtype.Uint64(), 8, encodeUint64) }

// encodeFloat16 packs a Go float32/float64 into IEEE 754 binary16, flushing
// subnormals to zero (the transform direct builders apply per their type,
// mirrored here as the inverse of arrowbatch.decodeFloat16).
func encodeFloat16(v any, out []byte) error {
	f, ok := asFloat64(v)
	if !ok {
		return fmt.Errorf("want float16, got %T", v)
	}
	binary.LittleEndian.PutUint16(out, float32ToFloat16Bits(float32(f)))
	return nil
}

func float32ToFloat16Bits(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)

	switch {
	case math.IsNaN(float64(f)):
		return sign | 0x7E00
	case math.IsInf(float64(f), 0):
		return sign | 0x7C00
	}

	abs := bits &^ (1 << 31)
	exp := int32((abs>>23)&0xFF) - 127 + 15
	mantissa := abs & 0x7FFFFF

	switch {
	case exp <= 0:
		return sign
	case exp >= 0x1F:
		return sign | 0x7C00
	default:
		return sign | uint16(exp)<<10 | uint16(mantissa>>13)
	}
}

// NewFloat16Builder returns a builder accepting Go float32/float64 values,
// packed down to binary16.
func NewFloat16Builder() *FixedWidthBuilder {
	return NewFixedWidthBuilder(arrowtype.Float16(), 2, encodeFloat16)
}

// encodeDate32 converts a time.Time to whole days since the Unix epoch (the
// DateDay transform), or passes an already-computed day count through.
func encodeDate32(v any, out []byte) error {
	switch x := v.(type) {
	case time.Time:
		days := x.UTC().Truncate(24 * time.Hour).Unix() / secondsPerDay
		binary.LittleEndian.PutUint32(out, uint32(int32(days)))
		return nil
	default:
		if n, ok := asInt64(x); ok {
			binary.LittleEndian.PutUint32(out, uint32(int32(n)))
			return nil
		}
		return fmt.Errorf("want time.Time or day count, got %T", v)
	}
}

// NewDate32Builder returns a builder accepting Go time.Time values (or a
// raw int day count), truncating each to a day boundary.
func NewDate32Builder() *FixedWidthBuilder {
	return NewFixedWidthBuilder(arrowtype.Date32(), 4, encodeDate32)
}

// encodeDate64 converts a time.Time to milliseconds since the Unix epoch at
// its day's midnight, or passes an already-computed millisecond count
// through.
func encodeDate64(v any, out []byte) error {
	switch x := v.(type) {
	case time.Time:
		midnight := x.UTC().Truncate(24 * time.Hour)
		binary.LittleEndian.PutUint64(out, uint64(midnight.UnixMilli()))
		return nil
	default:
		if n, ok := asInt64(x); ok {
			binary.LittleEndian.PutUint64(out, uint64(n))
			return nil
		}
		return fmt.Errorf("want time.Time or millisecond count, got %T", v)
	}
}

// NewDate64Builder returns a builder accepting Go time.Time values (or a
// raw int64 millisecond count), truncating each to its day's midnight.
func NewDate64Builder() *FixedWidthBuilder {
	return NewFixedWidthBuilder(arrowtype.Date64(), 8, encodeDate64)
}

// encodeTimestamp closes over unit to convert a time.Time to ticks since
// the Unix epoch at that resolution (the timestamp-to-ticks transform), or
// passes an already-computed tick count through.
func encodeTimestamp(unit arrowtype.TimeUnit) encodeFixed {
	return func(v any, out []byte) error {
		switch x := v.(type) {
		case time.Time:
			var ticks int64
			switch unit {
			case arrowtype.Second:
				ticks = x.Unix()
			case arrowtype.Millisecond:
				ticks = x.UnixMilli()
			case arrowtype.Microsecond:
				ticks = x.UnixMicro()
			default:
				ticks = x.UnixNano()
			}
			binary.LittleEndian.PutUint64(out, uint64(ticks))
			return nil
		default:
			if n, ok := asInt64(x); ok {
				binary.LittleEndian.PutUint64(out, uint64(n))
				return nil
			}
			return fmt.Errorf("want time.Time or tick count, got %T", v)
		}
	}
}

// NewTimestampBuilder returns a builder for a Timestamp(unit, timezone)
// column, accepting Go time.Time values (or a raw int64 tick count).
func NewTimestampBuilder(unit arrowtype.TimeUnit, timezone string) *FixedWidthBuilder {
	return NewFixedWidthBuilder(arrowtype.Timestamp(unit, timezone), 8, encodeTimestamp(unit))
}

// encodeDecimal closes over a decimal type's byte width to render a value
// as little-endian two's complement, the inverse of arrowbatch.decimalAt.
func encodeDecimal(dt *arrowtype.DecimalType) encodeFixed {
	width := dt.BitWidth / 8
	return func(v any, out []byte) error {
		var unscaled *big.Int
		switch x := v.(type) {
		case *big.Int:
			unscaled = x
		case int64:
			unscaled = big.NewInt(x)
		case int:
			unscaled = big.NewInt(int64(x))
		case float64:
			unscaled = big.NewInt(int64(math.Round(x * math.Pow10(dt.Scale))))
		default:
			return fmt.Errorf("want *big.Int, int64 or float64, got %T", v)
		}
		return putDecimalBytes(out, unscaled, width)
	}
}

// putDecimalBytes writes v's width-byte little-endian two's complement
// representation into out, erroring if v does not fit.
func putDecimalBytes(out []byte, v *big.Int, width int) error {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width*8))
	half := new(big.Int).Rsh(mod, 1)
	if v.Cmp(half) >= 0 || v.Cmp(new(big.Int).Neg(half)) < 0 {
		return fmt.Errorf("%w: value does not fit in %d bytes", errs.ErrInvalidDecimalWidth, width)
	}
	v2 := v
	if v.Sign() < 0 {
		v2 = new(big.Int).Add(mod, v)
		if v2.Sign() < 0 {
			return fmt.Errorf("%w: value does not fit in %d bytes", errs.ErrInvalidDecimalWidth, width)
		}
	}
	if v2.Cmp(mod) >= 0 {
		return fmt.Errorf("%w: value does not fit in %d bytes", errs.ErrInvalidDecimalWidth, width)
	}

	be := v2.Bytes()
	if len(be) > width {
		return fmt.Errorf("%w: value does not fit in %d bytes", errs.ErrInvalidDecimalWidth, width)
	}
	for i := range out[:width] {
		out[i] = 0
	}
	for i := 0; i < len(be); i++ {
		out[i] = be[len(be)-1-i]
	}
	return nil
}

// NewDecimalBuilder returns a builder for t, which must be a DecimalType,
// accepting Go *big.Int, int64/int, or float64 (scaled by t's Scale)
// unscaled values.
func NewDecimalBuilder(t arrowtype.Type) (*FixedWidthBuilder, error) {
	dt, ok := t.(*arrowtype.DecimalType)
	if !ok {
		return nil, errs.InvalidArgument(fmt.Errorf("decimal builder: want a decimal type, got %T", t))
	}
	return NewFixedWidthBuilder(t, dt.BitWidth/8, encodeDecimal(dt)), nil
}

// encodeFixedSizeBinary closes over the declared byte width to copy an
// exact-length []byte row through unchanged.
func encodeFixedSizeBinary(width int) encodeFixed {
	return func(v any, out []byte) error {
		b, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("want []byte, got %T", v)
		}
		if len(b) != width {
			return fmt.Errorf("%w: want %d bytes, got %d", errs.ErrInvalidBitWidth, width, len(b))
		}
		copy(out, b)
		return nil
	}
}

// NewFixedSizeBinaryBuilder returns a builder for a FixedSizeBinary(byteWidth)
// column, accepting Go []byte values of exactly byteWidth length.
func NewFixedSizeBinaryBuilder(byteWidth int) (*FixedWidthBuilder, error) {
	t, err := arrowtype.FixedSizeBinary(byteWidth)
	if err != nil {
		return nil, err
	}
	return NewFixedWidthBuilder(t, byteWidth, encodeFixedSizeBinary(byteWidth)), nil
}
