package arrowbatch

import "math/big"

// The ValueAt-style exported accessors below give arrowtable/ipc typed,
// unchecked access to a row's raw value without going through the `any`
// boxing of At/value. Callers are responsible for checking IsValid first
// when NullCount != 0.

func (b *Batch) BoolAt(i int) bool       { return b.boolAt(i) }
func (b *Batch) Int8At(i int) int8       { return int8(b.Values[i+b.RowOffset]) }
func (b *Batch) Int16At(i int) int16     { return b.int16At(i) }
func (b *Batch) Int32At(i int) int32     { return b.int32At(i) }
func (b *Batch) Int64At(i int) int64     { return b.int64At(i) }
func (b *Batch) Uint8At(i int) uint8     { return b.Values[i+b.RowOffset] }
func (b *Batch) Uint16At(i int) uint16   { return b.uint16At(i) }
func (b *Batch) Uint32At(i int) uint32   { return b.uint32At(i) }
func (b *Batch) Uint64At(i int) uint64   { return b.uint64At(i) }
func (b *Batch) Float16At(i int) float32 { return b.float16At(i) }
func (b *Batch) Float32At(i int) float32 { return b.float32At(i) }
func (b *Batch) Float64At(i int) float64 { return b.float64At(i) }

// Int64BigAt widens row i's signed 64-bit value to a *big.Int.
func (b *Batch) Int64BigAt(i int) *big.Int { return big.NewInt(b.int64At(i)) }

func (b *Batch) DecimalAt(i int) *big.Int { return b.decimalAt(i) }

// DecimalFloat64At divides the raw decimal integer by 10^scale, with the
// acknowledged loss of precision the data model calls out for magnitudes
// beyond double range.
func (b *Batch) DecimalFloat64At(i int) float64 {
	raw := new(big.Float).SetInt(b.decimalAt(i))
	scale := b.DecimalScale()
	if scale == 0 {
		f, _ := raw.Float64()
		return f
	}
	divisor := new(big.Float).SetInt(pow10(scale))
	result := new(big.Float).Quo(raw, divisor)
	f, _ := result.Float64()
	return f
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func (b *Batch) IntervalYearMonthAt(i int) int32 { return b.int32At(i) }
func (b *Batch) IntervalDayTimeAt(i int) [2]int32 { return b.intervalDayTimeAt(i) }
func (b *Batch) IntervalMonthDayNanoAt(i int) MonthDayNano {
	return b.intervalMonthDayNanoAt(i)
}

func (b *Batch) Date32At(i int) int32 { return b.int32At(i) }
func (b *Batch) Date64At(i int) int64 { return b.int64At(i) }
func (b *Batch) Time32At(i int) int32 { return b.int32At(i) }
func (b *Batch) Time64At(i int) int64 { return b.int64At(i) }
func (b *Batch) TimestampAt(i int) int64 { return b.int64At(i) }

func (b *Batch) FixedSizeBinaryAt(i int) []byte { return b.fixedSizeBinaryAt(i) }

func (b *Batch) Utf8At(i int) string  { return string(b.binaryAt32(i)) }
func (b *Batch) BinaryAt(i int) []byte { return b.binaryAt32(i) }
func (b *Batch) LargeUtf8At(i int) string  { return string(b.binaryAt64(i)) }
func (b *Batch) LargeBinaryAt(i int) []byte { return b.binaryAt64(i) }
