package arrowbatch

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/solandra/arrowlite/arrowtype"
)

func (b *Batch) boolAt(i int) bool {
	i += b.RowOffset
	byteIdx := i / 8
	if byteIdx >= len(b.Values) {
		return false
	}
	return b.Values[byteIdx]&(1<<uint(i%8)) != 0
}

func (b *Batch) int16At(i int) int16 { return int16(b.uint16At(i)) }
func (b *Batch) uint16At(i int) uint16 {
	i += b.RowOffset
	return binary.LittleEndian.Uint16(b.Values[i*2 : i*2+2])
}

func (b *Batch) int32At(i int) int32 { return int32(b.uint32At(i)) }
func (b *Batch) uint32At(i int) uint32 {
	i += b.RowOffset
	return binary.LittleEndian.Uint32(b.Values[i*4 : i*4+4])
}

func (b *Batch) int64At(i int) int64 { return int64(b.uint64At(i)) }
func (b *Batch) uint64At(i int) uint64 {
	i += b.RowOffset
	return binary.LittleEndian.Uint64(b.Values[i*8 : i*8+8])
}

func (b *Batch) float32At(i int) float32 {
	return math.Float32frombits(b.uint32At(i))
}

func (b *Batch) float64At(i int) float64 {
	return math.Float64frombits(b.uint64At(i))
}

// float16At decodes a 16-bit IEEE half stored at row i per the data
// model's sign/exponent/mantissa rules.
func (b *Batch) float16At(i int) float32 {
	bits := b.uint16At(i)
	return decodeFloat16(bits)
}

func decodeFloat16(bits uint16) float32 {
	sign := float32(1)
	if bits&0x8000 != 0 {
		sign = -1
	}
	exp := (bits >> 10) & 0x1F
	mantissa := bits & 0x3FF

	switch exp {
	case 0x1F:
		if mantissa == 0 {
			return sign * float32(math.Inf(1))
		}
		return float32(math.NaN())
	case 0:
		return sign * 6.103515625e-5 * (float32(mantissa) / 1024)
	default:
		return sign * pow2(int(exp)-15) * (1 + float32(mantissa)/1024)
	}
}

func pow2(e int) float32 {
	return float32(math.Ldexp(1, e))
}

// decimalAt extracts the little-endian two's-complement decimal integer at
// row i as a *big.Int, for bit widths 32/64/128/256.
func (b *Batch) decimalAt(i int) *big.Int {
	i += b.RowOffset
	width := decimalByteWidth(b)
	start := i * width
	raw := b.Values[start : start+width]

	// Little-endian -> big-endian for big.Int.SetBytes, then apply sign.
	be := make([]byte, width)
	for j := 0; j < width; j++ {
		be[j] = raw[width-1-j]
	}
	v := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		// Negative: v - 2^(8*width)
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width*8))
		v.Sub(v, mod)
	}
	return v
}

// DecimalScale returns the declared scale of a Decimal-typed batch, used
// by the table layer to render a floating-point approximation.
func (b *Batch) DecimalScale() int {
	if d, ok := b.Type.(*arrowtype.DecimalType); ok {
		return d.Scale
	}
	return 0
}

func decimalByteWidth(b *Batch) int {
	if d, ok := b.Type.(*arrowtype.DecimalType); ok {
		return d.BitWidth / 8
	}
	return 16
}

func (b *Batch) intervalDayTimeAt(i int) [2]int32 {
	i += b.RowOffset
	start := i * 8
	days := int32(binary.LittleEndian.Uint32(b.Values[start : start+4]))
	millis := int32(binary.LittleEndian.Uint32(b.Values[start+4 : start+8]))
	return [2]int32{days, millis}
}

type MonthDayNano struct {
	Months int32
	Days   int32
	Nanos  int64
}

func (b *Batch) intervalMonthDayNanoAt(i int) MonthDayNano {
	i += b.RowOffset
	start := i * 16
	months := int32(binary.LittleEndian.Uint32(b.Values[start : start+4]))
	days := int32(binary.LittleEndian.Uint32(b.Values[start+4 : start+8]))
	nanos := int64(binary.LittleEndian.Uint64(b.Values[start+8 : start+16]))
	return MonthDayNano{Months: months, Days: days, Nanos: nanos}
}

func (b *Batch) fixedSizeBinaryAt(i int) []byte {
	i += b.RowOffset
	width := fixedSizeBinaryWidth(b)
	return b.Values[i*width : (i+1)*width]
}

func fixedSizeBinaryWidth(b *Batch) int {
	if t, ok := b.Type.(*arrowtype.FixedSizeBinaryType); ok {
		return t.ByteWidth
	}
	return 0
}
