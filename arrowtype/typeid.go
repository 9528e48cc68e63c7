// Package arrowtype defines the closed set of Arrow data types, the
// Field/Schema records that describe a table's columns, and the per-type
// layout metadata the rest of the module consults to know how many buffers
// and children a given type carries.
package arrowtype

// TypeID tags each of the 39 concrete Arrow data types this package defines
// (integer, float, interval and similar widths each get their own id).
type TypeID uint8

const (
	Null TypeID = iota + 1
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	BinaryID
	Utf8ID
	LargeBinaryID
	LargeUtf8ID
	BinaryViewID
	Utf8ViewID
	Date32ID
	Date64ID
	Time32ID
	Time64ID
	TimestampID
	IntervalYearMonthID
	IntervalDayTimeID
	IntervalMonthDayNanoID
	DecimalID
	FixedSizeBinaryID
	ListID
	LargeListID
	ListViewID
	LargeListViewID
	FixedSizeListID
	StructID
	MapID
	UnionID
	RunEndEncodedID
	DictionaryID
)

func (id TypeID) String() string {
	switch id {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case BinaryID:
		return "binary"
	case Utf8ID:
		return "utf8"
	case LargeBinaryID:
		return "large_binary"
	case LargeUtf8ID:
		return "large_utf8"
	case BinaryViewID:
		return "binary_view"
	case Utf8ViewID:
		return "utf8_view"
	case Date32ID:
		return "date32"
	case Date64ID:
		return "date64"
	case Time32ID:
		return "time32"
	case Time64ID:
		return "time64"
	case TimestampID:
		return "timestamp"
	case IntervalYearMonthID:
		return "interval_year_month"
	case IntervalDayTimeID:
		return "interval_day_time"
	case IntervalMonthDayNanoID:
		return "interval_month_day_nano"
	case DecimalID:
		return "decimal"
	case FixedSizeBinaryID:
		return "fixed_size_binary"
	case ListID:
		return "list"
	case LargeListID:
		return "large_list"
	case ListViewID:
		return "list_view"
	case LargeListViewID:
		return "large_list_view"
	case FixedSizeListID:
		return "fixed_size_list"
	case StructID:
		return "struct"
	case MapID:
		return "map"
	case UnionID:
		return "union"
	case RunEndEncodedID:
		return "run_end_encoded"
	case DictionaryID:
		return "dictionary"
	default:
		return "unknown"
	}
}

// TimeUnit is the resolution of a Timestamp/Time32/Time64 value.
type TimeUnit uint8

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "s"
	case Millisecond:
		return "ms"
	case Microsecond:
		return "us"
	case Nanosecond:
		return "ns"
	default:
		return "?"
	}
}

// IntervalUnit distinguishes the three interval layouts.
type IntervalUnit uint8

const (
	YearMonth IntervalUnit = iota
	DayTime
	MonthDayNano
)

// UnionMode distinguishes sparse from dense union layouts.
type UnionMode uint8

const (
	SparseUnion UnionMode = iota
	DenseUnion
)

func (m UnionMode) String() string {
	if m == DenseUnion {
		return "dense"
	}
	return "sparse"
}

// CompressionCodec identifies a registered body-buffer compression scheme,
// mirroring the Arrow IPC wire enum (LZ4_FRAME, ZSTD).
type CompressionCodec uint8

const (
	CompressionNone CompressionCodec = iota
	CompressionLZ4Frame
	CompressionZstd
)

func (c CompressionCodec) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4Frame:
		return "lz4_frame"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}
