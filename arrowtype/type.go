package arrowtype

import (
	"fmt"
	"sort"

	"github.com/solandra/arrowlite/errs"
)

// Type is implemented by every concrete Arrow data type descriptor. It is a
// closed interface: the only implementations are the 39 structs defined in
// this package, one per TypeID.
type Type interface {
	ID() TypeID
	String() string

	// unexported method seals the interface to this package.
	sealed()
}

// base carries the ID shared by every concrete type and gives each struct
// its sealed() method for free via embedding.
type base struct {
	id TypeID
}

func (b base) ID() TypeID { return b.id }
func (b base) sealed()    {}

// ---- Parameterless scalar types ----

type NullType struct{ base }
type BoolType struct{ base }
type Int8Type struct{ base }
type Int16Type struct{ base }
type Int32Type struct{ base }
type Int64Type struct{ base }
type Uint8Type struct{ base }
type Uint16Type struct{ base }
type Uint32Type struct{ base }
type Uint64Type struct{ base }
type Float16Type struct{ base }
type Float32Type struct{ base }
type Float64Type struct{ base }
type Date32Type struct{ base }
type Date64Type struct{ base }

func (t *NullType) String() string    { return "null" }
func (t *BoolType) String() string    { return "bool" }
func (t *Int8Type) String() string    { return "int8" }
func (t *Int16Type) String() string   { return "int16" }
func (t *Int32Type) String() string   { return "int32" }
func (t *Int64Type) String() string   { return "int64" }
func (t *Uint8Type) String() string   { return "uint8" }
func (t *Uint16Type) String() string  { return "uint16" }
func (t *Uint32Type) String() string  { return "uint32" }
func (t *Uint64Type) String() string  { return "uint64" }
func (t *Float16Type) String() string { return "float16" }
func (t *Float32Type) String() string { return "float32" }
func (t *Float64Type) String() string { return "float64" }
func (t *Date32Type) String() string  { return "date32" }
func (t *Date64Type) String() string  { return "date64" }

func Null() Type    { return &NullType{base{Null}} }
func Bool() Type    { return &BoolType{base{Bool}} }
func Int8() Type    { return &Int8Type{base{Int8}} }
func Int16() Type   { return &Int16Type{base{Int16}} }
func Int32() Type   { return &Int32Type{base{Int32}} }
func Int64() Type   { return &Int64Type{base{Int64}} }
func Uint8() Type   { return &Uint8Type{base{Uint8}} }
func Uint16() Type  { return &Uint16Type{base{Uint16}} }
func Uint32() Type  { return &Uint32Type{base{Uint32}} }
func Uint64() Type  { return &Uint64Type{base{Uint64}} }
func Float16() Type { return &Float16Type{base{Float16}} }
func Float32() Type { return &Float32Type{base{Float32}} }
func Float64() Type { return &Float64Type{base{Float64}} }

// Date32 is days since the Unix epoch. DateDay is the canonical spelling.
func Date32() Type { return &Date32Type{base{Date32ID}} }
func DateDay() Type { return Date32() }

// Date64 is milliseconds since the Unix epoch.
func Date64() Type { return &Date64Type{base{Date64ID}} }

// ---- Binary / Utf8 family ----

type BinaryType struct{ base }
type Utf8Type struct{ base }
type LargeBinaryType struct{ base }
type LargeUtf8Type struct{ base }
type BinaryViewType struct{ base }
type Utf8ViewType struct{ base }

func (t *BinaryType) String() string      { return "binary" }
func (t *Utf8Type) String() string        { return "utf8" }
func (t *LargeBinaryType) String() string { return "large_binary" }
func (t *LargeUtf8Type) String() string   { return "large_utf8" }
func (t *BinaryViewType) String() string  { return "binary_view" }
func (t *Utf8ViewType) String() string    { return "utf8_view" }

func Binary() Type      { return &BinaryType{base{BinaryID}} }
func Utf8() Type        { return &Utf8Type{base{Utf8ID}} }
func LargeBinary() Type { return &LargeBinaryType{base{LargeBinaryID}} }
func LargeUtf8() Type   { return &LargeUtf8Type{base{LargeUtf8ID}} }
func BinaryView() Type  { return &BinaryViewType{base{BinaryViewID}} }
func Utf8View() Type    { return &Utf8ViewType{base{Utf8ViewID}} }

// ---- Time family ----

type Time32Type struct {
	base
	Unit TimeUnit
}

type Time64Type struct {
	base
	Unit TimeUnit
}

type TimestampType struct {
	base
	Unit     TimeUnit
	Timezone string // empty means naive/no timezone
}

func (t *Time32Type) String() string { return fmt.Sprintf("time32[%s]", t.Unit) }
func (t *Time64Type) String() string { return fmt.Sprintf("time64[%s]", t.Unit) }
func (t *TimestampType) String() string {
	if t.Timezone == "" {
		return fmt.Sprintf("timestamp[%s]", t.Unit)
	}
	return fmt.Sprintf("timestamp[%s, tz=%s]", t.Unit, t.Timezone)
}

// Time32 is a 32-bit time-of-day at Second or Millisecond resolution.
func Time32(unit TimeUnit) (Type, error) {
	if unit != Second && unit != Millisecond {
		return nil, errs.InvalidArgument(fmt.Errorf("%w: time32 unit %v (want second or millisecond)", errs.ErrInvalidBitWidth, unit))
	}
	return &Time32Type{base{Time32ID}, unit}, nil
}

// Time64 is a 64-bit time-of-day at Microsecond or Nanosecond resolution.
func Time64(unit TimeUnit) (Type, error) {
	if unit != Microsecond && unit != Nanosecond {
		return nil, errs.InvalidArgument(fmt.Errorf("%w: time64 unit %v (want microsecond or nanosecond)", errs.ErrInvalidBitWidth, unit))
	}
	return &Time64Type{base{Time64ID}, unit}, nil
}

// Timestamp is a 64-bit tick count in the given unit, optionally zoned.
func Timestamp(unit TimeUnit, timezone string) Type {
	return &TimestampType{base{TimestampID}, unit, timezone}
}

// ---- Interval family ----

type IntervalYearMonthType struct{ base }
type IntervalDayTimeType struct{ base }
type IntervalMonthDayNanoType struct{ base }

func (t *IntervalYearMonthType) String() string   { return "interval_year_month" }
func (t *IntervalDayTimeType) String() string     { return "interval_day_time" }
func (t *IntervalMonthDayNanoType) String() string { return "interval_month_day_nano" }

func IntervalYearMonth() Type   { return &IntervalYearMonthType{base{IntervalYearMonthID}} }
func IntervalDayTime() Type     { return &IntervalDayTimeType{base{IntervalDayTimeID}} }
func IntervalMonthDayNano() Type { return &IntervalMonthDayNanoType{base{IntervalMonthDayNanoID}} }

// ---- Decimal ----

type DecimalType struct {
	base
	BitWidth  int
	Precision int
	Scale     int
}

func (t *DecimalType) String() string {
	return fmt.Sprintf("decimal%d(%d,%d)", t.BitWidth, t.Precision, t.Scale)
}

func decimal(bitWidth, precision, scale int) (Type, error) {
	switch bitWidth {
	case 32, 64, 128, 256:
	default:
		return nil, errs.InvalidArgument(fmt.Errorf("%w: %d", errs.ErrInvalidDecimalWidth, bitWidth))
	}
	return &DecimalType{base{DecimalID}, bitWidth, precision, scale}, nil
}

func Decimal32(precision, scale int) (Type, error)  { return decimal(32, precision, scale) }
func Decimal64(precision, scale int) (Type, error)  { return decimal(64, precision, scale) }
func Decimal128(precision, scale int) (Type, error) { return decimal(128, precision, scale) }
func Decimal256(precision, scale int) (Type, error) { return decimal(256, precision, scale) }

// ---- FixedSizeBinary ----

type FixedSizeBinaryType struct {
	base
	ByteWidth int
}

func (t *FixedSizeBinaryType) String() string { return fmt.Sprintf("fixed_size_binary(%d)", t.ByteWidth) }

func FixedSizeBinary(byteWidth int) (Type, error) {
	if byteWidth <= 0 {
		return nil, errs.InvalidArgument(fmt.Errorf("%w: fixed size binary width %d must be positive", errs.ErrInvalidBitWidth, byteWidth))
	}
	return &FixedSizeBinaryType{base{FixedSizeBinaryID}, byteWidth}, nil
}

// ---- List family ----

type ListType struct {
	base
	Elem Field
}

type LargeListType struct {
	base
	Elem Field
}

type ListViewType struct {
	base
	Elem Field
}

type LargeListViewType struct {
	base
	Elem Field
}

type FixedSizeListType struct {
	base
	Elem   Field
	Stride int
}

func (t *ListType) String() string           { return fmt.Sprintf("list<%s>", t.Elem.Type) }
func (t *LargeListType) String() string      { return fmt.Sprintf("large_list<%s>", t.Elem.Type) }
func (t *ListViewType) String() string       { return fmt.Sprintf("list_view<%s>", t.Elem.Type) }
func (t *LargeListViewType) String() string  { return fmt.Sprintf("large_list_view<%s>", t.Elem.Type) }
func (t *FixedSizeListType) String() string {
	return fmt.Sprintf("fixed_size_list<%s>[%d]", t.Elem.Type, t.Stride)
}

func defaultedListField(elem Type) Field {
	return Field{Name: "item", Type: elem, Nullable: true}
}

func List(elem Type) Type      { return &ListType{base{ListID}, defaultedListField(elem)} }
func LargeList(elem Type) Type { return &LargeListType{base{LargeListID}, defaultedListField(elem)} }
func ListView(elem Type) Type  { return &ListViewType{base{ListViewID}, defaultedListField(elem)} }
func LargeListView(elem Type) Type {
	return &LargeListViewType{base{LargeListViewID}, defaultedListField(elem)}
}

func FixedSizeList(elem Type, stride int) (Type, error) {
	if stride < 0 {
		return nil, errs.InvalidArgument(fmt.Errorf("%w: fixed size list stride %d must be non-negative", errs.ErrInvalidBitWidth, stride))
	}
	return &FixedSizeListType{base{FixedSizeListID}, defaultedListField(elem), stride}, nil
}

// ---- Struct ----

type StructType struct {
	base
	Fields []Field
}

func (t *StructType) String() string { return fmt.Sprintf("struct<%d fields>", len(t.Fields)) }

func Struct(fields ...Field) Type {
	return &StructType{base{StructID}, fields}
}

// StructFromMap builds a struct type from a name->type map. Since Go maps
// have no iteration order, fields are sorted by name for determinism; every
// field is nullable and carries no metadata.
func StructFromMap(m map[string]Type) Type {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Type: m[name], Nullable: true})
	}
	return Struct(fields...)
}

// ---- Map ----

type MapType struct {
	base
	KeysSorted bool
	Entries    Field // struct field with exactly two children: key, value
}

func (t *MapType) String() string { return fmt.Sprintf("map<%s>", t.Entries.Type) }

// Map builds a map type whose physical layout is list<struct<key, value>>.
func Map(key, value Type, valueNullable bool, keysSorted bool) Type {
	entryStruct := Struct(
		Field{Name: "key", Type: key, Nullable: false},
		Field{Name: "value", Type: value, Nullable: valueNullable},
	)
	entries := Field{Name: "entries", Type: entryStruct, Nullable: false}
	return &MapType{base{MapID}, keysSorted, entries}
}

// ---- Union ----

type UnionType struct {
	base
	Mode       UnionMode
	Children   []Field
	TypeIDs    []int8
	typeIDToChild map[int8]int
	Classify   func(any) int8
}

func (t *UnionType) String() string { return fmt.Sprintf("%s_union<%d children>", t.Mode, len(t.Children)) }

// ChildIndex resolves a wire type id to its child slot, per the reverse map
// built at construction time.
func (t *UnionType) ChildIndex(typeID int8) (int, bool) {
	idx, ok := t.typeIDToChild[typeID]
	return idx, ok
}

// Union builds a union type. When typeIDs is nil, type ids are assigned in
// declaration order (0, 1, 2, ...). classify is consulted only by builders,
// never by the decoder.
func Union(mode UnionMode, children []Field, typeIDs []int8, classify func(any) int8) (Type, error) {
	if typeIDs == nil {
		typeIDs = make([]int8, len(children))
		for i := range children {
			typeIDs[i] = int8(i)
		}
	}
	reverse := make(map[int8]int, len(typeIDs))
	for childIdx, id := range typeIDs {
		if _, dup := reverse[id]; dup {
			return nil, errs.InvalidArgument(fmt.Errorf("%w: %d", errs.ErrDuplicateUnionTypeID, id))
		}
		reverse[id] = childIdx
	}
	return &UnionType{base{UnionID}, mode, children, typeIDs, reverse, classify}, nil
}

// ---- RunEndEncoded ----

type RunEndEncodedType struct {
	base
	RunEnds Field
	Values  Field
}

func (t *RunEndEncodedType) String() string {
	return fmt.Sprintf("run_end_encoded<%s>", t.Values.Type)
}

// RunEndEncoded builds a run-end-encoded type. runEndsType must be an
// integer type (Int16, Int32, or Int64, per the Arrow columnar spec).
func RunEndEncoded(runEndsType, valuesType Type) (Type, error) {
	if !isInteger(runEndsType.ID()) {
		return nil, errs.InvalidArgument(errs.ErrRunEndChildNotInteger)
	}
	return &RunEndEncodedType{
		base{RunEndEncodedID},
		Field{Name: "run_ends", Type: runEndsType, Nullable: false},
		Field{Name: "values", Type: valuesType, Nullable: true},
	}, nil
}

// ---- Dictionary ----

type DictionaryType struct {
	base
	Value     Type
	IndexType Type
	Ordered   bool
	ID        int64
}

func (t *DictionaryType) String() string {
	return fmt.Sprintf("dictionary<values=%s, indices=%s, ordered=%v>", t.Value, t.IndexType, t.Ordered)
}

// DictOption configures Dictionary beyond its required value type.
type DictOption func(*DictionaryType)

func WithIndexType(indexType Type) DictOption {
	return func(d *DictionaryType) { d.IndexType = indexType }
}

func WithOrdered(ordered bool) DictOption {
	return func(d *DictionaryType) { d.Ordered = ordered }
}

func WithDictionaryID(id int64) DictOption {
	return func(d *DictionaryType) { d.ID = id }
}

// Dictionary builds a dictionary-encoded type. Index type defaults to
// Int32, id defaults to -1 (local to one column), ordered defaults to
// false. The index type must be one of the signed/unsigned integer types.
func Dictionary(value Type, opts ...DictOption) (Type, error) {
	d := &DictionaryType{base{DictionaryID}, value, Int32(), false, -1}
	for _, opt := range opts {
		opt(d)
	}
	if !isInteger(d.IndexType.ID()) {
		return nil, errs.InvalidArgument(errs.ErrInvalidDictionaryIndex)
	}
	return d, nil
}

func isInteger(id TypeID) bool {
	switch id {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}
