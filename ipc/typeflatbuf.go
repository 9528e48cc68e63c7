package ipc

import (
	"encoding/binary"
	"fmt"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/fbuf"
)

// typeTag is the byte discriminator for the Arrow Schema.fbs Type union,
// stored in a Field's type_type slot. Values follow the Arrow columnar
// format's own union ordering.
type typeTag byte

const (
	tagNone typeTag = iota
	tagNull
	tagInt
	tagFloatingPoint
	tagBinary
	tagUtf8
	tagBool
	tagDecimal
	tagDate
	tagTime
	tagTimestamp
	tagInterval
	tagList
	tagStruct
	tagUnion
	tagFixedSizeBinary
	tagFixedSizeList
	tagMap
	tagDuration
	tagLargeBinary
	tagLargeUtf8
	tagLargeList
	tagRunEndEncoded
	tagBinaryView
	tagUtf8View
	tagListView
	tagLargeListView
)

// addScalar writes a single field already Prep'd-and-placed by write, then
// records its slot. Kept tiny since every Type table below is a handful of
// scalar/string/vector fields.
func addInt16(b *fbuf.Builder, slot int, v int16) {
	b.Prep(2, 0)
	b.PlaceInt16(v)
	b.Slot(slot)
}

func addInt32(b *fbuf.Builder, slot int, v int32) {
	b.Prep(4, 0)
	b.PlaceInt32(v)
	b.Slot(slot)
}

func addInt64(b *fbuf.Builder, slot int, v int64) {
	b.Prep(8, 0)
	b.PlaceInt64(v)
	b.Slot(slot)
}

func addBool(b *fbuf.Builder, slot int, v bool) {
	b.Prep(1, 0)
	if v {
		b.PlaceByte(1)
	} else {
		b.PlaceByte(0)
	}
	b.Slot(slot)
}

func addByteRaw(b *fbuf.Builder, slot int, v byte) {
	b.Prep(1, 0)
	b.PlaceByte(v)
	b.Slot(slot)
}

func addUOffset(b *fbuf.Builder, slot int, target int) {
	b.PlaceUOffset(target)
	b.Slot(slot)
}

// encodeIntTable writes an Int{bitWidth:int32, is_signed:bool} table,
// shared by every plain integer Type and by DictionaryEncoding.indexType.
func encodeIntTable(b *fbuf.Builder, bitWidth int32, signed bool) int {
	b.StartObject(2)
	addInt32(b, 0, bitWidth)
	addBool(b, 1, signed)
	return b.EndObject()
}

func decodeIntTable(tbl fbuf.Table) (bitWidth int32, signed bool) {
	return tbl.Int32(voffset(0), 0), tbl.Byte(voffset(1), 0) != 0
}

// floatPrecision mirrors the Arrow FloatingPoint.precision enum.
const (
	precisionHalf int16 = iota
	precisionSingle
	precisionDouble
)

// dateUnit mirrors the Arrow Date.unit enum; this module only emits/accepts
// DAY (32-bit days since epoch), matching arrowtype.Date32.
const dateUnitDay int16 = 0

func intBitWidthAndSign(id arrowtype.TypeID) (int32, bool) {
	switch id {
	case arrowtype.Int8:
		return 8, true
	case arrowtype.Int16:
		return 16, true
	case arrowtype.Int32:
		return 32, true
	case arrowtype.Int64:
		return 64, true
	case arrowtype.Uint8:
		return 8, false
	case arrowtype.Uint16:
		return 16, false
	case arrowtype.Uint32:
		return 32, false
	case arrowtype.Uint64:
		return 64, false
	default:
		return 0, false
	}
}

func intTypeFromWidthAndSign(bitWidth int32, signed bool) (arrowtype.Type, error) {
	switch {
	case bitWidth == 8 && signed:
		return arrowtype.Int8(), nil
	case bitWidth == 16 && signed:
		return arrowtype.Int16(), nil
	case bitWidth == 32 && signed:
		return arrowtype.Int32(), nil
	case bitWidth == 64 && signed:
		return arrowtype.Int64(), nil
	case bitWidth == 8 && !signed:
		return arrowtype.Uint8(), nil
	case bitWidth == 16 && !signed:
		return arrowtype.Uint16(), nil
	case bitWidth == 32 && !signed:
		return arrowtype.Uint32(), nil
	case bitWidth == 64 && !signed:
		return arrowtype.Uint64(), nil
	default:
		return nil, errs.FormatError(fmt.Errorf("%w: int bitWidth=%d signed=%v", errs.ErrUnknownTypeID, bitWidth, signed))
	}
}

// encodeTypeTable builds the Type union value table for t (not the Field
// wrapper) and returns its discriminator tag plus its table offset. Callers
// must have already built any string/vector children the table references
// (CreateString/CreateByteVector/vectors), since the builder writes
// back-to-front and a table can only reference already-placed children.
func encodeTypeTable(b *fbuf.Builder, t arrowtype.Type) (typeTag, int) {
	switch v := t.(type) {
	case *arrowtype.NullType:
		b.StartObject(0)
		return tagNull, b.EndObject()
	case *arrowtype.BoolType:
		b.StartObject(0)
		return tagBool, b.EndObject()
	case *arrowtype.Int8Type, *arrowtype.Int16Type, *arrowtype.Int32Type, *arrowtype.Int64Type,
		*arrowtype.Uint8Type, *arrowtype.Uint16Type, *arrowtype.Uint32Type, *arrowtype.Uint64Type:
		bitWidth, signed := intBitWidthAndSign(t.ID())
		return tagInt, encodeIntTable(b, bitWidth, signed)
	case *arrowtype.Float16Type:
		b.StartObject(1)
		addInt16(b, 0, precisionHalf)
		return tagFloatingPoint, b.EndObject()
	case *arrowtype.Float32Type:
		b.StartObject(1)
		addInt16(b, 0, precisionSingle)
		return tagFloatingPoint, b.EndObject()
	case *arrowtype.Float64Type:
		b.StartObject(1)
		addInt16(b, 0, precisionDouble)
		return tagFloatingPoint, b.EndObject()
	case *arrowtype.BinaryType:
		b.StartObject(0)
		return tagBinary, b.EndObject()
	case *arrowtype.Utf8Type:
		b.StartObject(0)
		return tagUtf8, b.EndObject()
	case *arrowtype.LargeBinaryType:
		b.StartObject(0)
		return tagLargeBinary, b.EndObject()
	case *arrowtype.LargeUtf8Type:
		b.StartObject(0)
		return tagLargeUtf8, b.EndObject()
	case *arrowtype.BinaryViewType:
		b.StartObject(0)
		return tagBinaryView, b.EndObject()
	case *arrowtype.Utf8ViewType:
		b.StartObject(0)
		return tagUtf8View, b.EndObject()
	case *arrowtype.Date32Type:
		b.StartObject(1)
		addInt16(b, 0, dateUnitDay)
		return tagDate, b.EndObject()
	case *arrowtype.Date64Type:
		b.StartObject(1)
		addInt16(b, 0, dateUnitDay+1) // MILLISECOND
		return tagDate, b.EndObject()
	case *arrowtype.Time32Type:
		b.StartObject(2)
		addInt16(b, 0, int16(v.Unit))
		addInt32(b, 1, 32)
		return tagTime, b.EndObject()
	case *arrowtype.Time64Type:
		b.StartObject(2)
		addInt16(b, 0, int16(v.Unit))
		addInt32(b, 1, 64)
		return tagTime, b.EndObject()
	case *arrowtype.TimestampType:
		var tzOffset int
		if v.Timezone != "" {
			tzOffset = b.CreateString(v.Timezone)
		}
		b.StartObject(2)
		addInt16(b, 0, int16(v.Unit))
		if tzOffset != 0 {
			addUOffset(b, 1, tzOffset)
		}
		return tagTimestamp, b.EndObject()
	case *arrowtype.IntervalYearMonthType:
		b.StartObject(1)
		addInt16(b, 0, int16(arrowtype.YearMonth))
		return tagInterval, b.EndObject()
	case *arrowtype.IntervalDayTimeType:
		b.StartObject(1)
		addInt16(b, 0, int16(arrowtype.DayTime))
		return tagInterval, b.EndObject()
	case *arrowtype.IntervalMonthDayNanoType:
		b.StartObject(1)
		addInt16(b, 0, int16(arrowtype.MonthDayNano))
		return tagInterval, b.EndObject()
	case *arrowtype.DecimalType:
		b.StartObject(3)
		addInt32(b, 0, int32(v.Precision))
		addInt32(b, 1, int32(v.Scale))
		addInt32(b, 2, int32(v.BitWidth))
		return tagDecimal, b.EndObject()
	case *arrowtype.FixedSizeBinaryType:
		b.StartObject(1)
		addInt32(b, 0, int32(v.ByteWidth))
		return tagFixedSizeBinary, b.EndObject()
	case *arrowtype.ListType:
		b.StartObject(0)
		return tagList, b.EndObject()
	case *arrowtype.LargeListType:
		b.StartObject(0)
		return tagLargeList, b.EndObject()
	case *arrowtype.ListViewType:
		b.StartObject(0)
		return tagListView, b.EndObject()
	case *arrowtype.LargeListViewType:
		b.StartObject(0)
		return tagLargeListView, b.EndObject()
	case *arrowtype.FixedSizeListType:
		b.StartObject(1)
		addInt32(b, 0, int32(v.Stride))
		return tagFixedSizeList, b.EndObject()
	case *arrowtype.StructType:
		b.StartObject(0)
		return tagStruct, b.EndObject()
	case *arrowtype.MapType:
		b.StartObject(1)
		addBool(b, 0, v.KeysSorted)
		return tagMap, b.EndObject()
	case *arrowtype.UnionType:
		b.StartVector(4, len(v.TypeIDs), 4)
		for i := len(v.TypeIDs) - 1; i >= 0; i-- {
			b.PlaceInt32(int32(v.TypeIDs[i]))
		}
		vecOffset := b.EndVector(len(v.TypeIDs))
		b.StartObject(2)
		addInt16(b, 0, int16(v.Mode))
		addUOffset(b, 1, vecOffset)
		return tagUnion, b.EndObject()
	case *arrowtype.RunEndEncodedType:
		b.StartObject(0)
		return tagRunEndEncoded, b.EndObject()
	default:
		b.StartObject(0)
		return tagNull, b.EndObject()
	}
}

// decodeTypeTable rebuilds the value Type described by tag/table, using
// children (already-decoded from the enclosing Field's own children vector)
// for every container type whose structure lives in the children rather
// than in the Type table itself.
func decodeTypeTable(tag typeTag, tbl fbuf.Table, children []arrowtype.Field) (arrowtype.Type, error) {
	switch tag {
	case tagNull:
		return arrowtype.Null(), nil
	case tagBool:
		return arrowtype.Bool(), nil
	case tagInt:
		bitWidth, signed := decodeIntTable(tbl)
		return intTypeFromWidthAndSign(bitWidth, signed)
	case tagFloatingPoint:
		switch tbl.Uint16(voffset(0), uint16(precisionDouble)) {
		case uint16(precisionHalf):
			return arrowtype.Float16(), nil
		case uint16(precisionSingle):
			return arrowtype.Float32(), nil
		default:
			return arrowtype.Float64(), nil
		}
	case tagBinary:
		return arrowtype.Binary(), nil
	case tagUtf8:
		return arrowtype.Utf8(), nil
	case tagLargeBinary:
		return arrowtype.LargeBinary(), nil
	case tagLargeUtf8:
		return arrowtype.LargeUtf8(), nil
	case tagBinaryView:
		return arrowtype.BinaryView(), nil
	case tagUtf8View:
		return arrowtype.Utf8View(), nil
	case tagDate:
		if tbl.Uint16(voffset(0), uint16(dateUnitDay)) == uint16(dateUnitDay) {
			return arrowtype.Date32(), nil
		}
		return arrowtype.Date64(), nil
	case tagTime:
		unit := arrowtype.TimeUnit(tbl.Uint16(voffset(0), uint16(arrowtype.Millisecond)))
		if tbl.Int32(voffset(1), 32) == 64 {
			return arrowtype.Time64(unit)
		}
		return arrowtype.Time32(unit)
	case tagTimestamp:
		unit := arrowtype.TimeUnit(tbl.Uint16(voffset(0), uint16(arrowtype.Millisecond)))
		return arrowtype.Timestamp(unit, tbl.StringSlot(voffset(1))), nil
	case tagInterval:
		switch arrowtype.IntervalUnit(tbl.Uint16(voffset(0), uint16(arrowtype.YearMonth))) {
		case arrowtype.YearMonth:
			return arrowtype.IntervalYearMonth(), nil
		case arrowtype.DayTime:
			return arrowtype.IntervalDayTime(), nil
		default:
			return arrowtype.IntervalMonthDayNano(), nil
		}
	case tagDecimal:
		precision := int(tbl.Int32(voffset(0), 0))
		scale := int(tbl.Int32(voffset(1), 0))
		bitWidth := int(tbl.Int32(voffset(2), 128))
		switch bitWidth {
		case 32:
			return arrowtype.Decimal32(precision, scale)
		case 64:
			return arrowtype.Decimal64(precision, scale)
		case 256:
			return arrowtype.Decimal256(precision, scale)
		default:
			return arrowtype.Decimal128(precision, scale)
		}
	case tagFixedSizeBinary:
		return arrowtype.FixedSizeBinary(int(tbl.Int32(voffset(0), 0)))
	case tagList:
		return arrowtype.List(children[0].Type), nil
	case tagLargeList:
		return arrowtype.LargeList(children[0].Type), nil
	case tagListView:
		return arrowtype.ListView(children[0].Type), nil
	case tagLargeListView:
		return arrowtype.LargeListView(children[0].Type), nil
	case tagFixedSizeList:
		return arrowtype.FixedSizeList(children[0].Type, int(tbl.Int32(voffset(0), 0)))
	case tagStruct:
		return arrowtype.Struct(children...), nil
	case tagMap:
		keysSorted := tbl.Byte(voffset(0), 0) != 0
		entryStruct, ok := children[0].Type.(*arrowtype.StructType)
		if !ok || len(entryStruct.Fields) != 2 {
			return nil, errs.FormatError(fmt.Errorf("%w: map entries field is not a 2-field struct", errs.ErrUnknownTypeID))
		}
		key := entryStruct.Fields[0].Type
		value := entryStruct.Fields[1].Type
		return arrowtype.Map(key, value, entryStruct.Fields[1].Nullable, keysSorted), nil
	case tagUnion:
		mode := arrowtype.UnionMode(tbl.Uint16(voffset(0), 0))
		n := tbl.VectorLen(voffset(1))
		typeIDs := make([]int8, n)
		for i := 0; i < n; i++ {
			pos := tbl.VectorElementPos(voffset(1), i, 4)
			typeIDs[i] = int8(int32(binary.LittleEndian.Uint32(tbl.Buf[pos : pos+4])))
		}
		return arrowtype.Union(mode, children, typeIDs, nil)
	case tagRunEndEncoded:
		if len(children) != 2 {
			return nil, errs.FormatError(fmt.Errorf("%w: run_end_encoded needs exactly 2 children", errs.ErrUnknownTypeID))
		}
		return arrowtype.RunEndEncoded(children[0].Type, children[1].Type)
	default:
		return nil, errs.Unsupported(fmt.Errorf("%w: type tag %d", errs.ErrUnsupportedTypeID, tag))
	}
}

// voffset converts a 0-based field index (as passed to Builder.Slot) to the
// flatbuffers vtable byte offset fbuf.Table.Offset expects (4, 6, 8, ...).
func voffset(fieldIndex int) uint16 {
	return uint16(4 + 2*fieldIndex)
}
