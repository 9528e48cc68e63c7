package ipc

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/fbuf"
)

// Field table slots, matching the Arrow Schema.fbs Field table.
const (
	fieldSlotName     = 0
	fieldSlotNullable = 1
	fieldSlotTypeType = 2
	fieldSlotType     = 3
	fieldSlotDict     = 4
	fieldSlotChildren = 5
	fieldSlotMetadata = 6
)

// DictionaryEncoding table slots.
const (
	dictSlotID        = 0
	dictSlotIndexType = 1
	dictSlotOrdered   = 2
)

// Schema table slots.
const (
	schemaSlotEndianness = 0
	schemaSlotFields     = 1
	schemaSlotMetadata   = 2
)

// KeyValue table slots.
const (
	kvSlotKey   = 0
	kvSlotValue = 1
)

func buildOffsetVector(b *fbuf.Builder, offsets []int) int {
	if len(offsets) == 0 {
		return 0
	}
	b.StartVector(4, len(offsets), 4)
	for i := len(offsets) - 1; i >= 0; i-- {
		b.PlaceUOffset(offsets[i])
	}
	return b.EndVector(len(offsets))
}

func encodeKV(b *fbuf.Builder, kv arrowtype.KV) int {
	keyOff := b.CreateString(kv.Key)
	valOff := b.CreateString(kv.Value)
	b.StartObject(2)
	addUOffset(b, kvSlotKey, keyOff)
	addUOffset(b, kvSlotValue, valOff)
	return b.EndObject()
}

func encodeKVVector(b *fbuf.Builder, kvs []arrowtype.KV) int {
	if len(kvs) == 0 {
		return 0
	}
	offsets := make([]int, len(kvs))
	for i, kv := range kvs {
		offsets[i] = encodeKV(b, kv)
	}
	return buildOffsetVector(b, offsets)
}

func decodeKV(tbl fbuf.Table) arrowtype.KV {
	return arrowtype.KV{
		Key:   tbl.StringSlot(voffset(kvSlotKey)),
		Value: tbl.StringSlot(voffset(kvSlotValue)),
	}
}

func decodeKVVector(parent fbuf.Table, slot uint16) []arrowtype.KV {
	n := parent.VectorLen(slot)
	if n == 0 {
		return nil
	}
	out := make([]arrowtype.KV, n)
	for i := 0; i < n; i++ {
		out[i] = decodeKV(parent.VectorTable(slot, i))
	}
	return out
}

// structuralChildren returns the Field children a given value type's wire
// representation carries, i.e. every case the Arrow columnar format encodes
// through Field.children rather than through the Type union table itself.
func structuralChildren(t arrowtype.Type) []arrowtype.Field {
	switch v := t.(type) {
	case *arrowtype.ListType:
		return []arrowtype.Field{v.Elem}
	case *arrowtype.LargeListType:
		return []arrowtype.Field{v.Elem}
	case *arrowtype.ListViewType:
		return []arrowtype.Field{v.Elem}
	case *arrowtype.LargeListViewType:
		return []arrowtype.Field{v.Elem}
	case *arrowtype.FixedSizeListType:
		return []arrowtype.Field{v.Elem}
	case *arrowtype.StructType:
		return v.Fields
	case *arrowtype.MapType:
		return []arrowtype.Field{v.Entries}
	case *arrowtype.UnionType:
		return v.Children
	case *arrowtype.RunEndEncodedType:
		return []arrowtype.Field{v.RunEnds, v.Values}
	default:
		return nil
	}
}

// encodeField writes one Field table (and, recursively, its children,
// its Type union value, and its dictionary encoding if any) and returns
// its offset. Every object a Field references must be fully built first,
// since the builder writes back-to-front.
func encodeField(b *fbuf.Builder, f arrowtype.Field) int {
	var nameOff int
	if f.Name != "" {
		nameOff = b.CreateString(f.Name)
	}

	physical := f.Type
	dt, isDict := f.Type.(*arrowtype.DictionaryType)
	if isDict {
		physical = dt.Value
	}

	childFields := structuralChildren(physical)
	childOffsets := make([]int, len(childFields))
	for i, cf := range childFields {
		childOffsets[i] = encodeField(b, cf)
	}
	childrenVec := buildOffsetVector(b, childOffsets)

	metaVec := encodeKVVector(b, f.Metadata)

	tag, typeOff := encodeTypeTable(b, physical)

	var dictOff int
	if isDict {
		bitWidth, signed := intBitWidthAndSign(dt.IndexType.ID())
		indexOff := encodeIntTable(b, bitWidth, signed)
		b.StartObject(3)
		addInt64(b, dictSlotID, dt.ID)
		addUOffset(b, dictSlotIndexType, indexOff)
		addBool(b, dictSlotOrdered, dt.Ordered)
		dictOff = b.EndObject()
	}

	b.StartObject(7)
	if nameOff != 0 {
		addUOffset(b, fieldSlotName, nameOff)
	}
	addBool(b, fieldSlotNullable, f.Nullable)
	addByteRaw(b, fieldSlotTypeType, byte(tag))
	addUOffset(b, fieldSlotType, typeOff)
	if dictOff != 0 {
		addUOffset(b, fieldSlotDict, dictOff)
	}
	if childrenVec != 0 {
		addUOffset(b, fieldSlotChildren, childrenVec)
	}
	if metaVec != 0 {
		addUOffset(b, fieldSlotMetadata, metaVec)
	}
	return b.EndObject()
}

// decodeField reconstructs a Field from its table, recursing into children
// before resolving the Type union (container types need their children's
// decoded types to build the parent arrowtype.Type).
func decodeField(tbl fbuf.Table) (arrowtype.Field, error) {
	name := tbl.StringSlot(voffset(fieldSlotName))
	nullable := tbl.Byte(voffset(fieldSlotNullable), 0) != 0
	tag := typeTag(tbl.Byte(voffset(fieldSlotTypeType), byte(tagNone)))

	childSlot := voffset(fieldSlotChildren)
	childCount := tbl.VectorLen(childSlot)
	children := make([]arrowtype.Field, childCount)
	for i := 0; i < childCount; i++ {
		child, err := decodeField(tbl.VectorTable(childSlot, i))
		if err != nil {
			return arrowtype.Field{}, err
		}
		children[i] = child
	}

	typeTbl, ok := tbl.TableSlot(voffset(fieldSlotType))
	if !ok && tag != tagNull {
		return arrowtype.Field{}, errs.FormatError(fmt.Errorf("%w: field %q missing its type table", errs.ErrInvalidVTable, name))
	}
	valueType, err := decodeTypeTable(tag, typeTbl, children)
	if err != nil {
		return arrowtype.Field{}, err
	}

	if dictTbl, ok := tbl.TableSlot(voffset(fieldSlotDict)); ok {
		id := dictTbl.Int64(voffset(dictSlotID), -1)
		ordered := dictTbl.Byte(voffset(dictSlotOrdered), 0) != 0
		indexTbl, ok := dictTbl.TableSlot(voffset(dictSlotIndexType))
		if !ok {
			return arrowtype.Field{}, errs.FormatError(fmt.Errorf("%w: dictionary encoding missing index type", errs.ErrInvalidVTable))
		}
		bitWidth, signed := decodeIntTable(indexTbl)
		indexType, err := intTypeFromWidthAndSign(bitWidth, signed)
		if err != nil {
			return arrowtype.Field{}, err
		}
		valueType, err = arrowtype.Dictionary(valueType, arrowtype.WithIndexType(indexType), arrowtype.WithOrdered(ordered), arrowtype.WithDictionaryID(id))
		if err != nil {
			return arrowtype.Field{}, err
		}
	}

	return arrowtype.Field{
		Name:     name,
		Type:     valueType,
		Nullable: nullable,
		Metadata: decodeKVVector(tbl, voffset(fieldSlotMetadata)),
	}, nil
}

// EncodeSchema writes a Schema table and returns its offset.
func EncodeSchema(b *fbuf.Builder, schema arrowtype.Schema) int {
	fieldOffsets := make([]int, len(schema.Fields))
	for i, f := range schema.Fields {
		fieldOffsets[i] = encodeField(b, f)
	}
	fieldsVec := buildOffsetVector(b, fieldOffsets)
	metaVec := encodeKVVector(b, schema.Metadata)

	b.StartObject(3)
	addInt16(b, schemaSlotEndianness, 0) // Little; this module is little-endian only
	if fieldsVec != 0 {
		addUOffset(b, schemaSlotFields, fieldsVec)
	}
	if metaVec != 0 {
		addUOffset(b, schemaSlotMetadata, metaVec)
	}
	return b.EndObject()
}

// DecodeSchema reconstructs a Schema from its table.
func DecodeSchema(tbl fbuf.Table) (arrowtype.Schema, error) {
	slot := voffset(schemaSlotFields)
	n := tbl.VectorLen(slot)
	fields := make([]arrowtype.Field, n)
	for i := 0; i < n; i++ {
		f, err := decodeField(tbl.VectorTable(slot, i))
		if err != nil {
			return arrowtype.Schema{}, err
		}
		fields[i] = f
	}
	return arrowtype.Schema{
		Fields:   fields,
		Metadata: decodeKVVector(tbl, voffset(schemaSlotMetadata)),
	}, nil
}
