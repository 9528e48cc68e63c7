package arrowbuilder

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
)

// BuilderForType returns a fresh ColumnBuilder for the given type. List,
// Struct, FixedSizeList, Map, Union, and RunEndEncoded recurse into their
// own child builders; this factory covers every type InferType can produce
// for a leaf value except Dictionary (what InferType returns for strings),
// plus the structural and transform-carrying direct types a caller might
// already know ahead of time without going through inference. The four
// view-layout types (ListView, LargeListView, BinaryView, Utf8View) and
// Dictionary fall to the default case: views have no builder by design (a
// caller that wants one assembles the corresponding non-view batch and
// converts), and Dictionary is built explicitly via NewDictionaryBuilder,
// which needs a dictionary id this factory has no way to supply. Time32,
// Time64, the three Interval types, LargeBinary, LargeUtf8 and LargeList
// also fall to the default case, which returns an Unsupported error.
func BuilderForType(t arrowtype.Type) (ColumnBuilder, error) {
	switch t.ID() {
	case arrowtype.Null:
		return NewNullBuilder(), nil
	case arrowtype.Bool:
		return NewBoolBuilder(), nil
	case arrowtype.Int8:
		return NewInt8Builder(), nil
	case arrowtype.Int16:
		return NewInt16Builder(), nil
	case arrowtype.Int32:
		return NewInt32Builder(), nil
	case arrowtype.Int64:
		return NewInt64Builder(), nil
	case arrowtype.Uint8:
		return NewUint8Builder(), nil
	case arrowtype.Uint16:
		return NewUint16Builder(), nil
	case arrowtype.Uint32:
		return NewUint32Builder(), nil
	case arrowtype.Uint64:
		return NewUint64Builder(), nil
	case arrowtype.Float16:
		return NewFloat16Builder(), nil
	case arrowtype.Float32:
		return NewFloat32Builder(), nil
	case arrowtype.Float64:
		return NewFloat64Builder(), nil
	case arrowtype.Date32ID:
		return NewDate32Builder(), nil
	case arrowtype.Date64ID:
		return NewDate64Builder(), nil
	case arrowtype.TimestampID:
		tt := t.(*arrowtype.TimestampType)
		return NewTimestampBuilder(tt.Unit, tt.Timezone), nil
	case arrowtype.DecimalID:
		return NewDecimalBuilder(t)
	case arrowtype.FixedSizeBinaryID:
		ft := t.(*arrowtype.FixedSizeBinaryType)
		return NewFixedSizeBinaryBuilder(ft.ByteWidth)
	case arrowtype.Utf8ID:
		return NewUtf8Builder(), nil
	case arrowtype.BinaryID:
		return NewBinaryBuilder(), nil
	case arrowtype.ListID:
		lt := t.(*arrowtype.ListType)
		child, err := BuilderForType(lt.Elem.Type)
		if err != nil {
			return nil, err
		}
		return NewListBuilder(lt.Elem, child), nil
	case arrowtype.FixedSizeListID:
		lt := t.(*arrowtype.FixedSizeListType)
		child, err := BuilderForType(lt.Elem.Type)
		if err != nil {
			return nil, err
		}
		return NewFixedSizeListBuilder(lt.Elem, lt.Stride, child), nil
	case arrowtype.StructID:
		st := t.(*arrowtype.StructType)
		children := make([]ColumnBuilder, len(st.Fields))
		for i, f := range st.Fields {
			child, err := BuilderForType(f.Type)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		sb, err := NewStructBuilder(st.Fields, children)
		if err != nil {
			return nil, err
		}
		return sb, nil
	case arrowtype.MapID:
		mt := t.(*arrowtype.MapType)
		entries := mt.Entries.Type.(*arrowtype.StructType)
		keyField, valueField := entries.Fields[0], entries.Fields[1]
		keyBldr, err := BuilderForType(keyField.Type)
		if err != nil {
			return nil, err
		}
		valueBldr, err := BuilderForType(valueField.Type)
		if err != nil {
			return nil, err
		}
		return NewMapBuilder(keyField.Type, valueField.Type, valueField.Nullable, mt.KeysSorted, keyBldr, valueBldr), nil
	case arrowtype.UnionID:
		ut := t.(*arrowtype.UnionType)
		children := make([]ColumnBuilder, len(ut.Children))
		for i, f := range ut.Children {
			child, err := BuilderForType(f.Type)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return NewUnionBuilder(ut, children)
	case arrowtype.RunEndEncodedID:
		rt := t.(*arrowtype.RunEndEncodedType)
		valueBldr, err := BuilderForType(rt.Values.Type)
		if err != nil {
			return nil, err
		}
		return NewRunEndEncodedBuilder(rt.RunEnds.Type, rt.Values.Type, valueBldr)
	default:
		return nil, errs.Unsupported(fmt.Errorf("%w: no builder for %v", errs.ErrUnsupportedTypeID, t.ID()))
	}
}
