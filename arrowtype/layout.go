package arrowtype

// BufferKind names a physical buffer slot within a field's body, in the
// order the Arrow columnar spec mandates the visitor must read them.
type BufferKind uint8

const (
	BufferValidity BufferKind = iota
	BufferOffsets
	BufferSizes
	BufferValues
	BufferViews
	BufferData // out-of-line variadic data buffers for view layouts
)

// Layout describes, for one TypeID, which buffer kinds it consumes in order
// (none for Null, Union and RunEndEncoded, whose buffers or children the
// visitor handles itself) and how many children it carries (variable for
// Struct/Union; fixed for the rest). Every type consumes exactly one field
// node of its own, so Layout records no node count.
type Layout struct {
	ID           TypeID
	Buffers      []BufferKind
	FixedChildCount int // -1 when the child count is determined by the type value (Struct, Union)
	HasVariadicBuffers bool
}

var layoutTable = map[TypeID]Layout{}

func init() {
	register := func(id TypeID, fixedChildren int, variadic bool, buffers ...BufferKind) {
		layoutTable[id] = Layout{ID: id, Buffers: buffers, FixedChildCount: fixedChildren, HasVariadicBuffers: variadic}
	}

	register(Null, 0, false)
	register(Bool, 0, false, BufferValidity, BufferValues)

	for _, id := range []TypeID{
		Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64,
		Float16, Float32, Float64,
		Date32ID, Date64ID, Time32ID, Time64ID, TimestampID,
		IntervalYearMonthID, IntervalDayTimeID, IntervalMonthDayNanoID,
		DecimalID, FixedSizeBinaryID,
	} {
		register(id, 0, false, BufferValidity, BufferValues)
	}

	register(BinaryID, 0, false, BufferValidity, BufferOffsets, BufferValues)
	register(Utf8ID, 0, false, BufferValidity, BufferOffsets, BufferValues)
	register(LargeBinaryID, 0, false, BufferValidity, BufferOffsets, BufferValues)
	register(LargeUtf8ID, 0, false, BufferValidity, BufferOffsets, BufferValues)

	register(BinaryViewID, 0, true, BufferValidity, BufferViews, BufferData)
	register(Utf8ViewID, 0, true, BufferValidity, BufferViews, BufferData)

	register(ListID, 1, false, BufferValidity, BufferOffsets)
	register(LargeListID, 1, false, BufferValidity, BufferOffsets)
	register(ListViewID, 1, false, BufferValidity, BufferOffsets, BufferSizes)
	register(LargeListViewID, 1, false, BufferValidity, BufferOffsets, BufferSizes)
	register(FixedSizeListID, 1, false, BufferValidity)

	register(StructID, -1, false, BufferValidity)
	register(MapID, 1, false, BufferValidity, BufferOffsets)
	register(UnionID, -1, false) // union carries no top-level validity; sparse has one node/child, dense additionally an offsets buffer handled in the visitor
	register(RunEndEncodedID, 2, false)
	register(DictionaryID, 0, false, BufferValidity, BufferValues)
}

// LayoutFor returns the registered layout for id. The bool is false for an
// id outside the closed set (should not happen for a valid TypeID value).
func LayoutFor(id TypeID) (Layout, bool) {
	l, ok := layoutTable[id]
	return l, ok
}
