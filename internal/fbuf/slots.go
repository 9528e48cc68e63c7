package fbuf

// The PrependXxxSlot helpers implement the table-write rule from the
// distilled spec: write the field only when it differs from its declared
// default, recording the slot only when a value was written. Writing a
// default-valued field unconditionally would still decode correctly but
// would bloat every message with redundant vtable-visible zero fields.

func (b *Builder) PrependBoolSlot(slot int, v, def bool) {
	if v == def {
		return
	}
	val := byte(0)
	if v {
		val = 1
	}
	b.Prep(1, 0)
	b.PlaceByte(val)
	b.Slot(slot)
}

func (b *Builder) PrependByteSlot(slot int, v, def byte) {
	if v == def {
		return
	}
	b.Prep(1, 0)
	b.PlaceByte(v)
	b.Slot(slot)
}

func (b *Builder) PrependUint16Slot(slot int, v, def uint16) {
	if v == def {
		return
	}
	b.Prep(2, 0)
	b.PlaceUint16(v)
	b.Slot(slot)
}

func (b *Builder) PrependInt16Slot(slot int, v, def int16) {
	if v == def {
		return
	}
	b.Prep(2, 0)
	b.PlaceInt16(v)
	b.Slot(slot)
}

func (b *Builder) PrependInt32Slot(slot int, v, def int32) {
	if v == def {
		return
	}
	b.Prep(4, 0)
	b.PlaceInt32(v)
	b.Slot(slot)
}

func (b *Builder) PrependUint32Slot(slot int, v, def uint32) {
	if v == def {
		return
	}
	b.Prep(4, 0)
	b.PlaceUint32(v)
	b.Slot(slot)
}

func (b *Builder) PrependInt64Slot(slot int, v, def int64) {
	if v == def {
		return
	}
	b.Prep(8, 0)
	b.PlaceInt64(v)
	b.Slot(slot)
}

func (b *Builder) PrependFloat64Slot(slot int, v, def float64) {
	if v == def {
		return
	}
	b.Prep(8, 0)
	b.PlaceFloat64(v)
	b.Slot(slot)
}

// PrependUOffsetSlot records a reference (child table, string, or vector)
// already written at childOffset (an Offset()-style position). Offsets
// have no meaningful "default" — absent means the field was never built.
func (b *Builder) PrependUOffsetSlot(slot int, childOffset int) {
	b.PlaceUOffset(childOffset)
	b.Slot(slot)
}
