// Package fbuf implements the small slice of the FlatBuffers wire format
// Arrow IPC metadata needs: vtable-indexed table reads, vectors, strings,
// and a right-to-left growable builder for writing them back out.
package fbuf

import (
	"encoding/binary"
	"fmt"

	"github.com/solandra/arrowlite/errs"
)

// Table is a cursor into a FlatBuffers-encoded buffer positioned at one
// table's start offset.
type Table struct {
	Buf []byte
	Pos uint32
}

func readU16(buf []byte, pos uint32) uint16 {
	return binary.LittleEndian.Uint16(buf[pos : pos+2])
}

func readI32(buf []byte, pos uint32) int32 {
	return int32(binary.LittleEndian.Uint32(buf[pos : pos+4]))
}

func readU32(buf []byte, pos uint32) uint32 {
	return binary.LittleEndian.Uint32(buf[pos : pos+4])
}

func readI64(buf []byte, pos uint32) int64 {
	return int64(binary.LittleEndian.Uint64(buf[pos : pos+8]))
}

// GetRootTable follows the root uoffset stored at the start of buf and
// returns a Table positioned at the resolved table start.
func GetRootTable(buf []byte) (Table, error) {
	if len(buf) < 4 {
		return Table{}, errs.FormatError(fmt.Errorf("%w: root uoffset needs 4 bytes, have %d", errs.ErrTruncated, len(buf)))
	}
	root := readU32(buf, 0)
	return followUOffset(buf, 0, root)
}

func followUOffset(buf []byte, at uint32, delta uint32) (Table, error) {
	pos := at + delta
	if int(pos)+4 > len(buf) {
		return Table{}, errs.FormatError(fmt.Errorf("%w: table position %d out of range (buffer length %d)", errs.ErrTruncated, pos, len(buf)))
	}
	return Table{Buf: buf, Pos: pos}, nil
}

// Offset resolves a vtable slot (a flatbuffers "voffset", e.g. 4, 6, 8, ...
// for fields 0, 1, 2, ...) to the field's absolute byte offset within Buf.
// It returns 0 when the field is absent (slot beyond the vtable's recorded
// size, or the recorded offset is the zero sentinel), matching the
// FlatBuffers table-read contract.
func (t Table) Offset(slot uint16) uint32 {
	if int(t.Pos)+4 > len(t.Buf) {
		return 0
	}
	soffset := readI32(t.Buf, t.Pos)
	vtable := uint32(int64(t.Pos) - int64(soffset))
	if int(vtable)+2 > len(t.Buf) {
		return 0
	}
	vtSize := readU16(t.Buf, vtable)
	if uint32(slot) >= uint32(vtSize) {
		return 0
	}
	fieldOffset := readU16(t.Buf, vtable+uint32(slot))
	if fieldOffset == 0 {
		return 0
	}
	return t.Pos + uint32(fieldOffset)
}

// Has reports whether the field at slot is present.
func (t Table) Has(slot uint16) bool { return t.Offset(slot) != 0 }

func (t Table) Byte(slot uint16, def byte) byte {
	o := t.Offset(slot)
	if o == 0 {
		return def
	}
	return t.Buf[o]
}

func (t Table) Uint16(slot uint16, def uint16) uint16 {
	o := t.Offset(slot)
	if o == 0 {
		return def
	}
	return readU16(t.Buf, o)
}

func (t Table) Int32(slot uint16, def int32) int32 {
	o := t.Offset(slot)
	if o == 0 {
		return def
	}
	return readI32(t.Buf, o)
}

func (t Table) Int64(slot uint16, def int64) int64 {
	o := t.Offset(slot)
	if o == 0 {
		return def
	}
	return readI64(t.Buf, o)
}

// Indirect resolves a nested-table uoffset stored at absolute position pos.
func (t Table) Indirect(pos uint32) Table {
	tbl, err := followUOffset(t.Buf, pos, readU32(t.Buf, pos))
	if err != nil {
		return Table{Buf: t.Buf, Pos: pos}
	}
	return tbl
}

// TableSlot resolves a slot holding a nested table's uoffset, returning
// (table, true) if present.
func (t Table) TableSlot(slot uint16) (Table, bool) {
	o := t.Offset(slot)
	if o == 0 {
		return Table{}, false
	}
	return t.Indirect(o), true
}

// VectorLen returns the element count of the vector stored at slot, or 0
// when absent.
func (t Table) VectorLen(slot uint16) int {
	o := t.Offset(slot)
	if o == 0 {
		return 0
	}
	vecPos := o + uint32(readI32(t.Buf, o))
	return int(readU32(t.Buf, vecPos))
}

// VectorElementPos returns the absolute byte position of element i (of
// stride bytes each) within the vector stored at slot. Callers must have
// already checked VectorLen.
func (t Table) VectorElementPos(slot uint16, i int, stride uint32) uint32 {
	o := t.Offset(slot)
	vecPos := o + uint32(readI32(t.Buf, o))
	return vecPos + 4 + uint32(i)*stride
}

// VectorTable resolves element i of a vector-of-tables stored at slot.
func (t Table) VectorTable(slot uint16, i int) Table {
	elemPos := t.VectorElementPos(slot, i, 4)
	return t.Indirect(elemPos)
}

// String reads a length-prefixed, NUL-terminated UTF-8 string stored at
// absolute position pos (the resolved field offset, not the slot).
func String(buf []byte, pos uint32) string {
	strPos := pos + uint32(readI32(buf, pos))
	length := readU32(buf, strPos)
	return string(buf[strPos+4 : strPos+4+length])
}

// StringSlot reads the string field at slot, or "" when absent.
func (t Table) StringSlot(slot uint16) string {
	o := t.Offset(slot)
	if o == 0 {
		return ""
	}
	return String(t.Buf, o)
}

// Bytes reads a length-prefixed byte vector stored at absolute position pos.
func Bytes(buf []byte, pos uint32) []byte {
	vecPos := pos + uint32(readI32(buf, pos))
	length := readU32(buf, vecPos)
	return buf[vecPos+4 : vecPos+4+length]
}
