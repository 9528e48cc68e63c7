package fbuf

import (
	"encoding/binary"
	"math"
)

const defaultBuilderSize = 1024

// Builder assembles a FlatBuffers buffer back to front: each Place* call
// moves the write cursor ("head") toward lower addresses, so by the time
// writing finishes, data sits at buf[head:]. Growth doubles the backing
// array and copies the already-written tail to the new array's end,
// mirroring the teacher's doubling ByteBuffer growth but adapted for a
// descending cursor instead of an appending one.
type Builder struct {
	buf  []byte
	head int

	minalign int

	objectStart   int
	currentSlots  []fieldSlot
	vtables       []int // offsets (from buffer start, i.e. Offset()-style) of previously written vtables

	finished bool
}

type fieldSlot struct {
	slot   int
	offset int // absolute position in buf where the field value begins
}

// NewBuilder allocates a builder with initialSize bytes of backing
// capacity, growable beyond that as needed.
func NewBuilder(initialSize int) *Builder {
	if initialSize <= 0 {
		initialSize = defaultBuilderSize
	}
	return &Builder{
		buf:      make([]byte, initialSize),
		head:     initialSize,
		minalign: 1,
	}
}

// Reset clears the builder for reuse without releasing its backing array.
func (b *Builder) Reset() {
	b.head = len(b.buf)
	b.minalign = 1
	b.objectStart = 0
	b.currentSlots = b.currentSlots[:0]
	b.vtables = b.vtables[:0]
	b.finished = false
}

// Offset returns the current write position measured from the start of the
// eventual output (i.e. how many bytes have been written so far).
func (b *Builder) Offset() int { return len(b.buf) - b.head }

func (b *Builder) growTo(need int) {
	if b.head >= need {
		return
	}
	cur := len(b.buf)
	newSize := cur
	if newSize == 0 {
		newSize = defaultBuilderSize
	}
	for newSize-b.head < need {
		newSize *= 2
	}
	grown := make([]byte, newSize)
	copy(grown[newSize-cur:], b.buf)
	b.head += newSize - cur
	b.buf = grown
}

func pad(offset, alignment int) int {
	if alignment <= 1 {
		return 0
	}
	return (alignment - offset%alignment) % alignment
}

// Prep ensures there is room for size bytes, aligned to size (or the
// builder's running minalign, whichever is larger), with additionalBytes
// more following after that are already accounted for in the alignment
// calculation (used when a uoffset is about to be written just before
// other already-placed bytes, as in vector/table headers).
func (b *Builder) Prep(size, additionalBytes int) {
	if size > b.minalign {
		b.minalign = size
	}
	alignSize := pad(b.Offset()+additionalBytes, size)
	b.growTo(alignSize + size + additionalBytes)
	for i := 0; i < alignSize; i++ {
		b.head--
		b.buf[b.head] = 0
	}
}

func (b *Builder) place(nbytes int, write func([]byte)) {
	b.growTo(nbytes)
	b.head -= nbytes
	write(b.buf[b.head : b.head+nbytes])
}

func (b *Builder) PlaceByte(v byte)     { b.place(1, func(s []byte) { s[0] = v }) }
func (b *Builder) PlaceUint16(v uint16) { b.place(2, func(s []byte) { binary.LittleEndian.PutUint16(s, v) }) }
func (b *Builder) PlaceUint32(v uint32) { b.place(4, func(s []byte) { binary.LittleEndian.PutUint32(s, v) }) }
func (b *Builder) PlaceUint64(v uint64) { b.place(8, func(s []byte) { binary.LittleEndian.PutUint64(s, v) }) }
func (b *Builder) PlaceInt16(v int16)   { b.PlaceUint16(uint16(v)) }
func (b *Builder) PlaceInt32(v int32)   { b.PlaceUint32(uint32(v)) }
func (b *Builder) PlaceInt64(v int64)   { b.PlaceUint64(uint64(v)) }
func (b *Builder) PlaceFloat32(v float32) {
	b.place(4, func(s []byte) { binary.LittleEndian.PutUint32(s, math.Float32bits(v)) })
}
func (b *Builder) PlaceFloat64(v float64) {
	b.place(8, func(s []byte) { binary.LittleEndian.PutUint64(s, math.Float64bits(v)) })
}

// PlaceUOffset writes a uoffset pointing to an already-written object at
// absolute offset target (an Offset()-style position, i.e. distance from
// the eventual buffer start).
func (b *Builder) PlaceUOffset(target int) {
	b.Prep(4, 0)
	rel := uint32(b.Offset() - target + 4)
	b.PlaceUint32(rel)
}

// StartObject begins a table with numFields vtable slots, all initially
// absent.
func (b *Builder) StartObject(numFields int) {
	b.currentSlots = b.currentSlots[:0]
	b.objectStart = b.Offset()
}

// Slot records that field slot (0-based field index) has its value already
// written at the current write head (call this immediately after placing
// the field's value).
func (b *Builder) Slot(slot int) {
	b.currentSlots = append(b.currentSlots, fieldSlot{slot: slot, offset: b.Offset()})
}

// EndObject finalizes the current table: builds its vtable (reusing a
// byte-identical previously written one when available), writes the
// table's leading soffset-to-vtable field, and returns the table's
// Offset()-style position.
func (b *Builder) EndObject() int {
	b.Prep(4, 0)
	b.PlaceUint32(0) // placeholder for the soffset-to-vtable field, patched below
	objectOffset := b.Offset()

	maxSlot := 0
	for _, s := range b.currentSlots {
		if s.slot+1 > maxSlot {
			maxSlot = s.slot + 1
		}
	}

	vtable := make([]uint16, maxSlot)
	for _, s := range b.currentSlots {
		vtable[s.slot] = uint16(objectOffset - s.offset)
	}

	// Trim trailing all-zero slots (FlatBuffers vtables need not declare
	// fields past the last present one).
	for len(vtable) > 0 && vtable[len(vtable)-1] == 0 {
		vtable = vtable[:len(vtable)-1]
	}

	vtableBytes := make([]byte, (len(vtable)+2)*2)
	binary.LittleEndian.PutUint16(vtableBytes[0:2], uint16(len(vtableBytes)))
	// Inline table size: objectOffset - objectStart (object body length).
	binary.LittleEndian.PutUint16(vtableBytes[2:4], uint16(objectOffset-b.objectStart))
	for i, off := range vtable {
		binary.LittleEndian.PutUint16(vtableBytes[4+i*2:6+i*2], off)
	}

	existing := b.findExistingVTable(vtableBytes)
	if existing >= 0 {
		b.writeSOffset(objectOffset, existing)
		return objectOffset
	}

	b.Prep(2, len(vtableBytes))
	for i := len(vtableBytes) - 1; i >= 0; i-- {
		b.PlaceByte(vtableBytes[i])
	}
	vtableOffset := b.Offset()
	b.vtables = append(b.vtables, vtableOffset)
	b.writeSOffset(objectOffset, vtableOffset)
	return objectOffset
}

// writeSOffset patches the 4-byte soffset field at the start of the table
// (already Prep'd for in EndObject's initial Prep(4,0)) to point at the
// given vtable.
func (b *Builder) writeSOffset(objectOffset, vtableOffset int) {
	pos := len(b.buf) - objectOffset
	soffset := int32(vtableOffset - objectOffset)
	binary.LittleEndian.PutUint32(b.buf[pos:pos+4], uint32(soffset))
}

func (b *Builder) findExistingVTable(candidate []byte) int {
	for _, vtOffset := range b.vtables {
		pos := len(b.buf) - vtOffset
		size := int(binary.LittleEndian.Uint16(b.buf[pos : pos+2]))
		if size != len(candidate) {
			continue
		}
		if string(b.buf[pos:pos+size]) == string(candidate) {
			return vtOffset
		}
	}
	return -1
}

// CreateString writes a length-prefixed, NUL-terminated UTF-8 string and
// returns its Offset()-style position.
func (b *Builder) CreateString(s string) int {
	b.Prep(4, len(s)+1)
	b.PlaceByte(0)
	for i := len(s) - 1; i >= 0; i-- {
		b.PlaceByte(s[i])
	}
	b.PlaceUint32(uint32(len(s)))
	return b.Offset()
}

// CreateByteVector writes a length-prefixed byte vector and returns its
// Offset()-style position.
func (b *Builder) CreateByteVector(data []byte) int {
	b.Prep(4, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		b.PlaceByte(data[i])
	}
	b.PlaceUint32(uint32(len(data)))
	return b.Offset()
}

// StartVector prepares to write numElems elements of elemSize bytes each,
// aligned to alignment, in reverse order (callers Place each element from
// last to first, then call EndVector).
func (b *Builder) StartVector(elemSize, numElems, alignment int) {
	b.Prep(4, elemSize*numElems)
	b.Prep(alignment, elemSize*numElems)
}

// EndVector writes the element count prefix and returns the vector's
// Offset()-style position.
func (b *Builder) EndVector(numElems int) int {
	b.PlaceUint32(uint32(numElems))
	return b.Offset()
}

// FinishedBytes returns the written region once Finish has placed the
// root uoffset.
func (b *Builder) FinishedBytes() []byte {
	return b.buf[b.head:]
}

// Finish writes the root uoffset pointing at rootTable (an Offset()-style
// position) and pads to the builder's running minalign.
func (b *Builder) Finish(rootTable int) {
	b.Prep(b.minalign, 4)
	b.PlaceUOffset(rootTable)
	b.finished = true
}
