package ipc

import (
	"encoding/binary"
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/compress"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/bitfield"
)

// loadContext walks a RecordBatch's field nodes and buffers in schema
// depth-first order, the three cursors (ni, bi, vi) advancing monotonically
// as loadField recurses into children. Never hold onto a loadContext past
// one RecordBatch: its cursors do not reset.
type loadContext struct {
	version     MetadataVersion
	compression arrowtype.CompressionCodec
	body        []byte

	nodes    []FieldNode
	buffers  []BufferRegion
	variadic []int64

	ni, bi, vi int

	dicts *dictionaryContext
}

func (c *loadContext) nextNode() (FieldNode, error) {
	if c.ni >= len(c.nodes) {
		return FieldNode{}, errs.FormatError(fmt.Errorf("%w: field node cursor past end (%d/%d)", errs.ErrNodeBufferMismatch, c.ni, len(c.nodes)))
	}
	n := c.nodes[c.ni]
	c.ni++
	return n, nil
}

func (c *loadContext) nextBufferRegion() (BufferRegion, error) {
	if c.bi >= len(c.buffers) {
		return BufferRegion{}, errs.FormatError(fmt.Errorf("%w: buffer cursor past end (%d/%d)", errs.ErrNodeBufferMismatch, c.bi, len(c.buffers)))
	}
	r := c.buffers[c.bi]
	c.bi++
	return r, nil
}

func (c *loadContext) nextVariadicCount() (int64, error) {
	if c.vi >= len(c.variadic) {
		return 0, errs.FormatError(fmt.Errorf("%w: variadic buffer count cursor past end", errs.ErrNodeBufferMismatch))
	}
	n := c.variadic[c.vi]
	c.vi++
	return n, nil
}

// nextBuffer consumes the next buffer region and returns its bytes, run
// through the body's compression codec when one applies. Compression is
// framed per buffer (see compress.FrameDecompress), not over the whole body.
func (c *loadContext) nextBuffer() ([]byte, error) {
	region, err := c.nextBufferRegion()
	if err != nil {
		return nil, err
	}
	if region.Length == 0 {
		return nil, nil
	}
	raw := c.body[region.Offset : region.Offset+region.Length]
	if c.compression == arrowtype.CompressionNone {
		return raw, nil
	}
	return compress.FrameDecompress(c.compression, raw)
}

func isWideOffsetType(id arrowtype.TypeID) bool {
	switch id {
	case arrowtype.LargeBinaryID, arrowtype.LargeUtf8ID, arrowtype.LargeListID, arrowtype.LargeListViewID:
		return true
	default:
		return false
	}
}

func int32sFromBytes(raw []byte) []int32 {
	n := len(raw) / 4
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
	}
	return out
}

func int64sFromBytes(raw []byte) []int64 {
	n := len(raw) / 8
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(binary.LittleEndian.Uint64(raw[i*8 : i*8+8]))
	}
	return out
}

// loadCommon consumes one field node plus the buffers t's layout declares,
// populating every generic Batch field a plain (non-union, non-null) type
// needs. Container types call this for their own node/validity/offsets
// before recursing into their children separately.
func (c *loadContext) loadCommon(t arrowtype.Type) (*arrowbatch.Batch, error) {
	node, err := c.nextNode()
	if err != nil {
		return nil, err
	}
	layout, ok := arrowtype.LayoutFor(t.ID())
	if !ok {
		return nil, errs.Unsupported(fmt.Errorf("%w: %v", errs.ErrUnsupportedTypeID, t.ID()))
	}

	b := &arrowbatch.Batch{
		Type:      t,
		Length:    int(node.Length),
		NullCount: int(node.NullCount),
	}

	for _, kind := range layout.Buffers {
		if kind == arrowtype.BufferData {
			continue // handled below via the variadic-count cursor
		}
		raw, err := c.nextBuffer()
		if err != nil {
			return nil, err
		}
		switch kind {
		case arrowtype.BufferValidity:
			if b.NullCount != 0 {
				b.Validity = bitfield.Wrap(raw, b.Length)
			}
		case arrowtype.BufferOffsets:
			if isWideOffsetType(t.ID()) {
				b.Offsets64 = int64sFromBytes(raw)
			} else {
				b.Offsets32 = int32sFromBytes(raw)
			}
		case arrowtype.BufferSizes:
			b.Sizes = int32sFromBytes(raw)
		case arrowtype.BufferValues:
			b.Values = raw
		case arrowtype.BufferViews:
			b.Values = raw
		}
	}

	if layout.HasVariadicBuffers {
		count, err := c.nextVariadicCount()
		if err != nil {
			return nil, err
		}
		for i := int64(0); i < count; i++ {
			raw, err := c.nextBuffer()
			if err != nil {
				return nil, err
			}
			b.DataBuffers = append(b.DataBuffers, raw)
		}
	}

	return b, nil
}

// loadNull consumes exactly one field node and zero buffers: a Null field
// still takes its node, so the cursors of sibling columns stay aligned
// even though it owns no buffer.
func (c *loadContext) loadNull(t arrowtype.Type) (*arrowbatch.Batch, error) {
	node, err := c.nextNode()
	if err != nil {
		return nil, err
	}
	return &arrowbatch.Batch{Type: t, Length: int(node.Length), NullCount: int(node.NullCount)}, nil
}

// loadUnion consumes a union's own node, its type-ids buffer (and, pre-V5,
// an unused validity bitmap to discard), its offsets buffer when dense, then
// recurses into every child independently — a union's children are not
// gated by the parent's own validity since union has none.
func (c *loadContext) loadUnion(ut *arrowtype.UnionType) (*arrowbatch.Batch, error) {
	node, err := c.nextNode()
	if err != nil {
		return nil, err
	}
	b := &arrowbatch.Batch{Type: ut, Length: int(node.Length), NullCount: int(node.NullCount)}

	if c.version < MetadataV5 {
		if _, err := c.nextBuffer(); err != nil {
			return nil, err
		}
	}

	idBytes, err := c.nextBuffer()
	if err != nil {
		return nil, err
	}
	typeIDs := make([]int8, b.Length)
	for i := 0; i < b.Length; i++ {
		typeIDs[i] = int8(idBytes[i])
	}
	b.TypeIDs = typeIDs

	if ut.Mode == arrowtype.DenseUnion {
		offBytes, err := c.nextBuffer()
		if err != nil {
			return nil, err
		}
		b.Offsets32 = int32sFromBytes(offBytes)
	}

	for _, childField := range ut.Children {
		childBatch, err := c.loadField(childField)
		if err != nil {
			return nil, err
		}
		b.Children = append(b.Children, childBatch)
	}
	return b, nil
}

// loadField decodes one field's batch, recursing into children for every
// nested type. children is derived the same way encodeField/decodeField
// derive them (structuralChildren), so the writer and the reader walk
// fields in the exact same order.
func (c *loadContext) loadField(field arrowtype.Field) (*arrowbatch.Batch, error) {
	t := field.Type
	id := t.ID()

	if id == arrowtype.Null {
		return c.loadNull(t)
	}
	if id == arrowtype.UnionID {
		return c.loadUnion(t.(*arrowtype.UnionType))
	}

	b, err := c.loadCommon(t)
	if err != nil {
		return nil, err
	}

	if id == arrowtype.DictionaryID {
		dt := t.(*arrowtype.DictionaryType)
		if c.dicts != nil {
			if col, ok := c.dicts.lookup(dt.ID); ok {
				b.Dictionary = col
			}
		}
		return b, nil
	}

	for _, childField := range structuralChildren(t) {
		childBatch, err := c.loadField(childField)
		if err != nil {
			return nil, err
		}
		b.Children = append(b.Children, childBatch)
	}
	return b, nil
}

// LoadRecordBatch decodes one RecordBatch message's body into one
// *arrowbatch.Batch per top-level schema field. dicts may be nil when
// decoding a dictionary batch's own single-column payload.
func LoadRecordBatch(version MetadataVersion, schema arrowtype.Schema, h RecordBatchHeader, body []byte, dicts *dictionaryContext) ([]*arrowbatch.Batch, error) {
	c := &loadContext{
		version:     version,
		compression: h.Compression,
		body:        body,
		nodes:       h.Nodes,
		buffers:     h.Buffers,
		variadic:    h.VariadicBufferCounts,
		dicts:       dicts,
	}

	batches := make([]*arrowbatch.Batch, len(schema.Fields))
	for i, f := range schema.Fields {
		b, err := c.loadField(f)
		if err != nil {
			return nil, err
		}
		batches[i] = b
	}
	if c.ni != len(c.nodes) || c.bi != len(c.buffers) {
		return nil, errs.FormatError(fmt.Errorf("%w: consumed %d/%d nodes, %d/%d buffers", errs.ErrNodeBufferMismatch, c.ni, len(c.nodes), c.bi, len(c.buffers)))
	}
	return batches, nil
}
