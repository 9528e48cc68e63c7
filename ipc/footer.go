package ipc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/fbuf"
)

// FileMagic is the 6-byte marker framing the Arrow file format: once at the
// very start of the file, once just before the trailing footer length.
const FileMagic = "ARROW1"

// Block locates one message's metadata and body within a file. Like
// FieldNode and BufferRegion, it is a fixed-size (24-byte) inline struct
// with no vtable, stored in the Footer's dictionaries/recordBatches
// vectors.
type Block struct {
	Offset         int64
	MetaDataLength int32
	BodyLength     int64
}

const structBlockSize = 24

func buildBlockVector(b *fbuf.Builder, blocks []Block) int {
	if len(blocks) == 0 {
		return 0
	}
	b.StartVector(structBlockSize, len(blocks), 8)
	for i := len(blocks) - 1; i >= 0; i-- {
		blk := blocks[i]
		b.PlaceInt64(blk.BodyLength)
		b.PlaceInt32(0) // 4-byte pad between metaDataLength and bodyLength
		b.PlaceInt32(blk.MetaDataLength)
		b.PlaceInt64(blk.Offset)
	}
	return b.EndVector(len(blocks))
}

func readBlockVector(tbl fbuf.Table, slot uint16) []Block {
	n := tbl.VectorLen(slot)
	if n == 0 {
		return nil
	}
	out := make([]Block, n)
	for i := 0; i < n; i++ {
		pos := tbl.VectorElementPos(slot, i, structBlockSize)
		out[i] = Block{
			Offset:         int64(binary.LittleEndian.Uint64(tbl.Buf[pos : pos+8])),
			MetaDataLength: int32(binary.LittleEndian.Uint32(tbl.Buf[pos+8 : pos+12])),
			BodyLength:     int64(binary.LittleEndian.Uint64(tbl.Buf[pos+16 : pos+24])),
		}
	}
	return out
}

// Footer table slots.
const (
	footerSlotVersion       = 0
	footerSlotSchema        = 1
	footerSlotDictionaries  = 2
	footerSlotRecordBatches = 3
)

func encodeFooter(b *fbuf.Builder, version MetadataVersion, schemaOff int, dicts, records []Block) int {
	dictVec := buildBlockVector(b, dicts)
	recVec := buildBlockVector(b, records)
	b.StartObject(4)
	addInt16(b, footerSlotVersion, int16(version))
	addUOffset(b, footerSlotSchema, schemaOff)
	if dictVec != 0 {
		addUOffset(b, footerSlotDictionaries, dictVec)
	}
	if recVec != 0 {
		addUOffset(b, footerSlotRecordBatches, recVec)
	}
	return b.EndObject()
}

func decodeFooterTable(tbl fbuf.Table) (MetadataVersion, arrowtype.Schema, []Block, []Block, error) {
	version := MetadataVersion(tbl.Uint16(voffset(footerSlotVersion), uint16(MetadataV5)))
	schemaTbl, ok := tbl.TableSlot(voffset(footerSlotSchema))
	if !ok {
		return 0, arrowtype.Schema{}, nil, nil, errs.FormatError(fmt.Errorf("%w: footer missing schema", errs.ErrInvalidFooter))
	}
	schema, err := DecodeSchema(schemaTbl)
	if err != nil {
		return 0, arrowtype.Schema{}, nil, nil, err
	}
	dicts := readBlockVector(tbl, voffset(footerSlotDictionaries))
	records := readBlockVector(tbl, voffset(footerSlotRecordBatches))
	return version, schema, dicts, records, nil
}

// Result is the fully decoded contents of one IPC stream or file: its
// schema plus, for every field, the sequence of batches decoded from every
// RecordBatch message in message order.
type Result struct {
	Version MetadataVersion
	Schema  arrowtype.Schema
	Columns [][]*arrowbatch.Batch // Columns[i] parallels Schema.Fields[i]
}

// DecodeIPC reads an entire Arrow IPC stream or file from r, detecting
// which framing it uses from its first bytes, and decodes every record
// batch it contains, resolving dictionary batches along the way. The input
// is fully buffered into memory before decoding; callers with files too
// large to buffer should memory-map them and wrap the mapped bytes in a
// bytes.Reader themselves.
func DecodeIPC(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.FormatError(fmt.Errorf("%w: %v", errs.ErrTruncated, err))
	}
	if len(data) >= len(FileMagic) && string(data[:len(FileMagic)]) == FileMagic {
		return decodeFile(data)
	}
	return decodeStream(bytes.NewReader(data))
}

func decodeStream(r io.Reader) (*Result, error) {
	msg, _, err := ReadMessage(r)
	if err != nil {
		return nil, err
	}
	if msg.HeaderType != HeaderSchema {
		return nil, errs.FormatError(fmt.Errorf("%w: stream must open with a schema message, got %v", errs.ErrInvalidFooter, msg.HeaderType))
	}
	schema, err := DecodeSchema(msg.Header)
	if err != nil {
		return nil, err
	}

	res := &Result{Version: msg.Version, Schema: schema, Columns: make([][]*arrowbatch.Batch, len(schema.Fields))}
	dicts := newDictionaryContext(schema)

	for {
		msg, body, err := ReadMessage(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := applyMessage(res, dicts, msg, body); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func decodeFile(data []byte) (*Result, error) {
	if len(data) < len(FileMagic)*2+4 {
		return nil, errs.FormatError(fmt.Errorf("%w: file too small to hold a footer", errs.ErrMissingMagic))
	}
	if string(data[:len(FileMagic)]) != FileMagic || string(data[len(data)-len(FileMagic):]) != FileMagic {
		return nil, errs.FormatError(errs.ErrMissingMagic)
	}

	footerLenPos := len(data) - len(FileMagic) - 4
	footerLen := int32(binary.LittleEndian.Uint32(data[footerLenPos : footerLenPos+4]))
	if footerLen <= 0 || int(footerLen) > footerLenPos {
		return nil, errs.FormatError(fmt.Errorf("%w: invalid footer length %d", errs.ErrInvalidFooter, footerLen))
	}
	footerStart := footerLenPos - int(footerLen)
	footerTbl, err := fbuf.GetRootTable(data[footerStart:footerLenPos])
	if err != nil {
		return nil, err
	}
	version, schema, dictBlocks, recordBlocks, err := decodeFooterTable(footerTbl)
	if err != nil {
		return nil, err
	}

	res := &Result{Version: version, Schema: schema, Columns: make([][]*arrowbatch.Batch, len(schema.Fields))}
	dicts := newDictionaryContext(schema)

	for _, blk := range dictBlocks {
		msg, body, err := readBlockMessage(data, blk)
		if err != nil {
			return nil, err
		}
		if err := applyMessage(res, dicts, msg, body); err != nil {
			return nil, err
		}
	}
	for _, blk := range recordBlocks {
		msg, body, err := readBlockMessage(data, blk)
		if err != nil {
			return nil, err
		}
		if err := applyMessage(res, dicts, msg, body); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func readBlockMessage(data []byte, blk Block) (*Message, []byte, error) {
	if blk.Offset < 0 || int(blk.Offset) >= len(data) {
		return nil, nil, errs.FormatError(fmt.Errorf("%w: block offset %d out of range", errs.ErrInvalidFooter, blk.Offset))
	}
	return ReadMessage(bytes.NewReader(data[blk.Offset:]))
}

// applyMessage folds one decoded message (dictionary or record batch) into
// res/dicts. Any other header type is rejected: this module only reads the
// two message kinds a stream or file body ever carries after its schema.
func applyMessage(res *Result, dicts *dictionaryContext, msg *Message, body []byte) error {
	switch msg.HeaderType {
	case HeaderDictionaryBatch:
		h, err := decodeDictionaryBatchHeader(msg.Header)
		if err != nil {
			return err
		}
		return dicts.ingest(msg.Version, h, body)
	case HeaderRecordBatch:
		h, err := decodeRecordBatchHeader(msg.Header)
		if err != nil {
			return err
		}
		batches, err := LoadRecordBatch(msg.Version, res.Schema, h, body, dicts)
		if err != nil {
			return err
		}
		for i, b := range batches {
			res.Columns[i] = append(res.Columns[i], b)
		}
		return nil
	default:
		return errs.Unsupported(fmt.Errorf("%w: unexpected message header %v", errs.ErrUnsupportedTypeID, msg.HeaderType))
	}
}
