package ipc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/fbuf"
)

// countingWriter tracks the current byte offset as messages are written, so
// a FileWriter can record where each message started for its footer blocks.
type countingWriter struct {
	w   io.Writer
	pos int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.pos += int64(n)
	return n, err
}

// finishMessage wraps an already-encoded header table offset in a Message
// envelope and finishes the builder, returning the finished metadata bytes
// ready for WriteMessage.
func finishMessage(b *fbuf.Builder, headerType HeaderType, headerOff int, bodyLength int64) []byte {
	b.StartObject(4)
	addInt16(b, msgSlotVersion, int16(MetadataV5))
	addByteRaw(b, msgSlotHeaderType, byte(headerType))
	if headerOff != 0 {
		addUOffset(b, msgSlotHeader, headerOff)
	}
	addInt64(b, msgSlotBodyLength, bodyLength)
	msgOff := b.EndObject()
	b.Finish(msgOff)
	return b.FinishedBytes()
}

func paddedLen8(n int) int64 {
	return int64(n) + int64((8-n%8)%8)
}

// framedMetadataLen is the number of bytes WriteMessage writes before the
// body: the 8-byte continuation-marker-and-length prefix plus the metadata
// padded to 8 bytes. A file's Block.MetaDataLength records exactly this.
func framedMetadataLen(metadataBytes []byte) int32 {
	metaPad := (8 - (len(metadataBytes)+8)%8) % 8
	return int32(8 + len(metadataBytes) + metaPad)
}

// Writer is a stream-format IPC writer: a schema message (written lazily on
// the first batch or on Close), any number of dictionary/record batch
// messages, then an end-of-stream marker on Close.
type Writer struct {
	cw          *countingWriter
	schema      arrowtype.Schema
	compression arrowtype.CompressionCodec
	started     bool
	closed      bool
}

// WriteOption configures a Writer or FileWriter at construction time.
type WriteOption func(compressionSetter)

// compressionSetter is satisfied by both Writer and FileWriter.
type compressionSetter interface {
	SetCompression(codec arrowtype.CompressionCodec)
}

// WithCompression configures the codec every batch a writer writes is
// compressed with.
func WithCompression(codec arrowtype.CompressionCodec) WriteOption {
	return func(w compressionSetter) { w.SetCompression(codec) }
}

// NewWriter returns a stream writer for schema, writing to w.
func NewWriter(w io.Writer, schema arrowtype.Schema, opts ...WriteOption) *Writer {
	writer := &Writer{cw: &countingWriter{w: w}, schema: schema}
	for _, opt := range opts {
		opt(writer)
	}
	return writer
}

// SetCompression sets the codec every subsequently written batch's buffers
// are compressed with. The zero value, CompressionNone, writes uncompressed.
func (w *Writer) SetCompression(codec arrowtype.CompressionCodec) {
	w.compression = codec
}

func (w *Writer) ensureStarted() error {
	if w.started {
		return nil
	}
	w.started = true
	b := fbuf.NewBuilder(1024)
	schemaOff := EncodeSchema(b, w.schema)
	msgBytes := finishMessage(b, HeaderSchema, schemaOff, 0)
	_, err := WriteMessage(w.cw, msgBytes, nil)
	return err
}

// WriteDictionaryBatch writes one dictionary batch for id. Callers must
// write a dictionary's defining (non-delta) batch before any delta batch or
// any record batch referencing it, matching dictionaryContext's read-side
// requirement.
func (w *Writer) WriteDictionaryBatch(id int64, isDelta bool, valueType arrowtype.Type, values *arrowbatch.Batch) error {
	if w.closed {
		return errs.InvalidArgument(fmt.Errorf("write on a closed ipc writer"))
	}
	if err := w.ensureStarted(); err != nil {
		return err
	}
	h, body, err := EncodeDictionaryBatch(id, isDelta, valueType, values, w.compression)
	if err != nil {
		return err
	}
	b := fbuf.NewBuilder(1024)
	headerOff, err := encodeDictionaryBatchHeader(b, h)
	if err != nil {
		return err
	}
	msgBytes := finishMessage(b, HeaderDictionaryBatch, headerOff, paddedLen8(len(body)))
	_, err = WriteMessage(w.cw, msgBytes, body)
	return err
}

// WriteRecordBatch writes one row of column batches (one per schema field)
// as a single RecordBatch message.
func (w *Writer) WriteRecordBatch(batches []*arrowbatch.Batch, numRows int64) error {
	if w.closed {
		return errs.InvalidArgument(fmt.Errorf("write on a closed ipc writer"))
	}
	if err := w.ensureStarted(); err != nil {
		return err
	}
	h, body, err := EncodeRecordBatch(w.schema, batches, numRows, w.compression)
	if err != nil {
		return err
	}
	b := fbuf.NewBuilder(1024)
	headerOff, err := encodeRecordBatchHeader(b, h)
	if err != nil {
		return err
	}
	msgBytes := finishMessage(b, HeaderRecordBatch, headerOff, paddedLen8(len(body)))
	_, err = WriteMessage(w.cw, msgBytes, body)
	return err
}

// Close writes the end-of-stream marker. Writing a schema-only stream (zero
// batches) is legal.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.ensureStarted(); err != nil {
		return err
	}
	return WriteEOS(w.cw)
}

// FileWriter is a file-format IPC writer: leading magic, the same message
// stream a Writer produces, then a trailing footer (schema plus every
// dictionary/record batch's block pointer) and closing magic.
type FileWriter struct {
	cw          *countingWriter
	schema      arrowtype.Schema
	compression arrowtype.CompressionCodec
	started     bool
	closed      bool

	dictBlocks   []Block
	recordBlocks []Block
}

// NewFileWriter writes the leading ARROW1 magic (padded to 8 bytes) and
// returns a file writer for schema.
func NewFileWriter(w io.Writer, schema arrowtype.Schema, opts ...WriteOption) (*FileWriter, error) {
	fw := &FileWriter{cw: &countingWriter{w: w}, schema: schema}
	for _, opt := range opts {
		opt(fw)
	}
	if _, err := fw.cw.Write([]byte(FileMagic)); err != nil {
		return nil, errs.FormatError(err)
	}
	if pad := (8 - len(FileMagic)%8) % 8; pad > 0 {
		if _, err := fw.cw.Write(make([]byte, pad)); err != nil {
			return nil, errs.FormatError(err)
		}
	}
	return fw, nil
}

// SetCompression sets the codec every subsequently written batch's buffers
// are compressed with.
func (fw *FileWriter) SetCompression(codec arrowtype.CompressionCodec) {
	fw.compression = codec
}

func (fw *FileWriter) ensureStarted() error {
	if fw.started {
		return nil
	}
	fw.started = true
	b := fbuf.NewBuilder(1024)
	schemaOff := EncodeSchema(b, fw.schema)
	msgBytes := finishMessage(b, HeaderSchema, schemaOff, 0)
	_, err := WriteMessage(fw.cw, msgBytes, nil)
	return err
}

// WriteDictionaryBatch writes one dictionary batch for id and records its
// block pointer for the trailing footer.
func (fw *FileWriter) WriteDictionaryBatch(id int64, isDelta bool, valueType arrowtype.Type, values *arrowbatch.Batch) error {
	if fw.closed {
		return errs.InvalidArgument(fmt.Errorf("write on a closed ipc file writer"))
	}
	if err := fw.ensureStarted(); err != nil {
		return err
	}
	h, body, err := EncodeDictionaryBatch(id, isDelta, valueType, values, fw.compression)
	if err != nil {
		return err
	}
	b := fbuf.NewBuilder(1024)
	headerOff, err := encodeDictionaryBatchHeader(b, h)
	if err != nil {
		return err
	}
	bodyLen := paddedLen8(len(body))
	msgBytes := finishMessage(b, HeaderDictionaryBatch, headerOff, bodyLen)

	offset := fw.cw.pos
	metaLen := framedMetadataLen(msgBytes)
	if _, err := WriteMessage(fw.cw, msgBytes, body); err != nil {
		return err
	}
	fw.dictBlocks = append(fw.dictBlocks, Block{Offset: offset, MetaDataLength: metaLen, BodyLength: bodyLen})
	return nil
}

// WriteRecordBatch writes one row of column batches as a single RecordBatch
// message and records its block pointer for the trailing footer.
func (fw *FileWriter) WriteRecordBatch(batches []*arrowbatch.Batch, numRows int64) error {
	if fw.closed {
		return errs.InvalidArgument(fmt.Errorf("write on a closed ipc file writer"))
	}
	if err := fw.ensureStarted(); err != nil {
		return err
	}
	h, body, err := EncodeRecordBatch(fw.schema, batches, numRows, fw.compression)
	if err != nil {
		return err
	}
	b := fbuf.NewBuilder(1024)
	headerOff, err := encodeRecordBatchHeader(b, h)
	if err != nil {
		return err
	}
	bodyLen := paddedLen8(len(body))
	msgBytes := finishMessage(b, HeaderRecordBatch, headerOff, bodyLen)

	offset := fw.cw.pos
	metaLen := framedMetadataLen(msgBytes)
	if _, err := WriteMessage(fw.cw, msgBytes, body); err != nil {
		return err
	}
	fw.recordBlocks = append(fw.recordBlocks, Block{Offset: offset, MetaDataLength: metaLen, BodyLength: bodyLen})
	return nil
}

// Close writes the end-of-stream marker, the footer, its 4-byte length, and
// the trailing ARROW1 magic.
func (fw *FileWriter) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true
	if err := fw.ensureStarted(); err != nil {
		return err
	}
	if err := WriteEOS(fw.cw); err != nil {
		return err
	}

	b := fbuf.NewBuilder(1024)
	schemaOff := EncodeSchema(b, fw.schema)
	footerOff := encodeFooter(b, MetadataV5, schemaOff, fw.dictBlocks, fw.recordBlocks)
	b.Finish(footerOff)
	footerBytes := b.FinishedBytes()

	if _, err := fw.cw.Write(footerBytes); err != nil {
		return errs.FormatError(err)
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(footerBytes)))
	if _, err := fw.cw.Write(lenBuf[:]); err != nil {
		return errs.FormatError(err)
	}
	if _, err := fw.cw.Write([]byte(FileMagic)); err != nil {
		return errs.FormatError(err)
	}
	return nil
}
