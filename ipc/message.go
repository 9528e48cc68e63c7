package ipc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/solandra/arrowlite/errs"
	"github.com/solandra/arrowlite/internal/fbuf"
)

// continuationMarker precedes every message's metadata length, distinguishing
// the modern framing from the legacy pre-V4 layout this module does not
// support (see errs.ErrUnsupportedPreV4).
const continuationMarker uint32 = 0xFFFFFFFF

// MetadataVersion is the Arrow IPC metadata format version carried in every
// Message and Schema/Footer.
type MetadataVersion int16

const (
	MetadataV1 MetadataVersion = iota
	MetadataV2
	MetadataV3
	MetadataV4
	MetadataV5
)

// HeaderType discriminates a Message's header union.
type HeaderType byte

const (
	HeaderNone HeaderType = iota
	HeaderSchema
	HeaderDictionaryBatch
	HeaderRecordBatch
	HeaderTensor
	HeaderSparseTensor
)

func (h HeaderType) String() string {
	switch h {
	case HeaderSchema:
		return "schema"
	case HeaderDictionaryBatch:
		return "dictionary_batch"
	case HeaderRecordBatch:
		return "record_batch"
	case HeaderTensor:
		return "tensor"
	case HeaderSparseTensor:
		return "sparse_tensor"
	default:
		return "none"
	}
}

// Message table slots (Message.fbs).
const (
	msgSlotVersion    = 0
	msgSlotHeaderType = 1
	msgSlotHeader     = 2
	msgSlotBodyLength = 3
)

// Message is one decoded IPC message envelope. Header is the still-raw
// header union table; callers dispatch on HeaderType and decode it with
// decodeSchemaHeader/decodeRecordBatchHeader/decodeDictionaryBatchHeader.
type Message struct {
	Version    MetadataVersion
	HeaderType HeaderType
	Header     fbuf.Table
	BodyLength int64
}

// ReadMessage reads one framed message (continuation marker, metadata
// length, metadata, body) from r. It returns io.EOF once the stream ends
// cleanly via a zero-length metadata frame, the same convention a reader
// reaching the end of a real IPC stream uses.
func ReadMessage(r io.Reader) (*Message, []byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if err == io.EOF {
			return nil, nil, io.EOF
		}
		return nil, nil, errs.FormatError(fmt.Errorf("%w: continuation marker: %v", errs.ErrTruncated, err))
	}
	if binary.LittleEndian.Uint32(head[:]) != continuationMarker {
		return nil, nil, errs.FormatError(errs.ErrContinuationMismatch)
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, nil, errs.FormatError(fmt.Errorf("%w: metadata length: %v", errs.ErrTruncated, err))
	}
	metaLen := int32(binary.LittleEndian.Uint32(lenBuf[:]))
	if metaLen == 0 {
		return nil, nil, io.EOF
	}
	if metaLen < 0 {
		return nil, nil, errs.FormatError(fmt.Errorf("%w: negative metadata length %d", errs.ErrInvalidFooter, metaLen))
	}

	metaBuf := make([]byte, metaLen)
	if _, err := io.ReadFull(r, metaBuf); err != nil {
		return nil, nil, errs.FormatError(fmt.Errorf("%w: metadata body: %v", errs.ErrTruncated, err))
	}

	root, err := fbuf.GetRootTable(metaBuf)
	if err != nil {
		return nil, nil, err
	}

	msg := &Message{
		Version:    MetadataVersion(root.Uint16(voffset(msgSlotVersion), uint16(MetadataV5))),
		HeaderType: HeaderType(root.Byte(voffset(msgSlotHeaderType), byte(HeaderNone))),
		BodyLength: root.Int64(voffset(msgSlotBodyLength), 0),
	}
	if headerTbl, ok := root.TableSlot(voffset(msgSlotHeader)); ok {
		msg.Header = headerTbl
	}

	var body []byte
	if msg.BodyLength > 0 {
		body = make([]byte, msg.BodyLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, nil, errs.FormatError(fmt.Errorf("%w: message body: %v", errs.ErrTruncated, err))
		}
	}

	return msg, body, nil
}

// WriteMessage frames an already-finished metadata FlatBuffers buffer plus
// its body (continuation marker, 8-byte-aligned metadata length, metadata
// padded to 8 bytes, body padded to 8 bytes) and returns the number of bytes
// written.
func WriteMessage(w io.Writer, metadataBytes []byte, body []byte) (int64, error) {
	metaPad := (8 - (len(metadataBytes)+8)%8) % 8
	paddedMetaLen := len(metadataBytes) + metaPad

	var written int64

	var head [8]byte
	binary.LittleEndian.PutUint32(head[0:4], continuationMarker)
	binary.LittleEndian.PutUint32(head[4:8], uint32(paddedMetaLen))
	n, err := w.Write(head[:])
	written += int64(n)
	if err != nil {
		return written, errs.FormatError(err)
	}

	n, err = w.Write(metadataBytes)
	written += int64(n)
	if err != nil {
		return written, errs.FormatError(err)
	}
	if metaPad > 0 {
		n, err = w.Write(make([]byte, metaPad))
		written += int64(n)
		if err != nil {
			return written, errs.FormatError(err)
		}
	}

	if len(body) > 0 {
		n, err = w.Write(body)
		written += int64(n)
		if err != nil {
			return written, errs.FormatError(err)
		}
		bodyPad := (8 - len(body)%8) % 8
		if bodyPad > 0 {
			n, err = w.Write(make([]byte, bodyPad))
			written += int64(n)
			if err != nil {
				return written, errs.FormatError(err)
			}
		}
	}

	return written, nil
}

// WriteEOS writes the zero-length metadata frame that terminates a stream.
func WriteEOS(w io.Writer) error {
	var tail [8]byte
	binary.LittleEndian.PutUint32(tail[0:4], continuationMarker)
	_, err := w.Write(tail[:])
	if err != nil {
		return errs.FormatError(err)
	}
	return nil
}
