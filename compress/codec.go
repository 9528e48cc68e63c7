// Package compress implements the body-buffer compression shim the IPC
// decoder and writer consult when a RecordBatch message declares a
// compression entry: a Codec registry keyed by arrowtype.CompressionCodec,
// and the 8-byte length-prefix framing every compressed region carries.
package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
)

// Codec compresses and decompresses one body buffer at a time. Compress is
// given the raw uncompressed bytes and returns the compressed form;
// Decompress is given the compressed bytes plus the known decompressed
// length (0 when unknown) and returns the original bytes.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte, decompressedLen int) ([]byte, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[arrowtype.CompressionCodec]Codec{
		arrowtype.CompressionNone: NoopCodec{},
	}
)

// Register installs (or replaces) the codec used for the given compression
// kind. Guarded by a RWMutex since registration is rare and lookups happen
// on every compressed batch decode/encode.
func Register(kind arrowtype.CompressionCodec, c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = c
}

// Get returns the registered codec for kind, or an Unsupported error when
// none has been registered — matching the distilled spec's requirement
// that an unregistered compression entry fails decode rather than silently
// passing bytes through.
func Get(kind arrowtype.CompressionCodec) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[kind]
	if !ok {
		return nil, errs.Unsupported(fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, kind))
	}
	return c, nil
}

func init() {
	Register(arrowtype.CompressionLZ4Frame, Lz4Codec{})
	Register(arrowtype.CompressionZstd, ZstdCodec{})
}

// rawSentinel is the 8-byte little-endian length value meaning "this
// region is stored uncompressed because compressing it did not shrink it".
const rawSentinel = int64(-1)

// FrameCompress compresses data with the codec for kind and prepends the
// 8-byte length prefix the wire format requires for every compressed
// region. When compression does not shrink the buffer, the original bytes
// are stored with the -1 sentinel prefix instead.
func FrameCompress(kind arrowtype.CompressionCodec, data []byte) ([]byte, error) {
	if kind == arrowtype.CompressionNone {
		return data, nil
	}
	codec, err := Get(kind)
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 8, 8+len(compressed))
	if len(compressed) < len(data) {
		binary.LittleEndian.PutUint64(out, uint64(len(data)))
		out = append(out, compressed...)
	} else {
		binary.LittleEndian.PutUint64(out, uint64(rawSentinel))
		out = append(out, data...)
	}
	return out, nil
}

// FrameDecompress reads the 8-byte length prefix and, unless it is the raw
// sentinel, decompresses the remainder with the codec for kind.
func FrameDecompress(kind arrowtype.CompressionCodec, framed []byte) ([]byte, error) {
	if len(framed) < 8 {
		return nil, errs.FormatError(fmt.Errorf("%w: compressed region shorter than its 8-byte length prefix", errs.ErrTruncated))
	}
	prefix := int64(binary.LittleEndian.Uint64(framed[:8]))
	body := framed[8:]
	if prefix == rawSentinel {
		return body, nil
	}
	if kind == arrowtype.CompressionNone {
		return body, nil
	}
	codec, err := Get(kind)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(body, int(prefix))
}
