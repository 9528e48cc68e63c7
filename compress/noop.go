package compress

// NoopCodec bypasses compression entirely. It backs
// arrowtype.CompressionNone so the registry always has a usable entry even
// before any shim registers LZ4/Zstd.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoopCodec) Decompress(data []byte, _ int) ([]byte, error) { return data, nil }
