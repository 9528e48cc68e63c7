package errs

import "errors"

// Sentinel errors. Each is wrapped with one of the taxonomy constructors
// above at the call site, following the `errs.ErrXxx` naming convention.
var (
	// FormatError sentinels: the wire bytes are truncated, misaligned, or
	// otherwise not shaped the way the codec requires.
	ErrTruncated             = errors.New("truncated read")
	ErrMisaligned            = errors.New("buffer not 8-byte aligned")
	ErrUnknownTypeID         = errors.New("unknown type id")
	ErrMissingMagic          = errors.New("missing ARROW1 magic")
	ErrContinuationMismatch  = errors.New("missing or invalid continuation marker")
	ErrInvalidVTable         = errors.New("invalid flatbuffers vtable")
	ErrInvalidFooter         = errors.New("invalid file footer")
	ErrNodeBufferMismatch    = errors.New("field node/buffer cursor mismatch")
	ErrOffsetNotMonotonic    = errors.New("offsets buffer not monotonically increasing")
	ErrBatchLengthMismatch   = errors.New("record batch columns have mismatched lengths")
	ErrRunEndsNotIncreasing  = errors.New("run ends not strictly increasing")

	// Unsupported sentinels: the bytes are well formed but name a feature
	// this build cannot honor.
	ErrUnsupportedTypeID         = errors.New("unsupported type id")
	ErrUnsupportedCompression    = errors.New("no codec registered for compression type")
	ErrUnsupportedPreV4          = errors.New("feature requires IPC metadata version >= V4")
	ErrViewBuilderUnsupported    = errors.New("builder does not synthesize view-layout batches")
	ErrSchemaInferenceForUnions  = errors.New("schema inference over heterogeneous/union values is not supported")
	ErrSlicedBatchUnsupported    = errors.New("ipc encoding requires an unsliced batch (RowOffset must be 0)")

	// InvalidArgument sentinels: caller-supplied parameters are invalid.
	ErrInvalidBitWidth           = errors.New("invalid integer bit width")
	ErrInvalidDecimalWidth       = errors.New("invalid decimal bit width")
	ErrInvalidDictionaryIndex    = errors.New("dictionary index type must be an integer type")
	ErrDuplicateUnionTypeID      = errors.New("duplicate union type id")
	ErrRunEndChildNotInteger     = errors.New("run-end-encoded type requires an integer first child")
	ErrDeltaWithoutBase          = errors.New("delta dictionary batch received before any non-delta batch for its id")
	ErrInconsistentBatchBoundary = errors.New("columns do not share identical batch boundaries")
	ErrDuplicateDictionaryID     = errors.New("dictionary id already in use by a distinct dictionary")
	ErrFieldCountMismatch        = errors.New("value count does not match field count")
	ErrColumnNotFound            = errors.New("no column with that name")
	ErrColumnIndexOutOfRange     = errors.New("column index out of range")

	// RangeError sentinels: a value cannot be represented safely.
	ErrUnsafeCoercion  = errors.New("value exceeds safe integer range for requested representation")
	ErrOffsetOverflow  = errors.New("32-bit offset exceeds 2^31-1")

	// Mixed sentinels: type inference over incompatible values.
	ErrMixedTypes = errors.New("inferred type is ambiguous across the supplied values")
)
