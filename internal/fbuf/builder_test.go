package fbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildSimpleTable writes a two-field table {Id int64 (slot 0), Name
// string (slot 1)} and returns the finished buffer plus the root table
// position.
func buildSimpleTable(t *testing.T, b *Builder, id int64, name string) []byte {
	t.Helper()
	nameOff := 0
	if name != "" {
		nameOff = b.CreateString(name)
	}
	b.StartObject(2)
	if name != "" {
		b.PrependUOffsetSlot(1, nameOff)
	}
	b.PrependInt64Slot(0, id, 0)
	obj := b.EndObject()
	b.Finish(obj)
	return b.FinishedBytes()
}

func TestTableRoundTripsScalarAndStringFields(t *testing.T) {
	b := NewBuilder(64)
	buf := buildSimpleTable(t, b, 42, "hello")

	root, err := GetRootTable(buf)
	require.NoError(t, err)
	require.Equal(t, int64(42), root.Int64(4, 0)) // voffset 4 = field 0
	require.Equal(t, "hello", root.StringSlot(6)) // voffset 6 = field 1
}

func TestAbsentFieldReturnsCallerDefault(t *testing.T) {
	b := NewBuilder(64)
	buf := buildSimpleTable(t, b, 0, "")

	root, err := GetRootTable(buf)
	require.NoError(t, err)
	require.Equal(t, int64(-1), root.Int64(4, -1))
	require.Equal(t, "", root.StringSlot(6))
	require.False(t, root.Has(6))
}

func TestVTableDeduplicationReusesIdenticalVTable(t *testing.T) {
	b := NewBuilder(128)

	b.StartObject(2)
	b.PrependInt32Slot(0, 1, 0)
	b.PrependInt32Slot(1, 1, 0)
	obj1 := b.EndObject()

	b.StartObject(2)
	b.PrependInt32Slot(0, 2, 0)
	b.PrependInt32Slot(1, 2, 0)
	obj2 := b.EndObject()

	// Both tables have the same two-int32 shape and, needing no alignment
	// padding, the same inline size, so they must share one vtable.
	require.Len(t, b.vtables, 1)

	b.Finish(obj2)
	_ = obj1
}

func TestByteVectorRoundTrips(t *testing.T) {
	b := NewBuilder(32)
	vecOff := b.CreateByteVector([]byte{1, 2, 3, 4})

	b.StartObject(1)
	b.PrependUOffsetSlot(0, vecOff)
	obj := b.EndObject()
	b.Finish(obj)

	root, err := GetRootTable(b.FinishedBytes())
	require.NoError(t, err)
	o := root.Offset(4)
	require.NotZero(t, o)
	got := Bytes(root.Buf, o)
	require.Equal(t, []byte{1, 2, 3, 4}, got)
}
