package arrowbatch

import (
	"testing"

	"github.com/solandra/arrowlite/arrowtype"
	"github.com/stretchr/testify/require"
)

func strOffsetsAndValues(strs ...string) ([]int32, []byte) {
	offsets := make([]int32, len(strs)+1)
	var values []byte
	for i, s := range strs {
		offsets[i] = int32(len(values))
		values = append(values, s...)
	}
	offsets[len(strs)] = int32(len(values))
	return offsets, values
}

func TestUtf8AtUsesOffsets32(t *testing.T) {
	offsets, values := strOffsetsAndValues("foo", "", "barbaz")
	b := &Batch{Type: arrowtype.Utf8(), Length: 3, Offsets32: offsets, Values: values}
	v, ok := b.At(0)
	require.True(t, ok)
	require.Equal(t, "foo", v)
	v, _ = b.At(2)
	require.Equal(t, "barbaz", v)
}

func TestListAtDelegatesToChild(t *testing.T) {
	child := &Batch{Type: arrowtype.Int32(), Length: 5, Values: int32Values(10, 20, 30, 40, 50)}
	b := &Batch{
		Type:      arrowtype.List(arrowtype.Int32()),
		Length:    2,
		Offsets32: []int32{0, 2, 5},
		Children:  []*Batch{child},
	}
	v, ok := b.At(0)
	require.True(t, ok)
	require.Equal(t, []any{int32(10), int32(20)}, v)
	v, _ = b.At(1)
	require.Equal(t, []any{int32(30), int32(40), int32(50)}, v)
}

func TestStructAtEagerAndProxy(t *testing.T) {
	nameOffsets, nameValues := strOffsetsAndValues("a", "b")
	nameCol := &Batch{Type: arrowtype.Utf8(), Length: 2, Offsets32: nameOffsets, Values: nameValues}
	ageCol := &Batch{Type: arrowtype.Int32(), Length: 2, Values: int32Values(10, 20)}

	st := arrowtype.Struct(
		arrowtype.Field{Name: "name", Type: arrowtype.Utf8()},
		arrowtype.Field{Name: "age", Type: arrowtype.Int32()},
	)
	b := &Batch{Type: st, Length: 2, Children: []*Batch{nameCol, ageCol}}

	v, ok := b.At(0)
	require.True(t, ok)
	row := v.(map[string]any)
	require.Equal(t, "a", row["name"])
	require.Equal(t, int32(10), row["age"])

	b.RowStrategy = StructRowProxy
	v, _ = b.At(1)
	proxy := v.(StructRow)
	field, ok := proxy.Field("name")
	require.True(t, ok)
	require.Equal(t, "b", field)
}

func TestMapAtPairsAndKeyed(t *testing.T) {
	keyOffsets, keyValues := strOffsetsAndValues("k1", "k2", "k3")
	keyCol := &Batch{Type: arrowtype.Utf8(), Length: 3, Offsets32: keyOffsets, Values: keyValues}
	valCol := &Batch{Type: arrowtype.Int32(), Length: 3, Values: int32Values(1, 2, 3)}
	entries := &Batch{
		Type:     arrowtype.Struct(arrowtype.Field{Name: "key", Type: arrowtype.Utf8()}, arrowtype.Field{Name: "value", Type: arrowtype.Int32()}),
		Length:   3,
		Children: []*Batch{keyCol, valCol},
	}
	mapType := arrowtype.Map(arrowtype.Utf8(), arrowtype.Int32(), true, false)
	b := &Batch{
		Type:      mapType,
		Length:    2,
		Offsets32: []int32{0, 2, 3},
		Children:  []*Batch{entries},
	}

	v, ok := b.At(0)
	require.True(t, ok)
	pairs := v.([]MapEntry)
	require.Len(t, pairs, 2)
	require.Equal(t, "k1", pairs[0].Key)

	b.MapStrategy = MapRowKeyed
	v, _ = b.At(1)
	keyed := v.(map[any]any)
	require.Equal(t, int32(3), keyed["k3"])
}

func TestRunEndEncodedAtResolvesRun(t *testing.T) {
	runEnds := &Batch{Type: arrowtype.Int32(), Length: 3, Values: int32Values(3, 5, 8)}
	valOffsets, valValues := strOffsetsAndValues("x", "y", "z")
	values := &Batch{Type: arrowtype.Utf8(), Length: 3, Offsets32: valOffsets, Values: valValues}
	runEndType, err := arrowtype.RunEndEncoded(arrowtype.Int32(), arrowtype.Utf8())
	require.NoError(t, err)
	b := &Batch{Type: runEndType, Length: 8, Children: []*Batch{runEnds, values}}

	v, ok := b.At(0)
	require.True(t, ok)
	require.Equal(t, "x", v)
	v, _ = b.At(4)
	require.Equal(t, "y", v)
	v, _ = b.At(7)
	require.Equal(t, "z", v)
}

func TestDictionaryAtResolvesIndices(t *testing.T) {
	dictType, err := arrowtype.Dictionary(arrowtype.Utf8())
	require.NoError(t, err)
	nameOffsets, nameValues := strOffsetsAndValues("red", "green", "blue")
	dict := &Batch{Type: arrowtype.Utf8(), Length: 3, Offsets32: nameOffsets, Values: nameValues}
	b := &Batch{
		Type:       dictType,
		Length:     2,
		Values:     int32Values(2, 0),
		Dictionary: dict,
	}
	v, ok := b.At(0)
	require.True(t, ok)
	require.Equal(t, "blue", v)
	v, _ = b.At(1)
	require.Equal(t, "red", v)
}
