package arrowtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaFieldByNameResolvesDuplicatesToFirst(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "x", Type: Int32()},
		{Name: "x", Type: Utf8()},
	}}

	f, ok := schema.FieldByName("x")
	require.True(t, ok)
	require.Equal(t, Int32, f.Type.ID())
	require.Equal(t, 0, schema.IndexOf("x"))
}

func TestSchemaFieldByNameMissing(t *testing.T) {
	schema := &Schema{Fields: []Field{{Name: "x", Type: Int32()}}}
	_, ok := schema.FieldByName("missing")
	require.False(t, ok)
	require.Equal(t, -1, schema.IndexOf("missing"))
}

func TestDictionaryFieldsDerivesIDToValueTypeMapRecursively(t *testing.T) {
	dict, err := Dictionary(Utf8(), WithDictionaryID(3))
	require.NoError(t, err)

	nested := Struct(Field{Name: "tag", Type: dict})
	schema := &Schema{Fields: []Field{
		{Name: "plain", Type: Int32()},
		{Name: "nested", Type: nested},
		{Name: "listed", Type: List(dict)},
	}}

	dicts := schema.DictionaryFields()
	require.Len(t, dicts, 1)
	require.Equal(t, Utf8ID, dicts[3].ID())
}
