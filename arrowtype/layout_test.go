package arrowtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullLayoutConsumesNoBuffers(t *testing.T) {
	l, ok := LayoutFor(Null)
	require.True(t, ok)
	require.Empty(t, l.Buffers)
}

func TestPrimitiveLayoutIsValidityThenValues(t *testing.T) {
	l, ok := LayoutFor(Int32)
	require.True(t, ok)
	require.Equal(t, []BufferKind{BufferValidity, BufferValues}, l.Buffers)
}

func TestUtf8LayoutIsValidityOffsetsValues(t *testing.T) {
	l, ok := LayoutFor(Utf8ID)
	require.True(t, ok)
	require.Equal(t, []BufferKind{BufferValidity, BufferOffsets, BufferValues}, l.Buffers)
}

func TestViewLayoutDeclaresVariadicBuffers(t *testing.T) {
	l, ok := LayoutFor(Utf8ViewID)
	require.True(t, ok)
	require.True(t, l.HasVariadicBuffers)
	require.Equal(t, []BufferKind{BufferValidity, BufferViews, BufferData}, l.Buffers)
}

func TestStructAndUnionHaveVariableChildCount(t *testing.T) {
	st, ok := LayoutFor(StructID)
	require.True(t, ok)
	require.Equal(t, -1, st.FixedChildCount)

	un, ok := LayoutFor(UnionID)
	require.True(t, ok)
	require.Equal(t, -1, un.FixedChildCount)
}

func TestRunEndEncodedHasExactlyTwoFixedChildren(t *testing.T) {
	l, ok := LayoutFor(RunEndEncodedID)
	require.True(t, ok)
	require.Equal(t, 2, l.FixedChildCount)
}
