package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBufferPool(t *testing.T) {
	buf := getMarshalBuffer()
	require.NotNil(t, buf)
	assert.Zero(t, buf.Len())
	assert.GreaterOrEqual(t, buf.Cap(), marshalBufferInitialSize)
	buf.WriteString("stale")
	putMarshalBuffer(buf)

	assert.Zero(t, getMarshalBuffer().Len())

	putMarshalBuffer(nil)
	putMarshalBuffer(bytes.NewBuffer(make([]byte, 0, marshalBufferMaxSize+1)))
	assert.LessOrEqual(t, getMarshalBuffer().Cap(), marshalBufferMaxSize)
}

func TestMarshalNodeJSONDoesNotAlias(t *testing.T) {
	doc, err := decodeJSONNode([]byte(`{"b":1,"a":[true,null,"x"]}`))
	require.NoError(t, err)

	first, err := MarshalNodeJSON(doc)
	require.NoError(t, err)
	arr, ok := Get(doc, "a")
	require.True(t, ok)
	second, err := MarshalNodeJSON(arr)
	require.NoError(t, err)

	assert.Equal(t, `{"b":1,"a":[true,null,"x"]}`, string(first))
	assert.Equal(t, `[true,null,"x"]`, string(second))
}
