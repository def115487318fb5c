package parser

import (
	"bytes"
	"sync"
)

// Buffer sizes for node encoding. Most __compat objects encode well under
// the initial size; buffers grown past the max are dropped.
const (
	marshalBufferInitialSize = 4096
	marshalBufferMaxSize     = 1 << 20
)

var marshalBufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, marshalBufferInitialSize))
	},
}

func getMarshalBuffer() *bytes.Buffer {
	buf := marshalBufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putMarshalBuffer returns buf to the pool. The caller must not keep
// references to its bytes.
func putMarshalBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > marshalBufferMaxSize {
		return
	}
	marshalBufferPool.Put(buf)
}
