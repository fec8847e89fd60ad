package femtologging

import (
	"bytes"
	"sync"
)

// Buffer pools for formatter scratch space, adapted from sawmill's
// pools.go. Unlike sawmill, femtologging does not pool Records (see
// record.go) or FlatAttributes/RecursiveMap (dropped along with builder.go
// — see DESIGN.md): a formatter's buffer is the one object in this
// pipeline that is exclusively owned and released by a single worker
// goroutine within a single Format call, which is exactly the shape
// sync.Pool is for.
var (
	bufferPool = sync.Pool{
		New: func() any { return bytes.NewBuffer(make([]byte, 0, 2048)) },
	}
	smallBufferPool = sync.Pool{
		New: func() any { return bytes.NewBuffer(make([]byte, 0, 128)) },
	}
)

// GetBuffer obtains a reset buffer from the pool.
func GetBuffer() *bytes.Buffer { return bufferPool.Get().(*bytes.Buffer) }

// ReturnBuffer resets buf and returns it to the pool.
func ReturnBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// GetSmallBuffer obtains a reset small buffer from the pool, sized for
// keys and short strings. Used as formatter.go's exception-chain renderer
// scratch space, one node's rendered text at a time.
func GetSmallBuffer() *bytes.Buffer { return smallBufferPool.Get().(*bytes.Buffer) }

// ReturnSmallBuffer resets buf and returns it to the pool.
func ReturnSmallBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	smallBufferPool.Put(buf)
}
