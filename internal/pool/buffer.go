// Package pool provides reusable copy buffers for object downloads.
package pool

import (
	"sync"
)

const (
	// SmallBufferSize defines the size for small buffers (4KB)
	SmallBufferSize = 4 * 1024
	// MediumBufferSize defines the size for medium buffers (64KB)
	MediumBufferSize = 64 * 1024
	// LargeBufferSize defines the size for large buffers (1MB)
	LargeBufferSize = 1024 * 1024
)

// BufferPool manages reusable buffers of different sizes to reduce allocations.
type BufferPool struct {
	small  *sync.Pool
	medium *sync.Pool
	large  *sync.Pool
}

func newSizedPool(size int) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			buf := make([]byte, size)
			return &buf
		},
	}
}

// NewBufferPool creates a new buffer pool with default sizes.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		small:  newSizedPool(SmallBufferSize),
		medium: newSizedPool(MediumBufferSize),
		large:  newSizedPool(LargeBufferSize),
	}
}

// GetBuffer returns a full-length buffer able to hold at least size bytes,
// capped at LargeBufferSize. A non-positive size yields a medium buffer.
// The caller is responsible for calling PutBuffer to return the buffer to the pool.
func (bp *BufferPool) GetBuffer(size int) []byte {
	var p *sync.Pool
	switch {
	case size <= 0:
		p = bp.medium
	case size <= SmallBufferSize:
		p = bp.small
	case size <= MediumBufferSize:
		p = bp.medium
	default:
		p = bp.large
	}
	bufPtr := p.Get().(*[]byte)
	return (*bufPtr)[:cap(*bufPtr)]
}

// PutBuffer returns a buffer to the appropriate pool based on its capacity.
// Buffers of foreign sizes are dropped.
func (bp *BufferPool) PutBuffer(buf []byte) {
	buf = buf[:cap(buf)]
	switch cap(buf) {
	case SmallBufferSize:
		bp.small.Put(&buf)
	case MediumBufferSize:
		bp.medium.Put(&buf)
	case LargeBufferSize:
		bp.large.Put(&buf)
	}
}

var globalBufferPool = NewBufferPool()

// GetBuffer returns a buffer from the global pool for the specified size.
func GetBuffer(size int) []byte {
	return globalBufferPool.GetBuffer(size)
}

// PutBuffer returns a buffer to the global pool.
func PutBuffer(buf []byte) {
	globalBufferPool.PutBuffer(buf)
}
