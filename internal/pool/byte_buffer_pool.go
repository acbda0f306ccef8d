// Package pool provides a reusable growable byte buffer and a sync.Pool
// wrapper around it, adapted from the teacher's internal/pool package.
//
// biomdi reuses this for bytesio.BufferSink: encoding a record (or an
// entire NIST file) after a mutation allocates a buffer once per pool
// checkout instead of once per Encode call, which matters when a caller
// repeatedly mutates and re-serializes the same file (e.g. a conformance
// tool fixing up a batch of records).
package pool

import (
	"io"
	"sync"
)

// Default and maximum-retained sizes for the two buffer tiers biomdi
// needs: one sized for a single record's body, one sized for an entire
// NIST transaction file (which may carry a multi-megabyte image
// trailer).
const (
	RecordBufferDefaultSize  = 1024 * 4   // 4KiB
	RecordBufferMaxThreshold = 1024 * 256 // 256KiB
	FileBufferDefaultSize    = 1024 * 256 // 256KiB
	FileBufferMaxThreshold   = 1024 * 1024 * 16
)

// ByteBuffer is a growable byte slice wrapper whose capacity is retained
// across Reset calls so it can be recycled through a ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory
// for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Write appends data to the buffer, growing it as needed. It satisfies
// io.Writer so a ByteBuffer can back bytesio.BufferSink directly.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Grow ensures the buffer can hold requiredBytes more bytes without a
// further reallocation.
//
// Growth strategy: small buffers grow by a fixed default chunk to
// minimize reallocations; once a buffer exceeds four times that default,
// it grows by 25% of its current capacity to bound memory overhead.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := RecordBufferDefaultSize
	if cap(bb.B) > 4*RecordBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a sync.Pool of ByteBuffers. Buffers that grew past
// maxThreshold are discarded instead of returned to the pool, so one
// oversized file doesn't permanently inflate steady-state memory use.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default size.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	recordDefaultPool = NewByteBufferPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)
	fileDefaultPool   = NewByteBufferPool(FileBufferDefaultSize, FileBufferMaxThreshold)
)

// GetRecordBuffer retrieves a ByteBuffer from the default record-sized pool.
func GetRecordBuffer() *ByteBuffer { return recordDefaultPool.Get() }

// PutRecordBuffer returns a ByteBuffer to the default record-sized pool.
func PutRecordBuffer(bb *ByteBuffer) { recordDefaultPool.Put(bb) }

// GetFileBuffer retrieves a ByteBuffer from the default file-sized pool.
func GetFileBuffer() *ByteBuffer { return fileDefaultPool.Get() }

// PutFileBuffer returns a ByteBuffer to the default file-sized pool.
func PutFileBuffer(bb *ByteBuffer) { fileDefaultPool.Put(bb) }
