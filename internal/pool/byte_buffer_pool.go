package pool

import (
	"io"
	"sync"
)

// Scratch buffer sizing.
const (
	ScratchDefaultSize  = 1024 * 16  // 16KiB
	ScratchMaxThreshold = 1024 * 512 // 512KiB, four 128KiB blocks plus headroom
)

// ByteBuffer is a capacity-tracked arena.
//
// The logical length lives in len(B); the allocation is cap(B). Buffers used as
// scratch space are grown with GrowNoCopy, which never preserves old content:
// callers must write bytes before reading them.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
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

// GrowNoCopy sets the logical length to n, reallocating when the capacity is
// insufficient. The returned bytes are garbage: neither the previous content
// nor zeroes are guaranteed.
//
// Capacity only ever increases.
func (bb *ByteBuffer) GrowNoCopy(n int) []byte {
	if n < 0 {
		panic("GrowNoCopy: negative length")
	}

	if cap(bb.B) < n {
		bb.B = make([]byte, n, growSize(cap(bb.B), n))
		return bb.B
	}

	bb.B = bb.B[:n]

	return bb.B
}

// growSize returns the new capacity for a buffer of capacity curCap that must hold
// at least required bytes.
//
//   - For small buffers (<64KB), grow by ScratchDefaultSize to minimize reallocations.
//   - For larger buffers, grow by 25% of current capacity to balance memory usage and reallocation cost.
func growSize(curCap, required int) int {
	growBy := ScratchDefaultSize
	if curCap > 4*ScratchDefaultSize {
		growBy = curCap / 4
	}

	if curCap+growBy < required {
		return required
	}

	return curCap + growBy
}

// ReadFullFrom replaces the content of the buffer with exactly n bytes read from r.
func (bb *ByteBuffer) ReadFullFrom(r io.Reader, n int) error {
	_, err := io.ReadFull(r, bb.GrowNoCopy(n))
	return err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int // Optional maximum size threshold for buffers
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
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
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var scratchDefaultPool = NewByteBufferPool(ScratchDefaultSize, ScratchMaxThreshold)

// GetScratch retrieves a ByteBuffer from the default scratch pool.
func GetScratch() *ByteBuffer {
	return scratchDefaultPool.Get()
}

// PutScratch returns a ByteBuffer to the default scratch pool.
func PutScratch(bb *ByteBuffer) {
	scratchDefaultPool.Put(bb)
}
