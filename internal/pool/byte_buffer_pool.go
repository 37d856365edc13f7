package pool

import (
	"io"
	"sync"
)

// Buffer sizes for encoder output. A beatmap record is typically a few
// hundred bytes; a whole osu!.db is usually several megabytes.
const (
	RecordBufferDefaultSize   = 1024 * 4         // 4KiB
	RecordBufferMaxThreshold  = 1024 * 64        // 64KiB
	FileBufferDefaultSize     = 1024 * 1024      // 1MiB
	FileBufferMaxThreshold    = 1024 * 1024 * 32 // 32MiB
	growStepForSmallBuffers   = 1024 * 16
	smallBufferGrowthBoundary = 4 * growStepForSmallBuffers
)

// ByteBuffer is an append-only byte slice with amortised growth.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Grow ensures room for requiredBytes more bytes.
//
// Small buffers grow in 16KiB steps, larger ones by 25% of their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := growStepForSmallBuffers
	if cap(bb.B) > smallBufferGrowthBoundary {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers that drops buffers grown past
// maxThreshold instead of retaining them.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize capacity.
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

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool.
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
	recordPool = NewByteBufferPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)
	filePool   = NewByteBufferPool(FileBufferDefaultSize, FileBufferMaxThreshold)
)

// GetRecordBuffer retrieves a buffer sized for a single record.
func GetRecordBuffer() *ByteBuffer {
	return recordPool.Get()
}

// PutRecordBuffer returns a buffer obtained from GetRecordBuffer.
func PutRecordBuffer(bb *ByteBuffer) {
	recordPool.Put(bb)
}

// GetFileBuffer retrieves a buffer sized for a whole database file.
func GetFileBuffer() *ByteBuffer {
	return filePool.Get()
}

// PutFileBuffer returns a buffer obtained from GetFileBuffer.
func PutFileBuffer(bb *ByteBuffer) {
	filePool.Put(bb)
}
