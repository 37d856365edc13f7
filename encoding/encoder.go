package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/osudb/endian"
	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/internal/pool"
)

// Encoder writes the osu! primitive types; it is the mirror of Decoder.
//
// The encoder appends to a pooled buffer. Call Finish when done to return
// the buffer to the pool; slices obtained from Bytes are invalid afterwards.
type Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	file   bool
}

// NewEncoder creates an encoder sized for a single record.
func NewEncoder() *Encoder {
	return &Encoder{
		buf:    pool.GetRecordBuffer(),
		engine: endian.GetLittleEndianEngine(),
	}
}

// NewFileEncoder creates an encoder sized for a whole database file.
func NewFileEncoder() *Encoder {
	return &Encoder{
		buf:    pool.GetFileBuffer(),
		engine: endian.GetLittleEndianEngine(),
		file:   true,
	}
}

// Bytes returns the encoded data. The slice shares the encoder's buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of bytes written.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Reset discards written data and keeps the buffer.
func (e *Encoder) Reset() {
	e.buf.Reset()
}

// Finish releases the buffer back to its pool.
func (e *Encoder) Finish() {
	if e.buf == nil {
		return
	}
	if e.file {
		pool.PutFileBuffer(e.buf)
	} else {
		pool.PutRecordBuffer(e.buf)
	}
	e.buf = nil
}

// WriteUint8 writes one byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf.Grow(1)
	e.buf.B = append(e.buf.B, v)
}

// WriteUint16 writes a little-endian uint16.
func (e *Encoder) WriteUint16(v uint16) {
	e.buf.Grow(2)
	e.buf.B = e.engine.AppendUint16(e.buf.B, v)
}

// WriteUint32 writes a little-endian uint32.
func (e *Encoder) WriteUint32(v uint32) {
	e.buf.Grow(4)
	e.buf.B = e.engine.AppendUint32(e.buf.B, v)
}

// WriteUint64 writes a little-endian uint64.
func (e *Encoder) WriteUint64(v uint64) {
	e.buf.Grow(8)
	e.buf.B = e.engine.AppendUint64(e.buf.B, v)
}

// WriteFloat32 writes the raw IEEE-754 bits of v, NaN payloads included.
func (e *Encoder) WriteFloat32(v float32) {
	e.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes the raw IEEE-754 bits of v, NaN payloads included.
func (e *Encoder) WriteFloat64(v float64) {
	e.WriteUint64(math.Float64bits(v))
}

// WriteBool writes 1 for true and 0 for false.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteUint8(1)
		return
	}
	e.WriteUint8(0)
}

// WriteVarUint writes v as unsigned LEB128.
func (e *Encoder) WriteVarUint(v uint64) {
	e.buf.Grow(maxVarintLen)
	for v >= 0x80 {
		e.buf.B = append(e.buf.B, byte(v)|0x80)
		v >>= 7
	}
	e.buf.B = append(e.buf.B, byte(v))
}

// WriteString writes a nullable string.
func (e *Encoder) WriteString(s format.NullString) {
	if !s.Valid {
		e.WriteUint8(StringAbsent)
		return
	}
	e.buf.Grow(1 + maxVarintLen + len(s.String))
	e.WriteUint8(StringPresent)
	e.WriteVarUint(uint64(len(s.String)))
	e.buf.B = append(e.buf.B, s.String...)
}

// WriteRaw appends b unchanged.
func (e *Encoder) WriteRaw(b []byte) {
	e.buf.MustWrite(b)
}

// WriteCount writes a u32 element count.
func (e *Encoder) WriteCount(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: count %d does not fit in uint32", errs.ErrValueOutOfRange, n)
	}
	e.WriteUint32(uint32(n))

	return nil
}

// BeginSection reserves a u32 length prefix and returns its offset.
func (e *Encoder) BeginSection() int {
	offset := e.buf.Len()
	e.WriteUint32(0)

	return offset
}

// EndSection patches the length prefix reserved at offset with the number
// of bytes written since.
func (e *Encoder) EndSection(offset int) error {
	size := e.buf.Len() - offset - 4
	if offset < 0 || size < 0 {
		return fmt.Errorf("%w: invalid section offset %d", errs.ErrValueOutOfRange, offset)
	}
	if uint64(size) > math.MaxUint32 {
		return fmt.Errorf("%w: section of %d bytes", errs.ErrValueOutOfRange, size)
	}
	e.engine.PutUint32(e.buf.B[offset:offset+4], uint32(size))

	return nil
}
