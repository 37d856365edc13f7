package encoding

import (
	"fmt"
	"math"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/arloliu/osudb/endian"
	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
)

// String presence markers.
const (
	StringAbsent  byte = 0x00
	StringPresent byte = 0x0B
)

// maxVarintLen is the longest LEB128 encoding of a 64-bit value.
const maxVarintLen = 10

// maxUnsizedCapacity caps the elements reserved up front for a declared
// count when the input size is unknown.
const maxUnsizedCapacity = 1024

// Decoder reads the osu! primitive types from a Source.
//
// A Decoder is not safe for concurrent use; each decode owns its own.
type Decoder struct {
	src    Source
	engine endian.EndianEngine
}

// NewDecoder creates a little-endian decoder over src.
func NewDecoder(src Source) *Decoder {
	return &Decoder{src: src, engine: endian.GetLittleEndianEngine()}
}

// NewBytesDecoder is shorthand for NewDecoder(NewCursor(data)).
func NewBytesDecoder(data []byte) *Decoder {
	return NewDecoder(NewCursor(data))
}

// Source returns the underlying source.
func (d *Decoder) Source() Source {
	return d.src
}

// Remaining returns the number of unread bytes, or -1 when unknown.
func (d *Decoder) Remaining() int {
	return d.src.Remaining()
}

// ReadUint8 reads one byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	return d.src.ReadByte()
}

// ReadUint16 reads a little-endian uint16.
func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.src.Next(2)
	if err != nil {
		return 0, err
	}

	return d.engine.Uint16(b), nil
}

// ReadUint32 reads a little-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.src.Next(4)
	if err != nil {
		return 0, err
	}

	return d.engine.Uint32(b), nil
}

// ReadUint64 reads a little-endian uint64. The full unsigned range is
// preserved.
func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.src.Next(8)
	if err != nil {
		return 0, err
	}

	return d.engine.Uint64(b), nil
}

// ReadFloat32 reads an IEEE-754 single by reinterpreting a uint32.
func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// ReadFloat64 reads an IEEE-754 double by reinterpreting a uint64.
func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// ReadBool reads one byte; any nonzero value is true.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.src.ReadByte()
	if err != nil {
		return false, err
	}

	return b != 0, nil
}

// ReadVarUint reads an unsigned LEB128 value.
//
// Values that need more than 64 bits fail with errs.ErrMalformedVarint
// instead of wrapping.
func (d *Decoder) ReadVarUint() (uint64, error) {
	var (
		result uint64
		shift  uint
	)
	for i := 0; i < maxVarintLen; i++ {
		b, err := d.src.ReadByte()
		if err != nil {
			return 0, err
		}
		// the tenth byte may only contribute bit 63
		if i == maxVarintLen-1 && b > 1 {
			return 0, fmt.Errorf("%w: value exceeds 64 bits", errs.ErrMalformedVarint)
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}

	return 0, fmt.Errorf("%w: value exceeds 64 bits", errs.ErrMalformedVarint)
}

// ReadString reads a nullable string: marker 0x00 is absent, marker 0x0B is
// followed by a LEB128 byte length and UTF-8 data.
//
// Invalid UTF-8 sequences are replaced with U+FFFD.
func (d *Decoder) ReadString() (format.NullString, error) {
	marker, err := d.src.ReadByte()
	if err != nil {
		return format.NullString{}, err
	}
	switch marker {
	case StringAbsent:
		return format.NullString{}, nil
	case StringPresent:
	default:
		return format.NullString{}, fmt.Errorf("%w: 0x%02x", errs.ErrInvalidStringMarker, marker)
	}

	length, err := d.ReadVarUint()
	if err != nil {
		return format.NullString{}, err
	}
	n, err := d.checkLength(length, "string")
	if err != nil {
		return format.NullString{}, err
	}
	b, err := d.src.Next(n)
	if err != nil {
		return format.NullString{}, err
	}

	return format.Text(decodeUTF8(b)), nil
}

// ExpectUint8 reads one byte and fails unless it equals want. A mismatch
// wraps sentinel; a short read keeps its own error.
func (d *Decoder) ExpectUint8(want uint8, sentinel error) error {
	got, err := d.src.ReadByte()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: got 0x%02x, want 0x%02x", sentinel, got, want)
	}

	return nil
}

// Skip discards exactly n bytes.
func (d *Decoder) Skip(n int) error {
	return d.src.Skip(n)
}

// ReadCount reads a u32 element count and checks that count elements of at
// least minElemSize bytes can fit in the remaining input.
func (d *Decoder) ReadCount(minElemSize int) (int, error) {
	count, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}
	if uint64(count) > uint64(maxInt) {
		return 0, fmt.Errorf("%w: count %d exceeds addressable range", errs.ErrDeclaredLengthExceedsInput, count)
	}
	if rem := d.src.Remaining(); rem >= 0 && minElemSize > 0 {
		if uint64(count)*uint64(minElemSize) > uint64(rem) {
			return 0, fmt.Errorf("%w: %d elements of at least %d bytes, %d bytes remaining",
				errs.ErrDeclaredLengthExceedsInput, count, minElemSize, rem)
		}
	}

	return int(count), nil
}

// CapacityFor returns how many of count elements a caller may reserve before
// decoding them. Counts from inputs of unknown size are not bounded by
// ReadCount, so the reservation is capped and the slice grows as elements
// actually decode; a short input then fails with errs.ErrUnexpectedEndOfInput.
func (d *Decoder) CapacityFor(count int) int {
	if d.src.Remaining() < 0 {
		return min(count, maxUnsizedCapacity)
	}

	return count
}

// Section reads a u32 byte length and returns a decoder bounded to that many
// bytes. The returned section must be closed to release the bound.
func (d *Decoder) Section() (*Decoder, Section, error) {
	length, err := d.ReadUint32()
	if err != nil {
		return nil, nil, err
	}
	n, err := d.checkLength(uint64(length), "section")
	if err != nil {
		return nil, nil, err
	}
	sec, err := d.src.Section(n)
	if err != nil {
		return nil, nil, err
	}

	return &Decoder{src: sec, engine: d.engine}, sec, nil
}

func (d *Decoder) checkLength(length uint64, what string) (int, error) {
	if length > uint64(maxInt) {
		return 0, fmt.Errorf("%w: %s length %d exceeds addressable range", errs.ErrDeclaredLengthExceedsInput, what, length)
	}
	if rem := d.src.Remaining(); rem >= 0 && length > uint64(rem) {
		return 0, fmt.Errorf("%w: %s length %d, %d bytes remaining", errs.ErrDeclaredLengthExceedsInput, what, length, rem)
	}

	return int(length), nil
}

func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	fixed, err := xunicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}

	return string(fixed)
}
