package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	streamBufferSize  = 64 * 1024
	sectionBufferSize = 4 * 1024
	// reads larger than this are filled incrementally so a corrupt length
	// prefix cannot force a large up-front allocation.
	maxEagerRead = 64 * 1024
)

// StreamSource is a Source over an io.Reader.
//
// When the total size is known (for example from os.FileInfo) it is used to
// reject impossible lengths up front; otherwise Remaining reports -1.
type StreamSource struct {
	r        *bufio.Reader
	size     int64
	consumed int64
	scratch  []byte

	// reused by consecutive sections; only one section is open at a time
	sectionBuf *bufio.Reader
}

var _ Source = (*StreamSource)(nil)

// NewStreamSource wraps r. Pass size < 0 when the length is unknown.
func NewStreamSource(r io.Reader, size int64) *StreamSource {
	return newStreamSource(r, size, streamBufferSize)
}

func newStreamSource(r io.Reader, size int64, bufSize int) *StreamSource {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, bufSize)
	}
	if size < 0 {
		size = -1
	}

	return &StreamSource{r: br, size: size}
}

// Read implements io.Reader so that sections can be layered on top.
func (s *StreamSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.consumed += int64(n)

	return n, err
}

// ReadByte implements io.ByteReader.
func (s *StreamSource) ReadByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, s.readErr(1, 0, err)
	}
	s.consumed++

	return b, nil
}

// Next implements Source. The returned slice is reused by the next call.
func (s *StreamSource) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, errNegative(n)
	}
	if rem := s.Remaining(); rem >= 0 && n > rem {
		return nil, errShort(n, rem)
	}

	if n <= maxEagerRead {
		if cap(s.scratch) < n {
			s.scratch = make([]byte, n)
		}
		buf := s.scratch[:n]
		got, err := io.ReadFull(s.r, buf)
		s.consumed += int64(got)
		if err != nil {
			return nil, s.readErr(n, got, err)
		}

		return buf, nil
	}

	var out bytes.Buffer
	out.Grow(maxEagerRead)
	got, err := io.CopyN(&out, s.r, int64(n))
	s.consumed += got
	if err != nil {
		return nil, s.readErr(n, int(got), err)
	}

	return out.Bytes(), nil
}

// Skip implements Source.
func (s *StreamSource) Skip(n int) error {
	if n < 0 {
		return errNegative(n)
	}
	if rem := s.Remaining(); rem >= 0 && n > rem {
		return errShort(n, rem)
	}
	got, err := s.r.Discard(n)
	s.consumed += int64(got)
	if err != nil {
		return s.readErr(n, got, err)
	}

	return nil
}

// Remaining implements Source.
func (s *StreamSource) Remaining() int {
	if s.size < 0 {
		return -1
	}
	rem := s.size - s.consumed
	if rem > int64(maxInt) {
		return maxInt
	}

	return int(rem)
}

// Consumed returns the number of bytes read so far.
func (s *StreamSource) Consumed() int64 {
	return s.consumed
}

// Section implements Source using a SubReader bound to the next n bytes.
func (s *StreamSource) Section(n int) (Section, error) {
	if n < 0 {
		return nil, errNegative(n)
	}
	if rem := s.Remaining(); rem >= 0 && n > rem {
		return nil, errShort(n, rem)
	}
	sub := NewSubReader(s, int64(n))
	if s.sectionBuf == nil {
		s.sectionBuf = bufio.NewReaderSize(sub, sectionBufferSize)
	} else {
		s.sectionBuf.Reset(sub)
	}

	return &streamSection{
		StreamSource: newStreamSource(s.sectionBuf, int64(n), sectionBufferSize),
		sub:          sub,
	}, nil
}

func (s *StreamSource) readErr(need, got int, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errShort(need, got)
	}

	return fmt.Errorf("read %d bytes: %w", need, err)
}

type streamSection struct {
	*StreamSource
	sub *SubReader
}

// Close discards whatever the section's reader did not consume.
func (s *streamSection) Close() error {
	return s.sub.Close()
}
