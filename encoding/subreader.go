package encoding

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/osudb/errs"
)

// SubReader exposes a bounded number of bytes of a shared reader.
//
// Once a SubReader is created the caller must read the bounded region only
// through it. Reads past the bound report io.EOF. Close discards any bytes of
// the bound that were not consumed, leaving the underlying reader positioned
// right after the region.
//
// Mark and Reset are available when the underlying reader is an io.Seeker.
type SubReader struct {
	r      io.Reader
	size   int64
	cursor int64
	closed bool

	marked     bool
	markCursor int64
	markPos    int64
}

var _ io.ReadCloser = (*SubReader)(nil)

// NewSubReader bounds r to the next size bytes.
func NewSubReader(r io.Reader, size int64) *SubReader {
	return &SubReader{r: r, size: size}
}

// Read implements io.Reader.
func (s *SubReader) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errs.ErrSectionClosed
	}
	remaining := s.size - s.cursor
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := s.r.Read(p)
	s.cursor += int64(n)

	return n, err
}

// Skip discards up to n bytes, never crossing the bound, and returns the
// number of bytes skipped.
func (s *SubReader) Skip(n int64) (int64, error) {
	if s.closed {
		return 0, errs.ErrSectionClosed
	}
	if remaining := s.size - s.cursor; n > remaining {
		n = remaining
	}
	if n <= 0 {
		return 0, nil
	}
	skipped, err := discard(s.r, n)
	s.cursor += skipped

	return skipped, err
}

// Available returns the number of bytes left in the bound. When the
// underlying reader reports its own availability, the smaller value wins.
func (s *SubReader) Available() int64 {
	remaining := s.size - s.cursor
	if inner, ok := s.r.(interface{ Available() int64 }); ok {
		remaining = min(remaining, inner.Available())
	}

	return max(remaining, 0)
}

// Size returns the length of the bound.
func (s *SubReader) Size() int64 {
	return s.size
}

// Mark remembers the current position for a later Reset.
func (s *SubReader) Mark() error {
	if s.closed {
		return errs.ErrSectionClosed
	}
	seeker, ok := s.r.(io.Seeker)
	if !ok {
		return errs.ErrMarkNotSupported
	}
	pos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("mark: %w", err)
	}
	s.marked = true
	s.markCursor = s.cursor
	s.markPos = pos

	return nil
}

// Reset rewinds to the position recorded by the last Mark.
func (s *SubReader) Reset() error {
	if s.closed {
		return errs.ErrSectionClosed
	}
	if !s.marked {
		return errs.ErrMarkNotSet
	}
	seeker, ok := s.r.(io.Seeker)
	if !ok {
		return errs.ErrMarkNotSupported
	}
	if _, err := seeker.Seek(s.markPos, io.SeekStart); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.cursor = s.markCursor

	return nil
}

// Close discards the unread remainder of the bound. It is idempotent.
func (s *SubReader) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	remaining := s.size - s.cursor
	if remaining <= 0 {
		return nil
	}
	skipped, err := discard(s.r, remaining)
	s.cursor += skipped
	if err != nil {
		return fmt.Errorf("discard section remainder: %w", err)
	}

	return nil
}

// discard consumes exactly n bytes of r.
func discard(r io.Reader, n int64) (int64, error) {
	var (
		skipped int64
		err     error
	)
	if d, ok := r.(interface{ Discard(int) (int, error) }); ok && n <= int64(maxInt) {
		var m int
		m, err = d.Discard(int(n))
		skipped = int64(m)
	} else {
		skipped, err = io.CopyN(io.Discard, r, n)
	}
	if errors.Is(err, io.EOF) {
		return skipped, errShort(int(n), int(skipped))
	}

	return skipped, err
}

const maxInt = int(^uint(0) >> 1)
