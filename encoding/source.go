package encoding

import (
	"fmt"
	"io"

	"github.com/arloliu/osudb/errs"
)

// Source is a forward-only byte source consumed by a Decoder.
//
// Implementations never return partial data: a read that cannot be
// satisfied fails with errs.ErrUnexpectedEndOfInput and the source must be
// considered unusable afterwards.
type Source interface {
	io.ByteReader

	// Next returns the next n bytes and advances past them. The returned
	// slice is only valid until the next call on the source and must not be
	// modified.
	Next(n int) ([]byte, error)

	// Skip advances past n bytes.
	Skip(n int) error

	// Remaining returns the number of unread bytes, or -1 when the source
	// does not know its length.
	Remaining() int

	// Section carves the next n bytes out as an independent bounded source.
	// The parent is positioned after the section once the section is closed.
	Section(n int) (Section, error)
}

// Section is a bounded view over part of a parent Source.
//
// Closing a section discards whatever the inner decoder did not read.
type Section interface {
	Source
	io.Closer
}

func errShort(need, have int) error {
	return fmt.Errorf("%w: need %d bytes, %d remaining", errs.ErrUnexpectedEndOfInput, need, have)
}

func errNegative(n int) error {
	return fmt.Errorf("%w: negative length %d", errs.ErrValueOutOfRange, n)
}
