package encoding

// Cursor is an in-memory Source over a byte slice.
//
// Next returns sub-slices of the original data without copying; sections are
// zero-copy sub-cursors.
type Cursor struct {
	data []byte
	pos  int
}

var _ Section = (*Cursor)(nil)

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, errShort(1, 0)
	}
	b := c.data[c.pos]
	c.pos++

	return b, nil
}

// Next implements Source.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, errNegative(n)
	}
	if rem := c.Remaining(); n > rem {
		return nil, errShort(n, rem)
	}
	b := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n

	return b, nil
}

// Skip implements Source.
func (c *Cursor) Skip(n int) error {
	_, err := c.Next(n)
	return err
}

// Remaining implements Source.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.pos
}

// Section implements Source. The parent cursor advances immediately.
func (c *Cursor) Section(n int) (Section, error) {
	b, err := c.Next(n)
	if err != nil {
		return nil, err
	}

	return NewCursor(b), nil
}

// Close implements io.Closer. It is a no-op: the parent already moved past
// the section when it was created.
func (c *Cursor) Close() error {
	return nil
}
