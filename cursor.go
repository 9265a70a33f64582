package chronicle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Mode controls what a Cursor does when a read or write would cross its limit.
type Mode uint8

const (
	// Bounded fails reads with ErrBufferUnderflow and writes with
	// ErrBufferOverflow.
	Bounded Mode = iota
	// ZeroExtend reads zero bytes past the limit and stops at the limit.
	// Writes are bounded.
	ZeroExtend
	// Padded reads like ZeroExtend and lets writes raise the limit up to
	// the store capacity.
	Padded
)

// DefaultMode is the mode callers without an opinion should pass to Bytes.
const DefaultMode = Padded

func (m Mode) String() string {
	switch m {
	case Bounded:
		return "bounded"
	case ZeroExtend:
		return "zero-extend"
	case Padded:
		return "padded"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Cursor is a position/limit view over one BytesStore for sequential I/O.
// It holds Start() <= position <= limit <= Capacity() at all times. A cursor
// is not safe for concurrent use and must not outlive its store.
type Cursor struct {
	store    BytesStore
	codec    binary.ByteOrder
	mode     Mode
	position int64
	limit    int64
	mark     int64
}

func newCursor(s BytesStore, mode Mode) (*Cursor, error) {
	if mode > Padded {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	return &Cursor{
		store:    s,
		codec:    s.ByteOrder().codec(),
		mode:     mode,
		position: s.Start(),
		limit:    s.Capacity(),
		mark:     -1,
	}, nil
}

func (c *Cursor) Store() BytesStore { return c.store }
func (c *Cursor) Mode() Mode        { return c.mode }
func (c *Cursor) Start() int64      { return c.store.Start() }
func (c *Cursor) Capacity() int64   { return c.store.Capacity() }
func (c *Cursor) Position() int64   { return c.position }
func (c *Cursor) Limit() int64      { return c.limit }
func (c *Cursor) Remaining() int64  { return c.limit - c.position }

// SetPosition moves the cursor to p, which must lie in [Start(), Limit()].
func (c *Cursor) SetPosition(p int64) error {
	if p < c.store.Start() || p > c.limit {
		return fmt.Errorf("%w: position %d not in [%d, %d]", ErrOutOfBounds, p, c.store.Start(), c.limit)
	}
	c.position = p
	return nil
}

// SetLimit sets the limit to l in [Start(), Capacity()]. A position or mark
// beyond the new limit is pulled back to it or discarded.
func (c *Cursor) SetLimit(l int64) error {
	if l < c.store.Start() || l > c.store.Capacity() {
		return fmt.Errorf("%w: limit %d not in [%d, %d]", ErrOutOfBounds, l, c.store.Start(), c.store.Capacity())
	}
	c.limit = l
	if c.position > l {
		c.position = l
	}
	if c.mark > l {
		c.mark = -1
	}
	return nil
}

// Skip advances the position by n.
func (c *Cursor) Skip(n int64) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: skip %d with %d remaining", ErrBufferUnderflow, n, c.Remaining())
	}
	c.position += n
	return nil
}

// Clear resets the position to Start and the limit to Capacity.
func (c *Cursor) Clear() {
	c.position = c.store.Start()
	c.limit = c.store.Capacity()
	c.mark = -1
}

// Flip sets the limit to the current position and rewinds to Start: the
// switch from writing a region to reading it back.
func (c *Cursor) Flip() {
	c.limit = c.position
	c.position = c.store.Start()
	c.mark = -1
}

func (c *Cursor) Mark() { c.mark = c.position }

func (c *Cursor) ResetToMark() error {
	if c.mark < 0 {
		return fmt.Errorf("%w: mark not set", ErrInvalidArgument)
	}
	c.position = c.mark
	return nil
}

// WithLength narrows the limit to Position()+n while fn runs. On every exit
// path, panics included, the previous limit is restored and the position is
// left at the temporary limit.
func (c *Cursor) WithLength(n int64, fn func(*Cursor) error) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: length %d with %d remaining", ErrBufferUnderflow, n, c.Remaining())
	}
	limit0 := c.limit
	limit := c.position + n
	c.limit = limit
	defer func() {
		c.limit = limit0
		c.position = limit
		if c.mark > limit0 {
			c.mark = -1
		}
	}()
	return fn(c)
}

// fill reads len(b) bytes at the position, padding with zeros per mode.
func (c *Cursor) fill(b []byte) error {
	n := int64(len(b))
	if n <= c.Remaining() {
		if _, err := c.store.ReadAt(b, c.position); err != nil {
			if errors.Is(err, io.EOF) {
				return outOfBounds(c.position, n, c.store.Start(), c.store.SafeLimit())
			}
			return err
		}
		c.position += n
		return nil
	}
	if c.mode == Bounded {
		return fmt.Errorf("%w: need %d bytes, %d remaining", ErrBufferUnderflow, n, c.Remaining())
	}
	clear(b)
	if avail := c.Remaining(); avail > 0 {
		if _, err := c.store.ReadAt(b[:avail], c.position); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	c.position = c.limit
	return nil
}

// put writes b at the position; in Padded mode the limit grows to fit.
func (c *Cursor) put(b []byte) error {
	n := int64(len(b))
	end := c.position + n
	if end > c.limit && (c.mode != Padded || end > c.store.Capacity()) {
		return fmt.Errorf("%w: need %d bytes, %d remaining", ErrBufferOverflow, n, c.Remaining())
	}
	if _, err := c.store.WriteAt(b, c.position); err != nil {
		return err
	}
	if end > c.limit {
		c.limit = end
	}
	c.position = end
	return nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	var b [1]byte
	err := c.fill(b[:])
	return b[0], err
}

func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.ReadUint8()
	return int8(v), err
}

func (c *Cursor) ReadUint16() (uint16, error) {
	var b [2]byte
	err := c.fill(b[:])
	return c.codec.Uint16(b[:]), err
}

func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

func (c *Cursor) ReadUint32() (uint32, error) {
	var b [4]byte
	err := c.fill(b[:])
	return c.codec.Uint32(b[:]), err
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

func (c *Cursor) ReadUint64() (uint64, error) {
	var b [8]byte
	err := c.fill(b[:])
	return c.codec.Uint64(b[:]), err
}

func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

func (c *Cursor) WriteUint8(v uint8) error {
	return c.put([]byte{v})
}

func (c *Cursor) WriteInt8(v int8) error { return c.WriteUint8(uint8(v)) }

func (c *Cursor) WriteUint16(v uint16) error {
	var b [2]byte
	c.codec.PutUint16(b[:], v)
	return c.put(b[:])
}

func (c *Cursor) WriteInt16(v int16) error { return c.WriteUint16(uint16(v)) }

func (c *Cursor) WriteUint32(v uint32) error {
	var b [4]byte
	c.codec.PutUint32(b[:], v)
	return c.put(b[:])
}

func (c *Cursor) WriteInt32(v int32) error { return c.WriteUint32(uint32(v)) }

func (c *Cursor) WriteUint64(v uint64) error {
	var b [8]byte
	c.codec.PutUint64(b[:], v)
	return c.put(b[:])
}

func (c *Cursor) WriteInt64(v int64) error { return c.WriteUint64(uint64(v)) }

// Read implements io.Reader over [Position, Limit).
func (c *Cursor) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if c.Remaining() == 0 {
		return 0, io.EOF
	}
	p = p[:min(int64(len(p)), c.Remaining())]
	n, err := c.store.ReadAt(p, c.position)
	c.position += int64(n)
	return n, err
}

// Write implements io.Writer. Either all of p is written or none of it.
func (c *Cursor) Write(p []byte) (int, error) {
	if err := c.put(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Cursor) String() string {
	return fmt.Sprintf("[pos: %d, lim: %d, cap: %d, mode: %s]", c.position, c.limit, c.store.Capacity(), c.mode)
}
