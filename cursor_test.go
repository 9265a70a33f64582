package chronicle

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCursor(t *testing.T, capacity int64, mode Mode) *Cursor {
	t.Helper()
	s := newTestStore(t, capacity)
	c, err := s.Bytes(mode)
	require.NoError(t, err)
	return c
}

func TestCursorFlipAndRead(t *testing.T) {
	c := newTestCursor(t, 32, Bounded)

	require.NoError(t, c.WriteUint16(0xBEEF))
	require.NoError(t, c.WriteInt32(-12))
	require.NoError(t, c.WriteInt64(1<<50))
	assert.Equal(t, int64(14), c.Position())

	c.Flip()
	assert.Equal(t, int64(0), c.Position())
	assert.Equal(t, int64(14), c.Limit())

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)
	i32, err := c.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-12), i32)
	i64, err := c.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<50), i64)

	_, err = c.ReadUint8()
	assert.ErrorIs(t, err, ErrBufferUnderflow)

	c.Clear()
	assert.Equal(t, int64(0), c.Position())
	assert.Equal(t, int64(32), c.Limit())
}

func TestCursorPositionLimit(t *testing.T) {
	c := newTestCursor(t, 16, Bounded)

	require.NoError(t, c.SetLimit(8))
	assert.ErrorIs(t, c.SetPosition(9), ErrOutOfBounds)
	require.NoError(t, c.SetPosition(6))
	assert.Equal(t, int64(2), c.Remaining())

	require.NoError(t, c.SetLimit(4))
	assert.Equal(t, int64(4), c.Position(), "position follows a lowered limit")
	assert.ErrorIs(t, c.SetLimit(17), ErrOutOfBounds)

	require.NoError(t, c.SetLimit(16))
	require.NoError(t, c.Skip(4))
	assert.ErrorIs(t, c.Skip(100), ErrBufferUnderflow)

	c.Mark()
	require.NoError(t, c.Skip(3))
	require.NoError(t, c.ResetToMark())
	assert.Equal(t, int64(8), c.Position())
	assert.Equal(t, "[pos: 8, lim: 16, cap: 16, mode: bounded]", c.String())
}

func TestCursorModes(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		c := newTestCursor(t, 8, Bounded)
		require.NoError(t, c.SetLimit(2))
		_, err := c.ReadUint32()
		assert.ErrorIs(t, err, ErrBufferUnderflow)
		assert.ErrorIs(t, c.WriteUint32(1), ErrBufferOverflow)
		assert.Equal(t, int64(0), c.Position())
	})

	t.Run("zero-extend", func(t *testing.T) {
		c := newTestCursor(t, 8, ZeroExtend)
		require.NoError(t, c.WriteUint16(0xFFFF))
		c.Flip()
		v, err := c.ReadUint32()
		require.NoError(t, err)
		want := NativeOrder().codec().Uint32([]byte{0xFF, 0xFF, 0, 0})
		assert.Equal(t, want, v, "missing tail reads as zeros")
		assert.Equal(t, c.Limit(), c.Position())

		assert.ErrorIs(t, c.WriteUint8(1), ErrBufferOverflow)
	})

	t.Run("padded", func(t *testing.T) {
		c := newTestCursor(t, 8, Padded)
		require.NoError(t, c.SetLimit(2))
		require.NoError(t, c.WriteInt32(7))
		assert.Equal(t, int64(4), c.Limit(), "writes raise the limit")
		require.NoError(t, c.WriteInt32(8))
		assert.ErrorIs(t, c.WriteUint8(1), ErrBufferOverflow, "never beyond capacity")
	})

	t.Run("unknown", func(t *testing.T) {
		s := newTestStore(t, 8)
		_, err := s.Bytes(Mode(9))
		assert.ErrorIs(t, err, ErrUnknownMode)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	assert.Equal(t, Padded, DefaultMode)
}

func TestCursorWithLength(t *testing.T) {
	c := newTestCursor(t, 32, Bounded)
	require.NoError(t, c.Skip(4))

	err := c.WithLength(8, func(c *Cursor) error {
		assert.Equal(t, int64(12), c.Limit())
		return c.WriteInt32(1)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), c.Position())
	assert.Equal(t, int64(32), c.Limit())

	boom := errors.New("boom")
	err = c.WithLength(4, func(c *Cursor) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(16), c.Position())
	assert.Equal(t, int64(32), c.Limit())

	assert.Panics(t, func() {
		_ = c.WithLength(4, func(c *Cursor) error { panic("inside") })
	})
	assert.Equal(t, int64(20), c.Position())
	assert.Equal(t, int64(32), c.Limit(), "limit restored after panic")

	assert.ErrorIs(t, c.WithLength(100, func(*Cursor) error { return nil }), ErrBufferUnderflow)
}

func TestCursorIO(t *testing.T) {
	c := newTestCursor(t, 16, Bounded)

	n, err := c.Write([]byte("streaming"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	_, err = c.Write(make([]byte, 8))
	assert.ErrorIs(t, err, ErrBufferOverflow)

	c.Flip()
	got, err := io.ReadAll(c)
	require.NoError(t, err)
	assert.Equal(t, "streaming", string(got))
}
