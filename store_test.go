package chronicle

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

// helper to create a heap store that is released when the test ends
func newTestStore(t *testing.T, capacity int64, opts ...StoreOption) *Store[[]byte] {
	t.Helper()
	opts = append([]StoreOption{WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := NewHeapStore(capacity, NativeOrder(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if !s.refs.released() {
			_ = s.Release()
		}
	})
	return s
}

func TestStoreBounds(t *testing.T) {
	s := newTestStore(t, 64, WithStart(8), WithSafeLimit(48))

	assert.Equal(t, int64(64), s.Capacity())
	assert.Equal(t, int64(64), s.RealCapacity())
	assert.Equal(t, int64(8), s.Start())
	assert.Equal(t, int64(48), s.SafeLimit())
	assert.False(t, s.IsNative())

	assert.False(t, s.InStore(7))
	assert.True(t, s.InStore(8))
	assert.True(t, s.InStore(47))
	assert.False(t, s.InStore(48))

	require.NoError(t, s.WriteInt64(40, -7))
	v, err := s.ReadInt64(40)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), v)

	_, err = s.ReadInt64(41)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.ReadUint8(4)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, s.WriteUint32(46, 1), ErrOutOfBounds)

	_, err = NewHeapStore(16, NativeOrder(), WithSafeLimit(32))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewHeapStore(16, NativeOrder(), WithStart(20))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStorePrimitiveRoundTrip(t *testing.T) {
	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			s, err := NewHeapStore(32, order)
			require.NoError(t, err)
			defer s.Release()

			require.NoError(t, s.WriteInt8(0, -1))
			require.NoError(t, s.WriteInt16(2, -2))
			require.NoError(t, s.WriteInt32(4, -3))
			require.NoError(t, s.WriteInt64(8, -4))

			i8, _ := s.ReadInt8(0)
			i16, _ := s.ReadInt16(2)
			i32, _ := s.ReadInt32(4)
			i64, _ := s.ReadInt64(8)
			assert.Equal(t, []int64{-1, -2, -3, -4}, []int64{int64(i8), int64(i16), int64(i32), i64})
			assert.Equal(t, order, s.ByteOrder())
		})
	}
}

func TestStoreReadAtWriteAt(t *testing.T) {
	s := newTestStore(t, 16)

	n, err := s.WriteAt([]byte("hello"), 11)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = s.WriteAt([]byte("overflow"), 12)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	buf := make([]byte, 8)
	n, err = s.ReadAt(buf, 11)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestStoreCompareAndSwap(t *testing.T) {
	s := newTestStore(t, 32)

	ok, err := s.CompareAndSwapInt32(4, 0, 42)
	require.NoError(t, err)
	require.True(t, ok)
	v, err := s.ReadInt32(4)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	ok, err = s.CompareAndSwapInt32(4, 0, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.CompareAndSwapInt64(8, 0, 1<<40)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.CompareAndSwapInt64(12, 0, 1)
	assert.ErrorIs(t, err, ErrMisaligned)
	_, err = s.CompareAndSwapInt32(30, 0, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	st := s.GetStats()
	assert.Equal(t, uint64(4), st.CASAttempts)
	assert.Equal(t, uint64(1), st.CASFailures)
	s.ResetStats()
	assert.Zero(t, s.GetStats().CASAttempts)
}

func TestStoreVolatileOrdered(t *testing.T) {
	s := newTestStore(t, 16)

	require.NoError(t, s.WriteOrderedInt64(8, 99))
	v, err := s.ReadVolatileInt64(8)
	require.NoError(t, err)
	assert.Equal(t, int64(99), v)

	require.NoError(t, s.WriteOrderedInt32(0, -5))
	v32, err := s.ReadVolatileInt32(0)
	require.NoError(t, err)
	assert.Equal(t, int32(-5), v32)
}

func TestStoreGetAndAdd(t *testing.T) {
	s := newTestStore(t, 16)

	old, err := s.GetAndAddInt32(0, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(0), old)
	now, err := s.AddAndGetInt32(0, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(8), now)

	now64, err := s.AddAndGetInt64(8, -10)
	require.NoError(t, err)
	assert.Equal(t, int64(-10), now64)
}

func TestStoreGetAndAddConcurrent(t *testing.T) {
	const (
		workers = 8
		adds    = 1000
	)
	s := newTestStore(t, 16)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < adds; i++ {
				if _, err := s.GetAndAddInt64(8, 1); err != nil {
					return err
				}
				if _, err := s.GetAndAddInt32(0, 2); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	v64, err := s.ReadVolatileInt64(8)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*adds), v64)
	v32, err := s.ReadVolatileInt32(0)
	require.NoError(t, err)
	assert.Equal(t, int32(2*workers*adds), v32)
}

func TestStoreZeroOut(t *testing.T) {
	s := newTestStore(t, 16, WithStart(2))
	_, err := s.WriteAt([]byte("abcdefghijklmn"), 2)
	require.NoError(t, err)

	require.NoError(t, s.ZeroOut(4, 8))
	require.NoError(t, s.ZeroOut(4, 8), "zeroOut is idempotent")
	require.NoError(t, s.ZeroOut(9, 9), "empty range is a no-op")

	buf := make([]byte, 14)
	_, err = s.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab\x00\x00\x00\x00ghijklmn"), buf)

	assert.ErrorIs(t, s.ZeroOut(8, 4), ErrInvalidArgument)
	assert.ErrorIs(t, s.ZeroOut(0, 4), ErrInvalidArgument)
	assert.ErrorIs(t, s.ZeroOut(4, 17), ErrInvalidArgument)
}

func TestStoreCopyTo(t *testing.T) {
	src := newTestStore(t, 8)
	_, err := src.WriteAt([]byte("abcdefgh"), 0)
	require.NoError(t, err)

	dst := newTestStore(t, 32)
	n, err := src.CopyTo(dst)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "abcdefgh", string(dst.Underlying()[:8]))

	small := newTestStore(t, 4)
	n, err = src.CopyTo(small)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, "abcd", string(small.Underlying()))
}

func TestStoreCopyToFromChars(t *testing.T) {
	chars, err := WrapChars(StringChars(strings.Repeat("ab", 20000)), LittleEndian)
	require.NoError(t, err)
	defer chars.Release()

	dst := newTestStore(t, chars.Capacity())
	n, err := chars.CopyTo(dst)
	require.NoError(t, err)
	assert.Equal(t, chars.Capacity(), n)
	assert.Equal(t, []byte{'a', 0, 'b', 0}, dst.Underlying()[:4])
	assert.Equal(t, []byte{'a', 0, 'b', 0}, dst.Underlying()[n-4:])

	_, err = dst.CopyTo(chars)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestCharStoreIsReadOnly(t *testing.T) {
	s, err := WrapChars(StringChars("hello"), BigEndian)
	require.NoError(t, err)
	defer s.Release()

	assert.Equal(t, int64(10), s.Capacity())
	assert.True(t, s.ReadOnly())
	v, err := s.ReadUint16(2)
	require.NoError(t, err)
	assert.Equal(t, uint16('e'), v)

	err = s.WriteUint8(0, 1)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
	_, err = s.CompareAndSwapInt32(0, 0, 1)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, s.ZeroOut(0, 2), ErrReadOnly)
}

func TestStoreReadOnlyOption(t *testing.T) {
	s := newTestStore(t, 8, WithReadOnly())
	assert.ErrorIs(t, s.WriteInt32(0, 1), ErrReadOnly)
	_, err := s.CompareAndSwapInt32(0, 0, 1)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestStoreRefCount(t *testing.T) {
	released := 0
	s, err := NewHeapStore(8, NativeOrder(), WithReleaser(func() error {
		released++
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.RefCount())
	require.NoError(t, s.Reserve())
	assert.Equal(t, int64(2), s.RefCount())

	require.NoError(t, s.Release())
	assert.Zero(t, released)
	require.NoError(t, s.Close())
	assert.Equal(t, 1, released)

	assert.ErrorIs(t, s.Release(), ErrReleased)
	assert.ErrorIs(t, s.Reserve(), ErrReleased)
	assert.Equal(t, 1, released, "releaser runs once")

	_, err = s.ReadInt32(0)
	assert.ErrorIs(t, err, ErrReleased)
	assert.ErrorIs(t, s.WriteInt32(0, 1), ErrReleased)
	_, err = s.CompareAndSwapInt32(0, 0, 1)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = s.Bytes(Bounded)
	assert.ErrorIs(t, err, ErrReleased)
	assert.Equal(t, "[released]", s.DebugString(8))
}

func TestStoreReleaseConcurrent(t *testing.T) {
	released := 0
	s, err := NewHeapStore(8, NativeOrder(), WithReleaser(func() error {
		released++
		return nil
	}))
	require.NoError(t, err)

	const holders = 16
	for i := 1; i < holders; i++ {
		require.NoError(t, s.Reserve())
	}
	var g errgroup.Group
	for i := 0; i < holders; i++ {
		g.Go(s.Release)
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, released)
	assert.Zero(t, s.RefCount())
}

func TestStoreDebugString(t *testing.T) {
	s := newTestStore(t, 2048)
	_, err := s.WriteAt([]byte("hi\n"), 0)
	require.NoError(t, err)

	out := s.DebugString(4)
	assert.Contains(t, out, "capacity: 2048 (2.0 KiB)")
	assert.Contains(t, out, `"hi\n\x00"...`)

	require.NotPanics(t, func() { out = s.DebugString(-1) })
	assert.Contains(t, out, `] ""...`)
}

func TestStoreWith(t *testing.T) {
	s := newTestStore(t, 16)

	err := s.With(4, 8, func(c *Cursor) error {
		assert.Equal(t, int64(4), c.Position())
		assert.Equal(t, int64(12), c.Limit())
		require.NoError(t, c.WriteInt64(-1))
		return c.WriteUint8(1)
	})
	assert.ErrorIs(t, err, ErrBufferOverflow)

	v, err := s.ReadInt64(4)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)

	assert.ErrorIs(t, s.With(12, 8, func(*Cursor) error { return nil }), ErrBufferUnderflow)
}
