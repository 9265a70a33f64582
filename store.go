package chronicle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// RandomInput reads values at absolute offsets.
type RandomInput interface {
	ReadUint8(offset int64) (uint8, error)
	ReadInt8(offset int64) (int8, error)
	ReadUint16(offset int64) (uint16, error)
	ReadInt16(offset int64) (int16, error)
	ReadUint32(offset int64) (uint32, error)
	ReadInt32(offset int64) (int32, error)
	ReadUint64(offset int64) (uint64, error)
	ReadInt64(offset int64) (int64, error)
	ReadVolatileInt32(offset int64) (int32, error)
	ReadVolatileInt64(offset int64) (int64, error)
	ReadAt(p []byte, offset int64) (int, error)
}

// RandomOutput writes values at absolute offsets.
type RandomOutput interface {
	WriteUint8(offset int64, v uint8) error
	WriteInt8(offset int64, v int8) error
	WriteUint16(offset int64, v uint16) error
	WriteInt16(offset int64, v int16) error
	WriteUint32(offset int64, v uint32) error
	WriteInt32(offset int64, v int32) error
	WriteUint64(offset int64, v uint64) error
	WriteInt64(offset int64, v int64) error
	WriteOrderedInt32(offset int64, v int32) error
	WriteOrderedInt64(offset int64, v int64) error
	WriteAt(p []byte, offset int64) (int, error)
	ZeroOut(start, end int64) error
}

// ReferenceCounted is implemented by resources with explicit shared ownership.
type ReferenceCounted interface {
	Reserve() error
	Release() error
	RefCount() int64
}

// BytesStore is a fixed-capacity, bounds-checked, reference-counted region of
// bytes. Every offset o used to read or write n bytes must satisfy
// Start() <= o and o+n <= SafeLimit() <= Capacity().
type BytesStore interface {
	RandomInput
	RandomOutput
	ReferenceCounted

	Capacity() int64
	RealCapacity() int64
	Start() int64
	SafeLimit() int64
	InStore(offset int64) bool
	ByteOrder() ByteOrder
	IsNative() bool
	ReadOnly() bool

	CompareAndSwapInt32(offset int64, expected, value int32) (bool, error)
	CompareAndSwapInt64(offset int64, expected, value int64) (bool, error)
	GetAndAddInt32(offset int64, delta int32) (int32, error)
	AddAndGetInt32(offset int64, delta int32) (int32, error)
	GetAndAddInt64(offset int64, delta int64) (int64, error)
	AddAndGetInt64(offset int64, delta int64) (int64, error)
	StoreFence()
	LoadFence()

	CopyTo(dst BytesStore) (int64, error)
	Bytes(mode Mode) (*Cursor, error)
	With(position, length int64, fn func(*Cursor) error) error
	DebugString(maxLength int64) string
	Close() error
}

// Store binds an underlying handle U to an Access for U. Writes are available
// when the access also implements WriteAccess[U], atomics when it implements
// AtomicAccess[U].
type Store[U any] struct {
	handle    U
	access    ReadAccess[U]
	writer    WriteAccess[U]
	atomics   AtomicAccess[U]
	start     int64
	capacity  int64
	safeLimit int64
	native    bool
	readOnly  bool

	refs  *refCount
	log   *zap.Logger
	stats counters
}

var (
	_ BytesStore = (*Store[[]byte])(nil)
	_ BytesStore = (*Store[CharSequence])(nil)
)

func newStore[U any](handle U, access ReadAccess[U], capacity int64, native bool, opts []StoreOption) (*Store[U], error) {
	cfg := newStoreConfig(opts)
	if cfg.safeLimit < 0 {
		cfg.safeLimit = capacity
	}
	if capacity < 0 || cfg.start < 0 || cfg.start > cfg.safeLimit || cfg.safeLimit > capacity {
		return nil, fmt.Errorf("%w: need 0 <= start(%d) <= safeLimit(%d) <= capacity(%d)",
			ErrInvalidArgument, cfg.start, cfg.safeLimit, capacity)
	}

	s := &Store[U]{
		handle:    handle,
		access:    access,
		start:     cfg.start,
		capacity:  capacity,
		safeLimit: cfg.safeLimit,
		native:    native,
		readOnly:  cfg.readOnly,
		log:       cfg.log,
	}
	if w, ok := access.(WriteAccess[U]); ok && !cfg.readOnly {
		s.writer = w
	}
	if a, ok := access.(AtomicAccess[U]); ok && !cfg.readOnly {
		s.atomics = a
	}
	s.refs = newRefCount(cfg.releaser)
	s.log.Debug("store created",
		zap.Int64("capacity", capacity),
		zap.Stringer("order", access.ByteOrder()),
		zap.Bool("native", native),
		zap.Bool("writable", s.writer != nil))
	return s, nil
}

func (s *Store[U]) Capacity() int64 { return s.capacity }

// RealCapacity is the capacity available without resizing; stores here never
// resize, so it equals Capacity.
func (s *Store[U]) RealCapacity() int64 { return s.capacity }

func (s *Store[U]) Start() int64 { return s.start }

func (s *Store[U]) SafeLimit() int64 { return s.safeLimit }

// InStore reports whether Start() <= offset < SafeLimit().
func (s *Store[U]) InStore(offset int64) bool {
	return s.start <= offset && offset < s.safeLimit
}

func (s *Store[U]) ByteOrder() ByteOrder { return s.access.ByteOrder() }

// IsNative reports whether the memory lives outside the Go heap.
func (s *Store[U]) IsNative() bool { return s.native }

func (s *Store[U]) ReadOnly() bool { return s.writer == nil }

// Underlying returns the handle the store reads through.
func (s *Store[U]) Underlying() U { return s.handle }

func (s *Store[U]) Reserve() error { return s.refs.reserve() }

// Release drops one reference. The final release runs the store's releaser;
// releasing a store already at zero returns ErrReleased.
func (s *Store[U]) Release() error {
	final, err := s.refs.release()
	if final {
		s.log.Debug("store released", zap.Int64("capacity", s.capacity), zap.Error(err))
	}
	return err
}

func (s *Store[U]) RefCount() int64 { return s.refs.count() }

// Close is Release, for use with defer and io.Closer.
func (s *Store[U]) Close() error { return s.Release() }

func (s *Store[U]) StoreFence() { StoreFence() }

func (s *Store[U]) LoadFence() { LoadFence() }

// Bytes returns a cursor over the whole store.
func (s *Store[U]) Bytes(mode Mode) (*Cursor, error) {
	if s.refs.released() {
		return nil, ErrReleased
	}
	return newCursor(s, mode)
}

// With runs fn against a bounded cursor over [position, position+length).
func (s *Store[U]) With(position, length int64, fn func(*Cursor) error) error {
	if s.refs.released() {
		return ErrReleased
	}
	if position < s.start || length < 0 || position+length > s.capacity {
		return fmt.Errorf("%w: [%d, %d) capacity %d", ErrBufferUnderflow, position, position+length, s.capacity)
	}
	c, err := newCursor(s, Bounded)
	if err != nil {
		return err
	}
	c.position = position
	c.limit = position + length
	return fn(c)
}

// DebugString renders the store bounds followed by up to maxLength bytes from
// Start, quoted.
func (s *Store[U]) DebugString(maxLength int64) string {
	if s.refs.released() {
		return "[released]"
	}
	n := max(0, min(s.safeLimit-s.start, maxLength))
	buf := make([]byte, n)
	s.access.ReadBytes(s.handle, s.start, buf)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[start: %d, safeLimit: %d, capacity: %d (%s)] ",
		s.start, s.safeLimit, s.capacity, humanize.IBytes(uint64(s.capacity)))
	sb.WriteString(strconv.QuoteToASCII(string(buf)))
	if n < s.safeLimit-s.start {
		sb.WriteString("...")
	}
	return sb.String()
}

// check validates an n byte access at offset.
func (s *Store[U]) check(offset, n int64) error {
	if s.refs.released() {
		return ErrReleased
	}
	if offset < s.start || n < 0 || offset > s.safeLimit-n {
		return outOfBounds(offset, n, s.start, s.safeLimit)
	}
	return nil
}

func (s *Store[U]) checkWrite(offset, n int64) error {
	if s.refs.released() {
		return ErrReleased
	}
	if s.writer == nil {
		return ErrReadOnly
	}
	return s.check(offset, n)
}

func (s *Store[U]) checkAtomic(offset, n int64) error {
	if s.refs.released() {
		return ErrReleased
	}
	if s.atomics == nil {
		if s.readOnly {
			return ErrReadOnly
		}
		return fmt.Errorf("%w: atomic access on %T", ErrUnsupported, s.handle)
	}
	return s.check(offset, n)
}
