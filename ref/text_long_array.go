package ref

import (
	"bytes"
	"context"
	"fmt"

	chronicle "github.com/hpple/Chronicle-Bytes"
	"go.uber.org/zap"
)

// TextLongArray is a view over a text-encoded long array region. The zero
// value is unusable; create one with New and bind it with BindRegion.
//
// Binding and Reset must not race with other calls on the same
// TextLongArray. Once bound, every method is safe for concurrent use, and
// several TextLongArrays may bind the same region.
type TextLongArray struct {
	store  chronicle.BytesStore
	offset int64
	length int64

	unlocked int32
	locked   int32

	cfg   config
	stats lockCounters
}

// New returns an unbound array.
func New(opts ...Option) *TextLongArray {
	return &TextLongArray{cfg: newConfig(opts)}
}

// BindRegion binds the array to [offset, offset+length) of s. The length
// must match PeakLength(s, offset). The array holds a reference on s until
// Reset or the next BindRegion.
func (a *TextLongArray) BindRegion(s chronicle.BytesStore, offset, length int64) error {
	peak, err := PeakLength(s, offset)
	if err != nil {
		return err
	}
	if length != peak {
		return fmt.Errorf("%w: region length %d != %d", chronicle.ErrInvalidArgument, length, peak)
	}
	var head [lockOffset]byte
	if _, err := s.ReadAt(head[:], offset); err != nil {
		return err
	}
	if !bytes.Equal(head[:], header) {
		return fmt.Errorf("%w: header %q at %d", ErrMalformed, head[:], offset)
	}
	// The lock word must support 32-bit atomics at this offset.
	if _, err := s.ReadVolatileInt32(offset + lockOffset); err != nil {
		return fmt.Errorf("lock word at %d: %w", offset+lockOffset, err)
	}
	if err := s.Reserve(); err != nil {
		return err
	}
	if err := a.Reset(); err != nil {
		s.Release()
		return err
	}

	a.store = s
	a.offset = offset
	a.length = length
	a.unlocked, a.locked = tokens(s.ByteOrder())
	a.cfg.log.Debug("array bound",
		zap.Int64("offset", offset),
		zap.Int64("length", length),
		zap.Int64("capacity", a.Capacity()))
	return nil
}

// IsNull reports whether the array is unbound.
func (a *TextLongArray) IsNull() bool { return a.store == nil }

// Reset unbinds the array and drops its reference on the store. The array
// may be bound again afterwards.
func (a *TextLongArray) Reset() error {
	s := a.store
	a.store = nil
	a.offset = 0
	a.length = 0
	if s == nil {
		return nil
	}
	return s.Release()
}

// MaxSize returns the region length, or 0 when unbound.
func (a *TextLongArray) MaxSize() int64 { return a.length }

// Capacity returns the number of values in the region, or 0 when unbound.
func (a *TextLongArray) Capacity() int64 {
	if a.store == nil {
		return 0
	}
	return capacityOf(a.length)
}

// Used reads the used field without locking; pair it with a load fence or
// a prior lock holder's release to see a fresh value.
func (a *TextLongArray) Used() (int64, error) {
	if a.store == nil {
		return 0, ErrUnbound
	}
	return readField(a.store, a.offset+usedOffset)
}

// SetMaxUsed raises used to n if it is smaller, under the lock. It spins
// until the lock is acquired.
func (a *TextLongArray) SetMaxUsed(n int64) error {
	return a.SetMaxUsedContext(context.Background(), n)
}

// SetMaxUsedContext is SetMaxUsed with cancellation between lock attempts.
func (a *TextLongArray) SetMaxUsedContext(ctx context.Context, n int64) error {
	if a.store == nil {
		return ErrUnbound
	}
	return a.withLock(ctx, func() error {
		used, err := readField(a.store, a.offset+usedOffset)
		if err != nil {
			return err
		}
		if used < n {
			return writeField(a.store, a.offset+usedOffset, n)
		}
		return nil
	})
}

func (a *TextLongArray) valueOffset(index int64) (int64, error) {
	if a.store == nil {
		return 0, ErrUnbound
	}
	if capacity := a.Capacity(); index < 0 || index >= capacity {
		return 0, fmt.Errorf("%w: index %d not in [0, %d)", chronicle.ErrOutOfBounds, index, capacity)
	}
	return a.offset + valuesOffset + index*valueSize, nil
}

// ValueAt parses the value at index without locking or fencing.
func (a *TextLongArray) ValueAt(index int64) (int64, error) {
	off, err := a.valueOffset(index)
	if err != nil {
		return 0, err
	}
	return readField(a.store, off)
}

// SetValueAt formats value into the field at index without locking or
// fencing.
func (a *TextLongArray) SetValueAt(index, value int64) error {
	off, err := a.valueOffset(index)
	if err != nil {
		return err
	}
	return writeField(a.store, off, value)
}

// VolatileValueAt issues a load fence, then reads the value at index.
func (a *TextLongArray) VolatileValueAt(index int64) (int64, error) {
	if a.store == nil {
		return 0, ErrUnbound
	}
	a.store.LoadFence()
	return a.ValueAt(index)
}

// SetOrderedValueAt writes the value at index, then issues a store fence.
func (a *TextLongArray) SetOrderedValueAt(index, value int64) error {
	if err := a.SetValueAt(index, value); err != nil {
		return err
	}
	a.store.StoreFence()
	return nil
}

// CompareAndSet sets the value at index to value if it equals expected.
// It makes a single attempt at the lock: if another holder has it, it
// returns false at once and the caller decides whether to retry.
func (a *TextLongArray) CompareAndSet(index, expected, value int64) (swapped bool, err error) {
	if _, err := a.valueOffset(index); err != nil {
		return false, err
	}
	ok, err := a.tryLock()
	if err != nil {
		return false, err
	}
	if !ok {
		a.stats.tryFailures.Add(1)
		return false, nil
	}
	defer func() {
		if uerr := a.unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	cur, err := a.VolatileValueAt(index)
	if err != nil || cur != expected {
		return false, err
	}
	if err := a.SetOrderedValueAt(index, value); err != nil {
		return false, err
	}
	return true, nil
}

func (a *TextLongArray) String() string {
	if a.store == nil {
		return fmt.Sprintf("TextLongArray{store: nil, offset: %d, length: %d}", a.offset, a.length)
	}
	v, err := a.ValueAt(0)
	if err != nil {
		return fmt.Sprintf("TextLongArray{capacity: %d, err: %v}", a.Capacity(), err)
	}
	return fmt.Sprintf("value: %d ...", v)
}
