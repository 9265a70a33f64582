package chronicle

import (
	"errors"
	"fmt"
)

// Bounds errors. Offsets or lengths outside [Start, SafeLimit) of a store, or
// outside the window of a cursor.
var (
	ErrOutOfBounds     = errors.New("chronicle: offset out of bounds")
	ErrBufferUnderflow = fmt.Errorf("%w: buffer underflow", ErrOutOfBounds)
	ErrBufferOverflow  = fmt.Errorf("%w: buffer overflow", ErrOutOfBounds)
)

// Argument errors.
var (
	ErrInvalidArgument = errors.New("chronicle: invalid argument")
	ErrMisaligned      = fmt.Errorf("%w: offset is not aligned for an atomic access", ErrInvalidArgument)
	ErrUnknownMode     = fmt.Errorf("%w: unknown cursor mode", ErrInvalidArgument)
)

// ErrReleased is returned by every operation on a store whose reference count
// already reached zero, and by a Release past zero.
var ErrReleased = errors.New("chronicle: store released")

// Unsupported operations. Both wrap errors.ErrUnsupported.
var (
	ErrUnsupported = fmt.Errorf("chronicle: %w", errors.ErrUnsupported)
	ErrReadOnly    = fmt.Errorf("%w: store is read-only", ErrUnsupported)
)

func outOfBounds(offset, length, start, limit int64) error {
	return fmt.Errorf("%w: [%d, %d) not within [%d, %d)", ErrOutOfBounds, offset, offset+length, start, limit)
}
