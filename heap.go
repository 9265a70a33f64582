package chronicle

import (
	"fmt"
	"unsafe"
)

// NewHeapStore allocates a zeroed heap store of capacity bytes. The memory is
// 8-byte aligned so every aligned offset supports 32 and 64-bit atomics.
func NewHeapStore(capacity int64, order ByteOrder, opts ...StoreOption) (*Store[[]byte], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidArgument, capacity)
	}
	b := []byte{}
	if capacity > 0 {
		words := make([]uint64, (capacity+7)/8)
		b = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), capacity)
	}
	return newStore(b, ReadAccess[[]byte](BytesAccess(order)), capacity, false, opts)
}

// WrapBytes builds a store over b without copying. Atomics on b follow the
// alignment of b's own memory.
func WrapBytes(b []byte, order ByteOrder, opts ...StoreOption) (*Store[[]byte], error) {
	return newStore(b, ReadAccess[[]byte](BytesAccess(order)), int64(len(b)), false, opts)
}

// WrapChars builds a read-only store over a character sequence; each
// character supplies two bytes. Writes fail with ErrReadOnly and atomics with
// ErrUnsupported.
func WrapChars(cs CharSequence, order ByteOrder, opts ...StoreOption) (*Store[CharSequence], error) {
	return newStore(cs, CharSequenceAccess(order), int64(cs.Len())*2, false, opts)
}
