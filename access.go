package chronicle

// ReadAccess decodes fixed-width values from an underlying handle U at a byte
// offset, for one byte order. Implementations hold no state. Offsets are not
// range checked here; the owning Store checks them first.
type ReadAccess[U any] interface {
	ByteOrder() ByteOrder
	ReadUint8(u U, offset int64) uint8
	ReadUint16(u U, offset int64) uint16
	ReadUint32(u U, offset int64) uint32
	ReadUint64(u U, offset int64) uint64
	ReadBytes(u U, offset int64, dst []byte)
}

// WriteAccess encodes fixed-width values into U.
type WriteAccess[U any] interface {
	WriteUint8(u U, offset int64, v uint8)
	WriteUint16(u U, offset int64, v uint16)
	WriteUint32(u U, offset int64, v uint32)
	WriteUint64(u U, offset int64, v uint64)
	WriteBytes(u U, offset int64, src []byte)
	ZeroOut(u U, offset, length int64)
}

// Access is a read/write accessor.
type Access[U any] interface {
	ReadAccess[U]
	WriteAccess[U]
}

// AtomicAccess performs hardware atomic operations directly on the memory
// behind U, so they stay linearizable when the same memory is mapped by other
// processes. Values are interpreted in the accessor's byte order.
type AtomicAccess[U any] interface {
	CompareAndSwapUint32(u U, offset int64, expected, value uint32) (bool, error)
	CompareAndSwapUint64(u U, offset int64, expected, value uint64) (bool, error)
	LoadUint32(u U, offset int64) (uint32, error)
	LoadUint64(u U, offset int64) (uint64, error)
	StoreUint32(u U, offset int64, v uint32) error
	StoreUint64(u U, offset int64, v uint64) error
}
