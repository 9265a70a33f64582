package chronicle

import (
	"bytes"
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// ByteSliceAccess is the accessor family for heap and mapped memory.
type ByteSliceAccess interface {
	Access[[]byte]
	AtomicAccess[[]byte]
}

type bytesAccess struct {
	order ByteOrder
	codec binary.ByteOrder
}

var (
	littleEndianBytes = &bytesAccess{order: LittleEndian, codec: binary.LittleEndian}
	bigEndianBytes    = &bytesAccess{order: BigEndian, codec: binary.BigEndian}
)

// BytesAccess returns the shared accessor for byte slices in the given order.
func BytesAccess(order ByteOrder) ByteSliceAccess {
	if order == BigEndian {
		return bigEndianBytes
	}
	return littleEndianBytes
}

func (a *bytesAccess) ByteOrder() ByteOrder { return a.order }

func (a *bytesAccess) ReadUint8(u []byte, offset int64) uint8 { return u[offset] }

func (a *bytesAccess) ReadUint16(u []byte, offset int64) uint16 {
	return a.codec.Uint16(u[offset : offset+2])
}

func (a *bytesAccess) ReadUint32(u []byte, offset int64) uint32 {
	return a.codec.Uint32(u[offset : offset+4])
}

func (a *bytesAccess) ReadUint64(u []byte, offset int64) uint64 {
	return a.codec.Uint64(u[offset : offset+8])
}

func (a *bytesAccess) ReadBytes(u []byte, offset int64, dst []byte) {
	copy(dst, u[offset:offset+int64(len(dst))])
}

func (a *bytesAccess) WriteUint8(u []byte, offset int64, v uint8) { u[offset] = v }

func (a *bytesAccess) WriteUint16(u []byte, offset int64, v uint16) {
	a.codec.PutUint16(u[offset:offset+2], v)
}

func (a *bytesAccess) WriteUint32(u []byte, offset int64, v uint32) {
	a.codec.PutUint32(u[offset:offset+4], v)
}

func (a *bytesAccess) WriteUint64(u []byte, offset int64, v uint64) {
	a.codec.PutUint64(u[offset:offset+8], v)
}

func (a *bytesAccess) WriteBytes(u []byte, offset int64, src []byte) {
	copy(u[offset:offset+int64(len(src))], src)
}

func (a *bytesAccess) ZeroOut(u []byte, offset, length int64) {
	clear(u[offset : offset+length])
}

// native32 converts v from the accessor's order into the word the CPU sees
// when loading the same 4 bytes.
func (a *bytesAccess) native32(v uint32) (uint32, [4]byte) {
	var b [4]byte
	a.codec.PutUint32(b[:], v)
	return binary.NativeEndian.Uint32(b[:]), b
}

func (a *bytesAccess) native64(v uint64) uint64 {
	var b [8]byte
	a.codec.PutUint64(b[:], v)
	return binary.NativeEndian.Uint64(b[:])
}

func (a *bytesAccess) CompareAndSwapUint32(u []byte, offset int64, expected, value uint32) (bool, error) {
	if p, ok := ptr32(u, offset); ok {
		e, _ := a.native32(expected)
		v, _ := a.native32(value)
		return atomic.CompareAndSwapUint32(p, e, v), nil
	}
	w, shift, err := enclosingWord(u, offset, 4)
	if err != nil {
		return false, err
	}
	_, eb := a.native32(expected)
	_, vb := a.native32(value)
	for {
		old := atomic.LoadUint64(w)
		var cur [8]byte
		binary.NativeEndian.PutUint64(cur[:], old)
		if !bytes.Equal(cur[shift:shift+4], eb[:]) {
			return false, nil
		}
		copy(cur[shift:shift+4], vb[:])
		if atomic.CompareAndSwapUint64(w, old, binary.NativeEndian.Uint64(cur[:])) {
			return true, nil
		}
	}
}

func (a *bytesAccess) CompareAndSwapUint64(u []byte, offset int64, expected, value uint64) (bool, error) {
	p, err := ptr64(u, offset)
	if err != nil {
		return false, err
	}
	return atomic.CompareAndSwapUint64(p, a.native64(expected), a.native64(value)), nil
}

func (a *bytesAccess) LoadUint32(u []byte, offset int64) (uint32, error) {
	if p, ok := ptr32(u, offset); ok {
		var b [4]byte
		binary.NativeEndian.PutUint32(b[:], atomic.LoadUint32(p))
		return a.codec.Uint32(b[:]), nil
	}
	w, shift, err := enclosingWord(u, offset, 4)
	if err != nil {
		return 0, err
	}
	var cur [8]byte
	binary.NativeEndian.PutUint64(cur[:], atomic.LoadUint64(w))
	return a.codec.Uint32(cur[shift : shift+4]), nil
}

func (a *bytesAccess) LoadUint64(u []byte, offset int64) (uint64, error) {
	p, err := ptr64(u, offset)
	if err != nil {
		return 0, err
	}
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], atomic.LoadUint64(p))
	return a.codec.Uint64(b[:]), nil
}

func (a *bytesAccess) StoreUint32(u []byte, offset int64, v uint32) error {
	if p, ok := ptr32(u, offset); ok {
		n, _ := a.native32(v)
		atomic.StoreUint32(p, n)
		return nil
	}
	w, shift, err := enclosingWord(u, offset, 4)
	if err != nil {
		return err
	}
	_, vb := a.native32(v)
	for {
		old := atomic.LoadUint64(w)
		var cur [8]byte
		binary.NativeEndian.PutUint64(cur[:], old)
		copy(cur[shift:shift+4], vb[:])
		if atomic.CompareAndSwapUint64(w, old, binary.NativeEndian.Uint64(cur[:])) {
			return nil
		}
	}
}

func (a *bytesAccess) StoreUint64(u []byte, offset int64, v uint64) error {
	p, err := ptr64(u, offset)
	if err != nil {
		return err
	}
	atomic.StoreUint64(p, a.native64(v))
	return nil
}

func ptr32(u []byte, offset int64) (*uint32, bool) {
	p := unsafe.Pointer(&u[offset])
	if uintptr(p)%4 != 0 {
		return nil, false
	}
	return (*uint32)(p), true
}

func ptr64(u []byte, offset int64) (*uint64, error) {
	p := unsafe.Pointer(&u[offset])
	if uintptr(p)%8 != 0 {
		return nil, ErrMisaligned
	}
	return (*uint64)(p), nil
}

// enclosingWord finds the aligned 8-byte word holding [offset, offset+n).
// The word must lie entirely inside u.
func enclosingWord(u []byte, offset, n int64) (*uint64, int64, error) {
	shift := int64(uintptr(unsafe.Pointer(&u[offset])) % 8)
	start := offset - shift
	if shift+n > 8 || start < 0 || start+8 > int64(len(u)) {
		return nil, 0, ErrMisaligned
	}
	return (*uint64)(unsafe.Pointer(&u[start])), shift, nil
}
