package chronicle

import "unicode/utf16"

// CharSequence is a read-only sequence of 16-bit characters. Each character
// carries two bytes of a store.
type CharSequence interface {
	Len() int
	CharAt(i int) uint16
}

// Chars is a CharSequence over a slice of UTF-16 code units.
type Chars []uint16

func (c Chars) Len() int            { return len(c) }
func (c Chars) CharAt(i int) uint16 { return c[i] }

// StringChars encodes s as UTF-16.
func StringChars(s string) Chars {
	return Chars(utf16.Encode([]rune(s)))
}

// charSequenceAccess reads a CharSequence as bytes. lanes64 and lanes32 give
// the character (relative to offset>>1) supplying each 16-bit lane, lowest
// lane first.
type charSequenceAccess struct {
	order   ByteOrder
	lanes64 [4]int
	lanes32 [2]int
}

var (
	littleEndianChars = &charSequenceAccess{order: LittleEndian, lanes64: [4]int{0, 1, 2, 3}, lanes32: [2]int{0, 1}}
	bigEndianChars    = &charSequenceAccess{order: BigEndian, lanes64: [4]int{3, 2, 1, 0}, lanes32: [2]int{1, 0}}
)

// CharSequenceAccess returns the shared read-only accessor for character
// sequences in the given order. There is no write counterpart.
func CharSequenceAccess(order ByteOrder) ReadAccess[CharSequence] {
	if order == BigEndian {
		return bigEndianChars
	}
	return littleEndianChars
}

// NativeCharSequenceAccess returns CharSequenceAccess(NativeOrder()).
func NativeCharSequenceAccess() ReadAccess[CharSequence] {
	return CharSequenceAccess(NativeOrder())
}

func ix(offset int64) int { return int(offset >> 1) }

func (a *charSequenceAccess) ByteOrder() ByteOrder { return a.order }

func (a *charSequenceAccess) ReadUint8(u CharSequence, offset int64) uint8 {
	shift := (offset & 1) << 3
	if a.order == BigEndian {
		shift = ((offset & 1) ^ 1) << 3
	}
	return uint8(u.CharAt(ix(offset)) >> shift)
}

func (a *charSequenceAccess) ReadUint16(u CharSequence, offset int64) uint16 {
	return u.CharAt(ix(offset))
}

func (a *charSequenceAccess) ReadUint32(u CharSequence, offset int64) uint32 {
	base := ix(offset)
	c0 := uint32(u.CharAt(base + a.lanes32[0]))
	c1 := uint32(u.CharAt(base + a.lanes32[1]))
	return c0 | c1<<16
}

func (a *charSequenceAccess) ReadUint64(u CharSequence, offset int64) uint64 {
	base := ix(offset)
	c0 := uint64(u.CharAt(base + a.lanes64[0]))
	c1 := uint64(u.CharAt(base + a.lanes64[1]))
	c2 := uint64(u.CharAt(base + a.lanes64[2]))
	c3 := uint64(u.CharAt(base + a.lanes64[3]))
	return c0 | c1<<16 | c2<<32 | c3<<48
}

func (a *charSequenceAccess) ReadBytes(u CharSequence, offset int64, dst []byte) {
	for i := range dst {
		dst[i] = a.ReadUint8(u, offset+int64(i))
	}
}
