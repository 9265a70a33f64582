package ref

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	chronicle "github.com/hpple/Chronicle-Bytes"
)

var (
	section1 = []byte("{ locked: false, capacity: ")
	section2 = []byte(", used: ")
	section3 = []byte(", values: [ ")
	section4 = []byte(" ] }\n")
	sep      = []byte(", ")

	// header is the part of section1 ahead of the lock token.
	header = section1[:lockOffset]
)

// Field offsets within a region.
const (
	digits = 20

	lockOffset     = 10
	capacityOffset = 27 // len(section1)
	usedOffset     = capacityOffset + digits + 8
	valuesOffset   = usedOffset + digits + 12
	valueSize      = digits + 2
	trailerSize    = 5
	emptySize      = valuesOffset + trailerSize

	// maxCapacity keeps SizeInBytes within int64.
	maxCapacity = (math.MaxInt64 - emptySize) / valueSize
)

// Lock tokens as text. The locked token keeps the field 5 bytes wide:
// "false" becomes " true".
var (
	unlockedToken = []byte("fals")
	lockedToken   = []byte(" tru")
)

func tokens(order chronicle.ByteOrder) (unlocked, locked int32) {
	var codec binary.ByteOrder = binary.LittleEndian
	if order == chronicle.BigEndian {
		codec = binary.BigEndian
	}
	return int32(codec.Uint32(unlockedToken)), int32(codec.Uint32(lockedToken))
}

// SizeInBytes returns the length of a region holding capacity values.
func SizeInBytes(capacity int64) int64 {
	if capacity <= 0 {
		return emptySize
	}
	return capacity*valueSize - int64(len(sep)) + emptySize
}

// capacityOf inverts SizeInBytes.
func capacityOf(length int64) int64 {
	return (length - valuesOffset) / valueSize
}

// PeakLength reads the capacity field of the region at offset and returns
// the region length it implies. It takes no lock.
func PeakLength(s chronicle.BytesStore, offset int64) (int64, error) {
	capacity, err := readField(s, offset+capacityOffset)
	if err != nil {
		return 0, err
	}
	if capacity < 0 || capacity > maxCapacity {
		return 0, fmt.Errorf("%w: capacity %d at %d", ErrMalformed, capacity, offset)
	}
	return SizeInBytes(capacity), nil
}

// Write appends a fresh region for capacity values at the cursor position:
// unlocked, used = 0, every value 0.
func Write(c *chronicle.Cursor, capacity int64) error {
	if capacity < 0 {
		return fmt.Errorf("%w: capacity %d", chronicle.ErrInvalidArgument, capacity)
	}
	if err := checkFits(capacity, c.Capacity()-c.Position()); err != nil {
		return err
	}
	_, err := c.Write(render(capacity))
	return err
}

// WriteAt writes a fresh region for capacity values at offset and returns
// its length.
func WriteAt(s chronicle.BytesStore, offset, capacity int64) (int64, error) {
	if capacity < 0 {
		return 0, fmt.Errorf("%w: capacity %d", chronicle.ErrInvalidArgument, capacity)
	}
	if offset < s.Start() || offset > s.SafeLimit() {
		return 0, fmt.Errorf("%w: offset %d not in [%d, %d]", chronicle.ErrOutOfBounds, offset, s.Start(), s.SafeLimit())
	}
	if err := checkFits(capacity, s.SafeLimit()-offset); err != nil {
		return 0, err
	}
	n, err := s.WriteAt(render(capacity), offset)
	return int64(n), err
}

// checkFits rejects a region for capacity values that cannot fit in room
// bytes, before anything is allocated.
func checkFits(capacity, room int64) error {
	if capacity > maxCapacity || SizeInBytes(capacity) > room {
		return fmt.Errorf("%w: region for capacity %d does not fit in %d bytes", chronicle.ErrOutOfBounds, capacity, room)
	}
	return nil
}

func render(capacity int64) []byte {
	b := make([]byte, 0, SizeInBytes(capacity))
	b = append(b, section1...)
	b = appendField(b, capacity)
	b = append(b, section2...)
	b = appendField(b, 0)
	b = append(b, section3...)
	for i := int64(0); i < capacity; i++ {
		if i > 0 {
			b = append(b, sep...)
		}
		b = appendField(b, 0)
	}
	return append(b, section4...)
}

// appendField appends v as exactly 20 characters: zero-padded digits, or '-'
// followed by 19 zero-padded digits.
func appendField(b []byte, v int64) []byte {
	var tmp [digits]byte
	num := strconv.AppendInt(tmp[:0], v, 10)
	width := digits
	if v < 0 {
		b = append(b, '-')
		num = num[1:]
		width--
	}
	for i := len(num); i < width; i++ {
		b = append(b, '0')
	}
	return append(b, num...)
}

func parseField(field []byte) (int64, error) {
	text := bytes.TrimSpace(field)
	v, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %q: %v", ErrMalformed, field, err)
	}
	return v, nil
}

func readField(s chronicle.BytesStore, offset int64) (int64, error) {
	var buf [digits]byte
	if _, err := s.ReadAt(buf[:], offset); err != nil {
		return 0, fmt.Errorf("read field at %d: %w", offset, err)
	}
	return parseField(buf[:])
}

func writeField(s chronicle.BytesStore, offset, v int64) error {
	var buf [digits]byte
	if _, err := s.WriteAt(appendField(buf[:0], v), offset); err != nil {
		return fmt.Errorf("write field at %d: %w", offset, err)
	}
	return nil
}
