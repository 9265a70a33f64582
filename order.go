package chronicle

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder selects how multi-byte values are laid out in a store.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// NativeOrder returns the byte order of the host.
func NativeOrder() ByteOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

func (o ByteOrder) codec() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return fmt.Sprintf("ByteOrder(%d)", uint8(o))
	}
}

// MarshalText encodes the order as "little" or "big".
func (o ByteOrder) MarshalText() ([]byte, error) {
	if o != LittleEndian && o != BigEndian {
		return nil, fmt.Errorf("%w: byte order %d", ErrInvalidArgument, uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *ByteOrder) UnmarshalText(text []byte) error {
	switch string(text) {
	case "little":
		*o = LittleEndian
	case "big":
		*o = BigEndian
	default:
		return fmt.Errorf("%w: byte order %q", ErrInvalidArgument, text)
	}
	return nil
}
