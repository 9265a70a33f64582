package chronicle

import (
	"fmt"
	"io"
)

func (s *Store[U]) ReadUint8(offset int64) (uint8, error) {
	if err := s.check(offset, 1); err != nil {
		return 0, err
	}
	return s.access.ReadUint8(s.handle, offset), nil
}

func (s *Store[U]) ReadInt8(offset int64) (int8, error) {
	v, err := s.ReadUint8(offset)
	return int8(v), err
}

func (s *Store[U]) ReadUint16(offset int64) (uint16, error) {
	if err := s.check(offset, 2); err != nil {
		return 0, err
	}
	return s.access.ReadUint16(s.handle, offset), nil
}

func (s *Store[U]) ReadInt16(offset int64) (int16, error) {
	v, err := s.ReadUint16(offset)
	return int16(v), err
}

func (s *Store[U]) ReadUint32(offset int64) (uint32, error) {
	if err := s.check(offset, 4); err != nil {
		return 0, err
	}
	return s.access.ReadUint32(s.handle, offset), nil
}

func (s *Store[U]) ReadInt32(offset int64) (int32, error) {
	v, err := s.ReadUint32(offset)
	return int32(v), err
}

func (s *Store[U]) ReadUint64(offset int64) (uint64, error) {
	if err := s.check(offset, 8); err != nil {
		return 0, err
	}
	return s.access.ReadUint64(s.handle, offset), nil
}

func (s *Store[U]) ReadInt64(offset int64) (int64, error) {
	v, err := s.ReadUint64(offset)
	return int64(v), err
}

// ReadAt implements io.ReaderAt. A read that starts inside the store but runs
// past SafeLimit returns the available bytes and io.EOF.
func (s *Store[U]) ReadAt(p []byte, offset int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := s.check(offset, 1); err != nil {
		return 0, err
	}
	n := min(int64(len(p)), s.safeLimit-offset)
	s.access.ReadBytes(s.handle, offset, p[:n])
	if n < int64(len(p)) {
		return int(n), io.EOF
	}
	return int(n), nil
}

func (s *Store[U]) WriteUint8(offset int64, v uint8) error {
	if err := s.checkWrite(offset, 1); err != nil {
		return err
	}
	s.writer.WriteUint8(s.handle, offset, v)
	return nil
}

func (s *Store[U]) WriteInt8(offset int64, v int8) error {
	return s.WriteUint8(offset, uint8(v))
}

func (s *Store[U]) WriteUint16(offset int64, v uint16) error {
	if err := s.checkWrite(offset, 2); err != nil {
		return err
	}
	s.writer.WriteUint16(s.handle, offset, v)
	return nil
}

func (s *Store[U]) WriteInt16(offset int64, v int16) error {
	return s.WriteUint16(offset, uint16(v))
}

func (s *Store[U]) WriteUint32(offset int64, v uint32) error {
	if err := s.checkWrite(offset, 4); err != nil {
		return err
	}
	s.writer.WriteUint32(s.handle, offset, v)
	return nil
}

func (s *Store[U]) WriteInt32(offset int64, v int32) error {
	return s.WriteUint32(offset, uint32(v))
}

func (s *Store[U]) WriteUint64(offset int64, v uint64) error {
	if err := s.checkWrite(offset, 8); err != nil {
		return err
	}
	s.writer.WriteUint64(s.handle, offset, v)
	return nil
}

func (s *Store[U]) WriteInt64(offset int64, v int64) error {
	return s.WriteUint64(offset, uint64(v))
}

// WriteAt implements io.WriterAt. Nothing is written unless all of p fits.
func (s *Store[U]) WriteAt(p []byte, offset int64) (int, error) {
	if err := s.checkWrite(offset, int64(len(p))); err != nil {
		return 0, err
	}
	s.writer.WriteBytes(s.handle, offset, p)
	return len(p), nil
}

// ZeroOut overwrites [start, end) with zero bytes. An inverted range, or one
// reaching outside [Start(), Capacity()], is an argument error.
func (s *Store[U]) ZeroOut(start, end int64) error {
	if s.refs.released() {
		return ErrReleased
	}
	if s.writer == nil {
		return ErrReadOnly
	}
	if start > end {
		return fmt.Errorf("%w: zeroOut range [%d, %d) is inverted", ErrInvalidArgument, start, end)
	}
	if start < s.start || end > s.capacity {
		return fmt.Errorf("%w: zeroOut range [%d, %d) outside [%d, %d]", ErrInvalidArgument, start, end, s.start, s.capacity)
	}
	s.writer.ZeroOut(s.handle, start, end-start)
	return nil
}

// writeRaw writes p at offset bounded by capacity rather than SafeLimit. Used
// by CopyTo, which covers the whole capacity.
func (s *Store[U]) writeRaw(offset int64, p []byte) error {
	if s.refs.released() {
		return ErrReleased
	}
	if s.writer == nil {
		return ErrReadOnly
	}
	if offset < s.start || offset > s.capacity-int64(len(p)) {
		return outOfBounds(offset, int64(len(p)), s.start, s.capacity)
	}
	s.writer.WriteBytes(s.handle, offset, p)
	return nil
}

type rawWriter interface {
	writeRaw(offset int64, p []byte) error
}

// CopyTo copies min(capacity-start) of both stores, from each store's Start.
// It returns the number of bytes copied.
func (s *Store[U]) CopyTo(dst BytesStore) (int64, error) {
	if s.refs.released() {
		return 0, ErrReleased
	}
	n := min(s.capacity-s.start, dst.Capacity()-dst.Start())
	if n <= 0 {
		return 0, nil
	}

	w, ok := dst.(rawWriter)
	if !ok {
		return 0, fmt.Errorf("%w: copy into %T", ErrUnsupported, dst)
	}
	if src, ok := any(s.handle).([]byte); ok {
		if err := w.writeRaw(dst.Start(), src[s.start:s.start+n]); err != nil {
			return 0, err
		}
		return n, nil
	}

	buf := getCopyBuf()
	defer returnCopyBuf(buf)
	var done int64
	for done < n {
		chunk := (*buf)[:min(int64(len(*buf)), n-done)]
		s.access.ReadBytes(s.handle, s.start+done, chunk)
		if err := w.writeRaw(dst.Start()+done, chunk); err != nil {
			return done, err
		}
		done += int64(len(chunk))
	}
	return done, nil
}
