package chronicle

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// flush memaksa isi mapping tersimpan ke disk.
func (m *mapping) flush() error {
	if m.readOnly {
		return nil
	}
	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("gagal msync %s: %w", m.path, err)
	}
	return nil
}

// close melepas mmap dan menutup file. Dipanggil sekali, saat referensi
// terakhir dilepas.
func (m *mapping) close() error {
	var firstErr error
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			firstErr = fmt.Errorf("gagal unmap %s: %w", m.path, err)
		}
		m.data = nil
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("gagal menutup %s: %w", m.path, err)
		}
		m.file = nil
	}
	m.log.Info("mapped store closed", zap.String("path", m.path), zap.Error(firstErr))
	return firstErr
}
