package chronicle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MappedStore adalah Store di atas file yang di-memory-map dengan MAP_SHARED.
// Semua proses yang memetakan file yang sama berbagi byte, CAS, dan fence.
//
// Semua operasi aman untuk goroutine.
type MappedStore struct {
	*Store[[]byte]
	m *mapping
}

var _ BytesStore = (*MappedStore)(nil)

// OpenMapped memetakan file di path dengan opsi default (lihat
// DefaultMappedOptions) dan ukuran size.
func OpenMapped(path string, size int64) (*MappedStore, error) {
	opts := DefaultMappedOptions()
	opts.Size = size
	return OpenMappedWithOptions(path, opts)
}

// OpenMappedWithOptions memetakan file di path dengan opsi kustom. Jika
// Descriptor aktif dan <path>.config sudah ada, ukuran dan byte order yang
// tersimpan menggantikan nilai di opts.
func OpenMappedWithOptions(path string, opts MappedOptions) (*MappedStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	if opts.Size < 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidArgument, opts.Size)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
		opts.Logger = log
	}

	flags := os.O_RDWR
	if opts.ReadOnly {
		flags = os.O_RDONLY
	} else if opts.Create {
		// Pastikan direktori ada
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("gagal membuat direktori: %w", err)
		}
		flags |= os.O_CREATE
	}

	f, err := os.OpenFile(path, flags, 0o666)
	if err != nil {
		return nil, fmt.Errorf("gagal membuka %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gagal stat %s: %w", path, err)
	}
	if opts.Size == 0 {
		opts.Size = info.Size()
	}

	if opts.Descriptor {
		if err := verifyOrWriteDescriptor(descriptorPath(path), &opts); err != nil {
			f.Close()
			return nil, err
		}
	}
	if opts.Size <= 0 {
		f.Close()
		return nil, fmt.Errorf("%w: cannot map empty file %s", ErrInvalidArgument, path)
	}

	if info.Size() < opts.Size {
		if opts.ReadOnly || !opts.Create {
			f.Close()
			return nil, fmt.Errorf("%w: %s holds %d bytes, want %d", ErrOutOfBounds, path, info.Size(), opts.Size)
		}
		if err := f.Truncate(opts.Size); err != nil {
			f.Close()
			return nil, fmt.Errorf("gagal mengalokasikan %s: %w", path, err)
		}
	}

	prot := unix.PROT_READ | unix.PROT_WRITE
	if opts.ReadOnly {
		prot = unix.PROT_READ
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(opts.Size), prot, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gagal mmap %s: %w", path, err)
	}

	m := &mapping{
		file:     f,
		data:     data,
		path:     path,
		size:     opts.Size,
		readOnly: opts.ReadOnly,
		log:      log,
	}
	storeOpts := []StoreOption{WithLogger(log), WithReleaser(m.close)}
	if opts.ReadOnly {
		storeOpts = append(storeOpts, WithReadOnly())
	}
	s, err := newStore(data, ReadAccess[[]byte](BytesAccess(opts.ByteOrder)), opts.Size, true, storeOpts)
	if err != nil {
		m.close()
		return nil, err
	}

	log.Info("mapped store opened",
		zap.String("path", path),
		zap.String("size", humanize.IBytes(uint64(opts.Size))),
		zap.Stringer("order", opts.ByteOrder),
		zap.Bool("readOnly", opts.ReadOnly))
	return &MappedStore{Store: s, m: m}, nil
}

// Path mengembalikan path file yang dipetakan.
func (ms *MappedStore) Path() string { return ms.m.path }

// Flush memaksa isi mapping tersimpan ke disk (msync). Tidak melakukan apa pun
// pada mapping read-only.
func (ms *MappedStore) Flush() error {
	if ms.refs.released() {
		return ErrReleased
	}
	return ms.m.flush()
}
