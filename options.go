package chronicle

import "go.uber.org/zap"

// MappedOptions configures OpenMapped.
//
//   - Size:       bytes to map; the file is grown to Size when Create is set
//     (0 = map the existing file length)
//   - Create:     create the file when missing
//   - ReadOnly:   map PROT_READ only; writes and atomics fail with ErrReadOnly
//   - ByteOrder:  order of multi-byte values in the mapping
//   - Descriptor: keep a <path>.config file recording size and byte order
//   - Logger:     destination for lifecycle logs (nil = no logging)
//
// See DefaultMappedOptions for the defaults.
type MappedOptions struct {
	Size       int64
	Create     bool
	ReadOnly   bool
	ByteOrder  ByteOrder
	Descriptor bool
	Logger     *zap.Logger
}

// DefaultMappedOptions returns the options used when a caller has no opinion:
// create a 64 KiB native-order mapping with a descriptor.
func DefaultMappedOptions() MappedOptions {
	return MappedOptions{
		Size:       64 * 1024,
		Create:     true,
		ByteOrder:  NativeOrder(),
		Descriptor: true,
	}
}

type storeConfig struct {
	start     int64
	safeLimit int64 // negative = capacity
	readOnly  bool
	log       *zap.Logger
	releaser  func() error
}

// StoreOption adjusts a store at construction.
type StoreOption func(*storeConfig)

// WithStart sets the smallest addressable offset.
func WithStart(start int64) StoreOption {
	return func(c *storeConfig) { c.start = start }
}

// WithSafeLimit reports a safe limit below capacity, for stores backing
// padded regions.
func WithSafeLimit(limit int64) StoreOption {
	return func(c *storeConfig) { c.safeLimit = limit }
}

// WithReadOnly rejects writes and atomics with ErrReadOnly.
func WithReadOnly() StoreOption {
	return func(c *storeConfig) { c.readOnly = true }
}

func WithLogger(log *zap.Logger) StoreOption {
	return func(c *storeConfig) { c.log = log }
}

// WithReleaser registers fn to run when the last reference is released.
func WithReleaser(fn func() error) StoreOption {
	return func(c *storeConfig) { c.releaser = fn }
}

func newStoreConfig(opts []StoreOption) storeConfig {
	cfg := storeConfig{safeLimit: -1}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	return cfg
}
