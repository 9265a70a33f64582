// Package chronicle provides bounds-checked, reference-counted byte stores
// over heap memory, memory-mapped files and read-only character sequences,
// with atomic operations that stay valid across processes sharing a mapping.
//
// The library is organised into several files for clarity:
//
//	order.go        – byte order enum
//	access*.go      – per-handle read/write/atomic primitives
//	store.go        – the BytesStore interface & Store type
//	io.go           – bounded reads, writes, zeroOut & copy
//	atomic.go       – CAS, volatile/ordered access & getAndAdd
//	fence.go        – store & load fences
//	refcount.go     – reserve/release bookkeeping
//	heap.go         – heap-backed and wrapping constructors
//	mapped.go       – memory-mapped constructor
//	mapping.go      – mapped file representation
//	flush_close.go  – flush & unmap helpers
//	config.go       – persisted mapping descriptor
//	cursor.go       – streaming position/limit view
//	buffer.go       – pooled copy buffers
//	stats.go        – lightweight CAS stats accessors
//
// Package ref builds TextLongArray, a human-readable long array guarded by a
// spin-lock, on top of any BytesStore.
package chronicle
