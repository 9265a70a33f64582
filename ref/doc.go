// Package ref provides TextLongArray, a fixed-capacity array of int64 values
// persisted as human-readable text inside a chronicle.BytesStore region:
//
//	{ locked: false, capacity: 00000000000000000003, used: 00000000000000000000, values: [ 00000000000000000000, 00000000000000000000, 00000000000000000000 ] }
//
// The region is the data. Several goroutines or processes may bind the same
// bytes and mutate them concurrently; SetMaxUsed and CompareAndSet serialize
// through a spin-lock token stored in the region itself, so the lock holds
// across processes mapping the same file.
package ref
