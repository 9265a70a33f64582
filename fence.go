package chronicle

import "sync/atomic"

// fenceWord backs both fences. A sequentially consistent read-modify-write
// is a full barrier on every supported architecture (LOCK XADD on amd64,
// LDADDAL on arm64).
var fenceWord atomic.Uint64

// StoreFence makes every write issued before it visible before any write
// issued after it.
func StoreFence() { fenceWord.Add(1) }

// LoadFence makes reads issued after it observe every write published by a
// preceding StoreFence.
func LoadFence() { fenceWord.Add(0) }
