package chronicle

import "sync/atomic"

// refCount tracks the holders of a store. The count starts at one; the holder
// that brings it to zero runs onRelease exactly once.
type refCount struct {
	n         atomic.Int64
	onRelease func() error
}

func newRefCount(onRelease func() error) *refCount {
	r := &refCount{onRelease: onRelease}
	r.n.Store(1)
	return r
}

func (r *refCount) reserve() error {
	for {
		n := r.n.Load()
		if n <= 0 {
			return ErrReleased
		}
		if r.n.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// release returns (true, hook error) for the final release.
func (r *refCount) release() (bool, error) {
	for {
		n := r.n.Load()
		if n <= 0 {
			return false, ErrReleased
		}
		if !r.n.CompareAndSwap(n, n-1) {
			continue
		}
		if n > 1 {
			return false, nil
		}
		if r.onRelease == nil {
			return true, nil
		}
		return true, r.onRelease()
	}
}

func (r *refCount) count() int64 { return r.n.Load() }

func (r *refCount) released() bool { return r.n.Load() <= 0 }
