package ref

import (
	"context"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
)

// LockStats counts spin-lock activity of one TextLongArray.
type LockStats struct {
	Acquisitions uint64 // locks taken
	Spins        uint64 // failed CAS attempts while spinning
	TryFailures  uint64 // CompareAndSet calls that found the lock held
}

type lockCounters struct {
	acquisitions atomic.Uint64
	spins        atomic.Uint64
	tryFailures  atomic.Uint64
}

// tryLock makes one attempt to swap the unlocked token for the locked one.
func (a *TextLongArray) tryLock() (bool, error) {
	ok, err := a.store.CompareAndSwapInt32(a.offset+lockOffset, a.unlocked, a.locked)
	if ok {
		a.stats.acquisitions.Add(1)
	}
	return ok, err
}

// lock spins until the token is acquired or ctx is done. The context is
// checked between attempts only.
func (a *TextLongArray) lock(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		ok, err := a.tryLock()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		a.stats.spins.Add(1)
		if attempt == a.cfg.spinWarn {
			a.cfg.log.Warn("spin-lock contended",
				zap.Int64("offset", a.offset),
				zap.Int("attempts", attempt))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
}

// unlock writes the unlocked token back with an ordered store. Only the
// holder calls it.
func (a *TextLongArray) unlock() error {
	return a.store.WriteOrderedInt32(a.offset+lockOffset, a.unlocked)
}

// withLock runs fn while holding the lock. The lock is released on every exit
// path.
func (a *TextLongArray) withLock(ctx context.Context, fn func() error) (err error) {
	if err := a.lock(ctx); err != nil {
		return err
	}
	defer func() {
		if uerr := a.unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return fn()
}

// LockStats returns a snapshot of the lock counters.
func (a *TextLongArray) LockStats() LockStats {
	return LockStats{
		Acquisitions: a.stats.acquisitions.Load(),
		Spins:        a.stats.spins.Load(),
		TryFailures:  a.stats.tryFailures.Load(),
	}
}
