package chronicle

import "sync/atomic"

type counters struct {
	casAttempts atomic.Uint64
	casFailures atomic.Uint64
	addRetries  atomic.Uint64
}

// Stats menyimpan statistik operasi atomik sebuah store.
// FailureRatio dalam persentase (0-100).
type Stats struct {
	CASAttempts  uint64
	CASFailures  uint64
	AddRetries   uint64
	FailureRatio float64
}

// GetStats mengambil snapshot statistik tanpa lock.
func (s *Store[U]) GetStats() Stats {
	attempts := s.stats.casAttempts.Load()
	failures := s.stats.casFailures.Load()
	ratio := 0.0
	if attempts > 0 {
		ratio = float64(failures) / float64(attempts) * 100.0
	}
	return Stats{
		CASAttempts:  attempts,
		CASFailures:  failures,
		AddRetries:   s.stats.addRetries.Load(),
		FailureRatio: ratio,
	}
}

// ResetStats mengatur ulang semua penghitung.
func (s *Store[U]) ResetStats() {
	s.stats.casAttempts.Store(0)
	s.stats.casFailures.Store(0)
	s.stats.addRetries.Store(0)
}
