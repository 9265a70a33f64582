package chronicle

// CompareAndSwapInt32 atomically replaces the 32-bit word at offset with value
// if it currently holds expected. The swap is a hardware CAS on the backing
// memory, visible to every process mapping it.
func (s *Store[U]) CompareAndSwapInt32(offset int64, expected, value int32) (bool, error) {
	if err := s.checkAtomic(offset, 4); err != nil {
		return false, err
	}
	s.stats.casAttempts.Add(1)
	ok, err := s.atomics.CompareAndSwapUint32(s.handle, offset, uint32(expected), uint32(value))
	if err == nil && !ok {
		s.stats.casFailures.Add(1)
	}
	return ok, err
}

func (s *Store[U]) CompareAndSwapInt64(offset int64, expected, value int64) (bool, error) {
	if err := s.checkAtomic(offset, 8); err != nil {
		return false, err
	}
	s.stats.casAttempts.Add(1)
	ok, err := s.atomics.CompareAndSwapUint64(s.handle, offset, uint64(expected), uint64(value))
	if err == nil && !ok {
		s.stats.casFailures.Add(1)
	}
	return ok, err
}

// ReadVolatileInt32 issues a load fence, then reads.
func (s *Store[U]) ReadVolatileInt32(offset int64) (int32, error) {
	if err := s.check(offset, 4); err != nil {
		return 0, err
	}
	LoadFence()
	if s.atomics != nil {
		v, err := s.atomics.LoadUint32(s.handle, offset)
		return int32(v), err
	}
	return int32(s.access.ReadUint32(s.handle, offset)), nil
}

func (s *Store[U]) ReadVolatileInt64(offset int64) (int64, error) {
	if err := s.check(offset, 8); err != nil {
		return 0, err
	}
	LoadFence()
	if s.atomics != nil {
		v, err := s.atomics.LoadUint64(s.handle, offset)
		return int64(v), err
	}
	return int64(s.access.ReadUint64(s.handle, offset)), nil
}

// WriteOrderedInt32 writes v, then issues a store fence.
func (s *Store[U]) WriteOrderedInt32(offset int64, v int32) error {
	if err := s.checkAtomic(offset, 4); err != nil {
		return err
	}
	if err := s.atomics.StoreUint32(s.handle, offset, uint32(v)); err != nil {
		return err
	}
	StoreFence()
	return nil
}

func (s *Store[U]) WriteOrderedInt64(offset int64, v int64) error {
	if err := s.checkAtomic(offset, 8); err != nil {
		return err
	}
	if err := s.atomics.StoreUint64(s.handle, offset, uint64(v)); err != nil {
		return err
	}
	StoreFence()
	return nil
}

// GetAndAddInt32 adds delta to the word at offset and returns the previous
// value. It is a read/compute/CAS loop, retried until the CAS wins; under
// pathological contention it may spin indefinitely.
func (s *Store[U]) GetAndAddInt32(offset int64, delta int32) (int32, error) {
	for {
		old, err := s.ReadVolatileInt32(offset)
		if err != nil {
			return 0, err
		}
		ok, err := s.CompareAndSwapInt32(offset, old, old+delta)
		if err != nil {
			return 0, err
		}
		if ok {
			return old, nil
		}
		s.stats.addRetries.Add(1)
	}
}

func (s *Store[U]) AddAndGetInt32(offset int64, delta int32) (int32, error) {
	old, err := s.GetAndAddInt32(offset, delta)
	return old + delta, err
}

func (s *Store[U]) GetAndAddInt64(offset int64, delta int64) (int64, error) {
	for {
		old, err := s.ReadVolatileInt64(offset)
		if err != nil {
			return 0, err
		}
		ok, err := s.CompareAndSwapInt64(offset, old, old+delta)
		if err != nil {
			return 0, err
		}
		if ok {
			return old, nil
		}
		s.stats.addRetries.Add(1)
	}
}

func (s *Store[U]) AddAndGetInt64(offset int64, delta int64) (int64, error) {
	old, err := s.GetAndAddInt64(offset, delta)
	return old + delta, err
}
