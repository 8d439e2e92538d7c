package service

// LockCount reports how many per-session turn locks are currently
// retained. Compiled into tests only.
func (s *InterviewService) LockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
