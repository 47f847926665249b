package scanner

// Signal is a coalescing wake-up. Any number of Notify calls before the loop
// consumes C leave exactly one pending wake.
type Signal struct {
	ch chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify never blocks
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C is received from by the loop
func (s *Signal) C() <-chan struct{} {
	return s.ch
}

// Drain discards a pending wake, if any
func (s *Signal) Drain() {
	select {
	case <-s.ch:
	default:
	}
}

// Pending reports whether a wake is waiting to be consumed
func (s *Signal) Pending() bool {
	return len(s.ch) > 0
}
