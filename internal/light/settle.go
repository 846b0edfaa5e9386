package light

import (
	"sync"
	"time"

	"github.com/cybre/remo-light/internal/clock"
)

const DefaultSettleDelay = time.Second

// settleTimer holds at most one scheduled commit. Arming replaces whatever was
// scheduled before.
type settleTimer struct {
	clock clock.Clock

	mu    sync.Mutex
	timer clock.Timer
	// generation guards against a timer that already fired but had not yet
	// taken the lock when it was replaced
	generation uint64
}

func newSettleTimer(c clock.Clock) *settleTimer {
	return &settleTimer{clock: c}
}

func (s *settleTimer) Arm(delay time.Duration, action func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	s.generation++
	generation := s.generation

	s.timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.generation != generation {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()

		action()
	})
}

func (s *settleTimer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.generation++
}

func (s *settleTimer) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timer != nil
}

func (s *settleTimer) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
