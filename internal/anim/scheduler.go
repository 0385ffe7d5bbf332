package anim

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Token identifies one pending timer in the scheduler's arena.
type Token string

const NoToken Token = ""

// Scheduler is a small cooperative timeline: an arena of pending timers keyed
// by token, each cancellable individually or as a group. It never blocks and
// never runs two callbacks concurrently on the manual clock; with the real
// clock, callers serialize their own state (the synchronizer locks around
// every callback it schedules).
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	pending map[Token]func() bool
}

func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	return &Scheduler{clock: clock, pending: make(map[Token]func() bool)}
}

// Schedule runs fn after delay and returns the cancellation token.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) Token {
	token := Token(uuid.NewString())
	s.mu.Lock()
	s.pending[token] = s.clock.Schedule(delay, func() {
		s.mu.Lock()
		_, live := s.pending[token]
		delete(s.pending, token)
		s.mu.Unlock()
		if live {
			fn()
		}
	})
	s.mu.Unlock()
	return token
}

// Cancel invalidates a pending timer. Cancelling an already-fired or unknown
// token is a no-op.
func (s *Scheduler) Cancel(token Token) bool {
	if token == NoToken {
		return false
	}
	s.mu.Lock()
	stop, ok := s.pending[token]
	delete(s.pending, token)
	s.mu.Unlock()
	if !ok {
		return false
	}
	stop()
	return true
}

// CancelAll invalidates every pending timer.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	stops := make([]func() bool, 0, len(s.pending))
	for _, stop := range s.pending {
		stops = append(stops, stop)
	}
	s.pending = make(map[Token]func() bool)
	s.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

// PendingCount reports how many timers are waiting to fire.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
