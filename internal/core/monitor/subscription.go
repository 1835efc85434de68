package monitor

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription is an observer's live registration with its signal source.
// It stays active until its release function succeeds.
type Subscription struct {
	id       string
	kind     ErrorKind
	release  func() error
	mu       sync.Mutex
	released atomic.Bool
}

func newSubscription(kind ErrorKind, release func() error) *Subscription {
	return &Subscription{id: uuid.NewString(), kind: kind, release: release}
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) Kind() ErrorKind { return s.kind }

// Active reports whether the subscription has not been released yet.
func (s *Subscription) Active() bool { return !s.released.Load() }

// cancel runs the release function until it succeeds once. A failed release
// leaves the subscription active so the caller can retry.
func (s *Subscription) cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released.Load() {
		return nil
	}
	if err := s.release(); err != nil {
		return err
	}
	s.released.Store(true)
	return nil
}
