package errchan

import (
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// subscription implements Subscription interface.
type subscription struct {
	id      string
	channel *Channel
	handler Handler
	active  bool
}

func (s *subscription) ID() string { return s.id }

func (s *subscription) IsActive() bool {
	s.channel.mu.RLock()
	defer s.channel.mu.RUnlock()
	return s.active
}

func (s *subscription) Cancel() error {
	s.channel.mu.Lock()
	defer s.channel.mu.Unlock()
	if s.active {
		s.channel.listeners = slices.DeleteFunc(s.channel.listeners, func(l *subscription) bool {
			return l == s
		})
		s.active = false
	}
	return nil
}

// Channel is the process-wide uncaught-error signal. Code that fails outside
// any caller able to handle the failure reports it here; listeners observe it.
//
// Delivery is synchronous in the reporting goroutine, in registration order,
// and holds a read lock, so listeners must not add or remove listeners from
// inside a handler.
type Channel struct {
	mu        sync.RWMutex
	listeners []*subscription
	closed    bool
	now       func() time.Time

	reported  atomic.Uint64
	delivered atomic.Uint64
}

// New creates an open channel without listeners.
func New() *Channel {
	return &Channel{
		now: time.Now,
	}
}

// AddListener registers handler for every subsequent report.
func (c *Channel) AddListener(handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrChannelClosed
	}
	s := &subscription{id: uuid.NewString(), channel: c, handler: handler, active: true}
	c.listeners = append(c.listeners, s)
	return s, nil
}

// RemoveListener cancels sub. It is safe to call with nil; does nothing.
func (c *Channel) RemoveListener(sub Subscription) error {
	if sub == nil {
		return nil
	}
	if s, ok := sub.(*subscription); ok && s.channel != c {
		return ErrForeignSub
	}
	return sub.Cancel()
}

// Report delivers err to every active listener exactly once. Nil errors are ignored.
func (c *Channel) Report(err error) {
	if err == nil {
		return
	}
	c.deliver(Report{Err: err, Source: "report"})
}

// Guard runs fn and, if it panics, reports the panic and panics again with the
// same value. The failure keeps propagating; the channel only observes it.
func (c *Channel) Guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.deliver(panicReport(r, "guard"))
			panic(r)
		}
	}()
	fn()
}

// Run runs fn and contains a panic the way a host event loop survives an
// uncaught exception: the panic is reported and its value returned.
func (c *Channel) Run(fn func()) (recovered any) {
	defer func() {
		if r := recover(); r != nil {
			c.deliver(panicReport(r, "run"))
			recovered = r
		}
	}()
	fn()
	return nil
}

// Go runs fn on a new goroutine under Run.
func (c *Channel) Go(fn func()) {
	go c.Run(fn)
}

// Listeners returns the number of active listeners.
func (c *Channel) Listeners() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listeners)
}

// GetMetrics returns a snapshot of the channel counters.
func (c *Channel) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Metrics{
		Reported:        c.reported.Load(),
		Delivered:       c.delivered.Load(),
		ListenersActive: uint64(len(c.listeners)),
	}
}

// Close drops all listeners; later AddListener calls fail with ErrChannelClosed.
// Reports made after Close are discarded.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, s := range c.listeners {
		s.active = false
	}
	c.listeners = nil
	return nil
}

func (c *Channel) deliver(report Report) {
	if report.Timestamp.IsZero() {
		report.Timestamp = c.now()
	}
	report.Fingerprint = xxhash.Sum64String(report.Err.Error())

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	c.reported.Add(1)
	for _, s := range c.listeners {
		s.handler(report)
		c.delivered.Add(1)
	}
}

func panicReport(value any, source string) Report {
	return Report{
		Err:    &PanicError{Value: value},
		Panic:  value,
		Stack:  debug.Stack(),
		Source: source,
	}
}
