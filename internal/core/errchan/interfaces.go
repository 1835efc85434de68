package errchan

import "time"

// Report describes one uncaught failure raised in the hosting process.
//
// Fields:
// - Err: the reported error, or an error wrapping a recovered panic value.
// - Panic: the raw recovered value when the report comes from Guard or Run.
// - Stack: goroutine stack captured at recovery time (panics only).
// - Fingerprint: xxhash of the error text, stable across identical failures.
//
// Listeners must treat a Report as read-only.
type Report struct {
	Err         error
	Panic       any
	Stack       []byte
	Source      string
	Timestamp   time.Time
	Fingerprint uint64
}

// Handler is invoked once per delivered report.
type Handler func(report Report)

// Subscription represents a registered listener.
// Use Cancel or Channel.RemoveListener to stop receiving reports.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// IsActive reports whether the listener is still registered.
	IsActive() bool
	// Cancel de-registers the listener. It blocks until deliveries already in
	// progress have returned; afterwards the handler is never called again.
	// Multiple calls are safe.
	Cancel() error
}

// Metrics is a snapshot of the channel counters.
type Metrics struct {
	Reported        uint64
	Delivered       uint64
	ListenersActive uint64
}
