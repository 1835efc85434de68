// Package monitor counts runtime failures observed on the global error
// channel and on an HTTP client, and warns once their number exceeds a
// configured threshold.
package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/zeusync/showme/internal/core/observability/log"
)

// WarningTemplate is the message logged when the threshold is exceeded.
const WarningTemplate = "Showme's detected %d error(s) and fired this warning."

// State is the monitor lifecycle state.
type State uint8

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Stats accumulates over the monitor's lifetime; unlike the error count it is
// never reset.
type Stats struct {
	Total         uint64
	Client        uint64
	Network       uint64
	Warnings      uint64
	LastWarningAt time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

func WithLogger(logger log.Log) Option {
	return func(m *Monitor) { m.logger = logger }
}

func WithClock(c clock.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

func WithMetrics(metrics *Metrics) Option {
	return func(m *Monitor) { m.metrics = metrics }
}

// Monitor owns the error count. Observers selected by the configured scope
// feed it; every recorded error is compared against the threshold and a
// count above it logs a warning and resets the count to zero.
type Monitor struct {
	config  Config
	logger  log.Log
	clock   clock.Clock
	metrics *Metrics

	clientObserver  *ClientErrorObserver
	networkObserver *NetworkErrorObserver

	// lifecycleMu serializes Start and Stop. It is never held while counting,
	// so Stop can wait for a delivery that is recording an error.
	lifecycleMu sync.Mutex
	state       State
	subs        []*Subscription

	mu    sync.Mutex
	count int
	stats Stats
}

// New creates an idle monitor. channel and pipeline may be nil when the scope
// does not need them; Start fails otherwise.
//
// config is used as given. Pass DefaultConfig when nothing was configured;
// a zero Config has threshold 0.
func New(config Config, channel ErrorChannel, pipeline ResponsePipeline, opts ...Option) *Monitor {
	m := &Monitor{
		config: config,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Nop()
	}
	m.logger = m.logger.With(log.String("component", "monitor"))
	m.clientObserver = NewClientErrorObserver(channel, m.logger)
	m.networkObserver = NewNetworkErrorObserver(pipeline, m.logger)
	return m
}

// Start attaches the observers the scope asks for. Calling it while active is
// a no-op. If one observer fails to attach, the ones already attached are
// released and the error is returned.
func (m *Monitor) Start() error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if m.state == StateActive {
		return nil
	}

	// Observers hand back a subscription left over from a failed release
	// instead of attaching twice.
	var subs []*Subscription
	if m.config.Scope.Includes(KindClient) {
		sub, err := m.clientObserver.Activate(func() { m.record(KindClient) })
		if err != nil {
			return m.rollback(subs, err)
		}
		subs = append(subs, sub)
	}
	if m.config.Scope.Includes(KindNetwork) {
		sub, err := m.networkObserver.Activate(func() { m.record(KindNetwork) })
		if err != nil {
			return m.rollback(subs, err)
		}
		subs = append(subs, sub)
	}

	m.subs = subs
	m.state = StateActive
	m.logger.Debug("Monitor started",
		log.String("scope", m.config.Scope.String()),
		log.Int("threshold", m.config.Threshold),
	)
	return nil
}

func (m *Monitor) rollback(subs []*Subscription, cause error) error {
	remaining, err := m.release(subs)
	m.subs = remaining
	return multierr.Append(cause, err)
}

// Stop releases all subscriptions. It is safe to call when never started.
// A subscription that fails to release stays held and the monitor stays
// active, so Stop can be called again.
func (m *Monitor) Stop() error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if m.state != StateActive && len(m.subs) == 0 {
		return nil
	}
	remaining, err := m.release(m.subs)
	m.subs = remaining
	if len(remaining) > 0 {
		m.logger.Warn("Monitor stop incomplete",
			log.Int("held", len(remaining)),
			log.Error(err),
		)
		return err
	}
	m.state = StateIdle
	m.logger.Debug("Monitor stopped")
	return err
}

// release deactivates subs and returns the ones still held.
func (m *Monitor) release(subs []*Subscription) ([]*Subscription, error) {
	var (
		err       error
		remaining []*Subscription
	)
	for _, sub := range subs {
		var subErr error
		switch sub.Kind() {
		case KindClient:
			subErr = m.clientObserver.Deactivate(sub)
		case KindNetwork:
			subErr = m.networkObserver.Deactivate(sub)
		}
		if subErr != nil {
			remaining = append(remaining, sub)
			err = multierr.Append(err, subErr)
		}
	}
	return remaining, err
}

// RecordError counts one error. It never fails.
func (m *Monitor) RecordError() {
	m.record(KindManual)
}

func (m *Monitor) record(kind ErrorKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.count++
	m.stats.Total++
	switch kind {
	case KindClient:
		m.stats.Client++
	case KindNetwork:
		m.stats.Network++
	}
	m.metrics.recorded(kind, m.count)
	m.logger.Info("Error count", log.Int("count", m.count), log.String("kind", kind.String()))

	if m.count > m.config.Threshold {
		m.logger.Warn(fmt.Sprintf(WarningTemplate, m.count), log.Int("count", m.count))
		m.count = 0
		m.stats.Warnings++
		m.stats.LastWarningAt = m.clock.Now()
		m.metrics.warned()
	}
}

// CurrentCount returns the errors counted since the last warning.
func (m *Monitor) CurrentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Monitor) State() State {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	return m.state
}

func (m *Monitor) Config() Config { return m.config }

// Provide builds a monitor with a logger; it is the injector's constructor.
func Provide(config Config, channel ErrorChannel, pipeline ResponsePipeline, logger log.Log) *Monitor {
	return New(config, channel, pipeline, WithLogger(logger))
}
