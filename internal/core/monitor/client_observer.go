package monitor

import (
	"sync"

	"github.com/zeusync/showme/internal/core/errchan"
	"github.com/zeusync/showme/internal/core/observability/log"
)

// ErrorChannel is the host's global uncaught-error signal.
type ErrorChannel interface {
	AddListener(handler errchan.Handler) (errchan.Subscription, error)
	RemoveListener(sub errchan.Subscription) error
}

// ClientErrorObserver counts every report raised on the global error channel.
// It never filters, deduplicates, or suppresses reports.
type ClientErrorObserver struct {
	channel ErrorChannel
	logger  log.Log

	mu     sync.Mutex
	active *Subscription
}

func NewClientErrorObserver(channel ErrorChannel, logger log.Log) *ClientErrorObserver {
	if logger == nil {
		logger = log.Nop()
	}
	return &ClientErrorObserver{channel: channel, logger: logger}
}

// Activate registers onError on the channel. While a subscription is active,
// further calls return it instead of registering again.
func (o *ClientErrorObserver) Activate(onError func()) (*Subscription, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil && o.active.Active() {
		return o.active, nil
	}
	if o.channel == nil {
		return nil, &ObservationError{Op: "activate", Kind: KindClient, Err: ErrChannelUnavailable}
	}

	listener, err := o.channel.AddListener(func(report errchan.Report) {
		o.logger.Debug("Client error observed",
			log.String("source", report.Source),
			log.Uint64("fingerprint", report.Fingerprint),
			log.Error(report.Err),
		)
		onError()
	})
	if err != nil {
		return nil, &ObservationError{Op: "activate", Kind: KindClient, Err: err}
	}

	o.active = newSubscription(KindClient, func() error {
		return o.channel.RemoveListener(listener)
	})
	return o.active, nil
}

// Deactivate removes the listener. No invocation of onError starts after it returns.
func (o *ClientErrorObserver) Deactivate(sub *Subscription) error {
	if sub == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := sub.cancel(); err != nil {
		return &ObservationError{Op: "deactivate", Kind: KindClient, Err: err}
	}
	if o.active == sub {
		o.active = nil
	}
	return nil
}

// Active reports whether a subscription is currently held.
func (o *ClientErrorObserver) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active != nil && o.active.Active()
}
