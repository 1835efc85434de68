package monitor

import (
	"net/http"
	"sync"

	"github.com/zeusync/showme/internal/core/httpclient"
	"github.com/zeusync/showme/internal/core/observability/log"
)

// ResponsePipeline is the registration point of an HTTP client's response interceptors.
type ResponsePipeline interface {
	Use(onFulfilled httpclient.FulfilledFunc, onRejected httpclient.RejectedFunc) (int, error)
	Eject(id int) error
}

// NetworkErrorObserver counts failed exchanges on an HTTP client and hands
// the original failure back to the caller unchanged.
//
// An exchange that completes while Deactivate runs may still be counted once:
// the client snapshots its interceptors per exchange.
type NetworkErrorObserver struct {
	pipeline ResponsePipeline
	logger   log.Log

	mu     sync.Mutex
	active *Subscription
}

func NewNetworkErrorObserver(pipeline ResponsePipeline, logger log.Log) *NetworkErrorObserver {
	if logger == nil {
		logger = log.Nop()
	}
	return &NetworkErrorObserver{pipeline: pipeline, logger: logger}
}

// Activate installs the interceptor. While a subscription is active, further
// calls return it instead of installing a duplicate.
func (o *NetworkErrorObserver) Activate(onError func()) (*Subscription, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil && o.active.Active() {
		return o.active, nil
	}
	if o.pipeline == nil {
		return nil, &ObservationError{Op: "activate", Kind: KindNetwork, Err: ErrPipelineUnavailable}
	}

	id, err := o.pipeline.Use(
		func(resp *http.Response) (*http.Response, error) {
			return Success(resp).Response, nil
		},
		func(err error) (*http.Response, error) {
			outcome := Failure(err)
			if outcome.Counts() {
				o.logger.Debug("Network error observed",
					log.String("kind", outcome.Detail.Kind.String()),
					log.String("url", outcome.Detail.URL),
					log.Int("status", outcome.Detail.StatusCode),
				)
				onError()
			}
			return nil, err
		},
	)
	if err != nil {
		return nil, &ObservationError{Op: "activate", Kind: KindNetwork, Err: err}
	}

	o.active = newSubscription(KindNetwork, func() error {
		return o.pipeline.Eject(id)
	})
	return o.active, nil
}

// Deactivate ejects the interceptor. On failure the subscription stays active
// and Deactivate may be called again.
func (o *NetworkErrorObserver) Deactivate(sub *Subscription) error {
	if sub == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := sub.cancel(); err != nil {
		return &ObservationError{Op: "deactivate", Kind: KindNetwork, Err: err}
	}
	if o.active == sub {
		o.active = nil
	}
	return nil
}

// Active reports whether an interceptor is currently installed.
func (o *NetworkErrorObserver) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active != nil && o.active.Active()
}
