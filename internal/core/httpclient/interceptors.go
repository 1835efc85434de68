package httpclient

import (
	"net/http"
	"sync"
)

type (
	// FulfilledFunc sees every accepted response and returns the response to pass on.
	FulfilledFunc func(resp *http.Response) (*http.Response, error)
	// RejectedFunc sees every failed exchange. Returning a nil error with a
	// response recovers the exchange; returning an error keeps it rejected.
	RejectedFunc func(err error) (*http.Response, error)
)

type interceptor struct {
	onFulfilled FulfilledFunc
	onRejected  RejectedFunc
}

// ResponseInterceptors is the response pipeline of a Client. Handlers run in
// registration order. IDs are slot indexes and are never reused.
//
// Each exchange takes a snapshot of the pipeline when it completes, so an
// exchange finishing concurrently with Eject may still reach the ejected handler.
type ResponseInterceptors struct {
	mu       sync.RWMutex
	handlers []*interceptor
	closed   bool
}

func newResponseInterceptors() *ResponseInterceptors {
	return &ResponseInterceptors{}
}

// Use appends a handler pair and returns its id. Either function may be nil,
// in which case that branch passes through unchanged.
func (r *ResponseInterceptors) Use(onFulfilled FulfilledFunc, onRejected RejectedFunc) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrClientClosed
	}
	r.handlers = append(r.handlers, &interceptor{onFulfilled: onFulfilled, onRejected: onRejected})
	return len(r.handlers) - 1, nil
}

// Eject removes the handler pair registered under id.
func (r *ResponseInterceptors) Eject(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 0 || id >= len(r.handlers) || r.handlers[id] == nil {
		return ErrInterceptorNotFound
	}
	r.handlers[id] = nil
	return nil
}

// Len returns the number of installed handler pairs.
func (r *ResponseInterceptors) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, h := range r.handlers {
		if h != nil {
			n++
		}
	}
	return n
}

func (r *ResponseInterceptors) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *ResponseInterceptors) snapshot() []*interceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*interceptor, 0, len(r.handlers))
	for _, h := range r.handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// run threads an outcome through the pipeline like a promise chain.
func (r *ResponseInterceptors) run(resp *http.Response, err error) (*http.Response, error) {
	for _, h := range r.snapshot() {
		if err != nil {
			if h.onRejected != nil {
				resp, err = h.onRejected(err)
			}
			continue
		}
		if h.onFulfilled != nil {
			resp, err = h.onFulfilled(resp)
		}
	}
	return resp, err
}
