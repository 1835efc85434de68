// Package httpclient provides the HTTP client handle whose exchanges pass
// through a response interceptor pipeline before reaching the caller.
package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/showme/internal/core/observability/log"
)

// Config holds configuration for the client
type Config struct {
	// Timeout bounds a whole exchange; zero means no timeout.
	Timeout time.Duration
	// HandshakeTimeout bounds websocket handshakes.
	HandshakeTimeout time.Duration
	// Transport is the base round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
	// ValidateStatus decides which statuses are accepted; nil means 2xx only.
	ValidateStatus func(status int) bool
	// MaxErrorBody caps how much of a rejected response body is kept.
	MaxErrorBody int64
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		ValidateStatus:   DefaultValidateStatus,
		MaxErrorBody:     64 << 10,
	}
}

// DefaultValidateStatus accepts 2xx responses.
func DefaultValidateStatus(status int) bool {
	return status >= 200 && status < 300
}

// Client performs HTTP exchanges and websocket handshakes, routing every
// outcome through its response interceptors.
type Client struct {
	config       Config
	httpClient   *http.Client
	dialer       *websocket.Dialer
	interceptors *ResponseInterceptors
	logger       log.Log
	closed       atomic.Bool
}

// New creates a client. Zero fields of config fall back to DefaultConfig values.
func New(config Config, logger log.Log) *Client {
	defaults := DefaultConfig()
	if config.ValidateStatus == nil {
		config.ValidateStatus = defaults.ValidateStatus
	}
	if config.MaxErrorBody <= 0 {
		config.MaxErrorBody = defaults.MaxErrorBody
	}
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if logger == nil {
		logger = log.Nop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Transport: config.Transport,
			Timeout:   config.Timeout,
		},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: config.HandshakeTimeout,
		},
		interceptors: newResponseInterceptors(),
		logger:       logger.With(log.String("component", "httpclient")),
	}
}

// Interceptors returns the response pipeline.
func (c *Client) Interceptors() *ResponseInterceptors {
	return c.interceptors
}

// Do sends req. Rejected exchanges come back as *RequestError unless an
// interceptor recovers them.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req == nil || req.URL == nil {
		return c.reject(&RequestError{Kind: FailureSetup, Request: req, Err: ErrNilRequest})
	}
	if c.closed.Load() {
		return c.reject(&RequestError{Kind: FailureSetup, Request: req, Err: ErrClientClosed})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.reject(&RequestError{Kind: FailureNoResponse, Request: req, Err: err})
	}
	if !c.config.ValidateStatus(resp.StatusCode) {
		return c.reject(&RequestError{
			Kind:       FailureStatus,
			Request:    req,
			Response:   resp,
			StatusCode: resp.StatusCode,
			Body:       c.drain(resp),
		})
	}
	return c.interceptors.run(resp, nil)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return c.reject(&RequestError{Kind: FailureSetup, Err: err})
	}
	return c.Do(req)
}

// Post issues a POST request with the given body.
func (c *Client) Post(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return c.reject(&RequestError{Kind: FailureSetup, Err: err})
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// DialWebSocket performs a websocket handshake. The handshake response goes
// through the interceptors like any other exchange; if the pipeline rejects
// an accepted handshake, the connection is closed.
func (c *Client) DialWebSocket(ctx context.Context, rawURL string, header http.Header) (*websocket.Conn, *http.Response, error) {
	u, err := url.Parse(rawURL)
	if err == nil && u.Scheme != "ws" && u.Scheme != "wss" {
		err = ErrBadScheme
	}
	if err != nil {
		resp, rerr := c.reject(&RequestError{Kind: FailureSetup, Err: err})
		return nil, resp, rerr
	}
	req := (&http.Request{Method: http.MethodGet, URL: u, Header: header}).WithContext(ctx)

	if c.closed.Load() {
		resp, rerr := c.reject(&RequestError{Kind: FailureSetup, Request: req, Err: ErrClientClosed})
		return nil, resp, rerr
	}

	conn, resp, err := c.dialer.DialContext(ctx, rawURL, header)
	if err != nil {
		reqErr := &RequestError{Kind: FailureNoResponse, Request: req, Err: err}
		if resp != nil {
			reqErr.Kind = FailureStatus
			reqErr.Response = resp
			reqErr.StatusCode = resp.StatusCode
			reqErr.Body = c.drain(resp)
		}
		out, rerr := c.reject(reqErr)
		return nil, out, rerr
	}

	out, err := c.interceptors.run(resp, nil)
	if err != nil {
		_ = conn.Close()
		return nil, out, err
	}
	return conn, out, nil
}

// Close stops accepting interceptors and new exchanges and releases idle connections.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.interceptors.close()
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) reject(reqErr *RequestError) (*http.Response, error) {
	fields := []log.Field{log.String("kind", reqErr.Kind.String())}
	if reqErr.Request != nil && reqErr.Request.URL != nil {
		fields = append(fields, log.String("url", reqErr.Request.URL.Redacted()))
	}
	if reqErr.StatusCode != 0 {
		fields = append(fields, log.Int("status", reqErr.StatusCode))
	}
	c.logger.Debug("Exchange rejected", fields...)

	return c.interceptors.run(nil, reqErr)
}

func (c *Client) drain(resp *http.Response) []byte {
	if resp.Body == nil {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxErrorBody))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return body
}
