package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/showme/internal/core/errchan"
	"github.com/zeusync/showme/internal/core/httpclient"
)

func TestClientErrorObserver_Lifecycle(t *testing.T) {
	channel := errchan.New()
	o := NewClientErrorObserver(channel, nil)

	calls := 0
	sub, err := o.Activate(func() { calls++ })
	require.NoError(t, err)
	assert.True(t, o.Active())
	assert.Equal(t, KindClient, sub.Kind())
	assert.NotEmpty(t, sub.ID())

	again, err := o.Activate(func() { calls += 100 })
	require.NoError(t, err)
	assert.Same(t, sub, again)
	assert.Equal(t, 1, channel.Listeners())

	channel.Report(errors.New("first"))
	channel.Run(func() { panic("second") })
	assert.Equal(t, 2, calls)

	require.NoError(t, o.Deactivate(sub))
	assert.False(t, sub.Active())
	assert.False(t, o.Active())
	require.NoError(t, o.Deactivate(sub))
	require.NoError(t, o.Deactivate(nil))

	channel.Report(errors.New("ignored"))
	assert.Equal(t, 2, calls)
}

func TestClientErrorObserver_GuardStillPanics(t *testing.T) {
	channel := errchan.New()
	o := NewClientErrorObserver(channel, nil)
	calls := 0
	_, err := o.Activate(func() { calls++ })
	require.NoError(t, err)

	assert.Panics(t, func() {
		channel.Guard(func() { panic("not suppressed") })
	})
	assert.Equal(t, 1, calls)
}

func TestClientErrorObserver_ClosedChannel(t *testing.T) {
	channel := errchan.New()
	require.NoError(t, channel.Close())

	_, err := NewClientErrorObserver(channel, nil).Activate(func() {})
	assert.ErrorIs(t, err, errchan.ErrChannelClosed)
}

func TestNetworkErrorObserver_Lifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.DefaultConfig(), nil)
	o := NewNetworkErrorObserver(client.Interceptors(), nil)

	calls := 0
	sub, err := o.Activate(func() { calls++ })
	require.NoError(t, err)
	again, err := o.Activate(func() { calls += 100 })
	require.NoError(t, err)
	assert.Same(t, sub, again)
	assert.Equal(t, 1, client.Interceptors().Len())

	_, err = client.Get(context.Background(), srv.URL)
	var reqErr *httpclient.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, 1, calls)

	_, err = client.Get(context.Background(), "://bad")
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, httpclient.FailureSetup, reqErr.Kind)
	assert.Equal(t, 2, calls)

	require.NoError(t, o.Deactivate(sub))
	assert.Equal(t, 0, client.Interceptors().Len())
	_, err = client.Get(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestNetworkErrorObserver_FailedDeactivateKeepsSubscription(t *testing.T) {
	client := httpclient.New(httpclient.DefaultConfig(), nil)
	pipeline := &flakyPipeline{ResponseInterceptors: client.Interceptors(), failNext: 1}
	o := NewNetworkErrorObserver(pipeline, nil)

	sub, err := o.Activate(func() {})
	require.NoError(t, err)

	require.Error(t, o.Deactivate(sub))
	assert.True(t, sub.Active())
	assert.True(t, o.Active())

	again, err := o.Activate(func() {})
	require.NoError(t, err)
	assert.Same(t, sub, again)
	assert.Equal(t, 1, pipeline.Len())

	require.NoError(t, o.Deactivate(sub))
	assert.False(t, sub.Active())
	assert.False(t, o.Active())
	assert.Equal(t, 0, pipeline.Len())
}

func TestNetworkErrorObserver_NoPipeline(t *testing.T) {
	_, err := NewNetworkErrorObserver(nil, nil).Activate(func() {})
	assert.ErrorIs(t, err, ErrPipelineUnavailable)
}

func TestFailureClassification(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com/x", nil)

	status := Failure(&httpclient.RequestError{
		Kind:       httpclient.FailureStatus,
		Request:    req,
		Response:   &http.Response{StatusCode: 404},
		StatusCode: 404,
	})
	assert.True(t, status.Counts())
	assert.True(t, status.Detail.HasResponse)
	assert.Equal(t, "http://example.com/x", status.Detail.URL)

	noResponse := Failure(&httpclient.RequestError{Kind: httpclient.FailureNoResponse, Request: req, Err: errors.New("reset")})
	assert.True(t, noResponse.Counts())
	assert.False(t, noResponse.Detail.HasResponse)
	assert.True(t, noResponse.Detail.HasRequest)

	setup := Failure(&httpclient.RequestError{Kind: httpclient.FailureSetup, Err: errors.New("bad url")})
	assert.True(t, setup.Counts())
	assert.Equal(t, httpclient.FailureSetup, setup.Detail.Kind)

	foreign := Failure(errors.New("something else"))
	assert.True(t, foreign.Counts())

	assert.False(t, Failure(errors.New("")).Counts())
	assert.False(t, Success(&http.Response{}).Counts())
}
