package monitor

import (
	"errors"
	"net/http"

	"github.com/zeusync/showme/internal/core/httpclient"
)

// InterceptorOutcome is the classified result of an intercepted exchange:
// either a success carrying the response or a failure carrying its detail.
type InterceptorOutcome struct {
	Failed   bool
	Response *http.Response
	Detail   FailureDetail
}

// FailureDetail distinguishes how an exchange failed.
type FailureDetail struct {
	Kind        httpclient.FailureKind
	HasResponse bool
	HasRequest  bool
	StatusCode  int
	URL         string
	Message     string
}

// Success wraps an accepted response.
func Success(resp *http.Response) InterceptorOutcome {
	return InterceptorOutcome{Response: resp}
}

// Failure classifies a rejected exchange. Errors that did not come from
// httpclient keep only their message.
func Failure(err error) InterceptorOutcome {
	outcome := InterceptorOutcome{Failed: true}
	if err == nil {
		return outcome
	}
	outcome.Detail.Message = err.Error()

	var reqErr *httpclient.RequestError
	if !errors.As(err, &reqErr) {
		return outcome
	}
	outcome.Detail.Kind = reqErr.Kind
	outcome.Detail.StatusCode = reqErr.StatusCode
	outcome.Detail.HasResponse = reqErr.Response != nil
	outcome.Detail.HasRequest = reqErr.Request != nil
	if reqErr.Request != nil && reqErr.Request.URL != nil {
		outcome.Detail.URL = reqErr.Request.URL.Redacted()
	}
	outcome.Response = reqErr.Response
	return outcome
}

// Counts reports whether the outcome is a network error: any failure that
// carries a response, a request, or a message.
func (o InterceptorOutcome) Counts() bool {
	if !o.Failed {
		return false
	}
	return o.Detail.HasResponse || o.Detail.HasRequest || o.Detail.Message != ""
}
