package monitor

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScope        = errors.New("invalid error scope")
	ErrChannelUnavailable  = errors.New("global error channel unavailable")
	ErrPipelineUnavailable = errors.New("http response pipeline unavailable")
)

// ObservationError reports a failure to attach or detach an observer.
type ObservationError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *ObservationError) Error() string {
	return fmt.Sprintf("%s %s observer: %v", e.Op, e.Kind, e.Err)
}

func (e *ObservationError) Unwrap() error { return e.Err }
