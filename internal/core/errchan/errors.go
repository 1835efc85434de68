package errchan

import (
	"errors"
	"fmt"
)

var (
	ErrChannelClosed = errors.New("error channel is closed")
	ErrNilHandler    = errors.New("listener handler is nil")
	ErrForeignSub    = errors.New("subscription does not belong to this channel")
)

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
