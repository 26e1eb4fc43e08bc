// Package transport moves encoded messages between the producer and the
// display as best-effort datagrams. Nothing is acknowledged, ordered or
// retried.
package transport

import (
	"context"
	"fmt"
)

// Sender publishes one datagram per call without waiting for receivers.
type Sender interface {
	Send(data []byte) error
	Close() error
}

// Receiver yields one complete datagram per call.
type Receiver interface {
	// Receive blocks until a datagram arrives or ctx is done, in which case
	// it returns ctx.Err().
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Error reports a failed transport operation. Callers are expected to log it
// and keep their loop running.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
