package transport

import (
	"context"
	"errors"
	"net"
	"sync"
)

// ErrBufferFull is reported when a pipe drops a datagram.
var ErrBufferFull = errors.New("buffer full")

// Pipe returns an in-process sender/receiver pair holding up to buffer
// datagrams. Like UDP it never blocks the sender: datagrams that do not fit
// are dropped.
func Pipe(buffer int) (*PipeSender, *PipeReceiver) {
	if buffer <= 0 {
		buffer = 1
	}
	p := &pipe{
		ch:     make(chan []byte, buffer),
		closed: make(chan struct{}),
	}
	return &PipeSender{p: p}, &PipeReceiver{p: p}
}

type pipe struct {
	ch        chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func (p *pipe) close() {
	p.closeOnce.Do(func() { close(p.closed) })
}

// PipeSender is the sending half of Pipe.
type PipeSender struct {
	p *pipe
}

// Send enqueues a copy of data or drops it when the pipe is full.
func (s *PipeSender) Send(data []byte) error {
	select {
	case <-s.p.closed:
		return &Error{Op: "send", Err: net.ErrClosed}
	default:
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	select {
	case s.p.ch <- cp:
		return nil
	default:
		return &Error{Op: "send", Err: ErrBufferFull}
	}
}

// Close closes the pipe for both halves.
func (s *PipeSender) Close() error {
	s.p.close()
	return nil
}

// PipeReceiver is the receiving half of Pipe.
type PipeReceiver struct {
	p *pipe
}

// Receive returns the next queued datagram.
func (r *PipeReceiver) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case data := <-r.p.ch:
		return data, nil
	case <-r.p.closed:
		return nil, &Error{Op: "receive", Err: net.ErrClosed}
	}
}

// Close closes the pipe for both halves.
func (r *PipeReceiver) Close() error {
	r.p.close()
	return nil
}
