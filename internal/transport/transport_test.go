package transport

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestPipeDeliversDatagramsInOrder(t *testing.T) {
	send, recv := Pipe(4)
	defer send.Close()

	for _, msg := range []string{"a", "bb", "ccc"} {
		if err := send.Send([]byte(msg)); err != nil {
			t.Fatalf("send %q: %v", msg, err)
		}
	}
	ctx := context.Background()
	for _, want := range []string{"a", "bb", "ccc"} {
		got, err := recv.Receive(ctx)
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		if string(got) != want {
			t.Fatalf("received=%q want=%q", got, want)
		}
	}
}

func TestPipeCopiesPayload(t *testing.T) {
	send, recv := Pipe(1)
	buf := []byte("abc")
	if err := send.Send(buf); err != nil {
		t.Fatalf("send: %v", err)
	}
	buf[0] = 'x'
	got, err := recv.Receive(context.Background())
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("payload aliased sender buffer: %q", got)
	}
}

func TestPipeDropsWhenFull(t *testing.T) {
	send, _ := Pipe(1)
	if err := send.Send([]byte("first")); err != nil {
		t.Fatalf("send: %v", err)
	}
	err := send.Send([]byte("second"))
	var terr *Error
	if !errors.As(err, &terr) || terr.Op != "send" {
		t.Fatalf("expected *Error on full pipe, got %v", err)
	}
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
}

func TestPipeReceiveHonoursCancellation(t *testing.T) {
	_, recv := Pipe(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := recv.Receive(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPipeClosed(t *testing.T) {
	send, recv := Pipe(1)
	recv.Close()
	if _, err := recv.Receive(context.Background()); !errors.Is(err, net.ErrClosed) {
		t.Fatalf("expected net.ErrClosed, got %v", err)
	}
	if err := send.Send([]byte("x")); !errors.Is(err, net.ErrClosed) {
		t.Fatalf("expected net.ErrClosed on send, got %v", err)
	}
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{Op: "receive", Err: errors.New("boom")}
	if got := err.Error(); got != "transport: receive: boom" {
		t.Fatalf("error=%q", got)
	}
}

func TestConfigRejectsUnicastGroup(t *testing.T) {
	if _, err := Dial(Config{Group: "10.0.0.1"}); err == nil {
		t.Fatalf("expected error for unicast group")
	}
	if _, err := Listen(Config{Group: "not-an-ip"}); err == nil {
		t.Fatalf("expected error for invalid group")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Group != DefaultGroup || cfg.Port != DefaultPort || cfg.TTL != DefaultTTL {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	addr, err := cfg.groupAddr()
	if err != nil {
		t.Fatalf("group addr: %v", err)
	}
	if addr.String() != "224.1.1.1:5007" {
		t.Fatalf("group addr=%s", addr)
	}
}
