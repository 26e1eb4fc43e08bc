package transport

import (
	"context"
	"errors"
	"testing"
	"time"
)

func listenOrSkip(t *testing.T, cfg Config) *MulticastReceiver {
	t.Helper()
	r, err := Listen(cfg)
	if err != nil {
		t.Skipf("multicast unavailable: %v", err)
	}
	return r
}

func TestListenSharesPort(t *testing.T) {
	cfg := Config{Port: 15017}
	first := listenOrSkip(t, cfg)
	defer first.Close()

	second, err := Listen(cfg)
	if err != nil {
		t.Fatalf("second receiver on port %d: %v", cfg.Port, err)
	}
	defer second.Close()
}

func TestMulticastRoundTrip(t *testing.T) {
	cfg := Config{Port: 15018}
	receivers := []*MulticastReceiver{listenOrSkip(t, cfg), listenOrSkip(t, cfg)}
	for _, r := range receivers {
		defer r.Close()
	}

	sender, err := Dial(cfg)
	if err != nil {
		t.Skipf("multicast sender unavailable: %v", err)
	}
	defer sender.Close()
	if err := sender.Send([]byte(`{}`)); err != nil {
		t.Skipf("multicast send unavailable: %v", err)
	}

	for i, r := range receivers {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		got, err := r.Receive(ctx)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			t.Skipf("no multicast loopback on this host")
		}
		if err != nil {
			t.Fatalf("receiver %d: %v", i, err)
		}
		if string(got) != `{}` {
			t.Fatalf("receiver %d got=%q want={}", i, got)
		}
	}
}

func TestMulticastReceiveHonoursCancellation(t *testing.T) {
	r := listenOrSkip(t, Config{Port: 15019})
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := r.Receive(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("receive err=%v want=%v", err, context.Canceled)
	}
	// One poll interval past the cancellation at most.
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond+2*pollInterval {
		t.Fatalf("receive returned after %s", elapsed)
	}
}
