// Package app ties the pieces together into the two long-running programs:
// the DAC, which measures audio and publishes messages, and the panel, which
// receives them and drives a display.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"github.com/guidoenr/freebee/internal/frame"
)

// Analyzer yields measurement messages until ctx is done.
type Analyzer interface {
	Next(ctx context.Context) (frame.Message, error)
	Close() error
}

// InitError reports a failure while setting up a program. It is fatal.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// stdinIsTerminal reports whether key presses can be read from stdin.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// startInputListener closes the returned channel when q, Esc or Ctrl-C is
// pressed. It returns nil when the keyboard cannot be opened.
func startInputListener(ctx context.Context, log *slog.Logger) <-chan struct{} {
	if err := keyboard.Open(); err != nil {
		log.Debug("keyboard input disabled", "error", err)
		return nil
	}

	quit := make(chan struct{})

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			switch {
			case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
				close(quit)
				return
			case char == 'q' || char == 'Q':
				close(quit)
				return
			}
		}
	}()
	return quit
}
