package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/guidoenr/freebee/internal/display"
	"github.com/guidoenr/freebee/internal/normalize"
	"github.com/guidoenr/freebee/internal/params"
	"github.com/guidoenr/freebee/internal/render"
	"github.com/guidoenr/freebee/internal/transport"
	"github.com/guidoenr/freebee/internal/web"
	"github.com/guidoenr/freebee/internal/wire"
)

// PanelConfig configures the display side. Receiver is built from Params
// when nil; Display is built from Params.Backend when nil.
type PanelConfig struct {
	Params   params.Parameters
	Log      *slog.Logger
	Receiver transport.Receiver
	Display  display.Display
	// Keys enables the q/Esc quit keys when stdin is a terminal.
	Keys bool
}

// Panel receives messages and paints them on a display.
type Panel struct {
	log      *slog.Logger
	receiver transport.Receiver
	display  display.Display
	state    *display.State
	painter  *display.Painter
	monitor  *web.Server
	addr     string
	prof     *profiler
	keys     bool

	received  atomic.Uint64
	malformed atomic.Uint64
	painted   atomic.Uint64
}

// NewPanel opens the receiver and the display and loads the glyph set. Any
// failure is an *InitError and leaves nothing open.
func NewPanel(cfg PanelConfig) (*Panel, error) {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	p := &Panel{
		log:      cfg.Log,
		receiver: cfg.Receiver,
		state:    display.NewState(),
		addr:     cfg.Params.Monitor,
		keys:     cfg.Keys,
	}

	if p.receiver == nil {
		r, err := transport.Listen(cfg.Params.TransportConfig())
		if err != nil {
			return nil, &InitError{Stage: "transport", Err: err}
		}
		p.receiver = r
		p.log.Info("listening", "group", cfg.Params.Group, "port", cfg.Params.Port)
	}

	d := cfg.Display
	if d == nil {
		built, err := openBackend(cfg.Params)
		if err != nil {
			_ = p.Close()
			return nil, &InitError{Stage: "display", Err: err}
		}
		d = built
	}
	if d != nil {
		p.display = display.Tee{d, p.state}
	} else {
		p.display = p.state
	}

	painter, err := display.NewPainter(p.display, render.NewBarRenderer(cfg.Params.GlyphOrientation()))
	if err != nil {
		_ = p.Close()
		return nil, &InitError{Stage: "glyph set", Err: err}
	}
	p.painter = painter

	if p.addr != "" {
		p.monitor = web.NewServer(p, p.log, 0)
	}
	p.prof = newProfiler(cfg.Params.Profile, p.log)
	return p, nil
}

// openBackend returns nil for the headless backend.
func openBackend(p params.Parameters) (display.Display, error) {
	switch p.Backend {
	case "terminal":
		return display.NewTerminal(display.TerminalConfig{Out: os.Stdout, NoColor: p.NoColor}), nil
	case "sdl":
		return display.NewSDL(display.SDLConfig{})
	case "headless":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", p.Backend)
	}
}

// Run paints every received datagram until ctx is done, the user quits or
// the receiver is closed. Malformed datagrams and transient receive errors
// are logged; the display keeps its previous contents.
func (p *Panel) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	defer wg.Wait()

	if p.keys && stdinIsTerminal() {
		if quit := startInputListener(ctx, p.log); quit != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				select {
				case <-quit:
					cancel()
				case <-ctx.Done():
				}
			}()
		}
	}
	if p.monitor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.monitor.Run(ctx, p.addr); err != nil {
				p.log.Warn("monitor stopped", "error", err)
			}
		}()
	}

	for {
		data, err := p.receiver.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.log.Info("display stopped", "received", p.received.Load(), "malformed", p.malformed.Load())
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("receive: %w", err)
			}
			p.log.Warn("receive failed", "error", err)
			continue
		}

		if err := p.handle(data); err != nil {
			if errors.Is(err, display.ErrClosed) {
				p.log.Info("display window closed")
				return nil
			}
			p.log.Warn("dropping datagram", "error", err, "bytes", len(data))
		}
	}
}

// handle decodes one datagram and paints it. The frame is presented only
// after every key it carries has been painted.
func (p *Panel) handle(data []byte) error {
	p.received.Add(1)
	p.prof.begin(len(data))

	msg, err := wire.Decode(data)
	if err != nil {
		p.malformed.Add(1)
		return err
	}
	p.prof.mark(stageDecode)
	if msg.Empty() {
		return nil
	}

	if msg.Spectrum != nil {
		p.painter.PaintSpectrum(normalize.Normalize(*msg.Spectrum))
	}
	if msg.Level != nil {
		p.painter.PaintLevel(*msg.Level)
	}
	p.prof.mark(stageRender)

	if err := p.painter.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	p.prof.mark(stageFlush)
	p.prof.end()
	p.painted.Add(1)
	return nil
}

// Snapshot returns the last presented frame.
func (p *Panel) Snapshot() display.Snapshot {
	return p.state.Snapshot()
}

// Stats returns the datagram counters.
func (p *Panel) Stats() web.Stats {
	return web.Stats{
		Received:  p.received.Load(),
		Malformed: p.malformed.Load(),
		Painted:   p.painted.Load(),
	}
}

// Close releases the display, the receiver and the profiler.
func (p *Panel) Close() error {
	var errs []error
	if p.display != nil {
		errs = append(errs, p.display.Close())
	}
	if p.receiver != nil {
		errs = append(errs, p.receiver.Close())
	}
	errs = append(errs, p.prof.Close())
	return errors.Join(errs...)
}
