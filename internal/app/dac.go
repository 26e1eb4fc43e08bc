package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/guidoenr/freebee/internal/analyzer"
	"github.com/guidoenr/freebee/internal/audio"
	"github.com/guidoenr/freebee/internal/params"
	"github.com/guidoenr/freebee/internal/transport"
	"github.com/guidoenr/freebee/internal/wire"
)

// DACConfig configures the producer. Analyzer and Sender are built from
// Params when nil.
type DACConfig struct {
	Params   params.Parameters
	Log      *slog.Logger
	Analyzer Analyzer
	Sender   transport.Sender
}

// DAC measures audio and publishes one datagram per message.
type DAC struct {
	log      *slog.Logger
	analyzer Analyzer
	sender   transport.Sender
	source   analyzer.Source
	portaud  bool

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewDAC sets up the audio source, the analyzer and the sender. Any failure
// is an *InitError and leaves nothing open.
func NewDAC(cfg DACConfig) (*DAC, error) {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	d := &DAC{
		log:      cfg.Log,
		analyzer: cfg.Analyzer,
		sender:   cfg.Sender,
	}

	if d.analyzer == nil {
		if err := d.openAnalyzer(cfg.Params); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	if d.sender == nil {
		sender, err := transport.Dial(cfg.Params.TransportConfig())
		if err != nil {
			_ = d.Close()
			return nil, &InitError{Stage: "transport", Err: err}
		}
		d.sender = sender
		d.log.Info("publishing", "addr", sender.Addr(), "ttl", cfg.Params.TTL)
	}
	return d, nil
}

func (d *DAC) openAnalyzer(p params.Parameters) error {
	var src analyzer.Source
	switch p.Source {
	case "gst":
		fifo, err := audio.NewFifoSource(audio.FifoConfig{
			Path:       p.Fifo,
			SampleRate: int(p.SampleRate),
			Channels:   2,
			BufferSize: p.FFTSize * 2,
			Log:        d.log,
		})
		if err != nil {
			return &InitError{Stage: "gstreamer", Err: err}
		}
		src = fifo
	case "portaudio":
		if err := audio.Initialize(); err != nil {
			return &InitError{Stage: "portaudio", Err: err}
		}
		d.portaud = true
		capture, err := audio.NewCapture(audio.Config{
			DeviceName: p.Device,
			BufferSize: p.FFTSize * 2,
			Channels:   2,
		})
		if err != nil {
			return &InitError{Stage: "audio capture", Err: err}
		}
		if info := capture.Device(); info != nil {
			d.log.Info("audio capture started", "device", info.Name, "sample_rate", capture.SampleRate())
		}
		src = capture
	case "synthetic":
		d.log.Info("using synthetic generator")
		src = newSyntheticSource(p.SampleRate)
	default:
		return &InitError{Stage: "audio", Err: fmt.Errorf("unknown source %q", p.Source)}
	}
	d.source = src

	a := analyzer.New(analyzer.Config{
		SampleRate:  src.SampleRate(),
		Threshold:   p.Threshold,
		FFTSize:     p.FFTSize,
		LevelWindow: int(src.SampleRate() * p.Interval.Seconds()),
	})
	d.analyzer = analyzer.NewStream(src, a, p.Interval, p.Combine)
	return nil
}

// Run publishes messages until ctx is done, which returns nil. Encode and
// send failures are logged and skipped. A failing audio source ends the loop
// with its error.
func (d *DAC) Run(ctx context.Context) error {
	for {
		msg, err := d.analyzer.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				d.log.Info("producer stopped", "sent", d.sent.Load(), "dropped", d.dropped.Load())
				return nil
			}
			return err
		}

		data, err := wire.Encode(msg)
		if err != nil {
			d.dropped.Add(1)
			d.log.Warn("dropping message", "error", err)
			continue
		}
		if err := d.sender.Send(data); err != nil {
			d.dropped.Add(1)
			d.log.Warn("send failed", "error", err)
			continue
		}
		d.sent.Add(1)
		d.log.Debug("sent", "bytes", len(data))
	}
}

// Sent reports how many datagrams were handed to the transport.
func (d *DAC) Sent() uint64 { return d.sent.Load() }

// Close releases the analyzer, the audio source and the sender.
func (d *DAC) Close() error {
	var errs []error
	if d.analyzer != nil {
		errs = append(errs, d.analyzer.Close())
	}
	if d.source != nil {
		errs = append(errs, d.source.Close())
	}
	if d.portaud {
		audio.Terminate()
	}
	if d.sender != nil {
		errs = append(errs, d.sender.Close())
	}
	return errors.Join(errs...)
}
