package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/guidoenr/freebee/internal/frame"
)

// Stream measures a Source at a fixed interval and yields the resulting
// messages one at a time.
type Stream struct {
	src      Source
	analyzer *Analyzer
	interval time.Duration
	combine  bool

	ticker  *time.Ticker
	last    time.Time
	pending []frame.Message
}

// NewStream measures src every interval. With combine set the spectrum and
// level of one measurement share a message; otherwise they are yielded as
// two messages.
func NewStream(src Source, analyzer *Analyzer, interval time.Duration, combine bool) *Stream {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Stream{
		src:      src,
		analyzer: analyzer,
		interval: interval,
		combine:  combine,
	}
}

// Next blocks until the next message is due. It returns ctx.Err() once ctx
// is done and the source error once the source stops.
func (s *Stream) Next(ctx context.Context) (frame.Message, error) {
	if len(s.pending) > 0 {
		msg := s.pending[0]
		s.pending = s.pending[1:]
		return msg, nil
	}
	if s.ticker == nil {
		s.ticker = time.NewTicker(s.interval)
		s.last = time.Now()
	}

	select {
	case <-ctx.Done():
		return frame.Message{}, ctx.Err()
	case now := <-s.ticker.C:
		if err := s.src.Err(); err != nil {
			return frame.Message{}, fmt.Errorf("audio source: %w", err)
		}
		delta := now.Sub(s.last).Seconds()
		if delta <= 0 {
			delta = s.interval.Seconds()
		}
		s.last = now

		spectrum, level := s.analyzer.Measure(s.src.Samples(), delta)
		if s.combine {
			return frame.Message{Spectrum: &spectrum, Level: &level}, nil
		}
		s.pending = append(s.pending, frame.Message{Level: &level})
		return frame.Message{Spectrum: &spectrum}, nil
	}
}

// Close stops the ticker. The source is owned by the caller.
func (s *Stream) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	return nil
}
