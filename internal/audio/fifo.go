package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// ErrEndOfStream is reported once the fifo writer goes away.
var ErrEndOfStream = errors.New("audio: end of stream")

// FifoConfig describes the raw PCM stream written to the fifo. The format
// is signed 16 bit little-endian, interleaved.
type FifoConfig struct {
	Path       string
	SampleRate int
	Channels   int
	BufferSize int
	Log        *slog.Logger
}

// FifoSource reads raw PCM from a named pipe through a GStreamer pipeline
// and keeps the latest samples of every channel.
type FifoSource struct {
	cfg      FifoConfig
	log      *slog.Logger
	pipeline *gst.Pipeline
	ring     *ring

	mu  sync.Mutex
	err error

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func pipelineDescription(cfg FifoConfig) string {
	return fmt.Sprintf("filesrc location=%q ! "+
		"rawaudioparse use-sink-caps=false format=pcm pcm-format=s16le sample-rate=%d num-channels=%d ! "+
		"audioconvert ! audio/x-raw,format=F32LE,layout=interleaved,channels=%d ! "+
		"appsink name=sink sync=false",
		cfg.Path, cfg.SampleRate, cfg.Channels, cfg.Channels)
}

// NewFifoSource builds the pipeline and sets it playing.
func NewFifoSource(cfg FifoConfig) (*FifoSource, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("fifo path is required")
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	gst.Init(nil)

	pipeline, err := gst.NewPipelineFromString(pipelineDescription(cfg))
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	elem, err := pipeline.GetElementByName("sink")
	if err != nil {
		return nil, fmt.Errorf("find appsink: %w", err)
	}
	sink := app.SinkFromElement(elem)
	if sink == nil {
		return nil, fmt.Errorf("sink element is not an appsink")
	}

	src := &FifoSource{
		cfg:      cfg,
		log:      cfg.Log,
		pipeline: pipeline,
		ring:     newRing(cfg.Channels, cfg.BufferSize),
		done:     make(chan struct{}),
	}

	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: src.onSample,
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		_ = pipeline.SetState(gst.StateNull)
		return nil, fmt.Errorf("start pipeline: %w", err)
	}

	src.wg.Add(1)
	go src.watchBus()

	src.log.Info("fifo source started", "path", cfg.Path, "sample_rate", cfg.SampleRate, "channels", cfg.Channels)
	return src, nil
}

func (s *FifoSource) onSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	samples := decodeF32LE(mapInfo.Bytes())
	buffer.Unmap()

	s.ring.writeInterleaved(samples)
	return gst.FlowOK
}

// watchBus records the first error or end of stream seen on the bus.
func (s *FifoSource) watchBus() {
	defer s.wg.Done()

	bus := s.pipeline.GetPipelineBus()
	for {
		select {
		case <-s.done:
			return
		default:
		}

		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			s.log.Warn("fifo source reached end of stream", "path", s.cfg.Path)
			s.fail(ErrEndOfStream)
			return
		case gst.MessageError:
			gerr := msg.ParseError()
			s.log.Error("fifo pipeline error", "error", gerr.Error(), "debug", gerr.DebugString())
			s.fail(fmt.Errorf("pipeline: %s", gerr.Error()))
			return
		}
	}
}

func (s *FifoSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// SampleRate returns the configured PCM sample rate.
func (s *FifoSource) SampleRate() float64 {
	return float64(s.cfg.SampleRate)
}

// Samples returns the buffered samples of every channel, oldest first.
func (s *FifoSource) Samples() [][]float32 {
	return s.ring.snapshot()
}

// Err reports a pipeline failure or the end of the stream.
func (s *FifoSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the pipeline and the bus watcher.
func (s *FifoSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		err = s.pipeline.SetState(gst.StateNull)
	})
	return err
}

func decodeF32LE(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
