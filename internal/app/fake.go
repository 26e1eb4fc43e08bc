package app

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const syntheticWindow = 4096

// syntheticSource generates a stereo test signal: three drifting tones with
// slowly pulsing amplitudes and a little noise. It stands in for real audio
// when no hardware is available.
type syntheticSource struct {
	sampleRate float64
	start      time.Time
	now        func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func newSyntheticSource(sampleRate float64) *syntheticSource {
	if sampleRate <= 0 {
		sampleRate = 44_100
	}
	return &syntheticSource{
		sampleRate: sampleRate,
		start:      time.Now(),
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *syntheticSource) SampleRate() float64 { return s.sampleRate }

// Samples renders the window ending at the current time.
func (s *syntheticSource) Samples() [][]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := s.now().Sub(s.start).Seconds()

	bass := 0.5 + 0.5*math.Sin(elapsed*0.7)
	mid := 0.4 + 0.4*math.Sin(elapsed*1.2+0.5)
	treble := 0.3 + 0.3*math.Sin(elapsed*2.1+1.0)

	bassHz := 80 + 40*math.Sin(elapsed*0.3)
	midHz := 1200 + 600*math.Sin(elapsed*0.2)
	trebleHz := 9000 + 3000*math.Sin(elapsed*0.15)

	out := [][]float32{make([]float32, syntheticWindow), make([]float32, syntheticWindow)}
	t0 := elapsed - float64(syntheticWindow)/s.sampleRate
	for i := 0; i < syntheticWindow; i++ {
		t := t0 + float64(i)/s.sampleRate
		v := bass*math.Sin(2*math.Pi*bassHz*t) +
			mid*math.Sin(2*math.Pi*midHz*t) +
			treble*math.Sin(2*math.Pi*trebleHz*t)
		v /= 3
		// The right channel lags slightly so the two differ.
		r := bass*math.Sin(2*math.Pi*bassHz*t-0.4) +
			mid*math.Sin(2*math.Pi*midHz*t-0.4) +
			treble*0.8*math.Sin(2*math.Pi*trebleHz*t-0.4)
		r /= 3
		out[0][i] = float32(v + (s.rng.Float64()-0.5)*0.01)
		out[1][i] = float32(r + (s.rng.Float64()-0.5)*0.01)
	}
	return out
}

func (s *syntheticSource) Err() error   { return nil }
func (s *syntheticSource) Close() error { return nil }
