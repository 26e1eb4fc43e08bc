// Package analyzer measures the per-band spectrum and the peak/decay level of
// a stereo sample window.
package analyzer

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/guidoenr/freebee/internal/frame"
)

// Source provides the most recent audio samples.
type Source interface {
	SampleRate() float64
	// Samples returns one slice per channel, oldest sample first.
	Samples() [][]float32
	// Err reports a failure that stopped the source, or nil.
	Err() error
	Close() error
}

// Analyzer performs FFT-based band analysis and level metering.
type Analyzer struct {
	sampleRate float64
	threshold  float64
	fftSize    int
	levelSpan  int

	meters [frame.Channels]levelMeter

	buffer []complex128
	window []float64
	gain   float64
}

// Config controls Analyzer behavior.
type Config struct {
	SampleRate float64
	Threshold  float64
	FFTSize    int
	// LevelWindow is the number of most recent samples the peak is taken
	// from, normally one measurement interval.
	LevelWindow int
}

// New creates an Analyzer, filling in defaults for zero values.
func New(cfg Config) *Analyzer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44_100
	}
	if cfg.Threshold >= 0 {
		cfg.Threshold = frame.Threshold
	}
	if cfg.FFTSize < 2*frame.Bands {
		cfg.FFTSize = 2048
	}
	cfg.FFTSize = nextPow2(cfg.FFTSize)
	if cfg.LevelWindow <= 0 {
		cfg.LevelWindow = int(cfg.SampleRate / 10)
	}

	a := &Analyzer{
		sampleRate: cfg.SampleRate,
		threshold:  cfg.Threshold,
		fftSize:    cfg.FFTSize,
		levelSpan:  cfg.LevelWindow,
	}
	for ch := range a.meters {
		a.meters[ch] = newLevelMeter(cfg.Threshold)
	}
	a.ensureWorkspace(cfg.FFTSize)
	return a
}

// Threshold returns the magnitude floor in dB.
func (a *Analyzer) Threshold() float64 { return a.threshold }

// Measure computes the spectrum and level of the provided per-channel
// samples. deltaTime is the time since the previous call in seconds and
// drives the decay of the level meter. A mono source is measured on both
// channels.
func (a *Analyzer) Measure(samples [][]float32, deltaTime float64) (frame.Spectrum, frame.Level) {
	var (
		spectrum frame.Spectrum
		level    frame.Level
	)
	for ch := 0; ch < frame.Channels; ch++ {
		var in []float32
		switch {
		case ch < len(samples):
			in = samples[ch]
		case len(samples) > 0:
			in = samples[0]
		}
		spectrum.Magnitude[ch] = a.bands(in)
		peak := a.peakDB(in)
		level.Peak[ch] = peak
		level.Decay[ch] = a.meters[ch].update(peak, deltaTime)
	}
	return spectrum, level
}

// bands returns the mean power of frame.Bands equal-width bands between
// 0 Hz and Nyquist, in dB relative to a full-scale sine.
func (a *Analyzer) bands(samples []float32) [frame.Bands]float64 {
	var out [frame.Bands]float64
	for i := range out {
		out[i] = a.threshold
	}
	if len(samples) == 0 {
		return out
	}

	size := a.fftSize
	buffer := a.buffer[:size]
	offset := len(samples) - size
	for i := 0; i < size; i++ {
		idx := offset + i
		if idx < 0 {
			buffer[i] = 0
			continue
		}
		buffer[i] = complex(float64(samples[idx])*a.window[i], 0)
	}

	fftRes := fft.FFT(buffer)

	half := size / 2
	var (
		sums   [frame.Bands]float64
		counts [frame.Bands]int
	)
	for k := 0; k < half; k++ {
		band := k * frame.Bands / half
		amp := cmag(fftRes[k]) * a.gain
		sums[band] += amp * amp
		counts[band]++
	}
	for band := range out {
		if counts[band] == 0 {
			continue
		}
		out[band] = a.floor(10 * math.Log10(sums[band]/float64(counts[band])))
	}
	return out
}

func (a *Analyzer) peakDB(samples []float32) float64 {
	start := len(samples) - a.levelSpan
	if start < 0 {
		start = 0
	}
	peak := 0.0
	for _, s := range samples[start:] {
		if v := math.Abs(float64(s)); v > peak {
			peak = v
		}
	}
	return a.floor(20 * math.Log10(peak))
}

// floor clamps non-finite and sub-threshold values to the threshold.
func (a *Analyzer) floor(db float64) float64 {
	if math.IsNaN(db) || db < a.threshold {
		return a.threshold
	}
	return db
}

func hann(i, size float64) float64 {
	return 0.5 * (1.0 - math.Cos(2.0*math.Pi*i/size))
}

func (a *Analyzer) ensureWorkspace(size int) {
	if len(a.buffer) != size {
		a.buffer = make([]complex128, size)
	}
	if len(a.window) != size {
		a.window = make([]float64, size)
		sizeF := float64(size)
		sum := 0.0
		for i := range a.window {
			a.window[i] = hann(float64(i), sizeF)
			sum += a.window[i]
		}
		// A full-scale sine peaks at sum/2 in its bin.
		a.gain = 2 / sum
	}
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
