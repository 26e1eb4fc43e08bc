// Package frame defines the measurement frames exchanged between the
// producer and the display.
package frame

const (
	// Bands is the number of spectrum bands per channel.
	Bands = 16
	// Channels is the number of audio channels measured.
	Channels = 2
	// Threshold is the default magnitude floor in dB.
	Threshold = -100.0
)

// Spectrum carries per-channel, per-band magnitudes in dB.
type Spectrum struct {
	Magnitude [Channels][Bands]float64
}

// Level carries per-channel peak and decay loudness in dB.
type Level struct {
	Peak  [Channels]float64
	Decay [Channels]float64
}

// Message is the unit carried by one datagram. Either field may be nil.
type Message struct {
	Spectrum *Spectrum
	Level    *Level
}

// Empty reports whether the message carries no measurement.
func (m Message) Empty() bool {
	return m.Spectrum == nil && m.Level == nil
}

// BandMeans returns the arithmetic mean of every band across channels.
func (s Spectrum) BandMeans() [Bands]float64 {
	var out [Bands]float64
	for band := 0; band < Bands; band++ {
		sum := 0.0
		for ch := 0; ch < Channels; ch++ {
			sum += s.Magnitude[ch][band]
		}
		out[band] = sum / Channels
	}
	return out
}

// MeanPeak returns the average peak across channels.
func (l Level) MeanPeak() float64 {
	sum := 0.0
	for _, p := range l.Peak {
		sum += p
	}
	return sum / Channels
}
