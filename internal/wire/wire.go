// Package wire encodes measurement messages as the compact JSON objects
// carried in a single datagram.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/guidoenr/freebee/internal/frame"
)

// MaxDatagramSize is the largest encoded message the display accepts.
const MaxDatagramSize = 1024

var (
	// ErrMalformedMessage reports input that is not a well-formed message.
	ErrMalformedMessage = errors.New("wire: malformed message")
	// ErrOversizeMessage reports an encoded message above the datagram limit.
	ErrOversizeMessage = errors.New("wire: oversize message")
)

type spectrumOut struct {
	Magnitude [frame.Channels][frame.Bands]int64 `json:"magnitude"`
}

type levelOut struct {
	Peak  [frame.Channels]int64 `json:"peak"`
	Decay [frame.Channels]int64 `json:"decay"`
}

type messageOut struct {
	Spectrum *spectrumOut `json:"spectrum,omitempty"`
	Level    *levelOut    `json:"level,omitempty"`
}

type spectrumIn struct {
	Magnitude [][]float64 `json:"magnitude"`
}

type levelIn struct {
	Peak  []float64 `json:"peak"`
	Decay []float64 `json:"decay"`
}

type messageIn struct {
	Spectrum *spectrumIn `json:"spectrum"`
	Level    *levelIn    `json:"level"`
}

// Encode serializes m, limited to MaxDatagramSize bytes.
func Encode(m frame.Message) ([]byte, error) {
	return EncodeLimit(m, MaxDatagramSize)
}

// EncodeLimit serializes m and fails with ErrOversizeMessage when the result
// is longer than limit bytes. A limit <= 0 disables the check.
func EncodeLimit(m frame.Message, limit int) ([]byte, error) {
	var out messageOut
	if m.Spectrum != nil {
		out.Spectrum = &spectrumOut{}
		for ch := range m.Spectrum.Magnitude {
			for band, v := range m.Spectrum.Magnitude[ch] {
				n, err := roundDB(v)
				if err != nil {
					return nil, fmt.Errorf("spectrum channel %d band %d: %w", ch, band, err)
				}
				out.Spectrum.Magnitude[ch][band] = n
			}
		}
	}
	if m.Level != nil {
		out.Level = &levelOut{}
		for ch := 0; ch < frame.Channels; ch++ {
			peak, err := roundDB(m.Level.Peak[ch])
			if err != nil {
				return nil, fmt.Errorf("level peak channel %d: %w", ch, err)
			}
			decay, err := roundDB(m.Level.Decay[ch])
			if err != nil {
				return nil, fmt.Errorf("level decay channel %d: %w", ch, err)
			}
			out.Level.Peak[ch] = peak
			out.Level.Decay[ch] = decay
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	if limit > 0 && len(data) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrOversizeMessage, len(data), limit)
	}
	return data, nil
}

// Decode parses one datagram. Shapes are validated against frame.Channels
// and frame.Bands.
func Decode(data []byte) (frame.Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return frame.Message{}, fmt.Errorf("%w: not a JSON object", ErrMalformedMessage)
	}

	var in messageIn
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return frame.Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	var msg frame.Message
	if in.Spectrum != nil {
		spectrum, err := decodeSpectrum(in.Spectrum)
		if err != nil {
			return frame.Message{}, err
		}
		msg.Spectrum = spectrum
	}
	if in.Level != nil {
		level, err := decodeLevel(in.Level)
		if err != nil {
			return frame.Message{}, err
		}
		msg.Level = level
	}
	return msg, nil
}

func decodeSpectrum(in *spectrumIn) (*frame.Spectrum, error) {
	if in.Magnitude == nil {
		return nil, fmt.Errorf("%w: spectrum without magnitude", ErrMalformedMessage)
	}
	if len(in.Magnitude) != frame.Channels {
		return nil, fmt.Errorf("%w: magnitude has %d channels, want %d", ErrMalformedMessage, len(in.Magnitude), frame.Channels)
	}
	out := &frame.Spectrum{}
	for ch, bands := range in.Magnitude {
		if len(bands) != frame.Bands {
			return nil, fmt.Errorf("%w: magnitude channel %d has %d bands, want %d", ErrMalformedMessage, ch, len(bands), frame.Bands)
		}
		copy(out.Magnitude[ch][:], bands)
	}
	return out, nil
}

func decodeLevel(in *levelIn) (*frame.Level, error) {
	if in.Peak == nil || in.Decay == nil {
		return nil, fmt.Errorf("%w: level without peak or decay", ErrMalformedMessage)
	}
	if len(in.Peak) != len(in.Decay) {
		return nil, fmt.Errorf("%w: %d peaks but %d decays", ErrMalformedMessage, len(in.Peak), len(in.Decay))
	}
	if len(in.Peak) != frame.Channels {
		return nil, fmt.Errorf("%w: level has %d channels, want %d", ErrMalformedMessage, len(in.Peak), frame.Channels)
	}
	out := &frame.Level{}
	copy(out.Peak[:], in.Peak)
	copy(out.Decay[:], in.Decay)
	return out, nil
}

// roundDB rounds half away from zero.
func roundDB(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite value %v", ErrMalformedMessage, v)
	}
	r := math.Round(v)
	if r < math.MinInt64 || r >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: value %v out of range", ErrMalformedMessage, v)
	}
	return int64(r), nil
}
