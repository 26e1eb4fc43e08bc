// Package normalize stretches a spectrum frame onto the [0, 1] visual scale.
package normalize

import "github.com/guidoenr/freebee/internal/frame"

// Intensity is the per-band visual intensity of one frame, each value in
// [0, 1]. Values are relative to the frame they came from.
type Intensity [frame.Bands]float64

// Normalize averages each band over the channels and applies a min-max
// stretch. A flat spectrum yields all zeros.
func Normalize(s frame.Spectrum) Intensity {
	means := s.BandMeans()

	lo, hi := means[0], means[0]
	for _, v := range means[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var out Intensity
	span := hi - lo
	if span == 0 {
		return out
	}
	for band, v := range means {
		out[band] = (v - lo) / span
	}
	return out
}
