package analyzer

const (
	// peakTTL is how long a decay value holds before falling.
	peakTTL = 0.3
	// peakFalloff is the decay rate in dB per second.
	peakFalloff = 10.0
)

// levelMeter tracks the decaying peak of one channel.
type levelMeter struct {
	floor float64
	decay float64
	held  float64
}

func newLevelMeter(floor float64) levelMeter {
	return levelMeter{floor: floor, decay: floor}
}

// update folds a new peak in and returns the decay value.
func (m *levelMeter) update(peak, deltaTime float64) float64 {
	if deltaTime < 0 {
		deltaTime = 0
	}
	if peak >= m.decay {
		m.decay = peak
		m.held = 0
		return m.decay
	}

	m.held += deltaTime
	if over := m.held - peakTTL; over > 0 {
		fall := peakFalloff * min(over, deltaTime)
		m.decay = clamp(m.decay-fall, peak, m.decay)
	}
	if m.decay < m.floor {
		m.decay = m.floor
	}
	return m.decay
}
