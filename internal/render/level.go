package render

import (
	"math"

	"github.com/guidoenr/freebee/internal/frame"
)

const (
	// LEDs is the number of LEDs on the level bar.
	LEDs = 6

	levelFloor = -100.0
	levelSpan  = 100.0
)

// LevelRenderer converts level frames into a lit LED count.
type LevelRenderer struct{}

// Count maps the mean peak from [-100, 0] dB onto [0, LEDs] lit LEDs.
// Values outside the range are clamped.
func (LevelRenderer) Count(l frame.Level) int {
	avg := l.MeanPeak()
	if math.IsNaN(avg) {
		return 0
	}
	n := math.RoundToEven((avg - levelFloor) / levelSpan * LEDs)
	if n < 0 {
		return 0
	}
	if n > LEDs {
		return LEDs
	}
	return int(n)
}

// States returns the on/off state of every LED for count lit LEDs, counted
// from the last LED index downwards as the bar is wired.
func (LevelRenderer) States(count int) [LEDs]bool {
	count = clampInt(count, 0, LEDs)
	var out [LEDs]bool
	for i := 0; i < count; i++ {
		out[LEDs-1-i] = true
	}
	return out
}
