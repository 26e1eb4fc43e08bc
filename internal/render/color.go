package render

import (
	"math"

	"github.com/guidoenr/freebee/internal/frame"
	"github.com/guidoenr/freebee/internal/normalize"
)

// RGB is a backlight color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Red     = RGB{255, 0, 0}
	Yellow  = RGB{255, 255, 0}
	Green   = RGB{0, 255, 0}
	Cyan    = RGB{0, 255, 255}
	Blue    = RGB{0, 0, 255}
	Magenta = RGB{255, 0, 255}
)

// Zone is a group of adjacent bands sharing one backlight.
type Zone struct {
	Name  string
	Start int
	End   int
	Hue   RGB
}

// ZoneCount is the number of backlight zones.
const ZoneCount = 6

// Zones covers all bands from left to right.
var Zones = [ZoneCount]Zone{
	{Name: "red", Start: 0, End: 3, Hue: Red},
	{Name: "yellow", Start: 3, End: 5, Hue: Yellow},
	{Name: "green", Start: 5, End: 8, Hue: Green},
	{Name: "cyan", Start: 8, End: 11, Hue: Cyan},
	{Name: "blue", Start: 11, End: 13, Hue: Blue},
	{Name: "magenta", Start: 13, End: frame.Bands, Hue: Magenta},
}

// ZoneOf returns the zone index a band belongs to, or -1.
func ZoneOf(band int) int {
	for i, z := range Zones {
		if band >= z.Start && band < z.End {
			return i
		}
	}
	return -1
}

// ColorRenderer derives zone colors from band intensities.
type ColorRenderer struct{}

// Brightness returns the mean intensity of every zone.
func (ColorRenderer) Brightness(in normalize.Intensity) [ZoneCount]float64 {
	var out [ZoneCount]float64
	for i, z := range Zones {
		sum := 0.0
		for _, v := range in[z.Start:z.End] {
			sum += v
		}
		out[i] = sum / float64(z.End-z.Start)
	}
	return out
}

// Render scales every zone hue by its brightness.
func (c ColorRenderer) Render(in normalize.Intensity) [ZoneCount]RGB {
	var out [ZoneCount]RGB
	for i, b := range c.Brightness(in) {
		out[i] = Zones[i].Hue.Scale(b)
	}
	return out
}

// Scale multiplies every channel by brightness, clamped to [0, 1].
func (c RGB) Scale(brightness float64) RGB {
	if math.IsNaN(brightness) || brightness < 0 {
		brightness = 0
	}
	if brightness > 1 {
		brightness = 1
	}
	return RGB{
		R: scaleChannel(c.R, brightness),
		G: scaleChannel(c.G, brightness),
		B: scaleChannel(c.B, brightness),
	}
}

func scaleChannel(v uint8, brightness float64) uint8 {
	return uint8(clampInt(int(math.RoundToEven(float64(v)*brightness)), 0, 255))
}
