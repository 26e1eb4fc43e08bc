package render

import (
	"fmt"
	"strings"
)

// Orientation selects which glyph table the display is loaded with.
type Orientation int

const (
	// Normal glyphs fill cells from the bottom pixel row upwards.
	Normal Orientation = iota
	// Flipped glyphs fill from the top, for displays mounted upside down.
	Flipped
)

// ParseOrientation maps a configuration name onto an Orientation.
func ParseOrientation(name string) (Orientation, error) {
	switch strings.ToLower(name) {
	case "", "normal":
		return Normal, nil
	case "flipped", "flip":
		return Flipped, nil
	default:
		return Normal, fmt.Errorf("unknown orientation %q", name)
	}
}

func (o Orientation) String() string {
	if o == Flipped {
		return "flipped"
	}
	return "normal"
}

// Glyph indexes the active glyph table. Index g draws g+1 eighths of fill.
type Glyph int

const (
	// Blank is an unlit cell.
	Blank Glyph = -1
	// Full is the fully lit glyph.
	Full Glyph = SubLevels - 1
)

// GlyphBitmap is an 8-row character bitmap, one byte per pixel row from top
// to bottom. Set bits are lit pixels.
type GlyphBitmap [8]byte

var normalBitmaps = [SubLevels]GlyphBitmap{
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF},
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF},
	{0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF},
	{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF},
	{0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	{0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
}

var flippedBitmaps = [SubLevels]GlyphBitmap{
	{0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00},
	{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
}

var (
	normalRunes  = []rune("▁▂▃▄▅▆▇█")
	flippedRunes = []rune("▔🮂🮃▀🮄🮅🮆█")
)

// Bitmaps returns the character bitmaps for o.
func Bitmaps(o Orientation) [SubLevels]GlyphBitmap {
	if o == Flipped {
		return flippedBitmaps
	}
	return normalBitmaps
}

// Rune returns a terminal approximation of glyph g for o.
func Rune(o Orientation, g Glyph) rune {
	if g < 0 || int(g) >= SubLevels {
		return ' '
	}
	if o == Flipped {
		return flippedRunes[g]
	}
	return normalRunes[g]
}

// OrientationNames returns all orientation identifiers.
func OrientationNames() []string {
	return []string{Normal.String(), Flipped.String()}
}
