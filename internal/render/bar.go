// Package render turns normalized intensities and level frames into the
// discrete primitives the display understands: glyph cells, zone colors and
// LED counts.
package render

import (
	"math"

	"github.com/guidoenr/freebee/internal/frame"
	"github.com/guidoenr/freebee/internal/normalize"
)

const (
	// Rows is the number of stacked cells per column.
	Rows = 3
	// SubLevels is the number of fill steps per cell.
	SubLevels = 8
	// MaxUnits is the fill of a fully lit column.
	MaxUnits = Rows * SubLevels
)

// FillPattern holds the fill units of every column, each in [0, MaxUnits].
type FillPattern [frame.Bands]int

// Column lists the glyphs of one column from the bottom cell upwards.
type Column [Rows]Glyph

// BarRenderer converts intensities into partially filled columns.
type BarRenderer struct {
	orientation Orientation
}

// NewBarRenderer creates a BarRenderer bound to one glyph orientation.
func NewBarRenderer(o Orientation) *BarRenderer {
	return &BarRenderer{orientation: o}
}

// Orientation returns the glyph orientation the renderer was built with.
func (b *BarRenderer) Orientation() Orientation { return b.orientation }

// Fill converts every band intensity into fill units.
func (b *BarRenderer) Fill(in normalize.Intensity) FillPattern {
	var out FillPattern
	for band, v := range in {
		out[band] = Units(v)
	}
	return out
}

// Units rounds an intensity onto the [0, MaxUnits] fill scale.
func Units(intensity float64) int {
	if math.IsNaN(intensity) {
		return 0
	}
	return clampInt(int(math.RoundToEven(intensity*MaxUnits)), 0, MaxUnits)
}

// Column lays units out over the cells of one column.
func (b *BarRenderer) Column(units int) Column {
	units = clampInt(units, 0, MaxUnits)
	full := units / SubLevels
	fraction := units % SubLevels

	var col Column
	for row := range col {
		switch {
		case row < full:
			col[row] = Full
		case row == full && fraction > 0:
			col[row] = Glyph(fraction - 1)
		default:
			col[row] = Blank
		}
	}
	return col
}

// Columns renders every column of a fill pattern.
func (b *BarRenderer) Columns(p FillPattern) [frame.Bands]Column {
	var out [frame.Bands]Column
	for band, units := range p {
		out[band] = b.Column(units)
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
