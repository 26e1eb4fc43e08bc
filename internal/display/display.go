// Package display drives the character grid, backlight zones and level LEDs.
package display

import (
	"errors"

	"github.com/guidoenr/freebee/internal/frame"
	"github.com/guidoenr/freebee/internal/render"
)

const (
	// Columns is the width of the character grid.
	Columns = frame.Bands
	// Rows is the height of the character grid.
	Rows = render.Rows
)

// ErrClosed is returned by Flush once the user closed the display.
var ErrClosed = errors.New("display closed")

// Display is the hardware capability the painter draws on. Rows are
// numbered from the top.
type Display interface {
	ConfigureGlyphSet(o render.Orientation) error
	SetGlyph(column, row int, g render.Glyph)
	SetZoneColor(zone int, c render.RGB)
	SetLevelLed(index int, on bool)
	// Flush presents everything set since the previous Flush.
	Flush() error
	Close() error
}

// Tee fans every call out to all displays.
type Tee []Display

func (t Tee) ConfigureGlyphSet(o render.Orientation) error {
	var errs []error
	for _, d := range t {
		errs = append(errs, d.ConfigureGlyphSet(o))
	}
	return errors.Join(errs...)
}

func (t Tee) SetGlyph(column, row int, g render.Glyph) {
	for _, d := range t {
		d.SetGlyph(column, row, g)
	}
}

func (t Tee) SetZoneColor(zone int, c render.RGB) {
	for _, d := range t {
		d.SetZoneColor(zone, c)
	}
}

func (t Tee) SetLevelLed(index int, on bool) {
	for _, d := range t {
		d.SetLevelLed(index, on)
	}
}

func (t Tee) Flush() error {
	var errs []error
	for _, d := range t {
		errs = append(errs, d.Flush())
	}
	return errors.Join(errs...)
}

func (t Tee) Close() error {
	var errs []error
	for _, d := range t {
		errs = append(errs, d.Close())
	}
	return errors.Join(errs...)
}
