package display

import (
	"github.com/guidoenr/freebee/internal/frame"
	"github.com/guidoenr/freebee/internal/normalize"
	"github.com/guidoenr/freebee/internal/render"
)

// Painter renders frames and writes the result to a Display.
type Painter struct {
	display Display
	bars    *render.BarRenderer
	colors  render.ColorRenderer
	level   render.LevelRenderer
}

// NewPainter loads the bar renderer's glyph set into d once and returns a
// painter bound to it.
func NewPainter(d Display, bars *render.BarRenderer) (*Painter, error) {
	if err := d.ConfigureGlyphSet(bars.Orientation()); err != nil {
		return nil, err
	}
	return &Painter{display: d, bars: bars}, nil
}

// PaintSpectrum draws the bars and the zone colors of one intensity vector.
// Every cell is rewritten.
func (p *Painter) PaintSpectrum(in normalize.Intensity) {
	pattern := p.bars.Fill(in)
	for column, col := range p.bars.Columns(pattern) {
		for cell, g := range col {
			p.display.SetGlyph(column, Rows-1-cell, g)
		}
	}
	for zone, c := range p.colors.Render(in) {
		p.display.SetZoneColor(zone, c)
	}
}

// PaintLevel sets every LED of the level bar.
func (p *Painter) PaintLevel(l frame.Level) {
	states := p.level.States(p.level.Count(l))
	for i, on := range states {
		p.display.SetLevelLed(i, on)
	}
}

// Flush presents the painted frame.
func (p *Painter) Flush() error {
	return p.display.Flush()
}
