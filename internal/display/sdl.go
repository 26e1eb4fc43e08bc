//go:build sdl

package display

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/guidoenr/freebee/internal/render"
)

const (
	glyphWidth  = 5
	glyphHeight = 8
	cellGap     = 1
	ledSize     = 4
)

// SDLConfig configures the SDL window.
type SDLConfig struct {
	Scale int
	Title string
}

type sdlDisplay struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	scale    int32
	bitmaps  [render.SubLevels]render.GlyphBitmap
	cells    [Rows][Columns]render.Glyph
	zones    [render.ZoneCount]render.RGB
	leds     [render.LEDs]bool
}

// NewSDL opens a window drawing the LCD pixel by pixel.
func NewSDL(cfg SDLConfig) (Display, error) {
	if cfg.Scale <= 0 {
		cfg.Scale = 6
	}
	if cfg.Title == "" {
		cfg.Title = "freebee"
	}
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}
	d := &sdlDisplay{scale: int32(cfg.Scale)}
	for r := range d.cells {
		for c := range d.cells[r] {
			d.cells[r][c] = render.Blank
		}
	}

	width, height := d.size()
	window, err := sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		width, height,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	d.window = window
	d.renderer = renderer
	return d, nil
}

// SupportsSDL reports whether the SDL backend is compiled in.
func SupportsSDL() bool { return true }

func (d *sdlDisplay) size() (int32, int32) {
	cellW := int32(glyphWidth + cellGap)
	cellH := int32(glyphHeight + cellGap)
	w := (Columns*cellW + cellGap) * d.scale
	h := (Rows*cellH + cellGap + ledSize + 2*cellGap) * d.scale
	return w, h
}

func (d *sdlDisplay) ConfigureGlyphSet(o render.Orientation) error {
	d.bitmaps = render.Bitmaps(o)
	return nil
}

func (d *sdlDisplay) SetGlyph(column, row int, g render.Glyph) {
	if column < 0 || column >= Columns || row < 0 || row >= Rows {
		return
	}
	d.cells[row][column] = g
}

func (d *sdlDisplay) SetZoneColor(zone int, c render.RGB) {
	if zone < 0 || zone >= render.ZoneCount {
		return
	}
	d.zones[zone] = c
}

func (d *sdlDisplay) SetLevelLed(index int, on bool) {
	if index < 0 || index >= render.LEDs {
		return
	}
	d.leds[index] = on
}

func (d *sdlDisplay) Flush() error {
	s := d.scale
	_ = d.renderer.SetDrawColor(0, 0, 0, 255)
	if err := d.renderer.Clear(); err != nil {
		return err
	}

	for column := 0; column < Columns; column++ {
		backlight := d.zones[render.ZoneOf(column)]
		x0 := int32(cellGap+column*(glyphWidth+cellGap)) * s
		for row := 0; row < Rows; row++ {
			y0 := int32(cellGap+row*(glyphHeight+cellGap)) * s
			_ = d.renderer.SetDrawColor(backlight.R, backlight.G, backlight.B, 255)
			_ = d.renderer.FillRect(&sdl.Rect{X: x0, Y: y0, W: glyphWidth * s, H: glyphHeight * s})

			g := d.cells[row][column]
			if g == render.Blank {
				continue
			}
			_ = d.renderer.SetDrawColor(245, 245, 245, 255)
			bitmap := d.bitmaps[g]
			for py, bits := range bitmap {
				for px := 0; px < glyphWidth; px++ {
					if bits&(1<<(glyphWidth-1-px)) == 0 {
						continue
					}
					_ = d.renderer.FillRect(&sdl.Rect{
						X: x0 + int32(px)*s,
						Y: y0 + int32(py)*s,
						W: s,
						H: s,
					})
				}
			}
		}
	}

	ledY := int32(cellGap+Rows*(glyphHeight+cellGap)+cellGap) * s
	for i, on := range d.leds {
		if on {
			_ = d.renderer.SetDrawColor(255, 160, 0, 255)
		} else {
			_ = d.renderer.SetDrawColor(40, 40, 40, 255)
		}
		x := int32(cellGap+(Columns-render.LEDs+i)*(glyphWidth+cellGap)) * s
		_ = d.renderer.FillRect(&sdl.Rect{X: x, Y: ledY, W: ledSize * s, H: ledSize * s})
	}

	d.renderer.Present()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event.(type) {
		case *sdl.QuitEvent:
			return ErrClosed
		}
	}
	return nil
}

func (d *sdlDisplay) Close() error {
	if d.renderer != nil {
		d.renderer.Destroy()
		d.renderer = nil
	}
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	return nil
}
