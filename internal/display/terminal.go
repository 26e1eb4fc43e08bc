package display

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"

	"github.com/guidoenr/freebee/internal/render"
)

// TerminalConfig configures the terminal display.
type TerminalConfig struct {
	Out     io.Writer
	NoColor bool
}

// Terminal draws the display in a terminal: the character grid on top of
// its backlight zone colors, followed by the level LED bar.
type Terminal struct {
	out         io.Writer
	interactive bool
	useColor    bool
	renderer    *lipgloss.Renderer
	ledColors   [render.LEDs]string
	orientation render.Orientation
	cells       [Rows][Columns]render.Glyph
	zones       [render.ZoneCount]render.RGB
	leds        [render.LEDs]bool
	started     bool
}

// NewTerminal creates a terminal display writing to cfg.Out (stdout when nil).
func NewTerminal(cfg TerminalConfig) *Terminal {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	t := &Terminal{
		out:      out,
		useColor: !cfg.NoColor,
		renderer: lipgloss.NewRenderer(out),
	}
	if f, ok := out.(*os.File); ok {
		t.interactive = term.IsTerminal(int(f.Fd()))
	}

	// LED colors run from green at the quiet end to red at the loud end.
	low, _ := colorful.Hex("#1FD11F")
	high, _ := colorful.Hex("#FF2A1F")
	for i := range t.ledColors {
		t.ledColors[i] = high.BlendLab(low, float64(i)/float64(render.LEDs-1)).Clamped().Hex()
	}

	for r := range t.cells {
		for c := range t.cells[r] {
			t.cells[r][c] = render.Blank
		}
	}
	return t
}

func (t *Terminal) ConfigureGlyphSet(o render.Orientation) error {
	t.orientation = o
	return nil
}

func (t *Terminal) SetGlyph(column, row int, g render.Glyph) {
	if column < 0 || column >= Columns || row < 0 || row >= Rows {
		return
	}
	t.cells[row][column] = g
}

func (t *Terminal) SetZoneColor(zone int, c render.RGB) {
	if zone < 0 || zone >= render.ZoneCount {
		return
	}
	t.zones[zone] = c
}

func (t *Terminal) SetLevelLed(index int, on bool) {
	if index < 0 || index >= render.LEDs {
		return
	}
	t.leds[index] = on
}

func (t *Terminal) Flush() error {
	w := bufio.NewWriter(t.out)
	if t.interactive {
		if !t.started {
			w.WriteString("\x1b[?1049h\x1b[2J\x1b[?25l")
			t.started = true
		}
		w.WriteString("\x1b[H")
	}
	for _, line := range t.Lines() {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if !t.interactive {
		w.WriteByte('\n')
	}
	return w.Flush()
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	if !t.interactive || !t.started {
		return nil
	}
	_, err := io.WriteString(t.out, "\x1b[?25h\x1b[?1049l\x1b[0m")
	return err
}

// Lines renders the current contents, one string per terminal line.
func (t *Terminal) Lines() []string {
	lines := make([]string, 0, Rows+1)
	for row := 0; row < Rows; row++ {
		var b strings.Builder
		for column := 0; column < Columns; column++ {
			ch := string(render.Rune(t.orientation, t.cells[row][column]))
			if !t.useColor {
				b.WriteString(ch)
				continue
			}
			backlight := t.zones[render.ZoneOf(column)]
			style := t.renderer.NewStyle().
				Foreground(lipgloss.Color("#F5F5F5")).
				Background(lipgloss.Color(hex(backlight)))
			b.WriteString(style.Render(ch))
		}
		lines = append(lines, b.String())
	}

	var leds strings.Builder
	leds.WriteString(strings.Repeat(" ", Columns-render.LEDs))
	for i, on := range t.leds {
		mark := "○"
		if on {
			mark = "●"
		}
		if t.useColor && on {
			mark = t.renderer.NewStyle().Foreground(lipgloss.Color(t.ledColors[i])).Render(mark)
		}
		leds.WriteString(mark)
	}
	lines = append(lines, leds.String())
	return lines
}

func hex(c render.RGB) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
