package render

import (
	"testing"

	"github.com/guidoenr/freebee/internal/frame"
	"github.com/guidoenr/freebee/internal/normalize"
)

func TestUnits(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 24},
		{8.0 / 24, 8},
		{9.0 / 24, 9},
		{0.5, 12},
		{-0.2, 0},
		{1.7, 24},
	}
	for _, c := range cases {
		if got := Units(c.in); got != c.want {
			t.Fatalf("Units(%f)=%d want=%d", c.in, got, c.want)
		}
	}
}

func TestColumnBoundaries(t *testing.T) {
	b := NewBarRenderer(Normal)
	cases := []struct {
		units int
		want  Column
	}{
		{0, Column{Blank, Blank, Blank}},
		{24, Column{Full, Full, Full}},
		{8, Column{Full, Blank, Blank}},
		{9, Column{Full, 0, Blank}},
		{1, Column{0, Blank, Blank}},
		{7, Column{6, Blank, Blank}},
		{16, Column{Full, Full, Blank}},
		{23, Column{Full, Full, 6}},
		{30, Column{Full, Full, Full}},
		{-3, Column{Blank, Blank, Blank}},
	}
	for _, c := range cases {
		if got := b.Column(c.units); got != c.want {
			t.Fatalf("Column(%d)=%v want=%v", c.units, got, c.want)
		}
	}
}

func TestFillFromIntensity(t *testing.T) {
	var in normalize.Intensity
	in[0] = 1
	in[1] = 9.0 / 24
	in[15] = 0.5
	p := NewBarRenderer(Flipped).Fill(in)
	if p[0] != 24 || p[1] != 9 || p[2] != 0 || p[15] != 12 {
		t.Fatalf("unexpected fill pattern %v", p)
	}
}

func TestOrientationSelectsGlyphTable(t *testing.T) {
	if Bitmaps(Normal)[0][7] != 0xFF || Bitmaps(Normal)[0][0] != 0x00 {
		t.Fatalf("normal 1/8 glyph should light the bottom row only")
	}
	if Bitmaps(Flipped)[0][0] != 0xFF || Bitmaps(Flipped)[0][7] != 0x00 {
		t.Fatalf("flipped 1/8 glyph should light the top row only")
	}
	if Bitmaps(Normal)[Full] != Bitmaps(Flipped)[Full] {
		t.Fatalf("full glyph must match in both orientations")
	}
	if Rune(Normal, Blank) != ' ' || Rune(Flipped, Full) != '█' || Rune(Normal, 0) != '▁' {
		t.Fatalf("unexpected terminal runes")
	}
}

func TestParseOrientation(t *testing.T) {
	if o, err := ParseOrientation("Flipped"); err != nil || o != Flipped {
		t.Fatalf("ParseOrientation(Flipped)=%v,%v", o, err)
	}
	if o, err := ParseOrientation(""); err != nil || o != Normal {
		t.Fatalf("ParseOrientation(\"\")=%v,%v", o, err)
	}
	if _, err := ParseOrientation("sideways"); err == nil {
		t.Fatalf("expected error for unknown orientation")
	}
}

func TestZonesCoverAllBands(t *testing.T) {
	next := 0
	for i, z := range Zones {
		if z.Start != next {
			t.Fatalf("zone %d starts at %d want=%d", i, z.Start, next)
		}
		next = z.End
	}
	if next != frame.Bands {
		t.Fatalf("zones end at %d want=%d", next, frame.Bands)
	}
	if ZoneOf(4) != 1 || ZoneOf(15) != 5 || ZoneOf(16) != -1 {
		t.Fatalf("unexpected ZoneOf mapping")
	}
}

func TestColorRenderer(t *testing.T) {
	var c ColorRenderer

	off := c.Render(normalize.Intensity{})
	for i, rgb := range off {
		if rgb != (RGB{}) {
			t.Fatalf("zone %d=%v want black", i, rgb)
		}
	}

	var full normalize.Intensity
	for i := range full {
		full[i] = 1
	}
	on := c.Render(full)
	if on[0] != (RGB{255, 0, 0}) {
		t.Fatalf("red zone=%v want (255,0,0)", on[0])
	}
	for i, z := range Zones {
		if on[i] != z.Hue {
			t.Fatalf("zone %d=%v want %v", i, on[i], z.Hue)
		}
	}
}

func TestColorZoneMean(t *testing.T) {
	var in normalize.Intensity
	in[3] = 1
	in[4] = 0
	in[13], in[14], in[15] = 0.2, 0.4, 0.6
	var c ColorRenderer
	b := c.Brightness(in)
	if b[1] != 0.5 {
		t.Fatalf("yellow brightness=%f want=0.5", b[1])
	}
	got := c.Render(in)
	if got[1] != (RGB{128, 128, 0}) {
		t.Fatalf("yellow=%v want (128,128,0)", got[1])
	}
	if got[5].G != 0 || got[5].R != got[5].B || got[5].R != Magenta.Scale(b[5]).R {
		t.Fatalf("magenta=%v", got[5])
	}
}

func TestLevelCount(t *testing.T) {
	var l LevelRenderer
	cases := []struct {
		peak [2]float64
		want int
	}{
		{[2]float64{-100, -100}, 0},
		{[2]float64{0, 0}, 6},
		{[2]float64{-50, -50}, 3},
		{[2]float64{-40, -60}, 3},
		{[2]float64{-150, -120}, 0},
		{[2]float64{20, 10}, 6},
	}
	for _, c := range cases {
		if got := l.Count(frame.Level{Peak: c.peak}); got != c.want {
			t.Fatalf("Count(%v)=%d want=%d", c.peak, got, c.want)
		}
	}
}

func TestLevelStates(t *testing.T) {
	var l LevelRenderer
	got := l.States(2)
	want := [LEDs]bool{false, false, false, false, true, true}
	if got != want {
		t.Fatalf("States(2)=%v want=%v", got, want)
	}
	if l.States(0) != ([LEDs]bool{}) {
		t.Fatalf("States(0) should be all off")
	}
}
