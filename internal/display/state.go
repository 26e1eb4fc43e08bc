package display

import (
	"sync"

	"github.com/guidoenr/freebee/internal/render"
)

// Snapshot is a copy of the display contents.
type Snapshot struct {
	Orientation string                       `json:"orientation"`
	Cells       [Rows][Columns]int           `json:"cells"`
	Zones       [render.ZoneCount]render.RGB `json:"zones"`
	LEDs        [render.LEDs]bool            `json:"leds"`
	Flushes     uint64                       `json:"flushes"`
}

// State is an in-memory Display. It backs the headless mode and the web
// monitor and records what was painted.
type State struct {
	mu          sync.RWMutex
	orientation render.Orientation
	configured  int
	pending     Snapshot
	presented   Snapshot
}

// NewState returns a blank display state.
func NewState() *State {
	s := &State{}
	for r := range s.pending.Cells {
		for c := range s.pending.Cells[r] {
			s.pending.Cells[r][c] = int(render.Blank)
		}
	}
	s.presented = s.pending
	return s
}

func (s *State) ConfigureGlyphSet(o render.Orientation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orientation = o
	s.configured++
	s.pending.Orientation = o.String()
	s.presented.Orientation = o.String()
	return nil
}

func (s *State) SetGlyph(column, row int, g render.Glyph) {
	if column < 0 || column >= Columns || row < 0 || row >= Rows {
		return
	}
	s.mu.Lock()
	s.pending.Cells[row][column] = int(g)
	s.mu.Unlock()
}

func (s *State) SetZoneColor(zone int, c render.RGB) {
	if zone < 0 || zone >= render.ZoneCount {
		return
	}
	s.mu.Lock()
	s.pending.Zones[zone] = c
	s.mu.Unlock()
}

func (s *State) SetLevelLed(index int, on bool) {
	if index < 0 || index >= render.LEDs {
		return
	}
	s.mu.Lock()
	s.pending.LEDs[index] = on
	s.mu.Unlock()
}

func (s *State) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Flushes++
	s.presented = s.pending
	return nil
}

func (s *State) Close() error { return nil }

// Snapshot returns the contents presented by the last Flush.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presented
}

// GlyphSetLoads reports how often ConfigureGlyphSet was called.
func (s *State) GlyphSetLoads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configured
}
