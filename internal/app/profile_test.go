package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestProfilerWritesStageRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.csv")
	p := newProfiler(path, quietLogger())
	if p == nil {
		t.Fatalf("profiler not created")
	}

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := []time.Duration{0, 2 * time.Millisecond, 500 * time.Microsecond, time.Millisecond}
	p.now = func() time.Time {
		clock = clock.Add(steps[0])
		steps = steps[1:]
		return clock
	}

	p.begin(120)
	p.mark(stageDecode)
	p.mark(stageRender)
	p.mark(stageFlush)
	p.end()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%d want=2: %q", len(lines), data)
	}
	if want := "timestamp,bytes,decode_ms,render_ms,flush_ms,total_ms"; lines[0] != want {
		t.Fatalf("header=%q want=%q", lines[0], want)
	}
	fields := strings.Split(lines[1], ",")
	if got, want := strings.Join(fields[1:], ","), "120,2.000,0.500,1.000,3.500"; got != want {
		t.Fatalf("row=%q want=%q", got, want)
	}
	if fields[0] != "2024-01-01T00:00:00Z" {
		t.Fatalf("timestamp=%q", fields[0])
	}
}

func TestNilProfilerIsDisabled(t *testing.T) {
	p := newProfiler("", quietLogger())
	p.begin(10)
	p.mark(stageDecode)
	p.end()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
