package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type stage int

const (
	stageDecode stage = iota
	stageRender
	stageFlush
	stageCount
)

var stageColumns = [stageCount]string{"decode_ms", "render_ms", "flush_ms"}

// profiler writes one CSV row per painted datagram with the time spent in
// each stage. A nil profiler is disabled.
type profiler struct {
	file   *os.File
	now    func() time.Time
	start  time.Time
	last   time.Time
	bytes  int
	stages [stageCount]time.Duration
}

func newProfiler(path string, log *slog.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warn("profiler disabled", "path", path, "error", err)
		return nil
	}
	fmt.Fprintf(f, "timestamp,bytes,%s,total_ms\n", strings.Join(stageColumns[:], ","))
	return &profiler{file: f, now: time.Now}
}

// begin starts timing a datagram of n bytes.
func (p *profiler) begin(n int) {
	if p == nil {
		return
	}
	p.start = p.now()
	p.last = p.start
	p.bytes = n
	p.stages = [stageCount]time.Duration{}
}

// mark closes stage s.
func (p *profiler) mark(s stage) {
	if p == nil {
		return
	}
	now := p.now()
	p.stages[s] = now.Sub(p.last)
	p.last = now
}

// end writes the row of the current datagram.
func (p *profiler) end() {
	if p == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s,%d", p.start.Format(time.RFC3339Nano), p.bytes)
	for _, d := range p.stages {
		fmt.Fprintf(&b, ",%.3f", millis(d))
	}
	fmt.Fprintf(&b, ",%.3f\n", millis(p.last.Sub(p.start)))
	_, _ = p.file.WriteString(b.String())
}

func (p *profiler) Close() error {
	if p == nil {
		return nil
	}
	return p.file.Close()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
