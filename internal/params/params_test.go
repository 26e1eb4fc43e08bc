package params

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guidoenr/freebee/internal/render"
)

func TestDefaultsAreValid(t *testing.T) {
	p := Defaults()
	if err := p.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if p.Interval != 100*time.Millisecond || p.Threshold != -100 || p.Group != "224.1.1.1" || p.Port != 5007 || p.TTL != 2 {
		t.Fatalf("unexpected defaults %+v", p)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "freebee.yaml")
	content := "interval: 50ms\norientation: flipped\nport: 6000\nsource: synthetic\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Interval != 50*time.Millisecond {
		t.Fatalf("interval=%s want=50ms", p.Interval)
	}
	if p.GlyphOrientation() != render.Flipped {
		t.Fatalf("orientation=%s want=flipped", p.Orientation)
	}
	if p.Port != 6000 || p.Source != "synthetic" {
		t.Fatalf("unexpected overrides %+v", p)
	}
	if p.Group != "224.1.1.1" || p.Threshold != -100 {
		t.Fatalf("defaults lost: %+v", p)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("expected defaults")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("group: 10.0.0.1\nbackend: lcd\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"multicast", "backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}

func TestTransportConfig(t *testing.T) {
	p := Defaults()
	p.Interface = "eth0"
	cfg := p.TransportConfig()
	if cfg.Group != p.Group || cfg.Port != p.Port || cfg.TTL != p.TTL || cfg.Interface != "eth0" {
		t.Fatalf("unexpected transport config %+v", cfg)
	}
}
