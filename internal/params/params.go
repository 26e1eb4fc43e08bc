// Package params holds the deployment parameters shared by the producer and
// the display. They are fixed at startup.
package params

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/guidoenr/freebee/internal/frame"
	"github.com/guidoenr/freebee/internal/render"
	"github.com/guidoenr/freebee/internal/transport"
)

// Parameters configures a producer/display pairing.
type Parameters struct {
	// Transport
	Group     string `yaml:"group"`
	Port      int    `yaml:"port"`
	TTL       int    `yaml:"ttl"`
	Interface string `yaml:"interface"`

	// Producer
	Source     string        `yaml:"source"`
	Fifo       string        `yaml:"fifo"`
	Device     string        `yaml:"device"`
	SampleRate float64       `yaml:"sample_rate"`
	FFTSize    int           `yaml:"fft_size"`
	Interval   time.Duration `yaml:"interval"`
	Threshold  float64       `yaml:"threshold"`
	Combine    bool          `yaml:"combine"`

	// Display
	Backend     string `yaml:"backend"`
	Orientation string `yaml:"orientation"`
	Monitor     string `yaml:"monitor"`
	Profile     string `yaml:"profile"`
	NoColor     bool   `yaml:"no_color"`
}

// Defaults returns the parameters of the reference deployment.
func Defaults() Parameters {
	return Parameters{
		Group:       transport.DefaultGroup,
		Port:        transport.DefaultPort,
		TTL:         transport.DefaultTTL,
		Source:      "gst",
		Fifo:        "/run/mpd/mpd.fifo",
		SampleRate:  44_100,
		FFTSize:     2048,
		Interval:    100 * time.Millisecond,
		Threshold:   frame.Threshold,
		Backend:     "terminal",
		Orientation: render.Normal.String(),
	}
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Parameters, error) {
	p := Defaults()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse config %s: %w", path, err)
	}
	return p, p.Validate()
}

// Validate checks every parameter.
func (p Parameters) Validate() error {
	var errs []error
	if ip := net.ParseIP(p.Group); ip == nil || ip.To4() == nil || !ip.IsMulticast() {
		errs = append(errs, fmt.Errorf("group %q is not an IPv4 multicast address", p.Group))
	}
	if p.Port <= 0 || p.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", p.Port))
	}
	if p.TTL <= 0 || p.TTL > 255 {
		errs = append(errs, fmt.Errorf("ttl %d out of range", p.TTL))
	}
	if p.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive (got %s)", p.Interval))
	}
	if p.Threshold >= 0 {
		errs = append(errs, fmt.Errorf("threshold must be negative dB (got %.1f)", p.Threshold))
	}
	if p.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive (got %.0f)", p.SampleRate))
	}
	if p.FFTSize < 2*frame.Bands {
		errs = append(errs, fmt.Errorf("fft size %d too small for %d bands", p.FFTSize, frame.Bands))
	}
	switch p.Source {
	case "gst", "portaudio", "synthetic":
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", p.Source))
	}
	switch p.Backend {
	case "terminal", "sdl", "headless":
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", p.Backend))
	}
	if _, err := render.ParseOrientation(p.Orientation); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TransportConfig returns the transport addressing.
func (p Parameters) TransportConfig() transport.Config {
	return transport.Config{
		Group:     p.Group,
		Port:      p.Port,
		TTL:       p.TTL,
		Interface: p.Interface,
	}
}

// GlyphOrientation returns the parsed orientation, Normal when invalid.
func (p Parameters) GlyphOrientation() render.Orientation {
	o, _ := render.ParseOrientation(p.Orientation)
	return o
}
