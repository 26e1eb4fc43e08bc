package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/guidoenr/freebee/internal/app"
	"github.com/guidoenr/freebee/internal/display"
	"github.com/guidoenr/freebee/internal/params"
)

func TestExitCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{&app.InitError{Stage: "transport", Err: errors.New("bind")}, exitInit},
		{errors.New("pipeline: end of stream"), exitRuntime},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v)=%d want=%d", tc.err, got, tc.want)
		}
	}
}

func TestDACFlagsOverrideOnlyWhenSet(t *testing.T) {
	f := &dacFlags{}
	cmd := &cobra.Command{}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--source=synthetic", "--interval=50ms", "--combine"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	p := params.Defaults()
	f.apply(cmd, &p)
	if p.Source != "synthetic" || p.Interval != 50*time.Millisecond || !p.Combine {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Threshold != params.Defaults().Threshold || p.FFTSize != params.Defaults().FFTSize {
		t.Fatalf("unset flags changed defaults: %+v", p)
	}
}

func TestDisplayFlippedShorthand(t *testing.T) {
	f := &displayFlags{}
	cmd := &cobra.Command{}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--flipped", "--backend=headless"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	p := params.Defaults()
	f.apply(cmd, &p)
	if p.Orientation != "flipped" || p.Backend != "headless" {
		t.Fatalf("unexpected params %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDisplayHelpListsChoices(t *testing.T) {
	cmd := newDisplayCmd()
	backend := cmd.Flags().Lookup("backend").Usage
	if !strings.Contains(backend, "terminal|") || !strings.HasSuffix(backend, "|headless)") {
		t.Fatalf("backend usage=%q", backend)
	}
	if got := strings.Contains(backend, "sdl"); got != display.SupportsSDL() {
		t.Fatalf("backend usage=%q lists sdl=%v, built with sdl=%v", backend, got, display.SupportsSDL())
	}
	if orientation := cmd.Flags().Lookup("orientation").Usage; !strings.Contains(orientation, "(normal|flipped)") {
		t.Fatalf("orientation usage=%q", orientation)
	}
}
