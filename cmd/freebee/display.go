package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/guidoenr/freebee/internal/app"
	"github.com/guidoenr/freebee/internal/display"
	"github.com/guidoenr/freebee/internal/params"
	"github.com/guidoenr/freebee/internal/render"
)

type displayFlags struct {
	backend     string
	orientation string
	flipped     bool
	monitor     string
	profile     string
	noColor     bool
}

func (f *displayFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.backend, "backend", "", "display backend ("+strings.Join(backendNames(), "|")+")")
	flags.StringVar(&f.orientation, "orientation", "", "glyph orientation ("+strings.Join(render.OrientationNames(), "|")+")")
	flags.BoolVar(&f.flipped, "flipped", false, "shorthand for --orientation=flipped")
	flags.StringVar(&f.monitor, "monitor", "", "serve the web monitor on this address, e.g. :8080")
	flags.StringVar(&f.profile, "profile", "", "append per-frame timings to this CSV file")
	flags.BoolVar(&f.noColor, "no-color", false, "disable ANSI colors in the terminal backend")
}

// backendNames lists the backends compiled into this binary.
func backendNames() []string {
	names := []string{"terminal"}
	if display.SupportsSDL() {
		names = append(names, "sdl")
	}
	return append(names, "headless")
}

func (f *displayFlags) apply(cmd *cobra.Command, p *params.Parameters) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		p.Backend = f.backend
	}
	if flags.Changed("orientation") {
		p.Orientation = f.orientation
	}
	if flags.Changed("flipped") && f.flipped {
		p.Orientation = render.Flipped.String()
	}
	if flags.Changed("monitor") {
		p.Monitor = f.monitor
	}
	if flags.Changed("profile") {
		p.Profile = f.profile
	}
	if flags.Changed("no-color") {
		p.NoColor = f.noColor
	}
}

func newDisplayCmd() *cobra.Command {
	f := &displayFlags{}
	cmd := &cobra.Command{
		Use:   "display",
		Short: "Join the multicast group and draw the received frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParams(cmd, f.apply)
			if err != nil {
				return err
			}
			log := newLogger()

			panel, err := app.NewPanel(app.PanelConfig{Params: p, Log: log, Keys: true})
			if err != nil {
				return err
			}
			defer func() {
				if err := panel.Close(); err != nil {
					log.Warn("cleanup", "error", err)
				}
			}()
			return panel.Run(cmd.Context())
		},
	}
	f.register(cmd)
	return cmd
}
