package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/guidoenr/freebee/internal/app"
	"github.com/guidoenr/freebee/internal/params"
)

// Exit codes.
const (
	exitOK      = 0
	exitInit    = 1
	exitRuntime = 2
)

var (
	configPath string
	debug      bool
	group      string
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "freebee",
	Short: "Stream an audio spectrum over multicast and show it on a bar display",
	Long: `freebee measures the spectrum and loudness of an audio stream on one host
(the dac) and publishes them as JSON datagrams to a multicast group. Any
number of displays join the group and draw 16 bars, six backlight zones and
a six-LED level meter.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&group, "group", "", "multicast group address")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "multicast port")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &app.InitError{Stage: "flags", Err: err}
	})

	rootCmd.AddCommand(newDACCmd(), newDisplayCmd(), newDemoCmd(), newDevicesCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(os.Stderr, "freebee: %v\n", err)
	var initErr *app.InitError
	if errors.As(err, &initErr) {
		return exitInit
	}
	return exitRuntime
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadParams reads the configuration file and applies the flags that were
// set on the command line.
func loadParams(cmd *cobra.Command, overrides ...func(*cobra.Command, *params.Parameters)) (params.Parameters, error) {
	p, err := params.Load(configPath)
	if err != nil {
		return p, &app.InitError{Stage: "config", Err: err}
	}
	flags := cmd.Flags()
	if flags.Changed("group") {
		p.Group = group
	}
	if flags.Changed("port") {
		p.Port = port
	}
	for _, apply := range overrides {
		apply(cmd, &p)
	}
	if err := p.Validate(); err != nil {
		return p, &app.InitError{Stage: "config", Err: err}
	}
	return p, nil
}
