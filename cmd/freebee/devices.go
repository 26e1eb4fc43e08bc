package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guidoenr/freebee/internal/app"
	"github.com/guidoenr/freebee/internal/audio"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List PortAudio input devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := audio.Initialize(); err != nil {
				return &app.InitError{Stage: "portaudio", Err: err}
			}
			defer audio.Terminate()

			devices, err := audio.ListDevices()
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n=== Audio Input Devices ===\n\n")
			for _, dev := range devices {
				markers := ""
				if dev.IsDefault {
					markers += " (default)"
				}
				fmt.Fprintf(out, "- %s [%s]%s\n    inputs:%d sample:%.0f Hz\n",
					dev.Name, dev.HostAPI, markers, dev.Channels, dev.DefaultSampleHz)
			}
			if dev, err := audio.AutoDetectDevice(); err == nil && dev != nil {
				fmt.Fprintf(out, "\nAuto-detected input: %s (%.0f Hz, %d channels)\n", dev.Name, dev.DefaultSampleRate, dev.MaxInputChannels)
			}
			return nil
		},
	}
}
