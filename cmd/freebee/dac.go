package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/guidoenr/freebee/internal/app"
	"github.com/guidoenr/freebee/internal/params"
)

type dacFlags struct {
	source    string
	fifo      string
	device    string
	interval  time.Duration
	threshold float64
	ttl       int
	iface     string
	fftSize   int
	combine   bool
}

func (f *dacFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.source, "source", "", "audio source (gst|portaudio|synthetic)")
	flags.StringVar(&f.fifo, "fifo", "", "raw PCM fifo read by the gst source")
	flags.StringVar(&f.device, "audio-device", "", "PortAudio device name (substring match)")
	flags.DurationVar(&f.interval, "interval", 0, "measurement interval")
	flags.Float64Var(&f.threshold, "threshold", 0, "magnitude floor in dB")
	flags.IntVar(&f.ttl, "ttl", 0, "multicast time to live")
	flags.StringVar(&f.iface, "interface", "", "network interface to publish on")
	flags.IntVar(&f.fftSize, "fft-size", 0, "FFT window size (power of two)")
	flags.BoolVar(&f.combine, "combine", false, "send spectrum and level in one datagram")
}

func (f *dacFlags) apply(cmd *cobra.Command, p *params.Parameters) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		p.Source = f.source
	}
	if flags.Changed("fifo") {
		p.Fifo = f.fifo
	}
	if flags.Changed("audio-device") {
		p.Device = f.device
	}
	if flags.Changed("interval") {
		p.Interval = f.interval
	}
	if flags.Changed("threshold") {
		p.Threshold = f.threshold
	}
	if flags.Changed("ttl") {
		p.TTL = f.ttl
	}
	if flags.Changed("interface") {
		p.Interface = f.iface
	}
	if flags.Changed("fft-size") {
		p.FFTSize = f.fftSize
	}
	if flags.Changed("combine") {
		p.Combine = f.combine
	}
}

func newDACCmd() *cobra.Command {
	f := &dacFlags{}
	cmd := &cobra.Command{
		Use:   "dac",
		Short: "Measure audio and publish spectrum and level datagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParams(cmd, f.apply)
			if err != nil {
				return err
			}
			log := newLogger()

			dac, err := app.NewDAC(app.DACConfig{Params: p, Log: log})
			if err != nil {
				return err
			}
			defer func() {
				if err := dac.Close(); err != nil {
					log.Warn("cleanup", "error", err)
				}
			}()
			return dac.Run(cmd.Context())
		},
	}
	f.register(cmd)
	return cmd
}
