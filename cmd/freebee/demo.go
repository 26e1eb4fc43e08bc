package main

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/guidoenr/freebee/internal/app"
	"github.com/guidoenr/freebee/internal/transport"
)

func newDemoCmd() *cobra.Command {
	df := &displayFlags{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a synthetic producer and a display in one process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadParams(cmd, df.apply)
			if err != nil {
				return err
			}
			p.Source = "synthetic"
			log := newLogger()

			sender, receiver := transport.Pipe(8)

			dac, err := app.NewDAC(app.DACConfig{Params: p, Log: log.With("side", "dac"), Sender: sender})
			if err != nil {
				return err
			}
			defer dac.Close()

			panel, err := app.NewPanel(app.PanelConfig{Params: p, Log: log.With("side", "display"), Receiver: receiver, Keys: true})
			if err != nil {
				return err
			}
			defer panel.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var (
				wg   sync.WaitGroup
				errs [2]error
			)
			for i, run := range []func(context.Context) error{dac.Run, panel.Run} {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer cancel()
					errs[i] = run(ctx)
				}()
			}
			wg.Wait()
			if errs[0] != nil {
				return errs[0]
			}
			return errs[1]
		},
	}
	df.register(cmd)
	return cmd
}
