package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	counterapp "github.com/initia-labs/counterd/app"
	"github.com/initia-labs/counterd/service"
)

func serveCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local front-end",
		Long: `Serve the local front-end on the listen address:

  GET  /state     view state
  PUT  /state     edit package id, counter id, init value or increment amount
  POST /create    create a counter
  POST /increase  increase the counter
  GET  /account   connected account
  GET  /ws        view state pushed on every change
  GET  /metrics   attempt counters and durations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := counterapp.NewCounterApp(ctx, cmdCtx.logger, cmdCtx.home, cmdCtx.viper)
			if err != nil {
				return err
			}
			defer app.Close()

			srv := service.NewServer(app.Logger(), app.Workflow(), app.Wallet(), app.StateStore(), app.Metrics())

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Start(ctx, app.Config().ListenAddress)
			})
			g.Go(func() error {
				<-ctx.Done()
				return app.SaveState()
			})

			return g.Wait()
		},
	}
}
