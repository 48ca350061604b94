package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leighmacdonald/ctbans/internal/app"
	"github.com/leighmacdonald/ctbans/internal/config"
	"github.com/leighmacdonald/ctbans/internal/log"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the ban service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conf, errConfig := config.Read(cfgFile)
			if errConfig != nil {
				return errConfig
			}

			logCloser := log.MustCreateLogger(ctx, conf.Log, conf.Log.SentryDSN != "", BuildVersion)
			defer logCloser()

			if conf.Log.SentryDSN != "" {
				if _, errSentry := log.NewSentryClient(conf.Log.SentryDSN, false, 0.1, BuildVersion); errSentry != nil {
					slog.Error("Failed to init sentry", slog.String("error", errSentry.Error()))
				}
			}

			application := app.New(conf, app.NewNullHost())
			defer application.Close()

			if errInit := application.Init(ctx); errInit != nil {
				return errInit
			}

			application.Run(ctx)

			return nil
		},
	}
}
