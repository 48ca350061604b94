package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/leighmacdonald/ctbans/internal/config"
	"github.com/leighmacdonald/ctbans/internal/database"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			conf, errConfig := config.Read(cfgFile)
			if errConfig != nil {
				return errConfig
			}

			dbConn := database.New(conf.DB.DSN, true, conf.DB.LogQueries)
			if errConnect := dbConn.Connect(ctx); errConnect != nil {
				return errConnect
			}

			defer func() {
				if errClose := dbConn.Close(); errClose != nil {
					slog.Error("Failed to close database", slog.String("error", errClose.Error()))
				}
			}()

			slog.Info("Migrations applied")

			return nil
		},
	}
}
