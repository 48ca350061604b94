package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/ban/reason"
	"github.com/leighmacdonald/ctbans/internal/config"
	"github.com/leighmacdonald/ctbans/internal/database"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/spf13/cobra"
)

var (
	errInvalidSteamID = errors.New("invalid steam id")
	errUnknownReason  = errors.New("unknown reason, expected one of: manual, freekill, leaver")
)

const cliTimeout = time.Second * 15

// withStore runs fn against a connected, loaded ban store.
func withStore(fn func(ctx context.Context, bans *ban.Store) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	conf, errConfig := config.Read(cfgFile)
	if errConfig != nil {
		return errConfig
	}

	dbConn := database.New(conf.DB.DSN, conf.DB.AutoMigrate, conf.DB.LogQueries)
	if errConnect := dbConn.Connect(ctx); errConnect != nil {
		return errConnect
	}

	defer func() {
		if errClose := dbConn.Close(); errClose != nil {
			slog.Error("Failed to close database", slog.String("error", errClose.Error()))
		}
	}()

	bans := ban.NewStore(ban.NewRepository(dbConn))
	if errLoad := bans.Load(ctx); errLoad != nil {
		return errLoad
	}

	return fn(ctx, bans)
}

func parseSteamID(value string) (steamid.SteamID, error) {
	sid := steamid.New(value)
	if !sid.Valid() {
		return sid, fmt.Errorf("%w: %s", errInvalidSteamID, value)
	}

	return sid, nil
}

func parseReason(value string) (reason.Reason, error) {
	switch strings.ToLower(value) {
	case "manual":
		return reason.Manual, nil
	case "freekill":
		return reason.Freekill, nil
	case "leaver":
		return reason.Leaver, nil
	default:
		return 0, errUnknownReason
	}
}

func banCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ban",
		Short: "ban functions",
		Long:  `Functionality for creating or modifying CT bans`,
	}
}

func banSteamCmd() *cobra.Command {
	var (
		target      string
		source      string
		banReason   string
		duration    time.Duration
		displayName string
	)

	cmd := &cobra.Command{
		Use:   "steam",
		Short: "Create a CT ban",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withStore(func(ctx context.Context, bans *ban.Store) error {
				targetID, errTarget := parseSteamID(target)
				if errTarget != nil {
					return errTarget
				}

				sourceID, errSource := parseSteamID(source)
				if errSource != nil {
					return errSource
				}

				parsedReason, errReason := parseReason(banReason)
				if errReason != nil {
					return errReason
				}

				record, errBan := bans.Ban(ctx, ban.Opts{
					TargetID: targetID,
					Name:     displayName,
					Reason:   parsedReason,
					SourceID: sourceID,
					Duration: duration,
				})
				if errBan != nil {
					return errBan
				}

				slog.Info("Added CT ban",
					slog.Int64("sid64", record.SteamID.Int64()),
					slog.String("reason", record.Reason.String()),
					slog.String("duration", ban.DurationString(duration)))

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "steamid of the player to ban")
	cmd.Flags().StringVarP(&source, "source", "s", "", "steamid of the operator issuing the ban")
	cmd.Flags().StringVarP(&banReason, "reason", "r", "manual", "ban reason: manual, freekill or leaver")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "ban duration, 0 for permanent")
	cmd.Flags().StringVarP(&displayName, "name", "n", "", "display name of the target")

	return cmd
}

func unbanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unban",
		Short: "unban functions",
		Long:  `Functionality for removing CT bans`,
	}
}

func unbanSteamCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "steam",
		Short: "Remove a CT ban",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withStore(func(ctx context.Context, bans *ban.Store) error {
				targetID, errTarget := parseSteamID(target)
				if errTarget != nil {
					return errTarget
				}

				removed, errUnban := bans.Unban(ctx, targetID)
				if errUnban != nil {
					return errUnban
				}

				if !removed {
					slog.Info("Player was not banned", slog.Int64("sid64", targetID.Int64()))

					return nil
				}

				slog.Info("Removed CT ban", slog.Int64("sid64", targetID.Int64()))

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "steamid of the player to unban")

	return cmd
}

func statusCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the CT ban status of a steamid",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withStore(func(_ context.Context, bans *ban.Store) error {
				targetID, errTarget := parseSteamID(target)
				if errTarget != nil {
					return errTarget
				}

				record, banned := bans.Current(targetID)
				fmt.Println(ban.StatusText(targetID.String(), record, banned)) //nolint:forbidigo

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "steamid of the player to look up")

	return cmd
}
