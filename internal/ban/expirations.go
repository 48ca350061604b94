package ban

import (
	"context"
	"log/slog"
)

// ExpirationMonitor drops timed bans whose expiry has passed. The host calls
// Update at natural boundaries (level end), matching when players re-pick teams.
type ExpirationMonitor struct {
	bans *Store
}

func NewExpirationMonitor(bans *Store) *ExpirationMonitor {
	return &ExpirationMonitor{bans: bans}
}

func (monitor *ExpirationMonitor) Update(ctx context.Context) {
	for _, expired := range monitor.bans.Expired() {
		if _, errDrop := monitor.bans.Unban(ctx, expired.SteamID); errDrop != nil {
			slog.Error("Failed to drop expired ban", slog.String("error", errDrop.Error()))

			continue
		}

		name := expired.Name
		if name == "" {
			name = expired.SteamID.String()
		}

		slog.Info("Ban expired",
			slog.String("reason", expired.Reason.String()),
			slog.Int64("sid64", expired.SteamID.Int64()), slog.String("name", name))
	}
}
