package app

import (
	"log/slog"

	"github.com/leighmacdonald/ctbans/internal/menu"
	"github.com/leighmacdonald/ctbans/internal/permission"
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/ctbans/internal/team"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// NewNullHost returns a Host with no game engine attached: an empty roster and
// a display that writes to the log. Used by `serve` until the engine adapter
// registers itself, and by development setups.
func NewNullHost() Host {
	return Host{
		Roster:  nullRoster{},
		Perms:   permission.AllowAll{},
		Display: logDisplay{},
		Mover:   logMover{},
	}
}

type nullRoster struct{}

func (nullRoster) Players() []player.Identity {
	return nil
}

type logDisplay struct{}

func (logDisplay) Menu(target steamid.SteamID, title string, options []menu.Option) {
	labels := make([]string, 0, len(options))
	for _, option := range options {
		labels = append(labels, option.Label)
	}

	slog.Info("menu", slog.Int64("target", target.Int64()),
		slog.String("title", title), slog.Any("options", labels))
}

func (logDisplay) Message(target steamid.SteamID, text string) {
	slog.Info("message", slog.Int64("target", target.Int64()), slog.String("text", text))
}

func (logDisplay) Broadcast(text string) {
	slog.Info("broadcast", slog.String("text", text))
}

type logMover struct{}

func (logMover) MoveToTeam(target steamid.SteamID, dest team.Team) {
	slog.Info("move", slog.Int64("target", target.Int64()), slog.String("team", dest.String()))
}
