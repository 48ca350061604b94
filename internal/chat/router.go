package chat

import (
	"fmt"
	"strings"

	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/config"
	"github.com/leighmacdonald/ctbans/internal/permission"
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// Messenger sends a single chat line to one player.
type Messenger interface {
	Message(target steamid.SteamID, text string)
}

// MenuOpener starts a ban menu session for an operator. Satisfied by
// menu.Manager.
type MenuOpener interface {
	Open(operator player.Identity)
}

// Router dispatches the two say commands. Denial policy, decided once:
// the menu command fails silently so its existence is not leaked to
// unauthorized users, while the status command answers with an explicit
// "not allowed" since it is the cheaper, wider-audience surface.
type Router struct {
	commands   config.Commands
	perms      permission.Checker
	menuPerm   permission.Permission
	statusPerm permission.Permission
	menus      MenuOpener
	roster     player.Provider
	bans       *ban.Store
	messenger  Messenger
	prefix     string
}

func NewRouter(commands config.Commands, perms permission.Checker,
	menuPerm permission.Permission, statusPerm permission.Permission,
	menus MenuOpener, roster player.Provider, bans *ban.Store, messenger Messenger, prefix string,
) *Router {
	return &Router{
		commands:   commands,
		perms:      perms,
		menuPerm:   menuPerm,
		statusPerm: statusPerm,
		menus:      menus,
		roster:     roster,
		bans:       bans,
		messenger:  messenger,
		prefix:     prefix,
	}
}

// OnSay inspects one chat line. Returns true when the line was consumed as a
// command and should be blocked from regular chat.
func (r *Router) OnSay(source player.Identity, text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case strings.ToLower(r.commands.Menu):
		// Unauthorized users see their message pass through as normal chat.
		if !r.perms.Allowed(source.SteamID, r.menuPerm) {
			return false
		}

		r.menus.Open(source)

		return true

	case strings.ToLower(r.commands.Status):
		r.handleStatus(source, strings.Join(fields[1:], " "))

		return true

	default:
		return false
	}
}

func (r *Router) handleStatus(source player.Identity, token string) {
	if !r.perms.Allowed(source.SteamID, r.statusPerm) {
		r.messenger.Message(source.SteamID, r.prefix+"You are not allowed to do that.")

		return
	}

	if token == "" {
		r.messenger.Message(source.SteamID,
			fmt.Sprintf("%sUsage: %s <name | #userid>", r.prefix, r.commands.Status))

		return
	}

	resolution := player.Resolve(token, r.roster.Players())

	switch resolution.Outcome {
	case player.Unique:
		record, banned := r.bans.Current(resolution.Player.SteamID)
		r.messenger.Message(source.SteamID,
			r.prefix+ban.StatusText(resolution.Player.Name, record, banned))

	case player.Ambiguous:
		names := make([]string, 0, len(resolution.Candidates))
		for _, candidate := range resolution.Candidates {
			names = append(names, fmt.Sprintf("#%d %s", candidate.UserID, candidate.Name))
		}

		r.messenger.Message(source.SteamID,
			fmt.Sprintf("%sMultiple players match %q: %s", r.prefix, token, strings.Join(names, ", ")))

	case player.NotFound:
		fallthrough
	default:
		r.messenger.Message(source.SteamID,
			fmt.Sprintf("%sSorry, can't find player %s", r.prefix, token))
	}
}
