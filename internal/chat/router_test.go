package chat_test

import (
	"testing"
	"time"

	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/ban/reason"
	"github.com/leighmacdonald/ctbans/internal/chat"
	"github.com/leighmacdonald/ctbans/internal/config"
	"github.com/leighmacdonald/ctbans/internal/permission"
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/stretchr/testify/require"
)

const testPrefix = "[CTBAN] "

type fakeRoster struct {
	players []player.Identity
}

func (r *fakeRoster) Players() []player.Identity {
	return r.players
}

type fakePerms struct {
	granted map[steamid.SteamID]bool
}

func (p *fakePerms) Allowed(steamID steamid.SteamID, _ permission.Permission) bool {
	return p.granted[steamID]
}

type fakeMessenger struct {
	messages map[steamid.SteamID][]string
}

func (m *fakeMessenger) Message(target steamid.SteamID, text string) {
	if m.messages == nil {
		m.messages = map[steamid.SteamID][]string{}
	}

	m.messages[target] = append(m.messages[target], text)
}

func (m *fakeMessenger) last(target steamid.SteamID) string {
	lines := m.messages[target]
	if len(lines) == 0 {
		return ""
	}

	return lines[len(lines)-1]
}

type fakeOpener struct {
	opened []player.Identity
}

func (o *fakeOpener) Open(operator player.Identity) {
	o.opened = append(o.opened, operator)
}

type routerFixture struct {
	admin     player.Identity
	pleb      player.Identity
	roster    *fakeRoster
	perms     *fakePerms
	messenger *fakeMessenger
	opener    *fakeOpener
	bans      *ban.Store
	router    *chat.Router
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	var (
		admin = player.Identity{SteamID: steamid.RandSID64(), UserID: 1, Name: "admin"}
		pleb  = player.Identity{SteamID: steamid.RandSID64(), UserID: 9, Name: "pleb"}
	)

	roster := &fakeRoster{players: []player.Identity{
		admin,
		pleb,
		{SteamID: steamid.RandSID64(), UserID: 2, Name: "Ayuto"},
		{SteamID: steamid.RandSID64(), UserID: 7, Name: "Ayushi"},
	}}
	perms := &fakePerms{granted: map[steamid.SteamID]bool{admin.SteamID: true}}
	messenger := &fakeMessenger{}
	opener := &fakeOpener{}
	bans := ban.NewStore(ban.NewMemoryRepository())

	return &routerFixture{
		admin:     admin,
		pleb:      pleb,
		roster:    roster,
		perms:     perms,
		messenger: messenger,
		opener:    opener,
		bans:      bans,
		router: chat.NewRouter(config.Commands{Menu: "!ctban", Status: "!is_banned"},
			perms, "ctban.open", "ctban.status", opener, roster, bans, messenger, testPrefix),
	}
}

func TestRouterIgnoresRegularChat(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	require.False(t, fixture.router.OnSay(fixture.admin, "hello everyone"))
	require.False(t, fixture.router.OnSay(fixture.admin, ""))
	require.False(t, fixture.router.OnSay(fixture.admin, "   "))
	require.Empty(t, fixture.opener.opened)
}

func TestRouterOpensMenu(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	require.True(t, fixture.router.OnSay(fixture.admin, "!ctban"))
	require.Len(t, fixture.opener.opened, 1)
	require.Equal(t, fixture.admin.SteamID, fixture.opener.opened[0].SteamID)

	// Command matching is case insensitive.
	require.True(t, fixture.router.OnSay(fixture.admin, "!CTBAN"))
	require.Len(t, fixture.opener.opened, 2)
}

func TestRouterMenuDeniedPassesThrough(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	// The line stays in chat and no hint of the command is given.
	require.False(t, fixture.router.OnSay(fixture.pleb, "!ctban"))
	require.Empty(t, fixture.opener.opened)
	require.Empty(t, fixture.messenger.messages)
}

func TestRouterStatusDeniedExplicit(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	require.True(t, fixture.router.OnSay(fixture.pleb, "!is_banned ayuto"))
	require.Equal(t, testPrefix+"You are not allowed to do that.", fixture.messenger.last(fixture.pleb.SteamID))
}

func TestRouterStatusLookup(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	target := fixture.roster.players[2]
	_, errBan := fixture.bans.Ban(t.Context(), ban.Opts{
		TargetID: target.SteamID, Name: target.Name, Reason: reason.Leaver,
		SourceID: fixture.admin.SteamID, Duration: time.Hour,
	})
	require.NoError(t, errBan)

	require.True(t, fixture.router.OnSay(fixture.admin, "!is_banned #2"))
	require.Contains(t, fixture.messenger.last(fixture.admin.SteamID), "Player Ayuto is CT-Banned")

	require.True(t, fixture.router.OnSay(fixture.admin, "!is_banned ayushi"))
	require.Equal(t, testPrefix+"Player Ayushi is not CT-Banned.", fixture.messenger.last(fixture.admin.SteamID))
}

func TestRouterStatusAmbiguous(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	require.True(t, fixture.router.OnSay(fixture.admin, "!is_banned ayu"))

	last := fixture.messenger.last(fixture.admin.SteamID)
	require.Contains(t, last, `Multiple players match "ayu"`)
	require.Contains(t, last, "#2 Ayuto")
	require.Contains(t, last, "#7 Ayushi")
}

func TestRouterStatusNotFound(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	require.True(t, fixture.router.OnSay(fixture.admin, "!is_banned nobody"))
	require.Equal(t, testPrefix+"Sorry, can't find player nobody", fixture.messenger.last(fixture.admin.SteamID))
}

func TestRouterStatusUsage(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t)

	require.True(t, fixture.router.OnSay(fixture.admin, "!is_banned"))
	require.Equal(t, testPrefix+"Usage: !is_banned <name | #userid>", fixture.messenger.last(fixture.admin.SteamID))
}
