package app_test

import (
	"testing"

	"github.com/leighmacdonald/ctbans/internal/app"
	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/config"
	"github.com/leighmacdonald/ctbans/internal/menu"
	"github.com/leighmacdonald/ctbans/internal/permission"
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/ctbans/internal/team"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/stretchr/testify/require"
)

type fixtureRoster struct {
	players []player.Identity
}

func (r *fixtureRoster) Players() []player.Identity {
	return r.players
}

type fixturePerms struct {
	granted map[steamid.SteamID]bool
}

func (p *fixturePerms) Allowed(steamID steamid.SteamID, _ permission.Permission) bool {
	return p.granted[steamID]
}

type fixtureDisplay struct {
	menus      int
	messages   []string
	broadcasts []string
}

func (d *fixtureDisplay) Menu(_ steamid.SteamID, _ string, _ []menu.Option) {
	d.menus++
}

func (d *fixtureDisplay) Message(_ steamid.SteamID, text string) {
	d.messages = append(d.messages, text)
}

func (d *fixtureDisplay) Broadcast(text string) {
	d.broadcasts = append(d.broadcasts, text)
}

type fixtureMover struct {
	moved map[steamid.SteamID]team.Team
}

func (m *fixtureMover) MoveToTeam(target steamid.SteamID, dest team.Team) {
	if m.moved == nil {
		m.moved = map[steamid.SteamID]team.Team{}
	}

	m.moved[target] = dest
}

func testConfig() config.Configuration {
	return config.Configuration{
		General: config.General{MessagePrefix: "[CTBAN] ", RestrictedTeam: "ct"},
		Commands: config.Commands{
			Menu:   "!ctban",
			Status: "!is_banned",
		},
		Permissions: config.Permissions{
			OpenMenu:    "ctban.open",
			CheckStatus: "ctban.status",
		},
	}
}

type appFixture struct {
	app     *app.App
	admin   player.Identity
	target  player.Identity
	roster  *fixtureRoster
	perms   *fixturePerms
	display *fixtureDisplay
	mover   *fixtureMover
	repo    ban.Repository
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()

	var (
		admin  = player.Identity{SteamID: steamid.RandSID64(), UserID: 1, Name: "admin"}
		target = player.Identity{SteamID: steamid.RandSID64(), UserID: 2, Name: "Ayuto"}
	)

	roster := &fixtureRoster{players: []player.Identity{admin, target}}
	perms := &fixturePerms{granted: map[steamid.SteamID]bool{admin.SteamID: true}}
	display := &fixtureDisplay{}
	mover := &fixtureMover{}
	repo := ban.NewMemoryRepository()

	application := app.NewWithRepository(testConfig(), app.Host{
		Roster:  roster,
		Perms:   perms,
		Display: display,
		Mover:   mover,
	}, repo)
	require.NoError(t, application.Init(t.Context()))

	return &appFixture{
		app:     application,
		admin:   admin,
		target:  target,
		roster:  roster,
		perms:   perms,
		display: display,
		mover:   mover,
		repo:    repo,
	}
}

func TestBanThroughMenuBlocksJoin(t *testing.T) {
	t.Parallel()

	fixture := newAppFixture(t)

	require.True(t, fixture.app.OnJoinTeam(fixture.target.SteamID, team.CounterTerrorists).Allowed)

	require.True(t, fixture.app.OnSay(fixture.admin, "!ctban"))
	require.Positive(t, fixture.display.menus)

	for _, input := range []menu.Input{
		{Option: 1},        // ban
		{Text: "ayuto"},    // target by name
		{Option: 2},        // freekill
		{Option: 1},        // permanent
		{Option: 1},        // confirm
	} {
		fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, input)
	}

	require.Len(t, fixture.display.broadcasts, 1)

	// The connected target was pushed off CT as part of the commit.
	require.Equal(t, team.Terrorists, fixture.mover.moved[fixture.target.SteamID])

	verdict := fixture.app.OnJoinTeam(fixture.target.SteamID, team.CounterTerrorists)
	require.False(t, verdict.Allowed)
	require.Contains(t, verdict.Reason, "banned from the CT team")

	// Other teams remain open.
	require.True(t, fixture.app.OnJoinTeam(fixture.target.SteamID, team.Terrorists).Allowed)

	// The ban survives a restart against the same storage.
	restarted := app.NewWithRepository(testConfig(), app.Host{
		Roster: fixture.roster, Perms: fixture.perms, Display: fixture.display, Mover: fixture.mover,
	}, fixture.repo)
	require.NoError(t, restarted.Init(t.Context()))
	require.False(t, restarted.OnJoinTeam(fixture.target.SteamID, team.CounterTerrorists).Allowed)
}

func TestStatusCommandEndToEnd(t *testing.T) {
	t.Parallel()

	fixture := newAppFixture(t)

	require.True(t, fixture.app.OnSay(fixture.admin, "!is_banned #2"))
	require.NotEmpty(t, fixture.display.messages)
	require.Equal(t, "[CTBAN] Player Ayuto is not CT-Banned.",
		fixture.display.messages[len(fixture.display.messages)-1])
}

func TestUnauthorizedChatterIgnored(t *testing.T) {
	t.Parallel()

	fixture := newAppFixture(t)
	pleb := player.Identity{SteamID: steamid.RandSID64(), UserID: 3, Name: "pleb"}

	require.False(t, fixture.app.OnSay(pleb, "!ctban"))
	require.Zero(t, fixture.display.menus)
}

func TestDisconnectTracksLeaverAndDropsSession(t *testing.T) {
	t.Parallel()

	fixture := newAppFixture(t)

	require.True(t, fixture.app.OnSay(fixture.admin, "!ctban"))
	menusShown := fixture.display.menus

	fixture.app.OnDisconnect(fixture.admin)

	// The session is gone, further input does nothing.
	fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, menu.Input{Option: 1})
	require.Equal(t, menusShown, fixture.display.menus)

	// The leaver shows up as a quick-pick ban target once disconnected.
	gone := player.Identity{SteamID: steamid.RandSID64(), UserID: 4, Name: "ragequit"}
	fixture.app.OnDisconnect(gone)
	fixture.roster.players = []player.Identity{fixture.admin}

	require.True(t, fixture.app.OnSay(fixture.admin, "!ctban"))
	fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, menu.Input{Option: 1})
	fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, menu.Input{Text: "#4"})

	// Tracker entries are not connected, so the id token cannot resolve. Pick
	// from the offered list instead, where the leaver is the only entry.
	fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, menu.Input{Option: 1})
	fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, menu.Input{Option: 3}) // leaver reason
	fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, menu.Input{Option: 1}) // permanent
	fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, menu.Input{Option: 1}) // confirm

	require.False(t, fixture.app.OnJoinTeam(gone.SteamID, team.CounterTerrorists).Allowed)
}

func TestLevelEndSweepsExpired(t *testing.T) {
	t.Parallel()

	fixture := newAppFixture(t)

	// A permanent ban is never swept.
	require.True(t, fixture.app.OnSay(fixture.admin, "!ctban"))
	for _, input := range []menu.Input{
		{Option: 1}, {Text: "#2"}, {Option: 1}, {Option: 1}, {Option: 1},
	} {
		fixture.app.OnMenuInput(t.Context(), fixture.admin.SteamID, input)
	}

	fixture.app.OnLevelEnd(t.Context())
	require.Len(t, fixture.app.Bans().All(), 1)
}
