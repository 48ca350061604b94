package team_test

import (
	"testing"
	"time"

	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/ban/reason"
	"github.com/leighmacdonald/ctbans/internal/team"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	require.Equal(t, team.Terrorists, team.Parse("t"))
	require.Equal(t, team.Terrorists, team.Parse("Terrorists"))
	require.Equal(t, team.Spectator, team.Parse("spec"))
	require.Equal(t, team.CounterTerrorists, team.Parse("ct"))
	require.Equal(t, team.CounterTerrorists, team.Parse(""))
	require.Equal(t, team.CounterTerrorists, team.Parse("garbage"))
}

func TestEnforcer(t *testing.T) {
	t.Parallel()

	var (
		bans     = ban.NewStore(ban.NewMemoryRepository())
		enforcer = team.NewEnforcer(bans, team.CounterTerrorists)
		source   = steamid.RandSID64()
		banned   = steamid.RandSID64()
		clean    = steamid.RandSID64()
	)

	_, errBan := bans.Ban(t.Context(), ban.Opts{
		TargetID: banned, Name: "Ayuto", Reason: reason.Freekill, SourceID: source,
	})
	require.NoError(t, errBan)

	require.True(t, enforcer.OnJoinAttempt(clean, team.CounterTerrorists).Allowed)

	verdict := enforcer.OnJoinAttempt(banned, team.CounterTerrorists)
	require.False(t, verdict.Allowed)
	require.Equal(t, "You are banned from the CT team (Freekill).", verdict.Reason)
	require.Equal(t, team.DenySound, verdict.Sound)

	// Other teams stay open to banned players, with no deny cue.
	require.True(t, enforcer.OnJoinAttempt(banned, team.Terrorists).Allowed)
	require.Empty(t, enforcer.OnJoinAttempt(banned, team.Terrorists).Sound)
	require.True(t, enforcer.OnJoinAttempt(banned, team.Spectator).Allowed)
}

func TestEviction(t *testing.T) {
	t.Parallel()

	require.Equal(t, team.Terrorists, team.Eviction(team.CounterTerrorists))
	require.Equal(t, team.CounterTerrorists, team.Eviction(team.Terrorists))
	require.Equal(t, team.Terrorists, team.Eviction(team.Spectator))
}

func TestEnforcerTimedBan(t *testing.T) {
	t.Parallel()

	var (
		bans     = ban.NewStore(ban.NewMemoryRepository())
		enforcer = team.NewEnforcer(bans, team.CounterTerrorists)
		banned   = steamid.RandSID64()
	)

	_, errBan := bans.Ban(t.Context(), ban.Opts{
		TargetID: banned, Name: "Ayushi", Reason: reason.Leaver,
		SourceID: steamid.RandSID64(), Duration: time.Hour,
	})
	require.NoError(t, errBan)

	verdict := enforcer.OnJoinAttempt(banned, team.CounterTerrorists)
	require.False(t, verdict.Allowed)
	require.Contains(t, verdict.Reason, "expires")
	require.Equal(t, team.DenySound, verdict.Sound)

	removed, errUnban := bans.Unban(t.Context(), banned)
	require.NoError(t, errUnban)
	require.True(t, removed)

	require.True(t, enforcer.OnJoinAttempt(banned, team.CounterTerrorists).Allowed)
}
