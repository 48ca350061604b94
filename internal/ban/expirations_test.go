package ban

import (
	"testing"
	"time"

	"github.com/leighmacdonald/ctbans/internal/ban/reason"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/stretchr/testify/require"
)

func TestExpiry(t *testing.T) {
	t.Parallel()

	var (
		bans    = NewStore(NewMemoryRepository())
		source  = steamid.RandSID64()
		timed   = steamid.RandSID64()
		forever = steamid.RandSID64()
		current = time.Now()
	)

	bans.now = func() time.Time { return current }

	_, errTimed := bans.Ban(t.Context(), Opts{
		TargetID: timed, Name: "Ayushi", Reason: reason.Leaver, SourceID: source,
		Duration: 15 * time.Minute,
	})
	require.NoError(t, errTimed)

	_, errForever := bans.Ban(t.Context(), Opts{
		TargetID: forever, Name: "necavi", Reason: reason.Manual, SourceID: source,
	})
	require.NoError(t, errForever)

	_, banned := bans.Current(timed)
	require.True(t, banned)
	require.Empty(t, bans.Expired())

	// Sitting exactly on the expiry boundary counts as expired.
	current = current.Add(15 * time.Minute)

	_, banned = bans.Current(timed)
	require.False(t, banned)

	expired := bans.Expired()
	require.Len(t, expired, 1)
	require.Equal(t, timed, expired[0].SteamID)

	NewExpirationMonitor(bans).Update(t.Context())

	require.Len(t, bans.All(), 1)
	require.Equal(t, forever, bans.All()[0].SteamID)

	_, banned = bans.Current(forever)
	require.True(t, banned)
}

func TestExpiredRecordNotCurrentBeforeSweep(t *testing.T) {
	t.Parallel()

	var (
		bans    = NewStore(NewMemoryRepository())
		target  = steamid.RandSID64()
		current = time.Now()
	)

	bans.now = func() time.Time { return current }

	_, errBan := bans.Ban(t.Context(), Opts{
		TargetID: target, Name: "Ayuto", Reason: reason.Freekill, SourceID: steamid.RandSID64(),
		Duration: time.Hour,
	})
	require.NoError(t, errBan)

	current = current.Add(2 * time.Hour)

	// Not swept yet, but no longer reported as banned.
	require.Len(t, bans.All(), 1)

	_, banned := bans.Current(target)
	require.False(t, banned)
}
