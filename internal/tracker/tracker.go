package tracker

import (
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// DefaultLimit is how many recent leavers/freekillers are kept per list.
const DefaultLimit = 5

// Entry is a remembered player. Name is captured at track time since the
// player may no longer be connected when the list is shown.
type Entry struct {
	SteamID steamid.SteamID
	Name    string
}

// Recent is a bounded most-recently-seen list. Oldest entries are evicted
// once the limit is reached.
type Recent struct {
	limit   int
	entries []Entry
}

func NewRecent(limit int) *Recent {
	return &Recent{limit: limit}
}

// Track appends the player unless already present.
func (r *Recent) Track(steamID steamid.SteamID, name string) {
	for _, existing := range r.entries {
		if existing.SteamID == steamID {
			return
		}
	}

	r.entries = append(r.entries, Entry{SteamID: steamID, Name: name})
	if len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}
}

func (r *Recent) Remove(steamID steamid.SteamID) {
	for idx, existing := range r.entries {
		if existing.SteamID == steamID {
			r.entries = append(r.entries[:idx], r.entries[idx+1:]...)

			return
		}
	}
}

func (r *Recent) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}

// Tracker remembers recent leavers and freekillers so the ban menu can offer
// them as quick-pick targets.
type Tracker struct {
	leavers     *Recent
	freekillers *Recent
	isBanned    func(steamid.SteamID) bool
}

func New(isBanned func(steamid.SteamID) bool) *Tracker {
	return &Tracker{
		leavers:     NewRecent(DefaultLimit),
		freekillers: NewRecent(DefaultLimit),
		isBanned:    isBanned,
	}
}

// OnDisconnect records a player leaving mid-match.
func (t *Tracker) OnDisconnect(leaver player.Identity) {
	if t.isBanned(leaver.SteamID) {
		return
	}

	t.leavers.Track(leaver.SteamID, leaver.Name)
}

// OnDeath records the attacker as a potential freekiller. Self kills are ignored.
func (t *Tracker) OnDeath(victim player.Identity, attacker player.Identity) {
	if !attacker.Valid() || attacker.SteamID == victim.SteamID {
		return
	}

	if t.isBanned(attacker.SteamID) {
		return
	}

	t.freekillers.Track(attacker.SteamID, attacker.Name)
}

// Forget drops the player from both lists, called once a ban is committed.
func (t *Tracker) Forget(steamID steamid.SteamID) {
	t.leavers.Remove(steamID)
	t.freekillers.Remove(steamID)
}

func (t *Tracker) Leavers() []Entry {
	return t.leavers.Entries()
}

func (t *Tracker) Freekillers() []Entry {
	return t.freekillers.Entries()
}
