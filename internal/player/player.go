package player

import (
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// Identity is the narrow view of a connected player that the core operates on. The
// host engine exposes a much larger player surface, none of which we want to depend on.
type Identity struct {
	// SteamID is stable across reconnects and is the only safe long term ban key.
	SteamID steamid.SteamID
	// UserID is the session scoped id, only valid for the current connection.
	UserID int
	// Name is the current display name. Mutable and not unique.
	Name string
}

func (i Identity) Valid() bool {
	return i.SteamID.Valid()
}

// Provider yields a snapshot of the currently connected players.
type Provider interface {
	Players() []Identity
}
