package permission

import (
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// Permission names a capability configured in the host authorization system.
// The actual names are operator configurable, see config.Permissions.
type Permission string

// Checker is implemented by the host permission system. Checks are made per
// step, never cached for the lifetime of a menu session.
type Checker interface {
	Allowed(operator steamid.SteamID, perm Permission) bool
}

// AllowAll grants every permission. Useful for tests and local development.
type AllowAll struct{}

func (AllowAll) Allowed(_ steamid.SteamID, _ Permission) bool {
	return true
}
