package team

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// Team uses the engine's team numbering.
type Team int

const (
	Unassigned Team = iota
	Spectator
	Terrorists
	CounterTerrorists
)

func (t Team) String() string {
	switch t {
	case Spectator:
		return "spectator"
	case Terrorists:
		return "t"
	case CounterTerrorists:
		return "ct"
	case Unassigned:
		fallthrough
	default:
		return "unassigned"
	}
}

// Parse maps a config value onto a team. Unknown values fall back to CT, the
// side this plugin exists to police.
func Parse(value string) Team {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "t", "terrorists":
		return Terrorists
	case "spectator", "spec":
		return Spectator
	default:
		return CounterTerrorists
	}
}

// Eviction returns the side a freshly banned player still on the restricted
// team is moved to.
func Eviction(restricted Team) Team {
	if restricted == Terrorists {
		return CounterTerrorists
	}

	return Terrorists
}

// DenySound is played to the player alongside a blocked join message,
// relative to the engine's sound/ directory.
const DenySound = "buttons/button11.wav"

// Verdict is the outcome of a join attempt check.
type Verdict struct {
	Allowed bool
	// Reason is shown to the player when the attempt is denied.
	Reason string
	// Sound is an engine sound path to play on denial, empty for none.
	Sound string
}

var allow = Verdict{Allowed: true} //nolint:gochecknoglobals

// Enforcer blocks banned players from joining the restricted team. Read-only
// consumer of the ban store.
type Enforcer struct {
	bans       *ban.Store
	restricted Team
}

func NewEnforcer(bans *ban.Store, restricted Team) *Enforcer {
	return &Enforcer{bans: bans, restricted: restricted}
}

// OnJoinAttempt is invoked by the host team-join hook before the engine
// applies the change.
func (e *Enforcer) OnJoinAttempt(steamID steamid.SteamID, requested Team) Verdict {
	if requested != e.restricted {
		return allow
	}

	record, banned := e.bans.Current(steamID)
	if !banned {
		return allow
	}

	if record.Permanent() {
		return Verdict{
			Reason: fmt.Sprintf("You are banned from the CT team (%s).", record.Reason),
			Sound:  DenySound,
		}
	}

	return Verdict{
		Reason: fmt.Sprintf("You are banned from the CT team (%s, expires %s).",
			record.Reason, humanize.Time(record.ValidUntil)),
		Sound: DenySound,
	}
}
