package player

import (
	"strconv"
	"strings"

	"github.com/ryanuber/go-glob"
)

// Outcome classifies the result of resolving a target token against the roster.
type Outcome int

const (
	// NotFound means no connected player matched the token.
	NotFound Outcome = iota
	// Unique means exactly one player matched.
	Unique
	// Ambiguous means the token matched more than one player name.
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	case NotFound:
		fallthrough
	default:
		return "not found"
	}
}

// Resolution is the outcome of a single Resolve call. Player is only valid when
// Outcome is Unique. Candidates is populated when Outcome is Ambiguous so the
// caller can present them for re-selection instead of guessing.
type Resolution struct {
	Outcome    Outcome
	Player     Identity
	Candidates []Identity
}

// Resolve matches token against a roster snapshot. A token of the form "#<digits>"
// is looked up by session user id and can never be ambiguous. Any other token is
// matched as a case-insensitive substring of the connected display names.
//
// Pure function of its inputs, no side effects.
func Resolve(token string, roster []Identity) Resolution {
	token = strings.TrimSpace(token)
	if token == "" {
		return Resolution{Outcome: NotFound}
	}

	if userID, ok := parseUserIDToken(token); ok {
		for _, candidate := range roster {
			if candidate.UserID == userID {
				return Resolution{Outcome: Unique, Player: candidate}
			}
		}

		return Resolution{Outcome: NotFound}
	}

	queryName := strings.ToLower(token)
	if !strings.HasPrefix(queryName, "*") {
		queryName = "*" + queryName
	}

	if !strings.HasSuffix(queryName, "*") {
		queryName += "*"
	}

	var matches []Identity

	for _, candidate := range roster {
		if glob.Glob(queryName, strings.ToLower(candidate.Name)) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return Resolution{Outcome: NotFound}
	case 1:
		return Resolution{Outcome: Unique, Player: matches[0]}
	default:
		return Resolution{Outcome: Ambiguous, Candidates: matches}
	}
}

func parseUserIDToken(token string) (int, bool) {
	if !strings.HasPrefix(token, "#") {
		return 0, false
	}

	userID, errParse := strconv.Atoi(token[1:])
	if errParse != nil || userID < 0 {
		return 0, false
	}

	return userID, true
}
