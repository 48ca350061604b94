package menu

import (
	"errors"
	"fmt"
	"time"

	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/ban/reason"
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/ctbans/internal/tracker"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

var (
	// ErrInvalidTransition means the input does not match the options of the
	// session's current step. The session is left unchanged.
	ErrInvalidTransition = errors.New("input does not match the current menu step")
	// ErrTargetNotFound means a free text token matched no connected player.
	// The session stays at the target step for a re-prompt.
	ErrTargetNotFound = errors.New("no connected player matched the token")
)

// Action is what the operator wants to do with the selected target.
type Action int

const (
	ActionNone Action = iota
	ActionBan
	ActionUnban
	ActionStatus
)

func (a Action) String() string {
	switch a {
	case ActionBan:
		return "Ban player"
	case ActionUnban:
		return "Unban player"
	case ActionStatus:
		return "Check ban status"
	case ActionNone:
		fallthrough
	default:
		return "None"
	}
}

// Step identifies where in the flow a session currently is.
type Step int

const (
	StepChooseAction Step = iota
	StepChooseTarget
	StepChooseReason
	StepChooseDuration
	StepConfirm
	// StepCommitted is terminal. The action has been applied.
	StepCommitted
	// StepCancelled is terminal. Nothing was applied.
	StepCancelled
)

func (s Step) String() string {
	switch s {
	case StepChooseAction:
		return "choose action"
	case StepChooseTarget:
		return "choose target"
	case StepChooseReason:
		return "choose reason"
	case StepChooseDuration:
		return "choose duration"
	case StepConfirm:
		return "confirm"
	case StepCommitted:
		return "committed"
	case StepCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Input is a single operator interaction, delivered by the host menu UI. Either
// Option (1 based selection), Text (a free target token) or Cancel is set.
type Input struct {
	Cancel bool
	Option int
	Text   string
}

// Env is the world snapshot selections are resolved against. Captured once per
// input so rendering and the transition agree on option ordering.
type Env struct {
	Roster      []player.Identity
	Banned      []ban.Record
	Leavers     []tracker.Entry
	Freekillers []tracker.Entry
}

// Session is the per operator transient menu state. At most one live session
// exists per operator; reopening the menu replaces it.
type Session struct {
	Operator   player.Identity
	Step       Step
	Action     Action
	Target     player.Identity
	TargetSet  bool
	Candidates []player.Identity
	Reason     reason.Reason
	Duration   time.Duration
}

func NewSession(operator player.Identity) Session {
	return Session{Operator: operator, Step: StepChooseAction}
}

// Advance applies one input to a session, returning the next session state.
// Pure function: committing the selected action is the caller's job once the
// returned step is StepCommitted.
func Advance(session Session, input Input, env Env) (Session, error) {
	if session.Step == StepCommitted || session.Step == StepCancelled {
		return session, ErrInvalidTransition
	}

	if input.Cancel {
		session.Step = StepCancelled

		return session, nil
	}

	switch session.Step {
	case StepChooseAction:
		switch input.Option {
		case 1:
			session.Action = ActionBan
		case 2:
			session.Action = ActionUnban
		case 3:
			session.Action = ActionStatus
		default:
			return session, ErrInvalidTransition
		}

		session.Step = StepChooseTarget

		return session, nil

	case StepChooseTarget:
		return advanceTarget(session, input, env)

	case StepChooseReason:
		if input.Option < 1 || input.Option > len(reason.Reasons) {
			return session, ErrInvalidTransition
		}

		session.Reason = reason.Reasons[input.Option-1]
		session.Step = StepChooseDuration

		return session, nil

	case StepChooseDuration:
		if input.Option < 1 || input.Option > len(ban.Durations) {
			return session, ErrInvalidTransition
		}

		session.Duration = ban.Durations[input.Option-1]
		session.Step = StepConfirm

		return session, nil

	case StepConfirm:
		switch input.Option {
		case 1:
			session.Step = StepCommitted
		case 2:
			session.Step = StepCancelled
		default:
			return session, ErrInvalidTransition
		}

		return session, nil

	case StepCommitted, StepCancelled:
		fallthrough
	default:
		return session, ErrInvalidTransition
	}
}

func advanceTarget(session Session, input Input, env Env) (Session, error) {
	if input.Text != "" {
		resolution := player.Resolve(input.Text, env.Roster)

		switch resolution.Outcome {
		case player.NotFound:
			return session, ErrTargetNotFound
		case player.Ambiguous:
			// Candidates become the selectable options for the next input.
			session.Candidates = resolution.Candidates

			return session, nil
		case player.Unique:
			fallthrough
		default:
			return withTarget(session, resolution.Player), nil
		}
	}

	targets := targetChoices(session, env)
	if input.Option < 1 || input.Option > len(targets) {
		return session, ErrInvalidTransition
	}

	return withTarget(session, targets[input.Option-1]), nil
}

func withTarget(session Session, target player.Identity) Session {
	session.Target = target
	session.TargetSet = true
	session.Candidates = nil

	switch session.Action {
	case ActionBan:
		session.Step = StepChooseReason
	case ActionUnban:
		session.Step = StepConfirm
	case ActionStatus:
		session.Step = StepCommitted
	case ActionNone:
	}

	return session
}

// targetChoices is the identity list behind the options shown at the target
// step. Must stay in sync with Options.
func targetChoices(session Session, env Env) []player.Identity {
	if session.Candidates != nil {
		return session.Candidates
	}

	if session.Action == ActionUnban {
		choices := make([]player.Identity, 0, len(env.Banned))
		for _, record := range env.Banned {
			choices = append(choices, player.Identity{SteamID: record.SteamID, Name: record.Name})
		}

		return choices
	}

	choices := make([]player.Identity, 0, len(env.Roster))
	for _, connected := range env.Roster {
		if connected.SteamID == session.Operator.SteamID {
			continue
		}

		choices = append(choices, connected)
	}

	if session.Action == ActionBan {
		for _, entry := range env.Leavers {
			if !rosterContains(env.Roster, entry.SteamID) {
				choices = append(choices, player.Identity{SteamID: entry.SteamID, Name: entry.Name})
			}
		}

		for _, entry := range env.Freekillers {
			if !rosterContains(env.Roster, entry.SteamID) {
				choices = append(choices, player.Identity{SteamID: entry.SteamID, Name: entry.Name})
			}
		}
	}

	return choices
}

func rosterContains(roster []player.Identity, steamID steamid.SteamID) bool {
	for _, connected := range roster {
		if connected.SteamID == steamID {
			return true
		}
	}

	return false
}

// Option is one selectable menu entry as shown to the operator.
type Option struct {
	Label string
}

// Options returns the selectable entries for the session's current step.
func Options(session Session, env Env) []Option {
	switch session.Step {
	case StepChooseAction:
		return []Option{
			{Label: ActionBan.String()},
			{Label: ActionUnban.String()},
			{Label: ActionStatus.String()},
		}
	case StepChooseTarget:
		return targetOptions(session, env)
	case StepChooseReason:
		options := make([]Option, 0, len(reason.Reasons))
		for _, banReason := range reason.Reasons {
			options = append(options, Option{Label: banReason.String()})
		}

		return options
	case StepChooseDuration:
		options := make([]Option, 0, len(ban.Durations))
		for _, duration := range ban.Durations {
			options = append(options, Option{Label: ban.DurationString(duration)})
		}

		return options
	case StepConfirm:
		return []Option{{Label: "Confirm"}, {Label: "Cancel"}}
	case StepCommitted, StepCancelled:
		fallthrough
	default:
		return nil
	}
}

func targetOptions(session Session, env Env) []Option {
	choices := targetChoices(session, env)
	options := make([]Option, 0, len(choices))

	for _, choice := range choices {
		label := choice.Name

		if session.Action == ActionUnban || !rosterContains(env.Roster, choice.SteamID) {
			label = fmt.Sprintf("%s (%d)", choice.Name, choice.SteamID.Int64())
		}

		options = append(options, Option{Label: label})
	}

	return options
}

// Title is the menu heading for the session's current step.
func Title(session Session) string {
	switch session.Step {
	case StepChooseAction:
		return "CTBAN"
	case StepChooseTarget:
		return session.Action.String()
	case StepChooseReason:
		return "Ban reason"
	case StepChooseDuration:
		return "Ban time"
	case StepConfirm:
		return "Confirm"
	case StepCommitted, StepCancelled:
		fallthrough
	default:
		return ""
	}
}

// Summary describes the pending action shown at the confirm step. Notes when
// the selected target has disconnected since selection; the action still
// applies since it is keyed by steam id.
func Summary(session Session, env Env) string {
	var text string

	switch session.Action {
	case ActionBan:
		text = fmt.Sprintf("Ban %s from the CT team (%s, %s)",
			session.Target.Name, session.Reason, ban.DurationString(session.Duration))
	case ActionUnban:
		text = fmt.Sprintf("Unban %s from the CT team", session.Target.Name)
	case ActionStatus, ActionNone:
		fallthrough
	default:
		text = session.Action.String()
	}

	if !rosterContains(env.Roster, session.Target.SteamID) {
		text += " [no longer connected]"
	}

	return text
}
