package menu

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/permission"
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/ctbans/internal/team"
	"github.com/leighmacdonald/ctbans/internal/tracker"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// Display is the host rendering surface. Menu presents a titled option list to
// one player, Message sends a single chat line, Broadcast sends one to everyone.
type Display interface {
	Menu(target steamid.SteamID, title string, options []Option)
	Message(target steamid.SteamID, text string)
	Broadcast(text string)
}

// TeamMover relocates a connected player onto another team. Invoked when a ban
// commits against a target still on the server, so they do not finish the
// round on the restricted side.
type TeamMover interface {
	MoveToTeam(target steamid.SteamID, dest team.Team)
}

// Manager owns the live sessions, one per operator, and applies the committed
// action to the ban store at the terminal transition. Runs on the host event
// thread, no locking.
type Manager struct {
	sessions map[steamid.SteamID]Session
	bans     *ban.Store
	roster   player.Provider
	perms    permission.Checker
	display  Display
	mover    TeamMover
	trackers *tracker.Tracker
	openPerm permission.Permission
	evictTo  team.Team
	prefix   string
}

func NewManager(bans *ban.Store, roster player.Provider, perms permission.Checker,
	display Display, mover TeamMover, trackers *tracker.Tracker,
	openPerm permission.Permission, evictTo team.Team, prefix string,
) *Manager {
	return &Manager{
		sessions: map[steamid.SteamID]Session{},
		bans:     bans,
		roster:   roster,
		perms:    perms,
		display:  display,
		mover:    mover,
		trackers: trackers,
		openPerm: openPerm,
		evictTo:  evictTo,
		prefix:   prefix,
	}
}

// Open starts a fresh session for the operator, replacing any prior one.
// Unauthorized operators get no response at all.
func (m *Manager) Open(operator player.Identity) {
	if !m.perms.Allowed(operator.SteamID, m.openPerm) {
		return
	}

	session := NewSession(operator)
	m.sessions[operator.SteamID] = session
	m.present(session)
}

// HandleInput applies one menu interaction from the operator. Inputs from
// players without a live session are ignored. Permission is re-checked on
// every step; a revoked operator loses the session silently.
func (m *Manager) HandleInput(ctx context.Context, operator steamid.SteamID, input Input) {
	session, exists := m.sessions[operator]
	if !exists {
		return
	}

	if !m.perms.Allowed(operator, m.openPerm) {
		delete(m.sessions, operator)

		return
	}

	env := m.env()

	next, errAdvance := Advance(session, input, env)
	if errAdvance != nil {
		switch {
		case errors.Is(errAdvance, ErrTargetNotFound):
			m.display.Message(operator, m.prefix+"Sorry, can't find that player.")
		case errors.Is(errAdvance, ErrInvalidTransition):
			m.display.Message(operator, m.prefix+"Invalid selection.")
		}

		m.present(session)

		return
	}

	switch next.Step {
	case StepCommitted:
		delete(m.sessions, operator)
		m.commit(ctx, next, env)
	case StepCancelled:
		delete(m.sessions, operator)
	case StepChooseAction, StepChooseTarget, StepChooseReason, StepChooseDuration, StepConfirm:
		fallthrough
	default:
		m.sessions[operator] = next
		m.present(next)
	}
}

// Drop destroys the operator's session, if any. Called on disconnect.
func (m *Manager) Drop(operator steamid.SteamID) {
	delete(m.sessions, operator)
}

// SessionCount is used by tests and diagnostics.
func (m *Manager) SessionCount() int {
	return len(m.sessions)
}

func (m *Manager) env() Env {
	return Env{
		Roster:      m.roster.Players(),
		Banned:      m.bans.All(),
		Leavers:     m.trackers.Leavers(),
		Freekillers: m.trackers.Freekillers(),
	}
}

func (m *Manager) present(session Session) {
	if session.Step == StepConfirm {
		m.display.Message(session.Operator.SteamID, m.prefix+Summary(session, m.env()))
	}

	m.display.Menu(session.Operator.SteamID, Title(session), Options(session, m.env()))
}

func (m *Manager) commit(ctx context.Context, session Session, env Env) {
	operator := session.Operator

	switch session.Action {
	case ActionBan:
		record, errBan := m.bans.Ban(ctx, ban.Opts{
			TargetID: session.Target.SteamID,
			Name:     session.Target.Name,
			Reason:   session.Reason,
			SourceID: operator.SteamID,
			Duration: session.Duration,
		})
		if errBan != nil {
			slog.Error("Failed to save ban",
				slog.Int64("sid64", session.Target.SteamID.Int64()),
				slog.String("error", errBan.Error()))
			m.display.Message(operator.SteamID, m.prefix+"Failed to save ban, nothing was changed.")

			return
		}

		// A target still on the server is moved off the restricted team right
		// away rather than waiting for their next team pick.
		if rosterContains(env.Roster, record.SteamID) {
			m.mover.MoveToTeam(record.SteamID, m.evictTo)
		}

		m.trackers.Forget(record.SteamID)
		m.display.Broadcast(m.prefix + record.Name + " has been banned from the CT team (" +
			ban.DurationString(session.Duration) + ").")
		slog.Info("Player banned from CT",
			slog.Int64("sid64", record.SteamID.Int64()),
			slog.String("reason", record.Reason.String()),
			slog.Int64("source", operator.SteamID.Int64()))

	case ActionUnban:
		removed, errUnban := m.bans.Unban(ctx, session.Target.SteamID)
		if errUnban != nil {
			slog.Error("Failed to remove ban",
				slog.Int64("sid64", session.Target.SteamID.Int64()),
				slog.String("error", errUnban.Error()))
			m.display.Message(operator.SteamID, m.prefix+"Failed to remove ban, nothing was changed.")

			return
		}

		if !removed {
			m.display.Message(operator.SteamID, m.prefix+session.Target.Name+" was not banned.")

			return
		}

		m.display.Broadcast(m.prefix + session.Target.Name + " has been unbanned from the CT team.")
		slog.Info("Player unbanned from CT",
			slog.Int64("sid64", session.Target.SteamID.Int64()),
			slog.Int64("source", operator.SteamID.Int64()))

	case ActionStatus:
		record, banned := m.bans.Current(session.Target.SteamID)
		m.display.Message(operator.SteamID, m.prefix+ban.StatusText(session.Target.Name, record, banned))

	case ActionNone:
	}
}
