package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/leighmacdonald/ctbans/internal/ban"
	"github.com/leighmacdonald/ctbans/internal/chat"
	"github.com/leighmacdonald/ctbans/internal/config"
	"github.com/leighmacdonald/ctbans/internal/database"
	"github.com/leighmacdonald/ctbans/internal/menu"
	"github.com/leighmacdonald/ctbans/internal/permission"
	"github.com/leighmacdonald/ctbans/internal/player"
	"github.com/leighmacdonald/ctbans/internal/team"
	"github.com/leighmacdonald/ctbans/internal/tracker"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

var ErrDatabase = errors.New("failed to connect to database")

// expirationInterval is how often timed bans are swept outside of level ends.
const expirationInterval = time.Minute

// Host bundles the capabilities the game engine adapter must provide.
type Host struct {
	Roster  player.Provider
	Perms   permission.Checker
	Display menu.Display
	Mover   menu.TeamMover
}

// App owns the plugin services, constructed once at startup and passed by
// reference to the host event handlers. Every On* method is expected to be
// called from the host's single event thread.
type App struct {
	conf        config.Configuration
	database    database.Database
	bans        *ban.Store
	trackers    *tracker.Tracker
	menus       *menu.Manager
	router      *chat.Router
	enforcer    *team.Enforcer
	expirations *ban.ExpirationMonitor
}

func New(conf config.Configuration, host Host) *App {
	dbConn := database.New(conf.DB.DSN, conf.DB.AutoMigrate, conf.DB.LogQueries)
	bans := ban.NewStore(ban.NewRepository(dbConn))

	return build(conf, host, dbConn, bans)
}

// NewWithRepository wires the app against a caller supplied ban repository.
// Used by the tests and by hosts that bring their own storage.
func NewWithRepository(conf config.Configuration, host Host, repo ban.Repository) *App {
	return build(conf, host, nil, ban.NewStore(repo))
}

func build(conf config.Configuration, host Host, dbConn database.Database, bans *ban.Store) *App {
	trackers := tracker.New(func(steamID steamid.SteamID) bool {
		_, banned := bans.Current(steamID)

		return banned
	})

	restricted := team.Parse(conf.General.RestrictedTeam)

	menus := menu.NewManager(bans, host.Roster, host.Perms, host.Display, host.Mover, trackers,
		permission.Permission(conf.Permissions.OpenMenu), team.Eviction(restricted),
		conf.General.MessagePrefix)

	router := chat.NewRouter(conf.Commands, host.Perms,
		permission.Permission(conf.Permissions.OpenMenu),
		permission.Permission(conf.Permissions.CheckStatus),
		menus, host.Roster, bans, host.Display, conf.General.MessagePrefix)

	return &App{
		conf:        conf,
		database:    dbConn,
		bans:        bans,
		trackers:    trackers,
		menus:       menus,
		router:      router,
		enforcer:    team.NewEnforcer(bans, restricted),
		expirations: ban.NewExpirationMonitor(bans),
	}
}

// Init connects storage and loads the persisted ban list.
func (app *App) Init(ctx context.Context) error {
	if app.database != nil {
		if errConnect := app.database.Connect(ctx); errConnect != nil {
			return errors.Join(errConnect, ErrDatabase)
		}
	}

	if errLoad := app.bans.Load(ctx); errLoad != nil {
		return errLoad
	}

	slog.Info("Ban list loaded", slog.Int("count", len(app.bans.All())))

	return nil
}

// Close releases the persistence handle.
func (app *App) Close() {
	if app.database != nil {
		if errClose := app.database.Close(); errClose != nil {
			slog.Error("Failed to close database", slog.String("error", errClose.Error()))
		}
	}
}

// Run blocks until ctx is cancelled, sweeping expired bans periodically.
func (app *App) Run(ctx context.Context) {
	ticker := time.NewTicker(expirationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			app.expirations.Update(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Bans exposes the store for the CLI subcommands.
func (app *App) Bans() *ban.Store {
	return app.bans
}

// OnSay handles one chat line. Returns true when the line was consumed as a
// command and should be blocked from regular chat.
func (app *App) OnSay(source player.Identity, text string) bool {
	return app.router.OnSay(source, text)
}

// OnMenuInput feeds one menu interaction from the host UI into the operator's
// live session.
func (app *App) OnMenuInput(ctx context.Context, operator steamid.SteamID, input menu.Input) {
	app.menus.HandleInput(ctx, operator, input)
}

// OnJoinTeam is invoked by the host's team-join hook.
func (app *App) OnJoinTeam(steamID steamid.SteamID, requested team.Team) team.Verdict {
	return app.enforcer.OnJoinAttempt(steamID, requested)
}

// OnDisconnect records a potential leaver and drops any menu session the
// player owned.
func (app *App) OnDisconnect(leaver player.Identity) {
	app.trackers.OnDisconnect(leaver)
	app.menus.Drop(leaver.SteamID)
}

// OnDeath records the attacker as a potential freekiller.
func (app *App) OnDeath(victim player.Identity, attacker player.Identity) {
	app.trackers.OnDeath(victim, attacker)
}

// OnLevelEnd sweeps expired bans at the map boundary.
func (app *App) OnLevelEnd(ctx context.Context) {
	app.expirations.Update(ctx)
}
