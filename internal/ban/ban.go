package ban

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leighmacdonald/ctbans/internal/ban/reason"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

var (
	ErrInvalidBanOpts     = errors.New("invalid ban options")
	ErrInvalidTargetID    = errors.New("invalid target steam id")
	ErrInvalidSourceID    = errors.New("invalid source steam id")
	ErrInvalidBanReason   = errors.New("invalid ban reason")
	ErrInvalidBanDuration = errors.New("invalid ban duration")
	ErrSaveBan            = errors.New("failed to save ban")
	ErrDropBan            = errors.New("failed to drop ban")
	ErrLoadBans           = errors.New("failed to load bans")
)

// Permanent is the zero valued ValidUntil marker.
const Permanent = time.Duration(0)

// Durations is the selectable ban duration ladder, Permanent first.
var Durations = []time.Duration{ //nolint:gochecknoglobals
	Permanent,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
}

// DurationString renders a ladder entry the way the duration menu shows it.
func DurationString(duration time.Duration) string {
	switch duration {
	case Permanent:
		return "permanently"
	case 24 * time.Hour:
		return "1 day"
	case 3 * 24 * time.Hour:
		return "3 days"
	case 7 * 24 * time.Hour:
		return "7 days"
	default:
		if duration >= time.Hour {
			hours := int(duration / time.Hour)
			if hours == 1 {
				return "1 hour"
			}

			return fmt.Sprintf("%d hours", hours)
		}

		return fmt.Sprintf("%d minutes", int(duration/time.Minute))
	}
}

// Record is the authoritative state of a single CT ban. There is at most one
// record per target steam id; banning an already banned player replaces it.
type Record struct {
	SteamID steamid.SteamID
	// Name the target had when the ban was committed.
	Name   string
	Reason reason.Reason
	// SourceID identifies the operator who issued the ban.
	SourceID  steamid.SteamID
	CreatedOn time.Time
	// ValidUntil is the expiry time. The zero value means the ban is permanent.
	ValidUntil time.Time
}

func (r Record) Permanent() bool {
	return r.ValidUntil.IsZero()
}

// ActiveAt reports whether the ban is in force at the given time.
func (r Record) ActiveAt(now time.Time) bool {
	return r.Permanent() || now.Before(r.ValidUntil)
}

// Opts are the inputs for creating or replacing a ban.
type Opts struct {
	TargetID steamid.SteamID
	// Name is the display name of the target at ban time.
	Name     string
	Reason   reason.Reason
	SourceID steamid.SteamID
	// Duration of the ban, Permanent for no expiry.
	Duration time.Duration
}

func (opts Opts) Validate() error {
	if !opts.TargetID.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidBanOpts, ErrInvalidTargetID)
	}

	if !opts.SourceID.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidBanOpts, ErrInvalidSourceID)
	}

	if !opts.Reason.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidBanOpts, ErrInvalidBanReason)
	}

	if opts.Duration < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBanOpts, ErrInvalidBanDuration)
	}

	return nil
}

// Repository is the persistence contract for ban records, keyed by steam id.
type Repository interface {
	// LoadAll returns every persisted record, oldest first.
	LoadAll(ctx context.Context) ([]Record, error)
	// Upsert inserts the record, replacing any existing record for the same steam id.
	Upsert(ctx context.Context, record Record) error
	// Delete removes the record for the steam id. Deleting an absent record is not an error.
	Delete(ctx context.Context, steamID steamid.SteamID) error
}

// Store is the in-memory view of the ban list, kept consistent with the
// repository by performing the durable write before the in-memory mutation.
//
// All access happens on the host event thread, so there is no locking. The CLI
// subcommands construct their own Store in a separate process.
type Store struct {
	repo    Repository
	records map[steamid.SteamID]Record
	// order preserves first-insertion order for menu listings.
	order []steamid.SteamID
	now   func() time.Time
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo:    repo,
		records: map[steamid.SteamID]Record{},
		now:     time.Now,
	}
}

// Load replaces the in-memory state with the persisted records.
func (s *Store) Load(ctx context.Context) error {
	loaded, errLoad := s.repo.LoadAll(ctx)
	if errLoad != nil {
		return errors.Join(errLoad, ErrLoadBans)
	}

	s.records = make(map[steamid.SteamID]Record, len(loaded))
	s.order = s.order[:0]

	for _, record := range loaded {
		if _, exists := s.records[record.SteamID]; !exists {
			s.order = append(s.order, record.SteamID)
		}

		s.records[record.SteamID] = record
	}

	return nil
}

// Current returns the active ban for the steam id, if any. Expired records
// that have not been swept yet do not count.
func (s *Store) Current(steamID steamid.SteamID) (Record, bool) {
	record, exists := s.records[steamID]
	if !exists || !record.ActiveAt(s.now()) {
		return Record{}, false
	}

	return record, true
}

// Ban inserts or replaces the record for the target. Re-banning an already
// banned player updates reason, source and expiry rather than erroring.
func (s *Store) Ban(ctx context.Context, opts Opts) (Record, error) {
	if errValidate := opts.Validate(); errValidate != nil {
		return Record{}, errValidate
	}

	record := Record{
		SteamID:   opts.TargetID,
		Name:      opts.Name,
		Reason:    opts.Reason,
		SourceID:  opts.SourceID,
		CreatedOn: s.now(),
	}

	if opts.Duration != Permanent {
		record.ValidUntil = record.CreatedOn.Add(opts.Duration)
	}

	if errUpsert := s.repo.Upsert(ctx, record); errUpsert != nil {
		return Record{}, errors.Join(errUpsert, ErrSaveBan)
	}

	if _, exists := s.records[record.SteamID]; !exists {
		s.order = append(s.order, record.SteamID)
	}

	s.records[record.SteamID] = record

	return record, nil
}

// Unban removes the record for the steam id. Returns false when no record
// existed, which is a normal negative result, not an error.
func (s *Store) Unban(ctx context.Context, steamID steamid.SteamID) (bool, error) {
	if _, exists := s.records[steamID]; !exists {
		return false, nil
	}

	if errDelete := s.repo.Delete(ctx, steamID); errDelete != nil {
		return false, errors.Join(errDelete, ErrDropBan)
	}

	delete(s.records, steamID)

	for idx, sid := range s.order {
		if sid == steamID {
			s.order = append(s.order[:idx], s.order[idx+1:]...)

			break
		}
	}

	return true, nil
}

// All returns every record, including expired ones pending sweep, in
// first-insertion order.
func (s *Store) All() []Record {
	records := make([]Record, 0, len(s.order))
	for _, sid := range s.order {
		records = append(records, s.records[sid])
	}

	return records
}

// Expired returns the records whose expiry has passed.
func (s *Store) Expired() []Record {
	now := s.now()

	var expired []Record

	for _, sid := range s.order {
		record := s.records[sid]
		if !record.Permanent() && !now.Before(record.ValidUntil) {
			expired = append(expired, record)
		}
	}

	return expired
}
