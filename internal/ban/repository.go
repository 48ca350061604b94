package ban

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/leighmacdonald/ctbans/internal/ban/reason"
	"github.com/leighmacdonald/ctbans/internal/database"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

type repository struct {
	db database.Database
}

// NewRepository returns the postgres backed ban Repository.
func NewRepository(database database.Database) Repository {
	return &repository{db: database}
}

func (r *repository) LoadAll(ctx context.Context) ([]Record, error) {
	query := r.db.
		Builder().
		Select("steam_id", "display_name", "reason", "source_id", "created_on", "valid_until").
		From("ct_ban").
		OrderBy("created_on ASC")

	rows, errQuery := r.db.QueryBuilder(ctx, query)
	if errQuery != nil {
		return nil, r.db.DBErr(errQuery)
	}

	defer rows.Close()

	var records []Record

	for rows.Next() {
		var (
			record     Record
			targetID   int64
			sourceID   int64
			banReason  int
			validUntil time.Time
		)

		if errScan := rows.Scan(&targetID, &record.Name, &banReason, &sourceID,
			&record.CreatedOn, &validUntil); errScan != nil {
			return nil, r.db.DBErr(errScan)
		}

		record.SteamID = steamid.New(targetID)
		record.SourceID = steamid.New(sourceID)
		record.Reason = reason.Reason(banReason)

		// The permanent marker is stored as the zero time.
		if validUntil.Unix() > 0 {
			record.ValidUntil = validUntil
		}

		records = append(records, record)
	}

	if records == nil {
		return []Record{}, nil
	}

	return records, nil
}

func (r *repository) Upsert(ctx context.Context, record Record) error {
	const query = `
		INSERT INTO ct_ban (steam_id, display_name, reason, source_id, created_on, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (steam_id)
		DO UPDATE SET display_name = $2, reason = $3, source_id = $4, created_on = $5, valid_until = $6`

	if errExec := r.db.Exec(ctx, query, record.SteamID.Int64(), record.Name, int(record.Reason),
		record.SourceID.Int64(), record.CreatedOn, record.ValidUntil); errExec != nil {
		return r.db.DBErr(errExec)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, steamID steamid.SteamID) error {
	builder := r.db.
		Builder().
		Delete("ct_ban").
		Where(sq.Eq{"steam_id": steamID.Int64()})

	if errExec := r.db.ExecDeleteBuilder(ctx, builder); errExec != nil &&
		!errors.Is(errExec, database.ErrNoResult) {
		return r.db.DBErr(errExec)
	}

	return nil
}
