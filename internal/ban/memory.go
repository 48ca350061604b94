package ban

import (
	"context"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

// memoryRepository keeps records in process memory only. Used by the tests and
// when running without a database configured.
type memoryRepository struct {
	records []Record
}

func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) LoadAll(_ context.Context) ([]Record, error) {
	out := make([]Record, len(r.records))
	copy(out, r.records)

	return out, nil
}

func (r *memoryRepository) Upsert(_ context.Context, record Record) error {
	for idx := range r.records {
		if r.records[idx].SteamID == record.SteamID {
			r.records[idx] = record

			return nil
		}
	}

	r.records = append(r.records, record)

	return nil
}

func (r *memoryRepository) Delete(_ context.Context, steamID steamid.SteamID) error {
	for idx := range r.records {
		if r.records[idx].SteamID == steamID {
			r.records = append(r.records[:idx], r.records[idx+1:]...)

			return nil
		}
	}

	return nil
}
