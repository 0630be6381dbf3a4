package expasync

import (
	"context"
	"errors"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
	"gorm.io/gorm"
)

// Result reports the stages of one sync run. Every field is always set;
// an empty fetch yields an all-zero Result, never partial fields.
type Result struct {
	Fetched  int `json:"fetched"`
	Eligible int `json:"eligible"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// insertNew inserts records one at a time, unordered-batch style: a
// duplicate-key conflict (another run won the race for that external id)
// is tolerated and the record treated as already present; any other
// per-record failure is logged and must not block the siblings.
func insertNew[T any](ctx context.Context, db *gorm.DB, records []*T) (inserted int) {
	for _, record := range records {
		if err := db.WithContext(ctx).Create(record).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				config.LogError(config.GetLogger(), "expasync", "insertNew", "Create", record, err)
			}
			continue
		}
		inserted++
	}
	return inserted
}
