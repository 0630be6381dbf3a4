package alignment

import (
	"context"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
	"gorm.io/gorm"
)

// loadSignupObservations projects the matching Person rows onto the
// aggregation axes. People are grouped by their alignment reference and
// windowed on the source timestamp; rows without an alignment never
// participate.
func loadSignupObservations(ctx context.Context, db *gorm.DB, ids []int64, window *Window) ([]observation, error) {
	query := db.WithContext(ctx).Model(&models.Person{}).
		Select("lc_alignment_id", "created_at_expa", "person_profile")

	if len(ids) > 0 {
		query = query.Where("lc_alignment_id IN ?", ids)
	} else {
		query = query.Where("lc_alignment_id IS NOT NULL")
	}
	if window != nil {
		query = query.Where("created_at_expa >= ? AND created_at_expa < ?", window.Start, window.End)
	}

	var rows []models.Person
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	observations := make([]observation, 0, len(rows))
	for _, row := range rows {
		if row.LcAlignmentID == nil {
			continue
		}

		obs := observation{alignmentID: *row.LcAlignmentID}
		if row.CreatedAtExpa != nil {
			obs.day = row.CreatedAtExpa.UTC().Format(dayLayout)
		}
		if row.PersonProfile != nil {
			obs.programme = models.ProgrammeTypeFromSelected(row.PersonProfile.SelectedProgrammes)
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// SignupCounts returns per-alignment signup totals, optionally limited
// to a time window ("today"). Explicit ids are zero-filled.
func SignupCounts(ctx context.Context, db *gorm.DB, ids []int64, window *Window) ([]AlignmentCount, error) {
	observations, err := loadSignupObservations(ctx, db, ids, window)
	if err != nil {
		return nil, err
	}
	return countTotals(observations, ids, "signups"), nil
}

// SignupBreakdowns returns per-alignment signup totals split into the
// programme buckets.
func SignupBreakdowns(ctx context.Context, db *gorm.DB, ids []int64, window *Window) ([]AlignmentBreakdown, error) {
	observations, err := loadSignupObservations(ctx, db, ids, window)
	if err != nil {
		return nil, err
	}
	return countBreakdowns(observations, ids), nil
}

// SignupDailyCounts returns the signup time series over the inclusive
// [start, end] UTC day range: every day present, ascending, zero-filled.
func SignupDailyCounts(ctx context.Context, db *gorm.DB, ids []int64, start, end time.Time) ([]DailyCounts, error) {
	window := RangeWindow(start, end)
	observations, err := loadSignupObservations(ctx, db, ids, &window)
	if err != nil {
		return nil, err
	}
	return countDaily(observations, ids, DaySeries(start, end), "signups"), nil
}

// SignupDailyBreakdowns is the programme-aware daily series.
func SignupDailyBreakdowns(ctx context.Context, db *gorm.DB, ids []int64, start, end time.Time) ([]DailyBreakdowns, error) {
	window := RangeWindow(start, end)
	observations, err := loadSignupObservations(ctx, db, ids, &window)
	if err != nil {
		return nil, err
	}
	return countDailyBreakdowns(observations, ids, DaySeries(start, end)), nil
}
