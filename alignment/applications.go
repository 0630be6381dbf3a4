package alignment

import (
	"context"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
	"gorm.io/gorm"
)

// loadApplicationObservations projects the matching Application rows
// onto the aggregation axes. Applications are grouped by the alignment
// id copied from the applicant at sync time, never re-derived here.
func loadApplicationObservations(ctx context.Context, db *gorm.DB, ids []int64, window *Window) ([]observation, error) {
	query := db.WithContext(ctx).Model(&models.Application{}).
		Select("lc_alignment_id", "created_at_expa", "opportunity")

	if len(ids) > 0 {
		query = query.Where("lc_alignment_id IN ?", ids)
	} else {
		query = query.Where("lc_alignment_id IS NOT NULL")
	}
	if window != nil {
		query = query.Where("created_at_expa >= ? AND created_at_expa < ?", window.Start, window.End)
	}

	var rows []models.Application
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
		if row.Opportunity != nil && row.Opportunity.Programme != nil && row.Opportunity.Programme.ID != nil {
			obs.programme = models.ProgrammeTypeFromID(*row.Opportunity.Programme.ID)
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// ApplicationCounts returns per-alignment application totals, optionally
// limited to a time window ("today"). Explicit ids are zero-filled.
func ApplicationCounts(ctx context.Context, db *gorm.DB, ids []int64, window *Window) ([]AlignmentCount, error) {
	observations, err := loadApplicationObservations(ctx, db, ids, window)
	if err != nil {
		return nil, err
	}
	return countTotals(observations, ids, "applications"), nil
}

// ApplicationBreakdowns returns per-alignment application totals split
// into the programme buckets.
func ApplicationBreakdowns(ctx context.Context, db *gorm.DB, ids []int64, window *Window) ([]AlignmentBreakdown, error) {
	observations, err := loadApplicationObservations(ctx, db, ids, window)
	if err != nil {
		return nil, err
	}
	return countBreakdowns(observations, ids), nil
}

// ApplicationDailyCounts returns the application time series over the
// inclusive [start, end] UTC day range.
func ApplicationDailyCounts(ctx context.Context, db *gorm.DB, ids []int64, start, end time.Time) ([]DailyCounts, error) {
	window := RangeWindow(start, end)
	observations, err := loadApplicationObservations(ctx, db, ids, &window)
	if err != nil {
		return nil, err
	}
	return countDaily(observations, ids, DaySeries(start, end), "applications"), nil
}

// ApplicationDailyBreakdowns is the programme-aware daily series.
func ApplicationDailyBreakdowns(ctx context.Context, db *gorm.DB, ids []int64, start, end time.Time) ([]DailyBreakdowns, error) {
	window := RangeWindow(start, end)
	observations, err := loadApplicationObservations(ctx, db, ids, &window)
	if err != nil {
		return nil, err
	}
	return countDailyBreakdowns(observations, ids, DaySeries(start, end)), nil
}
