package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Location is a committee reference embedded on a record (home_lc /
// home_mc). Stored as a JSON column so an absent committee stays NULL
// instead of degrading into an empty struct.
type Location struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// PersonProfile carries the selected programme ids, normalized to their
// string forms at sync time.
type PersonProfile struct {
	SelectedProgrammes []string `json:"selected_programmes"`
}

// Person is one EXPA signup. ExpaID is the upstream id and the dedup
// key; rows are inserted once by the sync and never updated in place, so
// a row is a snapshot of the person at first sight.
type Person struct {
	ID                         uint           `gorm:"primary_key" json:"-"`
	ExpaID                     int64          `gorm:"uniqueIndex;not null" json:"id"`
	HasOpportunityApplications *bool          `json:"has_opportunity_applications"`
	FullName                   *string        `gorm:"size:255" json:"full_name"`
	Status                     *string        `gorm:"size:50;index" json:"status"`
	CreatedAtExpa              *time.Time     `gorm:"index" json:"created_at_expa"`
	UpdatedAtExpa              *time.Time     `gorm:"index" json:"updated_at"`
	LastActiveAt               *time.Time     `json:"last_active_at"`
	HomeLc                     *Location      `gorm:"serializer:json" json:"home_lc,omitempty"`
	HomeMc                     *Location      `gorm:"serializer:json" json:"home_mc,omitempty"`
	PersonProfile              *PersonProfile `gorm:"serializer:json" json:"person_profile,omitempty"`
	LcAlignmentID              *int64         `gorm:"index" json:"lc_alignment_id,omitempty"`
	CreatedAt                  time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt                  time.Time      `gorm:"autoUpdateTime" json:"-"`
}

// PersonListQuery filters GET /people.
type PersonListQuery struct {
	Page    int
	PerPage int
	Status  string
	Search  string
}

// ListPeople returns one page of persisted signups, newest EXPA update
// first, with the total row count for pagination.
func ListPeople(ctx context.Context, db *gorm.DB, q PersonListQuery) ([]Person, int64, error) {
	base := db.WithContext(ctx).Model(&Person{})

	if q.Status != "" {
		base = base.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		base = base.Where("full_name LIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var people []Person
	err := base.
		Order("updated_at_expa DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&people).Error
	if err != nil {
		return nil, 0, err
	}

	return people, total, nil
}

// ExistingPersonExpaIDs reports which of the candidate upstream ids are
// already persisted.
func ExistingPersonExpaIDs(ctx context.Context, db *gorm.DB, candidates []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool)
	if len(candidates) == 0 {
		return existing, nil
	}

	var ids []int64
	err := db.WithContext(ctx).Model(&Person{}).
		Where("expa_id IN ?", candidates).
		Pluck("expa_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

// PersonAlignmentMap resolves person expa id -> persisted alignment id
// for the application enrichment join. People without an alignment are
// absent from the map.
func PersonAlignmentMap(ctx context.Context, db *gorm.DB, personIDs []int64) (map[int64]int64, error) {
	alignments := make(map[int64]int64)
	if len(personIDs) == 0 {
		return alignments, nil
	}

	var rows []Person
	err := db.WithContext(ctx).Model(&Person{}).
		Select("expa_id", "lc_alignment_id").
		Where("expa_id IN ?", personIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row.LcAlignmentID != nil {
			alignments[row.ExpaID] = *row.LcAlignmentID
		}
	}
	return alignments, nil
}
