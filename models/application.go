package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// OpportunityProgramme is the programme attached to the opportunity an
// application targets.
type OpportunityProgramme struct {
	ID               *int64  `json:"id"`
	ShortNameDisplay *string `json:"short_name_display"`
}

// ApplicationPerson is the person snapshot embedded on an application.
type ApplicationPerson struct {
	ID       *int64    `json:"id"`
	FullName *string   `json:"full_name"`
	Email    *string   `json:"email"`
	HomeLc   *Location `json:"home_lc,omitempty"`
	HomeMc   *Location `json:"home_mc,omitempty"`
}

// ApplicationOpportunity is the opportunity snapshot embedded on an
// application.
type ApplicationOpportunity struct {
	ID        *int64                `json:"id"`
	Title     *string               `json:"title"`
	Programme *OpportunityProgramme `json:"programme,omitempty"`
}

// Application is one EXPA opportunity application. LcAlignmentID is not
// an upstream field: it is copied from the matching persisted Person at
// insert time and never recomputed afterwards.
type Application struct {
	ID            uint                    `gorm:"primary_key" json:"-"`
	ExpaID        int64                   `gorm:"uniqueIndex;not null" json:"id"`
	Status        *string                 `gorm:"size:50;index" json:"status"`
	CurrentStatus *string                 `gorm:"size:50;index" json:"current_status"`
	CreatedAtExpa *time.Time              `gorm:"index" json:"created_at"`
	UpdatedAtExpa *time.Time              `gorm:"index" json:"updated_at"`
	DateMatched   *time.Time              `json:"date_matched"`
	DateApproved  *time.Time              `json:"date_approved"`
	LcAlignmentID *int64                  `gorm:"index" json:"lc_alignment_id,omitempty"`
	Person        *ApplicationPerson      `gorm:"serializer:json" json:"person,omitempty"`
	Opportunity   *ApplicationOpportunity `gorm:"serializer:json" json:"opportunity,omitempty"`
	CreatedAt     time.Time               `gorm:"autoCreateTime" json:"-"`
	UpdatedAt     time.Time               `gorm:"autoUpdateTime" json:"-"`
}

// ApplicationListQuery filters GET /applications.
type ApplicationListQuery struct {
	Page          int
	PerPage       int
	Status        string
	CurrentStatus string
	Search        string
}

// ListApplications returns one page of persisted applications, newest
// EXPA update first, with the total row count for pagination.
func ListApplications(ctx context.Context, db *gorm.DB, q ApplicationListQuery) ([]Application, int64, error) {
	base := db.WithContext(ctx).Model(&Application{})

	if q.Status != "" {
		base = base.Where("status = ?", q.Status)
	}
	if q.CurrentStatus != "" {
		base = base.Where("current_status = ?", q.CurrentStatus)
	}
	if q.Search != "" {
		base = base.Where("person->>'$.full_name' LIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []Application
	err := base.
		Order("updated_at_expa DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// ExistingApplicationExpaIDs reports which of the candidate upstream ids
// are already persisted.
func ExistingApplicationExpaIDs(ctx context.Context, db *gorm.DB, candidates []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool)
	if len(candidates) == 0 {
		return existing, nil
	}

	var ids []int64
	err := db.WithContext(ctx).Model(&Application{}).
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
