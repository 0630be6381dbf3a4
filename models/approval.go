package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Approval is one manually recorded approval entry: an append-only
// ledger, never updated or deleted. Value is summed, not counted, by the
// aggregator.
type Approval struct {
	ID            uint            `gorm:"primary_key" json:"id"`
	LcAlignmentID int64           `gorm:"index;not null" json:"lc_alignment_id"`
	Value         decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"value"`
	ProgrammeID   *int64          `json:"programme_id,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"-"`
}
