package alignment

import (
	"context"
	"sort"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewApproval is the validated input for one approval ledger entry.
type NewApproval struct {
	LcAlignmentID *int64           `json:"lc_alignment_id" validate:"required"`
	Value         *decimal.Decimal `json:"value" validate:"required"`
	ProgrammeID   *int64           `json:"programme_id"`
}

// ApprovalSum is one per-alignment approval total (summed values, not
// record counts).
type ApprovalSum struct {
	LcAlignmentID int64           `json:"lc_alignment_id"`
	Approvals     decimal.Decimal `json:"approvals"`
}

// ApprovalBreakdown splits an alignment's approval total into the
// programme buckets. Entries recorded without a programme count toward
// Total only.
type ApprovalBreakdown struct {
	LcAlignmentID int64           `json:"lc_alignment_id"`
	Total         decimal.Decimal `json:"total"`
	OGV           decimal.Decimal `json:"ogv"`
	OGT           decimal.Decimal `json:"ogt"`
}

// CreateApproval validates and appends one ledger entry. Violations are
// client input errors and nothing is written.
func CreateApproval(ctx context.Context, db *gorm.DB, input NewApproval) (*models.Approval, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.Value.IsNegative() {
		return nil, utils.NewClientInputError("value must be a non-negative number")
	}
	if input.ProgrammeID != nil && !models.IsKnownProgrammeID(*input.ProgrammeID) {
		return nil, utils.NewClientInputError("programme_id %d is not a known programme", *input.ProgrammeID)
	}

	approval := &models.Approval{
		LcAlignmentID: *input.LcAlignmentID,
		Value:         *input.Value,
		ProgrammeID:   input.ProgrammeID,
	}
	if err := db.WithContext(ctx).Create(approval).Error; err != nil {
		return nil, err
	}
	return approval, nil
}

func loadApprovals(ctx context.Context, db *gorm.DB, ids []int64) ([]models.Approval, error) {
	query := db.WithContext(ctx).Model(&models.Approval{})
	if len(ids) > 0 {
		query = query.Where("lc_alignment_id IN ?", ids)
	}

	var rows []models.Approval
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// resolveApprovalIDs mirrors resolveIDs for ledger rows.
func resolveApprovalIDs(explicit []int64, rows []models.Approval) []int64 {
	if len(explicit) > 0 {
		return explicit
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, row := range rows {
		if !seen[row.LcAlignmentID] {
			seen[row.LcAlignmentID] = true
			ids = append(ids, row.LcAlignmentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ApprovalSums returns the summed approval value per alignment id, with
// the usual completeness rule: explicit ids zero-filled in caller order,
// otherwise observed ids ascending.
func ApprovalSums(ctx context.Context, db *gorm.DB, ids []int64) ([]ApprovalSum, error) {
	rows, err := loadApprovals(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	sums := make(map[int64]decimal.Decimal)
	for _, row := range rows {
		sums[row.LcAlignmentID] = sums[row.LcAlignmentID].Add(row.Value)
	}

	resolved := resolveApprovalIDs(ids, rows)
	result := make([]ApprovalSum, 0, len(resolved))
	for _, id := range resolved {
		result = append(result, ApprovalSum{LcAlignmentID: id, Approvals: sums[id]})
	}
	return result, nil
}

// ApprovalBreakdowns returns the summed approval value per alignment id
// and programme bucket.
func ApprovalBreakdowns(ctx context.Context, db *gorm.DB, ids []int64) ([]ApprovalBreakdown, error) {
	rows, err := loadApprovals(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int64]*ApprovalBreakdown)
	for _, row := range rows {
		bucket := buckets[row.LcAlignmentID]
		if bucket == nil {
			bucket = &ApprovalBreakdown{LcAlignmentID: row.LcAlignmentID}
			buckets[row.LcAlignmentID] = bucket
		}
		bucket.Total = bucket.Total.Add(row.Value)
		if row.ProgrammeID != nil {
			switch models.ProgrammeTypeFromID(*row.ProgrammeID) {
			case models.ProgrammeTypeOGV:
				bucket.OGV = bucket.OGV.Add(row.Value)
			case models.ProgrammeTypeOGT:
				bucket.OGT = bucket.OGT.Add(row.Value)
			}
		}
	}

	resolved := resolveApprovalIDs(ids, rows)
	result := make([]ApprovalBreakdown, 0, len(resolved))
	for _, id := range resolved {
		if bucket, ok := buckets[id]; ok {
			result = append(result, *bucket)
		} else {
			result = append(result, ApprovalBreakdown{LcAlignmentID: id})
		}
	}
	return result, nil
}
