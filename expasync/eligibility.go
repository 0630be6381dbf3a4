package expasync

import (
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
)

// EligibilityFilter decides which fetched records are worth persisting.
// Two independent predicate sets: people go through an instant cutoff,
// applications through a committee match plus a calendar-month window.
// Downstream counts depend on these shapes, so they must not drift.
type EligibilityFilter struct {
	cfg config.SyncConfig
}

func NewEligibilityFilter(cfg config.SyncConfig) *EligibilityFilter {
	return &EligibilityFilter{cfg: cfg}
}

// PersonEligible: the source created_at parsed and falls on or after the
// signup cutoff instant.
func (f *EligibilityFilter) PersonEligible(createdAt *time.Time) bool {
	if createdAt == nil {
		return false
	}
	return !createdAt.Before(f.cfg.SignupCutoff)
}

// ApplicationEligible: the applicant's home LC matches the target
// committee by id AND name, and the application was created within the
// target UTC calendar month.
func (f *EligibilityFilter) ApplicationEligible(person *rawApplicationPerson, createdAt *time.Time) bool {
	if person == nil || person.HomeLc == nil {
		return false
	}
	if person.HomeLc.ID == nil || int64(*person.HomeLc.ID) != f.cfg.TargetLCID {
		return false
	}
	if person.HomeLc.Name == nil || *person.HomeLc.Name != f.cfg.TargetLCName {
		return false
	}
	if createdAt == nil {
		return false
	}
	return createdAt.UTC().Month() == f.cfg.TargetMonth
}

// EnforceCreatedFrom pushes the upstream created_at.from filter up to at
// least the configured lower bound before the applications fetch, so the
// API never hands back records older than the reporting window.
func (f *EligibilityFilter) EnforceCreatedFrom(filters map[string]any) map[string]any {
	enforced := make(map[string]any, len(filters)+1)
	for key, value := range filters {
		enforced[key] = value
	}

	createdAt := make(map[string]any)
	if existing, ok := enforced["created_at"].(map[string]any); ok {
		for key, value := range existing {
			createdAt[key] = value
		}
	}

	floor := f.cfg.ApplicationsCreatedFrom
	override := true
	if raw, ok := createdAt["from"].(string); ok {
		if from, err := time.Parse(time.RFC3339, raw); err == nil && !from.Before(floor) {
			override = false
		}
	}
	if override {
		createdAt["from"] = floor.UTC().Format(time.RFC3339)
	}

	enforced["created_at"] = createdAt
	return enforced
}
