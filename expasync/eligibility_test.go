package expasync

import (
	"testing"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
)

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		SignupCutoff:            time.Date(2025, time.November, 5, 18, 30, 0, 0, time.UTC),
		TargetLCID:              1340,
		TargetLCName:            "COLOMBO SOUTH",
		TargetMonth:             time.November,
		ApplicationsCreatedFrom: time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC),
	}
}

func targetPerson() *rawApplicationPerson {
	id := ExternalID(1340)
	name := "COLOMBO SOUTH"
	return &rawApplicationPerson{HomeLc: &rawLocation{ID: &id, Name: &name}}
}

func TestPersonEligibleCutoffBoundary(t *testing.T) {
	filter := NewEligibilityFilter(testSyncConfig())
	cutoff := testSyncConfig().SignupCutoff

	if filter.PersonEligible(nil) {
		t.Error("nil created_at accepted, want rejected")
	}

	before := cutoff.Add(-time.Second)
	if filter.PersonEligible(&before) {
		t.Error("instant before the cutoff accepted")
	}

	// The cutoff instant itself is eligible (on or after).
	at := cutoff
	if !filter.PersonEligible(&at) {
		t.Error("cutoff instant rejected, want eligible")
	}

	after := cutoff.Add(time.Second)
	if !filter.PersonEligible(&after) {
		t.Error("instant after the cutoff rejected")
	}
}

func TestApplicationEligibleRequiresCommitteeAndMonth(t *testing.T) {
	filter := NewEligibilityFilter(testSyncConfig())
	november := time.Date(2025, time.November, 12, 10, 0, 0, 0, time.UTC)
	december := time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC)

	if !filter.ApplicationEligible(targetPerson(), &november) {
		t.Error("matching committee in the target month rejected")
	}

	if filter.ApplicationEligible(nil, &november) {
		t.Error("nil person accepted")
	}
	if filter.ApplicationEligible(&rawApplicationPerson{}, &november) {
		t.Error("person without home_lc accepted")
	}

	wrongID := targetPerson()
	otherID := ExternalID(999)
	wrongID.HomeLc.ID = &otherID
	if filter.ApplicationEligible(wrongID, &november) {
		t.Error("wrong committee id accepted")
	}

	wrongName := targetPerson()
	otherName := "COLOMBO NORTH"
	wrongName.HomeLc.Name = &otherName
	if filter.ApplicationEligible(wrongName, &november) {
		t.Error("wrong committee name accepted (id and name must both match)")
	}

	if filter.ApplicationEligible(targetPerson(), &december) {
		t.Error("application outside the target month accepted")
	}
	if filter.ApplicationEligible(targetPerson(), nil) {
		t.Error("nil created_at accepted")
	}
}

func TestApplicationEligibleMonthIsEvaluatedInUTC(t *testing.T) {
	filter := NewEligibilityFilter(testSyncConfig())

	// 1 Dec 02:00 +05:30 is still 30 Nov 20:30 UTC.
	local := time.Date(2025, time.December, 1, 2, 0, 0, 0, time.FixedZone("", config.SriLankaOffsetSeconds))
	if !filter.ApplicationEligible(targetPerson(), &local) {
		t.Error("instant that is still November in UTC rejected")
	}
}

func TestEnforceCreatedFromOverridesLooseFilters(t *testing.T) {
	filter := NewEligibilityFilter(testSyncConfig())
	floor := "2024-11-05T00:00:00Z"

	// No filters at all: the floor is installed.
	enforced := filter.EnforceCreatedFrom(nil)
	createdAt, ok := enforced["created_at"].(map[string]any)
	if !ok {
		t.Fatalf("created_at filter missing: %v", enforced)
	}
	if createdAt["from"] != floor {
		t.Errorf("from = %v, want %s", createdAt["from"], floor)
	}

	// A from below the floor is raised.
	enforced = filter.EnforceCreatedFrom(map[string]any{
		"created_at": map[string]any{"from": "2020-01-01T00:00:00Z", "to": "2026-01-01T00:00:00Z"},
	})
	createdAt = enforced["created_at"].(map[string]any)
	if createdAt["from"] != floor {
		t.Errorf("from = %v, want raised to %s", createdAt["from"], floor)
	}
	if createdAt["to"] != "2026-01-01T00:00:00Z" {
		t.Errorf("to = %v, want preserved", createdAt["to"])
	}

	// A from at or above the floor passes through untouched.
	enforced = filter.EnforceCreatedFrom(map[string]any{
		"created_at": map[string]any{"from": "2025-11-01T00:00:00Z"},
	})
	createdAt = enforced["created_at"].(map[string]any)
	if createdAt["from"] != "2025-11-01T00:00:00Z" {
		t.Errorf("from = %v, want untouched", createdAt["from"])
	}
}

func TestEnforceCreatedFromDoesNotMutateInput(t *testing.T) {
	filter := NewEligibilityFilter(testSyncConfig())

	original := map[string]any{"status": "open"}
	enforced := filter.EnforceCreatedFrom(original)

	if _, ok := original["created_at"]; ok {
		t.Error("input map was mutated")
	}
	if enforced["status"] != "open" {
		t.Errorf("status = %v, want carried over", enforced["status"])
	}
}
