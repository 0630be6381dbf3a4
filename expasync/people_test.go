package expasync

import (
	"context"
	"testing"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/expa"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
)

const (
	eligiblePersonA = `{"id": 101, "full_name": "A", "created_at": "2025-11-07T09:00:00Z", "lc_alignment": {"id": 5}}`
	eligiblePersonB = `{"id": "102", "full_name": "B", "created_at": "2025-11-08T09:00:00Z"}`
	tooOldPerson    = `{"id": 103, "full_name": "Old", "created_at": "2025-10-01T09:00:00Z"}`
	undatedPerson   = `{"id": 104, "full_name": "Undated"}`
)

func TestSyncPeopleFiltersAndInserts(t *testing.T) {
	db := openTestDB(t)
	syncer := testSyncer(t, peoplePage(eligiblePersonA, eligiblePersonB, tooOldPerson, undatedPerson))

	result, err := syncer.SyncPeople(context.Background(), db, expa.PageRequest{Page: 1, PerPage: 50})
	if err != nil {
		t.Fatalf("SyncPeople: %v", err)
	}

	if result.Fetched != 4 {
		t.Errorf("fetched = %d, want 4", result.Fetched)
	}
	if result.Eligible != 2 {
		t.Errorf("eligible = %d, want 2 (cutoff drops the old and undated records)", result.Eligible)
	}
	if result.Inserted != 2 {
		t.Errorf("inserted = %d, want 2", result.Inserted)
	}
	if result.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", result.Skipped)
	}

	var people []models.Person
	if err := db.Order("expa_id").Find(&people).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("persisted %d rows, want 2", len(people))
	}
	if people[0].ExpaID != 101 || people[1].ExpaID != 102 {
		t.Errorf("persisted ids = [%d, %d], want [101, 102]", people[0].ExpaID, people[1].ExpaID)
	}
	if people[0].LcAlignmentID == nil || *people[0].LcAlignmentID != 5 {
		t.Errorf("alignment of 101 = %v, want 5", people[0].LcAlignmentID)
	}
	if people[1].LcAlignmentID != nil {
		t.Errorf("alignment of 102 = %v, want nil", people[1].LcAlignmentID)
	}
}

func TestSyncPeopleIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	syncer := testSyncer(t, peoplePage(eligiblePersonA, eligiblePersonB))

	first, err := syncer.SyncPeople(context.Background(), db, expa.PageRequest{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Inserted != 2 {
		t.Fatalf("first run inserted = %d, want 2", first.Inserted)
	}

	second, err := syncer.SyncPeople(context.Background(), db, expa.PageRequest{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.Fetched != 2 || second.Eligible != 2 {
		t.Errorf("second run fetched/eligible = %d/%d, want 2/2", second.Fetched, second.Eligible)
	}
	if second.Inserted != 0 {
		t.Errorf("second run inserted = %d, want 0", second.Inserted)
	}
	if second.Skipped != 2 {
		t.Errorf("second run skipped = %d, want 2", second.Skipped)
	}

	var count int64
	if err := db.Model(&models.Person{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("row count after rerun = %d, want 2", count)
	}
}

func TestSyncPeopleEmptyPage(t *testing.T) {
	db := openTestDB(t)
	syncer := testSyncer(t, peoplePage())

	result, err := syncer.SyncPeople(context.Background(), db, expa.PageRequest{})
	if err != nil {
		t.Fatalf("SyncPeople: %v", err)
	}

	if result != (Result{}) {
		t.Errorf("result = %+v, want all zero", result)
	}
}

func TestSyncPeopleDoesNotUpdateExistingRows(t *testing.T) {
	db := openTestDB(t)

	first := testSyncer(t, peoplePage(`{"id": 101, "full_name": "Original", "created_at": "2025-11-07T09:00:00Z"}`))
	if _, err := first.SyncPeople(context.Background(), db, expa.PageRequest{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// The upstream record changed; the persisted snapshot must not.
	second := testSyncer(t, peoplePage(`{"id": 101, "full_name": "Renamed", "created_at": "2025-11-07T09:00:00Z"}`))
	result, err := second.SyncPeople(context.Background(), db, expa.PageRequest{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Inserted != 0 || result.Skipped != 1 {
		t.Errorf("result = %+v, want inserted 0 skipped 1", result)
	}

	var person models.Person
	if err := db.Where("expa_id = ?", 101).First(&person).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if person.FullName == nil || *person.FullName != "Original" {
		t.Errorf("full_name = %v, want the first-sync snapshot", person.FullName)
	}
}
