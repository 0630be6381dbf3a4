package alignment

import (
	"encoding/json"
	"testing"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
)

func TestCountTotalsZeroFillsExplicitIDs(t *testing.T) {
	observations := []observation{
		{alignmentID: 2, day: "2025-11-01"},
		{alignmentID: 2, day: "2025-11-01"},
		{alignmentID: 5, day: "2025-11-02"},
	}

	got := countTotals(observations, []int64{9, 2, 5}, "signups")
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}

	// Caller order preserved, absent id zero-filled.
	if got[0].LcAlignmentID != 9 || got[0].Count != 0 {
		t.Errorf("entry 0 = %+v, want id 9 count 0", got[0])
	}
	if got[1].LcAlignmentID != 2 || got[1].Count != 2 {
		t.Errorf("entry 1 = %+v, want id 2 count 2", got[1])
	}
	if got[2].LcAlignmentID != 5 || got[2].Count != 1 {
		t.Errorf("entry 2 = %+v, want id 5 count 1", got[2])
	}
}

func TestCountTotalsWithoutExplicitIDsSortsObserved(t *testing.T) {
	observations := []observation{
		{alignmentID: 7},
		{alignmentID: 3},
		{alignmentID: 7},
	}

	got := countTotals(observations, nil, "applications")
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].LcAlignmentID != 3 || got[1].LcAlignmentID != 7 {
		t.Errorf("ids = [%d, %d], want ascending [3, 7]", got[0].LcAlignmentID, got[1].LcAlignmentID)
	}
}

func TestAlignmentCountJSONUsesMetricKey(t *testing.T) {
	data, err := json.Marshal(AlignmentCount{LcAlignmentID: 4, Metric: "signups", Count: 12})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]int64
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["lc_alignment_id"] != 4 {
		t.Errorf("lc_alignment_id = %d, want 4", decoded["lc_alignment_id"])
	}
	if decoded["signups"] != 12 {
		t.Errorf("signups = %d, want 12", decoded["signups"])
	}
}

func TestCountBreakdownsBuckets(t *testing.T) {
	observations := []observation{
		{alignmentID: 1, programme: models.ProgrammeTypeOGV},
		{alignmentID: 1, programme: models.ProgrammeTypeOGT},
		{alignmentID: 1, programme: models.ProgrammeTypeNone},
		{alignmentID: 1, programme: models.ProgrammeTypeOGV},
	}

	got := countBreakdowns(observations, []int64{1, 2})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}

	first := got[0]
	if first.Total != 4 || first.OGV != 2 || first.OGT != 1 {
		t.Errorf("breakdown = %+v, want total 4 ogv 2 ogt 1", first)
	}
	if first.OGV+first.OGT >= first.Total {
		// The unclassified record must sit in Total only.
		t.Errorf("ogv+ogt = %d, want < total %d", first.OGV+first.OGT, first.Total)
	}

	second := got[1]
	if second.LcAlignmentID != 2 || second.Total != 0 || second.OGV != 0 || second.OGT != 0 {
		t.Errorf("zero-filled breakdown = %+v, want all zero for id 2", second)
	}
}

func TestCountDailyCoversEveryDay(t *testing.T) {
	observations := []observation{
		{alignmentID: 1, day: "2025-01-01"},
		{alignmentID: 1, day: "2025-01-03"},
		{alignmentID: 1, day: "2025-01-03"},
	}
	days := []string{"2025-01-01", "2025-01-02", "2025-01-03"}

	got := countDaily(observations, []int64{1}, days, "signups")
	if len(got) != 3 {
		t.Fatalf("got %d days, want 3", len(got))
	}

	wantCounts := map[string]int{"2025-01-01": 1, "2025-01-02": 0, "2025-01-03": 2}
	for i, entry := range got {
		if entry.Date != days[i] {
			t.Errorf("day %d = %q, want %q", i, entry.Date, days[i])
		}
		if len(entry.Counts) != 1 {
			t.Fatalf("day %q: %d counts, want 1", entry.Date, len(entry.Counts))
		}
		if entry.Counts[0].Count != wantCounts[entry.Date] {
			t.Errorf("day %q count = %d, want %d", entry.Date, entry.Counts[0].Count, wantCounts[entry.Date])
		}
	}
}

func TestCountDailyBreakdownsZeroFillsEmptyDays(t *testing.T) {
	observations := []observation{
		{alignmentID: 3, day: "2025-01-02", programme: models.ProgrammeTypeOGT},
	}
	days := []string{"2025-01-01", "2025-01-02"}

	got := countDailyBreakdowns(observations, nil, days)
	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}

	// Day without records still enumerates the resolved ids.
	empty := got[0]
	if len(empty.Counts) != 1 || empty.Counts[0].LcAlignmentID != 3 || empty.Counts[0].Total != 0 {
		t.Errorf("empty day = %+v, want one zero entry for id 3", empty)
	}

	busy := got[1]
	if busy.Counts[0].Total != 1 || busy.Counts[0].OGT != 1 {
		t.Errorf("busy day = %+v, want total 1 ogt 1", busy)
	}
}
