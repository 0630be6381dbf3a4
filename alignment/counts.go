package alignment

import (
	"encoding/json"
	"sort"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
)

// observation is one matching record projected onto the aggregation
// axes: which alignment it belongs to, which UTC day it was created, and
// which programme type it classifies to.
type observation struct {
	alignmentID int64
	day         string
	programme   models.ProgrammeType
}

// AlignmentCount is one per-alignment total. Metric names the value's
// JSON key ("signups" or "applications"), matching the dashboard's
// response contract.
type AlignmentCount struct {
	LcAlignmentID int64
	Metric        string
	Count         int
}

func (c AlignmentCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"lc_alignment_id": c.LcAlignmentID,
		c.Metric:          c.Count,
	})
}

// AlignmentBreakdown is one per-alignment total split into the two
// programme buckets. Unclassified records count toward Total only.
type AlignmentBreakdown struct {
	LcAlignmentID int64 `json:"lc_alignment_id"`
	Total         int   `json:"total"`
	OGV           int   `json:"ogv"`
	OGT           int   `json:"ogt"`
}

// DailyCounts is one day of the time series: one entry per resolved
// alignment id, zero-filled.
type DailyCounts struct {
	Date   string           `json:"date"`
	Counts []AlignmentCount `json:"counts"`
}

// DailyBreakdowns is the programme-aware day entry.
type DailyBreakdowns struct {
	Date   string               `json:"date"`
	Counts []AlignmentBreakdown `json:"counts"`
}

// resolveIDs decides which alignment ids a result enumerates: the
// explicit list in caller order when one was supplied, otherwise the
// distinct observed ids sorted ascending.
func resolveIDs(explicit []int64, observations []observation) []int64 {
	if len(explicit) > 0 {
		return explicit
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, obs := range observations {
		if !seen[obs.alignmentID] {
			seen[obs.alignmentID] = true
			ids = append(ids, obs.alignmentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func countTotals(observations []observation, ids []int64, metric string) []AlignmentCount {
	resolved := resolveIDs(ids, observations)

	counts := make(map[int64]int)
	for _, obs := range observations {
		counts[obs.alignmentID]++
	}

	result := make([]AlignmentCount, 0, len(resolved))
	for _, id := range resolved {
		result = append(result, AlignmentCount{LcAlignmentID: id, Metric: metric, Count: counts[id]})
	}
	return result
}

func countBreakdowns(observations []observation, ids []int64) []AlignmentBreakdown {
	resolved := resolveIDs(ids, observations)

	buckets := make(map[int64]*AlignmentBreakdown)
	for _, obs := range observations {
		bucket := buckets[obs.alignmentID]
		if bucket == nil {
			bucket = &AlignmentBreakdown{LcAlignmentID: obs.alignmentID}
			buckets[obs.alignmentID] = bucket
		}
		bucket.Total++
		switch obs.programme {
		case models.ProgrammeTypeOGV:
			bucket.OGV++
		case models.ProgrammeTypeOGT:
			bucket.OGT++
		}
	}

	result := make([]AlignmentBreakdown, 0, len(resolved))
	for _, id := range resolved {
		if bucket, ok := buckets[id]; ok {
			result = append(result, *bucket)
		} else {
			result = append(result, AlignmentBreakdown{LcAlignmentID: id})
		}
	}
	return result
}

func countDaily(observations []observation, ids []int64, days []string, metric string) []DailyCounts {
	resolved := resolveIDs(ids, observations)

	counts := make(map[string]map[int64]int)
	for _, obs := range observations {
		if counts[obs.day] == nil {
			counts[obs.day] = make(map[int64]int)
		}
		counts[obs.day][obs.alignmentID]++
	}

	series := make([]DailyCounts, 0, len(days))
	for _, day := range days {
		entry := DailyCounts{Date: day, Counts: make([]AlignmentCount, 0, len(resolved))}
		for _, id := range resolved {
			entry.Counts = append(entry.Counts, AlignmentCount{
				LcAlignmentID: id,
				Metric:        metric,
				Count:         counts[day][id],
			})
		}
		series = append(series, entry)
	}
	return series
}

func countDailyBreakdowns(observations []observation, ids []int64, days []string) []DailyBreakdowns {
	resolved := resolveIDs(ids, observations)

	byDay := make(map[string][]observation)
	for _, obs := range observations {
		byDay[obs.day] = append(byDay[obs.day], obs)
	}

	series := make([]DailyBreakdowns, 0, len(days))
	for _, day := range days {
		series = append(series, DailyBreakdowns{
			Date:   day,
			Counts: countBreakdowns(byDay[day], resolved),
		})
	}
	return series
}
