// Package alignment computes the dashboard aggregates: per-alignment
// counts of signups and applications, programme-type breakdowns, daily
// time series, and approval ledger sums. Results are always dense:
// every requested alignment id and every day in a requested range
// appears exactly once, zero-filled when no records match.
package alignment

import (
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
)

const dayLayout = "2006-01-02"

var colomboZone = time.FixedZone("Asia/Colombo", config.SriLankaOffsetSeconds)

// Window is a UTC half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// TodayWindow resolves "today" as the current calendar day in the fixed
// UTC+5:30 offset, converted to a UTC half-open interval
// [localMidnightUTC, localMidnightUTC+24h). Computed once at call time.
func TodayWindow(now time.Time) Window {
	local := now.In(colomboZone)
	year, month, day := local.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, colomboZone).UTC()
	return Window{Start: start, End: start.Add(24 * time.Hour)}
}

// RangeWindow converts an inclusive [start, end] day pair into the UTC
// half-open interval covering those calendar days.
func RangeWindow(start, end time.Time) Window {
	return Window{
		Start: utcStartOfDay(start),
		End:   utcStartOfDay(end).Add(24 * time.Hour),
	}
}

func utcStartOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaySeries enumerates every UTC calendar day key in the inclusive
// [start, end] range, ascending.
func DaySeries(start, end time.Time) []string {
	last := utcStartOfDay(end)

	var days []string
	for cursor := utcStartOfDay(start); !cursor.After(last); cursor = cursor.AddDate(0, 0, 1) {
		days = append(days, cursor.Format(dayLayout))
	}
	return days
}
