package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseIDSet parses a comma separated id list ("12, 15,12") into unique
// int64 ids, preserving first-seen order. Blank and non-numeric entries
// are dropped. This is the single place raw id input becomes typed ids;
// aggregation logic only ever sees the parsed set.
func ParseIDSet(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[int64]bool)
	var ids []int64

	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		id, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids
}

// ParseBoolFlag accepts the usual truthy query spellings.
func ParseBoolFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on", "t":
		return true
	}
	return false
}

// ParseDateParam parses a YYYY-MM-DD query parameter into a UTC midnight
// instant. Missing or malformed values are client errors.
func ParseDateParam(raw string, fieldName string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, NewClientInputError("missing required query parameter: %s", fieldName)
	}

	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, NewClientInputError("invalid date format for %s, use YYYY-MM-DD", fieldName)
	}

	return parsed.UTC(), nil
}

// ParseDateRange parses the inclusive start/end pair for the daily routes.
func ParseDateRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := ParseDateParam(rawStart, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDateParam(rawEnd, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, NewClientInputError(`query parameter "end" must be on or after "start"`)
	}
	return start, end, nil
}

// ClampInt bounds v to [low, high].
func ClampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
