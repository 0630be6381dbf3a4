package config

import (
	"os"
	"strings"
	"time"
)

const (
	defaultExpaURL = "https://gis-api.aiesec.org/graphql"

	// Sri Lanka runs a fixed UTC+5:30 offset; sync cutoffs and "today"
	// windows are expressed against it.
	SriLankaOffsetSeconds = 5*3600 + 30*60
)

// 6 Nov 2025 00:00 Sri Lanka time (UTC+05:30) expressed as UTC.
var defaultSignupCutoff = time.Date(2025, time.November, 5, 18, 30, 0, 0, time.UTC)

// The earliest created_at the applications sync will ever request from EXPA.
var defaultApplicationsCreatedFrom = time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC)

// ExpaConfig holds everything the EXPA query client needs. It is built
// once at startup and passed into the client constructor; core logic
// never reads the environment.
type ExpaConfig struct {
	URL   string
	Token string

	// Retries is the number of additional attempts after the first one;
	// the delay before attempt n is BaseDelay * 2^(n-1).
	Retries   int
	BaseDelay time.Duration
}

// SyncConfig carries the eligibility-window values: which records fetched
// from EXPA are worth persisting. The cutoffs are operational
// configuration, not structure.
type SyncConfig struct {
	// People are eligible from this instant on (source created_at).
	SignupCutoff time.Time

	// Applications must belong to this local committee...
	TargetLCID   int64
	TargetLCName string
	// ...and be created within this UTC calendar month.
	TargetMonth time.Month

	// Lower bound forced onto the upstream created_at filter when
	// fetching applications.
	ApplicationsCreatedFrom time.Time
}

// LoadExpaConfig reads the EXPA endpoint settings from the environment.
// The token is used exactly as provided (no trimming, no "Bearer " prefix).
func LoadExpaConfig() ExpaConfig {
	url := strings.TrimSpace(os.Getenv("EXPA_URL"))
	if url == "" {
		url = defaultExpaURL
	}

	retries := intFromEnv("EXPA_RETRIES", 3)
	baseDelay := time.Duration(intFromEnv("EXPA_BASE_DELAY_MS", 500)) * time.Millisecond

	return ExpaConfig{
		URL:       url,
		Token:     os.Getenv("EXPA_API_TOKEN"),
		Retries:   retries,
		BaseDelay: baseDelay,
	}
}

// LoadSyncConfig returns the eligibility configuration. The cutoff can be
// moved via EXPA_SIGNUP_CUTOFF (RFC 3339); everything else is fixed for
// the Colombo South dashboard.
func LoadSyncConfig() SyncConfig {
	cutoff := defaultSignupCutoff
	if raw := strings.TrimSpace(os.Getenv("EXPA_SIGNUP_CUTOFF")); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			cutoff = parsed.UTC()
		}
	}

	return SyncConfig{
		SignupCutoff:            cutoff,
		TargetLCID:              1340,
		TargetLCName:            "COLOMBO SOUTH",
		TargetMonth:             time.November,
		ApplicationsCreatedFrom: defaultApplicationsCreatedFrom,
	}
}
