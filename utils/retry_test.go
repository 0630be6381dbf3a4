package utils

import (
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	attempts := 0
	got, err := Retry(BackoffPolicy{Retries: 3, BaseDelay: time.Microsecond}, isTransient, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errTransient
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryStopsOnFatalError(t *testing.T) {
	attempts := 0
	_, err := Retry(BackoffPolicy{Retries: 5, BaseDelay: time.Microsecond}, isTransient, func() (int, error) {
		attempts++
		return 0, errFatal
	})
	if !errors.Is(err, errFatal) {
		t.Fatalf("got %v, want %v", err, errFatal)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (fatal errors must not be retried)", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	_, err := Retry(BackoffPolicy{Retries: 2, BaseDelay: time.Microsecond}, isTransient, func() (int, error) {
		attempts++
		return 0, errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("got %v, want %v", err, errTransient)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (first try plus two retries)", attempts)
	}
}

func TestBackoffPolicyDelayDoubles(t *testing.T) {
	policy := BackoffPolicy{Retries: 3, BaseDelay: 100 * time.Millisecond}

	wants := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	for i, want := range wants {
		if got := policy.Delay(i + 1); got != want {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, want)
		}
	}
}
