package utils

import "time"

// BackoffPolicy bounds a retry loop: up to Retries additional attempts
// after the first, sleeping BaseDelay * 2^(attempt-1) before attempt n.
type BackoffPolicy struct {
	Retries   int
	BaseDelay time.Duration
}

// Delay returns the backoff before retry attempt n (1-based).
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay * (1 << (attempt - 1))
}

// Retry runs op, retrying per policy while retryable(err) holds. The
// classification function decides retryable vs fatal; the policy decides
// how often and how long to wait. Returns the last result either way.
func Retry[T any](policy BackoffPolicy, retryable func(error) bool, op func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; ; attempt++ {
		result, err = op()
		if err == nil {
			return result, nil
		}
		if attempt >= policy.Retries || !retryable(err) {
			return result, err
		}
		time.Sleep(policy.Delay(attempt + 1))
	}
}
