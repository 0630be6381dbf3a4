// Package expa is the query client for the EXPA GraphQL API: one POST of
// {query, variables} per attempt, bounded retry with exponential backoff
// on transient failures, and partial-success tolerance on responses that
// carry both data and errors.
package expa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/utils"
)

// The signature EXPA embeds in its error list when a field resolver is
// temporarily overloaded; worth retrying.
const transientFieldSignature = "try to execute the query for this field later"

// Network-level failures matching any of these are retried; everything
// else at the transport level is fatal.
var transientNetworkKeywords = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"timeout",
	"timed out",
	"deadline exceeded",
	"no such host",
	"temporary failure",
	"unexpected EOF",
}

// UpstreamError is a failed EXPA exchange. Transient errors are retried
// by the client up to its configured bound; fatal ones surface
// immediately.
type UpstreamError struct {
	Message   string
	Status    int
	Transient bool
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("EXPA request failed with status %d: %s", e.Status, e.Message)
	}
	return e.Message
}

// IsTransient reports whether err is a retryable upstream failure.
func IsTransient(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Transient
}

// Client talks to one EXPA endpoint. The token is sent on the
// Authorization header exactly as configured, with no trimming and no
// "Bearer " prefix.
type Client struct {
	cfg  config.ExpaConfig
	http *http.Client
}

func NewClient(cfg config.ExpaConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graphQLError             `json:"errors"`
}

// Execute runs the query against EXPA, retrying transient failures per
// the configured backoff policy, and returns the top-level data fields.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (map[string]json.RawMessage, error) {
	policy := utils.BackoffPolicy{Retries: c.cfg.Retries, BaseDelay: c.cfg.BaseDelay}
	return utils.Retry(policy, IsTransient, func() (map[string]json.RawMessage, error) {
		return c.executeOnce(ctx, query, variables)
	})
}

func (c *Client) executeOnce(ctx context.Context, query string, variables map[string]any) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": sanitizeVariables(variables),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "cs-igdashboard-sync")
	req.Header.Set("Cache-Control", "no-store")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error(), Transient: isTransientNetworkError(err)}
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			Message:   strings.TrimSpace(string(text)),
			Status:    resp.StatusCode,
			Transient: resp.StatusCode >= 500,
		}
	}

	if len(text) == 0 {
		return nil, &UpstreamError{Message: "EXPA GraphQL responded without a body"}
	}

	var payload graphQLResponse
	if err := json.Unmarshal(text, &payload); err != nil {
		return nil, &UpstreamError{Message: "failed to parse EXPA GraphQL response"}
	}

	// Partial success: usable data wins over a non-empty error list.
	if len(payload.Data) > 0 {
		return payload.Data, nil
	}

	if len(payload.Errors) > 0 {
		messages := make([]string, 0, len(payload.Errors))
		transient := false
		for _, gqlErr := range payload.Errors {
			messages = append(messages, gqlErr.Message)
			if strings.Contains(strings.ToLower(gqlErr.Message), transientFieldSignature) {
				transient = true
			}
		}
		return nil, &UpstreamError{
			Message:   "EXPA GraphQL error: " + strings.Join(messages, "; "),
			Transient: transient,
		}
	}

	return map[string]json.RawMessage{}, nil
}

func isTransientNetworkError(err error) bool {
	message := strings.ToLower(err.Error())
	for _, keyword := range transientNetworkKeywords {
		if strings.Contains(message, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// sanitizeVariables drops nil entries so optional GraphQL variables stay
// unset instead of being sent as explicit nulls.
func sanitizeVariables(variables map[string]any) map[string]any {
	sanitized := make(map[string]any, len(variables))
	for key, value := range variables {
		if value == nil {
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}
