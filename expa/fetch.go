package expa

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/utils"
)

const (
	maxPeoplePerPage       = 150
	maxApplicationsPerPage = 50

	defaultPeoplePerPage       = 50
	defaultApplicationsPerPage = 30
)

// PageRequest selects one page of an EXPA index query. Filters and Q are
// forwarded opaquely to the upstream query.
type PageRequest struct {
	Page    int
	PerPage int
	Filters map[string]any
	Q       string
}

type pageEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// FetchPeoplePage fetches one page of allPeople records, as raw JSON
// objects. An absent payload yields an empty page, not an error.
func (c *Client) FetchPeoplePage(ctx context.Context, req PageRequest) ([]json.RawMessage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage == 0 {
		perPage = defaultPeoplePerPage
	}
	perPage = utils.ClampInt(perPage, 1, maxPeoplePerPage)

	variables := map[string]any{
		"page":    page,
		"perPage": perPage,
	}
	if req.Filters != nil {
		variables["filters"] = req.Filters
	}
	if req.Q != "" {
		variables["q"] = req.Q
	}

	data, err := c.Execute(ctx, peopleIndexQuery, variables)
	if err != nil {
		return nil, err
	}
	return unwrapPage(data, "allPeople"), nil
}

// FetchApplicationsPage fetches one page of allOpportunityApplication
// records, as raw JSON objects.
func (c *Client) FetchApplicationsPage(ctx context.Context, req PageRequest) ([]json.RawMessage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage == 0 {
		perPage = defaultApplicationsPerPage
	}
	perPage = utils.ClampInt(perPage, 1, maxApplicationsPerPage)

	variables := map[string]any{
		"page":     page,
		"per_page": perPage,
	}
	if req.Filters != nil {
		variables["filters"] = req.Filters
	}
	if req.Q != "" {
		variables["q"] = req.Q
	}

	data, err := c.Execute(ctx, applicationIndexQuery, variables)
	if err != nil {
		return nil, err
	}
	return unwrapPage(data, "allOpportunityApplication"), nil
}

// FetchAllApplications pages forward from req.Page until EXPA returns an
// empty page, with gentle pacing plus jitter between page requests to
// stay under upstream throttling. Page count is unbounded by design:
// termination relies on the upstream running out of records.
func (c *Client) FetchAllApplications(ctx context.Context, req PageRequest) ([]json.RawMessage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	var results []json.RawMessage
	for {
		chunk, err := c.FetchApplicationsPage(ctx, PageRequest{
			Page:    page,
			PerPage: req.PerPage,
			Filters: req.Filters,
			Q:       req.Q,
		})
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			return results, nil
		}

		results = append(results, chunk...)
		page++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(250*time.Millisecond + time.Duration(rand.Intn(200))*time.Millisecond):
		}
	}
}

func unwrapPage(data map[string]json.RawMessage, field string) []json.RawMessage {
	raw, ok := data[field]
	if !ok {
		return []json.RawMessage{}
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return []json.RawMessage{}
	}
	if envelope.Data == nil {
		return []json.RawMessage{}
	}
	return envelope.Data
}
