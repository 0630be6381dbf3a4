// Package expasync turns raw EXPA records into persisted rows: it
// normalizes upstream payloads, applies the eligibility windows, and
// reconciles the result against the store so repeated syncs stay
// idempotent.
package expasync

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
)

var (
	errPersonMissingID      = errors.New("person record missing numeric id from EXPA response")
	errApplicationMissingID = errors.New("application record missing numeric id from EXPA response")
)

// ExternalID tolerates EXPA's habit of sending ids as either JSON
// numbers or numeric strings.
type ExternalID int64

func (id *ExternalID) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		return nil
	}
	text = strings.Trim(text, `"`)
	parsed, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return errors.New("id is not numeric: " + text)
	}
	*id = ExternalID(parsed)
	return nil
}

// programmeList normalizes a heterogeneous selected_programmes array
// (numbers and strings mixed) to string forms, dropping nulls.
type programmeList []string

func (l *programmeList) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}

	normalized := make([]string, 0, len(elements))
	for _, element := range elements {
		text := strings.TrimSpace(string(element))
		if text == "null" {
			continue
		}
		if unquoted, err := strconv.Unquote(text); err == nil {
			text = unquoted
		}
		normalized = append(normalized, text)
	}
	*l = normalized
	return nil
}

type rawLocation struct {
	ID   *ExternalID `json:"id"`
	Name *string     `json:"name"`
}

type rawAlignment struct {
	ID *ExternalID `json:"id"`
}

type rawPersonProfile struct {
	SelectedProgrammes programmeList `json:"selected_programmes"`
}

type rawPerson struct {
	ID                         *ExternalID       `json:"id"`
	HasOpportunityApplications *bool             `json:"has_opportunity_applications"`
	FullName                   *string           `json:"full_name"`
	CreatedAt                  *string           `json:"created_at"`
	UpdatedAt                  *string           `json:"updated_at"`
	LastActiveAt               *string           `json:"last_active_at"`
	Status                     *string           `json:"status"`
	HomeLc                     *rawLocation      `json:"home_lc"`
	HomeMc                     *rawLocation      `json:"home_mc"`
	PersonProfile              *rawPersonProfile `json:"person_profile"`
	LcAlignment                *rawAlignment     `json:"lc_alignment"`
}

type rawProgramme struct {
	ID               *ExternalID `json:"id"`
	ShortNameDisplay *string     `json:"short_name_display"`
}

type rawApplicationPerson struct {
	ID       *ExternalID  `json:"id"`
	FullName *string      `json:"full_name"`
	Email    *string      `json:"email"`
	HomeLc   *rawLocation `json:"home_lc"`
	HomeMc   *rawLocation `json:"home_mc"`
}

type rawOpportunity struct {
	ID        *ExternalID   `json:"id"`
	Title     *string       `json:"title"`
	Programme *rawProgramme `json:"programme"`
}

type rawApplication struct {
	ID            *ExternalID           `json:"id"`
	Status        *string               `json:"status"`
	CurrentStatus *string               `json:"current_status"`
	CreatedAt     *string               `json:"created_at"`
	UpdatedAt     *string               `json:"updated_at"`
	DateMatched   *string               `json:"date_matched"`
	DateApproved  *string               `json:"date_approved"`
	Person        *rawApplicationPerson `json:"person"`
	Opportunity   *rawOpportunity       `json:"opportunity"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses EXPA's timestamp spellings; unparseable or
// absent values stay nil rather than becoming a zero instant.
func parseTimestamp(value *string) *time.Time {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(*value)); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func idPtr(id *ExternalID) *int64 {
	if id == nil {
		return nil
	}
	value := int64(*id)
	return &value
}

func locationPtr(raw *rawLocation) *models.Location {
	if raw == nil {
		return nil
	}
	return &models.Location{ID: idPtr(raw.ID), Name: raw.Name}
}

// normalizePerson converts a decoded EXPA person into the canonical row.
// The external id is the only required field; absent nested objects stay
// nil so "no data" is distinguishable from "empty" downstream.
func normalizePerson(raw rawPerson) (*models.Person, error) {
	if raw.ID == nil {
		return nil, errPersonMissingID
	}

	person := &models.Person{
		ExpaID:                     int64(*raw.ID),
		HasOpportunityApplications: raw.HasOpportunityApplications,
		FullName:                   raw.FullName,
		Status:                     raw.Status,
		CreatedAtExpa:              parseTimestamp(raw.CreatedAt),
		UpdatedAtExpa:              parseTimestamp(raw.UpdatedAt),
		LastActiveAt:               parseTimestamp(raw.LastActiveAt),
		HomeLc:                     locationPtr(raw.HomeLc),
		HomeMc:                     locationPtr(raw.HomeMc),
	}

	if raw.PersonProfile != nil {
		programmes := raw.PersonProfile.SelectedProgrammes
		if programmes == nil {
			programmes = programmeList{}
		}
		person.PersonProfile = &models.PersonProfile{SelectedProgrammes: programmes}
	}

	if raw.LcAlignment != nil {
		person.LcAlignmentID = idPtr(raw.LcAlignment.ID)
	}

	return person, nil
}

// normalizeApplication converts a decoded EXPA application into the
// canonical row. The derived lc_alignment_id is NOT set here; the
// reconciler populates it from persisted Person rows.
func normalizeApplication(raw rawApplication) (*models.Application, error) {
	if raw.ID == nil {
		return nil, errApplicationMissingID
	}

	application := &models.Application{
		ExpaID:        int64(*raw.ID),
		Status:        raw.Status,
		CurrentStatus: raw.CurrentStatus,
		CreatedAtExpa: parseTimestamp(raw.CreatedAt),
		UpdatedAtExpa: parseTimestamp(raw.UpdatedAt),
		DateMatched:   parseTimestamp(raw.DateMatched),
		DateApproved:  parseTimestamp(raw.DateApproved),
	}

	if raw.Person != nil {
		application.Person = &models.ApplicationPerson{
			ID:       idPtr(raw.Person.ID),
			FullName: raw.Person.FullName,
			Email:    raw.Person.Email,
			HomeLc:   locationPtr(raw.Person.HomeLc),
			HomeMc:   locationPtr(raw.Person.HomeMc),
		}
	}

	if raw.Opportunity != nil {
		opportunity := &models.ApplicationOpportunity{
			ID:    idPtr(raw.Opportunity.ID),
			Title: raw.Opportunity.Title,
		}
		if raw.Opportunity.Programme != nil {
			opportunity.Programme = &models.OpportunityProgramme{
				ID:               idPtr(raw.Opportunity.Programme.ID),
				ShortNameDisplay: raw.Opportunity.Programme.ShortNameDisplay,
			}
		}
		application.Opportunity = opportunity
	}

	return application, nil
}
