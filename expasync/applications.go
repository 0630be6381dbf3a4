package expasync

import (
	"context"
	"encoding/json"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/expa"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SyncApplications fetches one page of EXPA opportunity applications,
// keeps the ones from the target committee created in the target month,
// enriches them with the applicant's persisted alignment id, and inserts
// the ones not yet persisted.
func (s *Syncer) SyncApplications(ctx context.Context, db *gorm.DB, req expa.PageRequest) (Result, error) {
	req.Filters = s.filter.EnforceCreatedFrom(req.Filters)

	raws, err := s.client.FetchApplicationsPage(ctx, req)
	if err != nil {
		return Result{}, err
	}

	return s.reconcileApplications(ctx, db, raws)
}

// SyncAllApplications is the full-pagination variant used by the
// scheduled job: it walks every upstream page before reconciling, so one
// run covers the whole reporting window.
func (s *Syncer) SyncAllApplications(ctx context.Context, db *gorm.DB, req expa.PageRequest) (Result, error) {
	req.Filters = s.filter.EnforceCreatedFrom(req.Filters)

	raws, err := s.client.FetchAllApplications(ctx, req)
	if err != nil {
		return Result{}, err
	}

	return s.reconcileApplications(ctx, db, raws)
}

func (s *Syncer) reconcileApplications(ctx context.Context, db *gorm.DB, raws []json.RawMessage) (Result, error) {
	log := s.logger.WithFields(logrus.Fields{
		"module": "expasync",
		"target": "applications",
		"run_id": uuid.NewString(),
	})

	fetched := len(raws)
	log.Infof("fetched=%d", fetched)
	if fetched == 0 {
		return Result{}, nil
	}

	var eligible []*models.Application
	for _, raw := range raws {
		var record rawApplication
		if err := json.Unmarshal(raw, &record); err != nil {
			return Result{}, err
		}
		if !s.filter.ApplicationEligible(record.Person, parseTimestamp(record.CreatedAt)) {
			continue
		}
		application, err := normalizeApplication(record)
		if err != nil {
			return Result{}, err
		}
		eligible = append(eligible, application)
	}

	log.Infof("eligibleForWindow=%d", len(eligible))
	if len(eligible) == 0 {
		return Result{Fetched: fetched}, nil
	}

	if err := s.enrichAlignments(ctx, db, eligible); err != nil {
		return Result{}, err
	}

	candidateIDs := make([]int64, 0, len(eligible))
	for _, application := range eligible {
		candidateIDs = append(candidateIDs, application.ExpaID)
	}

	existing, err := models.ExistingApplicationExpaIDs(ctx, db, candidateIDs)
	if err != nil {
		return Result{}, err
	}

	var newApplications []*models.Application
	for _, application := range eligible {
		if !existing[application.ExpaID] {
			newApplications = append(newApplications, application)
		}
	}

	log.Infof("existing=%d new=%d", len(existing), len(newApplications))

	inserted := insertNew(ctx, db, newApplications)
	return Result{
		Fetched:  fetched,
		Eligible: len(eligible),
		Inserted: inserted,
		Skipped:  len(eligible) - inserted,
	}, nil
}

// enrichAlignments copies each applicant's alignment id from the Person
// rows persisted at this moment. This runs exactly once, before insert:
// applications whose person has no alignment yet keep none, and later
// changes to the person are never copied back.
func (s *Syncer) enrichAlignments(ctx context.Context, db *gorm.DB, applications []*models.Application) error {
	seen := make(map[int64]bool)
	var personIDs []int64
	for _, application := range applications {
		if application.Person == nil || application.Person.ID == nil {
			continue
		}
		id := *application.Person.ID
		if !seen[id] {
			seen[id] = true
			personIDs = append(personIDs, id)
		}
	}

	alignments, err := models.PersonAlignmentMap(ctx, db, personIDs)
	if err != nil {
		return err
	}

	for _, application := range applications {
		if application.Person == nil || application.Person.ID == nil {
			continue
		}
		if alignmentID, ok := alignments[*application.Person.ID]; ok {
			value := alignmentID
			application.LcAlignmentID = &value
		}
	}
	return nil
}
