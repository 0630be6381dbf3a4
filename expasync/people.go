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

// Syncer pulls records from EXPA and reconciles them into the store.
// One Syncer is built at startup from explicit configuration; it holds
// no mutable state, but the system assumes at most one sync run per
// record type at a time (enforced by the scheduler, not here).
type Syncer struct {
	client *expa.Client
	filter *EligibilityFilter
	logger *logrus.Logger
}

func NewSyncer(client *expa.Client, filter *EligibilityFilter, logger *logrus.Logger) *Syncer {
	return &Syncer{client: client, filter: filter, logger: logger}
}

// SyncPeople fetches one page of EXPA people, keeps those created on or
// after the signup cutoff, and inserts the ones not yet persisted.
// Existing rows are skipped, never updated: each row stays a snapshot of
// the person at first sync.
func (s *Syncer) SyncPeople(ctx context.Context, db *gorm.DB, req expa.PageRequest) (Result, error) {
	log := s.logger.WithFields(logrus.Fields{
		"module": "expasync",
		"target": "people",
		"run_id": uuid.NewString(),
	})

	raws, err := s.client.FetchPeoplePage(ctx, req)
	if err != nil {
		return Result{}, err
	}

	fetched := len(raws)
	log.Infof("fetched=%d", fetched)
	if fetched == 0 {
		return Result{}, nil
	}

	var eligible []*models.Person
	for _, raw := range raws {
		var record rawPerson
		if err := json.Unmarshal(raw, &record); err != nil {
			return Result{}, err
		}
		if !s.filter.PersonEligible(parseTimestamp(record.CreatedAt)) {
			continue
		}
		person, err := normalizePerson(record)
		if err != nil {
			return Result{}, err
		}
		eligible = append(eligible, person)
	}

	log.Infof("eligibleByCutoff=%d", len(eligible))
	if len(eligible) == 0 {
		return Result{Fetched: fetched}, nil
	}

	candidateIDs := make([]int64, 0, len(eligible))
	for _, person := range eligible {
		candidateIDs = append(candidateIDs, person.ExpaID)
	}

	existing, err := models.ExistingPersonExpaIDs(ctx, db, candidateIDs)
	if err != nil {
		return Result{}, err
	}

	var newPeople []*models.Person
	for _, person := range eligible {
		if !existing[person.ExpaID] {
			newPeople = append(newPeople, person)
		}
	}

	log.Infof("existing=%d new=%d", len(existing), len(newPeople))

	inserted := insertNew(ctx, db, newPeople)
	return Result{
		Fetched:  fetched,
		Eligible: len(eligible),
		Inserted: inserted,
		Skipped:  len(eligible) - inserted,
	}, nil
}
