// One-shot people sync job: fetches one EXPA page and reconciles it into
// the store. Meant to be run on a schedule (e.g. Cloud Scheduler); the
// single-writer assumption is enforced by the schedule, not here.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/expa"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/expasync"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := config.GetLogger()
	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	client := expa.NewClient(config.LoadExpaConfig())
	syncer := expasync.NewSyncer(client, expasync.NewEligibilityFilter(config.LoadSyncConfig()), logger)

	req := expa.PageRequest{
		Page:    intFromEnv("SYNC_PAGE", 1),
		PerPage: intFromEnv("SYNC_PER_PAGE", 50),
		Q:       os.Getenv("SYNC_QUERY"),
	}
	if raw := strings.TrimSpace(os.Getenv("SYNC_FILTERS")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Filters); err != nil {
			fmt.Fprintf(os.Stderr, "invalid SYNC_FILTERS: %v\n", err)
			os.Exit(1)
		}
	}

	result, err := syncer.SyncPeople(ctx, db, req)
	if err != nil {
		logger.WithFields(logrus.Fields{"job": "sync-people"}).Error(err.Error())
		os.Exit(1)
	}

	logger.WithFields(logrus.Fields{
		"job":      "sync-people",
		"fetched":  result.Fetched,
		"eligible": result.Eligible,
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
	}).Info("sync finished")
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
