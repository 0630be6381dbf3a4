// One-shot applications sync job. Unlike the HTTP sync route, this walks
// every upstream page (fetch-all) so a single scheduled run covers the
// whole reporting window.
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
		Page:    intFromEnv("SYNC_START_PAGE", 1),
		PerPage: intFromEnv("SYNC_PER_PAGE", 50),
		Q:       os.Getenv("SYNC_QUERY"),
	}
	if raw := strings.TrimSpace(os.Getenv("SYNC_FILTERS")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Filters); err != nil {
			fmt.Fprintf(os.Stderr, "invalid SYNC_FILTERS: %v\n", err)
			os.Exit(1)
		}
	}

	result, err := syncer.SyncAllApplications(ctx, db, req)
	if err != nil {
		logger.WithFields(logrus.Fields{"job": "sync-applications"}).Error(err.Error())
		os.Exit(1)
	}

	logger.WithFields(logrus.Fields{
		"job":      "sync-applications",
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
