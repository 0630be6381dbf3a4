package expasync

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/expa"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// testSyncer wires a Syncer against a stub EXPA endpoint serving the
// given handler.
func testSyncer(t *testing.T, handler http.HandlerFunc) *Syncer {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := expa.NewClient(config.ExpaConfig{
		URL:       server.URL,
		Token:     "test-token",
		Retries:   1,
		BaseDelay: time.Millisecond,
	})

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewSyncer(client, NewEligibilityFilter(testSyncConfig()), log)
}

func peoplePage(records ...string) http.HandlerFunc {
	body := fmt.Sprintf(`{"data":{"allPeople":{"data":[%s]}}}`, strings.Join(records, ","))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

// applicationPages serves the given page bodies in order, then empty
// pages, so both the single-page and the fetch-all paths terminate.
func applicationPages(pages ...string) http.HandlerFunc {
	var served int
	return func(w http.ResponseWriter, r *http.Request) {
		if served < len(pages) {
			fmt.Fprintf(w, `{"data":{"allOpportunityApplication":{"data":[%s]}}}`, pages[served])
			served++
			return
		}
		w.Write([]byte(`{"data":{"allOpportunityApplication":{"data":[]}}}`))
	}
}
