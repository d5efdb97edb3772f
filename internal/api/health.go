package api

import (
	"context"
	"net/http"
	"time"

	"github.com/safar/jewelry-store/internal/config"
	"github.com/safar/jewelry-store/internal/database"
)

const (
	maxReportedCollections = 10
	maxReportedErrorLen    = 50
	healthTimeout          = 5 * time.Second
)

type healthReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// handleHealth always answers 200; database problems only degrade the report.
func handleHealth(db database.Store, dbCfg config.DatabaseConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := healthReport{
			Backend:          "✅ Running",
			Database:         "❌ Not Available",
			DatabaseURL:      presence(dbCfg.Configured()),
			DatabaseName:     presence(config.NameSet()),
			ConnectionStatus: "Not Connected",
			Collections:      []string{},
		}

		if db != nil {
			report.Database = "✅ Available"
			report.ConnectionStatus = "Connected"

			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			names, err := db.CollectionNames(ctx)
			cancel()

			if err != nil {
				report.Database = "⚠️  Connected but Error: " + truncate(err.Error(), maxReportedErrorLen)
			} else {
				if len(names) > maxReportedCollections {
					names = names[:maxReportedCollections]
				}
				if names != nil {
					report.Collections = names
				}
				report.Database = "✅ Connected & Working"
			}
		}

		respondJSON(w, http.StatusOK, report)
	}
}

func presence(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
