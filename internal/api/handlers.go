package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/models"
	"github.com/your-username/rfc5424-conformance/internal/rfc5424"
	"github.com/your-username/rfc5424-conformance/internal/store"
)

// HealthCheck returns the health status of the harness. db may be nil when
// the harness runs without a verdict store.
func HealthCheck(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC(),
		}

		if db == nil {
			status["store"] = "disabled"
		} else if err := db.Health(ctx); err != nil {
			status["status"] = "error"
			status["store"] = "unhealthy"
			status["error"] = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			status["store"] = "healthy"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

// ValidateMessage handles POST /api/v1/validate: one candidate, one verdict.
func ValidateMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		violations := rfc5424.ValidateMessage(request.Message)
		verdict := models.Verdict{
			ID:         uuid.New().String(),
			Source:     "api",
			Message:    request.Message,
			Compliant:  rfc5424.Compliant(violations),
			Violations: violations,
			CheckedAt:  time.Now(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(verdict)
	}
}

// ValidateBatch handles POST /api/v1/validate/batch: a list of candidates
// plus an expected count, each judged independently.
func ValidateBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

		var request struct {
			Messages      []string `json:"messages"`
			ExpectedCount int      `json:"expected_count"`
			Source        string   `json:"source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if request.Source == "" {
			request.Source = "api"
		}

		now := time.Now()
		verdicts := make([]models.Verdict, 0, len(request.Messages))
		compliant := 0
		for i, message := range request.Messages {
			violations := rfc5424.ValidateMessage(message)
			verdict := models.Verdict{
				ID:         uuid.New().String(),
				Source:     request.Source,
				Line:       i + 1,
				Message:    message,
				Compliant:  rfc5424.Compliant(violations),
				Violations: violations,
				CheckedAt:  now,
			}
			if verdict.Compliant {
				compliant++
			}
			verdicts = append(verdicts, verdict)
		}

		response := map[string]interface{}{
			"expected":    request.ExpectedCount,
			"observed":    len(request.Messages),
			"count_match": request.ExpectedCount == len(request.Messages),
			"compliant":   compliant,
			"verdicts":    verdicts,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// ValidateFile handles POST /api/v1/validate/file: a harness-local
// newline-delimited file plus an expected line count.
func ValidateFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Path          string `json:"path"`
			ExpectedCount int    `json:"expected_count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if request.Path == "" {
			http.Error(w, "No file path provided", http.StatusBadRequest)
			return
		}

		report, err := rfc5424.ValidateFile(request.Path, request.ExpectedCount)
		if err != nil {
			log.Error().Err(err).Str("path", request.Path).Msg("Failed to validate file")
			http.Error(w, "Failed to validate file", http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"compliant":   report.Compliant(),
			"count_match": report.CountMatches(),
			"report":      report,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// RecentVerdicts handles GET /api/v1/verdicts when a store is configured.
func RecentVerdicts(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			http.Error(w, "Verdict store is not configured", http.StatusNotImplemented)
			return
		}

		limit := 100
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		nonCompliantOnly := r.URL.Query().Get("non_compliant") == "true"

		verdicts, err := db.RecentVerdicts(r.Context(), limit, nonCompliantOnly)
		if err != nil {
			log.Error().Err(err).Msg("Failed to query verdicts")
			http.Error(w, "Failed to query verdicts", http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"verdicts": verdicts,
			"count":    len(verdicts),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
