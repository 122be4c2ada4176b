package intake

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/models"
	"github.com/your-username/rfc5424-conformance/internal/websocket"
)

// HTTPHandler accepts candidate batches over HTTP: a JSON array of
// candidate strings, or text/plain newline-delimited lines.
type HTTPHandler struct {
	recorder *Recorder
	wsHub    *websocket.Hub
}

// NewHTTPHandler creates a new HTTP intake handler
func NewHTTPHandler(recorder *Recorder, wsHub *websocket.Hub) *HTTPHandler {
	return &HTTPHandler{
		recorder: recorder,
		wsHub:    wsHub,
	}
}

// SubmitCandidates handles POST /api/v1/intake/candidates
func (h *HTTPHandler) SubmitCandidates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set max body size to 10MB
		r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
		defer r.Body.Close()

		source := r.URL.Query().Get("source")
		if source == "" {
			source = r.RemoteAddr
		}

		var candidates []string
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			var request struct {
				Candidates []string `json:"candidates"`
			}
			if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
				log.Error().Err(err).Msg("Failed to parse candidate request")
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			candidates = request.Candidates
		} else {
			scanner := bufio.NewScanner(r.Body)
			scanner.Buffer(make([]byte, 1024*64), 1024*1024)
			for scanner.Scan() {
				candidates = append(candidates, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}
		}

		if len(candidates) == 0 {
			http.Error(w, "No candidates provided", http.StatusBadRequest)
			return
		}

		verdicts := make([]models.Verdict, 0, len(candidates))
		compliant := 0
		for i, candidate := range candidates {
			verdict := judge(candidate, source, h.recorder, h.wsHub)
			verdict.Line = i + 1
			if verdict.Compliant {
				compliant++
			}
			verdicts = append(verdicts, verdict)
		}

		response := map[string]interface{}{
			"received":  len(verdicts),
			"compliant": compliant,
			"verdicts":  verdicts,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

// HealthCheck handles GET /api/v1/intake/health
func (h *HTTPHandler) HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := h.recorder.Stats()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"stats":  stats,
		})
	}
}
