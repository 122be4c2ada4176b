package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-username/rfc5424-conformance/internal/models"
)

const validCandidate = `<34>1 2003-10-11T22:14:15.003Z host su - ID47 - hello`

func TestHealthCheckWithoutStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	HealthCheck(nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["store"])
}

func TestValidateMessageHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate",
		strings.NewReader(`{"message":"`+validCandidate+`"}`))
	rec := httptest.NewRecorder()

	ValidateMessage()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var verdict models.Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.True(t, verdict.Compliant)
	assert.Empty(t, verdict.Violations)
	assert.NotEmpty(t, verdict.ID)
}

func TestValidateMessageHandlerNonCompliant(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate",
		strings.NewReader(`{"message":"not a syslog line"}`))
	rec := httptest.NewRecorder()

	ValidateMessage()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var verdict models.Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.False(t, verdict.Compliant)
	require.Len(t, verdict.Violations, 1)
	assert.Equal(t, "structural-mismatch", verdict.Violations[0].Rule)
}

func TestValidateMessageHandlerBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	ValidateMessage()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateBatchHandler(t *testing.T) {
	payload := map[string]interface{}{
		"messages":       []string{validCandidate, "garbage"},
		"expected_count": 3,
		"source":         "unit-test",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate/batch", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	ValidateBatch()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Expected   int              `json:"expected"`
		Observed   int              `json:"observed"`
		CountMatch bool             `json:"count_match"`
		Compliant  int              `json:"compliant"`
		Verdicts   []models.Verdict `json:"verdicts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 3, response.Expected)
	assert.Equal(t, 2, response.Observed)
	assert.False(t, response.CountMatch)
	assert.Equal(t, 1, response.Compliant)
	require.Len(t, response.Verdicts, 2)
	assert.Equal(t, 1, response.Verdicts[0].Line)
	assert.True(t, response.Verdicts[0].Compliant)
	assert.Equal(t, "unit-test", response.Verdicts[0].Source)
	assert.False(t, response.Verdicts[1].Compliant)
}

func TestValidateFileHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.log")
	require.NoError(t, os.WriteFile(path, []byte(validCandidate+"\n"+validCandidate+"\n"), 0o644))

	body, err := json.Marshal(map[string]interface{}{
		"path":           path,
		"expected_count": 2,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate/file", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	ValidateFile()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Compliant  bool `json:"compliant"`
		CountMatch bool `json:"count_match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Compliant)
	assert.True(t, response.CountMatch)
}

func TestRecentVerdictsWithoutStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verdicts", nil)
	rec := httptest.NewRecorder()

	RecentVerdicts(nil)(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
