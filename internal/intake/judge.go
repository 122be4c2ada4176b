package intake

import (
	"time"

	"github.com/google/uuid"

	"github.com/your-username/rfc5424-conformance/internal/models"
	"github.com/your-username/rfc5424-conformance/internal/rfc5424"
	"github.com/your-username/rfc5424-conformance/internal/websocket"
)

// judge validates one candidate message, records the verdict and streams
// it to connected clients.
func judge(candidate, source string, recorder *Recorder, wsHub *websocket.Hub) models.Verdict {
	violations := rfc5424.ValidateMessage(candidate)

	verdict := models.Verdict{
		ID:         uuid.New().String(),
		Source:     source,
		Message:    candidate,
		Compliant:  rfc5424.Compliant(violations),
		Violations: violations,
		CheckedAt:  time.Now(),
	}

	recorder.Record(verdict)
	wsHub.BroadcastVerdict(&verdict)

	return verdict
}
