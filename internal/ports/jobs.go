package ports

import (
	"context"

	"valuator/internal/domain"
)

// AssistJob is a command deferred to the AI gateway. Seq orders jobs within
// a session so older replies can be recognised as stale.
type AssistJob struct {
	SessionID string
	Seq       uint64
	Request   domain.GatewayRequest
}

// JobQueue accepts deferred gateway jobs for background processing.
type JobQueue interface {
	Enqueue(ctx context.Context, job AssistJob) error
}
