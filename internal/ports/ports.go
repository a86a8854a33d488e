package ports

import (
	"context"
	"errors"

	"valuator/internal/domain"
)

// ErrGatewayUnavailable reports that no AI provider is configured or
// reachable.
var ErrGatewayUnavailable = errors.New("ai gateway unavailable")

// Gateway answers free-form questions and runs gut checks.
type Gateway interface {
	Name() string
	Ask(ctx context.Context, req domain.GatewayRequest) (domain.GatewayAnswer, error)
	GutCheck(ctx context.Context, req domain.GatewayRequest) (domain.GutCheckResult, error)
}

// ReportRenderer turns a markdown report into a printable document.
type ReportRenderer interface {
	Render(ctx context.Context, markdown string) ([]byte, error)
}
