package gateway

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"valuator/internal/domain"
	"valuator/internal/metrics"
	"valuator/internal/ports"
)

var tracer = otel.Tracer("valuator/internal/gateway")

// Instrumented records request counts, latency and a span around every
// call to the wrapped gateway.
type Instrumented struct {
	next ports.Gateway
}

func Instrument(next ports.Gateway) *Instrumented {
	return &Instrumented{next: next}
}

func (g *Instrumented) Name() string { return g.next.Name() }

func (g *Instrumented) Ask(ctx context.Context, req domain.GatewayRequest) (domain.GatewayAnswer, error) {
	var ans domain.GatewayAnswer
	err := g.observe(ctx, "chat", func(ctx context.Context) error {
		var err error
		ans, err = g.next.Ask(ctx, req)
		return err
	})
	return ans, err
}

func (g *Instrumented) GutCheck(ctx context.Context, req domain.GatewayRequest) (domain.GutCheckResult, error) {
	var res domain.GutCheckResult
	err := g.observe(ctx, string(domain.ModeGutCheck), func(ctx context.Context) error {
		var err error
		res, err = g.next.GutCheck(ctx, req)
		return err
	})
	return res, err
}

func (g *Instrumented) observe(ctx context.Context, mode string, call func(context.Context) error) error {
	provider := g.next.Name()
	ctx, span := tracer.Start(ctx, "gateway."+mode, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("gateway.provider", provider))

	start := time.Now()
	err := call(ctx)
	metrics.GatewayDuration.WithLabelValues(provider, mode).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.GatewayRequests.WithLabelValues(provider, mode, result).Inc()
	return err
}

// Unavailable is the gateway used when no provider is configured.
type Unavailable struct{}

func (Unavailable) Name() string { return "none" }

func (Unavailable) Ask(context.Context, domain.GatewayRequest) (domain.GatewayAnswer, error) {
	return domain.GatewayAnswer{}, ports.ErrGatewayUnavailable
}

func (Unavailable) GutCheck(context.Context, domain.GatewayRequest) (domain.GutCheckResult, error) {
	return domain.GutCheckResult{}, ports.ErrGatewayUnavailable
}
