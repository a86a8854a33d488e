package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CopilotCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_commands_total",
			Help: "Chat commands processed by the interpreter, by outcome and conversation step",
		},
		[]string{"outcome", "step"},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "AI gateway requests by provider, mode and result",
		},
		[]string{"provider", "mode", "result"},
	)

	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "AI gateway request latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "mode"},
	)

	StaleReplies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_stale_replies_total",
			Help: "Deferred gateway replies dropped because a newer request superseded them",
		},
	)

	AssistQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assist_queue_depth",
			Help: "Deferred gateway jobs waiting for a worker",
		},
	)

	DealsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deals_saved_total",
			Help: "Named deals saved, by storage backend",
		},
		[]string{"backend"},
	)
)
