package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"valuator/internal/logger"
	"valuator/internal/ports"
	"valuator/internal/services/assistant"
	"valuator/internal/services/deals"
	"valuator/internal/services/gutcheck"
	"valuator/internal/services/session"
)

// Server exposes the valuation services over JSON.
type Server struct {
	sessions  *session.Service
	assistant *assistant.Service
	gutcheck  *gutcheck.Service
	deals     *deals.Service
	pdf       ports.ReportRenderer
	log       logger.Logger
	timeout   time.Duration
}

type Deps struct {
	Sessions  *session.Service
	Assistant *assistant.Service
	GutCheck  *gutcheck.Service
	Deals     *deals.Service
	// PDF may be nil, in which case pdf reports answer 501.
	PDF            ports.ReportRenderer
	Log            logger.Logger
	RequestTimeout time.Duration
}

func New(d Deps) *Server {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 60 * time.Second
	}
	return &Server{
		sessions:  d.Sessions,
		assistant: d.Assistant,
		gutcheck:  d.GutCheck,
		deals:     d.Deals,
		pdf:       d.PDF,
		log:       d.Log,
		timeout:   d.RequestTimeout,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))

		r.Get("/defaults", s.getDefaults)
		r.Get("/deals", s.listDeals)

		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Put("/context", s.putContext)
			r.Put("/inputs/{method}", s.putInputs)
			r.Get("/sensitivity", s.getSensitivity)
			r.Post("/messages", s.postMessage)
			r.Get("/messages", s.getMessages)
			r.Post("/gut-check", s.postGutCheck)
			r.Post("/deals", s.saveDeal)
			r.Post("/deals/{dealID}/load", s.loadDeal)
			r.Get("/report", s.getReport)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}
