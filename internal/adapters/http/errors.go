package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"valuator/internal/api"
	"valuator/internal/domain"
	"valuator/internal/logger"
	"valuator/internal/services/assistant"
	"valuator/internal/services/deals"
	"valuator/internal/services/gutcheck"
	"valuator/internal/services/session"
)

var (
	errBadJSON         = errors.New("request body is not valid JSON")
	errUnknownMethod   = errors.New("unknown valuation method")
	errUnknownFormat   = errors.New("unknown report format")
	errPDFUnavailable  = errors.New("pdf rendering is not configured")
	errRiskScoreBounds = errors.New("risk scores must be between -2 and 2")
	errRiskScoreCount  = errors.New("risk scores must have exactly 12 entries")
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps service errors onto status codes and a stable error code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status, code = http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, deals.ErrDealNotFound):
		status, code = http.StatusNotFound, "DEAL_NOT_FOUND"
	case errors.Is(err, deals.ErrMalformedDeal):
		status, code = http.StatusUnprocessableEntity, "MALFORMED_DEAL"
	case errors.Is(err, domain.ErrInvalidSector), errors.Is(err, domain.ErrInvalidRegion):
		status, code = http.StatusBadRequest, "INVALID_CONTEXT"
	case errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, gutcheck.ErrEmptyNarrative),
		errors.Is(err, deals.ErrEmptyName),
		errors.Is(err, errBadJSON),
		errors.Is(err, errRiskScoreBounds),
		errors.Is(err, errRiskScoreCount):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, errUnknownMethod), errors.Is(err, errUnknownFormat):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, errPDFUnavailable):
		status, code = http.StatusNotImplemented, "NOT_IMPLEMENTED"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed", logger.Fields{"method": r.Method, "path": r.URL.Path})
		msg = "internal error"
	}
	writeJSON(w, status, api.Error{Error: api.ErrorBody{Code: code, Message: msg}})
}
