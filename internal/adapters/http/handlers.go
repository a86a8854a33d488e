package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"valuator/internal/adapters/report"
	"valuator/internal/api"
	"valuator/internal/domain"
	"valuator/internal/services/session"
	"valuator/internal/valuation"
)

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data", errBadJSON)
	}
	return nil
}

func sessionView(s *session.Session) api.Session {
	return api.Session{
		ID:      s.ID,
		Context: s.Context(),
		Inputs: api.Inputs{
			Berkus:          s.BerkusInputs(),
			Scorecard:       s.ScorecardInputs(),
			RiskFactor:      s.RiskFactorInputs(),
			VC:              s.VCInputs(),
			CostToDuplicate: s.CostToDuplicateInputs(),
		},
		Summary:        s.Summary(),
		GutCheck:       s.Valuation.GutCheck,
		Conversation:   s.Conversation,
		RiskCategories: valuation.RiskCategories[:],
		UpdatedAt:      s.UpdatedAt,
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Status: "ok"})
}

func (s *Server) getDefaults(w http.ResponseWriter, r *http.Request) {
	ctx := domain.ValuationContext{Sector: domain.SectorSaaS, Region: domain.RegionUSTier1}
	if raw := r.URL.Query().Get("sector"); raw != "" {
		sector, err := domain.ParseSector(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ctx.Sector = sector
	}
	if raw := r.URL.Query().Get("region"); raw != "" {
		region, err := domain.ParseRegion(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ctx.Region = region
	}
	writeJSON(w, http.StatusOK, api.Defaults{Context: ctx, Defaults: valuation.Resolve(ctx)})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView(sess))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) putContext(w http.ResponseWriter, r *http.Request) {
	var req api.ContextRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sector, err := domain.ParseSector(req.Sector)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	region, err := domain.ParseRegion(req.Region)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		sess.SetContext(domain.ValuationContext{Sector: sector, Region: region})
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

// riskFactorInputs requires exactly one bounded score per risk category.
func riskFactorInputs(req api.RiskFactorRequest) (domain.RiskFactorInputs, error) {
	in := domain.RiskFactorInputs{
		BaseValuation:      req.BaseValuation,
		AdjustmentPerPoint: req.AdjustmentPerPoint,
	}
	if len(req.RiskScores) != domain.RiskCategoryCount {
		return in, fmt.Errorf("%w: got %d", errRiskScoreCount, len(req.RiskScores))
	}
	for i, score := range req.RiskScores {
		if score < -domain.MaxRiskScore || score > domain.MaxRiskScore {
			return in, errRiskScoreBounds
		}
		in.RiskScores[i] = score
	}
	return in, nil
}

// putInputs replaces one methodology's inputs wholesale.
func (s *Server) putInputs(w http.ResponseWriter, r *http.Request) {
	var apply func(*session.Session)

	switch chi.URLParam(r, "method") {
	case "berkus":
		var in domain.BerkusInputs
		if err := decode(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		apply = func(sess *session.Session) { sess.SetBerkusInputs(in) }
	case "scorecard":
		var in domain.ScorecardInputs
		if err := decode(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		apply = func(sess *session.Session) { sess.SetScorecardInputs(in) }
	case "risk-factor":
		var req api.RiskFactorRequest
		if err := decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		in, err := riskFactorInputs(req)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		apply = func(sess *session.Session) { sess.SetRiskFactorInputs(in) }
	case "vc":
		var in domain.VCMethodInputs
		if err := decode(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		apply = func(sess *session.Session) { sess.SetVCInputs(in) }
	case "cost-to-duplicate":
		var in domain.CostToDuplicateInputs
		if err := decode(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		apply = func(sess *session.Session) { sess.SetCostToDuplicateInputs(in) }
	default:
		s.writeError(w, r, errUnknownMethod)
		return
	}

	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		apply(sess)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) getSensitivity(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Sensitivity{
		ROIFactors:      valuation.SensitivityFactors,
		MultipleFactors: valuation.SensitivityFactors,
		Matrix:          valuation.Sensitivity(sess.VCInputs()),
	})
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req api.MessageRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))

	reply, err := s.assistant.Send(r.Context(), chi.URLParam(r, "id"), req.Text, wait)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if reply.Pending {
		status = http.StatusAccepted
	}
	writeJSON(w, status, api.MessageResponse{
		Messages:     reply.Messages,
		Conversation: reply.Conversation,
		Pending:      reply.Pending,
		Seq:          reply.Seq,
	})
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	msgs, conv, err := s.assistant.Transcript(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, api.Transcript{Messages: msgs, Conversation: conv})
}

func (s *Server) postGutCheck(w http.ResponseWriter, r *http.Request) {
	var req api.GutCheckRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.gutcheck.Analyze(r.Context(), chi.URLParam(r, "id"), req.Narrative)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) saveDeal(w http.ResponseWriter, r *http.Request) {
	var req api.SaveDealRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.deals.Save(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) listDeals(w http.ResponseWriter, r *http.Request) {
	list, err := s.deals.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Deals{Deals: list})
}

func (s *Server) loadDeal(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deals.Load(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "dealID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	md := report.Markdown(sess)

	var (
		body        []byte
		contentType string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "md", "markdown":
		body, contentType = []byte(md), "text/markdown; charset=utf-8"
	case "html":
		body, err = report.HTML(md)
		contentType = "text/html; charset=utf-8"
	case "pdf":
		if s.pdf == nil {
			s.writeError(w, r, errPDFUnavailable)
			return
		}
		body, err = s.pdf.Render(r.Context(), md)
		contentType = "application/pdf"
	default:
		s.writeError(w, r, fmt.Errorf("%w: %s", errUnknownFormat, format))
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if contentType == "application/pdf" {
		w.Header().Set("Content-Disposition", `attachment; filename="valuation-report.pdf"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
