package session

import (
	"time"

	"valuator/internal/domain"
	"valuator/internal/valuation"
)

// Valuation is every methodology input plus the shared context.
type Valuation struct {
	Context         domain.ValuationContext      `json:"context"`
	Berkus          domain.BerkusInputs          `json:"berkusInputs"`
	Scorecard       domain.ScorecardInputs       `json:"scorecardInputs"`
	RiskFactor      domain.RiskFactorInputs      `json:"riskFactorInputs"`
	VC              domain.VCMethodInputs        `json:"vcInputs"`
	CostToDuplicate domain.CostToDuplicateInputs `json:"costToDuplicateInputs"`
	GutCheck        *domain.GutCheckResult       `json:"gutCheck,omitempty"`
}

// Session is the explicit state handle passed to the interpreter. Setters
// replace whole records.
type Session struct {
	ID           string                   `json:"id"`
	Valuation    Valuation                `json:"valuation"`
	Conversation domain.ConversationState `json:"conversation"`
	Messages     []domain.ChatMessage     `json:"messages"`
	// DeferredSeq is the sequence number of the latest command handed to
	// the AI gateway. Replies carrying an older number are stale.
	DeferredSeq uint64 `json:"deferredSeq"`
	// Version counts saves. Stores reject a save whose Version no longer
	// matches the stored one and bump it on success.
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns a session seeded with the starting values of a fresh
// SaaS, US tier 1 evaluation.
func New(id string, now time.Time) *Session {
	ctx := domain.ValuationContext{Sector: domain.SectorSaaS, Region: domain.RegionUSTier1}
	d := valuation.Resolve(ctx)

	return &Session{
		ID: id,
		Valuation: Valuation{
			Context: ctx,
			Berkus:  seededBerkus(d.Berkus),
			Scorecard: domain.ScorecardInputs{
				MarketAverage:       10_000_000,
				TeamScore:           1.25,
				OpportunityScore:    1.0,
				ProductScore:        1.0,
				CompetitionScore:    1.0,
				MarketingScore:      1.0,
				InvestmentNeedScore: 1.0,
				OtherScore:          1.0,
			},
			RiskFactor: domain.RiskFactorInputs{
				BaseValuation:      10_000_000,
				AdjustmentPerPoint: 250_000,
			},
			VC: domain.VCMethodInputs{
				ExitRevenue:      10_000_000,
				ExitMultiple:     d.VC.ExitMultiple,
				RequiredROI:      d.VC.ROITarget,
				InvestmentAmount: 2_000_000,
			},
			CostToDuplicate: domain.CostToDuplicateInputs{
				LaborCost:              500_000,
				IPCost:                 50_000,
				EquipmentCost:          20_000,
				OpportunityCostPercent: 0.20,
			},
		},
		Conversation: domain.Idle(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func seededBerkus(caps valuation.BerkusCaps) domain.BerkusInputs {
	return domain.BerkusInputs{
		IdeaValue:          caps.IdeaCap / 2,
		PrototypeValue:     caps.TechCap / 2,
		TeamValue:          caps.TeamCap / 2,
		RelationshipsValue: 250_000,
		SalesValue:         0,
	}
}

func (s *Session) Context() domain.ValuationContext { return s.Valuation.Context }

// SetContext replaces the context. A sector change resets the VC exit
// multiple and ROI target to the new sector's defaults and reseeds Berkus
// when both its idea and team values are zero. Region changes touch
// nothing else.
func (s *Session) SetContext(ctx domain.ValuationContext) {
	prev := s.Valuation.Context
	s.Valuation.Context = ctx
	if ctx.Sector == prev.Sector {
		return
	}

	d := valuation.Resolve(ctx)
	vc := s.Valuation.VC
	vc.ExitMultiple = d.VC.ExitMultiple
	vc.RequiredROI = d.VC.ROITarget
	s.Valuation.VC = vc

	if b := s.Valuation.Berkus; b.IdeaValue == 0 && b.TeamValue == 0 {
		s.Valuation.Berkus = seededBerkus(d.Berkus)
	}
}

func (s *Session) BerkusInputs() domain.BerkusInputs { return s.Valuation.Berkus }

func (s *Session) SetBerkusInputs(in domain.BerkusInputs) { s.Valuation.Berkus = in }

func (s *Session) ScorecardInputs() domain.ScorecardInputs { return s.Valuation.Scorecard }

func (s *Session) SetScorecardInputs(in domain.ScorecardInputs) { s.Valuation.Scorecard = in }

func (s *Session) RiskFactorInputs() domain.RiskFactorInputs { return s.Valuation.RiskFactor }

func (s *Session) SetRiskFactorInputs(in domain.RiskFactorInputs) { s.Valuation.RiskFactor = in }

func (s *Session) VCInputs() domain.VCMethodInputs { return s.Valuation.VC }

func (s *Session) SetVCInputs(in domain.VCMethodInputs) { s.Valuation.VC = in }

func (s *Session) CostToDuplicateInputs() domain.CostToDuplicateInputs {
	return s.Valuation.CostToDuplicate
}

func (s *Session) SetCostToDuplicateInputs(in domain.CostToDuplicateInputs) {
	s.Valuation.CostToDuplicate = in
}

func (s *Session) RiskFactorValuation() float64 {
	return valuation.RiskFactor(s.Valuation.RiskFactor)
}

func (s *Session) CostToDuplicateValuation() float64 {
	return valuation.CostToDuplicate(s.Valuation.CostToDuplicate)
}

// Valuations computes every methodology for the current inputs.
func (s *Session) Valuations() valuation.Valuations {
	ctx := s.Valuation.Context
	return valuation.Valuations{
		Berkus:          valuation.Berkus(s.Valuation.Berkus),
		Scorecard:       valuation.Scorecard(s.Valuation.Scorecard, &ctx),
		RiskFactor:      s.RiskFactorValuation(),
		VCPreMoney:      valuation.VC(s.Valuation.VC).PreMoney,
		CostToDuplicate: s.CostToDuplicateValuation(),
	}
}

// Summary triangulates the methods, applying any stored gut-check
// adjustment.
func (s *Session) Summary() valuation.Triangulation {
	adj := 0.0
	if s.Valuation.GutCheck != nil {
		adj = s.Valuation.GutCheck.SuggestedAdjustment
	}
	return valuation.Triangulate(s.Valuations(), adj)
}

// AppendMessage adds a message to the transcript.
func (s *Session) AppendMessage(m domain.ChatMessage) {
	s.Messages = append(s.Messages, m)
}

// Snapshot captures the persisted deal layout.
func (s *Session) Snapshot() domain.DealData {
	rf := s.Valuation.RiskFactor
	cd := s.Valuation.CostToDuplicate
	return domain.DealData{
		Context:                  s.Valuation.Context,
		BerkusInputs:             s.Valuation.Berkus,
		ScorecardInputs:          s.Valuation.Scorecard,
		VCInputs:                 s.Valuation.VC,
		RiskFactorValuation:      s.RiskFactorValuation(),
		CostToDuplicateValuation: s.CostToDuplicateValuation(),
		RiskFactorInputs:         &rf,
		CostToDuplicateInputs:    &cd,
	}
}

// Restore replaces every valuation field from a snapshot. Snapshots that
// carry only the two scalar valuations are restored as inputs that
// reproduce those scalars: a zero-score risk base and a labour-only cost.
func (s *Session) Restore(d domain.DealData) {
	s.Valuation.Context = d.Context
	s.Valuation.Berkus = d.BerkusInputs
	s.Valuation.Scorecard = d.ScorecardInputs
	s.Valuation.VC = d.VCInputs

	if d.RiskFactorInputs != nil {
		s.Valuation.RiskFactor = *d.RiskFactorInputs
	} else {
		s.Valuation.RiskFactor = domain.RiskFactorInputs{
			BaseValuation:      d.RiskFactorValuation,
			AdjustmentPerPoint: s.Valuation.RiskFactor.AdjustmentPerPoint,
		}
	}
	if d.CostToDuplicateInputs != nil {
		s.Valuation.CostToDuplicate = *d.CostToDuplicateInputs
	} else {
		s.Valuation.CostToDuplicate = domain.CostToDuplicateInputs{LaborCost: d.CostToDuplicateValuation}
	}
	s.Valuation.GutCheck = nil
}

// GatewayContext is the valuation snapshot sent with gateway requests.
func (s *Session) GatewayContext() domain.GatewayContext {
	vc := s.Valuation.VC
	sc := s.Valuation.Scorecard
	return domain.GatewayContext{
		Sector:          s.Valuation.Context.Sector,
		Region:          s.Valuation.Context.Region,
		VCInputs:        &vc,
		ScorecardInputs: &sc,
	}
}
