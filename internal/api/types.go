// Package api holds the JSON request and response bodies shared by the HTTP
// adapter and the CLI client.
package api

import (
	"time"

	"valuator/internal/domain"
	"valuator/internal/valuation"
)

type Health struct {
	Status string `json:"status"`
}

type Error struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Inputs struct {
	Berkus          domain.BerkusInputs          `json:"berkus"`
	Scorecard       domain.ScorecardInputs       `json:"scorecard"`
	RiskFactor      domain.RiskFactorInputs      `json:"riskFactor"`
	VC              domain.VCMethodInputs        `json:"vc"`
	CostToDuplicate domain.CostToDuplicateInputs `json:"costToDuplicate"`
}

type Session struct {
	ID             string                   `json:"id"`
	Context        domain.ValuationContext  `json:"context"`
	Inputs         Inputs                   `json:"inputs"`
	Summary        valuation.Triangulation  `json:"summary"`
	GutCheck       *domain.GutCheckResult   `json:"gutCheck,omitempty"`
	Conversation   domain.ConversationState `json:"conversation"`
	RiskCategories []string                 `json:"riskCategories"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// RiskFactorRequest carries the scores as a list so their count can be
// checked before they are copied into the fixed-size inputs.
type RiskFactorRequest struct {
	BaseValuation      float64 `json:"baseValuation"`
	RiskScores         []int   `json:"riskScores"`
	AdjustmentPerPoint float64 `json:"adjustmentPerPoint"`
}

type ContextRequest struct {
	Sector string `json:"sector"`
	Region string `json:"region"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse is returned by POST /sessions/{id}/messages. When Pending
// is set, poll the transcript for the answer.
type MessageResponse struct {
	Messages     []domain.ChatMessage     `json:"messages"`
	Conversation domain.ConversationState `json:"conversation"`
	Pending      bool                     `json:"pending"`
	Seq          uint64                   `json:"seq,omitempty"`
}

type Transcript struct {
	Messages     []domain.ChatMessage     `json:"messages"`
	Conversation domain.ConversationState `json:"conversation"`
}

type GutCheckRequest struct {
	Narrative string `json:"narrative"`
}

type SaveDealRequest struct {
	Name string `json:"name"`
}

type Deals struct {
	Deals []domain.DealSummary `json:"deals"`
}

type Sensitivity struct {
	ROIFactors      [3]float64                  `json:"roiFactors"`
	MultipleFactors [3]float64                  `json:"multipleFactors"`
	Matrix          valuation.SensitivityMatrix `json:"matrix"`
}

type Defaults struct {
	Context  domain.ValuationContext `json:"context"`
	Defaults valuation.SmartDefaults `json:"defaults"`
}
