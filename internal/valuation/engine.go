// Package valuation holds the pure formula engine: one function per
// methodology, the smart-defaults resolver, VC sensitivity and the
// triangulated summary. Nothing here returns errors; out-of-range inputs
// propagate arithmetically and callers decide what to warn about.
package valuation

import "valuator/internal/domain"

// Berkus sums the five milestone values.
func Berkus(in domain.BerkusInputs) float64 {
	return in.IdeaValue + in.PrototypeValue + in.TeamValue + in.RelationshipsValue + in.SalesValue
}

// Scorecard applies the weights resolved for ctx. A nil ctx uses
// DefaultScorecardWeights.
func Scorecard(in domain.ScorecardInputs, ctx *domain.ValuationContext) float64 {
	weights := DefaultScorecardWeights
	if ctx != nil {
		weights = Resolve(*ctx).Scorecard.Weights
	}
	return ScorecardWeighted(in, weights)
}

// ScorecardWeighted computes marketAverage * (sum(score*weight) / sum(weight)).
// Weights need not sum to one.
func ScorecardWeighted(in domain.ScorecardInputs, w ScorecardWeights) float64 {
	pairs := [...][2]float64{
		{in.TeamScore, w.Team},
		{in.OpportunityScore, w.Opportunity},
		{in.ProductScore, w.Product},
		{in.CompetitionScore, w.Competition},
		{in.MarketingScore, w.Marketing},
		{in.InvestmentNeedScore, w.InvestmentNeed},
		{in.OtherScore, w.Other},
	}

	var factorSum, totalWeight float64
	for _, p := range pairs {
		factorSum += p[0] * p[1]
		totalWeight += p[1]
	}
	return in.MarketAverage * (factorSum / totalWeight)
}

type VCResult struct {
	PreMoney      float64 `json:"preMoney"`
	PostMoney     float64 `json:"postMoney"`
	TerminalValue float64 `json:"terminalValue"`
}

// VC derives terminal, post-money and pre-money values. PreMoney may be
// negative when the ROI target cannot be met at this investment size.
func VC(in domain.VCMethodInputs) VCResult {
	terminal := in.ExitRevenue * in.ExitMultiple
	post := terminal / in.RequiredROI
	return VCResult{
		PreMoney:      post - in.InvestmentAmount,
		PostMoney:     post,
		TerminalValue: terminal,
	}
}

func RiskFactor(in domain.RiskFactorInputs) float64 {
	total := 0
	for _, s := range in.RiskScores {
		total += s
	}
	return in.BaseValuation + float64(total)*in.AdjustmentPerPoint
}

func CostToDuplicate(in domain.CostToDuplicateInputs) float64 {
	return (in.LaborCost + in.IPCost + in.EquipmentCost) * (1 + in.OpportunityCostPercent)
}
