package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"valuator/internal/domain"
)

func TestBerkusSumsMilestones(t *testing.T) {
	in := domain.BerkusInputs{
		IdeaValue:          500_000,
		PrototypeValue:     250_000,
		TeamValue:          350_000,
		RelationshipsValue: 250_000,
		SalesValue:         125_000,
	}
	assert.Equal(t, 1_475_000.0, Berkus(in))

	reordered := domain.BerkusInputs{
		IdeaValue:          in.SalesValue,
		PrototypeValue:     in.RelationshipsValue,
		TeamValue:          in.TeamValue,
		RelationshipsValue: in.PrototypeValue,
		SalesValue:         in.IdeaValue,
	}
	assert.Equal(t, Berkus(in), Berkus(reordered))
	assert.Equal(t, 0.0, Berkus(domain.BerkusInputs{}))
}

func TestScorecardAverageScoresReturnMarketAverage(t *testing.T) {
	in := domain.ScorecardInputs{
		MarketAverage:       7_300_000,
		TeamScore:           1,
		OpportunityScore:    1,
		ProductScore:        1,
		CompetitionScore:    1,
		MarketingScore:      1,
		InvestmentNeedScore: 1,
		OtherScore:          1,
	}

	assert.Equal(t, in.MarketAverage, Scorecard(in, nil))
	for _, sector := range domain.Sectors {
		for _, region := range domain.Regions {
			ctx := domain.ValuationContext{Sector: sector, Region: region}
			assert.Equal(t, in.MarketAverage, Scorecard(in, &ctx), "%s/%s", sector, region)
		}
	}

	odd := ScorecardWeights{Team: 3, Opportunity: 0.7, Product: 0.01, Competition: 2, Marketing: 0.33, InvestmentNeed: 1.9, Other: 0.2}
	assert.Equal(t, in.MarketAverage, ScorecardWeighted(in, odd))
}

func TestScorecardStrongTeam(t *testing.T) {
	in := domain.ScorecardInputs{
		MarketAverage:       10_000_000,
		TeamScore:           1.5,
		OpportunityScore:    1,
		ProductScore:        1,
		CompetitionScore:    1,
		MarketingScore:      1,
		InvestmentNeedScore: 1,
		OtherScore:          1,
	}
	// team weight 0.30 of a total 1.0: factor 1.15
	assert.InDelta(t, 11_500_000, Scorecard(in, nil), 1e-6)
}

func TestScorecardUnnormalizedWeights(t *testing.T) {
	in := domain.ScorecardInputs{MarketAverage: 1_000, TeamScore: 2}
	w := ScorecardWeights{Team: 1, Opportunity: 1}
	assert.InDelta(t, 1_000.0, ScorecardWeighted(in, w), 1e-9)
}

func TestVC(t *testing.T) {
	got := VC(domain.VCMethodInputs{
		ExitRevenue:      10_000_000,
		ExitMultiple:     10,
		RequiredROI:      10,
		InvestmentAmount: 2_000_000,
	})
	assert.Equal(t, VCResult{TerminalValue: 100_000_000, PostMoney: 10_000_000, PreMoney: 8_000_000}, got)
}

func TestVCNegativePreMoneyIsReturned(t *testing.T) {
	got := VC(domain.VCMethodInputs{ExitRevenue: 1_000_000, ExitMultiple: 2, RequiredROI: 20, InvestmentAmount: 500_000})
	assert.Equal(t, -400_000.0, got.PreMoney)
}

func TestVCZeroROIDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		VC(domain.VCMethodInputs{ExitRevenue: 1, ExitMultiple: 1})
	})
}

func TestRiskFactor(t *testing.T) {
	in := domain.RiskFactorInputs{
		BaseValuation:      5_000_000,
		RiskScores:         [domain.RiskCategoryCount]int{2, -1},
		AdjustmentPerPoint: 250_000,
	}
	assert.Equal(t, 5_250_000.0, RiskFactor(in))

	in.RiskScores = [domain.RiskCategoryCount]int{-2, -2, -2, -2, -2, -2, -2, -2, -2, -2, -2, -2}
	assert.Equal(t, -1_000_000.0, RiskFactor(in))
}

func TestCostToDuplicate(t *testing.T) {
	in := domain.CostToDuplicateInputs{
		LaborCost:              100_000,
		IPCost:                 50_000,
		EquipmentCost:          50_000,
		OpportunityCostPercent: 0.2,
	}
	assert.InDelta(t, 240_000, CostToDuplicate(in), 1e-9)
}

func TestFormulasAreIdempotent(t *testing.T) {
	b := domain.BerkusInputs{IdeaValue: 1.1, PrototypeValue: 2.2, TeamValue: 3.3}
	s := domain.ScorecardInputs{MarketAverage: 3e6, TeamScore: 1.3, OpportunityScore: 0.4, ProductScore: 1.7}
	v := domain.VCMethodInputs{ExitRevenue: 3.7e7, ExitMultiple: 7.5, RequiredROI: 13, InvestmentAmount: 1.1e6}
	r := domain.RiskFactorInputs{BaseValuation: 4e6, RiskScores: [domain.RiskCategoryCount]int{1, 2, -2}, AdjustmentPerPoint: 1e5}
	c := domain.CostToDuplicateInputs{LaborCost: 1, IPCost: 2, EquipmentCost: 3, OpportunityCostPercent: 0.33}
	ctx := domain.ValuationContext{Sector: domain.SectorConsumer, Region: domain.RegionEmerging}

	assert.Equal(t, Berkus(b), Berkus(b))
	assert.Equal(t, Scorecard(s, &ctx), Scorecard(s, &ctx))
	assert.Equal(t, VC(v), VC(v))
	assert.Equal(t, RiskFactor(r), RiskFactor(r))
	assert.Equal(t, CostToDuplicate(c), CostToDuplicate(c))
	assert.Equal(t, Sensitivity(v), Sensitivity(v))
}
