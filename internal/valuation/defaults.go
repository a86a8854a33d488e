package valuation

import "valuator/internal/domain"

type BerkusCaps struct {
	IdeaCap float64 `json:"ideaCap"`
	TechCap float64 `json:"techCap"`
	TeamCap float64 `json:"teamCap"`
}

type VCDefaults struct {
	ExitMultiple float64 `json:"exitMultiple"`
	ROITarget    float64 `json:"roiTarget"`
}

type ScorecardWeights struct {
	Team           float64 `json:"team"`
	Opportunity    float64 `json:"opportunity"`
	Product        float64 `json:"product"`
	Competition    float64 `json:"competition"`
	Marketing      float64 `json:"marketing"`
	InvestmentNeed float64 `json:"investmentNeed"`
	Other          float64 `json:"other"`
}

type ScorecardDefaults struct {
	Weights ScorecardWeights `json:"weights"`
}

// SmartDefaults are the per-context caps, multiples and weights offered to
// input surfaces. Caps are advisory; nothing enforces them on inputs.
type SmartDefaults struct {
	Berkus    BerkusCaps        `json:"berkus"`
	VC        VCDefaults        `json:"vc"`
	Scorecard ScorecardDefaults `json:"scorecard"`
}

// DefaultScorecardWeights apply when no context is supplied.
var DefaultScorecardWeights = ScorecardWeights{
	Team:           0.30,
	Opportunity:    0.25,
	Product:        0.15,
	Competition:    0.10,
	Marketing:      0.10,
	InvestmentNeed: 0.05,
	Other:          0.05,
}

// Resolve is a table lookup keyed on whether the sector is AI/DeepTech and
// whether the region is US tier 1, with SaaS and Consumer adjusting the VC
// multiple and marketing weight.
func Resolve(ctx domain.ValuationContext) SmartDefaults {
	isAI := ctx.Sector == domain.SectorAIDeepTech
	isTier1 := ctx.Region == domain.RegionUSTier1

	d := SmartDefaults{
		Berkus: BerkusCaps{IdeaCap: 1_500_000, TechCap: 2_000_000, TeamCap: 3_000_000},
		VC:     VCDefaults{ExitMultiple: 8, ROITarget: 20},
		Scorecard: ScorecardDefaults{Weights: ScorecardWeights{
			Team:           0.30,
			Opportunity:    0.25,
			Product:        0.15,
			Competition:    0.10,
			Marketing:      0.10,
			InvestmentNeed: 0.05,
			Other:          0.05,
		}},
	}

	if isAI {
		d.Berkus.IdeaCap = 2_000_000
		d.Berkus.TechCap = 3_000_000
		d.VC = VCDefaults{ExitMultiple: 25, ROITarget: 30}
		d.Scorecard.Weights.Opportunity = 0.30
		d.Scorecard.Weights.Product = 0.20
	} else if ctx.Sector == domain.SectorSaaS {
		d.VC.ExitMultiple = 12
	}
	if isTier1 {
		d.Berkus.TeamCap = 3_500_000
	}
	if ctx.Sector == domain.SectorConsumer {
		d.Scorecard.Weights.Marketing = 0.20
	}
	return d
}
