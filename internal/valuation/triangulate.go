package valuation

import "math"

// RiskCategories names the twelve risk factor scores, in score order.
var RiskCategories = [12]string{
	"Management Risk",
	"Stage of Business",
	"Legislation/Political Risk",
	"Manufacturing Risk",
	"Sales and Marketing Risk",
	"Funding/Capital Raising Risk",
	"Competition Risk",
	"Technology Risk",
	"Litigation Risk",
	"International Risk",
	"Reputation Risk",
	"Exit Value Risk",
}

const NegativePreMoneyWarning = "Negative valuation: the required ROI cannot be met at this investment size"

// Valuations carries one value per methodology.
type Valuations struct {
	Berkus          float64 `json:"berkus"`
	Scorecard       float64 `json:"scorecard"`
	RiskFactor      float64 `json:"riskFactor"`
	VCPreMoney      float64 `json:"vcPreMoney"`
	CostToDuplicate float64 `json:"costToDuplicate"`
}

type Triangulation struct {
	Methods            Valuations `json:"methods"`
	Average            float64    `json:"average"`
	Low                float64    `json:"low"`
	High               float64    `json:"high"`
	GutCheckAdjustment float64    `json:"gutCheckAdjustment"`
	Adjusted           float64    `json:"adjusted"`
	Warnings           []string   `json:"warnings,omitempty"`
}

// Triangulate averages Berkus, Scorecard, Risk Factor and VC pre-money.
// Cost-to-duplicate is reported as a floor and kept out of the range.
func Triangulate(v Valuations, gutAdjustment float64) Triangulation {
	ranged := []float64{v.Berkus, v.Scorecard, v.RiskFactor, v.VCPreMoney}

	sum, low, high := 0.0, math.Inf(1), math.Inf(-1)
	for _, x := range ranged {
		sum += x
		low = math.Min(low, x)
		high = math.Max(high, x)
	}
	avg := sum / float64(len(ranged))

	t := Triangulation{
		Methods:            v,
		Average:            avg,
		Low:                low,
		High:               high,
		GutCheckAdjustment: gutAdjustment,
		Adjusted:           avg + gutAdjustment,
	}
	if v.VCPreMoney < 0 {
		t.Warnings = append(t.Warnings, NegativePreMoneyWarning)
	}
	return t
}
