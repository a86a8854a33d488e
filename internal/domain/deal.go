package domain

type DealSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// DealData is the valuation snapshot stored with a named deal. The two
// scalar valuations are always present; the full risk and cost inputs are
// optional so older snapshots that carry only scalars still load.
type DealData struct {
	Context                  ValuationContext       `json:"context"`
	BerkusInputs             BerkusInputs           `json:"berkusInputs"`
	ScorecardInputs          ScorecardInputs        `json:"scorecardInputs"`
	VCInputs                 VCMethodInputs         `json:"vcInputs"`
	RiskFactorValuation      float64                `json:"riskFactorValuation"`
	CostToDuplicateValuation float64                `json:"costToDuplicateValuation"`
	RiskFactorInputs         *RiskFactorInputs      `json:"riskFactorInputs,omitempty"`
	CostToDuplicateInputs    *CostToDuplicateInputs `json:"costToDuplicateInputs,omitempty"`
}

type Deal struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Date string   `json:"date"`
	Data DealData `json:"data"`
}

func (d Deal) Summary() DealSummary {
	return DealSummary{ID: d.ID, Name: d.Name, Date: d.Date}
}
