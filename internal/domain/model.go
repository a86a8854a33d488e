package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Core valuation records shared by the calculator, the interpreter and the
// adapters. JSON names follow the persisted deal snapshot layout.

var (
	ErrInvalidSector = errors.New("invalid sector")
	ErrInvalidRegion = errors.New("invalid region")
)

type Sector string

const (
	SectorSaaS        Sector = "SaaS"
	SectorAIDeepTech  Sector = "AI/DeepTech"
	SectorMarketplace Sector = "Marketplace"
	SectorHardware    Sector = "Hardware"
	SectorConsumer    Sector = "Consumer"
)

// Sectors lists every supported sector in display order.
var Sectors = []Sector{SectorSaaS, SectorAIDeepTech, SectorMarketplace, SectorHardware, SectorConsumer}

func (s Sector) Valid() bool {
	for _, known := range Sectors {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSector accepts the canonical name in any letter case.
func ParseSector(raw string) (Sector, error) {
	for _, known := range Sectors {
		if strings.EqualFold(strings.TrimSpace(raw), string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSector, raw)
}

type Region string

const (
	RegionUSTier1  Region = "US_Tier1"
	RegionUSTier2  Region = "US_Tier2"
	RegionEUTier1  Region = "EU_Tier1"
	RegionEmerging Region = "Emerging"
)

var Regions = []Region{RegionUSTier1, RegionUSTier2, RegionEUTier1, RegionEmerging}

func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

func ParseRegion(raw string) (Region, error) {
	for _, known := range Regions {
		if strings.EqualFold(strings.TrimSpace(raw), string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, raw)
}

type ValuationContext struct {
	Sector Sector `json:"sector"`
	Region Region `json:"region"`
}

func (c ValuationContext) Validate() error {
	if !c.Sector.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSector, c.Sector)
	}
	if !c.Region.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRegion, c.Region)
	}
	return nil
}

// BerkusInputs holds currency values, one per milestone.
type BerkusInputs struct {
	IdeaValue          float64 `json:"ideaValue"`
	PrototypeValue     float64 `json:"prototypeValue"`
	TeamValue          float64 `json:"teamValue"`
	RelationshipsValue float64 `json:"relationshipsValue"`
	SalesValue         float64 `json:"salesValue"`
}

// ScorecardInputs holds a market average pre-money and seven comparison
// multipliers where 1.0 means "average".
type ScorecardInputs struct {
	MarketAverage       float64 `json:"marketAverage"`
	TeamScore           float64 `json:"teamScore"`
	OpportunityScore    float64 `json:"opportunityScore"`
	ProductScore        float64 `json:"productScore"`
	CompetitionScore    float64 `json:"competitionScore"`
	MarketingScore      float64 `json:"marketingScore"`
	InvestmentNeedScore float64 `json:"investmentNeedScore"`
	OtherScore          float64 `json:"otherScore"`
}

// RiskCategoryCount is the fixed number of risk factor scores.
const RiskCategoryCount = 12

// MaxRiskScore bounds every risk score to [-MaxRiskScore, MaxRiskScore].
const MaxRiskScore = 2

type RiskFactorInputs struct {
	BaseValuation      float64                `json:"baseValuation"`
	RiskScores         [RiskCategoryCount]int `json:"riskScores"`
	AdjustmentPerPoint float64                `json:"adjustmentPerPoint"`
}

type VCMethodInputs struct {
	ExitRevenue      float64 `json:"exitRevenue"`
	ExitMultiple     float64 `json:"exitMultiple"`
	RequiredROI      float64 `json:"requiredROI"`
	InvestmentAmount float64 `json:"investmentAmount"`
}

type CostToDuplicateInputs struct {
	LaborCost              float64 `json:"laborCost"`
	IPCost                 float64 `json:"ipCost"`
	EquipmentCost          float64 `json:"equipmentCost"`
	OpportunityCostPercent float64 `json:"opportunityCostPercent"`
}

type GutCheckResult struct {
	ConvictionScore     float64 `json:"convictionScore"`
	SuggestedAdjustment float64 `json:"suggestedAdjustment"`
	Reasoning           string  `json:"reasoning"`
}
