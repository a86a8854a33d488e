package copilot

import (
	"strings"

	"valuator/internal/domain"
)

// keywordRule maps any of its keywords to a value. Tables of rules are
// checked top to bottom and the first hit wins.
type keywordRule[T any] struct {
	keywords []string
	value    T
}

func firstMatch[T any](rules []keywordRule[T], lower string) (T, bool) {
	for _, r := range rules {
		if containsAny(lower, r.keywords...) {
			return r.value, true
		}
	}
	var zero T
	return zero, false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Interview answers.

var sectorKeywords = []keywordRule[domain.Sector]{
	{keywords: []string{"ai", "deep", "tech"}, value: domain.SectorAIDeepTech},
	{keywords: []string{"market"}, value: domain.SectorMarketplace},
	{keywords: []string{"hard"}, value: domain.SectorHardware},
	{keywords: []string{"consumer", "app"}, value: domain.SectorConsumer},
	{keywords: []string{"saas", "software"}, value: domain.SectorSaaS},
}

var regionKeywords = []keywordRule[domain.Region]{
	{keywords: []string{"sf", "nyc", "tier 1", "valley"}, value: domain.RegionUSTier1},
	{keywords: []string{"us", "austin", "miami"}, value: domain.RegionUSTier2},
	{keywords: []string{"eu", "uk", "london", "berlin"}, value: domain.RegionEUTier1},
	{keywords: []string{"emerging", "asia", "latam"}, value: domain.RegionEmerging},
}

type teamRating struct {
	score       float64
	berkusValue float64
}

var averageTeam = teamRating{score: 1.0, berkusValue: 0}

var teamKeywords = []keywordRule[teamRating]{
	{keywords: []string{"all-star", "amazing", "best"}, value: teamRating{score: 1.5, berkusValue: 500_000}},
	{keywords: []string{"strong", "good"}, value: teamRating{score: 1.25, berkusValue: 350_000}},
	{keywords: []string{"weak", "bad"}, value: teamRating{score: 0.7, berkusValue: 100_000}},
}

// Single-shot commands, consulted only while idle.

const maxBerkusValue = 500_000

type command struct {
	name  string
	when  func(lower string) bool
	apply func(lower string, st ValuationState) (reply string, ok bool)
}

var singleShot = []command{
	{name: "sector", when: mentions("sector", "mode"), apply: switchSector},
	{name: "region", when: mentions("region"), apply: switchRegion},
	{name: "berkus-max", when: wantsBerkusMax, apply: maximizeBerkus},
	{name: "exit-revenue", when: mentions("revenue", "exit"), apply: setExitRevenue},
	{name: "investment", when: mentions("investment", "raising"), apply: setInvestment},
	{name: "help", when: mentions("help", "what can you do"), apply: help},
}

// matchSingleShot runs the first command whose gate and action both
// succeed. A command whose action declines lets later commands try.
func matchSingleShot(lower string, st ValuationState) (name, reply string, ok bool) {
	for _, c := range singleShot {
		if !c.when(lower) {
			continue
		}
		if reply, ok := c.apply(lower, st); ok {
			return c.name, reply, true
		}
	}
	return "", "", false
}

func mentions(keywords ...string) func(string) bool {
	return func(lower string) bool { return containsAny(lower, keywords...) }
}

func wantsBerkusMax(lower string) bool {
	return containsAny(lower, "berkus", "idea", "prototype", "team") && strings.Contains(lower, "max")
}

var sectorSwitchKeywords = []keywordRule[domain.Sector]{
	{keywords: []string{"ai", "deep tech"}, value: domain.SectorAIDeepTech},
	{keywords: []string{"saas"}, value: domain.SectorSaaS},
	{keywords: []string{"marketplace"}, value: domain.SectorMarketplace},
	{keywords: []string{"hardware"}, value: domain.SectorHardware},
	{keywords: []string{"consumer"}, value: domain.SectorConsumer},
}

func switchSector(lower string, st ValuationState) (string, bool) {
	sector, ok := firstMatch(sectorSwitchKeywords, lower)
	if !ok {
		return "", false
	}
	ctx := st.Context()
	ctx.Sector = sector
	st.SetContext(ctx)
	return sectorSwitchReplies[sector], true
}

type regionSwitch struct {
	region domain.Region
	reply  string
}

var regionSwitchKeywords = []keywordRule[regionSwitch]{
	{keywords: []string{"tier 1", "sf", "nyc"}, value: regionSwitch{domain.RegionUSTier1, replyRegionUSTier1}},
	{keywords: []string{"eu", "europe"}, value: regionSwitch{domain.RegionEUTier1, replyRegionEUTier1}},
}

func switchRegion(lower string, st ValuationState) (string, bool) {
	sw, ok := firstMatch(regionSwitchKeywords, lower)
	if !ok {
		return "", false
	}
	ctx := st.Context()
	ctx.Region = sw.region
	st.SetContext(ctx)
	return sw.reply, true
}

type berkusTarget struct {
	set   func(*domain.BerkusInputs)
	reply string
}

var berkusTargets = []keywordRule[berkusTarget]{
	{keywords: []string{"idea"}, value: berkusTarget{func(b *domain.BerkusInputs) { b.IdeaValue = maxBerkusValue }, replyIdeaMaxed}},
	{keywords: []string{"prototype"}, value: berkusTarget{func(b *domain.BerkusInputs) { b.PrototypeValue = maxBerkusValue }, replyPrototypeMaxed}},
	{keywords: []string{"team"}, value: berkusTarget{func(b *domain.BerkusInputs) { b.TeamValue = maxBerkusValue }, replyTeamMaxed}},
}

func maximizeBerkus(lower string, st ValuationState) (string, bool) {
	target, ok := firstMatch(berkusTargets, lower)
	if !ok {
		return "", false
	}
	berkus := st.BerkusInputs()
	target.set(&berkus)
	st.SetBerkusInputs(berkus)
	return target.reply, true
}

func setExitRevenue(lower string, st ValuationState) (string, bool) {
	v, ok := extractAmount(lower)
	if !ok {
		return "", false
	}
	vc := st.VCInputs()
	vc.ExitRevenue = v
	st.SetVCInputs(vc)
	return replyExitRevenueSet(v), true
}

func setInvestment(lower string, st ValuationState) (string, bool) {
	v, ok := extractAmount(lower)
	if !ok {
		return "", false
	}
	vc := st.VCInputs()
	vc.InvestmentAmount = v
	st.SetVCInputs(vc)
	return replyInvestmentSet(v), true
}

func help(string, ValuationState) (string, bool) {
	return replyHelp, true
}
