package copilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuator/internal/domain"
)

type fakeState struct {
	ctx       domain.ValuationContext
	berkus    domain.BerkusInputs
	scorecard domain.ScorecardInputs
	vc        domain.VCMethodInputs
	sets      int
}

func newFakeState() *fakeState {
	return &fakeState{
		ctx:       domain.ValuationContext{Sector: domain.SectorSaaS, Region: domain.RegionUSTier2},
		berkus:    domain.BerkusInputs{IdeaValue: 750_000, RelationshipsValue: 250_000},
		scorecard: domain.ScorecardInputs{MarketAverage: 10_000_000, TeamScore: 1},
		vc:        domain.VCMethodInputs{ExitRevenue: 10_000_000, ExitMultiple: 12, RequiredROI: 20, InvestmentAmount: 2_000_000},
	}
}

func (f *fakeState) Context() domain.ValuationContext { return f.ctx }
func (f *fakeState) SetContext(c domain.ValuationContext) { f.ctx = c; f.sets++ }
func (f *fakeState) BerkusInputs() domain.BerkusInputs { return f.berkus }
func (f *fakeState) SetBerkusInputs(b domain.BerkusInputs) { f.berkus = b; f.sets++ }
func (f *fakeState) ScorecardInputs() domain.ScorecardInputs { return f.scorecard }
func (f *fakeState) SetScorecardInputs(s domain.ScorecardInputs) { f.scorecard = s; f.sets++ }
func (f *fakeState) VCInputs() domain.VCMethodInputs { return f.vc }
func (f *fakeState) SetVCInputs(v domain.VCMethodInputs) { f.vc = v; f.sets++ }

func handled(t *testing.T, r Result) Handled {
	t.Helper()
	h, ok := r.(Handled)
	require.True(t, ok, "expected Handled, got %T", r)
	return h
}

func TestGuidedInterview(t *testing.T) {
	st := newFakeState()
	conv := domain.Idle()

	h := handled(t, Process("I want to evaluate my idea", st, conv))
	assert.Equal(t, domain.StepAskingSector, h.Next.Step)
	assert.Equal(t, replyAskSector, h.Reply)

	h = handled(t, Process("we're in AI", st, h.Next))
	assert.Equal(t, domain.StepAskingRegion, h.Next.Step)
	assert.Equal(t, domain.SectorAIDeepTech, st.ctx.Sector)

	h = handled(t, Process("we're in Berlin", st, h.Next))
	assert.Equal(t, domain.StepAskingRevenue, h.Next.Step)
	assert.Equal(t, domain.RegionEUTier1, st.ctx.Region)
	assert.Equal(t, replyAskRevenue, h.Reply)

	h = handled(t, Process("about 50M", st, h.Next))
	assert.Equal(t, domain.StepAskingTeam, h.Next.Step)
	assert.Equal(t, 50_000_000.0, st.vc.ExitRevenue)
	assert.Contains(t, h.Reply, "$50,000,000")

	h = handled(t, Process("strong team", st, h.Next))
	assert.Equal(t, domain.StepIdle, h.Next.Step)
	assert.Equal(t, 1.25, st.scorecard.TeamScore)
	assert.Equal(t, 350_000.0, st.berkus.TeamValue)
	assert.Equal(t, replyInterviewDone, h.Reply)
}

func TestInterviewTriggers(t *testing.T) {
	for _, text := range []string{"Let me pitch you something", "can you evaluate this", "I have an idea"} {
		h := handled(t, Process(text, newFakeState(), domain.Idle()))
		assert.Equal(t, domain.StepAskingSector, h.Next.Step, text)
	}
}

func TestSectorPriority(t *testing.T) {
	tests := []struct {
		text string
		want domain.Sector
	}{
		{"saas with some ai", domain.SectorAIDeepTech},
		{"software marketplace", domain.SectorMarketplace},
		{"hardware", domain.SectorHardware},
		{"a consumer app", domain.SectorConsumer},
		{"B2B SaaS", domain.SectorSaaS},
	}
	for _, tt := range tests {
		st := newFakeState()
		h := handled(t, Process(tt.text, st, at(domain.StepAskingSector)))
		assert.Equal(t, tt.want, st.ctx.Sector, tt.text)
		assert.Equal(t, domain.StepAskingRegion, h.Next.Step, tt.text)
	}
}

func TestSectorUnknownReprompts(t *testing.T) {
	st := newFakeState()
	h := handled(t, Process("biotech?", st, at(domain.StepAskingSector)))
	// "biotech" contains "tech"
	assert.Equal(t, domain.StepAskingRegion, h.Next.Step)

	st = newFakeState()
	h = handled(t, Process("no idea", st, at(domain.StepAskingSector)))
	assert.Equal(t, domain.StepAskingSector, h.Next.Step)
	assert.Equal(t, replySectorUnknown, h.Reply)
	assert.Equal(t, domain.SectorSaaS, st.ctx.Sector)
	assert.Zero(t, st.sets)
}

func TestRegionFallsBackToUSTier1(t *testing.T) {
	st := newFakeState()
	h := handled(t, Process("somewhere nice", st, at(domain.StepAskingRegion)))
	assert.Equal(t, domain.StepAskingRevenue, h.Next.Step)
	assert.Equal(t, domain.RegionUSTier1, st.ctx.Region)
	assert.Equal(t, replyRegionFallback, h.Reply)
}

func TestRegionKeywords(t *testing.T) {
	tests := map[string]domain.Region{
		"sf bay":          domain.RegionUSTier1,
		"silicon valley":  domain.RegionUSTier1,
		"austin":          domain.RegionUSTier2,
		"london":          domain.RegionEUTier1,
		"latam":           domain.RegionEmerging,
		"mostly in asia":  domain.RegionEmerging,
		"the eu and asia": domain.RegionEUTier1,
	}
	for text, want := range tests {
		st := newFakeState()
		Process(text, st, at(domain.StepAskingRegion))
		assert.Equal(t, want, st.ctx.Region, text)
	}
}

func TestRevenueWithoutNumberReprompts(t *testing.T) {
	st := newFakeState()
	h := handled(t, Process("a lot", st, at(domain.StepAskingRevenue)))
	assert.Equal(t, domain.StepAskingRevenue, h.Next.Step)
	assert.Equal(t, replyRevenueUnknown, h.Reply)
	assert.Equal(t, 10_000_000.0, st.vc.ExitRevenue)
}

func TestRevenueOfZeroReprompts(t *testing.T) {
	st := newFakeState()
	h := handled(t, Process("0", st, at(domain.StepAskingRevenue)))
	assert.Equal(t, domain.StepAskingRevenue, h.Next.Step)
	assert.Equal(t, replyRevenueUnknown, h.Reply)
	assert.Equal(t, 10_000_000.0, st.vc.ExitRevenue)
}

func TestTeamBuckets(t *testing.T) {
	tests := []struct {
		text   string
		score  float64
		berkus float64
	}{
		{"all-star founders", 1.5, 500_000},
		{"the best", 1.5, 500_000},
		{"pretty good", 1.25, 350_000},
		{"weak", 0.7, 100_000},
		{"average i guess", 1.0, 0},
	}
	for _, tt := range tests {
		st := newFakeState()
		h := handled(t, Process(tt.text, st, at(domain.StepAskingTeam)))
		assert.Equal(t, domain.StepIdle, h.Next.Step, tt.text)
		assert.Equal(t, tt.score, st.scorecard.TeamScore, tt.text)
		assert.Equal(t, tt.berkus, st.berkus.TeamValue, tt.text)
		assert.Equal(t, 2, st.sets, tt.text)
	}
}

func TestUnknownStepStartsOver(t *testing.T) {
	h := handled(t, Process("hello", newFakeState(), domain.ConversationState{Step: "LOST"}))
	assert.Equal(t, domain.StepIdle, h.Next.Step)
	assert.Equal(t, replyStartOver, h.Reply)
}

func TestIdleDefersUnmatchedText(t *testing.T) {
	st := newFakeState()
	r := Process("How big is the European fintech market?", st, domain.Idle())
	d, ok := r.(Deferred)
	require.True(t, ok)
	assert.Equal(t, domain.StepIdle, d.Next.Step)
	assert.Zero(t, st.sets)
}
