package copilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuator/internal/domain"
)

func TestSingleShotCommands(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		command string
		reply   string
		check   func(t *testing.T, st *fakeState)
	}{
		{
			name:    "sector ai",
			text:    "Switch to AI sector",
			command: "sector",
			reply:   replySectorSwitchAI,
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, domain.SectorAIDeepTech, st.ctx.Sector)
			},
		},
		{
			name:    "sector hardware mode",
			text:    "hardware mode please",
			command: "sector",
			reply:   "Switched to Hardware mode.",
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, domain.SectorHardware, st.ctx.Sector)
			},
		},
		{
			name:    "region europe",
			text:    "set region to europe",
			command: "region",
			reply:   replyRegionEUTier1,
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, domain.RegionEUTier1, st.ctx.Region)
			},
		},
		{
			name:    "region nyc",
			text:    "region nyc",
			command: "region",
			reply:   replyRegionUSTier1,
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, domain.RegionUSTier1, st.ctx.Region)
			},
		},
		{
			name:    "maximize team",
			text:    "Maximize the team score",
			command: "berkus-max",
			reply:   replyTeamMaxed,
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, 500_000.0, st.berkus.TeamValue)
				assert.Equal(t, 750_000.0, st.berkus.IdeaValue)
			},
		},
		{
			name:    "maximize prototype",
			text:    "max out the prototype",
			command: "berkus-max",
			reply:   replyPrototypeMaxed,
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, 500_000.0, st.berkus.PrototypeValue)
			},
		},
		{
			name:    "exit revenue",
			text:    "Set exit revenue to 50M",
			command: "exit-revenue",
			reply:   "Updated projected exit revenue to $50,000,000.",
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, 50_000_000.0, st.vc.ExitRevenue)
			},
		},
		{
			name:    "investment",
			text:    "We are raising 2M",
			command: "investment",
			reply:   "Updated investment amount to $2,000,000.",
			check: func(t *testing.T, st *fakeState) {
				assert.Equal(t, 2_000_000.0, st.vc.InvestmentAmount)
				assert.Equal(t, 10_000_000.0, st.vc.ExitRevenue)
			},
		},
		{
			name:    "help",
			text:    "help",
			command: "help",
			reply:   replyHelp,
			check:   func(t *testing.T, st *fakeState) { assert.Zero(t, st.sets) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakeState()
			h := handled(t, Process(tt.text, st, domain.Idle()))
			assert.Equal(t, domain.StepIdle, h.Next.Step)
			assert.Equal(t, tt.command, h.Command)
			assert.Equal(t, tt.reply, h.Reply)
			tt.check(t, st)
		})
	}
}

func TestSingleShotFallsThrough(t *testing.T) {
	// "mode" gates the sector rule but no sector follows; "revenue" with no
	// number declines too; "help" is the first rule that applies.
	st := newFakeState()
	h := handled(t, Process("what mode is revenue in? help", st, domain.Idle()))
	assert.Equal(t, "help", h.Command)
	assert.Zero(t, st.sets)

	r := Process("tell me about exit strategies", st, domain.Idle())
	_, deferred := r.(Deferred)
	assert.True(t, deferred)
}

func TestZeroAmountsDefer(t *testing.T) {
	for _, text := range []string{"set exit revenue to 0", "investment 0"} {
		t.Run(text, func(t *testing.T) {
			st := newFakeState()
			r := Process(text, st, domain.Idle())
			_, deferred := r.(Deferred)
			assert.True(t, deferred)
			assert.Zero(t, st.sets)
		})
	}
}

func TestSectorRuleOutranksRevenueRule(t *testing.T) {
	st := newFakeState()
	h := handled(t, Process("consumer mode with 5m revenue", st, domain.Idle()))
	require.Equal(t, "sector", h.Command)
	assert.Equal(t, domain.SectorConsumer, st.ctx.Sector)
	assert.Equal(t, 10_000_000.0, st.vc.ExitRevenue)
}
