// Package copilot interprets free-text chat commands against a valuation
// session. It runs a small guided interview (sector, region, exit revenue,
// team strength) and, outside the interview, a fixed list of single-shot
// commands. Anything it does not understand is deferred to the AI gateway
// by the caller; this package performs no I/O.
package copilot

import (
	"strings"

	"valuator/internal/domain"
)

// ValuationState is the part of a session the interpreter reads and
// replaces. Every setter replaces the whole record.
type ValuationState interface {
	Context() domain.ValuationContext
	SetContext(domain.ValuationContext)
	BerkusInputs() domain.BerkusInputs
	SetBerkusInputs(domain.BerkusInputs)
	ScorecardInputs() domain.ScorecardInputs
	SetScorecardInputs(domain.ScorecardInputs)
	VCInputs() domain.VCMethodInputs
	SetVCInputs(domain.VCMethodInputs)
}

// Result is either Handled or Deferred.
type Result interface {
	State() domain.ConversationState
	isResult()
}

// Handled carries a canned reply; any mutation has already been applied.
// Command names the rule that produced it.
type Handled struct {
	Reply   string
	Next    domain.ConversationState
	Command string
}

// Deferred asks the caller to forward the command to the AI gateway.
type Deferred struct {
	Next domain.ConversationState
}

func (h Handled) State() domain.ConversationState { return h.Next }

func (d Deferred) State() domain.ConversationState { return d.Next }

func (Handled) isResult() {}

func (Deferred) isResult() {}

const interviewCommand = "interview"

type stepHandler func(lower string, st ValuationState) Result

var steps = map[domain.Step]stepHandler{
	domain.StepIdle:          handleIdle,
	domain.StepAskingSector:  handleSector,
	domain.StepAskingRegion:  handleRegion,
	domain.StepAskingRevenue: handleRevenue,
	domain.StepAskingTeam:    handleTeam,
}

// Process maps one command to a Result, applying any valuation mutation to
// st before returning.
func Process(command string, st ValuationState, conv domain.ConversationState) Result {
	lower := strings.ToLower(command)
	handle, ok := steps[conv.Step]
	if !ok {
		return Handled{Reply: replyStartOver, Next: domain.Idle(), Command: "reset"}
	}
	return handle(lower, st)
}

func handleIdle(lower string, st ValuationState) Result {
	if startsInterview(lower) {
		return Handled{Reply: replyAskSector, Next: at(domain.StepAskingSector), Command: interviewCommand}
	}
	if name, reply, ok := matchSingleShot(lower, st); ok {
		return Handled{Reply: reply, Next: domain.Idle(), Command: name}
	}
	return Deferred{Next: domain.Idle()}
}

func startsInterview(lower string) bool {
	return containsAny(lower, "pitch", "evaluate") ||
		(strings.Contains(lower, "idea") && strings.Contains(lower, "have"))
}

func handleSector(lower string, st ValuationState) Result {
	sector, ok := firstMatch(sectorKeywords, lower)
	if !ok {
		return Handled{Reply: replySectorUnknown, Next: at(domain.StepAskingSector), Command: interviewCommand}
	}
	ctx := st.Context()
	ctx.Sector = sector
	st.SetContext(ctx)
	return Handled{Reply: replySectorChosen(sector), Next: at(domain.StepAskingRegion), Command: interviewCommand}
}

// handleRegion never re-prompts: an unrecognised answer falls back to US
// tier 1 and the interview moves on.
func handleRegion(lower string, st ValuationState) Result {
	region, ok := firstMatch(regionKeywords, lower)
	reply := replyAskRevenue
	if !ok {
		region, reply = domain.RegionUSTier1, replyRegionFallback
	}
	ctx := st.Context()
	ctx.Region = region
	st.SetContext(ctx)
	return Handled{Reply: reply, Next: at(domain.StepAskingRevenue), Command: interviewCommand}
}

func handleRevenue(lower string, st ValuationState) Result {
	revenue, ok := extractAmount(lower)
	if !ok {
		return Handled{Reply: replyRevenueUnknown, Next: at(domain.StepAskingRevenue), Command: interviewCommand}
	}
	vc := st.VCInputs()
	vc.ExitRevenue = revenue
	st.SetVCInputs(vc)
	return Handled{Reply: replyRevenueNoted(revenue), Next: at(domain.StepAskingTeam), Command: interviewCommand}
}

func handleTeam(lower string, st ValuationState) Result {
	rating, ok := firstMatch(teamKeywords, lower)
	if !ok {
		rating = averageTeam
	}

	scorecard := st.ScorecardInputs()
	scorecard.TeamScore = rating.score
	berkus := st.BerkusInputs()
	berkus.TeamValue = rating.berkusValue

	st.SetScorecardInputs(scorecard)
	st.SetBerkusInputs(berkus)
	return Handled{Reply: replyInterviewDone, Next: domain.Idle(), Command: interviewCommand}
}

func at(step domain.Step) domain.ConversationState {
	return domain.ConversationState{Step: step}
}
