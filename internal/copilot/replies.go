package copilot

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"valuator/internal/domain"
)

const (
	replyAskSector        = "That sounds exciting! I'd love to help you evaluate it. First, what **Sector** is the startup in? (e.g., SaaS, AI, Hardware...)"
	replySectorUnknown    = "I didn't quite catch that sector. Could you say SaaS, AI, Marketplace, Hardware, or Consumer?"
	replyAskRevenue       = "Understood. \n\nNow, let's look at the potential. What is the **Projected Annual Revenue** at exit (e.g., in 5-7 years)?"
	replyRegionFallback   = "I'll assume US Tier 1 for now. \n\nWhat is the **Projected Annual Revenue** at exit?"
	replyRevenueUnknown   = "I need a number for the revenue (e.g., '50M' or '10 million')."
	replyInterviewDone    = "Great! I've updated the Team scores across the models. \n\nYou can now see the **Triangulated Valuation** in the Summary tab. \n\nFeel free to ask me for **Insights** or **Recommendations** now!"
	replyStartOver        = "I'm not sure what to do next. Let's start over."
	replyIdeaMaxed        = "I've maximized the 'Sound Idea' value in the Berkus method."
	replyPrototypeMaxed   = "Prototype value set to max."
	replyTeamMaxed        = "Management Team value set to max."
	replyRegionUSTier1    = "Region set to US Tier 1 (SF/NYC)."
	replyRegionEUTier1    = "Region set to EU Tier 1."
	replyHelp             = "I can control the valuation engine for you. Try saying:\n- 'Switch to AI sector'\n- 'Set exit revenue to 50M'\n- 'Maximize the team score'\n- 'We are raising 2M'"
	replySectorSwitchAI   = "I've switched the sector to AI / Deep Tech. All valuation models have been updated with higher tech risk caps and exit multiples."
	replySectorSwitchSaaS = "Switched to SaaS mode. Standard revenue multiples applied."
)

var sectorSwitchReplies = map[domain.Sector]string{
	domain.SectorAIDeepTech:  replySectorSwitchAI,
	domain.SectorSaaS:        replySectorSwitchSaaS,
	domain.SectorMarketplace: "Switched to Marketplace mode.",
	domain.SectorHardware:    "Switched to Hardware mode.",
	domain.SectorConsumer:    "Switched to Consumer App mode.",
}

func replySectorChosen(s domain.Sector) string {
	return fmt.Sprintf("Got it, I've switched to **%s** mode. \n\nNext, where are they based? (e.g., US, Europe, Emerging Markets)", s)
}

func replyRevenueNoted(v float64) string {
	return fmt.Sprintf("Noted $%s revenue. \n\nFinally, how strong is the **Management Team**? (Weak, Average, Strong, or All-Star)", money(v))
}

func replyExitRevenueSet(v float64) string {
	return fmt.Sprintf("Updated projected exit revenue to $%s.", money(v))
}

func replyInvestmentSet(v float64) string {
	return fmt.Sprintf("Updated investment amount to $%s.", money(v))
}

func money(v float64) string {
	return humanize.Commaf(v)
}
