// Package gateway holds the provider-independent half of the AI gateway:
// prompt construction, gut-check response parsing, citation cleanup and a
// metrics decorator. Provider adapters live under internal/adapters.
package gateway

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"valuator/internal/domain"
)

// ChatSystemPrompt frames every free-form question.
const ChatSystemPrompt = "You are an expert Valuation Analyst Copilot helping a user evaluate a startup."

// GutCheckSystemPrompt asks for a strict JSON verdict.
const GutCheckSystemPrompt = `You turn a founder's qualitative narrative into a valuation adjustment.
Respond with a single JSON object and nothing else:
{"convictionScore": <0-100>, "suggestedAdjustment": <signed amount in USD>, "reasoning": "<two or three sentences>"}`

// AskPrompt embeds the valuation context and the user's question.
func AskPrompt(req domain.GatewayRequest) string {
	var b strings.Builder
	b.WriteString(ChatSystemPrompt)
	b.WriteString("\n\nCURRENT VALUATION CONTEXT:\n")
	writeContext(&b, req.Context)
	b.WriteString(`
YOUR GOAL:
- Answer the user's question using the context above.
- Use web search to find real market data (multiples, trends, similar exits) to support your answer.
- Be concise, professional and data-driven.
- If the user asks for a recommendation, give a specific valuation range based on the data.

USER QUESTION:
`)
	b.WriteString(req.Message)
	b.WriteString("\n")
	return b.String()
}

// GutCheckPrompt wraps the founder narrative for a gut-check request.
func GutCheckPrompt(req domain.GatewayRequest) string {
	var b strings.Builder
	b.WriteString("CURRENT VALUATION CONTEXT:\n")
	writeContext(&b, req.Context)
	b.WriteString("\nFOUNDER NARRATIVE:\n")
	b.WriteString(req.Message)
	b.WriteString("\n")
	return b.String()
}

func writeContext(b *strings.Builder, c domain.GatewayContext) {
	var revenue, investment float64
	if c.VCInputs != nil {
		revenue = c.VCInputs.ExitRevenue
		investment = c.VCInputs.InvestmentAmount
	}
	team := "Average/Weak"
	if c.ScorecardInputs != nil && c.ScorecardInputs.TeamScore > 1 {
		team = "Strong"
	}
	fmt.Fprintf(b, "- Sector: %s\n", c.Sector)
	fmt.Fprintf(b, "- Region: %s\n", c.Region)
	fmt.Fprintf(b, "- Revenue: $%s (Projected Exit)\n", humanize.Commaf(revenue))
	fmt.Fprintf(b, "- Investment Ask: $%s\n", humanize.Commaf(investment))
	fmt.Fprintf(b, "- Team Strength: %s\n", team)
}
