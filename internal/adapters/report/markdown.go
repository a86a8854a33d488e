package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"valuator/internal/services/session"
	"valuator/internal/valuation"
)

// Markdown renders the valuation report for a session.
func Markdown(s *session.Session) string {
	var b strings.Builder
	ctx := s.Context()
	sum := s.Summary()
	vc := s.VCInputs()

	fmt.Fprintf(&b, "# Startup Valuation Report\n\n")
	fmt.Fprintf(&b, "**Sector:** %s  \n**Region:** %s  \n**Prepared:** %s\n\n",
		ctx.Sector, ctx.Region, s.UpdatedAt.Format("January 2, 2006"))

	b.WriteString("## Valuation Summary\n\n")
	b.WriteString("| Method | Valuation |\n|---|---:|\n")
	rows := []struct {
		name  string
		value float64
	}{
		{"Berkus", sum.Methods.Berkus},
		{"Scorecard", sum.Methods.Scorecard},
		{"Risk Factor Summation", sum.Methods.RiskFactor},
		{"VC Method (pre-money)", sum.Methods.VCPreMoney},
		{"Cost to Duplicate", sum.Methods.CostToDuplicate},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.name, money(r.value))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Triangulated average:** %s (range %s to %s)  \n",
		money(sum.Average), money(sum.Low), money(sum.High))
	fmt.Fprintf(&b, "Cost to duplicate is a floor and is excluded from the average.\n\n")
	for _, w := range sum.Warnings {
		fmt.Fprintf(&b, "> **Warning:** %s\n\n", w)
	}

	if g := s.Valuation.GutCheck; g != nil {
		b.WriteString("## Gut Check\n\n")
		fmt.Fprintf(&b, "Conviction %.0f/100, suggested adjustment %s.\n\n", g.ConvictionScore, money(g.SuggestedAdjustment))
		fmt.Fprintf(&b, "**Adjusted valuation:** %s\n\n", money(sum.Adjusted))
		fmt.Fprintf(&b, "%s\n\n", g.Reasoning)
	}

	b.WriteString("## VC Method Sensitivity\n\n")
	fmt.Fprintf(&b, "Exit revenue %s, investment %s. Rows vary the required ROI, columns the exit multiple.\n\n",
		money(vc.ExitRevenue), money(vc.InvestmentAmount))
	m := valuation.Sensitivity(vc)
	b.WriteString("| ROI \\ Multiple |")
	for _, f := range valuation.SensitivityFactors {
		fmt.Fprintf(&b, " %.1fx |", vc.ExitMultiple*f)
	}
	b.WriteString("\n|---|---:|---:|---:|\n")
	for i, f := range valuation.SensitivityFactors {
		fmt.Fprintf(&b, "| %.1fx |", vc.RequiredROI*f)
		for j := range valuation.SensitivityFactors {
			fmt.Fprintf(&b, " %s |", money(m[i][j]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rf := s.RiskFactorInputs()
	b.WriteString("## Risk Factors\n\n| Category | Score |\n|---|---:|\n")
	for i, name := range valuation.RiskCategories {
		fmt.Fprintf(&b, "| %s | %+d |\n", name, rf.RiskScores[i])
	}
	return b.String()
}

func money(v float64) string {
	v = math.Round(v)
	if v < 0 {
		return "-$" + humanize.Commaf(-v)
	}
	return "$" + humanize.Commaf(v)
}
