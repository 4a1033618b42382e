package compare

import (
	"fmt"
	"strings"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	winnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a side-by-side table of one period comparison
func (tf *TableFormatter) Format(c *TaxComparison) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("SIMPLES NACIONAL VS LUCRO PRESUMIDO") + "\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if c.Request.ClientName != "" {
		sb.WriteString(fmt.Sprintf("Client:          %s\n", c.Request.ClientName))
	}
	sb.WriteString(fmt.Sprintf("Activity:        %s\n", c.Request.Activity))
	sb.WriteString(fmt.Sprintf("Regime:          %s\n", tf.regimeLabel(c.Request.Regime, c.Simples.AppliedRegime)))
	sb.WriteString(fmt.Sprintf("RBT12:           R$ %s\n", tf.formatCurrency(c.Request.TrailingRevenue)))
	sb.WriteString(fmt.Sprintf("Period Revenue:  R$ %s\n", tf.formatCurrency(c.Request.PeriodRevenue)))
	sb.WriteString("\n")

	nameWidth := 12
	numWidth := 20

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s\n",
		nameWidth, "Tax",
		numWidth, RegimeSimplesNacional.Label(),
		numWidth, RegimeLucroPresumido.Label()))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	presumed := c.Presumed.Breakdown()
	for _, s := range domain.SubTaxes() {
		simplesAmount := c.Simples.Breakdown.Get(s)
		presumedAmount := presumed.Get(s)
		if simplesAmount.IsZero() && presumedAmount.IsZero() {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s\n",
			nameWidth, strings.ToUpper(string(s)),
			numWidth, tf.formatCurrency(simplesAmount),
			numWidth, tf.formatCurrency(presumedAmount)))
	}
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s\n",
		nameWidth, "TOTAL",
		numWidth, tf.formatCurrency(c.Simples.TaxAmount),
		numWidth, tf.formatCurrency(c.Presumed.Total)))
	sb.WriteString(fmt.Sprintf("%-*s %*s%%\n",
		nameWidth, "Eff. Rate",
		numWidth-1, c.Simples.EffectiveRate.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Winner:          %s (R$ %s)\n",
		winnerStyle.Render(c.Winner.Label()), tf.formatCurrency(c.Difference)))
	sb.WriteString("\n")

	tf.writeRecommendations(&sb, c.Recommendations)
	return sb.String()
}

// FormatEfficiency generates the fiscal efficiency report
func (tf *TableFormatter) FormatEfficiency(r *EfficiencyReport) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("FISCAL EFFICIENCY") + "\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if r.ClientName != "" {
		sb.WriteString(fmt.Sprintf("Client:          %s\n", r.ClientName))
	}
	sb.WriteString(fmt.Sprintf("Invoiced:        R$ %s\n", tf.formatCurrency(r.Invoiced)))
	sb.WriteString(fmt.Sprintf("  Commerce:      R$ %s\n", tf.formatCurrency(r.Presumed.CommerceGross)))
	sb.WriteString(fmt.Sprintf("  Services:      R$ %s\n", tf.formatCurrency(r.Presumed.ServiceGross)))
	sb.WriteString(fmt.Sprintf("  PIS/COFINS Exempt: R$ %s\n", tf.formatCurrency(r.Presumed.ExemptAmount)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Simples Nacional:  R$ %12s  (%s%%)\n",
		tf.formatCurrency(r.Simples.TaxAmount), tf.formatPercent(r.Simples.EffectiveRate)))
	sb.WriteString(fmt.Sprintf("Lucro Presumido:   R$ %12s  (%s%%)\n",
		tf.formatCurrency(r.Presumed.Total), tf.formatPercent(r.Presumed.EffectiveRate)))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	best := RegimeLucroPresumido
	if r.SimplesIsBetter {
		best = RegimeSimplesNacional
	}
	sb.WriteString(fmt.Sprintf("Best Option:       %s\n", winnerStyle.Render(best.Label())))
	sb.WriteString(fmt.Sprintf("Economy:           R$ %s\n", tf.formatCurrency(r.Economy)))
	sb.WriteString(fmt.Sprintf("Score:             %d/100\n", r.Score))
	sb.WriteString("\n")

	tf.writeRecommendations(&sb, r.Recommendations)
	return sb.String()
}

// FormatCompact creates a single-line summary of a comparison
func (tf *TableFormatter) FormatCompact(c *TaxComparison) string {
	return fmt.Sprintf("Simples: %s | Presumido: %s | %s %s%s",
		tf.formatShort(c.Simples.TaxAmount),
		tf.formatShort(c.Presumed.Total),
		c.Winner.Label(),
		tf.deltaSymbol(c.Difference),
		tf.formatShort(c.Difference))
}

func (tf *TableFormatter) writeRecommendations(sb *strings.Builder, recs []string) {
	if len(recs) == 0 {
		return
	}
	sb.WriteString("RECOMMENDATIONS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, rec := range recs {
		sb.WriteString(fmt.Sprintf("• %s\n", rec))
	}
	sb.WriteString("\n")
}

func (tf *TableFormatter) regimeLabel(selected, applied domain.Regime) string {
	if applied == "" || applied == selected {
		return selected.String()
	}
	return fmt.Sprintf("%s -> %s (Factor R)", selected, applied)
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatPercent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// formatShort formats a decimal for display (in thousands)
func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol prefixes savings with +
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}
