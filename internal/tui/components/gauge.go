package components

import (
	"fmt"
	"strings"

	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuistyles"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// warnShare is the share of the ceiling past which the gauge turns amber
var warnShare = decimal.RequireFromString("0.8")

// RevenueGauge shows how much of a revenue ceiling the trailing revenue uses
type RevenueGauge struct {
	Label   string
	Used    decimal.Decimal
	Ceiling decimal.Decimal
	Width   int
}

// NewRevenueGauge creates a gauge of used against ceiling
func NewRevenueGauge(used, ceiling decimal.Decimal) *RevenueGauge {
	return &RevenueGauge{
		Used:    used,
		Ceiling: ceiling,
		Width:   30,
	}
}

// WithLabel sets the gauge label
func (g *RevenueGauge) WithLabel(label string) *RevenueGauge {
	g.Label = label
	return g
}

// WithWidth sets the bar width
func (g *RevenueGauge) WithWidth(width int) *RevenueGauge {
	g.Width = width
	return g
}

// Share returns used over ceiling as a fraction, zero without a ceiling
func (g *RevenueGauge) Share() decimal.Decimal {
	if !g.Ceiling.IsPositive() {
		return decimal.Zero
	}
	return g.Used.Div(g.Ceiling)
}

// Exceeded reports whether the ceiling has been passed
func (g *RevenueGauge) Exceeded() bool {
	return g.Used.GreaterThan(g.Ceiling)
}

// Render returns the styled gauge
func (g *RevenueGauge) Render() string {
	var content strings.Builder

	if g.Label != "" {
		content.WriteString(tuistyles.MetricLabelStyle.Render(g.Label))
		content.WriteString("\n")
	}

	share := g.Share()
	filled := int(share.Mul(decimal.NewFromInt(int64(g.Width))).IntPart())
	if filled > g.Width {
		filled = g.Width
	}
	empty := g.Width - filled

	barColor := tuistyles.ColorSuccess
	switch {
	case g.Exceeded():
		barColor = tuistyles.ColorDanger
	case share.GreaterThanOrEqual(warnShare):
		barColor = tuistyles.ColorAccent
	}

	content.WriteString("[")
	if filled > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", empty)))
	}
	content.WriteString("] ")

	content.WriteString(lipgloss.NewStyle().Foreground(barColor).Bold(true).Render(tuistyles.FormatPercent(share)))
	content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf(" %s of %s",
		tuistyles.FormatCurrency(g.Used), tuistyles.FormatCurrency(g.Ceiling))))

	return content.String()
}
