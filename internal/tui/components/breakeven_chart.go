package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuistyles"
	"github.com/charmbracelet/lipgloss"
)

// BreakEvenChart draws the monthly result of each curve price as a
// horizontal bar diverging from the zero line: losses to the left, profit
// to the right.
type BreakEvenChart struct {
	Title  string
	Points []breakeven.CurvePoint
	Width  int // bar area, both halves
}

// NewBreakEvenChart creates a chart over the given curve
func NewBreakEvenChart(title string, points []breakeven.CurvePoint) *BreakEvenChart {
	return &BreakEvenChart{
		Title:  title,
		Points: points,
		Width:  40,
	}
}

// WithWidth sets the bar area width
func (c *BreakEvenChart) WithWidth(width int) *BreakEvenChart {
	c.Width = width
	return c
}

// Render returns the styled chart
func (c *BreakEvenChart) Render() string {
	if len(c.Points) == 0 {
		return tuistyles.InfoStyle.Render("No data to chart")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(tuistyles.TitleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	half := c.Width / 2
	if half < 1 {
		half = 1
	}
	scale := c.maxAbs()

	priceStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Width(14).
		Align(lipgloss.Right)

	for _, p := range c.Points {
		result := p.MonthlyResult.InexactFloat64()
		length := 0
		if scale > 0 {
			length = int(math.Round(math.Abs(result) / scale * float64(half)))
		}

		viable := p.Status == domain.StatusBreakEvenOrAbove
		bar := tuistyles.StatusStyle(viable).Render(strings.Repeat("█", length))

		var left, right string
		if result < 0 {
			left = strings.Repeat(" ", half-length) + bar
			right = strings.Repeat(" ", half)
		} else {
			left = strings.Repeat(" ", half)
			right = bar + strings.Repeat(" ", half-length)
		}

		content.WriteString(priceStyle.Render(tuistyles.FormatCurrency(p.Price)))
		content.WriteString(" ")
		content.WriteString(left)
		content.WriteString("│")
		content.WriteString(right)
		content.WriteString(" ")
		content.WriteString(formatChartValue(result))
		content.WriteString("\n")
	}

	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).
		Render("Monthly result = unit margin × average volume"))
	return content.String()
}

// maxAbs is the largest absolute monthly result, used to scale the bars
func (c *BreakEvenChart) maxAbs() float64 {
	m := 0.0
	for _, p := range c.Points {
		if v := math.Abs(p.MonthlyResult.InexactFloat64()); v > m {
			m = v
		}
	}
	return m
}

// formatChartValue abbreviates a value in reais
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1000000:
		return fmt.Sprintf("R$ %.1fM", value/1000000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("R$ %.1fK", value/1000)
	}
	return fmt.Sprintf("R$ %.0f", value)
}
