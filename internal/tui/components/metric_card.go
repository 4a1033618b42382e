package components

import (
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuistyles"
	"github.com/charmbracelet/lipgloss"
)

// MetricCard displays a single pricing figure with an optional verdict
type MetricCard struct {
	Label       string
	Value       string
	Verdict     *Verdict
	Description string
	Width       int
}

// Verdict marks a figure as viable or not, e.g. the price against the minimum
type Verdict struct {
	Viable bool
	Text   string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 28,
	}
}

// WithVerdict adds a viable / loss indicator to the card
func (m *MetricCard) WithVerdict(viable bool, text string) *MetricCard {
	m.Verdict = &Verdict{Viable: viable, Text: text}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)

	if m.Verdict != nil {
		style := tuistyles.StatusStyle(m.Verdict.Viable)
		content += "\n" + style.Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Verdict.Viable), m.Verdict.Text))
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(content)
}

// RenderCompact returns a single-line "label: value" rendition
func (m *MetricCard) RenderCompact() string {
	line := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Verdict != nil {
		line += " " + tuistyles.StatusStyle(m.Verdict.Viable).Render(tuistyles.TrendIndicator(m.Verdict.Viable))
	}
	return line
}

// MetricGrid lays cards out in rows of the given number of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
