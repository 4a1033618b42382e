package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuistyles"
)

// RegimesModel shows the minimum price of the current cost structure under
// every annex
type RegimesModel struct {
	comparison *breakeven.RegimePricingComparison
	err        error
	cursor     int
	width      int
	height     int
}

// NewRegimesModel creates an empty comparison scene
func NewRegimesModel() *RegimesModel {
	return &RegimesModel{}
}

// SetComparison stores a finished comparison
func (m *RegimesModel) SetComparison(c *breakeven.RegimePricingComparison, err error) {
	m.err = err
	if err != nil {
		return
	}
	m.comparison = c
	m.cursor = 0
}

// SetSize updates the scene dimensions
func (m *RegimesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Cursor returns the highlighted row
func (m *RegimesModel) Cursor() int {
	return m.cursor
}

// Update handles messages for the comparison scene
func (m *RegimesModel) Update(msg tea.Msg) (*RegimesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.comparison == nil {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursor < len(m.comparison.Rows)-1 {
			m.cursor++
		}
	}
	return m, nil
}

// View renders the ranking table and its recommendations
func (m *RegimesModel) View() string {
	var b strings.Builder
	b.WriteString(tuistyles.TitleStyle.Render("Minimum price by Anexo"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(tuistyles.ErrorStyle.Render("Error: " + m.err.Error()))
		return b.String()
	}
	if m.comparison == nil {
		b.WriteString(tuistyles.InfoStyle.Render("Price a product in the calculator (p) to compare the annexes"))
		return b.String()
	}

	cell := func(s string, width int) string {
		return lipgloss.NewStyle().Width(width).Render(s)
	}

	header := cell("Anexo", 12) + cell("Effective rate", 18) + cell("Total load", 14) + cell("Minimum price", 16)
	b.WriteString(tuistyles.TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for i, row := range m.comparison.Rows {
		minPrice := "infeasible"
		if v, ok := row.MinimumPrice.Value(); ok {
			minPrice = tuistyles.FormatCurrency(v)
		}

		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := marker + cell(row.Regime.String(), 10) +
			cell(tuistyles.FormatPercent(row.EffectiveRate), 18) +
			cell(tuistyles.FormatPercent(row.TotalRateLoad), 14) +
			cell(minPrice, 16)

		cheapest := m.comparison.Cheapest != nil && m.comparison.Cheapest.Regime == row.Regime
		switch {
		case cheapest:
			line = tuistyles.TableHighlightStyle.Render(line + " ★")
		case row.MinimumPrice.Infeasible():
			line = tuistyles.StatusStyle(false).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.comparison.Recommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(tuistyles.SubtitleStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, r := range m.comparison.Recommendations {
			b.WriteString(fmt.Sprintf("• %s\n", r))
		}
	}
	return tuistyles.BorderStyle.Render(b.String())
}
