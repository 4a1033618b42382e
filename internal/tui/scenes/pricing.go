package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/compare"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/components"
	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuimsg"
	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuistyles"
)

// Form fields, in tab order
const (
	FieldFixedCosts = iota
	FieldVolume
	FieldVariableCost
	FieldFeeRate
	FieldProposedPrice
	FieldTrailingRevenue
	FieldPayroll
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Monthly fixed costs (R$)",
	"Average sales volume",
	"Variable cost per unit (R$)",
	"Card/marketplace fee (%)",
	"Proposed price (R$)",
	"12-month revenue (R$)",
	"12-month payroll (R$)",
}

var hundred = decimal.NewFromInt(100)

// PricingModel is the minimum price calculator scene
type PricingModel struct {
	inputs       [fieldCount]textinput.Model
	focused      int
	regime       int // index into domain.Regimes()
	activity     domain.ActivityType
	clientName   string
	applyFactorR bool

	analysis  *breakeven.PricingAnalysis
	curve     []breakeven.CurvePoint
	formErr   error
	resultErr error
	computing bool

	width  int
	height int
}

// NewPricingModel creates the calculator with an empty form on Anexo III
func NewPricingModel() *PricingModel {
	m := &PricingModel{regime: 2}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 16
		ti.Width = 18
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	return m
}

// validateAmount accepts an empty field or a non-negative number
func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	if v.IsNegative() {
		return fmt.Errorf("negative value")
	}
	return nil
}

// ParseAmount reads a number typed either as 1234.56 or as 1.234,56. An
// empty string is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// SetConfig pre-fills the form from a company file
func (m *PricingModel) SetConfig(cfg *domain.Configuration) {
	if cfg == nil {
		return
	}
	m.clientName = cfg.Client.Name
	m.activity = cfg.Client.Activity
	for i, r := range domain.Regimes() {
		if r == cfg.Client.Regime {
			m.regime = i
		}
	}
	m.setValue(FieldTrailingRevenue, cfg.Client.AnnualRevenue)
	m.setValue(FieldPayroll, cfg.Client.Payroll12)

	if c := cfg.Pricing; c != nil {
		m.setValue(FieldFixedCosts, c.FixedCostsMonthly)
		m.setValue(FieldVolume, c.AvgSalesVolume)
		m.setValue(FieldVariableCost, c.VariableCostUnit)
		m.setValue(FieldFeeRate, c.FeeRate.Mul(hundred))
		m.setValue(FieldProposedPrice, c.ProposedPrice)
	}
}

func (m *PricingModel) setValue(field int, v decimal.Decimal) {
	if v.IsZero() {
		m.inputs[field].SetValue("")
		return
	}
	m.inputs[field].SetValue(v.String())
}

// Regime returns the selected annex
func (m *PricingModel) Regime() domain.Regime {
	return domain.Regimes()[m.regime]
}

// SetValue fills one field of the form
func (m *PricingModel) SetValue(field int, value string) {
	if field >= 0 && field < fieldCount {
		m.inputs[field].SetValue(value)
	}
}

// Request builds the pricing request from the form
func (m *PricingModel) Request() (breakeven.PricingRequest, error) {
	var values [fieldCount]decimal.Decimal
	for i := range m.inputs {
		v, err := ParseAmount(m.inputs[i].Value())
		if err != nil {
			return breakeven.PricingRequest{}, fmt.Errorf("%s: %w", fieldLabels[i], err)
		}
		if v.IsNegative() {
			return breakeven.PricingRequest{}, fmt.Errorf("%s: negative value", fieldLabels[i])
		}
		values[i] = v
	}

	return breakeven.PricingRequest{
		ClientName:      m.clientName,
		Activity:        m.activity,
		Regime:          m.Regime(),
		TrailingRevenue: values[FieldTrailingRevenue],
		Payroll12:       values[FieldPayroll],
		ApplyFactorR:    m.applyFactorR,
		Costs: domain.CostStructure{
			FixedCostsMonthly: values[FieldFixedCosts],
			AvgSalesVolume:    values[FieldVolume],
			VariableCostUnit:  values[FieldVariableCost],
			FeeRate:           values[FieldFeeRate].Div(hundred),
			ProposedPrice:     values[FieldProposedPrice],
		},
	}, nil
}

// SetResult stores a finished analysis
func (m *PricingModel) SetResult(analysis *breakeven.PricingAnalysis, curve []breakeven.CurvePoint, err error) {
	m.computing = false
	m.resultErr = err
	if err != nil {
		return
	}
	m.analysis = analysis
	m.curve = curve
}

// Analysis returns the last successful analysis, if any
func (m *PricingModel) Analysis() *breakeven.PricingAnalysis {
	return m.analysis
}

// SetSize updates the scene dimensions
func (m *PricingModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the pricing scene
func (m *PricingModel) Update(msg tea.Msg) (*PricingModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("tab", "down"))):
		m.focus(m.focused + 1)
		return m, textinput.Blink

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("shift+tab", "up"))):
		m.focus(m.focused - 1)
		return m, textinput.Blink

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("]"))):
		m.regime = (m.regime + 1) % len(domain.Regimes())
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("["))):
		m.regime = (m.regime + len(domain.Regimes()) - 1) % len(domain.Regimes())
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("f"))):
		m.applyFactorR = !m.applyFactorR
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		req, err := m.Request()
		m.formErr = err
		if err != nil {
			return m, nil
		}
		m.computing = true
		return m, func() tea.Msg {
			return tuimsg.PricingRequestedMsg{Request: req}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// focus moves the cursor to field i, wrapping around the form
func (m *PricingModel) focus(i int) {
	m.inputs[m.focused].Blur()
	m.focused = (i + fieldCount) % fieldCount
	m.inputs[m.focused].Focus()
}

// Focused returns the index of the focused field
func (m *PricingModel) Focused() int {
	return m.focused
}

// View renders the form beside the latest result
func (m *PricingModel) View() string {
	form := m.renderForm()
	result := m.renderResult()

	if m.width > 0 && m.width < 110 {
		return lipgloss.JoinVertical(lipgloss.Left, form, "", result)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", result)
}

func (m *PricingModel) renderForm() string {
	var b strings.Builder

	title := "Minimum Price Calculator"
	if m.clientName != "" {
		title += " · " + m.clientName
	}
	b.WriteString(tuistyles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(tuistyles.LabelStyle.Render("Anexo"))
	b.WriteString(tuistyles.MetricValueStyle.Render("◀ " + m.Regime().String() + " ▶"))
	b.WriteString("\n")

	factorR := "no"
	if m.applyFactorR {
		factorR = "yes"
	}
	b.WriteString(tuistyles.LabelStyle.Render("Apply Factor R"))
	b.WriteString(tuistyles.MetricValueStyle.Render(factorR))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := tuistyles.LabelStyle.Render(fieldLabels[i])
		if i == m.focused {
			label = tuistyles.FocusedLabelStyle.Render(fieldLabels[i])
		}
		b.WriteString(label)
		b.WriteString(m.inputs[i].View())
		if err := validateAmount(m.inputs[i].Value()); err != nil {
			b.WriteString(" " + tuistyles.ErrorStyle.Render(err.Error()))
		}
		b.WriteString("\n")
	}

	if m.formErr != nil {
		b.WriteString("\n" + tuistyles.ErrorStyle.Render(m.formErr.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(tuistyles.HelpKeyStyle.Render("tab/↑↓") + tuistyles.HelpDescStyle.Render(" field  "))
	b.WriteString(tuistyles.HelpKeyStyle.Render("[ ]") + tuistyles.HelpDescStyle.Render(" annex  "))
	b.WriteString(tuistyles.HelpKeyStyle.Render("f") + tuistyles.HelpDescStyle.Render(" Factor R  "))
	b.WriteString(tuistyles.HelpKeyStyle.Render("enter") + tuistyles.HelpDescStyle.Render(" calculate"))

	return tuistyles.BorderStyle.Render(b.String())
}

func (m *PricingModel) renderResult() string {
	if m.computing {
		return tuistyles.InfoStyle.Render("Calculating...")
	}
	if m.resultErr != nil {
		return tuistyles.ErrorStyle.Render("Error: " + m.resultErr.Error())
	}
	if m.analysis == nil {
		return tuistyles.InfoStyle.Render("Fill in the costs and press enter")
	}

	a := m.analysis
	viable := a.Status == domain.StatusBreakEvenOrAbove

	minPrice := "infeasible"
	if v, ok := a.MinimumPrice.Value(); ok {
		minPrice = tuistyles.FormatCurrency(v)
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("Minimum price", minPrice).
			WithVerdict(viable, a.Status.Label()),
		components.NewMetricCard("Load on price", tuistyles.FormatPercent(a.TotalRateLoad)).
			WithDescription(fmt.Sprintf("DAS %s · fee %s",
				tuistyles.FormatPercent(a.RateLoad.EffectiveTaxRate), tuistyles.FormatPercent(a.RateLoad.FeeRate))),
		components.NewMetricCard("Unit cost", tuistyles.FormatCurrency(a.UnitCost)).
			WithDescription("fixed share " + tuistyles.FormatCurrency(a.FixedCostUnit)),
		components.NewMetricCard("Unit margin", tuistyles.FormatCurrency(a.UnitMargin)).
			WithVerdict(!a.UnitMargin.IsNegative(), "at the proposed price"),
	}

	var b strings.Builder
	b.WriteString(components.MetricGrid(cards, 2))
	b.WriteString("\n")

	if a.Request.TrailingRevenue.IsPositive() {
		b.WriteString(components.NewRevenueGauge(a.Request.TrailingRevenue, compare.SimplesRevenueCeiling).
			WithLabel("12-month revenue against the Simples ceiling").
			Render())
		b.WriteString("\n")
	}
	if a.AppliedRegime != a.Request.Regime {
		b.WriteString(tuistyles.InfoStyle.Render(fmt.Sprintf("Factor R applied %s", a.AppliedRegime)))
		b.WriteString("\n")
	}
	if a.FactorRAlert != nil {
		b.WriteString(tuistyles.InfoStyle.Render(fmt.Sprintf("Factor R %s suggests %s",
			tuistyles.FormatPercent(a.FactorRAlert.Value), a.FactorRAlert.SuggestedRegime)))
		b.WriteString("\n")
	}

	if len(m.curve) > 0 {
		b.WriteString("\n")
		b.WriteString(components.NewBreakEvenChart("Break-even curve", m.curve).WithWidth(30).Render())
	}
	return b.String()
}
