package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// PlannerRequest drives the financial planner for one horizon
type PlannerRequest struct {
	ClientID             string               `json:"client_id,omitempty"`
	Year                 int                  `json:"year"`
	Month                time.Month           `json:"month"`
	Period               PlannerPeriod        `json:"period"`
	Regime               domain.Regime        `json:"regime,omitempty"`
	FixedCostsMonthly    decimal.Decimal      `json:"fixed_costs_monthly"`
	VariableCostsMonthly decimal.Decimal      `json:"variable_costs_monthly"`
	Transactions         []domain.Transaction `json:"transactions"`
}

// PlannerSummary is the projected result of a horizon
type PlannerSummary struct {
	Period          PlannerPeriod               `json:"period"`
	From            time.Time                   `json:"from"`
	To              time.Time                   `json:"to"` // exclusive
	Revenue         decimal.Decimal             `json:"revenue"`
	TrailingRevenue decimal.Decimal             `json:"trailing_revenue"`
	Tax             domain.TaxComputationResult `json:"tax"`
	TotalFixed      decimal.Decimal             `json:"total_fixed"`
	TotalVariable   decimal.Decimal             `json:"total_variable"`
	TotalTaxes      decimal.Decimal             `json:"total_taxes"`
	TotalCosts      decimal.Decimal             `json:"total_costs"`
	NetProfit       decimal.Decimal             `json:"net_profit"`
	MarginPct       decimal.Decimal             `json:"margin_pct"`
}

// Plan projects revenue, Simples tax and costs over a horizon. The bracket
// comes from the RBT12 of the twelve months before the selected month; costs
// are monthly figures scaled by the horizon's multiplier.
func (a *Aggregator) Plan(ctx context.Context, req PlannerRequest) (*PlannerSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.CalcEngine == nil {
		return nil, fmt.Errorf("plan: calculation engine is required")
	}
	if req.Month < time.January || req.Month > time.December {
		return nil, fmt.Errorf("plan: %w: month %d out of range", ErrInvalidPeriod, req.Month)
	}
	if req.FixedCostsMonthly.IsNegative() || req.VariableCostsMonthly.IsNegative() {
		return nil, fmt.Errorf("plan: costs: %w", calculation.ErrNegativeAmount)
	}

	period := req.Period
	if period == "" {
		period = PlannerMonthly
	}
	if _, err := ParsePlannerPeriod(string(period)); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	regime := req.Regime
	if regime == "" {
		regime = DefaultRegime
	}

	txs := FilterByClient(req.Transactions, req.ClientID)
	if _, err := Sum(txs); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	from, to := period.Bounds(req.Year, req.Month, time.UTC)
	revenue := PeriodRevenue(txs, req.Year, req.Month, period)
	trailing := TrailingRevenue(txs, req.Year, req.Month)

	tax, err := a.CalcEngine.ComputeProgressiveTax(trailing, revenue, regime)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	multiplier := decimal.NewFromInt(period.Multiplier())
	s := &PlannerSummary{
		Period:          period,
		From:            from,
		To:              to,
		Revenue:         revenue,
		TrailingRevenue: trailing,
		Tax:             tax,
		TotalFixed:      req.FixedCostsMonthly.Mul(multiplier),
		TotalVariable:   req.VariableCostsMonthly.Mul(multiplier),
		TotalTaxes:      tax.TaxAmount,
		MarginPct:       decimal.Zero,
	}
	s.TotalCosts = s.TotalFixed.Add(s.TotalVariable).Add(s.TotalTaxes)
	s.NetProfit = s.Revenue.Sub(s.TotalCosts)
	if s.Revenue.IsPositive() {
		s.MarginPct = s.NetProfit.Div(s.Revenue).Mul(hundred)
	}
	return s, nil
}
