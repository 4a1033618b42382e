package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultTrailingRevenue stands in for an RBT12 the client never declared
	DefaultTrailingRevenue = decimal.NewFromInt(180000)
	// DefaultRegime is used when the client has no annex on file
	DefaultRegime = domain.RegimeIII
)

// Aggregator computes dashboard indicators and planner summaries over a ledger
type Aggregator struct {
	CalcEngine *calculation.CalculationEngine
	Now        func() time.Time
}

// NewAggregator creates an aggregator on the wall clock
func NewAggregator(calcEngine *calculation.CalculationEngine) *Aggregator {
	return &Aggregator{
		CalcEngine: calcEngine,
		Now:        time.Now,
	}
}

func (a *Aggregator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// IndicatorsRequest selects the ledger slice behind the dashboard
type IndicatorsRequest struct {
	ClientID        string                    `json:"client_id,omitempty"`
	Period          calculation.PayrollPeriod `json:"period"`
	Custom          DateRange                 `json:"custom"` // only read for custom
	Regime          domain.Regime             `json:"regime,omitempty"`
	TrailingRevenue decimal.Decimal           `json:"trailing_revenue"`
	Transactions    []domain.Transaction      `json:"transactions"`
	Employees       []domain.Employee         `json:"employees"`
}

// Indicators are the headline figures of the dashboard for one period
type Indicators struct {
	Period         calculation.PayrollPeriod   `json:"period"`
	Range          DateRange                   `json:"range"`
	TotalInflows   decimal.Decimal             `json:"total_inflows"`
	ManualOutflows decimal.Decimal             `json:"manual_outflows"`
	PeriodPayroll  decimal.Decimal             `json:"period_payroll"`
	DAS            decimal.Decimal             `json:"das"`
	TotalOutflows  decimal.Decimal             `json:"total_outflows"`
	NetProfit      decimal.Decimal             `json:"net_profit"`
	ROI            decimal.Decimal             `json:"roi"` // percent of total outflows
	Tax            domain.TaxComputationResult `json:"tax"`
}

// Indicators computes the dashboard figures. Outflows add the manual
// outflows, the payroll share of the period and the DAS on the period's
// inflows. ROI is zero when nothing went out.
func (a *Aggregator) Indicators(ctx context.Context, req IndicatorsRequest) (*Indicators, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.CalcEngine == nil {
		return nil, fmt.Errorf("indicators: calculation engine is required")
	}

	period := req.Period
	if period == "" {
		period = calculation.PayrollMonthly
	}
	window, err := Window(period, a.now(), req.Custom)
	if err != nil {
		return nil, fmt.Errorf("indicators: %w", err)
	}

	txs := FilterByRange(FilterByClient(req.Transactions, req.ClientID), window)
	totals, err := Sum(txs)
	if err != nil {
		return nil, fmt.Errorf("indicators: %w", err)
	}

	monthlyCost, err := a.CalcEngine.PayrollCalc.MonthlyEmployerCost(FilterEmployeesByClient(req.Employees, req.ClientID))
	if err != nil {
		return nil, fmt.Errorf("indicators: %w", err)
	}
	payroll, err := a.CalcEngine.PayrollCalc.ForPeriod(monthlyCost, period, window.Days())
	if err != nil {
		return nil, fmt.Errorf("indicators: %w", err)
	}

	regime := req.Regime
	if regime == "" {
		regime = DefaultRegime
	}
	trailing := req.TrailingRevenue
	if !trailing.IsPositive() {
		trailing = DefaultTrailingRevenue
	}
	tax, err := a.CalcEngine.ComputeProgressiveTax(trailing, totals.Inflows, regime)
	if err != nil {
		return nil, fmt.Errorf("indicators: %w", err)
	}

	out := &Indicators{
		Period:         period,
		Range:          window,
		TotalInflows:   totals.Inflows,
		ManualOutflows: totals.Outflows,
		PeriodPayroll:  payroll,
		DAS:            tax.TaxAmount,
		Tax:            tax,
		ROI:            decimal.Zero,
	}
	out.TotalOutflows = out.ManualOutflows.Add(out.PeriodPayroll).Add(out.DAS)
	out.NetProfit = out.TotalInflows.Sub(out.TotalOutflows)
	if out.TotalOutflows.IsPositive() {
		out.ROI = out.NetProfit.Div(out.TotalOutflows).Mul(hundred)
	}
	return out, nil
}

// IndicatorsForCompany runs Indicators over an input file
func (a *Aggregator) IndicatorsForCompany(ctx context.Context, cfg *domain.Configuration, period calculation.PayrollPeriod, custom DateRange) (*Indicators, error) {
	if cfg == nil {
		return nil, fmt.Errorf("indicators: configuration is required")
	}
	return a.Indicators(ctx, IndicatorsRequest{
		ClientID:        cfg.Client.ID,
		Period:          period,
		Custom:          custom,
		Regime:          cfg.Client.Regime,
		TrailingRevenue: cfg.Client.AnnualRevenue,
		Transactions:    cfg.Transactions,
		Employees:       cfg.Employees,
	})
}
