package breakeven

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrInfeasiblePrice is returned when taxes and fees consume 100% or more of the price
	ErrInfeasiblePrice = errors.New("infeasible price: total rate load is 100% or more")
	// ErrInfeasibleVolume is returned when each sale has a non-positive contribution margin
	ErrInfeasibleVolume = errors.New("infeasible volume: contribution margin is not positive")
)

// MinimumPrice is either a finite price or the infeasible marker.
// The zero value is infeasible.
type MinimumPrice struct {
	value    decimal.Decimal
	feasible bool
}

// FeasiblePrice wraps a computed minimum price
func FeasiblePrice(v decimal.Decimal) MinimumPrice {
	return MinimumPrice{value: v, feasible: true}
}

// InfeasiblePrice returns the marker used when no price covers the rate load
func InfeasiblePrice() MinimumPrice {
	return MinimumPrice{}
}

// Infeasible reports whether the rate load makes every price a loss
func (m MinimumPrice) Infeasible() bool {
	return !m.feasible
}

// Value returns the price and whether it exists
func (m MinimumPrice) Value() (decimal.Decimal, bool) {
	return m.value, m.feasible
}

func (m MinimumPrice) String() string {
	if !m.feasible {
		return "infeasible"
	}
	return m.value.StringFixed(2)
}

type minimumPriceJSON struct {
	Feasible bool             `json:"feasible"`
	Value    *decimal.Decimal `json:"value"`
}

func (m MinimumPrice) MarshalJSON() ([]byte, error) {
	out := minimumPriceJSON{Feasible: m.feasible}
	if m.feasible {
		v := m.value
		out.Value = &v
	}
	return json.Marshal(out)
}

func (m *MinimumPrice) UnmarshalJSON(data []byte) error {
	var in minimumPriceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Feasible || in.Value == nil {
		*m = InfeasiblePrice()
		return nil
	}
	*m = FeasiblePrice(*in.Value)
	return nil
}

// RateLoad is the share of the price consumed by percentage-of-revenue deductions
type RateLoad struct {
	EffectiveTaxRate decimal.Decimal `json:"effective_tax_rate"`
	FeeRate          decimal.Decimal `json:"fee_rate"`
	RegimeAdjustment decimal.Decimal `json:"regime_adjustment"`
}

// Total sums the three components
func (r RateLoad) Total() decimal.Decimal {
	return r.EffectiveTaxRate.Add(r.FeeRate).Add(r.RegimeAdjustment)
}

// PricingRequest defines the inputs of a pricing analysis
type PricingRequest struct {
	ClientName      string               `json:"client_name,omitempty"`
	Activity        domain.ActivityType  `json:"activity"`
	Regime          domain.Regime        `json:"regime"`
	TrailingRevenue decimal.Decimal      `json:"trailing_revenue"`
	Payroll12       decimal.Decimal      `json:"payroll_12"`
	Costs           domain.CostStructure `json:"costs"`
	// ApplyFactorR lets Factor R pick between Anexo III and V instead of
	// only producing an alert.
	ApplyFactorR    bool                 `json:"apply_factor_r"`
}

// Validate checks the request before any computation
func (r *PricingRequest) Validate() error {
	if !r.Regime.Valid() {
		return &BreakEvenError{Operation: "validate_request", Message: fmt.Sprintf("unknown regime %q", string(r.Regime)), Cause: domain.ErrInvalidRegime}
	}
	if r.Activity != "" && !r.Activity.Valid() {
		return &BreakEvenError{Operation: "validate_request", Message: fmt.Sprintf("unknown activity %q", string(r.Activity)), Cause: domain.ErrInvalidActivity}
	}
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"trailing_revenue", r.TrailingRevenue},
		{"payroll_12", r.Payroll12},
		{"fixed_costs_monthly", r.Costs.FixedCostsMonthly},
		{"avg_sales_volume", r.Costs.AvgSalesVolume},
		{"variable_cost_unit", r.Costs.VariableCostUnit},
		{"fee_rate", r.Costs.FeeRate},
		{"proposed_price", r.Costs.ProposedPrice},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return &BreakEvenError{Operation: "validate_request", Message: f.name + " cannot be negative"}
		}
	}
	return nil
}

// PricingAnalysis is the full result of a pricing run
type PricingAnalysis struct {
	Request       PricingRequest              `json:"request"`
	AppliedRegime domain.Regime               `json:"applied_regime"`
	RateLoad      RateLoad                    `json:"rate_load"`
	TotalRateLoad decimal.Decimal             `json:"total_rate_load"`
	FixedCostUnit decimal.Decimal             `json:"fixed_cost_unit"`
	UnitCost      decimal.Decimal             `json:"unit_cost"` // variable plus allocated fixed
	MinimumPrice  MinimumPrice                `json:"minimum_price"`
	Status        domain.PricingStatus        `json:"status"`
	UnitMargin    decimal.Decimal             `json:"unit_margin"` // at the proposed price
	FactorRAlert  *domain.FactorRAlert        `json:"factor_r_alert,omitempty"`
	Evaluation    *PriceEvaluation            `json:"evaluation,omitempty"`
	Tax           domain.TaxComputationResult `json:"tax"`
}

// PriceEvaluation details one sale at the evaluated price
type PriceEvaluation struct {
	Price            decimal.Decimal  `json:"price"` // proposed price, or minimum when none was given
	TaxAmount        decimal.Decimal  `json:"tax_amount"`
	FeeAmount        decimal.Decimal  `json:"fee_amount"`
	AdjustmentAmount decimal.Decimal  `json:"adjustment_amount"`
	GrossProfit      decimal.Decimal  `json:"gross_profit"`
	NetProfit        decimal.Decimal  `json:"net_profit"`
	GrossMarginPct   decimal.Decimal  `json:"gross_margin_pct"`
	NetMarginPct     decimal.Decimal  `json:"net_margin_pct"`
	Breakdown        domain.Breakdown `json:"breakdown"`
}

// CurvePoint is one sample of the break-even chart
type CurvePoint struct {
	Price         decimal.Decimal      `json:"price"`
	UnitMargin    decimal.Decimal      `json:"unit_margin"`
	MonthlyResult decimal.Decimal      `json:"monthly_result"` // unit margin times average volume
	Status        domain.PricingStatus `json:"status"`
}

// RegimePricing is one row of the cross-annex comparison
type RegimePricing struct {
	Regime        domain.Regime   `json:"regime"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	TotalRateLoad decimal.Decimal `json:"total_rate_load"`
	MinimumPrice  MinimumPrice    `json:"minimum_price"`
}

// RegimePricingComparison ranks the minimum price across annexes
type RegimePricingComparison struct {
	Rows            []RegimePricing `json:"rows"`
	Cheapest        *RegimePricing  `json:"cheapest,omitempty"`
	Recommendations []string        `json:"recommendations"`
}

// SolverOptions configures the pricing solver
type SolverOptions struct {
	RegimeAdjustments map[domain.Regime]decimal.Decimal // extra load per annex
	CurvePoints       int                               // samples of the break-even curve
	CurveSpread       decimal.Decimal                   // curve spans minimum price x (1 +/- spread)
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		RegimeAdjustments: domain.DefaultRegimeAdjustments(),
		CurvePoints:       11,
		CurveSpread:       decimal.NewFromFloat(0.5),
	}
}

// BreakEvenError represents errors from the pricing solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
