package breakeven

import (
	"context"
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ComputeMinimumViablePrice inverts the tax-inclusive margin equation
//
//	price = (unitVariableCost + fixedCostPerUnit) / (1 - effectiveTaxRate - feeRate - regimeAdjustment)
//
// When the rates add up to 100% or more no price recovers the costs and the
// infeasible price is returned. An error is only returned for negative inputs.
func ComputeMinimumViablePrice(unitVariableCost, fixedCostPerUnit, effectiveTaxRate, feeRate, regimeAdjustment decimal.Decimal) (MinimumPrice, error) {
	inputs := []struct {
		name  string
		value decimal.Decimal
	}{
		{"unit variable cost", unitVariableCost},
		{"fixed cost per unit", fixedCostPerUnit},
		{"effective tax rate", effectiveTaxRate},
		{"fee rate", feeRate},
		{"regime adjustment", regimeAdjustment},
	}
	for _, in := range inputs {
		if in.value.IsNegative() {
			return InfeasiblePrice(), &BreakEvenError{
				Operation: "minimum_viable_price",
				Message:   in.name + " cannot be negative",
				Cause:     calculation.ErrNegativeAmount,
			}
		}
	}

	load := RateLoad{EffectiveTaxRate: effectiveTaxRate, FeeRate: feeRate, RegimeAdjustment: regimeAdjustment}
	divisor := one.Sub(load.Total())
	if !divisor.IsPositive() {
		return InfeasiblePrice(), nil
	}
	return FeasiblePrice(unitVariableCost.Add(fixedCostPerUnit).Div(divisor)), nil
}

// Require returns the price or ErrInfeasiblePrice
func (m MinimumPrice) Require() (decimal.Decimal, error) {
	if !m.feasible {
		return decimal.Zero, ErrInfeasiblePrice
	}
	return m.value, nil
}

// FixedCostPerUnit spreads monthly fixed costs over the average sales volume.
// No volume means no allocation.
func FixedCostPerUnit(fixedCostsMonthly, avgSalesVolume decimal.Decimal) decimal.Decimal {
	if !avgSalesVolume.IsPositive() {
		return decimal.Zero
	}
	return fixedCostsMonthly.Div(avgSalesVolume)
}

// UnitMargin is what one sale leaves after rate-based deductions and unit costs
func UnitMargin(price, totalRateLoad, unitCost decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Mul(totalRateLoad)).Sub(unitCost)
}

// ClassifyPrice compares a proposed price with the minimum viable price.
// Every price is a loss when the minimum is infeasible.
func ClassifyPrice(proposed decimal.Decimal, minPrice MinimumPrice) domain.PricingStatus {
	v, ok := minPrice.Value()
	if ok && proposed.GreaterThanOrEqual(v) {
		return domain.StatusBreakEvenOrAbove
	}
	return domain.StatusLoss
}

// BreakEvenVolume returns how many units per month cover the fixed costs at a price
func BreakEvenVolume(fixedCostsMonthly, price, unitVariableCost, totalRateLoad decimal.Decimal) (decimal.Decimal, error) {
	contribution := price.Mul(one.Sub(totalRateLoad)).Sub(unitVariableCost)
	if !contribution.IsPositive() {
		return decimal.Zero, ErrInfeasibleVolume
	}
	return fixedCostsMonthly.Div(contribution), nil
}

// Solver runs pricing analyses on top of the tax engine
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new pricing solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// RegimeAdjustment returns the extra rate load configured for an annex
func (s *Solver) RegimeAdjustment(regime domain.Regime) decimal.Decimal {
	if adj, ok := s.Options.RegimeAdjustments[regime]; ok {
		return adj
	}
	return decimal.Zero
}

// Analyze computes the minimum viable price, the viability status of the
// proposed price and the detailed evaluation of one sale.
func (s *Solver) Analyze(ctx context.Context, req PricingRequest) (*PricingAnalysis, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.CalcEngine == nil {
		return nil, &BreakEvenError{Operation: "analyze", Message: "calculation engine is required"}
	}

	activity := req.Activity
	if activity == "" {
		activity = domain.DefaultActivity(req.Regime)
	}

	applied := req.Regime
	if req.ApplyFactorR {
		resolved, err := calculation.ResolveRegime(activity, req.Regime, req.TrailingRevenue, req.Payroll12)
		if err != nil {
			return nil, &BreakEvenError{Operation: "analyze", Message: "failed to resolve regime", Cause: err}
		}
		applied = resolved
	}

	rateInfo, err := s.CalcEngine.ComputeProgressiveTax(req.TrailingRevenue, decimal.Zero, applied)
	if err != nil {
		return nil, &BreakEvenError{Operation: "analyze", Message: "failed to compute effective rate", Cause: err}
	}

	costs := req.Costs
	load := RateLoad{
		EffectiveTaxRate: rateInfo.EffectiveRate,
		FeeRate:          costs.FeeRate,
		RegimeAdjustment: s.RegimeAdjustment(applied),
	}
	totalLoad := load.Total()
	cfu := FixedCostPerUnit(costs.FixedCostsMonthly, costs.AvgSalesVolume)
	unitCost := costs.VariableCostUnit.Add(cfu)

	minPrice, err := ComputeMinimumViablePrice(costs.VariableCostUnit, cfu, load.EffectiveTaxRate, load.FeeRate, load.RegimeAdjustment)
	if err != nil {
		return nil, err
	}

	analysis := &PricingAnalysis{
		Request:       req,
		AppliedRegime: applied,
		RateLoad:      load,
		TotalRateLoad: totalLoad,
		FixedCostUnit: cfu,
		UnitCost:      unitCost,
		MinimumPrice:  minPrice,
		Status:        ClassifyPrice(costs.ProposedPrice, minPrice),
		UnitMargin:    UnitMargin(costs.ProposedPrice, totalLoad, unitCost),
		Tax:           rateInfo,
	}
	analysis.Request.Activity = activity

	if activity == domain.ActivityService {
		alert := calculation.NewFactorRAlert(req.TrailingRevenue, req.Payroll12)
		analysis.FactorRAlert = &alert
	}

	price := costs.ProposedPrice
	if !price.IsPositive() {
		if v, ok := minPrice.Value(); ok {
			price = v
		}
	}
	if price.IsPositive() {
		tax, err := s.CalcEngine.ComputeProgressiveTax(req.TrailingRevenue, price, applied)
		if err != nil {
			return nil, &BreakEvenError{Operation: "analyze", Message: "failed to compute tax at price", Cause: err}
		}
		analysis.Tax = tax
		analysis.Evaluation = evaluate(price, load, unitCost, tax)
	}

	return analysis, nil
}

func evaluate(price decimal.Decimal, load RateLoad, unitCost decimal.Decimal, tax domain.TaxComputationResult) *PriceEvaluation {
	ev := &PriceEvaluation{
		Price:            price,
		TaxAmount:        tax.TaxAmount,
		FeeAmount:        price.Mul(load.FeeRate),
		AdjustmentAmount: price.Mul(load.RegimeAdjustment),
		GrossProfit:      price.Sub(unitCost),
		GrossMarginPct:   decimal.Zero,
		NetMarginPct:     decimal.Zero,
		Breakdown:        tax.Breakdown,
	}
	ev.NetProfit = ev.GrossProfit.Sub(ev.TaxAmount).Sub(ev.FeeAmount).Sub(ev.AdjustmentAmount)
	if price.IsPositive() {
		ev.GrossMarginPct = ev.GrossProfit.Div(price).Mul(hundred)
		ev.NetMarginPct = ev.NetProfit.Div(price).Mul(hundred)
	}
	return ev
}

// BreakEvenCurve samples the unit margin around the minimum price. Without a
// feasible minimum the curve is centred on the proposed price.
func (s *Solver) BreakEvenCurve(ctx context.Context, analysis *PricingAnalysis) ([]CurvePoint, error) {
	if analysis == nil {
		return nil, &BreakEvenError{Operation: "break_even_curve", Message: "analysis is required"}
	}

	centre, ok := analysis.MinimumPrice.Value()
	if !ok {
		centre = analysis.Request.Costs.ProposedPrice
	}
	if !centre.IsPositive() {
		return nil, &BreakEvenError{Operation: "break_even_curve", Message: "no price to centre the curve on", Cause: ErrInfeasiblePrice}
	}

	points := s.Options.CurvePoints
	if points < 2 {
		points = 2
	}
	spread := s.Options.CurveSpread
	if !spread.IsPositive() || spread.GreaterThan(one) {
		spread = DefaultSolverOptions().CurveSpread
	}

	low := centre.Mul(one.Sub(spread))
	high := centre.Mul(one.Add(spread))
	step := high.Sub(low).Div(decimal.NewFromInt(int64(points - 1)))
	volume := analysis.Request.Costs.AvgSalesVolume

	curve := make([]CurvePoint, 0, points)
	for i := 0; i < points; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		price := low.Add(step.Mul(decimal.NewFromInt(int64(i))))
		margin := UnitMargin(price, analysis.TotalRateLoad, analysis.UnitCost)
		curve = append(curve, CurvePoint{
			Price:         price,
			UnitMargin:    margin,
			MonthlyResult: margin.Mul(volume),
			Status:        ClassifyPrice(price, analysis.MinimumPrice),
		})
	}
	return curve, nil
}

// BreakEvenVolume returns the monthly sales volume that covers fixed costs at
// the evaluated price of an analysis.
func (s *Solver) BreakEvenVolume(analysis *PricingAnalysis) (decimal.Decimal, error) {
	if analysis == nil || analysis.Evaluation == nil {
		return decimal.Zero, &BreakEvenError{Operation: "break_even_volume", Message: "analysis has no evaluated price", Cause: ErrInfeasiblePrice}
	}
	costs := analysis.Request.Costs
	v, err := BreakEvenVolume(costs.FixedCostsMonthly, analysis.Evaluation.Price, costs.VariableCostUnit, analysis.TotalRateLoad)
	if err != nil {
		return decimal.Zero, &BreakEvenError{
			Operation: "break_even_volume",
			Message:   fmt.Sprintf("price %s does not cover variable costs", analysis.Evaluation.Price.StringFixed(2)),
			Cause:     err,
		}
	}
	return v, nil
}
