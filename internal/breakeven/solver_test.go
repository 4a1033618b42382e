package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func near(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(dec("0.000001"))
}

// defaultRequest mirrors the pricing screen defaults: R$ 5000 fixed, 100 units,
// R$ 50 variable cost, 5% fees and a proposed price of R$ 100.
func defaultRequest(regime domain.Regime) PricingRequest {
	return PricingRequest{
		Activity:        domain.ActivityService,
		Regime:          regime,
		TrailingRevenue: dec("180000"),
		Payroll12:       dec("45000"),
		Costs: domain.CostStructure{
			FixedCostsMonthly: dec("5000"),
			AvgSalesVolume:    dec("100"),
			VariableCostUnit:  dec("50"),
			FeeRate:           dec("0.05"),
			ProposedPrice:     dec("100"),
		},
	}
}

func TestNewSolver(t *testing.T) {
	calcEngine := calculation.NewCalculationEngine()
	options := DefaultSolverOptions()

	solver := NewSolver(calcEngine, options)

	if solver == nil {
		t.Fatal("Expected solver to be created, got nil")
	}
	if solver.CalcEngine != calcEngine {
		t.Error("Expected CalcEngine to match input")
	}
	if solver.Options.CurvePoints != options.CurvePoints {
		t.Error("Expected Options to match input")
	}
}

func TestNewDefaultSolver(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	if !solver.RegimeAdjustment(domain.RegimeIV).Equal(dec("0.045")) {
		t.Error("Expected default Anexo IV adjustment to be applied")
	}
	if !solver.RegimeAdjustment(domain.RegimeI).IsZero() {
		t.Error("Expected no adjustment for Anexo I")
	}
}

func TestComputeMinimumViablePrice(t *testing.T) {
	tests := []struct {
		name       string
		cvu        string
		cfu        string
		tax        string
		fee        string
		adjustment string
		expected   string
		infeasible bool
	}{
		{"simple markup", "50", "50", "0.06", "0.04", "0", "111.111111111111111", false},
		{"no rates", "80", "20", "0", "0", "0", "100", false},
		{"with adjustment", "43", "0", "0.045", "0.05", "0.045", "50", false},
		{"load above 100%", "10", "5", "0.6", "0.5", "0", "", true},
		{"load exactly 100%", "10", "5", "0.5", "0.5", "0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeMinimumViablePrice(dec(tt.cvu), dec(tt.cfu), dec(tt.tax), dec(tt.fee), dec(tt.adjustment))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Infeasible() != tt.infeasible {
				t.Fatalf("Expected infeasible=%v, got %v", tt.infeasible, got.Infeasible())
			}
			if tt.infeasible {
				return
			}
			v, _ := got.Value()
			if !near(v, dec(tt.expected)) {
				t.Errorf("Expected %s, got %s", tt.expected, v)
			}
		})
	}
}

func TestComputeMinimumViablePrice_NegativeInput(t *testing.T) {
	_, err := ComputeMinimumViablePrice(dec("-1"), dec("0"), dec("0.1"), dec("0"), dec("0"))
	if !errors.Is(err, calculation.ErrNegativeAmount) {
		t.Errorf("Expected ErrNegativeAmount, got %v", err)
	}
}

func TestFixedCostPerUnit(t *testing.T) {
	if got := FixedCostPerUnit(dec("5000"), dec("100")); !got.Equal(dec("50")) {
		t.Errorf("Expected 50, got %s", got)
	}
	if got := FixedCostPerUnit(dec("5000"), decimal.Zero); !got.IsZero() {
		t.Errorf("Expected 0 without volume, got %s", got)
	}
}

func TestClassifyPrice(t *testing.T) {
	minPrice := FeasiblePrice(dec("112.36"))

	if ClassifyPrice(dec("112.36"), minPrice) != domain.StatusBreakEvenOrAbove {
		t.Error("Expected price equal to minimum to break even")
	}
	if ClassifyPrice(dec("112.35"), minPrice) != domain.StatusLoss {
		t.Error("Expected price below minimum to be a loss")
	}
	if ClassifyPrice(dec("1000000"), InfeasiblePrice()) != domain.StatusLoss {
		t.Error("Expected every price to be a loss when the minimum is infeasible")
	}
}

func TestUnitMarginAtMinimumPriceIsZero(t *testing.T) {
	load := dec("0.11")
	unitCost := dec("100")
	minPrice, err := ComputeMinimumViablePrice(dec("50"), dec("50"), dec("0.06"), dec("0.05"), decimal.Zero)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, _ := minPrice.Value()

	if margin := UnitMargin(v, load, unitCost); !near(margin, decimal.Zero) {
		t.Errorf("Expected zero margin at the minimum price, got %s", margin)
	}
}

func TestBreakEvenVolume(t *testing.T) {
	v, err := BreakEvenVolume(dec("5000"), dec("200"), dec("80"), dec("0.1"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !v.Equal(dec("50")) {
		t.Errorf("Expected 50 units, got %s", v)
	}

	if _, err := BreakEvenVolume(dec("5000"), dec("80"), dec("80"), dec("0.1")); !errors.Is(err, ErrInfeasibleVolume) {
		t.Errorf("Expected ErrInfeasibleVolume, got %v", err)
	}
}

func TestSolver_Analyze(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	analysis, err := solver.Analyze(context.Background(), defaultRequest(domain.RegimeIII))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if analysis.AppliedRegime != domain.RegimeIII {
		t.Errorf("Expected Anexo III, got %s", analysis.AppliedRegime)
	}
	if !analysis.RateLoad.EffectiveTaxRate.Equal(dec("0.06")) {
		t.Errorf("Expected flat 6%% rate, got %s", analysis.RateLoad.EffectiveTaxRate)
	}
	if !analysis.TotalRateLoad.Equal(dec("0.11")) {
		t.Errorf("Expected 11%% load, got %s", analysis.TotalRateLoad)
	}
	if !analysis.FixedCostUnit.Equal(dec("50")) || !analysis.UnitCost.Equal(dec("100")) {
		t.Errorf("Unexpected unit costs: cfu=%s total=%s", analysis.FixedCostUnit, analysis.UnitCost)
	}

	minPrice, ok := analysis.MinimumPrice.Value()
	if !ok || !near(minPrice, dec("100").Div(dec("0.89"))) {
		t.Errorf("Expected minimum price 100/0.89, got %s", analysis.MinimumPrice)
	}
	if analysis.Status != domain.StatusLoss {
		t.Errorf("Expected loss at R$ 100, got %s", analysis.Status)
	}
	if !analysis.UnitMargin.Equal(dec("-11")) {
		t.Errorf("Expected unit margin -11, got %s", analysis.UnitMargin)
	}

	ev := analysis.Evaluation
	if ev == nil {
		t.Fatal("Expected an evaluation at the proposed price")
	}
	if !ev.Price.Equal(dec("100")) || !ev.TaxAmount.Equal(dec("6")) || !ev.FeeAmount.Equal(dec("5")) {
		t.Errorf("Unexpected evaluation: %+v", ev)
	}
	if !ev.NetProfit.Equal(dec("-11")) || !ev.NetMarginPct.Equal(dec("-11")) {
		t.Errorf("Expected net -11 / -11%%, got %s / %s", ev.NetProfit, ev.NetMarginPct)
	}
	if !near(ev.Breakdown.Total(), ev.TaxAmount) {
		t.Errorf("Breakdown %s does not reconcile with tax %s", ev.Breakdown.Total(), ev.TaxAmount)
	}

	if analysis.FactorRAlert == nil || !analysis.FactorRAlert.Value.Equal(dec("0.25")) || analysis.FactorRAlert.IsHigh {
		t.Errorf("Expected low Factor R alert of 25%%, got %+v", analysis.FactorRAlert)
	}
}

func TestSolver_Analyze_RegimeAdjustment(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	analysis, err := solver.Analyze(context.Background(), defaultRequest(domain.RegimeIV))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 4.5% flat + 5% fees + 4.5% CPP adjustment
	if !analysis.TotalRateLoad.Equal(dec("0.14")) {
		t.Errorf("Expected 14%% load, got %s", analysis.TotalRateLoad)
	}
	if !analysis.Evaluation.AdjustmentAmount.Equal(dec("4.5")) {
		t.Errorf("Expected adjustment of 4.50, got %s", analysis.Evaluation.AdjustmentAmount)
	}

	custom := NewSolver(calculation.NewCalculationEngine(), SolverOptions{
		RegimeAdjustments: map[domain.Regime]decimal.Decimal{domain.RegimeIV: decimal.Zero},
	})
	analysis, err = custom.Analyze(context.Background(), defaultRequest(domain.RegimeIV))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !analysis.TotalRateLoad.Equal(dec("0.095")) {
		t.Errorf("Expected overridden load 9.5%%, got %s", analysis.TotalRateLoad)
	}
}

func TestSolver_Analyze_ApplyFactorR(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	req := defaultRequest(domain.RegimeIII)
	req.ApplyFactorR = true

	analysis, err := solver.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if analysis.AppliedRegime != domain.RegimeV {
		t.Errorf("Expected Factor R of 25%% to move the analysis to Anexo V, got %s", analysis.AppliedRegime)
	}
	if !analysis.RateLoad.EffectiveTaxRate.Equal(dec("0.155")) {
		t.Errorf("Expected Anexo V flat rate, got %s", analysis.RateLoad.EffectiveTaxRate)
	}
}

func TestSolver_Analyze_Infeasible(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	req := defaultRequest(domain.RegimeIII)
	req.Costs.FeeRate = dec("0.95")
	req.Costs.ProposedPrice = decimal.Zero

	analysis, err := solver.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !analysis.MinimumPrice.Infeasible() {
		t.Fatalf("Expected infeasible minimum price, got %s", analysis.MinimumPrice)
	}
	if analysis.Status != domain.StatusLoss {
		t.Errorf("Expected loss, got %s", analysis.Status)
	}
	if analysis.Evaluation != nil {
		t.Error("Expected no evaluation without any price")
	}

	if _, err := solver.BreakEvenCurve(context.Background(), analysis); !errors.Is(err, ErrInfeasiblePrice) {
		t.Errorf("Expected ErrInfeasiblePrice from the curve, got %v", err)
	}
	if _, err := solver.BreakEvenVolume(analysis); !errors.Is(err, ErrInfeasiblePrice) {
		t.Errorf("Expected ErrInfeasiblePrice from the volume, got %v", err)
	}
}

func TestSolver_Analyze_MinimumPriceWhenNoProposal(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	req := defaultRequest(domain.RegimeI)
	req.Activity = domain.ActivityCommerce
	req.Costs.ProposedPrice = decimal.Zero

	analysis, err := solver.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	minPrice, _ := analysis.MinimumPrice.Value()
	if analysis.Evaluation == nil || !analysis.Evaluation.Price.Equal(minPrice) {
		t.Fatal("Expected the evaluation to use the minimum price")
	}
	if !near(analysis.Evaluation.NetProfit, decimal.Zero) {
		t.Errorf("Expected zero net profit at the minimum price, got %s", analysis.Evaluation.NetProfit)
	}
	if analysis.FactorRAlert != nil {
		t.Error("Expected no Factor R alert for commerce")
	}
}

func TestSolver_Analyze_Errors(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	if _, err := solver.Analyze(context.Background(), defaultRequest("VI")); !errors.Is(err, domain.ErrInvalidRegime) {
		t.Errorf("Expected ErrInvalidRegime, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := solver.Analyze(ctx, defaultRequest(domain.RegimeI)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	empty := &Solver{Options: DefaultSolverOptions()}
	if _, err := empty.Analyze(context.Background(), defaultRequest(domain.RegimeI)); err == nil {
		t.Error("Expected error without a calculation engine")
	}
}

func TestSolver_BreakEvenCurve(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	analysis, err := solver.Analyze(context.Background(), defaultRequest(domain.RegimeIII))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	curve, err := solver.BreakEvenCurve(context.Background(), analysis)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(curve) != solver.Options.CurvePoints {
		t.Fatalf("Expected %d points, got %d", solver.Options.CurvePoints, len(curve))
	}
	if curve[0].Status != domain.StatusLoss {
		t.Error("Expected the cheapest point to be a loss")
	}
	if curve[len(curve)-1].Status != domain.StatusBreakEvenOrAbove {
		t.Error("Expected the most expensive point to break even")
	}
	for i := 1; i < len(curve); i++ {
		if !curve[i].UnitMargin.GreaterThan(curve[i-1].UnitMargin) {
			t.Errorf("Expected margin to grow with price at point %d", i)
		}
		if !curve[i].MonthlyResult.Equal(curve[i].UnitMargin.Mul(dec("100"))) {
			t.Errorf("Expected monthly result to be margin x volume at point %d", i)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := solver.BreakEvenCurve(ctx, analysis); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSolver_BreakEvenVolume(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	req := defaultRequest(domain.RegimeIII)
	req.Costs.ProposedPrice = dec("150")
	analysis, err := solver.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 150 x 0.89 - 50 = 83.5 per unit
	v, err := solver.BreakEvenVolume(analysis)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !near(v, dec("5000").Div(dec("83.5"))) {
		t.Errorf("Expected 5000/83.5 units, got %s", v)
	}
}

func TestSolver_CompareRegimes(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	result, err := solver.CompareRegimes(context.Background(), defaultRequest(domain.RegimeV))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Rows) != len(domain.Regimes()) {
		t.Fatalf("Expected one row per annex, got %d", len(result.Rows))
	}
	if result.Cheapest == nil || result.Cheapest.Regime != domain.RegimeI {
		t.Fatalf("Expected Anexo I to be cheapest at RBT12 180k, got %+v", result.Cheapest)
	}
	for _, row := range result.Rows {
		if row.Regime == domain.RegimeIV && !row.TotalRateLoad.Equal(dec("0.14")) {
			t.Errorf("Expected Anexo IV load to include the adjustment, got %s", row.TotalRateLoad)
		}
	}

	joined := strings.Join(result.Recommendations, "\n")
	if !strings.Contains(joined, "Anexo I:") {
		t.Errorf("Expected recommendation naming Anexo I, got %q", joined)
	}
	if !strings.Contains(joined, "Factor R") {
		t.Errorf("Expected Factor R caveat for Anexo V, got %q", joined)
	}
}

func TestSolver_CompareRegimes_AllInfeasible(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	req := defaultRequest(domain.RegimeI)
	req.Costs.FeeRate = dec("0.99")

	result, err := solver.CompareRegimes(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Cheapest != nil {
		t.Error("Expected no cheapest annex")
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("Expected a single recommendation, got %v", result.Recommendations)
	}
}
