package calculation

import (
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates the tax calculators behind one entry point
type CalculationEngine struct {
	SimplesCalc  *SimplesCalculator
	PresumedCalc *PresumedProfitCalculator
	PayrollCalc  *PayrollCalculator
	Logger       Logger
	Debug        bool // log intermediate values of every computation
}

// NewCalculationEngine creates an engine over the compiled-in bracket table
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		SimplesCalc:  NewSimplesCalculator(),
		PresumedCalc: NewPresumedProfitCalculator(),
		PayrollCalc:  NewPayrollCalculator(),
		Logger:       NopLogger{},
	}
}

// NewCalculationEngineWithTable creates an engine over an externally loaded bracket table
func NewCalculationEngineWithTable(table domain.BracketTable) (*CalculationEngine, error) {
	simples, err := NewSimplesCalculatorWithTable(table)
	if err != nil {
		return nil, err
	}
	ce := NewCalculationEngine()
	ce.SimplesCalc = simples
	return ce, nil
}

// SetLogger replaces the engine logger; nil installs a no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// ComputeProgressiveTax runs the Simples Nacional formula for an explicit annex
func (ce *CalculationEngine) ComputeProgressiveTax(trailingRevenue, periodRevenue decimal.Decimal, regime domain.Regime) (domain.TaxComputationResult, error) {
	res, err := ce.SimplesCalc.ComputeProgressiveTax(trailingRevenue, periodRevenue, regime)
	if err != nil {
		ce.logger().Errorf("simples computation failed: %v", err)
		return res, err
	}
	if ce.Debug {
		ce.logger().Debugf("simples %s rbt12=%s period=%s bracket=%d effective=%s tax=%s",
			regime, trailingRevenue.StringFixed(2), periodRevenue.StringFixed(2),
			res.BracketIndex, res.EffectiveRate.StringFixed(6), res.TaxAmount.StringFixed(2))
	}
	return res, nil
}

// ComputeForActivity resolves the annex through Factor R and then computes the Simples tax
func (ce *CalculationEngine) ComputeForActivity(activity domain.ActivityType, selected domain.Regime, trailingRevenue, periodRevenue, payrollLast12Months decimal.Decimal) (domain.TaxComputationResult, error) {
	if payrollLast12Months.IsNegative() {
		return domain.TaxComputationResult{}, &CalculationError{Operation: "compute_for_activity", Message: "payroll cannot be negative", Cause: ErrNegativeAmount}
	}
	regime, err := ResolveRegime(activity, selected, trailingRevenue, payrollLast12Months)
	if err != nil {
		return domain.TaxComputationResult{}, err
	}
	if regime != selected {
		ce.logger().Infof("factor R %s moved %s to %s",
			FactorR(trailingRevenue, payrollLast12Months).StringFixed(4), selected, regime)
	}
	return ce.ComputeProgressiveTax(trailingRevenue, periodRevenue, regime)
}

// ResolveFactorRRegime selects between Anexo III and V
func (ce *CalculationEngine) ResolveFactorRRegime(trailingRevenue, payrollLast12Months decimal.Decimal) (domain.Regime, error) {
	if err := requireNonNegative("resolve_factor_r_regime",
		amount{"trailing revenue", trailingRevenue},
		amount{"payroll", payrollLast12Months},
	); err != nil {
		return "", err
	}
	return ResolveFactorRRegime(trailingRevenue, payrollLast12Months), nil
}

// ComputePresumedProfit runs the basic Lucro Presumido estimate
func (ce *CalculationEngine) ComputePresumedProfit(periodRevenue, payrollLast12Months decimal.Decimal, activity domain.ActivityType) (domain.PresumedProfitResult, error) {
	res, err := ce.PresumedCalc.ComputePresumedProfit(periodRevenue, payrollLast12Months, activity)
	if err != nil {
		return res, err
	}
	if ce.Debug {
		ce.logger().Debugf("presumido %s revenue=%s total=%s", activity, periodRevenue.StringFixed(2), res.Total.StringFixed(2))
	}
	return res, nil
}

// ComputePresumedProfitAdvanced runs the transaction-level Lucro Presumido estimate
func (ce *CalculationEngine) ComputePresumedProfitAdvanced(transactions []domain.Transaction, rules domain.TaxRuleConfiguration) (domain.AdvancedPresumedProfitResult, error) {
	res, err := ce.PresumedCalc.ComputePresumedProfitAdvanced(transactions, rules)
	if err != nil {
		return res, err
	}
	if ce.Debug {
		ce.logger().Debugf("presumido advanced gross=%s exempt=%s total=%s effective=%s",
			res.TotalGross.StringFixed(2), res.ExemptAmount.StringFixed(2),
			res.Total.StringFixed(2), res.EffectiveRate.StringFixed(6))
	}
	return res, nil
}

// ComputeProvisions returns the payroll provisions for one salary
func (ce *CalculationEngine) ComputeProvisions(salary decimal.Decimal) (domain.PayrollProvisions, error) {
	return ce.PayrollCalc.ComputeProvisions(salary)
}

// CompanyTax computes the Simples tax of a configured company over a period revenue.
// The client's declared RBT12 and payroll drive the bracket and the Factor R switch.
func (ce *CalculationEngine) CompanyTax(cfg *domain.Configuration, periodRevenue decimal.Decimal) (domain.TaxComputationResult, error) {
	if cfg == nil {
		return domain.TaxComputationResult{}, fmt.Errorf("company tax: configuration is required")
	}
	c := cfg.Client
	activity := c.Activity
	if activity == "" {
		activity = domain.DefaultActivity(c.Regime)
	}
	return ce.ComputeForActivity(activity, c.Regime, c.AnnualRevenue, periodRevenue, c.Payroll12)
}
