package compare

import (
	"context"
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// CompareEngine puts the Simples Nacional and Lucro Presumido engines side by side
type CompareEngine struct {
	CalcEngine *calculation.CalculationEngine
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{CalcEngine: calcEngine}
}

func activityFor(activity domain.ActivityType, regime domain.Regime) domain.ActivityType {
	if activity == "" {
		return domain.DefaultActivity(regime)
	}
	return activity
}

// simplesTax computes the Simples bill on the declared annex, the same way
// the ledger indicators and planner do. Factor R only moves the annex when
// the caller asks for it.
func (ce *CompareEngine) simplesTax(activity domain.ActivityType, regime domain.Regime, trailing, revenue, payroll decimal.Decimal, applyFactorR bool) (domain.TaxComputationResult, error) {
	if applyFactorR {
		return ce.CalcEngine.ComputeForActivity(activity, regime, trailing, revenue, payroll)
	}
	return ce.CalcEngine.ComputeProgressiveTax(trailing, revenue, regime)
}

// Compare estimates one period under both regimes. Simples wins only when
// strictly cheaper.
func (ce *CompareEngine) Compare(ctx context.Context, req ComparisonRequest) (*TaxComparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ce.CalcEngine == nil {
		return nil, fmt.Errorf("compare: calculation engine is required")
	}

	req.Activity = activityFor(req.Activity, req.Regime)

	simples, err := ce.simplesTax(req.Activity, req.Regime, req.TrailingRevenue, req.PeriodRevenue, req.Payroll12, req.ApplyFactorR)
	if err != nil {
		return nil, fmt.Errorf("failed to compute simples tax: %w", err)
	}

	presumed, err := ce.CalcEngine.ComputePresumedProfit(req.PeriodRevenue, req.Payroll12, req.Activity)
	if err != nil {
		return nil, fmt.Errorf("failed to compute presumed profit: %w", err)
	}

	result := &TaxComparison{
		Request:    req,
		Simples:    simples,
		Presumed:   presumed,
		Winner:     RegimeLucroPresumido,
		Difference: simples.TaxAmount.Sub(presumed.Total).Abs(),
	}
	if simples.TaxAmount.LessThan(presumed.Total) {
		result.Winner = RegimeSimplesNacional
	}

	result.Recommendations = GenerateRecommendations(result)
	return result, nil
}

// CompareCompany runs Compare with the client profile of an input file
func (ce *CompareEngine) CompareCompany(ctx context.Context, cfg *domain.Configuration, periodRevenue decimal.Decimal) (*TaxComparison, error) {
	if cfg == nil {
		return nil, fmt.Errorf("compare: configuration is required")
	}
	return ce.Compare(ctx, CompanyComparisonRequest(cfg, periodRevenue))
}

// CompanyComparisonRequest fills a ComparisonRequest from the client profile
func CompanyComparisonRequest(cfg *domain.Configuration, periodRevenue decimal.Decimal) ComparisonRequest {
	return ComparisonRequest{
		ClientName:      cfg.Client.Name,
		Activity:        cfg.Client.Activity,
		Regime:          cfg.Client.Regime,
		TrailingRevenue: cfg.Client.AnnualRevenue,
		PeriodRevenue:   periodRevenue,
		Payroll12:       cfg.Client.Payroll12,
	}
}

// Efficiency builds the fiscal efficiency report of a month of transactions.
// Simples is computed over the month's inflows; it is the better option when
// it costs no more than the transaction-level Lucro Presumido estimate.
func (ce *CompareEngine) Efficiency(ctx context.Context, req EfficiencyRequest) (*EfficiencyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ce.CalcEngine == nil {
		return nil, fmt.Errorf("efficiency: calculation engine is required")
	}

	presumed, err := ce.CalcEngine.ComputePresumedProfitAdvanced(req.Transactions, req.TaxRules)
	if err != nil {
		return nil, fmt.Errorf("failed to compute presumed profit: %w", err)
	}
	invoiced := presumed.TotalGross

	activity := activityFor(req.Activity, req.Regime)
	simples, err := ce.simplesTax(activity, req.Regime, req.TrailingRevenue, invoiced, req.Payroll12, req.ApplyFactorR)
	if err != nil {
		return nil, fmt.Errorf("failed to compute simples tax: %w", err)
	}

	report := &EfficiencyReport{
		ClientName:      req.ClientName,
		Invoiced:        invoiced,
		Simples:         simples,
		Presumed:        presumed,
		SimplesIsBetter: simples.TaxAmount.LessThanOrEqual(presumed.Total),
		Economy:         simples.TaxAmount.Sub(presumed.Total).Abs(),
		Score:           EfficiencyScore(invoiced, simples.TaxAmount, presumed.Total),
	}
	report.Recommendations = GenerateEfficiencyRecommendations(report)
	return report, nil
}

// EfficiencyForCompany runs Efficiency with the client profile, tax rules and
// the given slice of the input file's transactions
func (ce *CompareEngine) EfficiencyForCompany(ctx context.Context, cfg *domain.Configuration, transactions []domain.Transaction) (*EfficiencyReport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("efficiency: configuration is required")
	}
	return ce.Efficiency(ctx, CompanyEfficiencyRequest(cfg, transactions))
}

// CompanyEfficiencyRequest fills an EfficiencyRequest from the client profile
// and tax rules
func CompanyEfficiencyRequest(cfg *domain.Configuration, transactions []domain.Transaction) EfficiencyRequest {
	return EfficiencyRequest{
		ClientName:      cfg.Client.Name,
		Activity:        cfg.Client.Activity,
		Regime:          cfg.Client.Regime,
		TrailingRevenue: cfg.Client.AnnualRevenue,
		Payroll12:       cfg.Client.Payroll12,
		Transactions:    transactions,
		TaxRules:        cfg.TaxRules,
	}
}
