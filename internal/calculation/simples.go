package calculation

import (
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// SimplesCalculator computes Simples Nacional taxes over an immutable bracket table
type SimplesCalculator struct {
	table               domain.BracketTable
	firstBracketCeiling decimal.Decimal
}

// NewSimplesCalculator creates a calculator backed by the compiled-in table
func NewSimplesCalculator() *SimplesCalculator {
	return &SimplesCalculator{
		table:               DefaultSimplesTable(),
		firstBracketCeiling: FirstBracketCeiling,
	}
}

// NewSimplesCalculatorWithTable creates a calculator from an externally loaded table.
// The table is validated and copied; later changes to the argument have no effect.
func NewSimplesCalculatorWithTable(table domain.BracketTable) (*SimplesCalculator, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	cp := table.Clone()

	// flat-rate threshold is the smallest first-bracket ceiling across annexes
	first := cp[domain.RegimeI][0].Ceiling
	for _, regime := range domain.Regimes() {
		if c := cp[regime][0].Ceiling; c.LessThan(first) {
			first = c
		}
	}
	return &SimplesCalculator{table: cp, firstBracketCeiling: first}, nil
}

// FirstBracketCeiling returns the RBT12 threshold of the flat nominal rate
func (sc *SimplesCalculator) FirstBracketCeiling() decimal.Decimal {
	return sc.firstBracketCeiling
}

// Brackets returns a copy of the brackets of one annex
func (sc *SimplesCalculator) Brackets(regime domain.Regime) ([]domain.Bracket, error) {
	brackets, ok := sc.table[regime]
	if !ok {
		return nil, &CalculationError{Operation: "brackets", Message: fmt.Sprintf("unknown regime %q", string(regime)), Cause: ErrInvalidRegime}
	}
	return domain.BracketTable{regime: brackets}.Clone()[regime], nil
}

// Table returns a deep copy of the whole bracket table
func (sc *SimplesCalculator) Table() domain.BracketTable {
	return sc.table.Clone()
}

// selectBracket returns the first bracket whose ceiling covers trailing revenue, or the
// last one as a catch-all. The returned index is zero-based.
func selectBracket(brackets []domain.Bracket, trailing decimal.Decimal) (domain.Bracket, int) {
	for i, b := range brackets {
		if trailing.LessThanOrEqual(b.Ceiling) {
			return b, i
		}
	}
	last := len(brackets) - 1
	return brackets[last], last
}

// ComputeProgressiveTax applies the Simples Nacional progressive formula.
//
// Effective rate is the bracket's nominal rate while RBT12 is within the first
// bracket, otherwise (RBT12 x nominal - deduction) / RBT12, clamped at zero.
// The relation between trailing and period revenue is not validated here.
func (sc *SimplesCalculator) ComputeProgressiveTax(trailingRevenue, periodRevenue decimal.Decimal, regime domain.Regime) (domain.TaxComputationResult, error) {
	brackets, ok := sc.table[regime]
	if !ok || !regime.Valid() {
		return domain.TaxComputationResult{}, &CalculationError{
			Operation: "compute_progressive_tax",
			Message:   fmt.Sprintf("unknown regime %q", string(regime)),
			Cause:     ErrInvalidRegime,
		}
	}
	if err := requireNonNegative("compute_progressive_tax",
		amount{"trailing revenue", trailingRevenue},
		amount{"period revenue", periodRevenue},
	); err != nil {
		return domain.TaxComputationResult{}, err
	}

	b, idx := selectBracket(brackets, trailingRevenue)

	var effectiveRate decimal.Decimal
	if trailingRevenue.LessThanOrEqual(sc.firstBracketCeiling) {
		effectiveRate = b.NominalRate
	} else {
		effectiveRate = trailingRevenue.Mul(b.NominalRate).Sub(b.Deduction).Div(trailingRevenue)
	}
	if effectiveRate.IsNegative() {
		effectiveRate = decimal.Zero
	}

	taxAmount := periodRevenue.Mul(effectiveRate)

	breakdown := domain.NewBreakdown()
	for sub, share := range b.Repartition {
		breakdown[sub] = taxAmount.Mul(share)
	}

	return domain.TaxComputationResult{
		EffectiveRate:  effectiveRate,
		NominalRate:    b.NominalRate,
		Deduction:      b.Deduction,
		BracketCeiling: b.Ceiling,
		BracketIndex:   idx + 1,
		AppliedRegime:  regime,
		TaxAmount:      taxAmount,
		Breakdown:      breakdown,
	}, nil
}

// EffectiveRate is a shortcut used by pricing: the rate does not depend on period revenue
func (sc *SimplesCalculator) EffectiveRate(trailingRevenue decimal.Decimal, regime domain.Regime) (decimal.Decimal, error) {
	res, err := sc.ComputeProgressiveTax(trailingRevenue, decimal.Zero, regime)
	if err != nil {
		return decimal.Zero, err
	}
	return res.EffectiveRate, nil
}
