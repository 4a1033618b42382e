package domain

import (
	"github.com/shopspring/decimal"
)

// PricingStatus classifies a proposed price against the minimum viable price
type PricingStatus string

const (
	StatusBreakEvenOrAbove PricingStatus = "break_even_or_above"
	StatusLoss             PricingStatus = "loss"
)

// Label returns the Portuguese label shown on reports
func (s PricingStatus) Label() string {
	if s == StatusBreakEvenOrAbove {
		return "Viable price"
	}
	return "Operating at a loss"
}

// DefaultRegimeAdjustments holds the extra rate load added on top of the DAS
// for annexes whose employer social-security contribution is collected outside it.
func DefaultRegimeAdjustments() map[Regime]decimal.Decimal {
	return map[Regime]decimal.Decimal{RegimeIV: decimal.RequireFromString("0.045")}
}
