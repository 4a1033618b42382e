package domain

import (
	"github.com/shopspring/decimal"
)

// TaxComputationResult is the outcome of one Simples Nacional computation.
// It is produced fresh per call and never mutated afterwards.
type TaxComputationResult struct {
	EffectiveRate  decimal.Decimal `json:"effective_rate"`
	NominalRate    decimal.Decimal `json:"nominal_rate"`
	Deduction      decimal.Decimal `json:"deduction"`
	BracketCeiling decimal.Decimal `json:"bracket_ceiling"`
	BracketIndex   int             `json:"bracket_index"` // 1-based
	AppliedRegime  Regime          `json:"applied_regime"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Breakdown      Breakdown       `json:"breakdown"`
}

// PresumedProfitResult holds the per-tax amounts of a Lucro Presumido estimate
type PresumedProfitResult struct {
	IRPJ   decimal.Decimal `json:"irpj"`
	CSLL   decimal.Decimal `json:"csll"`
	PIS    decimal.Decimal `json:"pis"`
	COFINS decimal.Decimal `json:"cofins"`
	ISS    decimal.Decimal `json:"iss"`
	ICMS   decimal.Decimal `json:"icms"`
	Total  decimal.Decimal `json:"total"`
}

// Breakdown returns the estimate in the same shape as a Simples breakdown
func (p PresumedProfitResult) Breakdown() Breakdown {
	b := NewBreakdown()
	b[SubTaxIRPJ] = p.IRPJ
	b[SubTaxCSLL] = p.CSLL
	b[SubTaxPIS] = p.PIS
	b[SubTaxCOFINS] = p.COFINS
	b[SubTaxISS] = p.ISS
	b[SubTaxICMS] = p.ICMS
	return b
}

// AdvancedPresumedProfitResult adds the bases derived from a transaction list
type AdvancedPresumedProfitResult struct {
	PresumedProfitResult
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	CommerceGross decimal.Decimal `json:"commerce_gross"`
	ServiceGross  decimal.Decimal `json:"service_gross"`
	ExemptAmount  decimal.Decimal `json:"exempt_amount"` // outside the PIS/COFINS base
}

// PayrollProvisions are the monthly employer charges provisioned on top of a salary
type PayrollProvisions struct {
	FGTS               decimal.Decimal `json:"fgts"`
	Provision13th      decimal.Decimal `json:"provision_13th"`
	ProvisionVacations decimal.Decimal `json:"provision_vacations"`
	TotalProvisions    decimal.Decimal `json:"total_provisions"`
	TotalEmployerCost  decimal.Decimal `json:"total_employer_cost"`
}

// FactorRAlert is the informative Factor R hint shown next to service pricing
type FactorRAlert struct {
	Value           decimal.Decimal `json:"value"`
	IsHigh          bool            `json:"is_high"`
	SuggestedRegime Regime          `json:"suggested_regime"`
	Message         string          `json:"message"`
}
