package domain

import (
	"github.com/shopspring/decimal"
)

// SubTax identifies one of the legally distinct taxes collected inside a single payment
type SubTax string

const (
	SubTaxIRPJ   SubTax = "irpj"
	SubTaxCSLL   SubTax = "csll"
	SubTaxCOFINS SubTax = "cofins"
	SubTaxPIS    SubTax = "pis"
	SubTaxCPP    SubTax = "cpp"
	SubTaxICMS   SubTax = "icms"
	SubTaxISS    SubTax = "iss"
	SubTaxIPI    SubTax = "ipi"
)

// SubTaxes returns every sub-tax in reporting order
func SubTaxes() []SubTax {
	return []SubTax{SubTaxIRPJ, SubTaxCSLL, SubTaxCOFINS, SubTaxPIS, SubTaxCPP, SubTaxICMS, SubTaxISS, SubTaxIPI}
}

// Valid reports whether s is a known sub-tax
func (s SubTax) Valid() bool {
	for _, known := range SubTaxes() {
		if s == known {
			return true
		}
	}
	return false
}

// Repartition maps each sub-tax to its share of the total computed tax
type Repartition map[SubTax]decimal.Decimal

// Sum adds every proportion in the repartition
func (r Repartition) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r {
		total = total.Add(p)
	}
	return total
}

// Breakdown maps every sub-tax to a monetary amount. Inapplicable sub-taxes are present with zero.
type Breakdown map[SubTax]decimal.Decimal

// NewBreakdown returns a breakdown with every sub-tax key set to zero
func NewBreakdown() Breakdown {
	b := make(Breakdown, len(SubTaxes()))
	for _, s := range SubTaxes() {
		b[s] = decimal.Zero
	}
	return b
}

// Total sums all sub-tax amounts
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Get returns the amount for s, zero when absent
func (b Breakdown) Get(s SubTax) decimal.Decimal {
	if v, ok := b[s]; ok {
		return v
	}
	return decimal.Zero
}

// BreakdownEntry is one ordered line of a breakdown, used by formatters
type BreakdownEntry struct {
	SubTax SubTax          `json:"sub_tax"`
	Amount decimal.Decimal `json:"amount"`
}

// Entries returns the breakdown in reporting order
func (b Breakdown) Entries() []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(SubTaxes()))
	for _, s := range SubTaxes() {
		entries = append(entries, BreakdownEntry{SubTax: s, Amount: b.Get(s)})
	}
	return entries
}
