package calculation

import (
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// SIMPLES NACIONAL REFERENCE DATA (LC 123/2006, Anexos I-V, values in force since 2018)
//
// Every constant below is legal reference data and must stay exactly as published.
// The sixth bracket of each annex carries a different repartition because ICMS/ISS
// leave the DAS above the R$ 3.6M sublimit.

// FirstBracketCeiling is the RBT12 threshold up to which the flat nominal rate applies
var FirstBracketCeiling = decimal.NewFromInt(180000)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rep(irpj, csll, cofins, pis, cpp string, extra map[domain.SubTax]string) domain.Repartition {
	r := domain.Repartition{
		domain.SubTaxIRPJ:   d(irpj),
		domain.SubTaxCSLL:   d(csll),
		domain.SubTaxCOFINS: d(cofins),
		domain.SubTaxPIS:    d(pis),
		domain.SubTaxCPP:    d(cpp),
	}
	for k, v := range extra {
		r[k] = d(v)
	}
	return r
}

func bracket(ceiling, nominal, deduction string, r domain.Repartition) domain.Bracket {
	return domain.Bracket{Ceiling: d(ceiling), NominalRate: d(nominal), Deduction: d(deduction), Repartition: r}
}

// DefaultSimplesTable builds a fresh copy of the compiled-in bracket table
func DefaultSimplesTable() domain.BracketTable {
	icms := func(v string) map[domain.SubTax]string { return map[domain.SubTax]string{domain.SubTaxICMS: v} }
	iss := func(v string) map[domain.SubTax]string { return map[domain.SubTax]string{domain.SubTaxISS: v} }
	icmsIPI := func(icmsV, ipiV string) map[domain.SubTax]string {
		return map[domain.SubTax]string{domain.SubTaxICMS: icmsV, domain.SubTaxIPI: ipiV}
	}

	return domain.BracketTable{
		domain.RegimeI: {
			bracket("180000", "0.04", "0", rep("0.055", "0.035", "0.1274", "0.0276", "0.415", icms("0.34"))),
			bracket("360000", "0.073", "5940", rep("0.055", "0.035", "0.1274", "0.0276", "0.415", icms("0.34"))),
			bracket("720000", "0.095", "13860", rep("0.055", "0.035", "0.1274", "0.0276", "0.415", icms("0.34"))),
			bracket("1800000", "0.107", "22500", rep("0.055", "0.035", "0.1274", "0.0276", "0.415", icms("0.34"))),
			bracket("3600000", "0.143", "87300", rep("0.055", "0.035", "0.1274", "0.0276", "0.415", icms("0.34"))),
			bracket("4800000", "0.19", "378000", rep("0.135", "0.10", "0.2827", "0.0613", "0.421", icms("0"))),
		},
		domain.RegimeII: {
			bracket("180000", "0.045", "0", rep("0.055", "0.035", "0.1151", "0.0249", "0.375", icmsIPI("0.32", "0.075"))),
			bracket("360000", "0.078", "5940", rep("0.055", "0.035", "0.1151", "0.0249", "0.375", icmsIPI("0.32", "0.075"))),
			bracket("720000", "0.10", "13860", rep("0.055", "0.035", "0.1151", "0.0249", "0.375", icmsIPI("0.32", "0.075"))),
			bracket("1800000", "0.112", "22500", rep("0.055", "0.035", "0.1151", "0.0249", "0.375", icmsIPI("0.32", "0.075"))),
			bracket("3600000", "0.147", "85500", rep("0.055", "0.035", "0.1151", "0.0249", "0.375", icmsIPI("0.32", "0.075"))),
			bracket("4800000", "0.30", "720000", rep("0.085", "0.075", "0.2096", "0.0454", "0.235", icmsIPI("0.25", "0.10"))),
		},
		domain.RegimeIII: {
			bracket("180000", "0.06", "0", rep("0.04", "0.035", "0.1282", "0.0278", "0.434", iss("0.335"))),
			bracket("360000", "0.112", "9360", rep("0.04", "0.035", "0.1405", "0.0305", "0.434", iss("0.32"))),
			bracket("720000", "0.135", "17640", rep("0.04", "0.035", "0.1364", "0.0296", "0.434", iss("0.325"))),
			bracket("1800000", "0.16", "35640", rep("0.04", "0.035", "0.1364", "0.0296", "0.434", iss("0.325"))),
			bracket("3600000", "0.21", "125640", rep("0.04", "0.035", "0.1282", "0.0278", "0.434", iss("0.335"))),
			bracket("4800000", "0.33", "648000", rep("0.35", "0.15", "0.3548", "0.0772", "0.068", iss("0"))),
		},
		domain.RegimeIV: {
			bracket("180000", "0.045", "0", rep("0.188", "0.152", "0.1767", "0.0383", "0", iss("0.445"))),
			bracket("360000", "0.09", "8100", rep("0.198", "0.152", "0.2055", "0.0445", "0", iss("0.40"))),
			bracket("720000", "0.102", "12420", rep("0.208", "0.152", "0.1973", "0.0427", "0", iss("0.40"))),
			bracket("1800000", "0.14", "39780", rep("0.178", "0.152", "0.2156", "0.0464", "0", iss("0.408"))),
			bracket("3600000", "0.22", "183780", rep("0.188", "0.152", "0.1767", "0.0383", "0", iss("0.445"))),
			bracket("4800000", "0.33", "828000", rep("0.535", "0.215", "0.2066", "0.0434", "0", iss("0"))),
		},
		domain.RegimeV: {
			bracket("180000", "0.155", "0", rep("0.25", "0.15", "0.141", "0.0305", "0.2885", iss("0.14"))),
			bracket("360000", "0.18", "4500", rep("0.23", "0.15", "0.141", "0.0305", "0.2785", iss("0.17"))),
			bracket("720000", "0.195", "9900", rep("0.24", "0.15", "0.1492", "0.0323", "0.2385", iss("0.19"))),
			bracket("1800000", "0.205", "17100", rep("0.25", "0.15", "0.141", "0.0305", "0.2385", iss("0.19"))),
			bracket("3600000", "0.23", "62100", rep("0.23", "0.125", "0.141", "0.0305", "0.2385", iss("0.235"))),
			bracket("4800000", "0.305", "540000", rep("0.25", "0.15", "0.3548", "0.0772", "0.168", iss("0"))),
		},
	}
}

// BracketsPerRegime is the fixed number of bands of every annex
const BracketsPerRegime = 6

// ValidateTable checks the structural invariants of a bracket table:
// all five annexes, six ascending brackets each, known sub-taxes, and
// repartitions that sum to one.
func ValidateTable(table domain.BracketTable) error {
	if len(table) != len(domain.Regimes()) {
		return &CalculationError{Operation: "validate_table", Message: "table must define exactly five regimes", Cause: ErrInvalidTable}
	}
	one := decimal.NewFromInt(1)
	tolerance := decimal.New(1, -9)
	for _, regime := range domain.Regimes() {
		brackets, ok := table[regime]
		if !ok {
			return &CalculationError{Operation: "validate_table", Message: "missing " + regime.String(), Cause: ErrInvalidTable}
		}
		if len(brackets) != BracketsPerRegime {
			return &CalculationError{Operation: "validate_table", Message: regime.String() + " must have six brackets", Cause: ErrInvalidTable}
		}
		prev := decimal.Zero
		for i, b := range brackets {
			if i > 0 && !b.Ceiling.GreaterThan(prev) {
				return &CalculationError{Operation: "validate_table", Message: regime.String() + " ceilings must be strictly ascending", Cause: ErrInvalidTable}
			}
			prev = b.Ceiling
			if b.NominalRate.IsNegative() || b.NominalRate.GreaterThan(one) || b.Deduction.IsNegative() {
				return &CalculationError{Operation: "validate_table", Message: regime.String() + " has an out-of-range rate or deduction", Cause: ErrInvalidTable}
			}
			for sub := range b.Repartition {
				if !sub.Valid() {
					return &CalculationError{Operation: "validate_table", Message: "unknown sub-tax " + string(sub), Cause: ErrInvalidTable}
				}
			}
			if b.Repartition.Sum().Sub(one).Abs().GreaterThan(tolerance) {
				return &CalculationError{Operation: "validate_table", Message: regime.String() + " repartition does not sum to 1", Cause: ErrInvalidTable}
			}
		}
	}
	return nil
}
