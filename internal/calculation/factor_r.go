package calculation

import (
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// FactorRThreshold is the payroll/revenue ratio from which services move to Anexo III
var FactorRThreshold = decimal.NewFromFloat(0.28)

// FactorR returns payroll12 / rbt12, or zero when there is no trailing revenue
func FactorR(trailingRevenue, payrollLast12Months decimal.Decimal) decimal.Decimal {
	if !trailingRevenue.IsPositive() {
		return decimal.Zero
	}
	return payrollLast12Months.Div(trailingRevenue)
}

// IsFactorREligible reports whether an annex takes part in the III/V switch
func IsFactorREligible(regime domain.Regime) bool {
	return regime == domain.RegimeIII || regime == domain.RegimeV
}

// ResolveFactorRRegime selects Anexo III when Factor R >= 28%, Anexo V otherwise
func ResolveFactorRRegime(trailingRevenue, payrollLast12Months decimal.Decimal) domain.Regime {
	if FactorR(trailingRevenue, payrollLast12Months).GreaterThanOrEqual(FactorRThreshold) {
		return domain.RegimeIII
	}
	return domain.RegimeV
}

// ResolveRegime picks the annex actually applied to a company. Factor R only
// overrides the selection for service activities filed under III or V.
func ResolveRegime(activity domain.ActivityType, selected domain.Regime, trailingRevenue, payrollLast12Months decimal.Decimal) (domain.Regime, error) {
	if !selected.Valid() {
		return "", &CalculationError{Operation: "resolve_regime", Message: fmt.Sprintf("unknown regime %q", string(selected)), Cause: ErrInvalidRegime}
	}
	if !activity.Valid() {
		return "", &CalculationError{Operation: "resolve_regime", Message: fmt.Sprintf("unknown activity %q", string(activity)), Cause: ErrInvalidActivity}
	}
	if activity == domain.ActivityService && IsFactorREligible(selected) {
		return ResolveFactorRRegime(trailingRevenue, payrollLast12Months), nil
	}
	return selected, nil
}

// NewFactorRAlert builds the informative hint shown to service companies
func NewFactorRAlert(trailingRevenue, payrollLast12Months decimal.Decimal) domain.FactorRAlert {
	value := FactorR(trailingRevenue, payrollLast12Months)
	high := value.GreaterThanOrEqual(FactorRThreshold)
	alert := domain.FactorRAlert{Value: value, IsHigh: high}
	if high {
		alert.SuggestedRegime = domain.RegimeIII
		alert.Message = "Factor R >= 28%: Anexo III may be cheaper."
	} else {
		alert.SuggestedRegime = domain.RegimeV
		alert.Message = "Factor R < 28%: Anexo V may apply."
	}
	return alert
}
