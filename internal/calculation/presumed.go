package calculation

import (
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// PresumedProfitRates holds the Lucro Presumido coefficients and rates
type PresumedProfitRates struct {
	IRPJPresumptionService  decimal.Decimal
	CSLLPresumptionService  decimal.Decimal
	IRPJPresumptionCommerce decimal.Decimal
	CSLLPresumptionCommerce decimal.Decimal
	IRPJRate                decimal.Decimal
	IRPJSurtaxRate          decimal.Decimal
	IRPJSurtaxThreshold     decimal.Decimal // monthly
	CSLLRate                decimal.Decimal
	PISRate                 decimal.Decimal // cumulative
	COFINSRate              decimal.Decimal // cumulative
	ISSRate                 decimal.Decimal // comparison estimate
	ICMSRate                decimal.Decimal // comparison estimate
}

// DefaultPresumedProfitRates returns the rates used by the consultancy comparison
func DefaultPresumedProfitRates() PresumedProfitRates {
	return PresumedProfitRates{
		IRPJPresumptionService:  decimal.NewFromFloat(0.32),
		CSLLPresumptionService:  decimal.NewFromFloat(0.32),
		IRPJPresumptionCommerce: decimal.NewFromFloat(0.08),
		CSLLPresumptionCommerce: decimal.NewFromFloat(0.12),
		IRPJRate:                decimal.NewFromFloat(0.15),
		IRPJSurtaxRate:          decimal.NewFromFloat(0.10),
		IRPJSurtaxThreshold:     decimal.NewFromInt(20000),
		CSLLRate:                decimal.NewFromFloat(0.09),
		PISRate:                 decimal.NewFromFloat(0.0065),
		COFINSRate:              decimal.NewFromFloat(0.03),
		ISSRate:                 decimal.NewFromFloat(0.05),
		ICMSRate:                decimal.NewFromFloat(0.18),
	}
}

// PresumedProfitCalculator estimates Lucro Presumido taxes for comparison against Simples
type PresumedProfitCalculator struct {
	Rates PresumedProfitRates
}

// NewPresumedProfitCalculator creates a calculator with the default rates
func NewPresumedProfitCalculator() *PresumedProfitCalculator {
	return &PresumedProfitCalculator{Rates: DefaultPresumedProfitRates()}
}

// presumptions returns the IRPJ and CSLL presumption coefficients of an activity.
// Industry follows the commerce coefficients.
func (pc *PresumedProfitCalculator) presumptions(activity domain.ActivityType) (irpj, csll decimal.Decimal) {
	if activity == domain.ActivityService {
		return pc.Rates.IRPJPresumptionService, pc.Rates.CSLLPresumptionService
	}
	return pc.Rates.IRPJPresumptionCommerce, pc.Rates.CSLLPresumptionCommerce
}

// irpjOn applies 15% plus the 10% surtax over the monthly threshold
func (pc *PresumedProfitCalculator) irpjOn(base decimal.Decimal) decimal.Decimal {
	irpj := base.Mul(pc.Rates.IRPJRate)
	if base.GreaterThan(pc.Rates.IRPJSurtaxThreshold) {
		irpj = irpj.Add(base.Sub(pc.Rates.IRPJSurtaxThreshold).Mul(pc.Rates.IRPJSurtaxRate))
	}
	return irpj
}

// ComputePresumedProfit estimates the monthly Lucro Presumido taxes of a single activity.
// Payroll does not enter the presumed-profit bases; it is accepted for interface parity.
func (pc *PresumedProfitCalculator) ComputePresumedProfit(periodRevenue, payrollLast12Months decimal.Decimal, activity domain.ActivityType) (domain.PresumedProfitResult, error) {
	if !activity.Valid() {
		return domain.PresumedProfitResult{}, &CalculationError{
			Operation: "compute_presumed_profit",
			Message:   fmt.Sprintf("unknown activity %q", string(activity)),
			Cause:     ErrInvalidActivity,
		}
	}
	if err := requireNonNegative("compute_presumed_profit",
		amount{"period revenue", periodRevenue},
		amount{"payroll", payrollLast12Months},
	); err != nil {
		return domain.PresumedProfitResult{}, err
	}

	irpjPresumption, csllPresumption := pc.presumptions(activity)

	res := domain.PresumedProfitResult{
		IRPJ:   pc.irpjOn(periodRevenue.Mul(irpjPresumption)),
		CSLL:   periodRevenue.Mul(csllPresumption).Mul(pc.Rates.CSLLRate),
		PIS:    periodRevenue.Mul(pc.Rates.PISRate),
		COFINS: periodRevenue.Mul(pc.Rates.COFINSRate),
		ISS:    decimal.Zero,
		ICMS:   decimal.Zero,
	}
	if activity == domain.ActivityService {
		res.ISS = periodRevenue.Mul(pc.Rates.ISSRate)
	} else {
		res.ICMS = periodRevenue.Mul(pc.Rates.ICMSRate)
	}
	res.Total = res.IRPJ.Add(res.CSLL).Add(res.PIS).Add(res.COFINS).Add(res.ISS).Add(res.ICMS)
	return res, nil
}

// ComputePresumedProfitAdvanced estimates Lucro Presumido over a month of transactions.
//
// Only inflows count. IRPJ/CSLL bases cover the entire gross split by activity;
// the PIS/COFINS exemption configured by the administrator narrows only the
// PIS/COFINS base. ISS applies to service gross and ICMS to commerce/industry gross.
// The transaction slice is never modified.
func (pc *PresumedProfitCalculator) ComputePresumedProfitAdvanced(transactions []domain.Transaction, rules domain.TaxRuleConfiguration) (domain.AdvancedPresumedProfitResult, error) {
	commerceGross := decimal.Zero
	serviceGross := decimal.Zero
	exempt := decimal.Zero

	for i := range transactions {
		tx := &transactions[i]
		if !tx.IsInflow() {
			continue
		}
		if tx.Amount.IsNegative() {
			return domain.AdvancedPresumedProfitResult{}, &CalculationError{
				Operation: "compute_presumed_profit_advanced",
				Message:   fmt.Sprintf("transaction %d amount cannot be negative", i),
				Cause:     ErrNegativeAmount,
			}
		}
		switch tx.Activity {
		case domain.ActivityService:
			serviceGross = serviceGross.Add(tx.Amount)
		case domain.ActivityCommerce, domain.ActivityIndustry:
			commerceGross = commerceGross.Add(tx.Amount)
		default:
			return domain.AdvancedPresumedProfitResult{}, &CalculationError{
				Operation: "compute_presumed_profit_advanced",
				Message:   fmt.Sprintf("transaction %d has unknown activity %q", i, string(tx.Activity)),
				Cause:     ErrInvalidActivity,
			}
		}
		if rules.IsPisCofinsExempt(tx.Category) {
			exempt = exempt.Add(tx.Amount)
		}
	}

	totalGross := commerceGross.Add(serviceGross)
	pisCofinsBase := totalGross.Sub(exempt)

	irpjBase := commerceGross.Mul(pc.Rates.IRPJPresumptionCommerce).Add(serviceGross.Mul(pc.Rates.IRPJPresumptionService))
	csllBase := commerceGross.Mul(pc.Rates.CSLLPresumptionCommerce).Add(serviceGross.Mul(pc.Rates.CSLLPresumptionService))

	base := domain.PresumedProfitResult{
		IRPJ:   pc.irpjOn(irpjBase),
		CSLL:   csllBase.Mul(pc.Rates.CSLLRate),
		PIS:    pisCofinsBase.Mul(pc.Rates.PISRate),
		COFINS: pisCofinsBase.Mul(pc.Rates.COFINSRate),
		ISS:    serviceGross.Mul(pc.Rates.ISSRate),
		ICMS:   commerceGross.Mul(pc.Rates.ICMSRate),
	}
	base.Total = base.IRPJ.Add(base.CSLL).Add(base.PIS).Add(base.COFINS).Add(base.ISS).Add(base.ICMS)

	effectiveRate := decimal.Zero
	if totalGross.IsPositive() {
		effectiveRate = base.Total.Div(totalGross)
	}

	return domain.AdvancedPresumedProfitResult{
		PresumedProfitResult: base,
		EffectiveRate:        effectiveRate,
		TotalGross:           totalGross,
		CommerceGross:        commerceGross,
		ServiceGross:         serviceGross,
		ExemptAmount:         exempt,
	}, nil
}
