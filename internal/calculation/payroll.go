package calculation

import (
	"fmt"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// PayrollPeriod selects how much of the monthly employer cost falls into a reporting window
type PayrollPeriod string

const (
	PayrollDaily   PayrollPeriod = "daily"
	PayrollWeekly  PayrollPeriod = "weekly"
	PayrollMonthly PayrollPeriod = "monthly"
	PayrollAnnual  PayrollPeriod = "annual"
	PayrollCustom  PayrollPeriod = "custom"
)

// ParsePayrollPeriod parses a period name
func ParsePayrollPeriod(s string) (PayrollPeriod, error) {
	switch p := PayrollPeriod(s); p {
	case PayrollDaily, PayrollWeekly, PayrollMonthly, PayrollAnnual, PayrollCustom:
		return p, nil
	}
	return "", fmt.Errorf("unknown payroll period %q", s)
}

// PayrollCalculator computes CLT employer provisions over monthly salaries
type PayrollCalculator struct {
	FGTSRate          decimal.Decimal
	MonthsPerYear     decimal.Decimal
	VacationFactor    decimal.Decimal // 1/12 plus the constitutional third
	DaysPerMonthBasis decimal.Decimal
}

// NewPayrollCalculator creates a calculator with the statutory defaults
func NewPayrollCalculator() *PayrollCalculator {
	return &PayrollCalculator{
		FGTSRate:          decimal.NewFromFloat(0.08),
		MonthsPerYear:     decimal.NewFromInt(12),
		VacationFactor:    decimal.RequireFromString("1.3333"),
		DaysPerMonthBasis: decimal.NewFromInt(30),
	}
}

// ComputeProvisions returns the monthly provisions an employer books for one salary
func (pc *PayrollCalculator) ComputeProvisions(salary decimal.Decimal) (domain.PayrollProvisions, error) {
	if err := requireNonNegative("compute_provisions", amount{"salary", salary}); err != nil {
		return domain.PayrollProvisions{}, err
	}

	fgts := salary.Mul(pc.FGTSRate)
	thirteenth := salary.Div(pc.MonthsPerYear)
	vacations := salary.Div(pc.MonthsPerYear).Mul(pc.VacationFactor)
	total := fgts.Add(thirteenth).Add(vacations)

	return domain.PayrollProvisions{
		FGTS:               fgts,
		Provision13th:      thirteenth,
		ProvisionVacations: vacations,
		TotalProvisions:    total,
		TotalEmployerCost:  salary.Add(total),
	}, nil
}

// MonthlyEmployerCost sums salary plus provisions across employees
func (pc *PayrollCalculator) MonthlyEmployerCost(employees []domain.Employee) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range employees {
		p, err := pc.ComputeProvisions(e.Salary)
		if err != nil {
			return decimal.Zero, fmt.Errorf("employee %q: %w", e.Name, err)
		}
		total = total.Add(p.TotalEmployerCost)
	}
	return total, nil
}

// ForPeriod scales a monthly employer cost to the reporting period.
// customDays is only read for PayrollCustom.
func (pc *PayrollCalculator) ForPeriod(monthlyCost decimal.Decimal, period PayrollPeriod, customDays int) (decimal.Decimal, error) {
	daily := monthlyCost.Div(pc.DaysPerMonthBasis)
	switch period {
	case PayrollDaily:
		return daily, nil
	case PayrollWeekly:
		return daily.Mul(decimal.NewFromInt(7)), nil
	case PayrollMonthly:
		return monthlyCost, nil
	case PayrollAnnual:
		return monthlyCost.Mul(pc.MonthsPerYear), nil
	case PayrollCustom:
		if customDays < 0 {
			return decimal.Zero, &CalculationError{Operation: "payroll_for_period", Message: "custom day count cannot be negative", Cause: ErrNegativeAmount}
		}
		return daily.Mul(decimal.NewFromInt(int64(customDays))), nil
	}
	return decimal.Zero, &CalculationError{Operation: "payroll_for_period", Message: fmt.Sprintf("unknown payroll period %q", string(period))}
}
