package ledger

import (
	"fmt"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

// PlannerPeriod is the horizon of the financial planner
type PlannerPeriod string

const (
	PlannerMonthly   PlannerPeriod = "monthly"
	PlannerQuarterly PlannerPeriod = "quarterly"
	PlannerAnnual    PlannerPeriod = "annual"
)

// ParsePlannerPeriod parses a planner horizon
func ParsePlannerPeriod(s string) (PlannerPeriod, error) {
	switch p := PlannerPeriod(s); p {
	case PlannerMonthly, PlannerQuarterly, PlannerAnnual:
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidPeriod, s)
}

// Multiplier is the number of months the horizon spans
func (p PlannerPeriod) Multiplier() int64 {
	switch p {
	case PlannerQuarterly:
		return 3
	case PlannerAnnual:
		return 12
	default:
		return 1
	}
}

// Bounds returns the half-open [from, to) interval of the horizon around a month.
// Quarterly snaps to the calendar quarter; annual covers the calendar year.
func (p PlannerPeriod) Bounds(year int, month time.Month, loc *time.Location) (from, to time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	switch p {
	case PlannerQuarterly:
		start := time.Month((int(month)-1)/3*3 + 1)
		from = time.Date(year, start, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 3, 0)
	case PlannerAnnual:
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0)
	default:
		from = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	}
}

// PeriodRevenue sums the inflows of the horizon containing the given month
func PeriodRevenue(txs []domain.Transaction, year int, month time.Month, period PlannerPeriod) decimal.Decimal {
	from, to := period.Bounds(year, month, time.UTC)
	return inflowsBetween(txs, from, to)
}

// TrailingRevenue is the RBT12 as of a reference month: the inflows of the
// twelve months before it, the reference month itself excluded.
func TrailingRevenue(txs []domain.Transaction, year int, month time.Month) decimal.Decimal {
	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return inflowsBetween(txs, ref.AddDate(0, -12, 0), ref)
}

// MonthlyRevenue returns the inflows of each calendar month of a year
func MonthlyRevenue(txs []domain.Transaction, year int) [12]decimal.Decimal {
	var out [12]decimal.Decimal
	for i := range out {
		out[i] = PeriodRevenue(txs, year, time.Month(i+1), PlannerMonthly)
	}
	return out
}
