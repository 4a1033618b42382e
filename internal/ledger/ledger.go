// Package ledger turns bookkeeping transactions into the inputs of the tax
// engines: filtered totals, period revenue and trailing revenue.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRange is returned when a date range ends before it starts
	ErrInvalidRange = errors.New("invalid date range")
	// ErrInvalidPeriod is returned for unknown reporting or planner periods
	ErrInvalidPeriod = errors.New("invalid period")
)

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day truncates t to midnight in its own location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NewDateRange normalizes both ends to calendar days
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("%w: %s is before %s", ErrInvalidRange,
			r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
	}
	return r, nil
}

// Contains reports whether t falls on a day inside the range
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Days counts the calendar days of the range, both ends included
func (r DateRange) Days() int {
	hours := math.Abs(Day(r.End).Sub(Day(r.Start)).Hours())
	return int(math.Ceil(hours/24)) + 1
}

// Window returns the date range a reporting period covers as of now.
// Weekly spans the last seven days plus today; custom uses the given range.
func Window(period calculation.PayrollPeriod, now time.Time, custom DateRange) (DateRange, error) {
	today := Day(now)
	switch period {
	case calculation.PayrollDaily:
		return DateRange{Start: today, End: today}, nil
	case calculation.PayrollWeekly:
		return DateRange{Start: today.AddDate(0, 0, -7), End: today}, nil
	case calculation.PayrollMonthly:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: first, End: first.AddDate(0, 1, -1)}, nil
	case calculation.PayrollAnnual:
		first := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: first, End: first.AddDate(1, 0, -1)}, nil
	case calculation.PayrollCustom:
		return NewDateRange(custom.Start, custom.End)
	}
	return DateRange{}, fmt.Errorf("%w %q", ErrInvalidPeriod, string(period))
}

// FilterByClient keeps the transactions tagged with one client. An empty
// clientID keeps everything.
func FilterByClient(txs []domain.Transaction, clientID string) []domain.Transaction {
	if clientID == "" {
		return txs
	}
	var out []domain.Transaction
	for _, tx := range txs {
		if tx.ClientID == clientID {
			out = append(out, tx)
		}
	}
	return out
}

// FilterEmployeesByClient applies the FilterByClient rule to a payroll
func FilterEmployeesByClient(employees []domain.Employee, clientID string) []domain.Employee {
	if clientID == "" {
		return employees
	}
	var out []domain.Employee
	for _, e := range employees {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out
}

// FilterByRange keeps the transactions dated inside r
func FilterByRange(txs []domain.Transaction, r DateRange) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range txs {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// Totals are the money-in and money-out sums of a set of transactions
type Totals struct {
	Inflows  decimal.Decimal `json:"inflows"`
	Outflows decimal.Decimal `json:"outflows"`
}

// Sum adds up inflows and outflows. Amounts are magnitudes; a negative
// amount is rejected.
func Sum(txs []domain.Transaction) (Totals, error) {
	t := Totals{Inflows: decimal.Zero, Outflows: decimal.Zero}
	for i, tx := range txs {
		if tx.Amount.IsNegative() {
			return Totals{}, fmt.Errorf("transaction %d: %w", i, calculation.ErrNegativeAmount)
		}
		switch tx.Direction {
		case domain.DirectionInflow:
			t.Inflows = t.Inflows.Add(tx.Amount)
		case domain.DirectionOutflow:
			t.Outflows = t.Outflows.Add(tx.Amount)
		default:
			return Totals{}, fmt.Errorf("transaction %d: %w: %q", i, domain.ErrInvalidDirection, string(tx.Direction))
		}
	}
	return t, nil
}

// ExemptRevenue sums the inflows whose category is outside the PIS/COFINS base
func ExemptRevenue(txs []domain.Transaction, rules domain.TaxRuleConfiguration) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.IsInflow() && rules.IsPisCofinsExempt(tx.Category) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

func inflowsBetween(txs []domain.Transaction, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if !tx.IsInflow() {
			continue
		}
		if !tx.Date.Before(from) && tx.Date.Before(to) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
