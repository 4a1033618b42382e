package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedAggregator() *Aggregator {
	a := NewAggregator(calculation.NewCalculationEngine())
	a.Now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	return a
}

// monthlyCost of one 1200 salary: 1200 + 96 + 100 + 133.33
var monthlyCost = decimal.RequireFromString("1529.33")

func indicatorsRequest(period calculation.PayrollPeriod) IndicatorsRequest {
	return IndicatorsRequest{
		ClientID:     "c1",
		Period:       period,
		Regime:       domain.RegimeIII,
		Transactions: ledgerFixture(),
		Employees: []domain.Employee{
			{Name: "Ana", ClientID: "c1", Salary: decimal.NewFromInt(1200)},
			{Name: "Bruno", ClientID: "other", Salary: decimal.NewFromInt(9000)},
		},
	}
}

func TestAggregator_Indicators_Monthly(t *testing.T) {
	a := fixedAggregator()

	ind, err := a.Indicators(context.Background(), indicatorsRequest(calculation.PayrollMonthly))
	require.NoError(t, err)

	assert.True(t, ind.TotalInflows.Equal(decimal.NewFromInt(15000)), "inflows %s", ind.TotalInflows)
	assert.True(t, ind.ManualOutflows.Equal(decimal.NewFromInt(2000)), "outflows %s", ind.ManualOutflows)
	assert.True(t, ind.PeriodPayroll.Equal(monthlyCost), "payroll %s", ind.PeriodPayroll)

	// RBT12 defaults to 180000, Anexo III flat 6%
	assert.True(t, ind.DAS.Equal(decimal.NewFromInt(900)), "das %s", ind.DAS)
	assert.True(t, ind.TotalOutflows.Equal(decimal.RequireFromString("4429.33")), "total out %s", ind.TotalOutflows)
	assert.True(t, ind.NetProfit.Equal(decimal.RequireFromString("10570.67")), "net %s", ind.NetProfit)

	expectedROI := ind.NetProfit.Div(ind.TotalOutflows).Mul(decimal.NewFromInt(100))
	assert.True(t, ind.ROI.Equal(expectedROI), "roi %s", ind.ROI)
}

func TestAggregator_Indicators_Daily(t *testing.T) {
	a := fixedAggregator()

	ind, err := a.Indicators(context.Background(), indicatorsRequest(calculation.PayrollDaily))
	require.NoError(t, err)

	assert.True(t, ind.TotalInflows.IsZero())
	assert.True(t, ind.DAS.IsZero())
	assert.True(t, ind.PeriodPayroll.Equal(monthlyCost.Div(decimal.NewFromInt(30))))
	assert.True(t, ind.ROI.Equal(decimal.NewFromInt(-100)), "roi %s", ind.ROI)
}

func TestAggregator_Indicators_Weekly(t *testing.T) {
	a := fixedAggregator()

	ind, err := a.Indicators(context.Background(), indicatorsRequest(calculation.PayrollWeekly))
	require.NoError(t, err)

	assert.True(t, ind.TotalInflows.Equal(decimal.NewFromInt(5000)))
	assert.True(t, ind.ManualOutflows.Equal(decimal.NewFromInt(2000)))
	assert.True(t, ind.PeriodPayroll.Equal(monthlyCost.Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(7))))
}

func TestAggregator_Indicators_Custom(t *testing.T) {
	a := fixedAggregator()

	req := indicatorsRequest(calculation.PayrollCustom)
	req.Custom = DateRange{Start: date(2025, 3, 1), End: date(2025, 3, 10)}
	req.TrailingRevenue = decimal.NewFromInt(3000000)
	req.Regime = domain.RegimeV

	ind, err := a.Indicators(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 10, ind.Range.Days())
	assert.True(t, ind.TotalInflows.Equal(decimal.NewFromInt(10000)))
	assert.True(t, ind.ManualOutflows.Equal(decimal.NewFromInt(2000)), "end day is included")
	assert.True(t, ind.PeriodPayroll.Equal(monthlyCost.Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(10))))
	assert.True(t, ind.DAS.Equal(decimal.NewFromInt(2093)), "das %s", ind.DAS)

	req.Custom = DateRange{Start: date(2025, 3, 10), End: date(2025, 3, 1)}
	_, err = a.Indicators(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestAggregator_Indicators_NothingOut(t *testing.T) {
	a := fixedAggregator()

	ind, err := a.Indicators(context.Background(), IndicatorsRequest{Period: calculation.PayrollDaily})
	require.NoError(t, err)

	assert.True(t, ind.TotalOutflows.IsZero())
	assert.True(t, ind.ROI.IsZero(), "roi is zero when nothing went out")
}

func TestAggregator_Indicators_Errors(t *testing.T) {
	a := fixedAggregator()

	req := indicatorsRequest(calculation.PayrollMonthly)
	req.Regime = "VII"
	_, err := a.Indicators(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidRegime))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Indicators(ctx, indicatorsRequest(calculation.PayrollMonthly))
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = (&Aggregator{}).Indicators(context.Background(), indicatorsRequest(calculation.PayrollMonthly))
	assert.Error(t, err)
}

func TestAggregator_IndicatorsForCompany(t *testing.T) {
	a := fixedAggregator()

	cfg := &domain.Configuration{
		Client: domain.Client{
			ID:            "c1",
			Regime:        domain.RegimeI,
			AnnualRevenue: decimal.NewFromInt(180000),
		},
		Transactions: ledgerFixture(),
	}

	ind, err := a.IndicatorsForCompany(context.Background(), cfg, calculation.PayrollMonthly, DateRange{})
	require.NoError(t, err)
	assert.True(t, ind.DAS.Equal(decimal.NewFromInt(600)), "Anexo I 4%% of 15000, got %s", ind.DAS)

	_, err = a.IndicatorsForCompany(context.Background(), nil, calculation.PayrollMonthly, DateRange{})
	assert.Error(t, err)
}

func TestAggregator_Plan(t *testing.T) {
	a := fixedAggregator()

	tests := []struct {
		name      string
		period    PlannerPeriod
		revenue   int64
		tax       int64
		fixed     int64
		variable  int64
		netProfit int64
	}{
		{"monthly", PlannerMonthly, 15000, 900, 10000, 5000, -900},
		{"quarterly", PlannerQuarterly, 23000, 1380, 30000, 15000, -23380},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := a.Plan(context.Background(), PlannerRequest{
				ClientID:             "c1",
				Year:                 2025,
				Month:                time.March,
				Period:               tt.period,
				Regime:               domain.RegimeIII,
				FixedCostsMonthly:    decimal.NewFromInt(10000),
				VariableCostsMonthly: decimal.NewFromInt(5000),
				Transactions:         ledgerFixture(),
			})
			require.NoError(t, err)

			assert.True(t, s.TrailingRevenue.Equal(decimal.NewFromInt(35000)), "rbt12 %s", s.TrailingRevenue)
			assert.True(t, s.Revenue.Equal(decimal.NewFromInt(tt.revenue)), "revenue %s", s.Revenue)
			assert.True(t, s.TotalTaxes.Equal(decimal.NewFromInt(tt.tax)), "tax %s", s.TotalTaxes)
			assert.True(t, s.TotalFixed.Equal(decimal.NewFromInt(tt.fixed)))
			assert.True(t, s.TotalVariable.Equal(decimal.NewFromInt(tt.variable)))
			assert.True(t, s.NetProfit.Equal(decimal.NewFromInt(tt.netProfit)), "net %s", s.NetProfit)

			expectedMargin := decimal.NewFromInt(tt.netProfit).Div(decimal.NewFromInt(tt.revenue)).Mul(decimal.NewFromInt(100))
			assert.True(t, s.MarginPct.Equal(expectedMargin), "margin %s", s.MarginPct)
		})
	}
}

func TestAggregator_Plan_EmptyHorizon(t *testing.T) {
	a := fixedAggregator()

	s, err := a.Plan(context.Background(), PlannerRequest{Year: 2030, Month: time.January})
	require.NoError(t, err)

	assert.Equal(t, PlannerMonthly, s.Period)
	assert.True(t, s.Revenue.IsZero())
	assert.True(t, s.MarginPct.IsZero(), "margin is zero without revenue")
}

func TestAggregator_Plan_Errors(t *testing.T) {
	a := fixedAggregator()

	_, err := a.Plan(context.Background(), PlannerRequest{Year: 2025, Month: 13})
	assert.True(t, errors.Is(err, ErrInvalidPeriod))

	_, err = a.Plan(context.Background(), PlannerRequest{Year: 2025, Month: time.March, Period: "weekly"})
	assert.True(t, errors.Is(err, ErrInvalidPeriod))

	_, err = a.Plan(context.Background(), PlannerRequest{Year: 2025, Month: time.March, FixedCostsMonthly: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, calculation.ErrNegativeAmount))

	_, err = a.Plan(context.Background(), PlannerRequest{Year: 2025, Month: time.March, Regime: "X"})
	assert.True(t, errors.Is(err, domain.ErrInvalidRegime))
}
