package calculation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tolerance = decimal.New(1, -6)

func assertDecimalNear(t *testing.T, expected, actual decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, expected.Sub(actual).Abs().LessThanOrEqual(tolerance),
		"%s: expected %s, got %s", label, expected.String(), actual.String())
}

func TestComputeProgressiveTax_ServicesExample(t *testing.T) {
	calc := NewSimplesCalculator()

	res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(200000), decimal.NewFromInt(20000), domain.RegimeIII)
	require.NoError(t, err)

	assert.Equal(t, 2, res.BracketIndex)
	assert.True(t, res.BracketCeiling.Equal(decimal.NewFromInt(360000)))
	assert.True(t, res.NominalRate.Equal(decimal.RequireFromString("0.112")))
	assert.True(t, res.Deduction.Equal(decimal.NewFromInt(9360)))
	assert.True(t, res.EffectiveRate.Equal(decimal.RequireFromString("0.0652")), "got %s", res.EffectiveRate)
	assert.True(t, res.TaxAmount.Equal(decimal.NewFromInt(1304)), "got %s", res.TaxAmount)
	assert.Equal(t, domain.RegimeIII, res.AppliedRegime)
}

func TestComputeProgressiveTax_FlatRateFloor(t *testing.T) {
	calc := NewSimplesCalculator()
	table := DefaultSimplesTable()

	for _, regime := range domain.Regimes() {
		for _, trailing := range []int64{0, 1, 90000, 179999, 180000} {
			res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(trailing), decimal.NewFromInt(10000), regime)
			require.NoError(t, err)
			assert.True(t, res.EffectiveRate.Equal(table[regime][0].NominalRate),
				"%s at %d: expected %s, got %s", regime, trailing, table[regime][0].NominalRate, res.EffectiveRate)
			assert.Equal(t, 1, res.BracketIndex)
		}
	}
}

func TestComputeProgressiveTax_CatchAllBracket(t *testing.T) {
	calc := NewSimplesCalculator()
	table := DefaultSimplesTable()

	for _, regime := range domain.Regimes() {
		res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(25000000), decimal.NewFromInt(50000), regime)
		require.NoError(t, err, "regime %s", regime)

		last := table[regime][BracketsPerRegime-1]
		assert.Equal(t, BracketsPerRegime, res.BracketIndex)
		assert.True(t, res.NominalRate.Equal(last.NominalRate))
		assert.True(t, res.Deduction.Equal(last.Deduction))
		assert.True(t, res.EffectiveRate.IsPositive())
	}
}

func TestComputeProgressiveTax_BracketBoundaryIsInclusive(t *testing.T) {
	calc := NewSimplesCalculator()

	atCeiling, err := calc.ComputeProgressiveTax(decimal.NewFromInt(360000), decimal.Zero, domain.RegimeI)
	require.NoError(t, err)
	assert.Equal(t, 2, atCeiling.BracketIndex)

	above, err := calc.ComputeProgressiveTax(decimal.RequireFromString("360000.01"), decimal.Zero, domain.RegimeI)
	require.NoError(t, err)
	assert.Equal(t, 3, above.BracketIndex)
}

func TestComputeProgressiveTax_BreakdownReconciles(t *testing.T) {
	calc := NewSimplesCalculator()
	trailings := []int64{50000, 180000, 250000, 500000, 1000000, 2500000, 3600000, 4000000, 9000000}

	for _, regime := range domain.Regimes() {
		for _, trailing := range trailings {
			res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(trailing), decimal.RequireFromString("37512.77"), regime)
			require.NoError(t, err)

			assert.Len(t, res.Breakdown, len(domain.SubTaxes()), "every sub-tax key is present")
			assertDecimalNear(t, res.TaxAmount, res.Breakdown.Total(), fmt.Sprintf("%s at %d", regime, trailing))
		}
	}
}

func TestComputeProgressiveTax_InapplicableSubTaxesAreZero(t *testing.T) {
	calc := NewSimplesCalculator()

	res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(500000), decimal.NewFromInt(10000), domain.RegimeIII)
	require.NoError(t, err)

	assert.True(t, res.Breakdown.Get(domain.SubTaxICMS).IsZero())
	assert.True(t, res.Breakdown.Get(domain.SubTaxIPI).IsZero())
	assert.True(t, res.Breakdown.Get(domain.SubTaxISS).IsPositive())

	res, err = calc.ComputeProgressiveTax(decimal.NewFromInt(500000), decimal.NewFromInt(10000), domain.RegimeIV)
	require.NoError(t, err)
	assert.True(t, res.Breakdown.Get(domain.SubTaxCPP).IsZero(), "Anexo IV collects CPP outside the DAS")
}

func TestComputeProgressiveTax_NonNegative(t *testing.T) {
	calc := NewSimplesCalculator()

	for _, regime := range domain.Regimes() {
		for trailing := int64(0); trailing <= 6000000; trailing += 75000 {
			res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(trailing), decimal.NewFromInt(12345), regime)
			require.NoError(t, err)
			assert.False(t, res.EffectiveRate.IsNegative(), "%s at %d", regime, trailing)
			assert.False(t, res.TaxAmount.IsNegative(), "%s at %d", regime, trailing)
		}
	}
}

// Within the first five brackets the deductions are calibrated so the effective
// rate rises continuously. The sixth bracket is excluded: above the R$ 3.6M
// sublimit ICMS/ISS leave the DAS and the headline rate drops.
func TestComputeProgressiveTax_MonotonicUpToSublimit(t *testing.T) {
	calc := NewSimplesCalculator()
	step := decimal.NewFromInt(5000)
	sublimit := decimal.NewFromInt(3600000)
	eps := decimal.New(1, -9)

	for _, regime := range domain.Regimes() {
		prev := decimal.Zero
		for trailing := decimal.Zero; trailing.LessThanOrEqual(sublimit); trailing = trailing.Add(step) {
			rate, err := calc.EffectiveRate(trailing, regime)
			require.NoError(t, err)
			assert.True(t, rate.Add(eps).GreaterThanOrEqual(prev),
				"%s: rate fell from %s to %s at %s", regime, prev, rate, trailing)
			prev = rate
		}
	}
}

func TestComputeProgressiveTax_ContinuousAtBracketCeilings(t *testing.T) {
	calc := NewSimplesCalculator()
	table := DefaultSimplesTable()
	cent := decimal.RequireFromString("0.01")
	eps := decimal.New(1, -6)

	for _, regime := range domain.Regimes() {
		for i := 0; i < 4; i++ {
			ceiling := table[regime][i].Ceiling
			below, err := calc.EffectiveRate(ceiling, regime)
			require.NoError(t, err)
			above, err := calc.EffectiveRate(ceiling.Add(cent), regime)
			require.NoError(t, err)
			assert.True(t, above.Sub(below).Abs().LessThan(eps),
				"%s bracket %d: %s vs %s", regime, i+1, below, above)
		}
	}
}

func TestComputeProgressiveTax_SublimitBracketDropsRate(t *testing.T) {
	calc := NewSimplesCalculator()

	for _, regime := range domain.Regimes() {
		at, err := calc.EffectiveRate(decimal.NewFromInt(3600000), regime)
		require.NoError(t, err)
		beyond, err := calc.EffectiveRate(decimal.NewFromInt(3600001), regime)
		require.NoError(t, err)
		assert.True(t, beyond.LessThan(at), "%s: %s should be below %s", regime, beyond, at)
	}
}

func TestComputeProgressiveTax_InvalidInputs(t *testing.T) {
	calc := NewSimplesCalculator()

	tests := []struct {
		name     string
		trailing decimal.Decimal
		period   decimal.Decimal
		regime   domain.Regime
		wantErr  error
	}{
		{"unknown regime", decimal.NewFromInt(100000), decimal.NewFromInt(1000), domain.Regime("VI"), ErrInvalidRegime},
		{"empty regime", decimal.NewFromInt(100000), decimal.NewFromInt(1000), domain.Regime(""), ErrInvalidRegime},
		{"negative trailing", decimal.NewFromInt(-1), decimal.NewFromInt(1000), domain.RegimeI, ErrNegativeAmount},
		{"negative period", decimal.NewFromInt(100000), decimal.NewFromInt(-1000), domain.RegimeI, ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.ComputeProgressiveTax(tt.trailing, tt.period, tt.regime)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var calcErr *CalculationError
			assert.True(t, errors.As(err, &calcErr))
			assert.Equal(t, "compute_progressive_tax", calcErr.Operation)
		})
	}
}

func TestComputeProgressiveTax_PeriodAboveTrailingIsAccepted(t *testing.T) {
	calc := NewSimplesCalculator()

	res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(10000), decimal.NewFromInt(50000), domain.RegimeI)
	require.NoError(t, err)
	assert.True(t, res.TaxAmount.Equal(decimal.NewFromInt(2000)))
}

func TestValidateTable(t *testing.T) {
	require.NoError(t, ValidateTable(DefaultSimplesTable()))

	t.Run("repartition off by one point", func(t *testing.T) {
		table := DefaultSimplesTable()
		table[domain.RegimeII][3].Repartition[domain.SubTaxPIS] = decimal.RequireFromString("0.0349")
		err := ValidateTable(table)
		assert.True(t, errors.Is(err, ErrInvalidTable))
	})

	t.Run("descending ceilings", func(t *testing.T) {
		table := DefaultSimplesTable()
		table[domain.RegimeIII][2].Ceiling = decimal.NewFromInt(300000)
		assert.True(t, errors.Is(ValidateTable(table), ErrInvalidTable))
	})

	t.Run("missing annex", func(t *testing.T) {
		table := DefaultSimplesTable()
		delete(table, domain.RegimeV)
		assert.True(t, errors.Is(ValidateTable(table), ErrInvalidTable))
	})

	t.Run("five brackets", func(t *testing.T) {
		table := DefaultSimplesTable()
		table[domain.RegimeI] = table[domain.RegimeI][:5]
		assert.True(t, errors.Is(ValidateTable(table), ErrInvalidTable))
	})

	t.Run("unknown sub-tax", func(t *testing.T) {
		table := DefaultSimplesTable()
		table[domain.RegimeIV][0].Repartition["inss"] = decimal.Zero
		assert.True(t, errors.Is(ValidateTable(table), ErrInvalidTable))
	})
}

func TestNewSimplesCalculatorWithTable_CopiesInput(t *testing.T) {
	table := DefaultSimplesTable()
	calc, err := NewSimplesCalculatorWithTable(table)
	require.NoError(t, err)

	table[domain.RegimeIII][1].NominalRate = decimal.RequireFromString("0.5")

	res, err := calc.ComputeProgressiveTax(decimal.NewFromInt(200000), decimal.NewFromInt(20000), domain.RegimeIII)
	require.NoError(t, err)
	assert.True(t, res.EffectiveRate.Equal(decimal.RequireFromString("0.0652")))
	assert.True(t, calc.FirstBracketCeiling().Equal(FirstBracketCeiling))
}

func TestSimplesCalculator_BracketsReturnsCopy(t *testing.T) {
	calc := NewSimplesCalculator()

	brackets, err := calc.Brackets(domain.RegimeV)
	require.NoError(t, err)
	require.Len(t, brackets, BracketsPerRegime)
	brackets[0].NominalRate = decimal.Zero

	again, err := calc.Brackets(domain.RegimeV)
	require.NoError(t, err)
	assert.True(t, again[0].NominalRate.Equal(decimal.RequireFromString("0.155")))

	_, err = calc.Brackets("X")
	assert.True(t, errors.Is(err, ErrInvalidRegime))
}
