package breakeven

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

func TestMinimumPrice_ZeroValueIsInfeasible(t *testing.T) {
	var m MinimumPrice

	if !m.Infeasible() {
		t.Error("Expected zero value to be infeasible")
	}
	if _, ok := m.Value(); ok {
		t.Error("Expected Value to report no price")
	}
	if _, err := m.Require(); !errors.Is(err, ErrInfeasiblePrice) {
		t.Errorf("Expected ErrInfeasiblePrice, got %v", err)
	}
	if m.String() != "infeasible" {
		t.Errorf("Expected 'infeasible', got %s", m.String())
	}
}

func TestMinimumPrice_Feasible(t *testing.T) {
	m := FeasiblePrice(decimal.RequireFromString("112.5"))

	v, ok := m.Value()
	if !ok || !v.Equal(decimal.RequireFromString("112.5")) {
		t.Errorf("Expected 112.5, got %s (ok=%v)", v, ok)
	}
	if m.String() != "112.50" {
		t.Errorf("Expected '112.50', got %s", m.String())
	}
}

func TestMinimumPrice_JSON(t *testing.T) {
	data, err := json.Marshal(InfeasiblePrice())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `{"feasible":false,"value":null}` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	data, err = json.Marshal(FeasiblePrice(decimal.RequireFromString("99.9")))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var back MinimumPrice
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, ok := back.Value()
	if !ok || !v.Equal(decimal.RequireFromString("99.9")) {
		t.Errorf("Expected 99.9 after decoding, got %s", data)
	}
}

func TestRateLoad_Total(t *testing.T) {
	load := RateLoad{
		EffectiveTaxRate: decimal.RequireFromString("0.06"),
		FeeRate:          decimal.RequireFromString("0.05"),
		RegimeAdjustment: decimal.RequireFromString("0.045"),
	}

	if !load.Total().Equal(decimal.RequireFromString("0.155")) {
		t.Errorf("Expected 0.155, got %s", load.Total())
	}
}

func TestPricingRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       PricingRequest
		wantError bool
		cause     error
	}{
		{
			name:      "valid",
			req:       PricingRequest{Regime: domain.RegimeIII, Activity: domain.ActivityService},
			wantError: false,
		},
		{
			name:      "activity may be omitted",
			req:       PricingRequest{Regime: domain.RegimeI},
			wantError: false,
		},
		{
			name:      "unknown regime",
			req:       PricingRequest{Regime: "VI"},
			wantError: true,
			cause:     domain.ErrInvalidRegime,
		},
		{
			name:      "unknown activity",
			req:       PricingRequest{Regime: domain.RegimeI, Activity: "farm"},
			wantError: true,
			cause:     domain.ErrInvalidActivity,
		},
		{
			name: "negative fee",
			req: PricingRequest{
				Regime: domain.RegimeI,
				Costs:  domain.CostStructure{FeeRate: decimal.NewFromInt(-1)},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantError {
				t.Fatalf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Expected cause %v, got %v", tt.cause, err)
			}
		})
	}
}

func TestDefaultSolverOptions(t *testing.T) {
	opts := DefaultSolverOptions()

	if !opts.RegimeAdjustments[domain.RegimeIV].Equal(decimal.RequireFromString("0.045")) {
		t.Errorf("Expected Anexo IV adjustment 0.045, got %s", opts.RegimeAdjustments[domain.RegimeIV])
	}
	if _, ok := opts.RegimeAdjustments[domain.RegimeIII]; ok {
		t.Error("Expected no adjustment for Anexo III")
	}
	if opts.CurvePoints < 2 {
		t.Errorf("Expected at least two curve points, got %d", opts.CurvePoints)
	}
}

func TestBreakEvenError(t *testing.T) {
	err := &BreakEvenError{Operation: "op", Message: "msg", Cause: ErrInfeasiblePrice}

	if err.Error() != "op: msg: "+ErrInfeasiblePrice.Error() {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, ErrInfeasiblePrice) {
		t.Error("Expected error to unwrap to ErrInfeasiblePrice")
	}

	plain := &BreakEvenError{Operation: "op", Message: "msg"}
	if plain.Error() != "op: msg" {
		t.Errorf("Unexpected message: %s", plain.Error())
	}
}
