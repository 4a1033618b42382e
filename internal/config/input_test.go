package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
client:
  id: c1
  name: Padaria Central
  identifier: 11.222.333/0001-81
  type: PJ
  regime: III
  activity: service
  annual_revenue: 180000
  payroll_12: 45000
  active: true
employees:
  - name: Ana
    client_id: c1
    salary: 1200
transactions:
  - id: t1
    client_id: c1
    amount: 20000
    direction: inflow
    activity: service
    category: normal
    date: 2025-03-02
  - id: t2
    client_id: c1
    amount: 5000
    direction: entrada
    activity: commerce
    category: monofasico
    date: 2025-03-14
  - id: t3
    client_id: c1
    amount: 2000
    direction: outflow
    activity: service
    date: 2025-03-10
tax_rules:
  monofasico_has_pis_cofins: false
  isento_has_pis_cofins: true
pricing:
  fixed_costs_monthly: 5000
  avg_sales_volume: 100
  variable_cost_unit: 50
  fee_rate: 0.05
  proposed_price: 100
regime_adjustments:
  IV: 0.045
regulatory_file: tables/simples.yaml
`

type recordingLogger struct {
	calculation.NopLogger
	warnings []string
}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func validConfig() *domain.Configuration {
	return &domain.Configuration{
		Client: domain.Client{
			ID:            "c1",
			Name:          "Padaria Central",
			Identifier:    "11222333000181",
			Type:          domain.PersonPJ,
			Regime:        domain.RegimeIII,
			Activity:      domain.ActivityService,
			AnnualRevenue: decimal.NewFromInt(180000),
		},
		Employees: []domain.Employee{{Name: "Ana", ClientID: "c1", Salary: decimal.NewFromInt(1200)}},
		Transactions: []domain.Transaction{{
			ClientID:  "c1",
			Amount:    decimal.NewFromInt(1000),
			Direction: domain.DirectionInflow,
			Activity:  domain.ActivityService,
			Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
	assert.NotNil(t, parser.Logger)
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile("nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client: [unclosed"), 0644))

	parser := NewInputParser()
	_, err := parser.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_UnknownEnum(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "bad_regime.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  name: X\n  regime: VI\n"), 0644))

	parser := NewInputParser()
	_, err := parser.LoadFromFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRegime), "got %v", err)
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "company.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0644))

	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Padaria Central", cfg.Client.Name)
	assert.Equal(t, domain.RegimeIII, cfg.Client.Regime)
	assert.True(t, cfg.Client.AnnualRevenue.Equal(decimal.NewFromInt(180000)))
	assert.True(t, cfg.Client.Payroll12.Equal(decimal.NewFromInt(45000)))

	require.Len(t, cfg.Transactions, 3)
	assert.Equal(t, domain.DirectionInflow, cfg.Transactions[1].Direction, "entrada is an inflow")
	assert.Equal(t, domain.CategoryMonofasico, cfg.Transactions[1].Category)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), cfg.Transactions[1].Date)

	assert.True(t, cfg.TaxRules.IsentoHasPisCofins)
	require.NotNil(t, cfg.Pricing)
	assert.True(t, cfg.Pricing.FeeRate.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, cfg.RegimeAdjustments[domain.RegimeIV].Equal(decimal.RequireFromString("0.045")))

	assert.Equal(t, filepath.Join(tempDir, "tables", "simples.yaml"), cfg.RegulatoryFile,
		"relative regulatory files resolve next to the input")
}

func TestInputParser_Parse_LogsWarnings(t *testing.T) {
	rec := &recordingLogger{}
	parser := NewInputParser()
	parser.SetLogger(rec)

	_, err := parser.Parse([]byte(validYAML))
	require.NoError(t, err)
	assert.Empty(t, rec.warnings, "25000 in March is below the declared RBT12")

	_, err = parser.Parse([]byte(`
client:
  id: c1
  name: Padaria Central
  regime: I
  annual_revenue: 10000
transactions:
  - amount: 12000
    direction: inflow
    activity: commerce
    date: 2025-01-05
  - amount: 9000
    direction: inflow
    activity: commerce
    date: 2025-02-05
`))
	require.NoError(t, err)
	require.Len(t, rec.warnings, 1)
	assert.Contains(t, rec.warnings[0], "2025-01 revenue R$ 12000.00 exceeds the declared RBT12")
}

func TestInputParser_Warnings(t *testing.T) {
	parser := NewInputParser()

	cfg := validConfig()
	assert.Empty(t, parser.Warnings(cfg))

	cfg.Client.AnnualRevenue = decimal.NewFromInt(5000000)
	warnings := parser.Warnings(cfg)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "exceeds the Simples Nacional ceiling")

	cfg = validConfig()
	cfg.Client.AnnualRevenue = decimal.NewFromInt(500)
	cfg.Transactions = append(cfg.Transactions, domain.Transaction{
		ClientID:  "other",
		Amount:    decimal.NewFromInt(99999),
		Direction: domain.DirectionInflow,
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	warnings = parser.Warnings(cfg)
	require.Len(t, warnings, 1, "other clients' entries are ignored")
	assert.Contains(t, warnings[0], "2025-03")
}

func TestInputParser_ValidateConfiguration(t *testing.T) {
	parser := NewInputParser()
	require.NoError(t, parser.ValidateConfiguration(validConfig()))

	tests := []struct {
		name    string
		mutate  func(c *domain.Configuration)
		target  error
		message string
	}{
		{
			name:    "empty name",
			mutate:  func(c *domain.Configuration) { c.Client.Name = "" },
			message: "name is required",
		},
		{
			name:   "bad CNPJ",
			mutate: func(c *domain.Configuration) { c.Client.Identifier = "11.222.333/0001-82" },
			target: domain.ErrInvalidIdentifier,
		},
		{
			name: "CPF inferred from length",
			mutate: func(c *domain.Configuration) {
				c.Client.Type = ""
				c.Client.Identifier = "529.982.247-24"
			},
			target: domain.ErrInvalidIdentifier,
		},
		{
			name:   "unknown regime",
			mutate: func(c *domain.Configuration) { c.Client.Regime = "VI" },
			target: domain.ErrInvalidRegime,
		},
		{
			name:   "unknown activity",
			mutate: func(c *domain.Configuration) { c.Client.Activity = "mining" },
			target: domain.ErrInvalidActivity,
		},
		{
			name:   "negative revenue",
			mutate: func(c *domain.Configuration) { c.Client.AnnualRevenue = decimal.NewFromInt(-1) },
			target: calculation.ErrNegativeAmount,
		},
		{
			name:   "negative payroll",
			mutate: func(c *domain.Configuration) { c.Client.Payroll12 = decimal.NewFromInt(-1) },
			target: calculation.ErrNegativeAmount,
		},
		{
			name:    "employee without name",
			mutate:  func(c *domain.Configuration) { c.Employees[0].Name = "" },
			message: "employee 0",
		},
		{
			name:   "negative salary",
			mutate: func(c *domain.Configuration) { c.Employees[0].Salary = decimal.NewFromInt(-10) },
			target: calculation.ErrNegativeAmount,
		},
		{
			name:   "negative transaction",
			mutate: func(c *domain.Configuration) { c.Transactions[0].Amount = decimal.NewFromInt(-10) },
			target: calculation.ErrNegativeAmount,
		},
		{
			name:   "missing direction",
			mutate: func(c *domain.Configuration) { c.Transactions[0].Direction = "" },
			target: domain.ErrInvalidDirection,
		},
		{
			name:   "unknown category",
			mutate: func(c *domain.Configuration) { c.Transactions[0].Category = "imported" },
			target: domain.ErrInvalidCategory,
		},
		{
			name:    "missing date",
			mutate:  func(c *domain.Configuration) { c.Transactions[0].Date = time.Time{} },
			message: "date is required",
		},
		{
			name: "negative pricing",
			mutate: func(c *domain.Configuration) {
				c.Pricing = &domain.CostStructure{FeeRate: decimal.NewFromInt(-1)}
			},
			target: calculation.ErrNegativeAmount,
		},
		{
			name: "adjustment for unknown regime",
			mutate: func(c *domain.Configuration) {
				c.RegimeAdjustments = map[domain.Regime]decimal.Decimal{"VII": decimal.Zero}
			},
			target: domain.ErrInvalidRegime,
		},
		{
			name: "negative adjustment",
			mutate: func(c *domain.Configuration) {
				c.RegimeAdjustments = map[domain.Regime]decimal.Decimal{domain.RegimeIV: decimal.NewFromInt(-1)}
			},
			target: calculation.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := parser.ValidateConfiguration(cfg)
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "expected %v, got %v", tt.target, err)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}

	assert.Error(t, parser.ValidateConfiguration(nil))
}

func TestInputParser_ValidateConfiguration_ValidCPF(t *testing.T) {
	cfg := validConfig()
	cfg.Client.Type = domain.PersonPF
	cfg.Client.Identifier = "529.982.247-25"

	assert.NoError(t, NewInputParser().ValidateConfiguration(cfg))
}

func TestInputParser_Parse_AssignsClient(t *testing.T) {
	parser := NewInputParser()

	cfg, err := parser.Parse([]byte(`
client:
  id: c1
  name: Padaria Central
  regime: I
employees:
  - name: Ana
    salary: 1200
  - name: Bruno
    client_id: other
    salary: 1500
transactions:
  - amount: 1000
    direction: inflow
    date: 2025-01-05
  - client_id: other
    amount: 2000
    direction: inflow
    date: 2025-01-06
`))
	require.NoError(t, err)

	assert.Equal(t, "c1", cfg.Employees[0].ClientID, "untagged entries belong to the file's client")
	assert.Equal(t, "other", cfg.Employees[1].ClientID)
	assert.Equal(t, "c1", cfg.Transactions[0].ClientID)
	assert.Equal(t, "other", cfg.Transactions[1].ClientID)

	noID := validConfig()
	noID.Client.ID = ""
	noID.Transactions[0].ClientID = ""
	AssignClient(noID)
	assert.Empty(t, noID.Transactions[0].ClientID, "a file without a client id is left as is")
}
