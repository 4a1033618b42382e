package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersonType distinguishes companies (PJ) from individuals (PF)
type PersonType string

const (
	PersonPJ PersonType = "PJ"
	PersonPF PersonType = "PF"
)

// Client is the bookkeeping client whose figures feed the calculators
type Client struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	Identifier    string          `yaml:"identifier" json:"identifier"` // CNPJ or CPF
	Type          PersonType      `yaml:"type" json:"type"`
	Email         string          `yaml:"email,omitempty" json:"email,omitempty"`
	Regime        Regime          `yaml:"regime" json:"regime"`
	Activity      ActivityType    `yaml:"activity" json:"activity"`
	AnnualRevenue decimal.Decimal `yaml:"annual_revenue" json:"annual_revenue"` // RBT12 as declared
	Payroll12     decimal.Decimal `yaml:"payroll_12" json:"payroll_12"`
	Active        bool            `yaml:"active" json:"active"`
	CreatedAt     *time.Time      `yaml:"created_at,omitempty" json:"created_at,omitempty"`
}

// Employee is a payroll line of a client
type Employee struct {
	Name     string          `yaml:"name" json:"name"`
	ClientID string          `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	Role     string          `yaml:"role,omitempty" json:"role,omitempty"`
	Salary   decimal.Decimal `yaml:"salary" json:"salary"`
}

// CostStructure holds the pricing inputs of a product or service
type CostStructure struct {
	FixedCostsMonthly decimal.Decimal `yaml:"fixed_costs_monthly" json:"fixed_costs_monthly"`
	AvgSalesVolume    decimal.Decimal `yaml:"avg_sales_volume" json:"avg_sales_volume"`
	VariableCostUnit  decimal.Decimal `yaml:"variable_cost_unit" json:"variable_cost_unit"`
	FeeRate           decimal.Decimal `yaml:"fee_rate" json:"fee_rate"` // card / marketplace fee, as a fraction
	ProposedPrice     decimal.Decimal `yaml:"proposed_price" json:"proposed_price"`
}

// Configuration is the root of a company input file
type Configuration struct {
	Client            Client                     `yaml:"client" json:"client"`
	Employees         []Employee                 `yaml:"employees" json:"employees"`
	Transactions      []Transaction              `yaml:"transactions" json:"transactions"`
	TaxRules          TaxRuleConfiguration       `yaml:"tax_rules" json:"tax_rules"`
	Pricing           *CostStructure             `yaml:"pricing,omitempty" json:"pricing,omitempty"`
	RegimeAdjustments map[Regime]decimal.Decimal `yaml:"regime_adjustments,omitempty" json:"regime_adjustments,omitempty"`
	RegulatoryFile    string                     `yaml:"regulatory_file,omitempty" json:"regulatory_file,omitempty"`
}
