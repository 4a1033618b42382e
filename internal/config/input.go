package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/compare"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/axisacco/AXIS-ACCOUTING/internal/ledger"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of company input files
type InputParser struct {
	Logger calculation.Logger
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Logger: calculation.NopLogger{}}
}

// SetLogger sets the logger used for validation warnings
func (ip *InputParser) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	ip.Logger = l
}

func (ip *InputParser) logger() calculation.Logger {
	if ip.Logger == nil {
		return calculation.NopLogger{}
	}
	return ip.Logger
}

// LoadFromFile loads a company configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	// regulatory files are resolved next to the input file
	if config.RegulatoryFile != "" && !filepath.IsAbs(config.RegulatoryFile) {
		config.RegulatoryFile = filepath.Join(filepath.Dir(filename), config.RegulatoryFile)
	}
	return config, nil
}

// Parse decodes and validates a configuration document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	AssignClient(&config)

	for _, w := range ip.Warnings(&config) {
		ip.logger().Warnf("%s", w)
	}
	return &config, nil
}

// AssignClient tags the untagged employees and transactions of a company
// file with its client id, so the ledger filters keep them.
func AssignClient(config *domain.Configuration) {
	id := config.Client.ID
	if id == "" {
		return
	}
	for i := range config.Employees {
		if config.Employees[i].ClientID == "" {
			config.Employees[i].ClientID = id
		}
	}
	for i := range config.Transactions {
		if config.Transactions[i].ClientID == "" {
			config.Transactions[i].ClientID = id
		}
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return fmt.Errorf("configuration is required")
	}
	if err := ip.validateClient(&config.Client); err != nil {
		return fmt.Errorf("client validation failed: %w", err)
	}
	for i, e := range config.Employees {
		if err := ip.validateEmployee(&e); err != nil {
			return fmt.Errorf("employee %d (%s) validation failed: %w", i, e.Name, err)
		}
	}
	for i, t := range config.Transactions {
		if err := ip.validateTransaction(&t); err != nil {
			return fmt.Errorf("transaction %d validation failed: %w", i, err)
		}
	}
	if config.Pricing != nil {
		if err := ip.validateCostStructure(config.Pricing); err != nil {
			return fmt.Errorf("pricing validation failed: %w", err)
		}
	}
	for regime, adj := range config.RegimeAdjustments {
		if !regime.Valid() {
			return fmt.Errorf("regime adjustment: %w: %q", domain.ErrInvalidRegime, string(regime))
		}
		if adj.IsNegative() {
			return fmt.Errorf("regime adjustment for %s: %w", regime, calculation.ErrNegativeAmount)
		}
	}
	return nil
}

func (ip *InputParser) validateClient(c *domain.Client) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Identifier != "" {
		kind := c.Type
		if kind == "" {
			kind = inferPersonType(c.Identifier)
		}
		if err := domain.ValidateIdentifier(kind, c.Identifier); err != nil {
			return err
		}
	}
	if !c.Regime.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRegime, string(c.Regime))
	}
	if c.Activity != "" && !c.Activity.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidActivity, string(c.Activity))
	}
	if c.AnnualRevenue.IsNegative() {
		return fmt.Errorf("annual revenue: %w", calculation.ErrNegativeAmount)
	}
	if c.Payroll12.IsNegative() {
		return fmt.Errorf("payroll: %w", calculation.ErrNegativeAmount)
	}
	return nil
}

// inferPersonType picks CPF for eleven digits and CNPJ otherwise
func inferPersonType(identifier string) domain.PersonType {
	if len(domain.SanitizeIdentifier(identifier)) == 11 {
		return domain.PersonPF
	}
	return domain.PersonPJ
}

func (ip *InputParser) validateEmployee(e *domain.Employee) error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.Salary.IsNegative() {
		return fmt.Errorf("salary: %w", calculation.ErrNegativeAmount)
	}
	return nil
}

func (ip *InputParser) validateTransaction(t *domain.Transaction) error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount: %w", calculation.ErrNegativeAmount)
	}
	switch t.Direction {
	case domain.DirectionInflow, domain.DirectionOutflow:
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidDirection, string(t.Direction))
	}
	if t.Activity != "" && !t.Activity.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidActivity, string(t.Activity))
	}
	switch t.Category {
	case "", domain.CategoryNormal, domain.CategoryMonofasico, domain.CategoryIsento:
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, string(t.Category))
	}
	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

func (ip *InputParser) validateCostStructure(c *domain.CostStructure) error {
	if c.FixedCostsMonthly.IsNegative() || c.AvgSalesVolume.IsNegative() ||
		c.VariableCostUnit.IsNegative() || c.FeeRate.IsNegative() || c.ProposedPrice.IsNegative() {
		return fmt.Errorf("costs: %w", calculation.ErrNegativeAmount)
	}
	return nil
}

// Warnings reports suspicious but legal figures: months whose inflows exceed
// the declared RBT12 and a declared RBT12 above the Simples ceiling.
func (ip *InputParser) Warnings(config *domain.Configuration) []string {
	var warnings []string
	declared := config.Client.AnnualRevenue

	if declared.GreaterThan(compare.SimplesRevenueCeiling) {
		warnings = append(warnings, fmt.Sprintf("declared RBT12 R$ %s exceeds the Simples Nacional ceiling of R$ %s",
			declared.StringFixed(2), compare.SimplesRevenueCeiling.StringFixed(0)))
	}

	txs := ledger.FilterByClient(config.Transactions, config.Client.ID)
	seen := make(map[time.Time]bool)
	var months []time.Time
	for _, t := range txs {
		if !t.IsInflow() {
			continue
		}
		m := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	for _, m := range months {
		revenue := ledger.PeriodRevenue(txs, m.Year(), m.Month(), ledger.PlannerMonthly)
		if revenue.GreaterThan(declared) {
			warnings = append(warnings, fmt.Sprintf("%s revenue R$ %s exceeds the declared RBT12 R$ %s",
				m.Format("2006-01"), revenue.StringFixed(2), declared.StringFixed(2)))
		}
	}
	return warnings
}
