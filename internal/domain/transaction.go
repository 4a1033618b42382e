package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a ledger entry is money in or money out
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// ParseDirection converts "inflow"/"outflow" (or entrada/saida) into a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inflow", "entrada":
		return DirectionInflow, nil
	case "outflow", "saida", "saída":
		return DirectionOutflow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// UnmarshalText rejects unknown directions
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText keeps the canonical tag on the wire
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d), nil
}

// ProductCategory is the PIS/COFINS treatment class of the goods sold
type ProductCategory string

const (
	CategoryNormal     ProductCategory = "normal"
	CategoryMonofasico ProductCategory = "monofasico"
	CategoryIsento     ProductCategory = "isento"
)

// ParseProductCategory converts a category label, empty meaning normal
func ParseProductCategory(s string) (ProductCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return CategoryNormal, nil
	case "monofasico", "monofásico":
		return CategoryMonofasico, nil
	case "isento", "exempt":
		return CategoryIsento, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// UnmarshalText rejects unknown categories
func (c *ProductCategory) UnmarshalText(text []byte) error {
	parsed, err := ParseProductCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText keeps the canonical tag on the wire
func (c ProductCategory) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// Transaction is a ledger entry owned by the bookkeeping side. Calculators only read it.
type Transaction struct {
	ID          string          `yaml:"id,omitempty" json:"id,omitempty"`
	ClientID    string          `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Direction   Direction       `yaml:"direction" json:"direction"`
	Activity    ActivityType    `yaml:"activity" json:"activity"`
	Category    ProductCategory `yaml:"category,omitempty" json:"category,omitempty"`
	Date        time.Time       `yaml:"date" json:"date"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// IsInflow reports whether the entry is revenue
func (t Transaction) IsInflow() bool {
	return t.Direction == DirectionInflow
}

// TaxRuleConfiguration is the administrator-owned PIS/COFINS incidence matrix.
// A false flag suspends PIS/COFINS for that category; the zero value exempts both.
type TaxRuleConfiguration struct {
	MonofasicoHasPisCofins bool `yaml:"monofasico_has_pis_cofins" json:"monofasico_has_pis_cofins"`
	IsentoHasPisCofins     bool `yaml:"isento_has_pis_cofins" json:"isento_has_pis_cofins"`
}

// IsPisCofinsExempt reports whether revenue in category c is outside the PIS/COFINS base
func (r TaxRuleConfiguration) IsPisCofinsExempt(c ProductCategory) bool {
	switch c {
	case CategoryMonofasico:
		return !r.MonofasicoHasPisCofins
	case CategoryIsento:
		return !r.IsentoHasPisCofins
	default:
		return false
	}
}
