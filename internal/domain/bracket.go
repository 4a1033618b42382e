package domain

import (
	"github.com/shopspring/decimal"
)

// Bracket is one trailing-revenue band of a Simples annex
type Bracket struct {
	Ceiling     decimal.Decimal `yaml:"ceiling" json:"ceiling"`           // inclusive upper bound of RBT12
	NominalRate decimal.Decimal `yaml:"nominal_rate" json:"nominal_rate"` // e.g. 0.112
	Deduction   decimal.Decimal `yaml:"deduction" json:"deduction"`       // parcela a deduzir
	Repartition Repartition     `yaml:"repartition" json:"repartition"`
}

// BracketTable holds the ordered brackets of every annex
type BracketTable map[Regime][]Bracket

// Clone returns a deep copy so callers can never mutate a shared table
func (t BracketTable) Clone() BracketTable {
	out := make(BracketTable, len(t))
	for regime, brackets := range t {
		cp := make([]Bracket, len(brackets))
		for i, b := range brackets {
			rep := make(Repartition, len(b.Repartition))
			for k, v := range b.Repartition {
				rep[k] = v
			}
			cp[i] = Bracket{Ceiling: b.Ceiling, NominalRate: b.NominalRate, Deduction: b.Deduction, Repartition: rep}
		}
		out[regime] = cp
	}
	return out
}

// RegulatoryTable is the YAML document used to override the compiled-in brackets
type RegulatoryTable struct {
	Metadata RegulatoryMetadata `yaml:"metadata" json:"metadata"`
	Brackets BracketTable       `yaml:"brackets" json:"brackets"`
}

// RegulatoryMetadata describes the source of a bracket table
type RegulatoryMetadata struct {
	DataYear    int    `yaml:"data_year" json:"data_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}
