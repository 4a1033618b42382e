package config

import (
	"fmt"
	"os"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadRegulatoryTable reads a bracket table override and checks its structure
func LoadRegulatoryTable(filename string) (*domain.RegulatoryTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var table domain.RegulatoryTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := calculation.ValidateTable(table.Brackets); err != nil {
		return nil, fmt.Errorf("regulatory table %s: %w", filename, err)
	}
	return &table, nil
}

// WriteRegulatoryTable dumps a table in the format LoadRegulatoryTable reads
func WriteRegulatoryTable(filename string, table *domain.RegulatoryTable) error {
	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// NewEngine builds a calculation engine for a configuration, honoring its
// regulatory file when one is set.
func NewEngine(cfg *domain.Configuration, logger calculation.Logger) (*calculation.CalculationEngine, error) {
	var engine *calculation.CalculationEngine
	if cfg != nil && cfg.RegulatoryFile != "" {
		table, err := LoadRegulatoryTable(cfg.RegulatoryFile)
		if err != nil {
			return nil, err
		}
		engine, err = calculation.NewCalculationEngineWithTable(table.Brackets)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Infof("loaded regulatory table %s (data year %d)", cfg.RegulatoryFile, table.Metadata.DataYear)
		}
	} else {
		engine = calculation.NewCalculationEngine()
	}
	engine.SetLogger(logger)
	return engine, nil
}

// SolverOptions lays the file's regime adjustments over the default ones
func SolverOptions(cfg *domain.Configuration) breakeven.SolverOptions {
	options := breakeven.DefaultSolverOptions()
	if cfg == nil {
		return options
	}
	for regime, adj := range cfg.RegimeAdjustments {
		options.RegimeAdjustments[regime] = adj
	}
	return options
}
