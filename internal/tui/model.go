package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/config"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/scenes"
	"github.com/axisacco/AXIS-ACCOUTING/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	config     *domain.Configuration

	// Pricing solver
	solver *breakeven.Solver

	// Last request sent to the solver, reused by the annex comparison
	lastRequest *breakeven.PricingRequest

	pricingModel *scenes.PricingModel
	regimesModel *scenes.RegimesModel

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. A nil solver uses the built-in
// bracket table; configPath may be empty for a blank calculator.
func NewModel(configPath string, solver *breakeven.Solver) Model {
	if solver == nil {
		solver = breakeven.NewDefaultSolver(calculation.NewCalculationEngine())
	}
	return Model{
		currentScene:  ScenePricing,
		previousScene: ScenePricing,
		configPath:    configPath,
		solver:        solver,
		pricingModel:  scenes.NewPricingModel(),
		regimesModel:  scenes.NewRegimesModel(),
		loading:       configPath != "",
		width:         80,
		height:        24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads the company file and builds a
// solver for it
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}

		engine, err := config.NewEngine(cfg, nil)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}

		return tuimsg.ConfigLoadedMsg{
			Config: cfg,
			Solver: breakeven.NewSolver(engine, config.SolverOptions(cfg)),
		}
	}
}

// analyzePricingCmd runs the solver and samples the break-even curve. A
// request with no price to centre on still returns its analysis.
func analyzePricingCmd(solver *breakeven.Solver, req breakeven.PricingRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		analysis, err := solver.Analyze(ctx, req)
		if err != nil {
			return tuimsg.PricingCompleteMsg{Err: err}
		}

		curve, err := solver.BreakEvenCurve(ctx, analysis)
		if err != nil && !errors.Is(err, breakeven.ErrInfeasiblePrice) {
			return tuimsg.PricingCompleteMsg{Err: err}
		}

		return tuimsg.PricingCompleteMsg{
			Analysis: analysis,
			Curve:    curve,
		}
	}
}

// compareRegimesCmd ranks the minimum price of a request across the annexes
func compareRegimesCmd(solver *breakeven.Solver, req breakeven.PricingRequest) tea.Cmd {
	return func() tea.Msg {
		comparison, err := solver.CompareRegimes(context.Background(), req)
		return tuimsg.RegimesCompleteMsg{
			Comparison: comparison,
			Err:        err,
		}
	}
}
