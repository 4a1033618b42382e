// Package tuimsg holds the messages exchanged between the TUI root model and
// its scenes, kept apart to avoid import cycles.
package tuimsg

import (
	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
)

// ConfigLoadedMsg signals a company file has been loaded, along with a
// solver built on its regulatory table and regime adjustments
type ConfigLoadedMsg struct {
	Config *domain.Configuration
	Solver *breakeven.Solver
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// PricingRequestedMsg asks the root model to run a pricing analysis
type PricingRequestedMsg struct {
	Request breakeven.PricingRequest
}

// PricingCompleteMsg carries a finished analysis and its curve
type PricingCompleteMsg struct {
	Analysis *breakeven.PricingAnalysis
	Curve    []breakeven.CurvePoint
	Err      error
}

// RegimesCompleteMsg carries the cross-annex minimum price ranking
type RegimesCompleteMsg struct {
	Comparison *breakeven.RegimePricingComparison
	Err        error
}
