package api

import (
	"strconv"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PricingResponse is the pricing analysis plus the optional chart data
type PricingResponse struct {
	Analysis        *breakeven.PricingAnalysis `json:"analysis"`
	Curve           []breakeven.CurvePoint     `json:"curve,omitempty"`
	BreakEvenVolume *decimal.Decimal           `json:"break_even_volume,omitempty"`
}

// AnalyzePricing runs the minimum price analysis. ?curve=true adds the
// break-even curve and volume when the price is feasible.
func (h *Handler) AnalyzePricing(c *gin.Context) {
	var req breakeven.PricingRequest
	if !bind(c, &req) {
		return
	}

	analysis, err := h.solver.Analyze(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "pricing", err)
		return
	}

	resp := PricingResponse{Analysis: analysis}
	withCurve, _ := strconv.ParseBool(c.DefaultQuery("curve", "false"))
	if withCurve && !analysis.MinimumPrice.Infeasible() {
		curve, err := h.solver.BreakEvenCurve(c.Request.Context(), analysis)
		if err != nil {
			h.fail(c, "pricing_curve", err)
			return
		}
		resp.Curve = curve
		if volume, err := h.solver.BreakEvenVolume(analysis); err == nil {
			resp.BreakEvenVolume = &volume
		}
	}
	ok(c, resp)
}

// ComparePricingRegimes ranks the minimum price across all annexes
func (h *Handler) ComparePricingRegimes(c *gin.Context) {
	var req breakeven.PricingRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.solver.CompareRegimes(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "pricing_compare_regimes", err)
		return
	}
	ok(c, result)
}
