package api

import (
	"github.com/axisacco/AXIS-ACCOUTING/internal/compare"
	"github.com/axisacco/AXIS-ACCOUTING/internal/ledger"
	"github.com/gin-gonic/gin"
)

// CompareRegimes compares Simples Nacional against Lucro Presumido
func (h *Handler) CompareRegimes(c *gin.Context) {
	var req compare.ComparisonRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.compare.Compare(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "compare", err)
		return
	}
	ok(c, result)
}

// Efficiency scores the Simples choice over a month of transactions
func (h *Handler) Efficiency(c *gin.Context) {
	var req compare.EfficiencyRequest
	if !bind(c, &req) {
		return
	}

	report, err := h.compare.Efficiency(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "efficiency", err)
		return
	}
	ok(c, report)
}

// Indicators returns the dashboard figures
func (h *Handler) Indicators(c *gin.Context) {
	var req ledger.IndicatorsRequest
	if !bind(c, &req) {
		return
	}

	ind, err := h.aggregator.Indicators(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "indicators", err)
		return
	}
	ok(c, ind)
}

// Plan returns the financial planner summary
func (h *Handler) Plan(c *gin.Context) {
	var req ledger.PlannerRequest
	if !bind(c, &req) {
		return
	}

	summary, err := h.aggregator.Plan(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "planner", err)
		return
	}
	ok(c, summary)
}
