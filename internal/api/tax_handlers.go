package api

import (
	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SimplesRequest is the body of POST /api/simples. Activity is optional;
// when set, Factor R may move Anexo III/V service revenue to the other annex.
type SimplesRequest struct {
	TrailingRevenue decimal.Decimal     `json:"trailing_revenue"`
	PeriodRevenue   decimal.Decimal     `json:"period_revenue"`
	Regime          domain.Regime       `json:"regime" binding:"required"`
	Activity        domain.ActivityType `json:"activity"`
	Payroll12       decimal.Decimal     `json:"payroll_12"`
}

// FactorRRequest is the body of POST /api/factor-r
type FactorRRequest struct {
	TrailingRevenue decimal.Decimal `json:"trailing_revenue"`
	Payroll12       decimal.Decimal `json:"payroll_12"`
}

// FactorRResponse carries the ratio, the annex it selects and the pricing hint
type FactorRResponse struct {
	FactorR decimal.Decimal     `json:"factor_r"`
	Regime  domain.Regime       `json:"regime"`
	Alert   domain.FactorRAlert `json:"alert"`
}

// PresumedRequest is the body of POST /api/presumido
type PresumedRequest struct {
	PeriodRevenue decimal.Decimal     `json:"period_revenue"`
	Payroll12     decimal.Decimal     `json:"payroll_12"`
	Activity      domain.ActivityType `json:"activity" binding:"required"`
}

// PresumedAdvancedRequest is the body of POST /api/presumido/advanced
type PresumedAdvancedRequest struct {
	Transactions []domain.Transaction        `json:"transactions"`
	TaxRules     domain.TaxRuleConfiguration `json:"tax_rules"`
}

// ProvisionsRequest is the body of POST /api/payroll/provisions
type ProvisionsRequest struct {
	Salary decimal.Decimal `json:"salary"`
}

// ComputeSimples runs the Simples Nacional formula
func (h *Handler) ComputeSimples(c *gin.Context) {
	var req SimplesRequest
	if !bind(c, &req) {
		return
	}

	var (
		res domain.TaxComputationResult
		err error
	)
	if req.Activity == "" {
		res, err = h.calcEngine.ComputeProgressiveTax(req.TrailingRevenue, req.PeriodRevenue, req.Regime)
	} else {
		res, err = h.calcEngine.ComputeForActivity(req.Activity, req.Regime, req.TrailingRevenue, req.PeriodRevenue, req.Payroll12)
	}
	if err != nil {
		h.fail(c, "simples", err)
		return
	}
	ok(c, res)
}

// ResolveFactorR returns the annex Factor R selects for service revenue
func (h *Handler) ResolveFactorR(c *gin.Context) {
	var req FactorRRequest
	if !bind(c, &req) {
		return
	}

	regime, err := h.calcEngine.ResolveFactorRRegime(req.TrailingRevenue, req.Payroll12)
	if err != nil {
		h.fail(c, "factor_r", err)
		return
	}
	ok(c, FactorRResponse{
		FactorR: calculation.FactorR(req.TrailingRevenue, req.Payroll12),
		Regime:  regime,
		Alert:   calculation.NewFactorRAlert(req.TrailingRevenue, req.Payroll12),
	})
}

// ComputePresumed estimates Lucro Presumido for a period
func (h *Handler) ComputePresumed(c *gin.Context) {
	var req PresumedRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.calcEngine.ComputePresumedProfit(req.PeriodRevenue, req.Payroll12, req.Activity)
	if err != nil {
		h.fail(c, "presumido", err)
		return
	}
	ok(c, res)
}

// ComputePresumedAdvanced estimates Lucro Presumido from a transaction list
func (h *Handler) ComputePresumedAdvanced(c *gin.Context) {
	var req PresumedAdvancedRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.calcEngine.ComputePresumedProfitAdvanced(req.Transactions, req.TaxRules)
	if err != nil {
		h.fail(c, "presumido_advanced", err)
		return
	}
	ok(c, res)
}

// ComputeProvisions returns the employer charges on one salary
func (h *Handler) ComputeProvisions(c *gin.Context) {
	var req ProvisionsRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.calcEngine.ComputeProvisions(req.Salary)
	if err != nil {
		h.fail(c, "payroll_provisions", err)
		return
	}
	ok(c, res)
}
