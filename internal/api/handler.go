// Package api exposes the tax engines over HTTP with gin.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
	"github.com/axisacco/AXIS-ACCOUTING/internal/compare"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/axisacco/AXIS-ACCOUTING/internal/ledger"
	"github.com/axisacco/AXIS-ACCOUTING/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler serves every calculator endpoint
type Handler struct {
	calcEngine *calculation.CalculationEngine
	solver     *breakeven.Solver
	compare    *compare.CompareEngine
	aggregator *ledger.Aggregator
	history    *SimulationStore
	logger     *slog.Logger
}

// NewHandler wires the engines around one calculation engine
func NewHandler(calcEngine *calculation.CalculationEngine, options breakeven.SolverOptions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		calcEngine: calcEngine,
		solver:     breakeven.NewSolver(calcEngine, options),
		compare:    compare.NewCompareEngine(calcEngine),
		aggregator: ledger.NewAggregator(calcEngine),
		history:    NewSimulationStore(),
		logger:     logger,
	}
}

// RegisterRoutes mounts the calculator endpoints under /api
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.POST("/simples", h.ComputeSimples)
		api.POST("/factor-r", h.ResolveFactorR)
		api.POST("/presumido", h.ComputePresumed)
		api.POST("/presumido/advanced", h.ComputePresumedAdvanced)
		api.POST("/payroll/provisions", h.ComputeProvisions)

		api.POST("/pricing", h.AnalyzePricing)
		api.POST("/pricing/compare-regimes", h.ComparePricingRegimes)

		api.POST("/compare", h.CompareRegimes)
		api.POST("/efficiency", h.Efficiency)
		api.POST("/indicators", h.Indicators)
		api.POST("/planner", h.Plan)
	}

	sims := api.Group("/simulations")
	{
		sims.GET("", h.ListSimulations)
		sims.POST("", h.SaveSimulation)
		sims.GET("/:id", h.GetSimulation)
		sims.DELETE("/:id", h.DeleteSimulation)
	}
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bind decodes the JSON body, answering 400 on failure
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

// fail answers with the status matching err
func (h *Handler) fail(c *gin.Context, operation string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "operation", operation, "err", err)
	} else {
		h.logger.Debug("request rejected", "operation", operation, "err", err)
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, breakeven.ErrInfeasiblePrice), errors.Is(err, breakeven.ErrInfeasibleVolume):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidRegime),
		errors.Is(err, domain.ErrInvalidActivity),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidIdentifier),
		errors.Is(err, calculation.ErrNegativeAmount),
		errors.Is(err, ledger.ErrInvalidRange),
		errors.Is(err, ledger.ErrInvalidPeriod):
		return http.StatusBadRequest
	}
	var be *breakeven.BreakEvenError
	var ce *calculation.CalculationError
	if errors.As(err, &be) || errors.As(err, &ce) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
