package api

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/axisacco/AXIS-ACCOUTING/internal/breakeven"
	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/axisacco/AXIS-ACCOUTING/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrSimulationNotFound is returned for unknown simulation ids
var ErrSimulationNotFound = errors.New("simulation not found")

// Simulation is a saved pricing run
type Simulation struct {
	ID            uuid.UUID              `json:"id"`
	ClientName    string                 `json:"client_name,omitempty"`
	Regime        domain.Regime          `json:"regime"`
	AppliedRegime domain.Regime          `json:"applied_regime"`
	ProposedPrice decimal.Decimal        `json:"proposed_price"`
	MinimumPrice  breakeven.MinimumPrice `json:"minimum_price"`
	Status        domain.PricingStatus   `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
}

// SimulationStore keeps saved simulations in memory
type SimulationStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]Simulation
	now   func() time.Time
}

// NewSimulationStore creates an empty store on the wall clock
func NewSimulationStore() *SimulationStore {
	return &SimulationStore{
		items: make(map[uuid.UUID]Simulation),
		now:   time.Now,
	}
}

// Save records an analysis and returns the stored simulation
func (s *SimulationStore) Save(analysis *breakeven.PricingAnalysis) Simulation {
	sim := Simulation{
		ID:            uuid.New(),
		ClientName:    analysis.Request.ClientName,
		Regime:        analysis.Request.Regime,
		AppliedRegime: analysis.AppliedRegime,
		ProposedPrice: analysis.Request.Costs.ProposedPrice,
		MinimumPrice:  analysis.MinimumPrice,
		Status:        analysis.Status,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sim.CreatedAt = s.now()
	s.items[sim.ID] = sim
	return sim
}

// List returns every simulation, newest first
func (s *SimulationStore) List() []Simulation {
	s.mu.Lock()
	out := make([]Simulation, 0, len(s.items))
	for _, sim := range s.items {
		out = append(out, sim)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get returns one simulation
func (s *SimulationStore) Get(id uuid.UUID) (Simulation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sim, ok := s.items[id]
	if !ok {
		return Simulation{}, ErrSimulationNotFound
	}
	return sim, nil
}

// Delete removes one simulation
func (s *SimulationStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrSimulationNotFound
	}
	delete(s.items, id)
	return nil
}

// ListSimulations returns the saved simulations, newest first
func (h *Handler) ListSimulations(c *gin.Context) {
	ok(c, h.history.List())
}

// SaveSimulation analyzes a pricing request and stores the outcome
func (h *Handler) SaveSimulation(c *gin.Context) {
	var req breakeven.PricingRequest
	if !bind(c, &req) {
		return
	}

	analysis, err := h.solver.Analyze(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "save_simulation", err)
		return
	}
	sim := h.history.Save(analysis)
	h.logger.Info("simulation saved", "id", sim.ID.String(), "regime", string(sim.Regime), "status", string(sim.Status))
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sim))
}

// GetSimulation returns one saved simulation
func (h *Handler) GetSimulation(c *gin.Context) {
	id, valid := simulationID(c)
	if !valid {
		return
	}
	sim, err := h.history.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	ok(c, sim)
}

// DeleteSimulation removes one saved simulation
func (h *Handler) DeleteSimulation(c *gin.Context) {
	id, valid := simulationID(c)
	if !valid {
		return
	}
	if err := h.history.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	ok(c, gin.H{"deleted": id.String()})
}

func simulationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid simulation id: "+err.Error()))
		return uuid.Nil, false
	}
	return id, true
}
