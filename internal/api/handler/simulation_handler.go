package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/api/metrics"
	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// SimulationHandler handles HTTP requests for simulation runs.
type SimulationHandler struct {
	service ports.SimulationService
}

func NewSimulationHandler(service ports.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

type createSimulationRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	SimulationType string `json:"simulation_type" validate:"required"`
	ModelID        string `json:"model_id" validate:"required"`
}

type listSimulationsResponse struct {
	Items []*domain.Simulation `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// Create handles POST /v1/simulations.
//
// @Summary      Create a simulation run
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSimulationRequest  true  "Simulation definition"
// @Success      201   {object}  domain.Simulation
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/simulations [post]
func (h *SimulationHandler) Create(c echo.Context) error {
	var req createSimulationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	sim, err := h.service.Create(c.Request().Context(), ports.CreateSimulationInput{
		Name:           req.Name,
		Description:    req.Description,
		SimulationType: req.SimulationType,
		ModelID:        req.ModelID,
		UserID:         user.ID,
	})
	if err != nil {
		return err
	}

	metrics.SimulationsCreatedTotal.WithLabelValues(sim.SimulationType).Inc()
	return c.JSON(http.StatusCreated, sim)
}

// Get handles GET /v1/simulations/:id.
//
// @Summary      Get a simulation by id
// @Tags         simulations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Simulation id"
// @Success      200  {object}  domain.Simulation
// @Failure      404  {object}  map[string]string
// @Router       /v1/simulations/{id} [get]
func (h *SimulationHandler) Get(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	sim, err := h.service.Get(c.Request().Context(), c.Param("id"), ownerScope(user))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sim)
}

// List handles GET /v1/simulations.
//
// @Summary      List simulations owned by the caller
// @Tags         simulations
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listSimulationsResponse
// @Router       /v1/simulations [get]
func (h *SimulationHandler) List(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	sims, total, err := h.service.List(c.Request().Context(), ownerScope(user), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listSimulationsResponse{Items: sims, Total: total, Page: page, Limit: limit})
}
