package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/api/middleware"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// StatsHandler serves run statistics on an optional-auth endpoint: anonymous
// callers get site-wide counts, authenticated callers get their own.
type StatsHandler struct {
	simRepo ports.SimulationRepository
}

func NewStatsHandler(simRepo ports.SimulationRepository) *StatsHandler {
	return &StatsHandler{simRepo: simRepo}
}

type statsResponse struct {
	Scope  string           `json:"scope"` // "public" or "user"
	Counts map[string]int64 `json:"counts_by_status"`
	Total  int64            `json:"total"`
}

// Get handles GET /v1/stats.
//
// @Summary      Simulation run statistics
// @Tags         stats
// @Produce      json
// @Success      200  {object}  statsResponse
// @Router       /v1/stats [get]
func (h *StatsHandler) Get(c echo.Context) error {
	scope := "public"
	userID := ""
	if user := middleware.IdentityFromContext(c); user != nil {
		scope = "user"
		userID = user.ID
	}

	counts, err := h.simRepo.CountByStatus(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	out := make(map[string]int64, len(counts))
	var total int64
	for status, n := range counts {
		out[string(status)] = n
		total += n
	}
	return c.JSON(http.StatusOK, statsResponse{Scope: scope, Counts: out, Total: total})
}
