package ports

import (
	"context"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// CreateSimulationInput carries all data needed to create a simulation run.
type CreateSimulationInput struct {
	Name           string
	Description    string
	SimulationType string
	ModelID        string
	UserID         string
}

// SimulationService defines use-case operations for simulation runs.
type SimulationService interface {
	// Create registers a new run in pending state. The referenced model must
	// exist and belong to the requesting user.
	Create(ctx context.Context, input CreateSimulationInput) (*domain.Simulation, error)
	Get(ctx context.Context, id, userID string) (*domain.Simulation, error)
	List(ctx context.Context, userID string, page, limit int) ([]*domain.Simulation, int64, error)
}
