package ports

import (
	"context"
	"time"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// SimulationRepository defines persistence operations for simulation runs.
// When userID is non-empty, queries are additionally filtered by owner.
type SimulationRepository interface {
	Create(ctx context.Context, s *domain.Simulation) error
	FindByID(ctx context.Context, id string, userID string) (*domain.Simulation, error)
	List(ctx context.Context, userID string, page, limit int) ([]*domain.Simulation, int64, error)

	// UpdateStatus atomically sets the simulation's new status, appends a
	// history entry, and stores results when the worker reports them.
	UpdateStatus(
		ctx context.Context,
		simulationID string,
		status domain.SimulationStatus,
		ts time.Time,
		notes string,
		results *domain.ResultSummary,
	) error

	// CountByStatus returns run counts grouped by status, optionally scoped
	// to one owner.
	CountByStatus(ctx context.Context, userID string) (map[domain.SimulationStatus]int64, error)
}
