package ports

import (
	"context"
	"time"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// ResultSummaryInput mirrors domain.ResultSummary at the transport boundary.
type ResultSummaryInput struct {
	RadiusOfInfluenceMeters float64
	TotalWellsAnalyzed      int
	PumpingLengthSeconds    float64
	TotalTimeSteps          int
}

// RunEventInput is the DTO passed from the transport layer to RunEventService.
type RunEventInput struct {
	SimulationID string
	Status       string
	Timestamp    time.Time
	Source       string
	Notes        string
	Results      *ResultSummaryInput // optional, completion only
}

// RunEventService processes status events reported by the simulation worker.
type RunEventService interface {
	Process(ctx context.Context, event RunEventInput) error
}

// RunEventRepository persists processed run events to the audit trail.
type RunEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.RunEvent) error
}
