package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis). The simulation worker
// retries deliveries, so the same event can arrive more than once.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, simulationID, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, simulationID, status string, ts time.Time) error
}

type runEventService struct {
	simRepo   ports.SimulationRepository
	eventRepo ports.RunEventRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewRunEventService returns a RunEventService implementation.
func NewRunEventService(
	simRepo ports.SimulationRepository,
	eventRepo ports.RunEventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.RunEventService {
	return &runEventService{
		simRepo:   simRepo,
		eventRepo: eventRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process validates, deduplicates, and persists a single worker status event.
func (s *runEventService) Process(ctx context.Context, in ports.RunEventInput) error {
	newStatus := domain.SimulationStatus(in.Status)

	// 1. Idempotency check — silently skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, in.SimulationID, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("simulation_id", in.SimulationID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("simulation_id", in.SimulationID).Str("status", in.Status).Msg("duplicate event skipped")
		return nil
	}

	// 2. Find simulation (no owner filter — events come from the worker).
	sim, err := s.simRepo.FindByID(ctx, in.SimulationID, "")
	if err != nil {
		return fmt.Errorf("process run event: %w", err)
	}

	// 3. Validate state machine transition.
	if !sim.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("process run event: %w (from %s to %s)", domain.ErrInvalidTransition, sim.Status, newStatus)
	}

	// 4. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.SimulationID, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("simulation_id", in.SimulationID).Msg("failed to set dedup key")
	}

	// 5. Build optional result summary.
	var results *domain.ResultSummary
	if in.Results != nil {
		results = &domain.ResultSummary{
			RadiusOfInfluenceMeters: in.Results.RadiusOfInfluenceMeters,
			TotalWellsAnalyzed:      in.Results.TotalWellsAnalyzed,
			PumpingLengthSeconds:    in.Results.PumpingLengthSeconds,
			TotalTimeSteps:          in.Results.TotalTimeSteps,
		}
	}

	// 6. Atomically update simulation status + history (+ results on completion).
	notes := in.Notes
	if notes == "" {
		notes = in.Source
	}
	if err := s.simRepo.UpdateStatus(ctx, in.SimulationID, newStatus, in.Timestamp, notes, results); err != nil {
		return fmt.Errorf("process run event: update status: %w", err)
	}

	// 7. Insert into audit trail (non-fatal on failure).
	auditEvent := &domain.RunEvent{
		SimulationID: in.SimulationID,
		Status:       newStatus,
		Timestamp:    in.Timestamp,
		Source:       in.Source,
		Notes:        in.Notes,
		Results:      results,
	}
	if err := s.eventRepo.InsertEvent(ctx, auditEvent); err != nil {
		s.log.Warn().Err(err).Str("simulation_id", in.SimulationID).Msg("failed to insert audit event")
	}

	s.log.Info().
		Str("simulation_id", in.SimulationID).
		Str("status", in.Status).
		Str("source", in.Source).
		Msg("run event processed")

	return nil
}
