package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// SimulationService implements use cases for simulation runs.
type SimulationService struct {
	repo      ports.SimulationRepository
	modelRepo ports.ModelRepository
	logger    zerolog.Logger
}

func NewSimulationService(
	repo ports.SimulationRepository,
	modelRepo ports.ModelRepository,
	logger zerolog.Logger,
) *SimulationService {
	return &SimulationService{repo: repo, modelRepo: modelRepo, logger: logger}
}

// Create registers a new run in pending state. The referenced model must
// exist and belong to the requesting user; runs against other users' models
// surface as ErrModelNotFound rather than leaking the model's existence.
func (s *SimulationService) Create(ctx context.Context, input ports.CreateSimulationInput) (*domain.Simulation, error) {
	if _, err := s.modelRepo.FindByID(ctx, input.ModelID, input.UserID); err != nil {
		return nil, fmt.Errorf("create simulation: %w", err)
	}

	now := time.Now().UTC()
	sim := &domain.Simulation{
		Name:           input.Name,
		Description:    input.Description,
		SimulationType: input.SimulationType,
		ModelID:        input.ModelID,
		UserID:         input.UserID,
		Status:         domain.SimulationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.SimulationPending, Timestamp: now, Notes: "created"},
		},
	}

	if err := s.repo.Create(ctx, sim); err != nil {
		s.logger.Error().Err(err).Str("model_id", input.ModelID).Msg("failed to create simulation")
		return nil, err
	}

	s.logger.Info().
		Str("simulation_id", sim.ID).
		Str("model_id", sim.ModelID).
		Str("user_id", sim.UserID).
		Str("type", sim.SimulationType).
		Msg("simulation created")

	return sim, nil
}

func (s *SimulationService) Get(ctx context.Context, id, userID string) (*domain.Simulation, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *SimulationService) List(ctx context.Context, userID string, page, limit int) ([]*domain.Simulation, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.List(ctx, userID, page, limit)
}
