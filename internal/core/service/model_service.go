package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ModelService implements CRUD use cases for aquifer models. Every operation
// is scoped to the owning user id resolved by the auth middleware.
type ModelService struct {
	repo   ports.ModelRepository
	logger zerolog.Logger
}

func NewModelService(repo ports.ModelRepository, logger zerolog.Logger) *ModelService {
	return &ModelService{repo: repo, logger: logger}
}

func (s *ModelService) Create(ctx context.Context, input ports.CreateModelInput) (*domain.Model, error) {
	now := time.Now().UTC()
	model := &domain.Model{
		Name:          input.Name,
		Description:   input.Description,
		ModelType:     input.ModelType,
		Configuration: input.Configuration,
		Status:        "active",
		UserID:        input.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, model); err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create model")
		return nil, err
	}

	s.logger.Info().Str("model_id", model.ID).Str("user_id", input.UserID).Str("model_type", model.ModelType).Msg("model created")
	return model, nil
}

func (s *ModelService) Get(ctx context.Context, id, userID string) (*domain.Model, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *ModelService) List(ctx context.Context, userID string, page, limit int) ([]*domain.Model, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.List(ctx, userID, page, limit)
}

func (s *ModelService) Update(ctx context.Context, id, userID string, input ports.UpdateModelInput) (*domain.Model, error) {
	model, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		model.Name = *input.Name
	}
	if input.Description != nil {
		model.Description = *input.Description
	}
	if input.Configuration != nil {
		model.Configuration = input.Configuration
	}
	if input.Status != nil {
		model.Status = *input.Status
	}
	model.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, model); err != nil {
		s.logger.Error().Err(err).Str("model_id", id).Msg("failed to update model")
		return nil, err
	}
	return model, nil
}

func (s *ModelService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info().Str("model_id", id).Str("user_id", userID).Msg("model deleted")
	return nil
}

// normalizePage clamps paging parameters to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
