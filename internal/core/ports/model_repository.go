package ports

import (
	"context"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// ModelRepository defines persistence operations for aquifer models.
// When userID is non-empty, queries are additionally filtered by owner.
type ModelRepository interface {
	Create(ctx context.Context, m *domain.Model) error
	FindByID(ctx context.Context, id string, userID string) (*domain.Model, error)
	List(ctx context.Context, userID string, page, limit int) ([]*domain.Model, int64, error)
	Update(ctx context.Context, m *domain.Model) error
	Delete(ctx context.Context, id string, userID string) error
}
