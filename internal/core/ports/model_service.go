package ports

import (
	"context"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// CreateModelInput carries all data needed to create an aquifer model.
type CreateModelInput struct {
	Name          string
	Description   string
	ModelType     string
	Configuration map[string]any
	UserID        string
}

// UpdateModelInput carries the mutable fields of a model. Nil pointers leave
// the stored value untouched.
type UpdateModelInput struct {
	Name          *string
	Description   *string
	Configuration map[string]any
	Status        *string
}

// ModelService defines use-case operations for aquifer models. All operations
// are scoped to the owning user; admins see everything.
type ModelService interface {
	Create(ctx context.Context, input CreateModelInput) (*domain.Model, error)
	Get(ctx context.Context, id, userID string) (*domain.Model, error)
	List(ctx context.Context, userID string, page, limit int) ([]*domain.Model, int64, error)
	Update(ctx context.Context, id, userID string, input UpdateModelInput) (*domain.Model, error)
	Delete(ctx context.Context, id, userID string) error
}
