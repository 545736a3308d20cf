package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
)

// PredictionRepository defines the interface for prediction history operations
type PredictionRepository interface {
	// Create stores a new prediction
	Create(ctx context.Context, prediction *entity.Prediction) error

	// GetByID retrieves a prediction by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Prediction, error)

	// List retrieves predictions newest first with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.Prediction, int64, error)
}

// LabelCache stores labels by encoding fingerprint
type LabelCache interface {
	// Get returns the cached label and whether it was found
	Get(ctx context.Context, fingerprint string) (entity.Label, bool, error)

	// Set stores a label for the fingerprint with a time-to-live
	Set(ctx context.Context, fingerprint string, label entity.Label, ttl time.Duration) error
}
