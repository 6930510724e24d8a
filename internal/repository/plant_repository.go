package repository

import (
	"context"

	"plant-store/internal/domain"
	"plant-store/internal/query"
)

// PlantRepository defines the interface for plant data access
type PlantRepository interface {
	// Create inserts the plant and sets its store-assigned ID.
	Create(ctx context.Context, plant *domain.Plant) error
	// List returns every plant matching the predicate, unsorted and unpaginated.
	List(ctx context.Context, predicate query.Predicate) ([]domain.Plant, error)
	// Categories returns the distinct category values across all plants, sorted.
	Categories(ctx context.Context) ([]string, error)
	// ImageRefs returns every non-empty image reference held by a plant.
	ImageRefs(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
