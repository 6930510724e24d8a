package service

import (
	"context"
	"fmt"
	"time"

	"plant-store/internal/domain"
	"plant-store/internal/query"
	"plant-store/internal/repository"

	"go.uber.org/zap"
)

// CatalogService defines the read side of the storefront
type CatalogService interface {
	ListPlants(ctx context.Context, filter domain.PlantFilter) ([]domain.Plant, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type catalogService struct {
	plantRepo repository.PlantRepository
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService. Every store
// call is bounded by timeout when it is positive.
func NewCatalogService(plantRepo repository.PlantRepository, timeout time.Duration, logger *zap.Logger) CatalogService {
	return &catalogService{
		plantRepo: plantRepo,
		timeout:   timeout,
		logger:    logger,
	}
}

// ListPlants returns every plant matching the filter
func (s *catalogService) ListPlants(ctx context.Context, filter domain.PlantFilter) ([]domain.Plant, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	predicate := query.Build(filter)

	plants, err := s.plantRepo.List(ctx, predicate)
	if err != nil {
		s.logger.Error("Failed to list plants",
			zap.Error(err),
			zap.String("search", filter.Search),
			zap.String("category", filter.Category),
			zap.Bool("in_stock_only", filter.InStockOnly),
		)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s.logger.Debug("Listed plants",
		zap.Int("count", len(plants)),
		zap.Bool("filtered", !predicate.IsEmpty()),
	)

	return plants, nil
}

// ListCategories returns the distinct categories across all plants
func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	categories, err := s.plantRepo.Categories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return categories, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
