package repository

import (
	"context"
	"sort"
	"sync"

	"plant-store/internal/domain"
	"plant-store/internal/query"

	"github.com/google/uuid"
)

// MemoryPlantRepository keeps plants in process memory. It backs local
// development without a database and the transport tests.
type MemoryPlantRepository struct {
	mu     sync.RWMutex
	plants []domain.Plant
}

// NewMemoryPlantRepository creates an empty in-memory repository
func NewMemoryPlantRepository() *MemoryPlantRepository {
	return &MemoryPlantRepository{}
}

func (r *MemoryPlantRepository) Create(ctx context.Context, plant *domain.Plant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	plant.ID = uuid.NewString()
	stored := *plant
	stored.Categories = append([]string(nil), plant.Categories...)
	r.plants = append(r.plants, stored)
	return nil
}

func (r *MemoryPlantRepository) List(ctx context.Context, predicate query.Predicate) ([]domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	plants := []domain.Plant{}
	for _, p := range r.plants {
		if predicate.Match(p) {
			p.Categories = append([]string(nil), p.Categories...)
			plants = append(plants, p)
		}
	}
	return plants, nil
}

func (r *MemoryPlantRepository) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	categories := []string{}
	for _, p := range r.plants {
		for _, c := range p.Categories {
			if !seen[c] {
				seen[c] = true
				categories = append(categories, c)
			}
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *MemoryPlantRepository) ImageRefs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := []string{}
	for _, p := range r.plants {
		if p.Image != "" {
			refs = append(refs, p.Image)
		}
	}
	return refs, nil
}

func (r *MemoryPlantRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.plants))
	r.plants = nil
	return n, nil
}

func (r *MemoryPlantRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
