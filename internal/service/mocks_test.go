package service

import (
	"context"
	"errors"

	"plant-store/internal/domain"
	"plant-store/internal/query"
	"plant-store/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// Mock repository for testing
type mockPlantRepository struct {
	*repository.MemoryPlantRepository
	createCalls int
	listCalls   int
	failCreate  bool
	failReads   bool
}

func newMockPlantRepository() *mockPlantRepository {
	return &mockPlantRepository{MemoryPlantRepository: repository.NewMemoryPlantRepository()}
}

func (m *mockPlantRepository) Create(ctx context.Context, plant *domain.Plant) error {
	m.createCalls++
	if m.failCreate {
		return errStoreDown
	}
	return m.MemoryPlantRepository.Create(ctx, plant)
}

func (m *mockPlantRepository) List(ctx context.Context, predicate query.Predicate) ([]domain.Plant, error) {
	m.listCalls++
	if m.failReads {
		return nil, errStoreDown
	}
	return m.MemoryPlantRepository.List(ctx, predicate)
}

func (m *mockPlantRepository) Categories(ctx context.Context) ([]string, error) {
	if m.failReads {
		return nil, errStoreDown
	}
	return m.MemoryPlantRepository.Categories(ctx)
}

func (m *mockPlantRepository) ImageRefs(ctx context.Context) ([]string, error) {
	if m.failReads {
		return nil, errStoreDown
	}
	return m.MemoryPlantRepository.ImageRefs(ctx)
}

// pngBytes is the smallest payload mimetype recognizes as image/png
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
