package seed

import (
	"context"
	"testing"

	"plant-store/internal/domain"
	"plant-store/internal/query"
	"plant-store/internal/repository"
	"plant-store/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlants_AreValid(t *testing.T) {
	plants := Plants()
	require.Len(t, plants, 15)

	for _, p := range plants {
		assert.Empty(t, validation.Struct(&p), p.Name)
		assert.True(t, p.InStock, p.Name)
	}
}

func TestRun_ReplacesExistingPlants(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPlantRepository()
	require.NoError(t, repo.Create(ctx, &domain.Plant{Name: "Leftover", Price: 1, Categories: []string{"Old"}}))

	n, err := Run(ctx, repo, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	plants, err := repo.List(ctx, query.Build(domain.PlantFilter{}))
	require.NoError(t, err)
	assert.Len(t, plants, 15)

	succulents, err := repo.List(ctx, query.Build(domain.PlantFilter{Search: "succulent"}))
	require.NoError(t, err)
	assert.Len(t, succulents, 5)

	for _, p := range plants {
		assert.NotEqual(t, "Leftover", p.Name)
		assert.False(t, p.CreatedAt.IsZero())
	}
}
