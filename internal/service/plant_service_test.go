package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"plant-store/internal/domain"
	"plant-store/internal/storage"
	"plant-store/internal/validation"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPlantService(repo *mockPlantRepository, store storage.ImageStore) PlantService {
	logger := zap.NewNop()
	return NewPlantService(repo, NewUploadService(store, DefaultMaxUploadBytes, logger), time.Second, logger)
}

// Property: valid submissions are created and never carry duplicate categories
func TestProperty_ValidPlantsAreCreatedWithoutDuplicates(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid input creates a plant with unique categories", prop.ForAll(
		func(name string, price float64, categories []string) bool {
			repo := newMockPlantRepository()
			svc := newTestPlantService(repo, storage.NewLocalImageStore(t.TempDir(), "/uploads"))

			doubled := append(append([]string{}, categories...), categories...)
			plant, err := svc.CreatePlant(context.Background(), CreatePlantInput{
				Name:       name,
				Price:      price,
				Categories: doubled,
			})
			if err != nil {
				t.Logf("FAIL: unexpected error: %v", err)
				return false
			}

			seen := map[string]bool{}
			for _, c := range plant.Categories {
				if seen[c] {
					t.Logf("FAIL: duplicate category %q", c)
					return false
				}
				seen[c] = true
			}

			return plant.ID != "" &&
				plant.InStock &&
				plant.CreatedAt.Equal(plant.UpdatedAt) &&
				!plant.CreatedAt.IsZero() &&
				repo.createCalls == 1
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z0-9 ]{1,40}[A-Za-z]`),
		gen.Float64Range(0.01, 9999.99),
		gen.SliceOfN(3, gen.OneConstOf("Indoor", "Succulent", "Low Maintenance")),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: non-positive or non-numeric prices are rejected without touching the store
func TestProperty_InvalidPriceNeverReachesStore(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-positive prices are rejected", prop.ForAll(
		func(price float64) bool {
			repo := newMockPlantRepository()
			svc := newTestPlantService(repo, storage.NewLocalImageStore(t.TempDir(), "/uploads"))

			_, err := svc.CreatePlant(context.Background(), CreatePlantInput{
				Name: "Fern", Price: price, Categories: []string{"Indoor"},
			})

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				return false
			}
			_, hasPrice := validationErr.Message(validation.FieldPrice)
			return hasPrice && repo.createCalls == 0
		},
		gen.Float64Range(-10000, 0),
	))

	properties.Property("non-numeric price strings are rejected", prop.ForAll(
		func(price string) bool {
			repo := newMockPlantRepository()
			svc := newTestPlantService(repo, storage.NewLocalImageStore(t.TempDir(), "/uploads"))

			_, err := svc.CreatePlant(context.Background(), CreatePlantInput{
				Name: "Fern", Price: price, Categories: []string{"Indoor"},
			})
			return errors.Is(err, ErrValidation) && repo.createCalls == 0
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreatePlant_ReportsEveryFailingField(t *testing.T) {
	repo := newMockPlantRepository()
	svc := newTestPlantService(repo, storage.NewLocalImageStore(t.TempDir(), "/uploads"))

	_, err := svc.CreatePlant(context.Background(), CreatePlantInput{
		Name:       " x ",
		Price:      "abc",
		Categories: []string{"  ", ""},
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []validation.FieldError{
		{Field: validation.FieldName, Message: validation.MsgNameTooShort},
		{Field: validation.FieldPrice, Message: validation.MsgPriceInvalid},
		{Field: validation.FieldCategories, Message: validation.MsgCategoriesRequired},
	}, validationErr.Fields)
	assert.Zero(t, repo.createCalls)
}

func TestCreatePlant_MissingPrice(t *testing.T) {
	_, err := NormalizePlant(CreatePlantInput{Name: "Fern", Categories: "Indoor"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	msg, ok := validationErr.Message(validation.FieldPrice)
	assert.True(t, ok)
	assert.Equal(t, validation.MsgPriceRequired, msg)
}

func TestCreatePlant_NormalizesInput(t *testing.T) {
	repo := newMockPlantRepository()
	svc := newTestPlantService(repo, storage.NewLocalImageStore(t.TempDir(), "/uploads"))

	plant, err := svc.CreatePlant(context.Background(), CreatePlantInput{
		Name:        "  Jade Plant ",
		Price:       "199",
		Categories:  []interface{}{" Succulent", "Succulent", "succulent", 7},
		InStock:     "false",
		Description: "Symbol of good luck",
		Image:       "/jade-plant.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jade Plant", plant.Name)
	assert.Equal(t, 199.0, plant.Price)
	assert.Equal(t, []string{"Succulent", "succulent"}, plant.Categories)
	assert.False(t, plant.InStock)
	assert.Equal(t, "/jade-plant.png", plant.Image)
	assert.Equal(t, time.UTC, plant.CreatedAt.Location())
}

func TestCreatePlant_SingleCategoryString(t *testing.T) {
	plant, err := NormalizePlant(CreatePlantInput{Name: "Marigold", Price: 99, Categories: "Outdoor"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Outdoor"}, plant.Categories)
}

func TestNormalizeInStock(t *testing.T) {
	cases := []struct {
		in   interface{}
		want bool
	}{
		{nil, true},
		{true, true},
		{"true", true},
		{false, false},
		{"false", false},
		{"TRUE", false},
		{"yes", false},
		{1, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeInStock(c.in), "input %#v", c.in)
	}
}

func TestCreatePlant_StoreFailure(t *testing.T) {
	repo := newMockPlantRepository()
	repo.failCreate = true
	svc := newTestPlantService(repo, storage.NewLocalImageStore(t.TempDir(), "/uploads"))

	_, err := svc.CreatePlant(context.Background(), CreatePlantInput{
		Name: "Fern", Price: 10.0, Categories: []string{"Indoor"},
	})

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, repo.createCalls)
}

func TestCreatePlantWithImage_AttachesUploadedURL(t *testing.T) {
	repo := newMockPlantRepository()
	dir := t.TempDir()
	svc := newTestPlantService(repo, storage.NewLocalImageStore(dir, "/uploads"))

	plant, err := svc.CreatePlantWithImage(context.Background(),
		CreatePlantInput{Name: "Fern", Price: 10.0, Categories: []string{"Indoor"}},
		&ImageUpload{FileName: "fern.png", ContentType: "image/png", Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)},
	)
	require.NoError(t, err)

	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.png$`, plant.Image)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreatePlantWithImage_RemovesImageWhenInsertFails(t *testing.T) {
	repo := newMockPlantRepository()
	repo.failCreate = true
	dir := t.TempDir()
	svc := newTestPlantService(repo, storage.NewLocalImageStore(dir, "/uploads"))

	_, err := svc.CreatePlantWithImage(context.Background(),
		CreatePlantInput{Name: "Fern", Price: 10.0, Categories: []string{"Indoor"}},
		&ImageUpload{FileName: "fern.png", ContentType: "image/png", Size: -1, Body: bytes.NewReader(pngBytes)},
	)
	require.ErrorIs(t, err, ErrStore)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "orphaned image should be removed")
}

func TestCreatePlantWithImage_InvalidInputSkipsUpload(t *testing.T) {
	repo := newMockPlantRepository()
	dir := t.TempDir()
	svc := newTestPlantService(repo, storage.NewLocalImageStore(dir, "/uploads"))

	_, err := svc.CreatePlantWithImage(context.Background(),
		CreatePlantInput{Name: "F", Price: 10.0, Categories: []string{"Indoor"}},
		&ImageUpload{FileName: "fern.png", ContentType: "image/png", Size: -1, Body: bytes.NewReader(pngBytes)},
	)
	require.ErrorIs(t, err, ErrValidation)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, repo.createCalls)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: []validation.FieldError{{Field: "name", Message: "too short"}}}
	assert.Equal(t, "validation failed: name: too short", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
	_, ok := err.Message("price")
	assert.False(t, ok)
}

func TestNormalizePlant_KeepsPlantShape(t *testing.T) {
	plant, err := NormalizePlant(CreatePlantInput{Name: "Fern", Price: 1, Categories: []string{"Indoor"}})
	require.NoError(t, err)
	assert.Equal(t, domain.Plant{Name: "Fern", Price: 1, Categories: []string{"Indoor"}, InStock: true}, *plant)
}
