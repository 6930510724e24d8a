package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"plant-store/internal/domain"
	"plant-store/internal/repository"
	"plant-store/internal/validation"

	"go.uber.org/zap"
)

// CreatePlantInput is a plant submission before normalization. Price,
// Categories and InStock accept the loose shapes the admin form and API
// clients send.
type CreatePlantInput struct {
	Name string
	// Price is a number or a numeric string.
	Price interface{}
	// Categories is a list of strings or a single string.
	Categories interface{}
	// InStock is a bool or the string "true"/"false"; nil means in stock.
	InStock     interface{}
	Description string
	Image       string
}

// PlantService defines the write side of the catalog
type PlantService interface {
	CreatePlant(ctx context.Context, input CreatePlantInput) (*domain.Plant, error)
	CreatePlantWithImage(ctx context.Context, input CreatePlantInput, image *ImageUpload) (*domain.Plant, error)
}

type plantService struct {
	plantRepo repository.PlantRepository
	uploads   UploadService
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewPlantService creates a new instance of PlantService
func NewPlantService(
	plantRepo repository.PlantRepository,
	uploads UploadService,
	timeout time.Duration,
	logger *zap.Logger,
) PlantService {
	return &plantService{
		plantRepo: plantRepo,
		uploads:   uploads,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePlant validates, normalizes and persists a new plant. Invalid input
// never reaches the store.
func (s *plantService) CreatePlant(ctx context.Context, input CreatePlantInput) (*domain.Plant, error) {
	plant, err := NormalizePlant(input)
	if err != nil {
		s.logger.Debug("Plant validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.insert(ctx, plant); err != nil {
		return nil, err
	}

	return plant, nil
}

// CreatePlantWithImage stores the image and inserts the plant as one
// server-side operation. If the insert fails the stored image is removed.
func (s *plantService) CreatePlantWithImage(ctx context.Context, input CreatePlantInput, image *ImageUpload) (*domain.Plant, error) {
	if image == nil {
		return s.CreatePlant(ctx, input)
	}

	plant, err := NormalizePlant(input)
	if err != nil {
		s.logger.Debug("Plant validation failed", zap.Error(err))
		return nil, err
	}

	upload, err := s.uploads.Upload(ctx, *image)
	if err != nil {
		return nil, err
	}
	plant.Image = upload.URL

	if err := s.insert(ctx, plant); err != nil {
		if removeErr := s.uploads.Remove(context.WithoutCancel(ctx), *upload); removeErr != nil {
			s.logger.Error("Failed to remove image after plant insert failed",
				zap.Error(removeErr),
				zap.String("file_name", upload.FileName),
			)
		}
		return nil, err
	}

	return plant, nil
}

func (s *plantService) insert(ctx context.Context, plant *domain.Plant) error {
	now := s.now().UTC()
	plant.CreatedAt = now
	plant.UpdatedAt = now

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.plantRepo.Create(ctx, plant); err != nil {
		s.logger.Error("Failed to insert plant", zap.Error(err), zap.String("name", plant.Name))
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	s.logger.Info("Plant created",
		zap.String("plant_id", plant.ID),
		zap.String("name", plant.Name),
		zap.Strings("categories", plant.Categories),
	)
	return nil
}

// NormalizePlant turns a submission into a plant ready for insertion or
// returns a *ValidationError naming every failing field.
func NormalizePlant(input CreatePlantInput) (*domain.Plant, error) {
	price, priceMsg := normalizePrice(input.Price)

	plant := &domain.Plant{
		Name:        strings.TrimSpace(input.Name),
		Price:       price,
		Categories:  validation.NormalizeCategories(normalizeCategories(input.Categories)),
		InStock:     NormalizeInStock(input.InStock),
		Description: input.Description,
		Image:       input.Image,
	}

	fieldErrors := validation.Struct(plant)
	if priceMsg != "" {
		for i := range fieldErrors {
			if fieldErrors[i].Field == validation.FieldPrice {
				fieldErrors[i].Message = priceMsg
			}
		}
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	return plant, nil
}

// NormalizeInStock maps the accepted inStock shapes to a bool. Only boolean
// true and the exact string "true" mean in stock; nil keeps the creation
// default of true; everything else is false. API clients that omit inStock
// therefore create in-stock plants.
func NormalizeInStock(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}

func normalizePrice(v interface{}) (float64, string) {
	var price float64
	switch t := v.(type) {
	case nil:
		return 0, validation.MsgPriceRequired
	case float64:
		price = t
	case float32:
		price = float64(t)
	case int:
		price = float64(t)
	case int64:
		price = float64(t)
	case json.Number:
		return validation.ParsePrice(t.String())
	case string:
		return validation.ParsePrice(t)
	default:
		return 0, validation.MsgPriceInvalid
	}

	if !validation.IsValidPrice(price) {
		return 0, validation.MsgPriceInvalid
	}
	return price, ""
}

func normalizeCategories(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return t
	case string:
		return []string{t}
	case []interface{}:
		categories := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				categories = append(categories, s)
			}
		}
		return categories
	default:
		return nil
	}
}
