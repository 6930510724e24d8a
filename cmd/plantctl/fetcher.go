package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"plant-store/internal/adminform"
	"plant-store/internal/catalogview"
	"plant-store/internal/domain"
)

// contextFetcher ties the view controller's fetches to the command's
// deadline as well as the controller's own cancellation.
type contextFetcher struct {
	ctx     context.Context
	fetcher catalogview.Fetcher
}

func (f *contextFetcher) ListPlants(ctx context.Context, filter domain.PlantFilter) ([]domain.Plant, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(f.ctx, cancel)
	defer stop()
	return f.fetcher.ListPlants(ctx, filter)
}

func readImage(path string) (*adminform.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &adminform.Image{FileName: filepath.Base(path), Data: data}, nil
}
