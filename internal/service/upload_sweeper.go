package service

import (
	"context"
	"fmt"
	"time"

	"plant-store/internal/repository"
	"plant-store/internal/storage"

	"go.uber.org/zap"
)

// SweepResult summarizes one reconciliation pass over the upload store
type SweepResult struct {
	Scanned int
	Kept    int
	Removed []string
}

// UploadSweeper removes uploaded images that no plant references. Files
// younger than the grace period are kept, since an admin may still be
// between the upload and create calls.
type UploadSweeper struct {
	plantRepo repository.PlantRepository
	store     storage.ImageStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewUploadSweeper creates a new UploadSweeper
func NewUploadSweeper(plantRepo repository.PlantRepository, store storage.ImageStore, logger *zap.Logger) *UploadSweeper {
	return &UploadSweeper{
		plantRepo: plantRepo,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// Sweep deletes orphaned uploads older than grace. With dryRun set it only
// reports what it would delete.
func (s *UploadSweeper) Sweep(ctx context.Context, grace time.Duration, dryRun bool) (SweepResult, error) {
	refs, err := s.plantRepo.ImageRefs(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	referenced := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if name, ok := s.store.NameFromURL(ref); ok {
			referenced[name] = true
		}
	}

	files, err := s.store.List(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list uploads: %w", err)
	}

	cutoff := s.now().Add(-grace)
	result := SweepResult{Scanned: len(files), Removed: []string{}}

	for _, file := range files {
		if referenced[file.Name] || file.ModTime.After(cutoff) {
			result.Kept++
			continue
		}

		if !dryRun {
			if err := s.store.Delete(ctx, file.Name); err != nil {
				return result, fmt.Errorf("failed to remove orphaned upload %s: %w", file.Name, err)
			}
		}
		result.Removed = append(result.Removed, file.Name)
	}

	s.logger.Info("Upload sweep finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("kept", result.Kept),
		zap.Int("removed", len(result.Removed)),
		zap.Bool("dry_run", dryRun),
	)

	return result, nil
}
