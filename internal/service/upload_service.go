package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"plant-store/internal/domain"
	"plant-store/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes is the size ceiling for a single image
const DefaultMaxUploadBytes int64 = 5 << 20

var extensionPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// ImageUpload is an image as received from a client
type ImageUpload struct {
	FileName    string
	ContentType string
	// Size is the client-declared size; -1 when unknown.
	Size int64
	Body io.Reader
}

// UploadService defines image upload operations
type UploadService interface {
	Upload(ctx context.Context, file ImageUpload) (*domain.Upload, error)
	Remove(ctx context.Context, upload domain.Upload) error
}

type uploadService struct {
	store    storage.ImageStore
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadService creates a new instance of UploadService
func NewUploadService(store storage.ImageStore, maxBytes int64, logger *zap.Logger) UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &uploadService{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload checks the file is an image within the size ceiling and stores it
// under a fresh name. Nothing is written when a check fails.
func (s *uploadService) Upload(ctx context.Context, file ImageUpload) (*domain.Upload, error) {
	if file.Body == nil {
		return nil, &UploadError{Kind: UploadMissingFile, Message: "No file provided"}
	}

	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, &UploadError{Kind: UploadNotImage, Message: "Only image files are allowed"}
	}

	if file.Size > s.maxBytes {
		return nil, s.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(file.Body, s.maxBytes+1))
	if err != nil {
		return nil, &UploadError{Kind: UploadIO, Message: "Error reading upload", Err: err}
	}
	if int64(len(data)) > s.maxBytes {
		return nil, s.tooLarge()
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		s.logger.Debug("Rejected upload with non-image content",
			zap.String("declared_type", file.ContentType),
			zap.String("detected_type", detected.String()),
		)
		return nil, &UploadError{Kind: UploadNotImage, Message: "Only image files are allowed"}
	}

	fileName := uuid.NewString() + fileExtension(file.FileName, detected)

	stored, err := s.store.Save(ctx, fileName, bytes.NewReader(data))
	if err != nil {
		s.logger.Error("Failed to store upload", zap.Error(err), zap.String("file_name", fileName))
		return nil, &UploadError{Kind: UploadIO, Message: "Error uploading file", Err: err}
	}

	s.logger.Info("Image uploaded",
		zap.String("file_name", fileName),
		zap.String("file_type", file.ContentType),
		zap.Int64("file_size", stored.Size),
	)

	return &domain.Upload{
		URL:      s.store.URL(fileName),
		FileName: fileName,
		FileType: file.ContentType,
		FileSize: stored.Size,
	}, nil
}

// Remove deletes a previously stored upload
func (s *uploadService) Remove(ctx context.Context, upload domain.Upload) error {
	if err := s.store.Delete(ctx, upload.FileName); err != nil {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	s.logger.Info("Image removed", zap.String("file_name", upload.FileName))
	return nil
}

func (s *uploadService) tooLarge() *UploadError {
	return &UploadError{
		Kind:    UploadTooLarge,
		Message: fmt.Sprintf("File size must be less than %dMB", s.maxBytes>>20),
	}
}

// fileExtension keeps the client's extension when it looks sane and falls
// back to the one implied by the detected content.
func fileExtension(fileName string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if extensionPattern.MatchString(ext) {
		return ext
	}
	return detected.Extension()
}
