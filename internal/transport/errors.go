package transport

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"plant-store/internal/middleware"
	"plant-store/internal/service"

	"go.uber.org/zap"
)

// multipartOverhead is the allowance for form fields and boundaries on top
// of the image size ceiling.
const multipartOverhead int64 = 1 << 20

// respondWithServiceError maps service errors to HTTP responses. fallback
// is the message used for store failures.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var validationErr *service.ValidationError
	var uploadErr *service.UploadError

	switch {
	case errors.As(err, &validationErr):
		middleware.RespondWithValidationErrors(w, validationErr.Fields)
	case errors.As(err, &uploadErr):
		if uploadErr.IsClientError() {
			middleware.RespondWithError(w, http.StatusBadRequest, uploadErr.Message)
			return
		}
		logger.Error("Upload failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, uploadErr.Message)
	case errors.Is(err, service.ErrStore), errors.Is(err, service.ErrStoreUnavailable):
		middleware.RespondWithError(w, http.StatusServiceUnavailable, fallback)
	default:
		logger.Error("Unexpected error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func tooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File size must be less than %dMB", maxBytes>>20)
}

// isTooLarge reports whether err came from an http.MaxBytesReader limit
func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr) || errors.Is(err, multipart.ErrMessageTooLarge)
}

// imageFromForm returns the optional "file" part of a parsed multipart form.
// The returned close func must be called once the upload is consumed.
func imageFromForm(r *http.Request) (*service.ImageUpload, func(), error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	return &service.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, nil
}
