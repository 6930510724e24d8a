package transport

import (
	"net/http"

	"plant-store/internal/middleware"
	"plant-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UploadHandler accepts image uploads ahead of plant creation
type UploadHandler struct {
	uploadService  service.UploadService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService service.UploadService, maxUploadBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService:  uploadService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the upload route behind writeMiddleware
func (h *UploadHandler) RegisterRoutes(r chi.Router, writeMiddleware ...func(http.Handler) http.Handler) {
	r.With(writeMiddleware...).Post("/api/upload", h.Upload)
}

// Upload handles POST /api/upload with a multipart "file" part
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.Debug("Upload form parse failed", zap.Error(err))
		if isTooLarge(err) {
			middleware.RespondWithError(w, http.StatusBadRequest, tooLargeMessage(h.maxUploadBytes))
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	image, closeImage, err := imageFromForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer closeImage()

	if image == nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "No file provided")
		return
	}

	upload, err := h.uploadService.Upload(r.Context(), *image)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Error uploading file")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, upload)
}
