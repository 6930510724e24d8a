package transport

import (
	"net/http"

	"plant-store/internal/middleware"
	"plant-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListCategoriesResponse is returned by GET /api/categories
type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
	Error      string   `json:"error,omitempty"`
}

// CategoryHandler serves the distinct category list
type CategoryHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catalogService service.CatalogService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/categories", h.ListCategories)
}

// ListCategories handles GET /api/categories. A store failure degrades to
// an empty list so the storefront filter still renders.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Warn("Serving empty category list", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusOK, ListCategoriesResponse{
			Categories: []string{},
			Error:      "Failed to fetch categories",
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListCategoriesResponse{Categories: categories})
}
