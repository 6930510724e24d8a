package transport

import (
	"mime"
	"net/http"

	"plant-store/internal/domain"
	"plant-store/internal/middleware"
	"plant-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreatePlantRequest represents the JSON create payload. Price, categories
// and inStock are left loose so the service can normalize every shape
// clients send.
type CreatePlantRequest struct {
	Name        string      `json:"name"`
	Price       interface{} `json:"price"`
	Categories  interface{} `json:"categories"`
	InStock     interface{} `json:"inStock"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
}

// ListPlantsResponse is returned by GET /api/plants
type ListPlantsResponse struct {
	Plants []domain.Plant `json:"plants"`
	Error  string         `json:"error,omitempty"`
}

// CreatePlantResponse is returned by POST /api/plants
type CreatePlantResponse struct {
	Success bool   `json:"success"`
	PlantID string `json:"plantId"`
}

// PlantHandler handles HTTP requests for the plant catalog
type PlantHandler struct {
	catalogService service.CatalogService
	plantService   service.PlantService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewPlantHandler creates a new PlantHandler
func NewPlantHandler(
	catalogService service.CatalogService,
	plantService service.PlantService,
	maxUploadBytes int64,
	logger *zap.Logger,
) *PlantHandler {
	return &PlantHandler{
		catalogService: catalogService,
		plantService:   plantService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the plant routes. writeMiddleware wraps the
// create endpoint only.
func (h *PlantHandler) RegisterRoutes(r chi.Router, writeMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/plants", func(r chi.Router) {
		r.Get("/", h.ListPlants)
		r.With(writeMiddleware...).Post("/", h.CreatePlant)
	})
}

// ListPlants handles GET /api/plants?search=&category=&inStock=true
func (h *PlantHandler) ListPlants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PlantFilter{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		InStockOnly: q.Get("inStock") == "true",
	}

	plants, err := h.catalogService.ListPlants(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to fetch plants", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusServiceUnavailable, ListPlantsResponse{
			Plants: []domain.Plant{},
			Error:  "Failed to fetch plants",
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListPlantsResponse{Plants: plants})
}

// CreatePlant handles POST /api/plants with either a JSON body or a
// multipart form that may carry the image file.
func (h *PlantHandler) CreatePlant(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		h.createFromForm(w, r)
		return
	}

	var req CreatePlantRequest
	if err := middleware.DecodeJSON(w, r, &req, multipartOverhead); err != nil {
		h.logger.Debug("Create plant decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plant, err := h.plantService.CreatePlant(r.Context(), service.CreatePlantInput{
		Name:        req.Name,
		Price:       req.Price,
		Categories:  req.Categories,
		InStock:     req.InStock,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to create plant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CreatePlantResponse{Success: true, PlantID: plant.ID})
}

func (h *PlantHandler) createFromForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.Debug("Create plant form parse failed", zap.Error(err))
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

	input := service.CreatePlantInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Image:       r.FormValue("image"),
	}
	if v, ok := r.MultipartForm.Value["price"]; ok && len(v) > 0 {
		input.Price = v[0]
	}
	if v := r.MultipartForm.Value["categories"]; len(v) > 0 {
		input.Categories = v
	}
	if v, ok := r.MultipartForm.Value["inStock"]; ok && len(v) > 0 {
		input.InStock = v[0]
	}

	plant, err := h.plantService.CreatePlantWithImage(r.Context(), input, image)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to create plant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CreatePlantResponse{Success: true, PlantID: plant.ID})
}
