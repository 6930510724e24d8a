// Package client talks to the plant store HTTP API. The admin form and
// the catalog view controller use it as their backend, as does plantctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"plant-store/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// PlantRequest is the JSON body sent to create a plant
type PlantRequest struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Categories  []string `json:"categories"`
	InStock     bool     `json:"inStock"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// Client is an HTTP client for the plant store API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Client for the API at baseURL
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListPlants fetches the plants matching filter
func (c *Client) ListPlants(ctx context.Context, filter domain.PlantFilter) ([]domain.Plant, error) {
	params := url.Values{}
	if filter.HasSearch() {
		params.Set("search", filter.Search)
	}
	if filter.HasCategory() {
		params.Set("category", filter.Category)
	}
	if filter.InStockOnly {
		params.Set("inStock", "true")
	}

	target := "/api/plants"
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var resp struct {
		Plants []domain.Plant `json:"plants"`
	}
	if err := c.do(ctx, http.MethodGet, target, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Plants, nil
}

// Categories fetches the distinct category list. A degraded response
// (200 with an error field) is returned as an error.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
		Error      string   `json:"error"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return resp.Categories, &APIError{StatusCode: http.StatusOK, Message: resp.Error}
	}
	return resp.Categories, nil
}

// CreatePlant creates a plant and returns its id
func (c *Client) CreatePlant(ctx context.Context, plant PlantRequest) (string, error) {
	body, err := json.Marshal(plant)
	if err != nil {
		return "", fmt.Errorf("failed to encode plant: %w", err)
	}

	var resp struct {
		PlantID string `json:"plantId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/plants", bytes.NewReader(body), "application/json", &resp); err != nil {
		return "", err
	}
	return resp.PlantID, nil
}

// Upload sends an image and returns where it was stored. The part's
// content type is detected from the data.
func (c *Client) Upload(ctx context.Context, fileName string, data []byte) (*domain.Upload, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(fileName)))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	var upload domain.Upload
	if err := c.do(ctx, http.MethodPost, "/api/upload", body, mw.FormDataContentType(), &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API call",
		zap.String("method", method),
		zap.String("target", target),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error   string                 `json:"error"`
			Details map[string]interface{} `json:"details"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Details = errBody.Details
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
