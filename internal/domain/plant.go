package domain

import "time"

// AllCategories is the category filter value meaning "no category constraint".
const AllCategories = "all"

// Plant represents a plant in the catalog
type Plant struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name" validate:"required,min=2"`
	Price       float64   `json:"price" validate:"gt=0"`
	Categories  []string  `json:"categories" validate:"required,min=1,dive,required"`
	InStock     bool      `json:"inStock"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlantFilter holds the optional storefront filters
type PlantFilter struct {
	Search      string
	Category    string
	InStockOnly bool
}

// HasCategory reports whether the filter constrains on a category.
func (f PlantFilter) HasCategory() bool {
	return f.Category != "" && f.Category != AllCategories
}

// HasSearch reports whether the filter carries a free-text term.
func (f PlantFilter) HasSearch() bool {
	return f.Search != ""
}

// Upload describes an image stored by the upload endpoint
type Upload struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}
