// Package adminform holds the state of the add-plant form and checks it
// with the same rules the API enforces, so mistakes surface before a
// round trip.
package adminform

import (
	"context"
	"errors"
	"strings"

	"plant-store/internal/client"
	"plant-store/internal/domain"
	"plant-store/internal/validation"
)

// Error keys beyond the validated fields
const (
	FieldGeneral = "general"
	FieldImage   = "image"
)

const (
	MsgUploadFailed = "Failed to upload image"
	MsgCreateFailed = "Failed to add plant"
)

// ErrInvalid is returned by Submit when local validation fails
var ErrInvalid = errors.New("form has validation errors")

// Submitter is the backend a form submits to. *client.Client satisfies it.
type Submitter interface {
	Upload(ctx context.Context, fileName string, data []byte) (*domain.Upload, error)
	CreatePlant(ctx context.Context, plant client.PlantRequest) (string, error)
}

// Image is an image picked for upload
type Image struct {
	FileName string
	Data     []byte
}

// Form is the add-plant form. It is not safe for concurrent use.
type Form struct {
	name        string
	price       string
	categories  []string
	inStock     bool
	description string
	image       *Image

	errors    map[string]string
	submitted bool
}

// New returns an empty form. New plants default to in stock.
func New() *Form {
	return &Form{
		inStock:    true,
		categories: []string{},
		errors:     map[string]string{},
	}
}

// SetName updates the name and clears its error
func (f *Form) SetName(name string) {
	f.name = name
	delete(f.errors, validation.FieldName)
}

// SetPrice updates the raw price input and clears its error
func (f *Form) SetPrice(price string) {
	f.price = price
	delete(f.errors, validation.FieldPrice)
}

// SetDescription updates the optional description
func (f *Form) SetDescription(description string) {
	f.description = description
}

// SetInStock sets the availability flag
func (f *Form) SetInStock(inStock bool) {
	f.inStock = inStock
}

// SetImage picks an image; nil clears it
func (f *Form) SetImage(image *Image) {
	f.image = image
	delete(f.errors, FieldImage)
}

// AddCategory appends a trimmed category. Empty input and exact duplicates
// are ignored.
func (f *Form) AddCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		return
	}
	for _, c := range f.categories {
		if c == category {
			return
		}
	}
	f.categories = append(f.categories, category)
	delete(f.errors, validation.FieldCategories)
}

// RemoveCategory drops category if present
func (f *Form) RemoveCategory(category string) {
	kept := f.categories[:0]
	for _, c := range f.categories {
		if c != category {
			kept = append(kept, c)
		}
	}
	f.categories = kept
}

// Categories returns a copy of the chosen categories
func (f *Form) Categories() []string {
	return append([]string(nil), f.categories...)
}

// Errors returns a copy of the current per-field errors
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Submitted reports whether the last Submit succeeded
func (f *Form) Submitted() bool {
	return f.submitted
}

// Validate checks every field and replaces the recorded errors
func (f *Form) Validate() bool {
	f.errors = map[string]string{}

	if msg := validation.Name(f.name); msg != "" {
		f.errors[validation.FieldName] = msg
	}
	if _, msg := validation.ParsePrice(f.price); msg != "" {
		f.errors[validation.FieldPrice] = msg
	}
	if len(f.categories) == 0 {
		f.errors[validation.FieldCategories] = validation.MsgCategoriesRequired
	}

	return len(f.errors) == 0
}

// Submit validates the form, uploads the image if one is set, then creates
// the plant with the returned image URL. The form resets on success. On
// failure the form keeps its values and records the reason.
func (f *Form) Submit(ctx context.Context, backend Submitter) (string, error) {
	f.submitted = false

	if !f.Validate() {
		return "", ErrInvalid
	}
	price, _ := validation.ParsePrice(f.price)

	var imageURL string
	if f.image != nil {
		upload, err := backend.Upload(ctx, f.image.FileName, f.image.Data)
		if err != nil {
			f.errors[FieldGeneral] = MsgUploadFailed
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				f.errors[FieldImage] = apiErr.Message
			}
			return "", err
		}
		imageURL = upload.URL
	}

	id, err := backend.CreatePlant(ctx, client.PlantRequest{
		Name:        strings.TrimSpace(f.name),
		Price:       price,
		Categories:  f.Categories(),
		InStock:     f.inStock,
		Description: strings.TrimSpace(f.description),
		Image:       imageURL,
	})
	if err != nil {
		f.errors[FieldGeneral] = MsgCreateFailed
		f.mergeServerErrors(err)
		return "", err
	}

	f.reset()
	f.submitted = true
	return id, nil
}

// mergeServerErrors copies field messages from a 400 response
func (f *Form) mergeServerErrors(err error) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	fields, ok := apiErr.Details["validation_errors"].(map[string]interface{})
	if !ok {
		return
	}
	for field, msg := range fields {
		if s, ok := msg.(string); ok {
			f.errors[field] = s
		}
	}
}

func (f *Form) reset() {
	*f = *New()
}
