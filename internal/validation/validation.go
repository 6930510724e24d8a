// Package validation holds the plant field rules shared by the server-side
// creation service and the admin form.
package validation

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names reported in validation errors
const (
	FieldName       = "name"
	FieldPrice      = "price"
	FieldCategories = "categories"
)

// Messages reported for each failing rule
const (
	MsgNameRequired       = "Plant name is required"
	MsgNameTooShort       = "Plant name must be at least 2 characters"
	MsgPriceRequired      = "Price is required"
	MsgPriceInvalid       = "Price must be a valid positive number"
	MsgCategoriesRequired = "At least one category is required"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldError represents a single failing field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct validates v against its validate tags and returns the failing
// fields in declaration order. Non-validation errors are reported on an
// empty field.
func Struct(v interface{}) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Message: err.Error()}}
	}

	fieldErrors := []FieldError{}
	seen := map[string]bool{}
	for _, e := range validationErrors {
		field := rootField(e.Field())
		if seen[field] {
			continue
		}
		seen[field] = true
		fieldErrors = append(fieldErrors, FieldError{
			Field:   field,
			Message: messageFor(field, e),
		})
	}

	return fieldErrors
}

// Name checks a plant name, returning "" when valid.
func Name(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return MsgNameRequired
	}
	if len([]rune(trimmed)) < 2 {
		return MsgNameTooShort
	}
	return ""
}

// ParsePrice parses a price the way the storefront accepts it: a finite
// number strictly greater than zero.
func ParsePrice(raw string) (float64, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, MsgPriceRequired
	}
	price, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !IsValidPrice(price) {
		return 0, MsgPriceInvalid
	}
	return price, ""
}

// IsValidPrice reports whether price is finite and positive.
func IsValidPrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price > 0
}

// NormalizeCategories trims every entry, drops empty ones and removes exact
// duplicates while keeping first-seen order.
func NormalizeCategories(categories []string) []string {
	normalized := make([]string, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		normalized = append(normalized, c)
	}
	return normalized
}

// rootField strips slice indexes so "categories[0]" reports as "categories".
func rootField(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return field[:i]
	}
	return field
}

func messageFor(field string, e validator.FieldError) string {
	switch field {
	case FieldName:
		if e.Tag() == "required" {
			return MsgNameRequired
		}
		return MsgNameTooShort
	case FieldPrice:
		return MsgPriceInvalid
	case FieldCategories:
		return MsgCategoriesRequired
	}

	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + e.Param()
	default:
		return "Invalid value"
	}
}
