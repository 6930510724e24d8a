package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"plant-store/internal/validation"
)

// ErrEmptyBody is returned by DecodeJSON when the request carries no body
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes a JSON request body into v. Bodies larger than
// maxBytes are rejected when maxBytes is positive.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// RespondWithValidationErrors sends a 400 naming the first failing field
// in error and every failing field under details.
func RespondWithValidationErrors(w http.ResponseWriter, fieldErrors []validation.FieldError) {
	message := "Validation failed"
	if len(fieldErrors) > 0 {
		message = fieldErrors[0].Message
	}

	fields := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields[fe.Field] = fe.Message
	}

	RespondWithErrorDetails(w, http.StatusBadRequest, message, map[string]interface{}{
		"validation_errors": fields,
	})
}
