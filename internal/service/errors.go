package service

import (
	"errors"
	"strings"

	"plant-store/internal/validation"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("plant store unavailable")
	ErrStore            = errors.New("plant store error")
)

// ValidationError lists every field that failed validation
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message returns the message recorded for field, if any
func (e *ValidationError) Message(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// UploadErrorKind classifies upload failures
type UploadErrorKind int

const (
	UploadMissingFile UploadErrorKind = iota
	UploadNotImage
	UploadTooLarge
	UploadIO
)

// UploadError reports why an image upload was rejected or failed
type UploadError struct {
	Kind    UploadErrorKind
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether the caller can fix the upload by sending
// different content.
func (e *UploadError) IsClientError() bool {
	return e.Kind != UploadIO
}
