package media

import "errors"

var (
	// ErrNotFound is returned when no blob exists under a key
	ErrNotFound = errors.New("media not found")

	// ErrInvalidKey is returned when a key is empty or escapes the store root
	ErrInvalidKey = errors.New("invalid media key")

	// ErrUnsupportedFormat is returned when an upload is not a decodable image
	ErrUnsupportedFormat = errors.New("upload a valid image")

	// ErrEmptyUpload is returned when an upload carries no bytes
	ErrEmptyUpload = errors.New("the submitted file is empty")

	// ErrTooLarge is returned when an upload exceeds the configured size limit
	ErrTooLarge = errors.New("the submitted file is too large")
)

// IsValidationError reports whether err describes a bad upload rather than a storage failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyUpload) ||
		errors.Is(err, ErrTooLarge)
}
