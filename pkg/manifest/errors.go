package manifest

import "errors"

var (
	// ErrInvalidManifest is returned when a document is not a valid manifest object.
	ErrInvalidManifest = errors.New("invalid manifest document")

	// ErrInvalidField is returned when a controlled field has the wrong JSON type.
	ErrInvalidField = errors.New("invalid manifest field")

	// ErrNilManifest is returned when a nil manifest is passed for encoding.
	ErrNilManifest = errors.New("manifest is nil")
)
