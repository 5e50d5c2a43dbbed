package payload

import "errors"

var (
	// ErrUnknownType is returned when a content type is not part of the taxonomy.
	ErrUnknownType = errors.New("unsupported content type")
	// ErrInvalidContent is returned by ValidationResult.Err when validation failed.
	ErrInvalidContent = errors.New("invalid QR content")
)
