package qrcode

import "errors"

var (
	// ErrEmptyContent is the encoding error returned when the payload is empty
	// or whitespace only. Nothing is rendered for it.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrorFailedToGenerateQRCode wraps failures of the underlying QR library,
	// for example content exceeding the capacity of a version 40 symbol.
	ErrorFailedToGenerateQRCode = errors.New("failed to generate QR code")
	// ErrInvalidStyle is returned when style settings cannot be rendered.
	ErrInvalidStyle = errors.New("invalid QR code style")
	// ErrUnknownKind is returned for output kinds other than raster and vector.
	ErrUnknownKind = errors.New("unknown QR output kind")
)
