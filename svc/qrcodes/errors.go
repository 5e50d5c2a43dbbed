package qrcodes

import "errors"

var (
	ErrNotFound           = errors.New("qr code not found")
	ErrMissingOwner       = errors.New("owner is required")
	ErrDuplicateShortCode = errors.New("short code already in use")
	ErrDynamicUnsupported = errors.New("content type cannot be used for a dynamic code")
	ErrNameTooLong        = errors.New("code name is too long")
	ErrFailedToStoreImage = errors.New("failed to store code image")
)
