package storage

import "errors"

var (
	ErrInvalidKey    = errors.New("storage: invalid key")
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrAWSConfig     = errors.New("storage: cannot load AWS configuration")

	ErrWrite  = errors.New("storage: write failed")
	ErrDelete = errors.New("storage: delete failed")

	// Causes joined with ErrWrite and ErrDelete, or returned by Exists.
	ErrBucketNotFound     = errors.New("storage: bucket not found")
	ErrAccessDenied       = errors.New("storage: access denied")
	ErrServiceUnavailable = errors.New("storage: service temporarily unavailable")
	ErrTimeout            = errors.New("storage: operation timed out")
	ErrCanceled           = errors.New("storage: operation canceled")
)
