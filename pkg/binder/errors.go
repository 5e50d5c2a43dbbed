package binder

import "errors"

var (
	ErrMissingContentType   = errors.New("binder: request has a body but no Content-Type")
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrJSON                 = errors.New("binder: invalid JSON body")
	ErrQuery                = errors.New("binder: invalid query parameters")
	ErrPath                 = errors.New("binder: invalid path parameters")

	// ErrBinderNotApplicable makes handler.Wrap skip the binder and move on.
	ErrBinderNotApplicable = errors.New("binder: not applicable to request")
)
