package handler

import (
	"errors"
	"net/http"

	"github.com/qrforge/qrforge/pkg/binder"
)

var (
	// ErrNilResponse indicates a handler returned nil instead of a Response
	ErrNilResponse = errors.New("handler returned nil response")
	// ErrSSENotInitialized indicates SSE was accessed before being set up for the request
	ErrSSENotInitialized = errors.New("SSE not initialized for this request")
	// ErrInvalidSignals indicates the DataStar signal payload could not be decoded
	ErrInvalidSignals = errors.New("invalid datastar signals")
)

// HTTPError carries an HTTP status code and a stable machine-readable key.
// Domain errors are mapped onto HTTPError values with Wrap so that both
// the status and the original cause survive errors.As and errors.Is.
type HTTPError struct {
	Code int    // HTTP status code
	Key  string // stable error code, e.g. "not_found"
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Key
}

// Wrap returns an error that matches both e and cause and reads as cause.
func (e HTTPError) Wrap(cause error) error {
	if cause == nil {
		return e
	}
	return wrappedError{status: e, cause: cause}
}

type wrappedError struct {
	status HTTPError
	cause  error
}

func (e wrappedError) Error() string   { return e.cause.Error() }
func (e wrappedError) Unwrap() []error { return []error{e.status, e.cause} }

// NewHTTPError creates a custom HTTP error.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

var (
	ErrBadRequest           = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized         = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrPaymentRequired      = HTTPError{Code: http.StatusPaymentRequired, Key: "payment_required"}
	ErrForbidden            = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound             = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrConflict             = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrUnsupportedMediaType = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrUnprocessableEntity  = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrTooManyRequests      = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}

	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrBadGateway          = HTTPError{Code: http.StatusBadGateway, Key: "bad_gateway"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)

// badRequest maps binder failures onto 400 or 415.
func badRequest(err error) error {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	if errors.Is(err, binder.ErrUnsupportedMediaType) || errors.Is(err, binder.ErrMissingContentType) {
		return ErrUnsupportedMediaType.Wrap(err)
	}
	return ErrBadRequest.Wrap(err)
}
