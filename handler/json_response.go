package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qrforge/qrforge/pkg/validator"
)

// JSONResponse is the envelope every JSON endpoint writes.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(j *jsonResponse) { j.status = status }
}

func WithJSONMeta(meta map[string]any) JSONOption {
	return func(j *jsonResponse) { j.body.Meta = meta }
}

// JSON writes v under "data" with status 200. A JSONResponse is written as
// is and an error is written the way JSONError writes it.
func JSON(v any, opts ...JSONOption) Response {
	j := &jsonResponse{status: http.StatusOK}
	switch val := v.(type) {
	case JSONResponse:
		j.body = val
	case error:
		j.status, j.body.Error = describe(val)
	default:
		j.body.Data = v
	}
	return j.with(opts)
}

// JSONError writes err under "error" with the status StatusCode gives it.
func JSONError(err error, opts ...JSONOption) Response {
	j := &jsonResponse{}
	j.status, j.body.Error = describe(err)
	return j.with(opts)
}

func (j *jsonResponse) with(opts []JSONOption) *jsonResponse {
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// StatusCode maps err to an HTTP status: validation failures are 422 unless
// an HTTPError in the chain says otherwise, HTTPError carries its own code
// and anything else is 500.
func StatusCode(err error) int {
	status, _ := describe(err)
	return status
}

// describe classifies err for the client. Server error messages are
// replaced by the status text.
func describe(err error) (int, *ErrorDetail) {
	var httpErr HTTPError
	hasStatus := errors.As(err, &httpErr)

	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		status := http.StatusUnprocessableEntity
		if hasStatus {
			status = httpErr.Code
		}
		detail := &ErrorDetail{Code: "validation_error", Message: "Validation failed"}
		if !verrs.IsEmpty() {
			detail.Details = verrs.Map()
		}
		return status, detail
	}

	if !hasStatus {
		return http.StatusInternalServerError, &ErrorDetail{
			Code:    "internal_error",
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}

	msg := http.StatusText(httpErr.Code)
	if httpErr.Code < http.StatusInternalServerError && err.Error() != httpErr.Key {
		msg = err.Error()
	}
	return httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: msg}
}
