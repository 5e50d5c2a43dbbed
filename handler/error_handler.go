package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/requestid"
)

// ErrorToastParams contains data for rendering error toasts
type ErrorToastParams struct {
	Message   string
	Type      string // "error" or "warning"
	RequestID string
}

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// ErrorToast renders a toast for DataStar requests. Without it DataStar
	// requests get the JSON error body like every other request.
	ErrorToast func(ErrorToastParams) templ.Component

	// ToastTarget specifies where to render toast notifications (default: "#toasts")
	ToastTarget string

	// ToastMode specifies how to render toasts (default: PatchPrepend)
	ToastMode datastar.ElementPatchMode
}

// errorLevel maps a status to a log level: client errors are warnings.
func errorLevel(status int) slog.Level {
	if status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func errorType(status int) string {
	if status < http.StatusInternalServerError {
		return "warning"
	}
	return "error"
}

// NewErrorHandler logs every error with the request id and renders it as a
// JSON error body, or as a toast patch for DataStar requests when
// cfg.ErrorToast is set.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("error_handler"))
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toasts"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchPrepend
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		id := requestid.FromContext(r.Context())
		status, detail := describe(err)

		log.LogAttrs(r.Context(), errorLevel(status), "request failed",
			logger.RequestID(id),
			logger.Error(err),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if cfg.ErrorToast != nil && IsDataStar(r) {
			toast := cfg.ErrorToast(ErrorToastParams{
				Message:   detail.Message,
				Type:      errorType(status),
				RequestID: id,
			})
			rerr := Templ(toast, WithTarget(cfg.ToastTarget), WithPatchMode(cfg.ToastMode)).
				Render(ctx.ResponseWriter(), r)
			if rerr != nil {
				log.ErrorContext(r.Context(), "failed to render error toast", logger.Error(rerr))
			}
			return
		}

		resp := jsonResponse{status: status, body: JSONResponse{Error: detail}}
		if rerr := resp.Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to write error response", logger.Error(rerr))
		}
	}
}
