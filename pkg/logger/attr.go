package logger

import (
	"log/slog"
	"time"
)

// Attribute keys shared by every component, so log queries can rely on them.
const (
	KeyError       = "error"
	KeyRequestID   = "request_id"
	KeyOwnerID     = "owner_id"
	KeyCodeID      = "code_id"
	KeyContentType = "content_type"
	KeyKind        = "kind"
	KeyCache       = "cache"
	KeyPlan        = "plan"
	KeyDuration    = "duration_ms"
	KeyComponent   = "component"
)

// optional returns an empty Attr, which slog drops, for empty values.
func optional(key, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	return slog.String(key, value)
}

// Error logs err under "error"; nil yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

func RequestID(id string) slog.Attr { return optional(KeyRequestID, id) }

// OwnerID identifies the account owning a stored code.
func OwnerID(id string) slog.Attr { return optional(KeyOwnerID, id) }

func CodeID(id string) slog.Attr { return optional(KeyCodeID, id) }

func ContentType(t string) slog.Attr { return slog.String(KeyContentType, t) }

// OutputKind is raster or vector.
func OutputKind(kind string) slog.Attr { return slog.String(KeyKind, kind) }

// CacheTier names the render cache involved: "local" or "shared".
func CacheTier(tier string) slog.Attr { return slog.String(KeyCache, tier) }

func Plan(name string) slog.Attr { return slog.String(KeyPlan, name) }

// Duration logs d as fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDuration, float64(d.Microseconds())/1000)
}

func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }
