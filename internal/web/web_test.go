package web_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/internal/web"
	"github.com/qrforge/qrforge/pkg/httpserver"
	"github.com/qrforge/qrforge/pkg/metrics"
	"github.com/qrforge/qrforge/pkg/ratelimiter"
	"github.com/qrforge/qrforge/svc/render"
)

const adminToken = "s3cret"

func newRouter(t *testing.T, opts ...web.Option) http.Handler {
	t.Helper()
	renderer := render.New(render.Config{LocalCacheSize: 32, LocalCacheTTL: time.Minute})
	base := []web.Option{
		web.WithLogger(slog.New(slog.DiscardHandler)),
		web.WithCodes(newFakeCodes()),
		web.WithBlog(&fakeBlog{}),
		web.WithBilling(newFakeBilling()),
		web.WithMetrics(metrics.New()),
	}
	cfg := web.Config{AdminToken: adminToken, HealthTimeout: time.Second}
	return web.New(renderer, cfg, append(base, opts...)...).Routes()
}

// do sends a request. headers are key/value pairs.
func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage      `json:"data"`
	Meta  map[string]any       `json:"meta"`
	Error *handler.ErrorDetail `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &v))
	return v
}

func TestTypes(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	rec := do(t, h, http.MethodGet, "/api/types", "")
	require.Equal(t, http.StatusOK, rec.Code)

	types := decodeData[[]map[string]string](t, rec)
	require.Len(t, types, 9)
	assert.Equal(t, "url", types[0]["type"])
	assert.Equal(t, "Website URL", types[0]["label"])
	assert.Equal(t, "location", types[8]["type"])
}

func TestValidate(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/validate", `{"type":"wifi","fields":{"ssid":"Home","password":"x"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeData[map[string]any](t, rec)
		assert.Equal(t, true, res["isValid"])
	})

	t.Run("invalid is still 200", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/validate", `{"type":"wifi","fields":{}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeData[map[string]any](t, rec)
		assert.Equal(t, false, res["isValid"])
		assert.Equal(t, []any{"Network name (SSID) is required", "Password is required for secured networks"}, res["errors"])
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/validate", `{"type":"url","extra":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/validate", `type=url`, "Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	t.Run("wifi", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/format", `{"type":"wifi","fields":{"ssid":"Home","password":"secret"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeData[map[string]string](t, rec)
		assert.Equal(t, "WIFI:T:WPA2;S:Home;P:secret;H:false;;", out["payload"])
	})

	t.Run("invalid content", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/format", `{"type":"email","fields":{"emailAddress":"nope"}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "validation_error", env.Error.Code)
		assert.Equal(t, []string{"Please enter a valid email address"}, env.Error.Details["emailAddress"])
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/format", `{"type":"fax","fields":{}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decode(t, rec).Error.Details, "type")
	})
}

func TestRender(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	t.Run("json vector", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/render",
			`{"type":"url","fields":{"url":"https://example.com"},"style":{"size":200},"kind":"vector"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeData[map[string]any](t, rec)
		assert.Equal(t, "vector", out["kind"])
		assert.Equal(t, "image/svg+xml", out["mimeType"])
		assert.Contains(t, out["svg"], "<svg")
		assert.Contains(t, out["dataUri"], "data:image/svg+xml;base64,")
	})

	t.Run("json raster has no markup", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/render", `{"type":"text","fields":{"text":"hello"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeData[map[string]any](t, rec)
		assert.Equal(t, "raster", out["kind"])
		assert.NotContains(t, out, "svg")
	})

	t.Run("invalid style", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/api/render",
			`{"type":"text","fields":{"text":"hello"},"style":{"foregroundColor":"blue"}}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("png with etag", func(t *testing.T) {
		t.Parallel()
		target := "/api/render.png?type=url&url=https%3A%2F%2Fexample.com&size=128&download=1"
		rec := do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename=qrcode-url-128.png`)
		assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])

		etag := rec.Header().Get("ETag")
		require.NotEmpty(t, etag)
		again := do(t, h, http.MethodGet, target, "", "If-None-Match", etag)
		assert.Equal(t, http.StatusNotModified, again.Code)
		assert.Empty(t, again.Body.Bytes())
	})

	t.Run("svg from flat query", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodGet, "/api/render.svg?type=wifi&ssid=Cafe&security=nopass&foregroundColor=%23112233&margin=0", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "#112233")
	})

	t.Run("bad query value", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodGet, "/api/render.png?type=text&text=a&size=big", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPreview(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	t.Run("page", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodGet, "/preview?type=wifi", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<!doctype html>")
		assert.Contains(t, body, "&#34;type&#34;:&#34;wifi&#34;")
		assert.Contains(t, body, `id="preview"`)
	})

	t.Run("page renders default url", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodGet, "/preview", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `src="data:image/png;base64,`)
	})

	t.Run("root redirects", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/preview", rec.Header().Get("Location"))
	})

	t.Run("datastar stream", func(t *testing.T) {
		t.Parallel()
		signals := `{"type":"location","kind":"raster","payload":"",` +
			`"fields":{"latitude":"40.7","longitude":-74,"locationName":""},` +
			`"style":{"size":"128","margin":"","foregroundColor":"#000000","backgroundColor":"#ffffff","errorCorrectionLevel":"M"}}`
		rec := do(t, h, http.MethodPost, "/preview", signals, "Accept", "text/event-stream")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, "#preview")
		assert.Contains(t, body, "datastar-patch-signals")
		assert.Contains(t, body, "geo:40.7,-74")
	})

	t.Run("datastar bad signals become a toast", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/preview", `{"type":`, "Accept", "text/event-stream")
		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-elements")
		assert.Contains(t, body, "#toasts")
	})

	t.Run("plain client gets html fragment", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodPost, "/preview", `{"type":"sms","fields":{}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Phone number is required")
	})
}

func TestCodes(t *testing.T) {
	t.Parallel()
	h := newRouter(t)
	owner := []string{web.OwnerHeader, "owner-1"}

	rec := do(t, h, http.MethodGet, "/api/codes", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode(t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/api/codes",
		`{"name":"Menu","type":"url","fields":{"url":"https://example.com/menu"},"dynamic":true}`, owner...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[map[string]any](t, rec)
	id := created["id"].(string)
	short := created["shortCode"].(string)

	rec = do(t, h, http.MethodPost, "/api/codes", `{"name":"Bad","type":"url","fields":{}}`, owner...)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/codes?limit=500&type=url", "", owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.EqualValues(t, 1, env.Meta["total"])
	assert.EqualValues(t, 100, env.Meta["limit"])

	rec = do(t, h, http.MethodGet, "/api/codes/"+id, "", web.OwnerHeader, "someone-else")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/codes/"+id, `{"name":"Lunch menu"}`, owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lunch menu", decodeData[map[string]any](t, rec)["name"])

	rec = do(t, h, http.MethodGet, "/api/codes/"+id+"/image", "", owner...)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "cdn.example.com")

	rec = do(t, h, http.MethodGet, "/r/"+short, "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/menu", rec.Header().Get("Location"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = do(t, h, http.MethodGet, "/r/"+short, "", "User-Agent", "Slackbot-LinkExpanding 1.0")
	assert.Equal(t, http.StatusFound, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/codes/"+id, "", owner...)
	assert.EqualValues(t, 1, decodeData[map[string]any](t, rec)["scans"], "bot scans are not counted")

	rec = do(t, h, http.MethodGet, "/r/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/codes/"+id, "", owner...)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/codes/"+id, "", owner...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlog(t *testing.T) {
	t.Parallel()
	h := newRouter(t)
	admin := []string{"Authorization", "Bearer " + adminToken}

	rec := do(t, h, http.MethodPost, "/api/admin/blog", `{"title":"Hello","slug":"hello","body":"x","tags":[],"excerpt":"","published":false}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	rec = do(t, h, http.MethodPost, "/api/admin/blog", `{"title":"Hello","slug":"hello","body":"x","tags":[],"excerpt":"","published":false}`,
		"Authorization", "Bearer wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/admin/blog", `{"title":"Hello","slug":"hello","body":"x","tags":[],"excerpt":"","published":false}`, admin...)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeData[map[string]any](t, rec)["id"].(string)

	rec = do(t, h, http.MethodPost, "/api/admin/blog", `{"title":"","body":"x","tags":[],"excerpt":"","published":false}`, admin...)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/blog/hello", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "drafts are hidden")

	rec = do(t, h, http.MethodGet, "/api/admin/blog", "", admin...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec).Meta["total"])

	rec = do(t, h, http.MethodPut, "/api/admin/blog/"+id, `{"title":"Hello","body":"x","tags":[],"excerpt":"","published":true}`, admin...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/blog/hello", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello", decodeData[map[string]any](t, rec)["title"])

	rec = do(t, h, http.MethodGet, "/api/blog?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, decode(t, rec).Meta["limit"])

	rec = do(t, h, http.MethodGet, "/api/blog/search?q=hello", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]map[string]any](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/blog/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/admin/blog/"+id, "", admin...)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/admin/blog/"+id, "", admin...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	t.Parallel()
	renderer := render.New(render.Config{})
	h := web.New(renderer, web.Config{}, web.WithBlog(&fakeBlog{})).Routes()

	rec := do(t, h, http.MethodGet, "/api/admin/blog", "", "Authorization", "Bearer ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBilling(t *testing.T) {
	t.Parallel()
	h := newRouter(t)
	owner := []string{web.OwnerHeader, "owner-1"}

	rec := do(t, h, http.MethodGet, "/api/billing/plans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]map[string]any](t, rec), 2)

	rec = do(t, h, http.MethodGet, "/api/billing/plan", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/billing/plan", "", owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decodeData[map[string]any](t, rec)
	assert.Equal(t, "free", plan["plan"].(map[string]any)["id"])
	assert.NotContains(t, plan, "subscription")

	rec = do(t, h, http.MethodPost, "/api/billing/portal", "", owner...)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/billing/checkout", `{"planId":"free","email":"a@b.co"}`, owner...)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/billing/checkout", `{"planId":"pro","email":"a@b.co"}`, owner...)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://pay.example.com/owner-1", decodeData[map[string]any](t, rec)["url"])

	rec = do(t, h, http.MethodPost, "/api/admin/billing/subscriptions", `{"ownerId":"owner-1","planId":"pro"}`,
		"Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "active", decodeData[map[string]any](t, rec)["status"])

	rec = do(t, h, http.MethodGet, "/api/billing/plan", "", owner...)
	require.Equal(t, http.StatusOK, rec.Code)
	plan = decodeData[map[string]any](t, rec)
	assert.Equal(t, "pro", plan["plan"].(map[string]any)["id"])
	assert.Equal(t, "pro", plan["subscription"].(map[string]any)["planId"])
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       1,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)
	h := newRouter(t, web.WithRateLimiter(limiter))

	target := "/api/render.png?type=text&text=hi"
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, target, "").Code)

	rec := do(t, h, http.MethodGet, target, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too_many_requests", decode(t, rec).Error.Code)

	// Only render endpoints are limited.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/types", "").Code)
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()
	h := newRouter(t, web.WithHealthChecks(httpserver.Check{
		Name: "always",
		Fn:   func(ctx context.Context) error { return nil },
	}))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/ready", "").Code)

	do(t, h, http.MethodGet, "/api/types", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/api/types"`)

	rec = do(t, h, http.MethodGet, "/api/types", "", "X-Request-ID", "req-12345678")
	assert.Equal(t, "req-12345678", rec.Header().Get("X-Request-ID"))
}
