package render_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/pkg/validator"
	"github.com/qrforge/qrforge/svc/render"
)

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet bool
	failSet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.failSet {
		return errors.New("connection refused")
	}
	c.data[key] = val
	return nil
}

var urlRequest = render.Request{
	Type:   payload.TypeURL,
	Fields: payload.Fields{URL: "https://example.com"},
}

func TestService_Render(t *testing.T) {
	t.Parallel()

	svc := render.New(render.Config{LocalCacheSize: 8})
	art, err := svc.Render(context.Background(), urlRequest)
	require.NoError(t, err)

	assert.Equal(t, qrcode.KindRaster, art.Kind, "empty kind renders raster")
	assert.Equal(t, "image/png", art.MIMEType)
	assert.Equal(t, qrcode.DefaultSize, art.Size)

	direct, err := qrcode.Render("https://example.com", qrcode.Style{}, qrcode.KindRaster)
	require.NoError(t, err)
	assert.Equal(t, direct.Data, art.Data)
}

func TestService_Render_InvalidContent(t *testing.T) {
	t.Parallel()

	svc := render.New(render.Config{})
	_, err := svc.Render(context.Background(), render.Request{
		Type:   payload.TypeWiFi,
		Fields: payload.Fields{Security: payload.SecurityWPA2},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, payload.ErrInvalidContent)

	verrs := validator.ExtractValidationErrors(err)
	assert.Equal(t, []string{"ssid", "password"}, verrs.Fields())
}

func TestService_Render_InvalidStyle(t *testing.T) {
	t.Parallel()

	svc := render.New(render.Config{})
	req := urlRequest
	req.Style = qrcode.Style{Foreground: "blue"}
	_, err := svc.Render(context.Background(), req)
	assert.ErrorIs(t, err, qrcode.ErrInvalidStyle)
}

func TestService_Render_LocalCache(t *testing.T) {
	t.Parallel()

	shared := newMemCache()
	svc := render.New(render.Config{LocalCacheSize: 8}, render.WithSharedCache(shared, time.Hour))

	first, err := svc.Render(context.Background(), urlRequest)
	require.NoError(t, err)
	second, err := svc.Render(context.Background(), urlRequest)
	require.NoError(t, err)

	assert.Same(t, first, second, "second call is served from memory")
	assert.Equal(t, 1, shared.gets)
	assert.Equal(t, 1, shared.sets)
}

func TestService_Render_SharedCache(t *testing.T) {
	t.Parallel()

	shared := newMemCache()
	a := render.New(render.Config{LocalCacheSize: 8}, render.WithSharedCache(shared, time.Hour))
	b := render.New(render.Config{LocalCacheSize: 8}, render.WithSharedCache(shared, time.Hour))

	req := urlRequest
	req.Kind = qrcode.KindVector
	fromA, err := a.Render(context.Background(), req)
	require.NoError(t, err)

	fromB, err := b.Render(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fromA.Data, fromB.Data)
	assert.Equal(t, fromA.Modules, fromB.Modules)
	assert.Equal(t, qrcode.KindVector, fromB.Kind)
	assert.Equal(t, 1, shared.sets, "instance b does not re-render")
}

func TestService_Render_SharedCacheFailureIsSoft(t *testing.T) {
	t.Parallel()

	shared := newMemCache()
	shared.failGet = true
	shared.failSet = true
	svc := render.New(render.Config{}, render.WithSharedCache(shared, time.Hour))

	art, err := svc.Render(context.Background(), urlRequest)
	require.NoError(t, err)
	assert.NotEmpty(t, art.Data)
}

func TestService_RenderPayload(t *testing.T) {
	t.Parallel()

	svc := render.New(render.Config{})
	art, err := svc.RenderPayload(context.Background(), "https://qr.example/r/abc123", qrcode.Style{}, qrcode.KindVector)
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", art.MIMEType)

	_, err = svc.RenderPayload(context.Background(), "", qrcode.Style{}, qrcode.KindRaster)
	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
}

func TestService_Preview(t *testing.T) {
	t.Parallel()

	svc := render.New(render.Config{LocalCacheSize: 8})

	t.Run("valid", func(t *testing.T) {
		p := svc.Preview(context.Background(), render.Request{
			Type:   payload.TypeSMS,
			Fields: payload.Fields{PhoneNumber: "+15551234567", Message: "hi there"},
		})
		assert.True(t, p.Result.Valid)
		assert.Equal(t, "sms:+15551234567?body=hi%20there", p.Payload)
		require.NotNil(t, p.Artifact)
		assert.Empty(t, p.Error)
	})

	t.Run("invalid", func(t *testing.T) {
		p := svc.Preview(context.Background(), render.Request{Type: payload.TypeText})
		assert.False(t, p.Result.Valid)
		assert.Equal(t, []string{"Text content is required"}, p.Result.Errors)
		assert.Nil(t, p.Artifact)
		assert.Empty(t, p.Payload)
	})

	t.Run("too long", func(t *testing.T) {
		long := make([]byte, 5000)
		for i := range long {
			long[i] = 'x'
		}
		p := svc.Preview(context.Background(), render.Request{
			Type:   payload.TypeText,
			Fields: payload.Fields{Text: string(long)},
		})
		assert.True(t, p.Result.Valid)
		assert.Nil(t, p.Artifact)
		assert.Equal(t, "Content is too long to fit in a QR code", p.Error)
	})
}

func TestKey(t *testing.T) {
	t.Parallel()

	base := render.Key("hello", qrcode.Style{}, qrcode.KindRaster)
	assert.Equal(t, base, render.Key("hello", qrcode.Style{Size: qrcode.DefaultSize, Foreground: "#000000"}, qrcode.KindRaster),
		"defaults resolve to the same key")
	assert.NotEqual(t, base, render.Key("hello", qrcode.Style{}, qrcode.KindVector))
	assert.NotEqual(t, base, render.Key("hello", qrcode.Style{Margin: qrcode.Margin(0)}, qrcode.KindRaster))
	assert.NotEqual(t, base, render.Key("hello!", qrcode.Style{}, qrcode.KindRaster))
}
