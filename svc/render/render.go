package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/qrforge/qrforge/pkg/cache"
	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/metrics"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
)

// Request is everything needed to draw a QR code from user input.
type Request struct {
	Type   payload.ContentType `json:"type"`
	Fields payload.Fields      `json:"fields"`
	Style  qrcode.Style        `json:"style"`
	Kind   qrcode.Kind         `json:"kind,omitempty"`
}

// SharedCache is a byte store shared between instances, typically Redis.
type SharedCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Config controls the render caches.
type Config struct {
	LocalCacheSize int           `env:"RENDER_CACHE_SIZE" envDefault:"1024"`
	LocalCacheTTL  time.Duration `env:"RENDER_CACHE_TTL" envDefault:"10m"`
	SharedCacheTTL time.Duration `env:"RENDER_SHARED_CACHE_TTL" envDefault:"24h"`
}

// Service validates, formats and renders QR codes. Renders are cached in an
// in-process LRU and, when configured, a shared cache. Shared cache failures
// are logged and never fail a render.
type Service struct {
	local     *cache.LRUCache[string, *qrcode.Artifact]
	shared    SharedCache
	sharedTTL time.Duration
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSharedCache adds a second cache tier behind the in-process LRU.
func WithSharedCache(c SharedCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.shared = c
		s.sharedTTL = ttl
	}
}

// WithMetrics records render and cache metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.With(logger.Component("render"))
		}
	}
}

// New creates a render service. A non-positive cfg.LocalCacheSize disables
// the in-process tier.
func New(cfg Config, opts ...Option) *Service {
	s := &Service{log: slog.New(slog.DiscardHandler)}
	if cfg.LocalCacheSize > 0 {
		var lruOpts []cache.Option
		if cfg.LocalCacheTTL > 0 {
			lruOpts = append(lruOpts, cache.WithTTL(cfg.LocalCacheTTL))
		}
		s.local = cache.NewLRUCache[string, *qrcode.Artifact](cfg.LocalCacheSize, lruOpts...)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render validates req, formats its payload and draws it.
// Invalid input fails with payload.ErrInvalidContent joined with the
// validator.ValidationErrors describing each failure.
func (s *Service) Render(ctx context.Context, req Request) (*qrcode.Artifact, error) {
	kind := normalizeKind(req.Kind)
	res := payload.Validate(req.Type, req.Fields)
	if !res.Valid {
		s.metrics.ObserveRender(string(req.Type), string(kind), metrics.ResultInvalid)
		return nil, res.Err()
	}
	art, err := s.render(ctx, payload.FormatFields(req.Type, req.Fields), req.Style, kind)
	s.metrics.ObserveRender(string(req.Type), string(kind), resultLabel(err))
	return art, err
}

// RenderPayload draws an already formatted payload. Used for dynamic codes,
// whose printed payload is a redirect link rather than the content itself.
func (s *Service) RenderPayload(ctx context.Context, content string, style qrcode.Style, kind qrcode.Kind) (*qrcode.Artifact, error) {
	return s.render(ctx, content, style, normalizeKind(kind))
}

// Preview is the live editor state for one request.
type Preview struct {
	Result   payload.Result   `json:"validation"`
	Payload  string           `json:"payload,omitempty"`
	Artifact *qrcode.Artifact `json:"-"`
	Error    string           `json:"error,omitempty"`
}

// Preview never fails: invalid input yields the validation result and no
// artifact, and render errors are reported through Preview.Error.
func (s *Service) Preview(ctx context.Context, req Request) Preview {
	p := Preview{Result: payload.Validate(req.Type, req.Fields)}
	if !p.Result.Valid {
		return p
	}
	p.Payload = payload.FormatFields(req.Type, req.Fields)
	art, err := s.render(ctx, p.Payload, req.Style, normalizeKind(req.Kind))
	if err != nil {
		p.Error = errorMessage(err)
		return p
	}
	p.Artifact = art
	return p
}

func (s *Service) render(ctx context.Context, content string, style qrcode.Style, kind qrcode.Kind) (*qrcode.Artifact, error) {
	key := Key(content, style, kind)

	if s.local != nil {
		if art, ok := s.local.Get(key); ok {
			s.metrics.ObserveCache(metrics.TierMemory)
			return art, nil
		}
	}
	if art, ok := s.loadShared(ctx, key); ok {
		s.metrics.ObserveCache(metrics.TierRedis)
		if s.local != nil {
			s.local.Put(key, art)
		}
		return art, nil
	}
	s.metrics.ObserveCache(metrics.TierMiss)

	start := time.Now()
	art, err := qrcode.Render(content, style, kind)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveEncode(string(kind), time.Since(start), len(art.Data))

	if s.local != nil {
		s.local.Put(key, art)
	}
	s.storeShared(ctx, key, art)
	return art, nil
}

func (s *Service) loadShared(ctx context.Context, key string) (*qrcode.Artifact, bool) {
	if s.shared == nil {
		return nil, false
	}
	raw, ok, err := s.shared.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "shared render cache read failed", logger.CacheTier("shared"), logger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var art qrcode.Artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		s.log.WarnContext(ctx, "corrupt render cache entry", logger.CacheTier("shared"), logger.Error(err))
		return nil, false
	}
	return &art, true
}

func (s *Service) storeShared(ctx context.Context, key string, art *qrcode.Artifact) {
	if s.shared == nil {
		return
	}
	raw, err := json.Marshal(art)
	if err != nil {
		return
	}
	if err := s.shared.Set(ctx, key, raw, s.sharedTTL); err != nil {
		s.log.WarnContext(ctx, "shared render cache write failed", logger.CacheTier("shared"), logger.Error(err))
	}
}

// Key is the cache key of a render: a hash of the output kind, the resolved
// style and the payload.
func Key(content string, style qrcode.Style, kind qrcode.Kind) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(style.Key()))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return "render:" + hex.EncodeToString(h.Sum(nil))
}

func normalizeKind(k qrcode.Kind) qrcode.Kind {
	if k == "" {
		return qrcode.KindRaster
	}
	return k
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, qrcode.ErrInvalidStyle), errors.Is(err, qrcode.ErrUnknownKind):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, qrcode.ErrInvalidStyle):
		return "Invalid style settings"
	case errors.Is(err, qrcode.ErrUnknownKind):
		return "Unsupported output format"
	case errors.Is(err, qrcode.ErrEmptyContent):
		return "Nothing to encode"
	default:
		return "Content is too long to fit in a QR code"
	}
}
