package qrcodes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/metrics"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/pkg/sanitizer"
	"github.com/qrforge/qrforge/pkg/slug"
	"github.com/qrforge/qrforge/pkg/storage"
	"github.com/qrforge/qrforge/pkg/useragent"
	"github.com/qrforge/qrforge/pkg/validator"
	"github.com/qrforge/qrforge/svc/billing"
)

// Renderer draws a formatted payload.
type Renderer interface {
	RenderPayload(ctx context.Context, content string, style qrcode.Style, kind qrcode.Kind) (*qrcode.Artifact, error)
}

// Plans enforces plan limits and features.
type Plans interface {
	CheckLimit(ctx context.Context, ownerID string, r billing.Resource, used int64) error
	RequireFeature(ctx context.Context, ownerID string, f billing.Feature) error
}

// Config configures the saved codes service.
type Config struct {
	// BaseURL is the public origin printed into dynamic codes.
	BaseURL         string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	ShortCodeLength int    `env:"SHORT_CODE_LENGTH" envDefault:"8"`
}

const shortCodeAttempts = 5

// Service manages saved codes: it validates and renders them, stores the
// image, enforces plan limits, and resolves dynamic code scans.
type Service struct {
	store    Store
	renderer Renderer
	blobs    storage.Storage
	plans    Plans
	cfg      Config
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records scans.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.With(logger.Component("qrcodes"))
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides code id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService wires the saved codes service. All dependencies are required.
func NewService(store Store, renderer Renderer, blobs storage.Storage, plans Plans, cfg Config, opts ...Option) *Service {
	if store == nil || renderer == nil || blobs == nil || plans == nil {
		panic("qrcodes: store, renderer, storage and plans are required")
	}
	if cfg.ShortCodeLength <= 0 {
		cfg.ShortCodeLength = 8
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	s := &Service{
		store:    store,
		renderer: renderer,
		blobs:    blobs,
		plans:    plans,
		cfg:      cfg,
		now:      time.Now,
		newID:    newID,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Create validates in, checks the owner's plan, renders and stores the
// image, and saves the code.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*Code, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if len(in.Name) > maxNameLength {
		return nil, ErrNameTooLong
	}
	if err := payload.Validate(in.Type, in.Fields).Err(); err != nil {
		return nil, err
	}
	if err := in.Style.Validate(); err != nil {
		return nil, errors.Join(qrcode.ErrInvalidStyle, err)
	}
	kind, err := qrcode.ParseKind(string(in.Kind))
	if err != nil {
		return nil, err
	}
	if in.Dynamic && !SupportsDynamic(in.Type) {
		return nil, ErrDynamicUnsupported
	}

	if kind == qrcode.KindVector {
		if err := s.plans.RequireFeature(ctx, ownerID, billing.FeatureVector); err != nil {
			return nil, err
		}
	}
	if in.Dynamic {
		if err := s.plans.RequireFeature(ctx, ownerID, billing.FeatureDynamic); err != nil {
			return nil, err
		}
	}
	used, err := s.store.Count(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.plans.CheckLimit(ctx, ownerID, billing.ResourceCodes, used); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	code := &Code{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      sanitizer.SingleLine(in.Name),
		Type:      in.Type,
		Fields:    in.Fields,
		Style:     in.Style,
		Kind:      kind,
		Dynamic:   in.Dynamic,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if code.Name == "" {
		code.Name = payload.Label(in.Type)
	}
	content := payload.FormatFields(in.Type, in.Fields)

	for attempt := range shortCodeAttempts {
		if code.Dynamic {
			code.ShortCode = slug.Random(s.cfg.ShortCodeLength)
			code.Destination = destination(code.Type, content)
			code.Payload = s.redirectURL(code.ShortCode)
		} else {
			code.Payload = content
		}
		if err := s.storeImage(ctx, code); err != nil {
			return nil, err
		}

		err := s.store.Insert(ctx, code)
		if err == nil {
			break
		}
		s.deleteImage(ctx, code.ImageKey)
		if !errors.Is(err, ErrDuplicateShortCode) || attempt == shortCodeAttempts-1 {
			return nil, err
		}
	}

	s.log.InfoContext(ctx, "code created",
		logger.OwnerID(ownerID), logger.CodeID(code.ID),
		logger.ContentType(string(code.Type)), slog.Bool("dynamic", code.Dynamic))
	return code, nil
}

// Get returns one of the owner's codes.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Code, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	return s.store.Get(ctx, ownerID, id)
}

// List pages through the owner's codes, newest first.
func (s *Service) List(ctx context.Context, ownerID string, opts ListOptions) (*Page, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if opts.Type != "" && !opts.Type.Valid() {
		return nil, payload.ErrUnknownType
	}
	items, total, err := s.store.List(ctx, ownerID, opts.normalize())
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Total: total}, nil
}

// Update applies in to the owner's code. A dynamic code keeps its printed
// image when only its content changes: the new content becomes the
// redirect destination. Static codes are re-rendered.
func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (*Code, error) {
	code, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if len(*in.Name) > maxNameLength {
			return nil, ErrNameTooLong
		}
		code.Name = sanitizer.SingleLine(*in.Name)
	}

	rerender := false
	if in.Fields != nil {
		if err := payload.Validate(code.Type, *in.Fields).Err(); err != nil {
			return nil, err
		}
		code.Fields = *in.Fields
		content := payload.FormatFields(code.Type, code.Fields)
		if code.Dynamic {
			code.Destination = destination(code.Type, content)
		} else if content != code.Payload {
			code.Payload = content
			rerender = true
		}
	}
	if in.Style != nil {
		if err := in.Style.Validate(); err != nil {
			return nil, errors.Join(qrcode.ErrInvalidStyle, err)
		}
		if in.Style.Key() != code.Style.Key() {
			rerender = true
		}
		code.Style = *in.Style
	}

	oldKey := code.ImageKey
	if rerender {
		if err := s.storeImage(ctx, code); err != nil {
			return nil, err
		}
	}
	code.UpdatedAt = s.now().UTC()

	if err := s.store.Replace(ctx, code); err != nil {
		if rerender && code.ImageKey != oldKey {
			s.deleteImage(ctx, code.ImageKey)
		}
		return nil, err
	}
	if rerender && code.ImageKey != oldKey {
		s.deleteImage(ctx, oldKey)
	}
	return code, nil
}

// Delete removes the owner's code and its stored image.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	code, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.deleteImage(ctx, code.ImageKey)
	s.log.InfoContext(ctx, "code deleted", logger.OwnerID(ownerID), logger.CodeID(id))
	return nil
}

// Resolve returns where to send the scanner of a dynamic code. Scans from
// bots, such as chat apps unfurling a shared short link, are redirected but
// not counted.
func (s *Service) Resolve(ctx context.Context, shortCode string, device useragent.Device) (string, error) {
	if shortCode == "" {
		return "", ErrNotFound
	}
	var (
		code *Code
		err  error
	)
	if device.IsBot() {
		code, err = s.store.FindDynamic(ctx, shortCode)
	} else {
		code, err = s.store.RecordScan(ctx, shortCode, s.now().UTC())
	}
	if err != nil {
		return "", err
	}
	s.metrics.ObserveScan(string(device))
	return code.Destination, nil
}

// destination is the redirect target for dynamic content. A URL without a
// scheme would redirect relative to this host, so it gets the https the
// validator assumed.
func destination(t payload.ContentType, content string) string {
	if t == payload.TypeURL {
		return validator.NormalizeURL(content)
	}
	return content
}

func (s *Service) redirectURL(shortCode string) string {
	return s.cfg.BaseURL + "/r/" + shortCode
}

// storeImage renders the code and uploads it under a key derived from the
// rendered bytes, so a changed image never reuses a cached URL.
func (s *Service) storeImage(ctx context.Context, code *Code) error {
	art, err := s.renderer.RenderPayload(ctx, code.Payload, code.Style, code.Kind)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(art.Data)
	key := fmt.Sprintf("codes/%s/%s-%s%s", code.OwnerID, code.ID, hex.EncodeToString(sum[:6]), art.Extension())
	if err := s.blobs.Put(ctx, key, art.Data, art.MIMEType); err != nil {
		return errors.Join(ErrFailedToStoreImage, err)
	}
	code.ImageKey = key
	code.ImageURL = s.blobs.URL(key)
	return nil
}

func (s *Service) deleteImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.log.WarnContext(ctx, "failed to delete code image", slog.String("key", key), logger.Error(err))
	}
}
