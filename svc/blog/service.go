package blog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/sanitizer"
	"github.com/qrforge/qrforge/pkg/slug"
	"github.com/qrforge/qrforge/pkg/validator"
)

const slugAttempts = 4

// Service manages blog posts and keeps the search index in step with the
// published set. Index failures are logged and do not fail writes.
type Service struct {
	store Store
	index Index
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIndex enables full-text search.
func WithIndex(idx Index) Option {
	return func(s *Service) {
		if idx != nil {
			s.index = idx
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l.With(logger.Component("blog"))
		}
	}
}

// NewService creates a blog service. Without WithIndex search finds nothing.
func NewService(store Store, opts ...Option) *Service {
	if store == nil {
		panic("blog: store is required")
	}
	s := &Service{
		store: store,
		index: NopIndex{},
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new post. When the slug is taken a random suffix is
// appended.
func (s *Service) Create(ctx context.Context, in PostInput) (*Post, error) {
	base, err := prepare(&in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Body:      in.Body,
		Tags:      in.Tags,
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.Published {
		p.PublishedAt = &now
	}

	for attempt := range slugAttempts {
		p.Slug = candidateSlug(base, attempt)
		err = s.store.Insert(ctx, p)
		if !errors.Is(err, ErrDuplicateSlug) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.syncIndex(ctx, p)
	s.log.InfoContext(ctx, "post created", slog.String("slug", p.Slug), slog.Bool("published", p.Published))
	return p, nil
}

// Update replaces the post's content. The slug changes only when in.Slug is
// set. Publishing stamps PublishedAt once; unpublishing removes the post
// from search.
func (s *Service) Update(ctx context.Context, id string, in PostInput) (*Post, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	explicitSlug := strings.TrimSpace(in.Slug) != ""
	base, err := prepare(&in)
	if err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Excerpt = in.Excerpt
	p.Body = in.Body
	p.Tags = in.Tags
	p.Published = in.Published
	p.UpdatedAt = s.now().UTC()
	if p.Published && p.PublishedAt == nil {
		at := p.UpdatedAt
		p.PublishedAt = &at
	}

	// Without an explicit slug the post keeps its published URL.
	if !explicitSlug || base == p.Slug {
		err = s.store.Replace(ctx, p)
	} else {
		for attempt := range slugAttempts {
			p.Slug = candidateSlug(base, attempt)
			err = s.store.Replace(ctx, p)
			if !errors.Is(err, ErrDuplicateSlug) {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	s.syncIndex(ctx, p)
	return p, nil
}

// Delete removes the post and its search entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, id); err != nil {
		s.log.WarnContext(ctx, "failed to remove post from index", slog.String("id", id), logger.Error(err))
	}
	return nil
}

// Get returns a post by id, drafts included.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.store.Get(ctx, id)
}

// GetBySlug returns a post by slug. Drafts are hidden unless includeDrafts.
func (s *Service) GetBySlug(ctx context.Context, slugValue string, includeDrafts bool) (*Post, error) {
	p, err := s.store.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeDrafts {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns posts newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*Page, error) {
	items, total, err := s.store.List(ctx, opts.normalize())
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Total: total}, nil
}

// Search runs a full-text query over published posts.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.index.Search(ctx, query, min(limit, maxLimit))
}

func (s *Service) syncIndex(ctx context.Context, p *Post) {
	var err error
	if p.Published {
		err = s.index.Put(ctx, p)
	} else {
		err = s.index.Remove(ctx, p.ID)
	}
	if err != nil {
		s.log.WarnContext(ctx, "failed to sync post to index", slog.String("id", p.ID), logger.Error(err))
	}
}

// prepare trims and validates in and returns the base slug to use.
func prepare(in *PostInput) (string, error) {
	in.Title = sanitizer.SingleLine(in.Title)
	in.Excerpt = sanitizer.SingleLine(in.Excerpt)
	in.Tags = sanitizer.Tags(in.Tags)

	base := strings.TrimSpace(in.Slug)
	if base == "" {
		base = slug.Make(in.Title, slug.MaxLength(maxSlugLength))
	}

	err := validator.Apply(
		validator.RequiredString("title", in.Title),
		validator.MaxLenString("title", in.Title, maxTitleLength),
		validator.RequiredString("body", in.Body),
		validator.RequiredString("slug", base).
			WithMessage("title must contain letters or digits"),
		validator.ValidSlug("slug", base).When(base != ""),
		validator.MaxLenString("slug", base, maxSlugLength),
		validator.RangeNum("tags", len(in.Tags), 0, maxTags),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidPost, err)
	}
	return base, nil
}

// candidateSlug is base on the first attempt and base plus a random
// suffix afterwards.
func candidateSlug(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return slug.Make(base, slug.WithSuffix(6), slug.MaxLength(maxSlugLength))
}
