package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/internal/web/views"
	"github.com/qrforge/qrforge/pkg/clientip"
	"github.com/qrforge/qrforge/pkg/httpserver"
	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/metrics"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/pkg/ratelimiter"
	"github.com/qrforge/qrforge/pkg/requestid"
	"github.com/qrforge/qrforge/pkg/useragent"
	"github.com/qrforge/qrforge/svc/billing"
	"github.com/qrforge/qrforge/svc/blog"
	"github.com/qrforge/qrforge/svc/qrcodes"
	"github.com/qrforge/qrforge/svc/render"
)

// Renderer produces QR artifacts and editor previews.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (*qrcode.Artifact, error)
	Preview(ctx context.Context, req render.Request) render.Preview
}

// Codes manages saved codes.
type Codes interface {
	Create(ctx context.Context, ownerID string, in qrcodes.CreateInput) (*qrcodes.Code, error)
	Get(ctx context.Context, ownerID, id string) (*qrcodes.Code, error)
	List(ctx context.Context, ownerID string, opts qrcodes.ListOptions) (*qrcodes.Page, error)
	Update(ctx context.Context, ownerID, id string, in qrcodes.UpdateInput) (*qrcodes.Code, error)
	Delete(ctx context.Context, ownerID, id string) error
	Resolve(ctx context.Context, shortCode string, device useragent.Device) (string, error)
}

// Blog manages posts.
type Blog interface {
	Create(ctx context.Context, in blog.PostInput) (*blog.Post, error)
	Update(ctx context.Context, id string, in blog.PostInput) (*blog.Post, error)
	Delete(ctx context.Context, id string) error
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*blog.Post, error)
	List(ctx context.Context, opts blog.ListOptions) (*blog.Page, error)
	Search(ctx context.Context, query string, limit int) ([]blog.SearchResult, error)
}

// Billing exposes plans and the hosted checkout.
type Billing interface {
	Plans() []billing.Plan
	PlanFor(ctx context.Context, ownerID string) (billing.Plan, error)
	Subscription(ctx context.Context, ownerID string) (*billing.Subscription, error)
	Checkout(ctx context.Context, ownerID, planID, email string) (*billing.CheckoutLink, error)
	Portal(ctx context.Context, ownerID string) (*billing.PortalLink, error)
	Assign(ctx context.Context, sub billing.Subscription) error
}

// Server is the HTTP surface. Only the renderer is required; the other
// services are mounted when provided.
type Server struct {
	cfg     Config
	log     *slog.Logger
	render  Renderer
	codes   Codes
	blog    Blog
	billing Billing
	metrics *metrics.Metrics
	limiter ratelimiter.RateLimiter
	checks  []httpserver.Check
	onError handler.ErrorHandler[handler.Context]
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func WithCodes(c Codes) Option              { return func(s *Server) { s.codes = c } }
func WithBlog(b Blog) Option                { return func(s *Server) { s.blog = b } }
func WithBilling(b Billing) Option          { return func(s *Server) { s.billing = b } }
func WithMetrics(m *metrics.Metrics) Option { return func(s *Server) { s.metrics = m } }

// WithRateLimiter limits render and preview requests per client IP.
func WithRateLimiter(l ratelimiter.RateLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithHealthChecks sets the readiness probes served at /health/ready.
func WithHealthChecks(checks ...httpserver.Check) Option {
	return func(s *Server) { s.checks = append(s.checks, checks...) }
}

// New creates the HTTP surface around renderer.
func New(renderer Renderer, cfg Config, opts ...Option) *Server {
	if renderer == nil {
		panic("web: renderer is required")
	}
	s := &Server{
		cfg:    cfg,
		log:    slog.Default(),
		render: renderer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("web"))
	s.onError = handler.NewErrorHandler(s.log, handler.ErrorHandlerConfig{
		ErrorToast:  views.Toast,
		ToastTarget: "#" + views.ToastsID,
	})
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.HealthCheckHandler(s.log, s.cfg.HealthTimeout))
	r.Get("/health/ready", httpserver.HealthCheckHandler(s.log, s.cfg.HealthTimeout, s.checks...))
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	if s.cfg.FilesDir != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(s.cfg.FilesDir))))
	}

	r.Get("/", http.RedirectHandler("/preview", http.StatusFound).ServeHTTP)
	r.Get("/preview", wrap(s, s.previewPage, query))

	r.With(s.rateLimit).Post("/preview", wrap(s, s.preview, signalsOrJSON))

	r.Route("/api", func(r chi.Router) {
		r.Get("/types", wrap(s, s.types))
		r.Post("/validate", wrap(s, s.validate, jsonBody))
		r.Post("/format", wrap(s, s.format, jsonBody))
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/render", wrap(s, s.renderJSON, jsonBody))
			r.Get("/render.png", wrap(s, s.renderImage(qrcode.KindRaster), query))
			r.Get("/render.svg", wrap(s, s.renderImage(qrcode.KindVector), query))
		})

		if s.codes != nil {
			r.Route("/codes", func(r chi.Router) {
				r.Use(requireOwner)
				r.Get("/", wrap(s, s.listCodes, query))
				r.Post("/", wrap(s, s.createCode, jsonBody))
				r.Get("/{id}", wrap(s, s.getCode, path))
				r.Get("/{id}/image", wrap(s, s.codeImage, path))
				r.Patch("/{id}", wrap(s, s.updateCode, path, jsonBody))
				r.Delete("/{id}", wrap(s, s.deleteCode, path))
			})
		}

		if s.blog != nil {
			r.Route("/blog", func(r chi.Router) {
				r.Get("/", wrap(s, s.listPosts, query))
				r.Get("/search", wrap(s, s.searchPosts, query))
				r.Get("/{slug}", wrap(s, s.getPost, path))
			})
		}

		if s.billing != nil {
			r.Route("/billing", func(r chi.Router) {
				r.Get("/plans", wrap(s, s.plans))
				r.Group(func(r chi.Router) {
					r.Use(requireOwner)
					r.Get("/plan", wrap(s, s.currentPlan))
					r.Post("/checkout", wrap(s, s.checkout, jsonBody))
					r.Post("/portal", wrap(s, s.portal))
				})
			})
		}

		if s.cfg.AdminToken != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin(s.cfg.AdminToken))
				if s.blog != nil {
					r.Get("/blog", wrap(s, s.adminListPosts, query))
					r.Post("/blog", wrap(s, s.createPost, jsonBody))
					r.Put("/blog/{id}", wrap(s, s.updatePost, path, jsonBody))
					r.Delete("/blog/{id}", wrap(s, s.deletePost, path))
				}
				if s.billing != nil {
					r.Post("/billing/subscriptions", wrap(s, s.assignSubscription, jsonBody))
				}
			})
		}
	})

	if s.codes != nil {
		r.Get("/r/{code}", wrap(s, s.scan, path))
	}

	return r
}

// rateLimit applies the limiter per client IP and owner when one is
// configured.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	key := ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.ByHeader(OwnerHeader))
	return ratelimiter.Middleware(s.limiter, key,
		ratelimiter.WithLogger(s.log),
		ratelimiter.WithResponder(func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
			s.onError(handler.NewContext(w, r), handler.ErrTooManyRequests)
		}),
	)(next)
}

// errorResponse hands err back to Wrap so that it reaches the server's
// error handler.
type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// fail attaches an HTTP status to err.
func fail(err error) handler.Response {
	return errorResponse{err: mapError(err)}
}
