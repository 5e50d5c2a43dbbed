package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qrforge/qrforge/pkg/logger"
)

// Closer releases a dependency after the server stops taking requests.
type Closer struct {
	Name string
	Fn   func(context.Context) error
}

// Server runs one http.Handler until its context ends, then drains it and
// closes registered dependencies in reverse order.
type Server struct {
	srv             *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
	drainDelay      time.Duration
	closers         []Closer

	listening chan struct{}
	addr      atomic.Value // string
	draining  atomic.Bool
	running   atomic.Bool
	stopOnce  sync.Once
	stopErr   error
}

// New returns a Server listening on ":8080" unless WithAddr says otherwise.
func New(opts ...Option) *Server {
	s := &Server{
		srv: &http.Server{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
		},
		log:             slog.New(slog.DiscardHandler),
		shutdownTimeout: 5 * time.Second,
		listening:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listening is closed once Run has bound its socket.
func (s *Server) Listening() <-chan struct{} { return s.listening }

// Addr is the bound address, useful with ":0". Empty before Listening fires.
func (s *Server) Addr() string {
	if v, ok := s.addr.Load().(string); ok {
		return v
	}
	return ""
}

// Draining reports whether shutdown has begun.
func (s *Server) Draining() bool { return s.draining.Load() }

// DrainCheck is a readiness probe that fails once shutdown has begun, so
// load balancers stop routing here during the drain delay.
func (s *Server) DrainCheck() Check {
	return Check{Name: "server", Fn: func(context.Context) error {
		if s.Draining() {
			return ErrDraining
		}
		return nil
	}}
}

// Run serves handler and blocks until ctx is cancelled or the listener fails.
// A cancelled ctx is a clean stop and returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	s.srv.Handler = handler

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		s.log.ErrorContext(ctx, "http server failed to listen", slog.String("addr", s.srv.Addr), logger.Error(err))
		return errors.Join(ErrStart, err, s.Shutdown(context.WithoutCancel(ctx)))
	}
	s.addr.Store(ln.Addr().String())
	close(s.listening)
	s.log.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "http server stopping", slog.String("cause", context.Cause(ctx).Error()))
		err := s.Shutdown(context.WithoutCancel(ctx))
		<-serveErr
		return err
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return s.Shutdown(context.WithoutCancel(ctx))
		}
		s.log.ErrorContext(ctx, "http server failed", logger.Error(err))
		return errors.Join(ErrStart, err, s.Shutdown(context.WithoutCancel(ctx)))
	}
}

// Shutdown marks the server as draining, waits the drain delay, lets
// in-flight requests finish within the shutdown timeout and then runs the
// closers. Repeated calls return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.draining.Store(true)
		if s.drainDelay > 0 && s.addr.Load() != nil {
			s.log.InfoContext(ctx, "http server draining", logger.Duration(s.drainDelay))
			select {
			case <-time.After(s.drainDelay):
			case <-ctx.Done():
			}
		}

		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()

		var errs []error
		start := time.Now()
		if err := s.srv.Shutdown(ctx); err != nil {
			errs = append(errs, errors.Join(ErrShutdown, err))
		}
		s.log.InfoContext(ctx, "http server stopped", logger.Duration(time.Since(start)))

		for i := len(s.closers) - 1; i >= 0; i-- {
			c := s.closers[i]
			if err := c.Fn(ctx); err != nil {
				s.log.WarnContext(ctx, "close failed", logger.Component(c.Name), logger.Error(err))
				errs = append(errs, errors.Join(ErrClose, err))
			}
		}
		s.stopErr = errors.Join(errs...)
	})
	return s.stopErr
}
