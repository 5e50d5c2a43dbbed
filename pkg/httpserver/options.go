package httpserver

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Empty keeps ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.srv.Addr = addr
		}
	}
}

// WithTimeouts sets the http.Server read, header, write and idle timeouts.
// Non-positive values leave the current setting.
func WithTimeouts(read, header, write, idle time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.srv.ReadTimeout = read
		}
		if header > 0 {
			s.srv.ReadHeaderTimeout = header
		}
		if write > 0 {
			s.srv.WriteTimeout = write
		}
		if idle > 0 {
			s.srv.IdleTimeout = idle
		}
	}
}

// WithShutdownTimeout bounds how long in-flight requests and closers may take.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithDrainDelay keeps serving for d after shutdown begins while readiness
// already reports not ready.
func WithDrainDelay(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.drainDelay = d
		}
	}
}

// WithLogger sets the lifecycle logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCloser registers fn to run after the listener is drained. Closers run
// in reverse registration order, so register dependencies before the
// services built on them.
func WithCloser(name string, fn func(context.Context) error) Option {
	if fn == nil {
		panic("httpserver: nil closer " + name)
	}
	return func(s *Server) {
		s.closers = append(s.closers, Closer{Name: name, Fn: fn})
	}
}
