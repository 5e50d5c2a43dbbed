package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/qrforge/qrforge/pkg/httpserver"
	"github.com/qrforge/qrforge/pkg/logger"
)

// closers collects connections opened during startup. Until they are handed
// to the server, closeAll releases them when a later setup step fails.
type closers struct {
	log  *slog.Logger
	list []httpserver.Closer
	done bool
}

func (c *closers) add(name string, fn func(context.Context) error) {
	c.list = append(c.list, httpserver.Closer{Name: name, Fn: fn})
}

// handOver returns server options owning every closer. closeAll is a no-op
// afterwards.
func (c *closers) handOver() []httpserver.Option {
	c.done = true
	opts := make([]httpserver.Option, 0, len(c.list))
	for _, cl := range c.list {
		opts = append(opts, httpserver.WithCloser(cl.Name, cl.Fn))
	}
	return opts
}

// closeAll runs the closers in reverse order unless they were handed over.
func (c *closers) closeAll(ctx context.Context) error {
	if c.done {
		return nil
	}
	c.done = true
	var errs []error
	for i := len(c.list) - 1; i >= 0; i-- {
		cl := c.list[i]
		if err := cl.Fn(ctx); err != nil {
			c.log.WarnContext(ctx, "close failed", logger.Component(cl.Name), logger.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
