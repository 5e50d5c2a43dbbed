package handler

import (
	"context"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// Context is the request context handed to handlers. It is a
// context.Context carrying the request's deadline and values.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	// SSE returns the DataStar event generator, or nil for other requests.
	// The generator is created on first use, after binders have read the
	// request body.
	SSE() *datastar.ServerSentEventGenerator
}

// NewContext returns the default Context for a request.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{Context: r.Context(), w: w, r: r}
}

type httpContext struct {
	context.Context
	w   http.ResponseWriter
	r   *http.Request
	sse *datastar.ServerSentEventGenerator
}

func (c *httpContext) Request() *http.Request              { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter { return c.w }

func (c *httpContext) SSE() *datastar.ServerSentEventGenerator {
	if c.sse == nil && IsDataStar(c.r) {
		c.sse = datastar.NewSSE(c.w, c.r)
	}
	return c.sse
}

// Key is a typed context key. Declare one per value as a package variable.
//
//	var ownerKey = handler.NewKey[string]("owner")
//
//	ctx = ownerKey.With(ctx, "acct_123")
//	owner, ok := ownerKey.From(ctx)
type Key[T any] struct{ name *string }

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: &name}
}

func (k Key[T]) String() string { return *k.name }

// With returns a copy of ctx carrying v.
func (k Key[T]) With(ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, k, v)
}

// From returns the value stored under k and whether it was present.
func (k Key[T]) From(ctx context.Context) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// Value is From without the presence flag.
func (k Key[T]) Value(ctx context.Context) T {
	v, _ := k.From(ctx)
	return v
}
