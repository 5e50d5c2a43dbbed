package handler

import (
	"errors"
	"net/http"

	"github.com/qrforge/qrforge/pkg/binder"
)

// HandlerFunc handles a request already decoded into R.
//
//	format := func(ctx handler.Context, req formatRequest) handler.Response {
//		return handler.JSON(map[string]string{
//			"payload": payload.FormatFields(req.Type, req.Fields),
//		})
//	}
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response writes status, headers and body. A returned error goes to the
// route's ErrorHandler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind decodes part of r into v. Binders returning
// binder.ErrBinderNotApplicable are skipped.
type Bind func(r *http.Request, v any) error

// ErrorHandler reports binding and rendering failures to the client.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc, e.g. to enforce authentication:
//
//	func requireOwner[R any](next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
//		return func(ctx handler.Context, req R) handler.Response {
//			if ownerID(ctx) == "" {
//				return handler.JSONError(handler.ErrUnauthorized)
//			}
//			return next(ctx, req)
//		}
//	}
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*route[C, R])

type route[C Context, R any] struct {
	binders    []Bind
	onError    ErrorHandler[C]
	newContext func(http.ResponseWriter, *http.Request) C
	decorators []Decorator[C, R]
}

// WithBinder replaces the binder list with b.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(rt *route[C, R]) {
		if b != nil {
			rt.binders = []Bind{b}
		}
	}
}

// WithBinders appends binders; they run in order over the same value.
//
//	r.Patch("/api/codes/{id}", handler.Wrap(updateCode,
//		handler.WithBinders[handler.Context, updateRequest](binder.Path(chi.URLParam), binder.JSON()),
//	))
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(rt *route[C, R]) { rt.binders = append(rt.binders, binders...) }
}

func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(rt *route[C, R]) {
		if h != nil {
			rt.onError = h
		}
	}
}

// WithContextFactory is required when C is not the package's own Context.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(rt *route[C, R]) {
		if f != nil {
			rt.newContext = f
		}
	}
}

// WithDecorators adds decorators; the first one runs outermost.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(rt *route[C, R]) { rt.decorators = append(rt.decorators, decorators...) }
}

// Wrap turns h into an http.HandlerFunc. Binding failures become 400 or 415
// errors; they and render errors go to the error handler, which by default
// writes a JSON error body.
//
//	r.Post("/api/validate", handler.Wrap(validate,
//		handler.WithBinder[handler.Context, validateRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, validateRequest](onError),
//	))
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	rt := &route[C, R]{
		onError:    writeJSONError[C],
		newContext: defaultContext[C],
	}
	for _, opt := range opts {
		opt(rt)
	}
	for i := len(rt.decorators) - 1; i >= 0; i-- {
		h = rt.decorators[i](h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := rt.newContext(w, r)

		var req R
		if err := rt.bind(r, &req); err != nil {
			rt.onError(ctx, badRequest(err))
			return
		}

		resp := h(ctx, req)
		if resp == nil {
			rt.onError(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			rt.onError(ctx, err)
		}
	}
}

func (rt *route[C, R]) bind(r *http.Request, req *R) error {
	for _, b := range rt.binders {
		if err := b(r, req); err != nil && !errors.Is(err, binder.ErrBinderNotApplicable) {
			return err
		}
	}
	return nil
}

func defaultContext[C Context](w http.ResponseWriter, r *http.Request) C {
	c, ok := any(NewContext(w, r)).(C)
	if !ok {
		panic("handler: custom context type requires WithContextFactory")
	}
	return c
}

func writeJSONError[C Context](ctx C, err error) {
	if JSONError(err).Render(ctx.ResponseWriter(), ctx.Request()) != nil {
		http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
