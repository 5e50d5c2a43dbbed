// Package binder decodes HTTP request data into typed request structs for
// handler.Wrap.
//
// Three binders are provided:
//
//   - JSON(): strict JSON bodies (unknown fields rejected, 1MB limit)
//   - Query(): URL query parameters via `query` tags, falling back to `json`
//   - Path(extractor): router path parameters via `path` tags
//
// Binders run in the order they are passed to handler.WithBinders. A binder
// returning ErrBinderNotApplicable is skipped, which lets a JSON binder sit
// next to Query on endpoints that accept both GET and POST.
//
//	type renderRequest struct {
//		Type   payload.ContentType `json:"type" query:"type"`
//		Fields payload.Fields      `json:"fields" query:",inline"`
//	}
//
//	r.Get("/api/render.png", handler.Wrap(renderPNG,
//		handler.WithBinders[handler.Context, renderRequest](binder.Query()),
//	))
//
// # Errors
//
// Every failure wraps one of ErrUnsupportedMediaType, ErrMissingContentType,
// ErrJSON, ErrQuery or ErrPath, which the HTTP layer maps to 400 or 415.
package binder
