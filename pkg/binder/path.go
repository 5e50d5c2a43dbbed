package binder

import (
	"fmt"
	"net/http"
)

// Path binds router parameters read through extractor. Only fields with
// an explicit `path` tag are filled; empty parameters are skipped.
//
//	type codeRequest struct {
//		ID string `path:"id"`
//	}
//
//	r.Get("/api/codes/{id}", handler.Wrap(getCode,
//		handler.WithBinder[handler.Context, codeRequest](binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: nil extractor", ErrPath)
		}
		rv, err := target(v, ErrPath)
		if err != nil {
			return err
		}
		values := make(map[string][]string)
		rt := rv.Type()
		for i := range rt.NumField() {
			name := rt.Field(i).Tag.Get("path")
			if name == "" || name == "-" {
				continue
			}
			if value := extractor(r, name); value != "" {
				values[name] = []string{value}
			}
		}
		return bindTagged(rv, "path", values, ErrPath)
	}
}
