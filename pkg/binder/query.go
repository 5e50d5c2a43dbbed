package binder

import "net/http"

// Query creates a query parameter binder.
//
// Parameter names come from the `query` tag, then the `json` tag, then the
// lowercased field name. `query:"-"` skips a field. Struct fields tagged
// `query:",inline"` are flattened, so a request type can embed payload
// fields and style settings and bind them from one flat query string.
//
// Supported types:
//   - Basic types: string (and named string types), ints, uints, floats, bool
//   - Slices of basic types (?tag=a&tag=b or ?tag=a,b)
//   - Pointers for optional fields
//
// Example:
//
//	type renderQuery struct {
//		Type   payload.ContentType `query:"type"`
//		Fields payload.Fields      `query:",inline"`
//		Style  qrcode.Style        `query:",inline"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rv, err := target(v, ErrQuery)
		if err != nil {
			return err
		}
		return bindTagged(rv, "query", r.URL.Query(), ErrQuery)
	}
}
