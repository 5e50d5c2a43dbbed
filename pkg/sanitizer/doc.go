// Package sanitizer cleans free-form user text before it is stored or
// rendered: blog titles and excerpts, tag lists and QR code names.
//
// Every helper is a plain func(string) string (or func([]string) []string)
// so they can be chained with Apply or stored as a pipeline with Compose:
//
//	title := sanitizer.Compose(
//	    sanitizer.StripHTML,
//	    sanitizer.StripControl,
//	    sanitizer.NormalizeWhitespace,
//	)
//	clean := title("  <b>Hello</b>\tworld ") // "Hello world"
//
// SingleLine is the pipeline above and is what most callers want.
package sanitizer
