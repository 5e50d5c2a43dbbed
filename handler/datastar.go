package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/qrforge/qrforge/pkg/binder"
)

// PatchPrepend inserts patched elements at the start of the target.
const PatchPrepend = datastar.ElementPatchModePrepend

// PatchOption tunes how a component is patched into the page.
type PatchOption = datastar.PatchElementOption

// WithTarget patches into the element matching selector instead of the
// element carrying the component's root id.
func WithTarget(selector string) PatchOption { return datastar.WithSelector(selector) }

// WithPatchMode switches the default morph to another patch mode.
func WithPatchMode(mode datastar.ElementPatchMode) PatchOption { return datastar.WithMode(mode) }

// IsDataStar reports whether r was sent by the DataStar client: it either
// accepts an event stream or carries signals in the "datastar" query parameter.
func IsDataStar(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream") ||
		r.URL.Query().Has("datastar")
}

// Signals binds the DataStar signal store sent with r into v. GET requests
// carry signals in the query string, other methods in the body. It returns
// binder.ErrBinderNotApplicable for other requests so it can sit next to
// binder.Query in WithBinders.
func Signals(r *http.Request, v any) error {
	if !IsDataStar(r) {
		return binder.ErrBinderNotApplicable
	}
	if err := datastar.ReadSignals(r, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignals, err)
	}
	return nil
}

// view renders page as HTML, or fragment as an element patch when the
// request came from DataStar.
type view struct {
	status   int
	page     templ.Component
	fragment templ.Component
	opts     []PatchOption
}

func (v view) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(v.fragment, v.opts...)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if v.status != 0 {
		w.WriteHeader(v.status)
	}
	return v.page.Render(r.Context(), w)
}

// Templ renders c as a page, or patches it in for DataStar requests.
//
//	return handler.Templ(views.PreviewResult(p), handler.WithTarget("#preview"))
func Templ(c templ.Component, opts ...PatchOption) Response {
	return view{page: c, fragment: c, opts: opts}
}

// TemplWithStatus is Templ with a status for page renders. Patches always
// go out as 200 event streams.
func TemplWithStatus(status int, c templ.Component, opts ...PatchOption) Response {
	return view{status: status, page: c, fragment: c, opts: opts}
}

// TemplPartial lets one route serve both the first page load and later
// in-place updates: DataStar gets partial, everyone else gets full.
//
//	return handler.TemplPartial(views.PreviewResult(p), views.PreviewPage(state),
//		handler.WithTarget("#preview"))
func TemplPartial(partial, full templ.Component, opts ...PatchOption) Response {
	return view{page: full, fragment: partial, opts: opts}
}
