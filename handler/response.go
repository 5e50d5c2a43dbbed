package handler

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// ResponseFunc adapts a plain function to Response.
type ResponseFunc func(w http.ResponseWriter, r *http.Request) error

func (f ResponseFunc) Render(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// Status writes code with no body.
func Status(code int) Response {
	return ResponseFunc(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(code)
		return nil
	})
}

// Empty is Status(204).
func Empty() Response {
	return Status(http.StatusNoContent)
}

// Redirect sends the client to url with 303 See Other. DataStar requests
// are redirected client side through an SSE event instead.
func Redirect(url string) Response {
	return RedirectWithCode(url, http.StatusSeeOther)
}

// RedirectWithCode is Redirect with an explicit status, e.g. 302 for scan
// redirects that must not be cached as permanent.
func RedirectWithCode(url string, code int) Response {
	return ResponseFunc(func(w http.ResponseWriter, r *http.Request) error {
		if IsDataStar(r) {
			return datastar.NewSSE(w, r).Redirect(url)
		}
		http.Redirect(w, r, url, code)
		return nil
	})
}
