package views

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/svc/render"
)

// Element ids patched by the preview endpoint.
const (
	PreviewID = "preview"
	ToastsID  = "toasts"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

// PreviewState is the first render of the editor page.
type PreviewState struct {
	Signals map[string]any
	Preview render.Preview
}

// DefaultSignals is the editor state for a fresh page.
func DefaultSignals(t payload.ContentType) map[string]any {
	s := qrcode.Style{}.Resolve()
	fields := map[string]any{}
	for _, in := range inputs[t] {
		if in.Kind == "checkbox" {
			fields[in.Name] = false
		} else {
			fields[in.Name] = ""
		}
	}
	if t == payload.TypeURL {
		fields["url"] = "https://example.com"
	}
	return map[string]any{
		"type":   string(t),
		"kind":   string(qrcode.KindRaster),
		"fields": fields,
		"style": map[string]any{
			"size":                 s.Size,
			"margin":               *s.Margin,
			"foregroundColor":      s.Foreground,
			"backgroundColor":      s.Background,
			"errorCorrectionLevel": string(s.Level),
		},
		"payload": "",
	}
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func attr(s string) string {
	return templ.EscapeString(s)
}

// Page wraps body in the site layout.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		w.text(title)
		w.raw(`</title><script type="module" src="`, datastarScript, `"></script></head><body>`,
			`<div id="`, ToastsID, `"></div><main>`)
		if w.err != nil {
			return w.err
		}
		if err := body.Render(ctx, out); err != nil {
			return err
		}
		w.raw(`</main></body></html>`)
		return w.err
	})
}

// PreviewPage is the full live editor.
func PreviewPage(state PreviewState) templ.Component {
	return Page("QR code generator", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		signals, err := json.Marshal(state.Signals)
		if err != nil {
			return err
		}
		w := &writer{w: out}
		w.raw(`<section class="editor" data-signals="`, attr(string(signals)), `">`)
		w.raw(`<form data-on-input__debounce.300ms="@post('/preview')" data-on-submit__prevent="@post('/preview')">`)

		w.raw(`<label>Type <select data-bind="type">`)
		for _, info := range payload.Types() {
			w.raw(`<option value="`, attr(string(info.Type)), `">`)
			w.text(info.Label)
			w.raw(`</option>`)
		}
		w.raw(`</select></label>`)

		for _, info := range payload.Types() {
			w.raw(`<fieldset data-show="$type == '`, attr(string(info.Type)), `'"><legend>`)
			w.text(info.Label)
			w.raw(`</legend>`)
			for _, in := range inputs[info.Type] {
				writeInput(w, in)
			}
			w.raw(`</fieldset>`)
		}

		w.raw(`<fieldset><legend>Style</legend>`,
			`<label>Size <input type="number" min="`, fmt.Sprint(qrcode.MinSize), `" max="`, fmt.Sprint(qrcode.MaxSize), `" data-bind="style.size"></label>`,
			`<label>Margin <input type="number" min="0" max="`, fmt.Sprint(qrcode.MaxMargin), `" data-bind="style.margin"></label>`,
			`<label>Foreground <input type="color" data-bind="style.foregroundColor"></label>`,
			`<label>Background <input type="color" data-bind="style.backgroundColor"></label>`,
			`<label>Error correction <select data-bind="style.errorCorrectionLevel">`,
			`<option value="L">Low</option><option value="M">Medium</option>`,
			`<option value="Q">Quartile</option><option value="H">High</option></select></label>`,
			`<label>Format <select data-bind="kind"><option value="raster">PNG</option><option value="vector">SVG</option></select></label>`,
			`</fieldset></form>`)
		w.raw(`<pre class="payload" data-text="$payload"></pre>`)
		if w.err != nil {
			return w.err
		}
		if err := PreviewResult(state.Preview).Render(ctx, out); err != nil {
			return err
		}
		w.raw(`</section>`)
		return w.err
	}))
}

func writeInput(w *writer, in input) {
	bind := attr("fields." + in.Name)
	w.raw(`<label>`)
	w.text(in.Label)
	w.raw(` `)
	switch in.Kind {
	case "textarea":
		w.raw(`<textarea data-bind="`, bind, `"></textarea>`)
	case "select":
		w.raw(`<select data-bind="`, bind, `">`)
		for _, opt := range in.Options {
			w.raw(`<option value="`, attr(opt), `">`)
			w.text(opt)
			w.raw(`</option>`)
		}
		w.raw(`</select>`)
	default:
		w.raw(`<input type="`, attr(in.Kind), `" data-bind="`, bind, `"`)
		if in.Kind == "number" {
			w.raw(` step="any"`)
		}
		w.raw(`>`)
	}
	w.raw(`</label>`)
}

// PreviewResult is the #preview fragment: the rendered code, the render
// error, or the list of validation messages.
func PreviewResult(p render.Preview) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div id="`, PreviewID, `" class="preview">`)
		switch {
		case !p.Result.Valid:
			w.raw(`<ul class="errors">`)
			for _, msg := range p.Result.Errors {
				w.raw(`<li>`)
				w.text(msg)
				w.raw(`</li>`)
			}
			w.raw(`</ul>`)
		case p.Error != "":
			w.raw(`<p class="error">`)
			w.text(p.Error)
			w.raw(`</p>`)
		case p.Artifact != nil:
			w.raw(`<img alt="QR code" width="`, fmt.Sprint(p.Artifact.Size), `" height="`, fmt.Sprint(p.Artifact.Size),
				`" src="`, attr(p.Artifact.DataURI()), `">`)
			w.raw(`<p class="meta">`)
			w.text(fmt.Sprintf("%d modules, %s", p.Artifact.Modules, strings.ToUpper(strings.TrimPrefix(p.Artifact.Extension(), "."))))
			w.raw(`</p>`)
		}
		w.raw(`</div>`)
		return w.err
	})
}

// Toast is the DataStar error notification.
func Toast(p handler.ErrorToastParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="toast `, attr(p.Type), `" role="alert"`)
		if p.RequestID != "" {
			w.raw(` data-request-id="`, attr(p.RequestID), `"`)
		}
		w.raw(`>`)
		w.text(p.Message)
		w.raw(`</div>`)
		return w.err
	})
}
