package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/internal/web/views"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/svc/render"
)

// flexNumber accepts a JSON number, a numeric string or an empty string.
// Inputs bound by the editor send whatever the browser holds, so a cleared
// number field arrives as "".
type flexNumber struct {
	v   float64
	set bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = flexNumber{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = flexNumber{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = flexNumber{v: v, set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexNumber{v: v, set: true}
	return nil
}

func (n flexNumber) float() *float64 {
	if !n.set {
		return nil
	}
	return payload.Float(n.v)
}

func (n flexNumber) int() int {
	return int(n.v)
}

// previewFields shadows the numeric members of payload.Fields.
type previewFields struct {
	payload.Fields
	Latitude  flexNumber `json:"latitude"`
	Longitude flexNumber `json:"longitude"`
}

type previewStyle struct {
	Size       flexNumber   `json:"size"`
	Margin     flexNumber   `json:"margin"`
	Foreground string       `json:"foregroundColor"`
	Background string       `json:"backgroundColor"`
	Level      qrcode.Level `json:"errorCorrectionLevel"`
}

// previewRequest is the editor's signal store.
type previewRequest struct {
	Type   payload.ContentType `json:"type" query:"type"`
	Kind   qrcode.Kind         `json:"kind" query:"kind"`
	Fields previewFields       `json:"fields" query:"-"`
	Style  previewStyle        `json:"style" query:"-"`
}

func (p previewRequest) request() render.Request {
	f := p.Fields.Fields
	f.Latitude = p.Fields.Latitude.float()
	f.Longitude = p.Fields.Longitude.float()

	st := qrcode.Style{
		Size:       p.Style.Size.int(),
		Foreground: p.Style.Foreground,
		Background: p.Style.Background,
		Level:      p.Style.Level,
	}
	if p.Style.Margin.set {
		st.Margin = qrcode.Margin(p.Style.Margin.int())
	}

	kind := p.Kind
	if kind == "" {
		kind = qrcode.KindRaster
	}
	return render.Request{Type: p.Type, Fields: f, Style: st, Kind: kind}
}

// signalsOrJSON binds the editor's signals, or a plain JSON body for
// clients that are not running the editor.
func signalsOrJSON(r *http.Request, v any) error {
	if handler.IsDataStar(r) {
		return handler.Signals(r, v)
	}
	return jsonBody(r, v)
}

// previewPage serves the editor. ?type= preselects a content type. The
// first preview is rendered from the same signals the editor starts with.
func (s *Server) previewPage(ctx handler.Context, q previewRequest) handler.Response {
	t, err := payload.ParseContentType(string(q.Type))
	if err != nil {
		t = payload.TypeURL
	}
	signals := views.DefaultSignals(t)

	var req previewRequest
	raw, err := json.Marshal(signals)
	if err == nil {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return fail(err)
	}
	p := s.render.Preview(ctx, req.request())
	signals["payload"] = p.Payload

	return handler.Templ(views.PreviewPage(views.PreviewState{
		Signals: signals,
		Preview: p,
	}))
}

// preview re-renders the preview fragment. Editor requests get an event
// stream patching #preview and the payload signal; other clients get the
// fragment as HTML.
func (s *Server) preview(ctx handler.Context, req previewRequest) handler.Response {
	p := s.render.Preview(ctx, req.request())

	if !handler.IsDataStar(ctx.Request()) {
		status := http.StatusOK
		if !p.Result.Valid {
			status = http.StatusUnprocessableEntity
		}
		return handler.TemplWithStatus(status, views.PreviewResult(p))
	}

	return handler.SSE(func(stream *handler.Stream) error {
		if err := stream.Component(views.PreviewResult(p), handler.WithTarget("#"+views.PreviewID)); err != nil {
			return err
		}
		return stream.Signal("payload", p.Payload)
	})
}
