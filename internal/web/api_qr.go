package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/pkg/binder"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/svc/render"
)

var (
	jsonBody handler.Bind = binder.JSON()
	query    handler.Bind = binder.Query()
	path     handler.Bind = binder.Path(chi.URLParam)
)

// wrap adapts a typed handler to net/http with the server's error handler.
func wrap[R any](s *Server, h func(handler.Context, R) handler.Response, binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(handler.HandlerFunc[handler.Context, R](h),
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](s.onError),
	)
}

type contentRequest struct {
	Type   payload.ContentType `json:"type"`
	Fields payload.Fields      `json:"fields"`
}

type renderResponse struct {
	Kind     qrcode.Kind `json:"kind"`
	MIMEType string      `json:"mimeType"`
	Size     int         `json:"size"`
	Modules  int         `json:"modules"`
	DataURI  string      `json:"dataUri"`
	SVG      string      `json:"svg,omitempty"`
}

func newRenderResponse(a *qrcode.Artifact) renderResponse {
	return renderResponse{
		Kind:     a.Kind,
		MIMEType: a.MIMEType,
		Size:     a.Size,
		Modules:  a.Modules,
		DataURI:  a.DataURI(),
		SVG:      a.Markup(),
	}
}

// renderQuery is the flat query string form of render.Request.
type renderQuery struct {
	Type     payload.ContentType `query:"type"`
	Download bool                `query:"download"`
	payload.Fields
	qrcode.Style
}

func (s *Server) types(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(payload.Types())
}

func (s *Server) validate(_ handler.Context, req contentRequest) handler.Response {
	return handler.JSON(payload.Validate(req.Type, req.Fields))
}

func (s *Server) format(_ handler.Context, req contentRequest) handler.Response {
	if res := payload.Validate(req.Type, req.Fields); !res.Valid {
		return fail(res.Err())
	}
	return handler.JSON(map[string]string{
		"payload": payload.FormatFields(req.Type, req.Fields),
	})
}

func (s *Server) renderJSON(ctx handler.Context, req render.Request) handler.Response {
	a, err := s.render.Render(ctx, req)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(newRenderResponse(a))
}

// renderImage streams the artifact for kind. The response is cacheable:
// the same query always yields the same bytes.
func (s *Server) renderImage(kind qrcode.Kind) func(handler.Context, renderQuery) handler.Response {
	return func(ctx handler.Context, q renderQuery) handler.Response {
		a, err := s.render.Render(ctx, render.Request{
			Type:   q.Type,
			Fields: q.Fields,
			Style:  q.Style,
			Kind:   kind,
		})
		if err != nil {
			return fail(err)
		}
		opts := []handler.BlobOption{
			handler.WithCacheControl("public, max-age=86400"),
			handler.WithETag(),
		}
		if q.Download {
			opts = append(opts, handler.WithAttachment("qrcode-"+string(q.Type)+"-"+strconv.Itoa(a.Size)+a.Extension()))
		}
		return handler.Blob(a.MIMEType, a.Data, opts...)
	}
}
