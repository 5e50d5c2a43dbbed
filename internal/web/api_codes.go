package web

import (
	"net/http"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/useragent"
	"github.com/qrforge/qrforge/svc/qrcodes"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pageQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// bounds clamps the page window.
func (q pageQuery) bounds() (limit, offset int) {
	limit = q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	return min(limit, maxPageSize), max(q.Offset, 0)
}

type listCodesQuery struct {
	Page pageQuery           `query:",inline"`
	Type payload.ContentType `query:"type"`
}

type idParam struct {
	ID string `path:"id"`
}

type updateCodeRequest struct {
	ID string `path:"id" json:"-"`
	qrcodes.UpdateInput
}

type shortCodeParam struct {
	Code string `path:"code"`
}

func pageMeta(total int64, limit, offset int) handler.JSONOption {
	return handler.WithJSONMeta(map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) createCode(ctx handler.Context, in qrcodes.CreateInput) handler.Response {
	code, err := s.codes.Create(ctx, ownerID(ctx), in)
	if err != nil {
		return fail(err)
	}
	s.log.InfoContext(ctx, "code created",
		logger.OwnerID(code.OwnerID),
		logger.CodeID(code.ID),
		logger.ContentType(string(code.Type)))
	return handler.JSON(code, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Server) listCodes(ctx handler.Context, q listCodesQuery) handler.Response {
	limit, offset := q.Page.bounds()
	page, err := s.codes.List(ctx, ownerID(ctx), qrcodes.ListOptions{
		Limit:  limit,
		Offset: offset,
		Type:   q.Type,
	})
	if err != nil {
		return fail(err)
	}
	return handler.JSON(page.Items, pageMeta(page.Total, limit, offset))
}

func (s *Server) getCode(ctx handler.Context, p idParam) handler.Response {
	code, err := s.codes.Get(ctx, ownerID(ctx), p.ID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(code)
}

func (s *Server) codeImage(ctx handler.Context, p idParam) handler.Response {
	code, err := s.codes.Get(ctx, ownerID(ctx), p.ID)
	if err != nil {
		return fail(err)
	}
	if code.ImageURL == "" {
		return fail(qrcodes.ErrNotFound)
	}
	return handler.RedirectWithCode(code.ImageURL, http.StatusFound)
}

func (s *Server) updateCode(ctx handler.Context, req updateCodeRequest) handler.Response {
	code, err := s.codes.Update(ctx, ownerID(ctx), req.ID, req.UpdateInput)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(code)
}

func (s *Server) deleteCode(ctx handler.Context, p idParam) handler.Response {
	if err := s.codes.Delete(ctx, ownerID(ctx), p.ID); err != nil {
		return fail(err)
	}
	return handler.Empty()
}

// scan resolves a dynamic code. Redirects are never cached so that every
// scan is counted and destination changes apply at once.
func (s *Server) scan(ctx handler.Context, p shortCodeParam) handler.Response {
	device := useragent.Classify(ctx.Request().UserAgent())
	dest, err := s.codes.Resolve(ctx, p.Code, device)
	if err != nil {
		return fail(err)
	}
	ctx.ResponseWriter().Header().Set("Cache-Control", "no-store")
	return handler.RedirectWithCode(dest, http.StatusFound)
}
