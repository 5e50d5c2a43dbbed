package web

import (
	"net/http"

	"github.com/qrforge/qrforge/handler"
	"github.com/qrforge/qrforge/svc/blog"
)

type listPostsQuery struct {
	Page pageQuery `query:",inline"`
	Tag  string    `query:"tag"`
}

type searchQuery struct {
	Q     string `query:"q"`
	Limit int    `query:"limit"`
}

type slugParam struct {
	Slug string `path:"slug"`
}

type updatePostRequest struct {
	ID string `path:"id" json:"-"`
	blog.PostInput
}

func (s *Server) listPosts(ctx handler.Context, q listPostsQuery) handler.Response {
	return s.posts(ctx, q, false)
}

func (s *Server) adminListPosts(ctx handler.Context, q listPostsQuery) handler.Response {
	return s.posts(ctx, q, true)
}

func (s *Server) posts(ctx handler.Context, q listPostsQuery, drafts bool) handler.Response {
	limit, offset := q.Page.bounds()
	page, err := s.blog.List(ctx, blog.ListOptions{
		Limit:         limit,
		Offset:        offset,
		Tag:           q.Tag,
		IncludeDrafts: drafts,
	})
	if err != nil {
		return fail(err)
	}
	return handler.JSON(page.Items, pageMeta(page.Total, limit, offset))
}

func (s *Server) searchPosts(ctx handler.Context, q searchQuery) handler.Response {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	results, err := s.blog.Search(ctx, q.Q, min(limit, maxPageSize))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(results)
}

func (s *Server) getPost(ctx handler.Context, p slugParam) handler.Response {
	post, err := s.blog.GetBySlug(ctx, p.Slug, false)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(post)
}

func (s *Server) createPost(ctx handler.Context, in blog.PostInput) handler.Response {
	post, err := s.blog.Create(ctx, in)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(post, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Server) updatePost(ctx handler.Context, req updatePostRequest) handler.Response {
	post, err := s.blog.Update(ctx, req.ID, req.PostInput)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(post)
}

func (s *Server) deletePost(ctx handler.Context, p idParam) handler.Response {
	if err := s.blog.Delete(ctx, p.ID); err != nil {
		return fail(err)
	}
	return handler.Empty()
}
