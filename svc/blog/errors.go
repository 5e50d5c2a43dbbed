package blog

import "errors"

var (
	ErrNotFound      = errors.New("blog post not found")
	ErrDuplicateSlug = errors.New("blog post slug already exists")
	ErrInvalidPost   = errors.New("invalid blog post")
	ErrEmptyQuery    = errors.New("search query is empty")
)
