package blog

import (
	"time"

	"github.com/qrforge/qrforge/pkg/sanitizer"
)

// Post is a blog article. Readers only see published posts.
type Post struct {
	ID          string     `json:"id" bson:"_id"`
	Slug        string     `json:"slug" bson:"slug"`
	Title       string     `json:"title" bson:"title"`
	Excerpt     string     `json:"excerpt" bson:"excerpt"`
	Body        string     `json:"body" bson:"body"`
	Tags        []string   `json:"tags" bson:"tags"`
	Published   bool       `json:"published" bson:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}

// PostInput creates or replaces a post. An empty Slug is derived from Title.
type PostInput struct {
	Title     string   `json:"title"`
	Slug      string   `json:"slug,omitempty"`
	Excerpt   string   `json:"excerpt"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

// ListOptions pages through posts, newest first.
type ListOptions struct {
	Limit         int
	Offset        int
	Tag           string
	IncludeDrafts bool
}

// Page is one page of posts and the total matching count.
type Page struct {
	Items []Post `json:"items"`
	Total int64  `json:"total"`
}

// SearchResult is one full-text search match.
type SearchResult struct {
	ID      string  `json:"id"`
	Slug    string  `json:"slug"`
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
}

const (
	defaultLimit   = 10
	maxLimit       = 50
	maxTitleLength = 200
	maxSlugLength  = 80
	maxTags        = 10
)

func (o ListOptions) normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	o.Limit = min(o.Limit, maxLimit)
	o.Offset = max(o.Offset, 0)
	o.Tag = sanitizer.Tag(o.Tag)
	return o
}
