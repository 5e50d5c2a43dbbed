package blog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/qrforge/qrforge/pkg/opensearch"
)

// Index is the full-text search index for published posts.
type Index interface {
	Put(ctx context.Context, p *Post) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// NopIndex is used when no search backend is configured. It indexes
// nothing and finds nothing.
type NopIndex struct{}

func (NopIndex) Put(context.Context, *Post) error     { return nil }
func (NopIndex) Remove(context.Context, string) error { return nil }
func (NopIndex) Search(context.Context, string, int) ([]SearchResult, error) {
	return []SearchResult{}, nil
}

// IndexName is the OpenSearch index suffix for posts.
const IndexName = "blog_posts"

// SearchIndex is the OpenSearch-backed Index.
type SearchIndex struct {
	idx *opensearch.Index
}

// NewSearchIndex wraps an OpenSearch index.
func NewSearchIndex(idx *opensearch.Index) *SearchIndex {
	return &SearchIndex{idx: idx}
}

// Mapping is the index mapping for post documents.
var Mapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"slug":         map[string]any{"type": "keyword"},
			"title":        map[string]any{"type": "text"},
			"excerpt":      map[string]any{"type": "text"},
			"body":         map[string]any{"type": "text"},
			"tags":         map[string]any{"type": "keyword"},
			"published_at": map[string]any{"type": "date"},
		},
	},
}

// Ensure creates the index when it is missing.
func (s *SearchIndex) Ensure(ctx context.Context) error {
	return s.idx.Ensure(ctx, Mapping)
}

type indexDoc struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (s *SearchIndex) Put(ctx context.Context, p *Post) error {
	return s.idx.Put(ctx, p.ID, indexDoc{
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Body:        p.Body,
		Tags:        p.Tags,
		PublishedAt: p.PublishedAt,
	})
}

func (s *SearchIndex) Remove(ctx context.Context, id string) error {
	return s.idx.Delete(ctx, id)
}

// Search matches query against title, excerpt, body and tags, with title
// matches weighted highest.
func (s *SearchIndex) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	hits, _, err := s.idx.Search(ctx, map[string]any{
		"size":    limit,
		"_source": []string{"slug", "title", "excerpt"},
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^3", "excerpt^2", "body", "tags^2"},
				"fuzziness": "AUTO",
			},
		},
	})
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		var doc indexDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			continue
		}
		out = append(out, SearchResult{
			ID:      h.ID,
			Slug:    doc.Slug,
			Title:   doc.Title,
			Excerpt: doc.Excerpt,
			Score:   h.Score,
		})
	}
	return out, nil
}
