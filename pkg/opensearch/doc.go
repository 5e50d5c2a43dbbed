// Package opensearch wraps github.com/opensearch-project/opensearch-go/v2
// for full-text search over blog posts.
//
// New connects and checks the cluster; Index offers Ensure, Put, Delete and
// Search over one index of JSON documents:
//
//	idx := opensearch.NewIndex(client, cfg.IndexPrefix+"blog")
//	if err := idx.Ensure(ctx, mapping); err != nil {
//		return err
//	}
//	hits, total, err := idx.Search(ctx, map[string]any{
//		"query": map[string]any{"match": map[string]any{"title": "wifi"}},
//	})
//
// Transport and non-2xx failures wrap ErrRequestFailed; a failed probe in
// New or Healthcheck also wraps ErrUnhealthy.
package opensearch
