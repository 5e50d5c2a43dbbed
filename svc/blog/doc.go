// Package blog serves the product blog: posts in the Mongo "blog_posts"
// collection with full-text search through OpenSearch.
//
// Slugs are derived from titles and kept unique by retrying with a random
// suffix. Edits keep the slug unless a new one is given. Published posts are
// indexed on create and update and removed from the index when unpublished
// or deleted. When OpenSearch is not configured the service runs with
// NopIndex and search returns no results.
package blog
