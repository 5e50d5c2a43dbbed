// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware accepts a client supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-]; anything else is replaced with a fresh UUIDv7.
// The id is stored in the request context, echoed in the response header and,
// through LogExtractor, added to every log record written with that context.
package requestid
