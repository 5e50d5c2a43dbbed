// Package metrics exposes Prometheus collectors for renders, the render
// cache, dynamic code scans and HTTP traffic.
package metrics
