// Package clientip resolves the address of the client behind an HTTP request.
//
// The address is used as the rate limiting key for anonymous API calls.
// Headers set by the edge proxy are checked first, then RemoteAddr.
package clientip
