// Package ratelimiter implements token bucket rate limiting for the public
// API.
//
// A Bucket draws tokens from a Store: MemoryStore for a single instance,
// RedisStore (an atomic Lua script) when replicas share limits. Buckets
// start full, refill RefillRate tokens every RefillInterval, and a denied
// request consumes nothing.
//
//	store := ratelimiter.NewRedisStore(redisClient, "qrforge:rl:")
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       60,
//		RefillRate:     1,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter, ratelimiter.ByIP()))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every limited response and Retry-After on 429s.
// Store failures let the request through unless FailClosed is set.
package ratelimiter
