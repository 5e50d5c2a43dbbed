// Package cache provides a generic in-process LRU cache with optional TTL.
//
// The render service uses it as the first tier in front of Redis:
//
//	lru := cache.NewLRUCache[string, []byte](1024, cache.WithTTL(10*time.Minute))
//	if data, ok := lru.Get(key); ok {
//		return data
//	}
package cache
