// Package redis connects to Redis through github.com/redis/go-redis/v9 and
// provides Storage, a prefixed byte store backing the shared render cache
// and the distributed rate limiter.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	store := redis.NewStorage(client, cfg.Redis)
//	_ = store.Set(ctx, "render:abc", png, time.Hour)
//
// Connect fails with ErrNoURL, ErrParseURL or ErrNotReady; Healthcheck
// failures wrap ErrUnhealthy.
package redis
