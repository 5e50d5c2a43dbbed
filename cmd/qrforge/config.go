package main

import (
	"github.com/qrforge/qrforge/internal/web"
	"github.com/qrforge/qrforge/pkg/httpserver"
	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/mongo"
	"github.com/qrforge/qrforge/pkg/opensearch"
	"github.com/qrforge/qrforge/pkg/ratelimiter"
	"github.com/qrforge/qrforge/pkg/redis"
	"github.com/qrforge/qrforge/pkg/storage"
	"github.com/qrforge/qrforge/pkg/validator"
	"github.com/qrforge/qrforge/svc/billing"
	"github.com/qrforge/qrforge/svc/qrcodes"
	"github.com/qrforge/qrforge/svc/render"
)

// appConfig is the whole server configuration, read from the environment
// and an optional .env file.
type appConfig struct {
	Log logger.Config

	// RedisEnabled turns on the shared render cache and the shared rate
	// limit store. Both fall back to process memory when disabled.
	RedisEnabled bool `env:"REDIS_ENABLED" envDefault:"false"`

	HTTP       httpserver.Config
	Web        web.Config
	Mongo      mongo.Config
	Redis      redis.Config
	OpenSearch opensearch.Config
	Storage    storage.Config
	Render     render.Config
	Codes      qrcodes.Config
	Paddle     billing.PaddleConfig
	RateLimit  ratelimiter.Config
}

// Validate checks settings that depend on each other.
func (c *appConfig) Validate() error {
	return validator.Apply(
		validator.OneOf("STORAGE_DRIVER", c.Storage.Driver, []string{"local", "s3"}),
		validator.RequiredString("S3_BUCKET", c.Storage.S3Bucket).
			When(c.Storage.Driver == "s3"),
		validator.RequiredString("PADDLE_PRO_PRICE_ID", c.Paddle.ProPriceID).
			When(c.Paddle.Enabled()),
		validator.OneOf("PADDLE_ENVIRONMENT", c.Paddle.Environment, []string{"sandbox", "production"}),
	)
}
