// Command qrforge runs the QR code HTTP service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/qrforge/qrforge/internal/web"
	"github.com/qrforge/qrforge/pkg/config"
	"github.com/qrforge/qrforge/pkg/httpserver"
	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/metrics"
	"github.com/qrforge/qrforge/pkg/mongo"
	"github.com/qrforge/qrforge/pkg/opensearch"
	"github.com/qrforge/qrforge/pkg/ratelimiter"
	"github.com/qrforge/qrforge/pkg/redis"
	"github.com/qrforge/qrforge/pkg/requestid"
	"github.com/qrforge/qrforge/pkg/storage"
	"github.com/qrforge/qrforge/svc/billing"
	"github.com/qrforge/qrforge/svc/blog"
	"github.com/qrforge/qrforge/svc/qrcodes"
	"github.com/qrforge/qrforge/svc/render"
)

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LogExtractor(), web.LogExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("qrforge stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	opened := &closers{log: log}
	defer func() { _ = opened.closeAll(context.WithoutCancel(ctx)) }()

	m := metrics.New()
	var checks []httpserver.Check
	serverOpts := []httpserver.Option{httpserver.WithLogger(log)}

	client, err := mongo.New(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	opened.add("mongo", client.Disconnect)
	db := client.Database(cfg.Mongo.Database)
	checks = append(checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})

	renderOpts := []render.Option{render.WithLogger(log), render.WithMetrics(m)}
	limitStore := ratelimiter.Store(ratelimiter.NewMemoryStore())
	if cfg.RedisEnabled {
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		opened.add("redis", func(context.Context) error { return rdb.Close() })
		renderOpts = append(renderOpts, render.WithSharedCache(redis.NewStorage(rdb, cfg.Redis), cfg.Render.SharedCacheTTL))
		limitStore = ratelimiter.NewRedisStore(rdb, cfg.Redis.KeyPrefix+"ratelimit:")
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	}
	renderer := render.New(cfg.Render, renderOpts...)

	limiter, err := ratelimiter.NewBucket(limitStore, cfg.RateLimit)
	if err != nil {
		return err
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	billingStore := billing.NewMongoStore(db)
	billingOpts := []billing.Option{billing.WithLogger(log), billing.WithSuccessURL(cfg.Paddle.SuccessURL)}
	if cfg.Paddle.Enabled() {
		provider, err := billing.NewPaddleProvider(cfg.Paddle)
		if err != nil {
			return err
		}
		billingOpts = append(billingOpts, billing.WithProvider(provider))
	} else {
		log.Info("billing provider not configured, checkout disabled")
	}
	billingSvc := billing.NewService(billingStore, billing.DefaultPlans(cfg.Paddle.ProPriceID), billingOpts...)

	codeStore := qrcodes.NewMongoStore(db)
	if err := codeStore.EnsureIndexes(ctx); err != nil {
		return err
	}
	codes := qrcodes.NewService(codeStore, renderer, blobs, billingSvc, cfg.Codes,
		qrcodes.WithLogger(log),
		qrcodes.WithMetrics(m),
	)

	postStore := blog.NewMongoStore(db)
	if err := postStore.EnsureIndexes(ctx); err != nil {
		return err
	}
	blogOpts := []blog.Option{blog.WithLogger(log)}
	if cfg.OpenSearch.Enabled() {
		search, err := opensearch.New(ctx, cfg.OpenSearch)
		if err != nil {
			return err
		}
		idx := blog.NewSearchIndex(opensearch.NewIndex(search, cfg.OpenSearch.IndexPrefix+blog.IndexName))
		if err := idx.Ensure(ctx); err != nil {
			return err
		}
		blogOpts = append(blogOpts, blog.WithIndex(idx))
		checks = append(checks, httpserver.Check{Name: "opensearch", Fn: opensearch.Healthcheck(search)})
	}
	posts := blog.NewService(postStore, blogOpts...)

	server := httpserver.NewFromConfig(cfg.HTTP, append(serverOpts, opened.handOver()...)...)
	checks = append(checks, server.DrainCheck())

	webCfg := cfg.Web
	if webCfg.FilesDir == "" && cfg.Storage.Driver != "s3" {
		webCfg.FilesDir = cfg.Storage.LocalDir
	}
	srv := web.New(renderer, webCfg,
		web.WithLogger(log),
		web.WithCodes(codes),
		web.WithBlog(posts),
		web.WithBilling(billingSvc),
		web.WithMetrics(m),
		web.WithRateLimiter(limiter),
		web.WithHealthChecks(checks...),
	)

	return server.Run(ctx, srv.Routes())
}
