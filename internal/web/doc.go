// Package web is the HTTP surface: the JSON API, the live preview editor and
// the scan redirect for dynamic codes.
//
// Only the renderer is required. Saved codes, the blog and billing are
// mounted when their services are passed in:
//
//	srv := web.New(renderSvc, cfg.Web,
//		web.WithLogger(log),
//		web.WithCodes(codesSvc),
//		web.WithMetrics(m),
//		web.WithRateLimiter(limiter),
//	)
//	err := httpserver.NewFromConfig(cfg.HTTP).Run(ctx, srv.Routes())
//
// Routes requiring an account read it from the X-Owner-ID header, which an
// upstream gateway is expected to set after authentication.
package web
