// Package render turns QR input into images: it validates the fields for a
// content type, formats the payload, and draws it through pkg/qrcode behind
// a two-tier cache.
//
//	svc := render.New(cfg.Render,
//		render.WithSharedCache(redis.NewStorage(rdb, cfg.Redis), cfg.Render.SharedCacheTTL),
//		render.WithMetrics(m),
//		render.WithLogger(log),
//	)
//	art, err := svc.Render(ctx, render.Request{
//		Type:   payload.TypeURL,
//		Fields: payload.Fields{URL: "https://example.com"},
//		Kind:   qrcode.KindVector,
//	})
//
// Preview is the non-failing variant used by the live editor.
package render
