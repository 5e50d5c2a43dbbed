// Package logger builds *slog.Logger values for qrforge services.
//
// New takes functional options for format (text or json), level, static
// attributes and ContextExtractor callbacks. Extractors run on every record,
// so request-scoped values such as the request id or the owner id show up
// without being passed explicitly. Config carries the same settings from the
// environment (APP_ENV, SERVICE_NAME, LOG_LEVEL, LOG_FORMAT).
//
// attr.go holds constructors for the attribute keys used across the code base
// (request_id, owner_id, code_id, content_type, kind, cache, plan). Use them
// instead of ad-hoc keys so log queries keep working.
//
// # Usage
//
//	log := logger.New(
//		logger.WithConfig(cfg.Log),
//		logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "qr code rendered",
//		logger.ContentType("wifi"),
//		logger.Duration(time.Since(start)),
//	)
//
// Error and Errors return an empty attribute for nil errors, which slog drops,
// so they can be passed unconditionally.
package logger
