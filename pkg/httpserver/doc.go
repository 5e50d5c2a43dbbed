// Package httpserver runs an http.Handler with a graceful, ordered shutdown.
//
// Run blocks until its context is cancelled (typically by
// signal.NotifyContext) or the listener fails. Shutdown then proceeds in
// three steps:
//
//  1. The server is marked draining. DrainCheck starts failing so readiness
//     probes report 503 while requests are still served for WithDrainDelay.
//  2. http.Server.Shutdown lets in-flight requests finish within the
//     shutdown timeout.
//  3. Closers registered with WithCloser run in reverse order, so database
//     clients opened first are closed last.
//
// HealthCheckHandler serves liveness (no checks) and readiness (named
// dependency checks) probes as small JSON documents.
//
// # Usage
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithCloser("mongo", client.Disconnect),
//	)
//	r.Get("/health/ready", httpserver.HealthCheckHandler(log, 2*time.Second,
//		srv.DrainCheck(),
//		httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//	))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Listen failures wrap ErrStart, drain failures wrap ErrShutdown and closer
// failures wrap ErrClose. All of them are joined into Run's result.
package httpserver
