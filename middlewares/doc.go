// Package middlewares provides HTTP middleware for the clipdrop server.
//
// # Request ID
//
// RequestID assigns an ID to each request. An ID sent by a proxy in
// X-Request-ID or X-Correlation-ID is kept when it is short printable
// ASCII; otherwise a UUID is generated. Pass RequestIDExtractor to
// logger.New so every log line written with the request context carries
// request_id:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//
// # Access log
//
// AccessLog writes one line per request with status, size and duration.
// Health checks are usually skipped:
//
//	middlewares.AccessLog(middlewares.WithAccessLogSkip("/health/live", "/health/ready"))
//
// # Recover
//
// Recover converts panics into *PanicError for the error handler.
//
// # Timeout
//
// Timeout installs a deadline on the request context and returns
// *TimeoutError when the handler overruns it. Synchronous uploads take
// minutes, so the server exempts them:
//
//	middlewares.Timeout(30*time.Second, middlewares.WithTimeoutSkip("/upload"))
//
// Handlers running under Timeout execute on their own goroutine, so
// Timeout also recovers their panics.
//
// # Error handler
//
// ErrorHandler renders every error as the JSON error body and adds the
// request ID.
//
// # Recommended Order
//
//	internal.New(
//	    internal.WithLogger(log),
//	    internal.WithErrorHandler(middlewares.ErrorHandler()),
//	    internal.WithMiddleware(
//	        middlewares.RequestID(),  // First: every later log line has the ID
//	        middlewares.AccessLog(),  // Second: sees the final status
//	        middlewares.Recover(),
//	        middlewares.Timeout(30*time.Second, middlewares.WithTimeoutSkip("/upload")),
//	    ),
//	)
package middlewares
