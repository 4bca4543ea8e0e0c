// Package internal provides the HTTP core of the clipdrop server: the App
// lifecycle, routing on top of chi, the request Context and JSON error
// rendering.
//
// # Core Types
//
//   - App: owns the router, middleware and graceful shutdown
//   - Context: request/response access, JSON helpers and request-scoped logging
//   - Router: interface handlers use to declare routes
//   - Handler: implemented by types that declare routes on a router
//   - HandlerFunc: route handler signature; returned errors go to the error handler
//   - Middleware: wraps handlers with cross-cutting concerns
//   - Worker: background process started and stopped with the server
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any
// function that expects one:
//
//	func (h *Uploads) show(c internal.Context) error {
//	    rec, err := h.svc.Get(c, id)
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(http.StatusOK, rec)
//	}
//
// Middleware that needs a different context for the rest of the chain, such
// as a deadline, calls SetContext before invoking next.
//
// # Application Structure
//
//	app := internal.New(
//	    internal.WithLogger(log),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithHandlers(handlers.NewUploads(svc)),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("db", db.Healthcheck(pool))),
//	    internal.WithWorker(jobs),
//	)
//	err := app.Run(":3000", internal.Logger(log), internal.ShutdownHook(db.Shutdown(pool)))
//
// # Errors
//
// Handlers return errors instead of writing failure responses. An HTTPError
// anywhere in the chain is rendered as
//
//	{"status":"error","message":"...","kind":"..."}
//
// with its own status code. Any other error becomes a 500 whose body does
// not include the cause. WithErrorHandler replaces this behaviour.
//
// # Lifecycle
//
// Run starts workers and startup hooks in order, then listens. On SIGINT or
// SIGTERM it stops accepting requests, drains in-flight ones, stops workers
// and runs shutdown hooks, all within the shutdown timeout.
package internal
