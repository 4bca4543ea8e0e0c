package internal

// Handler declares routes on a router.
//
// Example:
//
//	type UploadsHandler struct {
//	    svc *uploads.Service
//	}
//
//	func (h *UploadsHandler) Routes(r internal.Router) {
//	    r.POST("/upload", h.upload)
//	    r.GET("/uploads/{id}", h.show)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
