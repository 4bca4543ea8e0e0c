package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router declares routes. Route middleware passed to Handle, GET or POST
// runs after the router's own stack, in the order given.
type Router interface {
	Handle(method, path string, h HandlerFunc, mw ...Middleware)
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)

	// Group runs fn on a sub-router. With a non-empty prefix the routes
	// are mounted under it; either way middleware added with Use inside fn
	// stays local to the group.
	Group(prefix string, fn func(r Router))

	Use(mw ...Middleware)
}

type chiRouter struct {
	mux chi.Router
	app *App
}

func (r *chiRouter) Handle(method, path string, h HandlerFunc, mw ...Middleware) {
	r.mux.Method(method, path, r.chain(h, mw))
}

func (r *chiRouter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, path, h, mw...)
}

func (r *chiRouter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, path, h, mw...)
}

func (r *chiRouter) Group(prefix string, fn func(Router)) {
	sub := func(mux chi.Router) { fn(&chiRouter{mux: mux, app: r.app}) }
	if prefix == "" {
		r.mux.Group(sub)
		return
	}
	r.mux.Route(prefix, sub)
}

func (r *chiRouter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.mux.Use(r.app.adaptMiddleware(m))
	}
}

func (r *chiRouter) chain(h HandlerFunc, mw []Middleware) http.Handler {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return r.app.wrapHandler(h)
}

// adaptMiddleware runs mw as chi middleware. The Context handed to mw
// reuses the response writer of an outer Context, so status and size seen
// by later middleware stay accurate.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := newContext(w, r, a.logger)
			err := mw(func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			})(c)
			if err != nil {
				a.handleError(c, err)
			}
		})
	}
}
