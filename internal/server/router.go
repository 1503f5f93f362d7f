package server

import (
	"net/http"
	"slices"
)

// BasicRouter dispatches "METHOD /path" patterns through an [http.ServeMux], so method mismatches
// get the mux's own 405 with an Allow header.
//
// Middleware is captured when a route is mounted: routes mounted before a call to [BasicRouter.Use]
// keep the stack they were mounted with.
type BasicRouter struct {
	mux      *http.ServeMux
	stack    []Middleware
	patterns []string
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware to the stack for routes mounted from now on. The first added runs outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.stack = append(r.stack, middleware...)
}

// Handle mounts handler at method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mount(method+" "+path, r.wrap(handler))
}

// Handler mounts handler at every pattern from [Handler.Routes], sharing one middleware chain.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.wrap(handler)
	for _, pattern := range handler.Routes() {
		r.mount(pattern, wrapped)
	}
}

// Patterns lists the mounted patterns in registration order.
func (r *BasicRouter) Patterns() []string {
	return slices.Clone(r.patterns)
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *BasicRouter) mount(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
	r.patterns = append(r.patterns, pattern)
}

func (r *BasicRouter) wrap(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.stack) {
		handler = mw(handler)
	}
	return handler
}
