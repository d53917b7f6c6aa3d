package webrpc

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// Handler is the capability a registered RPC method implements: given a
// call [*Context], produce a result value or an error.
//
// The returned result may be any JSON-marshalable Go value (a
// [json.RawMessage] is passed through untouched). The returned error
// should be an [*Error]; any other error is converted to an
// INTERNAL_ERROR before it reaches the wire.
//
// Handlers run synchronously on the dispatching goroutine and must not
// perform unbounded blocking work; deadlines and cancellation belong to
// the transport driving the dispatch and arrive through ctx.
type Handler interface {
	Handle(ctx context.Context, call *Context) (any, error)
}

// HandlerFunc adapts a plain function to the [Handler] interface.
type HandlerFunc func(ctx context.Context, call *Context) (any, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, call *Context) (any, error) {
	return f(ctx, call)
}

// Router is the registry mapping method names to handlers, and the
// dispatch step resolving one parsed request to its handler.
//
// Method names are case-sensitive. The registry is guarded by a
// reader-writer lock: concurrent [Router.Dispatch] calls are always safe,
// and [Router.Add]/[Router.Remove] may run concurrently with them, though
// the intended pattern is to populate the registry before exposing the
// router to traffic.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRouter returns a new, empty [*Router].
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Add registers handler under name. If a handler with the same name
// already exists it is replaced silently.
func (r *Router) Add(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[name] = handler
}

// AddFunc registers a plain function under name. See [Router.Add] for
// replacement semantics.
func (r *Router) AddFunc(name string, f func(ctx context.Context, call *Context) (any, error)) {
	r.Add(name, HandlerFunc(f))
}

// Remove deletes the handler registered under name. It returns true if a
// handler existed and was removed.
func (r *Router) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.handlers[name]
	delete(r.handlers, name)

	return ok
}

// Has reports whether a handler is registered under name.
func (r *Router) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.handlers[name]

	return ok
}

// Size returns the number of registered methods.
func (r *Router) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers)
}

// Methods returns the names of all registered methods, sorted.
func (r *Router) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		methods = append(methods, name)
	}

	slices.Sort(methods)

	return methods
}

// Dispatch resolves and executes the handler for a parsed request.
//
// It validates the request (non-empty method), looks up the handler,
// builds a [*Context] from the request plus the given transport label and
// metadata, and invokes the handler. The handler's result and error are
// returned unmodified: the dispatch layer adds no retry or recovery.
//
// Failures are INVALID_PARAMS for an invalid request and METHOD_NOT_FOUND
// (details carrying the method name) for an unregistered method.
func (r *Router) Dispatch(ctx context.Context, req *Request, transport string, meta map[string]string) (any, error) {
	if req == nil || !req.Valid() {
		return nil, InvalidParams("invalid rpc request")
	}

	r.mu.RLock()
	handler, ok := r.handlers[req.Method]
	r.mu.RUnlock()

	if !ok {
		return nil, MethodNotFound(req.Method)
	}

	return handler.Handle(ctx, NewContext(req, transport, meta))
}

// DispatchRaw parses raw as a request envelope and dispatches it. A parse
// failure is returned directly as the error.
//
// DispatchRaw only supports a single request object; batch handling lives
// in [Dispatcher].
func (r *Router) DispatchRaw(ctx context.Context, raw json.RawMessage, transport string, meta map[string]string) (any, error) {
	req, err := ParseRequest(raw)
	if err != nil {
		return nil, err
	}

	return r.Dispatch(ctx, req, transport, meta)
}
