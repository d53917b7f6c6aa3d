package webrpc

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.uber.org/zap"
)

// DefaultOnHandlerPanic logs recovered handler panics through the standard
// `slog` package. It is assigned to [Callbacks.OnHandlerPanic] when a
// [Dispatcher] is created, so panics are visible even without custom
// callbacks.
var DefaultOnHandlerPanic = func(ctx context.Context, req *Request, rec any) {
	slog.ErrorContext(ctx, "panic recovered in RPC handler",
		"method", req.Method, "id", req.ID.Value(), "panic_value", rec)
}

// Callbacks are observation hooks invoked by a [Dispatcher] during payload
// processing. They enable custom logging or monitoring without touching
// the dispatch path itself.
//
// Callbacks must not mutate the dispatcher and should be assigned before
// it starts serving traffic. They must be safe for concurrent use if the
// transport above dispatches concurrently.
type Callbacks struct {
	// OnParseError is called when a payload fails to parse as a request
	// envelope. The resulting null-id error response is still produced.
	OnParseError func(ctx context.Context, raw json.RawMessage, err *Error)

	// OnHandlerError is called when dispatching a non-notification
	// request yields an error, after coercion to [*Error].
	OnHandlerError func(ctx context.Context, req *Request, err *Error)

	// OnEncodingError is called when a response or handler result cannot
	// be serialized. The dispatcher degrades to an INTERNAL_ERROR
	// response in that case.
	OnEncodingError func(ctx context.Context, value any, err error)

	// OnHandlerPanic is called when a panic is recovered from inside a
	// handler. The rec parameter is the recovered value.
	OnHandlerPanic func(ctx context.Context, req *Request, rec any)
}

func (c *Callbacks) runOnParseError(ctx context.Context, raw json.RawMessage, err *Error) {
	if c.OnParseError != nil {
		c.OnParseError(ctx, raw, err)
	}
}

func (c *Callbacks) runOnHandlerError(ctx context.Context, req *Request, err *Error) {
	if c.OnHandlerError != nil {
		c.OnHandlerError(ctx, req, err)
	}
}

func (c *Callbacks) runOnEncodingError(ctx context.Context, value any, err error) {
	if c.OnEncodingError != nil {
		c.OnEncodingError(ctx, value, err)
	}
}

func (c *Callbacks) runOnHandlerPanic(ctx context.Context, req *Request, rec any) {
	if c.OnHandlerPanic != nil {
		c.OnHandlerPanic(ctx, req, rec)
	}
}

// NewLoggingCallbacks returns a [Callbacks] set that reports every hook
// through the given zap logger. It is a convenience for transports that
// want structured dispatch diagnostics without writing the plumbing:
//
//	d := webrpc.NewDispatcher(router)
//	d.Callbacks = webrpc.NewLoggingCallbacks(logger)
func NewLoggingCallbacks(logger *zap.Logger) Callbacks {
	return Callbacks{
		OnParseError: func(_ context.Context, raw json.RawMessage, err *Error) {
			logger.Warn("rpc payload failed to parse",
				zap.String("code", err.Code),
				zap.String("message", err.Message),
				zap.ByteString("payload", raw))
		},
		OnHandlerError: func(_ context.Context, req *Request, err *Error) {
			logger.Warn("rpc handler returned error",
				zap.String("method", req.Method),
				zap.Any("id", req.ID.Value()),
				zap.String("code", err.Code),
				zap.String("message", err.Message))
		},
		OnEncodingError: func(_ context.Context, value any, err error) {
			logger.Error("rpc response failed to encode",
				zap.Any("value", value),
				zap.Error(err))
		},
		OnHandlerPanic: func(_ context.Context, req *Request, rec any) {
			logger.Error("panic recovered in rpc handler",
				zap.String("method", req.Method),
				zap.Any("id", req.ID.Value()),
				zap.Any("panic_value", rec))
		},
	}
}
