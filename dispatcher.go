package webrpc

import (
	"context"
	"encoding/json"
)

// Dispatcher orchestrates the full payload lifecycle on top of a [Router]:
// parse the request envelope, dispatch to the handler, wrap the outcome in
// a [Response] envelope. It supports single call payloads (object), batch
// payloads (array) and notifications (null id, no response).
//
// The dispatcher does not own the router; it holds a reference and assumes
// the router outlives it. A Dispatcher is stateless apart from its
// [Callbacks] and safe for concurrent use once configured.
type Dispatcher struct {
	router *Router

	// Callbacks observe parse failures, handler failures and recovered
	// panics. Assign them before the dispatcher starts serving traffic.
	Callbacks Callbacks
}

// NewDispatcher returns a [*Dispatcher] bound to router. Handler panics
// are logged through [DefaultOnHandlerPanic] until a custom callback is
// assigned.
func NewDispatcher(router *Router) *Dispatcher {
	d := &Dispatcher{router: router}
	d.Callbacks.OnHandlerPanic = DefaultOnHandlerPanic

	return d
}

// Handle processes one payload, single call or batch.
//
// Array payloads are delegated to [Dispatcher.HandleBatch]; anything else
// is treated as a single call. The return value is a serialized response
// object (or array of response objects for a batch), or nil when the
// payload was a notification (or a batch of only notifications) and no
// response must be sent.
func (d *Dispatcher) Handle(ctx context.Context, payload json.RawMessage, transport string, meta map[string]string) json.RawMessage {
	if HintType(payload) == TypeArray {
		return d.HandleBatch(ctx, payload, transport, meta)
	}

	resp := d.HandleOne(ctx, payload, transport, meta)
	if resp == nil {
		return nil
	}

	return d.encode(ctx, resp)
}

// HandleOne processes a single call payload and returns its [*Response],
// or nil when the call was a notification.
//
// If the envelope is malformed, the error response carries a null id:
// there is no reliable id to echo back when parsing itself failed.
// Notifications are still dispatched for their side effects, but no
// response is produced for them whether the handler succeeds or fails.
func (d *Dispatcher) HandleOne(ctx context.Context, payload json.RawMessage, transport string, meta map[string]string) *Response {
	req, err := ParseRequest(payload)
	if err != nil {
		rpcErr := asError(err)
		d.Callbacks.runOnParseError(ctx, payload, rpcErr)

		return NewResponseError(rpcErr)
	}

	result, err := d.dispatch(ctx, req, transport, meta)

	if req.IsNotification() {
		return nil
	}

	if err != nil {
		rpcErr := asError(err)
		d.Callbacks.runOnHandlerError(ctx, req, rpcErr)

		return &Response{ID: req.ID, Error: rpcErr}
	}

	raw, merr := marshalResult(result)
	if merr != nil {
		d.Callbacks.runOnEncodingError(ctx, result, merr)

		return &Response{ID: req.ID, Error: InternalError("failed to encode result")}
	}

	return &Response{ID: req.ID, Result: raw}
}

// HandleBatch processes a batch payload (array of calls) and returns the
// serialized array of response objects, or nil when every item was a
// notification.
//
// Rules:
//   - a non-array payload or an empty array yields a single non-array
//     failure object with a null id (preserved historical asymmetry with
//     the per-item failures below)
//   - items are processed strictly sequentially, in input order
//   - a non-object item produces a PARSE_ERROR entry at its position
//   - notifications are skipped, not represented as entries
//   - processing is best-effort: one malformed or failing item never
//     aborts the rest of the batch
func (d *Dispatcher) HandleBatch(ctx context.Context, payload json.RawMessage, transport string, meta map[string]string) json.RawMessage {
	if HintType(payload) != TypeArray {
		return d.encode(ctx, NewResponseError(ParseError("batch must be an array")))
	}

	var items []json.RawMessage
	if err := Unmarshal(payload, &items); err != nil {
		return d.encode(ctx, NewResponseError(ParseError("batch must be an array")))
	}

	if len(items) == 0 {
		return d.encode(ctx, NewResponseError(InvalidParams("batch must not be empty")))
	}

	out := make([]json.RawMessage, 0, len(items))

	for _, item := range items {
		if HintType(item) != TypeObject {
			out = append(out, d.encode(ctx, NewResponseError(ParseError("batch item must be an object"))))
			continue
		}

		if resp := d.HandleOne(ctx, item, transport, meta); resp != nil {
			out = append(out, d.encode(ctx, resp))
		}
	}

	if len(out) == 0 {
		return nil
	}

	// Elements are pre-encoded objects; joining them cannot fail.
	buf, _ := Marshal(out)

	return buf
}

// dispatch invokes the router while containing handler panics, so a
// panicking handler degrades to an INTERNAL_ERROR instead of tearing down
// the transport above.
func (d *Dispatcher) dispatch(ctx context.Context, req *Request, transport string, meta map[string]string) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = InternalError("internal handler panic")

			d.Callbacks.runOnHandlerPanic(ctx, req, rec)
		}
	}()

	return d.router.Dispatch(ctx, req, transport, meta)
}

// encode serializes a response, degrading to an INTERNAL_ERROR response on
// failure so the caller always receives a well-formed envelope.
func (d *Dispatcher) encode(ctx context.Context, resp *Response) json.RawMessage {
	buf, err := Marshal(resp)
	if err != nil {
		d.Callbacks.runOnEncodingError(ctx, resp, err)

		buf, _ = Marshal(NewResponseWithError(resp.ID, InternalError("failed to encode response")))
	}

	return buf
}

// marshalResult turns a handler result into the result value of a
// response. Raw messages pass through untouched and nil becomes JSON null.
func marshalResult(result any) (json.RawMessage, error) {
	switch r := result.(type) {
	case nil:
		return nullValue, nil
	case json.RawMessage:
		return r, nil
	default:
		return Marshal(result)
	}
}
