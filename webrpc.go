// Package webrpc implements a transport-agnostic RPC core: envelope types
// for requests, responses and errors, a concurrency-safe method router, and
// a dispatcher that turns raw payloads (single calls or batches) into
// serialized responses.
//
// # Overview
//
// The package is deliberately transport-free. Payloads arrive as
// [encoding/json.RawMessage] from whatever carried them (HTTP bodies,
// websocket frames, message queues, pipes) and leave the same way; the
// transport identity and its metadata travel alongside each call in a
// [*Context] rather than in the envelope itself.
//
// # Wire shapes
//
//	request:  {"id": <string|int|null>?, "method": "<string>", "params": <any>?}
//	response: {"id": <string|int|null>, "result": <any>} | {"id": ..., "error": {...}}
//	error:    {"code": "<string>", "message": "<string>", "details": <any>?}
//
// A request without an id (or with an explicit null id) is a notification:
// it is dispatched for its side effects and never produces a response. A
// response always carries its id, echoing the request that produced it, and
// holds exactly one of result or error.
//
// # Basic Usage
//
//	router := webrpc.NewRouter()
//	router.AddFunc("math.add", func(ctx context.Context, call *webrpc.Context) (any, error) {
//		var p struct{ A, B int64 }
//		if err := call.UnmarshalParams(&p); err != nil {
//			return nil, webrpc.InvalidParams("params must be {a, b}")
//		}
//		return map[string]int64{"sum": p.A + p.B}, nil
//	})
//
//	dispatcher := webrpc.NewDispatcher(router)
//
//	// payload came in over some transport
//	out := dispatcher.Handle(ctx, payload, "http", map[string]string{"remote": addr})
//	if out != nil {
//		// write out back over the transport
//	}
//
// See the examples directory for complete programs, including a minimal
// HTTP adapter.
package webrpc

import (
	"encoding/json"
)

var nullValue = json.RawMessage("null") // Represents the JSON `null` value.

// Marshal defines the function used for marshaling Go types into JSON []byte.
// By default, it uses [encoding/json.Marshal]. Applications can replace this
// variable *at startup* with a different marshaling function from a
// third-party JSON library.
//
// The replacement function must have the same signature as `json.Marshal`
// and must honor `json.Marshaler` and struct tags the same way.
var Marshal = json.Marshal

// Unmarshal defines the function used for unmarshalling JSON []byte into Go
// types. By default, it uses [encoding/json.Unmarshal]. Applications can
// replace this variable *at startup* with a different unmarshalling
// function.
//
// The replacement function must have the same signature as `json.Unmarshal`
// and must honor `json.Unmarshaler` and `json.RawMessage` the same way.
var Unmarshal = json.Unmarshal

// isNullValue reports whether raw is empty or the JSON null value. Both
// forms mean "absent" throughout this package.
func isNullValue(raw json.RawMessage) bool {
	return len(raw) == 0 || HintType(raw) == TypeNull
}
