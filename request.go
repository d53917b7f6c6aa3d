package webrpc

import (
	"encoding/json"
)

// Request represents one RPC call as a value object, independent of any
// transport.
//
// Wire shape:
//
//	{"id": <string|int|null>?, "method": "<string>", "params": <any>?}
//
// A missing (null) id marks a notification: no response is ever produced
// for it. Params may be any JSON value; handlers decide how to interpret
// it. A nil Params means the field is absent.
type Request struct {
	ID     ID              `json:"id,omitzero"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// NewRequest builds a new request for method with the given id.
func NewRequest[I int64 | string](id I, method string) *Request {
	return &Request{ID: NewID(id), Method: method}
}

// NewRequestWithParams builds a new request for method with the given id
// and params.
func NewRequestWithParams[I int64 | string](id I, method string, params json.RawMessage) *Request {
	return &Request{ID: NewID(id), Method: method, Params: params}
}

// NewNotification builds a request with a null id. Notifications never
// produce a response.
func NewNotification(method string) *Request {
	return &Request{Method: method}
}

// NewNotificationWithParams builds a notification with the given params.
func NewNotificationWithParams(method string, params json.RawMessage) *Request {
	return &Request{Method: method, Params: params}
}

// Valid reports whether the request carries a non-empty method.
func (r *Request) Valid() bool {
	return r.Method != ""
}

// HasID reports whether the request carries a non-null id.
func (r *Request) HasID() bool {
	return !r.ID.IsNull()
}

// IsNotification reports whether the request is a notification (null id).
func (r *Request) IsNotification() bool {
	return r.ID.IsNull()
}

// UnmarshalParams unmarshals the request params into v.
func (r *Request) UnmarshalParams(v any) error {
	if isNullValue(r.Params) {
		return Unmarshal(nullValue, v)
	}

	return Unmarshal(r.Params, v)
}

// ResponseWithResult constructs a success response for this request,
// echoing its id.
func (r *Request) ResponseWithResult(result json.RawMessage) *Response {
	return &Response{ID: r.ID, Result: result}
}

// ResponseWithError constructs an error response for this request, echoing
// its id. If e is an [*Error] it is used directly; any other error is
// converted to an INTERNAL_ERROR.
func (r *Request) ResponseWithError(e error) *Response {
	return &Response{ID: r.ID, Error: asError(e)}
}

// batchID supports ID-based lookup inside a [Batch].
func (r *Request) batchID() ID {
	return r.ID
}

// ParseRequest validates data as a request envelope and returns the parsed
// [*Request].
//
// Parsing rules:
//   - data must be an object, else PARSE_ERROR
//   - "method" must exist and be a non-empty string, else INVALID_PARAMS
//   - "id", if present, must be null, a string, or an int64, else
//     INVALID_PARAMS
//   - "params", if present, may be any value; an explicit null is
//     normalized to absent
//
// Returned errors are always of type [*Error].
func ParseRequest(data json.RawMessage) (*Request, error) {
	if HintType(data) != TypeObject {
		return nil, ParseError("request must be an object")
	}

	var fields map[string]json.RawMessage
	if err := Unmarshal(data, &fields); err != nil {
		return nil, ParseError(err.Error())
	}

	rawMethod, ok := fields["method"]
	if !ok {
		return nil, InvalidParams("missing field: method")
	}

	out := &Request{}

	if Unmarshal(rawMethod, &out.Method) != nil || out.Method == "" {
		return nil, InvalidParams("method must be a non-empty string")
	}

	if rawID, ok := fields["id"]; ok {
		if err := out.ID.UnmarshalJSON(rawID); err != nil {
			return nil, err
		}
	}

	if rawParams, ok := fields["params"]; ok && !isNullValue(rawParams) {
		out.Params = rawParams
	}

	return out, nil
}

// UnmarshalJSON implements [json.Unmarshaler] with the same validation as
// [ParseRequest].
func (r *Request) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRequest(data)
	if err != nil {
		return err
	}

	*r = *parsed

	return nil
}

// MarshalJSON implements [json.Marshaler].
//
// The serialized object always contains "method"; "id" and "params" are
// included only when non-null. This is deliberately asymmetric with
// [ParseRequest], which accepts explicit nulls: a request parsed with
// "id": null serializes without an id field.
func (r *Request) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID     ID              `json:"id,omitzero"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params,omitempty"`
	}

	w := wire{ID: r.ID, Method: r.Method}

	if !isNullValue(r.Params) {
		w.Params = r.Params
	}

	return Marshal(&w)
}
