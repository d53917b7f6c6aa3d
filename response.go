package webrpc

import (
	"encoding/json"
)

// Response represents the outcome of an RPC call as a value object.
//
// A response carries either a result or an error, never both and never
// neither. The constructors and [ParseResponse] enforce the invariant; a
// nil Error marks success. The id echoes the request id and is null when
// the request id could not be determined (for example, a parse failure).
//
// Wire shapes:
//
//	{"id": <string|int|null>, "result": <any>}
//	{"id": <string|int|null>, "error": {"code": …, "message": …, "details": <any>?}}
type Response struct {
	ID     ID
	Result json.RawMessage
	Error  *Error
}

// NewResponseWithResult builds a success response echoing id.
func NewResponseWithResult(id ID, result json.RawMessage) *Response {
	return &Response{ID: id, Result: result}
}

// NewResponseWithError builds an error response echoing id. If e is an
// [*Error] it is used directly; any other error is converted to an
// INTERNAL_ERROR.
func NewResponseWithError(id ID, e error) *Response {
	return &Response{ID: id, Error: asError(e)}
}

// NewResponseError builds an error response with a null id. It is used
// when a payload is malformed and its id cannot be determined.
func NewResponseError(e error) *Response {
	return &Response{Error: asError(e)}
}

// IsError reports whether the response represents a failure.
func (r *Response) IsError() bool {
	return r.Error != nil
}

// HasID reports whether the response carries a non-null id.
func (r *Response) HasID() bool {
	return !r.ID.IsNull()
}

// UnmarshalResult unmarshals the result payload into v.
func (r *Response) UnmarshalResult(v any) error {
	if isNullValue(r.Result) {
		return Unmarshal(nullValue, v)
	}

	return Unmarshal(r.Result, v)
}

// batchID supports ID-based lookup inside a [Batch].
func (r *Response) batchID() ID {
	return r.ID
}

// ParseResponse validates data as a response envelope and returns the
// parsed [*Response].
//
// Validation rules:
//   - data must be an object, else PARSE_ERROR
//   - "id", if present, must be null, a string, or an int64, else
//     INVALID_PARAMS
//   - exactly one of "result"/"error" must be present, else INVALID_PARAMS
//   - a present "error" is validated by [ParseRPCError]; its failure is
//     propagated as the overall failure
//
// Returned errors are always of type [*Error].
func ParseResponse(data json.RawMessage) (*Response, error) {
	if HintType(data) != TypeObject {
		return nil, ParseError("response must be an object")
	}

	var fields map[string]json.RawMessage
	if err := Unmarshal(data, &fields); err != nil {
		return nil, ParseError(err.Error())
	}

	out := &Response{}

	if rawID, ok := fields["id"]; ok {
		if err := out.ID.UnmarshalJSON(rawID); err != nil {
			return nil, err
		}
	}

	rawResult, hasResult := fields["result"]
	rawError, hasError := fields["error"]

	if hasResult && hasError {
		return nil, InvalidParams("response cannot contain both result and error")
	}

	if !hasResult && !hasError {
		return nil, InvalidParams("response must contain result or error")
	}

	if hasError {
		parsed, err := ParseRPCError(rawError)
		if err != nil {
			return nil, err
		}

		out.Error = parsed

		return out, nil
	}

	out.Result = rawResult

	return out, nil
}

// UnmarshalJSON implements [json.Unmarshaler] with the same validation as
// [ParseResponse].
func (r *Response) UnmarshalJSON(data []byte) error {
	parsed, err := ParseResponse(data)
	if err != nil {
		return err
	}

	*r = *parsed

	return nil
}

// MarshalJSON implements [json.Marshaler].
//
// The serialized object always contains "id" (null included) and exactly
// one of "result" or "error". A success response with a nil Result
// serializes its result as JSON null.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return Marshal(struct {
			ID    ID     `json:"id"`
			Error *Error `json:"error"`
		}{r.ID, r.Error})
	}

	result := r.Result
	if len(result) == 0 {
		result = nullValue
	}

	return Marshal(struct {
		ID     ID              `json:"id"`
		Result json.RawMessage `json:"result"`
	}{r.ID, result})
}
