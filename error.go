package webrpc

import (
	"encoding/json"
	"errors"
)

// Canonical error codes. Codes are machine-readable and stable across
// versions; messages are human-readable and may change.
const (
	CodeMethodNotFound = "METHOD_NOT_FOUND"
	CodeInvalidParams  = "INVALID_PARAMS"
	CodeParseError     = "PARSE_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Error is the structured failure value returned by RPC operations.
//
// Errors are values, not panics: handlers and the dispatch layer return
// them as part of a response, and [Error] also satisfies the standard go
// error interface so it can travel through ordinary error returns.
//
// JSON representation:
//
//	{"code": "<string>", "message": "<string>", "details": <any>?}
//
// Details is optional structured data; a nil Details means the field is
// absent from the serialized object.
type Error struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// NewError returns a new [*Error] with the given code and message and no
// details.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorWithDetails is the same as [NewError] but also sets the details
// field to the JSON encoding of details. Values that cannot be marshaled
// are silently dropped, leaving details absent.
func NewErrorWithDetails(code, message string, details any) *Error {
	raw, err := Marshal(details)
	if err != nil {
		raw = nil
	}

	return &Error{Code: code, Message: message, Details: raw}
}

// MethodNotFound returns the canonical error for a method with no
// registered handler. Details carry {"method": <name>}.
func MethodNotFound(method string) *Error {
	return NewErrorWithDetails(CodeMethodNotFound, "RPC method not found", struct {
		Method string `json:"method"`
	}{method})
}

// InvalidParams returns the canonical error for a malformed envelope or
// handler-rejected parameters. Details carry {"reason": <reason>}.
func InvalidParams(reason string) *Error {
	return NewErrorWithDetails(CodeInvalidParams, "Invalid RPC parameters", struct {
		Reason string `json:"reason"`
	}{reason})
}

// ParseError returns the canonical error for a payload that is not a
// well-formed envelope. Details carry {"reason": <reason>}.
func ParseError(reason string) *Error {
	return NewErrorWithDetails(CodeParseError, "Failed to parse RPC payload", struct {
		Reason string `json:"reason"`
	}{reason})
}

// InternalError returns the canonical error for a handler-declared internal
// failure. It carries no details.
func InternalError(message string) *Error {
	return NewError(CodeInternalError, message)
}

// asError coerces any go error into an [*Error].
//
// Errors that are, or wrap, an [*Error] are used directly; anything else
// becomes an INTERNAL_ERROR carrying the error string as its message.
func asError(e error) *Error {
	var re *Error

	if errors.As(e, &re) {
		return re
	}

	return InternalError(e.Error())
}

// Valid reports whether the error carries a non-empty code.
func (e *Error) Valid() bool {
	return e.Code != ""
}

// HasDetails reports whether the error carries structured details.
func (e *Error) HasDetails() bool {
	return !isNullValue(e.Details)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an [*Error] with the same code. This lets
// callers match errors by code with [errors.Is] regardless of details:
//
//	errors.Is(err, &webrpc.Error{Code: webrpc.CodeMethodNotFound})
func (e *Error) Is(target error) bool {
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}

	return false
}

// ParseRPCError validates data as a serialized error object and returns the
// parsed [*Error].
//
// Validation rules:
//   - data must be an object
//   - "code" and "message" must be present and strings
//   - "code" must not be empty
//   - "details", if present, is passed through unvalidated
//
// Failures are reported as a PARSE_ERROR [*Error].
func ParseRPCError(data json.RawMessage) (*Error, error) {
	if HintType(data) != TypeObject {
		return nil, ParseError("error must be an object")
	}

	var fields map[string]json.RawMessage
	if err := Unmarshal(data, &fields); err != nil {
		return nil, ParseError(err.Error())
	}

	rawCode, hasCode := fields["code"]
	rawMessage, hasMessage := fields["message"]

	if !hasCode || !hasMessage {
		return nil, ParseError("error object must contain code and message")
	}

	out := &Error{}

	if Unmarshal(rawCode, &out.Code) != nil || Unmarshal(rawMessage, &out.Message) != nil {
		return nil, ParseError("code and message must be strings")
	}

	if out.Code == "" {
		return nil, ParseError("code must not be empty")
	}

	if details, ok := fields["details"]; ok && !isNullValue(details) {
		out.Details = details
	}

	return out, nil
}

// UnmarshalJSON implements [json.Unmarshaler] with the same validation as
// [ParseRPCError].
func (e *Error) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRPCError(data)
	if err != nil {
		return err
	}

	*e = *parsed

	return nil
}
