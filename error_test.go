package webrpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalConstructors(t *testing.T) {
	t.Parallel()
	tassert := assert.New(t)

	nf := MethodNotFound("user.get")
	tassert.Equal(CodeMethodNotFound, nf.Code)
	tassert.Equal("RPC method not found", nf.Message)
	tassert.True(nf.HasDetails())
	tassert.JSONEq(`{"method":"user.get"}`, string(nf.Details))

	ip := InvalidParams("missing field: method")
	tassert.Equal(CodeInvalidParams, ip.Code)
	tassert.Equal("Invalid RPC parameters", ip.Message)
	tassert.JSONEq(`{"reason":"missing field: method"}`, string(ip.Details))

	pe := ParseError("request must be an object")
	tassert.Equal(CodeParseError, pe.Code)
	tassert.Equal("Failed to parse RPC payload", pe.Message)
	tassert.JSONEq(`{"reason":"request must be an object"}`, string(pe.Details))

	ie := InternalError("db exploded")
	tassert.Equal(CodeInternalError, ie.Code)
	tassert.Equal("db exploded", ie.Message)
	tassert.False(ie.HasDetails())
}

func TestErrorValid(t *testing.T) {
	t.Parallel()
	tassert := assert.New(t)

	tassert.True(MethodNotFound("x").Valid())
	tassert.False(NewError("", "empty code").Valid())
}

func TestErrorMarshal(t *testing.T) {
	t.Parallel()
	tassert := assert.New(t)
	trequire := require.New(t)

	withDetails := InvalidParams("bad shape")
	buf, err := json.Marshal(withDetails)
	trequire.NoError(err)
	tassert.JSONEq(`{"code":"INVALID_PARAMS","message":"Invalid RPC parameters","details":{"reason":"bad shape"}}`, string(buf))

	// details must be omitted entirely when absent
	noDetails := InternalError("boom")
	buf, err = json.Marshal(noDetails)
	trequire.NoError(err)
	tassert.JSONEq(`{"code":"INTERNAL_ERROR","message":"boom"}`, string(buf))
	tassert.NotContains(string(buf), "details")
}

func TestParseRPCError(t *testing.T) {
	t.Parallel()

	//nolint:govet //Do not reorder struct
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{"not an object", `"oops"`, "error must be an object"},
		{"missing code", `{"message":"m"}`, "error object must contain code and message"},
		{"missing message", `{"code":"C"}`, "error object must contain code and message"},
		{"code not a string", `{"code":7,"message":"m"}`, "code and message must be strings"},
		{"message not a string", `{"code":"C","message":[1]}`, "code and message must be strings"},
		{"empty code", `{"code":"","message":"m"}`, "code must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRPCError(json.RawMessage(tt.input))
			require.Error(t, err)

			var rpcErr *Error
			require.ErrorAs(t, err, &rpcErr)
			assert.Equal(t, CodeParseError, rpcErr.Code)
			assert.JSONEq(t, `{"reason":"`+tt.wantReason+`"}`, string(rpcErr.Details))
		})
	}
}

func TestParseRPCErrorValid(t *testing.T) {
	t.Parallel()
	tassert := assert.New(t)
	trequire := require.New(t)

	parsed, err := ParseRPCError(json.RawMessage(`{"code":"APP_ERROR","message":"nope","details":{"hint":42}}`))
	trequire.NoError(err)
	tassert.Equal("APP_ERROR", parsed.Code)
	tassert.Equal("nope", parsed.Message)
	tassert.JSONEq(`{"hint":42}`, string(parsed.Details))

	// explicit null details normalize to absent
	parsed, err = ParseRPCError(json.RawMessage(`{"code":"C","message":"m","details":null}`))
	trequire.NoError(err)
	tassert.False(parsed.HasDetails())
}

func TestErrorUnmarshalJSON(t *testing.T) {
	t.Parallel()
	tassert := assert.New(t)
	trequire := require.New(t)

	var e Error
	trequire.NoError(json.Unmarshal([]byte(`{"code":"C","message":"m"}`), &e))
	tassert.Equal("C", e.Code)

	err := json.Unmarshal([]byte(`{"code":""}`), &e)
	trequire.Error(err)

	var rpcErr *Error
	trequire.ErrorAs(err, &rpcErr)
	tassert.Equal(CodeParseError, rpcErr.Code)
}

func TestAsError(t *testing.T) {
	t.Parallel()
	tassert := assert.New(t)

	// plain errors become INTERNAL_ERROR with the message carried over
	plain := errors.New("a standard error")
	got := asError(plain)
	tassert.Equal(CodeInternalError, got.Code)
	tassert.Equal("a standard error", got.Message)

	// *Error values pass through, even wrapped
	rpcErr := InvalidParams("x")
	tassert.Same(rpcErr, asError(rpcErr))

	wrapped := asError(errorsJoin(rpcErr))
	tassert.Same(rpcErr, wrapped)
}

// errorsJoin wraps an error one level deep for the asError unwrap test.
func errorsJoin(err error) error {
	return errors.Join(errors.New("outer"), err)
}

func TestErrorIs(t *testing.T) {
	t.Parallel()
	tassert := assert.New(t)

	err := MethodNotFound("a.b")
	tassert.True(errors.Is(err, &Error{Code: CodeMethodNotFound}))
	tassert.False(errors.Is(err, &Error{Code: CodeParseError}))
	tassert.False(errors.Is(err, errors.New("other")))
}
