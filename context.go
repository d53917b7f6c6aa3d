package webrpc

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Context is the read-only view of one RPC call handed to a handler.
//
// It exposes the method name, the params and id of the request, the
// transport label supplied by the caller (informational only, e.g. "http",
// "websocket", "p2p") and optional transport metadata (headers, peer info).
//
// A Context owns nothing: it is built fresh by the [Router] for each
// dispatched call and is only valid for the duration of that handler
// invocation. Handlers must not retain it.
type Context struct {
	method    string
	params    json.RawMessage
	id        ID
	transport string
	meta      map[string]string
}

// NewContext builds a call context from a parsed request plus the
// transport label and metadata supplied by the caller. It is normally
// invoked by [Router.Dispatch]; it is exported for transports and tests
// that drive handlers directly.
func NewContext(req *Request, transport string, meta map[string]string) *Context {
	return &Context{
		method:    req.Method,
		params:    req.Params,
		id:        req.ID,
		transport: transport,
		meta:      meta,
	}
}

// Method returns the RPC method name (e.g. "user.get").
func (c *Context) Method() string {
	return c.method
}

// Params returns the raw params payload. Nil when the request carried none.
func (c *Context) Params() json.RawMessage {
	return c.params
}

// ID returns the request id.
func (c *Context) ID() ID {
	return c.id
}

// Transport returns the transport label. It must not affect handler
// behavior; it exists for diagnostics only.
func (c *Context) Transport() string {
	return c.transport
}

// HasID reports whether the call carries a non-null id, i.e. whether the
// caller expects a response.
func (c *Context) HasID() bool {
	return !c.id.IsNull()
}

// ParamsIsObject reports whether params is a JSON object.
func (c *Context) ParamsIsObject() bool {
	return HintType(c.params) == TypeObject
}

// ParamsIsArray reports whether params is a JSON array.
func (c *Context) ParamsIsArray() bool {
	return HintType(c.params) == TypeArray
}

// ParamsObject returns the params decoded as an insertion-ordered map of
// raw values. It returns (nil, false) when params is not an object.
func (c *Context) ParamsObject() (*orderedmap.OrderedMap[string, json.RawMessage], bool) {
	if !c.ParamsIsObject() {
		return nil, false
	}

	om, err := decodeOrderedObject(c.params)
	if err != nil {
		return nil, false
	}

	return om, true
}

// ParamsArray returns the params decoded as an ordered slice of raw
// values. It returns (nil, false) when params is not an array.
func (c *Context) ParamsArray() ([]json.RawMessage, bool) {
	if !c.ParamsIsArray() {
		return nil, false
	}

	var elems []json.RawMessage
	if err := Unmarshal(c.params, &elems); err != nil {
		return nil, false
	}

	return elems, true
}

// Param returns the raw value of a single named parameter. It returns
// (nil, false) when params is not an object or the key is absent.
func (c *Context) Param(key string) (json.RawMessage, bool) {
	obj, ok := c.ParamsObject()
	if !ok {
		return nil, false
	}

	return obj.Get(key)
}

// UnmarshalParams unmarshals the params payload into v. Absent params
// decode as JSON null.
func (c *Context) UnmarshalParams(v any) error {
	if isNullValue(c.params) {
		return Unmarshal(nullValue, v)
	}

	return Unmarshal(c.params, v)
}

// MetaValue returns the metadata value for key, or the empty string when
// no metadata map was supplied or the key is absent.
func (c *Context) MetaValue(key string) string {
	if c.meta == nil {
		return ""
	}

	return c.meta[key]
}

// decodeOrderedObject walks the object token by token so key order
// survives the decode; a plain map would shuffle it.
func decodeOrderedObject(data json.RawMessage) (*orderedmap.OrderedMap[string, json.RawMessage], error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Opening brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	om := orderedmap.New[string, json.RawMessage]()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, ParseError("object key must be a string")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		om.Set(key, value)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return om, nil
}
