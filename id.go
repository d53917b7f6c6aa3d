package webrpc

import (
	"encoding/json"
)

// ID represents an RPC request id.
//
// An id is null, a string, or an int64. The zero value is the null id; an
// id field that is absent from a request and one explicitly set to JSON
// null are the same null id, and a null id marks a notification.
//
// Use [NewID] and [NullID] to construct IDs rather than building the
// struct directly.
type ID struct {
	value any // nil, string, or int64
}

// NewID creates a new ID with the given string or int64 value.
//
// Example:
//
//	idInt := webrpc.NewID(int64(42))
//	idStr := webrpc.NewID("req-7")
func NewID[V int64 | string](v V) ID {
	return ID{value: v}
}

// NullID returns the null id. It is equivalent to the zero value of [ID].
func NullID() ID {
	return ID{}
}

// IsNull reports whether the id is null.
func (id ID) IsNull() bool {
	return id.value == nil
}

// IsZero reports whether the id is null. It exists so the `omitzero`
// struct tag drops null ids when serializing requests; responses marshal
// their id unconditionally instead.
func (id ID) IsZero() bool {
	return id.value == nil
}

// Value returns the underlying value: string, int64, or nil for the null
// id.
func (id ID) Value() any {
	return id.value
}

// String returns the id value and true when the id is a string.
func (id ID) String() (string, bool) {
	s, ok := id.value.(string)
	return s, ok
}

// Int64 returns the id value and true when the id is an int64.
func (id ID) Int64() (int64, bool) {
	n, ok := id.value.(int64)
	return n, ok
}

// Equal reports whether two ids hold the same value. Two null ids are
// equal; a string id is never equal to an int64 id.
func (id ID) Equal(t ID) bool {
	return id.value == t.value
}

// UnmarshalJSON implements [json.Unmarshaler].
//
// Only JSON null, strings and integer numbers are accepted; anything else
// (floats included) fails with an INVALID_PARAMS [*Error].
func (id *ID) UnmarshalJSON(data []byte) error {
	switch HintType(data) {
	case TypeNull:
		id.value = nil
		return nil
	case TypeString:
		var str string
		if err := Unmarshal(data, &str); err != nil {
			return InvalidParams("id must be string, int, or null")
		}

		id.value = str

		return nil
	case TypeNumber:
		var num json.Number
		if err := Unmarshal(data, &num); err != nil {
			return InvalidParams("id must be string, int, or null")
		}

		n, err := num.Int64()
		if err != nil {
			return InvalidParams("id must be string, int, or null")
		}

		id.value = n

		return nil
	default:
		return InvalidParams("id must be string, int, or null")
	}
}

// MarshalJSON implements [json.Marshaler]. Null ids marshal as JSON null.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.value == nil {
		return nullValue, nil
	}

	return Marshal(id.value)
}
