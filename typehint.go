package webrpc

import (
	"bytes"
	"encoding/json"
)

// TypeHint classifies the likely top-level JSON type of a [json.RawMessage]
// based solely on its first non-whitespace byte. It is how this package
// discriminates the structured-value cases (null, bool, number, string,
// object, array) without a full decode.
//
// Note: this is only a hint and does not guarantee the message contains
// valid JSON of that type.
type TypeHint int

const (
	TypeUnknown TypeHint = iota // First character matches no JSON type.
	TypeArray                   // Likely a JSON array (starts with '[').
	TypeObject                  // Likely a JSON object (starts with '{').
	TypeBool                    // Likely a JSON boolean (starts with 't' or 'f').
	TypeNumber                  // Likely a JSON number (starts with '-', '0'-'9').
	TypeString                  // Likely a JSON string (starts with '"').
	TypeNull                    // Likely the JSON null value (starts with 'n').
	TypeEmpty                   // Message is empty after trimming whitespace.
)

// HintType examines the first non-whitespace byte of m and returns a
// [TypeHint] for the JSON value it likely represents.
func HintType(m json.RawMessage) TypeHint {
	m = bytes.TrimSpace(m)

	if len(m) == 0 {
		return TypeEmpty
	}

	switch m[0] {
	case '[':
		return TypeArray
	case '{':
		return TypeObject
	case 't', 'f':
		return TypeBool
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return TypeNumber
	case '"':
		return TypeString
	case 'n':
		return TypeNull
	}

	return TypeUnknown
}
