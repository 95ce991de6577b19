package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidArguments is returned when tool arguments cannot be decoded.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// DecodeArguments unmarshals raw tool arguments into v. Some models send the
// arguments object as a JSON-encoded string; that form is unwrapped first.
// Empty arguments decode as an empty object.
func DecodeArguments(raw json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		trimmed = []byte(inner)
	}

	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}
