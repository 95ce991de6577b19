// Package invocation is the entry point for one agent invocation: it turns
// an inbound JSON event into a prompt, runs the agent, and renders the
// single-key response the hosting runtime expects. Server exposes the same
// handler over HTTP.
package invocation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Input keys, checked in order.
const (
	KeyPrompt    = "prompt"
	KeyInputText = "inputText"
)

// ErrNoInput is returned when the event carries neither input key.
var ErrNoInput = errors.New("No input provided")

// Event is a decoded inbound payload.
type Event map[string]interface{}

// DecodeEvent decodes a JSON object.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("invalid JSON payload: expected an object")
	}
	return event, nil
}

// ParseInput returns the first non-empty string among prompt and inputText.
// Values of other types count as absent.
func ParseInput(event Event) (string, error) {
	for _, key := range []string{KeyPrompt, KeyInputText} {
		if s, ok := event[key].(string); ok && s != "" {
			return s, nil
		}
	}
	return "", ErrNoInput
}
