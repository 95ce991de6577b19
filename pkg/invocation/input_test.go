package invocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		want    string
		wantErr bool
	}{
		{name: "prompt", event: Event{"prompt": "What is 2+2?"}, want: "What is 2+2?"},
		{name: "inputText", event: Event{"inputText": "hello"}, want: "hello"},
		{name: "prompt wins", event: Event{"prompt": "first", "inputText": "second"}, want: "first"},
		{name: "empty prompt falls through", event: Event{"prompt": "", "inputText": "second"}, want: "second"},
		{name: "non-string prompt ignored", event: Event{"prompt": 42, "inputText": "second"}, want: "second"},
		{name: "neither key", event: Event{"question": "hi"}, wantErr: true},
		{name: "both empty", event: Event{"prompt": "", "inputText": ""}, wantErr: true},
		{name: "nil event", event: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInput(tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEvent(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"prompt": "hi", "extra": [1, 2]}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", event["prompt"])

	_, err = DecodeEvent([]byte(`{"prompt":`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`null`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`["prompt"]`))
	assert.Error(t, err)
}
