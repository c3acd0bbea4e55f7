package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, ev ServerEvent)
	}{
		{
			name:  "session created",
			input: `{"type":"session.created","event_id":"e1","session":{"id":"sess_1","voice":"coral"}}`,
			check: func(t *testing.T, ev ServerEvent) {
				got, ok := ev.(SessionCreated)
				require.True(t, ok)
				assert.Equal(t, "sess_1", got.Session.ID)
			},
		},
		{
			name:  "error",
			input: `{"type":"error","error":{"type":"invalid_request_error","message":"bad audio"}}`,
			check: func(t *testing.T, ev ServerEvent) {
				got, ok := ev.(Error)
				require.True(t, ok)
				assert.Equal(t, "bad audio", got.Message())
			},
		},
		{
			name:  "input transcription",
			input: `{"type":"conversation.item.input_audio_transcription.completed","item_id":"i1","transcript":" I want a stroller "}`,
			check: func(t *testing.T, ev ServerEvent) {
				got, ok := ev.(InputTranscriptionCompleted)
				require.True(t, ok)
				assert.Equal(t, " I want a stroller ", got.Transcript)
			},
		},
		{
			name:  "transcript delta",
			input: `{"type":"response.audio_transcript.delta","delta":"Hel"}`,
			check: func(t *testing.T, ev ServerEvent) {
				got, ok := ev.(OutputTranscriptDelta)
				require.True(t, ok)
				assert.Equal(t, "Hel", got.Delta)
			},
		},
		{
			name:  "transcript done",
			input: `{"type":"response.audio_transcript.done","transcript":"Hello there"}`,
			check: func(t *testing.T, ev ServerEvent) {
				got, ok := ev.(OutputTranscriptDone)
				require.True(t, ok)
				assert.Equal(t, "Hello there", got.Transcript)
			},
		},
		{
			name:  "unknown",
			input: `{"type":"response.audio.delta","delta":"AAAA"}`,
			check: func(t *testing.T, ev ServerEvent) {
				got, ok := ev.(Unknown)
				require.True(t, ok)
				assert.Equal(t, "response.audio.delta", got.EventType())
				assert.NotEmpty(t, got.Raw)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			tt.check(t, ev)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, input := range []string{`{not json`, `[]`, `{"event_id":"x"}`, `{"type":"error","error":"oops"}`} {
		_, err := Decode([]byte(input))
		assert.ErrorIs(t, err, ErrMalformed, input)
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	assert.Equal(t, "rate_limited", Error{Detail: ErrorDetail{Code: "rate_limited"}}.Message())
	assert.Equal(t, "Realtime provider error", Error{}.Message())
}

func TestClientEventsCarryIDs(t *testing.T) {
	init := NewSessionUpdate("coral", "be brief")
	text := NewUserText("show me tents")
	resp := NewResponseCreate()

	assert.NotEmpty(t, init.EventID)
	assert.NotEqual(t, init.EventID, text.EventID)
	assert.NotEqual(t, text.EventID, resp.EventID)

	raw, err := json.Marshal(text)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "conversation.item.create", decoded["type"])
	item := decoded["item"].(map[string]any)
	assert.Equal(t, "message", item["type"])
	assert.Equal(t, "user", item["role"])
	content := item["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "input_text", content["type"])
	assert.Equal(t, "show me tents", content["text"])

	raw, err = json.Marshal(init)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	session := decoded["session"].(map[string]any)
	assert.Equal(t, "coral", session["voice"])
	assert.Equal(t, "server_vad", session["turn_detection"].(map[string]any)["type"])
}
