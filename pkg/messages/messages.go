package messages

import "encoding/json"

type ResponseQueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Ok        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload"`
}

// TestRunPayload is published once a test run finishes.
type TestRunPayload struct {
	Command     string          `json:"command"`
	CompareMode string          `json:"compare_mode"`
	Result      json.RawMessage `json:"result"`
}
