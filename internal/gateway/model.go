package gateway

import "encoding/json"

// ClientMessage is what the capture client sends over the stream socket.
// Today the only type is "snapshot"; a null payload is the no-face tick.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const MessageTypeSnapshot = "snapshot"

// ServerEvent mirrors session events onto the wire: sample, alert, state,
// report.
type ServerEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
