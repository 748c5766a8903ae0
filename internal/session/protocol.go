package session

import (
	"encoding/json"

	"github.com/roughboard/roughboard/internal/engine"
)

// Message is the envelope sent from the server to websocket clients.
// Clients send bare engine events ({"type":"pointer.down","x":1,"y":2}).
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"
)

// Frame is a rendered scene plus the interaction state that produced it.
type Frame struct {
	Seq      int64           `json:"seq"`
	Commands json.RawMessage `json:"commands"`
	State    engine.State    `json:"state"`
	Elements int             `json:"elements"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
